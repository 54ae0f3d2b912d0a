// Package api is the single entry point the app calls. It answers from the in-memory
// store when it can and falls back to the remote mock server when the store fails.
package api

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"cookbook/internal/remote"
	"cookbook/internal/store"
	"cookbook/internal/types"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Backend is one source of cookbook data. The store and the remote client both satisfy
// it, and so does the Facade that composes them.
type Backend interface {
	ListRecipes(ctx context.Context, kind types.Collection) ([]types.Recipe, error)
	ListMyRecipes(ctx context.Context, userID string) ([]types.Recipe, error)
	GetRecipe(ctx context.Context, kind types.Collection, id string) (types.Recipe, error)
	RecipesByCategory(ctx context.Context, category string) ([]types.Recipe, error)
	SearchRecipes(ctx context.Context, query string) ([]types.Recipe, error)
	CreateRecipe(ctx context.Context, kind types.Collection, r types.Recipe) (types.Recipe, error)
	UpdateRecipe(ctx context.Context, kind types.Collection, id string, patch types.Patch) (types.RecipeResult, error)
	DeleteRecipe(ctx context.Context, kind types.Collection, id string) (types.Result, error)
	SaveRecipe(ctx context.Context, r types.Recipe) (types.RecipeResult, error)

	ListPosts(ctx context.Context) ([]types.Post, error)
	GetPost(ctx context.Context, id string) (types.Post, error)
	CreatePost(ctx context.Context, p types.Post) (types.Post, error)
	UpdatePost(ctx context.Context, id string, patch types.Patch) (types.PostResult, error)
	DeletePost(ctx context.Context, id string) (types.Result, error)
	PostLikes(ctx context.Context, postID string) ([]types.Like, error)
	Like(ctx context.Context, postID, userID string) (types.LikeResult, error)
	Unlike(ctx context.Context, postID, userID string) (types.Result, error)
	PostComments(ctx context.Context, postID string) ([]types.Comment, error)
	AddComment(ctx context.Context, postID, userID, username, text string) (types.CommentResult, error)
	DeleteComment(ctx context.Context, commentID string) (types.Result, error)

	Delete(ctx context.Context, kind types.Collection, id string) (types.Result, error)
}

var (
	_ Backend = (*store.Store)(nil)
	_ Backend = (*remote.Client)(nil)
	_ Backend = (*Facade)(nil)
)

// ErrNoBackend is returned when neither a local store nor a remote is configured.
var ErrNoBackend = errors.New("no data backend configured")

type resetter interface {
	Reset(ctx context.Context) (types.Result, error)
}

type Facade struct {
	local  Backend
	remote Backend
	tracer trace.Tracer
	now    func() time.Time
}

type Option func(*Facade)

func WithClock(now func() time.Time) Option {
	return func(f *Facade) { f.now = now }
}

// New composes the backends. Either may be nil: a nil local means remote only and a nil
// remote disables the fallback.
func New(local, remote Backend, opts ...Option) *Facade {
	f := &Facade{
		local:  local,
		remote: remote,
		tracer: otel.Tracer("cookbook/internal/api"),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// call runs fn against the local store, then against the remote if the store failed.
// Invalid input is the caller's problem and never retried remotely.
func call[T any](ctx context.Context, f *Facade, op string, fn func(context.Context, Backend) (T, error)) (T, error) {
	ctx, span := f.tracer.Start(ctx, op, trace.WithAttributes(attribute.String("cookbook.op", op)))
	defer span.End()

	var (
		out T
		err error
	)
	if f.local != nil {
		out, err = fn(ctx, f.local)
		if err == nil {
			return out, nil
		}
		if errors.Is(err, types.ErrInvalid) || f.remote == nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return out, err
		}
		slog.WarnContext(ctx, "local store failed, trying remote", "op", op, "error", err)
	}
	if f.remote == nil {
		return out, ErrNoBackend
	}

	span.SetAttributes(attribute.Bool("cookbook.remote", true))
	out, err = fn(ctx, f.remote)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return out, err
}

// idempotent is call for operations whose target may legitimately be absent. A remote
// 404 becomes a success carrying the result built by missing.
func idempotent[T any](ctx context.Context, f *Facade, op string, fn func(context.Context, Backend) (T, error), missing func(types.Result) (T, error)) (T, error) {
	out, err := call(ctx, f, op, fn)
	if err != nil && remote.IsMissing(err) {
		slog.InfoContext(ctx, "remote target missing, treating as success", "op", op)
		return missing(types.NoOp(op + " attempted, may not exist"))
	}
	return out, err
}

func asResult(r types.Result) (types.Result, error) { return r, nil }

// Reset restores the local store to its seed. The remote is never reset.
func (f *Facade) Reset(ctx context.Context) (types.Result, error) {
	r, ok := f.local.(resetter)
	if !ok {
		return types.Result{}, ErrNoBackend
	}
	return r.Reset(ctx)
}
