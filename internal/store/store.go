// Package store is the in-memory data engine behind the cookbook API. Every collection
// lives in one Store value so tests can build isolated instances from any seed.
package store

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"cookbook/internal/seed"
	"cookbook/internal/types"

	"github.com/samber/lo"
)

type Store struct {
	mu     sync.RWMutex
	seed   *seed.Dataset
	data   *seed.Dataset
	now    func() time.Time
	lastID int64
}

type Option func(*Store)

// WithClock replaces time.Now for timestamps and generated ids.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// New builds a store from a private copy of base. Later changes to base never reach the
// store and resets always return to the state base had here.
func New(base *seed.Dataset, opts ...Option) *Store {
	s := &Store{
		seed: base.Clone(),
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.data = s.seed.Clone()
	return s
}

// NewDefault builds a store from the embedded seed.
func NewDefault(opts ...Option) (*Store, error) {
	base, err := seed.Default()
	if err != nil {
		return nil, err
	}
	return New(base, opts...), nil
}

// Reset restores every collection to the seed.
func (s *Store) Reset(ctx context.Context) (types.Result, error) {
	s.mu.Lock()
	s.data = s.seed.Clone()
	s.mu.Unlock()
	slog.InfoContext(ctx, "database reset to seed")
	return types.Done("database reset successfully"), nil
}

// Snapshot is a deep copy of every collection, private recipes included.
func (s *Store) Snapshot() *seed.Dataset {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.Clone()
}

// Drift describes a post whose stored counters disagree with its child rows.
type Drift struct {
	PostID        string
	LikesCount    int
	Likes         int
	CommentsCount int
	Comments      int
}

// Reconcile recounts likes and comments for every post, rewrites drifted counters and
// returns what it corrected. A consistent store returns nothing.
func (s *Store) Reconcile(ctx context.Context) []Drift {
	s.mu.Lock()
	defer s.mu.Unlock()

	likes := lo.CountValuesBy(s.data.Likes, func(l types.Like) string { return l.PostID })
	comments := lo.CountValuesBy(s.data.Comments, func(c types.Comment) string { return c.PostID })

	var drifted []Drift
	for i := range s.data.CommunityPosts {
		p := &s.data.CommunityPosts[i]
		if p.LikesCount == likes[p.ID] && p.CommentsCount == comments[p.ID] {
			continue
		}
		drifted = append(drifted, Drift{
			PostID:        p.ID,
			LikesCount:    p.LikesCount,
			Likes:         likes[p.ID],
			CommentsCount: p.CommentsCount,
			Comments:      comments[p.ID],
		})
		slog.WarnContext(ctx, "post counters drifted", "post_id", p.ID,
			"likes_count", p.LikesCount, "likes", likes[p.ID],
			"comments_count", p.CommentsCount, "comments", comments[p.ID])
		p.LikesCount = likes[p.ID]
		p.CommentsCount = comments[p.ID]
	}
	return drifted
}

// nextID returns a millisecond timestamp, bumped past the last one handed out so ids
// stay unique within a burst. Callers hold the write lock.
func (s *Store) nextID() string {
	n := s.now().UnixMilli()
	if n <= s.lastID {
		n = s.lastID + 1
	}
	s.lastID = n
	return strconv.FormatInt(n, 10)
}

// Delete removes id from any collection and succeeds whether or not it was there.
// Deleting a post cascades to its likes and comments; deleting a like or a comment
// keeps the owning post's counter in step.
func (s *Store) Delete(ctx context.Context, kind types.Collection, id string) (types.Result, error) {
	switch kind {
	case types.Recipes, types.MyRecipes, types.SavedRecipes:
		return s.DeleteRecipe(ctx, kind, id)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var removed bool
	switch kind {
	case types.CommunityPosts:
		removed = s.deletePostLocked(id)
	case types.Likes:
		var like types.Like
		s.data.Likes, like, removed = without(s.data.Likes, id)
		if removed {
			s.adjustPost(like.PostID, -1, 0)
		}
	case types.Comments:
		var c types.Comment
		s.data.Comments, c, removed = without(s.data.Comments, id)
		if removed {
			s.adjustPost(c.PostID, 0, -1)
		}
	default:
		return types.Result{}, fmt.Errorf("unknown collection %q: %w", kind, types.ErrInvalid)
	}

	if !removed {
		return types.NoOp(fmt.Sprintf("%s %s not found, already deleted or never existed", kind, id)), nil
	}
	slog.DebugContext(ctx, "deleted record", "collection", kind, "id", id)
	return types.Done(fmt.Sprintf("%s %s deleted successfully", kind, id)), nil
}

type record interface {
	GetID() string
}

// without returns items minus the entry with id, the removed entry and whether one was found.
func without[T record](items []T, id string) ([]T, T, bool) {
	found, idx, ok := lo.FindIndexOf(items, func(item T) bool { return item.GetID() == id })
	if !ok {
		return items, found, false
	}
	return append(items[:idx:idx], items[idx+1:]...), found, true
}

func indexOf[T record](items []T, id string) int {
	_, idx, _ := lo.FindIndexOf(items, func(item T) bool { return item.GetID() == id })
	return idx
}
