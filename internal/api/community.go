package api

import (
	"context"

	"cookbook/internal/types"
)

func (f *Facade) ListPosts(ctx context.Context) ([]types.Post, error) {
	return call(ctx, f, "list posts", func(ctx context.Context, b Backend) ([]types.Post, error) {
		return b.ListPosts(ctx)
	})
}

// GetPost is a required lookup. A post missing everywhere is types.ErrNotFound.
func (f *Facade) GetPost(ctx context.Context, id string) (types.Post, error) {
	return call(ctx, f, "get post", func(ctx context.Context, b Backend) (types.Post, error) {
		return b.GetPost(ctx, id)
	})
}

func (f *Facade) CreatePost(ctx context.Context, p types.Post) (types.Post, error) {
	return call(ctx, f, "create post", func(ctx context.Context, b Backend) (types.Post, error) {
		return b.CreatePost(ctx, p)
	})
}

func (f *Facade) UpdatePost(ctx context.Context, id string, patch types.Patch) (types.PostResult, error) {
	return idempotent(ctx, f, "update post",
		func(ctx context.Context, b Backend) (types.PostResult, error) {
			return b.UpdatePost(ctx, id, patch)
		},
		func(r types.Result) (types.PostResult, error) {
			echo, err := types.Post{ID: id}.Merge(patch)
			if err != nil {
				return types.PostResult{}, err
			}
			return types.PostResult{Result: r, Post: &echo}, nil
		})
}

// DeletePost cascades to the post's likes and comments. Deleting a missing post is
// types.ErrNotFound; use Delete for the idempotent form.
func (f *Facade) DeletePost(ctx context.Context, id string) (types.Result, error) {
	return call(ctx, f, "delete post", func(ctx context.Context, b Backend) (types.Result, error) {
		return b.DeletePost(ctx, id)
	})
}

func (f *Facade) PostLikes(ctx context.Context, postID string) ([]types.Like, error) {
	return call(ctx, f, "post likes", func(ctx context.Context, b Backend) ([]types.Like, error) {
		return b.PostLikes(ctx, postID)
	})
}

func (f *Facade) Like(ctx context.Context, postID, userID string) (types.LikeResult, error) {
	return call(ctx, f, "like post", func(ctx context.Context, b Backend) (types.LikeResult, error) {
		return b.Like(ctx, postID, userID)
	})
}

func (f *Facade) Unlike(ctx context.Context, postID, userID string) (types.Result, error) {
	return idempotent(ctx, f, "unlike post", func(ctx context.Context, b Backend) (types.Result, error) {
		return b.Unlike(ctx, postID, userID)
	}, asResult)
}

func (f *Facade) PostComments(ctx context.Context, postID string) ([]types.Comment, error) {
	return call(ctx, f, "post comments", func(ctx context.Context, b Backend) ([]types.Comment, error) {
		return b.PostComments(ctx, postID)
	})
}

func (f *Facade) AddComment(ctx context.Context, postID, userID, username, text string) (types.CommentResult, error) {
	return call(ctx, f, "add comment", func(ctx context.Context, b Backend) (types.CommentResult, error) {
		return b.AddComment(ctx, postID, userID, username, text)
	})
}

func (f *Facade) DeleteComment(ctx context.Context, commentID string) (types.Result, error) {
	return call(ctx, f, "delete comment", func(ctx context.Context, b Backend) (types.Result, error) {
		return b.DeleteComment(ctx, commentID)
	})
}
