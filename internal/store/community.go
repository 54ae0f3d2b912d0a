package store

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"cookbook/internal/types"

	"github.com/samber/lo"
)

func (s *Store) ListPosts(_ context.Context) ([]types.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]types.Post{}, s.data.CommunityPosts...), nil
}

// GetPost is a required lookup and fails with types.ErrNotFound.
func (s *Store) GetPost(_ context.Context, id string) (types.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := lo.Find(s.data.CommunityPosts, func(p types.Post) bool { return p.ID == id })
	if !ok {
		return types.Post{}, fmt.Errorf("post %s: %w", id, types.ErrNotFound)
	}
	return p, nil
}

// CreatePost stores p under a post- prefixed id with zeroed counters.
func (s *Store) CreatePost(ctx context.Context, p types.Post) (types.Post, error) {
	if err := p.Validate(); err != nil {
		return types.Post{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	p.ID = "post-" + s.nextID()
	p.CreatedAt = s.now().UTC()
	p.LikesCount = 0
	p.CommentsCount = 0
	s.data.CommunityPosts = append(s.data.CommunityPosts, p)
	slog.DebugContext(ctx, "created post", "id", p.ID, "user_id", p.UserID)
	return p, nil
}

// UpdatePost shallow-merges patch into the post. Counters are not writable and a missing
// post is a no-op success.
func (s *Store) UpdatePost(ctx context.Context, id string, patch types.Patch) (types.PostResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := indexOf(s.data.CommunityPosts, id)
	if idx < 0 {
		echo, err := types.Post{ID: id}.Merge(patch)
		if err != nil {
			return types.PostResult{}, err
		}
		slog.DebugContext(ctx, "update skipped, post absent", "id", id)
		return types.PostResult{Result: types.NoOp(fmt.Sprintf("post %s not found, treated as no-op", id)), Post: &echo}, nil
	}
	merged, err := s.data.CommunityPosts[idx].Merge(patch)
	if err != nil {
		return types.PostResult{}, err
	}
	if err := merged.Validate(); err != nil {
		return types.PostResult{}, err
	}
	s.data.CommunityPosts[idx] = merged
	return types.PostResult{Result: types.Done(fmt.Sprintf("post %s updated", id)), Post: &merged}, nil
}

// DeletePost removes the post with its likes and comments. A missing post is
// types.ErrNotFound; Delete(ctx, types.CommunityPosts, id) is the idempotent form.
func (s *Store) DeletePost(ctx context.Context, id string) (types.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.deletePostLocked(id) {
		return types.Result{}, fmt.Errorf("post %s: %w", id, types.ErrNotFound)
	}
	slog.DebugContext(ctx, "deleted post", "id", id)
	return types.Done("post deleted successfully"), nil
}

func (s *Store) deletePostLocked(id string) bool {
	var removed bool
	s.data.CommunityPosts, _, removed = without(s.data.CommunityPosts, id)
	if !removed {
		return false
	}
	s.data.Likes = lo.Reject(s.data.Likes, func(l types.Like, _ int) bool { return l.PostID == id })
	s.data.Comments = lo.Reject(s.data.Comments, func(c types.Comment, _ int) bool { return c.PostID == id })
	return true
}

// adjustPost moves a post's counters by the given deltas, never below zero.
func (s *Store) adjustPost(postID string, likes, comments int) {
	idx := indexOf(s.data.CommunityPosts, postID)
	if idx < 0 {
		return
	}
	p := &s.data.CommunityPosts[idx]
	p.LikesCount = max(p.LikesCount+likes, 0)
	p.CommentsCount = max(p.CommentsCount+comments, 0)
}

func (s *Store) PostLikes(_ context.Context, postID string) ([]types.Like, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return lo.Filter(s.data.Likes, func(l types.Like, _ int) bool { return l.PostID == postID }), nil
}

// Like records one like per user and post. Liking again is a no-op success that returns
// the existing like.
func (s *Store) Like(ctx context.Context, postID, userID string) (types.LikeResult, error) {
	if strings.TrimSpace(postID) == "" || strings.TrimSpace(userID) == "" {
		return types.LikeResult{}, fmt.Errorf("like needs a post and a user: %w", types.ErrInvalid)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if indexOf(s.data.CommunityPosts, postID) < 0 {
		return types.LikeResult{}, fmt.Errorf("post %s: %w", postID, types.ErrNotFound)
	}
	if existing, ok := lo.Find(s.data.Likes, func(l types.Like) bool {
		return l.PostID == postID && l.UserID == userID
	}); ok {
		return types.LikeResult{Result: types.NoOp("post already liked"), Like: &existing}, nil
	}

	like := types.Like{
		ID:        "like-" + s.nextID(),
		PostID:    postID,
		UserID:    userID,
		CreatedAt: s.now().UTC(),
	}
	s.data.Likes = append(s.data.Likes, like)
	s.adjustPost(postID, 1, 0)
	slog.DebugContext(ctx, "liked post", "post_id", postID, "user_id", userID)
	return types.LikeResult{Result: types.Done("post liked successfully"), Like: &like}, nil
}

// Unlike removes the user's like. Unliking a post that was not liked is a no-op success.
func (s *Store) Unlike(ctx context.Context, postID, userID string) (types.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, idx, ok := lo.FindIndexOf(s.data.Likes, func(l types.Like) bool {
		return l.PostID == postID && l.UserID == userID
	})
	if !ok {
		return types.NoOp("like not found, already unliked"), nil
	}
	s.data.Likes = append(s.data.Likes[:idx:idx], s.data.Likes[idx+1:]...)
	s.adjustPost(postID, -1, 0)
	slog.DebugContext(ctx, "unliked post", "post_id", postID, "user_id", userID)
	return types.Done("post unliked successfully"), nil
}

func (s *Store) PostComments(_ context.Context, postID string) ([]types.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return lo.Filter(s.data.Comments, func(c types.Comment, _ int) bool { return c.PostID == postID }), nil
}

// AddComment appends a comment and bumps the post's comment counter. Commenting on a
// missing post is types.ErrNotFound.
func (s *Store) AddComment(ctx context.Context, postID, userID, username, text string) (types.CommentResult, error) {
	c := types.Comment{PostID: postID, UserID: userID, Username: username, Text: text}
	if err := c.Validate(); err != nil {
		return types.CommentResult{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if indexOf(s.data.CommunityPosts, postID) < 0 {
		return types.CommentResult{}, fmt.Errorf("post %s: %w", postID, types.ErrNotFound)
	}
	c.ID = "cmt-" + s.nextID()
	c.CreatedAt = s.now().UTC()
	s.data.Comments = append(s.data.Comments, c)
	s.adjustPost(postID, 0, 1)
	slog.DebugContext(ctx, "added comment", "post_id", postID, "comment_id", c.ID)
	return types.CommentResult{Result: types.Done("comment added successfully"), Comment: &c}, nil
}

// DeleteComment removes a comment and decrements the post's counter. A missing comment
// is types.ErrNotFound; Delete(ctx, types.Comments, id) is the idempotent form.
func (s *Store) DeleteComment(ctx context.Context, commentID string) (types.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var (
		c       types.Comment
		removed bool
	)
	s.data.Comments, c, removed = without(s.data.Comments, commentID)
	if !removed {
		return types.Result{}, fmt.Errorf("comment %s: %w", commentID, types.ErrNotFound)
	}
	s.adjustPost(c.PostID, 0, -1)
	slog.DebugContext(ctx, "deleted comment", "post_id", c.PostID, "comment_id", commentID)
	return types.Done("comment deleted successfully"), nil
}
