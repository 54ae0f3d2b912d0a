package remote

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"cookbook/internal/types"
)

func (c *Client) ListPosts(ctx context.Context) ([]types.Post, error) {
	var out []types.Post
	if err := c.do(ctx, "list posts", http.MethodGet, route(string(types.CommunityPosts)), nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetPost(ctx context.Context, id string) (types.Post, error) {
	var out types.Post
	err := c.do(ctx, "get post", http.MethodGet, route(string(types.CommunityPosts), id), nil, nil, &out)
	return out, err
}

func (c *Client) CreatePost(ctx context.Context, p types.Post) (types.Post, error) {
	var out types.Post
	err := c.do(ctx, "create post", http.MethodPost, route(string(types.CommunityPosts)), nil, p, &out)
	return out, err
}

func (c *Client) UpdatePost(ctx context.Context, id string, patch types.Patch) (types.PostResult, error) {
	op := "update post"
	var raw json.RawMessage
	if err := c.do(ctx, op, http.MethodPut, route(string(types.CommunityPosts), id), nil, patch, &raw); err != nil {
		return types.PostResult{}, err
	}
	res, rec, err := decodeResult[types.Post](op, raw, "post")
	if err != nil {
		return types.PostResult{}, err
	}
	return types.PostResult{Result: res, Post: rec}, nil
}

func (c *Client) DeletePost(ctx context.Context, id string) (types.Result, error) {
	return c.Delete(ctx, types.CommunityPosts, id)
}

func (c *Client) PostLikes(ctx context.Context, postID string) ([]types.Like, error) {
	var out []types.Like
	q := url.Values{"postId": {postID}}
	if err := c.do(ctx, "post likes", http.MethodGet, route(string(types.Likes)), q, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Like(ctx context.Context, postID, userID string) (types.LikeResult, error) {
	op := "like post"
	var raw json.RawMessage
	in := types.Like{PostID: postID, UserID: userID}
	if err := c.do(ctx, op, http.MethodPost, route(string(types.Likes)), nil, in, &raw); err != nil {
		return types.LikeResult{}, err
	}
	res, rec, err := decodeResult[types.Like](op, raw, "like")
	if err != nil {
		return types.LikeResult{}, err
	}
	return types.LikeResult{Result: res, Like: rec}, nil
}

func (c *Client) Unlike(ctx context.Context, postID, userID string) (types.Result, error) {
	op := "unlike post"
	var raw json.RawMessage
	if err := c.do(ctx, op, http.MethodDelete, route(string(types.Likes), postID, userID), nil, nil, &raw); err != nil {
		return types.Result{}, err
	}
	res, _, err := decodeResult[json.RawMessage](op, raw, "")
	return res, err
}

func (c *Client) PostComments(ctx context.Context, postID string) ([]types.Comment, error) {
	var out []types.Comment
	q := url.Values{"postId": {postID}}
	if err := c.do(ctx, "post comments", http.MethodGet, route(string(types.Comments)), q, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) AddComment(ctx context.Context, postID, userID, username, text string) (types.CommentResult, error) {
	op := "add comment"
	var raw json.RawMessage
	in := types.Comment{PostID: postID, UserID: userID, Username: username, Text: text}
	if err := c.do(ctx, op, http.MethodPost, route(string(types.Comments)), nil, in, &raw); err != nil {
		return types.CommentResult{}, err
	}
	res, rec, err := decodeResult[types.Comment](op, raw, "comment")
	if err != nil {
		return types.CommentResult{}, err
	}
	return types.CommentResult{Result: res, Comment: rec}, nil
}

func (c *Client) DeleteComment(ctx context.Context, commentID string) (types.Result, error) {
	return c.Delete(ctx, types.Comments, commentID)
}
