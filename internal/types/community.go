package types

import (
	"fmt"
	"strings"
	"time"
)

type Post struct {
	ID            string    `json:"id"`
	UserID        string    `json:"userId"`
	Username      string    `json:"username"`
	Avatar        string    `json:"avatar,omitempty"`
	RecipeID      string    `json:"recipeId,omitempty"`
	Title         string    `json:"title"`
	Description   string    `json:"description,omitempty"`
	ImageURL      string    `json:"imageUrl,omitempty"`
	CreatedAt     time.Time `json:"createdAt,omitzero"`
	LikesCount    int       `json:"likesCount"`
	CommentsCount int       `json:"commentsCount"`
}

func (p Post) GetID() string { return p.ID }

// Merge applies a shallow patch. The id and the counters belong to the store and are
// never taken from the patch.
func (p Post) Merge(patch Patch) (Post, error) {
	out, err := merge(p, patch, p.ID)
	if err != nil {
		return out, err
	}
	out.LikesCount = p.LikesCount
	out.CommentsCount = p.CommentsCount
	return out, nil
}

func (p Post) Validate() error {
	if strings.TrimSpace(p.UserID) == "" {
		return fmt.Errorf("post author is required: %w", ErrInvalid)
	}
	if strings.TrimSpace(p.Title) == "" {
		return fmt.Errorf("post title is required: %w", ErrInvalid)
	}
	return nil
}

// Like is unique per (PostID, UserID).
type Like struct {
	ID        string    `json:"id"`
	PostID    string    `json:"postId"`
	UserID    string    `json:"userId"`
	CreatedAt time.Time `json:"createdAt,omitzero"`
}

func (l Like) GetID() string { return l.ID }

type Comment struct {
	ID        string    `json:"id"`
	PostID    string    `json:"postId"`
	UserID    string    `json:"userId"`
	Username  string    `json:"username"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt,omitzero"`
}

func (c Comment) GetID() string { return c.ID }

func (c Comment) Validate() error {
	if strings.TrimSpace(c.PostID) == "" {
		return fmt.Errorf("comment post id is required: %w", ErrInvalid)
	}
	if strings.TrimSpace(c.UserID) == "" {
		return fmt.Errorf("comment author is required: %w", ErrInvalid)
	}
	if strings.TrimSpace(c.Text) == "" {
		return fmt.Errorf("comment text is required: %w", ErrInvalid)
	}
	return nil
}
