package remote

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"cookbook/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := New(srv.URL+"/", Options{Retries: 1, RetryWait: time.Millisecond, HTTPClient: srv.Client()})
	require.NoError(t, err)
	return c, srv
}

func TestNewRequiresBaseURL(t *testing.T) {
	_, err := New("  ", Options{})
	assert.Error(t, err)
}

func TestGetRecipe(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/recipes/5", r.URL.Path)
		assert.NotEmpty(t, r.Header.Get("X-Correlation-ID"))
		_ = json.NewEncoder(w).Encode(types.Recipe{ID: "5", Name: "Cơm tấm"})
	}))

	r, err := c.GetRecipe(context.Background(), types.Recipes, "5")
	require.NoError(t, err)
	assert.Equal(t, "Cơm tấm", r.Name)
	assert.Equal(t, c.BaseURL(), c.baseURL)
}

func TestMissingIsNotFound(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no such recipe", http.StatusNotFound)
	}))

	_, err := c.GetRecipe(context.Background(), types.Recipes, "nope")
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrNotFound)
	assert.True(t, IsMissing(err))

	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusNotFound, se.StatusCode)
	assert.Equal(t, "no such recipe", se.Body)
	assert.Contains(t, se.Error(), "get recipes request failed: status 404")
}

func TestRetriesServerErrorsOnce(t *testing.T) {
	var calls atomic.Int32
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_ = json.NewEncoder(w).Encode([]types.Post{{ID: "post-1"}})
	}))

	posts, err := c.ListPosts(context.Background())
	require.NoError(t, err)
	assert.Len(t, posts, 1)
	assert.EqualValues(t, 2, calls.Load())
}

func TestRetriesExhausted(t *testing.T) {
	var calls atomic.Int32
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))

	_, err := c.ListRecipes(context.Background(), types.Recipes)
	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusInternalServerError, se.StatusCode)
	assert.False(t, IsMissing(err))
	assert.EqualValues(t, 2, calls.Load())
}

func TestUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c, err := New(url, Options{Retries: 0, Timeout: time.Second})
	require.NoError(t, err)
	_, err = c.ListPosts(context.Background())
	require.Error(t, err)
	assert.False(t, IsMissing(err))
}

func TestUpdateAcceptsEnvelopeOrRecord(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		var patch types.Patch
		require.NoError(t, json.NewDecoder(r.Body).Decode(&patch))
		assert.Equal(t, "Bún riêu", patch["name"])

		switch r.URL.Path {
		case "/myRecipes/16":
			_, _ = io.WriteString(w, `{"success":true,"changed":true,"message":"updated","recipe":{"id":"16","name":"Bún riêu"}}`)
		case "/recipes/16":
			_, _ = io.WriteString(w, `{"id":"16","name":"Bún riêu"}`)
		}
	}))
	ctx := context.Background()
	patch := types.Patch{"name": "Bún riêu"}

	res, err := c.UpdateRecipe(ctx, types.MyRecipes, "16", patch)
	require.NoError(t, err)
	assert.True(t, res.Changed)
	assert.Equal(t, "updated", res.Message)
	require.NotNil(t, res.Recipe)
	assert.Equal(t, "Bún riêu", res.Recipe.Name)

	res, err = c.UpdateRecipe(ctx, types.Recipes, "16", patch)
	require.NoError(t, err)
	assert.True(t, res.Success)
	require.NotNil(t, res.Recipe)
	assert.Equal(t, "16", res.Recipe.ID)
}

func TestCommunityRoutes(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method + " " + r.URL.Path {
		case "GET /likes":
			assert.Equal(t, "post-1", r.URL.Query().Get("postId"))
			_, _ = io.WriteString(w, `[{"id":"like-1","postId":"post-1","userId":"u"}]`)
		case "POST /likes":
			var l types.Like
			require.NoError(t, json.NewDecoder(r.Body).Decode(&l))
			_ = json.NewEncoder(w).Encode(types.LikeResult{Result: types.Done("liked"), Like: &l})
		case "DELETE /likes/post-1/u":
			_, _ = io.WriteString(w, `{}`)
		case "GET /comments":
			_, _ = io.WriteString(w, `[]`)
		case "POST /comments":
			var cm types.Comment
			require.NoError(t, json.NewDecoder(r.Body).Decode(&cm))
			cm.ID = "cmt-9"
			_ = json.NewEncoder(w).Encode(cm)
		case "GET /myRecipes":
			assert.Equal(t, "user-1", r.URL.Query().Get("createdBy"))
			_, _ = io.WriteString(w, `[]`)
		default:
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusTeapot)
		}
	}))
	ctx := context.Background()

	likes, err := c.PostLikes(ctx, "post-1")
	require.NoError(t, err)
	assert.Len(t, likes, 1)

	lr, err := c.Like(ctx, "post-1", "u")
	require.NoError(t, err)
	require.NotNil(t, lr.Like)
	assert.Equal(t, "u", lr.Like.UserID)

	ur, err := c.Unlike(ctx, "post-1", "u")
	require.NoError(t, err)
	assert.True(t, ur.Success)

	comments, err := c.PostComments(ctx, "post-1")
	require.NoError(t, err)
	assert.Empty(t, comments)

	cr, err := c.AddComment(ctx, "post-1", "u", "user", "ngon")
	require.NoError(t, err)
	require.NotNil(t, cr.Comment)
	assert.Equal(t, "cmt-9", cr.Comment.ID)
	assert.True(t, cr.Changed)

	_, err = c.ListMyRecipes(ctx, "user-1")
	require.NoError(t, err)
}
