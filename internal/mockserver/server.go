// Package mockserver serves the cookbook collections over the REST surface the remote
// client expects, so the app can run against a local stand-in for the legacy server.
package mockserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"strconv"

	"cookbook/internal/api"
	"cookbook/internal/planner"
	"cookbook/internal/types"
)

type resetter interface {
	Reset(ctx context.Context) (types.Result, error)
}

type server struct {
	backend api.Backend
	planner *planner.Generator
}

// NewHandler serves backend. Reset is only routed when the backend supports it.
func NewHandler(backend api.Backend, gen *planner.Generator) *server {
	if gen == nil {
		gen = planner.New()
	}
	return &server{backend: backend, planner: gen}
}

func (s *server) Register(mux *http.ServeMux) {
	for _, kind := range []types.Collection{types.Recipes, types.MyRecipes, types.SavedRecipes} {
		base := "/" + string(kind)
		mux.HandleFunc("GET "+base, s.listRecipes(kind))
		mux.HandleFunc("GET "+base+"/{id}", s.getRecipe(kind))
		mux.HandleFunc("POST "+base, s.createRecipe(kind))
		mux.HandleFunc("PUT "+base+"/{id}", s.updateRecipe(kind))
		mux.HandleFunc("DELETE "+base+"/{id}", s.delete(kind))
	}
	mux.HandleFunc("GET /recipes/search", s.handleSearch)

	mux.HandleFunc("GET /communityPosts", s.handleListPosts)
	mux.HandleFunc("GET /communityPosts/{id}", s.handleGetPost)
	mux.HandleFunc("POST /communityPosts", s.handleCreatePost)
	mux.HandleFunc("PUT /communityPosts/{id}", s.handleUpdatePost)
	mux.HandleFunc("DELETE /communityPosts/{id}", s.delete(types.CommunityPosts))

	mux.HandleFunc("GET /likes", s.handleLikes)
	mux.HandleFunc("POST /likes", s.handleLike)
	mux.HandleFunc("DELETE /likes/{id}", s.delete(types.Likes))
	mux.HandleFunc("DELETE /likes/{postId}/{userId}", s.handleUnlike)

	mux.HandleFunc("GET /comments", s.handleComments)
	mux.HandleFunc("POST /comments", s.handleAddComment)
	mux.HandleFunc("DELETE /comments/{id}", s.delete(types.Comments))

	mux.HandleFunc("GET /mealplan", s.handleMealPlan)
	mux.HandleFunc("GET /mealplan/random", s.handleRandomPlan)

	if _, ok := s.backend.(resetter); ok {
		mux.HandleFunc("POST /reset", s.handleReset)
	}
}

func (s *server) listRecipes(kind types.Collection) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		var (
			recipes []types.Recipe
			err     error
		)
		switch {
		case kind == types.Recipes && r.URL.Query().Has("category"):
			recipes, err = s.backend.RecipesByCategory(ctx, r.URL.Query().Get("category"))
		case kind == types.MyRecipes:
			recipes, err = s.backend.ListMyRecipes(ctx, r.URL.Query().Get("createdBy"))
		default:
			recipes, err = s.backend.ListRecipes(ctx, kind)
		}
		respond(w, r, recipes, err)
	}
}

func (s *server) handleSearch(w http.ResponseWriter, r *http.Request) {
	recipes, err := s.backend.SearchRecipes(r.Context(), r.URL.Query().Get("q"))
	respond(w, r, recipes, err)
}

func (s *server) getRecipe(kind types.Collection) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		recipe, err := s.backend.GetRecipe(r.Context(), kind, r.PathValue("id"))
		respond(w, r, recipe, err)
	}
}

func (s *server) createRecipe(kind types.Collection) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in types.Recipe
		if !decode(w, r, &in) {
			return
		}
		if kind == types.SavedRecipes {
			res, err := s.backend.SaveRecipe(r.Context(), in)
			respond(w, r, res, err)
			return
		}
		out, err := s.backend.CreateRecipe(r.Context(), kind, in)
		respondStatus(w, r, http.StatusCreated, out, err)
	}
}

func (s *server) updateRecipe(kind types.Collection) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var patch types.Patch
		if !decode(w, r, &patch) {
			return
		}
		res, err := s.backend.UpdateRecipe(r.Context(), kind, r.PathValue("id"), patch)
		respondChanged(w, r, res.Result, res, err)
	}
}

// delete answers 404 when nothing was removed.
func (s *server) delete(kind types.Collection) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, err := s.backend.Delete(r.Context(), kind, r.PathValue("id"))
		respondChanged(w, r, res, res, err)
	}
}

func (s *server) handleListPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := s.backend.ListPosts(r.Context())
	respond(w, r, posts, err)
}

func (s *server) handleGetPost(w http.ResponseWriter, r *http.Request) {
	post, err := s.backend.GetPost(r.Context(), r.PathValue("id"))
	respond(w, r, post, err)
}

func (s *server) handleCreatePost(w http.ResponseWriter, r *http.Request) {
	var in types.Post
	if !decode(w, r, &in) {
		return
	}
	out, err := s.backend.CreatePost(r.Context(), in)
	respondStatus(w, r, http.StatusCreated, out, err)
}

func (s *server) handleUpdatePost(w http.ResponseWriter, r *http.Request) {
	var patch types.Patch
	if !decode(w, r, &patch) {
		return
	}
	res, err := s.backend.UpdatePost(r.Context(), r.PathValue("id"), patch)
	respondChanged(w, r, res.Result, res, err)
}

func (s *server) handleLikes(w http.ResponseWriter, r *http.Request) {
	postID := r.URL.Query().Get("postId")
	if postID == "" {
		http.Error(w, "postId is required", http.StatusBadRequest)
		return
	}
	likes, err := s.backend.PostLikes(r.Context(), postID)
	respond(w, r, likes, err)
}

func (s *server) handleLike(w http.ResponseWriter, r *http.Request) {
	var in types.Like
	if !decode(w, r, &in) {
		return
	}
	res, err := s.backend.Like(r.Context(), in.PostID, in.UserID)
	respond(w, r, res, err)
}

func (s *server) handleUnlike(w http.ResponseWriter, r *http.Request) {
	res, err := s.backend.Unlike(r.Context(), r.PathValue("postId"), r.PathValue("userId"))
	respond(w, r, res, err)
}

func (s *server) handleComments(w http.ResponseWriter, r *http.Request) {
	postID := r.URL.Query().Get("postId")
	if postID == "" {
		http.Error(w, "postId is required", http.StatusBadRequest)
		return
	}
	comments, err := s.backend.PostComments(r.Context(), postID)
	respond(w, r, comments, err)
}

func (s *server) handleAddComment(w http.ResponseWriter, r *http.Request) {
	var in types.Comment
	if !decode(w, r, &in) {
		return
	}
	res, err := s.backend.AddComment(r.Context(), in.PostID, in.UserID, in.Username, in.Text)
	respondStatus(w, r, http.StatusCreated, res, err)
}

func (s *server) handleReset(w http.ResponseWriter, r *http.Request) {
	res, err := s.backend.(resetter).Reset(r.Context())
	respond(w, r, res, err)
}

func (s *server) handleMealPlan(w http.ResponseWriter, r *http.Request) {
	budget, err := strconv.ParseFloat(r.URL.Query().Get("budget"), 64)
	if err != nil || math.IsNaN(budget) || math.IsInf(budget, 0) {
		http.Error(w, "budget must be a number", http.StatusBadRequest)
		return
	}
	pool, err := s.backend.ListRecipes(r.Context(), types.Recipes)
	if err != nil {
		respond(w, r, nil, err)
		return
	}
	res, err := s.planner.GenerateWeeklyPlan(r.Context(), budget, pool)
	if errors.Is(err, planner.ErrBudgetTooLow) {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	respond(w, r, res, err)
}

func (s *server) handleRandomPlan(w http.ResponseWriter, r *http.Request) {
	pool, err := s.backend.ListRecipes(r.Context(), types.Recipes)
	if err != nil {
		respond(w, r, nil, err)
		return
	}
	plan, err := s.planner.RandomPlan(r.Context(), pool)
	respond(w, r, plan, err)
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		http.Error(w, fmt.Sprintf("invalid request body: %v", err), http.StatusBadRequest)
		return false
	}
	return true
}

func respond(w http.ResponseWriter, r *http.Request, v any, err error) {
	respondStatus(w, r, http.StatusOK, v, err)
}

// respondChanged turns an unchanged mutation into a 404.
func respondChanged(w http.ResponseWriter, r *http.Request, res types.Result, v any, err error) {
	if err == nil && !res.Changed {
		http.Error(w, res.Message, http.StatusNotFound)
		return
	}
	respond(w, r, v, err)
}

func respondStatus(w http.ResponseWriter, r *http.Request, status int, v any, err error) {
	if err != nil {
		code := http.StatusInternalServerError
		switch {
		case errors.Is(err, types.ErrNotFound):
			code = http.StatusNotFound
		case errors.Is(err, types.ErrInvalid), errors.Is(err, planner.ErrNoRecipes):
			code = http.StatusBadRequest
		default:
			slog.ErrorContext(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		}
		http.Error(w, err.Error(), code)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.ErrorContext(r.Context(), "failed to write response", "error", err)
	}
}
