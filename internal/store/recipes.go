package store

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"cookbook/internal/types"

	"github.com/samber/lo"
)

// recipesLocked returns the backing slice for a recipe collection.
func (s *Store) recipesLocked(kind types.Collection) (*[]types.Recipe, error) {
	switch kind {
	case types.Recipes:
		return &s.data.Recipes, nil
	case types.MyRecipes:
		return &s.data.MyRecipes, nil
	case types.SavedRecipes:
		return &s.data.SavedRecipes, nil
	}
	return nil, fmt.Errorf("%q is not a recipe collection: %w", kind, types.ErrInvalid)
}

func cloneAll(recipes []types.Recipe) []types.Recipe {
	return lo.Map(recipes, func(r types.Recipe, _ int) types.Recipe { return r.Clone() })
}

// ListRecipes returns a collection. The public collection hides private recipes.
func (s *Store) ListRecipes(_ context.Context, kind types.Collection) ([]types.Recipe, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items, err := s.recipesLocked(kind)
	if err != nil {
		return nil, err
	}
	if kind == types.Recipes {
		return cloneAll(lo.Filter(*items, func(r types.Recipe, _ int) bool { return r.Public() })), nil
	}
	return cloneAll(*items), nil
}

// ListMyRecipes filters authored recipes by createdBy. An empty userID returns them all.
func (s *Store) ListMyRecipes(_ context.Context, userID string) ([]types.Recipe, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if userID == "" {
		return cloneAll(s.data.MyRecipes), nil
	}
	return cloneAll(lo.Filter(s.data.MyRecipes, func(r types.Recipe, _ int) bool { return r.CreatedBy == userID })), nil
}

// GetRecipe is a required lookup and fails with types.ErrNotFound.
func (s *Store) GetRecipe(_ context.Context, kind types.Collection, id string) (types.Recipe, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items, err := s.recipesLocked(kind)
	if err != nil {
		return types.Recipe{}, err
	}
	r, ok := lo.Find(*items, func(r types.Recipe) bool { return r.ID == id })
	if !ok {
		return types.Recipe{}, fmt.Errorf("recipe %s in %s: %w", id, kind, types.ErrNotFound)
	}
	return r.Clone(), nil
}

func (s *Store) RecipesByCategory(_ context.Context, category string) ([]types.Recipe, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneAll(lo.Filter(s.data.Recipes, func(r types.Recipe, _ int) bool {
		return r.Category == category && r.Public()
	})), nil
}

// SearchRecipes matches public recipe names case-insensitively. A blank query matches all.
func (s *Store) SearchRecipes(_ context.Context, query string) ([]types.Recipe, error) {
	q := strings.ToLower(strings.TrimSpace(query))
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneAll(lo.Filter(s.data.Recipes, func(r types.Recipe, _ int) bool {
		return r.Public() && strings.Contains(strings.ToLower(r.Name), q)
	})), nil
}

// CreateRecipe appends r to the public or authored collection. A blank id is generated;
// a supplied id must be free. Authored recipes start private unless marked public.
func (s *Store) CreateRecipe(ctx context.Context, kind types.Collection, r types.Recipe) (types.Recipe, error) {
	if kind == types.SavedRecipes {
		return types.Recipe{}, fmt.Errorf("saved recipes are added with SaveRecipe: %w", types.ErrInvalid)
	}
	if err := r.Validate(); err != nil {
		return types.Recipe{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	items, err := s.recipesLocked(kind)
	if err != nil {
		return types.Recipe{}, err
	}

	r = r.Clone()
	if r.ID == "" {
		r.ID = s.nextID()
	} else if indexOf(*items, r.ID) >= 0 {
		return types.Recipe{}, fmt.Errorf("recipe %s already exists in %s: %w", r.ID, kind, types.ErrInvalid)
	}
	now := s.now().UTC()
	r.CreatedAt = now
	if r.EstimatedCost == nil {
		r.EstimatedCost = types.Float(r.DeriveCost())
	}

	switch kind {
	case types.MyRecipes:
		if r.IsPublic != nil && *r.IsPublic {
			r.Status = types.StatusPublic
			r.PublishedAt = &now
		} else {
			r.IsPublic = types.Bool(false)
			r.Status = types.StatusPrivate
			r.PublishedAt = nil
		}
	case types.Recipes:
		if r.Status == "" {
			r.Status = lo.Ternary(r.Public(), types.StatusPublic, types.StatusPrivate)
		}
	}

	*items = append(*items, r)
	slog.DebugContext(ctx, "created recipe", "collection", kind, "id", r.ID)
	return r.Clone(), nil
}

// UpdateRecipe shallow-merges patch into the recipe. A recipe missing from kind is a
// no-op success whose Recipe is the patch applied to an empty record.
func (s *Store) UpdateRecipe(ctx context.Context, kind types.Collection, id string, patch types.Patch) (types.RecipeResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	items, err := s.recipesLocked(kind)
	if err != nil {
		return types.RecipeResult{}, err
	}

	idx := indexOf(*items, id)
	if idx < 0 {
		echo, err := types.Recipe{ID: id}.Merge(patch)
		if err != nil {
			return types.RecipeResult{}, err
		}
		slog.DebugContext(ctx, "update skipped, recipe absent", "collection", kind, "id", id)
		return types.RecipeResult{
			Result: types.NoOp(fmt.Sprintf("recipe %s not found in %s, treated as no-op", id, kind)),
			Recipe: &echo,
		}, nil
	}

	merged, err := (*items)[idx].Merge(patch)
	if err != nil {
		return types.RecipeResult{}, err
	}
	if err := merged.Validate(); err != nil {
		return types.RecipeResult{}, err
	}
	(*items)[idx] = merged
	out := merged.Clone()
	return types.RecipeResult{
		Result: types.Done(fmt.Sprintf("recipe %s updated in %s", id, kind)),
		Recipe: &out,
	}, nil
}

// DeleteRecipe succeeds whether or not the recipe was present.
func (s *Store) DeleteRecipe(ctx context.Context, kind types.Collection, id string) (types.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	items, err := s.recipesLocked(kind)
	if err != nil {
		return types.Result{}, err
	}
	var removed bool
	*items, _, removed = without(*items, id)
	if !removed {
		return types.NoOp(fmt.Sprintf("recipe %s not found in %s, already deleted or never existed", id, kind)), nil
	}
	slog.DebugContext(ctx, "deleted recipe", "collection", kind, "id", id)
	return types.Done(fmt.Sprintf("recipe %s deleted from %s", id, kind)), nil
}

// SaveRecipe bookmarks a snapshot of r. Saving the same id twice keeps one entry.
func (s *Store) SaveRecipe(ctx context.Context, r types.Recipe) (types.RecipeResult, error) {
	if strings.TrimSpace(r.ID) == "" {
		return types.RecipeResult{}, fmt.Errorf("saved recipe needs an id: %w", types.ErrInvalid)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if idx := indexOf(s.data.SavedRecipes, r.ID); idx >= 0 {
		existing := s.data.SavedRecipes[idx].Clone()
		return types.RecipeResult{Result: types.NoOp("recipe already saved"), Recipe: &existing}, nil
	}
	r = r.Clone()
	s.data.SavedRecipes = append(s.data.SavedRecipes, r)
	slog.DebugContext(ctx, "saved recipe", "id", r.ID)
	out := r.Clone()
	return types.RecipeResult{Result: types.Done("recipe saved successfully"), Recipe: &out}, nil
}
