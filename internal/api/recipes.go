package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"cookbook/internal/types"

	"github.com/samber/lo"
)

func (f *Facade) ListRecipes(ctx context.Context, kind types.Collection) ([]types.Recipe, error) {
	return call(ctx, f, "list "+string(kind), func(ctx context.Context, b Backend) ([]types.Recipe, error) {
		return b.ListRecipes(ctx, kind)
	})
}

func (f *Facade) ListMyRecipes(ctx context.Context, userID string) ([]types.Recipe, error) {
	return call(ctx, f, "list myRecipes", func(ctx context.Context, b Backend) ([]types.Recipe, error) {
		return b.ListMyRecipes(ctx, userID)
	})
}

// GetRecipe is a required lookup. A recipe missing everywhere is types.ErrNotFound.
func (f *Facade) GetRecipe(ctx context.Context, kind types.Collection, id string) (types.Recipe, error) {
	return call(ctx, f, "get "+string(kind), func(ctx context.Context, b Backend) (types.Recipe, error) {
		return b.GetRecipe(ctx, kind, id)
	})
}

func (f *Facade) RecipesByCategory(ctx context.Context, category string) ([]types.Recipe, error) {
	return call(ctx, f, "recipes by category", func(ctx context.Context, b Backend) ([]types.Recipe, error) {
		return b.RecipesByCategory(ctx, category)
	})
}

func (f *Facade) SearchRecipes(ctx context.Context, query string) ([]types.Recipe, error) {
	return call(ctx, f, "search recipes", func(ctx context.Context, b Backend) ([]types.Recipe, error) {
		return b.SearchRecipes(ctx, query)
	})
}

func (f *Facade) CreateRecipe(ctx context.Context, kind types.Collection, r types.Recipe) (types.Recipe, error) {
	return call(ctx, f, "create "+string(kind), func(ctx context.Context, b Backend) (types.Recipe, error) {
		return b.CreateRecipe(ctx, kind, r)
	})
}

func (f *Facade) UpdateRecipe(ctx context.Context, kind types.Collection, id string, patch types.Patch) (types.RecipeResult, error) {
	return idempotent(ctx, f, "update "+string(kind),
		func(ctx context.Context, b Backend) (types.RecipeResult, error) {
			return b.UpdateRecipe(ctx, kind, id, patch)
		},
		func(r types.Result) (types.RecipeResult, error) {
			echo, err := types.Recipe{ID: id}.Merge(patch)
			if err != nil {
				return types.RecipeResult{}, err
			}
			return types.RecipeResult{Result: r, Recipe: &echo}, nil
		})
}

func (f *Facade) DeleteRecipe(ctx context.Context, kind types.Collection, id string) (types.Result, error) {
	return idempotent(ctx, f, "delete "+string(kind), func(ctx context.Context, b Backend) (types.Result, error) {
		return b.DeleteRecipe(ctx, kind, id)
	}, asResult)
}

func (f *Facade) SaveRecipe(ctx context.Context, r types.Recipe) (types.RecipeResult, error) {
	return call(ctx, f, "save recipe", func(ctx context.Context, b Backend) (types.RecipeResult, error) {
		return b.SaveRecipe(ctx, r)
	})
}

// Delete is the idempotent delete for any collection.
func (f *Facade) Delete(ctx context.Context, kind types.Collection, id string) (types.Result, error) {
	return idempotent(ctx, f, "delete "+string(kind), func(ctx context.Context, b Backend) (types.Result, error) {
		return b.Delete(ctx, kind, id)
	}, asResult)
}

// FanOut reports a change applied to every recipe collection holding a copy.
type FanOut struct {
	types.Result
	Recipe *types.Recipe `json:"recipe,omitempty"`
	// Collections lists where a copy actually changed.
	Collections []types.Collection `json:"collections"`
}

var recipeCollections = []types.Collection{types.MyRecipes, types.Recipes, types.SavedRecipes}

// EditRecipe applies patch to the authored recipe and to its published and saved copies.
// A collection without a copy is skipped. Every collection is attempted even when one
// fails; the failures are joined.
func (f *Facade) EditRecipe(ctx context.Context, id string, patch types.Patch) (FanOut, error) {
	p := types.Patch{}
	for k, v := range patch {
		p[k] = v
	}
	p["updatedAt"] = f.now().UTC()

	out := FanOut{Collections: []types.Collection{}}
	var errs []error
	for _, kind := range recipeCollections {
		res, err := f.UpdateRecipe(ctx, kind, id, p)
		if err != nil {
			if errors.Is(err, types.ErrInvalid) {
				return out, err
			}
			errs = append(errs, fmt.Errorf("edit %s in %s: %w", id, kind, err))
			continue
		}
		if !res.Changed {
			continue
		}
		out.Collections = append(out.Collections, kind)
		if out.Recipe == nil {
			out.Recipe = res.Recipe
		}
	}
	out.Result = fanOutResult("edited", id, out.Collections)
	return out, errors.Join(errs...)
}

// PublishRecipe marks an authored recipe public and copies it into the public collection
// under the same id. Publishing again refreshes the public copy.
func (f *Facade) PublishRecipe(ctx context.Context, id, publishedBy string) (FanOut, error) {
	if _, err := f.GetRecipe(ctx, types.MyRecipes, id); err != nil {
		return FanOut{}, err
	}
	now := f.now().UTC()
	mine, err := f.UpdateRecipe(ctx, types.MyRecipes, id, types.Patch{
		"isPublic":    true,
		"status":      types.StatusPublic,
		"publishedAt": now,
		"publishedBy": publishedBy,
	})
	if err != nil {
		return FanOut{}, fmt.Errorf("mark %s public: %w", id, err)
	}
	if mine.Recipe == nil {
		// a remote that answered without the record
		r, err := f.GetRecipe(ctx, types.MyRecipes, id)
		if err != nil {
			return FanOut{}, err
		}
		mine.Recipe = &r
	}
	published := *mine.Recipe

	// The public copy is replaced whole so fields cleared on the authored recipe are
	// cleared here too.
	old, err := f.Delete(ctx, types.Recipes, id)
	if err != nil {
		return FanOut{}, fmt.Errorf("clear public copy of %s: %w", id, err)
	}
	created, err := f.CreateRecipe(ctx, types.Recipes, published)
	if err != nil {
		return FanOut{}, fmt.Errorf("copy %s to public recipes: %w", id, err)
	}
	verb := lo.Ternary(old.Changed, "republished", "published")
	slog.InfoContext(ctx, verb+" recipe", "id", id, "published_by", publishedBy)
	return FanOut{
		Result:      types.Done(fmt.Sprintf("recipe %s %s", id, verb)),
		Recipe:      &created,
		Collections: []types.Collection{types.MyRecipes, types.Recipes},
	}, nil
}

// DeleteRecipeEverywhere removes every copy of a recipe. It succeeds when no copy exists.
func (f *Facade) DeleteRecipeEverywhere(ctx context.Context, id string) (FanOut, error) {
	out := FanOut{Collections: []types.Collection{}}
	var errs []error
	for _, kind := range recipeCollections {
		res, err := f.DeleteRecipe(ctx, kind, id)
		if err != nil {
			errs = append(errs, fmt.Errorf("delete %s from %s: %w", id, kind, err))
			continue
		}
		if res.Changed {
			out.Collections = append(out.Collections, kind)
		}
	}
	out.Result = fanOutResult("deleted", id, out.Collections)
	return out, errors.Join(errs...)
}

func fanOutResult(verb, id string, changed []types.Collection) types.Result {
	if len(changed) == 0 {
		return types.NoOp(fmt.Sprintf("recipe %s not found in any collection, treated as no-op", id))
	}
	return types.Done(fmt.Sprintf("recipe %s %s in %v", id, verb, changed))
}
