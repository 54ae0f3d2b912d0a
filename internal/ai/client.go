// Package ai turns a cook's constraints into a recipe using a generative model.
package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"cookbook/internal/types"
)

// ErrBadRecipe means the model answered with something that is not a usable recipe.
var ErrBadRecipe = errors.New("không thể phân tích công thức từ AI, vui lòng thử lại")

type Generator interface {
	GenerateRecipe(ctx context.Context, req Request) (*types.Recipe, error)
	SuggestIngredients(ctx context.Context, have []string) []string
}

type Request struct {
	Ingredients    []string `json:"ingredients"`
	Category       string   `json:"category"`
	Servings       int      `json:"servings"`
	MaxCalories    int      `json:"maxCalories"`
	CookingTime    string   `json:"cookingTime"`
	DietPreference string   `json:"dietPreference,omitempty"`
}

func (r Request) Validate() error {
	if len(r.Ingredients) == 0 {
		return fmt.Errorf("at least one ingredient is required: %w", types.ErrInvalid)
	}
	if r.Servings < 0 || r.MaxCalories < 0 {
		return fmt.Errorf("servings and calories cannot be negative: %w", types.ErrInvalid)
	}
	return nil
}

// generatedRecipe is the shape the model is asked to return.
type generatedRecipe struct {
	Name          string              `json:"name" jsonschema:"required"`
	Category      string              `json:"category"`
	Description   string              `json:"description"`
	Calories      int                 `json:"calories"`
	CookingTime   string              `json:"cookingTime"`
	Servings      int                 `json:"servings"`
	Ingredients   []types.Ingredient  `json:"ingredients" jsonschema:"required"`
	Instructions  []string            `json:"instructions" jsonschema:"required"`
	Tips          string              `json:"tips"`
	NutritionInfo types.NutritionInfo `json:"nutritionInfo"`
}

func parseRecipe(content string, req Request) (*types.Recipe, error) {
	var g generatedRecipe
	if err := json.Unmarshal([]byte(stripCodeFence(content)), &g); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadRecipe, err)
	}
	if strings.TrimSpace(g.Name) == "" || len(g.Ingredients) == 0 || len(g.Instructions) == 0 {
		return nil, fmt.Errorf("%w: missing name, ingredients or instructions", ErrBadRecipe)
	}
	r := &types.Recipe{
		Name:         g.Name,
		Category:     g.Category,
		Description:  g.Description,
		Calories:     g.Calories,
		CookingTime:  g.CookingTime,
		Servings:     g.Servings,
		Ingredients:  g.Ingredients,
		Instructions: g.Instructions,
		Tips:         g.Tips,
		AIGenerated:  true,
	}
	if g.NutritionInfo != (types.NutritionInfo{}) {
		n := g.NutritionInfo
		r.NutritionInfo = &n
	}
	if r.Category == "" {
		r.Category = req.Category
	}
	if r.Servings == 0 {
		r.Servings = req.Servings
	}
	return r, nil
}

// parseSuggestions reads a JSON array of names, keeping at most five.
func parseSuggestions(content string) []string {
	var names []string
	if err := json.Unmarshal([]byte(stripCodeFence(content)), &names); err != nil {
		return []string{}
	}
	out := []string{}
	for _, n := range names {
		if n = strings.TrimSpace(n); n != "" {
			out = append(out, n)
		}
		if len(out) == 5 {
			break
		}
	}
	return out
}

func stripCodeFence(content string) string {
	trimmed := strings.TrimSpace(content)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(trimmed, "```")
	return strings.TrimSpace(trimmed)
}
