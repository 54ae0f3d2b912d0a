package ai

import (
	"context"
	"fmt"
	"strings"

	"cookbook/internal/types"

	"github.com/samber/lo"
)

// Mock builds a predictable recipe from the request without calling a model.
type Mock struct{}

var _ Generator = Mock{}

func (Mock) GenerateRecipe(_ context.Context, req Request) (*types.Recipe, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	servings := lo.Ternary(req.Servings > 0, req.Servings, 2)
	calories := lo.Ternary(req.MaxCalories > 0, req.MaxCalories, 400)
	return &types.Recipe{
		Name:        "Món " + strings.Join(req.Ingredients, " "),
		Category:    req.Category,
		Description: "Công thức thử nghiệm",
		Calories:    calories,
		CookingTime: lo.Ternary(req.CookingTime != "", req.CookingTime, "30 phút"),
		Servings:    servings,
		Ingredients: lo.Map(req.Ingredients, func(name string, _ int) types.Ingredient {
			return types.Ingredient{Name: name, Amount: fmt.Sprintf("%d phần", servings)}
		}),
		Instructions: []string{"Sơ chế nguyên liệu", "Nấu chín", "Nêm nếm vừa ăn"},
		AIGenerated:  true,
	}, nil
}

func (Mock) SuggestIngredients(_ context.Context, have []string) []string {
	staples := []string{"Tỏi", "Hành lá", "Nước mắm", "Tiêu", "Ớt", "Gừng"}
	return lo.Slice(lo.Without(staples, have...), 0, 5)
}
