package ai

import (
	"context"
	"errors"
	"strings"
	"testing"

	"cookbook/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

type fakeModels struct {
	text    string
	err     error
	prompts []string
}

func (f *fakeModels) GenerateContent(_ context.Context, _ string, contents []*genai.Content, _ *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.prompts = append(f.prompts, contents[0].Parts[0].Text)
	if f.err != nil {
		return nil, f.err
	}
	return &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{
		Content: genai.NewContentFromText(f.text, genai.RoleModel),
	}}}, nil
}

var request = Request{
	Ingredients: []string{"Thịt gà", "Nấm"},
	Category:    "Dinner",
	Servings:    4,
	MaxCalories: 500,
	CookingTime: "45 phút",
}

func TestGenerateRecipe(t *testing.T) {
	fake := &fakeModels{text: "```json\n" + `{"name":"Gà xào nấm","description":"Ngon","calories":450,
		"ingredients":[{"name":"Thịt gà","amount":"300g"}],"instructions":["Sơ chế","Xào"],
		"nutritionInfo":{"protein":"30g"}}` + "\n```"}
	g := &Gemini{models: fake, model: defaultGeminiModel}

	r, err := g.GenerateRecipe(context.Background(), request)
	require.NoError(t, err)
	assert.Equal(t, "Gà xào nấm", r.Name)
	assert.Equal(t, "Dinner", r.Category, "category falls back to the request")
	assert.Equal(t, 4, r.Servings)
	assert.True(t, r.AIGenerated)
	require.NotNil(t, r.NutritionInfo)
	assert.Equal(t, "30g", r.NutritionInfo.Protein)

	require.Len(t, fake.prompts, 1)
	assert.Contains(t, fake.prompts[0], "Thịt gà, Nấm")
	assert.Contains(t, fake.prompts[0], "500/khẩu phần")
	assert.Contains(t, fake.prompts[0], `"instructions"`)
	assert.NotContains(t, fake.prompts[0], "Chế độ ăn")
}

func TestGenerateRecipeRejectsIncomplete(t *testing.T) {
	for name, text := range map[string]string{
		"not json":        "here is a recipe!",
		"no instructions": `{"name":"x","ingredients":[{"name":"a"}]}`,
		"no name":         `{"ingredients":[{"name":"a"}],"instructions":["b"]}`,
	} {
		t.Run(name, func(t *testing.T) {
			g := &Gemini{models: &fakeModels{text: text}}
			_, err := g.GenerateRecipe(context.Background(), request)
			assert.ErrorIs(t, err, ErrBadRecipe)
		})
	}

	g := &Gemini{models: &fakeModels{err: errors.New("quota")}}
	_, err := g.GenerateRecipe(context.Background(), request)
	assert.ErrorContains(t, err, "quota")

	_, err = g.GenerateRecipe(context.Background(), Request{})
	assert.ErrorIs(t, err, types.ErrInvalid)
}

func TestSuggestIngredients(t *testing.T) {
	g := &Gemini{models: &fakeModels{text: `["Tỏi","Hành","Tiêu","Ớt","Gừng","Sả"]`}}
	assert.Equal(t, []string{"Tỏi", "Hành", "Tiêu", "Ớt", "Gừng"}, g.SuggestIngredients(context.Background(), []string{"Gà"}))

	g = &Gemini{models: &fakeModels{err: errors.New("down")}}
	assert.Empty(t, g.SuggestIngredients(context.Background(), []string{"Gà"}))

	g = &Gemini{models: &fakeModels{text: "nope"}}
	got := g.SuggestIngredients(context.Background(), []string{"Gà"})
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestStripCodeFence(t *testing.T) {
	assert.Equal(t, `{"a":1}`, stripCodeFence("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, stripCodeFence("```\n{\"a\":1}```"))
	assert.Equal(t, `{"a":1}`, stripCodeFence("  {\"a\":1} "))
}

func TestPromptDietLine(t *testing.T) {
	req := request
	req.DietPreference = "Ăn chay"
	p := buildPrompt(req)
	assert.True(t, strings.HasPrefix(p, "Tạo công thức"))
	assert.Contains(t, p, "Chế độ ăn: Ăn chay")
}

func TestMock(t *testing.T) {
	var g Generator = Mock{}
	r, err := g.GenerateRecipe(context.Background(), Request{Ingredients: []string{"Trứng"}, Category: "Breakfast"})
	require.NoError(t, err)
	assert.NoError(t, r.Validate())
	assert.Equal(t, 2, r.Servings)
	assert.True(t, r.AIGenerated)

	assert.Equal(t, []string{"Hành lá", "Nước mắm", "Tiêu", "Ớt", "Gừng"}, g.SuggestIngredients(context.Background(), []string{"Tỏi"}))
}
