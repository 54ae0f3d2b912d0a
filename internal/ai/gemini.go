package ai

import (
	"context"
	"fmt"
	"log/slog"

	"cookbook/internal/types"

	"google.golang.org/genai"
)

const defaultGeminiModel = "gemini-2.5-flash"

// contentGenerator is the slice of the genai client the generator needs.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

type Gemini struct {
	models contentGenerator
	model  string
}

var _ Generator = (*Gemini)(nil)

func NewGemini(ctx context.Context, apiKey, model string) (*Gemini, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	if model == "" {
		model = defaultGeminiModel
	}
	return &Gemini{models: client.Models, model: model}, nil
}

func (g *Gemini) config() *genai.GenerateContentConfig {
	return &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(SystemMessage, genai.RoleUser),
		ResponseMIMEType:  "application/json",
		Temperature:       genai.Ptr[float32](0.9),
		TopK:              genai.Ptr[float32](40),
		TopP:              genai.Ptr[float32](0.95),
		MaxOutputTokens:   8192,
	}
}

func (g *Gemini) complete(ctx context.Context, prompt string) (string, error) {
	res, err := g.models.GenerateContent(ctx, g.model,
		[]*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)}, g.config())
	if err != nil {
		return "", fmt.Errorf("gemini request failed: %w", err)
	}
	if res.UsageMetadata != nil {
		slog.InfoContext(ctx, "API usage", "model", g.model,
			"prompt_tokens", res.UsageMetadata.PromptTokenCount, "total_tokens", res.UsageMetadata.TotalTokenCount)
	}
	text := res.Text()
	if text == "" {
		return "", fmt.Errorf("%w: empty response", ErrBadRecipe)
	}
	return text, nil
}

// GenerateRecipe asks the model for one recipe and validates what comes back.
func (g *Gemini) GenerateRecipe(ctx context.Context, req Request) (*types.Recipe, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	text, err := g.complete(ctx, buildPrompt(req))
	if err != nil {
		return nil, fmt.Errorf("failed to generate recipe: %w", err)
	}
	return parseRecipe(text, req)
}

// SuggestIngredients returns up to five companions for have. Failures yield an empty list.
func (g *Gemini) SuggestIngredients(ctx context.Context, have []string) []string {
	if len(have) == 0 {
		return []string{}
	}
	text, err := g.complete(ctx, suggestionPrompt(have))
	if err != nil {
		slog.WarnContext(ctx, "ingredient suggestion failed", "error", err)
		return []string{}
	}
	return parseSuggestions(text)
}
