package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"cookbook/internal/types"
)

// decodeResult reads either a {success, message, <field>} envelope or a bare record, which
// is what plain JSON mock servers send back.
func decodeResult[T any](op string, raw json.RawMessage, field string) (types.Result, *T, error) {
	if len(raw) == 0 {
		return types.Done(op + " succeeded"), nil, nil
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return types.Result{}, nil, fmt.Errorf("decode %s response: %w", op, err)
	}
	if _, ok := fields["success"]; !ok {
		if len(fields) == 0 {
			return types.Done(op + " succeeded"), nil, nil
		}
		var rec T
		if err := json.Unmarshal(raw, &rec); err != nil {
			return types.Result{}, nil, fmt.Errorf("decode %s record: %w", op, err)
		}
		return types.Done(op + " succeeded"), &rec, nil
	}

	var res types.Result
	if err := json.Unmarshal(raw, &res); err != nil {
		return types.Result{}, nil, fmt.Errorf("decode %s result: %w", op, err)
	}
	if _, ok := fields["changed"]; !ok {
		res.Changed = res.Success
	}
	body, ok := fields[field]
	if !ok || string(body) == "null" {
		return res, nil, nil
	}
	var rec T
	if err := json.Unmarshal(body, &rec); err != nil {
		return types.Result{}, nil, fmt.Errorf("decode %s %s: %w", op, field, err)
	}
	return res, &rec, nil
}

func (c *Client) ListRecipes(ctx context.Context, kind types.Collection) ([]types.Recipe, error) {
	var out []types.Recipe
	if err := c.do(ctx, "list "+string(kind), http.MethodGet, route(string(kind)), nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ListMyRecipes(ctx context.Context, userID string) ([]types.Recipe, error) {
	var q url.Values
	if userID != "" {
		q = url.Values{"createdBy": {userID}}
	}
	var out []types.Recipe
	if err := c.do(ctx, "list myRecipes", http.MethodGet, route(string(types.MyRecipes)), q, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetRecipe(ctx context.Context, kind types.Collection, id string) (types.Recipe, error) {
	var out types.Recipe
	err := c.do(ctx, "get "+string(kind), http.MethodGet, route(string(kind), id), nil, nil, &out)
	return out, err
}

func (c *Client) RecipesByCategory(ctx context.Context, category string) ([]types.Recipe, error) {
	var out []types.Recipe
	q := url.Values{"category": {category}}
	if err := c.do(ctx, "recipes by category", http.MethodGet, route(string(types.Recipes)), q, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) SearchRecipes(ctx context.Context, query string) ([]types.Recipe, error) {
	var out []types.Recipe
	q := url.Values{"q": {query}}
	if err := c.do(ctx, "search recipes", http.MethodGet, route(string(types.Recipes), "search"), q, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateRecipe(ctx context.Context, kind types.Collection, r types.Recipe) (types.Recipe, error) {
	var out types.Recipe
	err := c.do(ctx, "create "+string(kind), http.MethodPost, route(string(kind)), nil, r, &out)
	return out, err
}

func (c *Client) UpdateRecipe(ctx context.Context, kind types.Collection, id string, patch types.Patch) (types.RecipeResult, error) {
	op := "update " + string(kind)
	var raw json.RawMessage
	if err := c.do(ctx, op, http.MethodPut, route(string(kind), id), nil, patch, &raw); err != nil {
		return types.RecipeResult{}, err
	}
	res, rec, err := decodeResult[types.Recipe](op, raw, "recipe")
	if err != nil {
		return types.RecipeResult{}, err
	}
	return types.RecipeResult{Result: res, Recipe: rec}, nil
}

func (c *Client) DeleteRecipe(ctx context.Context, kind types.Collection, id string) (types.Result, error) {
	return c.Delete(ctx, kind, id)
}

// Delete removes any record by collection and id.
func (c *Client) Delete(ctx context.Context, kind types.Collection, id string) (types.Result, error) {
	op := "delete " + string(kind)
	var raw json.RawMessage
	if err := c.do(ctx, op, http.MethodDelete, route(string(kind), id), nil, nil, &raw); err != nil {
		return types.Result{}, err
	}
	res, _, err := decodeResult[json.RawMessage](op, raw, "")
	return res, err
}

func (c *Client) SaveRecipe(ctx context.Context, r types.Recipe) (types.RecipeResult, error) {
	op := "save recipe"
	var raw json.RawMessage
	if err := c.do(ctx, op, http.MethodPost, route(string(types.SavedRecipes)), nil, r, &raw); err != nil {
		return types.RecipeResult{}, err
	}
	res, rec, err := decodeResult[types.Recipe](op, raw, "recipe")
	if err != nil {
		return types.RecipeResult{}, err
	}
	return types.RecipeResult{Result: res, Recipe: rec}, nil
}
