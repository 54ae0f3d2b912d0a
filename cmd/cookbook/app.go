package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"cookbook/internal/ai"
	"cookbook/internal/api"
	"cookbook/internal/cache"
	"cookbook/internal/config"
	"cookbook/internal/images"
	"cookbook/internal/planner"
	"cookbook/internal/remote"
	"cookbook/internal/seed"
	"cookbook/internal/shoppinglist"
	"cookbook/internal/store"
	"cookbook/internal/types"
)

type app struct {
	store    *store.Store
	remote   *remote.Client
	facade   *api.Facade
	planner  *planner.Generator
	shopping *shoppinglist.Storage
	ai       ai.Generator
	images   images.Searcher
}

func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	a := &app{}
	var local, fallback api.Backend
	if cfg.Data.UseLocal {
		data, err := seed.Load(cfg.Data.SeedPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load seed data: %w", err)
		}
		a.store = store.New(data)
		local = a.store
	}
	if cfg.Remote.URL != "" {
		rc, err := remote.New(cfg.Remote.URL, remote.Options{Timeout: cfg.Remote.Timeout, Retries: cfg.Remote.Retries})
		if err != nil {
			return nil, fmt.Errorf("failed to create remote client: %w", err)
		}
		a.remote = rc
		fallback = rc
	}
	a.facade = api.New(local, fallback)
	a.planner = planner.New(planner.WithMinBudget(cfg.Planner.MinWeeklyBudget), planner.WithVariety())

	c, err := cache.MakeCache(ctx, cfg.Cache)
	if err != nil {
		return nil, fmt.Errorf("failed to create cache: %w", err)
	}
	a.shopping = shoppinglist.NewStorage(c)

	if cfg.AI.APIKey != "" {
		g, err := ai.NewGemini(ctx, cfg.AI.APIKey, cfg.AI.Model)
		if err != nil {
			return nil, err
		}
		a.ai = g
	} else {
		slog.InfoContext(ctx, "GEMINI_API_KEY not set, using mock recipe generator")
		a.ai = ai.Mock{}
	}

	if cfg.Images.PexelsAPIKey != "" {
		a.images = images.NewPexels(cfg.Images.PexelsAPIKey)
	} else {
		a.images = images.Static(images.FallbackImage)
	}
	return a, nil
}

func (a *app) pool(ctx context.Context) ([]types.Recipe, error) {
	recipes, err := a.facade.ListRecipes(ctx, types.Recipes)
	if err != nil {
		return nil, fmt.Errorf("failed to load recipes: %w", err)
	}
	return recipes, nil
}

func (a *app) printPlan(ctx context.Context, w io.Writer, budget float64, save bool) error {
	pool, err := a.pool(ctx)
	if err != nil {
		return err
	}
	res, err := a.planner.GenerateWeeklyPlan(ctx, budget, pool)
	if err != nil {
		return err
	}
	writePlan(w, res.Plan)
	fmt.Fprintf(w, "\nTổng chi phí: %.0f / %.0f VND (trần mỗi bữa %.0f)\n", res.TotalCost, res.WeeklyBudget, res.SlotCeiling)
	if len(res.Unfilled) > 0 {
		fmt.Fprintf(w, "Không tìm được món cho %d bữa\n", len(res.Unfilled))
	}
	if len(res.Leftovers) > 0 {
		fmt.Fprintf(w, "Nên mua nhiều: %s\n", strings.Join(res.Leftovers, ", "))
	}
	return a.finishPlan(ctx, w, res.Plan, save)
}

func (a *app) printRandomPlan(ctx context.Context, w io.Writer, save bool) error {
	pool, err := a.pool(ctx)
	if err != nil {
		return err
	}
	plan, err := a.planner.RandomPlan(ctx, pool)
	if err != nil {
		return err
	}
	writePlan(w, plan)
	return a.finishPlan(ctx, w, plan, save)
}

func (a *app) finishPlan(ctx context.Context, w io.Writer, plan *planner.Plan, save bool) error {
	fmt.Fprintln(w)
	fmt.Fprint(w, planner.FormatShoppingList(plan.ShoppingList()))
	if !save {
		return nil
	}
	added, err := a.shopping.AddPlan(ctx, plan)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "\nĐã thêm %d nguyên liệu vào danh sách mua sắm\n", len(added))
	return nil
}

func writePlan(w io.Writer, plan *planner.Plan) {
	for _, d := range planner.Days() {
		fmt.Fprintf(w, "%s (%d kcal)\n", d.Label(), plan.DailyCalories(d))
		for _, s := range planner.Slots() {
			name := "-"
			if r, ok := plan.Get(d, s); ok {
				name = fmt.Sprintf("%s (%.0f VND)", r.Name, r.Cost())
			}
			fmt.Fprintf(w, "  %s: %s\n", s.Label(), name)
		}
	}
}

func (a *app) printShoppingList(ctx context.Context, w io.Writer) error {
	items, err := a.shopping.Items(ctx)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		fmt.Fprintln(w, "Empty list. Add ingredients from recipe.")
		return nil
	}
	titles, groups := shoppinglist.Grouped(items)
	for _, title := range titles {
		fmt.Fprintln(w, title)
		for _, it := range groups[title] {
			box := "⬜️"
			if it.Bought {
				box = "✅"
			}
			line := it.Name
			if it.Quantity != "" {
				line += " (" + strings.TrimSpace(it.Quantity+" "+it.Unit) + ")"
			}
			fmt.Fprintf(w, "  %s %s\n", box, line)
		}
	}
	return nil
}

func (a *app) printGenerated(ctx context.Context, w io.Writer, ingredients []string, category string) error {
	recipe, err := a.ai.GenerateRecipe(ctx, ai.Request{
		Ingredients: ingredients,
		Category:    category,
		Servings:    2,
		MaxCalories: 600,
		CookingTime: "30 phút",
	})
	if err != nil {
		return err
	}
	recipe.Image = a.images.SearchFoodImage(ctx, recipe.Name)
	out, err := json.MarshalIndent(recipe, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}
