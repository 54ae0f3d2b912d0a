// Package planner fills a week of meals from a recipe pool, either under a budget or at
// random, and derives the shopping list for the result.
package planner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"
	"strings"
	"sync"

	"cookbook/internal/types"

	"github.com/samber/lo"
)

const (
	// MinWeeklyBudget is the smallest weekly budget a plan is generated for, in VND.
	MinWeeklyBudget = 300000
	// RelaxFactor loosens the per-slot ceiling when nothing fits under it.
	RelaxFactor = 1.2
)

var (
	ErrBudgetTooLow = errors.New("weekly budget too low")
	ErrNoRecipes    = errors.New("no recipes to plan with")
)

type Generator struct {
	mu        sync.Mutex
	rng       *rand.Rand
	minBudget float64
	variety   bool
}

type Option func(*Generator)

// WithRand fixes the random source so plans are reproducible.
func WithRand(r *rand.Rand) Option {
	return func(g *Generator) { g.rng = r }
}

// WithMinBudget overrides MinWeeklyBudget.
func WithMinBudget(v float64) Option {
	return func(g *Generator) { g.minBudget = v }
}

// WithVariety avoids repeating a recipe in the same slot across the week while unused
// candidates remain. The ceiling and its relaxation are unchanged.
func WithVariety() Option {
	return func(g *Generator) { g.variety = true }
}

func New(opts ...Option) *Generator {
	g := &Generator{
		rng:       rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		minBudget: MinWeeklyBudget,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Cell addresses one meal in the week.
type Cell struct {
	Day  Day  `json:"day"`
	Slot Slot `json:"slot"`
}

type Result struct {
	Plan         *Plan   `json:"plan"`
	WeeklyBudget float64 `json:"weeklyBudget"`
	DailyBudget  float64 `json:"dailyBudget"`
	SlotCeiling  float64 `json:"slotCeiling"`
	TotalCost    float64 `json:"totalWeeklyCost"`
	// Ingredients is every ingredient used by the plan, first spelling kept.
	Ingredients []string `json:"ingredients"`
	// Leftovers are ingredients shared by more than half of the pool.
	Leftovers []string `json:"leftoverSuggestions"`
	// Relaxed are the cells filled under the loosened ceiling.
	Relaxed []Cell `json:"relaxed,omitempty"`
	// Unfilled are cells with no recipe even after relaxing.
	Unfilled []Cell `json:"unfilled,omitempty"`
}

// GenerateWeeklyPlan assigns one recipe per cell with estimated cost under
// weeklyBudget/7/3, relaxing that ceiling by RelaxFactor for cells where nothing fits.
func (g *Generator) GenerateWeeklyPlan(ctx context.Context, weeklyBudget float64, pool []types.Recipe) (*Result, error) {
	if math.IsNaN(weeklyBudget) || math.IsInf(weeklyBudget, 0) {
		return nil, fmt.Errorf("%w: %v is not a usable budget", ErrBudgetTooLow, weeklyBudget)
	}
	if weeklyBudget < g.minBudget {
		return nil, fmt.Errorf("%w: %.0f is below the minimum of %.0f per week, please raise your budget",
			ErrBudgetTooLow, weeklyBudget, g.minBudget)
	}
	if len(pool) == 0 {
		return nil, ErrNoRecipes
	}

	daily := weeklyBudget / DaysPerWeek
	ceiling := daily / SlotsPerDay
	relaxed := ceiling * RelaxFactor
	byCategory := lo.GroupBy(pool, func(r types.Recipe) string { return r.Category })

	res := &Result{
		Plan:         NewPlan(),
		WeeklyBudget: weeklyBudget,
		DailyBudget:  daily,
		SlotCeiling:  ceiling,
	}
	used := map[Slot]map[string]bool{}

	g.mu.Lock()
	defer g.mu.Unlock()
	for _, d := range Days() {
		for _, s := range Slots() {
			inCategory := byCategory[s.Category()]
			fits := underCeiling(inCategory, ceiling)
			if len(fits) == 0 {
				fits = underCeiling(inCategory, relaxed)
				if len(fits) > 0 {
					res.Relaxed = append(res.Relaxed, Cell{d, s})
				}
			}
			if len(fits) == 0 {
				res.Unfilled = append(res.Unfilled, Cell{d, s})
				continue
			}
			pick := g.pick(fits, used[s])
			if used[s] == nil {
				used[s] = map[string]bool{}
			}
			used[s][pick.ID] = true
			_ = res.Plan.Set(d, s, pick)
		}
	}

	res.TotalCost = res.Plan.TotalCost()
	res.Ingredients = planIngredients(res.Plan)
	res.Leftovers = Leftovers(pool)
	slog.InfoContext(ctx, "generated weekly plan", "budget", weeklyBudget, "ceiling", ceiling,
		"total_cost", res.TotalCost, "relaxed", len(res.Relaxed), "unfilled", len(res.Unfilled))
	return res, nil
}

// RandomPlan ignores cost and picks any recipe of the slot's category for every cell.
func (g *Generator) RandomPlan(ctx context.Context, pool []types.Recipe) (*Plan, error) {
	if len(pool) == 0 {
		return nil, ErrNoRecipes
	}
	byCategory := lo.GroupBy(pool, func(r types.Recipe) string { return r.Category })
	plan := NewPlan()

	g.mu.Lock()
	defer g.mu.Unlock()
	used := map[Slot]map[string]bool{}
	for _, d := range Days() {
		for _, s := range Slots() {
			candidates := byCategory[s.Category()]
			if len(candidates) == 0 {
				continue
			}
			pick := g.pick(candidates, used[s])
			if used[s] == nil {
				used[s] = map[string]bool{}
			}
			used[s][pick.ID] = true
			_ = plan.Set(d, s, pick)
		}
	}
	slog.InfoContext(ctx, "generated random plan", "filled", plan.Filled())
	return plan, nil
}

// pick draws uniformly from candidates. With variety on, recipes already used in the
// slot are skipped while others remain. Callers hold g.mu.
func (g *Generator) pick(candidates []types.Recipe, used map[string]bool) types.Recipe {
	if g.variety && len(used) > 0 {
		fresh := lo.Filter(candidates, func(r types.Recipe, _ int) bool { return !used[r.ID] })
		if len(fresh) > 0 {
			candidates = fresh
		}
	}
	return candidates[g.rng.IntN(len(candidates))]
}

func underCeiling(recipes []types.Recipe, ceiling float64) []types.Recipe {
	return lo.Filter(recipes, func(r types.Recipe, _ int) bool { return r.Cost() <= ceiling })
}

func planIngredients(p *Plan) []string {
	seen := map[string]bool{}
	var names []string
	p.Each(func(_ Day, _ Slot, r types.Recipe) {
		for _, ing := range r.Ingredients {
			key := normalize(ing.Name)
			if key == "" || seen[key] {
				continue
			}
			seen[key] = true
			names = append(names, strings.TrimSpace(ing.Name))
		}
	})
	return names
}

// Leftovers returns ingredients that appear in more than half of the recipes in pool, in
// first-seen order. They are the staples worth buying in bulk.
func Leftovers(pool []types.Recipe) []string {
	counts := map[string]int{}
	var order []string
	spelling := map[string]string{}
	for _, r := range pool {
		inRecipe := map[string]bool{}
		for _, ing := range r.Ingredients {
			key := normalize(ing.Name)
			if key == "" || inRecipe[key] {
				continue
			}
			inRecipe[key] = true
			if _, ok := spelling[key]; !ok {
				spelling[key] = strings.TrimSpace(ing.Name)
				order = append(order, key)
			}
			counts[key]++
		}
	}
	out := []string{}
	for _, key := range order {
		if counts[key]*2 > len(pool) {
			out = append(out, spelling[key])
		}
	}
	return out
}

func normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
