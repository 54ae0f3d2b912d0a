// Package shoppinglist persists the user's shopping list as one JSON array under a fixed
// cache key.
package shoppinglist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"cookbook/internal/cache"
	"cookbook/internal/planner"
	"cookbook/internal/types"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

const StorageKey = "shoppingList"

// OtherRecipe groups items that were added without a recipe.
const OtherRecipe = "Nguyên liệu khác"

type Item struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Quantity    string `json:"quantity,omitempty"`
	Unit        string `json:"unit,omitempty"`
	Bought      bool   `json:"bought"`
	RecipeTitle string `json:"recipeTitle,omitempty"`
}

type Storage struct {
	mu    sync.Mutex
	cache cache.Cache
}

func NewStorage(c cache.Cache) *Storage {
	return &Storage{cache: c}
}

// Items returns the stored list. A missing or unreadable entry is an empty list.
func (s *Storage) Items(ctx context.Context) ([]Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	items, _, err := s.load(ctx)
	return items, err
}

// Add appends item with a fresh id and bought cleared.
func (s *Storage) Add(ctx context.Context, item Item) (Item, error) {
	if item.Name == "" {
		return Item{}, fmt.Errorf("shopping item needs a name: %w", types.ErrInvalid)
	}
	item.ID = uuid.NewString()
	item.Bought = false
	err := s.update(ctx, func(items []Item) []Item { return append(items, item) })
	return item, err
}

// AddPlan adds one item per deduplicated ingredient of the plan, tagged with the
// first recipe that needs it.
func (s *Storage) AddPlan(ctx context.Context, plan *planner.Plan) ([]Item, error) {
	added := lo.Map(plan.ShoppingList(), func(si planner.ShoppingItem, _ int) Item {
		return Item{ID: uuid.NewString(), Name: si.Name, Quantity: si.Amount, RecipeTitle: si.Recipe}
	})
	err := s.update(ctx, func(items []Item) []Item { return append(items, added...) })
	return added, err
}

// ToggleBought flips the bought flag. Unknown ids leave the list as it is.
func (s *Storage) ToggleBought(ctx context.Context, id string) error {
	return s.update(ctx, func(items []Item) []Item {
		for i := range items {
			if items[i].ID == id {
				items[i].Bought = !items[i].Bought
			}
		}
		return items
	})
}

func (s *Storage) Remove(ctx context.Context, id string) error {
	return s.update(ctx, func(items []Item) []Item {
		return lo.Reject(items, func(it Item, _ int) bool { return it.ID == id })
	})
}

func (s *Storage) ClearBought(ctx context.Context) error {
	return s.update(ctx, func(items []Item) []Item {
		return lo.Reject(items, func(it Item, _ int) bool { return it.Bought })
	})
}

func (s *Storage) RemoveByRecipeTitle(ctx context.Context, title string) error {
	return s.update(ctx, func(items []Item) []Item {
		return lo.Reject(items, func(it Item, _ int) bool { return it.RecipeTitle == title })
	})
}

func (s *Storage) ReplaceAll(ctx context.Context, items []Item) error {
	return s.update(ctx, func([]Item) []Item { return items })
}

// Grouped buckets items by recipe title, in first-seen order.
func Grouped(items []Item) ([]string, map[string][]Item) {
	groups := lo.GroupBy(items, func(it Item) string {
		return lo.Ternary(it.RecipeTitle == "", OtherRecipe, it.RecipeTitle)
	})
	titles := lo.Uniq(lo.Map(items, func(it Item, _ int) string {
		return lo.Ternary(it.RecipeTitle == "", OtherRecipe, it.RecipeTitle)
	}))
	return titles, groups
}

// update writes the first list with a conditional put. If another writer created it in
// the meantime the change is applied on top of theirs.
func (s *Storage) update(ctx context.Context, fn func([]Item) []Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	items, found, err := s.load(ctx)
	if err != nil {
		return err
	}
	err = s.save(ctx, fn(items), lo.Ternary(found, cache.Unconditional(), cache.IfNoneMatch()))
	if !errors.Is(err, cache.ErrAlreadyExists) {
		return err
	}
	slog.InfoContext(ctx, "shopping list created concurrently, merging")
	if items, _, err = s.load(ctx); err != nil {
		return err
	}
	return s.save(ctx, fn(items), cache.Unconditional())
}

func (s *Storage) save(ctx context.Context, items []Item, opts cache.PutOptions) error {
	if items == nil {
		items = []Item{}
	}
	b, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to marshal shopping list: %w", err)
	}
	if err := s.cache.Put(ctx, StorageKey, string(b), opts); err != nil {
		return fmt.Errorf("failed to save shopping list: %w", err)
	}
	return nil
}

// load reports whether an entry exists. An unreadable entry is deleted and counts as
// missing.
func (s *Storage) load(ctx context.Context) ([]Item, bool, error) {
	raw, err := cache.GetString(ctx, s.cache, StorageKey)
	if errors.Is(err, cache.ErrNotFound) {
		return []Item{}, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to load shopping list: %w", err)
	}
	var items []Item
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		slog.WarnContext(ctx, "discarding unreadable shopping list", "error", err)
		if err := s.cache.Delete(ctx, StorageKey); err != nil {
			return nil, false, fmt.Errorf("failed to discard shopping list: %w", err)
		}
		return []Item{}, false, nil
	}
	if items == nil {
		items = []Item{}
	}
	return items, true, nil
}
