package types

import (
	"fmt"
	"strings"
	"time"
)

// DefaultIngredientPrice is charged for ingredients that carry no price of their own.
const DefaultIngredientPrice = 10000

const (
	StatusPrivate = "private"
	StatusPublic  = "public"
)

// Collection names double as route segments on the remote surface.
type Collection string

const (
	Recipes        Collection = "recipes"
	MyRecipes      Collection = "myRecipes"
	SavedRecipes   Collection = "savedRecipes"
	CommunityPosts Collection = "communityPosts"
	Likes          Collection = "likes"
	Comments       Collection = "comments"
)

type Ingredient struct {
	Name   string  `json:"name"`
	Amount string  `json:"amount"`
	Price  float64 `json:"price,omitempty"`
}

type NutritionInfo struct {
	Protein string `json:"protein,omitempty"`
	Carbs   string `json:"carbs,omitempty"`
	Fat     string `json:"fat,omitempty"`
}

// Recipe is shared by the public, authored and saved collections. The same id may
// live in all three at once.
type Recipe struct {
	ID            string         `json:"id"`
	Name          string         `json:"name"`
	Category      string         `json:"category"`
	Description   string         `json:"description,omitempty"`
	Calories      int            `json:"calories"`
	CookingTime   string         `json:"cookingTime,omitempty"`
	Servings      int            `json:"servings,omitempty"`
	Image         string         `json:"image,omitempty"`
	Ingredients   []Ingredient   `json:"ingredients"`
	Instructions  []string       `json:"instructions"`
	Tips          string         `json:"tips,omitempty"`
	NutritionInfo *NutritionInfo `json:"nutritionInfo,omitempty"`
	EstimatedCost *float64       `json:"estimated_cost,omitempty"`
	IsPublic      *bool          `json:"isPublic,omitempty"`
	Status        string         `json:"status,omitempty"`
	AIGenerated   bool           `json:"aiGenerated,omitempty"`
	CreatedBy     string         `json:"createdBy,omitempty"`
	CreatedAt     time.Time      `json:"createdAt,omitzero"`
	UpdatedAt     time.Time      `json:"updatedAt,omitzero"`
	PublishedAt   *time.Time     `json:"publishedAt,omitempty"`
	PublishedBy   string         `json:"publishedBy,omitempty"`
}

func (r Recipe) GetID() string { return r.ID }

// Public reports whether the recipe is visible in listings. Legacy records without the
// flag are public.
func (r Recipe) Public() bool {
	return r.IsPublic == nil || *r.IsPublic
}

// Cost returns the stored estimate, deriving one when the record has none. A stored 0
// is a free recipe.
func (r Recipe) Cost() float64 {
	if r.EstimatedCost != nil {
		return *r.EstimatedCost
	}
	return r.DeriveCost()
}

// DeriveCost is the sum of ingredient prices divided across servings.
func (r Recipe) DeriveCost() float64 {
	var total float64
	for _, ing := range r.Ingredients {
		if ing.Price > 0 {
			total += ing.Price
			continue
		}
		total += DefaultIngredientPrice
	}
	servings := r.Servings
	if servings < 1 {
		servings = 1
	}
	return total / float64(servings)
}

func (r Recipe) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("recipe name is required: %w", ErrInvalid)
	}
	if r.Calories < 0 {
		return fmt.Errorf("recipe calories must not be negative: %w", ErrInvalid)
	}
	if r.Servings < 0 {
		return fmt.Errorf("recipe servings must not be negative: %w", ErrInvalid)
	}
	for i, ing := range r.Ingredients {
		if strings.TrimSpace(ing.Name) == "" {
			return fmt.Errorf("ingredient %d has no name: %w", i, ErrInvalid)
		}
	}
	return nil
}

// Clone returns a copy that shares no slices or pointers with r.
func (r Recipe) Clone() Recipe {
	out := r
	if r.Ingredients != nil {
		out.Ingredients = append([]Ingredient(nil), r.Ingredients...)
	}
	if r.Instructions != nil {
		out.Instructions = append([]string(nil), r.Instructions...)
	}
	if r.NutritionInfo != nil {
		n := *r.NutritionInfo
		out.NutritionInfo = &n
	}
	if r.EstimatedCost != nil {
		c := *r.EstimatedCost
		out.EstimatedCost = &c
	}
	if r.IsPublic != nil {
		v := *r.IsPublic
		out.IsPublic = &v
	}
	if r.PublishedAt != nil {
		t := *r.PublishedAt
		out.PublishedAt = &t
	}
	return out
}

// Merge applies a shallow patch and keeps id r.ID.
func (r Recipe) Merge(p Patch) (Recipe, error) {
	return merge(r, p, r.ID)
}

func Bool(v bool) *bool { return &v }

func Float(v float64) *float64 { return &v }
