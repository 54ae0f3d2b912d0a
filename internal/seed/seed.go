// Package seed holds the bundled demo database the store starts from and resets to.
package seed

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"cookbook/internal/types"

	"github.com/samber/lo"
)

//go:embed database.json
var database []byte

// Dataset is the full set of collections, keyed by their JSON collection names.
type Dataset struct {
	Recipes        []types.Recipe  `json:"recipes"`
	MyRecipes      []types.Recipe  `json:"myRecipes"`
	SavedRecipes   []types.Recipe  `json:"savedRecipes"`
	CommunityPosts []types.Post    `json:"communityPosts"`
	Likes          []types.Like    `json:"likes"`
	Comments       []types.Comment `json:"comments"`
}

// Default parses the embedded database.
func Default() (*Dataset, error) {
	return Parse(bytes.NewReader(database))
}

// Load reads a dataset from path, or the embedded one when path is empty.
func Load(path string) (*Dataset, error) {
	if path == "" {
		return Default()
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open seed %s: %w", path, err)
	}
	defer f.Close()
	return Parse(f)
}

func Parse(r io.Reader) (*Dataset, error) {
	var d Dataset
	if err := json.NewDecoder(r).Decode(&d); err != nil {
		return nil, fmt.Errorf("failed to decode seed: %w", err)
	}
	d.normalize()
	return &d, nil
}

// normalize replaces missing collections with empty ones so snapshots compare cleanly.
func (d *Dataset) normalize() {
	if d.Recipes == nil {
		d.Recipes = []types.Recipe{}
	}
	if d.MyRecipes == nil {
		d.MyRecipes = []types.Recipe{}
	}
	if d.SavedRecipes == nil {
		d.SavedRecipes = []types.Recipe{}
	}
	if d.CommunityPosts == nil {
		d.CommunityPosts = []types.Post{}
	}
	if d.Likes == nil {
		d.Likes = []types.Like{}
	}
	if d.Comments == nil {
		d.Comments = []types.Comment{}
	}
}

// Clone returns a deep copy of d.
func (d *Dataset) Clone() *Dataset {
	cloneRecipe := func(r types.Recipe, _ int) types.Recipe { return r.Clone() }
	return &Dataset{
		Recipes:        lo.Map(d.Recipes, cloneRecipe),
		MyRecipes:      lo.Map(d.MyRecipes, cloneRecipe),
		SavedRecipes:   lo.Map(d.SavedRecipes, cloneRecipe),
		CommunityPosts: append([]types.Post{}, d.CommunityPosts...),
		Likes:          append([]types.Like{}, d.Likes...),
		Comments:       append([]types.Comment{}, d.Comments...),
	}
}
