// AngelaMos | 2026
// seed.go

package store

import (
	_ "embed"
	"encoding/json"
	"fmt"
)

//go:embed seed/recipes.json
var seedRecipes []byte

// SeedRecipes returns the catalogue a fresh database starts with.
func SeedRecipes() ([]Recipe, error) {
	var recipes []Recipe
	if err := json.Unmarshal(seedRecipes, &recipes); err != nil {
		return nil, fmt.Errorf("decode seed recipes: %w", err)
	}
	return recipes, nil
}

// EmptySnapshot returns a snapshot with every collection present.
func EmptySnapshot() *Snapshot {
	s := &Snapshot{}
	s.Normalize()
	return s
}
