// AngelaMos | 2026
// recipes.go

package filestore

import (
	"context"
	"fmt"
	"slices"

	"github.com/indiankitchen/kitchen-backend/internal/core"
	"github.com/indiankitchen/kitchen-backend/internal/store"
)

func cloneRecipe(r store.Recipe) store.Recipe {
	r.Ingredients = slices.Clone(r.Ingredients)
	r.Instructions = slices.Clone(r.Instructions)
	r.Dietary = slices.Clone(r.Dietary)
	return r
}

func (s *Store) ListRecipes(ctx context.Context) ([]store.Recipe, error) {
	var out []store.Recipe
	err := s.view(ctx, func(d *store.Snapshot) error {
		out = make([]store.Recipe, 0, len(d.Recipes))
		for _, r := range d.Recipes {
			out = append(out, cloneRecipe(r))
		}
		return nil
	})
	return out, err
}

func (s *Store) RecipeBySlug(ctx context.Context, slug string) (*store.Recipe, error) {
	var found *store.Recipe
	err := s.view(ctx, func(d *store.Snapshot) error {
		for _, r := range d.Recipes {
			if r.Slug == slug {
				c := cloneRecipe(r)
				found = &c
				return nil
			}
		}
		return fmt.Errorf("find recipe: %w", core.ErrNotFound)
	})
	return found, err
}

func (s *Store) CreateRecipe(ctx context.Context, recipe *store.Recipe) error {
	return s.update(ctx, func(d *store.Snapshot) (bool, error) {
		for _, r := range d.Recipes {
			if r.Slug == recipe.Slug {
				return false, fmt.Errorf("create recipe: %w", core.ErrDuplicateKey)
			}
		}
		d.Recipes = append(d.Recipes, cloneRecipe(*recipe))
		return true, nil
	})
}

func (s *Store) ReplaceRecipe(ctx context.Context, recipe *store.Recipe) (bool, error) {
	found := false
	err := s.update(ctx, func(d *store.Snapshot) (bool, error) {
		for i := range d.Recipes {
			if d.Recipes[i].Slug == recipe.Slug {
				d.Recipes[i] = cloneRecipe(*recipe)
				found = true
				return true, nil
			}
		}
		return false, nil
	})
	return found, err
}

func (s *Store) DeleteRecipe(ctx context.Context, slug string) (bool, error) {
	found := false
	err := s.update(ctx, func(d *store.Snapshot) (bool, error) {
		before := len(d.Recipes)
		d.Recipes = slices.DeleteFunc(d.Recipes, func(r store.Recipe) bool { return r.Slug == slug })
		if len(d.Recipes) == before {
			return false, nil
		}
		found = true

		d.Ratings = slices.DeleteFunc(d.Ratings, func(x store.Rating) bool { return x.RecipeSlug == slug })
		d.Bookmarks = slices.DeleteFunc(d.Bookmarks, func(x store.Bookmark) bool { return x.RecipeSlug == slug })
		d.Comments = slices.DeleteFunc(d.Comments, func(x store.Comment) bool { return x.RecipeSlug == slug })
		return true, nil
	})
	return found, err
}
