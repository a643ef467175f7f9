// AngelaMos | 2026
// recipes.go

package mongostore

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/indiankitchen/kitchen-backend/internal/store"
)

func (s *Store) ListRecipes(ctx context.Context) ([]store.Recipe, error) {
	return findAll[store.Recipe](ctx, s.recipes, bson.M{},
		options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}),
	)
}

func (s *Store) RecipeBySlug(ctx context.Context, slug string) (*store.Recipe, error) {
	return findOne[store.Recipe](ctx, s.recipes, bson.M{"slug": slug})
}

func (s *Store) CreateRecipe(ctx context.Context, recipe *store.Recipe) error {
	if _, err := s.recipes.InsertOne(ctx, recipe); err != nil {
		return fmt.Errorf("create recipe: %w", mapWriteError(err))
	}
	return nil
}

func (s *Store) ReplaceRecipe(ctx context.Context, recipe *store.Recipe) (bool, error) {
	res, err := s.recipes.ReplaceOne(ctx, bson.M{"slug": recipe.Slug}, recipe)
	if err != nil {
		return false, fmt.Errorf("replace recipe: %w", mapWriteError(err))
	}
	return res.MatchedCount > 0, nil
}

func (s *Store) DeleteRecipe(ctx context.Context, slug string) (bool, error) {
	res, err := s.recipes.DeleteOne(ctx, bson.M{"slug": slug})
	if err != nil {
		return false, fmt.Errorf("delete recipe: %w", err)
	}
	if res.DeletedCount == 0 {
		return false, nil
	}

	refs := bson.M{"recipeSlug": slug}
	for _, coll := range []*mongo.Collection{s.ratings, s.bookmarks, s.comments} {
		if _, err := coll.DeleteMany(ctx, refs); err != nil {
			return true, fmt.Errorf("delete recipe %s: %w", coll.Name(), err)
		}
	}

	return true, nil
}
