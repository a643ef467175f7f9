// AngelaMos | 2026
// ratings.go

package mongostore

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/indiankitchen/kitchen-backend/internal/store"
)

func (s *Store) UpsertRating(ctx context.Context, rating *store.Rating) error {
	_, err := s.ratings.UpdateOne(ctx,
		bson.M{"userId": rating.UserID, "recipeSlug": rating.RecipeSlug},
		bson.M{
			"$set": bson.M{
				"rating":    rating.Rating,
				"timestamp": rating.Timestamp,
			},
			"$setOnInsert": bson.M{"id": rating.ID},
		},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("upsert rating: %w", mapWriteError(err))
	}
	return nil
}

func (s *Store) RatingByUser(ctx context.Context, userID, slug string) (*store.Rating, error) {
	return findOne[store.Rating](ctx, s.ratings, bson.M{"userId": userID, "recipeSlug": slug})
}

func (s *Store) RatingSummary(ctx context.Context, slug string) (store.RatingSummary, error) {
	summaries, err := s.aggregateRatings(ctx, bson.M{"recipeSlug": slug})
	if err != nil {
		return store.RatingSummary{}, err
	}
	if len(summaries) == 0 {
		return store.RatingSummary{RecipeSlug: slug}, nil
	}
	return summaries[0], nil
}

func (s *Store) RatingSummaries(ctx context.Context) ([]store.RatingSummary, error) {
	return s.aggregateRatings(ctx, bson.M{})
}

func (s *Store) aggregateRatings(ctx context.Context, match bson.M) ([]store.RatingSummary, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$group", Value: bson.M{
			"_id":     "$recipeSlug",
			"average": bson.M{"$avg": "$rating"},
			"count":   bson.M{"$sum": 1},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
	}

	cursor, err := s.ratings.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate ratings: %w", err)
	}

	out := []store.RatingSummary{}
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode rating summaries: %w", err)
	}
	return out, nil
}
