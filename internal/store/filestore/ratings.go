// AngelaMos | 2026
// ratings.go

package filestore

import (
	"context"
	"fmt"

	"github.com/indiankitchen/kitchen-backend/internal/core"
	"github.com/indiankitchen/kitchen-backend/internal/store"
)

func (s *Store) UpsertRating(ctx context.Context, rating *store.Rating) error {
	return s.update(ctx, func(d *store.Snapshot) (bool, error) {
		for i := range d.Ratings {
			r := &d.Ratings[i]
			if r.UserID == rating.UserID && r.RecipeSlug == rating.RecipeSlug {
				r.Rating = rating.Rating
				r.Timestamp = rating.Timestamp
				return true, nil
			}
		}
		d.Ratings = append(d.Ratings, *rating)
		return true, nil
	})
}

func (s *Store) RatingByUser(ctx context.Context, userID, slug string) (*store.Rating, error) {
	var found *store.Rating
	err := s.view(ctx, func(d *store.Snapshot) error {
		for i := range d.Ratings {
			r := d.Ratings[i]
			if r.UserID == userID && r.RecipeSlug == slug {
				found = &r
				return nil
			}
		}
		return fmt.Errorf("find rating: %w", core.ErrNotFound)
	})
	return found, err
}

func (s *Store) RatingSummary(ctx context.Context, slug string) (store.RatingSummary, error) {
	summary := store.RatingSummary{RecipeSlug: slug}
	err := s.view(ctx, func(d *store.Snapshot) error {
		sum := 0
		for _, r := range d.Ratings {
			if r.RecipeSlug == slug {
				sum += r.Rating
				summary.Count++
			}
		}
		if summary.Count > 0 {
			summary.Average = float64(sum) / float64(summary.Count)
		}
		return nil
	})
	return summary, err
}

func (s *Store) RatingSummaries(ctx context.Context) ([]store.RatingSummary, error) {
	var out []store.RatingSummary
	err := s.view(ctx, func(d *store.Snapshot) error {
		sums := make(map[string]int)
		index := make(map[string]int)
		for _, r := range d.Ratings {
			if _, ok := index[r.RecipeSlug]; !ok {
				index[r.RecipeSlug] = len(out)
				out = append(out, store.RatingSummary{RecipeSlug: r.RecipeSlug})
			}
			sums[r.RecipeSlug] += r.Rating
			out[index[r.RecipeSlug]].Count++
		}
		for i := range out {
			out[i].Average = float64(sums[out[i].RecipeSlug]) / float64(out[i].Count)
		}
		return nil
	})
	return out, err
}
