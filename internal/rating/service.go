// AngelaMos | 2026
// service.go

package rating

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/indiankitchen/kitchen-backend/internal/activity"
	"github.com/indiankitchen/kitchen-backend/internal/core"
	"github.com/indiankitchen/kitchen-backend/internal/store"
)

const (
	MinRating = 1
	MaxRating = 5
)

type Repository interface {
	UpsertRating(ctx context.Context, rating *store.Rating) error
	RatingByUser(ctx context.Context, userID, slug string) (*store.Rating, error)
	RatingSummary(ctx context.Context, slug string) (store.RatingSummary, error)
	RatingSummaries(ctx context.Context) ([]store.RatingSummary, error)
}

// Summary is the aggregate shown next to a recipe. Count zero means the
// recipe has not been rated.
type Summary struct {
	Average float64
	Count   int
}

func (s Summary) Rated() bool {
	return s.Count > 0
}

type Service struct {
	repo     Repository
	activity *activity.Service
	now      func() time.Time
}

func NewService(repo Repository, activitySvc *activity.Service) *Service {
	return &Service{
		repo:     repo,
		activity: activitySvc,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Rate records the user's rating for a recipe, replacing any earlier
// one, and returns the recomputed summary.
func (s *Service) Rate(ctx context.Context, userID, slug string, value int) (Summary, error) {
	ctx, span := core.StartSpan(ctx, "rating.Rate",
		attribute.String("recipe.slug", slug),
	)
	defer span.End()

	if value < MinRating || value > MaxRating {
		return Summary{}, fmt.Errorf(
			"rate recipe: %w: rating must be between %d and %d",
			core.ErrInvalidInput, MinRating, MaxRating,
		)
	}

	r := &store.Rating{
		ID:         uuid.NewString(),
		UserID:     userID,
		RecipeSlug: slug,
		Rating:     value,
		Timestamp:  s.now(),
	}

	if err := s.repo.UpsertRating(ctx, r); err != nil {
		core.SetSpanError(ctx, err)
		return Summary{}, fmt.Errorf("rate recipe: %w", err)
	}

	s.activity.Record(ctx, userID, store.ActivityRating,
		fmt.Sprintf("Rated %s %d stars", slug, value), slug)

	return s.Average(ctx, slug)
}

func (s *Service) UserRating(ctx context.Context, userID, slug string) (*store.Rating, error) {
	return s.repo.RatingByUser(ctx, userID, slug)
}

// Average recomputes the mean over every rating of the recipe, rounded
// to one decimal.
func (s *Service) Average(ctx context.Context, slug string) (Summary, error) {
	agg, err := s.repo.RatingSummary(ctx, slug)
	if err != nil {
		return Summary{}, fmt.Errorf("average rating: %w", err)
	}
	return toSummary(agg), nil
}

// Summaries returns the summary of every rated recipe keyed by slug.
func (s *Service) Summaries(ctx context.Context) (map[string]Summary, error) {
	aggs, err := s.repo.RatingSummaries(ctx)
	if err != nil {
		return nil, fmt.Errorf("rating summaries: %w", err)
	}

	out := make(map[string]Summary, len(aggs))
	for _, agg := range aggs {
		out[agg.RecipeSlug] = toSummary(agg)
	}
	return out, nil
}

func toSummary(agg store.RatingSummary) Summary {
	if agg.Count == 0 {
		return Summary{}
	}
	return Summary{
		Average: RoundOneDecimal(agg.Average),
		Count:   agg.Count,
	}
}

func RoundOneDecimal(v float64) float64 {
	return math.Round(v*10) / 10
}
