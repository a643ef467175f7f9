// AngelaMos | 2026
// service.go

package bookmark

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/indiankitchen/kitchen-backend/internal/activity"
	"github.com/indiankitchen/kitchen-backend/internal/core"
	"github.com/indiankitchen/kitchen-backend/internal/store"
)

type Repository interface {
	ToggleBookmark(ctx context.Context, bookmark *store.Bookmark) (bool, error)
	IsBookmarked(ctx context.Context, userID, slug string) (bool, error)
	BookmarksByUser(ctx context.Context, userID string) ([]store.Bookmark, error)
	ListRecipes(ctx context.Context) ([]store.Recipe, error)
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

// Toggle flips the bookmark and reports whether the recipe is now saved.
func (s *Service) Toggle(ctx context.Context, userID, slug string) (bool, error) {
	ctx, span := core.StartSpan(ctx, "bookmark.Toggle",
		attribute.String("recipe.slug", slug),
	)
	defer span.End()

	saved, err := s.repo.ToggleBookmark(ctx, &store.Bookmark{
		UserID:     userID,
		RecipeSlug: slug,
		Timestamp:  s.now(),
	})
	if err != nil {
		core.SetSpanError(ctx, err)
		return false, fmt.Errorf("toggle bookmark: %w", err)
	}

	details := "Removed bookmark " + slug
	if saved {
		details = "Bookmarked " + slug
	}
	s.activity.Record(ctx, userID, store.ActivityBookmark, details, slug)

	return saved, nil
}

func (s *Service) IsBookmarked(ctx context.Context, userID, slug string) (bool, error) {
	saved, err := s.repo.IsBookmarked(ctx, userID, slug)
	if err != nil {
		return false, fmt.Errorf("is bookmarked: %w", err)
	}
	return saved, nil
}

func (s *Service) Slugs(ctx context.Context, userID string) ([]string, error) {
	marks, err := s.repo.BookmarksByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("user bookmarks: %w", err)
	}

	slugs := make([]string, 0, len(marks))
	for _, m := range marks {
		slugs = append(slugs, m.RecipeSlug)
	}
	return slugs, nil
}

// SavedRecipes returns the recipes the user bookmarked in catalogue
// order. Bookmarks pointing at recipes that no longer exist are skipped.
func (s *Service) SavedRecipes(ctx context.Context, userID string) ([]store.Recipe, error) {
	slugs, err := s.Slugs(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(slugs) == 0 {
		return []store.Recipe{}, nil
	}

	wanted := make(map[string]struct{}, len(slugs))
	for _, slug := range slugs {
		wanted[slug] = struct{}{}
	}

	recipes, err := s.repo.ListRecipes(ctx)
	if err != nil {
		return nil, fmt.Errorf("saved recipes: %w", err)
	}

	out := make([]store.Recipe, 0, len(slugs))
	for _, r := range recipes {
		if _, ok := wanted[r.Slug]; ok {
			out = append(out, r)
		}
	}
	return out, nil
}
