// AngelaMos | 2026
// service.go

package activity

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/indiankitchen/kitchen-backend/internal/store"
)

const DefaultRecentLimit = 50

type Service struct {
	store  store.ActivityStore
	logger *slog.Logger
	now    func() time.Time
}

func NewService(s store.ActivityStore, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		store:  s,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) Log(
	ctx context.Context,
	userID string,
	kind store.ActivityType,
	details string,
	recipeSlug string,
) error {
	entry := &store.Activity{
		ID:         uuid.NewString(),
		UserID:     userID,
		Type:       kind,
		Details:    details,
		RecipeSlug: recipeSlug,
		Timestamp:  s.now(),
	}

	if err := s.store.AppendActivity(ctx, entry); err != nil {
		return fmt.Errorf("log activity: %w", err)
	}
	return nil
}

// Record logs an activity that follows a write which already succeeded.
// A failure here is logged and never propagated.
func (s *Service) Record(
	ctx context.Context,
	userID string,
	kind store.ActivityType,
	details string,
	recipeSlug string,
) {
	if err := s.Log(ctx, userID, kind, details, recipeSlug); err != nil {
		s.logger.WarnContext(ctx, "activity not recorded",
			"user_id", userID,
			"type", string(kind),
			"error", err,
		)
	}
}

func (s *Service) Recent(ctx context.Context, limit int) ([]store.Activity, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}

	entries, err := s.store.RecentActivities(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("recent activities: %w", err)
	}
	return entries, nil
}
