// AngelaMos | 2026
// service.go

package comment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/indiankitchen/kitchen-backend/internal/activity"
	"github.com/indiankitchen/kitchen-backend/internal/core"
	"github.com/indiankitchen/kitchen-backend/internal/store"
)

const AnonymousAuthor = "Anonymous"

type Repository interface {
	CreateComment(ctx context.Context, comment *store.Comment) error
	CommentsByRecipe(ctx context.Context, slug string) ([]store.Comment, error)
	ListComments(ctx context.Context) ([]store.Comment, error)
	DeleteComment(ctx context.Context, id string) (bool, error)
	UserByID(ctx context.Context, id string) (*store.User, error)
}

// View is a comment joined with its author at read time. Renaming a
// user changes the name shown on every comment they wrote.
type View struct {
	store.Comment
	UserName  string `json:"userName"`
	UserEmail string `json:"userEmail,omitempty"`
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

// Add stores the content verbatim. Content that is blank after trimming
// is rejected.
func (s *Service) Add(ctx context.Context, userID, slug, content string) (*View, error) {
	ctx, span := core.StartSpan(ctx, "comment.Add",
		attribute.String("recipe.slug", slug),
	)
	defer span.End()

	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("add comment: %w: comment content is required", core.ErrInvalidInput)
	}

	c := &store.Comment{
		ID:         uuid.NewString(),
		UserID:     userID,
		RecipeSlug: slug,
		Content:    content,
		Timestamp:  s.now(),
	}

	if err := s.repo.CreateComment(ctx, c); err != nil {
		core.SetSpanError(ctx, err)
		return nil, fmt.Errorf("add comment: %w", err)
	}

	s.activity.Record(ctx, userID, store.ActivityComment, "Commented on "+slug, slug)

	authors := newAuthorCache(s.repo)
	view, err := authors.view(ctx, *c, false)
	if err != nil {
		return nil, fmt.Errorf("add comment: %w", err)
	}
	return &view, nil
}

// ForRecipe returns the recipe's comments newest first.
func (s *Service) ForRecipe(ctx context.Context, slug string) ([]View, error) {
	comments, err := s.repo.CommentsByRecipe(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("recipe comments: %w", err)
	}
	return s.enrich(ctx, comments, false)
}

// All is the moderation view across every recipe, with author emails.
func (s *Service) All(ctx context.Context) ([]View, error) {
	comments, err := s.repo.ListComments(ctx)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	return s.enrich(ctx, comments, true)
}

func (s *Service) Delete(ctx context.Context, id string) (bool, error) {
	found, err := s.repo.DeleteComment(ctx, id)
	if err != nil {
		return false, fmt.Errorf("delete comment: %w", err)
	}
	return found, nil
}

func (s *Service) enrich(ctx context.Context, comments []store.Comment, withEmail bool) ([]View, error) {
	authors := newAuthorCache(s.repo)

	views := make([]View, 0, len(comments))
	for _, c := range comments {
		v, err := authors.view(ctx, c, withEmail)
		if err != nil {
			return nil, err
		}
		views = append(views, v)
	}
	return views, nil
}

type authorCache struct {
	repo  Repository
	users map[string]*store.User
}

func newAuthorCache(repo Repository) *authorCache {
	return &authorCache{repo: repo, users: make(map[string]*store.User)}
}

func (a *authorCache) lookup(ctx context.Context, id string) (*store.User, error) {
	if u, ok := a.users[id]; ok {
		return u, nil
	}

	u, err := a.repo.UserByID(ctx, id)
	switch {
	case errors.Is(err, core.ErrNotFound):
		u = nil
	case err != nil:
		return nil, fmt.Errorf("comment author: %w", err)
	}

	a.users[id] = u
	return u, nil
}

func (a *authorCache) view(ctx context.Context, c store.Comment, withEmail bool) (View, error) {
	u, err := a.lookup(ctx, c.UserID)
	if err != nil {
		return View{}, err
	}

	v := View{Comment: c, UserName: DisplayName(u)}
	if withEmail && u != nil {
		v.UserEmail = u.Email
	}
	return v, nil
}

// DisplayName prefers the profile name, then the local part of the
// email address.
func DisplayName(u *store.User) string {
	if u == nil {
		return AnonymousAuthor
	}
	if name := strings.TrimSpace(u.Name); name != "" {
		return name
	}
	if local, _, ok := strings.Cut(u.Email, "@"); ok && local != "" {
		return local
	}
	if u.Email != "" {
		return u.Email
	}
	return AnonymousAuthor
}
