// AngelaMos | 2026
// service.go

package recipe

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/indiankitchen/kitchen-backend/internal/core"
	"github.com/indiankitchen/kitchen-backend/internal/rating"
	"github.com/indiankitchen/kitchen-backend/internal/store"
)

const (
	DefaultSearchLimit  = 5
	DefaultSimilarLimit = 3

	sameStateScore = 3
	imageURLPrefix = "/recipes/"
)

type Repository interface {
	ListRecipes(ctx context.Context) ([]store.Recipe, error)
	RecipeBySlug(ctx context.Context, slug string) (*store.Recipe, error)
	CreateRecipe(ctx context.Context, recipe *store.Recipe) error
	ReplaceRecipe(ctx context.Context, recipe *store.Recipe) (bool, error)
	DeleteRecipe(ctx context.Context, slug string) (bool, error)
}

type Service struct {
	repo      Repository
	ratings   *rating.Service
	validator *validator.Validate
	imageDir  string
	logger    *slog.Logger
}

func NewService(
	repo Repository,
	ratings *rating.Service,
	imageDir string,
	logger *slog.Logger,
) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:      repo,
		ratings:   ratings,
		validator: validator.New(validator.WithRequiredStructEnabled()),
		imageDir:  imageDir,
		logger:    logger,
	}
}

// List returns the catalogue with rating and reviewCount taken from the
// ratings collection.
func (s *Service) List(ctx context.Context) ([]store.Recipe, error) {
	recipes, err := s.repo.ListRecipes(ctx)
	if err != nil {
		return nil, fmt.Errorf("list recipes: %w", err)
	}

	summaries, err := s.ratings.Summaries(ctx)
	if err != nil {
		return nil, fmt.Errorf("list recipes: %w", err)
	}

	for i := range recipes {
		if sum, ok := summaries[recipes[i].Slug]; ok {
			applySummary(&recipes[i], sum)
		}
	}
	return recipes, nil
}

func (s *Service) Get(ctx context.Context, slug string) (*store.Recipe, error) {
	r, err := s.repo.RecipeBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("get recipe: %w", err)
	}

	sum, err := s.ratings.Average(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("get recipe: %w", err)
	}
	applySummary(r, sum)
	return r, nil
}

func applySummary(r *store.Recipe, sum rating.Summary) {
	if !sum.Rated() {
		return
	}
	r.Rating = sum.Average
	r.ReviewCount = sum.Count
}

func (s *Service) Create(ctx context.Context, req CreateRecipeRequest) (*store.Recipe, error) {
	ctx, span := core.StartSpan(ctx, "recipe.Create")
	defer span.End()

	req.normalize()
	if err := s.validator.Struct(req); err != nil {
		return nil, fmt.Errorf("create recipe: %w: %s",
			core.ErrInvalidInput, core.FormatValidationError(err))
	}

	r := req.toRecipe(uuid.NewString())
	span.SetAttributes(attribute.String("recipe.slug", r.Slug))

	if err := s.repo.CreateRecipe(ctx, r); err != nil {
		core.SetSpanError(ctx, err)
		return nil, fmt.Errorf("create recipe: %w", err)
	}
	return r, nil
}

// Update merges the provided fields into the stored recipe. Fields left
// nil keep their current value.
func (s *Service) Update(ctx context.Context, slug string, req UpdateRecipeRequest) (*store.Recipe, error) {
	ctx, span := core.StartSpan(ctx, "recipe.Update",
		attribute.String("recipe.slug", slug),
	)
	defer span.End()

	req.normalize()
	if err := s.validator.Struct(req); err != nil {
		return nil, fmt.Errorf("update recipe: %w: %s",
			core.ErrInvalidInput, core.FormatValidationError(err))
	}

	r, err := s.repo.RecipeBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("update recipe: %w", err)
	}

	req.applyTo(r)

	found, err := s.repo.ReplaceRecipe(ctx, r)
	if err != nil {
		core.SetSpanError(ctx, err)
		return nil, fmt.Errorf("update recipe: %w", err)
	}
	if !found {
		return nil, fmt.Errorf("update recipe: %w", core.ErrNotFound)
	}
	return r, nil
}

// Delete removes the recipe together with the ratings, bookmarks and
// comments that point at it. A locally hosted image is removed
// afterwards; failing to remove it does not fail the delete.
func (s *Service) Delete(ctx context.Context, slug string) (bool, error) {
	ctx, span := core.StartSpan(ctx, "recipe.Delete",
		attribute.String("recipe.slug", slug),
	)
	defer span.End()

	var imageURL string
	existing, err := s.repo.RecipeBySlug(ctx, slug)
	switch {
	case err == nil:
		imageURL = existing.ImageURL
	case errors.Is(err, core.ErrNotFound):
		return false, nil
	default:
		return false, fmt.Errorf("delete recipe: %w", err)
	}

	found, err := s.repo.DeleteRecipe(ctx, slug)
	if err != nil {
		core.SetSpanError(ctx, err)
		return false, fmt.Errorf("delete recipe: %w", err)
	}
	if found {
		s.removeImage(ctx, imageURL)
	}
	return found, nil
}

func (s *Service) removeImage(ctx context.Context, imageURL string) {
	if s.imageDir == "" || !strings.HasPrefix(imageURL, imageURLPrefix) {
		return
	}

	name := path.Base(imageURL)
	if name == "." || name == "/" {
		return
	}

	file := filepath.Join(s.imageDir, name)
	err := os.Remove(file)
	switch {
	case err == nil:
		core.AddSpanEvent(ctx, "recipe.image_removed", attribute.String("file", file))
		s.logger.InfoContext(ctx, "recipe image removed", "file", file)
	case errors.Is(err, fs.ErrNotExist):
	default:
		s.logger.WarnContext(ctx, "recipe image not removed", "file", file, "error", err)
	}
}

func (s *Service) ByState(ctx context.Context, state string) ([]store.Recipe, error) {
	return s.filter(ctx, func(r store.Recipe) bool {
		return matchesPlace(r.State, state)
	})
}

func (s *Service) ByRegion(ctx context.Context, region string) ([]store.Recipe, error) {
	return s.filter(ctx, func(r store.Recipe) bool {
		return matchesPlace(r.Region, region)
	})
}

// Search matches the query against title, description and state,
// ignoring case. An empty query matches nothing.
func (s *Service) Search(ctx context.Context, query string, limit int) ([]store.Recipe, error) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return []store.Recipe{}, nil
	}
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	matches, err := s.filter(ctx, func(r store.Recipe) bool {
		return strings.Contains(strings.ToLower(r.Title), q) ||
			strings.Contains(strings.ToLower(r.Description), q) ||
			strings.Contains(strings.ToLower(r.State), q)
	})
	if err != nil {
		return nil, err
	}
	return matches[:min(limit, len(matches))], nil
}

// Similar ranks the other recipes by a score of 3 for sharing the state
// plus 1 per shared dietary tag. Ties keep catalogue order.
func (s *Service) Similar(ctx context.Context, slug string, limit int) ([]store.Recipe, error) {
	if limit <= 0 {
		limit = DefaultSimilarLimit
	}

	all, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	idx := slices.IndexFunc(all, func(r store.Recipe) bool { return r.Slug == slug })
	if idx < 0 {
		return nil, fmt.Errorf("similar recipes: %w", core.ErrNotFound)
	}
	current := all[idx]

	type scored struct {
		recipe store.Recipe
		score  int
	}

	candidates := make([]scored, 0, len(all)-1)
	for _, r := range all {
		if r.Slug == slug {
			continue
		}
		candidates = append(candidates, scored{recipe: r, score: similarity(current, r)})
	}

	slices.SortStableFunc(candidates, func(a, b scored) int {
		return cmp.Compare(b.score, a.score)
	})

	out := make([]store.Recipe, 0, limit)
	for _, c := range candidates[:min(limit, len(candidates))] {
		out = append(out, c.recipe)
	}
	return out, nil
}

func similarity(a, b store.Recipe) int {
	score := 0
	if a.State == b.State {
		score += sameStateScore
	}
	for _, tag := range b.Dietary {
		if slices.Contains(a.Dietary, tag) {
			score++
		}
	}
	return score
}

func (s *Service) filter(ctx context.Context, keep func(store.Recipe) bool) ([]store.Recipe, error) {
	all, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]store.Recipe, 0, len(all))
	for _, r := range all {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out, nil
}

// matchesPlace accepts either the display name ("West Bengal") or its
// URL form ("west-bengal").
func matchesPlace(value, want string) bool {
	want = strings.TrimSpace(want)
	if want == "" {
		return false
	}
	return strings.EqualFold(value, want) || PlaceSlug(value) == strings.ToLower(want)
}

func PlaceSlug(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), "-"))
}
