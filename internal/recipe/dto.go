// AngelaMos | 2026
// dto.go

package recipe

import (
	"strings"

	"github.com/indiankitchen/kitchen-backend/internal/store"
)

type IngredientRequest struct {
	Item     string `json:"item" validate:"required"`
	Quantity string `json:"quantity"`
}

type CreateRecipeRequest struct {
	Title        string              `json:"title" validate:"required,max=200"`
	Slug         string              `json:"slug" validate:"required,max=120"`
	Description  string              `json:"description" validate:"required"`
	State        string              `json:"state" validate:"required"`
	Region       string              `json:"region" validate:"required"`
	PrepTime     string              `json:"prepTime"`
	CookTime     string              `json:"cookTime"`
	Servings     int                 `json:"servings" validate:"gte=0"`
	Ingredients  []IngredientRequest `json:"ingredients" validate:"dive"`
	Instructions []string            `json:"instructions"`
	ImageURL     string              `json:"imageUrl"`
	Dietary      []string            `json:"dietary"`
}

// UpdateRecipeRequest carries only the fields an editor may change. The
// id, slug and the derived rating fields are not part of it.
type UpdateRecipeRequest struct {
	Title        *string              `json:"title" validate:"omitempty,min=1,max=200"`
	Description  *string              `json:"description" validate:"omitempty,min=1"`
	State        *string              `json:"state" validate:"omitempty,min=1"`
	Region       *string              `json:"region" validate:"omitempty,min=1"`
	PrepTime     *string              `json:"prepTime"`
	CookTime     *string              `json:"cookTime"`
	Servings     *int                 `json:"servings" validate:"omitempty,gte=0"`
	Ingredients  *[]IngredientRequest `json:"ingredients" validate:"omitempty,dive"`
	Instructions *[]string            `json:"instructions"`
	ImageURL     *string              `json:"imageUrl"`
	Dietary      *[]string            `json:"dietary"`
}

type RecipeResponse struct {
	Recipe *store.Recipe `json:"recipe"`
}

type RecipeListResponse struct {
	Recipes []store.Recipe `json:"recipes"`
}

type SearchResponse struct {
	RecipeMatches []store.Recipe `json:"recipeMatches"`
}

func toIngredients(in []IngredientRequest) []store.Ingredient {
	out := make([]store.Ingredient, 0, len(in))
	for _, i := range in {
		out = append(out, store.Ingredient{
			Item:     strings.TrimSpace(i.Item),
			Quantity: strings.TrimSpace(i.Quantity),
		})
	}
	return out
}

func nonNil(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}

// normalize trims the identifying fields so that whitespace-only values
// fail the required checks.
func (req *CreateRecipeRequest) normalize() {
	req.Title = strings.TrimSpace(req.Title)
	req.Slug = strings.TrimSpace(req.Slug)
	req.Description = strings.TrimSpace(req.Description)
	req.State = strings.TrimSpace(req.State)
	req.Region = strings.TrimSpace(req.Region)
}

func (req *CreateRecipeRequest) toRecipe(id string) *store.Recipe {
	return &store.Recipe{
		ID:           id,
		Title:        req.Title,
		Slug:         req.Slug,
		Description:  req.Description,
		State:        req.State,
		Region:       req.Region,
		PrepTime:     req.PrepTime,
		CookTime:     req.CookTime,
		Servings:     req.Servings,
		Ingredients:  toIngredients(req.Ingredients),
		Instructions: nonNil(req.Instructions),
		ImageURL:     req.ImageURL,
		Dietary:      nonNil(req.Dietary),
	}
}

func (req *UpdateRecipeRequest) applyTo(r *store.Recipe) {
	if req.Title != nil {
		r.Title = *req.Title
	}
	if req.Description != nil {
		r.Description = *req.Description
	}
	if req.State != nil {
		r.State = *req.State
	}
	if req.Region != nil {
		r.Region = *req.Region
	}
	if req.PrepTime != nil {
		r.PrepTime = *req.PrepTime
	}
	if req.CookTime != nil {
		r.CookTime = *req.CookTime
	}
	if req.Servings != nil {
		r.Servings = *req.Servings
	}
	if req.Ingredients != nil {
		r.Ingredients = toIngredients(*req.Ingredients)
	}
	if req.Instructions != nil {
		r.Instructions = nonNil(*req.Instructions)
	}
	if req.ImageURL != nil {
		r.ImageURL = *req.ImageURL
	}
	if req.Dietary != nil {
		r.Dietary = nonNil(*req.Dietary)
	}
}

func (req *UpdateRecipeRequest) normalize() {
	for _, f := range []*string{req.Title, req.Description, req.State, req.Region} {
		if f != nil {
			*f = strings.TrimSpace(*f)
		}
	}
}
