// AngelaMos | 2026
// entity.go

package store

import (
	"time"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

const (
	StatusActive  = "active"
	StatusBlocked = "blocked"
)

type ActivityType string

const (
	ActivityBookmark ActivityType = "bookmark"
	ActivityRating   ActivityType = "rating"
	ActivityLogin    ActivityType = "login"
	ActivityLogout   ActivityType = "logout"
	ActivitySignup   ActivityType = "signup"
	ActivityComment  ActivityType = "comment"
)

// User field names double as the JSON file keys and the BSON keys.
type User struct {
	ID           string    `json:"id" bson:"id"`
	Email        string    `json:"email" bson:"email"`
	Name         string    `json:"name,omitempty" bson:"name,omitempty"`
	PasswordHash string    `json:"passwordHash" bson:"passwordHash"`
	Role         string    `json:"role" bson:"role"`
	Status       string    `json:"status,omitempty" bson:"status,omitempty"`
	CreatedAt    time.Time `json:"createdAt" bson:"createdAt"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// IsBlocked treats a missing status as active.
func (u *User) IsBlocked() bool {
	return u.Status == StatusBlocked
}

func (u *User) EffectiveStatus() string {
	if u.Status == "" {
		return StatusActive
	}
	return u.Status
}

type Session struct {
	ID        string    `json:"id" bson:"id"`
	UserID    string    `json:"userId" bson:"userId"`
	ExpiresAt time.Time `json:"expiresAt" bson:"expiresAt"`
}

func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

type Rating struct {
	ID         string    `json:"id" bson:"id"`
	UserID     string    `json:"userId" bson:"userId"`
	RecipeSlug string    `json:"recipeSlug" bson:"recipeSlug"`
	Rating     int       `json:"rating" bson:"rating"`
	Timestamp  time.Time `json:"timestamp" bson:"timestamp"`
}

type Bookmark struct {
	UserID     string    `json:"userId" bson:"userId"`
	RecipeSlug string    `json:"recipeSlug" bson:"recipeSlug"`
	Timestamp  time.Time `json:"timestamp" bson:"timestamp"`
}

type Comment struct {
	ID         string    `json:"id" bson:"id"`
	UserID     string    `json:"userId" bson:"userId"`
	RecipeSlug string    `json:"recipeSlug" bson:"recipeSlug"`
	Content    string    `json:"content" bson:"content"`
	Timestamp  time.Time `json:"timestamp" bson:"timestamp"`
}

type Ingredient struct {
	Item     string `json:"item" bson:"item"`
	Quantity string `json:"quantity" bson:"quantity"`
}

type Recipe struct {
	ID           string       `json:"id" bson:"id"`
	Title        string       `json:"title" bson:"title"`
	Slug         string       `json:"slug" bson:"slug"`
	Description  string       `json:"description" bson:"description"`
	State        string       `json:"state" bson:"state"`
	Region       string       `json:"region" bson:"region"`
	PrepTime     string       `json:"prepTime" bson:"prepTime"`
	CookTime     string       `json:"cookTime" bson:"cookTime"`
	Servings     int          `json:"servings" bson:"servings"`
	Ingredients  []Ingredient `json:"ingredients" bson:"ingredients"`
	Instructions []string     `json:"instructions" bson:"instructions"`
	ImageURL     string       `json:"imageUrl" bson:"imageUrl"`
	Dietary      []string     `json:"dietary" bson:"dietary"`
	Rating       float64      `json:"rating" bson:"rating"`
	ReviewCount  int          `json:"reviewCount" bson:"reviewCount"`
}

type Activity struct {
	ID         string       `json:"id" bson:"id"`
	UserID     string       `json:"userId" bson:"userId"`
	Type       ActivityType `json:"type" bson:"type"`
	Details    string       `json:"details" bson:"details"`
	RecipeSlug string       `json:"recipeSlug,omitempty" bson:"recipeSlug,omitempty"`
	Timestamp  time.Time    `json:"timestamp" bson:"timestamp"`
}

// RatingSummary is the aggregate over every rating of one recipe.
// Count zero means the recipe has no ratings.
type RatingSummary struct {
	RecipeSlug string  `json:"recipeSlug" bson:"_id"`
	Average    float64 `json:"averageRating" bson:"average"`
	Count      int     `json:"reviewCount" bson:"count"`
}

// Counts feeds the admin dashboard.
type Counts struct {
	Users      int64 `json:"users"`
	Sessions   int64 `json:"sessions"`
	Ratings    int64 `json:"ratings"`
	Bookmarks  int64 `json:"bookmarks"`
	Comments   int64 `json:"comments"`
	Recipes    int64 `json:"recipes"`
	Activities int64 `json:"activities"`
}

// Snapshot is the full document layout of the JSON file, also used for
// exports and migrations between backends.
type Snapshot struct {
	Users      []User     `json:"users"`
	Sessions   []Session  `json:"sessions"`
	Ratings    []Rating   `json:"ratings"`
	Bookmarks  []Bookmark `json:"bookmarks"`
	Activities []Activity `json:"activities"`
	Comments   []Comment  `json:"comments"`
	Recipes    []Recipe   `json:"recipes"`
}

// Normalize replaces missing collections with empty ones so that files
// written before a collection existed load cleanly.
func (s *Snapshot) Normalize() {
	if s.Users == nil {
		s.Users = []User{}
	}
	if s.Sessions == nil {
		s.Sessions = []Session{}
	}
	if s.Ratings == nil {
		s.Ratings = []Rating{}
	}
	if s.Bookmarks == nil {
		s.Bookmarks = []Bookmark{}
	}
	if s.Activities == nil {
		s.Activities = []Activity{}
	}
	if s.Comments == nil {
		s.Comments = []Comment{}
	}
	if s.Recipes == nil {
		s.Recipes = []Recipe{}
	}
}
