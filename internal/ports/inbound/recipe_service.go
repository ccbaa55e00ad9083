// Package inbound defines the interfaces for inbound ports (primary/driving adapters)
// These are the interfaces that the application exposes to the outside world
package inbound

import (
	"context"

	"github.com/google/uuid"
)

// RecipeService defines the use cases for recipe generation and curation
// This is the primary port that HTTP handlers and other driving adapters will use
type RecipeService interface {
	// Commands - operations that modify state
	GenerateRecipe(ctx context.Context, cmd GenerateRecipeCommand) (*RecipeDTO, error)
	ToggleStar(ctx context.Context, recipeID uuid.UUID, userID int64) (*StarStateDTO, error)
	SaveRecipe(ctx context.Context, recipeID uuid.UUID, userID int64) error
	DeleteRecipe(ctx context.Context, recipeID uuid.UUID, userID int64) error

	// Queries - operations that read state
	GetRecipe(ctx context.Context, recipeID uuid.UUID, viewerID int64) (*RecipeDTO, error)
	ListRecipes(ctx context.Context, userID int64, params PaginationParams) (*RecipeList, error)
	ListStarredRecipes(ctx context.Context, userID int64) ([]RecipeDTO, error)
}

// GenerateRecipeCommand triggers the generation pipeline for a user.
// Ingredients optionally narrows generation to a subset of the user's
// eligible pantry; names outside the eligible set are ignored.
type GenerateRecipeCommand struct {
	UserID      int64
	Ingredients []string
}

// PaginationParams for paginated queries
type PaginationParams struct {
	Page     int
	PageSize int
}

// RecipeDTO is the data transfer object for recipes
type RecipeDTO struct {
	ID           uuid.UUID `json:"recipe_id"`
	Title        string    `json:"title"`
	Subtitle     string    `json:"subtitle"`
	Steps        []string  `json:"steps"`
	Ingredients  []string  `json:"ingredients"`
	Seasonings   []string  `json:"seasonings"`
	YoutubeLink  string    `json:"youtubeLink"`
	VideoID      string    `json:"video_id,omitempty"`
	ThumbnailURL string    `json:"thumbnail_url,omitempty"`
	IsStarred    bool      `json:"is_starred"`
	StarCount    int64     `json:"star_count"`
	IsSaved      bool      `json:"is_saved"`
	CreatedAt    string    `json:"created_at"`
}

// StarStateDTO reports the outcome of a star toggle
type StarStateDTO struct {
	RecipeID  uuid.UUID `json:"recipe_id"`
	IsStarred bool      `json:"is_starred"`
	StarCount int64     `json:"star_count"`
}

// RecipeList for paginated results
type RecipeList struct {
	Recipes    []RecipeDTO `json:"recipes"`
	Total      int64       `json:"total"`
	Page       int         `json:"page"`
	PageSize   int         `json:"page_size"`
	TotalPages int         `json:"total_pages"`
}
