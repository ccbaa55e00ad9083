package recipe

import (
	"time"

	"github.com/google/uuid"
)

// Domain Events - Events that occur within the recipe domain

// RecipeGeneratedEvent is raised when the pipeline produces a recipe
type RecipeGeneratedEvent struct {
	RecipeID    uuid.UUID
	UserID      int64
	Title       string
	GeneratedAt time.Time
}

func (e RecipeGeneratedEvent) EventName() string {
	return "recipe.generated"
}

func (e RecipeGeneratedEvent) OccurredAt() time.Time {
	return e.GeneratedAt
}

// RecipeSavedEvent is raised when the owner keeps a recipe
type RecipeSavedEvent struct {
	RecipeID uuid.UUID
	UserID   int64
	SavedAt  time.Time
}

func (e RecipeSavedEvent) EventName() string {
	return "recipe.saved"
}

func (e RecipeSavedEvent) OccurredAt() time.Time {
	return e.SavedAt
}

// RecipeStarredEvent is raised when a user stars a recipe
type RecipeStarredEvent struct {
	RecipeID  uuid.UUID
	UserID    int64
	StarredAt time.Time
}

func (e RecipeStarredEvent) EventName() string {
	return "recipe.starred"
}

func (e RecipeStarredEvent) OccurredAt() time.Time {
	return e.StarredAt
}

// RecipeUnstarredEvent is raised when a user removes their star
type RecipeUnstarredEvent struct {
	RecipeID    uuid.UUID
	UserID      int64
	UnstarredAt time.Time
}

func (e RecipeUnstarredEvent) EventName() string {
	return "recipe.unstarred"
}

func (e RecipeUnstarredEvent) OccurredAt() time.Time {
	return e.UnstarredAt
}
