// Package recipe contains the core domain logic for generated recipes.
// This follows Domain-Driven Design principles with rich domain models.
package recipe

import (
	"time"

	"github.com/google/uuid"
	"github.com/springdish/v1/internal/domain/shared"
)

// Recipe represents a dish produced by the generation pipeline for a
// specific user. Recipes are immutable once persisted except for the
// saved flag; starring is tracked separately per viewer.
type Recipe struct {
	// Aggregate root identifier
	id     uuid.UUID
	userID int64

	// Generated content
	title       string
	subtitle    string
	steps       []string
	ingredients []string
	seasonings  []string

	// Companion video
	video VideoRef

	// Curation
	saved bool

	createdAt time.Time
	updatedAt time.Time

	// Domain events to be dispatched
	events []shared.DomainEvent
}

// NewRecipe creates a recipe from validated generation output.
func NewRecipe(userID int64, content GeneratedRecipe, video VideoRef) (*Recipe, error) {
	if userID <= 0 {
		return nil, ErrInvalidOwner
	}
	if err := content.Validate(); err != nil {
		return nil, err
	}

	now := time.Now()
	r := &Recipe{
		id:          uuid.New(),
		userID:      userID,
		title:       content.Title,
		subtitle:    content.Subtitle,
		steps:       content.Steps,
		ingredients: content.Ingredients,
		seasonings:  content.Seasonings,
		video:       video,
		createdAt:   now,
		updatedAt:   now,
		events:      []shared.DomainEvent{},
	}

	r.addEvent(RecipeGeneratedEvent{
		RecipeID:    r.id,
		UserID:      userID,
		Title:       content.Title,
		GeneratedAt: now,
	})

	return r, nil
}

// Reconstitute rebuilds a recipe from persisted state. Intended for
// repository mappers only.
func Reconstitute(id uuid.UUID, userID int64, content GeneratedRecipe, video VideoRef, saved bool, createdAt, updatedAt time.Time) *Recipe {
	return &Recipe{
		id:          id,
		userID:      userID,
		title:       content.Title,
		subtitle:    content.Subtitle,
		steps:       content.Steps,
		ingredients: content.Ingredients,
		seasonings:  content.Seasonings,
		video:       video,
		saved:       saved,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
		events:      []shared.DomainEvent{},
	}
}

// ID returns the recipe's unique identifier
func (r *Recipe) ID() uuid.UUID {
	return r.id
}

// UserID returns the identifier of the user the recipe was generated for
func (r *Recipe) UserID() int64 {
	return r.userID
}

// Title returns the recipe's title
func (r *Recipe) Title() string {
	return r.title
}

// Subtitle returns the recipe's one-line description
func (r *Recipe) Subtitle() string {
	return r.subtitle
}

// Steps returns the ordered preparation steps
func (r *Recipe) Steps() []string {
	return r.steps
}

// Ingredients returns the ingredient lines
func (r *Recipe) Ingredients() []string {
	return r.ingredients
}

// Seasonings returns the seasoning lines
func (r *Recipe) Seasonings() []string {
	return r.seasonings
}

// Video returns the companion video reference
func (r *Recipe) Video() VideoRef {
	return r.video
}

// IsSaved reports whether the owner kept the recipe in their collection
func (r *Recipe) IsSaved() bool {
	return r.saved
}

// CreatedAt returns when the recipe was generated
func (r *Recipe) CreatedAt() time.Time {
	return r.createdAt
}

// UpdatedAt returns when the recipe was last modified
func (r *Recipe) UpdatedAt() time.Time {
	return r.updatedAt
}

// IsOwnedBy reports whether the recipe belongs to the given user.
func (r *Recipe) IsOwnedBy(userID int64) bool {
	return r.userID == userID
}

// Save marks the recipe as kept in the owner's collection.
func (r *Recipe) Save() error {
	if r.saved {
		return ErrAlreadySaved
	}
	r.saved = true
	r.updatedAt = time.Now()

	r.addEvent(RecipeSavedEvent{
		RecipeID: r.id,
		UserID:   r.userID,
		SavedAt:  r.updatedAt,
	})

	return nil
}

// addEvent adds a domain event to be dispatched
func (r *Recipe) addEvent(event shared.DomainEvent) {
	r.events = append(r.events, event)
}

// Events returns and clears pending domain events
func (r *Recipe) Events() []shared.DomainEvent {
	events := r.events
	r.events = []shared.DomainEvent{}
	return events
}

// Star records that a user starred a recipe. The pair (RecipeID,
// UserID) is unique; starring is a toggle, so a second star by the
// same user removes the first.
type Star struct {
	RecipeID  uuid.UUID
	UserID    int64
	CreatedAt time.Time
}

// NewStar creates a star for the given recipe and user.
func NewStar(recipeID uuid.UUID, userID int64) (*Star, error) {
	if recipeID == uuid.Nil {
		return nil, ErrInvalidRecipeID
	}
	if userID <= 0 {
		return nil, ErrInvalidOwner
	}
	return &Star{
		RecipeID:  recipeID,
		UserID:    userID,
		CreatedAt: time.Now(),
	}, nil
}
