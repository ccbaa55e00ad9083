package inbound

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// PantryService defines the use cases for perishable ingredient tracking
type PantryService interface {
	// Commands - operations that modify state
	RegisterIngredient(ctx context.Context, cmd RegisterIngredientCommand) (*IngredientDTO, error)
	UpdateIngredient(ctx context.Context, cmd UpdateIngredientCommand) (*IngredientDTO, error)
	RemoveIngredient(ctx context.Context, userID int64, id uuid.UUID) error
	FreezeIngredient(ctx context.Context, userID int64, id uuid.UUID) (*IngredientDTO, error)
	ThawIngredient(ctx context.Context, userID int64, id uuid.UUID) (*IngredientDTO, error)

	// Queries - operations that read state
	GetIngredient(ctx context.Context, userID int64, id uuid.UUID) (*IngredientDTO, error)
	ListIngredients(ctx context.Context, userID int64) ([]IngredientDTO, error)
	ListExpiring(ctx context.Context, userID int64, withinDays int) ([]IngredientDTO, error)
}

// RegisterIngredientCommand registers a new pantry item. When LimitAt
// is nil the service derives it from the configured default shelf life.
type RegisterIngredientCommand struct {
	UserID   int64
	Name     string
	Category string
	Quantity string
	ImageURL string
	AddedAt  *time.Time
	LimitAt  *time.Time
}

// UpdateIngredientCommand changes a pantry item. Nil fields are left
// untouched.
type UpdateIngredientCommand struct {
	UserID   int64
	ID       uuid.UUID
	Name     *string
	Category *string
	Quantity *string
	ImageURL *string
	AddedAt  *time.Time
	LimitAt  *time.Time
}

// IngredientDTO is the data transfer object for pantry items
type IngredientDTO struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	Category        string    `json:"category"`
	Quantity        string    `json:"quantity,omitempty"`
	ImageURL        string    `json:"image_url,omitempty"`
	AddedAt         string    `json:"added_at"`
	LimitAt         string    `json:"limit_at"`
	Frozen          bool      `json:"frozen"`
	Expired         bool      `json:"expired"`
	DaysUntilExpiry int       `json:"days_until_expiry"`
}
