package pantry

import (
	"time"

	"github.com/google/uuid"
)

// Domain Events - Events that occur within the pantry domain

// IngredientRegisteredEvent is raised when an ingredient is registered
type IngredientRegisteredEvent struct {
	IngredientID uuid.UUID
	UserID       int64
	Name         string
	LimitAt      time.Time
	RegisteredAt time.Time
}

func (e IngredientRegisteredEvent) EventName() string {
	return "pantry.ingredient.registered"
}

func (e IngredientRegisteredEvent) OccurredAt() time.Time {
	return e.RegisteredAt
}

// IngredientFrozenEvent is raised when an ingredient enters frozen storage
type IngredientFrozenEvent struct {
	IngredientID uuid.UUID
	UserID       int64
	NewLimitAt   time.Time
	FrozenAt     time.Time
}

func (e IngredientFrozenEvent) EventName() string {
	return "pantry.ingredient.frozen"
}

func (e IngredientFrozenEvent) OccurredAt() time.Time {
	return e.FrozenAt
}
