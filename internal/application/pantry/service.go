// Package pantry provides the application layer for perishable
// ingredient tracking.
package pantry

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/springdish/v1/internal/domain/pantry"
	"github.com/springdish/v1/internal/infrastructure/config"
	"github.com/springdish/v1/internal/ports/inbound"
	"github.com/springdish/v1/internal/ports/outbound"
	apperrors "github.com/springdish/v1/pkg/errors"
	"go.uber.org/zap"
)

// PantryService implements the pantry use cases
type PantryService struct {
	ingredientRepo outbound.IngredientRepository
	config         *config.Config
	logger         *zap.Logger
}

// NewPantryService creates a new pantry service
func NewPantryService(
	ingredientRepo outbound.IngredientRepository,
	cfg *config.Config,
	logger *zap.Logger,
) inbound.PantryService {
	return &PantryService{
		ingredientRepo: ingredientRepo,
		config:         cfg,
		logger:         logger.Named("pantry-service"),
	}
}

// RegisterIngredient registers a new pantry item. A missing limit falls
// back to the configured default shelf life from the added date.
func (s *PantryService) RegisterIngredient(ctx context.Context, cmd inbound.RegisterIngredientCommand) (*inbound.IngredientDTO, error) {
	now := time.Now()

	addedAt := now
	if cmd.AddedAt != nil {
		addedAt = *cmd.AddedAt
	}

	limitAt := addedAt.AddDate(0, 0, s.config.Pantry.DefaultShelfLifeDays)
	if cmd.LimitAt != nil {
		limitAt = *cmd.LimitAt
	}

	ingredient, err := pantry.NewIngredient(cmd.UserID, cmd.Name, addedAt, limitAt)
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}
	if err := ingredient.Describe(cmd.Category, cmd.Quantity, cmd.ImageURL); err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}

	if err := s.ingredientRepo.Create(ctx, ingredient); err != nil {
		return nil, err
	}

	s.logger.Info("Ingredient registered",
		zap.String("ingredient_id", ingredient.ID().String()),
		zap.Int64("user_id", cmd.UserID),
		zap.String("name", ingredient.Name()),
	)
	s.drainEvents(ingredient)

	return toIngredientDTO(ingredient, now), nil
}

// drainEvents flushes the entity's pending domain events to the log.
func (s *PantryService) drainEvents(ingredient *pantry.Ingredient) {
	for _, event := range ingredient.Events() {
		s.logger.Debug("Domain event",
			zap.String("event", event.EventName()),
			zap.Time("occurred_at", event.OccurredAt()),
		)
	}
}

// UpdateIngredient changes a pantry item. Nil fields keep their
// current value.
func (s *PantryService) UpdateIngredient(ctx context.Context, cmd inbound.UpdateIngredientCommand) (*inbound.IngredientDTO, error) {
	ingredient, err := s.findOwned(ctx, cmd.UserID, cmd.ID)
	if err != nil {
		return nil, err
	}

	if cmd.Name != nil {
		if err := ingredient.Rename(*cmd.Name); err != nil {
			return nil, apperrors.NewValidationError(err.Error())
		}
	}

	if cmd.Category != nil || cmd.Quantity != nil || cmd.ImageURL != nil {
		category := ingredient.Category()
		if cmd.Category != nil {
			category = *cmd.Category
		}
		quantity := ingredient.Quantity()
		if cmd.Quantity != nil {
			quantity = *cmd.Quantity
		}
		imageURL := ingredient.ImageURL()
		if cmd.ImageURL != nil {
			imageURL = *cmd.ImageURL
		}
		if err := ingredient.Describe(category, quantity, imageURL); err != nil {
			return nil, apperrors.NewValidationError(err.Error())
		}
	}

	if cmd.AddedAt != nil || cmd.LimitAt != nil {
		addedAt := ingredient.AddedAt()
		if cmd.AddedAt != nil {
			addedAt = *cmd.AddedAt
		}
		limitAt := ingredient.LimitAt()
		if cmd.LimitAt != nil {
			limitAt = *cmd.LimitAt
		}
		if err := ingredient.UpdateWindow(addedAt, limitAt); err != nil {
			return nil, apperrors.NewValidationError(err.Error())
		}
	}

	if err := s.ingredientRepo.Update(ctx, ingredient); err != nil {
		return nil, err
	}

	return toIngredientDTO(ingredient, time.Now()), nil
}

// RemoveIngredient deletes a pantry item.
func (s *PantryService) RemoveIngredient(ctx context.Context, userID int64, id uuid.UUID) error {
	err := s.ingredientRepo.Delete(ctx, userID, id)
	if errors.Is(err, pantry.ErrIngredientNotFound) {
		return apperrors.NewNotFoundError("ingredient")
	}
	return err
}

// FreezeIngredient moves an item into frozen storage, extending its
// limit.
func (s *PantryService) FreezeIngredient(ctx context.Context, userID int64, id uuid.UUID) (*inbound.IngredientDTO, error) {
	ingredient, err := s.findOwned(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if err := ingredient.Freeze(); err != nil {
		return nil, apperrors.NewConflictError(err.Error())
	}

	if err := s.ingredientRepo.Update(ctx, ingredient); err != nil {
		return nil, err
	}

	s.logger.Info("Ingredient frozen",
		zap.String("ingredient_id", id.String()),
		zap.Time("new_limit_at", ingredient.LimitAt()),
	)
	s.drainEvents(ingredient)

	return toIngredientDTO(ingredient, time.Now()), nil
}

// ThawIngredient takes an item out of frozen storage, restoring its
// original limit.
func (s *PantryService) ThawIngredient(ctx context.Context, userID int64, id uuid.UUID) (*inbound.IngredientDTO, error) {
	ingredient, err := s.findOwned(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if err := ingredient.Thaw(); err != nil {
		return nil, apperrors.NewConflictError(err.Error())
	}

	if err := s.ingredientRepo.Update(ctx, ingredient); err != nil {
		return nil, err
	}

	return toIngredientDTO(ingredient, time.Now()), nil
}

// GetIngredient returns a single pantry item.
func (s *PantryService) GetIngredient(ctx context.Context, userID int64, id uuid.UUID) (*inbound.IngredientDTO, error) {
	ingredient, err := s.findOwned(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	return toIngredientDTO(ingredient, time.Now()), nil
}

// ListIngredients returns the user's entire pantry.
func (s *PantryService) ListIngredients(ctx context.Context, userID int64) ([]inbound.IngredientDTO, error) {
	ingredients, err := s.ingredientRepo.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return toIngredientDTOs(ingredients), nil
}

// ListExpiring returns unexpired items whose limit falls within the
// given number of days. Zero days falls back to the configured warning
// horizon.
func (s *PantryService) ListExpiring(ctx context.Context, userID int64, withinDays int) ([]inbound.IngredientDTO, error) {
	if withinDays <= 0 {
		withinDays = s.config.Pantry.ExpiryWarningDays
	}

	ingredients, err := s.ingredientRepo.FindExpiring(ctx, userID, withinDays, time.Now())
	if err != nil {
		return nil, err
	}
	return toIngredientDTOs(ingredients), nil
}

func (s *PantryService) findOwned(ctx context.Context, userID int64, id uuid.UUID) (*pantry.Ingredient, error) {
	ingredient, err := s.ingredientRepo.FindByID(ctx, userID, id)
	if err != nil {
		if errors.Is(err, pantry.ErrIngredientNotFound) {
			return nil, apperrors.NewNotFoundError("ingredient")
		}
		return nil, err
	}
	return ingredient, nil
}

func toIngredientDTO(i *pantry.Ingredient, now time.Time) *inbound.IngredientDTO {
	return &inbound.IngredientDTO{
		ID:              i.ID(),
		Name:            i.Name(),
		Category:        i.Category(),
		Quantity:        i.Quantity(),
		ImageURL:        i.ImageURL(),
		AddedAt:         i.AddedAt().Format(time.RFC3339),
		LimitAt:         i.LimitAt().Format(time.RFC3339),
		Frozen:          i.IsFrozen(),
		Expired:         i.IsExpired(now),
		DaysUntilExpiry: i.DaysUntilExpiry(now),
	}
}

func toIngredientDTOs(ingredients []*pantry.Ingredient) []inbound.IngredientDTO {
	now := time.Now()
	dtos := make([]inbound.IngredientDTO, len(ingredients))
	for i, ingredient := range ingredients {
		dtos[i] = *toIngredientDTO(ingredient, now)
	}
	return dtos
}
