package gorm

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/springdish/v1/internal/domain/pantry"
	"github.com/springdish/v1/internal/ports/outbound"
	apperrors "github.com/springdish/v1/pkg/errors"
	"gorm.io/gorm"
)

// IngredientRepository implements the pantry repository interface using
// GORM. Every query carries the owner's ID so one user can never see or
// touch another user's pantry.
type IngredientRepository struct {
	db *gorm.DB
}

// NewIngredientRepository creates a new ingredient repository
func NewIngredientRepository(db *gorm.DB) outbound.IngredientRepository {
	return &IngredientRepository{db: db}
}

// Create creates a new ingredient
func (r *IngredientRepository) Create(ctx context.Context, ingredient *pantry.Ingredient) error {
	model := IngredientToModel(ingredient)

	result := r.db.WithContext(ctx).Create(model)
	if result.Error != nil {
		return apperrors.NewDatabaseError("create ingredient", result.Error)
	}

	return nil
}

// Update updates an existing ingredient, owner-scoped.
func (r *IngredientRepository) Update(ctx context.Context, ingredient *pantry.Ingredient) error {
	model := IngredientToModel(ingredient)

	result := r.db.WithContext(ctx).Model(&IngredientModel{}).
		Where("id = ? AND user_id = ?", model.ID, model.UserID).
		Updates(map[string]interface{}{
			"name":                model.Name,
			"category":            model.Category,
			"quantity":            model.Quantity,
			"image_url":           model.ImageURL,
			"added_at":            model.AddedAt,
			"limit_at":            model.LimitAt,
			"frozen":              model.Frozen,
			"pre_freeze_limit_at": model.PreFreezeLimitAt,
			"updated_at":          model.UpdatedAt,
		})

	if result.Error != nil {
		return apperrors.NewDatabaseError("update ingredient", result.Error)
	}

	if result.RowsAffected == 0 {
		return pantry.ErrIngredientNotFound
	}

	return nil
}

// Delete removes an ingredient, owner-scoped.
func (r *IngredientRepository) Delete(ctx context.Context, userID int64, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&IngredientModel{}, "id = ? AND user_id = ?", id, userID)
	if result.Error != nil {
		return apperrors.NewDatabaseError("delete ingredient", result.Error)
	}

	if result.RowsAffected == 0 {
		return pantry.ErrIngredientNotFound
	}

	return nil
}

// FindByID finds an ingredient by ID, owner-scoped.
func (r *IngredientRepository) FindByID(ctx context.Context, userID int64, id uuid.UUID) (*pantry.Ingredient, error) {
	var model IngredientModel

	result := r.db.WithContext(ctx).First(&model, "id = ? AND user_id = ?", id, userID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, pantry.ErrIngredientNotFound
		}
		return nil, apperrors.NewDatabaseError("find ingredient", result.Error)
	}

	return ModelToIngredient(&model), nil
}

// FindByUser returns the user's entire pantry, newest first.
func (r *IngredientRepository) FindByUser(ctx context.Context, userID int64) ([]*pantry.Ingredient, error) {
	var models []IngredientModel

	result := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&models)

	if result.Error != nil {
		return nil, apperrors.NewDatabaseError("list ingredients", result.Error)
	}

	return toIngredients(models), nil
}

// FindEligible returns the ingredients inside their consumption window
// at the given instant, ordered by name. Both window ends are inclusive.
func (r *IngredientRepository) FindEligible(ctx context.Context, userID int64, now time.Time) ([]*pantry.Ingredient, error) {
	var models []IngredientModel

	result := r.db.WithContext(ctx).
		Where("user_id = ? AND added_at <= ? AND limit_at >= ?", userID, now, now).
		Order("name ASC").
		Find(&models)

	if result.Error != nil {
		return nil, apperrors.NewDatabaseError("list eligible ingredients", result.Error)
	}

	return toIngredients(models), nil
}

// FindExpiring returns unexpired ingredients whose limit falls within
// the given number of days, soonest first.
func (r *IngredientRepository) FindExpiring(ctx context.Context, userID int64, within int, now time.Time) ([]*pantry.Ingredient, error) {
	var models []IngredientModel

	horizon := now.AddDate(0, 0, within)
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND limit_at >= ? AND limit_at <= ?", userID, now, horizon).
		Order("limit_at ASC").
		Find(&models)

	if result.Error != nil {
		return nil, apperrors.NewDatabaseError("list expiring ingredients", result.Error)
	}

	return toIngredients(models), nil
}

func toIngredients(models []IngredientModel) []*pantry.Ingredient {
	ingredients := make([]*pantry.Ingredient, len(models))
	for i := range models {
		ingredients[i] = ModelToIngredient(&models[i])
	}
	return ingredients
}
