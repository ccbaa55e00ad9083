// Package gorm provides GORM-based repository implementations
package gorm

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/springdish/v1/internal/domain/recipe"
	"github.com/springdish/v1/internal/ports/outbound"
	apperrors "github.com/springdish/v1/pkg/errors"
	"gorm.io/gorm"
)

// RecipeRepository implements the recipe repository interface using GORM
type RecipeRepository struct {
	db *gorm.DB
}

// NewRecipeRepository creates a new recipe repository
func NewRecipeRepository(db *gorm.DB) outbound.RecipeRepository {
	return &RecipeRepository{db: db}
}

// Create creates a new recipe
func (r *RecipeRepository) Create(ctx context.Context, rec *recipe.Recipe) error {
	model := RecipeToModel(rec)

	result := r.db.WithContext(ctx).Create(model)
	if result.Error != nil {
		return apperrors.NewDatabaseError("create recipe", result.Error)
	}

	return nil
}

// Update updates an existing recipe
func (r *RecipeRepository) Update(ctx context.Context, rec *recipe.Recipe) error {
	model := RecipeToModel(rec)

	result := r.db.WithContext(ctx).Model(&RecipeModel{}).
		Where("id = ?", model.ID).
		Updates(map[string]interface{}{
			"is_saved":   model.IsSaved,
			"updated_at": model.UpdatedAt,
		})

	if result.Error != nil {
		return apperrors.NewDatabaseError("update recipe", result.Error)
	}

	if result.RowsAffected == 0 {
		return recipe.ErrRecipeNotFound
	}

	return nil
}

// Delete removes a recipe and its stars, owner-scoped.
func (r *RecipeRepository) Delete(ctx context.Context, userID int64, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Delete(&RecipeModel{}, "id = ? AND user_id = ?", id, userID)
		if result.Error != nil {
			return apperrors.NewDatabaseError("delete recipe", result.Error)
		}
		if result.RowsAffected == 0 {
			return recipe.ErrRecipeNotFound
		}

		if err := tx.Delete(&StarModel{}, "recipe_id = ?", id).Error; err != nil {
			return apperrors.NewDatabaseError("delete recipe stars", err)
		}
		return nil
	})
}

// FindByID finds a recipe by ID
func (r *RecipeRepository) FindByID(ctx context.Context, id uuid.UUID) (*recipe.Recipe, error) {
	var model RecipeModel

	result := r.db.WithContext(ctx).First(&model, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, recipe.ErrRecipeNotFound
		}
		return nil, apperrors.NewDatabaseError("find recipe", result.Error)
	}

	return ModelToRecipe(&model), nil
}

// FindByUser finds recipes generated for a user, newest first, with
// pagination. The second return value is the total match count.
func (r *RecipeRepository) FindByUser(ctx context.Context, userID int64, offset, limit int) ([]*recipe.Recipe, int64, error) {
	var models []RecipeModel
	var total int64

	countResult := r.db.WithContext(ctx).Model(&RecipeModel{}).
		Where("user_id = ?", userID).
		Count(&total)
	if countResult.Error != nil {
		return nil, 0, apperrors.NewDatabaseError("count recipes", countResult.Error)
	}

	result := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&models)

	if result.Error != nil {
		return nil, 0, apperrors.NewDatabaseError("list recipes", result.Error)
	}

	recipes := make([]*recipe.Recipe, len(models))
	for i := range models {
		recipes[i] = ModelToRecipe(&models[i])
	}

	return recipes, total, nil
}
