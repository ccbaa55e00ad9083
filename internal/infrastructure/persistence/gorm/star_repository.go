package gorm

import (
	"context"

	"github.com/google/uuid"
	"github.com/springdish/v1/internal/domain/recipe"
	"github.com/springdish/v1/internal/ports/outbound"
	apperrors "github.com/springdish/v1/pkg/errors"
	"gorm.io/gorm"
)

// StarRepository implements the star repository interface using GORM.
// The composite primary key on (recipe_id, user_id) is the authority
// on whether a viewer has starred a recipe; a concurrent double-star
// loses at the constraint, not in application code.
type StarRepository struct {
	db *gorm.DB
}

// NewStarRepository creates a new star repository
func NewStarRepository(db *gorm.DB) outbound.StarRepository {
	return &StarRepository{db: db}
}

// Create records a star. A duplicate pair returns
// recipe.ErrAlreadyStarred so the caller can treat the race as a
// toggle collision.
func (r *StarRepository) Create(ctx context.Context, star *recipe.Star) error {
	model := StarToModel(star)

	result := r.db.WithContext(ctx).Create(model)
	if result.Error != nil {
		if isUniqueViolation(result.Error) {
			return recipe.ErrAlreadyStarred
		}
		return apperrors.NewDatabaseError("create star", result.Error)
	}

	return nil
}

// Delete removes a viewer's star from a recipe.
func (r *StarRepository) Delete(ctx context.Context, recipeID uuid.UUID, userID int64) error {
	result := r.db.WithContext(ctx).
		Delete(&StarModel{}, "recipe_id = ? AND user_id = ?", recipeID, userID)
	if result.Error != nil {
		return apperrors.NewDatabaseError("delete star", result.Error)
	}

	return nil
}

// Exists checks whether the viewer has starred the recipe
func (r *StarRepository) Exists(ctx context.Context, recipeID uuid.UUID, userID int64) (bool, error) {
	var count int64

	result := r.db.WithContext(ctx).Model(&StarModel{}).
		Where("recipe_id = ? AND user_id = ?", recipeID, userID).
		Count(&count)
	if result.Error != nil {
		return false, apperrors.NewDatabaseError("count stars", result.Error)
	}

	return count > 0, nil
}

// CountByRecipe returns the total number of stars on a recipe
func (r *StarRepository) CountByRecipe(ctx context.Context, recipeID uuid.UUID) (int64, error) {
	var count int64

	result := r.db.WithContext(ctx).Model(&StarModel{}).
		Where("recipe_id = ?", recipeID).
		Count(&count)
	if result.Error != nil {
		return 0, apperrors.NewDatabaseError("count stars", result.Error)
	}

	return count, nil
}

// FindRecipeIDsByUser returns the IDs of every recipe the user has
// starred, newest star first.
func (r *StarRepository) FindRecipeIDsByUser(ctx context.Context, userID int64) ([]uuid.UUID, error) {
	var ids []uuid.UUID

	result := r.db.WithContext(ctx).Model(&StarModel{}).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Pluck("recipe_id", &ids)
	if result.Error != nil {
		return nil, apperrors.NewDatabaseError("list starred recipes", result.Error)
	}

	return ids, nil
}
