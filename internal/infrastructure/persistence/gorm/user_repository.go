// Package gorm provides GORM-based repository implementations
package gorm

import (
	"context"
	"errors"
	"time"

	"github.com/springdish/v1/internal/domain/user"
	"github.com/springdish/v1/internal/ports/outbound"
	apperrors "github.com/springdish/v1/pkg/errors"
	"gorm.io/gorm"
)

// UserRepository implements the user repository interface using GORM
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) outbound.UserRepository {
	return &UserRepository{db: db}
}

// Create creates a new user
func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	model := UserToModel(u)

	result := r.db.WithContext(ctx).Create(model)
	if result.Error != nil {
		if isUniqueViolation(result.Error) {
			return apperrors.NewConflictError("user already exists")
		}
		return apperrors.NewDatabaseError("create user", result.Error)
	}

	return nil
}

// Update updates an existing user
func (r *UserRepository) Update(ctx context.Context, u *user.User) error {
	model := UserToModel(u)

	result := r.db.WithContext(ctx).Save(model)
	if result.Error != nil {
		return apperrors.NewDatabaseError("update user", result.Error)
	}

	if result.RowsAffected == 0 {
		return user.ErrUserNotFound
	}

	return nil
}

// Delete removes a user and everything hanging off the account.
func (r *UserRepository) Delete(ctx context.Context, kakaoID int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&StarModel{}, "user_id = ?", kakaoID).Error; err != nil {
			return apperrors.NewDatabaseError("delete user stars", err)
		}
		if err := tx.Delete(&RecipeModel{}, "user_id = ?", kakaoID).Error; err != nil {
			return apperrors.NewDatabaseError("delete user recipes", err)
		}
		if err := tx.Delete(&IngredientModel{}, "user_id = ?", kakaoID).Error; err != nil {
			return apperrors.NewDatabaseError("delete user ingredients", err)
		}

		result := tx.Delete(&UserModel{}, "kakao_id = ?", kakaoID)
		if result.Error != nil {
			return apperrors.NewDatabaseError("delete user", result.Error)
		}
		if result.RowsAffected == 0 {
			return user.ErrUserNotFound
		}
		return nil
	})
}

// FindByKakaoID finds a user by the provider account identifier
func (r *UserRepository) FindByKakaoID(ctx context.Context, kakaoID int64) (*user.User, error) {
	var model UserModel

	result := r.db.WithContext(ctx).First(&model, "kakao_id = ?", kakaoID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, user.ErrUserNotFound
		}
		return nil, apperrors.NewDatabaseError("find user", result.Error)
	}

	return ModelToUser(&model), nil
}

// Exists checks if a user exists
func (r *UserRepository) Exists(ctx context.Context, kakaoID int64) (bool, error) {
	var count int64

	result := r.db.WithContext(ctx).Model(&UserModel{}).Where("kakao_id = ?", kakaoID).Count(&count)
	if result.Error != nil {
		return false, apperrors.NewDatabaseError("count users", result.Error)
	}

	return count > 0, nil
}

// UpdateLastLogin updates the last login timestamp
func (r *UserRepository) UpdateLastLogin(ctx context.Context, kakaoID int64) error {
	result := r.db.WithContext(ctx).Model(&UserModel{}).
		Where("kakao_id = ?", kakaoID).
		Update("last_login_at", time.Now())

	if result.Error != nil {
		return apperrors.NewDatabaseError("update last login", result.Error)
	}

	if result.RowsAffected == 0 {
		return user.ErrUserNotFound
	}

	return nil
}
