// Package gorm provides mapping between domain entities and GORM models
package gorm

import (
	"github.com/springdish/v1/internal/domain/pantry"
	"github.com/springdish/v1/internal/domain/recipe"
	"github.com/springdish/v1/internal/domain/user"
)

// UserToModel converts a user domain entity to a GORM model
func UserToModel(u *user.User) *UserModel {
	return &UserModel{
		KakaoID:      u.KakaoID(),
		Nickname:     u.Nickname(),
		ProfileImage: u.ProfileImage(),
		CreatedAt:    u.CreatedAt(),
		UpdatedAt:    u.UpdatedAt(),
		LastLoginAt:  u.LastLoginAt(),
	}
}

// ModelToUser converts a GORM model to a user domain entity
func ModelToUser(m *UserModel) *user.User {
	return user.Reconstitute(
		m.KakaoID,
		m.Nickname,
		m.ProfileImage,
		m.CreatedAt,
		m.UpdatedAt,
		m.LastLoginAt,
	)
}

// IngredientToModel converts an ingredient domain entity to a GORM model
func IngredientToModel(i *pantry.Ingredient) *IngredientModel {
	return &IngredientModel{
		ID:               i.ID(),
		UserID:           i.UserID(),
		Name:             i.Name(),
		Category:         i.Category(),
		Quantity:         i.Quantity(),
		ImageURL:         i.ImageURL(),
		AddedAt:          i.AddedAt(),
		LimitAt:          i.LimitAt(),
		Frozen:           i.IsFrozen(),
		PreFreezeLimitAt: i.PreFreezeLimitAt(),
		CreatedAt:        i.CreatedAt(),
		UpdatedAt:        i.UpdatedAt(),
	}
}

// ModelToIngredient converts a GORM model to an ingredient domain entity
func ModelToIngredient(m *IngredientModel) *pantry.Ingredient {
	return pantry.Reconstitute(
		m.ID,
		m.UserID,
		m.Name,
		m.Category,
		m.Quantity,
		m.ImageURL,
		m.AddedAt,
		m.LimitAt,
		m.Frozen,
		m.PreFreezeLimitAt,
		m.CreatedAt,
		m.UpdatedAt,
	)
}

// RecipeToModel converts a recipe domain entity to a GORM model
func RecipeToModel(r *recipe.Recipe) *RecipeModel {
	return &RecipeModel{
		ID:           r.ID(),
		UserID:       r.UserID(),
		Title:        r.Title(),
		Subtitle:     r.Subtitle(),
		Steps:        StringSlice(r.Steps()),
		Ingredients:  StringSlice(r.Ingredients()),
		Seasonings:   StringSlice(r.Seasonings()),
		VideoLink:    r.Video().Link,
		VideoID:      r.Video().VideoID,
		ThumbnailURL: r.Video().ThumbnailURL,
		IsSaved:      r.IsSaved(),
		CreatedAt:    r.CreatedAt(),
		UpdatedAt:    r.UpdatedAt(),
	}
}

// ModelToRecipe converts a GORM model to a recipe domain entity
func ModelToRecipe(m *RecipeModel) *recipe.Recipe {
	content := recipe.GeneratedRecipe{
		Title:       m.Title,
		Subtitle:    m.Subtitle,
		Steps:       []string(m.Steps),
		Ingredients: []string(m.Ingredients),
		Seasonings:  []string(m.Seasonings),
	}
	video := recipe.VideoRef{
		Link:         m.VideoLink,
		VideoID:      m.VideoID,
		ThumbnailURL: m.ThumbnailURL,
	}
	return recipe.Reconstitute(m.ID, m.UserID, content, video, m.IsSaved, m.CreatedAt, m.UpdatedAt)
}

// StarToModel converts a star domain value to a GORM model
func StarToModel(s *recipe.Star) *StarModel {
	return &StarModel{
		RecipeID:  s.RecipeID,
		UserID:    s.UserID,
		CreatedAt: s.CreatedAt,
	}
}

// ModelToStar converts a GORM model to a star domain value
func ModelToStar(m *StarModel) *recipe.Star {
	return &recipe.Star{
		RecipeID:  m.RecipeID,
		UserID:    m.UserID,
		CreatedAt: m.CreatedAt,
	}
}
