// Package gorm provides GORM model definitions for the application
package gorm

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// UserModel represents the GORM model for users. The identity
// provider's numeric account ID is the primary key.
type UserModel struct {
	KakaoID      int64  `gorm:"primaryKey;autoIncrement:false"`
	Nickname     string `gorm:"type:varchar(255);not null"`
	ProfileImage string `gorm:"type:text"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
	LastLoginAt  *time.Time

	// Relationships
	Ingredients []IngredientModel `gorm:"foreignKey:UserID"`
	Recipes     []RecipeModel     `gorm:"foreignKey:UserID"`
}

// IngredientModel represents the GORM model for pantry ingredients
type IngredientModel struct {
	ID       uuid.UUID `gorm:"type:char(36);primaryKey"`
	UserID   int64     `gorm:"not null;index"`
	Name     string    `gorm:"type:varchar(100);not null"`
	Category string    `gorm:"type:varchar(50);not null;default:''"`
	Quantity string    `gorm:"type:varchar(50)"`
	ImageURL string    `gorm:"type:text"`
	AddedAt  time.Time `gorm:"not null"`
	LimitAt  time.Time `gorm:"not null;index"`
	Frozen   bool      `gorm:"default:false"`

	// Limit before the frozen extension; set only while frozen.
	PreFreezeLimitAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time

	// Relationships
	User UserModel `gorm:"foreignKey:UserID"`
}

// RecipeModel represents the GORM model for generated recipes
type RecipeModel struct {
	ID       uuid.UUID `gorm:"type:char(36);primaryKey"`
	UserID   int64     `gorm:"not null;index"`
	Title    string    `gorm:"type:varchar(255);not null"`
	Subtitle string    `gorm:"type:varchar(255);not null"`

	// Generated content
	Steps       StringSlice `gorm:"type:json"`
	Ingredients StringSlice `gorm:"type:json"`
	Seasonings  StringSlice `gorm:"type:json"`

	// Companion video
	VideoLink    string `gorm:"type:text"`
	VideoID      string `gorm:"type:varchar(100)"`
	ThumbnailURL string `gorm:"type:text"`

	IsSaved bool `gorm:"default:false"`

	CreatedAt time.Time `gorm:"index"`
	UpdatedAt time.Time

	// Relationships
	User  UserModel   `gorm:"foreignKey:UserID"`
	Stars []StarModel `gorm:"foreignKey:RecipeID"`
}

// StarModel represents the GORM model for per-viewer recipe stars.
// The composite primary key enforces at most one star per viewer.
type StarModel struct {
	RecipeID  uuid.UUID `gorm:"type:char(36);primaryKey"`
	UserID    int64     `gorm:"primaryKey;autoIncrement:false;index"`
	CreatedAt time.Time

	// Relationships
	Recipe RecipeModel `gorm:"foreignKey:RecipeID"`
	User   UserModel   `gorm:"foreignKey:UserID"`
}

// StringSlice custom type for handling string slices in JSON
type StringSlice []string

// Scan implements the sql.Scanner interface
func (s *StringSlice) Scan(value interface{}) error {
	if value == nil {
		*s = StringSlice{}
		return nil
	}

	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, s)
	case string:
		return json.Unmarshal([]byte(v), s)
	default:
		return fmt.Errorf("cannot scan %T into StringSlice", value)
	}
}

// Value implements the driver.Valuer interface
func (s StringSlice) Value() (driver.Value, error) {
	if len(s) == 0 {
		return "[]", nil
	}
	return json.Marshal(s)
}

// TableName methods for custom table names
func (UserModel) TableName() string {
	return "users"
}

func (IngredientModel) TableName() string {
	return "ingredients"
}

func (RecipeModel) TableName() string {
	return "recipes"
}

func (StarModel) TableName() string {
	return "recipe_stars"
}
