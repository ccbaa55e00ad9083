package gorm

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	sqlitedriver "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB opens a fresh in-memory database with the full schema.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlitedriver.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&UserModel{},
		&IngredientModel{},
		&RecipeModel{},
		&StarModel{},
	)
	require.NoError(t, err)

	return db
}

// window returns a consumption window opening at the given offset from
// now and closing days later.
func window(from time.Duration, days int) (time.Time, time.Time) {
	addedAt := time.Now().Add(from)
	return addedAt, addedAt.AddDate(0, 0, days)
}
