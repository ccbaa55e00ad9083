package pantry

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// IngredientTestSuite provides a test suite for the Ingredient entity
type IngredientTestSuite struct {
	suite.Suite
}

// TestIngredientRegistration tests ingredient registration scenarios
func (suite *IngredientTestSuite) TestIngredientRegistration() {
	suite.Run("ValidIngredient_ShouldCreateSuccessfully", func() {
		// Arrange
		addedAt := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
		limitAt := addedAt.AddDate(0, 0, 10)

		// Act
		ing, err := NewIngredient(42, "tofu", addedAt, limitAt)

		// Assert
		require.NoError(suite.T(), err)
		require.NotNil(suite.T(), ing)

		assert.NotEqual(suite.T(), uuid.Nil, ing.ID())
		assert.Equal(suite.T(), int64(42), ing.UserID())
		assert.Equal(suite.T(), "tofu", ing.Name())
		assert.Equal(suite.T(), addedAt, ing.AddedAt())
		assert.Equal(suite.T(), limitAt, ing.LimitAt())
		assert.False(suite.T(), ing.IsFrozen())

		// Check domain events
		events := ing.Events()
		assert.Len(suite.T(), events, 1)

		registered, ok := events[0].(IngredientRegisteredEvent)
		assert.True(suite.T(), ok, "Should emit IngredientRegisteredEvent")
		assert.Equal(suite.T(), ing.ID(), registered.IngredientID)
		assert.Equal(suite.T(), "tofu", registered.Name)
	})

	suite.Run("EmptyName_ShouldReturnError", func() {
		// Act
		ing, err := NewIngredient(42, "   ", time.Now(), time.Now().AddDate(0, 0, 1))

		// Assert
		assert.Nil(suite.T(), ing)
		assert.Equal(suite.T(), ErrEmptyName, err)
	})

	suite.Run("NameTrimmed_ShouldStoreTrimmed", func() {
		// Act
		ing, err := NewIngredient(42, "  green onion  ", time.Now(), time.Now().AddDate(0, 0, 1))

		// Assert
		require.NoError(suite.T(), err)
		assert.Equal(suite.T(), "green onion", ing.Name())
	})

	suite.Run("LimitBeforeAdded_ShouldReturnError", func() {
		// Arrange
		addedAt := time.Now()
		limitAt := addedAt.AddDate(0, 0, -1)

		// Act
		ing, err := NewIngredient(42, "milk", addedAt, limitAt)

		// Assert
		assert.Nil(suite.T(), ing)
		assert.Equal(suite.T(), ErrLimitBeforeAdded, err)
	})

	suite.Run("InvalidOwner_ShouldReturnError", func() {
		// Act
		ing, err := NewIngredient(0, "milk", time.Now(), time.Now().AddDate(0, 0, 1))

		// Assert
		assert.Nil(suite.T(), ing)
		assert.Equal(suite.T(), ErrInvalidOwner, err)
	})
}

// TestFreshness tests the expiry and eligibility predicates
func (suite *IngredientTestSuite) TestFreshness() {
	addedAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	limitAt := addedAt.AddDate(0, 0, 15)
	ing := Reconstitute(uuid.New(), 42, "pork belly", "", "", "", addedAt, limitAt, false, nil, addedAt, addedAt)

	suite.Run("BeforeLimit_ShouldNotBeExpired", func() {
		now := limitAt.Add(-time.Hour)
		assert.False(suite.T(), ing.IsExpired(now))
		assert.True(suite.T(), ing.IsEligible(now))
	})

	suite.Run("ExactlyAtLimit_ShouldStillBeUsable", func() {
		assert.False(suite.T(), ing.IsExpired(limitAt))
		assert.True(suite.T(), ing.IsEligible(limitAt))
	})

	suite.Run("PastLimit_ShouldBeExpired", func() {
		now := limitAt.Add(time.Nanosecond)
		assert.True(suite.T(), ing.IsExpired(now))
		assert.False(suite.T(), ing.IsEligible(now))
	})

	suite.Run("BeforeAdded_ShouldNotBeEligible", func() {
		now := addedAt.Add(-time.Minute)
		assert.False(suite.T(), ing.IsEligible(now))
		assert.False(suite.T(), ing.IsExpired(now))
	})

	suite.Run("DaysUntilExpiry_ShouldRoundDown", func() {
		// 10 days minus one hour remaining still counts as 9 whole days
		now := limitAt.AddDate(0, 0, -10).Add(time.Hour)
		assert.Equal(suite.T(), 9, ing.DaysUntilExpiry(now))

		// Exactly 10 days out
		assert.Equal(suite.T(), 10, ing.DaysUntilExpiry(limitAt.AddDate(0, 0, -10)))
	})

	suite.Run("DaysUntilExpiry_Expired_ShouldBeNegative", func() {
		now := limitAt.Add(25 * time.Hour)
		assert.Equal(suite.T(), -2, ing.DaysUntilExpiry(now))
	})
}

// TestFrozenStorage tests the frozen storage extension
func (suite *IngredientTestSuite) TestFrozenStorage() {
	suite.Run("Freeze_ShouldExtendLimitByFiveMonths", func() {
		// Arrange
		addedAt := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
		limitAt := addedAt.AddDate(0, 0, 7)
		ing, _ := NewIngredient(42, "dumplings", addedAt, limitAt)
		ing.Events()

		// Act
		err := ing.Freeze()

		// Assert
		require.NoError(suite.T(), err)
		assert.True(suite.T(), ing.IsFrozen())
		assert.Equal(suite.T(), limitAt.AddDate(0, FrozenExtension, 0), ing.LimitAt())

		events := ing.Events()
		assert.Len(suite.T(), events, 1)
		frozen, ok := events[0].(IngredientFrozenEvent)
		assert.True(suite.T(), ok, "Should emit IngredientFrozenEvent")
		assert.Equal(suite.T(), ing.LimitAt(), frozen.NewLimitAt)
	})

	suite.Run("FreezeTwice_ShouldReturnError", func() {
		// Arrange
		ing, _ := NewIngredient(42, "dumplings", time.Now(), time.Now().AddDate(0, 0, 7))
		require.NoError(suite.T(), ing.Freeze())

		// Act
		err := ing.Freeze()

		// Assert
		assert.Equal(suite.T(), ErrAlreadyFrozen, err)
	})

	suite.Run("Thaw_ShouldRestoreOriginalLimit", func() {
		// Arrange
		addedAt := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
		limitAt := addedAt.AddDate(0, 0, 7)
		ing, _ := NewIngredient(42, "dumplings", addedAt, limitAt)
		require.NoError(suite.T(), ing.Freeze())

		// Act
		err := ing.Thaw()

		// Assert
		require.NoError(suite.T(), err)
		assert.False(suite.T(), ing.IsFrozen())
		assert.Equal(suite.T(), limitAt, ing.LimitAt())
	})

	suite.Run("Thaw_MonthEndLimit_ShouldRestoreExactDate", func() {
		// Arrange: a limit on a month end does not survive AddDate
		// reversal (Sep 30 + 5 months lands on a normalized Mar 2),
		// so thawing must restore the stored pre-freeze limit.
		addedAt := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
		limitAt := time.Date(2026, 9, 30, 0, 0, 0, 0, time.UTC)
		ing, _ := NewIngredient(42, "oysters", addedAt, limitAt)
		require.NoError(suite.T(), ing.Freeze())

		// Act
		err := ing.Thaw()

		// Assert
		require.NoError(suite.T(), err)
		assert.Equal(suite.T(), limitAt, ing.LimitAt())
		assert.Nil(suite.T(), ing.PreFreezeLimitAt())
	})

	suite.Run("ThawUnfrozen_ShouldReturnError", func() {
		// Arrange
		ing, _ := NewIngredient(42, "dumplings", time.Now(), time.Now().AddDate(0, 0, 7))

		// Act
		err := ing.Thaw()

		// Assert
		assert.Equal(suite.T(), ErrNotFrozen, err)
	})
}

// TestIngredientModification tests renaming and window updates
func (suite *IngredientTestSuite) TestIngredientModification() {
	suite.Run("Rename_ValidName_ShouldUpdate", func() {
		// Arrange
		ing, _ := NewIngredient(42, "spring onion", time.Now(), time.Now().AddDate(0, 0, 5))

		// Act
		err := ing.Rename("scallion")

		// Assert
		require.NoError(suite.T(), err)
		assert.Equal(suite.T(), "scallion", ing.Name())
	})

	suite.Run("Rename_EmptyName_ShouldReturnError", func() {
		// Arrange
		ing, _ := NewIngredient(42, "spring onion", time.Now(), time.Now().AddDate(0, 0, 5))

		// Act
		err := ing.Rename("")

		// Assert
		assert.Equal(suite.T(), ErrEmptyName, err)
		assert.Equal(suite.T(), "spring onion", ing.Name())
	})

	suite.Run("Describe_ShouldSetTrimmedDescriptors", func() {
		// Arrange
		ing, _ := NewIngredient(42, "spring onion", time.Now(), time.Now().AddDate(0, 0, 5))

		// Act
		err := ing.Describe("  vegetable ", "1 bunch", "https://img.example.com/onion.jpg")

		// Assert
		require.NoError(suite.T(), err)
		assert.Equal(suite.T(), "vegetable", ing.Category())
		assert.Equal(suite.T(), "1 bunch", ing.Quantity())
		assert.Equal(suite.T(), "https://img.example.com/onion.jpg", ing.ImageURL())
	})

	suite.Run("Describe_OverlongCategory_ShouldReturnError", func() {
		// Arrange
		ing, _ := NewIngredient(42, "spring onion", time.Now(), time.Now().AddDate(0, 0, 5))

		// Act
		err := ing.Describe(strings.Repeat("x", 51), "", "")

		// Assert
		assert.Equal(suite.T(), ErrCategoryTooLong, err)
	})

	suite.Run("UpdateWindow_InvertedWindow_ShouldReturnError", func() {
		// Arrange
		ing, _ := NewIngredient(42, "spring onion", time.Now(), time.Now().AddDate(0, 0, 5))
		now := time.Now()

		// Act
		err := ing.UpdateWindow(now, now.AddDate(0, 0, -3))

		// Assert
		assert.Equal(suite.T(), ErrLimitBeforeAdded, err)
	})
}

// TestOwnership tests the ownership predicate
func (suite *IngredientTestSuite) TestOwnership() {
	ing, _ := NewIngredient(42, "egg", time.Now(), time.Now().AddDate(0, 0, 20))

	assert.True(suite.T(), ing.IsOwnedBy(42))
	assert.False(suite.T(), ing.IsOwnedBy(7))
}

// TestIngredientTestSuite runs the ingredient test suite
func TestIngredientTestSuite(t *testing.T) {
	suite.Run(t, new(IngredientTestSuite))
}
