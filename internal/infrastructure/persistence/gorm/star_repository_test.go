package gorm

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/springdish/v1/internal/domain/recipe"
	"github.com/springdish/v1/internal/ports/outbound"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// StarRepositoryTestSuite tests the star repository against an
// in-memory database
type StarRepositoryTestSuite struct {
	suite.Suite
	repository outbound.StarRepository
	ctx        context.Context
}

func (suite *StarRepositoryTestSuite) SetupTest() {
	db := setupTestDB(suite.T())
	suite.repository = NewStarRepository(db)
	suite.ctx = context.Background()
}

func (suite *StarRepositoryTestSuite) mustStar(recipeID uuid.UUID, userID int64) {
	star, err := recipe.NewStar(recipeID, userID)
	require.NoError(suite.T(), err)
	require.NoError(suite.T(), suite.repository.Create(suite.ctx, star))
}

func (suite *StarRepositoryTestSuite) TestCreate() {
	suite.Run("Create_ShouldRecordStar", func() {
		// Arrange
		recipeID := uuid.New()

		// Act
		suite.mustStar(recipeID, 1)

		// Assert
		exists, err := suite.repository.Exists(suite.ctx, recipeID, 1)
		require.NoError(suite.T(), err)
		assert.True(suite.T(), exists)
	})

	suite.Run("Create_WithDuplicatePair_ShouldReturnAlreadyStarred", func() {
		// Arrange
		recipeID := uuid.New()
		suite.mustStar(recipeID, 1)
		duplicate, err := recipe.NewStar(recipeID, 1)
		require.NoError(suite.T(), err)

		// Act
		err = suite.repository.Create(suite.ctx, duplicate)

		// Assert
		assert.ErrorIs(suite.T(), err, recipe.ErrAlreadyStarred)
	})

	suite.Run("Create_SameRecipeDifferentUsers_ShouldBothCount", func() {
		// Arrange
		recipeID := uuid.New()

		// Act
		suite.mustStar(recipeID, 1)
		suite.mustStar(recipeID, 2)

		// Assert
		count, err := suite.repository.CountByRecipe(suite.ctx, recipeID)
		require.NoError(suite.T(), err)
		assert.Equal(suite.T(), int64(2), count)
	})
}

func (suite *StarRepositoryTestSuite) TestDelete() {
	suite.Run("Delete_ShouldRemoveStar", func() {
		// Arrange
		recipeID := uuid.New()
		suite.mustStar(recipeID, 1)

		// Act
		err := suite.repository.Delete(suite.ctx, recipeID, 1)

		// Assert
		require.NoError(suite.T(), err)
		exists, err := suite.repository.Exists(suite.ctx, recipeID, 1)
		require.NoError(suite.T(), err)
		assert.False(suite.T(), exists)
	})

	suite.Run("Delete_WithNoStar_ShouldBeNoOp", func() {
		// Act
		err := suite.repository.Delete(suite.ctx, uuid.New(), 1)

		// Assert
		assert.NoError(suite.T(), err)
	})
}

func (suite *StarRepositoryTestSuite) TestQueries() {
	suite.Run("CountByRecipe_WithNoStars_ShouldReturnZero", func() {
		// Act
		count, err := suite.repository.CountByRecipe(suite.ctx, uuid.New())

		// Assert
		require.NoError(suite.T(), err)
		assert.Zero(suite.T(), count)
	})

	suite.Run("FindRecipeIDsByUser_ShouldReturnStarredRecipes", func() {
		// Arrange
		first := uuid.New()
		second := uuid.New()
		suite.mustStar(first, 1)
		suite.mustStar(second, 1)
		suite.mustStar(uuid.New(), 2)

		// Act
		ids, err := suite.repository.FindRecipeIDsByUser(suite.ctx, 1)

		// Assert
		require.NoError(suite.T(), err)
		assert.Len(suite.T(), ids, 2)
		assert.Contains(suite.T(), ids, first)
		assert.Contains(suite.T(), ids, second)
	})
}

func TestStarRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(StarRepositoryTestSuite))
}
