package gorm

import (
	"context"
	"testing"

	"github.com/springdish/v1/internal/domain/recipe"
	"github.com/springdish/v1/internal/domain/user"
	"github.com/springdish/v1/internal/ports/outbound"
	"github.com/springdish/v1/test/testutils"
	apperrors "github.com/springdish/v1/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// UserRepositoryTestSuite tests the user repository against an
// in-memory database
type UserRepositoryTestSuite struct {
	suite.Suite
	repository  outbound.UserRepository
	ingredients outbound.IngredientRepository
	recipes     outbound.RecipeRepository
	stars       outbound.StarRepository
	factory     *testutils.Factory
	ctx         context.Context
}

func (suite *UserRepositoryTestSuite) SetupTest() {
	db := setupTestDB(suite.T())
	suite.repository = NewUserRepository(db)
	suite.ingredients = NewIngredientRepository(db)
	suite.recipes = NewRecipeRepository(db)
	suite.stars = NewStarRepository(db)
	suite.factory = testutils.NewFactory(42)
	suite.ctx = context.Background()
}

func (suite *UserRepositoryTestSuite) mustProvision(kakaoID int64, nickname string) *user.User {
	u, err := user.NewUser(kakaoID, nickname, "https://example.com/avatar.jpg")
	require.NoError(suite.T(), err)
	require.NoError(suite.T(), suite.repository.Create(suite.ctx, u))
	return u
}

func (suite *UserRepositoryTestSuite) TestCreateAndFind() {
	suite.Run("Create_ShouldRoundTripThroughFindByKakaoID", func() {
		// Arrange
		suite.mustProvision(12345, "tester")

		// Act
		found, err := suite.repository.FindByKakaoID(suite.ctx, 12345)

		// Assert
		require.NoError(suite.T(), err)
		assert.Equal(suite.T(), int64(12345), found.KakaoID())
		assert.Equal(suite.T(), "tester", found.Nickname())
		assert.Nil(suite.T(), found.LastLoginAt())
	})

	suite.Run("Create_WithDuplicateKakaoID_ShouldReturnConflict", func() {
		// Arrange
		suite.mustProvision(777, "first")
		duplicate, err := user.NewUser(777, "second", "")
		require.NoError(suite.T(), err)

		// Act
		err = suite.repository.Create(suite.ctx, duplicate)

		// Assert
		require.Error(suite.T(), err)
		assert.Equal(suite.T(), apperrors.CodeConflict, apperrors.GetCode(err))
	})

	suite.Run("FindByKakaoID_WithUnknownID_ShouldReturnNotFound", func() {
		// Act
		_, err := suite.repository.FindByKakaoID(suite.ctx, 99999)

		// Assert
		assert.ErrorIs(suite.T(), err, user.ErrUserNotFound)
	})
}

func (suite *UserRepositoryTestSuite) TestUpdate() {
	suite.Run("Update_ShouldPersistRefreshedProfile", func() {
		// Arrange
		u := suite.mustProvision(321, "before")
		u.RefreshProfile("after", "https://example.com/new.jpg")

		// Act
		err := suite.repository.Update(suite.ctx, u)

		// Assert
		require.NoError(suite.T(), err)
		found, err := suite.repository.FindByKakaoID(suite.ctx, 321)
		require.NoError(suite.T(), err)
		assert.Equal(suite.T(), "after", found.Nickname())
		assert.Equal(suite.T(), "https://example.com/new.jpg", found.ProfileImage())
	})
}

func (suite *UserRepositoryTestSuite) TestUpdateLastLogin() {
	suite.Run("UpdateLastLogin_ShouldStampTimestamp", func() {
		// Arrange
		suite.mustProvision(555, "busy")

		// Act
		err := suite.repository.UpdateLastLogin(suite.ctx, 555)

		// Assert
		require.NoError(suite.T(), err)
		found, err := suite.repository.FindByKakaoID(suite.ctx, 555)
		require.NoError(suite.T(), err)
		assert.NotNil(suite.T(), found.LastLoginAt())
	})

	suite.Run("UpdateLastLogin_WithUnknownUser_ShouldReturnNotFound", func() {
		// Act
		err := suite.repository.UpdateLastLogin(suite.ctx, 404404)

		// Assert
		assert.ErrorIs(suite.T(), err, user.ErrUserNotFound)
	})
}

func (suite *UserRepositoryTestSuite) TestDelete() {
	suite.Run("Delete_ShouldRemoveUser", func() {
		// Arrange
		suite.mustProvision(888, "leaver")

		// Act
		err := suite.repository.Delete(suite.ctx, 888)

		// Assert
		require.NoError(suite.T(), err)
		exists, err := suite.repository.Exists(suite.ctx, 888)
		require.NoError(suite.T(), err)
		assert.False(suite.T(), exists)
	})

	suite.Run("Delete_WithUnknownUser_ShouldReturnNotFound", func() {
		// Act
		err := suite.repository.Delete(suite.ctx, 123123)

		// Assert
		assert.ErrorIs(suite.T(), err, user.ErrUserNotFound)
	})

	suite.Run("Delete_ShouldCascadeToEverythingOwned", func() {
		// Arrange
		u := suite.factory.User()
		require.NoError(suite.T(), suite.repository.Create(suite.ctx, u))
		require.NoError(suite.T(), suite.ingredients.Create(suite.ctx, suite.factory.Ingredient(u.KakaoID())))
		owned := suite.factory.Recipe(u.KakaoID())
		require.NoError(suite.T(), suite.recipes.Create(suite.ctx, owned))
		star, err := recipe.NewStar(owned.ID(), u.KakaoID())
		require.NoError(suite.T(), err)
		require.NoError(suite.T(), suite.stars.Create(suite.ctx, star))

		// Act
		err = suite.repository.Delete(suite.ctx, u.KakaoID())

		// Assert
		require.NoError(suite.T(), err)
		remaining, err := suite.ingredients.FindByUser(suite.ctx, u.KakaoID())
		require.NoError(suite.T(), err)
		assert.Empty(suite.T(), remaining)
		_, err = suite.recipes.FindByID(suite.ctx, owned.ID())
		assert.ErrorIs(suite.T(), err, recipe.ErrRecipeNotFound)
		count, err := suite.stars.CountByRecipe(suite.ctx, owned.ID())
		require.NoError(suite.T(), err)
		assert.Zero(suite.T(), count)
	})
}

func TestUserRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(UserRepositoryTestSuite))
}
