package recipe

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// RecipeTestSuite provides a test suite for the Recipe entity
type RecipeTestSuite struct {
	suite.Suite
}

func validContent() GeneratedRecipe {
	return GeneratedRecipe{
		Title:       "Kimchi Fried Rice",
		Subtitle:    "A quick dish for leftover rice",
		Steps:       []string{"Chop the kimchi", "Fry with rice", "Top with a fried egg"},
		Ingredients: []string{"kimchi", "rice", "egg"},
		Seasonings:  []string{"soy sauce", "sesame oil"},
	}
}

// TestRecipeCreation tests recipe creation scenarios
func (suite *RecipeTestSuite) TestRecipeCreation() {
	suite.Run("ValidContent_ShouldCreateSuccessfully", func() {
		// Arrange
		content := validContent()
		video := NewVideoRef("dQw4w9WgXcQ")

		// Act
		r, err := NewRecipe(42, content, video)

		// Assert
		require.NoError(suite.T(), err)
		require.NotNil(suite.T(), r)

		assert.NotEqual(suite.T(), uuid.Nil, r.ID())
		assert.Equal(suite.T(), int64(42), r.UserID())
		assert.Equal(suite.T(), content.Title, r.Title())
		assert.Equal(suite.T(), content.Subtitle, r.Subtitle())
		assert.Equal(suite.T(), content.Steps, r.Steps())
		assert.Equal(suite.T(), content.Seasonings, r.Seasonings())
		assert.False(suite.T(), r.IsSaved())
		assert.NotZero(suite.T(), r.CreatedAt())

		// Check domain events
		events := r.Events()
		assert.Len(suite.T(), events, 1)

		generatedEvent, ok := events[0].(RecipeGeneratedEvent)
		assert.True(suite.T(), ok, "Should emit RecipeGeneratedEvent")
		assert.Equal(suite.T(), r.ID(), generatedEvent.RecipeID)
		assert.Equal(suite.T(), int64(42), generatedEvent.UserID)
	})

	suite.Run("InvalidOwner_ShouldReturnError", func() {
		// Act
		r, err := NewRecipe(0, validContent(), VideoRef{})

		// Assert
		assert.Nil(suite.T(), r)
		assert.Equal(suite.T(), ErrInvalidOwner, err)
	})

	suite.Run("MissingTitle_ShouldReturnError", func() {
		// Arrange
		content := validContent()
		content.Title = "  "

		// Act
		r, err := NewRecipe(42, content, VideoRef{})

		// Assert
		assert.Nil(suite.T(), r)
		assert.Equal(suite.T(), ErrMissingTitle, err)
	})
}

// TestGeneratedRecipeValidation tests the strict generation contract
func (suite *RecipeTestSuite) TestGeneratedRecipeValidation() {
	suite.Run("AllFieldsPresent_ShouldPass", func() {
		assert.NoError(suite.T(), validContent().Validate())
	})

	suite.Run("MissingSubtitle_ShouldFail", func() {
		content := validContent()
		content.Subtitle = ""
		assert.Equal(suite.T(), ErrMissingSubtitle, content.Validate())
	})

	suite.Run("EmptySteps_ShouldFail", func() {
		content := validContent()
		content.Steps = nil
		assert.Equal(suite.T(), ErrMissingSteps, content.Validate())
	})

	suite.Run("BlankStep_ShouldFail", func() {
		content := validContent()
		content.Steps = []string{"Chop", "   "}
		assert.Equal(suite.T(), ErrBlankStep, content.Validate())
	})

	suite.Run("EmptyIngredients_ShouldFail", func() {
		content := validContent()
		content.Ingredients = []string{}
		assert.Equal(suite.T(), ErrMissingIngredients, content.Validate())
	})

	suite.Run("EmptySeasonings_ShouldPass", func() {
		// Seasonings may legitimately be empty
		content := validContent()
		content.Seasonings = nil
		assert.NoError(suite.T(), content.Validate())
	})
}

// TestVideoRef tests video reference construction
func (suite *RecipeTestSuite) TestVideoRef() {
	suite.Run("ConcreteVideo_ShouldDeriveLinkAndThumbnail", func() {
		// Act
		v := NewVideoRef("abc123")

		// Assert
		assert.Equal(suite.T(), "https://www.youtube.com/watch?v=abc123", v.Link)
		assert.Equal(suite.T(), "abc123", v.VideoID)
		assert.Equal(suite.T(), "https://img.youtube.com/vi/abc123/hqdefault.jpg", v.ThumbnailURL)
		assert.False(suite.T(), v.IsFallback())
	})

	suite.Run("Fallback_ShouldEncodeQuery", func() {
		// Act
		v := FallbackVideoRef("kimchi fried rice")

		// Assert
		assert.Equal(suite.T(), "https://www.youtube.com/results?search_query=kimchi+fried+rice", v.Link)
		assert.Empty(suite.T(), v.VideoID)
		assert.Empty(suite.T(), v.ThumbnailURL)
		assert.True(suite.T(), v.IsFallback())
	})
}

// TestRecipeSaving tests the save-to-collection flag
func (suite *RecipeTestSuite) TestRecipeSaving() {
	suite.Run("SaveOnce_ShouldMarkSaved", func() {
		// Arrange
		r, _ := NewRecipe(42, validContent(), VideoRef{})
		r.Events() // Clear creation event

		// Act
		err := r.Save()

		// Assert
		require.NoError(suite.T(), err)
		assert.True(suite.T(), r.IsSaved())

		events := r.Events()
		assert.Len(suite.T(), events, 1)

		savedEvent, ok := events[0].(RecipeSavedEvent)
		assert.True(suite.T(), ok, "Should emit RecipeSavedEvent")
		assert.Equal(suite.T(), r.ID(), savedEvent.RecipeID)
	})

	suite.Run("SaveTwice_ShouldReturnError", func() {
		// Arrange
		r, _ := NewRecipe(42, validContent(), VideoRef{})
		require.NoError(suite.T(), r.Save())

		// Act
		err := r.Save()

		// Assert
		assert.Equal(suite.T(), ErrAlreadySaved, err)
	})
}

// TestStarCreation tests star construction rules
func (suite *RecipeTestSuite) TestStarCreation() {
	suite.Run("ValidStar_ShouldCreate", func() {
		// Arrange
		recipeID := uuid.New()

		// Act
		star, err := NewStar(recipeID, 42)

		// Assert
		require.NoError(suite.T(), err)
		assert.Equal(suite.T(), recipeID, star.RecipeID)
		assert.Equal(suite.T(), int64(42), star.UserID)
		assert.WithinDuration(suite.T(), time.Now(), star.CreatedAt, time.Second)
	})

	suite.Run("NilRecipeID_ShouldReturnError", func() {
		// Act
		star, err := NewStar(uuid.Nil, 42)

		// Assert
		assert.Nil(suite.T(), star)
		assert.Equal(suite.T(), ErrInvalidRecipeID, err)
	})

	suite.Run("InvalidUser_ShouldReturnError", func() {
		// Act
		star, err := NewStar(uuid.New(), -1)

		// Assert
		assert.Nil(suite.T(), star)
		assert.Equal(suite.T(), ErrInvalidOwner, err)
	})
}

// TestRecipeEvents tests domain event handling
func (suite *RecipeTestSuite) TestRecipeEvents() {
	suite.Run("Events_ShouldBeClearedAfterRetrieval", func() {
		// Arrange
		r, _ := NewRecipe(42, validContent(), VideoRef{})

		// Act
		events1 := r.Events()
		events2 := r.Events()

		// Assert
		assert.Len(suite.T(), events1, 1)
		assert.Len(suite.T(), events2, 0)
	})
}

// TestRecipeTestSuite runs the recipe test suite
func TestRecipeTestSuite(t *testing.T) {
	suite.Run(t, new(RecipeTestSuite))
}
