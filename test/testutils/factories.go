// Package testutils provides test data factories for consistent test data generation
package testutils

import (
	"fmt"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/springdish/v1/internal/domain/pantry"
	"github.com/springdish/v1/internal/domain/recipe"
	"github.com/springdish/v1/internal/domain/user"
)

// Factory produces randomized but valid domain entities. Seeding makes
// a test run reproducible.
type Factory struct {
	faker      *gofakeit.Faker
	nextUserID int64
}

// NewFactory creates a factory with a seeded faker
func NewFactory(seed int64) *Factory {
	return &Factory{
		faker:      gofakeit.New(seed),
		nextUserID: 100000,
	}
}

// KakaoID returns a unique provider account ID for this factory.
func (f *Factory) KakaoID() int64 {
	f.nextUserID++
	return f.nextUserID
}

// User builds a valid account with a random profile.
func (f *Factory) User() *user.User {
	u, err := user.NewUser(
		f.KakaoID(),
		f.faker.Username(),
		fmt.Sprintf("https://img.example.com/%s.jpg", f.faker.UUID()),
	)
	if err != nil {
		panic(fmt.Sprintf("factory produced invalid user: %v", err))
	}
	return u
}

// Ingredient builds a fresh pantry item for the given owner. The item
// was added yesterday and keeps for two weeks.
func (f *Factory) Ingredient(userID int64) *pantry.Ingredient {
	now := time.Now()
	item, err := pantry.NewIngredient(
		userID,
		f.faker.Vegetable(),
		now.Add(-24*time.Hour),
		now.AddDate(0, 0, 14),
	)
	if err != nil {
		panic(fmt.Sprintf("factory produced invalid ingredient: %v", err))
	}
	if err := item.Describe("vegetable", "200g", ""); err != nil {
		panic(fmt.Sprintf("factory produced invalid ingredient: %v", err))
	}
	return item
}

// ExpiredIngredient builds a pantry item whose window closed yesterday.
func (f *Factory) ExpiredIngredient(userID int64) *pantry.Ingredient {
	now := time.Now()
	item, err := pantry.NewIngredient(
		userID,
		f.faker.Vegetable(),
		now.AddDate(0, 0, -10),
		now.Add(-24*time.Hour),
	)
	if err != nil {
		panic(fmt.Sprintf("factory produced invalid ingredient: %v", err))
	}
	return item
}

// GeneratedContent builds plausible generation output.
func (f *Factory) GeneratedContent() recipe.GeneratedRecipe {
	return recipe.GeneratedRecipe{
		Title:    f.faker.Dinner(),
		Subtitle: f.faker.Sentence(5),
		Steps: []string{
			"Prepare the " + f.faker.Vegetable(),
			"Cook over medium heat",
			"Season and serve",
		},
		Ingredients: []string{f.faker.Vegetable(), f.faker.Vegetable()},
		Seasonings:  []string{"salt", "pepper"},
	}
}

// Recipe builds a persisted-shape recipe owned by the given account.
func (f *Factory) Recipe(userID int64) *recipe.Recipe {
	r, err := recipe.NewRecipe(userID, f.GeneratedContent(), recipe.NewVideoRef(f.faker.LetterN(8)))
	if err != nil {
		panic(fmt.Sprintf("factory produced invalid recipe: %v", err))
	}
	return r
}
