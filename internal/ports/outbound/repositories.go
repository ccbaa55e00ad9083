// Package outbound defines the interfaces for outbound ports (secondary/driven adapters)
// These are the interfaces that the application uses to interact with external systems
package outbound

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/springdish/v1/internal/domain/pantry"
	"github.com/springdish/v1/internal/domain/recipe"
	"github.com/springdish/v1/internal/domain/user"
)

// UserRepository defines the interface for user persistence
type UserRepository interface {
	Create(ctx context.Context, user *user.User) error
	Update(ctx context.Context, user *user.User) error
	Delete(ctx context.Context, kakaoID int64) error
	FindByKakaoID(ctx context.Context, kakaoID int64) (*user.User, error)
	Exists(ctx context.Context, kakaoID int64) (bool, error)
	UpdateLastLogin(ctx context.Context, kakaoID int64) error
}

// IngredientRepository defines the interface for pantry persistence.
// Every query is scoped to an owner; an ingredient belonging to another
// user is indistinguishable from one that does not exist.
type IngredientRepository interface {
	Create(ctx context.Context, ingredient *pantry.Ingredient) error
	Update(ctx context.Context, ingredient *pantry.Ingredient) error
	Delete(ctx context.Context, userID int64, id uuid.UUID) error
	FindByID(ctx context.Context, userID int64, id uuid.UUID) (*pantry.Ingredient, error)
	FindByUser(ctx context.Context, userID int64) ([]*pantry.Ingredient, error)

	// FindEligible returns the ingredients inside their consumption
	// window at the given instant, ordered by name.
	FindEligible(ctx context.Context, userID int64, now time.Time) ([]*pantry.Ingredient, error)

	// FindExpiring returns unexpired ingredients whose limit falls
	// within the given number of days, soonest first.
	FindExpiring(ctx context.Context, userID int64, within int, now time.Time) ([]*pantry.Ingredient, error)
}

// RecipeRepository defines the interface for recipe persistence
type RecipeRepository interface {
	Create(ctx context.Context, recipe *recipe.Recipe) error
	Update(ctx context.Context, recipe *recipe.Recipe) error
	Delete(ctx context.Context, userID int64, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*recipe.Recipe, error)
	FindByUser(ctx context.Context, userID int64, offset, limit int) ([]*recipe.Recipe, int64, error)
}

// StarRepository defines the interface for per-viewer recipe stars.
// The (recipe, user) pair is unique; Create against an existing pair
// returns recipe.ErrAlreadyStarred so the caller can treat the race as
// a toggle collision.
type StarRepository interface {
	Create(ctx context.Context, star *recipe.Star) error
	Delete(ctx context.Context, recipeID uuid.UUID, userID int64) error
	Exists(ctx context.Context, recipeID uuid.UUID, userID int64) (bool, error)
	CountByRecipe(ctx context.Context, recipeID uuid.UUID) (int64, error)
	FindRecipeIDsByUser(ctx context.Context, userID int64) ([]uuid.UUID, error)
}

// IdentityProvider exchanges OAuth authorization codes for provider
// profiles. The concrete adapter talks to Kakao.
type IdentityProvider interface {
	// AuthorizationURL builds the provider consent page URL for the
	// given CSRF state.
	AuthorizationURL(state string) string

	// ExchangeCode trades an authorization code for provider tokens.
	ExchangeCode(ctx context.Context, code string) (*ProviderToken, error)

	// FetchProfile loads the account profile behind an access token.
	FetchProfile(ctx context.Context, accessToken string) (*ProviderProfile, error)

	// Unlink severs the provider-side connection for the account.
	Unlink(ctx context.Context, kakaoID int64) error
}

// ProviderToken is the token set returned by the identity provider.
type ProviderToken struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int
}

// ProviderProfile is the subset of the provider account we keep.
type ProviderProfile struct {
	KakaoID      int64
	Nickname     string
	ProfileImage string
}

// RecipeGenerator produces structured recipes from an ingredient list.
// A single call, no retries: transient upstream trouble surfaces as an
// error for the caller to classify.
type RecipeGenerator interface {
	Generate(ctx context.Context, ingredients []string) (*recipe.GeneratedRecipe, error)
}

// VideoSearcher finds a companion cooking video for a dish. It never
// fails: when the upstream search is unavailable or empty it returns a
// fallback search link.
type VideoSearcher interface {
	Search(ctx context.Context, query string) recipe.VideoRef
}

// CacheRepository defines the interface for caching operations. It
// backs both session revocation and hot read paths.
type CacheRepository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	Increment(ctx context.Context, key string) (int64, error)
}
