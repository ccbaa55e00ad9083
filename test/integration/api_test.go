// Package integration exercises the full HTTP stack against an
// in-memory database and fake external providers.
package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/springdish/v1/internal/application/auth"
	"github.com/springdish/v1/internal/application/pantry"
	"github.com/springdish/v1/internal/application/recipe"
	domainrecipe "github.com/springdish/v1/internal/domain/recipe"
	"github.com/springdish/v1/internal/infrastructure/config"
	"github.com/springdish/v1/internal/infrastructure/http/apiserver"
	"github.com/springdish/v1/internal/infrastructure/monitoring"
	gormrepo "github.com/springdish/v1/internal/infrastructure/persistence/gorm"
	"github.com/springdish/v1/internal/infrastructure/persistence/memory"
	"github.com/springdish/v1/internal/infrastructure/persistence/sqlite"
	"github.com/springdish/v1/internal/infrastructure/security"
	"github.com/springdish/v1/internal/ports/outbound"
	"github.com/springdish/v1/pkg/healthcheck"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
	"gorm.io/gorm/logger"
)

// fakeProvider simulates the identity provider. The profile it serves
// is swapped per test so each test works with its own account.
type fakeProvider struct {
	profile outbound.ProviderProfile
}

func (f *fakeProvider) AuthorizationURL(state string) string {
	return "https://provider.example/authorize?state=" + state
}

func (f *fakeProvider) ExchangeCode(ctx context.Context, code string) (*outbound.ProviderToken, error) {
	return &outbound.ProviderToken{AccessToken: "provider-token", ExpiresIn: 3600}, nil
}

func (f *fakeProvider) FetchProfile(ctx context.Context, accessToken string) (*outbound.ProviderProfile, error) {
	profile := f.profile
	return &profile, nil
}

func (f *fakeProvider) Unlink(ctx context.Context, kakaoID int64) error {
	return nil
}

type fakeGenerator struct{}

func (f *fakeGenerator) Generate(ctx context.Context, ingredients []string) (*domainrecipe.GeneratedRecipe, error) {
	return &domainrecipe.GeneratedRecipe{
		Title:       "Kimchi Fried Rice",
		Subtitle:    "Quick and punchy",
		Steps:       []string{"Fry the kimchi", "Add the rice", "Top with an egg"},
		Ingredients: ingredients,
		Seasonings:  []string{"soy sauce"},
	}, nil
}

type fakeVideoSearcher struct{}

func (f *fakeVideoSearcher) Search(ctx context.Context, query string) domainrecipe.VideoRef {
	return domainrecipe.NewVideoRef("vid42")
}

// APITestSuite drives the API through real HTTP round trips
type APITestSuite struct {
	suite.Suite
	ts       *httptest.Server
	provider *fakeProvider
	client   *http.Client
	tokens   *security.TokenService
}

func (suite *APITestSuite) SetupSuite() {
	db, err := sqlite.SetupDatabase("", logger.Silent)
	require.NoError(suite.T(), err)

	cfg := &config.Config{
		Server: config.ServerConfig{Port: 0},
		Auth: config.AuthConfig{
			JWTSecret:     "test-secret-key-for-testing-only-32-bytes",
			JWTExpiration: time.Hour,
			Issuer:        "springdish",
		},
		Pantry: config.PantryConfig{
			DefaultShelfLifeDays: 15,
			ExpiryWarningDays:    3,
		},
		RateLimit: config.RateLimitConfig{Enable: false},
		Monitoring: config.MonitoringConfig{
			EnableMetrics:   false,
			HealthCheckPath: "/health",
			ReadinessPath:   "/ready",
		},
	}

	log := zap.NewNop()
	cache := memory.NewCacheRepository()
	tokens := security.NewTokenService(cfg, log, cache)
	suite.tokens = tokens
	metrics := monitoring.NewMetricsCollector(log)

	health := healthcheck.New("test", log)
	health.Register("database", func(ctx context.Context) error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	})

	suite.provider = &fakeProvider{}

	userRepo := gormrepo.NewUserRepository(db)
	ingredientRepo := gormrepo.NewIngredientRepository(db)
	recipeRepo := gormrepo.NewRecipeRepository(db)
	starRepo := gormrepo.NewStarRepository(db)

	authService := auth.NewAuthService(suite.provider, userRepo, tokens, cfg, log)
	pantryService := pantry.NewPantryService(ingredientRepo, cfg, log)
	recipeService := recipe.NewRecipeService(recipeRepo, starRepo, ingredientRepo, &fakeGenerator{}, &fakeVideoSearcher{}, log)

	api := apiserver.NewAPIServer(cfg, log, tokens, metrics, health, cache, userRepo, authService, pantryService, recipeService)
	suite.ts = httptest.NewServer(api.Server().Handler)

	suite.client = &http.Client{
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

func (suite *APITestSuite) TearDownSuite() {
	suite.ts.Close()
}

// login walks the full OAuth round trip for the given account and
// returns a bearer token.
func (suite *APITestSuite) login(kakaoID int64, nickname string) string {
	suite.provider.profile = outbound.ProviderProfile{
		KakaoID:      kakaoID,
		Nickname:     nickname,
		ProfileImage: "https://example.com/avatar.jpg",
	}

	resp, err := suite.client.Get(suite.ts.URL + "/api/v1/auth/authorize")
	require.NoError(suite.T(), err)
	resp.Body.Close()
	require.Equal(suite.T(), http.StatusFound, resp.StatusCode)

	location, err := url.Parse(resp.Header.Get("Location"))
	require.NoError(suite.T(), err)
	state := location.Query().Get("state")
	require.NotEmpty(suite.T(), state)

	status, body := suite.request(http.MethodGet, "/api/v1/auth/callback?code=test-code&state="+state, "", nil)
	require.Equal(suite.T(), http.StatusOK, status)

	var result struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(suite.T(), json.Unmarshal(body, &result))
	require.NotEmpty(suite.T(), result.AccessToken)
	return result.AccessToken
}

func (suite *APITestSuite) request(method, path, token string, payload interface{}) (int, []byte) {
	var body *bytes.Buffer
	if payload != nil {
		encoded, err := json.Marshal(payload)
		require.NoError(suite.T(), err)
		body = bytes.NewBuffer(encoded)
	} else {
		body = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequest(method, suite.ts.URL+path, body)
	require.NoError(suite.T(), err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := suite.client.Do(req)
	require.NoError(suite.T(), err)
	defer resp.Body.Close()

	var buf bytes.Buffer
	_, err = buf.ReadFrom(resp.Body)
	require.NoError(suite.T(), err)
	return resp.StatusCode, buf.Bytes()
}

func (suite *APITestSuite) TestLogin_ShouldIssueTokenAndProfile() {
	token := suite.login(1001, "integration-user")

	status, body := suite.request(http.MethodGet, "/api/v1/auth/me", token, nil)

	assert.Equal(suite.T(), http.StatusOK, status)
	var profile struct {
		KakaoID  int64  `json:"kakao_id"`
		Nickname string `json:"nickname"`
	}
	require.NoError(suite.T(), json.Unmarshal(body, &profile))
	assert.Equal(suite.T(), int64(1001), profile.KakaoID)
	assert.Equal(suite.T(), "integration-user", profile.Nickname)
}

func (suite *APITestSuite) TestCallback_ShouldRejectUnknownState() {
	status, body := suite.request(http.MethodGet, "/api/v1/auth/callback?code=test-code&state=forged", "", nil)

	assert.Equal(suite.T(), http.StatusUnauthorized, status)
	assert.Contains(suite.T(), string(body), "detail")
}

func (suite *APITestSuite) TestProtectedRoutes_ShouldRequireToken() {
	status, body := suite.request(http.MethodGet, "/api/v1/ingredients", "", nil)

	assert.Equal(suite.T(), http.StatusUnauthorized, status)
	assert.Contains(suite.T(), string(body), "authorization header required")
}

func (suite *APITestSuite) TestIngredientLifecycle_ShouldTrackPantry() {
	token := suite.login(1002, "pantry-user")

	// Arrange - register an ingredient with the default shelf life
	status, body := suite.request(http.MethodPost, "/api/v1/ingredients", token,
		map[string]interface{}{"name": "Napa Cabbage", "category": "vegetable", "quantity": "1 head"})
	require.Equal(suite.T(), http.StatusCreated, status)

	var created struct {
		ID       string `json:"id"`
		Name     string `json:"name"`
		Category string `json:"category"`
		Frozen   bool   `json:"frozen"`
	}
	require.NoError(suite.T(), json.Unmarshal(body, &created))
	assert.Equal(suite.T(), "Napa Cabbage", created.Name)
	assert.Equal(suite.T(), "vegetable", created.Category)

	// Act - rename, freeze, then remove
	status, body = suite.request(http.MethodPatch, "/api/v1/ingredients/"+created.ID, token,
		map[string]interface{}{"name": "Cabbage"})
	require.Equal(suite.T(), http.StatusOK, status)
	assert.Contains(suite.T(), string(body), `"name":"Cabbage"`)

	status, body = suite.request(http.MethodPost, "/api/v1/ingredients/"+created.ID+"/freeze", token, nil)
	require.Equal(suite.T(), http.StatusOK, status)
	assert.Contains(suite.T(), string(body), `"frozen":true`)

	status, _ = suite.request(http.MethodDelete, "/api/v1/ingredients/"+created.ID, token, nil)
	require.Equal(suite.T(), http.StatusOK, status)

	// Assert - the pantry is empty again
	status, body = suite.request(http.MethodGet, "/api/v1/ingredients", token, nil)
	require.Equal(suite.T(), http.StatusOK, status)
	var listing struct {
		Ingredients []json.RawMessage `json:"ingredients"`
	}
	require.NoError(suite.T(), json.Unmarshal(body, &listing))
	assert.Empty(suite.T(), listing.Ingredients)
}

func (suite *APITestSuite) TestGenerateRecipe_ShouldUsePantryAndAttachVideo() {
	token := suite.login(1003, "cook")

	status, _ := suite.request(http.MethodPost, "/api/v1/ingredients", token,
		map[string]interface{}{"name": "Kimchi", "category": "fermented"})
	require.Equal(suite.T(), http.StatusCreated, status)
	status, _ = suite.request(http.MethodPost, "/api/v1/ingredients", token,
		map[string]interface{}{"name": "Rice", "category": "grain"})
	require.Equal(suite.T(), http.StatusCreated, status)

	status, body := suite.request(http.MethodPost, "/api/v1/recipes/generate", token,
		map[string]interface{}{})
	require.Equal(suite.T(), http.StatusCreated, status)

	var generated struct {
		ID          string   `json:"recipe_id"`
		Title       string   `json:"title"`
		YoutubeLink string   `json:"youtubeLink"`
		Ingredients []string `json:"ingredients"`
	}
	require.NoError(suite.T(), json.Unmarshal(body, &generated))
	assert.Equal(suite.T(), "Kimchi Fried Rice", generated.Title)
	assert.Contains(suite.T(), generated.YoutubeLink, "vid42")
	assert.ElementsMatch(suite.T(), []string{"Kimchi", "Rice"}, generated.Ingredients)

	// Star the result and read it back.
	status, body = suite.request(http.MethodPost, "/api/v1/recipes/"+generated.ID+"/star", token, nil)
	require.Equal(suite.T(), http.StatusOK, status)
	assert.Contains(suite.T(), string(body), `"is_starred":true`)

	status, body = suite.request(http.MethodGet, "/api/v1/recipes/starred", token, nil)
	require.Equal(suite.T(), http.StatusOK, status)
	assert.Contains(suite.T(), string(body), generated.ID)
}

func (suite *APITestSuite) TestGenerateRecipe_WithEmptyPantry_ShouldFail() {
	token := suite.login(1004, "empty-handed")

	status, body := suite.request(http.MethodPost, "/api/v1/recipes/generate", token,
		map[string]interface{}{})

	assert.Equal(suite.T(), http.StatusBadRequest, status)
	assert.Contains(suite.T(), string(body), "No ingredients available")
}

func (suite *APITestSuite) TestLogout_ShouldRevokeToken() {
	token := suite.login(1005, "leaver")

	status, _ := suite.request(http.MethodPost, "/api/v1/auth/logout", token, nil)
	require.Equal(suite.T(), http.StatusOK, status)

	status, _ = suite.request(http.MethodGet, "/api/v1/auth/me", token, nil)
	assert.Equal(suite.T(), http.StatusUnauthorized, status)
}

func (suite *APITestSuite) TestUnlink_ShouldDeleteAccountAndRejectOldToken() {
	token := suite.login(1007, "departing")

	status, _ := suite.request(http.MethodPost, "/api/v1/auth/unlink", token, nil)
	require.Equal(suite.T(), http.StatusOK, status)

	// The presented token is revoked as part of unlink, so it is
	// rejected before the account lookup even runs.
	status, body := suite.request(http.MethodGet, "/api/v1/auth/me", token, nil)
	assert.Equal(suite.T(), http.StatusUnauthorized, status)
	assert.Contains(suite.T(), string(body), "invalid or expired token")

	// A valid, unrevoked token for the deleted account must be turned
	// away by the account-existence check.
	fresh, err := suite.tokens.GenerateAccessToken(1007, "departing", "provider-token")
	require.NoError(suite.T(), err)

	status, body = suite.request(http.MethodGet, "/api/v1/auth/me", fresh, nil)
	assert.Equal(suite.T(), http.StatusUnauthorized, status)
	assert.Contains(suite.T(), string(body), "account no longer exists")
}

func (suite *APITestSuite) TestWriteEndpoints_ShouldRequireJSONContentType() {
	token := suite.login(1006, "plain-texter")

	req, err := http.NewRequest(http.MethodPost, suite.ts.URL+"/api/v1/ingredients",
		bytes.NewBufferString("name=Kimchi"))
	require.NoError(suite.T(), err)
	req.Header.Set("Content-Type", "text/plain")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := suite.client.Do(req)
	require.NoError(suite.T(), err)
	defer resp.Body.Close()

	assert.Equal(suite.T(), http.StatusUnsupportedMediaType, resp.StatusCode)
}

func (suite *APITestSuite) TestHealthCheck_ShouldReportHealthy() {
	resp, err := suite.client.Get(suite.ts.URL + "/health")
	require.NoError(suite.T(), err)
	defer resp.Body.Close()

	assert.Equal(suite.T(), http.StatusOK, resp.StatusCode)

	var buf bytes.Buffer
	_, err = buf.ReadFrom(resp.Body)
	require.NoError(suite.T(), err)
	assert.Contains(suite.T(), buf.String(), fmt.Sprintf("%q", "healthy"))
}

func (suite *APITestSuite) TestReadiness_ShouldProbeDependencies() {
	resp, err := suite.client.Get(suite.ts.URL + "/ready")
	require.NoError(suite.T(), err)
	defer resp.Body.Close()

	assert.Equal(suite.T(), http.StatusOK, resp.StatusCode)
}

func TestAPITestSuite(t *testing.T) {
	suite.Run(t, new(APITestSuite))
}
