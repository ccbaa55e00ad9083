package kakao

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/springdish/v1/internal/infrastructure/config"
	apperrors "github.com/springdish/v1/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(t *testing.T, mux *http.ServeMux) *Client {
	t.Helper()
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	cfg := &config.Config{
		Kakao: config.KakaoConfig{
			ClientID:    "client-id",
			AdminKey:    "admin-key",
			RedirectURI: "http://localhost:8080/oauth/callback",
			AuthURL:     server.URL + "/oauth/authorize",
			TokenURL:    server.URL + "/oauth/token",
			UserInfoURL: server.URL + "/v2/user/me",
			UnlinkURL:   server.URL + "/v1/user/unlink",
		},
	}
	return NewClient(cfg, zap.NewNop())
}

func TestAuthorizationURL(t *testing.T) {
	client := newTestClient(t, http.NewServeMux())

	raw := client.AuthorizationURL("csrf-state")
	parsed, err := url.Parse(raw)
	require.NoError(t, err)

	q := parsed.Query()
	assert.Equal(t, "client-id", q.Get("client_id"))
	assert.Equal(t, "code", q.Get("response_type"))
	assert.Equal(t, "csrf-state", q.Get("state"))
	assert.Equal(t, "http://localhost:8080/oauth/callback", q.Get("redirect_uri"))
}

func TestExchangeCode(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/oauth/token", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "authorization_code", r.PostForm.Get("grant_type"))
		assert.Equal(t, "the-code", r.PostForm.Get("code"))
		json.NewEncoder(w).Encode(map[string]interface{}{
			"access_token":  "provider-access",
			"refresh_token": "provider-refresh",
			"expires_in":    21599,
		})
	})
	client := newTestClient(t, mux)

	token, err := client.ExchangeCode(context.Background(), "the-code")
	require.NoError(t, err)
	assert.Equal(t, "provider-access", token.AccessToken)
	assert.Equal(t, "provider-refresh", token.RefreshToken)
	assert.Equal(t, 21599, token.ExpiresIn)
}

func TestExchangeCodeRejected(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/oauth/token", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{
			"error":             "invalid_grant",
			"error_description": "authorization code not found",
		})
	})
	client := newTestClient(t, mux)

	_, err := client.ExchangeCode(context.Background(), "stale-code")
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CodeUnauthenticated))
}

func TestFetchProfile(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v2/user/me", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer provider-access", r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode(map[string]interface{}{
			"id": 9876543,
			"properties": map[string]string{
				"nickname":      "springcook",
				"profile_image": "https://img.example/cook.jpg",
			},
		})
	})
	client := newTestClient(t, mux)

	profile, err := client.FetchProfile(context.Background(), "provider-access")
	require.NoError(t, err)
	assert.Equal(t, int64(9876543), profile.KakaoID)
	assert.Equal(t, "springcook", profile.Nickname)
	assert.Equal(t, "https://img.example/cook.jpg", profile.ProfileImage)
}

func TestFetchProfileFallsBackToAccountProfile(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v2/user/me", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"id": 555,
			"kakao_account": map[string]interface{}{
				"profile": map[string]string{
					"nickname":          "account-nick",
					"profile_image_url": "https://img.example/a.jpg",
				},
			},
		})
	})
	client := newTestClient(t, mux)

	profile, err := client.FetchProfile(context.Background(), "provider-access")
	require.NoError(t, err)
	assert.Equal(t, "account-nick", profile.Nickname)
	assert.Equal(t, "https://img.example/a.jpg", profile.ProfileImage)
}

func TestFetchProfileExpiredToken(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v2/user/me", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"msg":"this access token does not exist","code":-401}`, http.StatusUnauthorized)
	})
	client := newTestClient(t, mux)

	_, err := client.FetchProfile(context.Background(), "expired")
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CodeUnauthenticated))
}

func TestUnlink(t *testing.T) {
	var gotTarget, gotAuth string
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/user/unlink", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		gotTarget = r.PostForm.Get("target_id")
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(map[string]int64{"id": 9876543})
	})
	client := newTestClient(t, mux)

	require.NoError(t, client.Unlink(context.Background(), 9876543))
	assert.Equal(t, "9876543", gotTarget)
	assert.Equal(t, "KakaoAK admin-key", gotAuth)
}

func TestUpstreamOutageClassified(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/oauth/token", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	})
	client := newTestClient(t, mux)

	_, err := client.ExchangeCode(context.Background(), "code")
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CodeUpstreamFailure))
}
