// Package kakao implements the identity provider port against the
// Kakao OAuth and user APIs.
package kakao

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/springdish/v1/internal/infrastructure/config"
	"github.com/springdish/v1/internal/ports/outbound"
	apperrors "github.com/springdish/v1/pkg/errors"
	"go.uber.org/zap"
)

// Client implements outbound.IdentityProvider. Endpoint URLs come from
// configuration so tests can point them at a local stub.
type Client struct {
	clientID     string
	clientSecret string
	adminKey     string
	redirectURI  string
	authURL      string
	tokenURL     string
	userInfoURL  string
	unlinkURL    string
	client       *http.Client
	logger       *zap.Logger
}

// NewClient creates a new Kakao client
func NewClient(cfg *config.Config, logger *zap.Logger) *Client {
	return &Client{
		clientID:     cfg.Kakao.ClientID,
		clientSecret: cfg.Kakao.ClientSecret,
		adminKey:     cfg.Kakao.AdminKey,
		redirectURI:  cfg.Kakao.RedirectURI,
		authURL:      cfg.Kakao.AuthURL,
		tokenURL:     cfg.Kakao.TokenURL,
		userInfoURL:  cfg.Kakao.UserInfoURL,
		unlinkURL:    cfg.Kakao.UnlinkURL,
		client:       &http.Client{Timeout: 10 * time.Second},
		logger:       logger,
	}
}

// AuthorizationURL builds the consent page URL for the given state.
func (c *Client) AuthorizationURL(state string) string {
	params := url.Values{}
	params.Set("client_id", c.clientID)
	params.Set("redirect_uri", c.redirectURI)
	params.Set("response_type", "code")
	if state != "" {
		params.Set("state", state)
	}
	return c.authURL + "?" + params.Encode()
}

type tokenResponse struct {
	AccessToken      string `json:"access_token"`
	RefreshToken     string `json:"refresh_token"`
	ExpiresIn        int    `json:"expires_in"`
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

// ExchangeCode trades an authorization code for provider tokens.
func (c *Client) ExchangeCode(ctx context.Context, code string) (*outbound.ProviderToken, error) {
	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("client_id", c.clientID)
	form.Set("redirect_uri", c.redirectURI)
	form.Set("code", code)
	if c.clientSecret != "" {
		form.Set("client_secret", c.clientSecret)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, apperrors.NewUpstreamError("kakao", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded;charset=utf-8")

	body, err := c.do(req)
	if err != nil {
		return nil, err
	}

	var token tokenResponse
	if err := json.Unmarshal(body, &token); err != nil {
		return nil, apperrors.NewUpstreamError("kakao", fmt.Errorf("malformed token response: %w", err))
	}
	if token.Error != "" || token.AccessToken == "" {
		c.logger.Warn("Kakao token exchange rejected",
			zap.String("error", token.Error),
			zap.String("description", token.ErrorDescription))
		return nil, apperrors.NewUnauthenticatedError("authorization code rejected")
	}

	return &outbound.ProviderToken{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		ExpiresIn:    token.ExpiresIn,
	}, nil
}

type userInfoResponse struct {
	ID         int64 `json:"id"`
	Properties struct {
		Nickname     string `json:"nickname"`
		ProfileImage string `json:"profile_image"`
	} `json:"properties"`
	KakaoAccount struct {
		Profile struct {
			Nickname        string `json:"nickname"`
			ProfileImageURL string `json:"profile_image_url"`
		} `json:"profile"`
	} `json:"kakao_account"`
}

// FetchProfile loads the account profile behind an access token.
func (c *Client) FetchProfile(ctx context.Context, accessToken string) (*outbound.ProviderProfile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.userInfoURL, nil)
	if err != nil {
		return nil, apperrors.NewUpstreamError("kakao", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	body, err := c.do(req)
	if err != nil {
		return nil, err
	}

	var info userInfoResponse
	if err := json.Unmarshal(body, &info); err != nil {
		return nil, apperrors.NewUpstreamError("kakao", fmt.Errorf("malformed user info response: %w", err))
	}
	if info.ID == 0 {
		return nil, apperrors.NewUpstreamError("kakao", fmt.Errorf("user info response carries no account id"))
	}

	// Newer accounts expose the profile under kakao_account only
	nickname := info.Properties.Nickname
	if nickname == "" {
		nickname = info.KakaoAccount.Profile.Nickname
	}
	image := info.Properties.ProfileImage
	if image == "" {
		image = info.KakaoAccount.Profile.ProfileImageURL
	}

	return &outbound.ProviderProfile{
		KakaoID:      info.ID,
		Nickname:     nickname,
		ProfileImage: image,
	}, nil
}

// Unlink severs the provider-side connection using the admin key.
func (c *Client) Unlink(ctx context.Context, kakaoID int64) error {
	form := url.Values{}
	form.Set("target_id_type", "user_id")
	form.Set("target_id", strconv.FormatInt(kakaoID, 10))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.unlinkURL, strings.NewReader(form.Encode()))
	if err != nil {
		return apperrors.NewUpstreamError("kakao", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded;charset=utf-8")
	req.Header.Set("Authorization", "KakaoAK "+c.adminKey)

	if _, err := c.do(req); err != nil {
		return err
	}
	return nil
}

// do executes the request and returns the body, classifying transport
// and status failures as upstream errors.
func (c *Client) do(req *http.Request) ([]byte, error) {
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, apperrors.NewUpstreamError("kakao", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperrors.NewUpstreamError("kakao", err)
	}

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, apperrors.NewUnauthenticatedError("provider rejected the credentials")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, apperrors.NewUpstreamError("kakao",
			fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body)))
	}

	return body, nil
}
