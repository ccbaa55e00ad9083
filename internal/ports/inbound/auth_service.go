package inbound

import "context"

// AuthService defines the use cases for identity and sessions. All
// authentication is delegated to the external provider; this service
// provisions local accounts and issues API tokens.
type AuthService interface {
	// AuthorizationURL returns the provider consent page for the
	// given CSRF state.
	AuthorizationURL(state string) string

	// Login exchanges an authorization code, provisions or refreshes
	// the local account and issues an API token.
	Login(ctx context.Context, code string) (*LoginResult, error)

	// Profile returns the account behind an authenticated request.
	Profile(ctx context.Context, kakaoID int64) (*UserDTO, error)

	// Logout revokes the presented token.
	Logout(ctx context.Context, tokenID string) error

	// Unlink severs the provider connection and removes the local
	// account with everything it owns.
	Unlink(ctx context.Context, kakaoID int64) error
}

// LoginResult carries the issued token and the provisioned account
type LoginResult struct {
	AccessToken string  `json:"access_token"`
	TokenType   string  `json:"token_type"`
	ExpiresIn   int     `json:"expires_in"`
	User        UserDTO `json:"user"`
}

// UserDTO is the data transfer object for accounts
type UserDTO struct {
	KakaoID      int64  `json:"kakao_id"`
	Nickname     string `json:"nickname"`
	ProfileImage string `json:"profile_image,omitempty"`
	CreatedAt    string `json:"created_at"`
}
