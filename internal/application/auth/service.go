// Package auth provides the application layer for identity and sessions.
// Authentication itself lives with the external provider; this service
// provisions local accounts and issues API tokens.
package auth

import (
	"context"
	"errors"
	"time"

	"github.com/springdish/v1/internal/domain/user"
	"github.com/springdish/v1/internal/infrastructure/config"
	"github.com/springdish/v1/internal/infrastructure/security"
	"github.com/springdish/v1/internal/ports/inbound"
	"github.com/springdish/v1/internal/ports/outbound"
	apperrors "github.com/springdish/v1/pkg/errors"
	"go.uber.org/zap"
)

// AuthService implements the identity use cases
type AuthService struct {
	provider outbound.IdentityProvider
	userRepo outbound.UserRepository
	tokens   *security.TokenService
	config   *config.Config
	logger   *zap.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(
	provider outbound.IdentityProvider,
	userRepo outbound.UserRepository,
	tokens *security.TokenService,
	cfg *config.Config,
	logger *zap.Logger,
) inbound.AuthService {
	return &AuthService{
		provider: provider,
		userRepo: userRepo,
		tokens:   tokens,
		config:   cfg,
		logger:   logger.Named("auth-service"),
	}
}

// AuthorizationURL returns the provider consent page for the given
// CSRF state.
func (s *AuthService) AuthorizationURL(state string) string {
	return s.provider.AuthorizationURL(state)
}

// Login exchanges an authorization code, provisions or refreshes the
// local account and issues an API token.
func (s *AuthService) Login(ctx context.Context, code string) (*inbound.LoginResult, error) {
	token, err := s.provider.ExchangeCode(ctx, code)
	if err != nil {
		return nil, err
	}

	profile, err := s.provider.FetchProfile(ctx, token.AccessToken)
	if err != nil {
		return nil, err
	}

	account, err := s.provisionAccount(ctx, profile)
	if err != nil {
		return nil, err
	}

	if err := s.userRepo.UpdateLastLogin(ctx, account.KakaoID()); err != nil {
		s.logger.Warn("Failed to record login time",
			zap.Int64("kakao_id", account.KakaoID()),
			zap.Error(err),
		)
	}

	accessToken, err := s.tokens.GenerateAccessToken(account.KakaoID(), account.Nickname(), token.AccessToken)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to issue access token")
	}

	s.logger.Info("User logged in",
		zap.Int64("kakao_id", account.KakaoID()),
	)

	return &inbound.LoginResult{
		AccessToken: accessToken,
		TokenType:   "Bearer",
		ExpiresIn:   int(s.config.Auth.JWTExpiration.Seconds()),
		User:        toUserDTO(account),
	}, nil
}

// provisionAccount creates the account on first login and refreshes
// the profile fields on every later one.
func (s *AuthService) provisionAccount(ctx context.Context, profile *outbound.ProviderProfile) (*user.User, error) {
	existing, err := s.userRepo.FindByKakaoID(ctx, profile.KakaoID)
	if err == nil {
		existing.RefreshProfile(profile.Nickname, profile.ProfileImage)
		if err := s.userRepo.Update(ctx, existing); err != nil {
			return nil, err
		}
		return existing, nil
	}
	if !errors.Is(err, user.ErrUserNotFound) {
		return nil, err
	}

	account, err := user.NewUser(profile.KakaoID, profile.Nickname, profile.ProfileImage)
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}

	if err := s.userRepo.Create(ctx, account); err != nil {
		// A concurrent first login may have provisioned the account
		// between the lookup and the insert.
		if apperrors.GetCode(err) == apperrors.CodeConflict {
			return s.userRepo.FindByKakaoID(ctx, profile.KakaoID)
		}
		return nil, err
	}

	s.logger.Info("New account provisioned",
		zap.Int64("kakao_id", account.KakaoID()),
		zap.String("nickname", account.Nickname()),
	)

	return account, nil
}

// Profile returns the account behind an authenticated request.
func (s *AuthService) Profile(ctx context.Context, kakaoID int64) (*inbound.UserDTO, error) {
	account, err := s.userRepo.FindByKakaoID(ctx, kakaoID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, apperrors.NewNotFoundError("user")
		}
		return nil, err
	}

	dto := toUserDTO(account)
	return &dto, nil
}

// Logout revokes the presented token.
func (s *AuthService) Logout(ctx context.Context, tokenID string) error {
	if err := s.tokens.RevokeToken(ctx, tokenID); err != nil {
		return apperrors.NewInternalError("failed to revoke token")
	}
	return nil
}

// Unlink severs the provider connection and removes the local account
// with everything it owns.
func (s *AuthService) Unlink(ctx context.Context, kakaoID int64) error {
	exists, err := s.userRepo.Exists(ctx, kakaoID)
	if err != nil {
		return err
	}
	if !exists {
		return apperrors.NewNotFoundError("user")
	}

	if err := s.provider.Unlink(ctx, kakaoID); err != nil {
		return err
	}

	if err := s.userRepo.Delete(ctx, kakaoID); err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return apperrors.NewNotFoundError("user")
		}
		return err
	}

	s.logger.Info("Account unlinked",
		zap.Int64("kakao_id", kakaoID),
	)

	return nil
}

func toUserDTO(u *user.User) inbound.UserDTO {
	return inbound.UserDTO{
		KakaoID:      u.KakaoID(),
		Nickname:     u.Nickname(),
		ProfileImage: u.ProfileImage(),
		CreatedAt:    u.CreatedAt().Format(time.RFC3339),
	}
}
