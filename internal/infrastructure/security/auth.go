// Package security provides token issuance and verification for the API.
package security

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/springdish/v1/internal/infrastructure/config"
	"github.com/springdish/v1/internal/ports/outbound"
	"go.uber.org/zap"
)

// TokenService issues and validates API access tokens. Revoked token
// IDs live in the cache until their natural expiry; a missing cache
// entry means the token is still good.
type TokenService struct {
	config    *config.Config
	logger    *zap.Logger
	cache     outbound.CacheRepository
	jwtSecret []byte
}

// NewTokenService creates a new token service
func NewTokenService(cfg *config.Config, logger *zap.Logger, cache outbound.CacheRepository) *TokenService {
	return &TokenService{
		config:    cfg,
		logger:    logger,
		cache:     cache,
		jwtSecret: []byte(cfg.Auth.JWTSecret),
	}
}

// Claims represents JWT claims structure. The provider access token
// rides along so provider calls on behalf of the session do not need
// separate storage.
type Claims struct {
	KakaoID       int64  `json:"kakao_id"`
	Nickname      string `json:"nickname"`
	UpstreamToken string `json:"upstream_token,omitempty"`
	jwt.RegisteredClaims
}

// GenerateAccessToken creates a signed access token for the account.
func (s *TokenService) GenerateAccessToken(kakaoID int64, nickname, upstreamToken string) (string, error) {
	now := time.Now()
	claims := &Claims{
		KakaoID:       kakaoID,
		Nickname:      nickname,
		UpstreamToken: upstreamToken,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.config.Auth.Issuer,
			Subject:   strconv.FormatInt(kakaoID, 10),
			Audience:  []string{s.config.Auth.Issuer + "-api"},
			ExpiresAt: jwt.NewNumericDate(now.Add(s.config.Auth.JWTExpiration)),
			NotBefore: jwt.NewNumericDate(now),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        uuid.New().String(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}

// ValidateToken validates and parses an access token.
//
// The revocation check fails open: if the cache lookup itself errors,
// the token is accepted and the failure logged. A cache outage then
// degrades logout and unlink to best effort for the remaining token
// lifetime instead of locking every session out.
func (s *TokenService) ValidateToken(ctx context.Context, tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}

	if revoked, err := s.isTokenRevoked(ctx, claims.ID); err != nil {
		s.logger.Warn("Failed to check token revocation", zap.Error(err))
	} else if revoked {
		return nil, fmt.Errorf("token has been revoked")
	}

	return claims, nil
}

// RevokeToken revokes a token by ID. The revocation entry only needs
// to outlive the token itself.
func (s *TokenService) RevokeToken(ctx context.Context, tokenID string) error {
	key := revocationKey(tokenID)
	return s.cache.Set(ctx, key, []byte("revoked"), s.config.Auth.JWTExpiration)
}

// isTokenRevoked checks if a token has been revoked
func (s *TokenService) isTokenRevoked(ctx context.Context, tokenID string) (bool, error) {
	return s.cache.Exists(ctx, revocationKey(tokenID))
}

func revocationKey(tokenID string) string {
	return "revoked_token:" + tokenID
}
