// Package user defines the user domain entity
package user

import (
	"strings"
	"time"
)

// User represents an account provisioned from the external identity
// provider. The provider's numeric account ID is the primary identity;
// there is no local password.
type User struct {
	kakaoID      int64
	nickname     string
	profileImage string
	createdAt    time.Time
	updatedAt    time.Time
	lastLoginAt  *time.Time
}

// NewUser creates a user from an identity provider profile.
func NewUser(kakaoID int64, nickname, profileImage string) (*User, error) {
	if kakaoID <= 0 {
		return nil, ErrInvalidKakaoID
	}

	nickname = strings.TrimSpace(nickname)
	if nickname == "" {
		nickname = "unknown"
	}

	now := time.Now()
	return &User{
		kakaoID:      kakaoID,
		nickname:     nickname,
		profileImage: profileImage,
		createdAt:    now,
		updatedAt:    now,
	}, nil
}

// Reconstitute rebuilds a user from persisted state. It bypasses the
// creation-time defaults and is intended for repository mappers only.
func Reconstitute(kakaoID int64, nickname, profileImage string, createdAt, updatedAt time.Time, lastLoginAt *time.Time) *User {
	return &User{
		kakaoID:      kakaoID,
		nickname:     nickname,
		profileImage: profileImage,
		createdAt:    createdAt,
		updatedAt:    updatedAt,
		lastLoginAt:  lastLoginAt,
	}
}

// KakaoID returns the provider account identifier.
func (u *User) KakaoID() int64 {
	return u.kakaoID
}

// Nickname returns the display name from the provider profile.
func (u *User) Nickname() string {
	return u.nickname
}

// ProfileImage returns the profile image URL, possibly empty.
func (u *User) ProfileImage() string {
	return u.profileImage
}

// CreatedAt returns when the user was first provisioned.
func (u *User) CreatedAt() time.Time {
	return u.createdAt
}

// UpdatedAt returns when the user was last modified.
func (u *User) UpdatedAt() time.Time {
	return u.updatedAt
}

// LastLoginAt returns the most recent login time, nil if never recorded.
func (u *User) LastLoginAt() *time.Time {
	return u.lastLoginAt
}

// RefreshProfile updates mutable profile fields after a fresh login.
// The provider profile is authoritative; local state follows it.
func (u *User) RefreshProfile(nickname, profileImage string) {
	if nickname = strings.TrimSpace(nickname); nickname != "" {
		u.nickname = nickname
	}
	if profileImage != "" {
		u.profileImage = profileImage
	}
	u.updatedAt = time.Now()
}

// RecordLogin marks a successful authentication.
func (u *User) RecordLogin() {
	now := time.Now()
	u.lastLoginAt = &now
	u.updatedAt = now
}
