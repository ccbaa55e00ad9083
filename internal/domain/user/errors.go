package user

import "errors"

// Domain errors for user operations

var (
	ErrInvalidKakaoID = errors.New("kakao account id must be positive")
	ErrUserNotFound   = errors.New("user not found")
)
