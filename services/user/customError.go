package user

import "errors"

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("an account with this email already exists")
	ErrInvalidRole        = errors.New("invalid role")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrNotVerified        = errors.New("please verify your email before logging in")
	ErrAlreadyVerified    = errors.New("email is already verified")
	ErrAccountDisabled    = errors.New("account is disabled")
	ErrInvalidCode        = errors.New("invalid or expired verification code")
	ErrTooManyRequests    = errors.New("too many verification requests, try again later")
)

// WeakPasswordError reports which complexity rule a password broke.
type WeakPasswordError struct {
	Reason string
}

func (e WeakPasswordError) Error() string {
	return e.Reason
}
