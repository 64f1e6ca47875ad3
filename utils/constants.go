// File: utils/constants.go
package utils

import "time"

// Redis key prefixes for email verification.
const (
	EmailOTPPrefix    = "otp:email:"
	ResendCountPrefix = "otp:resend:"
)

const (
	// EmailOTPTTL is how long a verification code stays valid.
	EmailOTPTTL = 20 * time.Minute
	// ResendWindow bounds how often a code may be re-sent.
	ResendWindow = 30 * time.Minute
	// MaxResendsPerWindow is the number of resends allowed inside ResendWindow.
	MaxResendsPerWindow = 3
)

// AuthCachePrefix keys the cached account state used by the auth middleware.
const AuthCachePrefix = "auth:user:"

// AuthCacheTTL is how long a cached account state is trusted before the database is consulted again.
const AuthCacheTTL = 10 * time.Minute
