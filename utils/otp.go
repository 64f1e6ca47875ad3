package utils

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

var (
	ErrOTPNotFound      = errors.New("verification code not found or expired")
	ErrOTPMismatch      = errors.New("verification code does not match")
	ErrTooManyResends   = errors.New("too many verification requests, try again later")
	ErrOTPStoreNotReady = errors.New("otp store not initialized")
)

// OTPStore keeps email verification codes in Redis.
type OTPStore struct {
	client *redis.Client
}

func NewOTPStore(client *redis.Client) *OTPStore {
	return &OTPStore{client: client}
}

// generateNumericOTP returns a zero-padded numeric code of the given length.
func generateNumericOTP(length int) (string, error) {
	var b strings.Builder
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", fmt.Errorf("failed to generate random digit: %w", err)
		}
		b.WriteByte(byte('0' + n.Int64()))
	}
	return b.String(), nil
}

func otpKey(email string) string {
	return EmailOTPPrefix + strings.ToLower(strings.TrimSpace(email))
}

// Issue generates a 6-digit code for email and stores it with EmailOTPTTL,
// replacing any previous code.
func (s *OTPStore) Issue(ctx context.Context, email string) (string, error) {
	if s == nil || s.client == nil {
		return "", ErrOTPStoreNotReady
	}
	code, err := generateNumericOTP(6)
	if err != nil {
		return "", err
	}
	if err := s.client.Set(ctx, otpKey(email), code, EmailOTPTTL).Err(); err != nil {
		GetLogger().Error("Failed to cache OTP", zap.String("email", email), zap.Error(err))
		return "", fmt.Errorf("failed to store verification code: %w", err)
	}
	return code, nil
}

// Verify compares the stored code with the provided one and deletes it on match.
func (s *OTPStore) Verify(ctx context.Context, email, provided string) error {
	if s == nil || s.client == nil {
		return ErrOTPStoreNotReady
	}
	key := otpKey(email)
	stored, err := s.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return ErrOTPNotFound
		}
		return fmt.Errorf("failed to retrieve OTP: %w", err)
	}
	if stored != strings.TrimSpace(provided) {
		return ErrOTPMismatch
	}
	if err := s.client.Del(ctx, key).Err(); err != nil {
		GetLogger().Error("Failed to delete OTP after verification", zap.Error(err))
	}
	return nil
}

// AllowResend counts a resend attempt for email and reports ErrTooManyResends
// once MaxResendsPerWindow is exceeded inside ResendWindow.
func (s *OTPStore) AllowResend(ctx context.Context, email string) error {
	if s == nil || s.client == nil {
		return ErrOTPStoreNotReady
	}
	key := ResendCountPrefix + strings.ToLower(strings.TrimSpace(email))
	count, err := s.client.Incr(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("failed to count resend: %w", err)
	}
	if count == 1 {
		if err := s.client.Expire(ctx, key, ResendWindow).Err(); err != nil {
			GetLogger().Warn("Failed to set resend window", zap.Error(err))
		}
	}
	if count > MaxResendsPerWindow {
		return ErrTooManyResends
	}
	return nil
}
