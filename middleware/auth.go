package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	userRepo "gclient/database/repository/user"
	"gclient/models"
	"gclient/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// Context keys set by JWTAuthMiddleware.
const (
	CtxUserID = "userID"
	CtxEmail  = "email"
	CtxRole   = "role"
)

// TokenValidator verifies a bearer token and returns its claims.
type TokenValidator interface {
	ValidateToken(token string) (*utils.TokenClaims, error)
}

// UserLookup is the slice of the user repository the middleware needs.
type UserLookup interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
}

// JWTAuthMiddleware authenticates the bearer token and confirms the account is
// still active. Account state is cached in Redis; a nil cache always hits the database.
func JWTAuthMiddleware(tokens TokenValidator, users UserLookup, cache *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := utils.GetLogger()

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			utils.JSONError(c, http.StatusUnauthorized, "Insufficient authorization", "missing bearer token")
			return
		}
		tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		if tokenString == "" {
			utils.JSONError(c, http.StatusUnauthorized, "Insufficient authorization", "missing bearer token")
			return
		}

		claims, err := tokens.ValidateToken(tokenString)
		if err != nil {
			utils.JSONError(c, http.StatusUnauthorized, "Insufficient authorization", "invalid or expired token")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		role, err := accountRole(ctx, claims.Subject, users, cache, logger)
		if err != nil {
			if errors.Is(err, errAccountInactive) {
				utils.JSONError(c, http.StatusForbidden, "Account is not active", err.Error())
				return
			}
			utils.JSONError(c, http.StatusUnauthorized, "Authentication error", err.Error())
			return
		}
		if claims.Role != "" && claims.Role != role {
			utils.JSONError(c, http.StatusUnauthorized, "Token mismatch", "role changed since token was issued")
			return
		}

		c.Set(CtxUserID, claims.Subject)
		c.Set(CtxEmail, claims.Email)
		c.Set(CtxRole, role)
		c.Next()
	}
}

var errAccountInactive = errors.New("account disabled or unverified")

// cached values are the role, or "!" for an inactive account.
const inactiveMarker = "!"

func accountRole(ctx context.Context, userID string, users UserLookup, cache *redis.Client, logger *zap.Logger) (string, error) {
	key := utils.AuthCachePrefix + userID

	if cache != nil {
		cached, err := cache.Get(ctx, key).Result()
		switch {
		case err == nil && cached == inactiveMarker:
			return "", errAccountInactive
		case err == nil:
			return cached, nil
		case !errors.Is(err, redis.Nil):
			logger.Warn("Auth cache lookup failed, falling back to database", zap.Error(err))
		}
	}

	usr, err := users.GetByID(ctx, userID)
	if err != nil || usr == nil {
		if err != nil && !errors.Is(err, userRepo.ErrUserNotFound) {
			logger.Error("Auth user lookup failed", zap.String("userID", userID), zap.Error(err))
		}
		return "", errors.New("user not found")
	}

	value := usr.Role
	if usr.Disabled || !usr.IsVerified {
		value = inactiveMarker
	}
	if cache != nil {
		if err := cache.Set(ctx, key, value, utils.AuthCacheTTL).Err(); err != nil {
			logger.Warn("Failed to cache auth state", zap.Error(err))
		}
	}
	if value == inactiveMarker {
		return "", errAccountInactive
	}
	return value, nil
}

// AuthCache is the account-state cache JWTAuthMiddleware reads.
type AuthCache struct {
	client *redis.Client
}

func NewAuthCache(client *redis.Client) *AuthCache {
	return &AuthCache{client: client}
}

// Invalidate drops the cached account state so the next request re-reads it.
func (a *AuthCache) Invalidate(ctx context.Context, userID string) error {
	if a == nil || a.client == nil {
		return nil
	}
	return a.client.Del(ctx, utils.AuthCachePrefix+userID).Err()
}

// ActorFromContext reads what JWTAuthMiddleware stored on the request.
func ActorFromContext(c *gin.Context) (userID, email, role string) {
	return c.GetString(CtxUserID), c.GetString(CtxEmail), c.GetString(CtxRole)
}
