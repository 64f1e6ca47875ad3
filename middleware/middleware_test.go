package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	userRepo "gclient/database/repository/user"
	"gclient/models"
	"gclient/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubUsers map[string]*models.User

func (s stubUsers) GetByID(_ context.Context, id string) (*models.User, error) {
	if u, ok := s[id]; ok {
		return u, nil
	}
	return nil, userRepo.ErrUserNotFound
}

type stubTokens struct{}

func (stubTokens) ValidateToken(token string) (*utils.TokenClaims, error) {
	switch token {
	case "admin-token":
		return &utils.TokenClaims{Subject: "a1", Email: "billing@gclient.test", Role: models.RoleAdmin}, nil
	case "other-admin":
		return &utils.TokenClaims{Subject: "a2", Email: "ops@gclient.test", Role: models.RoleAdmin}, nil
	case "learner-token":
		return &utils.TokenClaims{Subject: "l1", Email: "kofi@gclient.test", Role: models.RoleLearner}, nil
	case "disabled-token":
		return &utils.TokenClaims{Subject: "d1", Email: "gone@gclient.test", Role: models.RoleLearner}, nil
	case "stale-role":
		return &utils.TokenClaims{Subject: "l1", Email: "kofi@gclient.test", Role: models.RoleAdmin}, nil
	}
	return nil, errors.New("bad token")
}

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	users := stubUsers{
		"a1": {ID: "a1", Role: models.RoleAdmin, IsVerified: true},
		"a2": {ID: "a2", Role: models.RoleAdmin, IsVerified: true},
		"l1": {ID: "l1", Role: models.RoleLearner, IsVerified: true},
		"d1": {ID: "d1", Role: models.RoleLearner, IsVerified: true, Disabled: true},
	}
	r := gin.New()
	chain := append([]gin.HandlerFunc{JWTAuthMiddleware(stubTokens{}, users, nil)}, handlers...)
	chain = append(chain, func(c *gin.Context) {
		id, _, role := ActorFromContext(c)
		c.JSON(http.StatusOK, gin.H{"id": id, "role": role})
	})
	r.GET("/x", chain...)
	return r
}

func do(r http.Handler, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestJWTAuthMiddleware(t *testing.T) {
	r := newRouter()

	t.Run("missing header", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, do(r, "").Code)
	})
	t.Run("invalid token", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, do(r, "garbage").Code)
	})
	t.Run("disabled account", func(t *testing.T) {
		assert.Equal(t, http.StatusForbidden, do(r, "disabled-token").Code)
	})
	t.Run("role no longer matches", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, do(r, "stale-role").Code)
	})
	t.Run("valid learner", func(t *testing.T) {
		w := do(r, "learner-token")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"id":"l1"`)
	})
}

func TestRequireRole(t *testing.T) {
	r := newRouter(RequireRole(models.RoleAdmin))

	assert.Equal(t, http.StatusForbidden, do(r, "learner-token").Code)
	assert.Equal(t, http.StatusOK, do(r, "admin-token").Code)
}

func TestBillingAdminMiddleware(t *testing.T) {
	t.Run("allow-list enforced", func(t *testing.T) {
		r := newRouter(BillingAdminMiddleware([]string{" Billing@GClient.test "}))
		assert.Equal(t, http.StatusOK, do(r, "admin-token").Code)
		assert.Equal(t, http.StatusForbidden, do(r, "other-admin").Code)
		assert.Equal(t, http.StatusForbidden, do(r, "learner-token").Code)
	})

	t.Run("empty allow-list denies everyone", func(t *testing.T) {
		r := newRouter(BillingAdminMiddleware(nil))
		assert.Equal(t, http.StatusForbidden, do(r, "admin-token").Code)
		assert.Equal(t, http.StatusForbidden, do(r, "other-admin").Code)
		assert.Equal(t, http.StatusForbidden, do(r, "learner-token").Code)
	})
}

func TestRateLimitMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(RateLimitMiddleware(2))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		req.Header.Set("X-Forwarded-For", "10.0.0.9, 172.16.0.1")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("X-Forwarded-For", "10.0.0.10")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code, "limits are per client IP")
}

func TestGetClientIP(t *testing.T) {
	cases := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{"forwarded first hop", map[string]string{"X-Forwarded-For": "203.0.113.7, 10.0.0.1"}, "1.1.1.1:80", "203.0.113.7"},
		{"bogus forwarded falls to real ip", map[string]string{"X-Forwarded-For": "nope", "X-Real-IP": "198.51.100.2"}, "1.1.1.1:80", "198.51.100.2"},
		{"remote addr", nil, "192.0.2.4:5555", "192.0.2.4"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
			c.Request.RemoteAddr = tc.remote
			for k, v := range tc.headers {
				c.Request.Header.Set(k, v)
			}
			assert.Equal(t, tc.want, getClientIP(c))
		})
	}
}

func TestRequestLoggerSetsRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestLogger(utils.GetLogger()))
	r.GET("/x", func(c *gin.Context) {
		_, ok := c.Get("logger")
		assert.True(t, ok)
		c.Status(http.StatusNoContent)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestAuthCacheWithoutRedis(t *testing.T) {
	var nilCache *AuthCache
	assert.NoError(t, nilCache.Invalidate(context.Background(), "l1"))
	assert.NoError(t, NewAuthCache(nil).Invalidate(context.Background(), "l1"))
}
