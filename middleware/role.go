package middleware

import (
	"net/http"

	"gclient/utils"

	"github.com/gin-gonic/gin"
)

// RequireRole lets the request through only when JWTAuthMiddleware resolved one of roles.
func RequireRole(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(c *gin.Context) {
		role := c.GetString(CtxRole)
		if _, ok := allowed[role]; !ok {
			utils.JSONError(c, http.StatusForbidden, "You do not have access to this resource", "role "+role+" is not permitted")
			return
		}
		c.Next()
	}
}
