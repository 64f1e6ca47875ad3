package middleware

import (
	"net/http"
	"strings"

	"gclient/models"
	"gclient/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BillingAdminMiddleware restricts billing management to admins whose email is on
// the allow-list. An empty allow-list denies everyone.
func BillingAdminMiddleware(allowList []string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(allowList))
	for _, e := range allowList {
		e = strings.ToLower(strings.TrimSpace(e))
		if e != "" {
			allowed[e] = struct{}{}
		}
	}

	return func(c *gin.Context) {
		_, email, role := ActorFromContext(c)
		if role != models.RoleAdmin {
			utils.JSONError(c, http.StatusForbidden, "Billing is restricted to administrators", "role "+role+" is not permitted")
			return
		}
		if _, ok := allowed[strings.ToLower(email)]; !ok {
			utils.GetLogger().Warn("Billing access denied", zap.String("email", email))
			utils.JSONError(c, http.StatusForbidden, "You are not a billing administrator", "email not on billing allow-list")
			return
		}
		c.Next()
	}
}
