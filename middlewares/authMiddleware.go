package middlewares

import (
	"net/http"
	"strings"

	"github.com/craftfolio/studio_backend/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AuthMiddleware validates a bearer token when one is present and seeds the
// request context with the tenant identity. Requests without a token pass
// through so public routes work; RequireAccount gates the private ones.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := utils.SetCorrelationIdInContext(c.Request.Context(), uuid.NewString())

		auth := c.Request.Header.Get("Authorization")
		if auth == "" {
			c.Request = c.Request.WithContext(ctx)
			c.Next()
			return
		}

		token := strings.TrimPrefix(auth, "Bearer ")
		validated, err := utils.JwtValidate(token)
		if err != nil || !validated.Valid {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			c.Abort()
			return
		}

		claims, ok := validated.Claims.(*utils.JwtCustomClaim)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			c.Abort()
			return
		}

		ctx = utils.SetTokenInContext(ctx, token)
		ctx = utils.SetAccountIdInContext(ctx, claims.AccountId)
		ctx = utils.SetUserIdInContext(ctx, claims.UserId)
		ctx = utils.SetIsAdminInContext(ctx, claims.Role == "admin")
		ctx = utils.SetPlanInContext(ctx, claims.Plan)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// RequireAccount rejects requests that did not authenticate.
func RequireAccount() gin.HandlerFunc {
	return func(c *gin.Context) {
		accountId, ok := utils.GetAccountIdFromContext(c.Request.Context())
		if !ok || accountId == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			c.Abort()
			return
		}
		c.Next()
	}
}
