// Package auth establishes caller identity for callable requests.
package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/textboard/textboard-backend/internal/apperr"
	"github.com/textboard/textboard-backend/internal/response"
)

const uidKey = "auth_uid"

// Middleware validates the Bearer identity token and stores the resolved uid
// on the request context. Callable semantics: failures are reported inside
// the envelope, not as transport-level errors.
func Middleware(verifier IdentityVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusOK,
				response.Error(apperr.Unauthenticated("missing identity token")))
			return
		}

		uid, err := verifier.Verify(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusOK,
				response.Error(apperr.Unauthenticated("invalid identity token")))
			return
		}

		c.Set(uidKey, uid)
		c.Next()
	}
}

// UID returns the authenticated caller's uid, or "" before the middleware ran.
func UID(c *gin.Context) string {
	return c.GetString(uidKey)
}

// extractToken extracts the Bearer token from the Authorization header
func extractToken(c *gin.Context) string {
	bearerToken := c.GetHeader("Authorization")
	if len(bearerToken) > 7 && strings.HasPrefix(bearerToken, "Bearer ") {
		return bearerToken[7:]
	}
	return ""
}
