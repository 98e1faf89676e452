package middleware

import (
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/project-board-api/internal/access"
	"github.com/yukikurage/project-board-api/internal/auth"
	"github.com/yukikurage/project-board-api/internal/constants"
	apierrors "github.com/yukikurage/project-board-api/internal/errors"
)

// RequireAuth resolves the caller from a bearer token or the session cookie
func RequireAuth(tokens *auth.TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := tokens.Verify(requestToken(c))
		if !ok {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		// Store the principal in context for easy access in handlers
		c.Set(constants.ContextKeyPrincipal, access.Principal{
			UserID: claims.UserID,
			Email:  claims.Email,
		})
		c.Next()
	}
}

// requestToken prefers the Authorization header over the session cookie.
func requestToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if token, found := strings.CutPrefix(header, "Bearer "); found {
		return strings.TrimSpace(token)
	}

	session := sessions.Default(c)
	if token, ok := session.Get(constants.SessionTokenKey).(string); ok {
		return token
	}
	return ""
}

// GetPrincipal retrieves the authenticated caller from context
func GetPrincipal(c *gin.Context) (access.Principal, bool) {
	value, exists := c.Get(constants.ContextKeyPrincipal)
	if !exists {
		return access.Principal{}, false
	}

	principal, ok := value.(access.Principal)
	if !ok || principal.UserID == "" {
		return access.Principal{}, false
	}
	return principal, true
}

