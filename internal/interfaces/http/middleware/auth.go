package middleware

import (
	"crypto/subtle"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/regionmap/pkg/errors"
)

// HeaderAdminToken is accepted as an alternative to a bearer token.
const HeaderAdminToken = "X-Admin-Token"

// AdminAuth guards write endpoints with a shared token.  An empty token
// disables the guarded routes entirely.
func AdminAuth(token string) gin.HandlerFunc {
	expected := []byte(token)
	return func(c *gin.Context) {
		if token == "" {
			abort(c, errors.ErrCodeFeatureDisabled, "admin endpoints are disabled")
			return
		}
		got := extractToken(c)
		if got == "" || subtle.ConstantTimeCompare([]byte(got), expected) != 1 {
			c.Header("WWW-Authenticate", `Bearer realm="regionmap"`)
			abort(c, errors.ErrCodeUnauthorized, "invalid or missing admin token")
			return
		}
		c.Next()
	}
}

func extractToken(c *gin.Context) string {
	if auth := c.GetHeader("Authorization"); auth != "" {
		const prefix = "bearer "
		if len(auth) > len(prefix) && strings.EqualFold(auth[:len(prefix)], prefix) {
			return strings.TrimSpace(auth[len(prefix):])
		}
		return ""
	}
	return strings.TrimSpace(c.GetHeader(HeaderAdminToken))
}

//Personal.AI order the ending
