package middlewares

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"stafflow.com/stafflow/security"
	"stafflow.com/stafflow/web/common"
)

const identityKey = "identity"

// Authentication checks for a valid Bearer token and puts the parsed
// identity into the request context. Role checks happen in the handlers,
// not here.
func Authentication(jwtSecret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := ""

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			cookie, err := c.Cookie("stafflow.SessionToken")
			if err != nil {
				c.AbortWithStatus(http.StatusUnauthorized)
				return
			}
			tokenStr = cookie
		} else {
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				c.AbortWithStatus(http.StatusUnauthorized)
				return
			}
			tokenStr = parts[1]
		}

		identity, err := security.ParseIdentityToken(tokenStr, jwtSecret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, common.NewErrorResponse("invalid or expired token"))
			return
		}

		c.Set(identityKey, identity)
		c.Next()
	}
}

// CallerIdentity returns the identity stored by Authentication, or nil on
// unauthenticated routes.
func CallerIdentity(c *gin.Context) *security.Identity {
	v, ok := c.Get(identityKey)
	if !ok {
		return nil
	}
	identity, ok := v.(*security.Identity)
	if !ok {
		return nil
	}
	return identity
}
