package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/finchley/papertrade/internal/store"
)

const userContextKey = "auth.user"

// Middleware authenticates requests with a bearer token and stashes the user
// on the gin context. Requests without a valid token get a 401.
func Middleware(svc *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := BearerToken(c.GetHeader("Authorization"))
		if !ok {
			c.Header("WWW-Authenticate", "Bearer")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
			return
		}

		user, err := svc.UserFromToken(token)
		if err != nil {
			c.Header("WWW-Authenticate", "Bearer")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}

		c.Set(userContextKey, user)
		c.Next()
	}
}

// CurrentUser returns the authenticated user set by Middleware.
func CurrentUser(c *gin.Context) *store.User {
	if v, ok := c.Get(userContextKey); ok {
		if user, ok := v.(*store.User); ok {
			return user
		}
	}
	return nil
}
