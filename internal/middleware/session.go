package middleware

import (
	"net/http"
	"strings"

	"gatehouse/internal/auth"

	"github.com/gin-gonic/gin"
)

// resolveSession extracts the session token (cookie first, then Bearer
// header), verifies it, and re-reads the user row by id. Session validity is
// bound to current store state: a deleted user fails here even while the
// token signature is still good.
func resolveSession(c *gin.Context, repo auth.UserRepository) (*auth.User, bool) {
	token, err := c.Cookie(auth.SessionCookie)
	if err != nil || token == "" {
		header := c.GetHeader("Authorization")
		parts := strings.Split(header, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return nil, false
		}
		token = parts[1]
	}

	userID, err := auth.ValidateToken(token)
	if err != nil {
		return nil, false
	}

	user, err := repo.FindByID(c.Request.Context(), userID)
	if err != nil {
		return nil, false
	}

	user.Password = ""
	return user, true
}

// Session protects API endpoints: 401 without a valid session, otherwise the
// hydrated user is attached to the request context.
func Session(repo auth.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := resolveSession(c, repo)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		c.Set(auth.ContextUserKey, user)
		c.Next()
	}
}

// RequireSession guards pages that need an authenticated user. Without one,
// nothing renders: the browser is sent to the sign-in page.
func RequireSession(repo auth.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := resolveSession(c, repo)
		if !ok {
			c.Redirect(http.StatusFound, "/signin")
			c.Abort()
			return
		}
		c.Set(auth.ContextUserKey, user)
		c.Next()
	}
}

// RequireNoSession guards the auth pages themselves: an already signed-in
// user is sent back to the landing route.
func RequireNoSession(repo auth.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := resolveSession(c, repo); ok {
			c.Redirect(http.StatusFound, "/")
			c.Abort()
			return
		}
		c.Next()
	}
}

// CurrentUser returns the user attached by Session or RequireSession.
func CurrentUser(c *gin.Context) (*auth.User, bool) {
	userVal, exists := c.Get(auth.ContextUserKey)
	if !exists {
		return nil, false
	}
	user, ok := userVal.(*auth.User)
	return user, ok
}
