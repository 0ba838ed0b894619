package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"gift-shop/utils"

	"github.com/gin-gonic/gin"
)

// Application pages that require the user to be logged in.
var protectedPages = []string{"/profile", "/orders", "/wishlist", "/checkout"}

// Application pages only reachable while logged out.
var guestOnlyPages = []string{"/login", "/sign-up", "/forgot-password", "/verify"}

func isProtectedPage(path string) bool {
	for _, p := range protectedPages {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

func isGuestOnlyPage(path string) bool {
	for _, p := range guestOnlyPages {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

// AuthGateMiddleware is the two-state page gate: unauthenticated
// requests to protected pages bounce to the login page carrying the
// original path as a return target, and authenticated requests to
// guest-only pages bounce to the authenticated home page.
func AuthGateMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path

		token := utils.ExtractToken(c.Request)
		authenticated := false
		if token != "" {
			if _, err := utils.ValidateToken(token); err == nil {
				authenticated = true
			}
		}

		if isProtectedPage(path) && !authenticated {
			loginURL := url.URL{Path: "/login"}
			q := loginURL.Query()
			q.Set("redirect", path)
			loginURL.RawQuery = q.Encode()
			c.Redirect(http.StatusFound, loginURL.String())
			c.Abort()
			return
		}

		if isGuestOnlyPage(path) && authenticated {
			c.Redirect(http.StatusFound, "/home")
			c.Abort()
			return
		}

		c.Next()
	}
}
