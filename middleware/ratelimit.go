package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"gift-shop/models"
	"gift-shop/services"

	"github.com/gin-gonic/gin"
)

// ClientIdentity resolves who the caller is for rate-limiting purposes:
// the first forwarded-for hop, then the direct-connection header, then
// a shared "unknown" bucket. An accepted imprecision, not a security
// boundary.
func ClientIdentity(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if first := strings.TrimSpace(strings.Split(xff, ",")[0]); first != "" {
			return first
		}
	}
	if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
		return realIP
	}
	return "unknown"
}

// RateLimitMiddleware enforces the per-path quotas before the proxy
// forwards anything upstream. The path parameter is the wildcard
// capture under the proxy prefix, so rules are keyed by the upstream
// path the request targets.
func RateLimitMiddleware(svc *services.RateLimitService) gin.HandlerFunc {
	return func(c *gin.Context) {
		svc.Prune()

		apiPath := c.Param("path")
		if !strings.HasPrefix(apiPath, "/") {
			apiPath = "/" + apiPath
		}

		result := svc.Check(c.Request.Context(), ClientIdentity(c.Request), apiPath)
		if result.Allowed {
			c.Next()
			return
		}

		retryAfter := result.RetryAfter
		if retryAfter <= 0 {
			retryAfter = time.Minute
		}
		secs := int((retryAfter + time.Second - 1) / time.Second)

		c.Header("Retry-After", strconv.Itoa(secs))
		c.AbortWithStatusJSON(http.StatusTooManyRequests, models.ErrorResponse{
			Success: false,
			Message: fmt.Sprintf("Too many requests. Please try again in %d seconds.", secs),
		})
	}
}
