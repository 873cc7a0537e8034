package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const corsAllowMethods = "DELETE, GET, HEAD, OPTIONS, PATCH, POST, PUT"

// CORSMiddleware allows the configured origins with credentials, every
// method and any request header. Wildcards are not valid together with
// credentials, so the origin and requested headers are echoed back.
func CORSMiddleware(allowedOrigins []string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = true
	}

	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")

		// Vary header to ensure caches differentiate by Origin
		c.Writer.Header().Add("Vary", "Origin")

		// Same-origin and non-browser requests carry no Origin
		if origin == "" {
			c.Next()
			return
		}

		isAllowed := allowed[origin]
		if isAllowed {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Access-Control-Allow-Credentials", "true")
		}

		isPreflight := c.Request.Method == http.MethodOptions &&
			c.Request.Header.Get("Access-Control-Request-Method") != ""
		if !isPreflight {
			// If not allowed, no CORS headers are sent - browser will block the response
			c.Next()
			return
		}

		if !isAllowed {
			c.AbortWithStatus(http.StatusForbidden)
			return
		}

		c.Header("Access-Control-Allow-Methods", corsAllowMethods)
		if reqHeaders := strings.TrimSpace(c.Request.Header.Get("Access-Control-Request-Headers")); reqHeaders != "" {
			c.Header("Access-Control-Allow-Headers", reqHeaders)
		}
		c.Header("Access-Control-Max-Age", "600")
		c.AbortWithStatus(http.StatusNoContent)
	}
}
