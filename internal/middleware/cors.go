package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

var (
	corsAllowMethods  = strings.Join([]string{http.MethodGet, http.MethodPost, http.MethodOptions}, ", ")
	corsAllowHeaders  = "Content-Type, " + RequestIDHeader
	corsExposeHeaders = strings.Join([]string{RequestIDHeader, "Retry-After", "X-RateLimit-Remaining"}, ", ")
)

// CORS allows browser calls from the listed origins, or from any origin when
// the list is empty. Preflight requests are answered without reaching a route.
func CORS(origins []string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(origins))
	for _, origin := range origins {
		if origin = strings.TrimSpace(origin); origin != "" {
			allowed[origin] = true
		}
	}
	return func(c *gin.Context) {
		switch origin := c.GetHeader("Origin"); {
		case len(allowed) == 0:
			writeCORS(c, "*")
		case allowed[origin]:
			writeCORS(c, origin)
			c.Header("Vary", "Origin")
		}
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

func writeCORS(c *gin.Context, origin string) {
	c.Header("Access-Control-Allow-Origin", origin)
	c.Header("Access-Control-Allow-Methods", corsAllowMethods)
	c.Header("Access-Control-Allow-Headers", corsAllowHeaders)
	c.Header("Access-Control-Expose-Headers", corsExposeHeaders)
}
