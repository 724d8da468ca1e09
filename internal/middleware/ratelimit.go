package middleware

import (
	"fmt"
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/askfolio/internal/pkg/response"
	"github.com/xxxsen/askfolio/internal/ratelimit"
)

// RateLimit admits requests per client IP through the limiter.
func RateLimit(limiter *ratelimit.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		decision := limiter.Check(ip)
		if !decision.Allowed {
			seconds := int(math.Ceil(decision.ResetIn.Seconds()))
			if seconds < 1 {
				seconds = 1
			}
			logutil.GetLogger(c.Request.Context()).Warn("rate limit hit",
				zap.String("ip", ip),
				zap.String("path", c.Request.URL.Path),
				zap.Int("retry_after", seconds),
			)
			c.Writer.Header().Set("Retry-After", strconv.Itoa(seconds))
			response.Abort(c, http.StatusTooManyRequests,
				fmt.Sprintf("Too many requests. Please try again in %d seconds.", seconds))
			return
		}
		c.Writer.Header().Set("X-RateLimit-Remaining", strconv.Itoa(decision.Remaining))
		c.Next()
	}
}
