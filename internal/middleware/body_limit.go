package middleware

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/xxxsen/askfolio/internal/pkg/response"
)

const DefaultMaxBodyBytes = 16 * 1024

// BodyLimit rejects requests whose body is larger than max bytes. Bodies
// without a declared length are capped while being read.
func BodyLimit(max int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if max <= 0 {
			c.Next()
			return
		}
		if c.Request.ContentLength > max {
			response.Abort(c, http.StatusBadRequest, "Request body exceeds "+formatBodyLimit(max)+".")
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, max)
		c.Next()
	}
}

func formatBodyLimit(bytes int64) string {
	const kb = 1024
	value := bytes / kb
	if value <= 0 {
		return strconv.FormatInt(bytes, 10) + "B"
	}
	return strconv.FormatInt(value, 10) + "KB"
}
