package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/askfolio/internal/middleware"
	appErr "github.com/xxxsen/askfolio/internal/pkg/errors"
	"github.com/xxxsen/askfolio/internal/pkg/response"
)

func handleError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	requestID, _ := c.Get(middleware.RequestIDKey)
	logger := logutil.GetLogger(c.Request.Context()).With(
		zap.Any("request_id", requestID),
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
		zap.Error(err),
	)
	switch {
	case errors.Is(err, appErr.ErrInvalid):
		logger.Info("invalid request")
		response.Error(c, http.StatusBadRequest, invalidMessage(err))
	default:
		logger.Error("request failed")
		response.Error(c, http.StatusInternalServerError, "Internal server error")
	}
}

// invalidMessage strips the sentinel suffix so the client sees what was wrong.
func invalidMessage(err error) string {
	msg := err.Error()
	suffix := ": " + appErr.ErrInvalid.Error()
	if strings.HasSuffix(msg, suffix) && len(msg) > len(suffix) {
		return strings.TrimSuffix(msg, suffix)
	}
	return "invalid request"
}
