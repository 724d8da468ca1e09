package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/xxxsen/askfolio/internal/middleware"
	"github.com/xxxsen/askfolio/internal/ratelimit"
)

type RouterDeps struct {
	Ask     *AskHandler
	Limiter *ratelimit.Limiter
}

func RegisterRoutes(api *gin.RouterGroup, deps RouterDeps) {
	api.POST("/ask", middleware.RateLimit(deps.Limiter), middleware.BodyLimit(middleware.DefaultMaxBodyBytes), deps.Ask.Ask)
	api.GET("/ask/status", deps.Ask.Status)
}
