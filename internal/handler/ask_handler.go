package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/xxxsen/askfolio/internal/model"
	appErr "github.com/xxxsen/askfolio/internal/pkg/errors"
	"github.com/xxxsen/askfolio/internal/pkg/response"
	"github.com/xxxsen/askfolio/internal/service"
)

type Asker interface {
	Ask(ctx context.Context, in service.AskInput) (*service.AskResult, error)
	Status() service.AskStatus
}

type AskHandler struct {
	asker Asker
}

func NewAskHandler(asker Asker) *AskHandler {
	return &AskHandler{asker: asker}
}

type askRequest struct {
	Query   *string `json:"query"`
	Context *string `json:"context"`
}

type askResponse struct {
	Success      bool           `json:"success"`
	Data         *model.Answer  `json:"data"`
	Cached       bool           `json:"cached"`
	RAG          *model.RAGInfo `json:"rag,omitempty"`
	QuotaReached bool           `json:"quotaReached,omitempty"`
}

func (h *AskHandler) Ask(c *gin.Context) {
	var req askRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleError(c, fmt.Errorf("request body must be a JSON object with a string query: %w", appErr.ErrInvalid))
		return
	}
	if req.Query == nil {
		handleError(c, fmt.Errorf("query is required: %w", appErr.ErrInvalid))
		return
	}
	in := service.AskInput{Query: *req.Query}
	if req.Context != nil {
		in.Context = *req.Context
	}
	res, err := h.asker.Ask(c.Request.Context(), in)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, askResponse{
		Success:      true,
		Data:         res.Data,
		Cached:       res.Cached,
		RAG:          res.RAG,
		QuotaReached: res.QuotaReached,
	})
}

func (h *AskHandler) Status(c *gin.Context) {
	response.Success(c, http.StatusOK, h.asker.Status())
}
