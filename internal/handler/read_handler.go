package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/Raidoxe/BERTNews/internal/pkg/response"
	"github.com/Raidoxe/BERTNews/internal/service"
)

type ReadHandler struct {
	reads *service.ReadService
}

func NewReadHandler(reads *service.ReadService) *ReadHandler {
	return &ReadHandler{reads: reads}
}

func (h *ReadHandler) List(c *gin.Context) {
	userID := c.Query("user_id")
	if userID == "" {
		response.BadRequest(c, "user_id required")
		return
	}
	items, err := h.reads.List(c.Request.Context(), userID)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"items": items})
}
