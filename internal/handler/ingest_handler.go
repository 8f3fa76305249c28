package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/Raidoxe/BERTNews/internal/pkg/response"
	"github.com/Raidoxe/BERTNews/internal/service"
)

type IngestHandler struct {
	ingest *service.IngestService
}

func NewIngestHandler(ingest *service.IngestService) *IngestHandler {
	return &IngestHandler{ingest: ingest}
}

type rssScanRequest struct {
	Feeds []string `json:"feeds"`
}

func (h *IngestHandler) RSSScan(c *gin.Context) {
	var req rssScanRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BadRequest(c, "invalid request")
			return
		}
	}
	stats, err := h.ingest.ScanFeeds(c.Request.Context(), req.Feeds)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, stats)
}

func (h *IngestHandler) RepairEmptyArticles(c *gin.Context) {
	updated, err := h.ingest.RepairEmptyArticles(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"updated": updated})
}
