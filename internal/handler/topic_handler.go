package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/Raidoxe/BERTNews/internal/pkg/response"
	"github.com/Raidoxe/BERTNews/internal/service"
)

type TopicHandler struct {
	scoring *service.ScoringService
}

func NewTopicHandler(scoring *service.ScoringService) *TopicHandler {
	return &TopicHandler{scoring: scoring}
}

type scoreBatchRequest struct {
	Labels     []string               `json:"labels"`
	Articles   []service.ScoreArticle `json:"articles"`
	MultiLabel *bool                  `json:"multi_label"`
	MinScore   *float64               `json:"min_score"`
}

func (h *TopicHandler) ScoreBatch(c *gin.Context) {
	var req scoreBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request")
		return
	}
	multiLabel := true
	if req.MultiLabel != nil {
		multiLabel = *req.MultiLabel
	}
	minScore := 0.05
	if req.MinScore != nil {
		minScore = *req.MinScore
	}
	hash, results, err := h.scoring.ScoreBatch(c.Request.Context(), req.Labels, req.Articles, multiLabel, minScore)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"labelSetHash": hash, "results": results})
}

type registerLabelsRequest struct {
	Labels []string `json:"labels"`
}

func (h *TopicHandler) RegisterLabels(c *gin.Context) {
	var req registerLabelsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request")
		return
	}
	hash, err := h.scoring.RegisterLabels(c.Request.Context(), req.Labels)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"labelSetHash": hash})
}
