package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/Raidoxe/BERTNews/internal/pkg/response"
	"github.com/Raidoxe/BERTNews/internal/service"
)

type ProfileHandler struct {
	profiles *service.ProfileService
}

func NewProfileHandler(profiles *service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profiles: profiles}
}

type feedbackRequest struct {
	UserID       string  `json:"user_id"`
	LabelSetHash string  `json:"labelSetHash"`
	ArticleID    string  `json:"article_id"`
	Feedback     string  `json:"feedback"`
	Alpha        float64 `json:"alpha"`
}

func (h *ProfileHandler) Feedback(c *gin.Context) {
	var req feedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request")
		return
	}
	vector, err := h.profiles.Feedback(c.Request.Context(), req.UserID, req.LabelSetHash, req.ArticleID, req.Feedback, req.Alpha)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{
		"user_id":      req.UserID,
		"labelSetHash": req.LabelSetHash,
		"vector":       vector,
	})
}

type migrateRequest struct {
	UserID           string   `json:"user_id"`
	FromLabelSetHash string   `json:"fromLabelSetHash"`
	ToLabels         []string `json:"toLabels"`
}

func (h *ProfileHandler) Migrate(c *gin.Context) {
	var req migrateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request")
		return
	}
	toHash, vector, err := h.profiles.Migrate(c.Request.Context(), req.UserID, req.FromLabelSetHash, req.ToLabels)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{
		"user_id":        req.UserID,
		"toLabelSetHash": toHash,
		"vector":         vector,
	})
}

type fromInteractionsRequest struct {
	UserID       string                `json:"user_id"`
	LabelSetHash string                `json:"labelSetHash"`
	Interactions []service.Interaction `json:"interactions"`
	Method       string                `json:"method"`
}

func (h *ProfileHandler) FromInteractions(c *gin.Context) {
	var req fromInteractionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request")
		return
	}
	if req.Method == "" {
		req.Method = service.AggregateSum
	}
	vector, err := h.profiles.AggregateFromInteractions(c.Request.Context(), req.UserID, req.LabelSetHash, req.Interactions, req.Method)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{
		"user_id":      req.UserID,
		"labelSetHash": req.LabelSetHash,
		"vector":       vector,
	})
}
