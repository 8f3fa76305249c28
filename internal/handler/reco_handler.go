package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/Raidoxe/BERTNews/internal/pkg/response"
	"github.com/Raidoxe/BERTNews/internal/ranker"
	"github.com/Raidoxe/BERTNews/internal/service"
)

type RecoHandler struct {
	ranking *service.RankingService
}

func NewRecoHandler(ranking *service.RankingService) *RecoHandler {
	return &RecoHandler{ranking: ranking}
}

type rankRequest struct {
	UserID       string             `json:"user_id"`
	LabelSetHash string             `json:"labelSetHash"`
	Candidates   []ranker.Candidate `json:"candidates"`
	TopK         int                `json:"topk"`
	Similarity   string             `json:"similarity"`
}

func (h *RecoHandler) Rank(c *gin.Context) {
	var req rankRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request")
		return
	}
	items, err := h.ranking.RankSparse(c.Request.Context(), req.UserID, req.LabelSetHash, req.Candidates, req.TopK, req.Similarity)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"items": items})
}

type rankEmbeddingsRequest struct {
	UserID       string `json:"user_id"`
	LabelSetHash string `json:"labelSetHash"`
	TopK         int    `json:"topk"`
}

func (h *RecoHandler) RankEmbeddings(c *gin.Context) {
	var req rankEmbeddingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request")
		return
	}
	items, err := h.ranking.RankEmbeddings(c.Request.Context(), req.UserID, req.LabelSetHash, req.TopK)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"items": items})
}
