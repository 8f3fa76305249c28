package handler

import (
	"github.com/gin-gonic/gin"
)

type RouterDeps struct {
	Topics   *TopicHandler
	Profiles *ProfileHandler
	Reco     *RecoHandler
	Reads    *ReadHandler
	Ingest   *IngestHandler
}

func RegisterRoutes(api *gin.RouterGroup, deps RouterDeps) {
	api.POST("/topics/score_batch", deps.Topics.ScoreBatch)
	api.POST("/labels/register", deps.Topics.RegisterLabels)

	api.POST("/profiles/feedback", deps.Profiles.Feedback)
	api.POST("/profiles/migrate", deps.Profiles.Migrate)
	api.POST("/profiles/from_interactions", deps.Profiles.FromInteractions)

	api.POST("/reco/rank", deps.Reco.Rank)
	api.POST("/reco/rank_embeddings", deps.Reco.RankEmbeddings)

	api.GET("/read/list", deps.Reads.List)

	api.POST("/ingest/rss_scan", deps.Ingest.RSSScan)
	api.POST("/admin/repair_empty_articles", deps.Ingest.RepairEmptyArticles)
}
