package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/xxxsen/common/logger"
	"github.com/xxxsen/common/logutil"
	"github.com/xxxsen/common/webapi"
	"go.uber.org/zap"

	"github.com/Raidoxe/BERTNews/internal/ai"
	"github.com/Raidoxe/BERTNews/internal/config"
	"github.com/Raidoxe/BERTNews/internal/db"
	"github.com/Raidoxe/BERTNews/internal/handler"
	"github.com/Raidoxe/BERTNews/internal/job"
	"github.com/Raidoxe/BERTNews/internal/labelcache"
	"github.com/Raidoxe/BERTNews/internal/labelset"
	"github.com/Raidoxe/BERTNews/internal/middleware"
	"github.com/Raidoxe/BERTNews/internal/repo"
	"github.com/Raidoxe/BERTNews/internal/schedule"
	"github.com/Raidoxe/BERTNews/internal/scorecache"
	"github.com/Raidoxe/BERTNews/internal/service"
)

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "bertnews",
		Short: "bertnews personalization server",
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run bertnews server",
		RunE: func(cmd *cobra.Command, args []string) error {
			if configPath == "" {
				return fmt.Errorf("--config is required")
			}
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			logger.Init(
				cfg.LogConfig.File,
				cfg.LogConfig.Level,
				int(cfg.LogConfig.FileCount),
				int(cfg.LogConfig.FileSize),
				int(cfg.LogConfig.KeepDays),
				cfg.LogConfig.Console,
			)
			logutil.GetLogger(context.Background()).Info("config loaded", zap.String("config", configPath))

			conn, err := db.Open(cfg.Database)
			if err != nil {
				return fmt.Errorf("open db: %w", err)
			}
			if err := db.ApplyMigrations(conn, cfg.AI.EmbeddingDim); err != nil {
				return fmt.Errorf("migrations: %w", err)
			}
			return runServer(cfg, conn)
		},
	}

	runCmd.Flags().StringVar(&configPath, "config", "", "path to config.json")
	rootCmd.AddCommand(runCmd)

	if err := rootCmd.Execute(); err != nil {
		logutil.GetLogger(context.Background()).Fatal("startup error", zap.Error(err))
	}
}

func runServer(cfg *config.Config, conn *sql.DB) error {
	logutil.GetLogger(context.Background()).Info(
		"starting server",
		zap.Int("port", cfg.Port),
		zap.String("classifier", cfg.AI.Classifier.Provider),
		zap.String("embedder", cfg.AI.Embedder.Provider),
	)

	labelSetRepo := repo.NewLabelSetRepo(conn)
	scoreCacheRepo := repo.NewScoreCacheRepo(conn)
	profileRepo := repo.NewProfileRepo(conn)
	readRepo := repo.NewReadHistoryRepo(conn)
	articleRepo := repo.NewArticleRepo(conn)

	classifier, err := ai.NewClassifier(cfg.AI.Classifier.Provider, cfg.AI.Classifier.Model, cfg.AI.Classifier.Args)
	if err != nil {
		return fmt.Errorf("init classifier: %w", err)
	}
	embedder, err := ai.NewEmbedder(cfg.AI.Embedder.Provider, cfg.AI.Embedder.Model, cfg.AI.Embedder.Args)
	if err != nil {
		return fmt.Errorf("init embedder: %w", err)
	}

	registry := labelset.NewRegistry(labelSetRepo)
	scores := scorecache.New(scoreCacheRepo, cfg.Cache.ScoreCacheSize, time.Duration(cfg.Cache.ScoreCacheTTLMin)*time.Minute)
	labelVecs, err := labelcache.New(embedder, cfg.Cache.LabelCacheSize)
	if err != nil {
		return fmt.Errorf("init label cache: %w", err)
	}

	scoringService := service.NewScoringService(registry, scores, classifier)
	profileService := service.NewProfileService(registry, profileRepo, readRepo, articleRepo, scores, labelVecs, classifier, cfg.Learner)
	rankingService := service.NewRankingService(registry, profileRepo, readRepo, articleRepo, labelVecs, cfg.Learner, cfg.Ranking, nil)
	readService := service.NewReadService(readRepo, articleRepo)
	ingestService := service.NewIngestService(articleRepo, embedder, cfg.AI.EmbeddingDim, cfg.Ingest)

	deps := handler.RouterDeps{
		Topics:   handler.NewTopicHandler(scoringService),
		Profiles: handler.NewProfileHandler(profileService),
		Reco:     handler.NewRecoHandler(rankingService),
		Reads:    handler.NewReadHandler(readService),
		Ingest:   handler.NewIngestHandler(ingestService),
	}

	engine, err := webapi.NewEngine(
		"/",
		fmt.Sprintf("0.0.0.0:%d", cfg.Port),
		webapi.WithRegister(func(group *gin.RouterGroup) {
			handler.RegisterRoutes(group, deps)
		}),
		webapi.WithExtraMiddlewares(
			middleware.RequestID(),
			middleware.CORS(nil),
			middleware.RateLimit(time.Duration(cfg.Cache.RateLimitWindowMSec)*time.Millisecond),
			gzip.Gzip(gzip.DefaultCompression),
		),
	)
	if err != nil {
		return fmt.Errorf("init web engine: %w", err)
	}
	logutil.GetLogger(context.Background()).Info("http server listening", zap.String("addr", fmt.Sprintf("0.0.0.0:%d", cfg.Port)))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	scheduler := schedule.NewCronScheduler(time.Duration(cfg.Ingest.JobTimeoutMin) * time.Minute)
	if err := scheduler.AddJob(job.NewRSSScanJob(ingestService), cfg.Ingest.CronSpec); err != nil {
		return fmt.Errorf("schedule rss scan: %w", err)
	}
	if err := scheduler.AddJob(job.NewRepairMetadataJob(ingestService), "15 */6 * * *"); err != nil {
		return fmt.Errorf("schedule metadata repair: %w", err)
	}
	scheduler.Start(ctx)
	defer scheduler.Stop()

	go func() {
		if err := engine.Run(); err != nil && err != http.ErrServerClosed {
			logutil.GetLogger(context.Background()).Error("server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logutil.GetLogger(context.Background()).Info("server stopping...")
	return nil
}
