package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/xxxsen/common/logger"
)

type Config struct {
	Port      int              `json:"port"`
	Database  DatabaseConfig   `json:"database"`
	LogConfig logger.LogConfig `json:"log_config"`
	AI        AIConfig         `json:"ai"`
	Learner   LearnerConfig    `json:"learner"`
	Cache     CacheConfig      `json:"cache"`
	Ranking   RankingConfig    `json:"ranking"`
	Ingest    IngestConfig     `json:"ingest"`
}

type DatabaseConfig struct {
	DSN      string `json:"dsn"`
	Host     string `json:"host"`
	Port     int    `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
	DBName   string `json:"dbname"`
	SSLMode  string `json:"sslmode"`
}

// AIConfig selects the model providers. EmbeddingDim must match the vector
// size the configured embedder produces; it sizes the pgvector column and
// gates ingest writes.
type AIConfig struct {
	Classifier   ProviderConfig `json:"classifier"`
	Embedder     ProviderConfig `json:"embedder"`
	EmbeddingDim int            `json:"embedding_dim"`
}

type ProviderConfig struct {
	Provider string          `json:"provider"`
	Model    string          `json:"model"`
	Args     json.RawMessage `json:"args"`
}

// LearnerConfig carries the gated-update hyperparameters. Zero values are
// replaced by the documented defaults at load time; TopK 0 disables top-K
// pruning.
type LearnerConfig struct {
	Alpha float64 `json:"alpha"`
	Tau   float64 `json:"tau"`
	Decay float64 `json:"decay"`
	Gamma float64 `json:"gamma"`
	TopK  int     `json:"topk"`
}

type CacheConfig struct {
	ScoreCacheSize      int `json:"score_cache_size"`
	ScoreCacheTTLMin    int `json:"score_cache_ttl_minutes"`
	LabelCacheSize      int `json:"label_cache_size"`
	RateLimitWindowMSec int `json:"rate_limit_window_msec"`
}

type RankingConfig struct {
	ExploreProbability float64 `json:"explore_probability"`
	DefaultTopK        int     `json:"default_topk"`
}

type IngestConfig struct {
	Feeds           []string `json:"feeds"`
	CronSpec        string   `json:"cron_spec"`
	FetchTimeoutSec int      `json:"fetch_timeout_sec"`
	MaxFeeds        int      `json:"max_feeds"`
	JobTimeoutMin   int      `json:"job_timeout_minutes"`
}

func Load(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	var cfg Config
	if err := json.NewDecoder(file).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if cfg.Port == 0 {
		cfg.Port = 3000
	}
	if cfg.Database.DSN == "" && cfg.Database.Host == "" {
		return nil, fmt.Errorf("database.dsn or database.host is required")
	}
	if cfg.LogConfig.Level == "" {
		cfg.LogConfig.Level = "info"
	}
	if cfg.AI.Classifier.Provider == "" {
		return nil, fmt.Errorf("ai.classifier.provider is required")
	}
	if cfg.AI.Embedder.Provider == "" {
		return nil, fmt.Errorf("ai.embedder.provider is required")
	}
	if cfg.AI.EmbeddingDim <= 0 {
		cfg.AI.EmbeddingDim = 384
	}
	applyLearnerDefaults(&cfg.Learner)
	if cfg.Cache.ScoreCacheSize <= 0 {
		cfg.Cache.ScoreCacheSize = 4096
	}
	if cfg.Cache.ScoreCacheTTLMin <= 0 {
		cfg.Cache.ScoreCacheTTLMin = 12 * 60
	}
	if cfg.Cache.LabelCacheSize <= 0 {
		cfg.Cache.LabelCacheSize = 64
	}
	if cfg.Ranking.ExploreProbability <= 0 {
		cfg.Ranking.ExploreProbability = 0.05
	}
	if cfg.Ranking.DefaultTopK <= 0 {
		cfg.Ranking.DefaultTopK = 10
	}
	if cfg.Ingest.CronSpec == "" {
		cfg.Ingest.CronSpec = "*/30 * * * *"
	}
	if cfg.Ingest.FetchTimeoutSec <= 0 {
		cfg.Ingest.FetchTimeoutSec = 8
	}
	if cfg.Ingest.MaxFeeds <= 0 {
		cfg.Ingest.MaxFeeds = 40
	}
	if cfg.Ingest.JobTimeoutMin <= 0 {
		cfg.Ingest.JobTimeoutMin = 20
	}
	return &cfg, nil
}

func applyLearnerDefaults(lc *LearnerConfig) {
	if lc.Alpha == 0 {
		lc.Alpha = 0.1
	}
	if lc.Tau == 0 {
		lc.Tau = 0.1
	}
	if lc.Decay == 0 {
		lc.Decay = 0.01
	}
	if lc.Gamma == 0 {
		lc.Gamma = 2.0
	}
}
