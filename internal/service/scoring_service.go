package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/Raidoxe/BERTNews/internal/ai"
	"github.com/Raidoxe/BERTNews/internal/labelset"
	appErr "github.com/Raidoxe/BERTNews/internal/pkg/errors"
	"github.com/Raidoxe/BERTNews/internal/scorecache"
)

// ScoreArticle is one classification input in a batch.
type ScoreArticle struct {
	Index       int    `json:"index"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// ScoreResult pairs a batch index with its filtered score mapping.
type ScoreResult struct {
	Index  int                `json:"index"`
	Scores map[string]float64 `json:"scores"`
}

type ScoringService struct {
	registry   *labelset.Registry
	cache      *scorecache.Cache
	classifier ai.IClassifier
}

func NewScoringService(registry *labelset.Registry, cache *scorecache.Cache, classifier ai.IClassifier) *ScoringService {
	return &ScoringService{registry: registry, cache: cache, classifier: classifier}
}

// ScoreBatch registers the label set and returns per-article label scores,
// served from the cache where possible.
func (s *ScoringService) ScoreBatch(ctx context.Context, labels []string, articles []ScoreArticle, multiLabel bool, minScore float64) (string, []ScoreResult, error) {
	if len(labels) == 0 || len(articles) == 0 {
		return "", nil, appErr.ErrInvalid
	}
	hash, err := s.registry.Register(ctx, labels)
	if err != nil {
		return "", nil, err
	}
	results := make([]ScoreResult, 0, len(articles))
	for _, art := range articles {
		text := joinText(art.Title, art.Description)
		scores, err := s.cache.GetOrCompute(ctx, hash, strconv.Itoa(art.Index), text, labels, minScore,
			func(ctx context.Context, text string, labels []string) (map[string]float64, error) {
				out, err := s.classifier.Classify(ctx, text, labels, multiLabel)
				if err != nil {
					return nil, fmt.Errorf("%w: classify: %v", appErr.ErrUpstream, err)
				}
				return out, nil
			})
		if err != nil {
			return "", nil, err
		}
		results = append(results, ScoreResult{Index: art.Index, Scores: scores})
	}
	return hash, results, nil
}

// RegisterLabels persists the label set and returns its fingerprint.
func (s *ScoringService) RegisterLabels(ctx context.Context, labels []string) (string, error) {
	return s.registry.Register(ctx, labels)
}

func joinText(title, description string) string {
	parts := make([]string, 0, 2)
	if title != "" {
		parts = append(parts, title)
	}
	if description != "" {
		parts = append(parts, description)
	}
	return strings.Join(parts, " — ")
}
