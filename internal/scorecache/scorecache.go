// Package scorecache memoizes classifier output per (label set, article)
// pair across two tiers: an in-process LRU in front of the persistent store.
package scorecache

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/Raidoxe/BERTNews/internal/model"
)

// ClassifierFunc computes label probabilities for a text on a true miss.
type ClassifierFunc func(ctx context.Context, text string, labels []string) (map[string]float64, error)

// Store is the persistent tier.
type Store interface {
	Get(ctx context.Context, labelSetHash, articleKey string) (map[string]float64, bool, error)
	Save(ctx context.Context, entry *model.ScoreEntry) error
}

type Cache struct {
	lru   *expirable.LRU[string, map[string]float64]
	store Store
	group singleflight.Group
}

func New(store Store, size int, ttl time.Duration) *Cache {
	return &Cache{
		lru:   expirable.NewLRU[string, map[string]float64](size, nil, ttl),
		store: store,
	}
}

// GetOrCompute checks the LRU, then the store, then invokes classify on a
// true miss, filters results to score >= minScore and writes through both
// tiers. Concurrent misses on the same key share one in-flight classifier
// call via singleflight.
func (c *Cache) GetOrCompute(ctx context.Context, labelSetHash, articleKey, text string, labels []string, minScore float64, classify ClassifierFunc) (map[string]float64, error) {
	key := labelSetHash + "|" + articleKey
	if cached, ok := c.lru.Get(key); ok {
		logutil.GetLogger(ctx).Debug("score cache hit (lru)", zap.String("key", key))
		return cloneScores(cached), nil
	}
	result, err, _ := c.group.Do(key, func() (interface{}, error) {
		scores, ok, err := c.store.Get(ctx, labelSetHash, articleKey)
		if err != nil {
			return nil, err
		}
		if ok {
			logutil.GetLogger(ctx).Debug("score cache hit (store)", zap.String("key", key))
			c.lru.Add(key, scores)
			return scores, nil
		}
		raw, err := classify(ctx, text, labels)
		if err != nil {
			return nil, err
		}
		scores = make(map[string]float64, len(raw))
		for label, score := range raw {
			if score >= minScore {
				scores[label] = score
			}
		}
		c.lru.Add(key, scores)
		if err := c.store.Save(ctx, &model.ScoreEntry{
			LabelSetHash: labelSetHash,
			ArticleKey:   articleKey,
			Scores:       scores,
		}); err != nil {
			logutil.GetLogger(ctx).Warn("failed to persist scores", zap.String("key", key), zap.Error(err))
		}
		return scores, nil
	})
	if err != nil {
		return nil, err
	}
	return cloneScores(result.(map[string]float64)), nil
}

func cloneScores(scores map[string]float64) map[string]float64 {
	clone := make(map[string]float64, len(scores))
	for label, score := range scores {
		clone[label] = score
	}
	return clone
}
