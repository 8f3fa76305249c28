// Package labelcache caches label embeddings per label-set fingerprint for
// the lifetime of the process. Label text for a fixed fingerprint never
// changes, so entries are never invalidated, only evicted by size.
package labelcache

import (
	"context"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"

	"github.com/Raidoxe/BERTNews/internal/ai"
)

type Cache struct {
	embedder ai.IEmbedder
	cache    *lru.Cache[string, map[string][]float32]
	group    singleflight.Group
}

func New(embedder ai.IEmbedder, size int) (*Cache, error) {
	inner, err := lru.New[string, map[string][]float32](size)
	if err != nil {
		return nil, err
	}
	return &Cache{embedder: embedder, cache: inner}, nil
}

// Get returns the label -> embedding mapping for a label set, embedding all
// labels on first use. Concurrent fills for the same fingerprint share one
// computation.
func (c *Cache) Get(ctx context.Context, labelSetHash string, labels []string) (map[string][]float32, error) {
	if cached, ok := c.cache.Get(labelSetHash); ok {
		return cached, nil
	}
	result, err, _ := c.group.Do(labelSetHash, func() (interface{}, error) {
		if cached, ok := c.cache.Get(labelSetHash); ok {
			return cached, nil
		}
		vecs := make(map[string][]float32, len(labels))
		for _, label := range labels {
			vec, err := c.embedder.Embed(ctx, label)
			if err != nil {
				return nil, err
			}
			vecs[label] = vec
		}
		c.cache.Add(labelSetHash, vecs)
		return vecs, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(map[string][]float32), nil
}
