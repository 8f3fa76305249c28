package service

import (
	"context"

	"github.com/Raidoxe/BERTNews/internal/model"
)

// Narrow store interfaces so services can be exercised without a database.
// The repo package provides the production implementations.

type ProfileStore interface {
	Get(ctx context.Context, userID, labelSetHash string) (*model.Profile, bool, error)
	Save(ctx context.Context, profile *model.Profile) error
}

type ReadHistoryStore interface {
	Upsert(ctx context.Context, rec *model.ReadRecord) error
	ListArticleIDs(ctx context.Context, userID string) (map[string]struct{}, error)
	ListByUser(ctx context.Context, userID string) ([]model.ReadRecord, error)
}

type ArticleStore interface {
	GetByID(ctx context.Context, id string) (*model.Article, bool, error)
	ListAll(ctx context.Context) ([]model.Article, error)
	Upsert(ctx context.Context, art *model.Article) error
	UpdateMeta(ctx context.Context, id, title, description string, updatedAt int64) error
	ListEmptyMeta(ctx context.Context) ([]model.Article, error)
}

// LabelEmbeddings resolves the per-label embedding vectors for a label set.
type LabelEmbeddings interface {
	Get(ctx context.Context, labelSetHash string, labels []string) (map[string][]float32, error)
}
