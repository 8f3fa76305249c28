package service

import (
	"context"

	appErr "github.com/Raidoxe/BERTNews/internal/pkg/errors"
)

// ReadItem is one read-history entry joined with article metadata.
type ReadItem struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Link        string `json:"link"`
	Feedback    string `json:"feedback"`
	Ts          int64  `json:"ts"`
}

type ReadService struct {
	reads    ReadHistoryStore
	articles ArticleStore
}

func NewReadService(reads ReadHistoryStore, articles ArticleStore) *ReadService {
	return &ReadService{reads: reads, articles: articles}
}

// List returns the user's read articles newest first, deduped by article id.
// Records whose article has since disappeared are skipped.
func (s *ReadService) List(ctx context.Context, userID string) ([]ReadItem, error) {
	if userID == "" {
		return nil, appErr.ErrInvalid
	}
	records, err := s.reads.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{}, len(records))
	items := make([]ReadItem, 0, len(records))
	for _, rec := range records {
		if _, dup := seen[rec.ArticleID]; dup {
			continue
		}
		seen[rec.ArticleID] = struct{}{}
		art, ok, err := s.articles.GetByID(ctx, rec.ArticleID)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		items = append(items, ReadItem{
			ID:          art.ID,
			Title:       art.Title,
			Description: art.Description,
			Link:        art.Link,
			Feedback:    rec.Feedback,
			Ts:          rec.Ts,
		})
	}
	return items, nil
}
