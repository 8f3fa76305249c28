package repo

import (
	"context"
	"database/sql"

	"github.com/didi/gendry/builder"

	"github.com/Raidoxe/BERTNews/internal/model"
	"github.com/Raidoxe/BERTNews/internal/pkg/dbutil"
)

type ReadHistoryRepo struct {
	db *sql.DB
}

func NewReadHistoryRepo(db *sql.DB) *ReadHistoryRepo {
	return &ReadHistoryRepo{db: db}
}

// Upsert keeps one row per (user, label set, article): re-submitting feedback
// overwrites the prior entry instead of duplicating it.
func (r *ReadHistoryRepo) Upsert(ctx context.Context, rec *model.ReadRecord) error {
	const query = `
		INSERT INTO read_history (user_id, label_set_hash, article_id, feedback, ts)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id, label_set_hash, article_id) DO UPDATE SET
			feedback = EXCLUDED.feedback,
			ts = EXCLUDED.ts
	`
	_, err := r.db.ExecContext(ctx, query, rec.UserID, rec.LabelSetHash, rec.ArticleID, rec.Feedback, rec.Ts)
	return err
}

// ListArticleIDs returns the user's read article ids across all label sets,
// for use as a ranking exclusion set.
func (r *ReadHistoryRepo) ListArticleIDs(ctx context.Context, userID string) (map[string]struct{}, error) {
	where := map[string]interface{}{"user_id": userID}
	sqlStr, args, err := builder.BuildSelect("read_history", where, []string{"article_id"})
	if err != nil {
		return nil, err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	ids := make(map[string]struct{})
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids[id] = struct{}{}
	}
	return ids, rows.Err()
}

func (r *ReadHistoryRepo) ListByUser(ctx context.Context, userID string) ([]model.ReadRecord, error) {
	where := map[string]interface{}{"user_id": userID, "_orderby": "ts desc"}
	sqlStr, args, err := builder.BuildSelect("read_history", where,
		[]string{"user_id", "label_set_hash", "article_id", "feedback", "ts"})
	if err != nil {
		return nil, err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	records := make([]model.ReadRecord, 0)
	for rows.Next() {
		var rec model.ReadRecord
		if err := rows.Scan(&rec.UserID, &rec.LabelSetHash, &rec.ArticleID, &rec.Feedback, &rec.Ts); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
