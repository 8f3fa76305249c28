package repo

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/Raidoxe/BERTNews/internal/model"
)

type ScoreCacheRepo struct {
	db *sql.DB
}

func NewScoreCacheRepo(db *sql.DB) *ScoreCacheRepo {
	return &ScoreCacheRepo{db: db}
}

func (r *ScoreCacheRepo) Get(ctx context.Context, labelSetHash, articleKey string) (map[string]float64, bool, error) {
	const query = `
		SELECT scores_json FROM score_cache
		WHERE label_set_hash = $1 AND article_key = $2
	`
	row := r.db.QueryRowContext(ctx, query, labelSetHash, articleKey)
	var raw string
	if err := row.Scan(&raw); err != nil {
		if err == sql.ErrNoRows {
			return nil, false, nil
		}
		return nil, false, err
	}
	var scores map[string]float64
	if err := json.Unmarshal([]byte(raw), &scores); err != nil {
		return nil, false, err
	}
	return scores, true, nil
}

// Save overwrites any previous entry for the key; recomputes replace, never
// merge.
func (r *ScoreCacheRepo) Save(ctx context.Context, entry *model.ScoreEntry) error {
	data, err := json.Marshal(entry.Scores)
	if err != nil {
		return err
	}
	const query = `
		INSERT INTO score_cache (label_set_hash, article_key, scores_json)
		VALUES ($1, $2, $3)
		ON CONFLICT (label_set_hash, article_key) DO UPDATE SET
			scores_json = EXCLUDED.scores_json
	`
	_, err = r.db.ExecContext(ctx, query, entry.LabelSetHash, entry.ArticleKey, string(data))
	return err
}
