package repo

import (
	"context"
	"database/sql"
	"encoding/json"
)

type LabelSetRepo struct {
	db *sql.DB
}

func NewLabelSetRepo(db *sql.DB) *LabelSetRepo {
	return &LabelSetRepo{db: db}
}

// Insert is an insert-if-missing: an existing fingerprint keeps its original
// labels row untouched.
func (r *LabelSetRepo) Insert(ctx context.Context, hash string, labels []string) error {
	data, err := json.Marshal(labels)
	if err != nil {
		return err
	}
	const query = `
		INSERT INTO label_sets (label_set_hash, labels_json)
		VALUES ($1, $2)
		ON CONFLICT (label_set_hash) DO NOTHING
	`
	_, err = r.db.ExecContext(ctx, query, hash, string(data))
	return err
}

func (r *LabelSetRepo) Get(ctx context.Context, hash string) ([]string, bool, error) {
	const query = `SELECT labels_json FROM label_sets WHERE label_set_hash = $1`
	row := r.db.QueryRowContext(ctx, query, hash)
	var raw string
	if err := row.Scan(&raw); err != nil {
		if err == sql.ErrNoRows {
			return nil, false, nil
		}
		return nil, false, err
	}
	var labels []string
	if err := json.Unmarshal([]byte(raw), &labels); err != nil {
		return nil, false, err
	}
	return labels, true, nil
}
