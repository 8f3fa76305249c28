package repo

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/Raidoxe/BERTNews/internal/model"
)

type ProfileRepo struct {
	db *sql.DB
}

func NewProfileRepo(db *sql.DB) *ProfileRepo {
	return &ProfileRepo{db: db}
}

func (r *ProfileRepo) Get(ctx context.Context, userID, labelSetHash string) (*model.Profile, bool, error) {
	const query = `
		SELECT vector_json FROM profiles
		WHERE user_id = $1 AND label_set_hash = $2
	`
	row := r.db.QueryRowContext(ctx, query, userID, labelSetHash)
	var raw string
	if err := row.Scan(&raw); err != nil {
		if err == sql.ErrNoRows {
			return nil, false, nil
		}
		return nil, false, err
	}
	var vector map[string]float64
	if err := json.Unmarshal([]byte(raw), &vector); err != nil {
		return nil, false, err
	}
	return &model.Profile{UserID: userID, LabelSetHash: labelSetHash, Vector: vector}, true, nil
}

func (r *ProfileRepo) Save(ctx context.Context, profile *model.Profile) error {
	data, err := json.Marshal(profile.Vector)
	if err != nil {
		return err
	}
	const query = `
		INSERT INTO profiles (user_id, label_set_hash, vector_json)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, label_set_hash) DO UPDATE SET
			vector_json = EXCLUDED.vector_json
	`
	_, err = r.db.ExecContext(ctx, query, profile.UserID, profile.LabelSetHash, string(data))
	return err
}
