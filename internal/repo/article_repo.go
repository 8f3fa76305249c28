package repo

import (
	"context"
	"database/sql"

	"github.com/pgvector/pgvector-go"

	"github.com/Raidoxe/BERTNews/internal/model"
)

type ArticleRepo struct {
	db *sql.DB
}

func NewArticleRepo(db *sql.DB) *ArticleRepo {
	return &ArticleRepo{db: db}
}

func (r *ArticleRepo) GetByID(ctx context.Context, id string) (*model.Article, bool, error) {
	const query = `
		SELECT id, title, description, link, dim, embedding, updated_at
		FROM article_embeddings WHERE id = $1
	`
	row := r.db.QueryRowContext(ctx, query, id)
	art, err := scanArticle(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, false, nil
		}
		return nil, false, err
	}
	return art, true, nil
}

// ListAll streams the whole corpus; embedding ranking scans every row.
func (r *ArticleRepo) ListAll(ctx context.Context) ([]model.Article, error) {
	const query = `
		SELECT id, title, description, link, dim, embedding, updated_at
		FROM article_embeddings
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	articles := make([]model.Article, 0)
	for rows.Next() {
		art, err := scanArticle(rows)
		if err != nil {
			return nil, err
		}
		articles = append(articles, *art)
	}
	return articles, rows.Err()
}

func (r *ArticleRepo) Upsert(ctx context.Context, art *model.Article) error {
	const query = `
		INSERT INTO article_embeddings (id, title, description, link, dim, embedding, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			description = EXCLUDED.description,
			link = EXCLUDED.link,
			dim = EXCLUDED.dim,
			embedding = EXCLUDED.embedding,
			updated_at = EXCLUDED.updated_at
	`
	_, err := r.db.ExecContext(ctx, query,
		art.ID, art.Title, art.Description, art.Link, art.Dim,
		pgvector.NewVector(art.Vector), art.UpdatedAt)
	return err
}

func (r *ArticleRepo) UpdateMeta(ctx context.Context, id, title, description string, updatedAt int64) error {
	const query = `
		UPDATE article_embeddings SET title = $1, description = $2, updated_at = $3
		WHERE id = $4
	`
	_, err := r.db.ExecContext(ctx, query, title, description, updatedAt, id)
	return err
}

// ListEmptyMeta returns rows missing a title or description, for the repair
// pass.
func (r *ArticleRepo) ListEmptyMeta(ctx context.Context) ([]model.Article, error) {
	const query = `
		SELECT id, title, description, link, dim, embedding, updated_at
		FROM article_embeddings
		WHERE coalesce(title, '') = '' OR coalesce(description, '') = ''
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	articles := make([]model.Article, 0)
	for rows.Next() {
		art, err := scanArticle(rows)
		if err != nil {
			return nil, err
		}
		articles = append(articles, *art)
	}
	return articles, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanArticle(row rowScanner) (*model.Article, error) {
	var art model.Article
	var title, description, link sql.NullString
	var embedding pgvector.Vector
	if err := row.Scan(&art.ID, &title, &description, &link, &art.Dim, &embedding, &art.UpdatedAt); err != nil {
		return nil, err
	}
	art.Title = title.String
	art.Description = description.String
	art.Link = link.String
	art.Vector = embedding.Slice()
	return &art, nil
}
