package model

// Article is one ingested news item with its precomputed content embedding.
// The vector is unit-normalized at embed time.
type Article struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Link        string    `json:"link"`
	Dim         int       `json:"dim"`
	Vector      []float32 `json:"vector"`
	UpdatedAt   int64     `json:"updated_at"`
}
