package model

// ScoreEntry is one persisted classification result: the filtered
// label->probability mapping for a (label set, article) pair.
type ScoreEntry struct {
	LabelSetHash string             `json:"label_set_hash"`
	ArticleKey   string             `json:"article_key"`
	Scores       map[string]float64 `json:"scores"`
}
