package model

const (
	FeedbackLike    = "like"
	FeedbackDislike = "dislike"
)

type ReadRecord struct {
	UserID       string `json:"user_id"`
	LabelSetHash string `json:"label_set_hash"`
	ArticleID    string `json:"article_id"`
	Feedback     string `json:"feedback"`
	Ts           int64  `json:"ts"`
}
