package model

// Profile is a user's learned preference vector over one label set.
// Labels absent from Vector are implicitly 0; weights stay in [-1, 1].
type Profile struct {
	UserID       string             `json:"user_id"`
	LabelSetHash string             `json:"label_set_hash"`
	Vector       map[string]float64 `json:"vector"`
}
