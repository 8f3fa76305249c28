package ranker

import (
	"sort"

	"github.com/Raidoxe/BERTNews/internal/model"
	"github.com/Raidoxe/BERTNews/internal/pkg/vecmath"
)

// EmbeddingItem is one ranked result in embedding mode.
type EmbeddingItem struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Link        string        `json:"link"`
	Score       float64       `json:"score"`
	Explanation []Explanation `json:"explanation"`
	Exploration bool          `json:"exploration,omitempty"`
}

// EmbeddingInput bundles an embedding-mode ranking call. Articles is the
// full stored corpus; every row is scored (no ANN index, acceptable at
// moderate corpus sizes).
type EmbeddingInput struct {
	Labels     []string
	LabelVecs  map[string][]float32
	Profile    map[string]float64
	HasProfile bool
	Articles   []model.Article
	Exclude    map[string]struct{}
	TopK       int
	Tau        float64
	ExploreP   float64
	Rand       RandSource
}

// RankEmbeddings builds a synthetic user embedding as the profile-weighted
// sum of label embeddings (uniform 1.0 weights at cold start), L2-normalizes
// it, and dot-products it against every article vector.
func RankEmbeddings(in EmbeddingInput) []EmbeddingItem {
	userVec := buildUserVector(in)

	scored := make([]EmbeddingItem, 0, len(in.Articles))
	for _, art := range in.Articles {
		if _, read := in.Exclude[art.ID]; read {
			continue
		}
		scored = append(scored, EmbeddingItem{
			ID:          art.ID,
			Title:       art.Title,
			Description: art.Description,
			Link:        art.Link,
			Score:       vecmath.Dot(userVec, art.Vector),
			Explanation: explainEmbedding(art.Vector, in),
		})
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	top := scored
	if len(top) > in.TopK {
		top = top[:in.TopK]
	}
	if in.Rand != nil && len(scored) > len(top) && in.Rand.Float64() < in.ExploreP {
		remaining := scored[len(top):]
		pick := remaining[in.Rand.Intn(len(remaining))]
		pick.Exploration = true
		top = spliceFront(top, pick, in.TopK)
	}
	return top
}

func buildUserVector(in EmbeddingInput) []float32 {
	var dim int
	for _, vec := range in.LabelVecs {
		if len(vec) > dim {
			dim = len(vec)
		}
	}
	userVec := make([]float32, dim)
	for _, label := range in.Labels {
		weight := 1.0
		if in.HasProfile {
			weight = in.Profile[label]
		}
		if weight == 0 {
			continue
		}
		vec, ok := in.LabelVecs[label]
		if !ok {
			continue
		}
		vecmath.AddScaled(userVec, vec, weight)
	}
	vecmath.Normalize(userVec)
	return userVec
}

// explainEmbedding reports, per label, the raw label/article similarity
// gated by tau and weighted by the profile (1.0 at cold start).
func explainEmbedding(articleVec []float32, in EmbeddingInput) []Explanation {
	out := make([]Explanation, 0, len(in.Labels))
	for _, label := range in.Labels {
		vec, ok := in.LabelVecs[label]
		if !ok {
			continue
		}
		sim := vecmath.Dot(vec, articleVec)
		gated := 0.0
		if sim >= in.Tau || sim <= -in.Tau {
			gated = sim
		}
		pref := 1.0
		if in.HasProfile {
			pref = in.Profile[label]
		}
		out = append(out, Explanation{Label: label, Weight: pref * gated, Pref: pref, Sim: sim})
	}
	sortExplanations(out)
	return out
}
