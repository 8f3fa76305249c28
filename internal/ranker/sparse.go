// Package ranker produces ordered, explained candidate lists from either
// sparse label scores or dense article embeddings.
package ranker

import (
	"math"
	"sort"
	"strconv"

	"github.com/Raidoxe/BERTNews/internal/scorecache"
)

// Explanation is one label's contribution to an item's score.
type Explanation struct {
	Label  string  `json:"label"`
	Weight float64 `json:"weight"`
	Pref   float64 `json:"pref"`
	Sim    float64 `json:"sim,omitempty"`
}

// Candidate is one scorable article in sparse mode. ID is optional; when
// empty the batch index keys the exclusion check.
type Candidate struct {
	Index  int                `json:"index"`
	ID     string             `json:"id,omitempty"`
	Scores map[string]float64 `json:"scores"`
}

func (c Candidate) key() string {
	if c.ID != "" {
		return c.ID
	}
	return strconv.Itoa(c.Index)
}

// SparseItem is one ranked result in sparse mode.
type SparseItem struct {
	Index       int           `json:"index"`
	Score       float64       `json:"score"`
	Explanation []Explanation `json:"explanation"`
	ColdStart   bool          `json:"cold_start,omitempty"`
	Exploration bool          `json:"exploration,omitempty"`
}

const (
	SimilarityDot    = "dot"
	SimilarityCosine = "cosine"
)

// SparseInput bundles everything a sparse ranking call needs. Exclude holds
// candidate keys the user already read. Rand and ExploreP drive the
// exploration splice; a nil Rand disables exploration draws entirely.
type SparseInput struct {
	Profile    map[string]float64
	HasProfile bool
	Candidates []Candidate
	Exclude    map[string]struct{}
	TopK       int
	Similarity string
	Tau        float64
	SparsifyK  int
	ExploreP   float64
	Rand       RandSource
}

// RankSparse scores candidates against the profile (or by raw score sum at
// cold start), excludes already-read candidates, sorts by descending score
// and truncates to TopK. With probability ExploreP one random unseen
// candidate is spliced into the first position.
func RankSparse(in SparseInput) []SparseItem {
	pool := make([]Candidate, 0, len(in.Candidates))
	for _, c := range in.Candidates {
		if _, read := in.Exclude[c.key()]; read {
			continue
		}
		pool = append(pool, c)
	}

	items := make([]SparseItem, 0, len(pool))
	for _, c := range pool {
		items = append(items, scoreSparse(c, in))
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Score > items[j].Score
	})
	if len(items) > in.TopK {
		items = items[:in.TopK]
	}

	if in.Rand != nil && len(pool) > len(items) && in.Rand.Float64() < in.ExploreP {
		chosen := make(map[int]struct{}, len(items))
		for _, it := range items {
			chosen[it.Index] = struct{}{}
		}
		remaining := make([]Candidate, 0, len(pool)-len(items))
		for _, c := range pool {
			if _, ok := chosen[c.Index]; !ok {
				remaining = append(remaining, c)
			}
		}
		if len(remaining) > 0 {
			pick := scoreSparse(remaining[in.Rand.Intn(len(remaining))], in)
			pick.Exploration = true
			items = spliceFront(items, pick, in.TopK)
		}
	}
	return items
}

func scoreSparse(c Candidate, in SparseInput) SparseItem {
	if !in.HasProfile {
		var sum float64
		for _, v := range c.Scores {
			sum += v
		}
		return SparseItem{
			Index:       c.Index,
			Score:       sum,
			Explanation: explainSparse(c.Scores, nil, in.Tau),
			ColdStart:   true,
		}
	}
	sparse := scorecache.Sparsify(c.Scores, in.Tau, in.SparsifyK)
	var score float64
	if in.Similarity == SimilarityCosine {
		score = cosineSparse(in.Profile, sparse)
	} else {
		for label, v := range sparse {
			score += in.Profile[label] * v
		}
	}
	return SparseItem{
		Index:       c.Index,
		Score:       score,
		Explanation: explainSparse(c.Scores, in.Profile, in.Tau),
	}
}

// explainSparse reports per-label contributions gated by the raw tau
// threshold. The same path serves scored and exploration items. At cold
// start (nil profile) the contribution is the raw score itself.
func explainSparse(scores map[string]float64, profile map[string]float64, tau float64) []Explanation {
	out := make([]Explanation, 0, len(scores))
	for label, v := range scores {
		gated := 0.0
		if v >= tau {
			gated = v
		}
		if profile == nil {
			out = append(out, Explanation{Label: label, Weight: v, Pref: 0})
			continue
		}
		pref := profile[label]
		out = append(out, Explanation{Label: label, Weight: pref * gated, Pref: pref})
	}
	sortExplanations(out)
	return out
}

func sortExplanations(out []Explanation) {
	sort.SliceStable(out, func(i, j int) bool {
		wi, wj := math.Abs(out[i].Weight), math.Abs(out[j].Weight)
		if wi != wj {
			return wi > wj
		}
		return out[i].Label < out[j].Label
	})
}

// cosineSparse is cosine similarity over the union of labels, missing labels
// counting as 0. A zero norm on either side yields 0.
func cosineSparse(a, b map[string]float64) float64 {
	var dot, na, nb float64
	for label, va := range a {
		na += va * va
		if vb, ok := b[label]; ok {
			dot += va * vb
		}
	}
	for _, vb := range b {
		nb += vb * vb
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

// spliceFront inserts item at position 0, keeping at most topK entries. The
// previous head shifts down rather than being dropped outright.
func spliceFront[T any](items []T, item T, topK int) []T {
	items = append([]T{item}, items...)
	if topK > 0 && len(items) > topK {
		items = items[:topK]
	}
	return items
}
