package scorecache

import "sort"

// Sparsify drops entries with |score| < tau and, when topK > 0, keeps only
// the topK entries with the largest magnitude. The result is a fresh map;
// ties are broken by label so a fixed input always yields the same output.
func Sparsify(scores map[string]float64, tau float64, topK int) map[string]float64 {
	type entry struct {
		label string
		score float64
	}
	entries := make([]entry, 0, len(scores))
	for label, score := range scores {
		if abs(score) >= tau {
			entries = append(entries, entry{label: label, score: score})
		}
	}
	if topK > 0 && len(entries) > topK {
		sort.Slice(entries, func(i, j int) bool {
			if abs(entries[i].score) != abs(entries[j].score) {
				return abs(entries[i].score) > abs(entries[j].score)
			}
			return entries[i].label < entries[j].label
		})
		entries = entries[:topK]
	}
	out := make(map[string]float64, len(entries))
	for _, e := range entries {
		out[e.label] = e.score
	}
	return out
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
