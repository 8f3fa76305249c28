// Package learner implements the gated sparse update that turns a feedback
// event into a new preference vector.
package learner

import "math"

// Params are the gated-update hyperparameters.
//
//	alpha: learning rate for labels above the gate
//	tau:   gate threshold, scores below it are treated as noise and decayed
//	decay: per-event shrink factor for sub-gate labels
//	gamma: confidence sharpening exponent on the score
type Params struct {
	Alpha float64
	Tau   float64
	Decay float64
	Gamma float64
}

func DefaultParams() Params {
	return Params{Alpha: 0.1, Tau: 0.1, Decay: 0.01, Gamma: 2.0}
}

// Update applies the per-label rule for every label of the set:
//
//	if s >= tau: u' = clip(u + alpha*y*s^gamma, -1, 1)
//	else:        u' = u * (1 - decay)
//
// y is +1 for like, -1 for dislike. Scores are clamped into [0,1] before the
// gate. Labels outside the set are carried over unchanged. The input maps are
// not mutated.
func Update(current map[string]float64, scores map[string]float64, labels []string, y int, p Params) map[string]float64 {
	out := make(map[string]float64, len(current)+len(labels))
	for label, weight := range current {
		out[label] = weight
	}
	for _, label := range labels {
		u := out[label]
		s := clamp01(scores[label])
		var next float64
		if s >= p.Tau {
			next = u + p.Alpha*float64(y)*math.Pow(s, p.Gamma)
		} else {
			next = u * (1 - p.Decay)
		}
		if next < -1 {
			next = -1
		}
		if next > 1 {
			next = 1
		}
		out[label] = next
	}
	return out
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
