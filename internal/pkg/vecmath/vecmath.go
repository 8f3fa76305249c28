// Package vecmath holds the small dense-vector helpers shared by the
// embedding ranker and the feedback gate.
package vecmath

import "math"

func Dot(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var s float64
	for i := 0; i < n; i++ {
		s += float64(a[i]) * float64(b[i])
	}
	return s
}

func Norm(vec []float32) float64 {
	var s float64
	for _, v := range vec {
		s += float64(v) * float64(v)
	}
	return math.Sqrt(s)
}

// AddScaled accumulates vec*scale into acc in place.
func AddScaled(acc []float32, vec []float32, scale float64) {
	n := len(acc)
	if len(vec) < n {
		n = len(vec)
	}
	for i := 0; i < n; i++ {
		acc[i] += float32(float64(vec[i]) * scale)
	}
}

// Normalize scales vec to unit length in place. A zero vector is left as is.
func Normalize(vec []float32) {
	nrm := Norm(vec)
	if nrm == 0 {
		return
	}
	for i := range vec {
		vec[i] = float32(float64(vec[i]) / nrm)
	}
}
