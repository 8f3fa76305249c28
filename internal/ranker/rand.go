package ranker

import "math/rand"

// RandSource abstracts the exploration draw so tests can force outcomes.
type RandSource interface {
	Float64() float64
	Intn(n int) int
}

type mathRand struct{}

func (mathRand) Float64() float64 { return rand.Float64() }
func (mathRand) Intn(n int) int   { return rand.Intn(n) }

// DefaultRand draws from the shared math/rand source.
func DefaultRand() RandSource { return mathRand{} }
