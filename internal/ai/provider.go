// Package ai wraps the external model collaborators: the zero-shot text
// classifier and the sentence embedder. Both are black boxes behind small
// interfaces so callers never see provider specifics.
package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var ErrUnavailable = errors.New("ai provider not configured")

// IClassifier scores a text against an arbitrary label set and returns a
// label -> probability mapping with values in [0, 1].
type IClassifier interface {
	Classify(ctx context.Context, text string, labels []string, multiLabel bool) (map[string]float64, error)
	ModelName() string
}

// IEmbedder maps a text to a fixed-length unit-normalized vector.
type IEmbedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	ModelName() string
}

type ClassifierFactory func(model string, args json.RawMessage) (IClassifier, error)

type EmbedderFactory func(model string, args json.RawMessage) (IEmbedder, error)

var (
	classifierRegistry = map[string]ClassifierFactory{}
	embedderRegistry   = map[string]EmbedderFactory{}
)

func RegisterClassifier(name string, factory ClassifierFactory) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" || factory == nil {
		return
	}
	classifierRegistry[key] = factory
}

func RegisterEmbedder(name string, factory EmbedderFactory) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" || factory == nil {
		return
	}
	embedderRegistry[key] = factory
}

func NewClassifier(name string, model string, args json.RawMessage) (IClassifier, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		return nil, fmt.Errorf("ai.classifier.provider is required")
	}
	factory := classifierRegistry[key]
	if factory == nil {
		return nil, fmt.Errorf("unsupported classifier provider: %s", name)
	}
	return factory(model, args)
}

func NewEmbedder(name string, model string, args json.RawMessage) (IEmbedder, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		return nil, fmt.Errorf("ai.embedder.provider is required")
	}
	factory := embedderRegistry[key]
	if factory == nil {
		return nil, fmt.Errorf("unsupported embedder provider: %s", name)
	}
	return factory(model, args)
}
