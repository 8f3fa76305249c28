package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/Raidoxe/BERTNews/internal/pkg/vecmath"
)

type geminiConfig struct {
	APIKey string `json:"api_key"`
}

type geminiEmbedder struct {
	apiKey string
	model  string
}

func (p *geminiEmbedder) ModelName() string {
	return p.model
}

func (p *geminiEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if p.apiKey == "" {
		return nil, ErrUnavailable
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  p.apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}
	resp, err := client.Models.EmbedContent(
		ctx,
		p.model,
		[]*genai.Content{{Parts: []*genai.Part{{Text: text}}}},
		&genai.EmbedContentConfig{TaskType: "SEMANTIC_SIMILARITY"},
	)
	if err != nil {
		return nil, err
	}
	if len(resp.Embeddings) == 0 {
		return nil, fmt.Errorf("no embedding values returned")
	}
	// Ranking relies on dot products over unit vectors, so normalize here.
	values := resp.Embeddings[0].Values
	vecmath.Normalize(values)
	return values, nil
}

func createGeminiEmbedderFactory(model string, args json.RawMessage) (IEmbedder, error) {
	cfg := &geminiConfig{}
	if len(args) > 0 {
		if err := json.Unmarshal(args, cfg); err != nil {
			return nil, fmt.Errorf("parse gemini config: %w", err)
		}
	}
	return &geminiEmbedder{
		apiKey: strings.TrimSpace(cfg.APIKey),
		model:  model,
	}, nil
}

func init() {
	RegisterEmbedder("gemini", createGeminiEmbedderFactory)
}
