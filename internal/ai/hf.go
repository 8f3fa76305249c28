package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/Raidoxe/BERTNews/internal/pkg/vecmath"
)

const defaultHFBaseURL = "https://api-inference.huggingface.co"

type hfConfig struct {
	APIKey  string `json:"api_key"`
	BaseURL string `json:"base_url"`
}

type hfClassifier struct {
	apiKey  string
	baseURL string
	model   string
}

type hfZeroShotRequest struct {
	Inputs     string           `json:"inputs"`
	Parameters hfZeroShotParams `json:"parameters"`
	Options    map[string]bool  `json:"options,omitempty"`
}

type hfZeroShotParams struct {
	CandidateLabels []string `json:"candidate_labels"`
	MultiLabel      bool     `json:"multi_label"`
}

type hfZeroShotResponse struct {
	Labels []string  `json:"labels"`
	Scores []float64 `json:"scores"`
}

func (p *hfClassifier) ModelName() string {
	return p.model
}

func (p *hfClassifier) Classify(ctx context.Context, text string, labels []string, multiLabel bool) (map[string]float64, error) {
	if p.apiKey == "" {
		return nil, ErrUnavailable
	}
	endpoint := strings.TrimRight(p.baseURL, "/") + "/models/" + p.model
	reqBody := hfZeroShotRequest{
		Inputs: text,
		Parameters: hfZeroShotParams{
			CandidateLabels: labels,
			MultiLabel:      multiLabel,
		},
		Options: map[string]bool{"wait_for_model": true},
	}
	var out hfZeroShotResponse
	if err := p.post(ctx, endpoint, reqBody, &out); err != nil {
		return nil, err
	}
	if len(out.Labels) != len(out.Scores) {
		return nil, fmt.Errorf("zero-shot response labels/scores mismatch")
	}
	scores := make(map[string]float64, len(out.Labels))
	for i, label := range out.Labels {
		scores[label] = out.Scores[i]
	}
	return scores, nil
}

func (p *hfClassifier) post(ctx context.Context, endpoint string, in interface{}, out interface{}) error {
	data, err := json.Marshal(in)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+p.apiKey)
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("hf request failed: %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

type hfEmbedder struct {
	apiKey  string
	baseURL string
	model   string
}

type hfEmbedRequest struct {
	Inputs  string          `json:"inputs"`
	Options map[string]bool `json:"options,omitempty"`
}

func (p *hfEmbedder) ModelName() string {
	return p.model
}

func (p *hfEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if p.apiKey == "" {
		return nil, ErrUnavailable
	}
	endpoint := strings.TrimRight(p.baseURL, "/") + "/pipeline/feature-extraction/" + p.model
	reqBody := hfEmbedRequest{
		Inputs:  text,
		Options: map[string]bool{"wait_for_model": true},
	}
	data, err := json.Marshal(reqBody)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+p.apiKey)
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("hf request failed: %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	vec, err := decodeEmbedding(raw)
	if err != nil {
		return nil, err
	}
	// The feature-extraction pipeline returns raw vectors; callers rely on
	// unit length for dot-product similarity.
	vecmath.Normalize(vec)
	return vec, nil
}

// decodeEmbedding accepts either a flat vector or a single-row matrix, which
// is what the feature-extraction pipeline returns for one input.
func decodeEmbedding(raw []byte) ([]float32, error) {
	var flat []float32
	if err := json.Unmarshal(raw, &flat); err == nil {
		return flat, nil
	}
	var rows [][]float32
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, fmt.Errorf("unexpected embedding response: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("embedding response is empty")
	}
	return rows[0], nil
}

func createHFClassifierFactory(model string, args json.RawMessage) (IClassifier, error) {
	cfg, err := parseHFConfig(args)
	if err != nil {
		return nil, err
	}
	return &hfClassifier{apiKey: cfg.APIKey, baseURL: cfg.BaseURL, model: model}, nil
}

func createHFEmbedderFactory(model string, args json.RawMessage) (IEmbedder, error) {
	cfg, err := parseHFConfig(args)
	if err != nil {
		return nil, err
	}
	return &hfEmbedder{apiKey: cfg.APIKey, baseURL: cfg.BaseURL, model: model}, nil
}

func parseHFConfig(args json.RawMessage) (*hfConfig, error) {
	cfg := &hfConfig{}
	if len(args) > 0 {
		if err := json.Unmarshal(args, cfg); err != nil {
			return nil, fmt.Errorf("parse hf config: %w", err)
		}
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultHFBaseURL
	}
	return cfg, nil
}

func init() {
	RegisterClassifier("hf", createHFClassifierFactory)
	RegisterEmbedder("hf", createHFEmbedderFactory)
}
