package ai_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Raidoxe/BERTNews/internal/ai"
	"github.com/Raidoxe/BERTNews/internal/pkg/vecmath"
)

func newHFEmbedder(t *testing.T, baseURL string) ai.IEmbedder {
	t.Helper()
	args, err := json.Marshal(map[string]string{"api_key": "test-key", "base_url": baseURL})
	require.NoError(t, err)
	embedder, err := ai.NewEmbedder("hf", "test-model", args)
	require.NoError(t, err)
	return embedder
}

func TestHFEmbedReturnsUnitVector(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[[3,4]]`))
	}))
	defer srv.Close()

	vec, err := newHFEmbedder(t, srv.URL).Embed(context.Background(), "some text")
	require.NoError(t, err)
	require.Len(t, vec, 2)
	require.InDelta(t, 1.0, vecmath.Norm(vec), 1e-6)
	// Direction is preserved, only the magnitude is scaled away.
	require.InDelta(t, 0.6, float64(vec[0]), 1e-6)
	require.InDelta(t, 0.8, float64(vec[1]), 1e-6)
}

func TestHFEmbedAcceptsFlatVector(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[0,2]`))
	}))
	defer srv.Close()

	vec, err := newHFEmbedder(t, srv.URL).Embed(context.Background(), "some text")
	require.NoError(t, err)
	require.InDelta(t, 1.0, vecmath.Norm(vec), 1e-6)
}

func TestHFClassify(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Inputs     string `json:"inputs"`
			Parameters struct {
				CandidateLabels []string `json:"candidate_labels"`
				MultiLabel      bool     `json:"multi_label"`
			} `json:"parameters"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, []string{"sport", "war"}, req.Parameters.CandidateLabels)
		require.True(t, req.Parameters.MultiLabel)
		fmt.Fprint(w, `{"labels":["sport","war"],"scores":[0.8,0.02]}`)
	}))
	defer srv.Close()

	args, err := json.Marshal(map[string]string{"api_key": "test-key", "base_url": srv.URL})
	require.NoError(t, err)
	classifier, err := ai.NewClassifier("hf", "test-model", args)
	require.NoError(t, err)

	scores, err := classifier.Classify(context.Background(), "text", []string{"sport", "war"}, true)
	require.NoError(t, err)
	require.Equal(t, map[string]float64{"sport": 0.8, "war": 0.02}, scores)
}

func TestHFEmbedRequiresAPIKey(t *testing.T) {
	embedder, err := ai.NewEmbedder("hf", "test-model", nil)
	require.NoError(t, err)
	_, err = embedder.Embed(context.Background(), "text")
	require.ErrorIs(t, err, ai.ErrUnavailable)
}
