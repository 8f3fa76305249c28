package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Raidoxe/BERTNews/internal/config"
	"github.com/Raidoxe/BERTNews/internal/labelset"
	"github.com/Raidoxe/BERTNews/internal/model"
	appErr "github.com/Raidoxe/BERTNews/internal/pkg/errors"
	"github.com/Raidoxe/BERTNews/internal/ranker"
	"github.com/Raidoxe/BERTNews/internal/service"
)

func testRankingConfig() config.RankingConfig {
	return config.RankingConfig{ExploreProbability: 0.05, DefaultTopK: 10}
}

type rankingEnv struct {
	svc      *service.RankingService
	registry *labelset.Registry
	profiles *fakeProfiles
	reads    *fakeReads
	articles *fakeArticles
}

func newRankingEnv(t *testing.T, articles *fakeArticles, vecs map[string][]float32, rand ranker.RandSource) *rankingEnv {
	t.Helper()
	if rand == nil {
		// Exploration off by default so orderings stay deterministic.
		rand = stubRand{float: 1.0}
	}
	registry, _ := newRegistry()
	profiles := newFakeProfiles()
	reads := &fakeReads{}
	svc := service.NewRankingService(
		registry, profiles, reads, articles,
		&fakeLabelVecs{vecs: vecs},
		testLearnerConfig(), testRankingConfig(), rand,
	)
	return &rankingEnv{svc: svc, registry: registry, profiles: profiles, reads: reads, articles: articles}
}

func TestRankSparseWithProfileAndExclusion(t *testing.T) {
	ctx := context.Background()
	env := newRankingEnv(t, newFakeArticles(), nil, nil)
	hash, err := env.registry.Register(ctx, []string{"sport", "war"})
	require.NoError(t, err)
	require.NoError(t, env.profiles.Save(ctx, &model.Profile{
		UserID: "u1", LabelSetHash: hash,
		Vector: map[string]float64{"sport": 1.0, "war": -0.5},
	}))
	require.NoError(t, env.reads.Upsert(ctx, &model.ReadRecord{
		UserID: "u1", LabelSetHash: hash, ArticleID: "read-1", Feedback: model.FeedbackLike, Ts: 1,
	}))

	candidates := []ranker.Candidate{
		{Index: 0, ID: "read-1", Scores: map[string]float64{"sport": 0.99}},
		{Index: 1, ID: "fresh-1", Scores: map[string]float64{"sport": 0.8}},
		{Index: 2, ID: "fresh-2", Scores: map[string]float64{"war": 0.9}},
	}
	items, err := env.svc.RankSparse(ctx, "u1", hash, candidates, 10, "")
	require.NoError(t, err)
	require.Len(t, items, 2)
	require.Equal(t, 1, items[0].Index)
	require.InDelta(t, 0.8, items[0].Score, 1e-12)
	require.Equal(t, 2, items[1].Index)
	require.InDelta(t, -0.45, items[1].Score, 1e-12)
}

func TestRankSparseColdStart(t *testing.T) {
	ctx := context.Background()
	env := newRankingEnv(t, newFakeArticles(), nil, nil)
	hash, err := env.registry.Register(ctx, []string{"Sport", "War"})
	require.NoError(t, err)

	candidates := []ranker.Candidate{
		{Index: 1, Scores: map[string]float64{"Sport": 0.8}},
		{Index: 2, Scores: map[string]float64{"War": 0.9}},
	}
	items, err := env.svc.RankSparse(ctx, "u1", hash, candidates, 2, ranker.SimilarityDot)
	require.NoError(t, err)
	require.Len(t, items, 2)
	require.Equal(t, 2, items[0].Index)
	require.Equal(t, 1, items[1].Index)
	require.True(t, items[0].ColdStart)
}

func TestRankSparseValidation(t *testing.T) {
	ctx := context.Background()
	env := newRankingEnv(t, newFakeArticles(), nil, nil)
	hash, err := env.registry.Register(ctx, []string{"sport"})
	require.NoError(t, err)
	candidates := []ranker.Candidate{{Index: 0, Scores: map[string]float64{"sport": 0.5}}}

	_, err = env.svc.RankSparse(ctx, "", hash, candidates, 10, "")
	require.ErrorIs(t, err, appErr.ErrInvalid)
	_, err = env.svc.RankSparse(ctx, "u1", hash, nil, 10, "")
	require.ErrorIs(t, err, appErr.ErrInvalid)
	_, err = env.svc.RankSparse(ctx, "u1", hash, candidates, 10, "jaccard")
	require.ErrorIs(t, err, appErr.ErrInvalid)
}

func TestRankSparseDefaultTopK(t *testing.T) {
	ctx := context.Background()
	env := newRankingEnv(t, newFakeArticles(), nil, nil)
	hash, err := env.registry.Register(ctx, []string{"sport"})
	require.NoError(t, err)

	candidates := make([]ranker.Candidate, 15)
	for i := range candidates {
		candidates[i] = ranker.Candidate{Index: i, Scores: map[string]float64{"sport": float64(i) / 15}}
	}
	items, err := env.svc.RankSparse(ctx, "u1", hash, candidates, 0, "")
	require.NoError(t, err)
	require.Len(t, items, 10)
}

func TestRankEmbeddingsService(t *testing.T) {
	ctx := context.Background()
	articles := newFakeArticles(
		&model.Article{ID: "a1", Title: "sports final", Dim: 2, Vector: []float32{1, 0}},
		&model.Article{ID: "a2", Title: "front lines", Dim: 2, Vector: []float32{0, 1}},
	)
	env := newRankingEnv(t, articles, map[string][]float32{
		"sport": {1, 0},
		"war":   {0, 1},
	}, nil)
	hash, err := env.registry.Register(ctx, []string{"sport", "war"})
	require.NoError(t, err)
	require.NoError(t, env.profiles.Save(ctx, &model.Profile{
		UserID: "u1", LabelSetHash: hash,
		Vector: map[string]float64{"sport": 1.0},
	}))

	items, err := env.svc.RankEmbeddings(ctx, "u1", hash, 10)
	require.NoError(t, err)
	require.Len(t, items, 2)
	require.Equal(t, "a1", items[0].ID)
	require.InDelta(t, 1.0, items[0].Score, 1e-6)
	require.Equal(t, "sports final", items[0].Title)
}

func TestRankEmbeddingsExcludesRead(t *testing.T) {
	ctx := context.Background()
	articles := newFakeArticles(
		&model.Article{ID: "a1", Dim: 1, Vector: []float32{1}},
		&model.Article{ID: "a2", Dim: 1, Vector: []float32{0.5}},
	)
	env := newRankingEnv(t, articles, map[string][]float32{"sport": {1}}, nil)
	hash, err := env.registry.Register(ctx, []string{"sport"})
	require.NoError(t, err)
	require.NoError(t, env.reads.Upsert(ctx, &model.ReadRecord{
		UserID: "u1", LabelSetHash: hash, ArticleID: "a1", Feedback: model.FeedbackLike, Ts: 1,
	}))

	items, err := env.svc.RankEmbeddings(ctx, "u1", hash, 10)
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, "a2", items[0].ID)
}

func TestRankEmbeddingsUnknownLabelSet(t *testing.T) {
	ctx := context.Background()
	env := newRankingEnv(t, newFakeArticles(), nil, nil)
	_, err := env.svc.RankEmbeddings(ctx, "u1", "deadbeefdeadbeef", 10)
	require.ErrorIs(t, err, appErr.ErrNotFound)
}
