package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Raidoxe/BERTNews/internal/config"
	"github.com/Raidoxe/BERTNews/internal/labelset"
	"github.com/Raidoxe/BERTNews/internal/model"
	appErr "github.com/Raidoxe/BERTNews/internal/pkg/errors"
	"github.com/Raidoxe/BERTNews/internal/service"
)

func testLearnerConfig() config.LearnerConfig {
	return config.LearnerConfig{Alpha: 0.1, Tau: 0.1, Decay: 0.01, Gamma: 2.0}
}

type profileEnv struct {
	svc        *service.ProfileService
	registry   *labelset.Registry
	profiles   *fakeProfiles
	reads      *fakeReads
	articles   *fakeArticles
	classifier *fakeClassifier
}

func newProfileEnv(t *testing.T, classifier *fakeClassifier, articles *fakeArticles, vecs map[string][]float32) *profileEnv {
	t.Helper()
	registry, _ := newRegistry()
	cache, _ := newScoreCache()
	profiles := newFakeProfiles()
	reads := &fakeReads{}
	svc := service.NewProfileService(
		registry, profiles, reads, articles, cache,
		&fakeLabelVecs{vecs: vecs}, classifier, testLearnerConfig(),
	)
	return &profileEnv{
		svc:        svc,
		registry:   registry,
		profiles:   profiles,
		reads:      reads,
		articles:   articles,
		classifier: classifier,
	}
}

func TestFeedbackLikePipeline(t *testing.T) {
	ctx := context.Background()
	article := &model.Article{ID: "a1", Title: "Final score", Dim: 2, Vector: []float32{1, 0}}
	env := newProfileEnv(t,
		&fakeClassifier{scores: map[string]float64{"sport": 0.8, "war": 0.02}},
		newFakeArticles(article),
		map[string][]float32{"sport": {1, 0}, "war": {0, 1}},
	)
	hash, err := env.registry.Register(ctx, []string{"sport", "war"})
	require.NoError(t, err)

	updated, err := env.svc.Feedback(ctx, "u1", hash, "a1", model.FeedbackLike, 0)
	require.NoError(t, err)
	require.InDelta(t, 0.1*0.8*0.8, updated["sport"], 1e-12)
	require.InDelta(t, 0, updated["war"], 1e-12)

	saved, ok, err := env.profiles.Get(ctx, "u1", hash)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, updated, saved.Vector)

	require.Len(t, env.reads.records, 1)
	rec := env.reads.records[0]
	require.Equal(t, "a1", rec.ArticleID)
	require.Equal(t, model.FeedbackLike, rec.Feedback)
	require.Greater(t, rec.Ts, int64(0))
}

func TestFeedbackDislikeSubtracts(t *testing.T) {
	ctx := context.Background()
	article := &model.Article{ID: "a1", Title: "Final score", Dim: 2, Vector: []float32{1, 0}}
	env := newProfileEnv(t,
		&fakeClassifier{scores: map[string]float64{"sport": 0.8}},
		newFakeArticles(article),
		map[string][]float32{"sport": {1, 0}},
	)
	hash, err := env.registry.Register(ctx, []string{"sport"})
	require.NoError(t, err)
	require.NoError(t, env.profiles.Save(ctx, &model.Profile{
		UserID: "u1", LabelSetHash: hash, Vector: map[string]float64{"sport": 0.5},
	}))

	updated, err := env.svc.Feedback(ctx, "u1", hash, "a1", model.FeedbackDislike, 0)
	require.NoError(t, err)
	require.InDelta(t, 0.5-0.1*0.8*0.8, updated["sport"], 1e-12)
}

func TestFeedbackAlphaOverride(t *testing.T) {
	ctx := context.Background()
	article := &model.Article{ID: "a1", Title: "Final score", Dim: 2, Vector: []float32{1, 0}}
	env := newProfileEnv(t,
		&fakeClassifier{scores: map[string]float64{"sport": 0.8}},
		newFakeArticles(article),
		map[string][]float32{"sport": {1, 0}},
	)
	hash, err := env.registry.Register(ctx, []string{"sport"})
	require.NoError(t, err)

	updated, err := env.svc.Feedback(ctx, "u1", hash, "a1", model.FeedbackLike, 1.0)
	require.NoError(t, err)
	require.InDelta(t, 0.8*0.8, updated["sport"], 1e-12)
}

func TestFeedbackDirectionalGate(t *testing.T) {
	ctx := context.Background()
	// Article embedding is orthogonal to the sport label vector, so the
	// classifier score is discarded and the weight only decays.
	article := &model.Article{ID: "a1", Title: "Final score", Dim: 2, Vector: []float32{0, 1}}
	env := newProfileEnv(t,
		&fakeClassifier{scores: map[string]float64{"sport": 0.8}},
		newFakeArticles(article),
		map[string][]float32{"sport": {1, 0}},
	)
	hash, err := env.registry.Register(ctx, []string{"sport"})
	require.NoError(t, err)
	require.NoError(t, env.profiles.Save(ctx, &model.Profile{
		UserID: "u1", LabelSetHash: hash, Vector: map[string]float64{"sport": 0.5},
	}))

	updated, err := env.svc.Feedback(ctx, "u1", hash, "a1", model.FeedbackLike, 0)
	require.NoError(t, err)
	require.InDelta(t, 0.5*(1-0.01), updated["sport"], 1e-12)
}

func TestFeedbackValidation(t *testing.T) {
	ctx := context.Background()
	env := newProfileEnv(t, &fakeClassifier{}, newFakeArticles(), nil)
	hash, err := env.registry.Register(ctx, []string{"sport"})
	require.NoError(t, err)

	_, err = env.svc.Feedback(ctx, "", hash, "a1", model.FeedbackLike, 0)
	require.ErrorIs(t, err, appErr.ErrInvalid)
	_, err = env.svc.Feedback(ctx, "u1", hash, "a1", "meh", 0)
	require.ErrorIs(t, err, appErr.ErrInvalid)
	_, err = env.svc.Feedback(ctx, "u1", "deadbeefdeadbeef", "a1", model.FeedbackLike, 0)
	require.ErrorIs(t, err, appErr.ErrNotFound)
	_, err = env.svc.Feedback(ctx, "u1", hash, "missing", model.FeedbackLike, 0)
	require.ErrorIs(t, err, appErr.ErrNotFound)
}

func TestMigrateCarriesIntersection(t *testing.T) {
	ctx := context.Background()
	env := newProfileEnv(t, &fakeClassifier{}, newFakeArticles(), nil)
	fromHash, err := env.registry.Register(ctx, []string{"Sport", "War"})
	require.NoError(t, err)
	require.NoError(t, env.profiles.Save(ctx, &model.Profile{
		UserID: "u1", LabelSetHash: fromHash,
		Vector: map[string]float64{"Sport": 0.4, "War": -0.2},
	}))

	toHash, vec, err := env.svc.Migrate(ctx, "u1", fromHash, []string{"Sport", "Tech"})
	require.NoError(t, err)
	require.Equal(t, map[string]float64{"Sport": 0.4, "Tech": 0}, vec)

	want, err := labelset.Fingerprint([]string{"Sport", "Tech"})
	require.NoError(t, err)
	require.Equal(t, want, toHash)

	// Destination label set is registered as a side effect.
	labels, err := env.registry.Resolve(ctx, toHash)
	require.NoError(t, err)
	require.Equal(t, []string{"Sport", "Tech"}, labels)

	saved, ok, err := env.profiles.Get(ctx, "u1", toHash)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, vec, saved.Vector)
}

func TestMigrateWithoutSource(t *testing.T) {
	ctx := context.Background()
	env := newProfileEnv(t, &fakeClassifier{}, newFakeArticles(), nil)

	_, vec, err := env.svc.Migrate(ctx, "u1", "", []string{"Sport"})
	require.NoError(t, err)
	require.Equal(t, map[string]float64{"Sport": 0}, vec)
}

func TestAggregateFromInteractions(t *testing.T) {
	ctx := context.Background()
	env := newProfileEnv(t, &fakeClassifier{}, newFakeArticles(), nil)
	hash, err := env.registry.Register(ctx, []string{"sport", "war"})
	require.NoError(t, err)

	interactions := []service.Interaction{
		{Scores: map[string]float64{"sport": 0.8}},
		{Scores: map[string]float64{"sport": 0.4, "war": 0.6}, Weight: 2},
	}

	sum, err := env.svc.AggregateFromInteractions(ctx, "u1", hash, interactions, service.AggregateSum)
	require.NoError(t, err)
	require.InDelta(t, 0.8+0.8, sum["sport"], 1e-12)
	require.InDelta(t, 1.2, sum["war"], 1e-12)

	mean, err := env.svc.AggregateFromInteractions(ctx, "u2", hash, interactions, service.AggregateMean)
	require.NoError(t, err)
	require.InDelta(t, 1.6/2, mean["sport"], 1e-12)
	require.InDelta(t, 1.2/2, mean["war"], 1e-12)
}

func TestAggregateValidation(t *testing.T) {
	ctx := context.Background()
	env := newProfileEnv(t, &fakeClassifier{}, newFakeArticles(), nil)
	hash, err := env.registry.Register(ctx, []string{"sport"})
	require.NoError(t, err)

	interactions := []service.Interaction{{Scores: map[string]float64{"sport": 0.5}}}

	_, err = env.svc.AggregateFromInteractions(ctx, "u1", hash, interactions, "median")
	require.ErrorIs(t, err, appErr.ErrInvalid)
	_, err = env.svc.AggregateFromInteractions(ctx, "u1", hash, nil, service.AggregateSum)
	require.ErrorIs(t, err, appErr.ErrInvalid)
	_, err = env.svc.AggregateFromInteractions(ctx, "u1", "deadbeefdeadbeef", interactions, service.AggregateSum)
	require.ErrorIs(t, err, appErr.ErrNotFound)
}
