package service_test

import (
	"context"
	"time"

	"github.com/Raidoxe/BERTNews/internal/labelset"
	"github.com/Raidoxe/BERTNews/internal/model"
	"github.com/Raidoxe/BERTNews/internal/scorecache"
)

type fakeLabelSets struct {
	sets map[string][]string
}

func newFakeLabelSets() *fakeLabelSets {
	return &fakeLabelSets{sets: map[string][]string{}}
}

func (f *fakeLabelSets) Insert(_ context.Context, hash string, labels []string) error {
	if _, ok := f.sets[hash]; !ok {
		f.sets[hash] = append([]string(nil), labels...)
	}
	return nil
}

func (f *fakeLabelSets) Get(_ context.Context, hash string) ([]string, bool, error) {
	labels, ok := f.sets[hash]
	return labels, ok, nil
}

type fakeProfiles struct {
	profiles map[string]*model.Profile
}

func newFakeProfiles() *fakeProfiles {
	return &fakeProfiles{profiles: map[string]*model.Profile{}}
}

func (f *fakeProfiles) Get(_ context.Context, userID, labelSetHash string) (*model.Profile, bool, error) {
	p, ok := f.profiles[userID+"|"+labelSetHash]
	return p, ok, nil
}

func (f *fakeProfiles) Save(_ context.Context, profile *model.Profile) error {
	f.profiles[profile.UserID+"|"+profile.LabelSetHash] = profile
	return nil
}

type fakeReads struct {
	records []model.ReadRecord
}

func (f *fakeReads) Upsert(_ context.Context, rec *model.ReadRecord) error {
	f.records = append(f.records, *rec)
	return nil
}

func (f *fakeReads) ListArticleIDs(_ context.Context, userID string) (map[string]struct{}, error) {
	out := map[string]struct{}{}
	for _, rec := range f.records {
		if rec.UserID == userID {
			out[rec.ArticleID] = struct{}{}
		}
	}
	return out, nil
}

func (f *fakeReads) ListByUser(_ context.Context, userID string) ([]model.ReadRecord, error) {
	out := make([]model.ReadRecord, 0, len(f.records))
	// Newest first, matching the production query order.
	for i := len(f.records) - 1; i >= 0; i-- {
		if f.records[i].UserID == userID {
			out = append(out, f.records[i])
		}
	}
	return out, nil
}

type fakeArticles struct {
	articles map[string]*model.Article
}

func newFakeArticles(arts ...*model.Article) *fakeArticles {
	f := &fakeArticles{articles: map[string]*model.Article{}}
	for _, art := range arts {
		f.articles[art.ID] = art
	}
	return f
}

func (f *fakeArticles) GetByID(_ context.Context, id string) (*model.Article, bool, error) {
	art, ok := f.articles[id]
	return art, ok, nil
}

func (f *fakeArticles) ListAll(_ context.Context) ([]model.Article, error) {
	out := make([]model.Article, 0, len(f.articles))
	for _, art := range f.articles {
		out = append(out, *art)
	}
	return out, nil
}

func (f *fakeArticles) Upsert(_ context.Context, art *model.Article) error {
	f.articles[art.ID] = art
	return nil
}

func (f *fakeArticles) UpdateMeta(_ context.Context, id, title, description string, updatedAt int64) error {
	if art, ok := f.articles[id]; ok {
		art.Title = title
		art.Description = description
		art.UpdatedAt = updatedAt
	}
	return nil
}

func (f *fakeArticles) ListEmptyMeta(_ context.Context) ([]model.Article, error) {
	out := make([]model.Article, 0)
	for _, art := range f.articles {
		if art.Title == "" || art.Description == "" {
			out = append(out, *art)
		}
	}
	return out, nil
}

type fakeScoreStore struct {
	entries map[string]map[string]float64
}

func newFakeScoreStore() *fakeScoreStore {
	return &fakeScoreStore{entries: map[string]map[string]float64{}}
}

func (f *fakeScoreStore) Get(_ context.Context, hash, key string) (map[string]float64, bool, error) {
	scores, ok := f.entries[hash+"|"+key]
	return scores, ok, nil
}

func (f *fakeScoreStore) Save(_ context.Context, entry *model.ScoreEntry) error {
	f.entries[entry.LabelSetHash+"|"+entry.ArticleKey] = entry.Scores
	return nil
}

type fakeClassifier struct {
	scores map[string]float64
	err    error
	calls  int
}

func (f *fakeClassifier) Classify(_ context.Context, _ string, _ []string, _ bool) (map[string]float64, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	out := make(map[string]float64, len(f.scores))
	for k, v := range f.scores {
		out[k] = v
	}
	return out, nil
}

func (f *fakeClassifier) ModelName() string { return "fake-classifier" }

type fakeLabelVecs struct {
	vecs map[string][]float32
}

func (f *fakeLabelVecs) Get(_ context.Context, _ string, labels []string) (map[string][]float32, error) {
	out := make(map[string][]float32, len(labels))
	for _, label := range labels {
		if vec, ok := f.vecs[label]; ok {
			out[label] = vec
		}
	}
	return out, nil
}

// stubRand drives exploration deterministically in service tests.
type stubRand struct {
	float float64
	pick  int
}

func (s stubRand) Float64() float64 { return s.float }
func (s stubRand) Intn(n int) int   { return s.pick % n }

func newRegistry() (*labelset.Registry, *fakeLabelSets) {
	store := newFakeLabelSets()
	return labelset.NewRegistry(store), store
}

func newScoreCache() (*scorecache.Cache, *fakeScoreStore) {
	store := newFakeScoreStore()
	return scorecache.New(store, 64, time.Minute), store
}
