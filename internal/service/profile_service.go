package service

import (
	"context"
	"fmt"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/Raidoxe/BERTNews/internal/ai"
	"github.com/Raidoxe/BERTNews/internal/config"
	"github.com/Raidoxe/BERTNews/internal/labelset"
	"github.com/Raidoxe/BERTNews/internal/learner"
	"github.com/Raidoxe/BERTNews/internal/model"
	appErr "github.com/Raidoxe/BERTNews/internal/pkg/errors"
	"github.com/Raidoxe/BERTNews/internal/pkg/timeutil"
	"github.com/Raidoxe/BERTNews/internal/pkg/vecmath"
	"github.com/Raidoxe/BERTNews/internal/scorecache"
)

// Interaction is one weighted score vector used for profile seeding.
type Interaction struct {
	Scores map[string]float64 `json:"scores"`
	Weight float64            `json:"weight"`
}

const (
	AggregateSum  = "sum"
	AggregateMean = "mean"
)

type ProfileService struct {
	registry  *labelset.Registry
	profiles  ProfileStore
	reads     ReadHistoryStore
	articles  ArticleStore
	cache     *scorecache.Cache
	labelVecs LabelEmbeddings
	classify  ai.IClassifier
	cfg       config.LearnerConfig
}

func NewProfileService(
	registry *labelset.Registry,
	profiles ProfileStore,
	reads ReadHistoryStore,
	articles ArticleStore,
	cache *scorecache.Cache,
	labelVecs LabelEmbeddings,
	classify ai.IClassifier,
	cfg config.LearnerConfig,
) *ProfileService {
	return &ProfileService{
		registry:  registry,
		profiles:  profiles,
		reads:     reads,
		articles:  articles,
		cache:     cache,
		labelVecs: labelVecs,
		classify:  classify,
		cfg:       cfg,
	}
}

// Feedback runs the full online-learning pipeline for one like/dislike:
// classify the article against the label set, sparsify, cross-check each
// label against the article embedding, then apply the gated update and
// persist profile plus read history.
func (s *ProfileService) Feedback(ctx context.Context, userID, labelSetHash, articleID, feedback string, alpha float64) (map[string]float64, error) {
	if userID == "" || labelSetHash == "" || articleID == "" {
		return nil, appErr.ErrInvalid
	}
	if feedback != model.FeedbackLike && feedback != model.FeedbackDislike {
		return nil, appErr.ErrInvalid
	}
	labels, err := s.registry.Resolve(ctx, labelSetHash)
	if err != nil {
		return nil, err
	}
	art, ok, err := s.articles.GetByID(ctx, articleID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, appErr.ErrNotFound
	}

	text := joinText(art.Title, art.Description)
	scores, err := s.cache.GetOrCompute(ctx, labelSetHash, articleID, text, labels, 0,
		func(ctx context.Context, text string, labels []string) (map[string]float64, error) {
			out, err := s.classify.Classify(ctx, text, labels, true)
			if err != nil {
				return nil, fmt.Errorf("%w: classify: %v", appErr.ErrUpstream, err)
			}
			return out, nil
		})
	if err != nil {
		return nil, err
	}
	scores = scorecache.Sparsify(scores, s.cfg.Tau, s.cfg.TopK)

	// Directional gate: only labels whose embedding actually aligns with
	// the article embedding keep their score contribution. This cross-checks
	// the classifier against the embedding space before the update.
	if len(art.Vector) > 0 {
		vecs, err := s.labelVecs.Get(ctx, labelSetHash, labels)
		if err != nil {
			return nil, err
		}
		for _, label := range labels {
			vec, ok := vecs[label]
			if !ok {
				continue
			}
			sim := vecmath.Dot(vec, art.Vector)
			if sim < s.cfg.Tau && sim > -s.cfg.Tau {
				delete(scores, label)
			}
		}
	}

	current := map[string]float64{}
	if profile, ok, err := s.profiles.Get(ctx, userID, labelSetHash); err != nil {
		return nil, err
	} else if ok {
		current = profile.Vector
	}

	y := 1
	if feedback == model.FeedbackDislike {
		y = -1
	}
	params := learner.Params{Alpha: s.cfg.Alpha, Tau: s.cfg.Tau, Decay: s.cfg.Decay, Gamma: s.cfg.Gamma}
	if alpha > 0 && alpha <= 1 {
		params.Alpha = alpha
	}
	updated := learner.Update(current, scores, labels, y, params)

	if err := s.profiles.Save(ctx, &model.Profile{
		UserID:       userID,
		LabelSetHash: labelSetHash,
		Vector:       updated,
	}); err != nil {
		return nil, err
	}
	if err := s.reads.Upsert(ctx, &model.ReadRecord{
		UserID:       userID,
		LabelSetHash: labelSetHash,
		ArticleID:    articleID,
		Feedback:     feedback,
		Ts:           timeutil.NowUnixMilli(),
	}); err != nil {
		return nil, err
	}
	logutil.GetLogger(ctx).Debug("profile updated",
		zap.String("user_id", userID),
		zap.String("label_set_hash", labelSetHash),
		zap.String("feedback", feedback),
	)
	return updated, nil
}

// Migrate copies a profile onto a new label set: intersection weights carry
// over, new labels start at 0, dropped labels are discarded. The destination
// label set is registered if unseen. No classifier or embedder calls.
func (s *ProfileService) Migrate(ctx context.Context, userID, fromLabelSetHash string, toLabels []string) (string, map[string]float64, error) {
	if userID == "" || len(toLabels) == 0 {
		return "", nil, appErr.ErrInvalid
	}
	toHash, err := s.registry.Register(ctx, toLabels)
	if err != nil {
		return "", nil, err
	}
	oldVec := map[string]float64{}
	if fromLabelSetHash != "" {
		if profile, ok, err := s.profiles.Get(ctx, userID, fromLabelSetHash); err != nil {
			return "", nil, err
		} else if ok {
			oldVec = profile.Vector
		}
	}
	newVec := make(map[string]float64, len(toLabels))
	for _, label := range toLabels {
		newVec[label] = oldVec[label]
	}
	if err := s.profiles.Save(ctx, &model.Profile{
		UserID:       userID,
		LabelSetHash: toHash,
		Vector:       newVec,
	}); err != nil {
		return "", nil, err
	}
	return toHash, newVec, nil
}

// AggregateFromInteractions seeds a profile by summing (or averaging)
// weighted score vectors, an alternative cold-start path independent of the
// gated learner.
func (s *ProfileService) AggregateFromInteractions(ctx context.Context, userID, labelSetHash string, interactions []Interaction, method string) (map[string]float64, error) {
	if userID == "" || labelSetHash == "" || len(interactions) == 0 {
		return nil, appErr.ErrInvalid
	}
	if method != AggregateSum && method != AggregateMean {
		return nil, appErr.ErrInvalid
	}
	if _, err := s.registry.Resolve(ctx, labelSetHash); err != nil {
		return nil, err
	}
	vector := map[string]float64{}
	for _, it := range interactions {
		weight := it.Weight
		if weight == 0 {
			weight = 1
		}
		for label, val := range it.Scores {
			vector[label] += val * weight
		}
	}
	if method == AggregateMean {
		n := float64(len(interactions))
		for label := range vector {
			vector[label] /= n
		}
	}
	if err := s.profiles.Save(ctx, &model.Profile{
		UserID:       userID,
		LabelSetHash: labelSetHash,
		Vector:       vector,
	}); err != nil {
		return nil, err
	}
	return vector, nil
}
