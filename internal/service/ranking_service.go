package service

import (
	"context"
	"fmt"

	"github.com/Raidoxe/BERTNews/internal/config"
	"github.com/Raidoxe/BERTNews/internal/labelset"
	appErr "github.com/Raidoxe/BERTNews/internal/pkg/errors"
	"github.com/Raidoxe/BERTNews/internal/ranker"
)

type RankingService struct {
	registry  *labelset.Registry
	profiles  ProfileStore
	reads     ReadHistoryStore
	articles  ArticleStore
	labelVecs LabelEmbeddings
	learner   config.LearnerConfig
	ranking   config.RankingConfig
	rand      ranker.RandSource
}

func NewRankingService(
	registry *labelset.Registry,
	profiles ProfileStore,
	reads ReadHistoryStore,
	articles ArticleStore,
	labelVecs LabelEmbeddings,
	learnerCfg config.LearnerConfig,
	rankingCfg config.RankingConfig,
	rand ranker.RandSource,
) *RankingService {
	if rand == nil {
		rand = ranker.DefaultRand()
	}
	return &RankingService{
		registry:  registry,
		profiles:  profiles,
		reads:     reads,
		articles:  articles,
		labelVecs: labelVecs,
		learner:   learnerCfg,
		ranking:   rankingCfg,
		rand:      rand,
	}
}

// RankSparse ranks caller-supplied candidates with precomputed score
// mappings against the user's profile, falling back to raw score sums when
// no profile exists.
func (s *RankingService) RankSparse(ctx context.Context, userID, labelSetHash string, candidates []ranker.Candidate, topk int, similarity string) ([]ranker.SparseItem, error) {
	if userID == "" || labelSetHash == "" || candidates == nil {
		return nil, appErr.ErrInvalid
	}
	if similarity == "" {
		similarity = ranker.SimilarityDot
	}
	if similarity != ranker.SimilarityDot && similarity != ranker.SimilarityCosine {
		return nil, appErr.ErrInvalid
	}
	if topk <= 0 {
		topk = s.ranking.DefaultTopK
	}
	profile, hasProfile, exclude, err := s.loadUserState(ctx, userID, labelSetHash)
	if err != nil {
		return nil, err
	}
	return ranker.RankSparse(ranker.SparseInput{
		Profile:    profile,
		HasProfile: hasProfile,
		Candidates: candidates,
		Exclude:    exclude,
		TopK:       topk,
		Similarity: similarity,
		Tau:        s.learner.Tau,
		SparsifyK:  s.learner.TopK,
		ExploreP:   s.ranking.ExploreProbability,
		Rand:       s.rand,
	}), nil
}

// RankEmbeddings ranks the entire stored corpus against a synthetic user
// embedding derived from the label-set embeddings and the profile weights.
func (s *RankingService) RankEmbeddings(ctx context.Context, userID, labelSetHash string, topk int) ([]ranker.EmbeddingItem, error) {
	if userID == "" || labelSetHash == "" {
		return nil, appErr.ErrInvalid
	}
	if topk <= 0 {
		topk = s.ranking.DefaultTopK
	}
	labels, err := s.registry.Resolve(ctx, labelSetHash)
	if err != nil {
		return nil, err
	}
	labelVecs, err := s.labelVecs.Get(ctx, labelSetHash, labels)
	if err != nil {
		return nil, fmt.Errorf("%w: label embeddings: %v", appErr.ErrUpstream, err)
	}
	profile, hasProfile, exclude, err := s.loadUserState(ctx, userID, labelSetHash)
	if err != nil {
		return nil, err
	}
	articles, err := s.articles.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return ranker.RankEmbeddings(ranker.EmbeddingInput{
		Labels:     labels,
		LabelVecs:  labelVecs,
		Profile:    profile,
		HasProfile: hasProfile,
		Articles:   articles,
		Exclude:    exclude,
		TopK:       topk,
		Tau:        s.learner.Tau,
		ExploreP:   s.ranking.ExploreProbability,
		Rand:       s.rand,
	}), nil
}

func (s *RankingService) loadUserState(ctx context.Context, userID, labelSetHash string) (map[string]float64, bool, map[string]struct{}, error) {
	var vector map[string]float64
	profile, hasProfile, err := s.profiles.Get(ctx, userID, labelSetHash)
	if err != nil {
		return nil, false, nil, err
	}
	if hasProfile {
		vector = profile.Vector
	}
	exclude, err := s.reads.ListArticleIDs(ctx, userID)
	if err != nil {
		return nil, false, nil, err
	}
	return vector, hasProfile, exclude, nil
}
