package matching

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/spigell/resume-matcher/internal/ai"
	"github.com/spigell/resume-matcher/internal/logger"
)

// Final score weights. They sum to 1.
const (
	PairwiseWeight       = 0.6
	EntityWeightedWeight = 0.4
)

// Models holds the three pretrained model handles used by the Engine.
type Models struct {
	Annotator ai.Annotator
	Embedder  ai.Embedder
	Pair      ai.PairScorer
}

// Engine is the scoring engine. It is built once at startup, never mutated, and
// safe for concurrent use by any number of callers.
type Engine struct {
	extractor  *Extractor
	similarity *SimilarityScorer
	relevance  *RelevanceScorer
	logger     *zap.Logger
}

func NewEngine(models Models, log *zap.Logger) (*Engine, error) {
	if models.Annotator == nil {
		return nil, errors.New("annotator model is required")
	}
	if models.Embedder == nil {
		return nil, errors.New("embedding model is required")
	}
	if models.Pair == nil {
		return nil, errors.New("relevance model is required")
	}

	log = logger.WithFields(log)
	for role, handle := range map[string]any{
		"annotator": models.Annotator,
		"embedding": models.Embedder,
		"relevance": models.Pair,
	} {
		if d, ok := handle.(ai.Describer); ok {
			log.Debug("model attached", logger.ModelFields(role, d.Provider(), d.Model())...)
		}
	}

	return &Engine{
		extractor:  NewExtractor(models.Annotator),
		similarity: NewSimilarityScorer(models.Embedder),
		relevance:  NewRelevanceScorer(models.Pair),
		logger:     log,
	}, nil
}

// Extract runs the entity extractor over one document.
func (e *Engine) Extract(ctx context.Context, text string) (EntityBundle, error) {
	return e.extractor.Extract(ctx, text)
}

// Similarity is the embedding cosine similarity of two texts.
func (e *Engine) Similarity(ctx context.Context, a, b string) (float64, error) {
	return e.similarity.Similarity(ctx, a, b)
}

// Relevance is the pairwise relevance probability of the (job, resume) pair.
func (e *Engine) Relevance(ctx context.Context, job, resume string) (float64, error) {
	return e.relevance.Relevance(ctx, job, resume)
}

// FinalScore blends the pairwise relevance with the entity-weighted score.
func (e *Engine) FinalScore(ctx context.Context, job, resume string) (float64, error) {
	breakdown, err := e.Score(ctx, job, resume)
	if err != nil {
		return 0, err
	}
	return breakdown.Final.Value, nil
}

// Score computes every component of the final score. Both branches always run;
// a model failure in either fails the call.
func (e *Engine) Score(ctx context.Context, job, resume string) (*Breakdown, error) {
	var (
		relevance float64
		buckets   bucketScores
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		score, err := e.relevance.Relevance(gctx, job, resume)
		if err != nil {
			return fmt.Errorf("pairwise relevance: %w", err)
		}
		relevance = score
		return nil
	})
	g.Go(func() error {
		scores, err := e.bucketScores(gctx, job, resume)
		if err != nil {
			return fmt.Errorf("entity weighted score: %w", err)
		}
		buckets = scores
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	entityWeighted := buckets.weighted()
	breakdown := &Breakdown{
		Pairwise:       ScoreComponent{Signal: SignalPairwise, Value: relevance},
		Skills:         ScoreComponent{Signal: SignalSkills, Value: buckets.skills},
		Experience:     ScoreComponent{Signal: SignalExperience, Value: buckets.experience},
		Education:      ScoreComponent{Signal: SignalEducation, Value: buckets.education},
		EntityWeighted: ScoreComponent{Signal: SignalEntityWeighted, Value: entityWeighted},
		Final:          ScoreComponent{Signal: SignalFinal, Value: PairwiseWeight*relevance + EntityWeightedWeight*entityWeighted},
		JobEntities:    buckets.job,
		ResumeEntities: buckets.resume,
	}

	e.logger.Debug("scored pair", logger.ScoreFields(breakdown.LogFields()...)...)

	return breakdown, nil
}
