package matching

import (
	"context"
	"math"

	"github.com/spigell/resume-matcher/internal/ai"
)

// RelevanceScorer turns the pairwise relevance model logit into a match probability.
type RelevanceScorer struct {
	pair ai.PairScorer
}

func NewRelevanceScorer(pair ai.PairScorer) *RelevanceScorer {
	return &RelevanceScorer{pair: pair}
}

// Relevance scores the ordered (job, resume) pair. The job text is always first.
func (r *RelevanceScorer) Relevance(ctx context.Context, job, resume string) (float64, error) {
	logit, err := r.pair.ScorePair(ctx, job, resume)
	if err != nil {
		return 0, err
	}
	return Logistic(logit), nil
}

// Logistic maps a logit to (0, 1).
func Logistic(logit float64) float64 {
	return 1 / (1 + math.Exp(-logit))
}
