package matching

import (
	"context"
	"fmt"
	"math"

	"github.com/spigell/resume-matcher/internal/ai"
)

// SimilarityScorer compares two texts by the cosine of their embeddings.
type SimilarityScorer struct {
	embedder ai.Embedder
}

func NewSimilarityScorer(embedder ai.Embedder) *SimilarityScorer {
	return &SimilarityScorer{embedder: embedder}
}

// Similarity encodes a and b in one call and returns their cosine similarity.
// The result is not clamped and may be slightly outside [0, 1].
func (s *SimilarityScorer) Similarity(ctx context.Context, a, b string) (float64, error) {
	vectors, err := s.embedder.Embed(ctx, a, b)
	if err != nil {
		return 0, err
	}
	if len(vectors) != 2 {
		return 0, ai.NewModelError("", "", "embed", fmt.Errorf("expected 2 embeddings, got %d", len(vectors)))
	}

	sim, err := Cosine(vectors[0], vectors[1])
	if err != nil {
		return 0, ai.NewModelError("", "", "embed", err)
	}

	return sim, nil
}

// Cosine returns the cosine similarity of two vectors of equal length. A zero
// vector has similarity 0 with everything.
func Cosine(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("embedding dimensions differ: %d != %d", len(a), len(b))
	}

	var dot, normA, normB float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		normA += x * x
		normB += y * y
	}

	if normA == 0 || normB == 0 {
		return 0, nil
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB)), nil
}
