package ai

import "context"

// Annotator runs a natural-language annotation pass over a document.
type Annotator interface {
	Annotate(ctx context.Context, text string) (*Annotation, error)
}

// Embedder encodes texts into fixed-size dense vectors with one shared encoder.
// Vectors are returned in input order.
type Embedder interface {
	Embed(ctx context.Context, texts ...string) ([][]float32, error)
}

// PairScorer jointly reads an ordered text pair and returns a raw relevance logit.
type PairScorer interface {
	ScorePair(ctx context.Context, first, second string) (float64, error)
}

// Describer is implemented by model handles that can name themselves for logging.
type Describer interface {
	Provider() string
	Model() string
}
