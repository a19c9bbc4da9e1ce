package gemini

import (
	"context"
	"strings"

	"github.com/spigell/resume-matcher/internal/ai"
)

const (
	defaultEmbeddingModel = "text-embedding-004"
	similarityTaskType    = "SEMANTIC_SIMILARITY"
)

type vectorEncoder interface {
	Embed(ctx context.Context, model, taskType string, dimensions int, texts []string) ([][]float32, error)
}

// Embedder is the shared sentence-embedding encoder backed by the Gemini embedding API.
type Embedder struct {
	encoder    vectorEncoder
	model      string
	dimensions int
}

var _ ai.Embedder = (*Embedder)(nil)

// NewEmbedder returns an Embedder. A non-positive dimensions keeps the model default.
func NewEmbedder(encoder vectorEncoder, model string, dimensions int) *Embedder {
	if model = strings.TrimSpace(model); model == "" {
		model = defaultEmbeddingModel
	}
	if dimensions < 0 {
		dimensions = 0
	}

	return &Embedder{encoder: encoder, model: model, dimensions: dimensions}
}

// Embed encodes texts in one request.
func (e *Embedder) Embed(ctx context.Context, texts ...string) ([][]float32, error) {
	vectors, err := e.encoder.Embed(ctx, e.model, similarityTaskType, e.dimensions, texts)
	if err != nil {
		return nil, ai.NewModelError(ProviderName, e.model, "embed", err)
	}
	return vectors, nil
}

func (e *Embedder) Provider() string { return ProviderName }

func (e *Embedder) Model() string { return e.model }
