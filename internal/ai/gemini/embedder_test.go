package gemini

import (
	"context"
	"errors"
	"testing"

	"github.com/spigell/resume-matcher/internal/ai"
)

type stubEncoder struct {
	vectors    [][]float32
	err        error
	model      string
	taskType   string
	dimensions int
	texts      []string
}

func (s *stubEncoder) Embed(_ context.Context, model, taskType string, dimensions int, texts []string) ([][]float32, error) {
	s.model, s.taskType, s.dimensions, s.texts = model, taskType, dimensions, texts
	return s.vectors, s.err
}

func TestEmbedderPassesConfiguration(t *testing.T) {
	stub := &stubEncoder{vectors: [][]float32{{1, 2}, {3, 4}}}
	embedder := NewEmbedder(stub, "", -5)

	vectors, err := embedder.Embed(context.Background(), "Python", "Go")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(vectors) != 2 {
		t.Fatalf("expected 2 vectors, got %d", len(vectors))
	}
	if stub.model != defaultEmbeddingModel {
		t.Fatalf("expected default model, got %q", stub.model)
	}
	if stub.taskType != similarityTaskType {
		t.Fatalf("unexpected task type %q", stub.taskType)
	}
	if stub.dimensions != 0 {
		t.Fatalf("expected default dimensions, got %d", stub.dimensions)
	}
	if len(stub.texts) != 2 || stub.texts[0] != "Python" {
		t.Fatalf("unexpected texts %v", stub.texts)
	}
}

func TestEmbedderWrapsFailures(t *testing.T) {
	embedder := NewEmbedder(&stubEncoder{err: errors.New("boom")}, "text-embedding-004", 0)

	_, err := embedder.Embed(context.Background(), "a", "b")
	if !errors.Is(err, ai.ErrModelUnavailable) {
		t.Fatalf("expected ErrModelUnavailable, got %v", err)
	}

	var modelErr *ai.ModelError
	if !errors.As(err, &modelErr) || modelErr.Model != "text-embedding-004" || modelErr.Op != "embed" {
		t.Fatalf("unexpected model error: %+v", modelErr)
	}
}
