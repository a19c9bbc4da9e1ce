package gemini

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

type generateCall struct {
	model    string
	contents []*genai.Content
	config   *genai.GenerateContentConfig
}

type embedCall struct {
	model    string
	contents []*genai.Content
	config   *genai.EmbedContentConfig
}

type fakeGenerate struct {
	resp *genai.GenerateContentResponse
	err  error
}

type fakeEmbed struct {
	resp *genai.EmbedContentResponse
	err  error
}

type fakeModels struct {
	mu            sync.Mutex
	generateQueue []fakeGenerate
	embedQueue    []fakeEmbed
	generateCalls []generateCall
	embedCalls    []embedCall
}

func (f *fakeModels) GenerateContent(_ context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.generateCalls = append(f.generateCalls, generateCall{model: model, contents: contents, config: config})
	if len(f.generateQueue) == 0 {
		return nil, errors.New("unexpected call")
	}
	next := f.generateQueue[0]
	f.generateQueue = f.generateQueue[1:]
	return next.resp, next.err
}

func (f *fakeModels) EmbedContent(_ context.Context, model string, contents []*genai.Content, config *genai.EmbedContentConfig) (*genai.EmbedContentResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.embedCalls = append(f.embedCalls, embedCall{model: model, contents: contents, config: config})
	if len(f.embedQueue) == 0 {
		return nil, errors.New("unexpected call")
	}
	next := f.embedQueue[0]
	f.embedQueue = f.embedQueue[1:]
	return next.resp, next.err
}

func textResponse(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{{Text: text}}},
		}},
	}
}

func noWait(t *testing.T) {
	t.Helper()
	original := wait
	wait = func(context.Context, time.Duration) error { return nil }
	t.Cleanup(func() { wait = original })
}

func TestClientGenerateJSONRetriesOnTemporaryError(t *testing.T) {
	noWait(t)

	models := &fakeModels{generateQueue: []fakeGenerate{
		{err: genai.APIError{Code: http.StatusInternalServerError, Status: "INTERNAL"}},
		{resp: textResponse(`{"logit": 2.5}`)},
	}}
	client := newClient(models, Options{MaxRetries: 2}, zap.NewNop())

	output, err := client.GenerateJSON(context.Background(), "gemini-pro", "system", "message")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if output != `{"logit": 2.5}` {
		t.Fatalf("unexpected output: %q", output)
	}
	if len(models.generateCalls) != 2 {
		t.Fatalf("expected 2 calls, got %d", len(models.generateCalls))
	}

	for _, call := range models.generateCalls {
		if call.model != "gemini-pro" {
			t.Fatalf("unexpected model: %q", call.model)
		}
		if call.config == nil || call.config.SystemInstruction == nil {
			t.Fatalf("expected system instruction to be set")
		}
		if got := call.config.SystemInstruction.Parts[0].Text; got != "system" {
			t.Fatalf("unexpected system instruction: %q", got)
		}
		if call.config.ResponseMIMEType != "application/json" {
			t.Fatalf("expected json response mode, got %q", call.config.ResponseMIMEType)
		}
		if len(call.contents) != 1 || call.contents[0].Parts[0].Text != "message" {
			t.Fatalf("unexpected contents: %+v", call.contents)
		}
	}
}

func TestClientStopsAfterRetriesExhausted(t *testing.T) {
	noWait(t)

	tempErr := genai.APIError{Code: http.StatusServiceUnavailable, Status: "UNAVAILABLE"}
	models := &fakeModels{generateQueue: []fakeGenerate{{err: tempErr}, {err: tempErr}}}
	client := newClient(models, Options{MaxRetries: 2}, zap.NewNop())

	_, err := client.GenerateJSON(context.Background(), "gemini-pro", "sys", "msg")
	if err == nil {
		t.Fatal("expected error after retries exhausted")
	}
	if len(models.generateCalls) != 2 {
		t.Fatalf("expected 2 calls, got %d", len(models.generateCalls))
	}
}

func TestClientDoesNotRetryOnLongQuotaDelay(t *testing.T) {
	noWait(t)

	models := &fakeModels{generateQueue: []fakeGenerate{{err: genai.APIError{
		Code:    http.StatusTooManyRequests,
		Status:  "RESOURCE_EXHAUSTED",
		Message: "quota exhausted, retry after 60 seconds",
	}}}}
	client := newClient(models, Options{MaxRetries: 3}, zap.NewNop())

	_, err := client.GenerateJSON(context.Background(), "gemini-pro", "sys", "msg")
	if err == nil {
		t.Fatal("expected error when quota delay too long")
	}
	if len(models.generateCalls) != 1 {
		t.Fatalf("expected single call, got %d", len(models.generateCalls))
	}
}

func TestClientDoesNotRetryClientErrors(t *testing.T) {
	noWait(t)

	models := &fakeModels{generateQueue: []fakeGenerate{{err: genai.APIError{Code: http.StatusBadRequest, Status: "INVALID_ARGUMENT"}}}}
	client := newClient(models, Options{MaxRetries: 3}, zap.NewNop())

	if _, err := client.GenerateJSON(context.Background(), "gemini-pro", "", "msg"); err == nil {
		t.Fatal("expected error")
	}
	if len(models.generateCalls) != 1 {
		t.Fatalf("expected single call, got %d", len(models.generateCalls))
	}
	if models.generateCalls[0].config.SystemInstruction != nil {
		t.Fatalf("expected no system instruction for empty system prompt")
	}
}

func TestClientGenerateJSONRejectsEmptyResponse(t *testing.T) {
	models := &fakeModels{generateQueue: []fakeGenerate{{resp: textResponse("   ")}}}
	client := newClient(models, Options{}, zap.NewNop())

	if _, err := client.GenerateJSON(context.Background(), "gemini-pro", "", "msg"); err == nil {
		t.Fatal("expected error for empty response")
	}
	if _, err := client.GenerateJSON(context.Background(), "gemini-pro", "", "  "); err == nil {
		t.Fatal("expected error for empty prompt")
	}
}

func TestClientEmbedBatchesInputs(t *testing.T) {
	models := &fakeModels{embedQueue: []fakeEmbed{{resp: &genai.EmbedContentResponse{
		Embeddings: []*genai.ContentEmbedding{
			{Values: []float32{1, 0}},
			{Values: []float32{0, 1}},
		},
	}}}}
	client := newClient(models, Options{}, zap.NewNop())

	vectors, err := client.Embed(context.Background(), "text-embedding-004", similarityTaskType, 256, []string{"Python", "Go"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(vectors) != 2 || vectors[1][1] != 1 {
		t.Fatalf("unexpected vectors: %v", vectors)
	}

	if len(models.embedCalls) != 1 {
		t.Fatalf("expected a single batched call, got %d", len(models.embedCalls))
	}
	call := models.embedCalls[0]
	if len(call.contents) != 2 || call.contents[0].Parts[0].Text != "Python" || call.contents[1].Parts[0].Text != "Go" {
		t.Fatalf("unexpected contents: %+v", call.contents)
	}
	if call.config.TaskType != similarityTaskType {
		t.Fatalf("unexpected task type: %q", call.config.TaskType)
	}
	if call.config.OutputDimensionality == nil || *call.config.OutputDimensionality != 256 {
		t.Fatalf("expected output dimensionality 256")
	}
}

func TestClientEmbedRejectsMismatchedResponse(t *testing.T) {
	models := &fakeModels{embedQueue: []fakeEmbed{{resp: &genai.EmbedContentResponse{
		Embeddings: []*genai.ContentEmbedding{{Values: []float32{1}}},
	}}}}
	client := newClient(models, Options{}, zap.NewNop())

	if _, err := client.Embed(context.Background(), "m", similarityTaskType, 0, []string{"a", "b"}); err == nil {
		t.Fatal("expected error for mismatched embedding count")
	}
}

func TestRetryDelay(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		err       error
		delay     time.Duration
		retryable bool
	}{
		{name: "nil", err: nil},
		{name: "plain error", err: errors.New("boom")},
		{name: "context", err: context.Canceled},
		{name: "server error", err: genai.APIError{Code: http.StatusInternalServerError}, retryable: true},
		{name: "gateway timeout pointer", err: &genai.APIError{Code: http.StatusGatewayTimeout}, retryable: true},
		{name: "short quota", err: genai.APIError{Code: http.StatusTooManyRequests, Message: "Please retry in 2.5s."}, delay: 2500 * time.Millisecond, retryable: true},
		{name: "quota in ms", err: genai.APIError{Code: http.StatusTooManyRequests, Message: "retry after 300 ms"}, delay: 300 * time.Millisecond, retryable: true},
		{name: "quota without hint", err: genai.APIError{Code: http.StatusTooManyRequests}, retryable: true},
		{name: "long quota", err: genai.APIError{Code: http.StatusTooManyRequests, Message: "retry after 120 seconds"}},
		{name: "forbidden", err: genai.APIError{Code: http.StatusForbidden}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			delay, retryable := retryDelay(tt.err)
			if retryable != tt.retryable {
				t.Fatalf("expected retryable=%v, got %v", tt.retryable, retryable)
			}
			if delay != tt.delay {
				t.Fatalf("expected delay %s, got %s", tt.delay, delay)
			}
		})
	}
}
