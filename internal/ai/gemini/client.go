package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/spigell/resume-matcher/internal/utils"
)

const (
	// ProviderName identifies the Gemini provider in logs and errors.
	ProviderName = "gemini"

	defaultMaxRetries   = 3
	defaultMaxLogLength = 200
	retryBaseDelay      = time.Second
	retryMaxDelay       = 20 * time.Second
)

var wait = utils.WaitFor

// models is the subset of genai.Models used by the client.
type models interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
	EmbedContent(ctx context.Context, model string, contents []*genai.Content, config *genai.EmbedContentConfig) (*genai.EmbedContentResponse, error)
}

// Options tune the shared client.
type Options struct {
	MaxRetries   int
	MaxLogLength int
}

// Client wraps the Google GenAI client with retries and request logging. It is
// shared by every Gemini-backed model handle and is safe for concurrent use.
type Client struct {
	models     models
	maxRetries int
	maxLogLen  int
	logger     *zap.Logger
}

// NewClient creates a Client configured for the Gemini API backend.
func NewClient(ctx context.Context, apiKey string, opts Options, logger *zap.Logger) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	cfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	return newClient(client.Models, opts, logger), nil
}

func newClient(m models, opts Options, logger *zap.Logger) *Client {
	if opts.MaxRetries <= 0 {
		opts.MaxRetries = defaultMaxRetries
	}
	if opts.MaxLogLength <= 0 {
		opts.MaxLogLength = defaultMaxLogLength
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		models:     m,
		maxRetries: opts.MaxRetries,
		maxLogLen:  opts.MaxLogLength,
		logger:     logger,
	}
}

// GenerateJSON sends the prompt in JSON response mode and returns the textual response.
func (c *Client) GenerateJSON(ctx context.Context, model, system, prompt string) (string, error) {
	if c == nil || c.models == nil {
		return "", errors.New("gemini client is not initialized")
	}

	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", errors.New("prompt must not be empty")
	}

	cfg := &genai.GenerateContentConfig{
		Temperature:      genai.Ptr[float32](0),
		ResponseMIMEType: "application/json",
	}
	if system = strings.TrimSpace(system); system != "" {
		cfg.SystemInstruction = &genai.Content{Parts: []*genai.Part{{Text: system}}}
	}

	c.logger.Debug("gemini generate content request",
		zap.String("model", model),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", utils.TruncateForLog(prompt, c.maxLogLen)),
	)

	var resp *genai.GenerateContentResponse
	err := c.withRetry(ctx, "generate content", func(ctx context.Context) error {
		var err error
		resp, err = c.models.GenerateContent(ctx, model, genai.Text(prompt), cfg)
		return err
	})
	if err != nil {
		return "", err
	}

	output := responseText(resp)
	if output == "" {
		return "", errors.New("gemini api returned empty response")
	}

	c.logger.Debug("gemini generate content response",
		zap.String("model", model),
		zap.Int("response_length", utf8.RuneCountInString(output)),
		zap.String("response_preview", utils.TruncateForLog(output, c.maxLogLen)),
	)

	return output, nil
}

// Embed encodes all texts in one batched request. Vectors are returned in input order.
func (c *Client) Embed(ctx context.Context, model, taskType string, dimensions int, texts []string) ([][]float32, error) {
	if c == nil || c.models == nil {
		return nil, errors.New("gemini client is not initialized")
	}
	if len(texts) == 0 {
		return nil, nil
	}

	contents := make([]*genai.Content, 0, len(texts))
	for _, text := range texts {
		contents = append(contents, genai.Text(text)...)
	}

	cfg := &genai.EmbedContentConfig{TaskType: taskType}
	if dimensions > 0 {
		cfg.OutputDimensionality = genai.Ptr(int32(dimensions))
	}

	var resp *genai.EmbedContentResponse
	err := c.withRetry(ctx, "embed content", func(ctx context.Context) error {
		var err error
		resp, err = c.models.EmbedContent(ctx, model, contents, cfg)
		return err
	})
	if err != nil {
		return nil, err
	}

	if resp == nil || len(resp.Embeddings) != len(texts) {
		got := 0
		if resp != nil {
			got = len(resp.Embeddings)
		}
		return nil, fmt.Errorf("gemini api returned %d embeddings for %d inputs", got, len(texts))
	}

	vectors := make([][]float32, 0, len(resp.Embeddings))
	for i, embedding := range resp.Embeddings {
		if embedding == nil || len(embedding.Values) == 0 {
			return nil, fmt.Errorf("gemini api returned empty embedding at index %d", i)
		}
		vectors = append(vectors, embedding.Values)
	}

	return vectors, nil
}

func (c *Client) withRetry(ctx context.Context, op string, call func(ctx context.Context) error) error {
	var lastErr error
	for attempt := 0; attempt < c.maxRetries; attempt++ {
		err := call(ctx)
		if err == nil {
			return nil
		}
		lastErr = err

		delay, retryable := retryDelay(err)
		if !retryable || attempt == c.maxRetries-1 {
			break
		}
		if delay <= 0 {
			delay = utils.Backoff(attempt, retryBaseDelay, retryMaxDelay)
		}

		c.logger.Warn("gemini request failed, retrying",
			zap.String("operation", op),
			zap.Int("attempt", attempt+1),
			zap.Int("max_attempts", c.maxRetries),
			zap.Duration("delay", delay),
			zap.Error(err),
		)

		if err := wait(ctx, delay); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}

	return fmt.Errorf("%s: %w", op, lastErr)
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}

	var builder strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil {
				continue
			}
			text := strings.TrimSpace(part.Text)
			if text == "" {
				continue
			}
			if builder.Len() > 0 {
				builder.WriteString("\n")
			}
			builder.WriteString(text)
		}
	}

	return strings.TrimSpace(builder.String())
}
