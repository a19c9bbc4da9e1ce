package cmd

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spigell/resume-matcher/internal/ai"
	"github.com/spigell/resume-matcher/internal/ai/gemini"
	"github.com/spigell/resume-matcher/internal/ai/offline"
	"github.com/spigell/resume-matcher/internal/anonymize"
	"github.com/spigell/resume-matcher/internal/catalog"
	"github.com/spigell/resume-matcher/internal/document"
	"github.com/spigell/resume-matcher/internal/logger"
	"github.com/spigell/resume-matcher/internal/matching"
	"github.com/spigell/resume-matcher/internal/secrets"
)

const annotatorProviderGemini = "gemini"

// modelSet builds model handles from the config. The Gemini client is created on
// first use, so offline-only commands never need an api key.
type modelSet struct {
	ctx    context.Context
	config *Config
	logger *zap.Logger
	client *gemini.Client
	loaded ai.Annotator
}

func newModelSet(ctx context.Context, config *Config, log *zap.Logger) *modelSet {
	return &modelSet{ctx: ctx, config: config, logger: log}
}

func (m *modelSet) gemini() (*gemini.Client, error) {
	if m.client != nil {
		return m.client, nil
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name:  "gemini api key",
		Value: m.config.Gemini.APIKey,
		Env:   "GEMINI_API_KEY",
		File:  m.config.Gemini.APIKeyFile,
	})
	if err != nil {
		return nil, err
	}

	client, err := gemini.NewClient(m.ctx, apiKey, gemini.Options{
		MaxRetries:   m.config.Gemini.MaxRetries,
		MaxLogLength: m.config.Gemini.MaxLogLength,
	}, logger.WithModelFields(m.logger, "client", gemini.ProviderName, ""))
	if err != nil {
		return nil, ai.NewModelError(gemini.ProviderName, "", "connect", err)
	}

	m.client = client
	return client, nil
}

// annotator loads the configured annotator once and reuses it afterwards.
func (m *modelSet) annotator() (ai.Annotator, error) {
	if m.loaded != nil {
		return m.loaded, nil
	}

	cfg := m.config.Models.Annotator
	if cfg.Provider != annotatorProviderGemini {
		annotator, err := offline.NewAnnotator()
		if err != nil {
			return nil, err
		}
		m.loaded = annotator
		return annotator, nil
	}

	client, err := m.gemini()
	if err != nil {
		return nil, err
	}

	annotator, err := gemini.NewAnnotator(client, cfg.Model)
	if err != nil {
		return nil, ai.NewModelError(gemini.ProviderName, cfg.Model, "load annotator", err)
	}
	m.loaded = annotator
	return annotator, nil
}

func (m *modelSet) engine() (*matching.Engine, error) {
	annotator, err := m.annotator()
	if err != nil {
		return nil, fmt.Errorf("annotator: %w", err)
	}

	client, err := m.gemini()
	if err != nil {
		return nil, err
	}

	models := matching.Models{
		Annotator: annotator,
		Embedder:  gemini.NewEmbedder(client, m.config.Models.Embedding.Model, m.config.Models.Embedding.Dimensions),
		Pair:      gemini.NewPairScorer(client, m.config.Models.Relevance.Model),
	}

	return matching.NewEngine(models, m.logger)
}

// redactor returns the anonymizer when anonymization is enabled.
func redactor(config *Config, log *zap.Logger) catalog.Redactor {
	if !config.Anonymize {
		return nil
	}
	return anonymize.New(log)
}

// readDocument extracts a file and redacts it when r is set.
func readDocument(path string, r catalog.Redactor) (string, error) {
	text, err := document.ExtractFile(path)
	if err != nil {
		return "", err
	}
	if r != nil {
		text = r.Anonymize(text)
	}
	return text, nil
}
