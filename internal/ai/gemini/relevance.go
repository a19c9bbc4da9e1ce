package gemini

import (
	"context"
	_ "embed"
	"fmt"
	"math"
	"strings"

	"github.com/spigell/resume-matcher/internal/ai"
)

const (
	defaultRelevanceModel = "gemini-2.5-flash"
	relevanceSystem       = "You score job/resume relevance and answer with JSON only."
)

//go:embed prompts/relevance.md
var relevancePrompt string

type jsonGenerator interface {
	GenerateJSON(ctx context.Context, model, system, prompt string) (string, error)
}

// PairScorer asks a Gemini model to read the (job, resume) pair jointly and return a
// relevance logit.
type PairScorer struct {
	generator jsonGenerator
	model     string
}

var _ ai.PairScorer = (*PairScorer)(nil)

func NewPairScorer(generator jsonGenerator, model string) *PairScorer {
	if model = strings.TrimSpace(model); model == "" {
		model = defaultRelevanceModel
	}
	return &PairScorer{generator: generator, model: model}
}

// ScorePair returns the raw logit for the ordered pair. The job text is always first.
func (p *PairScorer) ScorePair(ctx context.Context, job, resume string) (float64, error) {
	raw, err := p.generator.GenerateJSON(ctx, p.model, relevanceSystem, buildRelevancePrompt(job, resume))
	if err != nil {
		return 0, ai.NewModelError(ProviderName, p.model, "score pair", err)
	}

	logit, err := parseLogit(raw)
	if err != nil {
		return 0, ai.NewModelError(ProviderName, p.model, "score pair", err)
	}

	return logit, nil
}

func (p *PairScorer) Provider() string { return ProviderName }

func (p *PairScorer) Model() string { return p.model }

func buildRelevancePrompt(job, resume string) string {
	template := relevancePrompt
	if strings.TrimSpace(template) == "" {
		template = "Job posting:\n{{JOB}}\n\nResume:\n{{RESUME}}\n\nJSON Response:"
	}

	return fillPairTemplate(template, job, resume)
}

// fillPairTemplate substitutes both placeholders in a single pass, so placeholders
// appearing inside the texts themselves are never expanded.
func fillPairTemplate(template, job, resume string) string {
	return strings.NewReplacer("{{JOB}}", job, "{{RESUME}}", resume).Replace(template)
}

func parseLogit(raw string) (float64, error) {
	data, err := decodeObject(raw)
	if err != nil {
		return 0, err
	}

	value, ok := data["logit"]
	if !ok {
		value, ok = data["score"]
	}
	if !ok {
		return 0, fmt.Errorf("gemini response has no logit")
	}

	logit := coerceFloat(value)
	if math.IsNaN(logit) || math.IsInf(logit, 0) {
		return 0, fmt.Errorf("gemini response logit is not a number: %v", value)
	}

	return logit, nil
}
