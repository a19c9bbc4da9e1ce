// Package offline provides model handles that run in-process without network access.
package offline

import (
	"context"
	"errors"
	"strings"

	"github.com/jdkato/prose/v2"

	"github.com/spigell/resume-matcher/internal/ai"
)

// ProviderName identifies the in-process provider in logs and errors.
const ProviderName = "prose"

const modelName = "prose-en"

var newDocument = prose.NewDocument

// Annotator runs the prose tokenizer, sentence segmenter and named-entity recognizer.
// The tagging and entity models are loaded once and only read afterwards, so an
// Annotator is safe for concurrent use.
type Annotator struct {
	model *prose.Model
}

var _ ai.Annotator = (*Annotator)(nil)

// NewAnnotator loads the bundled English models.
func NewAnnotator() (*Annotator, error) {
	doc, err := newDocument("", prose.WithSegmentation(false))
	if err != nil {
		return nil, ai.NewModelError(ProviderName, modelName, "load", err)
	}
	if doc.Model == nil {
		return nil, ai.NewModelError(ProviderName, modelName, "load", errors.New("no model loaded"))
	}

	return &Annotator{model: doc.Model}, nil
}

func (a *Annotator) Annotate(ctx context.Context, text string) (*ai.Annotation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		return &ai.Annotation{}, nil
	}

	doc, err := newDocument(text, prose.UsingModel(a.model))
	if err != nil {
		return nil, ai.NewModelError(ProviderName, modelName, "annotate", err)
	}

	annotation := &ai.Annotation{}
	for _, ent := range doc.Entities() {
		annotation.Entities = append(annotation.Entities, ai.Entity{
			Text:  ent.Text,
			Label: normalizeLabel(ent.Label),
		})
	}

	for _, sent := range doc.Sentences() {
		annotation.Sentences = append(annotation.Sentences, splitLines(sent.Text)...)
	}

	return annotation, nil
}

func (a *Annotator) Provider() string { return ProviderName }

func (a *Annotator) Model() string { return modelName }

func normalizeLabel(label string) string {
	label = strings.ToUpper(strings.TrimSpace(label))
	switch label {
	case "ORGANIZATION":
		return ai.LabelOrganization
	case "LOCATION":
		return ai.LabelGPE
	default:
		return label
	}
}

// splitLines breaks a segment at line breaks; resumes put headings and bullets on
// their own lines without terminal punctuation.
func splitLines(segment string) []string {
	lines := strings.Split(segment, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		out = append(out, line)
	}
	return out
}
