package gemini

import (
	"context"
	_ "embed"
	"fmt"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/xeipuuv/gojsonschema"

	"github.com/spigell/resume-matcher/internal/ai"
)

const (
	defaultAnnotationModel = "gemini-2.5-flash"
	annotationSystem       = "You annotate documents for named entities and sentences and answer with JSON only."
)

var (
	//go:embed prompts/annotate.md
	annotatePrompt string

	//go:embed prompts/annotation.schema.json
	annotationSchemaJSON string

	annotationSchema = gojsonschema.NewStringLoader(annotationSchemaJSON)
)

// Annotator uses a Gemini model as the named-entity recognizer and sentence segmenter.
type Annotator struct {
	generator jsonGenerator
	model     string
	schema    *gojsonschema.Schema
}

var _ ai.Annotator = (*Annotator)(nil)

func NewAnnotator(generator jsonGenerator, model string) (*Annotator, error) {
	if model = strings.TrimSpace(model); model == "" {
		model = defaultAnnotationModel
	}

	schema, err := gojsonschema.NewSchema(annotationSchema)
	if err != nil {
		return nil, fmt.Errorf("compile annotation schema: %w", err)
	}

	return &Annotator{generator: generator, model: model, schema: schema}, nil
}

// Annotate returns entity spans and sentences that occur verbatim in text.
func (a *Annotator) Annotate(ctx context.Context, text string) (*ai.Annotation, error) {
	if strings.TrimSpace(text) == "" {
		return &ai.Annotation{}, nil
	}

	prompt := strings.Replace(annotatePrompt, "{{DOCUMENT}}", text, 1)
	raw, err := a.generator.GenerateJSON(ctx, a.model, annotationSystem, prompt)
	if err != nil {
		return nil, ai.NewModelError(ProviderName, a.model, "annotate", err)
	}

	annotation, err := a.decode(raw)
	if err != nil {
		return nil, ai.NewModelError(ProviderName, a.model, "annotate", err)
	}

	return groundAnnotation(annotation, text), nil
}

func (a *Annotator) Provider() string { return ProviderName }

func (a *Annotator) Model() string { return a.model }

func (a *Annotator) decode(raw string) (*ai.Annotation, error) {
	cleaned := extractJSON(raw)

	result, err := a.schema.Validate(gojsonschema.NewStringLoader(cleaned))
	if err != nil {
		return nil, fmt.Errorf("parse gemini response: %w", err)
	}
	if !result.Valid() {
		problems := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			problems = append(problems, desc.String())
		}
		return nil, fmt.Errorf("gemini annotation does not match schema: %s", strings.Join(problems, "; "))
	}

	data, err := decodeObject(cleaned)
	if err != nil {
		return nil, err
	}

	var annotation ai.Annotation
	if err := mapstructure.Decode(data, &annotation); err != nil {
		return nil, fmt.Errorf("decode gemini annotation: %w", err)
	}

	return &annotation, nil
}

// groundAnnotation drops spans the model did not copy verbatim from the source.
func groundAnnotation(in *ai.Annotation, source string) *ai.Annotation {
	out := &ai.Annotation{
		Entities:  make([]ai.Entity, 0, len(in.Entities)),
		Sentences: make([]string, 0, len(in.Sentences)),
	}

	for _, ent := range in.Entities {
		text := strings.TrimSpace(ent.Text)
		if text == "" || !strings.Contains(source, text) {
			continue
		}
		out.Entities = append(out.Entities, ai.Entity{
			Text:  text,
			Label: strings.ToUpper(strings.TrimSpace(ent.Label)),
		})
	}

	for _, sent := range in.Sentences {
		if strings.TrimSpace(sent) == "" || !strings.Contains(source, strings.TrimSpace(sent)) {
			continue
		}
		out.Sentences = append(out.Sentences, sent)
	}

	return out
}
