package matching

import (
	"context"
	"fmt"
	"strings"

	"github.com/spigell/resume-matcher/internal/ai"
)

// Extractor classifies the annotation of a document into an EntityBundle.
type Extractor struct {
	annotator ai.Annotator
}

func NewExtractor(annotator ai.Annotator) *Extractor {
	return &Extractor{annotator: annotator}
}

// Extract returns the skills, experience statements and education found in text.
// Blank text yields an empty bundle without running the annotator.
func (x *Extractor) Extract(ctx context.Context, text string) (EntityBundle, error) {
	skills, experience, education := newOrderedSet(), newOrderedSet(), newOrderedSet()

	if strings.TrimSpace(text) == "" {
		return bundleOf(skills, experience, education), nil
	}

	annotation, err := x.annotator.Annotate(ctx, text)
	if err != nil {
		return EntityBundle{}, fmt.Errorf("annotate document: %w", err)
	}
	if annotation == nil {
		annotation = &ai.Annotation{}
	}

	for _, ent := range annotation.Entities {
		if !isRelevantLabel(ent.Label) {
			continue
		}
		if isEducation(ent.Text) {
			education.Add(ent.Text)
		} else {
			skills.Add(ent.Text)
		}
	}

	for _, sentence := range annotation.Sentences {
		if statement, ok := experienceStatement(sentence); ok {
			experience.Add(statement)
		}
	}

	return bundleOf(skills, experience, education), nil
}

func bundleOf(skills, experience, education *orderedSet) EntityBundle {
	return EntityBundle{
		Skills:     skills.Items(),
		Experience: experience.Items(),
		Education:  education.Items(),
	}
}
