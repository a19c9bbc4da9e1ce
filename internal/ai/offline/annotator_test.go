package offline

import (
	"context"
	"sync"
	"testing"

	"github.com/jdkato/prose/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spigell/resume-matcher/internal/ai"
)

var (
	sharedOnce      sync.Once
	sharedAnnotator *Annotator
	sharedErr       error
)

// testAnnotator loads the models once for the tests that only read from them.
func testAnnotator(t *testing.T) *Annotator {
	t.Helper()

	sharedOnce.Do(func() {
		sharedAnnotator, sharedErr = NewAnnotator()
	})
	require.NoError(t, sharedErr)
	return sharedAnnotator
}

func labelsOf(entities []ai.Entity) map[string][]string {
	labels := make(map[string][]string)
	for _, ent := range entities {
		labels[ent.Label] = append(labels[ent.Label], ent.Text)
	}
	return labels
}

func TestAnnotateEmptyText(t *testing.T) {
	annotation, err := testAnnotator(t).Annotate(context.Background(), " \n\t")
	require.NoError(t, err)
	assert.Empty(t, annotation.Entities)
	assert.Empty(t, annotation.Sentences)
}

func TestAnnotateCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := testAnnotator(t).Annotate(ctx, "Engineered a distributed Python pipeline.")
	require.ErrorIs(t, err, context.Canceled)
}

func TestAnnotateFindsOrganizationsAndPlaces(t *testing.T) {
	annotation, err := testAnnotator(t).Annotate(context.Background(), "Worked at Microsoft and Amazon in Seattle.")
	require.NoError(t, err)

	labels := labelsOf(annotation.Entities)
	assert.NotEmpty(t, labels[ai.LabelOrganization], "entities: %v", annotation.Entities)
	assert.NotEmpty(t, labels[ai.LabelGPE], "entities: %v", annotation.Entities)
	assert.Equal(t, []string{"Worked at Microsoft and Amazon in Seattle."}, annotation.Sentences)
}

func TestAnnotateReusesLoadedModel(t *testing.T) {
	var (
		mu   sync.Mutex
		seen []*prose.Model
	)
	newDocument = func(text string, opts ...prose.DocOpt) (*prose.Document, error) {
		doc, err := prose.NewDocument(text, opts...)
		if err == nil {
			mu.Lock()
			seen = append(seen, doc.Model)
			mu.Unlock()
		}
		return doc, err
	}
	t.Cleanup(func() { newDocument = prose.NewDocument })

	first, err := NewAnnotator()
	require.NoError(t, err)
	second, err := NewAnnotator()
	require.NoError(t, err)
	require.NotNil(t, first.model)
	require.NotNil(t, second.model)

	seen = nil
	for _, a := range []*Annotator{first, second, first} {
		_, err := a.Annotate(context.Background(), "Worked at Google in Seattle.")
		require.NoError(t, err)
	}

	require.Len(t, seen, 3)
	assert.Same(t, first.model, seen[0])
	assert.Same(t, second.model, seen[1])
	assert.Same(t, first.model, seen[2])
}

func TestAnnotateSplitsHeadingLines(t *testing.T) {
	text := "Experience\n• Developed an internal tool saving 10 hours per week for the team."

	annotation, err := testAnnotator(t).Annotate(context.Background(), text)
	require.NoError(t, err)

	assert.Contains(t, annotation.Sentences, "Experience")
	for _, sent := range annotation.Sentences {
		assert.NotContains(t, sent, "\n")
	}
}

func TestNormalizeLabel(t *testing.T) {
	t.Parallel()

	assert.Equal(t, ai.LabelOrganization, normalizeLabel(" organization "))
	assert.Equal(t, ai.LabelGPE, normalizeLabel("LOCATION"))
	assert.Equal(t, ai.LabelPerson, normalizeLabel("person"))
}

func TestSplitLines(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"Skills", "Python, Go"}, splitLines("Skills\n\n  \nPython, Go"))
	assert.Empty(t, splitLines(" \n "))
}
