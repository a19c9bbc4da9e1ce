package matching

import (
	"context"
	"hash/fnv"
	"sort"
	"strings"
	"sync"
	"unicode"

	"github.com/spigell/resume-matcher/internal/ai"
)

// fakeAnnotator tags known terms and splits sentences on line breaks and ". ".
type fakeAnnotator struct {
	terms map[string]string
	err   error

	mu    sync.Mutex
	calls int
}

func (f *fakeAnnotator) Annotate(_ context.Context, text string) (*ai.Annotation, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}

	type hit struct {
		pos int
		ent ai.Entity
	}
	var hits []hit
	for term, label := range f.terms {
		offset := 0
		for {
			idx := strings.Index(text[offset:], term)
			if idx == -1 {
				break
			}
			hits = append(hits, hit{pos: offset + idx, ent: ai.Entity{Text: term, Label: label}})
			offset += idx + len(term)
		}
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].pos < hits[j].pos })

	annotation := &ai.Annotation{}
	for _, h := range hits {
		annotation.Entities = append(annotation.Entities, h.ent)
	}
	for _, line := range strings.Split(text, "\n") {
		for _, sent := range strings.SplitAfter(line, ". ") {
			if strings.TrimSpace(sent) != "" {
				annotation.Sentences = append(annotation.Sentences, sent)
			}
		}
	}

	return annotation, nil
}

func (f *fakeAnnotator) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// bagOfWordsEmbedder hashes lower-cased word tokens into a fixed-size vector.
type bagOfWordsEmbedder struct {
	err error

	mu     sync.Mutex
	inputs [][]string
}

const fakeDimensions = 4096

func (b *bagOfWordsEmbedder) Embed(_ context.Context, texts ...string) ([][]float32, error) {
	b.mu.Lock()
	b.inputs = append(b.inputs, texts)
	b.mu.Unlock()
	if b.err != nil {
		return nil, b.err
	}

	vectors := make([][]float32, 0, len(texts))
	for _, text := range texts {
		vec := make([]float32, fakeDimensions)
		for _, token := range tokens(text) {
			h := fnv.New32a()
			_, _ = h.Write([]byte(token))
			vec[h.Sum32()%fakeDimensions]++
		}
		vectors = append(vectors, vec)
	}
	return vectors, nil
}

func (b *bagOfWordsEmbedder) Calls() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.inputs)
}

// overlapPairScorer maps token overlap of the pair to a logit in [-4, 4].
type overlapPairScorer struct {
	err error

	mu    sync.Mutex
	pairs [][2]string
}

func (o *overlapPairScorer) ScorePair(_ context.Context, first, second string) (float64, error) {
	o.mu.Lock()
	o.pairs = append(o.pairs, [2]string{first, second})
	o.mu.Unlock()
	if o.err != nil {
		return 0, o.err
	}

	a, b := tokenSet(first), tokenSet(second)
	if len(a) == 0 || len(b) == 0 {
		return -4, nil
	}
	shared := 0
	for token := range a {
		if _, ok := b[token]; ok {
			shared++
		}
	}
	union := len(a) + len(b) - shared
	return 8*float64(shared)/float64(union) - 4, nil
}

func tokens(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

func tokenSet(text string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, token := range tokens(text) {
		set[token] = struct{}{}
	}
	return set
}

var techTerms = map[string]string{
	"Google":                     ai.LabelOrganization,
	"Python":                     ai.LabelProduct,
	"Distributed Systems":        ai.LabelProduct,
	"Adobe Photoshop":            ai.LabelProduct,
	"Illustrator":                ai.LabelProduct,
	"University of Calgary":      ai.LabelOrganization,
	"Bachelor of Science":        ai.LabelWorkOfArt,
	"Rhode Island School of Art": ai.LabelOrganization,
	"Jane Doe":                   ai.LabelPerson,
	"2021":                       ai.LabelDate,
}
