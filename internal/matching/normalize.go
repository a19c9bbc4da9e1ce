package matching

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/spigell/resume-matcher/internal/ai"
)

// minExperienceLength is exclusive and counts characters of the trimmed sentence,
// bullet markers included.
const minExperienceLength = 30

const bulletMarkers = "•-"

var (
	entityLabels = map[string]struct{}{
		ai.LabelOrganization: {},
		ai.LabelProduct:      {},
		ai.LabelWorkOfArt:    {},
		ai.LabelGPE:          {},
		ai.LabelLanguage:     {},
	}

	educationKeywords = []string{
		"university", "college", "school", "institute", "academy",
		"bachelor", "master", "phd", "degree",
	}

	experienceKeywords = []string{
		"engineered", "developed", "built", "created", "implemented", "designed",
		"managed", "led", "architected", "reduced", "increased", "improved",
		"optimized", "deployed", "automated", "integrated", "processed",
	}

	urlPattern      = regexp.MustCompile(`(?i)https?://|www\.|\.com|\.org|\.io|linkedin|github|gmail`)
	contactPattern  = regexp.MustCompile(`@|\[[A-Z ]*REDACTED\]`)
	sectionHeaderRe = regexp.MustCompile(`(?i)^(Education|Experience|Projects|Skills|Summary|Contact)$`)
)

func isRelevantLabel(label string) bool {
	_, ok := entityLabels[label]
	return ok
}

func containsAny(lower string, keywords []string) bool {
	for _, keyword := range keywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}

func isEducation(entity string) bool {
	return containsAny(strings.ToLower(entity), educationKeywords)
}

// experienceStatement returns the cleaned sentence and true when the sentence
// qualifies as an experience statement. Exclusions are checked before inclusion.
func experienceStatement(sentence string) (string, bool) {
	text := strings.TrimSpace(sentence)

	switch {
	case urlPattern.MatchString(text):
		return "", false
	case contactPattern.MatchString(text):
		return "", false
	case sectionHeaderRe.MatchString(text):
		return "", false
	}

	if !containsAny(strings.ToLower(text), experienceKeywords) {
		return "", false
	}
	if utf8.RuneCountInString(text) <= minExperienceLength {
		return "", false
	}

	return strings.TrimSpace(strings.TrimLeft(text, bulletMarkers)), true
}

// joinBucket builds the comparison string for one bucket.
func joinBucket(items []string) string {
	return strings.Join(items, " ")
}
