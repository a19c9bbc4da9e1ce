// Package anonymize strips contact details from resume text before it is scored.
package anonymize

import (
	"regexp"

	"go.uber.org/zap"

	"github.com/spigell/resume-matcher/internal/logger"
)

// Redaction markers. The matching extractor drops any sentence carrying one.
const (
	EmailMarker = "[EMAIL REDACTED]"
	URLMarker   = "[URL REDACTED]"
	PhoneMarker = "[PHONE REDACTED]"
)

type rule struct {
	name    string
	pattern *regexp.Regexp
	marker  string
}

// Rules run in order: e-mails before URLs so that the domain of an address is not
// redacted twice, URLs before phones so that digits in paths survive as part of the URL.
var rules = []rule{
	{
		name:    "email",
		pattern: regexp.MustCompile(`(?i)(mailto:)?[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,}`),
		marker:  EmailMarker,
	},
	{
		name:    "url",
		pattern: regexp.MustCompile(`(?i)\b(https?://|www\.)[^\s<>()\[\],;]*[^\s<>()\[\],;.]|\b[a-z0-9\-]+\.(com|org|io|dev)(/[^\s<>()\[\],;]*[^\s<>()\[\],;.])?`),
		marker:  URLMarker,
	},
	{
		name:    "phone",
		pattern: regexp.MustCompile(`\+?\(?\d{1,4}\)?[\s.\-]?\(?\d{2,4}\)?[\s.\-]?\d{3,4}[\s.\-]?\d{2,4}`),
		marker:  PhoneMarker,
	},
}

// Anonymizer replaces e-mail addresses, URLs and phone numbers with redaction markers.
// It is best effort and idempotent.
type Anonymizer struct {
	logger *zap.Logger
}

func New(log *zap.Logger) *Anonymizer {
	return &Anonymizer{logger: logger.WithFields(log)}
}

// Anonymize returns text with every recognised contact detail redacted.
func (a *Anonymizer) Anonymize(text string) string {
	for _, r := range rules {
		count := 0
		text = r.pattern.ReplaceAllStringFunc(text, func(string) string {
			count++
			return r.marker
		})
		if count > 0 {
			a.logger.Debug("redacted contact details", zap.String("kind", r.name), zap.Int("count", count))
		}
	}
	return text
}
