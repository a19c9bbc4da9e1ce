// Package document turns resume and job files into plain text for scoring.
package document

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Kind is the format of a source document.
type Kind string

const (
	KindText    Kind = "text"
	KindHTML    Kind = "html"
	KindPDF     Kind = "pdf"
	KindUnknown Kind = "unknown"
)

var (
	// ErrUnsupported is returned for formats that cannot be reduced to text.
	ErrUnsupported = errors.New("unsupported document format")
	// ErrEmpty is returned when a document yields no text.
	ErrEmpty = errors.New("document has no extractable text")
)

var (
	blankLines = regexp.MustCompile(`\n{3,}`)
	spaceRun   = regexp.MustCompile(`[ \t\f\v]+`)
)

// KindOf guesses the document kind from the file extension.
func KindOf(path string) Kind {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt", ".md", ".markdown", "":
		return KindText
	case ".html", ".htm":
		return KindHTML
	case ".pdf":
		return KindPDF
	default:
		return KindUnknown
	}
}

// ExtractFile reads the file at path and returns its text.
func ExtractFile(path string) (string, error) {
	kind := KindOf(path)
	if kind == KindPDF || kind == KindUnknown {
		return "", fmt.Errorf("%s: %w (%s)", path, ErrUnsupported, kind)
	}

	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open document: %w", err)
	}
	defer f.Close()

	text, err := Extract(f, kind)
	if err != nil {
		return "", fmt.Errorf("%s: %w", path, err)
	}

	return text, nil
}

// Extract reduces the content of r to plain text.
func Extract(r io.Reader, kind Kind) (string, error) {
	var (
		text string
		err  error
	)

	switch kind {
	case KindText:
		text, err = extractText(r)
	case KindHTML:
		text, err = extractHTML(r)
	default:
		return "", fmt.Errorf("%w (%s)", ErrUnsupported, kind)
	}
	if err != nil {
		return "", err
	}

	text = normalize(text)
	if text == "" {
		return "", ErrEmpty
	}

	return text, nil
}

func extractText(r io.Reader) (string, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("read document: %w", err)
	}
	if bytes.IndexByte(raw, 0) != -1 {
		return "", fmt.Errorf("%w (binary content)", ErrUnsupported)
	}
	return string(raw), nil
}

func extractHTML(r io.Reader) (string, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}

	doc.Find("script, style, nav, header, footer, iframe, noscript").Remove()

	var blocks []string
	doc.Find("h1, h2, h3, h4, h5, h6, p, li, td, dt, dd").Each(func(_ int, s *goquery.Selection) {
		// Nested blocks are collected through their innermost element.
		if s.Find("p, li").Length() > 0 {
			return
		}
		if text := strings.TrimSpace(s.Text()); text != "" {
			blocks = append(blocks, text)
		}
	})
	if len(blocks) > 0 {
		return strings.Join(blocks, "\n"), nil
	}

	return doc.Find("body").Text(), nil
}

// normalize collapses horizontal whitespace and runs of blank lines while keeping
// line structure, which sentence segmentation relies on.
func normalize(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(spaceRun.ReplaceAllString(line, " "))
	}
	text = strings.Join(lines, "\n")
	return strings.TrimSpace(blankLines.ReplaceAllString(text, "\n\n"))
}
