package ingest

import (
	"regexp"
	"strings"
)

var (
	emailRe   = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)
	phoneRe   = regexp.MustCompile(`(\+?\d{1,3}[-.\s]?)?\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4}`)
	spaceRe   = regexp.MustCompile(`\s+`)
	bulletsRe = regexp.MustCompile(`[•●○■◆◇▪▫]`)
)

// CleanText redacts emails and phone numbers, normalizes bullet glyphs to
// "-" and collapses whitespace.
func CleanText(text string) string {
	text = emailRe.ReplaceAllString(text, "[EMAIL]")
	text = phoneRe.ReplaceAllString(text, "[PHONE]")
	text = spaceRe.ReplaceAllString(text, " ")
	text = bulletsRe.ReplaceAllString(text, "-")
	return strings.TrimSpace(text)
}

// Ingest extracts and cleans a document in one step.
func Ingest(mimeType string, data []byte) (string, error) {
	raw, err := ExtractText(mimeType, data)
	if err != nil {
		return "", err
	}
	text := CleanText(raw)
	if text == "" {
		return "", ErrEmptyDocument
	}
	return text, nil
}
