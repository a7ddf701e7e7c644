// Package strategy extracts condensed strategy context from uploaded
// PDF documents.
package strategy

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"

	"boardbrief/internal/logger"
)

// ContextLimit caps condensed strategy text embedded into prompts.
const ContextLimit = 20000

// ErrNoText is returned when a PDF parses cleanly but contains no
// extractable text, typically a scanned document.
var ErrNoText = errors.New("no extractable text in PDF")

// ExtractContext parses a PDF held in memory and returns its text
// condensed to a single whitespace-normalized string capped at
// ContextLimit characters.
func ExtractContext(data []byte) (string, error) {
	text, err := Extract(data)
	if err != nil {
		return "", err
	}
	return capRunes(text, ContextLimit), nil
}

// capRunes cuts s to at most limit bytes without splitting a UTF-8
// sequence at the boundary.
func capRunes(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	for limit > 0 && !utf8.RuneStart(s[limit]) {
		limit--
	}
	return s[:limit]
}

// Extract parses a PDF held in memory and returns its full condensed
// text without the prompt cap. Callers that embed the text into a
// prompt apply their own limit.
func Extract(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}

	var textBuilder strings.Builder
	pageCount := reader.NumPage()
	for i := 1; i <= pageCount; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			// A single bad page should not sink the document.
			logger.Warn("failed to extract text from PDF page", "page", i, "error", err.Error())
			continue
		}
		textBuilder.WriteString(pageText)
		textBuilder.WriteString("\n")
	}

	condensed := Condense(textBuilder.String())
	if condensed == "" {
		return "", ErrNoText
	}
	return condensed, nil
}

// Condense collapses all whitespace runs to single spaces and strips
// NUL bytes some extractors leave behind.
func Condense(raw string) string {
	raw = strings.ReplaceAll(raw, "\x00", " ")
	return strings.Join(strings.Fields(raw), " ")
}
