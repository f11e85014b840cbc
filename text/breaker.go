package text

import (
	"strings"

	"github.com/olekukonko/errors"

	"github.com/ByLCY/celltable/style"
)

// BreakLines wraps content greedily at whitespace so that every line fits
// maxWidth. When sup is non-nil its width must also fit next to the final
// token; otherwise that token moves to a new last line. A single token wider
// than maxWidth is emitted alone and never split. Explicit newlines start a
// new paragraph; trailing newlines are dropped. The result always holds at
// least one line.
func BreakLines(m Metrics, content string, font style.Font, size float64, sup *Fragment, maxWidth float64) ([]string, error) {
	supWidth := 0.0
	if sup != nil && sup.Text != "" {
		w, err := m.StringWidth(sup.Text, sup.Font, sup.Size)
		if err != nil {
			return nil, errors.Newf("measure superscript %q: %w", sup.Text, err)
		}
		supWidth = w
	} else {
		sup = nil
	}

	paragraphs := splitParagraphs(content)
	lines := make([]string, 0, len(paragraphs))
	for pi, paragraph := range paragraphs {
		tokens := strings.Fields(paragraph)
		if len(tokens) == 0 {
			lines = append(lines, "")
			continue
		}
		lastParagraph := pi == len(paragraphs)-1
		current := ""
		for ti, token := range tokens {
			if current == "" {
				current = token
				continue
			}
			candidate := current + " " + token
			width, err := m.StringWidth(candidate, font, size)
			if err != nil {
				return nil, errors.Newf("measure line %q: %w", candidate, err)
			}
			if sup != nil && lastParagraph && ti == len(tokens)-1 {
				width += supWidth
			}
			if maxWidth > 0 && width <= maxWidth {
				current = candidate
				continue
			}
			lines = append(lines, current)
			current = token
		}
		lines = append(lines, current)
	}
	if len(lines) == 0 {
		lines = append(lines, "")
	}
	return lines, nil
}

// SingleLine returns the content untouched as the only line, for cells with
// word breaking disabled.
func SingleLine(content string) []string { return []string{content} }

func splitParagraphs(content string) []string {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")
	paragraphs := strings.Split(content, "\n")
	// trailing breaks add no lines; blank lines in between are kept
	for len(paragraphs) > 1 && strings.TrimSpace(paragraphs[len(paragraphs)-1]) == "" {
		paragraphs = paragraphs[:len(paragraphs)-1]
	}
	return paragraphs
}
