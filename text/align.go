package text

import (
	"unicode/utf8"

	"github.com/olekukonko/errors"

	"github.com/ByLCY/celltable/style"
)

// Placement describes one line inside its container for HorizontalOffset.
type Placement struct {
	Alignment      style.HorizontalAlignment
	ContainerX     float64
	ContainerWidth float64
	PaddingLeft    float64
	PaddingRight   float64
	TextWidth      float64
	LastLine       bool
	// SuperscriptWidth/SuperscriptPaddingRight are zero when the cell has no
	// superscript.
	SuperscriptWidth        float64
	SuperscriptPaddingRight float64
}

// HorizontalOffset returns the x coordinate where the line starts.
// RIGHT keeps room for the superscript on the last line only.
func HorizontalOffset(p Placement) float64 {
	switch p.Alignment {
	case style.Center:
		return p.ContainerX + (p.ContainerWidth-p.TextWidth)/2
	case style.Right:
		x := p.ContainerX + (p.ContainerWidth - (p.TextWidth + p.PaddingRight))
		if p.LastLine {
			x -= p.SuperscriptWidth + p.SuperscriptPaddingRight
		}
		return x
	default:
		return p.ContainerX + p.PaddingLeft
	}
}

// CharSpacing computes the inter-character spacing that stretches line to
// widthOfText. Lines of one character or lines already wider than the text
// area get zero.
func CharSpacing(m Metrics, line string, font style.Font, size, widthOfText float64) (float64, error) {
	n := utf8.RuneCountInString(line)
	if n <= 1 {
		return 0, nil
	}
	width, err := m.StringWidth(line, font, size)
	if err != nil {
		return 0, errors.Newf("measure line %q: %w", line, err)
	}
	return SpacingFor(width, n, widthOfText), nil
}

// SpacingFor is the pure part of CharSpacing.
func SpacingFor(lineWidth float64, runes int, widthOfText float64) float64 {
	if runes <= 1 {
		return 0
	}
	free := widthOfText - lineWidth
	if free <= 0 {
		return 0
	}
	return free / float64(runes-1)
}

// LineAdvance is how far the baseline moves down before drawing line index.
func LineAdvance(fontHeight, lineSpacing float64, index int) float64 {
	if index > 0 {
		return fontHeight + fontHeight*lineSpacing
	}
	return fontHeight
}

// Height is the total vertical extent of n lines, matching the sum of
// LineAdvance over all lines.
func Height(fontHeight, lineSpacing float64, lines int) float64 {
	total := 0.0
	for i := 0; i < lines; i++ {
		total += LineAdvance(fontHeight, lineSpacing, i)
	}
	return total
}
