// Package text implements line breaking and the per-line placement math
// (horizontal offsets, justification spacing, vertical advance) used when
// drawing cell content.
package text

import "github.com/ByLCY/celltable/style"

// Metrics measures text for a font at a given size. Widths and heights are
// returned in the drawing surface's unit; size is the font size in points.
type Metrics interface {
	StringWidth(s string, font style.Font, size float64) (float64, error)
	FontHeight(font style.Font, size float64) (float64, error)
}

// Fragment is a one-shot piece of text attached after the last line, such as
// a superscript. It is measured with its own font but never wrapped.
type Fragment struct {
	Text string
	Font style.Font
	Size float64
}
