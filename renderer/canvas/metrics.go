package canvasrenderer

import (
	"github.com/ByLCY/celltable/style"
	"github.com/ByLCY/celltable/text"
)

var _ text.Metrics = (*Renderer)(nil)

// StringWidth measures s in points, kerning included.
func (r *Renderer) StringWidth(s string, font style.Font, size float64) (float64, error) {
	face, err := r.fontFace(font, size, style.Black)
	if err != nil {
		return 0, err
	}
	return pt(face.TextWidth(s)), nil
}

// FontHeight is the cap height in points.
func (r *Renderer) FontHeight(font style.Font, size float64) (float64, error) {
	face, err := r.fontFace(font, size, style.Black)
	if err != nil {
		return 0, err
	}
	return pt(face.Metrics().CapHeight), nil
}
