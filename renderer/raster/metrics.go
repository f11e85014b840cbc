package raster

import (
	"golang.org/x/image/font"

	"github.com/ByLCY/celltable/style"
	"github.com/ByLCY/celltable/text"
)

var _ text.Metrics = (*Renderer)(nil)

// StringWidth measures s in points.
func (r *Renderer) StringWidth(s string, f style.Font, size float64) (float64, error) {
	face, err := r.face(f, size)
	if err != nil {
		return 0, err
	}
	return toFloat(font.MeasureString(face, s)), nil
}

// FontHeight is the cap height in points; faces without one report the
// ascent instead.
func (r *Renderer) FontHeight(f style.Font, size float64) (float64, error) {
	face, err := r.face(f, size)
	if err != nil {
		return 0, err
	}
	m := face.Metrics()
	if m.CapHeight > 0 {
		return toFloat(m.CapHeight), nil
	}
	return toFloat(m.Ascent), nil
}
