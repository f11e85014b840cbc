package raster

import (
	"image/color"

	"github.com/fogleman/gg"

	"github.com/ByLCY/celltable/draw"
	"github.com/ByLCY/celltable/style"
)

// Surface implements draw.Surface on a gg context. Engine coordinates have
// the origin bottom-left in pt; gg has it top-left in px.
// A Surface is not safe for concurrent use.
type Surface struct {
	dc         *gg.Context
	fonts      *Renderer
	scale      float64
	pageHeight float64
	state      draw.State
}

var _ draw.Surface = (*Surface)(nil)

// NewSurface wraps dc for a page pageHeight pt tall drawn at scale px/pt.
func NewSurface(dc *gg.Context, r *Renderer, pageHeight, scale float64) *Surface {
	return &Surface{dc: dc, fonts: r, scale: scale, pageHeight: pageHeight, state: draw.DefaultState()}
}

// State returns the current graphics state.
func (s *Surface) State() draw.State { return s.state }

func (s *Surface) px(x float64) float64 { return x * s.scale }

func (s *Surface) py(y float64) float64 { return (s.pageHeight - y) * s.scale }

func (s *Surface) BeginText() error { return s.state.Begin() }

func (s *Surface) EndText() error { return s.state.End() }

func (s *Surface) SetTextRise(rise float64) error {
	s.state.TextRise = rise
	return nil
}

func (s *Surface) SetFont(f style.Font, size float64) error {
	s.state.Font = f
	s.state.FontSize = size
	return nil
}

func (s *Surface) NewLineAtOffset(x, y float64) error { return s.state.Offset(x, y) }

// ShowText draws the string on the baseline raised by the text rise. Widths
// come from the pt metrics so the advance matches layout exactly.
func (s *Surface) ShowText(str string) error {
	if err := s.state.CanShow(); err != nil {
		return err
	}
	face, err := s.fonts.face(s.state.Font, s.state.FontSize*s.scale)
	if err != nil {
		return err
	}
	s.dc.SetFontFace(face)
	s.dc.SetColor(toColor(s.state.FillColor))
	x := s.state.TextX + s.state.TextAdvance
	y := s.state.TextY + s.state.TextRise
	if s.state.CharSpacing == 0 {
		w, err := s.fonts.StringWidth(str, s.state.Font, s.state.FontSize)
		if err != nil {
			return err
		}
		s.dc.DrawString(str, s.px(x), s.py(y))
		s.state.TextAdvance += w
		return nil
	}
	for _, r := range str {
		glyph := string(r)
		w, err := s.fonts.StringWidth(glyph, s.state.Font, s.state.FontSize)
		if err != nil {
			return err
		}
		s.dc.DrawString(glyph, s.px(x), s.py(y))
		x += w + s.state.CharSpacing
	}
	s.state.TextAdvance = x - s.state.TextX
	return nil
}

func (s *Surface) SetCharacterSpacing(spacing float64) error {
	s.state.CharSpacing = spacing
	return nil
}

func (s *Surface) SetNonStrokingColor(c style.Color) error {
	s.state.FillColor = c
	return nil
}

func (s *Surface) SetStrokingColor(c style.Color) error {
	s.state.StrokeColor = c
	return nil
}

func (s *Surface) SetLineWidth(width float64) error {
	s.state.LineWidth = width
	return nil
}

func (s *Surface) SetLineDashPattern(pattern []float64, phase float64) error {
	s.state.SetDash(pattern, phase)
	return nil
}

func (s *Surface) MoveTo(x, y float64) error {
	s.dc.MoveTo(s.px(x), s.py(y))
	return nil
}

func (s *Surface) LineTo(x, y float64) error {
	s.dc.LineTo(s.px(x), s.py(y))
	return nil
}

func (s *Surface) AddRect(x, y, width, height float64) error {
	s.dc.NewSubPath()
	s.dc.MoveTo(s.px(x), s.py(y))
	s.dc.LineTo(s.px(x+width), s.py(y))
	s.dc.LineTo(s.px(x+width), s.py(y+height))
	s.dc.LineTo(s.px(x), s.py(y+height))
	s.dc.ClosePath()
	return nil
}

// Stroke paints the current path. gg keeps a single color, so the stroke
// color is applied right before painting.
func (s *Surface) Stroke() error {
	dashes := make([]float64, len(s.state.Dash))
	for i, d := range s.state.Dash {
		dashes[i] = s.px(d)
	}
	s.dc.SetColor(toColor(s.state.StrokeColor))
	s.dc.SetLineWidth(s.px(s.state.LineWidth))
	s.dc.SetDash(dashes...)
	s.dc.SetDashOffset(s.px(s.state.DashPhase))
	s.dc.Stroke()
	return nil
}

func (s *Surface) Fill() error {
	s.dc.SetColor(toColor(s.state.FillColor))
	s.dc.Fill()
	return nil
}

func toColor(c style.Color) color.Color {
	return color.RGBA{R: uint8(c.R), G: uint8(c.G), B: uint8(c.B), A: 0xff}
}
