package canvasrenderer

import (
	"image/color"

	"github.com/tdewolff/canvas"

	"github.com/ByLCY/celltable/draw"
	"github.com/ByLCY/celltable/style"
)

// Surface implements draw.Surface on a canvas context set to CartesianI, so
// engine points map to canvas millimetres with the origin bottom-left.
// A Surface is not safe for concurrent use.
type Surface struct {
	ctx   *canvas.Context
	fonts *Renderer
	state draw.State
	path  *canvas.Path
}

var _ draw.Surface = (*Surface)(nil)

// NewSurface wraps ctx; fonts are resolved through r.
func NewSurface(ctx *canvas.Context, r *Renderer) *Surface {
	ctx.SetCoordSystem(canvas.CartesianI)
	return &Surface{ctx: ctx, fonts: r, state: draw.DefaultState()}
}

// State returns the current graphics state.
func (s *Surface) State() draw.State { return s.state }

func (s *Surface) BeginText() error { return s.state.Begin() }

func (s *Surface) EndText() error { return s.state.End() }

func (s *Surface) SetTextRise(rise float64) error {
	s.state.TextRise = rise
	return nil
}

func (s *Surface) SetFont(font style.Font, size float64) error {
	s.state.Font = font
	s.state.FontSize = size
	return nil
}

func (s *Surface) NewLineAtOffset(x, y float64) error { return s.state.Offset(x, y) }

// ShowText draws at the text position shifted up by the rise. With non-zero
// character spacing every rune is placed on its own.
func (s *Surface) ShowText(str string) error {
	if err := s.state.CanShow(); err != nil {
		return err
	}
	face, err := s.fonts.fontFace(s.state.Font, s.state.FontSize, s.state.FillColor)
	if err != nil {
		return err
	}
	x := s.state.TextX + s.state.TextAdvance
	y := s.state.TextY + s.state.TextRise
	if s.state.CharSpacing == 0 {
		s.ctx.DrawText(mm(x), mm(y), canvas.NewTextLine(face, str, canvas.Left))
		s.state.TextAdvance += pt(face.TextWidth(str))
		return nil
	}
	for _, r := range str {
		glyph := string(r)
		s.ctx.DrawText(mm(x), mm(y), canvas.NewTextLine(face, glyph, canvas.Left))
		x += pt(face.TextWidth(glyph)) + s.state.CharSpacing
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
	if s.path == nil {
		s.path = &canvas.Path{}
	}
	s.path.MoveTo(mm(x), mm(y))
	return nil
}

func (s *Surface) LineTo(x, y float64) error {
	if s.path == nil {
		s.path = &canvas.Path{}
	}
	s.path.LineTo(mm(x), mm(y))
	return nil
}

func (s *Surface) AddRect(x, y, width, height float64) error {
	if err := s.MoveTo(x, y); err != nil {
		return err
	}
	s.path.LineTo(mm(x+width), mm(y))
	s.path.LineTo(mm(x+width), mm(y+height))
	s.path.LineTo(mm(x), mm(y+height))
	s.path.Close()
	return nil
}

// Stroke paints the current path with the stroke state and clears it.
func (s *Surface) Stroke() error {
	if s.path == nil {
		return nil
	}
	dashes := make([]float64, len(s.state.Dash))
	for i, d := range s.state.Dash {
		dashes[i] = mm(d)
	}
	s.ctx.SetFillColor(color.RGBA{})
	s.ctx.SetStrokeColor(toColor(s.state.StrokeColor))
	s.ctx.SetStrokeWidth(mm(s.state.LineWidth))
	s.ctx.SetDashes(mm(s.state.DashPhase), dashes...)
	s.ctx.DrawPath(0, 0, s.path)
	s.path = nil
	return nil
}

// Fill paints the current path with the fill color and clears it.
func (s *Surface) Fill() error {
	if s.path == nil {
		return nil
	}
	s.ctx.SetStrokeColor(color.RGBA{})
	s.ctx.SetDashes(0)
	s.ctx.SetFillColor(toColor(s.state.FillColor))
	s.ctx.DrawPath(0, 0, s.path)
	s.path = nil
	return nil
}
