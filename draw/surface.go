// Package draw emits positioned text runs, line segments and filled
// rectangles onto a Surface, restoring the surface's default drawing state
// after every primitive.
package draw

import (
	"github.com/olekukonko/errors"

	"github.com/ByLCY/celltable/style"
)

// ErrTextState is returned by surfaces when text operators are used outside
// a BeginText/EndText block or without a font.
var ErrTextState = errors.New("text operator used in invalid state")

// Surface is a single mutable stream of drawing commands in a bottom-left
// origin coordinate space. Implementations are not safe for concurrent use.
type Surface interface {
	BeginText() error
	EndText() error
	SetTextRise(rise float64) error
	SetFont(font style.Font, size float64) error
	NewLineAtOffset(x, y float64) error
	ShowText(s string) error
	SetCharacterSpacing(spacing float64) error

	SetNonStrokingColor(c style.Color) error
	SetStrokingColor(c style.Color) error
	SetLineWidth(width float64) error
	SetLineDashPattern(pattern []float64, phase float64) error

	MoveTo(x, y float64) error
	LineTo(x, y float64) error
	AddRect(x, y, width, height float64) error
	Stroke() error
	Fill() error
}

// State is the graphics state a surface carries between calls.
type State struct {
	StrokeColor style.Color `json:"strokeColor"`
	FillColor   style.Color `json:"fillColor"`
	LineWidth   float64     `json:"lineWidth"`
	Dash        []float64   `json:"dash"`
	DashPhase   float64     `json:"dashPhase"`
	CharSpacing float64     `json:"charSpacing"`
	TextRise    float64     `json:"textRise"`
	Font        style.Font  `json:"font"`
	FontSize    float64     `json:"fontSize"`
	InText      bool        `json:"inText"`
	// TextX/TextY is the start of the current text line; TextAdvance is how
	// far ShowText has moved along it.
	TextX       float64 `json:"textX"`
	TextY       float64 `json:"textY"`
	TextAdvance float64 `json:"textAdvance"`
}

// DefaultState is the state of a fresh surface, and the state every primitive
// leaves behind for dash pattern, character spacing and fill color.
func DefaultState() State {
	return State{
		StrokeColor: style.Black,
		FillColor:   style.Black,
		LineWidth:   1,
		Dash:        style.Solid.Pattern(),
		DashPhase:   style.Solid.Phase(),
	}
}

// SolidDash reports whether the dash state equals SOLID.
func (s State) SolidDash() bool {
	return len(s.Dash) == 0 && s.DashPhase == style.Solid.Phase()
}

// Begin enters a text block; the text matrix starts at the origin.
func (s *State) Begin() error {
	if s.InText {
		return errors.Newf("BeginText inside text block: %w", ErrTextState)
	}
	s.InText = true
	s.TextX, s.TextY, s.TextAdvance = 0, 0, 0
	return nil
}

// End leaves the text block.
func (s *State) End() error {
	if !s.InText {
		return errors.Newf("EndText outside text block: %w", ErrTextState)
	}
	s.InText = false
	return nil
}

// Offset moves to the start of the next line, relative to the current one.
func (s *State) Offset(x, y float64) error {
	if !s.InText {
		return errors.Newf("NewLineAtOffset outside text block: %w", ErrTextState)
	}
	s.TextX += x
	s.TextY += y
	s.TextAdvance = 0
	return nil
}

// CanShow checks the preconditions of ShowText.
func (s *State) CanShow() error {
	if !s.InText {
		return errors.Newf("ShowText outside text block: %w", ErrTextState)
	}
	if s.Font.IsZero() || s.FontSize <= 0 {
		return errors.Newf("ShowText without font: %w", ErrTextState)
	}
	return nil
}

// SetDash stores a copy of the dash pattern.
func (s *State) SetDash(pattern []float64, phase float64) {
	s.Dash = append([]float64{}, pattern...)
	s.DashPhase = phase
}
