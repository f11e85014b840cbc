package draw

import (
	"github.com/ByLCY/celltable/style"
)

// Text is a fully positioned and styled text run.
type Text struct {
	X        float64     `json:"x"`
	Y        float64     `json:"y"`
	Text     string      `json:"text"`
	Font     style.Font  `json:"font"`
	FontSize float64     `json:"fontSize"`
	Color    style.Color `json:"color"`
	TextRise float64     `json:"textRise,omitempty"`
}

// Line is a styled line segment. ResetColor is the stroke color restored
// after the segment is drawn.
type Line struct {
	StartX      float64           `json:"startX"`
	StartY      float64           `json:"startY"`
	EndX        float64           `json:"endX"`
	EndY        float64           `json:"endY"`
	Width       float64           `json:"width"`
	Color       style.Color       `json:"color"`
	BorderStyle style.BorderStyle `json:"borderStyle"`
	ResetColor  style.Color       `json:"resetColor"`
}

// Rectangle is a filled rectangle; (X, Y) is its bottom-left corner.
type Rectangle struct {
	X      float64     `json:"x"`
	Y      float64     `json:"y"`
	Width  float64     `json:"width"`
	Height float64     `json:"height"`
	Color  style.Color `json:"color"`
}

// DrawText paints one run. Character spacing set by the caller applies to
// this run only: it is cleared afterwards, also when drawing fails.
func DrawText(s Surface, t Text) (err error) {
	defer func() {
		if rerr := s.SetCharacterSpacing(0); err == nil {
			err = rerr
		}
	}()
	if err = s.BeginText(); err != nil {
		return err
	}
	if err = s.SetTextRise(t.TextRise); err != nil {
		return err
	}
	if err = s.SetNonStrokingColor(t.Color); err != nil {
		return err
	}
	if err = s.SetFont(t.Font, t.FontSize); err != nil {
		return err
	}
	if err = s.NewLineAtOffset(t.X, t.Y); err != nil {
		return err
	}
	if err = s.ShowText(t.Text); err != nil {
		return err
	}
	return s.EndText()
}

// DrawLine strokes one segment and then restores the stroke color to
// l.ResetColor and the dash pattern to SOLID.
func DrawLine(s Surface, l Line) (err error) {
	defer func() {
		if rerr := s.SetStrokingColor(l.ResetColor); err == nil {
			err = rerr
		}
		if rerr := s.SetLineDashPattern(style.Solid.Pattern(), style.Solid.Phase()); err == nil {
			err = rerr
		}
	}()
	// DOTTED gets an extra [1] 1 pattern before the path; the declared
	// pattern below still wins for the stroke.
	if l.BorderStyle == style.Dotted {
		err = s.SetLineDashPattern([]float64{1}, 1)
	} else {
		err = s.SetLineDashPattern([]float64{}, 0)
	}
	if err != nil {
		return err
	}
	if err = s.MoveTo(l.StartX, l.StartY); err != nil {
		return err
	}
	if err = s.SetLineWidth(l.Width); err != nil {
		return err
	}
	if err = s.LineTo(l.EndX, l.EndY); err != nil {
		return err
	}
	if err = s.SetStrokingColor(l.Color); err != nil {
		return err
	}
	if err = s.SetLineDashPattern(l.BorderStyle.Pattern(), l.BorderStyle.Phase()); err != nil {
		return err
	}
	return s.Stroke()
}

// DrawRectangle fills one rectangle and resets the fill color to black.
func DrawRectangle(s Surface, r Rectangle) (err error) {
	defer func() {
		if rerr := s.SetNonStrokingColor(style.Black); err == nil {
			err = rerr
		}
	}()
	if err = s.SetNonStrokingColor(r.Color); err != nil {
		return err
	}
	if err = s.AddRect(r.X, r.Y, r.Width, r.Height); err != nil {
		return err
	}
	return s.Fill()
}
