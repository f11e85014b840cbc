// Package cell models a table cell and draws its background, text content
// and borders onto a draw.Surface.
package cell

import (
	"github.com/olekukonko/errors"

	"github.com/ByLCY/celltable/style"
	"github.com/ByLCY/celltable/text"
)

// ErrInvalidCell marks precondition violations detected before drawing.
var ErrInvalidCell = errors.New("invalid cell")

// Padding in surface units.
type Padding struct {
	Left   float64 `json:"left"`
	Right  float64 `json:"right"`
	Top    float64 `json:"top"`
	Bottom float64 `json:"bottom"`
}

// Uniform returns the same padding on every side.
func Uniform(v float64) Padding { return Padding{Left: v, Right: v, Top: v, Bottom: v} }

// Horizontal is Left+Right.
func (p Padding) Horizontal() float64 { return p.Left + p.Right }

// Vertical is Top+Bottom.
func (p Padding) Vertical() float64 { return p.Top + p.Bottom }

// Edge is one side of a cell border.
type Edge struct {
	Width float64           `json:"width"`
	Color style.Color       `json:"color"`
	Style style.BorderStyle `json:"style"`
}

// Border holds the four edges. Color is the cell's general border color and
// is what the stroke color is reset to after each edge.
type Border struct {
	Top    Edge        `json:"top"`
	Right  Edge        `json:"right"`
	Bottom Edge        `json:"bottom"`
	Left   Edge        `json:"left"`
	Color  style.Color `json:"color"`
}

// UniformBorder gives all edges the same width, color and style.
func UniformBorder(width float64, color style.Color, bs style.BorderStyle) Border {
	e := Edge{Width: width, Color: color, Style: bs}
	return Border{Top: e, Right: e, Bottom: e, Left: e, Color: color}
}

// Superscript is the lighter text fragment drawn after the last line.
type Superscript struct {
	Text         string      `json:"text"`
	Font         style.Font  `json:"font"`
	FontSize     float64     `json:"fontSize"`
	Color        style.Color `json:"color"`
	TextRise     float64     `json:"textRise"`
	PaddingRight float64     `json:"paddingRight"`
}

// Cell is read-only while it is drawn. Width is assigned by the table from
// its column widths.
type Cell struct {
	Text                string                    `json:"text"`
	Superscript         *Superscript              `json:"superscript,omitempty"`
	Font                style.Font                `json:"font"`
	FontSize            float64                   `json:"fontSize"`
	TextColor           style.Color               `json:"textColor"`
	Width               float64                   `json:"width"`
	WordBreak           bool                      `json:"wordBreak"`
	HorizontalAlignment style.HorizontalAlignment `json:"align"`
	VerticalAlignment   style.VerticalAlignment   `json:"valign"`
	Padding             Padding                   `json:"padding"`
	LineSpacing         float64                   `json:"lineSpacing"`
	Border              Border                    `json:"border"`
	BackgroundColor     *style.Color              `json:"backgroundColor,omitempty"`
	ColSpan             int                       `json:"colSpan,omitempty"`
}

// HasSuperscript reports whether a non-empty superscript is attached.
func (c *Cell) HasSuperscript() bool {
	return c.Superscript != nil && c.Superscript.Text != ""
}

// WidthOfText is the horizontal room left for text inside the padding.
func (c *Cell) WidthOfText() float64 {
	return c.Width - c.Padding.Horizontal()
}

// MaxWidth is the line-breaking limit.
func (c *Cell) MaxWidth() float64 { return c.WidthOfText() }

// Span is ColSpan with the zero value meaning one column.
func (c *Cell) Span() int {
	if c.ColSpan < 1 {
		return 1
	}
	return c.ColSpan
}

// Validate checks the preconditions of drawing.
func (c *Cell) Validate() error {
	if c == nil {
		return errors.Newf("nil cell: %w", ErrInvalidCell)
	}
	if c.Font.IsZero() {
		return errors.Newf("cell %q has no font: %w", abbreviate(c.Text), ErrInvalidCell)
	}
	if c.FontSize <= 0 {
		return errors.Newf("cell %q font size %g: %w", abbreviate(c.Text), c.FontSize, ErrInvalidCell)
	}
	if c.Padding.Left < 0 || c.Padding.Right < 0 || c.Padding.Top < 0 || c.Padding.Bottom < 0 {
		return errors.Newf("cell %q negative padding %+v: %w", abbreviate(c.Text), c.Padding, ErrInvalidCell)
	}
	if c.WordBreak && c.MaxWidth() <= 0 {
		return errors.Newf("cell %q max width %g: %w", abbreviate(c.Text), c.MaxWidth(), ErrInvalidCell)
	}
	if c.LineSpacing < 0 {
		return errors.Newf("cell %q line spacing %g: %w", abbreviate(c.Text), c.LineSpacing, ErrInvalidCell)
	}
	if c.HasSuperscript() {
		sup := c.Superscript
		if sup.Font.IsZero() || sup.FontSize <= 0 {
			return errors.Newf("superscript %q needs font and size: %w", abbreviate(sup.Text), ErrInvalidCell)
		}
		if sup.PaddingRight < 0 {
			return errors.Newf("superscript %q negative padding: %w", abbreviate(sup.Text), ErrInvalidCell)
		}
	}
	for _, e := range []Edge{c.Border.Top, c.Border.Right, c.Border.Bottom, c.Border.Left} {
		if e.Width < 0 {
			return errors.Newf("cell %q negative border width: %w", abbreviate(c.Text), ErrInvalidCell)
		}
	}
	return nil
}

// Lines breaks the cell text the way it will be drawn.
func (c *Cell) Lines(m text.Metrics) ([]string, error) {
	if !c.WordBreak {
		return text.SingleLine(c.Text), nil
	}
	return text.BreakLines(m, c.Text, c.Font, c.FontSize, c.fragment(), c.MaxWidth())
}

// TextHeight is the height of the wrapped text block.
func (c *Cell) TextHeight(m text.Metrics) (float64, error) {
	lines, err := c.Lines(m)
	if err != nil {
		return 0, err
	}
	fontHeight, err := m.FontHeight(c.Font, c.FontSize)
	if err != nil {
		return 0, errors.Newf("font height: %w", err)
	}
	return text.Height(fontHeight, c.LineSpacing, len(lines)), nil
}

// Height is the minimum height the cell needs: text, padding and the
// top/bottom border widths. Invalid cells have no height.
func (c *Cell) Height(m text.Metrics) (float64, error) {
	if err := c.Validate(); err != nil {
		return 0, err
	}
	th, err := c.TextHeight(m)
	if err != nil {
		return 0, err
	}
	return th + c.Padding.Vertical() + c.Border.Top.Width + c.Border.Bottom.Width, nil
}

func (c *Cell) fragment() *text.Fragment {
	if !c.HasSuperscript() {
		return nil
	}
	return &text.Fragment{Text: c.Superscript.Text, Font: c.Superscript.Font, Size: c.Superscript.FontSize}
}

func abbreviate(s string) string {
	r := []rune(s)
	if len(r) > 20 {
		return string(r[:20]) + "…"
	}
	return s
}
