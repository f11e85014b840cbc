package cell

import (
	"github.com/olekukonko/errors"

	"github.com/ByLCY/celltable/draw"
	"github.com/ByLCY/celltable/style"
	"github.com/ByLCY/celltable/text"
)

// Box is the area a cell occupies on the page. (X, Y) is the top-left
// corner; Height is the row height, which can exceed the cell's own Height.
type Box struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Bottom is Y - Height.
func (b Box) Bottom() float64 { return b.Y - b.Height }

// Drawer paints cells onto one surface. It holds no state between calls.
type Drawer struct {
	Surface draw.Surface
	Metrics text.Metrics
}

// NewDrawer returns a drawer for s measuring with m.
func NewDrawer(s draw.Surface, m text.Metrics) *Drawer {
	return &Drawer{Surface: s, Metrics: m}
}

// Draw runs background, content and borders for a single cell. An invalid
// cell fails before the surface is touched.
func (d *Drawer) Draw(c *Cell, box Box) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if err := d.DrawBackground(c, box); err != nil {
		return err
	}
	if err := d.DrawContent(c, box); err != nil {
		return err
	}
	return d.DrawBorders(c, box)
}

// DrawBackground fills the box when the cell has a background color.
func (d *Drawer) DrawBackground(c *Cell, box Box) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.BackgroundColor == nil {
		return nil
	}
	return draw.DrawRectangle(d.Surface, draw.Rectangle{
		X:      box.X,
		Y:      box.Bottom(),
		Width:  box.Width,
		Height: box.Height,
		Color:  *c.BackgroundColor,
	})
}

// DrawBorders strokes every side whose width is positive. The stroke color
// goes back to the cell's general border color after each side.
func (d *Drawer) DrawBorders(c *Cell, box Box) error {
	if c == nil {
		return errors.Newf("nil cell: %w", ErrInvalidCell)
	}
	left, right := box.X, box.X+box.Width
	top, bottom := box.Y, box.Bottom()
	sides := []struct {
		name           string
		edge           Edge
		x1, y1, x2, y2 float64
	}{
		{"top", c.Border.Top, left, top, right, top},
		{"bottom", c.Border.Bottom, left, bottom, right, bottom},
		{"left", c.Border.Left, left, bottom, left, top},
		{"right", c.Border.Right, right, bottom, right, top},
	}
	for _, s := range sides {
		if s.edge.Width <= 0 {
			continue
		}
		err := draw.DrawLine(d.Surface, draw.Line{
			StartX:      s.x1,
			StartY:      s.y1,
			EndX:        s.x2,
			EndY:        s.y2,
			Width:       s.edge.Width,
			Color:       s.edge.Color,
			BorderStyle: s.edge.Style,
			ResetColor:  c.Border.Color,
		})
		if err != nil {
			return errors.Wrapf(err, "%s border", s.name)
		}
	}
	return nil
}

// DrawContent emits one text run per line and, when a superscript is
// attached, one more run right after the last line.
func (d *Drawer) DrawContent(c *Cell, box Box) error {
	if err := c.Validate(); err != nil {
		return err
	}
	m := d.Metrics

	lines, err := c.Lines(m)
	if err != nil {
		return errors.Newf("break lines: %w", err)
	}
	fontHeight, err := m.FontHeight(c.Font, c.FontSize)
	if err != nil {
		return errors.Newf("font height: %w", err)
	}
	blockHeight := text.Height(fontHeight, c.LineSpacing, len(lines))

	var supWidth, supPadding float64
	if c.HasSuperscript() {
		supWidth, err = m.StringWidth(c.Superscript.Text, c.Superscript.Font, c.Superscript.FontSize)
		if err != nil {
			return errors.Newf("measure superscript: %w", err)
		}
		supPadding = c.Superscript.PaddingRight
	}

	y := box.Y + c.verticalAdaption(box.Height, blockHeight)
	x := box.X + c.Padding.Left
	var lineWidth float64
	for i, line := range lines {
		y -= text.LineAdvance(fontHeight, c.LineSpacing, i)
		lineWidth, err = m.StringWidth(line, c.Font, c.FontSize)
		if err != nil {
			return errors.Newf("measure line %d: %w", i, err)
		}
		last := i == len(lines)-1
		x = text.HorizontalOffset(text.Placement{
			Alignment:               c.HorizontalAlignment,
			ContainerX:              box.X,
			ContainerWidth:          c.Width,
			PaddingLeft:             c.Padding.Left,
			PaddingRight:            c.Padding.Right,
			TextWidth:               lineWidth,
			LastLine:                last,
			SuperscriptWidth:        supWidth,
			SuperscriptPaddingRight: supPadding,
		})
		if c.HorizontalAlignment == style.Justify && !last {
			spacing, err := text.CharSpacing(m, line, c.Font, c.FontSize, c.WidthOfText())
			if err != nil {
				return err
			}
			if err := d.Surface.SetCharacterSpacing(spacing); err != nil {
				return errors.Wrapf(err, "line %d", i)
			}
		}
		err = draw.DrawText(d.Surface, draw.Text{
			X:        x,
			Y:        y,
			Text:     line,
			Font:     c.Font,
			FontSize: c.FontSize,
			Color:    c.TextColor,
		})
		if err != nil {
			return errors.Wrapf(err, "line %d", i)
		}
	}

	if !c.HasSuperscript() {
		return nil
	}
	sup := c.Superscript
	err = draw.DrawText(d.Surface, draw.Text{
		X:        x + lineWidth,
		Y:        y,
		Text:     sup.Text,
		Font:     sup.Font,
		FontSize: sup.FontSize,
		Color:    sup.Color,
		TextRise: sup.TextRise,
	})
	if err != nil {
		return errors.Wrapf(err, "superscript")
	}
	return nil
}

// verticalAdaption is the offset from the box top to the top of the text
// block. It is never above the padding and border.
func (c *Cell) verticalAdaption(boxHeight, blockHeight float64) float64 {
	top := -(c.Padding.Top + c.Border.Top.Width)
	avail := boxHeight - c.Padding.Vertical() - c.Border.Top.Width - c.Border.Bottom.Width
	free := avail - blockHeight
	if free <= 0 {
		return top
	}
	switch c.VerticalAlignment {
	case style.Middle:
		return top - free/2
	case style.Bottom:
		return top - free
	default:
		return top
	}
}
