// Package table arranges cells into rows and columns and draws them in
// three passes: backgrounds, content, borders.
package table

import (
	"github.com/olekukonko/errors"

	"github.com/ByLCY/celltable/cell"
	"github.com/ByLCY/celltable/style"
	"github.com/ByLCY/celltable/text"
)

// ErrInvalidTable marks structural problems found before drawing.
var ErrInvalidTable = errors.New("invalid table")

// Settings are the table-wide defaults every new cell starts from.
type Settings struct {
	Font                style.Font                `json:"font"`
	FontSize            float64                   `json:"fontSize"`
	TextColor           style.Color               `json:"textColor"`
	Padding             cell.Padding              `json:"padding"`
	BorderWidth         float64                   `json:"borderWidth"`
	BorderColor         style.Color               `json:"borderColor"`
	BorderStyle         style.BorderStyle         `json:"borderStyle"`
	HorizontalAlignment style.HorizontalAlignment `json:"align"`
	VerticalAlignment   style.VerticalAlignment   `json:"valign"`
	WordBreak           bool                      `json:"wordBreak"`
	LineSpacing         float64                   `json:"lineSpacing"`
	BackgroundColor     *style.Color              `json:"backgroundColor,omitempty"`
}

// DefaultSettings are 10pt black text, 2pt padding and word breaking on.
func DefaultSettings(font style.Font) Settings {
	return Settings{
		Font:        font,
		FontSize:    10,
		TextColor:   style.Black,
		Padding:     cell.Uniform(2),
		BorderColor: style.Black,
		BorderStyle: style.Solid,
		WordBreak:   true,
		LineSpacing: 1,
	}
}

// NewCell returns a cell carrying the settings. Callers override fields
// afterwards.
func (s Settings) NewCell(content string) *cell.Cell {
	c := &cell.Cell{
		Text:                content,
		Font:                s.Font,
		FontSize:            s.FontSize,
		TextColor:           s.TextColor,
		WordBreak:           s.WordBreak,
		HorizontalAlignment: s.HorizontalAlignment,
		VerticalAlignment:   s.VerticalAlignment,
		Padding:             s.Padding,
		LineSpacing:         s.LineSpacing,
		Border:              cell.UniformBorder(s.BorderWidth, s.BorderColor, s.BorderStyle),
	}
	if s.BackgroundColor != nil {
		bg := *s.BackgroundColor
		c.BackgroundColor = &bg
	}
	return c
}

// Row is one line of cells. MinHeight raises the computed height.
type Row struct {
	Cells     []*cell.Cell `json:"cells"`
	MinHeight float64      `json:"minHeight,omitempty"`
}

// Table is anchored at its top-left corner (X, Y) in page coordinates.
type Table struct {
	X        float64   `json:"x"`
	Y        float64   `json:"y"`
	Columns  []float64 `json:"columns"`
	Rows     []Row     `json:"rows"`
	Settings Settings  `json:"settings"`
}

// New creates an empty table with the given column widths.
func New(columns []float64, settings Settings) *Table {
	return &Table{Columns: append([]float64(nil), columns...), Settings: settings}
}

// AddRow appends a row and returns the table for chaining.
func (t *Table) AddRow(cells ...*cell.Cell) *Table {
	t.Rows = append(t.Rows, Row{Cells: cells})
	return t
}

// Width is the sum of the column widths.
func (t *Table) Width() float64 {
	total := 0.0
	for _, w := range t.Columns {
		total += w
	}
	return total
}

// Validate checks columns and spans and assigns every cell its width from
// the columns it covers.
func (t *Table) Validate() error {
	if len(t.Columns) == 0 {
		return errors.Newf("no columns: %w", ErrInvalidTable)
	}
	for i, w := range t.Columns {
		if w <= 0 {
			return errors.Newf("column %d width %g: %w", i, w, ErrInvalidTable)
		}
	}
	for r, row := range t.Rows {
		col := 0
		for c, cl := range row.Cells {
			if cl == nil {
				return errors.Newf("row %d cell %d is nil: %w", r, c, ErrInvalidTable)
			}
			span := cl.Span()
			if col+span > len(t.Columns) {
				return errors.Newf("row %d spans %d columns, table has %d: %w", r, col+span, len(t.Columns), ErrInvalidTable)
			}
			width := 0.0
			for _, w := range t.Columns[col : col+span] {
				width += w
			}
			cl.Width = width
			col += span
		}
	}
	return nil
}

// RowHeights returns the height of each row: the tallest cell, at least
// MinHeight. Every cell is validated on the way, so a table that passes here
// can be drawn without precondition failures.
func (t *Table) RowHeights(m text.Metrics) ([]float64, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	heights := make([]float64, len(t.Rows))
	for r, row := range t.Rows {
		h := row.MinHeight
		for c, cl := range row.Cells {
			ch, err := cl.Height(m)
			if err != nil {
				return nil, errors.Wrapf(err, "row %d cell %d", r, c)
			}
			if ch > h {
				h = ch
			}
		}
		heights[r] = h
	}
	return heights, nil
}

// Height is the total height of all rows.
func (t *Table) Height(m text.Metrics) (float64, error) {
	heights, err := t.RowHeights(m)
	if err != nil {
		return 0, err
	}
	total := 0.0
	for _, h := range heights {
		total += h
	}
	return total, nil
}
