package table

import (
	"github.com/olekukonko/errors"
	"github.com/olekukonko/ll"

	"github.com/ByLCY/celltable/cell"
	"github.com/ByLCY/celltable/draw"
	"github.com/ByLCY/celltable/text"
)

// Drawer paints whole tables onto one surface. A nil Logger is silent.
type Drawer struct {
	Surface draw.Surface
	Metrics text.Metrics
	Logger  *ll.Logger
}

type placed struct {
	row, col int
	cell     *cell.Cell
	box      cell.Box
}

// Draw lays out and paints t. The first failing operation aborts the whole
// table; surface state after a failure is undefined.
func (d *Drawer) Draw(t *Table) error {
	heights, err := t.RowHeights(d.Metrics)
	if err != nil {
		return err
	}
	cells := t.place(heights)
	d.debugf("table at (%.2f, %.2f): %d columns, %d rows, %d cells", t.X, t.Y, len(t.Columns), len(t.Rows), len(cells))

	cd := cell.NewDrawer(d.Surface, d.Metrics)
	passes := []struct {
		name string
		fn   func(*cell.Cell, cell.Box) error
	}{
		{"background", cd.DrawBackground},
		{"content", cd.DrawContent},
		{"borders", cd.DrawBorders},
	}
	for _, pass := range passes {
		for _, p := range cells {
			if err := pass.fn(p.cell, p.box); err != nil {
				d.errorf("%s row %d column %d: %v", pass.name, p.row, p.col, err)
				return errors.Wrapf(err, "%s of row %d column %d", pass.name, p.row, p.col)
			}
		}
	}
	return nil
}

// place computes the box of every cell, row-major. Heights come from
// RowHeights, which also assigned the cell widths.
func (t *Table) place(heights []float64) []placed {
	var out []placed
	y := t.Y
	for r, row := range t.Rows {
		x := t.X
		col := 0
		for _, cl := range row.Cells {
			out = append(out, placed{
				row:  r,
				col:  col,
				cell: cl,
				box:  cell.Box{X: x, Y: y, Width: cl.Width, Height: heights[r]},
			})
			x += cl.Width
			col += cl.Span()
		}
		y -= heights[r]
	}
	return out
}

func (d *Drawer) debugf(format string, args ...any) {
	if d.Logger != nil {
		d.Logger.Debugf(format, args...)
	}
}

func (d *Drawer) errorf(format string, args ...any) {
	if d.Logger != nil {
		d.Logger.Errorf(format, args...)
	}
}
