package table

import (
	"errors"
	"math"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/olekukonko/ll"
	"github.com/olekukonko/ll/lh"

	"github.com/ByLCY/celltable/cell"
	"github.com/ByLCY/celltable/draw"
	"github.com/ByLCY/celltable/style"
)

type monoMetrics struct{}

func (monoMetrics) StringWidth(s string, _ style.Font, size float64) (float64, error) {
	return float64(utf8.RuneCountInString(s)) * size / 2, nil
}

func (monoMetrics) FontHeight(_ style.Font, size float64) (float64, error) {
	return size * 0.7, nil
}

var body = style.Font{Name: "Body", Src: "embed:goregular"}

func sampleTable() *Table {
	s := DefaultSettings(body)
	s.Padding = cell.Uniform(0)
	s.BorderWidth = 1
	s.LineSpacing = 0
	tbl := New([]float64{50, 60}, s)
	tbl.X, tbl.Y = 10, 200
	tbl.AddRow(s.NewCell("short"), s.NewCell("a much longer text that wraps"))
	wide := s.NewCell("spanning")
	wide.ColSpan = 2
	tbl.AddRow(wide)
	return tbl
}

func TestValidateAssignsWidths(t *testing.T) {
	tbl := sampleTable()
	if err := tbl.Validate(); err != nil {
		t.Fatalf("Validate error: %v", err)
	}
	if w := tbl.Rows[0].Cells[1].Width; w != 60 {
		t.Fatalf("cell width = %v, want 60", w)
	}
	if w := tbl.Rows[1].Cells[0].Width; w != 110 {
		t.Fatalf("spanning width = %v, want 110", w)
	}
}

func TestValidateRejectsOverflowingSpan(t *testing.T) {
	tbl := sampleTable()
	tbl.Rows[1].Cells[0].ColSpan = 3
	if err := tbl.Validate(); !errors.Is(err, ErrInvalidTable) {
		t.Fatalf("expected ErrInvalidTable, got %v", err)
	}
	empty := New(nil, DefaultSettings(body))
	if err := empty.Validate(); !errors.Is(err, ErrInvalidTable) {
		t.Fatalf("expected ErrInvalidTable for no columns, got %v", err)
	}
}

func TestRowHeightsUseTallestCell(t *testing.T) {
	tbl := sampleTable()
	heights, err := tbl.RowHeights(monoMetrics{})
	if err != nil {
		t.Fatalf("RowHeights error: %v", err)
	}
	// "a much longer text that wraps" takes 3 lines in 60pt; font height 7, 1pt borders
	if math.Abs(heights[0]-(3*7+2)) > 1e-9 {
		t.Fatalf("row 0 height = %v", heights[0])
	}
	if math.Abs(heights[1]-(7+2)) > 1e-9 {
		t.Fatalf("row 1 height = %v", heights[1])
	}
	total, _ := tbl.Height(monoMetrics{})
	if math.Abs(total-(heights[0]+heights[1])) > 1e-9 {
		t.Fatalf("Height = %v", total)
	}
}

func TestDrawRunsThreePasses(t *testing.T) {
	tbl := sampleTable()
	bg := style.Color{R: 230, G: 230, B: 230}
	tbl.Rows[0].Cells[0].BackgroundColor = &bg

	rec := draw.NewRecorder()
	d := &Drawer{Surface: rec, Metrics: monoMetrics{}}
	if err := d.Draw(tbl); err != nil {
		t.Fatalf("Draw error: %v", err)
	}

	names := rec.Names()
	firstFill, firstText, firstStroke, lastText := -1, -1, -1, -1
	for i, n := range names {
		switch n {
		case "Fill":
			if firstFill < 0 {
				firstFill = i
			}
		case "ShowText":
			if firstText < 0 {
				firstText = i
			}
			lastText = i
		case "Stroke":
			if firstStroke < 0 {
				firstStroke = i
			}
		}
	}
	if !(firstFill < firstText && lastText < firstStroke) {
		t.Fatalf("passes out of order: fill %d text %d..%d stroke %d", firstFill, firstText, lastText, firstStroke)
	}
	// 3 cells, 4 sides each
	if n := len(rec.Filter("Stroke")); n != 12 {
		t.Fatalf("expected 12 border strokes, got %d", n)
	}
	st := rec.State()
	if !st.SolidDash() || st.StrokeColor != style.Black || st.FillColor != style.Black || st.CharSpacing != 0 {
		t.Fatalf("state not restored: %+v", st)
	}

	// row 2 starts at the bottom of row 1
	moves := rec.Filter("MoveTo")
	heights, _ := tbl.RowHeights(monoMetrics{})
	secondRowTop := 200 - heights[0]
	found := false
	for _, m := range moves {
		if m.Args[0] == 10 && math.Abs(m.Args[1]-secondRowTop) < 1e-9 {
			found = true
		}
	}
	if !found {
		t.Fatalf("no border starts at the top of row 2 (y=%v)", secondRowTop)
	}
}

func TestDrawValidatesEveryCellFirst(t *testing.T) {
	tbl := sampleTable()
	black := style.Black
	tbl.Rows[0].Cells[0].BackgroundColor = &black
	tbl.Rows[1].Cells[0].FontSize = 0

	rec := draw.NewRecorder()
	err := (&Drawer{Surface: rec, Metrics: monoMetrics{}}).Draw(tbl)
	if !errors.Is(err, cell.ErrInvalidCell) {
		t.Fatalf("expected ErrInvalidCell, got %v", err)
	}
	if len(rec.Ops) != 0 {
		t.Fatalf("surface touched: %v", rec.Names())
	}
	if !strings.Contains(err.Error(), "row 1 cell 0") {
		t.Fatalf("missing position in %q", err.Error())
	}
}

func TestDrawAbortsOnSurfaceError(t *testing.T) {
	boom := errors.New("write failed")
	rec := draw.NewRecorder()
	rec.FailOn = map[string]error{"Stroke": boom}

	mem := lh.NewMemoryHandler()
	logger := ll.New("celltable/table", ll.WithHandler(mem))
	err := (&Drawer{Surface: rec, Metrics: monoMetrics{}, Logger: logger}).Draw(sampleTable())
	if !errors.Is(err, boom) {
		t.Fatalf("expected surface error, got %v", err)
	}
	if !strings.Contains(err.Error(), "borders of row 0 column 0") {
		t.Fatalf("missing position in %q", err.Error())
	}
	var logged bool
	for _, e := range mem.Entries() {
		if strings.Contains(e.Message, "borders row 0 column 0") {
			logged = true
		}
	}
	if !logged {
		t.Fatalf("failure not logged")
	}
}
