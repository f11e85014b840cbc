package canvasrenderer

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/tdewolff/canvas"

	"github.com/ByLCY/celltable/cell"
	"github.com/ByLCY/celltable/dsl"
	"github.com/ByLCY/celltable/fonts"
	"github.com/ByLCY/celltable/layout"
	"github.com/ByLCY/celltable/style"
	"github.com/ByLCY/celltable/table"
)

var body = style.Font{Name: "Body", Src: fonts.Default}

func TestStringWidthGrowsWithText(t *testing.T) {
	r := NewRenderer(".")
	short, err := r.StringWidth("ab", body, 12)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	long, err := r.StringWidth("abab", body, 12)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if short <= 0 || long <= short {
		t.Fatalf("expected widths to grow, got %.3f and %.3f", short, long)
	}
	doubled, err := r.StringWidth("ab", body, 24)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(doubled-2*short) > 0.01 {
		t.Fatalf("width should scale with size: %.3f vs %.3f", doubled, 2*short)
	}
}

func TestFontHeightIsBelowSize(t *testing.T) {
	r := NewRenderer(".")
	h, err := r.FontHeight(body, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if h <= 0 || h >= 10 {
		t.Fatalf("cap height should be within (0, 10), got %.3f", h)
	}
}

func TestMissingFontFallsBack(t *testing.T) {
	r := NewRenderer(".")
	broken := style.Font{Name: "Broken", Src: "fonts/missing.ttf"}
	got, err := r.StringWidth("abc", broken, 10)
	if err != nil {
		t.Fatalf("fallback expected, got %v", err)
	}
	want, _ := r.StringWidth("abc", body, 10)
	if math.Abs(got-want) > 1e-6 {
		t.Fatalf("fallback width %.3f, want %.3f", got, want)
	}
}

func TestBuiltInFontNeedsInjection(t *testing.T) {
	r := NewRendererWithOptions(Options{Fonts: map[string]Resource{"Mono": {Bytes: mustLoad(t, "gomono")}}})
	mono := style.Font{Name: "Mono", Src: "built-in:Mono"}
	a, err := r.StringWidth("iii", mono, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, _ := r.StringWidth("MMM", mono, 10)
	if math.Abs(a-b) > 1e-6 {
		t.Fatalf("monospace widths differ: %.3f vs %.3f", a, b)
	}
}

func TestSurfaceTracksTextState(t *testing.T) {
	r := NewRenderer(".")
	c := canvas.New(100, 100)
	s := NewSurface(canvas.NewContext(c), r)
	if err := s.ShowText("x"); err == nil {
		t.Fatalf("ShowText outside text block should fail")
	}
	if err := s.BeginText(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.SetFont(body, 10); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.NewLineAtOffset(20, 30); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.ShowText("ab"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	w, _ := r.StringWidth("ab", body, 10)
	st := s.State()
	if st.TextX != 20 || st.TextY != 30 || math.Abs(st.TextAdvance-w) > 1e-6 {
		t.Fatalf("unexpected text state: %+v", st)
	}
	if err := s.EndText(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.EndText(); err == nil {
		t.Fatalf("second EndText should fail")
	}
}

func TestRenderPDF(t *testing.T) {
	tbl := table.New([]float64{100, 100}, table.DefaultSettings(body))
	settings := tbl.Settings
	settings.BorderWidth = 1
	tbl.Settings = settings
	sup := &cell.Superscript{Text: "1", Font: body, FontSize: 6, Color: style.Black, TextRise: 4}
	first := settings.NewCell("Total")
	first.Superscript = sup
	tbl.AddRow(first, settings.NewCell("42.00"))
	if err := tbl.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	tbl.X, tbl.Y = 20, 800

	result := &layout.Result{
		Pages: []layout.Page{{Width: 595, Height: 842, Tables: []*table.Table{tbl}}, {Width: 842, Height: 595}},
		Meta:  layout.DocumentMeta{Title: "Invoice"},
	}
	out, err := NewRenderer(".").Render(result)
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF")) {
		t.Fatalf("expected PDF header, got %q", out[:min(len(out), 8)])
	}
}

func TestRenderSVGFromDSL(t *testing.T) {
	src := `doc Demo v1 {
  page A5 margin 20pt {
    table border 0.5pt {
      columns {
        column 50%
        column 50%
      }
      row {
        cell { "Name" }
        cell { "Qty" }
      }
      row {
        cell { "Paper" }
        cell align right { "3" }
      }
    }
  }
}`
	doc, err := dsl.Parse(strings.NewReader(src))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	r := NewRendererWithOptions(Options{Format: FormatSVG})
	res, err := layout.Build(doc, nil, layout.BuildOptions{Metrics: r})
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	out, err := r.Render(res)
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if !bytes.Contains(out, []byte("<svg")) {
		t.Fatalf("expected svg output")
	}
}

func TestRenderRejectsEmptyResult(t *testing.T) {
	if _, err := NewRenderer(".").Render(&layout.Result{}); err == nil {
		t.Fatalf("expected error for result without pages")
	}
	r := NewRendererWithOptions(Options{Format: "tiff"})
	if _, err := r.Render(&layout.Result{Pages: []layout.Page{{Width: 10, Height: 10}}}); err == nil {
		t.Fatalf("expected error for unknown format")
	}
}

func mustLoad(t *testing.T, name string) []byte {
	t.Helper()
	data, err := fonts.Load(name)
	if err != nil {
		t.Fatalf("load %s: %v", name, err)
	}
	return data
}
