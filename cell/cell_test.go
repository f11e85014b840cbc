package cell

import (
	"errors"
	"math"
	"testing"
	"unicode/utf8"

	"github.com/ByLCY/celltable/draw"
	"github.com/ByLCY/celltable/style"
)

// monoMetrics: every rune is size/2 wide, font height is size*0.7.
type monoMetrics struct{}

func (monoMetrics) StringWidth(s string, _ style.Font, size float64) (float64, error) {
	return float64(utf8.RuneCountInString(s)) * size / 2, nil
}

func (monoMetrics) FontHeight(_ style.Font, size float64) (float64, error) {
	return size * 0.7, nil
}

var (
	body = style.Font{Name: "Body", Src: "embed:goregular"}
	bold = style.Font{Name: "Bold", Src: "embed:gobold"}
)

func newCell(content string) *Cell {
	return &Cell{
		Text:      content,
		Font:      body,
		FontSize:  10,
		TextColor: style.Black,
		Width:     110,
		WordBreak: true,
	}
}

func almost(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestDrawContentSuperscriptAfterLastLine(t *testing.T) {
	c := newCell("The last word ======> to next line")
	c.LineSpacing = 1
	c.Superscript = &Superscript{Text: "2", Font: bold, FontSize: 6, Color: style.Black, TextRise: 5}

	rec := draw.NewRecorder()
	d := NewDrawer(rec, monoMetrics{})
	if err := d.DrawContent(c, Box{X: 0, Y: 100, Width: 110, Height: 40}); err != nil {
		t.Fatalf("DrawContent error: %v", err)
	}

	shows := rec.Filter("ShowText")
	if len(shows) != 3 {
		t.Fatalf("expected 2 lines and 1 superscript run, got %d: %+v", len(shows), shows)
	}
	if shows[0].Text != "The last word ======>" || shows[1].Text != "to next line" || shows[2].Text != "2" {
		t.Fatalf("unexpected runs: %q %q %q", shows[0].Text, shows[1].Text, shows[2].Text)
	}
	if rise := shows[2].Args[1]; rise != 5 {
		t.Fatalf("superscript rise = %v, want 5", rise)
	}
	if rise := shows[1].Args[1]; rise != 0 {
		t.Fatalf("main text rise = %v, want 0", rise)
	}

	offsets := rec.Filter("NewLineAtOffset")
	if len(offsets) != 3 {
		t.Fatalf("expected 3 offsets, got %d", len(offsets))
	}
	// second baseline: 100 - 7 - (7 + 7*1) = 79; 12 runes * 5 = 60
	line2 := offsets[1].Args
	if !almost(line2[1], 79) {
		t.Fatalf("line 2 y = %v, want 79", line2[1])
	}
	sup := offsets[2].Args
	if !almost(sup[0], line2[0]+60) || !almost(sup[1], line2[1]) {
		t.Fatalf("superscript at (%v,%v), want (%v,%v)", sup[0], sup[1], line2[0]+60, line2[1])
	}
}

func TestDrawContentJustifiesAllButLastLine(t *testing.T) {
	c := newCell("A B C\nlast")
	c.FontSize = 2
	c.Width = 15
	c.HorizontalAlignment = style.Justify

	rec := draw.NewRecorder()
	if err := NewDrawer(rec, monoMetrics{}).DrawContent(c, Box{Y: 20, Width: 15, Height: 20}); err != nil {
		t.Fatalf("DrawContent error: %v", err)
	}
	shows := rec.Filter("ShowText")
	if len(shows) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(shows))
	}
	if got := shows[0].Args[0]; !almost(got, 2.5) {
		t.Fatalf("spacing for %q = %v, want 2.5", shows[0].Text, got)
	}
	// 5 + 2.5*4 == 15
	if !almost(5+shows[0].Args[0]*4, c.WidthOfText()) {
		t.Fatalf("justified width does not match text area")
	}
	if got := shows[1].Args[0]; got != 0 {
		t.Fatalf("last line spacing = %v, want 0", got)
	}
	if rec.State().CharSpacing != 0 {
		t.Fatalf("spacing leaked: %v", rec.State().CharSpacing)
	}
}

func TestRightAlignmentReservesSuperscriptRoom(t *testing.T) {
	lastX := func(withSup bool) float64 {
		c := newCell("to next line")
		c.HorizontalAlignment = style.Right
		c.Padding = Padding{Right: 4}
		if withSup {
			c.Superscript = &Superscript{Text: "22", Font: bold, FontSize: 6, PaddingRight: 2}
		}
		rec := draw.NewRecorder()
		if err := NewDrawer(rec, monoMetrics{}).DrawContent(c, Box{Y: 50, Width: 110, Height: 20}); err != nil {
			t.Fatalf("DrawContent error: %v", err)
		}
		return rec.Filter("NewLineAtOffset")[0].Args[0]
	}
	plain, reserved := lastX(false), lastX(true)
	// superscript "22" is 6 wide, plus 2 padding
	if !almost(plain-reserved, 8) {
		t.Fatalf("reserved %v, want 8", plain-reserved)
	}
	if !almost(plain, 110-(60+4)) {
		t.Fatalf("right aligned x = %v, want 46", plain)
	}
}

func TestVerticalAlignment(t *testing.T) {
	cases := []struct {
		align style.VerticalAlignment
		want  float64
	}{
		{style.Top, 93},
		{style.Middle, 71.5},
		{style.Bottom, 50},
	}
	for _, tc := range cases {
		c := newCell("Hi")
		c.WordBreak = false
		c.VerticalAlignment = tc.align
		rec := draw.NewRecorder()
		if err := NewDrawer(rec, monoMetrics{}).DrawContent(c, Box{Y: 100, Width: 110, Height: 50}); err != nil {
			t.Fatalf("%s: DrawContent error: %v", tc.align, err)
		}
		if y := rec.Filter("NewLineAtOffset")[0].Args[1]; !almost(y, tc.want) {
			t.Fatalf("%s: baseline %v, want %v", tc.align, y, tc.want)
		}
	}
}

func TestDrawContentRespectsPaddingAndBorder(t *testing.T) {
	c := newCell("Hi")
	c.Padding = Uniform(3)
	c.Border = UniformBorder(1, style.Black, style.Solid)
	rec := draw.NewRecorder()
	if err := NewDrawer(rec, monoMetrics{}).DrawContent(c, Box{X: 10, Y: 100, Width: 110, Height: 30}); err != nil {
		t.Fatalf("DrawContent error: %v", err)
	}
	args := rec.Filter("NewLineAtOffset")[0].Args
	if !almost(args[0], 13) || !almost(args[1], 100-3-1-7) {
		t.Fatalf("unexpected origin %v", args)
	}
}

func TestInvalidCellFailsBeforeDrawing(t *testing.T) {
	cases := map[string]func(c *Cell){
		"no font":       func(c *Cell) { c.Font = style.Font{} },
		"zero size":     func(c *Cell) { c.FontSize = 0 },
		"no room":       func(c *Cell) { c.Width = 4; c.Padding = Uniform(2) },
		"neg padding":   func(c *Cell) { c.Padding.Top = -1 },
		"neg spacing":   func(c *Cell) { c.LineSpacing = -0.5 },
		"bad sup font":  func(c *Cell) { c.Superscript = &Superscript{Text: "1", FontSize: 6} },
		"neg border":    func(c *Cell) { c.Border.Left.Width = -1 },
		"sup neg right": func(c *Cell) { c.Superscript = &Superscript{Text: "1", Font: bold, FontSize: 6, PaddingRight: -1} },
	}
	for name, mutate := range cases {
		c := newCell("text")
		mutate(c)
		rec := draw.NewRecorder()
		err := NewDrawer(rec, monoMetrics{}).DrawContent(c, Box{Y: 100, Width: c.Width, Height: 20})
		if !errors.Is(err, ErrInvalidCell) {
			t.Fatalf("%s: expected ErrInvalidCell, got %v", name, err)
		}
		if len(rec.Ops) != 0 {
			t.Fatalf("%s: surface touched before validation: %v", name, rec.Names())
		}
	}
}

func TestInvalidCellDrawsNothing(t *testing.T) {
	bg := style.Color{R: 200}
	c := newCell("text")
	c.BackgroundColor = &bg
	c.Border = UniformBorder(1, style.Black, style.Solid)
	c.FontSize = 0

	rec := draw.NewRecorder()
	d := NewDrawer(rec, monoMetrics{})
	box := Box{Y: 100, Width: c.Width, Height: 20}
	if err := d.Draw(c, box); !errors.Is(err, ErrInvalidCell) {
		t.Fatalf("Draw: expected ErrInvalidCell, got %v", err)
	}
	if err := d.DrawBackground(c, box); !errors.Is(err, ErrInvalidCell) {
		t.Fatalf("DrawBackground: expected ErrInvalidCell, got %v", err)
	}
	if len(rec.Ops) != 0 {
		t.Fatalf("surface touched: %v", rec.Names())
	}
	if _, err := c.Height(monoMetrics{}); !errors.Is(err, ErrInvalidCell) {
		t.Fatalf("Height: expected ErrInvalidCell, got %v", err)
	}
}

func TestNoWrapDrawsSingleLine(t *testing.T) {
	c := newCell("a b c d e f g h i j k l m n o p q r s t u v w x y z")
	c.WordBreak = false
	c.Width = 10
	rec := draw.NewRecorder()
	if err := NewDrawer(rec, monoMetrics{}).DrawContent(c, Box{Y: 100, Width: 10, Height: 20}); err != nil {
		t.Fatalf("DrawContent error: %v", err)
	}
	if n := len(rec.Filter("ShowText")); n != 1 {
		t.Fatalf("expected a single run, got %d", n)
	}
}

func TestSurfaceErrorAbortsContent(t *testing.T) {
	boom := errors.New("disk full")
	rec := draw.NewRecorder()
	rec.FailOn = map[string]error{"EndText": boom}
	err := NewDrawer(rec, monoMetrics{}).DrawContent(newCell("one two"), Box{Y: 100, Width: 110, Height: 20})
	if !errors.Is(err, boom) {
		t.Fatalf("expected surface error, got %v", err)
	}
	if n := len(rec.Filter("ShowText")); n != 1 {
		t.Fatalf("drawing continued after failure: %v", rec.Names())
	}
}

func TestDrawBordersAndBackground(t *testing.T) {
	bg := style.Color{R: 240, G: 240, B: 240}
	red := style.Color{R: 255}
	c := newCell("x")
	c.BackgroundColor = &bg
	c.Border = UniformBorder(1, style.Black, style.Solid)
	c.Border.Bottom = Edge{Width: 2, Color: red, Style: style.Dotted}
	c.Border.Right.Width = 0

	rec := draw.NewRecorder()
	d := NewDrawer(rec, monoMetrics{})
	box := Box{X: 10, Y: 100, Width: 110, Height: 30}
	if err := d.Draw(c, box); err != nil {
		t.Fatalf("Draw error: %v", err)
	}

	rects := rec.Filter("AddRect")
	if len(rects) != 1 {
		t.Fatalf("expected one background, got %d", len(rects))
	}
	if a := rects[0].Args; a[0] != 10 || a[1] != 70 || a[2] != 110 || a[3] != 30 {
		t.Fatalf("unexpected background rect %v", a)
	}
	if n := len(rec.Filter("Stroke")); n != 3 {
		t.Fatalf("expected 3 border strokes, got %d", n)
	}
	moves := rec.Filter("MoveTo")
	// top, bottom, left
	if a := moves[1].Args; a[0] != 10 || a[1] != 70 {
		t.Fatalf("bottom border starts at %v", a)
	}
	st := rec.State()
	if !st.SolidDash() {
		t.Fatalf("dash not reset: %v/%v", st.Dash, st.DashPhase)
	}
	if st.StrokeColor != style.Black || st.FillColor != style.Black {
		t.Fatalf("colors not reset: %+v", st)
	}
	if st.CharSpacing != 0 || st.InText {
		t.Fatalf("text state leaked: %+v", st)
	}
}

func TestHeight(t *testing.T) {
	c := newCell("The last word ======> to next line")
	c.LineSpacing = 0.5
	c.Padding = Padding{Top: 2, Bottom: 3}
	c.Border = UniformBorder(1, style.Black, style.Solid)
	h, err := c.Height(monoMetrics{})
	if err != nil {
		t.Fatalf("Height error: %v", err)
	}
	// two lines: 7 + 7*1.5, plus 5 padding and 2 border
	if !almost(h, 7+10.5+5+2) {
		t.Fatalf("Height = %v", h)
	}
}
