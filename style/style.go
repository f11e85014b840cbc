// Package style holds the value types shared by the layout engine and the
// drawing surfaces: colors, font handles, alignments and border styles.
package style

import (
	"fmt"
	"strings"
)

// Color holds 0-255 RGB components.
type Color struct {
	R int `json:"r"`
	G int `json:"g"`
	B int `json:"b"`
}

var (
	Black = Color{}
	White = Color{R: 255, G: 255, B: 255}
)

// Hex formats the color as #rrggbb.
func (c Color) Hex() string { return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B) }

// RGB returns the components scaled to [0,1].
func (c Color) RGB() (float64, float64, float64) {
	return float64(c.R) / 255.0, float64(c.G) / 255.0, float64(c.B) / 255.0
}

// Font is an opaque font handle. Surfaces and metrics providers resolve it
// to a concrete face; src may be a file path, embed:<name> or built-in:<name>.
// Fallback is tried when Src cannot be loaded.
type Font struct {
	Name     string `json:"name"`
	Src      string `json:"src"`
	Style    string `json:"style,omitempty"`
	Fallback string `json:"fallback,omitempty"`
}

// IsZero reports whether the handle names no font at all.
func (f Font) IsZero() bool { return f.Name == "" && f.Src == "" }

// Key identifies the font for caching.
func (f Font) Key() string { return f.Name + "|" + f.Src + "|" + f.Style + "|" + f.Fallback }

// HorizontalAlignment positions each line inside the cell.
type HorizontalAlignment int

const (
	Left HorizontalAlignment = iota
	Center
	Right
	Justify
)

func (a HorizontalAlignment) String() string {
	switch a {
	case Center:
		return "center"
	case Right:
		return "right"
	case Justify:
		return "justify"
	default:
		return "left"
	}
}

// ParseHorizontalAlignment accepts left/center/right/justify and the
// start/end aliases.
func ParseHorizontalAlignment(v string) (HorizontalAlignment, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "left", "start":
		return Left, nil
	case "center", "centre":
		return Center, nil
	case "right", "end":
		return Right, nil
	case "justify", "justified":
		return Justify, nil
	default:
		return Left, fmt.Errorf("未知的水平对齐方式：%s", v)
	}
}

// VerticalAlignment positions the text block inside the cell.
type VerticalAlignment int

const (
	Top VerticalAlignment = iota
	Middle
	Bottom
)

func (a VerticalAlignment) String() string {
	switch a {
	case Middle:
		return "middle"
	case Bottom:
		return "bottom"
	default:
		return "top"
	}
}

// ParseVerticalAlignment accepts top/middle/bottom.
func ParseVerticalAlignment(v string) (VerticalAlignment, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "top":
		return Top, nil
	case "middle", "center":
		return Middle, nil
	case "bottom":
		return Bottom, nil
	default:
		return Top, fmt.Errorf("未知的垂直对齐方式：%s", v)
	}
}
