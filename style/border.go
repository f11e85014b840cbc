package style

import (
	"fmt"
	"strings"
)

// BorderStyle is a named stroke dash pattern plus phase.
type BorderStyle int

const (
	Solid BorderStyle = iota
	Dashed
	Dotted
)

type dash struct {
	pattern []float64
	phase   float64
}

var dashes = map[BorderStyle]dash{
	Solid:  {pattern: []float64{}, phase: 0},
	Dashed: {pattern: []float64{5, 2}, phase: 1},
	Dotted: {pattern: []float64{1}, phase: 1},
}

// Pattern returns a copy of the on/off segment lengths.
func (b BorderStyle) Pattern() []float64 {
	d, ok := dashes[b]
	if !ok {
		d = dashes[Solid]
	}
	out := make([]float64, len(d.pattern))
	copy(out, d.pattern)
	return out
}

// Phase returns the dash phase offset.
func (b BorderStyle) Phase() float64 {
	if d, ok := dashes[b]; ok {
		return d.phase
	}
	return 0
}

func (b BorderStyle) String() string {
	switch b {
	case Dashed:
		return "dashed"
	case Dotted:
		return "dotted"
	default:
		return "solid"
	}
}

// ParseBorderStyle accepts solid/dashed/dotted.
func ParseBorderStyle(v string) (BorderStyle, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "solid":
		return Solid, nil
	case "dashed", "dash":
		return Dashed, nil
	case "dotted", "dot":
		return Dotted, nil
	default:
		return Solid, fmt.Errorf("未知的边框样式：%s", v)
	}
}
