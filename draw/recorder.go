package draw

import (
	"encoding/json"
	"os"

	"github.com/olekukonko/errors"

	"github.com/ByLCY/celltable/style"
)

// Op is one recorded surface call.
type Op struct {
	Name  string       `json:"op"`
	Args  []float64    `json:"args,omitempty"`
	Text  string       `json:"text,omitempty"`
	Color *style.Color `json:"color,omitempty"`
	Font  *style.Font  `json:"font,omitempty"`
}

// Recorder is an in-memory Surface that keeps every call in order and tracks
// the resulting graphics state. A non-nil FailOn makes the named operation
// return that error once it is reached.
type Recorder struct {
	Ops    []Op
	FailOn map[string]error

	state State
}

var _ Surface = (*Recorder)(nil)

// NewRecorder returns a recorder in the default state.
func NewRecorder() *Recorder {
	return &Recorder{state: DefaultState()}
}

// State returns a copy of the current graphics state.
func (r *Recorder) State() State {
	st := r.state
	st.Dash = append([]float64{}, r.state.Dash...)
	return st
}

// Names lists the recorded operation names.
func (r *Recorder) Names() []string {
	out := make([]string, len(r.Ops))
	for i, op := range r.Ops {
		out[i] = op.Name
	}
	return out
}

// Filter returns the ops with the given name.
func (r *Recorder) Filter(name string) []Op {
	var out []Op
	for _, op := range r.Ops {
		if op.Name == name {
			out = append(out, op)
		}
	}
	return out
}

// Reset drops recorded ops and restores the default state.
func (r *Recorder) Reset() {
	r.Ops = nil
	r.state = DefaultState()
}

// WriteJSON dumps the recorded ops to path.
func (r *Recorder) WriteJSON(path string) error {
	data, err := json.MarshalIndent(r.Ops, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func (r *Recorder) record(op Op) error {
	if err, ok := r.FailOn[op.Name]; ok && err != nil {
		return errors.Newf("%s: %w", op.Name, err)
	}
	r.Ops = append(r.Ops, op)
	return nil
}

func (r *Recorder) BeginText() error {
	if err := r.record(Op{Name: "BeginText"}); err != nil {
		return err
	}
	return r.state.Begin()
}

func (r *Recorder) EndText() error {
	if err := r.record(Op{Name: "EndText"}); err != nil {
		return err
	}
	return r.state.End()
}

func (r *Recorder) SetTextRise(rise float64) error {
	if err := r.record(Op{Name: "SetTextRise", Args: []float64{rise}}); err != nil {
		return err
	}
	r.state.TextRise = rise
	return nil
}

func (r *Recorder) SetFont(font style.Font, size float64) error {
	f := font
	if err := r.record(Op{Name: "SetFont", Args: []float64{size}, Font: &f}); err != nil {
		return err
	}
	r.state.Font = font
	r.state.FontSize = size
	return nil
}

func (r *Recorder) NewLineAtOffset(x, y float64) error {
	if err := r.record(Op{Name: "NewLineAtOffset", Args: []float64{x, y}}); err != nil {
		return err
	}
	return r.state.Offset(x, y)
}

func (r *Recorder) ShowText(s string) error {
	if err := r.state.CanShow(); err != nil {
		return err
	}
	return r.record(Op{Name: "ShowText", Text: s, Args: []float64{r.state.CharSpacing, r.state.TextRise}})
}

func (r *Recorder) SetCharacterSpacing(spacing float64) error {
	if err := r.record(Op{Name: "SetCharacterSpacing", Args: []float64{spacing}}); err != nil {
		return err
	}
	r.state.CharSpacing = spacing
	return nil
}

func (r *Recorder) SetNonStrokingColor(c style.Color) error {
	col := c
	if err := r.record(Op{Name: "SetNonStrokingColor", Color: &col}); err != nil {
		return err
	}
	r.state.FillColor = c
	return nil
}

func (r *Recorder) SetStrokingColor(c style.Color) error {
	col := c
	if err := r.record(Op{Name: "SetStrokingColor", Color: &col}); err != nil {
		return err
	}
	r.state.StrokeColor = c
	return nil
}

func (r *Recorder) SetLineWidth(width float64) error {
	if err := r.record(Op{Name: "SetLineWidth", Args: []float64{width}}); err != nil {
		return err
	}
	r.state.LineWidth = width
	return nil
}

func (r *Recorder) SetLineDashPattern(pattern []float64, phase float64) error {
	args := append(append([]float64{}, pattern...), phase)
	if err := r.record(Op{Name: "SetLineDashPattern", Args: args}); err != nil {
		return err
	}
	r.state.SetDash(pattern, phase)
	return nil
}

func (r *Recorder) MoveTo(x, y float64) error {
	return r.record(Op{Name: "MoveTo", Args: []float64{x, y}})
}

func (r *Recorder) LineTo(x, y float64) error {
	return r.record(Op{Name: "LineTo", Args: []float64{x, y}})
}

func (r *Recorder) AddRect(x, y, width, height float64) error {
	return r.record(Op{Name: "AddRect", Args: []float64{x, y, width, height}})
}

func (r *Recorder) Stroke() error { return r.record(Op{Name: "Stroke"}) }

func (r *Recorder) Fill() error { return r.record(Op{Name: "Fill"}) }
