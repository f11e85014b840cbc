package dsl

import "strings"

// Commands returns the direct child commands called name, in order.
func (b *Block) Commands(name string) []*Command {
	if b == nil {
		return nil
	}
	var out []*Command
	for _, st := range b.Statements {
		if st.Command != nil && st.Command.Name == name {
			out = append(out, st.Command)
		}
	}
	return out
}

// Assignments collects key: value statements; later keys win.
func (b *Block) Assignments() map[string]*Value {
	out := map[string]*Value{}
	if b == nil {
		return out
	}
	for _, st := range b.Statements {
		if st.Assignment != nil {
			out[st.Assignment.Key] = st.Assignment.Value
		}
	}
	return out
}

// Text joins the string literals of the block.
func (b *Block) Text() string {
	if b == nil {
		return ""
	}
	var sb strings.Builder
	for _, st := range b.Statements {
		if st.Text != nil {
			sb.WriteString(string(st.Text.Value))
		}
	}
	return sb.String()
}

// Attrs splits command arguments into an optional leading style name and
// key/value pairs. With allowStyle, a leading identifier followed by an even
// number of tokens is the style name. A trailing unpaired token is returned
// as a flag.
func (c *Command) Attrs(allowStyle bool) (style string, attrs map[string]string, flags []string) {
	attrs = map[string]string{}
	args := c.Args
	if allowStyle && len(args)%2 == 1 && args[0].Type == "Ident" {
		style = args[0].Value
		args = args[1:]
	}
	for len(args) >= 2 {
		attrs[strings.ToLower(args[0].Value)] = args[1].Value
		args = args[2:]
	}
	for _, a := range args {
		flags = append(flags, a.Value)
	}
	return style, attrs, flags
}

// Text renders a scalar value as written; arrays are joined with ", ".
func (v *Value) Text() string {
	switch {
	case v == nil:
		return ""
	case v.String != nil:
		return string(*v.String)
	case v.Number != nil:
		return *v.Number
	case v.Color != nil:
		return *v.Color
	case v.Ident != nil:
		return *v.Ident
	case v.Array != nil:
		return strings.Join(v.List(), ", ")
	default:
		return ""
	}
}

// List returns array items, or the scalar as a one-element list.
func (v *Value) List() []string {
	if v == nil {
		return nil
	}
	if v.Array == nil {
		if s := v.Text(); s != "" {
			return []string{s}
		}
		return nil
	}
	out := make([]string, 0, len(v.Array.Values))
	for _, item := range v.Array.Values {
		if s := item.Text(); s != "" {
			out = append(out, s)
		}
	}
	return out
}
