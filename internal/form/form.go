// Package form describes configuration forms independently of how they are
// drawn. Renderers build a Form from a control's schema and turn the
// submitted Values back into settings; the TUI and the HTTP API only ever
// deal with these types.
package form

import (
	"strings"
)

// FieldKind selects how a field is presented.
type FieldKind string

const (
	Toggle FieldKind = "toggle"
	Choice FieldKind = "choice"
	Text   FieldKind = "text"
)

// Field is one input of a form.
type Field struct {
	Key     string    `json:"key"`
	Label   string    `json:"label"`
	Help    string    `json:"help,omitempty"`
	Kind    FieldKind `json:"kind"`
	Choices []string  `json:"choices,omitempty"`
	Default any       `json:"default,omitempty"`
	Group   string    `json:"group,omitempty"`
}

// Form is an ordered list of fields.
type Form struct {
	Title  string  `json:"title"`
	Fields []Field `json:"fields"`
}

// Values holds submitted field values keyed by Field.Key. Toggles carry a
// bool, choices and text fields a string.
type Values map[string]any

// Defaults returns the default value of every field that declares one.
func (f Form) Defaults() Values {
	v := Values{}
	for _, fld := range f.Fields {
		if fld.Default != nil {
			v[fld.Key] = fld.Default
		}
	}
	return v
}

// Field returns the field with the given key.
func (f Form) Field(key string) (Field, bool) {
	for _, fld := range f.Fields {
		if fld.Key == key {
			return fld, true
		}
	}
	return Field{}, false
}

// Bool returns a toggle value; anything other than a true bool is false.
func (v Values) Bool(key string) bool {
	b, ok := v[key].(bool)
	return ok && b
}

// String returns a trimmed text/choice value.
func (v Values) String(key string) string {
	s, _ := v[key].(string)
	return strings.TrimSpace(s)
}

// Enabled returns the keys of all toggles under prefix that are switched on,
// in form order, with the prefix stripped.
func (f Form) Enabled(v Values, prefix string) []string {
	var out []string
	for _, fld := range f.Fields {
		if fld.Kind != Toggle || !strings.HasPrefix(fld.Key, prefix) {
			continue
		}
		if v.Bool(fld.Key) {
			out = append(out, strings.TrimPrefix(fld.Key, prefix))
		}
	}
	return out
}
