package domain

import (
	"fmt"
	"strings"
)

// Form groups date fields and dispatches reset events to registered listeners.
type Form struct {
	name           string
	fields         []*Field
	resetListeners []func()
}

// FieldValue is one named value captured from a form.
type FieldValue struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// NewForm builds a form and binds every field to it.
func NewForm(name string, fields ...*Field) (*Form, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrInvalidName
	}
	if len(fields) == 0 {
		return nil, ErrNoFields
	}
	seen := map[string]struct{}{}
	form := &Form{name: name}
	for _, field := range fields {
		if field == nil {
			return nil, ErrInvalidFieldName
		}
		if _, ok := seen[field.name]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateField, field.name)
		}
		seen[field.name] = struct{}{}
		field.form = form
		form.fields = append(form.fields, field)
	}
	return form, nil
}

func (f *Form) Name() string { return f.name }

// Fields returns the form fields in declaration order.
func (f *Form) Fields() []*Field {
	return append([]*Field(nil), f.fields...)
}

// Field looks up one field by name.
func (f *Form) Field(name string) (*Field, bool) {
	for _, field := range f.fields {
		if field.name == name {
			return field, true
		}
	}
	return nil, false
}

// OnReset registers fn to run after every Reset.
func (f *Form) OnReset(fn func()) {
	if fn == nil {
		return
	}
	f.resetListeners = append(f.resetListeners, fn)
}

// Reset rewrites every field to its default and then runs reset listeners.
// Values are restored silently; listeners are responsible for re-notifying
// anything derived from them.
func (f *Form) Reset() {
	for _, field := range f.fields {
		field.restore()
	}
	for _, fn := range f.resetListeners {
		fn()
	}
}

// Values captures the current value of every field in declaration order.
func (f *Form) Values() []FieldValue {
	out := make([]FieldValue, 0, len(f.fields))
	for _, field := range f.fields {
		out = append(out, FieldValue{Name: field.name, Value: field.value})
	}
	return out
}
