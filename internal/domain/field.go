package domain

import (
	"fmt"
	"strings"

	"github.com/hylla/datefield/internal/calendar"
)

// WatchFunc receives the canonical value after every Set.
type WatchFunc func(value string)

// Field is one date form control. Its value is the canonical YYYY-MM-DD
// string (or empty) and is the single source of truth for any widget bound to it.
type Field struct {
	name         string
	label        string
	value        string
	defaultValue string
	focused      bool
	form         *Form
	watchers     []watcher
	nextWatchID  int
}

type watcher struct {
	id int
	fn WatchFunc
}

// NewField builds a field whose value starts at its default.
func NewField(name, label, defaultValue string) (*Field, error) {
	name = strings.TrimSpace(name)
	label = strings.TrimSpace(label)
	defaultValue = strings.TrimSpace(defaultValue)
	if name == "" {
		return nil, ErrInvalidFieldName
	}
	if label == "" {
		label = name
	}
	if defaultValue != "" {
		if _, ok := calendar.ParseISO(defaultValue); !ok {
			return nil, fmt.Errorf("%w: field %s default %q", ErrInvalidDate, name, defaultValue)
		}
	}
	return &Field{
		name:         name,
		label:        label,
		value:        defaultValue,
		defaultValue: defaultValue,
	}, nil
}

func (f *Field) Name() string { return f.name }
func (f *Field) Label() string { return f.label }
func (f *Field) Value() string { return f.value }
func (f *Field) DefaultValue() string { return f.defaultValue }
func (f *Field) Focused() bool { return f.focused }

// Form returns the enclosing form, or nil for a standalone field.
func (f *Field) Form() *Form { return f.form }

// Set stores value and synchronously notifies every watcher in registration order.
func (f *Field) Set(value string) {
	f.value = value
	for _, w := range append([]watcher(nil), f.watchers...) {
		w.fn(value)
	}
}

// Watch registers fn for value changes and returns a function that removes it.
func (f *Field) Watch(fn WatchFunc) func() {
	if fn == nil {
		return func() {}
	}
	f.nextWatchID++
	id := f.nextWatchID
	f.watchers = append(f.watchers, watcher{id: id, fn: fn})
	return func() {
		for i, w := range f.watchers {
			if w.id == id {
				f.watchers = append(f.watchers[:i], f.watchers[i+1:]...)
				return
			}
		}
	}
}

// Focus marks the field as holding input focus.
func (f *Field) Focus() { f.focused = true }

// Blur clears input focus.
func (f *Field) Blur() { f.focused = false }

// restore puts the default back without notifying watchers, the way a form
// reset rewrites control values underneath any listeners.
func (f *Field) restore() {
	f.value = f.defaultValue
}
