package tui

import (
	"time"

	"github.com/charmbracelet/log"
	"github.com/hylla/datefield/internal/calendar"
)

// CapabilityGate reports whether the host should keep plain text entry instead of the popup.
type CapabilityGate func() bool

// PickerOption configures one DatePicker at attach time.
type PickerOption func(*DatePicker)

// WithPickerLocale sets the week start and hour format.
func WithPickerLocale(loc calendar.Locale) PickerOption {
	return func(p *DatePicker) {
		p.locale = loc
	}
}

// WithPickerClock overrides the source of "today".
func WithPickerClock(now func() time.Time) PickerOption {
	return func(p *DatePicker) {
		if now != nil {
			p.now = now
		}
	}
}

// WithPickerGate installs the environment capability gate.
func WithPickerGate(gate CapabilityGate) PickerOption {
	return func(p *DatePicker) {
		p.gate = gate
	}
}

// WithFieldBox sets the measured field box size. It is read once at attach.
func WithFieldBox(width, height int) PickerOption {
	return func(p *DatePicker) {
		if width > 0 {
			p.width = width
		}
		if height > 0 {
			p.height = height
		}
	}
}

// WithPickerKeys applies key overrides.
func WithPickerKeys(cfg KeyConfig) PickerOption {
	return func(p *DatePicker) {
		p.keys.applyConfig(cfg)
	}
}

// Option configures the host form model.
type Option func(*Model)

// WithLocale sets the locale used by every picker and by status timestamps.
func WithLocale(loc calendar.Locale) Option {
	return func(m *Model) {
		m.locale = loc
	}
}

// WithClock overrides the clock used by pickers.
func WithClock(now func() time.Time) Option {
	return func(m *Model) {
		if now != nil {
			m.now = now
		}
	}
}

// WithCapabilityGate installs the environment gate for every picker.
func WithCapabilityGate(gate CapabilityGate) Option {
	return func(m *Model) {
		m.gate = gate
	}
}

// WithFieldWidth sets the width of every field box.
func WithFieldWidth(width int) Option {
	return func(m *Model) {
		if width > 0 {
			m.fieldWidth = width
		}
	}
}

// WithKeyConfig applies picker key overrides.
func WithKeyConfig(cfg KeyConfig) Option {
	return func(m *Model) {
		m.keyConfig = cfg
		m.keys.picker.applyConfig(cfg)
	}
}

// WithLogger sets the logger used for submit and reset events.
func WithLogger(logger *log.Logger) Option {
	return func(m *Model) {
		m.logger = logger
	}
}

// WithClipboard overrides the clipboard writer.
func WithClipboard(write func(string) error) Option {
	return func(m *Model) {
		if write != nil {
			m.writeClipboard = write
		}
	}
}

// WithAutofocus focuses the first field on start, which opens its popup.
func WithAutofocus(enabled bool) Option {
	return func(m *Model) {
		m.autofocus = enabled
	}
}
