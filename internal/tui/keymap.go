package tui

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
)

// KeyConfig holds user overrides for the picker bindings. Blank values keep defaults.
type KeyConfig struct {
	Toggle   string
	Close    string
	Clear    string
	NextWeek string
	PrevWeek string
	NextDay  string
	PrevDay  string
}

// keyAction is the picker-level meaning of a key press.
type keyAction int

// actionNone and related constants enumerate picker actions.
const (
	actionNone keyAction = iota
	actionCommit
	actionToggle
	actionClose
	actionLeave
	actionClear
	actionNextWeek
	actionPrevWeek
	actionNextDay
	actionPrevDay
	actionNextYear
	actionPrevYear
	actionNextMonth
	actionPrevMonth
)

// pickerKeyMap binds keys to picker actions.
type pickerKeyMap struct {
	commit    key.Binding
	toggle    key.Binding
	close     key.Binding
	leave     key.Binding
	clear     key.Binding
	nextWeek  key.Binding
	prevWeek  key.Binding
	nextDay   key.Binding
	prevDay   key.Binding
	nextYear  key.Binding
	prevYear  key.Binding
	nextMonth key.Binding
	prevMonth key.Binding
}

// newPickerKeyMap constructs the default picker bindings.
func newPickerKeyMap() pickerKeyMap {
	return pickerKeyMap{
		commit:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "close calendar / submit")),
		toggle:    key.NewBinding(key.WithKeys(" ", "space"), key.WithHelp("space", "toggle calendar")),
		close:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close calendar")),
		leave:     key.NewBinding(key.WithKeys("tab", "shift+tab"), key.WithHelp("tab", "close and move focus")),
		clear:     key.NewBinding(key.WithKeys("backspace", "delete"), key.WithHelp("backspace", "clear date")),
		nextWeek:  key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/↓", "next week")),
		prevWeek:  key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k/↑", "previous week")),
		nextDay:   key.NewBinding(key.WithKeys("l", "right"), key.WithHelp("l/→", "next day")),
		prevDay:   key.NewBinding(key.WithKeys("h", "left"), key.WithHelp("h/←", "previous day")),
		nextYear:  key.NewBinding(key.WithKeys("shift+down"), key.WithHelp("shift+↓", "next year")),
		prevYear:  key.NewBinding(key.WithKeys("shift+up"), key.WithHelp("shift+↑", "previous year")),
		nextMonth: key.NewBinding(key.WithKeys("shift+right"), key.WithHelp("shift+→", "next month")),
		prevMonth: key.NewBinding(key.WithKeys("shift+left"), key.WithHelp("shift+←", "previous month")),
	}
}

// applyConfig applies configured overrides. Arrow keys and delete stay bound.
func (k *pickerKeyMap) applyConfig(cfg KeyConfig) {
	configureBinding(&k.toggle, cfg.Toggle, "space", "toggle calendar")
	configureBinding(&k.close, cfg.Close, "esc", "close calendar")
	configureBinding(&k.clear, cfg.Clear, "backspace", "clear date", "delete")
	configureBinding(&k.nextWeek, cfg.NextWeek, "j", "next week", "down")
	configureBinding(&k.prevWeek, cfg.PrevWeek, "k", "previous week", "up")
	configureBinding(&k.nextDay, cfg.NextDay, "l", "next day", "right")
	configureBinding(&k.prevDay, cfg.PrevDay, "h", "previous day", "left")
}

// action resolves a key press. Shifted arrows are checked before plain ones.
func (k pickerKeyMap) action(msg tea.KeyPressMsg) keyAction {
	table := []struct {
		binding key.Binding
		action  keyAction
	}{
		{k.nextYear, actionNextYear},
		{k.prevYear, actionPrevYear},
		{k.nextMonth, actionNextMonth},
		{k.prevMonth, actionPrevMonth},
		{k.commit, actionCommit},
		{k.toggle, actionToggle},
		{k.close, actionClose},
		{k.leave, actionLeave},
		{k.clear, actionClear},
		{k.nextWeek, actionNextWeek},
		{k.prevWeek, actionPrevWeek},
		{k.nextDay, actionNextDay},
		{k.prevDay, actionPrevDay},
	}
	for _, entry := range table {
		if key.Matches(msg, entry.binding) {
			return entry.action
		}
	}
	return actionNone
}

// bindings lists picker bindings in help order.
func (k pickerKeyMap) bindings() []key.Binding {
	return []key.Binding{
		k.toggle, k.commit, k.close, k.clear,
		k.nextDay, k.prevDay, k.nextWeek, k.prevWeek,
		k.nextMonth, k.prevMonth, k.nextYear, k.prevYear,
	}
}

// keyMap holds host form bindings.
type keyMap struct {
	quit      key.Binding
	forceQuit key.Binding
	nextField key.Binding
	prevField key.Binding
	submit    key.Binding
	reset     key.Binding
	copyValue key.Binding
	help      key.Binding
	picker    pickerKeyMap
}

// newKeyMap constructs key map.
func newKeyMap() keyMap {
	return keyMap{
		quit:      key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
		forceQuit: key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
		nextField: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next field")),
		prevField: key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "previous field")),
		submit:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "submit")),
		reset:     key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "reset form")),
		copyValue: key.NewBinding(key.WithKeys("ctrl+y"), key.WithHelp("ctrl+y", "copy value")),
		help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "toggle help")),
		picker:    newPickerKeyMap(),
	}
}

// ShortHelp handles short help.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.picker.toggle, k.nextField, k.submit, k.reset, k.help, k.quit}
}

// FullHelp handles full help.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.nextField, k.prevField, k.submit, k.reset, k.copyValue, k.help, k.quit, k.forceQuit},
		k.picker.bindings(),
	}
}

// configureBinding replaces a binding's keys from a configured value, keeping extra keys bound.
func configureBinding(b *key.Binding, raw, fallback, desc string, extra ...string) {
	keys, helpKey := parseBindingKeys(raw, fallback)
	for _, k := range extra {
		if !containsKey(keys, k) {
			keys = append(keys, k)
		}
	}
	b.SetKeys(keys...)
	b.SetHelp(helpKey, desc)
}

// parseBindingKeys turns one configured key into matcher keys and help text.
func parseBindingKeys(raw, fallback string) ([]string, string) {
	value := strings.TrimSpace(raw)
	if raw == " " {
		value = "space"
	}
	if value == "" {
		value = fallback
	}
	if value == "space" || value == " " {
		return []string{" ", "space"}, "space"
	}
	if utf8.RuneCountInString(value) == 1 {
		r, _ := utf8.DecodeRuneInString(value)
		if unicode.IsUpper(r) {
			return []string{value, "shift+" + strings.ToLower(value)}, value
		}
		return []string{value}, value
	}
	return []string{strings.ToLower(value)}, value
}

// containsKey reports whether keys already includes k.
func containsKey(keys []string, k string) bool {
	for _, existing := range keys {
		if existing == k {
			return true
		}
	}
	return false
}
