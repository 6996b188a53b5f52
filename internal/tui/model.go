package tui

import (
	"context"
	"fmt"
	"image/color"
	"strings"
	"time"

	"charm.land/bubbles/v2/help"
	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/atotto/clipboard"
	"github.com/charmbracelet/log"
	"github.com/hylla/datefield/internal/calendar"
	"github.com/hylla/datefield/internal/domain"
)

// Service persists submitted form values.
type Service interface {
	Submit(context.Context, string, []domain.FieldValue) (domain.Submission, error)
}

// layout constants shared by View and mouse hit testing.
const (
	layoutMarginX = 2
	layoutTop     = 2
)

// submittedMsg carries the result of one submit command.
type submittedMsg struct {
	submission domain.Submission
	err        error
}

// copiedMsg carries the result of one clipboard write.
type copiedMsg struct {
	value string
	err   error
}

// Model is the host form: a column of date fields, each with its own picker.
type Model struct {
	svc     Service
	form    *domain.Form
	pickers []*DatePicker
	focus   int

	keys      keyMap
	keyConfig KeyConfig
	help      help.Model
	showHelp  bool
	markdown  *markdownRenderer

	locale         calendar.Locale
	now            func() time.Time
	gate           CapabilityGate
	fieldWidth     int
	autofocus      bool
	logger         *log.Logger
	writeClipboard func(string) error

	ready  bool
	width  int
	height int
	status string
}

// NewModel attaches a picker to every field of form.
func NewModel(svc Service, form *domain.Form, opts ...Option) Model {
	h := help.New()
	h.ShowAll = false
	m := Model{
		svc:            svc,
		form:           form,
		focus:          -1,
		keys:           newKeyMap(),
		help:           h,
		markdown:       &markdownRenderer{},
		locale:         calendar.DefaultLocale(),
		now:            time.Now,
		fieldWidth:     defaultFieldW,
		writeClipboard: clipboard.WriteAll,
		status:         "ready",
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&m)
		}
	}

	fields := form.Fields()
	if m.autofocus && len(fields) > 0 {
		fields[0].Focus()
		m.focus = 0
	}
	pickerOpts := []PickerOption{
		WithPickerLocale(m.locale),
		WithPickerClock(m.now),
		WithPickerGate(m.gate),
		WithFieldBox(m.fieldWidth, defaultFieldH),
		WithPickerKeys(m.keyConfig),
	}
	m.pickers = make([]*DatePicker, 0, len(fields))
	for _, field := range fields {
		m.pickers = append(m.pickers, AttachDatePicker(field, pickerOpts...))
	}
	return m
}

// Init handles init.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update updates state for the requested operation.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case submittedMsg:
		if msg.err != nil {
			m.status = "error: " + msg.err.Error()
			m.logError("submit failed", msg.err)
			return m, nil
		}
		m.status = fmt.Sprintf("saved %s at %s", msg.submission.ID, m.locale.FormatTimestamp(msg.submission.SubmittedAt.Local()))
		m.logDebug("form submitted", "id", msg.submission.ID, "form", msg.submission.FormName)
		return m, nil

	case copiedMsg:
		if msg.err != nil {
			m.status = "copy failed: " + msg.err.Error()
			return m, nil
		}
		m.status = "copied " + msg.value
		return m, nil

	case tea.KeyPressMsg:
		return m.handleKey(msg)

	case tea.MouseClickMsg:
		return m.handleMouseClick(msg)
	}
	return m, nil
}

// handleKey routes host shortcuts first, then the focused picker, then form navigation.
func (m Model) handleKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.forceQuit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.reset):
		m.resetForm()
		return m, nil
	case isCtrlY(msg):
		return m, m.copyFocusedValue()
	}

	if m.showHelp {
		if key.Matches(msg, m.keys.help) || msg.String() == "esc" {
			m.showHelp = false
		}
		return m, nil
	}

	picker := m.focusedPicker()
	if picker == nil || (!picker.Open() && !picker.Native()) {
		switch {
		case key.Matches(msg, m.keys.quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.help):
			m.showHelp = true
			return m, nil
		}
	}

	if picker != nil {
		if handled, cmd := picker.HandleKey(msg); handled {
			return m, cmd
		}
	}

	switch {
	case key.Matches(msg, m.keys.nextField):
		return m, m.moveFocus(1)
	case key.Matches(msg, m.keys.prevField):
		return m, m.moveFocus(-1)
	case key.Matches(msg, m.keys.submit):
		return m, m.submit()
	}
	return m, nil
}

// handleMouseClick gives the open popup first claim on a click, then field boxes.
func (m Model) handleMouseClick(msg tea.MouseClickMsg) (tea.Model, tea.Cmd) {
	if m.showHelp || msg.Button != tea.MouseLeft {
		return m, nil
	}
	lay := m.layout()
	if picker := m.focusedPicker(); picker != nil && picker.Open() {
		ox, oy := lay.popupOrigin(m.focus)
		if picker.HandleClick(msg.X-ox, msg.Y-oy) {
			return m, nil
		}
	}
	for idx, box := range lay.boxes {
		if !box.contains(msg.X, msg.Y) {
			continue
		}
		if idx == m.focus {
			return m, m.pickers[idx].Focus()
		}
		return m, m.focusField(idx)
	}
	if picker := m.focusedPicker(); picker != nil {
		picker.Blur()
		m.focus = -1
	}
	return m, nil
}

// focusedPicker returns the picker holding focus, if any.
func (m Model) focusedPicker() *DatePicker {
	if m.focus < 0 || m.focus >= len(m.pickers) {
		return nil
	}
	return m.pickers[m.focus]
}

// moveFocus moves focus by delta with wraparound.
func (m *Model) moveFocus(delta int) tea.Cmd {
	if len(m.pickers) == 0 {
		return nil
	}
	next := 0
	switch {
	case m.focus < 0 && delta < 0:
		next = len(m.pickers) - 1
	case m.focus >= 0:
		next = wrapIndex(m.focus, delta, len(m.pickers))
	}
	return m.focusField(next)
}

// focusField blurs the current field and focuses idx.
func (m *Model) focusField(idx int) tea.Cmd {
	if current := m.focusedPicker(); current != nil {
		current.Blur()
	}
	m.focus = clamp(idx, 0, len(m.pickers)-1)
	return m.pickers[m.focus].Focus()
}

// submit captures the values on the update loop and persists them off it.
func (m *Model) submit() tea.Cmd {
	if m.svc == nil {
		m.status = "no store configured"
		return nil
	}
	formName := m.form.Name()
	values := m.form.Values()
	svc := m.svc
	m.status = "saving..."
	return func() tea.Msg {
		sub, err := svc.Submit(context.Background(), formName, values)
		return submittedMsg{submission: sub, err: err}
	}
}

// resetForm restores every field default.
func (m *Model) resetForm() {
	m.form.Reset()
	m.status = "form reset"
	m.logDebug("form reset", "form", m.form.Name())
}

// copyFocusedValue copies the focused field's canonical value.
func (m *Model) copyFocusedValue() tea.Cmd {
	picker := m.focusedPicker()
	if picker == nil {
		m.status = "no field focused"
		return nil
	}
	value := picker.Field().Value()
	if value == "" {
		m.status = "nothing to copy"
		return nil
	}
	write := m.writeClipboard
	return func() tea.Msg {
		return copiedMsg{value: value, err: write(value)}
	}
}

// Form returns the bound form.
func (m Model) Form() *domain.Form { return m.form }

// Status returns the status line text.
func (m Model) Status() string { return m.status }

func (m Model) logDebug(msg string, keyvals ...any) {
	if m.logger != nil {
		m.logger.Debug(msg, keyvals...)
	}
}

func (m Model) logError(msg string, err error) {
	if m.logger != nil {
		m.logger.Error(msg, "err", err)
	}
}

// fieldBox is one field box in screen coordinates.
type fieldBox struct {
	x, y, w, h int
}

// contains reports whether (x, y) falls inside the box.
func (b fieldBox) contains(x, y int) bool {
	return x >= b.x && x < b.x+b.w && y >= b.y && y < b.y+b.h
}

// formLayout records where View puts each field box.
type formLayout struct {
	boxes []fieldBox
}

// layout computes field positions: a label row, the box, then a blank row per field.
func (m Model) layout() formLayout {
	out := formLayout{boxes: make([]fieldBox, 0, len(m.pickers))}
	y := layoutTop
	for _, picker := range m.pickers {
		w, h := picker.Size()
		y++
		out.boxes = append(out.boxes, fieldBox{x: layoutMarginX, y: y, w: w, h: h})
		y += h + 1
	}
	return out
}

// popupOrigin places the popup directly below box idx, centered on it.
func (l formLayout) popupOrigin(idx int) (int, int) {
	if idx < 0 || idx >= len(l.boxes) {
		return 0, 0
	}
	b := l.boxes[idx]
	return max(0, b.x+(b.w-popupWidth)/2), b.y + b.h
}

// View renders the form, the open popup, and the help overlay.
func (m Model) View() tea.View {
	if !m.ready {
		v := tea.NewView("loading...")
		v.MouseMode = tea.MouseModeCellMotion
		v.AltScreen = true
		return v
	}

	accent := lipgloss.Color("62")
	muted := lipgloss.Color("241")
	dim := lipgloss.Color("239")
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("252"))
	labelStyle := lipgloss.NewStyle().Foreground(muted)
	focusLabelStyle := lipgloss.NewStyle().Foreground(accent).Bold(true)
	statusStyle := lipgloss.NewStyle().Foreground(dim)

	indent := strings.Repeat(" ", layoutMarginX)
	lines := []string{
		titleStyle.Render("datefield") + "  " + m.form.Name(),
		"",
	}
	for idx, picker := range m.pickers {
		style := labelStyle
		if idx == m.focus {
			style = focusLabelStyle
		}
		lines = append(lines, indent+style.Render(picker.Field().Label()))
		for _, row := range strings.Split(picker.FieldView(), "\n") {
			lines = append(lines, indent+row)
		}
		lines = append(lines, "")
	}
	if strings.TrimSpace(m.status) != "" {
		lines = append(lines, indent+statusStyle.Render(m.status))
	}
	content := strings.Join(lines, "\n")

	helpBubble := m.help
	helpBubble.ShowAll = false
	helpBubble.SetWidth(max(0, m.width-2))
	helpLine := lipgloss.NewStyle().
		Foreground(muted).
		BorderTop(true).
		BorderForeground(dim).
		Padding(0, 1).
		Width(max(0, m.width)).
		Render(helpBubble.View(m.keys))
	if m.height > 0 {
		content = fitLines(content, max(0, m.height-lipgloss.Height(helpLine)))
	}
	fullContent := content + "\n" + helpLine

	if picker := m.focusedPicker(); picker != nil {
		if popup := picker.PopupView(); popup != "" {
			x, y := m.layout().popupOrigin(m.focus)
			fullContent = overlayAt(fullContent, popup, x, y, max(1, m.width), max(1, m.height))
		}
	}
	if m.showHelp {
		overlay := m.renderHelpOverlay(accent, muted, dim, m.width-8)
		fullContent = overlayOnContent(fullContent, overlay, max(1, m.width), max(1, m.height))
	}

	v := tea.NewView(fullContent)
	v.MouseMode = tea.MouseModeCellMotion
	v.AltScreen = true
	return v
}

// renderHelpOverlay renders the markdown key reference in a bordered box.
func (m Model) renderHelpOverlay(accent, muted, dim color.Color, maxWidth int) string {
	width := clamp(maxWidth, 40, 80)
	title := lipgloss.NewStyle().Bold(true).Foreground(accent).Render("datefield help")
	lines := []string{
		title,
		"",
		m.markdown.render(helpMarkdown(m.keys), width-4),
		"",
		lipgloss.NewStyle().Foreground(muted).Render("press ? or esc to close"),
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(dim).
		Padding(0, 1).
		Width(width).
		Render(strings.Join(lines, "\n"))
}

// helpMarkdown lists form and calendar bindings as markdown tables.
func helpMarkdown(k keyMap) string {
	var b strings.Builder
	writeTable := func(heading string, bindings []key.Binding) {
		b.WriteString("## " + heading + "\n\n| key | action |\n|---|---|\n")
		for _, binding := range bindings {
			h := binding.Help()
			fmt.Fprintf(&b, "| `%s` | %s |\n", h.Key, h.Desc)
		}
		b.WriteString("\n")
	}
	full := k.FullHelp()
	writeTable("Form", full[0])
	writeTable("Calendar", full[1])
	b.WriteString("Values are stored as `YYYY-MM-DD`; the field shows the long form.\n")
	return b.String()
}

// isCtrlY reports whether a keypress represents the Ctrl+Y copy shortcut.
func isCtrlY(msg tea.KeyPressMsg) bool {
	if msg.String() == "ctrl+y" {
		return true
	}
	if (msg.Mod & tea.ModCtrl) == 0 {
		return false
	}
	if msg.Code == 'y' || msg.Code == 'Y' {
		return true
	}
	return strings.EqualFold(msg.Text, "y")
}

// wrapIndex wraps current+delta into [0, total).
func wrapIndex(current int, delta int, total int) int {
	if total <= 0 {
		return 0
	}
	next := (current + delta) % total
	if next < 0 {
		next += total
	}
	return next
}

// clamp clamps the requested operation.
func clamp(v, minV, maxV int) int {
	if maxV < minV {
		return minV
	}
	if v < minV {
		return minV
	}
	if v > maxV {
		return maxV
	}
	return v
}

// fitLines fits lines.
func fitLines(content string, maxLines int) string {
	if maxLines <= 0 {
		return ""
	}
	lines := strings.Split(content, "\n")
	switch {
	case len(lines) > maxLines:
		if maxLines == 1 {
			lines = []string{"…"}
		} else {
			lines = append(lines[:maxLines-1], "…")
		}
	case len(lines) < maxLines:
		padding := make([]string, maxLines-len(lines))
		lines = append(lines, padding...)
	}
	return strings.Join(lines, "\n")
}

// overlayOnContent centers overlay over base.
func overlayOnContent(base, overlay string, width, height int) string {
	if width <= 0 || height <= 0 {
		if strings.TrimSpace(overlay) == "" {
			return base
		}
		return overlay + "\n\n" + base
	}

	centered := lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, overlay)
	return overlayAt(base, centered, 0, 0, width, height)
}

// overlayAt composes overlay over base with its top-left corner at (x, y).
func overlayAt(base, overlay string, x, y, width, height int) string {
	base = fitLines(base, height)
	canvas := lipgloss.NewCanvas(width, height)
	canvas.Compose(lipgloss.NewLayer(base).X(0).Y(0).Z(0))
	canvas.Compose(lipgloss.NewLayer(overlay).X(x).Y(y).Z(10))
	return canvas.Render()
}

// truncate truncates the requested operation.
func truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	rs := []rune(s)
	if len(rs) <= max {
		return s
	}
	if max <= 1 {
		return string(rs[:max])
	}
	return string(rs[:max-1]) + "…"
}
