package tui

import (
	"strings"
	"time"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"github.com/hylla/datefield/internal/calendar"
	"github.com/hylla/datefield/internal/domain"
)

// popup geometry, in terminal cells.
const (
	cellWidth      = 3
	popupInnerW    = calendar.Cols * cellWidth
	popupInnerH    = 2 + calendar.Rows
	popupOffsetX   = 2 // border + horizontal padding
	popupOffsetY   = 1 // border
	popupWidth     = popupInnerW + 2*popupOffsetX
	popupHeight    = popupInnerH + 2*popupOffsetY
	headerRow      = 0
	firstGridRow   = 2
	defaultFieldW  = 24
	defaultFieldH  = 1
	navHitWidth    = 1
	nativeCharSize = len("2006-01-02")
)

// DatePicker is a calendar popup bound to one date field. The field value is
// the only source of truth; the picker keeps a projection of it that is
// rebuilt on every change.
type DatePicker struct {
	field  *domain.Field
	locale calendar.Locale
	now    func() time.Time
	gate   CapabilityGate
	keys   pickerKeyMap

	width  int
	height int

	open  bool
	state calendar.State

	native bool
	input  textinput.Model
}

// AttachDatePicker binds a picker to field. When the capability gate reports a
// touch host the picker stays in native mode and edits the field as plain text.
func AttachDatePicker(field *domain.Field, opts ...PickerOption) *DatePicker {
	p := &DatePicker{
		field:  field,
		locale: calendar.DefaultLocale(),
		now:    time.Now,
		keys:   newPickerKeyMap(),
		width:  defaultFieldW,
		height: defaultFieldH,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}

	if p.gate != nil && p.gate() {
		p.native = true
		p.input = newNativeInput(field.Value())
		if form := field.Form(); form != nil {
			form.OnReset(func() {
				p.input.SetValue(p.field.Value())
			})
		}
		if field.Focused() {
			p.input.Focus()
		}
		return p
	}

	field.Watch(p.sync)
	field.Set(field.DefaultValue())
	if form := field.Form(); form != nil {
		form.OnReset(p.reset)
	}
	if field.Focused() {
		p.open = true
	}
	return p
}

// newNativeInput builds the plain text input used in native mode.
func newNativeInput(value string) textinput.Model {
	in := textinput.New()
	in.Prompt = ""
	in.Placeholder = "YYYY-MM-DD"
	in.CharLimit = nativeCharSize
	in.SetValue(value)
	return in
}

// sync is the field watcher: it rebuilds the projection from the new value.
func (p *DatePicker) sync(value string) {
	p.state = calendar.Synchronize(value, p.now(), p.locale.WeekStart)
}

// reset runs after the enclosing form restored its values.
func (p *DatePicker) reset() {
	p.field.Set(p.field.DefaultValue())
}

func (p *DatePicker) Field() *domain.Field { return p.field }

// Open reports whether the popup is visible.
func (p *DatePicker) Open() bool { return p.open }

// Native reports whether the picker fell back to plain text entry.
func (p *DatePicker) Native() bool { return p.native }

// State returns the current projection.
func (p *DatePicker) State() calendar.State { return p.state }

// Size returns the field box size measured at attach.
func (p *DatePicker) Size() (int, int) { return p.width, p.height }

// Focus opens the popup.
func (p *DatePicker) Focus() tea.Cmd {
	p.field.Focus()
	if p.native {
		return p.input.Focus()
	}
	p.open = true
	return nil
}

// Blur closes the popup regardless of where focus went.
func (p *DatePicker) Blur() {
	p.field.Blur()
	if p.native {
		p.input.Blur()
		return
	}
	p.open = false
}

// HandleKey applies one key press. It reports false only for keys the host
// should act on: Enter while the popup is hidden and Tab.
func (p *DatePicker) HandleKey(msg tea.KeyPressMsg) (bool, tea.Cmd) {
	if p.native {
		return p.handleNativeKey(msg)
	}

	switch p.keys.action(msg) {
	case actionCommit:
		if !p.open {
			return false, nil
		}
		p.open = false
	case actionToggle:
		p.open = !p.open
	case actionClose:
		p.open = false
	case actionLeave:
		p.open = false
		return false, nil
	case actionClear:
		p.field.Set("")
	case actionNextWeek:
		p.commit(calendar.AddDays(p.state.Reference, 7))
	case actionPrevWeek:
		p.commit(calendar.AddDays(p.state.Reference, -7))
	case actionNextDay:
		p.commit(calendar.AddDays(p.state.Reference, 1))
	case actionPrevDay:
		p.commit(calendar.AddDays(p.state.Reference, -1))
	case actionNextYear:
		p.commit(calendar.AddYears(p.state.Reference, 1))
	case actionPrevYear:
		p.commit(calendar.AddYears(p.state.Reference, -1))
	case actionNextMonth:
		p.commit(calendar.AddMonths(p.state.Reference, 1))
	case actionPrevMonth:
		p.commit(calendar.AddMonths(p.state.Reference, -1))
	}
	// Unmapped keys are swallowed too: the field never takes typed text.
	return true, nil
}

// handleNativeKey forwards keys to the text input and stores valid dates.
func (p *DatePicker) handleNativeKey(msg tea.KeyPressMsg) (bool, tea.Cmd) {
	switch p.keys.action(msg) {
	case actionCommit, actionLeave:
		return false, nil
	}
	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	raw := strings.TrimSpace(p.input.Value())
	switch {
	case raw == "":
		p.field.Set("")
	default:
		if date, ok := calendar.ParseISO(raw); ok {
			p.field.Set(calendar.FormatISO(date))
		}
	}
	return true, cmd
}

// HandleClick applies a click at popup-relative coordinates. Every click that
// lands inside the popup is reported as handled so focus stays on the field.
func (p *DatePicker) HandleClick(x, y int) bool {
	if p.native || !p.open {
		return false
	}
	if x < 0 || y < 0 || x >= popupWidth || y >= popupHeight {
		return false
	}
	ix, iy := x-popupOffsetX, y-popupOffsetY
	if ix < 0 || ix >= popupInnerW {
		return true
	}
	switch {
	case iy == headerRow:
		switch {
		case ix < navHitWidth:
			p.commit(calendar.AddMonths(p.state.Reference, -1))
		case ix >= popupInnerW-navHitWidth:
			p.commit(calendar.AddMonths(p.state.Reference, 1))
		}
	case iy >= firstGridRow && iy < firstGridRow+calendar.Rows:
		cell := p.state.Grid[iy-firstGridRow][ix/cellWidth]
		p.commit(cell.Date)
		p.open = false
	}
	return true
}

// commit writes date back to the field as its canonical value. Steps past
// the four-digit year range leave the value unchanged.
func (p *DatePicker) commit(date time.Time) {
	if !calendar.InRange(date) {
		return
	}
	p.field.Set(calendar.FormatISO(date))
}
