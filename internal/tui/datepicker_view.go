package tui

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/hylla/datefield/internal/calendar"
)

// pickerStyles collects the popup and field box styles.
type pickerStyles struct {
	box        lipgloss.Style
	boxFocused lipgloss.Style
	popup      lipgloss.Style
	caption    lipgloss.Style
	nav        lipgloss.Style
	weekday    lipgloss.Style
	day        lipgloss.Style
	past       lipgloss.Style
	future     lipgloss.Style
	today      lipgloss.Style
	selected   lipgloss.Style
}

// newPickerStyles builds the default picker palette.
func newPickerStyles() pickerStyles {
	accent := lipgloss.Color("62")
	muted := lipgloss.Color("241")
	dim := lipgloss.Color("239")
	return pickerStyles{
		box:        lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Background(lipgloss.Color("236")),
		boxFocused: lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Background(lipgloss.Color("237")).Underline(true),
		popup: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(0, 1),
		caption:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("252")),
		nav:      lipgloss.NewStyle().Foreground(accent).Bold(true),
		weekday:  lipgloss.NewStyle().Foreground(muted),
		day:      lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		past:     lipgloss.NewStyle().Foreground(dim),
		future:   lipgloss.NewStyle().Foreground(dim),
		today:    lipgloss.NewStyle().Foreground(accent).Bold(true),
		selected: lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true).Reverse(true),
	}
}

// FieldView renders the field box: the display text centered over the field
// width. The canonical value is never shown in popup mode.
func (p *DatePicker) FieldView() string {
	styles := newPickerStyles()
	if p.native {
		return lipgloss.NewStyle().Width(p.width).Render(p.input.View())
	}
	style := styles.box
	if p.field.Focused() {
		style = styles.boxFocused
	}
	return style.
		Width(p.width).
		Height(p.height).
		Align(lipgloss.Center).
		Render(truncate(p.state.Display, p.width))
}

// PopupView renders the calendar popup, or "" while it is hidden.
func (p *DatePicker) PopupView() string {
	if p.native || !p.open {
		return ""
	}
	styles := newPickerStyles()
	lines := make([]string, 0, popupInnerH)
	lines = append(lines, p.renderHeader(styles))
	lines = append(lines, p.renderWeekdays(styles))
	for r := 0; r < calendar.Rows; r++ {
		cells := make([]string, 0, calendar.Cols)
		for c := 0; c < calendar.Cols; c++ {
			cells = append(cells, renderDayCell(styles, p.state.Grid[r][c]))
		}
		lines = append(lines, strings.Join(cells, ""))
	}
	return styles.popup.Render(strings.Join(lines, "\n"))
}

// renderHeader draws "‹ Caption ›" across the inner width.
func (p *DatePicker) renderHeader(styles pickerStyles) string {
	captionW := popupInnerW - 2
	caption := lipgloss.PlaceHorizontal(captionW, lipgloss.Center, styles.caption.Render(p.state.Caption))
	return styles.nav.Render("‹") + caption + styles.nav.Render("›")
}

// renderWeekdays draws the weekday header row.
func (p *DatePicker) renderWeekdays(styles pickerStyles) string {
	labels := make([]string, 0, calendar.Cols)
	for _, label := range p.state.Weekdays {
		labels = append(labels, styles.weekday.Render(fmt.Sprintf("%*s", cellWidth, label)))
	}
	return strings.Join(labels, "")
}

// renderDayCell draws one grid cell right aligned in cellWidth columns.
func renderDayCell(styles pickerStyles, cell calendar.DayCell) string {
	text := fmt.Sprintf("%*d", cellWidth, cell.Day)
	style := styles.day
	switch cell.Tag {
	case calendar.TagToday:
		style = styles.today
	case calendar.TagPastMonth:
		style = styles.past
	case calendar.TagFutureMonth:
		style = styles.future
	}
	if cell.Selected {
		style = styles.selected
	}
	return style.Render(text)
}
