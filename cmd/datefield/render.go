package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/hylla/datefield/internal/calendar"
	"github.com/hylla/datefield/internal/domain"
)

var (
	tableBorderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("62"))
	tableHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("230"))
	gridOtherStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("239"))
	gridTodayStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("62"))
	gridPickedStyle  = lipgloss.NewStyle().Bold(true).Reverse(true).Foreground(lipgloss.Color("212"))
)

// renderGridTable draws the weekday header and the six grid rows.
func renderGridTable(state calendar.State) string {
	rows := make([][]string, 0, calendar.Rows)
	for r := 0; r < calendar.Rows; r++ {
		row := make([]string, 0, calendar.Cols)
		for c := 0; c < calendar.Cols; c++ {
			row = append(row, fmt.Sprintf("%2d", state.Grid[r][c].Day))
		}
		rows = append(rows, row)
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(tableBorderStyle).
		Headers(state.Weekdays[:]...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return tableHeaderStyle
			}
			if row < 0 || row >= calendar.Rows || col < 0 || col >= calendar.Cols {
				return lipgloss.NewStyle()
			}
			cell := state.Grid[row][col]
			switch {
			case cell.Selected:
				return gridPickedStyle
			case cell.Tag == calendar.TagToday:
				return gridTodayStyle
			case cell.Tag == calendar.TagPastMonth, cell.Tag == calendar.TagFutureMonth:
				return gridOtherStyle
			}
			return lipgloss.NewStyle()
		})
	return t.Render()
}

// renderHistoryTable lists submissions with timestamps in the configured hour format.
func renderHistoryTable(subs []domain.Submission, loc calendar.Locale) string {
	rows := make([][]string, 0, len(subs))
	for _, sub := range subs {
		values := make([]string, 0, len(sub.Values))
		for _, v := range sub.Values {
			display := v.Value
			if display == "" {
				display = "-"
			}
			values = append(values, v.Name+"="+display)
		}
		rows = append(rows, []string{
			sub.ID,
			sub.FormName,
			loc.FormatTimestamp(sub.SubmittedAt.Local()),
			strings.Join(values, ", "),
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(tableBorderStyle).
		Headers("ID", "FORM", "SUBMITTED", "VALUES").
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return tableHeaderStyle
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})
	return t.Render()
}
