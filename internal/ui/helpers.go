package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/ritualdetail/slotbook/internal/calendar"
)

// renderMonthCalendar renders the viewed month with navigation arrows.
func (m *Model) renderMonthCalendar() string {
	nav := m.machine.Navigator()
	view := nav.View()
	weekStart := m.config.WeekStartDay

	var lines []string

	// Month/Year header with the back arrow dimmed when disabled
	prev := m.styles.Header.Render("<")
	if !nav.CanNavigatePrevious() {
		prev = m.styles.Past.Render("<")
	}
	title := fmt.Sprintf("%s %d", view.Month, view.Year)
	header := fmt.Sprintf("%s %s %s", prev, m.styles.Header.Render(centre(title, 16)), m.styles.Header.Render(">"))
	lines = append(lines, header)

	lines = append(lines, m.styles.Help.Render(weekdayHeader(weekStart)))

	for _, week := range nav.Grid(weekStart) {
		cells := make([]string, len(week))
		for i, day := range week {
			cells[i] = m.renderDay(day)
		}
		lines = append(lines, strings.Join(cells, " "))
	}

	return m.styles.Border.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func (m *Model) renderDay(day int) string {
	if day == 0 {
		return "  "
	}

	nav := m.machine.Navigator()
	view := nav.View()
	date := calendar.Date{Year: view.Year, Month: view.Month, Day: day}
	dayStr := fmt.Sprintf("%2d", day)

	var style lipgloss.Style
	switch {
	case m.machine.IsSelected(day):
		style = m.styles.Selected
	case nav.Eligibility(day) == calendar.Past:
		style = m.styles.Past
	case date == nav.Today():
		style = m.styles.Today
	case m.bookedDays[date] > 0:
		style = m.styles.Booked
	default:
		style = m.styles.Normal
	}

	if day == m.cursor {
		style = style.Reverse(true)
	}
	return style.Render(dayStr)
}

func weekdayHeader(start time.Weekday) string {
	names := make([]string, 7)
	for i := 0; i < 7; i++ {
		names[i] = time.Weekday((int(start) + i) % 7).String()[:2]
	}
	return strings.Join(names, " ")
}

// renderSummary shows the committed selection, independent of the viewed month.
func (m *Model) renderSummary(width int) string {
	var lines []string
	lines = append(lines, m.styles.Header.Render("Your booking"))
	lines = append(lines, "")

	d, ok := m.machine.Selected()
	if !ok {
		lines = append(lines, m.styles.Help.Render("No date selected"))
		lines = append(lines, m.styles.Help.Render("Pick an available day to continue."))
	} else {
		lines = append(lines, wrap(d.Format(m.config.DateFormat), width))
		if n := m.bookedDays[d]; n > 0 {
			lines = append(lines, m.styles.Help.Render(fmt.Sprintf("%d booking(s) already on this day", n)))
		}
	}

	lines = append(lines, "")
	bookHint := fmt.Sprintf("%s  Book this date", m.keyFor("book"))
	if m.machine.CanRequestDetails() {
		lines = append(lines, m.styles.Accent.Render(bookHint))
	} else {
		lines = append(lines, m.styles.Past.Render(bookHint))
	}

	return m.styles.Border.Width(width).Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

// keyFor returns a key bound to action for hints, preferring single runes.
func (m *Model) keyFor(action string) string {
	best := ""
	for key, a := range m.config.KeyBindings {
		if a != action {
			continue
		}
		if best == "" || len(key) < len(best) || (len(key) == len(best) && key < best) {
			best = key
		}
	}
	if best == " " {
		return "space"
	}
	return best
}

func wrap(s string, width int) string {
	if width < 20 {
		width = 20
	}
	return wordwrap.String(s, width)
}

func centre(s string, width int) string {
	pad := width - lipgloss.Width(s)
	if pad <= 0 {
		return s
	}
	left := pad / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", pad-left)
}
