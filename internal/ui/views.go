package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ritualdetail/slotbook/internal/catalog"
	"github.com/ritualdetail/slotbook/internal/intake"
)

func (m *Model) viewCalendar() string {
	cal := m.renderMonthCalendar()

	summaryWidth := m.width - lipgloss.Width(cal) - 4
	if summaryWidth > 40 {
		summaryWidth = 40
	}
	if summaryWidth < 24 {
		return lipgloss.JoinVertical(lipgloss.Left, cal, m.renderSummary(lipgloss.Width(cal)-4))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cal, "  ", m.renderSummary(summaryWidth))
}

func (m *Model) viewHelp() string {
	help := []string{
		m.styles.Header.Render("Slotbook Help"),
		"",
		m.styles.Normal.Render("Calendar:"),
		m.styles.Help.Render("  h/j/k/l, arrows  - Move between days"),
		m.styles.Help.Render("  <  >             - Previous / next month"),
		m.styles.Help.Render("  enter, space     - Select day"),
		m.styles.Help.Render("  t                - Back to today"),
		m.styles.Help.Render("  g                - Go to a date"),
		m.styles.Help.Render("  b                - Book the selected date"),
		"",
		m.styles.Normal.Render("Details form:"),
		m.styles.Help.Render("  tab / shift+tab  - Next / previous field"),
		m.styles.Help.Render("  space, ←/→       - Change slot, package, category"),
		m.styles.Help.Render("  enter, ctrl+s    - Submit"),
		m.styles.Help.Render("  esc              - Back to calendar"),
		"",
		m.styles.Help.Render("  ?                - Toggle help"),
		m.styles.Help.Render("  q                - Quit"),
		"",
		m.styles.Help.Render("Press any key to return..."),
	}

	return lipgloss.JoinVertical(lipgloss.Left, help...)
}

func (m *Model) viewGoto() string {
	sections := []string{
		m.styles.Header.Render("Go to date"),
		"",
		m.styles.Normal.Render("Enter a date (e.g. 'tomorrow', 'next sat afternoon', '10/15'):"),
		m.input.View(),
		"",
		m.styles.Help.Render("Enter to jump, Esc to cancel"),
	}
	return m.styles.Modal.Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

func (m *Model) viewDetails() string {
	if m.form == nil {
		return m.styles.Modal.Render(m.styles.Header.Render("Your details"))
	}

	var sections []string

	title := "Your details"
	if d, ok := m.machine.Selected(); ok {
		title = "Book " + d.Format(m.config.DateFormat)
	}
	sections = append(sections, m.styles.Header.Render(title), "")

	errs := m.machine.Errors()
	for i, field := range intake.TextFields {
		label := m.styles.Label.Render(field.Label())
		if m.form.focus == i {
			label = m.styles.Accent.Copy().Width(15).Render(field.Label())
		}
		sections = append(sections, label+" "+m.form.inputs[i].View())

		switch {
		case errs.Has(field):
			sections = append(sections, m.styles.Label.Render("")+" "+m.styles.Error.Render(errs[field]))
		case m.form.missing[field]:
			sections = append(sections, m.styles.Label.Render("")+" "+m.styles.Error.Render("Required"))
		}
	}

	sections = append(sections, "")
	sections = append(sections, m.renderChoice(focusSlot, intake.FieldTimeSlot.Label(), m.renderSlots()))
	sections = append(sections, m.renderChoice(focusPackage, "Package", m.renderPackage()))
	sections = append(sections, m.renderChoice(focusCategory, "Vehicle type", m.renderCategory()))

	if price := m.renderPrice(); price != "" {
		sections = append(sections, m.styles.Label.Render("Price")+" "+m.styles.Accent.Render(price))
	}

	if err := m.machine.SubmitError(); err != nil {
		sections = append(sections, "", m.styles.Error.Render(wrap("Booking not accepted: "+err.Error(), 56)))
	}

	sections = append(sections, "", m.styles.Help.Render("tab next • shift+tab prev • enter submit • esc cancel"))

	return m.styles.Modal.Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

func (m *Model) renderChoice(focus int, label, value string) string {
	l := m.styles.Label.Render(label)
	if m.form.focus == focus {
		l = m.styles.Accent.Copy().Width(15).Render(label)
	}
	return l + " " + value
}

func (m *Model) renderSlots() string {
	var parts []string
	for _, slot := range []intake.TimeSlot{intake.Morning, intake.Afternoon} {
		mark := "( )"
		style := m.styles.Normal
		if slot == m.form.slot {
			mark = "(•)"
			style = m.styles.Accent
		}
		parts = append(parts, style.Render(fmt.Sprintf("%s %s %s", mark, slot, slot.Window())))
	}
	return strings.Join(parts, "  ")
}

func (m *Model) renderPackage() string {
	id := m.form.packageID(m.catalog)
	if id == "" {
		return m.styles.Help.Render("‹ none ›")
	}
	p, _ := m.catalog.Lookup(id)
	name := p.Name
	if p.Popular {
		name += " ★"
	}
	return "‹ " + name + " ›"
}

func (m *Model) renderCategory() string {
	name := m.form.categoryName()
	if name == "" {
		return m.styles.Help.Render("‹ none ›")
	}
	return "‹ " + name + " ›"
}

func (m *Model) renderPrice() string {
	id := m.form.packageID(m.catalog)
	cat := m.form.categoryName()
	if id == "" || cat == "" {
		return ""
	}
	price, ok := m.catalog.Price(id, catalog.Category(cat))
	if !ok {
		return ""
	}
	return m.catalog.FormatPrice(price)
}

func (m *Model) viewPending() string {
	date := ""
	if b, ok := m.machine.LastBooking(); ok {
		date = b.Date.Format(m.config.DateFormat)
	}
	sections := []string{
		m.styles.Header.Render("Sending booking"),
		"",
		fmt.Sprintf("%s Confirming %s...", m.spinner.View(), date),
	}
	return m.styles.Modal.Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

func (m *Model) viewConfirmation() string {
	b, ok := m.machine.LastBooking()
	if !ok {
		return m.styles.Modal.Render(m.styles.Header.Render("Booking confirmed"))
	}
	r := b.Record

	row := func(label, value string) string {
		return m.styles.Label.Render(label) + " " + value
	}

	sections := []string{
		m.styles.Accent.Render("✓ Booking confirmed"),
		"",
		row("Reference", shortID(b.ID)),
		row("Date", b.Date.Format(m.config.DateFormat)),
		row("Arrival", fmt.Sprintf("%s (%s)", r.TimeSlot, r.TimeSlot.Window())),
		row("Name", r.FullName()),
		row("Vehicle", fmt.Sprintf("%s %s (%s)", r.VehicleMake, r.VehicleModel, r.VehicleYear)),
		row("Email", r.Email),
		row("Mobile", r.Mobile),
	}

	if p, ok := m.catalog.Lookup(r.Package); ok {
		pkg := p.Name
		if r.Category != "" {
			pkg += ", " + r.Category
			if price, ok := m.catalog.Price(p.ID, catalog.Category(r.Category)); ok {
				pkg += " " + m.catalog.FormatPrice(price)
			}
		}
		sections = append(sections, row("Package", pkg))
	}

	sections = append(sections,
		"",
		wrap("We'll send a confirmation to the email above. Our team will call before arriving.", 56),
		"",
		m.styles.Help.Render("Press enter to continue"),
	)

	return m.styles.Modal.Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

func (m *Model) renderStatusBar() string {
	selected := "no date selected"
	if d, ok := m.machine.Selected(); ok {
		selected = d.String()
	}
	left := fmt.Sprintf(" %s | %s", selected, m.machine.State())
	if m.outbox != nil {
		left += fmt.Sprintf(" | Bookings: %d", m.totalBookings)
	}

	right := "? for help | q to quit"

	if m.message != "" {
		right = m.styles.Message.Render(m.message)
	}

	width := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if width < 0 {
		width = 0
	}

	middle := strings.Repeat(" ", width)

	return m.styles.Help.Render(left + middle + right)
}
