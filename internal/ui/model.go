package ui

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/ritualdetail/slotbook/internal/booking"
	"github.com/ritualdetail/slotbook/internal/calendar"
	"github.com/ritualdetail/slotbook/internal/catalog"
	"github.com/ritualdetail/slotbook/internal/config"
	"github.com/ritualdetail/slotbook/internal/intake"
	"github.com/ritualdetail/slotbook/internal/parser"
	"github.com/ritualdetail/slotbook/internal/workflow"
)

const messageDuration = 3 * time.Second

type overlay int

const (
	overlayNone overlay = iota
	overlayHelp
	overlayGoto
)

type Options struct {
	Config  *config.Config
	Machine *workflow.Machine
	Catalog *catalog.Catalog
	Outbox  *booking.Outbox  // optional; enables booking counts
	Watcher *booking.Watcher // optional; live count updates
	Logger  *zap.Logger
	Now     func() time.Time
}

type Model struct {
	// Core components
	config  *config.Config
	machine *workflow.Machine
	catalog *catalog.Catalog
	outbox  *booking.Outbox
	watcher *booking.Watcher
	parser  *parser.DateParser
	log     *zap.Logger
	now     func() time.Time

	ctx    context.Context
	cancel context.CancelFunc

	// View state
	cursor   int // day of the viewed month under the cursor
	overlay  overlay
	form     *detailsForm
	gotoSlot *intake.TimeSlot
	input    textinput.Model
	spinner  spinner.Model

	// Outbox state
	totalBookings int
	bookedDays    map[calendar.Date]int

	// UI state
	width     int
	height    int
	message   string
	messageID int

	styles Styles
}

type Styles struct {
	Normal   lipgloss.Style
	Selected lipgloss.Style
	Today    lipgloss.Style
	Past     lipgloss.Style
	Booked   lipgloss.Style
	Header   lipgloss.Style
	Label    lipgloss.Style
	Error    lipgloss.Style
	Accent   lipgloss.Style
	Help     lipgloss.Style
	Message  lipgloss.Style
	Border   lipgloss.Style
	Modal    lipgloss.Style
}

func NewModel(opts Options) *Model {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	cat := opts.Catalog
	if cat == nil {
		cat = catalog.Default()
	}
	machine := opts.Machine
	if machine == nil {
		machine = workflow.New(nil, workflow.Options{Now: now, Logger: log})
	}

	input := textinput.New()
	input.Placeholder = "tomorrow, next fri afternoon, 10/15..."
	input.CharLimit = 64
	input.Width = 40

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	ctx, cancel := context.WithCancel(context.Background())

	m := &Model{
		config:     cfg,
		machine:    machine,
		catalog:    cat,
		outbox:     opts.Outbox,
		watcher:    opts.Watcher,
		parser:     parser.NewDateParser(),
		log:        log,
		now:        now,
		ctx:        ctx,
		cancel:     cancel,
		input:      input,
		spinner:    sp,
		bookedDays: map[calendar.Date]int{},
		styles:     StylesFromConfig(cfg.Colors),
	}
	m.cursor = machine.Navigator().Today().Day
	return m
}

func DefaultStyles() Styles {
	return StylesFromConfig(nil)
}

// StylesFromConfig builds the styles, taking colors from the rc file's
// color lines where present.
func StylesFromConfig(colors map[string]string) Styles {
	color := func(name, fallback string) lipgloss.Color {
		if c, ok := colors[name]; ok && c != "" {
			return lipgloss.Color(c)
		}
		return lipgloss.Color(fallback)
	}

	return Styles{
		Normal: lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")),
		Selected: lipgloss.NewStyle().
			Foreground(lipgloss.Color("235")).
			Background(color("selected", "220")).
			Bold(true),
		Today: lipgloss.NewStyle().
			Foreground(color("today", "220")).
			Bold(true),
		Past: lipgloss.NewStyle().
			Foreground(color("past", "240")).
			Faint(true),
		Booked: lipgloss.NewStyle().
			Foreground(color("accent", "40")).
			Underline(true),
		Header: lipgloss.NewStyle().
			Foreground(color("header", "220")).
			Bold(true),
		Label: lipgloss.NewStyle().
			Foreground(lipgloss.Color("250")).
			Width(15),
		Error: lipgloss.NewStyle().
			Foreground(color("error", "196")),
		Accent: lipgloss.NewStyle().
			Foreground(color("accent", "40")).
			Bold(true),
		Help: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")),
		Message: lipgloss.NewStyle().
			Foreground(lipgloss.Color("220")).
			Background(lipgloss.Color("235")).
			Padding(0, 1),
		Border: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("238")).
			Padding(0, 1),
		Modal: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(color("cursor", "63")).
			Padding(1, 2),
	}
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		m.tickCmd(),
		m.loadBookingsCmd(),
		m.watchCmd(),
	)
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tickMsg:
		m.machine.SetToday(calendar.DateOf(time.Time(msg)))
		m.clampCursor()
		return m, m.tickCmd()

	case submittedMsg:
		return m, m.handleSubmitted(msg)

	case outboxChangedMsg:
		return m, tea.Batch(m.loadBookingsCmd(), m.watchCmd())

	case bookingsLoadedMsg:
		if msg.err != nil {
			m.log.Warn("failed to read outbox", zap.Error(msg.err))
			return m, nil
		}
		m.totalBookings = msg.total
		m.bookedDays = msg.perDay
		return m, nil

	case messageTimeoutMsg:
		if msg.id == m.messageID {
			m.message = ""
		}
		return m, nil

	case spinner.TickMsg:
		if m.machine.State() != workflow.Pending {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var body string
	switch m.machine.State() {
	case workflow.DetailsCapture:
		body = m.viewDetails()
	case workflow.Pending:
		body = m.viewPending()
	case workflow.Confirmed:
		body = m.viewConfirmation()
	default:
		switch m.overlay {
		case overlayHelp:
			body = m.viewHelp()
		case overlayGoto:
			body = m.viewGoto()
		default:
			body = m.viewCalendar()
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left, body, m.renderStatusBar())
}

func (m *Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, m.quit()
	}

	switch m.machine.State() {
	case workflow.DetailsCapture:
		return m.handleDetailsKeys(msg)
	case workflow.Pending:
		return m, nil
	case workflow.Confirmed:
		return m.handleConfirmationKeys(msg)
	}

	switch m.overlay {
	case overlayHelp:
		m.overlay = overlayNone
		return m, nil
	case overlayGoto:
		return m.handleGotoKeys(msg)
	}

	return m.handleCalendarKeys(msg)
}

func (m *Model) handleCalendarKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	nav := m.machine.Navigator()

	switch m.config.Action(msg.String()) {
	case "quit":
		return m, m.quit()

	case "help":
		m.overlay = overlayHelp

	case "prev_month":
		if m.machine.NavigatePrevious() {
			m.clampCursor()
		}

	case "next_month":
		m.machine.NavigateNext()
		m.clampCursor()

	case "left":
		m.moveCursor(-1)

	case "right":
		m.moveCursor(1)

	case "up":
		m.moveCursor(-7)

	case "down":
		m.moveCursor(7)

	case "today":
		today := nav.Today()
		m.machine.Show(today)
		m.cursor = today.Day

	case "select":
		if !m.machine.SelectDay(m.cursor) {
			if nav.Eligibility(m.cursor) == calendar.Past {
				return m, m.showMessage("Past dates cannot be booked")
			}
		}

	case "book":
		return m, m.openDetails()

	case "goto":
		m.overlay = overlayGoto
		m.input.SetValue("")
		return m, m.input.Focus()
	}

	return m, nil
}

func (m *Model) handleGotoKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEscape:
		m.closeGoto()
		return m, nil

	case tea.KeyEnter:
		value := m.input.Value()
		m.closeGoto()
		return m, m.gotoDate(value)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) closeGoto() {
	m.overlay = overlayNone
	m.input.Blur()
}

// gotoDate selects the date typed into the goto prompt. A time slot in the
// entry is carried into the details form.
func (m *Model) gotoDate(input string) tea.Cmd {
	m.parser.SetNow(m.now())
	parsed, err := m.parser.Parse(input)
	if err != nil {
		return m.showMessage(fmt.Sprintf("Cannot read date: %v", err))
	}

	if !m.machine.SelectDate(parsed.Date) {
		return m.showMessage(fmt.Sprintf("%s is in the past", parsed.Date.Format(m.config.DateFormat)))
	}
	m.cursor = parsed.Date.Day
	m.gotoSlot = nil
	if parsed.HasSlot {
		slot := parsed.Slot
		m.gotoSlot = &slot
	}
	return nil
}

func (m *Model) openDetails() tea.Cmd {
	if err := m.machine.RequestDetails(); err != nil {
		if errors.Is(err, workflow.ErrNoDateSelected) {
			return m.showMessage("Select a date first")
		}
		return m.showMessage(err.Error())
	}
	if m.gotoSlot != nil {
		if err := m.machine.SetTimeSlot(*m.gotoSlot); err != nil {
			m.log.Warn("failed to preselect time slot", zap.Error(err))
		}
		m.gotoSlot = nil
	}
	m.form = newDetailsForm(m.machine.Record(), m.catalog)
	return m.form.setFocus(0)
}

func (m *Model) handleDetailsKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.ensureForm()

	switch msg.String() {
	case "esc":
		if err := m.machine.Cancel(); err != nil {
			m.log.Warn("failed to close details", zap.Error(err))
			return m, nil
		}
		m.form = nil
		return m, nil

	case "tab", "down":
		return m, m.form.move(1)

	case "shift+tab", "up":
		return m, m.form.move(-1)

	case "enter", "ctrl+s":
		return m, m.submit()
	}

	switch m.form.focus {
	case focusSlot:
		switch msg.String() {
		case " ", "left", "right", "h", "l":
			m.form.slot = m.form.slot.Toggle()
			if err := m.machine.SetTimeSlot(m.form.slot); err != nil {
				m.log.Warn("failed to store time slot", zap.Error(err))
			}
		}
		return m, nil

	case focusPackage, focusCategory:
		delta := 0
		switch msg.String() {
		case "right", "l", " ":
			delta = 1
		case "left", "h":
			delta = -1
		}
		if delta == 0 {
			return m, nil
		}
		if m.form.focus == focusPackage {
			m.form.pkg = cycle(m.form.pkg, len(m.catalog.Packages), delta)
		} else {
			m.form.category = cycle(m.form.category, len(catalog.Categories), delta)
		}
		if err := m.machine.SetPackage(m.form.packageID(m.catalog), m.form.categoryName()); err != nil {
			m.log.Warn("failed to store package", zap.Error(err))
		}
		return m, nil
	}

	value, changed, cmd := m.form.updateInput(msg)
	if changed {
		field, _ := m.form.focusedField()
		if err := m.machine.SetField(field, value); err != nil {
			m.log.Warn("failed to store field", zap.String("field", string(field)), zap.Error(err))
		}
	}
	return m, cmd
}

// ensureForm rebuilds the details form from the machine's record when the
// model enters details capture without one.
func (m *Model) ensureForm() {
	if m.form == nil {
		m.form = newDetailsForm(m.machine.Record(), m.catalog)
		m.form.setFocus(0)
	}
}

func (m *Model) submit() tea.Cmd {
	sub, err := m.machine.Submit()

	var incomplete *workflow.IncompleteError
	switch {
	case errors.As(err, &incomplete):
		m.form.markMissing(incomplete.Fields)
		return tea.Batch(
			m.form.focusField(incomplete.Fields[0]),
			m.showMessage("Please fill in: "+fieldLabels(incomplete.Fields)),
		)

	case errors.Is(err, workflow.ErrValidation):
		fields := m.machine.Errors().Fields()
		if len(fields) > 0 {
			return m.form.focusField(fields[0])
		}
		return nil

	case errors.Is(err, workflow.ErrNoDateSelected):
		return m.showMessage("The selected date has passed; press esc and choose another")

	case err != nil:
		return m.showMessage(err.Error())
	}

	cmds := []tea.Cmd{m.sendCmd(sub)}
	if m.machine.State() == workflow.Pending {
		cmds = append(cmds, m.spinner.Tick)
	} else {
		m.form = nil
	}
	return tea.Batch(cmds...)
}

func (m *Model) handleSubmitted(msg submittedMsg) tea.Cmd {
	wasPending := m.machine.State() == workflow.Pending
	changed := m.machine.Resolve(msg.id, msg.err)

	switch {
	case changed && m.machine.State() == workflow.Confirmed:
		m.form = nil
	case changed && m.machine.State() == workflow.DetailsCapture:
		m.ensureForm()
	case !wasPending && msg.err != nil:
		return m.showMessage(fmt.Sprintf("Booking %s was not delivered: %v", shortID(msg.id), msg.err))
	}
	return nil
}

func (m *Model) handleConfirmationKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter", "esc", " ", "q":
		if err := m.machine.Acknowledge(); err != nil {
			return m, m.showMessage(err.Error())
		}
		if d, ok := m.machine.Selected(); ok && m.machine.Navigator().View() == (calendar.ViewState{Month: d.Month, Year: d.Year}) {
			m.cursor = d.Day
		}
		m.clampCursor()
	}
	return m, nil
}

// moveCursor walks the cursor across days, paging months at the edges. The
// cursor never enters a month before today's.
func (m *Model) moveCursor(delta int) {
	nav := m.machine.Navigator()
	days, _ := nav.DaysInView()
	next := m.cursor + delta

	switch {
	case next < 1:
		if !m.machine.NavigatePrevious() {
			next = 1
			break
		}
		prevDays, _ := nav.DaysInView()
		next += prevDays
	case next > days:
		m.machine.NavigateNext()
		next -= days
	}
	m.cursor = next
	m.clampCursor()
}

// clampCursor keeps the cursor inside the viewed month and off past days
// where possible.
func (m *Model) clampCursor() {
	nav := m.machine.Navigator()
	days, _ := nav.DaysInView()
	if m.cursor < 1 {
		m.cursor = 1
	}
	if m.cursor > days {
		m.cursor = days
	}
	if nav.Eligibility(m.cursor) == calendar.Past {
		if today := nav.Today(); nav.View() == (calendar.ViewState{Month: today.Month, Year: today.Year}) {
			m.cursor = today.Day
		}
	}
}

func (m *Model) quit() tea.Cmd {
	m.cancel()
	return tea.Quit
}

func (m *Model) showMessage(msg string) tea.Cmd {
	m.message = msg
	m.messageID++
	id := m.messageID
	return tea.Tick(messageDuration, func(time.Time) tea.Msg {
		return messageTimeoutMsg{id: id}
	})
}

func (m *Model) tickCmd() tea.Cmd {
	rate := m.config.RefreshRate
	if rate <= 0 {
		rate = 30 * time.Second
	}
	now := m.now
	return tea.Tick(rate, func(time.Time) tea.Msg {
		return tickMsg(now())
	})
}

func (m *Model) sendCmd(sub *workflow.Submission) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		err := sub.Send(ctx)
		return submittedMsg{id: sub.Booking.ID, err: err}
	}
}

func (m *Model) loadBookingsCmd() tea.Cmd {
	if m.outbox == nil {
		return nil
	}
	outbox := m.outbox
	return func() tea.Msg {
		bookings, err := outbox.List()
		if err != nil {
			return bookingsLoadedMsg{err: err}
		}
		perDay := make(map[calendar.Date]int)
		for _, b := range bookings {
			perDay[b.Date]++
		}
		return bookingsLoadedMsg{total: len(bookings), perDay: perDay}
	}
}

// watchCmd waits for the next outbox write. It is re-issued after every event.
func (m *Model) watchCmd() tea.Cmd {
	if m.watcher == nil {
		return nil
	}
	events := m.watcher.Events()
	ctx := m.ctx
	return func() tea.Msg {
		select {
		case <-events:
			return outboxChangedMsg{}
		case <-ctx.Done():
			return nil
		}
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// Message types
type tickMsg time.Time
type messageTimeoutMsg struct{ id int }
type outboxChangedMsg struct{}
type submittedMsg struct {
	id  string
	err error
}
type bookingsLoadedMsg struct {
	total  int
	perDay map[calendar.Date]int
	err    error
}
