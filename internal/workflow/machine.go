package workflow

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ritualdetail/slotbook/internal/booking"
	"github.com/ritualdetail/slotbook/internal/calendar"
	"github.com/ritualdetail/slotbook/internal/intake"
)

var (
	ErrInvalidTransition = errors.New("invalid workflow transition")
	ErrNoDateSelected    = errors.New("no date selected")
	ErrNotEditable       = errors.New("details can only be edited while capturing")
	ErrValidation        = errors.New("booking details failed validation")
	ErrIncomplete        = errors.New("required fields are empty")
)

// TransitionError reports a trigger the table does not allow from the
// current state.
type TransitionError struct {
	From    State
	Trigger Trigger
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("%s: %s from %s", ErrInvalidTransition, e.Trigger, e.From)
}

func (e *TransitionError) Unwrap() error {
	return ErrInvalidTransition
}

// IncompleteError lists the required fields that were left empty.
type IncompleteError struct {
	Fields []intake.Field
}

func (e *IncompleteError) Error() string {
	return fmt.Sprintf("%s: %v", ErrIncomplete, e.Fields)
}

func (e *IncompleteError) Unwrap() error {
	return ErrIncomplete
}

// CalendarView is the read side of the navigator used for rendering.
type CalendarView interface {
	Today() calendar.Date
	View() calendar.ViewState
	CanNavigatePrevious() bool
	DaysInView() (days int, firstWeekday int)
	Eligibility(day int) calendar.Eligibility
	Grid(weekStart time.Weekday) [][]int
}

type Options struct {
	ResetPolicy ResetPolicy

	// AwaitSubmission holds the machine in Pending until Resolve reports
	// the port's answer. Without it a valid submit confirms immediately.
	AwaitSubmission bool

	Retry  RetryPolicy
	Now    func() time.Time
	NewID  func() string
	Logger *zap.Logger
}

// Machine sequences Browsing, DetailsCapture, Pending and Confirmed. It is
// not safe for concurrent use; the UI loop is its only caller.
type Machine struct {
	state  State
	nav    *calendar.Navigator
	sel    calendar.Selection
	record intake.Record
	errs   intake.Errors

	port booking.Port
	opts Options
	log  *zap.Logger

	last      *booking.Booking
	pendingID string
	submitErr error
}

func New(port booking.Port, opts Options) *Machine {
	if port == nil {
		port = booking.Discard
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Retry == (RetryPolicy{}) {
		opts.Retry = DefaultRetryPolicy()
	}

	return &Machine{
		state: Browsing,
		nav:   calendar.NewNavigator(calendar.DateOf(opts.Now())),
		errs:  intake.Errors{},
		port:  port,
		opts:  opts,
		log:   opts.Logger,
	}
}

func (m *Machine) fire(t Trigger) error {
	to, ok := Next(m.state, t)
	if !ok {
		return &TransitionError{From: m.state, Trigger: t}
	}
	m.log.Debug("workflow transition",
		zap.Stringer("from", m.state),
		zap.Stringer("to", to),
		zap.Stringer("trigger", t))
	m.state = to
	return nil
}

func (m *Machine) State() State {
	return m.state
}

func (m *Machine) Navigator() CalendarView {
	return m.nav
}

func (m *Machine) Selected() (calendar.Date, bool) {
	return m.sel.Selected()
}

// IsSelected reports whether day of the viewed month is the selected date.
func (m *Machine) IsSelected(day int) bool {
	return m.sel.IsSelected(m.nav.View(), day)
}

func (m *Machine) Record() intake.Record {
	return m.record
}

// Errors returns a copy of the current validation errors.
func (m *Machine) Errors() intake.Errors {
	out := make(intake.Errors, len(m.errs))
	for f, msg := range m.errs {
		out[f] = msg
	}
	return out
}

// LastBooking returns the most recently submitted booking.
func (m *Machine) LastBooking() (booking.Booking, bool) {
	if m.last == nil {
		return booking.Booking{}, false
	}
	return *m.last, true
}

// SubmitError is the port failure that returned a pending booking to the
// details form. It is cleared by the next submit.
func (m *Machine) SubmitError() error {
	return m.submitErr
}

// Calendar operations. The grid is covered by a modal outside Browsing, so
// these are no-ops there.

func (m *Machine) NavigatePrevious() bool {
	if m.state != Browsing {
		return false
	}
	return m.nav.NavigatePrevious()
}

func (m *Machine) NavigateNext() bool {
	if m.state != Browsing {
		return false
	}
	m.nav.NavigateNext()
	return true
}

// Show moves the view to the month containing d without selecting.
func (m *Machine) Show(d calendar.Date) bool {
	if m.state != Browsing {
		return false
	}
	return m.nav.Show(d)
}

// SelectDay selects a day of the viewed month. Past or invalid days are
// ignored.
func (m *Machine) SelectDay(day int) bool {
	if m.state != Browsing {
		return false
	}
	return m.sel.Select(m.nav, day)
}

// SelectDate shows d's month and selects d.
func (m *Machine) SelectDate(d calendar.Date) bool {
	if !m.Show(d) {
		return false
	}
	return m.sel.Select(m.nav, d.Day)
}

// SetToday moves the machine's notion of today. A selection that has fallen
// into the past is dropped.
func (m *Machine) SetToday(today calendar.Date) {
	m.nav.SetToday(today)
	if d, ok := m.sel.Selected(); ok && d.Before(today) {
		m.log.Info("selected date expired", zap.Stringer("date", d))
		m.sel.Clear()
	}
}

// CanRequestDetails reports whether the proceed action is enabled.
func (m *Machine) CanRequestDetails() bool {
	_, ok := m.sel.Selected()
	return m.state == Browsing && ok
}

// RequestDetails opens the details form for the selected date.
func (m *Machine) RequestDetails() error {
	if m.state == Browsing {
		if _, ok := m.sel.Selected(); !ok {
			return ErrNoDateSelected
		}
	}
	return m.fire(TriggerRequestDetails)
}

// Cancel closes the details form. The record and its errors are kept for the
// next visit.
func (m *Machine) Cancel() error {
	return m.fire(TriggerCancel)
}

// SetField stores a raw text value and drops that field's error. Nothing is
// re-validated until the next submit.
func (m *Machine) SetField(f intake.Field, value string) error {
	if m.state != DetailsCapture {
		return ErrNotEditable
	}
	if err := m.record.Set(f, value); err != nil {
		return err
	}
	m.errs.Clear(f)
	return nil
}

func (m *Machine) SetTimeSlot(slot intake.TimeSlot) error {
	if m.state != DetailsCapture {
		return ErrNotEditable
	}
	m.record.TimeSlot = slot
	m.errs.Clear(intake.FieldTimeSlot)
	return nil
}

// SetPackage records the optional service package and vehicle category.
func (m *Machine) SetPackage(id, category string) error {
	if m.state != DetailsCapture {
		return ErrNotEditable
	}
	m.record.Package = id
	m.record.Category = category
	return nil
}

// Submit checks the record and, when it passes, finalizes the booking.
//
// Empty required fields return an *IncompleteError and change nothing.
// Validation failures replace the error set and return ErrValidation. On
// success the machine moves to Confirmed, or to Pending when awaiting the
// port, and the returned Submission carries the hand-off.
func (m *Machine) Submit() (*Submission, error) {
	if m.state != DetailsCapture {
		return nil, &TransitionError{From: m.state, Trigger: TriggerSubmitValid}
	}

	date, ok := m.sel.Selected()
	if !ok {
		return nil, ErrNoDateSelected
	}

	if missing := intake.Missing(m.record); len(missing) > 0 {
		return nil, &IncompleteError{Fields: missing}
	}

	now := m.opts.Now()
	errs := intake.Validate(m.record, now)
	m.errs = errs
	if errs.Len() > 0 {
		if err := m.fire(TriggerSubmitInvalid); err != nil {
			return nil, err
		}
		m.log.Debug("booking details rejected", zap.Int("errors", errs.Len()))
		return nil, ErrValidation
	}

	b := booking.Booking{
		ID:          m.opts.NewID(),
		Date:        date,
		Record:      m.record,
		SubmittedAt: now,
	}

	trigger := TriggerSubmitValid
	if m.opts.AwaitSubmission {
		trigger = TriggerSubmitAwait
	}
	if err := m.fire(trigger); err != nil {
		return nil, err
	}

	m.last = &b
	m.submitErr = nil
	if m.opts.AwaitSubmission {
		m.pendingID = b.ID
	}

	m.log.Info("booking submitted",
		zap.String("booking_id", b.ID),
		zap.Stringer("date", b.Date),
		zap.Stringer("slot", b.Record.TimeSlot),
		zap.Bool("await", m.opts.AwaitSubmission))

	return &Submission{Booking: b, port: m.port, retry: m.opts.Retry}, nil
}

// Resolve feeds back the port's answer for booking id. It reports whether
// the state changed. Only a Pending machine waiting on id reacts; anything
// else is logged and dropped.
func (m *Machine) Resolve(id string, err error) bool {
	if m.state != Pending || id != m.pendingID {
		if err != nil {
			m.log.Warn("booking delivery failed", zap.String("booking_id", id), zap.Error(err))
		} else {
			m.log.Debug("booking delivered", zap.String("booking_id", id))
		}
		return false
	}

	m.pendingID = ""
	if err == nil {
		m.log.Info("booking accepted", zap.String("booking_id", id))
		return m.fire(TriggerSubmissionAccepted) == nil
	}

	m.log.Warn("booking not accepted", zap.String("booking_id", id), zap.Error(err))
	m.submitErr = err
	return m.fire(TriggerSubmissionRejected) == nil
}

// Acknowledge dismisses the confirmation and applies the reset policy.
func (m *Machine) Acknowledge() error {
	if err := m.fire(TriggerAcknowledge); err != nil {
		return err
	}
	if m.opts.ResetPolicy.clearsSelection() {
		m.sel.Clear()
	}
	if m.opts.ResetPolicy.clearsRecord() {
		m.record = intake.Record{}
		m.errs = intake.Errors{}
	}
	return nil
}

// Reset returns to Browsing from any state with no selection, an empty
// record and the view on today's month.
func (m *Machine) Reset() {
	if err := m.fire(TriggerReset); err != nil {
		m.log.Error("reset refused", zap.Error(err))
	}
	m.sel.Clear()
	m.record = intake.Record{}
	m.errs = intake.Errors{}
	m.pendingID = ""
	m.submitErr = nil
	m.nav.Initialize(m.nav.Today())
}
