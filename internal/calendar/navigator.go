package calendar

import "time"

// ViewState is the month currently rendered, independent of selection and of today.
type ViewState struct {
	Month time.Month
	Year  int
}

func (v ViewState) before(other ViewState) bool {
	if v.Year != other.Year {
		return v.Year < other.Year
	}
	return v.Month < other.Month
}

// Eligibility classifies a day cell of the viewed month.
type Eligibility int

const (
	Selectable Eligibility = iota
	Past
	Invalid
)

func (e Eligibility) String() string {
	switch e {
	case Selectable:
		return "selectable"
	case Past:
		return "past"
	default:
		return "invalid"
	}
}

// Navigator owns the visible month. The view can never move to a month
// earlier than the month containing today.
type Navigator struct {
	today Date
	view  ViewState
}

func NewNavigator(today Date) *Navigator {
	n := &Navigator{}
	n.Initialize(today)
	return n
}

// Initialize sets today and moves the view to today's month.
func (n *Navigator) Initialize(today Date) {
	n.today = today
	n.view = ViewState{Month: today.Month, Year: today.Year}
}

func (n *Navigator) Today() Date {
	return n.today
}

func (n *Navigator) View() ViewState {
	return n.view
}

// SetToday advances the navigator's notion of today (midnight rollover).
// A view left on a month that is now in the past is pulled forward.
func (n *Navigator) SetToday(today Date) {
	n.today = today
	current := n.currentMonth()
	if n.view.before(current) {
		n.view = current
	}
}

// CanNavigatePrevious reports whether the back control is enabled.
func (n *Navigator) CanNavigatePrevious() bool {
	return n.currentMonth().before(n.view)
}

// NavigatePrevious moves the view back one month. It is a no-op returning
// false while the view shows the current month.
func (n *Navigator) NavigatePrevious() bool {
	if !n.CanNavigatePrevious() {
		return false
	}
	if n.view.Month == time.January {
		n.view = ViewState{Month: time.December, Year: n.view.Year - 1}
	} else {
		n.view.Month--
	}
	return true
}

// NavigateNext moves the view forward one month. Unrestricted.
func (n *Navigator) NavigateNext() {
	if n.view.Month == time.December {
		n.view = ViewState{Month: time.January, Year: n.view.Year + 1}
		return
	}
	n.view.Month++
}

// Show jumps the view to the month containing d. Months before today's are refused.
func (n *Navigator) Show(d Date) bool {
	target := ViewState{Month: d.Month, Year: d.Year}
	if target.before(n.currentMonth()) {
		return false
	}
	n.view = target
	return true
}

// DaysInView returns the number of days in the viewed month and the weekday
// index (Sunday = 0) of its first day.
func (n *Navigator) DaysInView() (days int, firstWeekday int) {
	first := time.Date(n.view.Year, n.view.Month, 1, 0, 0, 0, 0, time.UTC)
	return daysIn(n.view.Year, n.view.Month), int(first.Weekday())
}

// DateOf builds the date for a day number in the viewed month.
func (n *Navigator) DateOf(day int) Date {
	return Date{Year: n.view.Year, Month: n.view.Month, Day: day}
}

// Eligibility reports whether a day of the viewed month can be selected.
// Past is a date-only comparison against today.
func (n *Navigator) Eligibility(day int) Eligibility {
	days, _ := n.DaysInView()
	if day < 1 || day > days {
		return Invalid
	}
	if n.DateOf(day).Before(n.today) {
		return Past
	}
	return Selectable
}

// Grid lays the viewed month out in rows of seven cells starting on weekStart.
// Blank cells are 0.
func (n *Navigator) Grid(weekStart time.Weekday) [][]int {
	days, first := n.DaysInView()
	lead := (first - int(weekStart) + 7) % 7

	var rows [][]int
	row := make([]int, 0, 7)
	for i := 0; i < lead; i++ {
		row = append(row, 0)
	}
	for day := 1; day <= days; day++ {
		row = append(row, day)
		if len(row) == 7 {
			rows = append(rows, row)
			row = make([]int, 0, 7)
		}
	}
	if len(row) > 0 {
		for len(row) < 7 {
			row = append(row, 0)
		}
		rows = append(rows, row)
	}
	return rows
}

func (n *Navigator) currentMonth() ViewState {
	return ViewState{Month: n.today.Month, Year: n.today.Year}
}
