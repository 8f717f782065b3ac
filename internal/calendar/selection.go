package calendar

// Selection holds the single committed date. It is tracked separately from
// the viewed month, so navigating away never clears it.
type Selection struct {
	date Date
	set  bool
}

// Select sets the selection to day in nav's viewed month. Days that are past
// or outside the month leave the selection untouched and return false.
func (s *Selection) Select(nav *Navigator, day int) bool {
	if nav.Eligibility(day) != Selectable {
		return false
	}
	s.date = nav.DateOf(day)
	s.set = true
	return true
}

// Set commits d directly. Callers are responsible for eligibility.
func (s *Selection) Set(d Date) {
	s.date = d
	s.set = true
}

func (s *Selection) Selected() (Date, bool) {
	return s.date, s.set
}

// IsSelected compares by calendar date, not identity.
func (s *Selection) IsSelected(view ViewState, day int) bool {
	if !s.set {
		return false
	}
	return s.date == Date{Year: view.Year, Month: view.Month, Day: day}
}

func (s *Selection) Clear() {
	s.date = Date{}
	s.set = false
}
