package calendar

import (
	"encoding/json"
	"testing"
	"time"
)

func TestSelectPastDayIsNoOp(t *testing.T) {
	nav := NewNavigator(october10)
	var sel Selection

	for day := 1; day < 10; day++ {
		if sel.Select(nav, day) {
			t.Errorf("Select(%d) accepted a past day", day)
		}
	}
	if _, ok := sel.Selected(); ok {
		t.Error("selection should still be unset")
	}

	sel.Select(nav, 20)
	for day := 1; day < 10; day++ {
		sel.Select(nav, day)
	}
	got, _ := sel.Selected()
	if got.Day != 20 {
		t.Errorf("past clicks changed the selection to %v", got)
	}
}

func TestSelectFutureDay(t *testing.T) {
	nav := NewNavigator(october10)

	for day := 10; day <= 31; day++ {
		var sel Selection
		if !sel.Select(nav, day) {
			t.Fatalf("Select(%d) refused an eligible day", day)
		}
		got, ok := sel.Selected()
		want := Date{Year: 2023, Month: time.October, Day: day}
		if !ok || got != want {
			t.Errorf("Selected() = %v, %v, want %v", got, ok, want)
		}
	}
}

func TestSelectionPersistsAcrossNavigation(t *testing.T) {
	nav := NewNavigator(october10)
	var sel Selection
	sel.Select(nav, 15)

	nav.NavigateNext()
	nav.NavigateNext()

	got, ok := sel.Selected()
	if !ok || got != (Date{Year: 2023, Month: time.October, Day: 15}) {
		t.Errorf("Selected() = %v, %v after navigation", got, ok)
	}
	if sel.IsSelected(nav.View(), 15) {
		t.Error("day 15 of December should not read as selected")
	}

	nav.NavigatePrevious()
	nav.NavigatePrevious()
	if !sel.IsSelected(nav.View(), 15) {
		t.Error("day 15 of October should read as selected")
	}
}

func TestSelectOverwritesAcrossMonths(t *testing.T) {
	nav := NewNavigator(october10)
	var sel Selection
	sel.Select(nav, 15)

	nav.NavigateNext()
	sel.Select(nav, 3)

	got, _ := sel.Selected()
	if got != (Date{Year: 2023, Month: time.November, Day: 3}) {
		t.Errorf("Selected() = %v, want 2023-11-03", got)
	}
}

func TestSelectionClear(t *testing.T) {
	nav := NewNavigator(october10)
	var sel Selection
	sel.Select(nav, 12)
	sel.Clear()

	if _, ok := sel.Selected(); ok {
		t.Error("Clear() left a selection behind")
	}
	if sel.IsSelected(nav.View(), 12) {
		t.Error("IsSelected() true after Clear()")
	}
}

func TestDateTextRoundTrip(t *testing.T) {
	d := Date{Year: 2023, Month: time.October, Day: 15}
	b, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(b) != `"2023-10-15"` {
		t.Errorf("Marshal = %s, want \"2023-10-15\"", b)
	}

	var back Date
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if back != d {
		t.Errorf("Unmarshal = %v, want %v", back, d)
	}
}

func TestDateLong(t *testing.T) {
	d := Date{Year: 2023, Month: time.October, Day: 15}
	if got := d.Long(); got != "Sunday, October 15, 2023" {
		t.Errorf("Long() = %q", got)
	}
	if got := d.AddDays(17); got != (Date{Year: 2023, Month: time.November, Day: 1}) {
		t.Errorf("AddDays(17) = %v", got)
	}
}
