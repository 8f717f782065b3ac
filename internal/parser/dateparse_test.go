package parser

import (
	"errors"
	"testing"
	"time"

	"github.com/ritualdetail/slotbook/internal/calendar"
	"github.com/ritualdetail/slotbook/internal/intake"
)

// Tuesday.
var parseNow = time.Date(2023, 10, 10, 15, 0, 0, 0, time.UTC)

func newTestParser() *DateParser {
	p := NewDateParser()
	p.SetNow(parseNow)
	return p
}

func date(y int, m time.Month, d int) calendar.Date {
	return calendar.Date{Year: y, Month: m, Day: d}
}

func TestParseRelativeDates(t *testing.T) {
	parser := newTestParser()

	tests := []struct {
		input        string
		expectedDate calendar.Date
		expectedText string
	}{
		{"today", date(2023, 10, 10), ""},
		{"Today, full wash", date(2023, 10, 10), "full wash"},
		{"tomorrow", date(2023, 10, 11), ""},
		{"tmrw interior only", date(2023, 10, 11), "interior only"},
		{"this friday", date(2023, 10, 13), ""},
		{"next monday", date(2023, 10, 16), ""},
		{"next fri", date(2023, 10, 20), ""},
		{"this tuesday", date(2023, 10, 17), ""},
		{"in 3 days", date(2023, 10, 13), ""},
		{"in 2 weeks", date(2023, 10, 24), ""},
		{"in 1 month", date(2023, 11, 10), ""},
		{"2 weeks from now", date(2023, 10, 24), ""},
		{"5 days from today", date(2023, 10, 15), ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result, err := parser.Parse(tt.input)
			if err != nil {
				t.Fatalf("Parse failed: %v", err)
			}

			if result.Date != tt.expectedDate {
				t.Errorf("Date mismatch: got %v, want %v", result.Date, tt.expectedDate)
			}

			if result.Text != tt.expectedText {
				t.Errorf("Text mismatch: got %q, want %q", result.Text, tt.expectedText)
			}

			if result.HasSlot {
				t.Errorf("unexpected slot %v", result.Slot)
			}
		})
	}
}

func TestParseAbsoluteDates(t *testing.T) {
	parser := newTestParser()

	tests := []struct {
		input        string
		expectedDate calendar.Date
	}{
		{"2023-10-15", date(2023, 10, 15)},
		{"2024-1-5", date(2024, 1, 5)},
		{"10/15/2024", date(2024, 10, 15)},
		{"12-25-2023", date(2023, 12, 25)},
		{"10/15", date(2023, 10, 15)},
		{"10/10", date(2023, 10, 10)},
		{"3/1", date(2024, 3, 1)},
		{"Oct 20th", date(2023, 10, 20)},
		{"december 1", date(2023, 12, 1)},
		{"sept 2", date(2024, 9, 2)},
		{"January 5, 2025", date(2025, 1, 5)},
		{"feb 29", date(2024, 2, 29)},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result, err := parser.Parse(tt.input)
			if err != nil {
				t.Fatalf("Parse failed: %v", err)
			}
			if result.Date != tt.expectedDate {
				t.Errorf("Date mismatch: got %v, want %v", result.Date, tt.expectedDate)
			}
		})
	}
}

func TestParseSlots(t *testing.T) {
	parser := newTestParser()

	tests := []struct {
		input        string
		expectedDate calendar.Date
		expectedSlot intake.TimeSlot
		expectedText string
	}{
		{"tomorrow afternoon", date(2023, 10, 11), intake.Afternoon, ""},
		{"next fri morning", date(2023, 10, 20), intake.Morning, ""},
		{"10/15 pm ceramic coat", date(2023, 10, 15), intake.Afternoon, "ceramic coat"},
		{"Oct 15 2023 in the morning", date(2023, 10, 15), intake.Morning, ""},
		{"afternoon", date(2023, 10, 10), intake.Afternoon, ""},
		{"AM", date(2023, 10, 10), intake.Morning, ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result, err := parser.Parse(tt.input)
			if err != nil {
				t.Fatalf("Parse failed: %v", err)
			}
			if result.Date != tt.expectedDate {
				t.Errorf("Date mismatch: got %v, want %v", result.Date, tt.expectedDate)
			}
			if !result.HasSlot {
				t.Fatal("expected a time slot")
			}
			if result.Slot != tt.expectedSlot {
				t.Errorf("Slot mismatch: got %v, want %v", result.Slot, tt.expectedSlot)
			}
			if result.Text != tt.expectedText {
				t.Errorf("Text mismatch: got %q, want %q", result.Text, tt.expectedText)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	parser := newTestParser()

	tests := []struct {
		input string
		want  error
	}{
		{"", ErrEmptyInput},
		{"   ", ErrEmptyInput},
		{"whenever", ErrNoDate},
		{"todays special", ErrNoDate},
		{"2/30/2024", ErrBadDate},
		{"2023-13-01", ErrBadDate},
		{"april 31", ErrBadDate},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := parser.Parse(tt.input)
			if !errors.Is(err, tt.want) {
				t.Errorf("Parse(%q) error = %v, want %v", tt.input, err, tt.want)
			}
		})
	}
}
