package booking

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/ritualdetail/slotbook/internal/calendar"
	"github.com/ritualdetail/slotbook/internal/intake"
)

func sampleBooking(id string, day int) Booking {
	return Booking{
		ID:   id,
		Date: calendar.Date{Year: 2023, Month: time.October, Day: day},
		Record: intake.Record{
			FirstName:    "Asha",
			LastName:     "Rao",
			Mobile:       "555-123-4567",
			Email:        "a@b.com",
			Address:      "12 Lake Road",
			VehicleMake:  "Honda",
			VehicleModel: "City",
			VehicleYear:  "2019",
			TimeSlot:     intake.Afternoon,
			Package:      "gold-steam",
			Category:     "SUV",
		},
		SubmittedAt: time.Date(2023, 10, 10, 9, 30, 0, 0, time.UTC),
	}
}

func TestOutboxSubmitAndList(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "bookings.jsonl")
	outbox := NewOutbox(path)

	want := []Booking{sampleBooking("b-1", 15), sampleBooking("b-2", 16)}
	for _, b := range want {
		if err := outbox.Submit(context.Background(), b); err != nil {
			t.Fatalf("Submit(%s) failed: %v", b.ID, err)
		}
	}

	got, err := outbox.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("List() mismatch (-want +got):\n%s", diff)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat outbox: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("outbox perms = %o, want 600", perm)
	}
}

func TestOutboxFileFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bookings.jsonl")
	outbox := NewOutbox(path)
	if err := outbox.Submit(context.Background(), sampleBooking("b-1", 15)); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	line := string(data)

	for _, want := range []string{`"id":"b-1"`, `"date":"2023-10-15"`, `"timeSlot":"afternoon"`, `"email":"a@b.com"`} {
		if !strings.Contains(line, want) {
			t.Errorf("outbox line missing %s: %s", want, line)
		}
	}
	if !strings.HasSuffix(line, "\n") || strings.Count(line, "\n") != 1 {
		t.Errorf("expected exactly one JSON line, got %q", line)
	}
}

func TestOutboxSkipsMalformedLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bookings.jsonl")
	outbox := NewOutbox(path)
	outbox.Submit(context.Background(), sampleBooking("b-1", 15))

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		t.Fatal(err)
	}
	f.WriteString("not json\n\n")
	f.Close()

	outbox.Submit(context.Background(), sampleBooking("b-2", 20))

	got, err := outbox.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("List() returned %d bookings, want 2", len(got))
	}
	if got[0].ID != "b-1" || got[1].ID != "b-2" {
		t.Errorf("List() order = %s, %s", got[0].ID, got[1].ID)
	}
}

func TestOutboxIgnoresRepeatedID(t *testing.T) {
	outbox := NewOutbox(filepath.Join(t.TempDir(), "bookings.jsonl"))
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := outbox.Submit(ctx, sampleBooking("b-1", 15)); err != nil {
			t.Fatalf("Submit #%d failed: %v", i+1, err)
		}
	}
	outbox.Submit(ctx, sampleBooking("b-2", 15))

	got, err := outbox.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0].ID != "b-1" || got[1].ID != "b-2" {
		t.Errorf("List() = %v, want b-1 then b-2", got)
	}
}

func TestOutboxMissingFileIsEmpty(t *testing.T) {
	outbox := NewOutbox(filepath.Join(t.TempDir(), "absent.jsonl"))

	n, err := outbox.Count()
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if n != 0 {
		t.Errorf("Count() = %d, want 0", n)
	}
}

func TestOutboxListForDate(t *testing.T) {
	outbox := NewOutbox(filepath.Join(t.TempDir(), "bookings.jsonl"))
	ctx := context.Background()
	outbox.Submit(ctx, sampleBooking("b-1", 15))
	outbox.Submit(ctx, sampleBooking("b-2", 16))
	outbox.Submit(ctx, sampleBooking("b-3", 15))

	got, err := outbox.ListForDate(calendar.Date{Year: 2023, Month: time.October, Day: 15})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0].ID != "b-1" || got[1].ID != "b-3" {
		t.Errorf("ListForDate() = %v", got)
	}
}

func TestOutboxHonoursCancelledContext(t *testing.T) {
	outbox := NewOutbox(filepath.Join(t.TempDir(), "bookings.jsonl"))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := outbox.Submit(ctx, sampleBooking("b-1", 15)); err == nil {
		t.Error("Submit with cancelled context should fail")
	}
}

func TestOutboxWithoutPath(t *testing.T) {
	var outbox Outbox
	if err := outbox.Submit(context.Background(), sampleBooking("b-1", 15)); err == nil {
		t.Error("Submit without a path should fail")
	}
}
