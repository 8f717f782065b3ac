package cmd

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ritualdetail/slotbook/internal/booking"
	"github.com/ritualdetail/slotbook/internal/calendar"
	"github.com/ritualdetail/slotbook/internal/config"
	"github.com/ritualdetail/slotbook/internal/intake"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("SLOTBOOK_CONFIG", filepath.Join(t.TempDir(), "missing"))
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())

	bookingsDate = ""
	packagesCategory = ""

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestBookingsCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bookings.jsonl")
	outbox := booking.NewOutbox(path)

	for i, day := range []int{12, 14} {
		require.NoError(t, outbox.Submit(context.Background(), booking.Booking{
			ID:   []string{"b-1", "b-2"}[i],
			Date: calendar.NewDate(2023, time.October, day),
			Record: intake.Record{
				FirstName: "Asha", LastName: "Rao", Email: "asha@example.com",
				Mobile: "9876543210", VehicleMake: "Honda", VehicleModel: "City",
				VehicleYear: "2019", TimeSlot: intake.Afternoon, Package: "gold-steam",
			},
			SubmittedAt: time.Date(2023, time.October, 10, 9, 0, 0, 0, time.UTC),
		}))
	}

	out, err := execute(t, "bookings", "--outbox", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Thursday, October 12, 2023")
	assert.Contains(t, out, "Saturday, October 14, 2023")
	assert.Contains(t, out, "Asha Rao")
	assert.Contains(t, out, "gold-steam | ref b-1")

	out, err = execute(t, "bookings", "--outbox", path, "--date", "2023-10-14")
	require.NoError(t, err)
	assert.NotContains(t, out, "October 12")
	assert.Contains(t, out, "ref b-2")

	out, err = execute(t, "bookings", "--outbox", path, "--date", "2023-11-01")
	require.NoError(t, err)
	assert.Contains(t, out, "No bookings found.")

	_, err = execute(t, "bookings", "--outbox", path, "--date", "next week")
	assert.Error(t, err)
}

func TestPackagesCommand(t *testing.T) {
	out, err := execute(t, "packages")
	require.NoError(t, err)
	assert.Contains(t, out, "Foam Wash [foam-wash]")
	assert.Contains(t, out, "Hatchback")
	assert.Contains(t, out, "SUV")

	out, err = execute(t, "packages", "--category", "suv")
	require.NoError(t, err)
	assert.NotContains(t, out, "Hatchback")
	assert.Contains(t, out, "SUV")

	_, err = execute(t, "packages", "--category", "truck")
	assert.Error(t, err)
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "Slotbook")
}

func TestBuildPortRecordsOnlyAcceptedBookings(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		wantErr   bool
		wantSaved int
	}{
		{"accepted", http.StatusOK, false, 1},
		{"rejected", http.StatusUnprocessableEntity, true, 0},
		{"server error", http.StatusBadGateway, true, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer srv.Close()

			cfg = config.DefaultConfig()
			cfg.WebhookURL = srv.URL
			outbox := booking.NewOutbox(filepath.Join(t.TempDir(), "bookings.jsonl"))

			err := buildPort(outbox).Submit(context.Background(), booking.Booking{
				ID:   "b-1",
				Date: calendar.NewDate(2023, time.October, 15),
			})
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}

			n, err := outbox.Count()
			require.NoError(t, err)
			assert.Equal(t, tt.wantSaved, n)
		})
	}
}
