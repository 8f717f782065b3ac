package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ritualdetail/slotbook/internal/booking"
	"github.com/ritualdetail/slotbook/internal/calendar"
)

var bookingsDate string

var bookingsCmd = &cobra.Command{
	Use:   "bookings",
	Short: "List bookings recorded in the outbox",
	Long: `List the bookings written to the outbox file, oldest first. Use --date to
show a single day.`,
	Args: cobra.NoArgs,
	RunE: runBookings,
}

func init() {
	bookingsCmd.Flags().StringVarP(&bookingsDate, "date", "d", "", "Only show bookings for this date (YYYY-MM-DD)")
	rootCmd.AddCommand(bookingsCmd)
}

func runBookings(cmd *cobra.Command, args []string) error {
	outbox := booking.NewOutbox(cfg.OutboxFile)
	out := cmd.OutOrStdout()

	var (
		bookings []booking.Booking
		err      error
	)
	if bookingsDate != "" {
		d, perr := calendar.ParseDate(bookingsDate)
		if perr != nil {
			return perr
		}
		bookings, err = outbox.ListForDate(d)
	} else {
		bookings, err = outbox.List()
	}
	if err != nil {
		return fmt.Errorf("error reading bookings: %w", err)
	}

	if len(bookings) == 0 {
		fmt.Fprintln(out, "No bookings found.")
		return nil
	}

	for _, b := range bookings {
		r := b.Record
		fmt.Fprintf(out, "%s  %-9s  %s\n", b.Date.Format(cfg.DateFormat), r.TimeSlot, r.FullName())
		fmt.Fprintf(out, "    %s | %s | %s %s (%s)\n", r.Email, r.Mobile, r.VehicleMake, r.VehicleModel, r.VehicleYear)

		var extras []string
		if r.Package != "" {
			extras = append(extras, r.Package)
		}
		if r.Category != "" {
			extras = append(extras, r.Category)
		}
		extras = append(extras, "ref "+b.ID)
		fmt.Fprintf(out, "    %s\n", strings.Join(extras, " | "))
	}

	return nil
}
