package booking

import (
	"context"
	"errors"
	"time"

	"github.com/ritualdetail/slotbook/internal/calendar"
	"github.com/ritualdetail/slotbook/internal/intake"
)

// ErrRejected matches any RejectionError via errors.Is.
var ErrRejected = errors.New("booking rejected")

// Booking is the finalized record handed to a Port.
type Booking struct {
	ID          string        `json:"id"`
	Date        calendar.Date `json:"date"`
	Record      intake.Record `json:"record"`
	SubmittedAt time.Time     `json:"submittedAt"`
}

// Port receives finalized bookings.
//
// A nil error means the booking was accepted. A *RejectionError is a
// definitive refusal and must not be retried. Any other error is a
// transport failure.
type Port interface {
	Submit(ctx context.Context, b Booking) error
}

// PortFunc adapts a function to Port.
type PortFunc func(ctx context.Context, b Booking) error

func (f PortFunc) Submit(ctx context.Context, b Booking) error {
	return f(ctx, b)
}

// Discard accepts every booking without recording it.
var Discard Port = PortFunc(func(context.Context, Booking) error { return nil })

// RejectionError carries the receiver's reason for refusing a booking.
type RejectionError struct {
	Reason string
}

func (e *RejectionError) Error() string {
	if e.Reason == "" {
		return ErrRejected.Error()
	}
	return ErrRejected.Error() + ": " + e.Reason
}

func (e *RejectionError) Is(target error) bool {
	return target == ErrRejected
}

// Reject builds a RejectionError.
func Reject(reason string) error {
	return &RejectionError{Reason: reason}
}

// IsRejected reports whether err is a definitive refusal.
func IsRejected(err error) bool {
	return errors.Is(err, ErrRejected)
}
