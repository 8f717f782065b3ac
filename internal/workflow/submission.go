package workflow

import (
	"context"
	"fmt"
	"time"

	"github.com/ritualdetail/slotbook/internal/booking"
)

// RetryPolicy bounds the hand-off to the port.
type RetryPolicy struct {
	Attempts int
	Timeout  time.Duration
	Backoff  time.Duration
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		Attempts: 3,
		Timeout:  10 * time.Second,
		Backoff:  500 * time.Millisecond,
	}
}

// Submission is a finalized booking waiting to be handed to the port. Send
// does not touch the machine, so it may run on another goroutine; its result
// goes back through Machine.Resolve.
type Submission struct {
	Booking booking.Booking

	port  booking.Port
	retry RetryPolicy
}

// Send submits the booking, retrying transport failures with linear backoff.
// A rejection is returned at once.
func (s *Submission) Send(ctx context.Context) error {
	attempts := s.retry.Attempts
	if attempts < 1 {
		attempts = 1
	}

	var err error
	for i := 0; i < attempts; i++ {
		if i > 0 && s.retry.Backoff > 0 {
			t := time.NewTimer(time.Duration(i) * s.retry.Backoff)
			select {
			case <-ctx.Done():
				t.Stop()
				return fmt.Errorf("submit booking %s: %w", s.Booking.ID, ctx.Err())
			case <-t.C:
			}
		}

		err = s.attempt(ctx)
		if err == nil || booking.IsRejected(err) {
			return err
		}
		if ctx.Err() != nil {
			return fmt.Errorf("submit booking %s: %w", s.Booking.ID, err)
		}
	}
	return fmt.Errorf("submit booking %s after %d attempts: %w", s.Booking.ID, attempts, err)
}

func (s *Submission) attempt(ctx context.Context) error {
	if s.retry.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.retry.Timeout)
		defer cancel()
	}
	return s.port.Submit(ctx, s.Booking)
}
