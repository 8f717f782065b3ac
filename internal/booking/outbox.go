package booking

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/ritualdetail/slotbook/internal/calendar"
)

// Outbox is a Port that appends each booking as one JSON line to a local
// file. Other tools (or the bookings command) read it back with List.
type Outbox struct {
	Path string

	mu sync.Mutex
}

func NewOutbox(path string) *Outbox {
	return &Outbox{Path: path}
}

// Submit implements Port. A booking whose ID is already in the file is not
// written again.
func (o *Outbox) Submit(ctx context.Context, b Booking) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if o.Path == "" {
		return errors.New("no outbox file configured")
	}

	line, err := json.Marshal(b)
	if err != nil {
		return fmt.Errorf("encode booking: %w", err)
	}
	line = append(line, '\n')

	o.mu.Lock()
	defer o.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(o.Path), 0o700); err != nil {
		return fmt.Errorf("create outbox dir: %w", err)
	}

	existing, err := o.list()
	if err != nil {
		return err
	}
	for _, e := range existing {
		if e.ID == b.ID {
			return nil
		}
	}

	f, err := os.OpenFile(o.Path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("open outbox: %w", err)
	}

	if _, err := f.Write(line); err != nil {
		f.Close()
		return fmt.Errorf("write outbox: %w", err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return fmt.Errorf("sync outbox: %w", err)
	}
	return f.Close()
}

// List returns every booking in the outbox in file order. A missing file is
// an empty outbox. Lines that do not decode are skipped.
func (o *Outbox) List() ([]Booking, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.list()
}

func (o *Outbox) list() ([]Booking, error) {
	f, err := os.Open(o.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open outbox: %w", err)
	}
	defer f.Close()

	var bookings []Booking
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var b Booking
		if err := json.Unmarshal(line, &b); err != nil {
			continue
		}
		bookings = append(bookings, b)
	}

	if err := scanner.Err(); err != nil {
		return bookings, fmt.Errorf("read outbox: %w", err)
	}
	return bookings, nil
}

// ListForDate returns the bookings made for one day.
func (o *Outbox) ListForDate(d calendar.Date) ([]Booking, error) {
	all, err := o.List()
	if err != nil {
		return nil, err
	}

	var out []Booking
	for _, b := range all {
		if b.Date == d {
			out = append(out, b)
		}
	}
	return out, nil
}

// Count returns the number of readable bookings in the outbox.
func (o *Outbox) Count() (int, error) {
	all, err := o.List()
	return len(all), err
}
