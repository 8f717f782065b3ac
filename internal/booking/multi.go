package booking

import (
	"context"
	"sync"
)

// Multi hands a booking to several ports in order, like a chain: a port only
// sees the booking once every port before it has accepted. Ports that
// accepted a booking ID are remembered, so a retry of the same booking
// resumes at the port that failed instead of repeating earlier ones.
type Multi struct {
	ports []Port

	mu       sync.Mutex
	accepted map[string]int
}

// NewMulti combines ports. Nil ports are dropped.
func NewMulti(ports ...Port) *Multi {
	m := &Multi{accepted: make(map[string]int)}
	for _, p := range ports {
		if p != nil {
			m.ports = append(m.ports, p)
		}
	}
	return m
}

// Add appends another port.
func (m *Multi) Add(p Port) {
	if p != nil {
		m.ports = append(m.ports, p)
	}
}

func (m *Multi) Len() int {
	return len(m.ports)
}

// Submit implements Port. The first failure stops the chain and is returned
// as is, so a rejection from an early port keeps later ones (the outbox)
// from recording the booking.
func (m *Multi) Submit(ctx context.Context, b Booking) error {
	m.mu.Lock()
	done := m.accepted[b.ID]
	m.mu.Unlock()

	for i := done; i < len(m.ports); i++ {
		err := m.ports[i].Submit(ctx, b)
		if err != nil {
			m.mu.Lock()
			if IsRejected(err) {
				delete(m.accepted, b.ID)
			} else {
				m.accepted[b.ID] = i
			}
			m.mu.Unlock()
			return err
		}
	}

	m.mu.Lock()
	delete(m.accepted, b.ID)
	m.mu.Unlock()
	return nil
}
