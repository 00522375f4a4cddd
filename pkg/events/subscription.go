package events

import (
	"sync"

	"github.com/dmitrymomot/fsmkit/pkg/machine"
)

// Subscription receives events from a Hub.
type Subscription struct {
	hub    *Hub
	ch     chan machine.Event
	done   chan struct{}
	filter map[machine.EventType]struct{}

	mu     sync.RWMutex
	closed bool
}

func newSubscription(bufferSize int, types []machine.EventType) *Subscription {
	s := &Subscription{
		ch:   make(chan machine.Event, bufferSize),
		done: make(chan struct{}),
	}
	if len(types) > 0 {
		s.filter = make(map[machine.EventType]struct{}, len(types))
		for _, t := range types {
			s.filter[t] = struct{}{}
		}
	}
	return s
}

// Events returns the delivery channel. It is closed when the subscription ends.
func (s *Subscription) Events() <-chan machine.Event {
	return s.ch
}

// Close ends the subscription. It is idempotent.
func (s *Subscription) Close() error {
	if s.hub != nil {
		s.hub.unsubscribe(s)
		return nil
	}
	s.close()
	return nil
}

func (s *Subscription) wants(t machine.EventType) bool {
	if s.filter == nil {
		return true
	}
	_, ok := s.filter[t]
	return ok
}

func (s *Subscription) send(evt machine.Event) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return false
	}
	select {
	case s.ch <- evt:
		return true
	default:
		return false
	}
}

func (s *Subscription) close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.closed {
		s.closed = true
		close(s.ch)
		close(s.done)
	}
}
