package events

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/dmitrymomot/fsmkit/pkg/machine"
)

const defaultBufferSize = 16

// Hub delivers machine events to subscribers without blocking the publisher.
// All methods are safe for concurrent use.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[*Subscription]struct{}
	bufferSize  int
	closed      bool
	cleanupWg   sync.WaitGroup
	dropped     atomic.Uint64
}

// NewHub creates an open hub.
func NewHub(opts ...Option) *Hub {
	h := &Hub{
		subscribers: make(map[*Subscription]struct{}),
		bufferSize:  defaultBufferSize,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Subscribe registers a subscriber for the given event types, or for every
// type when none are given. The subscription is removed when ctx is cancelled.
// Subscribing to a closed hub returns an already closed subscription.
func (h *Hub) Subscribe(ctx context.Context, types ...machine.EventType) *Subscription {
	sub := newSubscription(h.bufferSize, types)

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		sub.close()
		return sub
	}
	sub.hub = h
	h.subscribers[sub] = struct{}{}

	if ctx.Done() != nil {
		h.cleanupWg.Add(1)
		go func() {
			defer h.cleanupWg.Done()
			select {
			case <-ctx.Done():
				h.unsubscribe(sub)
			case <-sub.done:
			}
		}()
	}
	return sub
}

// Publish sends evt to every interested subscriber, dropping it for those whose buffer is full.
func (h *Hub) Publish(evt machine.Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if h.closed {
		return
	}
	for sub := range h.subscribers {
		if !sub.wants(evt.Type) {
			continue
		}
		if !sub.send(evt) {
			h.dropped.Add(1)
		}
	}
}

// Observer adapts the hub to a machine observer.
func (h *Hub) Observer() machine.Observer {
	return func(_ context.Context, evt machine.Event) {
		h.Publish(evt)
	}
}

// Dropped returns how many deliveries were dropped because a subscriber was too slow.
func (h *Hub) Dropped() uint64 {
	return h.dropped.Load()
}

// Len returns the number of active subscriptions.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers)
}

// Close closes every subscription. It is safe to call more than once.
func (h *Hub) Close() error {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return nil
	}
	h.closed = true
	for sub := range h.subscribers {
		sub.close()
	}
	clear(h.subscribers)
	h.mu.Unlock()

	h.cleanupWg.Wait()
	return nil
}

func (h *Hub) unsubscribe(sub *Subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()

	delete(h.subscribers, sub)
	sub.close()
}
