package machine

import "slices"

// Transition is a request to enter the state ID with Params handed to its Setup hook.
type Transition struct {
	ID     string
	Params []any
}

func newTransition(id string, params []any) Transition {
	return Transition{ID: id, Params: slices.Clone(params)}
}

func (t Transition) clone() Transition {
	return Transition{ID: t.ID, Params: slices.Clone(t.Params)}
}

// transitionQueue is a FIFO of pending transitions.
type transitionQueue struct {
	items []Transition
}

func (q *transitionQueue) push(t Transition) {
	q.items = append(q.items, t)
}

func (q *transitionQueue) pop() (Transition, bool) {
	if len(q.items) == 0 {
		return Transition{}, false
	}
	t := q.items[0]
	q.items[0] = Transition{}
	q.items = q.items[1:]
	return t, true
}

func (q *transitionQueue) len() int { return len(q.items) }

func (q *transitionQueue) clear() { q.items = nil }

func (q *transitionQueue) snapshot() []Transition {
	out := make([]Transition, len(q.items))
	for i, t := range q.items {
		out[i] = t.clone()
	}
	return out
}

// historyEntry pairs an executed transition with the sequence number of its execution.
type historyEntry struct {
	transition Transition
	seq        uint64
}

// historyStack is a LIFO of executed transitions.
type historyStack struct {
	entries []historyEntry
}

func (h *historyStack) push(t Transition, seq uint64) {
	h.entries = append(h.entries, historyEntry{transition: t, seq: seq})
}

func (h *historyStack) peek() (historyEntry, bool) {
	if len(h.entries) == 0 {
		return historyEntry{}, false
	}
	return h.entries[len(h.entries)-1], true
}

func (h *historyStack) pop() (historyEntry, bool) {
	e, ok := h.peek()
	if ok {
		h.entries = h.entries[:len(h.entries)-1]
	}
	return e, ok
}

func (h *historyStack) len() int { return len(h.entries) }

func (h *historyStack) clear() { h.entries = nil }

// snapshot returns executed transitions oldest first.
func (h *historyStack) snapshot() []Transition {
	out := make([]Transition, len(h.entries))
	for i, e := range h.entries {
		out[i] = e.transition.clone()
	}
	return out
}
