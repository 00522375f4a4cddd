package statemachine

import (
	"sync"
)

// State names a state of the machine.
type State string

// Event names an event that may move the machine from one state to another.
type Event string

// Guard evaluates whether a transition may proceed. All guards must pass.
type Guard func(from State, event Event) bool

// Action runs after guards pass and before the current state is updated.
// Actions must not call back into the machine that invoked them.
type Action func(from, to State, event Event)

// Transition defines a state change triggered by an event.
type Transition struct {
	From    State
	To      State
	Event   Event
	Guards  []Guard
	Actions []Action
}

// Machine is a concurrency-safe table-driven state machine.
// The table is keyed [from][event] and holds candidate transitions in priority order.
type Machine struct {
	mu      sync.RWMutex
	initial State
	current State
	table   map[State]map[Event][]Transition
}

func newMachine(initial State) *Machine {
	return &Machine{
		initial: initial,
		current: initial,
		table:   make(map[State]map[Event][]Transition),
	}
}

// Current returns the current state.
func (m *Machine) Current() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// Is reports whether the machine is in any of the given states.
func (m *Machine) Is(states ...State) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, s := range states {
		if m.current == s {
			return true
		}
	}
	return false
}

// AddTransition appends a transition to the table.
func (m *Machine) AddTransition(t Transition) error {
	if t.From == "" || t.To == "" || t.Event == "" {
		return ErrInvalidTransition
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.table[t.From]; !ok {
		m.table[t.From] = make(map[Event][]Transition)
	}
	m.table[t.From][t.Event] = append(m.table[t.From][t.Event], t)
	return nil
}

// Fire moves the machine along the first transition whose guards pass.
func (m *Machine) Fire(event Event) error {
	if event == "" {
		return ErrInvalidEvent
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	t, err := m.resolve(event)
	if err != nil {
		return err
	}

	for _, action := range t.Actions {
		if action != nil {
			action(m.current, t.To, event)
		}
	}

	m.current = t.To
	return nil
}

// CanFire reports whether Fire would succeed for the event in the current state.
func (m *Machine) CanFire(event Event) bool {
	if event == "" {
		return false
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	_, err := m.resolve(event)
	return err == nil
}

// Reset returns the machine to its initial state.
func (m *Machine) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = m.initial
}

// resolve must be called with the lock held.
func (m *Machine) resolve(event Event) (Transition, error) {
	candidates := m.table[m.current][event]
	if len(candidates) == 0 {
		return Transition{}, NewErrNoTransitionAvailable(m.current, event)
	}

	for _, t := range candidates {
		if guardsPass(t.Guards, m.current, event) {
			return t, nil
		}
	}

	return Transition{}, NewErrTransitionRejected(m.current, event)
}

func guardsPass(guards []Guard, from State, event Event) bool {
	for _, guard := range guards {
		if guard != nil && !guard(from, event) {
			return false
		}
	}
	return true
}
