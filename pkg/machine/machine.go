package machine

import (
	"context"
	"log/slog"
	"sync"

	"github.com/dmitrymomot/fsmkit/pkg/logger"
	"github.com/dmitrymomot/fsmkit/pkg/statemachine"
)

const (
	runIdle          = statemachine.State("idle")
	runRunning       = statemachine.State("running")
	runExitRequested = statemachine.State("exit_requested")

	evStart       = statemachine.Event("start")
	evRequestExit = statemachine.Event("request_exit")
	evFinish      = statemachine.Event("finish")
)

func newRunState() *statemachine.Machine {
	return statemachine.MustNew(runIdle,
		statemachine.WithTransition(runIdle, runRunning, evStart),
		statemachine.WithTransition(runRunning, runExitRequested, evRequestExit),
		statemachine.WithTransition(runExitRequested, runIdle, evFinish),
	)
}

// Machine runs registered states one at a time, driven by a queue of transitions.
// All methods are safe for concurrent use, including from inside state hooks.
type Machine struct {
	logger    *slog.Logger
	namer     Namer
	parentCtx context.Context
	observers []Observer

	mu        sync.Mutex
	settings  Settings
	states    map[string]*stateWrapper
	order     []string
	run       *statemachine.Machine
	queue     transitionQueue
	history   historyStack
	active    string
	activeSeq uint64
	seq       uint64
	session   *session

	wake chan struct{}
}

var _ Controller = (*Machine)(nil)

// New creates an idle machine with no registered states.
func New(opts ...Option) *Machine {
	m := &Machine{
		logger:    slog.Default(),
		namer:     TypeName,
		parentCtx: context.Background(),
		states:    make(map[string]*stateWrapper),
		run:       newRunState(),
		wake:      make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.logger = m.logger.With(logger.Component("fsm"))
	return m
}

// TryRegister adds s under id. An empty id is derived with the machine's Namer.
// States implementing MachineAware receive the machine before TryRegister returns.
func (m *Machine) TryRegister(s State, id string) error {
	if s == nil {
		return ErrNilState
	}

	id = m.resolveID(s, id)

	m.mu.Lock()
	if !m.run.Is(runIdle) {
		m.mu.Unlock()
		return ErrMachineRunning
	}
	if _, exists := m.states[id]; exists {
		m.mu.Unlock()
		return NewDuplicateStateError(id)
	}
	m.states[id] = newStateWrapper(id, s)
	m.order = append(m.order, id)
	m.mu.Unlock()

	if aware, ok := s.(MachineAware); ok {
		aware.SetMachine(m)
	}
	return nil
}

// Register is TryRegister for chained setup. Rejections are logged, not returned.
func (m *Machine) Register(s State, id string) *Machine {
	if err := m.TryRegister(s, id); err != nil {
		m.logger.Warn("state registration rejected", logger.StateID(m.resolveID(s, id)), logger.Error(err))
	}
	return m
}

// resolveID derives an identifier with the machine's Namer when id is empty.
func (m *Machine) resolveID(s State, id string) string {
	if id == "" && s != nil {
		return m.namer(s)
	}
	return id
}

// Start begins a run whose first transition enters id with params.
//
// Starting a machine that is already running, or whose previous run is still
// exiting, logs a warning and returns nil. An unregistered id returns an
// *UnknownStateError and leaves the machine idle.
func (m *Machine) Start(id string, params ...any) error {
	m.mu.Lock()
	switch m.run.Current() {
	case runRunning:
		runID := m.session.id
		m.mu.Unlock()
		m.logger.Warn("cannot start machine twice", logger.RunID(runID))
		return nil
	case runExitRequested:
		runID := m.session.id
		m.mu.Unlock()
		m.logger.Warn("cannot start machine until the previous run has exited", logger.RunID(runID))
		return nil
	}
	if _, ok := m.states[id]; !ok {
		m.mu.Unlock()
		return NewUnknownStateError(id)
	}
	if err := m.run.Fire(evStart); err != nil {
		m.mu.Unlock()
		return err
	}
	s := newSession(m.parentCtx)
	m.session = s
	m.queue.clear()
	m.queue.push(newTransition(id, params))
	states := m.snapshotLocked()
	m.mu.Unlock()

	m.logger.Debug("machine started", logger.RunID(s.id), logger.StateID(id))
	for _, w := range states {
		m.call(s, w.id, HookOnMachineStarted, w.onMachineStarted)
	}
	for _, w := range states {
		if w.id == id {
			m.call(s, w.id, HookOnMachineStartState, w.onMachineStartState)
		}
	}
	m.emit(s, Event{Type: EventRunStarted, StateID: id})

	go m.loop(s)
	return nil
}

// Enqueue appends a transition to id. It is executed after everything queued before it.
func (m *Machine) Enqueue(id string, params ...any) error {
	return m.request(id, params, false)
}

// SwitchTo discards pending transitions and queues one to id.
// The active state is exited on the next loop iteration.
func (m *Machine) SwitchTo(id string, params ...any) error {
	return m.request(id, params, true)
}

func (m *Machine) request(id string, params []any, replace bool) error {
	m.mu.Lock()
	if reason, runID := m.blockedLocked(); reason != "" {
		m.mu.Unlock()
		m.logger.Warn(reason, logger.RunID(runID), logger.StateID(id))
		return nil
	}
	if _, ok := m.states[id]; !ok {
		m.mu.Unlock()
		return NewUnknownStateError(id)
	}
	m.pushLocked(newTransition(id, params), replace)
	m.mu.Unlock()

	m.notify()
	return nil
}

// EnqueuePrevious queues the most recently executed transition other than the active one.
func (m *Machine) EnqueuePrevious() { m.previous(false) }

// SwitchToPrevious is EnqueuePrevious that discards pending transitions first.
func (m *Machine) SwitchToPrevious() { m.previous(true) }

func (m *Machine) previous(replace bool) {
	m.mu.Lock()
	if reason, runID := m.blockedLocked(); reason != "" {
		m.mu.Unlock()
		m.logger.Warn(reason, logger.RunID(runID))
		return
	}
	t, ok := m.popPreviousLocked()
	if !ok {
		runID := m.session.id
		m.mu.Unlock()
		m.logger.Warn("no previous state to return to", logger.RunID(runID))
		return
	}
	m.pushLocked(t, replace)
	m.mu.Unlock()

	m.notify()
}

// popPreviousLocked pops history down to the newest entry that does not belong
// to the active state's own execution.
func (m *Machine) popPreviousLocked() (Transition, bool) {
	top, ok := m.history.peek()
	if !ok {
		return Transition{}, false
	}
	if m.activeSeq != 0 && top.seq == m.activeSeq {
		if m.history.len() < 2 {
			return Transition{}, false
		}
		m.history.pop()
	}
	e, _ := m.history.pop()
	return e.transition, true
}

func (m *Machine) pushLocked(t Transition, replace bool) {
	if replace {
		m.queue.clear()
	}
	m.queue.push(t)
}

// blockedLocked returns a warning when transitions cannot be requested right now.
func (m *Machine) blockedLocked() (reason, runID string) {
	switch m.run.Current() {
	case runIdle:
		return "cannot interact with machine until it starts", ""
	case runExitRequested:
		return "cannot interact with machine after exit was requested", m.session.id
	}
	return "", ""
}

// ClearQueue drops every pending transition. The active state is unaffected.
func (m *Machine) ClearQueue() {
	m.mu.Lock()
	m.queue.clear()
	m.mu.Unlock()
}

// RequestExit drops pending transitions and ends the run once the active
// state has exited. Calls on an idle or already exiting machine only log a warning.
func (m *Machine) RequestExit() {
	m.mu.Lock()
	switch m.run.Current() {
	case runIdle:
		m.mu.Unlock()
		m.logger.Warn("cannot exit machine that is not running")
		return
	case runExitRequested:
		runID := m.session.id
		m.mu.Unlock()
		m.logger.Warn("exit was already requested", logger.RunID(runID))
		return
	}
	m.queue.clear()
	if err := m.run.Fire(evRequestExit); err != nil {
		m.mu.Unlock()
		m.logger.Error("failed to request exit", logger.Error(err))
		return
	}
	runID := m.session.id
	m.mu.Unlock()

	m.logger.Debug("machine exit requested", logger.RunID(runID))
	m.notify()
}

// Dispose cancels the context of the current run and requests exit.
// Active Entry and Exit hooks observe the cancellation; the loop stops
// waiting on them and tears the run down. The machine may be started again
// once WaitUntilExit returns.
func (m *Machine) Dispose() {
	m.mu.Lock()
	s := m.session
	if s == nil {
		m.mu.Unlock()
		return
	}
	s.cancel()
	if m.run.Is(runRunning) {
		m.queue.clear()
		_ = m.run.Fire(evRequestExit)
	}
	m.mu.Unlock()

	m.logger.Debug("machine disposed", logger.RunID(s.id))
	m.notify()
}

// WaitUntilExit blocks until the current run has finished, including every
// OnMachineExit hook, or ctx ends. It returns nil immediately when no run is active.
// Calling it from a state hook of the same run deadlocks until ctx ends.
func (m *Machine) WaitUntilExit(ctx context.Context) error {
	m.mu.Lock()
	s := m.session
	m.mu.Unlock()
	if s == nil {
		return nil
	}
	select {
	case <-s.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Running reports whether a run is in progress, including one that is exiting.
func (m *Machine) Running() bool {
	return !m.run.Is(runIdle)
}

// ExitRequested reports whether the current run is winding down.
func (m *Machine) ExitRequested() bool {
	return m.run.Is(runExitRequested)
}

// ActiveState returns the identifier of the most recently dequeued state, or "" when idle.
// It keeps naming that state after its Exit and CleanUp have run, until the
// next transition is dequeued or the run ends; same-state skipping compares
// against this value.
func (m *Machine) ActiveState() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.active
}

// Pending returns a copy of the queued transitions in execution order.
func (m *Machine) Pending() []Transition {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.queue.snapshot()
}

// History returns a copy of executed transitions of the current run, oldest first.
func (m *Machine) History() []Transition {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.history.snapshot()
}

// States returns registered identifiers in registration order.
func (m *Machine) States() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.order))
	copy(out, m.order)
	return out
}

// Settings returns the current settings.
func (m *Machine) Settings() Settings {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.settings
}

// SetSettings replaces the settings. The next dequeued transition observes them.
func (m *Machine) SetSettings(s Settings) {
	m.mu.Lock()
	m.settings = s
	m.mu.Unlock()
}

// RunID returns the identifier of the current run, or "" when none is active.
func (m *Machine) RunID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session == nil {
		return ""
	}
	return m.session.id
}

func (m *Machine) snapshotLocked() []*stateWrapper {
	out := make([]*stateWrapper, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.states[id])
	}
	return out
}

func (m *Machine) notify() {
	select {
	case m.wake <- struct{}{}:
	default:
	}
}
