package machine

import (
	"context"
	"time"

	"github.com/dmitrymomot/fsmkit/pkg/async"
	"github.com/dmitrymomot/fsmkit/pkg/logger"
)

// detachGrace is how long a hook that is returning on cancellation gets
// before the loop abandons it.
const detachGrace = 50 * time.Millisecond

// step is a dequeued transition ready to run.
type step struct {
	state      *stateWrapper
	transition Transition
	seq        uint64
}

// loop executes transitions for one run until exit is requested.
func (m *Machine) loop(s *session) {
	for {
		st, ok := m.next(s)
		if !ok {
			break
		}
		m.cycle(s, st)
		if m.ExitRequested() {
			break
		}
	}
	m.teardown(s)
}

// next blocks until a transition can run. It returns false once exit has been
// requested or the run context has ended. Transitions to the active state are
// skipped when DontSwitchToSameState is set, and the following one is tried
// immediately.
func (m *Machine) next(s *session) (step, bool) {
	for {
		if s.ctx.Err() != nil {
			m.cancelled(s)
		}
		m.mu.Lock()
		if m.run.Is(runExitRequested) {
			m.mu.Unlock()
			return step{}, false
		}
		t, ok := m.queue.pop()
		if !ok {
			m.mu.Unlock()
			select {
			case <-m.wake:
			case <-s.ctx.Done():
				m.cancelled(s)
			}
			continue
		}
		w := m.states[t.ID]
		skip := m.settings.DontSwitchToSameState && t.ID == m.active
		var seq uint64
		if w != nil && !skip {
			m.seq++
			seq = m.seq
			m.active = t.ID
			m.activeSeq = seq
		}
		m.mu.Unlock()

		switch {
		case w == nil:
			m.logger.Error("dequeued transition to unregistered state", logger.RunID(s.id), logger.StateID(t.ID))
		case skip:
			m.logger.Debug("skipping transition to active state", logger.RunID(s.id), logger.StateID(t.ID))
			m.emit(s, Event{Type: EventStateSkipped, StateID: t.ID})
		default:
			return step{state: w, transition: t, seq: seq}, true
		}
	}
}

// cycle runs the full lifecycle of one state. Failures are logged and never abort it.
func (m *Machine) cycle(s *session, st step) {
	w, id := st.state, st.transition.ID

	m.call(s, id, HookSetup, func() Result { return w.setup(st.transition.Params) })

	m.mu.Lock()
	m.history.push(st.transition, st.seq)
	m.mu.Unlock()

	m.call(s, id, HookEntry, func() Result { return m.await(s, w.entry) })
	m.emit(s, Event{Type: EventStateEntered, StateID: id})

	m.awaitTrigger(s)

	m.call(s, id, HookExit, func() Result { return m.await(s, w.exit) })
	m.call(s, id, HookCleanUp, w.cleanUp)

	m.mu.Lock()
	m.activeSeq = 0
	m.mu.Unlock()
	m.emit(s, Event{Type: EventStateExited, StateID: id})
}

// await runs an Entry or Exit hook. A hook that is running when the run is
// cancelled, or that outlives the hook timeout, gets detachGrace to return and
// is then abandoned: it keeps running in the background with a cancelled
// context while the lifecycle moves on.
// A hook started on an already cancelled run is awaited so it can observe the
// cancellation, bounded only by the hook timeout.
func (m *Machine) await(s *session, hook func(context.Context) Result) Result {
	hookCtx, waitCtx := s.ctx, s.ctx
	if s.ctx.Err() != nil {
		waitCtx = context.WithoutCancel(s.ctx)
	}
	if timeout := m.Settings().HookTimeout; timeout > 0 {
		var cancelHook, cancelWait context.CancelFunc
		hookCtx, cancelHook = context.WithTimeout(hookCtx, timeout)
		waitCtx, cancelWait = context.WithTimeout(waitCtx, timeout)
		defer cancelHook()
		defer cancelWait()
	}

	future := async.Go(hookCtx, func(ctx context.Context) (Result, error) {
		return hook(ctx), nil
	})
	res, err := future.AwaitContext(waitCtx)
	if err != nil {
		if late, lateErr := future.AwaitWithTimeout(detachGrace); lateErr == nil {
			return late
		}
		return resultOf(err)
	}
	return res
}

// awaitTrigger blocks while the active state should stay active: until a
// transition is queued or exit is requested. Cancellation of the run
// context requests exit.
func (m *Machine) awaitTrigger(s *session) {
	for {
		m.mu.Lock()
		ready := m.queue.len() > 0 || m.run.Is(runExitRequested)
		m.mu.Unlock()
		if ready {
			return
		}
		select {
		case <-m.wake:
		case <-s.ctx.Done():
			m.cancelled(s)
			return
		}
	}
}

// cancelled requests exit for a run whose context ended without RequestExit,
// e.g. because the parent context passed with WithContext was cancelled.
func (m *Machine) cancelled(s *session) {
	m.mu.Lock()
	if m.session != s || !m.run.Is(runRunning) {
		m.mu.Unlock()
		return
	}
	m.queue.clear()
	if err := m.run.Fire(evRequestExit); err != nil {
		m.mu.Unlock()
		m.logger.Error("failed to request exit", logger.RunID(s.id), logger.Error(err))
		return
	}
	m.mu.Unlock()

	m.logger.Debug("run context cancelled, exiting", logger.RunID(s.id), logger.Error(context.Cause(s.ctx)))
}

// teardown returns the machine to idle and notifies every state that the run ended.
func (m *Machine) teardown(s *session) {
	m.mu.Lock()
	if err := m.run.Fire(evFinish); err != nil {
		m.logger.Error("failed to finish run", logger.RunID(s.id), logger.Error(err))
	}
	m.queue.clear()
	m.history.clear()
	m.active = ""
	m.activeSeq = 0
	states := m.snapshotLocked()
	m.mu.Unlock()

	for _, w := range states {
		m.call(s, w.id, HookOnMachineExit, w.onMachineExit)
	}
	s.cancel()
	m.emit(s, Event{Type: EventRunExited})
	m.logger.Debug("machine exited", logger.RunID(s.id))

	m.mu.Lock()
	if m.session == s {
		m.session = nil
	}
	m.mu.Unlock()
	close(s.done)
}

// call invokes one hook, logs a failure, and reports its duration to observers.
func (m *Machine) call(s *session, id string, hook Hook, fn func() Result) Result {
	start := time.Now()
	res := fn()
	elapsed := time.Since(start)

	if res.Failed() {
		m.logger.Error("state hook failed",
			logger.RunID(s.id),
			logger.StateID(id),
			logger.Hook(string(hook)),
			logger.Duration(elapsed),
			logger.Error(res.Err),
		)
	}
	m.emit(s, Event{Type: EventHookFinished, StateID: id, Hook: hook, Err: res.Err, Duration: elapsed})
	return res
}
