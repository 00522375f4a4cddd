package machine

import (
	"context"
	"time"

	"github.com/dmitrymomot/fsmkit/pkg/logger"
)

// EventType classifies machine events.
type EventType string

const (
	EventRunStarted   EventType = "run_started"
	EventStateEntered EventType = "state_entered"
	EventStateExited  EventType = "state_exited"
	EventStateSkipped EventType = "state_skipped"
	EventHookFinished EventType = "hook_finished"
	EventRunExited    EventType = "run_exited"
)

// Event describes something that happened during a run.
// Hook, Err and Duration are set for EventHookFinished only.
type Event struct {
	Type     EventType
	RunID    string
	StateID  string
	Hook     Hook
	Err      error
	Duration time.Duration
	Time     time.Time
}

// Observer receives machine events synchronously on the goroutine that produced them.
// Observers must not block, must not call WaitUntilExit, and must be safe for
// concurrent use: a new run may start while the previous one is still exiting.
type Observer func(ctx context.Context, evt Event)

func (m *Machine) emit(s *session, evt Event) {
	if len(m.observers) == 0 {
		return
	}
	evt.RunID = s.id
	evt.Time = time.Now()
	for _, o := range m.observers {
		m.notifyObserver(s.ctx, o, evt)
	}
}

func (m *Machine) notifyObserver(ctx context.Context, o Observer, evt Event) {
	defer func() {
		if r := recover(); r != nil {
			m.logger.Error("machine observer panicked",
				logger.RunID(evt.RunID),
				logger.Event(string(evt.Type)),
				"panic", r,
			)
		}
	}()
	o(ctx, evt)
}
