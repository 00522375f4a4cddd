package machine

import (
	"context"
	"log/slog"
	"time"
)

// Option configures a Machine during construction.
type Option func(*Machine)

// WithLogger sets the sink for usage warnings and hook failures. Nil is ignored.
func WithLogger(l *slog.Logger) Option {
	return func(m *Machine) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithSettings sets the initial settings.
func WithSettings(s Settings) Option {
	return func(m *Machine) { m.settings = s }
}

// WithNamer sets how identifiers are derived for states registered without one.
func WithNamer(n Namer) Option {
	return func(m *Machine) {
		if n != nil {
			m.namer = n
		}
	}
}

// WithContext sets the parent of every run's context. Cancelling it ends the
// current run the same way Dispose does.
func WithContext(ctx context.Context) Option {
	return func(m *Machine) {
		if ctx != nil {
			m.parentCtx = ctx
		}
	}
}

// WithObserver adds an event observer. May be given more than once.
func WithObserver(o Observer) Option {
	return func(m *Machine) {
		if o != nil {
			m.observers = append(m.observers, o)
		}
	}
}

// WithHookTimeout bounds a single Entry or Exit call. It overrides Settings.HookTimeout.
func WithHookTimeout(d time.Duration) Option {
	return func(m *Machine) { m.settings.HookTimeout = d }
}
