package machine

import "time"

// Settings are read at transition time and may be replaced while the machine runs.
type Settings struct {
	// DontSwitchToSameState skips a dequeued transition whose identifier
	// equals the currently active one.
	DontSwitchToSameState bool `env:"DONT_SWITCH_TO_SAME_STATE" yaml:"dont_switch_to_same_state"`

	// HookTimeout bounds a single Entry or Exit call. Zero or negative disables it.
	HookTimeout time.Duration `env:"HOOK_TIMEOUT" yaml:"hook_timeout"`
}
