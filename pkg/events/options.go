package events

// Option configures a Hub.
type Option func(*Hub)

// WithBufferSize sets the per-subscriber channel buffer. Values below 1 are raised to 1.
func WithBufferSize(n int) Option {
	return func(h *Hub) { h.bufferSize = max(n, 1) }
}
