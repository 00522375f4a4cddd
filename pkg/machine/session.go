package machine

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/dmitrymomot/fsmkit/pkg/logger"
)

type runIDKey struct{}

// session is the cancellation scope of one run, from Start until exit completes.
type session struct {
	id     string
	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

func newSession(parent context.Context) *session {
	id := uuid.NewString()
	ctx, cancel := context.WithCancel(context.WithValue(parent, runIDKey{}, id))
	return &session{
		id:     id,
		ctx:    ctx,
		cancel: cancel,
		done:   make(chan struct{}),
	}
}

// RunIDFromContext returns the run id carried by contexts handed to Entry and Exit.
func RunIDFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	id, ok := ctx.Value(runIDKey{}).(string)
	return id, ok && id != ""
}

// RunIDExtractor is a logger.ContextExtractor that logs the run id of the current run.
func RunIDExtractor(ctx context.Context) (slog.Attr, bool) {
	id, ok := RunIDFromContext(ctx)
	if !ok {
		return slog.Attr{}, false
	}
	return logger.RunID(id), true
}
