package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/fsmkit/pkg/logger"
)

func decode(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	return entry
}

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("json by default", func(t *testing.T) {
		t.Parallel()
		buf := &bytes.Buffer{}
		log := logger.New(logger.WithOutput(buf))
		log.Info("hello")

		entry := decode(t, buf)
		assert.Equal(t, "INFO", entry["level"])
		assert.Equal(t, "hello", entry["msg"])
	})

	t.Run("text format", func(t *testing.T) {
		t.Parallel()
		buf := &bytes.Buffer{}
		log := logger.New(logger.WithOutput(buf), logger.WithFormat(logger.FormatText))
		log.Warn("careful", logger.StateID("menu"))

		out := buf.String()
		assert.Contains(t, out, "level=WARN")
		assert.Contains(t, out, "state_id=menu")
	})

	t.Run("pretty format", func(t *testing.T) {
		t.Parallel()
		buf := &bytes.Buffer{}
		log := logger.New(logger.WithOutput(buf), logger.WithFormat(logger.FormatPretty))
		log.Error("hook failed", logger.Hook("Entry"))

		out := buf.String()
		assert.Contains(t, out, "hook failed")
		assert.Contains(t, out, "Entry")
	})

	t.Run("level filters records", func(t *testing.T) {
		t.Parallel()
		buf := &bytes.Buffer{}
		log := logger.New(logger.WithOutput(buf), logger.WithLevel(slog.LevelWarn))
		log.Info("dropped")
		assert.Empty(t, buf.String())
	})

	t.Run("static attributes", func(t *testing.T) {
		t.Parallel()
		buf := &bytes.Buffer{}
		log := logger.New(logger.WithOutput(buf), logger.WithAttr(logger.Component("fsm")))
		log.Info("msg")
		assert.Equal(t, "fsm", decode(t, buf)["component"])
	})

	t.Run("context extractors", func(t *testing.T) {
		t.Parallel()
		type key struct{}
		buf := &bytes.Buffer{}
		log := logger.New(
			logger.WithOutput(buf),
			logger.WithContextExtractors(nil, func(ctx context.Context) (slog.Attr, bool) {
				if v, ok := ctx.Value(key{}).(string); ok {
					return logger.RunID(v), true
				}
				return slog.Attr{}, false
			}),
		)

		ctx := context.WithValue(context.Background(), key{}, "run-1")
		log.With("a", 1).WithGroup("g").InfoContext(ctx, "msg")

		out := buf.String()
		assert.Contains(t, out, `"run_id":"run-1"`)
	})

	t.Run("invalid format panics", func(t *testing.T) {
		t.Parallel()
		assert.Panics(t, func() { logger.New(logger.WithFormat("xml")) })
	})
}

func TestWithEnvironment(t *testing.T) {
	t.Parallel()

	t.Run("production", func(t *testing.T) {
		t.Parallel()
		buf := &bytes.Buffer{}
		log := logger.New(logger.WithEnvironment("prod", "svc"), logger.WithOutput(buf))
		log.Debug("dropped")
		log.Info("kept")

		entry := decode(t, buf)
		assert.Equal(t, "svc", entry["service"])
		assert.Equal(t, logger.EnvProduction, entry["env"])
	})

	t.Run("development", func(t *testing.T) {
		t.Parallel()
		buf := &bytes.Buffer{}
		log := logger.New(logger.WithEnvironment("", "svc"), logger.WithOutput(buf))
		log.Debug("visible")
		assert.Contains(t, buf.String(), "visible")
	})
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{in: "debug", want: slog.LevelDebug},
		{in: "INFO", want: slog.LevelInfo},
		{in: "warn", want: slog.LevelWarn},
		{in: " error ", want: slog.LevelError},
		{in: "loud", want: slog.LevelInfo, wantErr: true},
	}

	for _, tt := range tests {
		got, err := logger.ParseLevel(tt.in)
		if tt.wantErr {
			assert.ErrorIs(t, err, logger.ErrInvalidLevel, tt.in)
		} else {
			assert.NoError(t, err, tt.in)
		}
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	f, err := logger.ParseFormat("Pretty")
	require.NoError(t, err)
	assert.Equal(t, logger.FormatPretty, f)

	f, err = logger.ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, logger.FormatJSON, f)

	_, err = logger.ParseFormat("xml")
	assert.ErrorIs(t, err, logger.ErrInvalidFormat)
}

func TestAttrs(t *testing.T) {
	t.Parallel()

	assert.True(t, logger.Error(nil).Equal(slog.Attr{}))
	assert.True(t, logger.Errors(nil, nil).Equal(slog.Attr{}))
	assert.True(t, logger.StateID("").Equal(slog.Attr{}))
	assert.True(t, logger.RunID("").Equal(slog.Attr{}))

	err1 := errors.New("first")
	errs := logger.Errors(err1, nil, errors.New("second"))
	require.Equal(t, slog.KindGroup, errs.Value.Kind())
	assert.Len(t, errs.Value.Group(), 2)

	assert.Equal(t, "state_id", logger.StateID("menu").Key)
	assert.Equal(t, "hook", logger.Hook("Exit").Key)
	assert.Equal(t, "run_id", logger.RunID("x").Key)
	assert.Equal(t, int64(3), logger.QueueLen(3).Value.Int64())
	assert.Equal(t, time.Second, logger.Duration(time.Second).Value.Duration())
	assert.Equal(t, "event", logger.Event("run_started").Key)

	g := logger.Group("req", logger.Component("fsm"))
	assert.Equal(t, "req", g.Key)
	assert.Len(t, g.Value.Group(), 1)
}

func TestNewNop(t *testing.T) {
	t.Parallel()
	log := logger.NewNop()
	assert.False(t, log.Enabled(context.Background(), slog.LevelError))
}
