package machine_test

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/fsmkit/pkg/logger"
	"github.com/dmitrymomot/fsmkit/pkg/machine"
)

const (
	waitFor = 2 * time.Second
	tick    = 5 * time.Millisecond
)

// recorder collects hook calls from every state of one machine in call order.
type recorder struct {
	mu     sync.Mutex
	calls  []string
	params map[string][][]any
	events []machine.Event
}

func newRecorder() *recorder {
	return &recorder{params: make(map[string][][]any)}
}

func (r *recorder) add(call string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, call)
}

func (r *recorder) addParams(id string, params []any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.params[id] = append(r.params[id], params)
}

func (r *recorder) snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.calls))
	copy(out, r.calls)
	return out
}

func (r *recorder) count(call string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, c := range r.calls {
		if c == call {
			n++
		}
	}
	return n
}

func (r *recorder) paramsOf(id string) [][]any {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.params[id]
}

func (r *recorder) observe(_ context.Context, evt machine.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, evt)
}

func (r *recorder) eventsOf(typ machine.EventType) []machine.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []machine.Event
	for _, e := range r.events {
		if e.Type == typ {
			out = append(out, e)
		}
	}
	return out
}

// fakeState records every hook call. Optional funcs override Entry and Exit behavior.
type fakeState struct {
	machine.BaseState
	id  string
	rec *recorder

	entry func(ctx context.Context, c machine.Controller) error
	exit  func(ctx context.Context) error
}

func newFakeState(id string, rec *recorder) *fakeState {
	return &fakeState{id: id, rec: rec}
}

func (s *fakeState) Setup(params []any) error {
	s.rec.add(s.id + ".Setup")
	s.rec.addParams(s.id, params)
	return nil
}

func (s *fakeState) Entry(ctx context.Context) error {
	s.rec.add(s.id + ".Entry")
	if s.entry != nil {
		return s.entry(ctx, s.Machine())
	}
	return nil
}

func (s *fakeState) Exit(ctx context.Context) error {
	s.rec.add(s.id + ".Exit")
	if s.exit != nil {
		return s.exit(ctx)
	}
	return nil
}

func (s *fakeState) CleanUp() error {
	s.rec.add(s.id + ".CleanUp")
	return nil
}

func (s *fakeState) OnMachineStarted() error {
	s.rec.add(s.id + ".OnMachineStarted")
	return nil
}

func (s *fakeState) OnMachineStartState() error {
	s.rec.add(s.id + ".OnMachineStartState")
	return nil
}

func (s *fakeState) OnMachineExit() error {
	s.rec.add(s.id + ".OnMachineExit")
	return nil
}

// syncBuffer is a bytes.Buffer safe for the concurrent writes of a slog handler.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

type fixture struct {
	m      *machine.Machine
	rec    *recorder
	logs   *syncBuffer
	states map[string]*fakeState
}

// newFixture builds a machine with one fakeState per id, registered in order.
func newFixture(t *testing.T, ids []string, opts ...machine.Option) *fixture {
	t.Helper()

	rec := newRecorder()
	logs := &syncBuffer{}
	log := logger.New(
		logger.WithOutput(logs),
		logger.WithFormat(logger.FormatJSON),
		logger.WithLevel(slog.LevelDebug),
	)
	opts = append([]machine.Option{machine.WithLogger(log), machine.WithObserver(rec.observe)}, opts...)

	f := &fixture{
		m:      machine.New(opts...),
		rec:    rec,
		logs:   logs,
		states: make(map[string]*fakeState),
	}
	for _, id := range ids {
		s := newFakeState(id, rec)
		f.states[id] = s
		require.NoError(t, f.m.TryRegister(s, id))
	}
	t.Cleanup(func() {
		f.m.Dispose()
		ctx, cancel := context.WithTimeout(context.Background(), waitFor)
		defer cancel()
		_ = f.m.WaitUntilExit(ctx)
	})
	return f
}

func (f *fixture) waitCalls(t *testing.T, call string, n int) {
	t.Helper()
	require.Eventually(t, func() bool { return f.rec.count(call) >= n }, waitFor, tick,
		"expected %s to be called %d times, calls: %v", call, n, f.rec.snapshot())
}

func (f *fixture) exit(t *testing.T) {
	t.Helper()
	f.m.RequestExit()
	ctx, cancel := context.WithTimeout(context.Background(), waitFor)
	defer cancel()
	require.NoError(t, f.m.WaitUntilExit(ctx))
}

func (f *fixture) hasLog(msg string) bool {
	return strings.Contains(f.logs.String(), fmt.Sprintf("%q", msg))
}

func ids(ts []machine.Transition) []string {
	out := make([]string, len(ts))
	for i, t := range ts {
		out[i] = t.ID
	}
	return out
}
