package metrics_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/fsmkit/pkg/machine"
	"github.com/dmitrymomot/fsmkit/pkg/metrics"
)

func TestCollector_Record(t *testing.T) {
	t.Parallel()

	c := metrics.NewCollector()
	reg := prometheus.NewPedanticRegistry()
	require.NoError(t, reg.Register(c))

	c.Record(machine.Event{Type: machine.EventRunStarted, StateID: "A"})
	c.Record(machine.Event{Type: machine.EventStateEntered, StateID: "A"})
	c.Record(machine.Event{Type: machine.EventStateEntered, StateID: "B"})
	c.Record(machine.Event{Type: machine.EventStateEntered, StateID: "A"})
	c.Record(machine.Event{Type: machine.EventStateSkipped, StateID: "A"})
	c.Record(machine.Event{Type: machine.EventHookFinished, StateID: "A", Hook: machine.HookEntry, Duration: time.Millisecond})
	c.Record(machine.Event{Type: machine.EventHookFinished, StateID: "B", Hook: machine.HookExit, Err: errors.New("boom")})

	expected := `
# HELP fsm_hook_failures_total Number of state hooks that returned an error or panicked.
# TYPE fsm_hook_failures_total counter
fsm_hook_failures_total{hook="Exit",state="B"} 1
# HELP fsm_running Number of machine runs in progress.
# TYPE fsm_running gauge
fsm_running 1
# HELP fsm_runs_total Number of machine runs started.
# TYPE fsm_runs_total counter
fsm_runs_total 1
# HELP fsm_skips_total Number of transitions skipped because the state was already active.
# TYPE fsm_skips_total counter
fsm_skips_total{state="A"} 1
# HELP fsm_transitions_total Number of states entered.
# TYPE fsm_transitions_total counter
fsm_transitions_total{state="A"} 2
fsm_transitions_total{state="B"} 1
`
	err := testutil.GatherAndCompare(reg, strings.NewReader(expected),
		"fsm_hook_failures_total", "fsm_running", "fsm_runs_total", "fsm_skips_total", "fsm_transitions_total")
	require.NoError(t, err)

	count, err := testutil.GatherAndCount(reg, "fsm_hook_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	c.Record(machine.Event{Type: machine.EventRunExited})
	count, err = testutil.GatherAndCount(reg, "fsm_running")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestCollector_Options(t *testing.T) {
	t.Parallel()

	c := metrics.NewCollector(
		metrics.WithNamespace("shop"),
		metrics.WithSubsystem("checkout"),
		metrics.WithBuckets(0.1, 1),
		metrics.WithConstLabels(prometheus.Labels{"machine": "cart"}),
	)
	reg := prometheus.NewRegistry()
	require.NoError(t, reg.Register(c))

	c.Record(machine.Event{Type: machine.EventRunStarted})

	expected := `
# HELP shop_checkout_runs_total Number of machine runs started.
# TYPE shop_checkout_runs_total counter
shop_checkout_runs_total{machine="cart"} 1
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "shop_checkout_runs_total"))
}

type enterState struct {
	machine.BaseState
}

func (s *enterState) Entry(ctx context.Context) error {
	return s.Machine().Enqueue("done")
}

func TestCollector_Observer(t *testing.T) {
	t.Parallel()

	c := metrics.NewCollector()
	reg := prometheus.NewRegistry()
	require.NoError(t, reg.Register(c))

	m := machine.New(machine.WithObserver(c.Observer()))
	m.Register(&enterState{}, "start").Register(&machine.BaseState{}, "done")
	require.NoError(t, m.Start("start"))

	require.Eventually(t, func() bool {
		return testutil.CollectAndCount(c, "fsm_transitions_total") == 2
	}, time.Second, 5*time.Millisecond)

	m.RequestExit()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, m.WaitUntilExit(ctx))

	expected := `
# HELP fsm_running Number of machine runs in progress.
# TYPE fsm_running gauge
fsm_running 0
# HELP fsm_transitions_total Number of states entered.
# TYPE fsm_transitions_total counter
fsm_transitions_total{state="done"} 1
fsm_transitions_total{state="start"} 1
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "fsm_running", "fsm_transitions_total"))
}

func TestHandler(t *testing.T) {
	t.Parallel()

	c := metrics.NewCollector()
	reg := prometheus.NewRegistry()
	require.NoError(t, reg.Register(c))
	c.Record(machine.Event{Type: machine.EventRunStarted})

	rec := httptest.NewRecorder()
	metrics.Handler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "fsm_runs_total 1")
}
