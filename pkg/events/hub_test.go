package events_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/fsmkit/pkg/events"
	"github.com/dmitrymomot/fsmkit/pkg/machine"
)

func receive(t *testing.T, sub *events.Subscription) machine.Event {
	t.Helper()
	select {
	case evt, ok := <-sub.Events():
		require.True(t, ok, "subscription closed")
		return evt
	case <-time.After(time.Second):
		t.Fatal("no event received")
		return machine.Event{}
	}
}

func assertClosed(t *testing.T, sub *events.Subscription) {
	t.Helper()
	require.Eventually(t, func() bool {
		select {
		case _, ok := <-sub.Events():
			return !ok
		default:
			return false
		}
	}, time.Second, 5*time.Millisecond)
}

func TestHub_Publish(t *testing.T) {
	t.Parallel()

	hub := events.NewHub()
	defer hub.Close()

	all := hub.Subscribe(context.Background())
	entered := hub.Subscribe(context.Background(), machine.EventStateEntered)
	assert.Equal(t, 2, hub.Len())

	hub.Publish(machine.Event{Type: machine.EventRunStarted, RunID: "r1"})
	hub.Publish(machine.Event{Type: machine.EventStateEntered, StateID: "A"})

	assert.Equal(t, machine.EventRunStarted, receive(t, all).Type)
	assert.Equal(t, "A", receive(t, all).StateID)

	evt := receive(t, entered)
	assert.Equal(t, machine.EventStateEntered, evt.Type)
	assert.Empty(t, entered.Events())
}

func TestHub_DropsForSlowSubscriber(t *testing.T) {
	t.Parallel()

	hub := events.NewHub(events.WithBufferSize(1))
	defer hub.Close()

	sub := hub.Subscribe(context.Background())
	hub.Publish(machine.Event{Type: machine.EventStateEntered, StateID: "A"})
	hub.Publish(machine.Event{Type: machine.EventStateEntered, StateID: "B"})

	assert.Equal(t, uint64(1), hub.Dropped())
	assert.Equal(t, "A", receive(t, sub).StateID)
	assert.Equal(t, 1, hub.Len())
}

func TestHub_SubscriptionLifetime(t *testing.T) {
	t.Parallel()

	t.Run("context cancellation", func(t *testing.T) {
		t.Parallel()
		hub := events.NewHub()
		defer hub.Close()

		ctx, cancel := context.WithCancel(context.Background())
		sub := hub.Subscribe(ctx)
		cancel()

		assertClosed(t, sub)
		assert.Eventually(t, func() bool { return hub.Len() == 0 }, time.Second, 5*time.Millisecond)
	})

	t.Run("explicit close is idempotent", func(t *testing.T) {
		t.Parallel()
		hub := events.NewHub()
		defer hub.Close()

		sub := hub.Subscribe(context.Background())
		require.NoError(t, sub.Close())
		require.NoError(t, sub.Close())
		assertClosed(t, sub)
		assert.Zero(t, hub.Len())
	})

	t.Run("hub close", func(t *testing.T) {
		t.Parallel()
		hub := events.NewHub()

		sub := hub.Subscribe(context.Background())
		require.NoError(t, hub.Close())
		require.NoError(t, hub.Close())
		assertClosed(t, sub)

		late := hub.Subscribe(context.Background())
		assertClosed(t, late)
		require.NoError(t, late.Close())

		hub.Publish(machine.Event{Type: machine.EventRunExited})
		assert.Zero(t, hub.Dropped())
	})
}

type noopState struct {
	machine.BaseState
}

func TestHub_Observer(t *testing.T) {
	t.Parallel()

	hub := events.NewHub(events.WithBufferSize(64))
	defer hub.Close()

	sub := hub.Subscribe(context.Background(), machine.EventRunStarted, machine.EventRunExited)

	m := machine.New(machine.WithObserver(hub.Observer()))
	m.Register(&noopState{}, "idle")
	require.NoError(t, m.Start("idle"))

	started := receive(t, sub)
	assert.Equal(t, machine.EventRunStarted, started.Type)
	assert.Equal(t, "idle", started.StateID)
	assert.NotEmpty(t, started.RunID)

	m.RequestExit()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, m.WaitUntilExit(ctx))

	exited := receive(t, sub)
	assert.Equal(t, machine.EventRunExited, exited.Type)
	assert.Equal(t, started.RunID, exited.RunID)
}
