// Package events fans machine events out to any number of subscribers.
//
// A Hub is plugged into a machine as an observer and never blocks it: when a
// subscriber's buffer is full the event is dropped for that subscriber and
// counted.
//
//	hub := events.NewHub(events.WithBufferSize(64))
//	defer hub.Close()
//
//	m := machine.New(machine.WithObserver(hub.Observer()))
//
//	sub := hub.Subscribe(ctx, machine.EventStateEntered)
//	defer sub.Close()
//
//	for evt := range sub.Events() {
//	    fmt.Println(evt.StateID)
//	}
//
// A subscription ends when its context is cancelled, when Close is called, or
// when the hub is closed. Its channel is closed in every case.
package events
