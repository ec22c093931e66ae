package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestEventBus_PublishSubscribe(t *testing.T) {
	defer goleak.VerifyNone(t)

	bus := NewEventBus()
	sub := bus.Subscribe(4)
	defer bus.Unsubscribe(sub)

	bus.Publish(Event{Kind: EventSourceFound, Topic: "go generics"})

	select {
	case e := <-sub.C:
		assert.Equal(t, EventSourceFound, e.Kind)
		assert.Equal(t, "go generics", e.Topic)
	case <-time.After(time.Second):
		t.Fatal("no event received")
	}
}

func TestEventBus_DropsWhenFull(t *testing.T) {
	bus := NewEventBus()
	sub := bus.Subscribe(1)
	defer bus.Unsubscribe(sub)

	bus.Publish(Event{Kind: EventReportDelta})
	bus.Publish(Event{Kind: EventReportSaved}) // dropped, buffer full

	e := <-sub.C
	assert.Equal(t, EventReportDelta, e.Kind)

	select {
	case e := <-sub.C:
		t.Fatalf("unexpected second event: %v", e.Kind)
	default:
	}
}

func TestEventBus_UnsubscribeClosesChannel(t *testing.T) {
	bus := NewEventBus()
	sub := bus.Subscribe(1)

	bus.Unsubscribe(sub)

	_, open := <-sub.C
	assert.False(t, open)

	// A second unsubscribe must not panic.
	require.NotPanics(t, func() { bus.Unsubscribe(sub) })

	// Publishing after unsubscribe must not panic either.
	require.NotPanics(t, func() { bus.Publish(Event{Kind: EventError}) })
}
