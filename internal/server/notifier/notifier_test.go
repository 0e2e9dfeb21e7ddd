package notifier

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func receive(t *testing.T, ch chan Event) Event {
	t.Helper()
	select {
	case ev := <-ch:
		return ev
	case <-time.After(time.Second):
		t.Fatal("no event received")
		return Event{}
	}
}

func TestNotifier_SubscribeUnsubscribe(t *testing.T) {
	n := New()

	ch := n.Subscribe()
	require.NotNil(t, ch)
	assert.Equal(t, 1, n.Len())

	n.Unsubscribe(ch)
	assert.Equal(t, 0, n.Len())

	_, open := <-ch
	assert.False(t, open, "unsubscribed channel is closed")
}

func TestNotifier_Broadcast(t *testing.T) {
	n := New()

	ch1 := n.Subscribe()
	ch2 := n.Subscribe()
	defer n.Unsubscribe(ch1)
	defer n.Unsubscribe(ch2)

	ev := Event{Generation: "g1", Changed: "reset"}
	n.Broadcast(ev)

	assert.Equal(t, ev, receive(t, ch1))
	assert.Equal(t, ev, receive(t, ch2))
}

func TestNotifier_BroadcastKeepsLatest(t *testing.T) {
	n := New()

	ch := n.Subscribe()
	defer n.Unsubscribe(ch)

	n.Broadcast(Event{Generation: "g1", Changed: "query"})
	n.Broadcast(Event{Generation: "g2", Changed: "reset"})

	assert.Equal(t, Event{Generation: "g2", Changed: "reset"}, receive(t, ch))
}

func TestNotifier_ConcurrentBroadcast(t *testing.T) {
	n := New()

	ch := n.Subscribe()
	defer n.Unsubscribe(ch)

	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			n.Broadcast(Event{Changed: "query"})
		}()
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Broadcast blocked")
	}
	assert.Equal(t, "query", receive(t, ch).Changed)
}
