package server

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_SubscribeUnsubscribe(t *testing.T) {
	h := newHub()

	ch := h.subscribe()
	require.NotNil(t, ch)
	assert.Equal(t, 1, h.count())

	h.unsubscribe(ch)
	assert.Equal(t, 0, h.count())

	_, open := <-ch
	assert.False(t, open, "unsubscribe closes the channel")
}

func TestHub_Broadcast(t *testing.T) {
	h := newHub()

	ch1 := h.subscribe()
	ch2 := h.subscribe()
	defer h.unsubscribe(ch1)
	defer h.unsubscribe(ch2)

	h.broadcast()

	for i, ch := range []chan struct{}{ch1, ch2} {
		select {
		case <-ch:
		case <-time.After(100 * time.Millisecond):
			t.Errorf("subscriber %d did not receive broadcast", i+1)
		}
	}
}

func TestHub_BroadcastDropsWhenFull(t *testing.T) {
	h := newHub()

	ch := h.subscribe()
	defer h.unsubscribe(ch)

	h.broadcast()
	h.broadcast()

	<-ch
	select {
	case <-ch:
		t.Error("second ping should have been dropped")
	default:
	}
}

func TestHub_Concurrent(t *testing.T) {
	h := newHub()

	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ch := h.subscribe()
			h.broadcast()
			h.unsubscribe(ch)
		}()
	}
	wg.Wait()

	assert.Equal(t, 0, h.count())
}
