package event_test

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/rsharma-dev/inventra/pkg/event"
)

func TestFireReachesAllListeners(t *testing.T) {
	event.Flush()
	defer event.Flush()

	var calls atomic.Int32
	event.Listen("thing.happened", func(payload interface{}) {
		calls.Add(1)
	})
	event.Listen("thing.happened", func(payload interface{}) {
		calls.Add(1)
	})

	event.Fire("thing.happened", nil)
	if calls.Load() != 2 {
		t.Errorf("expected 2 calls, got %d", calls.Load())
	}
}

func TestFireCarriesPayload(t *testing.T) {
	event.Flush()
	defer event.Flush()

	var got interface{}
	event.Listen("data.sent", func(payload interface{}) {
		got = payload
	})

	event.Fire("data.sent", "hello")
	if got != "hello" {
		t.Errorf("expected payload, got %v", got)
	}
}

func TestFireUnknownEventIsNoop(t *testing.T) {
	event.Flush()
	defer event.Flush()
	event.Fire("nobody.listening", 42) // must not panic
}

func TestFireAsyncDoesNotBlock(t *testing.T) {
	event.Flush()
	defer event.Flush()

	done := make(chan struct{})
	event.Listen("slow.handler", func(payload interface{}) {
		time.Sleep(50 * time.Millisecond)
		close(done)
	})

	start := time.Now()
	event.FireAsync("slow.handler", nil)
	if time.Since(start) > 20*time.Millisecond {
		t.Error("FireAsync blocked on the handler")
	}

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("handler never ran")
	}
}
