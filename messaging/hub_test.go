package messaging

import (
	"errors"
	"sync"
	"testing"
	"time"
)

type fakeConn struct {
	mu       sync.Mutex
	events   []Event
	writeErr error
	closed   bool
}

func (f *fakeConn) WriteJSON(v any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.writeErr != nil {
		return f.writeErr
	}
	f.events = append(f.events, v.(Event))
	return nil
}

func (f *fakeConn) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakeConn) received() []Event {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Event(nil), f.events...)
}

func TestBroadcastReachesAllChannelsOfInquiry(t *testing.T) {
	hub := NewHub()
	a := &fakeConn{}
	b := &fakeConn{}
	other := &fakeConn{}

	hub.Connect("inq-1", a)
	hub.Connect("inq-1", b)
	hub.Connect("inq-2", other)

	ev := Event{InquiryID: "inq-1", MessageID: "m1", Content: "hello", SentAt: time.Now()}
	hub.Broadcast(ev)

	for name, c := range map[string]*fakeConn{"a": a, "b": b} {
		got := c.received()
		if len(got) != 1 || got[0].MessageID != "m1" {
			t.Errorf("conn %s received %v, want one event m1", name, got)
		}
	}
	if len(other.received()) != 0 {
		t.Errorf("conn on another inquiry received the event")
	}
}

func TestBroadcastDropsFailingChannel(t *testing.T) {
	hub := NewHub()
	hub.logf = func(string, ...any) {}

	broken := &fakeConn{writeErr: errors.New("gone")}
	healthy := &fakeConn{}
	hub.Connect("inq-1", broken)
	hub.Connect("inq-1", healthy)

	hub.Broadcast(Event{InquiryID: "inq-1", MessageID: "m1"})

	if !broken.closed {
		t.Errorf("expected failing channel to be closed")
	}
	if got := hub.ConnectionCount("inq-1"); got != 1 {
		t.Errorf("connection count = %d, want 1", got)
	}
	if len(healthy.received()) != 1 {
		t.Errorf("healthy channel should still receive the event")
	}

	// A second broadcast must not reach the dropped channel.
	hub.Broadcast(Event{InquiryID: "inq-1", MessageID: "m2"})
	if len(healthy.received()) != 2 {
		t.Errorf("healthy channel missed the second event")
	}
}

func TestDisconnectRemovesEmptyEntries(t *testing.T) {
	hub := NewHub()
	c := &fakeConn{}

	hub.Connect("inq-1", c)
	hub.Disconnect("inq-1", c)

	if got := hub.ConnectionCount("inq-1"); got != 0 {
		t.Errorf("connection count = %d, want 0", got)
	}

	// Broadcasting into an empty registry is a no-op.
	hub.Broadcast(Event{InquiryID: "inq-1", MessageID: "m1"})
	if len(c.received()) != 0 {
		t.Errorf("disconnected channel received an event")
	}
}

func TestHubConcurrentAccess(t *testing.T) {
	hub := NewHub()
	hub.logf = func(string, ...any) {}

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c := &fakeConn{}
			hub.Connect("inq-1", c)
			hub.Broadcast(Event{InquiryID: "inq-1"})
			hub.Disconnect("inq-1", c)
		}()
	}
	wg.Wait()

	if got := hub.ConnectionCount("inq-1"); got != 0 {
		t.Errorf("connection count = %d, want 0 after all disconnects", got)
	}
}
