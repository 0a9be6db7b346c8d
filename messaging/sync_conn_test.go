package messaging

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// overlapConn counts writes that enter while another write is in flight.
type overlapConn struct {
	active   int32
	overlaps int32
	writes   int32
}

func (c *overlapConn) WriteJSON(v any) error {
	if atomic.AddInt32(&c.active, 1) > 1 {
		atomic.AddInt32(&c.overlaps, 1)
	}
	time.Sleep(50 * time.Microsecond)
	atomic.AddInt32(&c.active, -1)
	atomic.AddInt32(&c.writes, 1)
	return nil
}

func (c *overlapConn) Close() error { return nil }

func TestSyncConnSerializesHubAndDirectWrites(t *testing.T) {
	raw := &overlapConn{}
	ch := NewSyncConn(raw)

	hub := NewHub()
	hub.Connect("inq-1", ch)

	const workers = 8
	const rounds = 25

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < rounds; j++ {
				hub.Broadcast(Event{InquiryID: "inq-1", Content: "hello"})
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < rounds; j++ {
				_ = ch.WriteJSON(map[string]string{"error": "content is required"})
			}
		}()
	}
	wg.Wait()

	if got := atomic.LoadInt32(&raw.overlaps); got != 0 {
		t.Errorf("observed %d overlapping writes, want 0", got)
	}
	if got := atomic.LoadInt32(&raw.writes); got != workers*rounds*2 {
		t.Errorf("writes = %d, want %d", got, workers*rounds*2)
	}
}

func TestSyncConnClosesUnderlying(t *testing.T) {
	inner := &fakeConn{}
	ch := NewSyncConn(inner)

	if err := ch.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if !inner.closed {
		t.Errorf("underlying connection not closed")
	}
}
