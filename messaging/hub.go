package messaging

import (
	"log"
	"sync"
)

// Conn is one live client channel. *websocket.Conn satisfies it.
type Conn interface {
	WriteJSON(v any) error
	Close() error
}

// NewSyncConn wraps a channel with its own write mutex. The hub serializes
// its broadcasts under the registry mutex, but a handler that also writes to
// the same connection directly (e.g. to report a bad frame) races against
// those broadcasts; websocket connections support at most one concurrent
// writer. Register the wrapper with the hub and route every write through it.
func NewSyncConn(c Conn) Conn {
	return &syncConn{inner: c}
}

type syncConn struct {
	mu    sync.Mutex
	inner Conn
}

func (s *syncConn) WriteJSON(v any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inner.WriteJSON(v)
}

func (s *syncConn) Close() error {
	return s.inner.Close()
}

// Hub is the process-wide registry of live channels per inquiry. All registry
// access happens under the mutex; delivery is best-effort with no
// acknowledgement, retry, replay or ordering guarantee beyond the order
// Broadcast is invoked.
type Hub struct {
	mu    sync.Mutex
	conns map[string][]Conn
	logf  func(format string, args ...any)
}

// NewHub creates an empty registry.
func NewHub() *Hub {
	return &Hub{
		conns: make(map[string][]Conn),
		logf:  log.Printf,
	}
}

// Connect registers a live channel for an inquiry.
func (h *Hub) Connect(inquiryID string, c Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.conns[inquiryID] = append(h.conns[inquiryID], c)
}

// Disconnect removes a channel, dropping the inquiry's entry when the last
// channel leaves.
func (h *Hub) Disconnect(inquiryID string, c Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(inquiryID, c)
}

// Broadcast delivers the event to every channel registered for its inquiry.
// A failed send is logged and the channel dropped; delivery to the remaining
// channels continues.
func (h *Hub) Broadcast(ev Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, c := range append([]Conn(nil), h.conns[ev.InquiryID]...) {
		if err := c.WriteJSON(ev); err != nil {
			h.logf("messaging: broadcast to inquiry %s: %v", ev.InquiryID, err)
			h.removeLocked(ev.InquiryID, c)
			_ = c.Close()
		}
	}
}

// ConnectionCount reports how many channels are registered for an inquiry.
func (h *Hub) ConnectionCount(inquiryID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.conns[inquiryID])
}

func (h *Hub) removeLocked(inquiryID string, c Conn) {
	channels := h.conns[inquiryID]
	for i, existing := range channels {
		if existing == c {
			h.conns[inquiryID] = append(channels[:i], channels[i+1:]...)
			break
		}
	}
	if len(h.conns[inquiryID]) == 0 {
		delete(h.conns, inquiryID)
	}
}
