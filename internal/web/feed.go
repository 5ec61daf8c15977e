// pattern: Imperative Shell

package web

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"

	"skillview/internal/catalog"
)

const (
	feedBuffer       = 8
	feedWriteTimeout = 5 * time.Second
)

// Snapshot is the websocket message carrying a complete catalog.
type Snapshot struct {
	Type    string          `json:"type"` // always "snapshot"
	Count   int             `json:"count"`
	Entries []catalog.Entry `json:"entries"`
}

func encodeSnapshot(entries []catalog.Entry) ([]byte, error) {
	return json.Marshal(Snapshot{Type: "snapshot", Count: len(entries), Entries: entries})
}

// snapshotHub fans encoded snapshots out to websocket clients in the order
// they were broadcast. A client that falls feedBuffer snapshots behind loses
// the oldest pending one; the newest always arrives.
type snapshotHub struct {
	mu      sync.Mutex
	clients map[chan []byte]struct{}
	closed  bool
}

func newSnapshotHub() *snapshotHub {
	return &snapshotHub{clients: make(map[chan []byte]struct{})}
}

// Subscribe registers a client. The returned channel is closed by Close.
func (h *snapshotHub) Subscribe() chan []byte {
	ch := make(chan []byte, feedBuffer)
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		close(ch)
		return ch
	}
	h.clients[ch] = struct{}{}
	return ch
}

func (h *snapshotHub) Unsubscribe(ch chan []byte) {
	h.mu.Lock()
	delete(h.clients, ch)
	h.mu.Unlock()
}

// Broadcast encodes entries once and queues them for every client.
func (h *snapshotHub) Broadcast(entries []catalog.Entry) {
	payload, err := encodeSnapshot(entries)
	if err != nil {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.clients {
		select {
		case ch <- payload:
			continue
		default:
		}
		// Full: drop the oldest pending snapshot to make room.
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- payload:
		default:
		}
	}
}

// Close disconnects every client and rejects new ones.
func (h *snapshotHub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for ch := range h.clients {
		close(ch)
		delete(h.clients, ch)
	}
}

// Clients returns the number of connected clients.
func (h *snapshotHub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// handleFeed upgrades to a websocket and streams catalog snapshots: one on
// connect, then one after every refresh.
func (s *Server) handleFeed(w http.ResponseWriter, r *http.Request) {
	// Restrict to localhost origins to prevent cross-origin WebSocket attacks.
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"127.0.0.1:*", "localhost:*"},
	})
	if err != nil {
		s.logger.Error("websocket accept failed", "error", err)
		return
	}
	defer func() { _ = conn.CloseNow() }()
	conn.SetReadLimit(4096)

	ch := s.feed.Subscribe()
	defer s.feed.Unsubscribe(ch)

	// The request context is unusable after the upgrade; CloseRead gives a
	// context that ends when the client goes away.
	ctx := conn.CloseRead(context.Background())

	initial, err := encodeSnapshot(s.catalog.Scan())
	if err != nil {
		s.logger.Error("failed to encode snapshot", "error", err)
		_ = conn.Close(websocket.StatusInternalError, "encode failed")
		return
	}
	if err := writeFrame(ctx, conn, initial); err != nil {
		return
	}
	s.logger.Debug("feed client connected", "clients", s.feed.Clients())

	for {
		select {
		case <-ctx.Done():
			s.logger.Debug("feed client disconnected")
			return
		case payload, ok := <-ch:
			if !ok {
				_ = conn.Close(websocket.StatusGoingAway, "server shutting down")
				return
			}
			if err := writeFrame(ctx, conn, payload); err != nil {
				s.logger.Debug("feed write failed", "error", err)
				return
			}
		}
	}
}

func writeFrame(ctx context.Context, conn *websocket.Conn, payload []byte) error {
	ctx, cancel := context.WithTimeout(ctx, feedWriteTimeout)
	defer cancel()
	return conn.Write(ctx, websocket.MessageText, payload)
}
