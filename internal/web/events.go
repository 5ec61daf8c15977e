// pattern: Imperative Shell

package web

import (
	"fmt"
	"net/http"
	"sync"
)

// change names what moved; it is sent as the data of an SSE "refresh" event.
type change string

const (
	changeCatalog change = "catalog"
	changeUsage   change = "usage"
)

// subscriberBuffer bounds how many changes a slow SSE client may lag behind.
const subscriberBuffer = 16

// eventBroker fans out change signals to SSE subscribers.
type eventBroker struct {
	mu          sync.Mutex
	subscribers map[chan change]struct{}
}

func newEventBroker() *eventBroker {
	return &eventBroker{
		subscribers: make(map[chan change]struct{}),
	}
}

// Subscribe returns a buffered channel that receives each Notify call.
// The caller must call Unsubscribe when done.
func (b *eventBroker) Subscribe() chan change {
	ch := make(chan change, subscriberBuffer)
	b.mu.Lock()
	b.subscribers[ch] = struct{}{}
	b.mu.Unlock()
	return ch
}

// Unsubscribe removes a subscriber channel.
func (b *eventBroker) Unsubscribe(ch chan change) {
	b.mu.Lock()
	delete(b.subscribers, ch)
	b.mu.Unlock()
}

// Notify sends c to all subscribers without blocking. A subscriber whose
// buffer is full misses c; it still has pending changes that make it re-fetch.
func (b *eventBroker) Notify(c change) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for ch := range b.subscribers {
		select {
		case ch <- c:
		default:
		}
	}
}

// handleEvents is the SSE endpoint. It sends a "connected" event on open,
// then a "refresh" event for every catalog refresh or usage change.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := s.events.Subscribe()
	defer s.events.Unsubscribe(ch)

	fmt.Fprintf(w, "event: connected\ndata: ok\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case c := <-ch:
			fmt.Fprintf(w, "event: refresh\ndata: %s\n\n", c)
			flusher.Flush()
		}
	}
}
