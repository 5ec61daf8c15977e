// pattern: Imperative Shell

package web

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"skillview/internal/catalog"
	"skillview/internal/logging"
	"skillview/internal/present"
	"skillview/internal/usage"
)

// Catalog produces a fresh snapshot of the skill tree on every call.
// *catalog.Scanner satisfies it.
type Catalog interface {
	Scan() []catalog.Entry
}

// UsageStore records how often entries are opened. *usage.Store satisfies it.
type UsageStore interface {
	Increment(id string) (usage.Record, error)
	All() (usage.Stats, error)
}

// Server is the web server that serves the catalog API.
type Server struct {
	httpServer *http.Server
	catalog    Catalog
	usage      UsageStore
	overrides  present.Overrides
	notifyTUI  func(any)
	logger     *logging.ScopedLogger
	addr       string
	listener   net.Listener
	events     *eventBroker
	feed       *snapshotHub
}

// Config holds web server configuration.
type Config struct {
	Bind string
	Port int
}

// Deps are the collaborators the handlers call into.
// NotifyTUI is optional; it receives events.* messages after mutations so
// the TUI can stay in sync via p.Send().
type Deps struct {
	Catalog   Catalog
	Usage     UsageStore
	Overrides present.Overrides
	NotifyTUI func(any)
}

// New creates a web server.
// logProvider must implement logging.LoggerProvider (both *logging.Manager and
// *logging.TestLogManager satisfy this interface).
func New(cfg Config, deps Deps, logProvider logging.LoggerProvider) *Server {
	logger := logProvider.For("web")
	addr := fmt.Sprintf("%s:%d", cfg.Bind, cfg.Port)

	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 10 * time.Second,
		},
		catalog:   deps.Catalog,
		usage:     deps.Usage,
		overrides: deps.Overrides,
		notifyTUI: deps.NotifyTUI,
		logger:    logger,
		addr:      addr,
		events:    newEventBroker(),
		feed:      newSnapshotHub(),
	}

	mux.HandleFunc("GET /api/health", s.handleHealth)
	mux.HandleFunc("GET /api/events", s.handleEvents)
	mux.HandleFunc("GET /api/ws", s.handleFeed)
	mux.HandleFunc("GET /api/skills", s.handleListSkills)
	mux.HandleFunc("POST /api/skills/refresh", s.handleRefreshSkills)
	mux.HandleFunc("GET /api/skills/{id}", s.handleGetSkill)
	mux.HandleFunc("POST /api/skills/{id}/use", s.handleUseSkill)
	mux.HandleFunc("GET /api/usage", s.handleListUsage)

	return s
}

// Listen binds the server to its configured address and returns the listener.
// Call Serve() after Listen() to start accepting connections.
// This two-step approach allows callers to obtain the actual bound address
// (useful for ephemeral port 0 in tests) before the server blocks on Serve().
func (s *Server) Listen() (net.Listener, error) {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return nil, fmt.Errorf("web server listen: %w", err)
	}
	s.listener = ln
	return ln, nil
}

// Serve accepts connections on the listener. Blocks until the server stops.
// Must call Listen() first.
func (s *Server) Serve(ln net.Listener) error {
	s.logger.Info("web server started", "addr", ln.Addr().String())
	return s.httpServer.Serve(ln)
}

// Start is a convenience that calls Listen() then Serve(). Blocks until the server stops.
func (s *Server) Start() error {
	ln, err := s.Listen()
	if err != nil {
		return err
	}
	return s.Serve(ln)
}

// Addr returns the address the server is listening on.
// Only valid after Listen() or Start() has been called.
func (s *Server) Addr() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.addr
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("web server shutting down")
	s.feed.Close()
	return s.httpServer.Shutdown(ctx)
}

// Publish pushes a snapshot produced outside the API (for example a TUI
// refresh) to SSE and websocket subscribers.
func (s *Server) Publish(entries []catalog.Entry) {
	s.feed.Broadcast(entries)
	s.events.Notify(changeCatalog)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

func (s *Server) notify(msg any) {
	if s.notifyTUI != nil {
		s.notifyTUI(msg)
	}
}
