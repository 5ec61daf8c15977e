// pattern: Imperative Shell

package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"skillview/internal/catalog"
	"skillview/internal/events"
	"skillview/internal/present"
)

// ErrNotFound is returned by lookups for IDs absent from the current scan.
var ErrNotFound = errors.New("skill not found")

// RefreshResponse is returned by POST /api/skills/refresh.
type RefreshResponse struct {
	Count   int             `json:"count"`
	Entries []catalog.Entry `json:"entries"`
}

// UseResponse is returned by POST /api/skills/{id}/use.
type UseResponse struct {
	ID       string `json:"id"`
	Count    int    `json:"count"`
	LastUsed string `json:"last_used"`
}

// writeJSON writes v as JSON with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// presenterFor returns a presenter for the ?lang= query value. ok is false
// when no language was requested.
func (s *Server) presenterFor(r *http.Request) (p *present.Presenter, ok bool, err error) {
	raw := r.URL.Query().Get("lang")
	if raw == "" {
		return nil, false, nil
	}
	lang, err := present.ParseLanguage(raw)
	if err != nil {
		return nil, false, err
	}
	return present.New(lang, s.overrides), true, nil
}

func (s *Server) lookup(id string) (catalog.Entry, error) {
	entry, ok := catalog.Find(s.catalog.Scan(), id)
	if !ok {
		return catalog.Entry{}, ErrNotFound
	}
	return entry, nil
}

// handleListSkills handles GET /api/skills, the initial-load entry point.
func (s *Server) handleListSkills(w http.ResponseWriter, r *http.Request) {
	p, localized, err := s.presenterFor(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	entries := s.catalog.Scan()
	if !localized {
		writeJSON(w, http.StatusOK, entries)
		return
	}
	out := make([]present.Localized, 0, len(entries))
	for _, e := range entries {
		out = append(out, p.Localize(e))
	}
	writeJSON(w, http.StatusOK, out)
}

// handleRefreshSkills handles POST /api/skills/refresh. It performs the same
// full scan as the initial load and pushes the result to subscribers.
func (s *Server) handleRefreshSkills(w http.ResponseWriter, r *http.Request) {
	entries := s.catalog.Scan()

	s.logger.Info("catalog refreshed", "count", catalog.Count(entries))
	s.Publish(entries)
	s.notify(events.CatalogRefreshedMsg{Entries: entries})

	writeJSON(w, http.StatusOK, RefreshResponse{Count: len(entries), Entries: entries})
}

// handleGetSkill handles GET /api/skills/{id}.
func (s *Server) handleGetSkill(w http.ResponseWriter, r *http.Request) {
	p, localized, err := s.presenterFor(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	entry, err := s.lookup(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	if localized {
		writeJSON(w, http.StatusOK, p.Localize(entry))
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

// handleUseSkill handles POST /api/skills/{id}/use.
func (s *Server) handleUseSkill(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, err := s.lookup(id); err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	if s.usage == nil {
		writeError(w, http.StatusServiceUnavailable, "usage tracking unavailable")
		return
	}

	rec, err := s.usage.Increment(id)
	if err != nil {
		s.logger.Error("failed to record usage", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to record usage")
		return
	}

	s.events.Notify(changeUsage)
	s.notify(events.UsageChangedMsg{ID: id, Count: rec.Count})

	writeJSON(w, http.StatusOK, UseResponse{
		ID:       id,
		Count:    rec.Count,
		LastUsed: rec.LastUsed.UTC().Format(time.RFC3339),
	})
}

// handleListUsage handles GET /api/usage.
func (s *Server) handleListUsage(w http.ResponseWriter, r *http.Request) {
	if s.usage == nil {
		writeJSON(w, http.StatusOK, map[string]any{})
		return
	}
	stats, err := s.usage.All()
	if err != nil {
		s.logger.Error("failed to read usage", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to read usage")
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
