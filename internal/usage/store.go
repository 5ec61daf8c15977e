// pattern: Imperative Shell

// Package usage persists per-skill usage counters keyed by catalog entry ID.
// Counters live outside the catalog: a rescan never touches them, and an ID
// that reappears after being removed picks its old counter back up.
package usage

import (
	"cmp"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/gofrs/flock"

	"skillview/internal/logging"
)

// FileName is the usage file name inside the data directory.
const FileName = "usage.json"

// Record is the usage of one entry.
type Record struct {
	Count    int       `json:"count"`
	LastUsed time.Time `json:"last_used"`
}

// Stats maps entry IDs to their usage.
type Stats map[string]Record

// Ranked is one row of Stats ordered for display.
type Ranked struct {
	ID string
	Record
}

// Rank orders stats by count descending, then by most recent use, then by ID.
func (s Stats) Rank() []Ranked {
	rows := make([]Ranked, 0, len(s))
	for id, rec := range s {
		rows = append(rows, Ranked{ID: id, Record: rec})
	}
	slices.SortFunc(rows, func(a, b Ranked) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		if c := b.LastUsed.Compare(a.LastUsed); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return rows
}

// Store reads and writes the usage file. Every operation goes back to disk
// under a file lock, so several processes can share one file.
type Store struct {
	path   string
	lock   *flock.Flock
	mu     sync.Mutex
	now    func() time.Time
	logger *logging.ScopedLogger
}

// Open returns a store backed by <dataDir>/usage.json, creating dataDir.
func Open(dataDir string, logger *logging.ScopedLogger) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	if logger == nil {
		logger = logging.NopLogger()
	}
	path := filepath.Join(dataDir, FileName)
	return &Store{
		path:   path,
		lock:   flock.New(path + ".lock"),
		now:    time.Now,
		logger: logger,
	}, nil
}

// Path returns the usage file path.
func (s *Store) Path() string {
	return s.path
}

// Increment records one use of id and returns the updated record.
func (s *Store) Increment(id string) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.lock.Lock(); err != nil {
		return Record{}, fmt.Errorf("lock usage file: %w", err)
	}
	defer func() { _ = s.lock.Unlock() }()

	stats := s.load()
	rec := stats[id]
	rec.Count++
	rec.LastUsed = s.now().UTC()
	stats[id] = rec

	if err := s.save(stats); err != nil {
		return Record{}, err
	}
	s.logger.Debug("usage recorded", "id", id, "count", rec.Count)
	return rec, nil
}

// Get returns the record for id. A never-used id returns the zero Record.
func (s *Store) Get(id string) (Record, error) {
	stats, err := s.All()
	if err != nil {
		return Record{}, err
	}
	return stats[id], nil
}

// All returns every record.
func (s *Store) All() (Stats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.lock.RLock(); err != nil {
		return nil, fmt.Errorf("lock usage file: %w", err)
	}
	defer func() { _ = s.lock.Unlock() }()

	return s.load(), nil
}

// load reads the file. A missing or corrupt file reads as empty stats.
func (s *Store) load() Stats {
	stats := Stats{}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.logger.Warn("failed to read usage file", "path", s.path, "error", err)
		}
		return stats
	}
	if err := json.Unmarshal(data, &stats); err != nil {
		s.logger.Warn("usage file is corrupt, starting over", "path", s.path, "error", err)
		return Stats{}
	}
	return stats
}

// save writes stats atomically via a temp file in the same directory.
func (s *Store) save(stats Stats) error {
	data, err := json.MarshalIndent(stats, "", "  ")
	if err != nil {
		return fmt.Errorf("encode usage: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), FileName+".*")
	if err != nil {
		return fmt.Errorf("write usage: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("write usage: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("write usage: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("write usage: %w", err)
	}
	return nil
}
