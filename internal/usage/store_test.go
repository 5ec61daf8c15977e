package usage

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

func openTestStore(t *testing.T, dir string) *Store {
	t.Helper()
	s, err := Open(dir, nil)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	return s
}

func TestIncrement(t *testing.T) {
	s := openTestStore(t, t.TempDir())
	fixed := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
	s.now = func() time.Time { return fixed }

	rec, err := s.Increment("rag-qa")
	if err != nil {
		t.Fatalf("Increment() error = %v", err)
	}
	if rec.Count != 1 || !rec.LastUsed.Equal(fixed) {
		t.Errorf("first Increment = %+v", rec)
	}

	rec, _ = s.Increment("rag-qa")
	if rec.Count != 2 {
		t.Errorf("Count = %d, want 2", rec.Count)
	}
}

func TestGet_Unknown(t *testing.T) {
	s := openTestStore(t, t.TempDir())

	rec, err := s.Get("never-used")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if rec.Count != 0 || !rec.LastUsed.IsZero() {
		t.Errorf("Get() = %+v, want zero record", rec)
	}
}

func TestPersistsAcrossOpen(t *testing.T) {
	dir := t.TempDir()
	first := openTestStore(t, dir)
	for i := 0; i < 3; i++ {
		if _, err := first.Increment("copywriter"); err != nil {
			t.Fatal(err)
		}
	}

	second := openTestStore(t, dir)
	rec, err := second.Get("copywriter")
	if err != nil {
		t.Fatal(err)
	}
	if rec.Count != 3 {
		t.Errorf("Count = %d, want 3", rec.Count)
	}
}

func TestCorruptFileReadsAsEmpty(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, FileName), []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	s := openTestStore(t, dir)

	stats, err := s.All()
	if err != nil {
		t.Fatalf("All() error = %v", err)
	}
	if len(stats) != 0 {
		t.Errorf("expected empty stats, got %v", stats)
	}

	rec, err := s.Increment("x")
	if err != nil || rec.Count != 1 {
		t.Errorf("Increment after corrupt file = %+v, %v", rec, err)
	}
}

func TestConcurrentIncrements(t *testing.T) {
	dir := t.TempDir()
	a := openTestStore(t, dir)
	b := openTestStore(t, dir)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		s := a
		if i%2 == 1 {
			s = b
		}
		go func() {
			defer wg.Done()
			if _, err := s.Increment("shared"); err != nil {
				t.Errorf("Increment() error = %v", err)
			}
		}()
	}
	wg.Wait()

	rec, _ := a.Get("shared")
	if rec.Count != 20 {
		t.Errorf("Count = %d, want 20", rec.Count)
	}
}

func TestRank(t *testing.T) {
	early := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	late := early.Add(time.Hour)
	stats := Stats{
		"b": {Count: 2, LastUsed: early},
		"a": {Count: 2, LastUsed: early},
		"c": {Count: 2, LastUsed: late},
		"d": {Count: 5, LastUsed: early},
	}

	rows := stats.Rank()

	want := []string{"d", "c", "a", "b"}
	for i, id := range want {
		if rows[i].ID != id {
			t.Errorf("rows[%d] = %s, want %s", i, rows[i].ID, id)
		}
	}
}
