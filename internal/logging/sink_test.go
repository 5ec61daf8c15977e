// pattern: Imperative Shell

package logging

import (
	"encoding/json"
	"testing"
	"time"
)

func encode(t *testing.T, v map[string]any) []byte {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatal(err)
	}
	return append(data, '\n')
}

func TestChannelSink_Write(t *testing.T) {
	sink := NewChannelSink(10)
	defer func() { _ = sink.Close() }()

	data := encode(t, map[string]any{
		"level":  "warn",
		"ts":     float64(1700000000.5),
		"logger": "catalog",
		"msg":    "failed to read skill directory",
		"path":   "/skills/broken",
		"caller": "scanner.go:1",
	})

	n, err := sink.Write(data)
	if err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if n != len(data) {
		t.Errorf("Write() = %d, want %d", n, len(data))
	}

	got := <-sink.Entries()
	if got.Level != "WARN" || got.Scope != "catalog" || got.Message != "failed to read skill directory" {
		t.Errorf("entry = %+v", got)
	}
	if got.Fields["path"] != "/skills/broken" {
		t.Errorf("path field = %v", got.Fields["path"])
	}
	if _, ok := got.Fields["caller"]; ok {
		t.Error("caller should not be surfaced as a field")
	}
	if got.Timestamp.Unix() != 1700000000 {
		t.Errorf("Timestamp = %v", got.Timestamp)
	}
}

func TestChannelSink_DropsOldestWhenFull(t *testing.T) {
	sink := NewChannelSink(2)
	defer func() { _ = sink.Close() }()

	for _, msg := range []string{"one", "two", "three"} {
		if _, err := sink.Write(encode(t, map[string]any{"msg": msg})); err != nil {
			t.Fatalf("Write(%s) error = %v", msg, err)
		}
	}

	first := <-sink.Entries()
	second := <-sink.Entries()
	if first.Message != "two" || second.Message != "three" {
		t.Errorf("got %q, %q; want two, three", first.Message, second.Message)
	}
}

func TestChannelSink_IgnoresGarbage(t *testing.T) {
	sink := NewChannelSink(1)
	defer func() { _ = sink.Close() }()

	n, err := sink.Write([]byte("not json"))
	if err != nil || n != len("not json") {
		t.Errorf("Write() = %d, %v", n, err)
	}
	select {
	case e := <-sink.Entries():
		t.Errorf("unexpected entry %+v", e)
	case <-time.After(10 * time.Millisecond):
	}
}

func TestChannelSink_Close(t *testing.T) {
	sink := NewChannelSink(1)
	_ = sink.Close()
	_ = sink.Close()

	if _, err := sink.Write(encode(t, map[string]any{"msg": "late"})); err == nil {
		t.Error("Write() after Close() should fail")
	}
	if _, ok := <-sink.Entries(); ok {
		t.Error("channel should be closed")
	}
}
