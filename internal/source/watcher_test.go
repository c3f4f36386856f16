package source

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/javiermolinar/almanac/internal/event"
)

func TestWatcher_ReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "events.json")
	if err := os.WriteFile(path, []byte(`{"events":[]}`), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	loaded := make(chan []event.Event, 4)
	w, err := NewWatcher(path, WatchOptions{
		Loader:   Loader{Location: time.UTC},
		Debounce: 10 * time.Millisecond,
		OnLoad:   func(events []event.Event) { loaded <- events },
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	// Unrelated files in the same directory are ignored.
	if err := os.WriteFile(filepath.Join(dir, "other.json"), []byte("{}"), 0o644); err != nil {
		t.Fatalf("writing other file: %v", err)
	}

	data := `{"events":[{"id":"a","title":"A","start":"2024-06-03T10:00","end":"2024-06-03T11:00"}]}`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("rewriting fixture: %v", err)
	}

	select {
	case events := <-loaded:
		if len(events) != 1 || events[0].ID != "a" {
			t.Errorf("got %+v, want event a", events)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for reload")
	}

	cancel()
	select {
	case err := <-done:
		if err != context.Canceled {
			t.Errorf("got %v, want context.Canceled", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestNewWatcher_MissingDirectory(t *testing.T) {
	if _, err := NewWatcher(filepath.Join(t.TempDir(), "nope", "events.json"), WatchOptions{}); err == nil {
		t.Error("expected an error for a missing directory")
	}
}
