package watcher

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func TestDebouncerMergesBurst(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	input := make(chan ChangeEvent)
	d := NewDebouncer(input, 50*time.Millisecond, time.Second)
	d.Start(ctx)

	input <- ChangeEvent{Type: ChangeTypeContributor, Paths: []string{"/p/b.json"}}
	input <- ChangeEvent{Type: ChangeTypeContributor, Paths: []string{"/p/a.json", "/p/b.json"}, Removed: []string{"/p/a.json"}}
	input <- ChangeEvent{Type: ChangeTypeDataset, Paths: []string{"/p/data.json"}}

	var got []ChangeEvent
	for len(got) < 2 {
		select {
		case ev := <-d.Output():
			got = append(got, ev)
		case <-time.After(2 * time.Second):
			t.Fatalf("Timeout, received %d events", len(got))
		}
	}

	if got[0].Type != ChangeTypeDataset || !reflect.DeepEqual(got[0].Paths, []string{"/p/data.json"}) {
		t.Errorf("First event = %+v", got[0])
	}
	if got[1].Type != ChangeTypeContributor {
		t.Fatalf("Second event type = %v", got[1].Type)
	}
	if !reflect.DeepEqual(got[1].Paths, []string{"/p/a.json", "/p/b.json"}) {
		t.Errorf("Paths = %v", got[1].Paths)
	}
	if !reflect.DeepEqual(got[1].Removed, []string{"/p/a.json"}) {
		t.Errorf("Removed = %v", got[1].Removed)
	}
}

func TestDebouncerMaxWait(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	input := make(chan ChangeEvent)
	d := NewDebouncer(input, 200*time.Millisecond, 300*time.Millisecond)
	d.Start(ctx)

	// Keep the input busy so the quiet period never elapses
	stop := make(chan struct{})
	go func() {
		tick := time.NewTicker(50 * time.Millisecond)
		defer tick.Stop()
		for {
			select {
			case <-stop:
				return
			case <-tick.C:
				select {
				case input <- ChangeEvent{Type: ChangeTypeDataset, Paths: []string{"/p/data.json"}}:
				case <-stop:
					return
				}
			}
		}
	}()
	defer close(stop)

	select {
	case ev := <-d.Output():
		if ev.Type != ChangeTypeDataset {
			t.Errorf("Unexpected event %+v", ev)
		}
	case <-time.After(time.Second):
		t.Fatal("maxWait did not force a flush")
	}
}

func TestDebouncerFlushesOnInputClose(t *testing.T) {
	input := make(chan ChangeEvent, 1)
	d := NewDebouncer(input, time.Hour, time.Hour)
	d.Start(context.Background())

	input <- ChangeEvent{Type: ChangeTypeDataset, Paths: []string{"/p/x.js"}}
	close(input)

	ev, ok := <-d.Output()
	if !ok || len(ev.Paths) != 1 {
		t.Fatalf("Expected flushed event, got %+v ok=%v", ev, ok)
	}
	if _, ok := <-d.Output(); ok {
		t.Error("Output should close after input closes")
	}
}

func TestAnalyzeChanges(t *testing.T) {
	tests := []struct {
		name   string
		event  ChangeEvent
		reload bool
		reason string
	}{
		{"empty", ChangeEvent{}, false, "no changes"},
		{"dataset modified", ChangeEvent{Type: ChangeTypeDataset, Paths: []string{"/d/data.json"}}, true, "dataset file modified"},
		{"dataset replaced", ChangeEvent{Type: ChangeTypeDataset, Paths: []string{"/d/data.json"}, Removed: []string{"/d/data.json"}}, true, "dataset file replaced"},
		{"contributors changed", ChangeEvent{Type: ChangeTypeContributor, Paths: []string{"/d/a.json", "/d/b.json"}}, true, "contributor files changed: a.json, b.json"},
		{"contributor removed", ChangeEvent{Type: ChangeTypeContributor, Paths: []string{"/d/a.json"}, Removed: []string{"/d/a.json"}}, true, "contributor files removed: a.json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := AnalyzeChanges(tt.event)
			if a.NeedReload != tt.reload || a.Reason != tt.reason {
				t.Errorf("AnalyzeChanges = %+v, want reload=%v reason=%q", a, tt.reload, tt.reason)
			}
		})
	}
}

func TestFileWatcherDirectory(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	fw, err := NewFileWatcher(dir)
	if err != nil {
		t.Fatalf("NewFileWatcher: %v", err)
	}
	if err := fw.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}

	// Irrelevant files are ignored
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "ada.json"), []byte(`{}`), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case ev := <-fw.Events():
		if ev.Type != ChangeTypeContributor {
			t.Errorf("Type = %v, want contributor", ev.Type)
		}
		for _, p := range ev.Paths {
			if filepath.Base(p) != "ada.json" {
				t.Errorf("Unexpected path %s", p)
			}
		}
	case <-time.After(3 * time.Second):
		t.Fatal("Timeout waiting for change event")
	}

	cancel()
	for range fw.Events() {
	}
}

func TestFileWatcherSingleFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.json")
	if err := os.WriteFile(path, []byte(`[]`), 0o644); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	fw, err := NewFileWatcher(path)
	if err != nil {
		t.Fatalf("NewFileWatcher: %v", err)
	}
	if err := fw.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}

	if err := os.WriteFile(filepath.Join(dir, "other.json"), []byte(`[]`), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(`[{"name":"A","nodes":[],"connections":[]}]`), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case ev := <-fw.Events():
		if ev.Type != ChangeTypeDataset || len(ev.Paths) != 1 || filepath.Base(ev.Paths[0]) != "data.json" {
			t.Errorf("Unexpected event %+v", ev)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("Timeout waiting for change event")
	}
}

func TestNewFileWatcherMissingPath(t *testing.T) {
	if _, err := NewFileWatcher(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Error("Expected error for missing path")
	}
}

func TestDebouncerStopsWhenOutputNotRead(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	input := make(chan ChangeEvent, 20)
	d := NewDebouncer(input, 5*time.Millisecond, time.Second)
	d.Start(ctx)

	// More separate flushes than the output buffer holds, none read
	for i := 0; i < 15; i++ {
		input <- ChangeEvent{Type: ChangeTypeDataset, Paths: []string{"/p/data.json"}}
		time.Sleep(20 * time.Millisecond)
	}
	cancel()

	timeout := time.After(2 * time.Second)
	for {
		select {
		case _, ok := <-d.Output():
			if !ok {
				return
			}
		case <-timeout:
			t.Fatal("Output not closed after cancel while blocked on a full buffer")
		}
	}
}
