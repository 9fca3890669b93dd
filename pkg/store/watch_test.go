package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"tableflip.dev/gracelog/pkg/entry"
)

type testConfig struct {
	path string
}

func (t testConfig) BasePath() string             { return t.path }
func (t testConfig) LogLevel() string             { return DefaultLogLevel }
func (t testConfig) AssistModel() string          { return DefaultAssistModel }
func (t testConfig) AssistAPIKey() string         { return "" }
func (t testConfig) AssistTimeout() time.Duration { return DefaultAssistTimeout }

func TestPersistenceWatchEmitsRecordChanges(t *testing.T) {
	base := t.TempDir()
	p, err := Load(testConfig{path: base}, nil)
	if err != nil {
		t.Fatalf("load persistence: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := p.Watch(ctx)
	if err != nil {
		t.Fatalf("watch: %v", err)
	}

	// Allow watcher goroutine to subscribe to the directory before storing.
	time.Sleep(50 * time.Millisecond)

	if err := p.SaveLastReference(entry.Reference{Book: "John", Chapter: 3}); err != nil {
		t.Fatalf("save last reference: %v", err)
	}

	deadline := time.After(2 * time.Second)
	for {
		select {
		case evt := <-ch:
			if evt.Kind == "" {
				return
			}
			if evt.Kind != KindLastReference {
				t.Fatalf("expected record %q, got %q", KindLastReference, evt.Kind)
			}
			return
		case <-deadline:
			t.Fatal("timed out waiting for record change event")
		}
	}
}

func TestWatchClosesOnCancel(t *testing.T) {
	p, err := Load(testConfig{path: t.TempDir()}, nil)
	if err != nil {
		t.Fatalf("load persistence: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	ch, err := p.Watch(ctx)
	if err != nil {
		t.Fatalf("watch: %v", err)
	}
	cancel()

	deadline := time.After(2 * time.Second)
	for {
		select {
		case _, ok := <-ch:
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("watch channel not closed after cancel")
		}
	}
}

func TestKindForPath(t *testing.T) {
	base := "/tmp/journal"
	tests := map[string]struct {
		path  string
		kind  Kind
		known bool
	}{
		"entries":   {path: "/tmp/journal/entries", kind: KindEntries, known: true},
		"draft":     {path: "/tmp/journal/draft", kind: KindDraft, known: true},
		"temp file": {path: "/tmp/journal/.tmp/draft123", known: false},
		"unknown":   {path: "/tmp/journal/notes", known: false},
		"base":      {path: "/tmp/journal", known: false},
		"outside":   {path: "/tmp/other/draft", known: false},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			kind, known := kindForPath(base, tc.path)
			if known != tc.known || kind != tc.kind {
				t.Fatalf("kindForPath(%q) = %q, %v; want %q, %v", tc.path, kind, known, tc.kind, tc.known)
			}
		})
	}
}

func TestEventThrottleCoalesces(t *testing.T) {
	th := newEventThrottle(20 * time.Millisecond)
	defer th.Stop()

	got := make(chan Event, 8)
	send := func(ev Event) { got <- ev }
	th.Enqueue(Event{Kind: KindDraft}, send)
	th.Enqueue(Event{Kind: KindDraft}, send)
	th.Enqueue(Event{Kind: KindDraft}, send)

	select {
	case ev := <-got:
		if ev.Kind != KindDraft {
			t.Fatalf("expected draft event, got %q", ev.Kind)
		}
	case <-time.After(time.Second):
		t.Fatal("throttle never flushed")
	}
	select {
	case ev := <-got:
		t.Fatalf("unexpected second event %+v", ev)
	case <-time.After(60 * time.Millisecond):
	}
}

type failingCloser struct{}

func (failingCloser) Close() error { return errors.New("already closed") }

func TestWatcherCloseFailureIsLogged(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	p, err := Load(testConfig{path: t.TempDir()}, zap.New(core))
	if err != nil {
		t.Fatalf("load persistence: %v", err)
	}
	b, ok := p.(*persistence).b.(*diskBackend)
	if !ok {
		t.Fatalf("unexpected backend %T", p.(*persistence).b)
	}

	b.closeWatcher(failingCloser{})

	entries := logs.FilterMessage("watcher close failed").All()
	if len(entries) != 1 {
		t.Fatalf("expected one close warning, got %d", logs.Len())
	}
	if entries[0].LoggerName != "store" {
		t.Fatalf("expected store logger, got %q", entries[0].LoggerName)
	}
}
