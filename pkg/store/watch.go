package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Event is emitted by Persistence.Watch when a stored record changes. An
// empty Kind means the change could not be attributed and callers should
// reload everything.
type Event struct {
	Kind Kind
}

func (b *diskBackend) closeWatcher(w io.Closer) {
	if err := w.Close(); err != nil {
		b.log.Warn("watcher close failed", zap.String("path", b.basePath), zap.Error(err))
	}
}

// watch streams change events until ctx is cancelled. Callers should drain the
// returned channel to avoid blocking the watcher. The channel is closed once
// ctx is done or the watcher encounters an unrecoverable error.
func (b *diskBackend) watch(ctx context.Context) (<-chan Event, error) {
	if b.basePath == "" {
		return nil, errors.New("store: persistence base path unknown")
	}
	if err := os.MkdirAll(b.basePath, 0o755); err != nil {
		return nil, fmt.Errorf("store: ensure base path: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("store: create watcher: %w", err)
	}
	var closeOnce sync.Once
	closeWatcher := func() {
		closeOnce.Do(func() { b.closeWatcher(watcher) })
	}

	if err := watcher.Add(b.basePath); err != nil {
		closeWatcher()
		return nil, fmt.Errorf("store: watch %s: %w", b.basePath, err)
	}

	events := make(chan Event, 64)

	go func() {
		defer close(events)
		defer closeWatcher()

		send := func(ev Event) {
			select {
			case events <- ev:
			default:
				// Drop events if the consumer is not ready; the next
				// refresh reads every record anyway.
			}
		}

		throttle := newEventThrottle(100 * time.Millisecond)
		defer throttle.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-watcher.Errors:
				if !ok {
					return
				}
				// Unclassified trouble: ask for a full reload.
				throttle.Enqueue(Event{}, send)
			case evt, ok := <-watcher.Events:
				if !ok {
					return
				}
				if evt.Op == fsnotify.Chmod {
					continue
				}
				kind, known := kindForPath(b.basePath, evt.Name)
				if !known {
					continue
				}
				throttle.Enqueue(Event{Kind: kind}, send)
			}
		}
	}()

	return events, nil
}

// kindForPath maps a file directly under base to its record kind.
func kindForPath(base, path string) (Kind, bool) {
	rel, err := filepath.Rel(base, path)
	if err != nil || rel == "." || filepath.Dir(rel) != "." {
		return "", false
	}
	for _, k := range Kinds() {
		if string(k) == rel {
			return k, true
		}
	}
	return "", false
}

// eventThrottle coalesces rapid change notifications so a watcher redraws once
// per burst of filesystem activity instead of on every single write.
type eventThrottle struct {
	mu      sync.Mutex
	timer   *time.Timer
	pending map[Kind]struct{}
	delay   time.Duration
}

func newEventThrottle(delay time.Duration) *eventThrottle {
	return &eventThrottle{
		delay:   delay,
		pending: make(map[Kind]struct{}),
	}
}

func (t *eventThrottle) Enqueue(ev Event, send func(Event)) {
	t.mu.Lock()
	t.pending[ev.Kind] = struct{}{}
	if t.timer == nil {
		t.timer = time.AfterFunc(t.delay, func() {
			t.flush(send)
		})
	}
	t.mu.Unlock()
}

func (t *eventThrottle) flush(send func(Event)) {
	t.mu.Lock()
	pending := t.pending
	t.pending = make(map[Kind]struct{})
	t.timer = nil
	t.mu.Unlock()

	if _, all := pending[""]; all {
		send(Event{})
		return
	}
	for kind := range pending {
		send(Event{Kind: kind})
	}
}

func (t *eventThrottle) Stop() {
	t.mu.Lock()
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	t.mu.Unlock()
}
