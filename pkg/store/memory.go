package store

import (
	"context"
	"fmt"
	"io/fs"
	"sync"

	"go.uber.org/zap"
)

// NewMemory returns a Persistence that never touches disk. It backs
// --ephemeral runs and tests.
func NewMemory(log *zap.Logger) Persistence {
	return newPersistence(newMemoryBackend(), log)
}

type memoryBackend struct {
	mu   sync.Mutex
	data map[string][]byte
	subs []chan Event

	// failWrites makes every write fail; used to exercise degraded mode.
	failWrites bool
}

func newMemoryBackend() *memoryBackend {
	return &memoryBackend{data: make(map[string][]byte)}
}

func (m *memoryBackend) read(key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	val, ok := m.data[key]
	if !ok {
		return nil, fmt.Errorf("memory: %s: %w", key, fs.ErrNotExist)
	}
	return append([]byte(nil), val...), nil
}

func (m *memoryBackend) write(key string, val []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWrites {
		return fmt.Errorf("memory: %s: %w", key, fs.ErrPermission)
	}
	m.data[key] = append([]byte(nil), val...)
	m.notify(Event{Kind: Kind(key)})
	return nil
}

func (m *memoryBackend) erase(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWrites {
		return fmt.Errorf("memory: %s: %w", key, fs.ErrPermission)
	}
	if _, ok := m.data[key]; !ok {
		return fmt.Errorf("memory: %s: %w", key, fs.ErrNotExist)
	}
	delete(m.data, key)
	m.notify(Event{Kind: Kind(key)})
	return nil
}

// notify drops events for subscribers that are not keeping up. Callers hold m.mu.
func (m *memoryBackend) notify(ev Event) {
	for _, ch := range m.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}

func (m *memoryBackend) watch(ctx context.Context) (<-chan Event, error) {
	ch := make(chan Event, 64)
	m.mu.Lock()
	m.subs = append(m.subs, ch)
	m.mu.Unlock()

	go func() {
		<-ctx.Done()
		m.mu.Lock()
		defer m.mu.Unlock()
		for i, sub := range m.subs {
			if sub == ch {
				m.subs = append(m.subs[:i], m.subs[i+1:]...)
				break
			}
		}
		close(ch)
	}()
	return ch, nil
}
