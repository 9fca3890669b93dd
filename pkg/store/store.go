// Package store persists the four journal records: the user profile, the
// committed entries, the editor draft and the last used reference.
//
// Records are independent whole-value JSON documents. A missing or unreadable
// record reads as its default. When a write fails the store stops touching
// the backend and keeps every record in memory for the rest of the process.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"sync"

	"go.uber.org/zap"

	"tableflip.dev/gracelog/pkg/entry"
)

// Kind names a record.
type Kind string

const (
	KindUser          Kind = "user"
	KindEntries       Kind = "entries"
	KindDraft         Kind = "draft"
	KindLastReference Kind = "lastReference"
)

// Kinds lists every record kind.
func Kinds() []Kind {
	return []Kind{KindUser, KindEntries, KindDraft, KindLastReference}
}

// Persistence defines the persistence contract for the journal records.
type Persistence interface {
	LoadUser() entry.Profile
	SaveUser(p entry.Profile) error

	LoadEntries() []entry.Entry
	SaveEntries(entries []entry.Entry) error

	LoadDraft() (entry.Draft, bool)
	SaveDraft(d entry.Draft) error
	ClearDraft() error

	LoadLastReference() (entry.Reference, bool)
	SaveLastReference(r entry.Reference) error

	// Has reports whether a record is currently stored.
	Has(k Kind) bool
	// Degraded reports whether writes stopped reaching the backend.
	Degraded() bool
	Watch(ctx context.Context) (<-chan Event, error)
}

// backend is raw keyed byte storage. read must return an error matching
// fs.ErrNotExist for missing keys.
type backend interface {
	read(key string) ([]byte, error)
	write(key string, val []byte) error
	erase(key string) error
	watch(ctx context.Context) (<-chan Event, error)
}

type persistence struct {
	b   backend
	log *zap.Logger

	mu       sync.Mutex
	degraded bool
	mem      map[Kind][]byte
}

func newPersistence(b backend, log *zap.Logger) *persistence {
	if log == nil {
		log = zap.NewNop()
	}
	return &persistence{b: b, log: log.Named("store")}
}

func (p *persistence) Degraded() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.degraded
}

func (p *persistence) Has(k Kind) bool {
	_, ok := p.raw(k)
	return ok
}

func (p *persistence) Watch(ctx context.Context) (<-chan Event, error) {
	return p.b.watch(ctx)
}

// raw returns the stored bytes of k, or false when the record is absent or
// cannot be read.
func (p *persistence) raw(k Kind) ([]byte, bool) {
	p.mu.Lock()
	if p.degraded {
		val, ok := p.mem[k]
		p.mu.Unlock()
		return val, ok
	}
	p.mu.Unlock()

	val, err := p.b.read(string(k))
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			p.log.Warn("record unreadable, using default", zap.String("record", string(k)), zap.Error(err))
		}
		return nil, false
	}
	if len(val) == 0 {
		return nil, false
	}
	return val, true
}

// decode reads k into v. Malformed records are treated as absent.
func (p *persistence) decode(k Kind, v any) bool {
	val, ok := p.raw(k)
	if !ok {
		return false
	}
	if err := json.Unmarshal(val, v); err != nil {
		p.log.Warn("record malformed, using default", zap.String("record", string(k)), zap.Error(err))
		return false
	}
	return true
}

func (p *persistence) put(k Kind, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.degraded {
		err := p.b.write(string(k), data)
		if err == nil {
			return nil
		}
		p.degrade(k, err)
	}
	p.mem[k] = data
	return nil
}

func (p *persistence) erase(k Kind) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.degraded {
		err := p.b.erase(string(k))
		if err == nil || errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		p.degrade(k, err)
	}
	delete(p.mem, k)
	return nil
}

// degrade snapshots every readable record into memory. Callers hold p.mu.
func (p *persistence) degrade(k Kind, cause error) {
	p.log.Error("write failed, keeping records in memory for this session",
		zap.String("record", string(k)), zap.Error(cause))
	p.mem = make(map[Kind][]byte)
	for _, kind := range Kinds() {
		if val, err := p.b.read(string(kind)); err == nil && len(val) > 0 {
			p.mem[kind] = val
		}
	}
	p.degraded = true
}

func (p *persistence) LoadUser() entry.Profile {
	var u entry.Profile
	if !p.decode(KindUser, &u) {
		return entry.DefaultProfile()
	}
	return u.Normalize()
}

func (p *persistence) SaveUser(u entry.Profile) error {
	return p.put(KindUser, u)
}

func (p *persistence) LoadEntries() []entry.Entry {
	var raw []json.RawMessage
	if !p.decode(KindEntries, &raw) {
		return []entry.Entry{}
	}
	// Entries decode one at a time so a single bad item costs only itself.
	out := make([]entry.Entry, 0, len(raw))
	for i, item := range raw {
		var e entry.Entry
		if err := json.Unmarshal(item, &e); err != nil {
			p.log.Warn("dropping malformed stored entry", zap.Int("index", i), zap.Error(err))
			continue
		}
		if e.ID == "" {
			p.log.Warn("dropping stored entry without id", zap.String("date", e.Date.String()))
			continue
		}
		out = append(out, e)
	}
	return out
}

func (p *persistence) SaveEntries(entries []entry.Entry) error {
	if entries == nil {
		entries = []entry.Entry{}
	}
	return p.put(KindEntries, entries)
}

func (p *persistence) LoadDraft() (entry.Draft, bool) {
	var d entry.Draft
	if !p.decode(KindDraft, &d) {
		return entry.Draft{}, false
	}
	return d, true
}

func (p *persistence) SaveDraft(d entry.Draft) error {
	return p.put(KindDraft, d)
}

func (p *persistence) ClearDraft() error {
	return p.erase(KindDraft)
}

func (p *persistence) LoadLastReference() (entry.Reference, bool) {
	var r entry.Reference
	if !p.decode(KindLastReference, &r) || r.Book == "" {
		return entry.Reference{}, false
	}
	return r, true
}

func (p *persistence) SaveLastReference(r entry.Reference) error {
	return p.put(KindLastReference, r)
}
