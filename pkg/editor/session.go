// Package editor holds the journal editor session: the draft being written,
// whether it is bound to an existing entry, and the rules that reconcile it
// with the draft, last reference and entry records.
//
// The session never talks to storage. Every mutating operation returns the
// Effects the owner has to apply so the persisted records follow the session.
package editor

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"tableflip.dev/gracelog/pkg/entry"
	"tableflip.dev/gracelog/pkg/scripture"
	"tableflip.dev/gracelog/pkg/timeutil"
)

// ErrEmptyReflection is returned by Save when there is nothing to save.
var ErrEmptyReflection = errors.New("editor: reflection is empty")

// Mode tells whether saving creates a new entry or replaces the bound one.
type Mode int

const (
	Creating Mode = iota
	Editing
)

func (m Mode) String() string {
	if m == Editing {
		return "editing"
	}
	return "creating"
}

func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *Mode) UnmarshalText(b []byte) error {
	switch string(b) {
	case "creating":
		*m = Creating
	case "editing":
		*m = Editing
	default:
		return fmt.Errorf("editor: unknown mode %q", b)
	}
	return nil
}

// Effects are the persistence side effects of an operation.
type Effects uint8

const (
	PersistDraft Effects = 1 << iota
	PersistLastReference
	PersistEntries
	ClearDraft

	// None means the operation changed nothing that is persisted.
	None Effects = 0
)

// Has reports whether every flag in f is set.
func (e Effects) Has(f Effects) bool {
	return e&f == f
}

const fieldEdit = PersistDraft | PersistLastReference

// Fields are the editable values of the session.
type Fields struct {
	Book        string   `json:"book"`
	Chapter     int      `json:"chapter"`
	VerseRange  string   `json:"verseRange"`
	Reflection  string   `json:"reflectionText"`
	Application string   `json:"applicationText"`
	Prayer      string   `json:"prayerText"`
	Tags        []string `json:"tags"`
}

// State is a read-only snapshot of a session.
type State struct {
	Mode    Mode             `json:"mode"`
	EntryID string           `json:"entryId,omitempty"`
	Locale  scripture.Locale `json:"locale"`
	Fields
}

// Session is the single editor of a process.
type Session struct {
	mode    Mode
	boundID string
	locale  scripture.Locale
	fields  Fields

	// Timestamps of the bound entry.
	createdAt time.Time
	updatedAt time.Time
}

// EntryFinder is the part of the entry repository the session needs.
type EntryFinder interface {
	FindByDate(day timeutil.Day) (entry.Entry, bool)
}

// Inputs is everything Initialize reconciles.
type Inputs struct {
	Today         timeutil.Day
	Locale        scripture.Locale
	Entries       EntryFinder
	Draft         *entry.Draft
	LastReference *entry.Reference
}

// Initialize picks the starting state, in order of preference: today's entry,
// the saved draft, the last used reference, the locale's first book.
func Initialize(in Inputs) *Session {
	s := &Session{locale: in.Locale}
	if !s.locale.Valid() {
		s.locale = scripture.DefaultLocale
	}

	if in.Entries != nil {
		if e, ok := in.Entries.FindByDate(in.Today); ok {
			s.Load(e)
			return s
		}
	}

	switch {
	case in.Draft != nil:
		d := *in.Draft
		s.fields = Fields{
			Book:        d.Book,
			Chapter:     d.Chapter,
			VerseRange:  d.VerseRange,
			Reflection:  d.ReflectionText,
			Application: d.ApplicationText,
			Prayer:      d.PrayerText,
			Tags:        slices.Clone(d.Tags),
		}
	case in.LastReference != nil:
		s.fields = Fields{
			Book:    scripture.Translate(in.LastReference.Book, s.locale),
			Chapter: in.LastReference.Chapter,
		}
	default:
		s.fields = Fields{Book: scripture.DefaultBook(s.locale), Chapter: 1}
	}
	return s
}

// Load binds the session to e, showing its book in the session locale. Draft
// and last reference are left for the next edit or save to update.
func (s *Session) Load(e entry.Entry) Effects {
	s.mode = Editing
	s.boundID = e.ID
	s.createdAt = e.CreatedAt.Time
	s.updatedAt = e.UpdatedAt.Time
	s.fields = Fields{
		Book:        scripture.Translate(e.Book, s.locale),
		Chapter:     e.Chapter,
		VerseRange:  e.VerseRange,
		Reflection:  e.ReflectionText,
		Application: e.ApplicationText,
		Prayer:      e.PrayerText,
		Tags:        slices.Clone(e.Tags),
	}
	return None
}

// Reset starts a fresh entry at the locale's first book.
func (s *Session) Reset() Effects {
	*s = Session{
		locale: s.locale,
		fields: Fields{Book: scripture.DefaultBook(s.locale), Chapter: 1},
	}
	return fieldEdit
}

// SetLocale shows the current book in l.
func (s *Session) SetLocale(l scripture.Locale) Effects {
	if !l.Valid() || l == s.locale {
		return None
	}
	s.locale = l
	translated := scripture.Translate(s.fields.Book, l)
	if translated == s.fields.Book {
		return None
	}
	s.fields.Book = translated
	return fieldEdit
}

// SetBook changes the book and resets the chapter to 1 when it is past the
// new book's last chapter.
func (s *Session) SetBook(book string) Effects {
	s.fields.Book = book
	if s.fields.Chapter > scripture.ChapterCount(book, s.locale) {
		s.fields.Chapter = 1
	}
	return fieldEdit
}

// SetChapter stores chapter. Values below 1 become 1.
func (s *Session) SetChapter(chapter int) Effects {
	if chapter < 1 {
		chapter = 1
	}
	s.fields.Chapter = chapter
	return fieldEdit
}

func (s *Session) SetVerseRange(v string) Effects {
	s.fields.VerseRange = v
	return fieldEdit
}

func (s *Session) SetReflection(v string) Effects {
	s.fields.Reflection = v
	return fieldEdit
}

func (s *Session) SetApplication(v string) Effects {
	s.fields.Application = v
	return fieldEdit
}

func (s *Session) SetPrayer(v string) Effects {
	s.fields.Prayer = v
	return fieldEdit
}

// AddTag appends the trimmed tag. Empty and exact duplicate tags are ignored.
func (s *Session) AddTag(tag string) Effects {
	tag = strings.TrimSpace(tag)
	if tag == "" || slices.Contains(s.fields.Tags, tag) {
		return None
	}
	s.fields.Tags = append(s.fields.Tags, tag)
	return fieldEdit
}

// RemoveTag drops every tag equal to tag.
func (s *Session) RemoveTag(tag string) Effects {
	if !slices.Contains(s.fields.Tags, tag) {
		return None
	}
	s.fields.Tags = slices.DeleteFunc(slices.Clone(s.fields.Tags), func(t string) bool { return t == tag })
	return fieldEdit
}

// Build validates the session and assembles the entry Save would store,
// without changing the session. newID is only called in Creating mode.
func (s *Session) Build(now time.Time, today timeutil.Day, newID func() (string, error)) (entry.Entry, error) {
	if strings.TrimSpace(s.fields.Reflection) == "" {
		return entry.Entry{}, ErrEmptyReflection
	}

	id := s.boundID
	created := s.createdAt
	if s.mode == Creating || id == "" {
		var err error
		if id, err = newID(); err != nil {
			return entry.Entry{}, err
		}
		created = now
	}
	updated := now
	if !s.updatedAt.IsZero() && !updated.After(s.updatedAt) {
		updated = s.updatedAt.Add(time.Millisecond)
	}
	if created.IsZero() {
		created = updated
	}

	return entry.Entry{
		ID:              id,
		Date:            today,
		Book:            s.fields.Book,
		Chapter:         s.fields.Chapter,
		VerseRange:      s.fields.VerseRange,
		TemplateType:    entry.TemplateFree,
		ReflectionText:  s.fields.Reflection,
		ApplicationText: s.fields.Application,
		PrayerText:      s.fields.Prayer,
		Tags:            slices.Clone(s.fields.Tags),
		CreatedAt:       entry.At(created),
		UpdatedAt:       entry.At(updated),
	}, nil
}

// Commit binds the session to e after it was stored.
func (s *Session) Commit(e entry.Entry) Effects {
	s.mode = Editing
	s.boundID = e.ID
	s.createdAt = e.CreatedAt.Time
	s.updatedAt = e.UpdatedAt.Time
	return PersistEntries | ClearDraft
}

// Save is Build followed by Commit. On error the session is unchanged.
func (s *Session) Save(now time.Time, today timeutil.Day, newID func() (string, error)) (entry.Entry, Effects, error) {
	e, err := s.Build(now, today, newID)
	if err != nil {
		return entry.Entry{}, None, err
	}
	return e, s.Commit(e), nil
}

// Draft is the draft record for the current fields.
func (s *Session) Draft() entry.Draft {
	return entry.Draft{
		Book:            s.fields.Book,
		Chapter:         s.fields.Chapter,
		VerseRange:      s.fields.VerseRange,
		ReflectionText:  s.fields.Reflection,
		ApplicationText: s.fields.Application,
		PrayerText:      s.fields.Prayer,
		Tags:            slices.Clone(s.fields.Tags),
	}
}

// LastReference is the last reference record for the current fields.
func (s *Session) LastReference() entry.Reference {
	return entry.Reference{Book: s.fields.Book, Chapter: s.fields.Chapter}
}

// Mode returns the current mode.
func (s *Session) Mode() Mode {
	return s.mode
}

// EntryID is the bound entry id, empty while creating.
func (s *Session) EntryID() string {
	return s.boundID
}

// Locale is the locale book names are shown in.
func (s *Session) Locale() scripture.Locale {
	return s.locale
}

// ChapterCount of the current book.
func (s *Session) ChapterCount() int {
	return scripture.ChapterCount(s.fields.Book, s.locale)
}

// State returns a snapshot that shares nothing with the session.
func (s *Session) State() State {
	f := s.fields
	f.Tags = slices.Clone(f.Tags)
	return State{
		Mode:    s.mode,
		EntryID: s.boundID,
		Locale:  s.locale,
		Fields:  f,
	}
}
