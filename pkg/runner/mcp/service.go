// Package mcp provides the Model Context Protocol server integration for gracelog.
package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"tableflip.dev/gracelog/pkg/app"
	"tableflip.dev/gracelog/pkg/assist"
	"tableflip.dev/gracelog/pkg/commands/options"
	"tableflip.dev/gracelog/pkg/editor"
	"tableflip.dev/gracelog/pkg/entry"
	"tableflip.dev/gracelog/pkg/scripture"
	"tableflip.dev/gracelog/pkg/timeutil"
)

// Service serialises MCP requests onto the single journal session. Unlike a
// CLI run the session lives as long as the server, so edits, opens and saves
// made by separate tool calls build on each other.
type Service struct {
	mu  sync.Mutex
	app *app.Service
}

// ErrEntryNotFound is returned when an entry cannot be located.
var ErrEntryNotFound = app.ErrEntryNotFound

// EditOptions holds the session fields to change. Nil fields are left alone.
type EditOptions struct {
	Book        *string  `json:"book"`
	Chapter     *int     `json:"chapter"`
	VerseRange  *string  `json:"verse_range"`
	Reflection  *string  `json:"reflection"`
	Application *string  `json:"application"`
	Prayer      *string  `json:"prayer"`
	AddTags     []string `json:"add_tags"`
	RemoveTags  []string `json:"remove_tags"`
}

// SessionDTO is the editor state plus the facts a client needs to show it.
type SessionDTO struct {
	editor.State
	Today         timeutil.Day `json:"today"`
	ChapterCount  int          `json:"chapterCount"`
	Degraded      bool         `json:"degraded"`
	AssistPending bool         `json:"assistPending"`
}

// EntryDTO is a transport-friendly projection of an entry.
type EntryDTO struct {
	entry.Entry
	Title string `json:"title"`
}

// NewService builds a service around a journal session.
func NewService(a *app.Service) *Service {
	return &Service{app: a}
}

func (s *Service) session(st editor.State) SessionDTO {
	return SessionDTO{
		State:         st,
		Today:         s.app.Today(),
		ChapterCount:  scripture.ChapterCount(st.Book, st.Locale),
		Degraded:      s.app.Degraded(),
		AssistPending: s.app.AssistPending(),
	}
}

// Session returns the current editor state.
func (s *Service) Session(ctx context.Context) (SessionDTO, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, err := s.app.State(ctx)
	if err != nil {
		return SessionDTO{}, err
	}
	return s.session(st), nil
}

// EditSession applies opts in field order, then adds and removes tags.
func (s *Service) EditSession(ctx context.Context, opts EditOptions) (SessionDTO, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if opts.Book != nil && !scripture.Known(*opts.Book) {
		return SessionDTO{}, fmt.Errorf("unknown book %q", *opts.Book)
	}

	st, err := s.app.Edit(ctx, func(sess *editor.Session) editor.Effects {
		var fx editor.Effects
		if opts.Book != nil {
			fx |= sess.SetBook(scripture.Translate(*opts.Book, sess.Locale()))
		}
		if opts.Chapter != nil {
			fx |= sess.SetChapter(*opts.Chapter)
		}
		if opts.VerseRange != nil {
			fx |= sess.SetVerseRange(*opts.VerseRange)
		}
		if opts.Reflection != nil {
			fx |= sess.SetReflection(*opts.Reflection)
		}
		if opts.Application != nil {
			fx |= sess.SetApplication(*opts.Application)
		}
		if opts.Prayer != nil {
			fx |= sess.SetPrayer(*opts.Prayer)
		}
		for _, t := range opts.AddTags {
			fx |= sess.AddTag(t)
		}
		for _, t := range opts.RemoveTags {
			fx |= sess.RemoveTag(t)
		}
		return fx
	})
	if err != nil {
		return SessionDTO{}, err
	}
	return s.session(st), nil
}

// NewEntry resets the editor to a blank entry.
func (s *Service) NewEntry(ctx context.Context) (SessionDTO, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, err := s.app.NewEntry(ctx)
	if err != nil {
		return SessionDTO{}, err
	}
	return s.session(st), nil
}

// SaveEntry commits the editor as today's entry.
func (s *Service) SaveEntry(ctx context.Context) (*EntryDTO, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, err := s.app.Save(ctx)
	if err != nil {
		return nil, err
	}
	return s.toDTO(ctx, e), nil
}

// OpenEntry loads an entry into the editor, by id or else by date.
func (s *Service) OpenEntry(ctx context.Context, id, date string) (SessionDTO, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var (
		st  editor.State
		err error
	)
	switch {
	case strings.TrimSpace(id) != "":
		st, err = s.app.OpenEntry(ctx, strings.TrimSpace(id))
	case strings.TrimSpace(date) != "":
		day, perr := options.ParseOn(strings.TrimSpace(date), s.app.Today())
		if perr != nil {
			return SessionDTO{}, fmt.Errorf("invalid date: %w", perr)
		}
		st, err = s.app.OpenDate(ctx, day)
	default:
		return SessionDTO{}, errors.New("id or date is required")
	}
	if err != nil {
		return SessionDTO{}, err
	}
	return s.session(st), nil
}

// ListEntries returns entries written within window ("1w", "3d"), or every
// entry when window is empty. limit <= 0 means no limit.
func (s *Service) ListEntries(ctx context.Context, window string, limit int) ([]EntryDTO, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var (
		list []entry.Entry
		err  error
	)
	if strings.TrimSpace(window) == "" {
		list, err = s.app.Entries(ctx)
	} else {
		days, _, perr := timeutil.ParseWindow(window)
		if perr != nil {
			return nil, perr
		}
		list, err = s.app.Recent(ctx, s.app.Today().AddDays(1-days))
	}
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(list) > limit {
		list = list[:limit]
	}
	out := make([]EntryDTO, 0, len(list))
	for _, e := range list {
		out = append(out, *s.toDTO(ctx, e))
	}
	return out, nil
}

// EntryByID returns one entry.
func (s *Service) EntryByID(ctx context.Context, id string) (*EntryDTO, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, err := s.app.Entry(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.toDTO(ctx, e), nil
}

// Assist requests commentary on the reflection being edited. The session
// lock covers only the request snapshot, so other tools keep working while
// the gateway runs and a second Assist fails with assist.ErrRequestPending.
func (s *Service) Assist(ctx context.Context) (*assist.Response, error) {
	s.mu.Lock()
	guard, req, err := s.app.PrepareAssist(ctx)
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return s.app.RunAssist(ctx, guard, req)
}

// Report returns the premium analytics.
func (s *Service) Report(ctx context.Context) (app.ReportResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.app.Report(ctx)
}

// Calendar lays out month ("2024-02") with the entries of on. Both default
// to today.
func (s *Service) Calendar(ctx context.Context, month, on string) (app.CalendarView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	today := s.app.Today()
	selected := today
	if strings.TrimSpace(on) != "" {
		day, err := options.ParseOn(strings.TrimSpace(on), today)
		if err != nil {
			return app.CalendarView{}, fmt.Errorf("invalid date: %w", err)
		}
		selected = day
	}
	mo := options.MonthOptions{Month: strings.TrimSpace(month)}
	year, m, err := mo.GetMonth(selected)
	if err != nil {
		return app.CalendarView{}, err
	}
	return s.app.Calendar(ctx, year, m, selected)
}

func (s *Service) toDTO(ctx context.Context, e entry.Entry) *EntryDTO {
	l := scripture.DefaultLocale
	if p, err := s.app.Profile(ctx); err == nil {
		l = p.Locale
	}
	return &EntryDTO{Entry: e, Title: e.Title(l)}
}
