package app

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"go.uber.org/zap"

	"tableflip.dev/gracelog/pkg/assist"
	"tableflip.dev/gracelog/pkg/editor"
	"tableflip.dev/gracelog/pkg/entry"
	"tableflip.dev/gracelog/pkg/id"
	"tableflip.dev/gracelog/pkg/journal"
	"tableflip.dev/gracelog/pkg/scripture"
	"tableflip.dev/gracelog/pkg/store"
	"tableflip.dev/gracelog/pkg/timeutil"
	"tableflip.dev/gracelog/pkg/validation"
)

// Service owns one journal session: the profile, the entries, the editor and
// the assist guard. Every change is written through to Persistence before the
// call returns. A Service is not safe for concurrent use.
type Service struct {
	Persistence store.Persistence
	// Assistant is optional; without it Assist reports ErrAssistUnavailable.
	Assistant assist.Gateway
	Logger    *zap.Logger
	// Now and NewID default to time.Now and id.NewEntryID.
	Now   func() time.Time
	NewID func() (string, error)

	profile entry.Profile
	repo    *journal.Repository
	session *editor.Session
	guard   *assist.Guard
	valid   *validation.Validator
	loaded  bool
}

var (
	ErrEntryNotFound      = errors.New("app: entry not found")
	ErrAssistUnavailable  = errors.New("app: assist is not configured")
	errNoPersistence      = errors.New("app: no persistence configured")
	ErrPremiumRequired    = entry.ErrPremiumRequired
	ErrEmptyReflection    = editor.ErrEmptyReflection
	ErrReflectionTooShort = assist.ErrReflectionTooShort
)

// Load reads every record and initializes the editor for today. It is called
// implicitly by the first operation and again to pick up outside changes.
func (s *Service) Load(ctx context.Context) error {
	if s.Persistence == nil {
		return errNoPersistence
	}
	if s.valid == nil {
		s.valid = validation.New()
	}

	s.profile = s.Persistence.LoadUser()
	s.repo = journal.New(s.Persistence.LoadEntries())

	in := editor.Inputs{
		Today:   s.Today(),
		Locale:  s.profile.Locale,
		Entries: s.repo,
	}
	if d, ok := s.Persistence.LoadDraft(); ok {
		in.Draft = &d
	}
	if r, ok := s.Persistence.LoadLastReference(); ok {
		in.LastReference = &r
	}
	s.session = editor.Initialize(in)
	s.loaded = true

	s.log().Debug("session loaded",
		zap.Int("entries", s.repo.Len()),
		zap.Stringer("mode", s.session.Mode()),
		zap.Bool("draft", in.Draft != nil),
		zap.Bool("degraded", s.Persistence.Degraded()))
	return nil
}

func (s *Service) ensure(ctx context.Context) error {
	if s.loaded {
		return nil
	}
	return s.Load(ctx)
}

func (s *Service) log() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Today is the local calendar day of the service clock.
func (s *Service) Today() timeutil.Day {
	return timeutil.DayOf(s.now())
}

// apply writes the records named by fx. Entries go before the draft is
// cleared so a failed entries write never loses the draft.
func (s *Service) apply(fx editor.Effects) error {
	p := s.Persistence
	if fx.Has(editor.PersistEntries) {
		if err := p.SaveEntries(s.repo.All()); err != nil {
			return fmt.Errorf("app: save entries: %w", err)
		}
	}
	if fx.Has(editor.ClearDraft) {
		if err := p.ClearDraft(); err != nil {
			return fmt.Errorf("app: clear draft: %w", err)
		}
	}
	if fx.Has(editor.PersistDraft) {
		if err := p.SaveDraft(s.session.Draft()); err != nil {
			return fmt.Errorf("app: save draft: %w", err)
		}
	}
	if fx.Has(editor.PersistLastReference) {
		if err := p.SaveLastReference(s.session.LastReference()); err != nil {
			return fmt.Errorf("app: save last reference: %w", err)
		}
	}
	return nil
}

// Profile returns the current user profile.
func (s *Service) Profile(ctx context.Context) (entry.Profile, error) {
	if err := s.ensure(ctx); err != nil {
		return entry.Profile{}, err
	}
	return s.profile, nil
}

// State returns the editor snapshot.
func (s *Service) State(ctx context.Context) (editor.State, error) {
	if err := s.ensure(ctx); err != nil {
		return editor.State{}, err
	}
	return s.session.State(), nil
}

// Edit runs fn against the editor and writes through its effects.
func (s *Service) Edit(ctx context.Context, fn func(*editor.Session) editor.Effects) (editor.State, error) {
	if err := s.ensure(ctx); err != nil {
		return editor.State{}, err
	}
	if err := s.apply(fn(s.session)); err != nil {
		return editor.State{}, err
	}
	return s.session.State(), nil
}

// Save commits the editor as today's entry. The entry list is stored and the
// draft cleared before Save returns.
func (s *Service) Save(ctx context.Context) (entry.Entry, error) {
	if err := s.ensure(ctx); err != nil {
		return entry.Entry{}, err
	}
	newID := s.NewID
	if newID == nil {
		newID = id.NewEntryID
	}

	now := s.now()
	e, err := s.session.Build(now, timeutil.DayOf(now), newID)
	if err != nil {
		return entry.Entry{}, err
	}
	if err := s.valid.Validate(e); err != nil {
		return entry.Entry{}, err
	}

	stored := s.repo.Upsert(e)
	if err := s.apply(s.session.Commit(stored)); err != nil {
		return entry.Entry{}, err
	}
	s.log().Info("entry saved", zap.String("id", stored.ID), zap.String("date", stored.Date.String()))
	return stored, nil
}

// OpenEntry loads the entry with id into the editor.
func (s *Service) OpenEntry(ctx context.Context, entryID string) (editor.State, error) {
	if err := s.ensure(ctx); err != nil {
		return editor.State{}, err
	}
	e, ok := s.repo.FindByID(entryID)
	if !ok {
		return editor.State{}, fmt.Errorf("%w: %s", ErrEntryNotFound, entryID)
	}
	return s.load(e)
}

// OpenDate loads the newest entry written on day into the editor.
func (s *Service) OpenDate(ctx context.Context, day timeutil.Day) (editor.State, error) {
	if err := s.ensure(ctx); err != nil {
		return editor.State{}, err
	}
	e, ok := s.repo.FindByDate(day)
	if !ok {
		return editor.State{}, fmt.Errorf("%w: %s", ErrEntryNotFound, day)
	}
	return s.load(e)
}

func (s *Service) load(e entry.Entry) (editor.State, error) {
	if err := s.apply(s.session.Load(e)); err != nil {
		return editor.State{}, err
	}
	return s.session.State(), nil
}

// NewEntry resets the editor to a blank entry.
func (s *Service) NewEntry(ctx context.Context) (editor.State, error) {
	return s.Edit(ctx, (*editor.Session).Reset)
}

// SetLocale changes the display locale and shows the editor book in it.
func (s *Service) SetLocale(ctx context.Context, l scripture.Locale) (entry.Profile, error) {
	if err := s.ensure(ctx); err != nil {
		return entry.Profile{}, err
	}
	if !l.Valid() {
		return entry.Profile{}, fmt.Errorf("app: unknown locale %q", l)
	}
	p := s.profile
	p.Locale = l
	if err := s.saveProfile(p); err != nil {
		return entry.Profile{}, err
	}
	if err := s.apply(s.session.SetLocale(l)); err != nil {
		return entry.Profile{}, err
	}
	return s.profile, nil
}

// SetSubscription stores the subscription status.
func (s *Service) SetSubscription(ctx context.Context, sub entry.Subscription) (entry.Profile, error) {
	if err := s.ensure(ctx); err != nil {
		return entry.Profile{}, err
	}
	p := s.profile
	p.SubscriptionStatus = sub
	if err := s.saveProfile(p); err != nil {
		return entry.Profile{}, err
	}
	return s.profile, nil
}

// ToggleSubscription flips between FREE and PREMIUM.
func (s *Service) ToggleSubscription(ctx context.Context) (entry.Profile, error) {
	if err := s.ensure(ctx); err != nil {
		return entry.Profile{}, err
	}
	next := entry.Premium
	if s.profile.IsPremium() {
		next = entry.Free
	}
	return s.SetSubscription(ctx, next)
}

func (s *Service) saveProfile(p entry.Profile) error {
	if err := s.valid.Validate(p); err != nil {
		return err
	}
	if err := s.Persistence.SaveUser(p); err != nil {
		return fmt.Errorf("app: save user: %w", err)
	}
	s.profile = p
	return nil
}

// Assist asks the configured gateway for commentary on the editor content.
// The editor is never changed by the result.
func (s *Service) Assist(ctx context.Context) (*assist.Response, error) {
	guard, req, err := s.PrepareAssist(ctx)
	if err != nil {
		return nil, err
	}
	return s.RunAssist(ctx, guard, req)
}

// PrepareAssist checks the assist preconditions and snapshots the editor
// content into a request. The returned guard may be used after the caller
// releases any lock it holds around the Service.
func (s *Service) PrepareAssist(ctx context.Context) (*assist.Guard, assist.Request, error) {
	if err := s.ensure(ctx); err != nil {
		return nil, assist.Request{}, err
	}
	st := s.session.State()
	if err := assist.Check(s.profile, st.Reflection); err != nil {
		return nil, assist.Request{}, err
	}
	if s.Assistant == nil {
		return nil, assist.Request{}, ErrAssistUnavailable
	}
	if s.guard == nil || s.guard.Gateway == nil {
		s.guard = assist.NewGuard(s.Assistant)
	}
	return s.guard, assist.Request{
		Book:           st.Book,
		Chapter:        st.Chapter,
		ReflectionText: st.Reflection,
		Tags:           slices.Clone(st.Tags),
		Locale:         s.profile.Locale,
	}, nil
}

// RunAssist sends req through guard. It touches no session state.
func (s *Service) RunAssist(ctx context.Context, guard *assist.Guard, req assist.Request) (*assist.Response, error) {
	resp, err := guard.Assist(ctx, req)
	if err != nil {
		s.log().Warn("assist failed", zap.Error(err))
		return nil, err
	}
	return resp, nil
}

// AssistPending reports whether an assist request is in flight.
func (s *Service) AssistPending() bool {
	return s.guard != nil && s.guard.Pending()
}

// Degraded reports whether records are only being kept in memory.
func (s *Service) Degraded() bool {
	return s.Persistence != nil && s.Persistence.Degraded()
}

// Watch subscribes to persistence change events.
func (s *Service) Watch(ctx context.Context) (<-chan store.Event, error) {
	if s.Persistence == nil {
		return nil, errNoPersistence
	}
	return s.Persistence.Watch(ctx)
}
