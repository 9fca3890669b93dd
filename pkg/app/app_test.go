package app

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tableflip.dev/gracelog/pkg/assist"
	"tableflip.dev/gracelog/pkg/editor"
	"tableflip.dev/gracelog/pkg/entry"
	"tableflip.dev/gracelog/pkg/scripture"
	"tableflip.dev/gracelog/pkg/store"
	"tableflip.dev/gracelog/pkg/timeutil"
	"tableflip.dev/gracelog/pkg/validation"
)

type clock struct {
	t time.Time
}

func (c *clock) Now() time.Time { return c.t }

func (c *clock) advance(d time.Duration) { c.t = c.t.Add(d) }

func counterIDs() func() (string, error) {
	n := 0
	return func() (string, error) {
		n++
		return fmt.Sprintf("entry-%d", n), nil
	}
}

func newService(t *testing.T, p store.Persistence) (*Service, *clock) {
	t.Helper()
	c := &clock{t: time.Date(2024, time.January, 3, 9, 0, 0, 0, time.UTC)}
	svc := &Service{Persistence: p, Now: c.Now, NewID: counterIDs()}
	require.NoError(t, svc.Load(context.Background()))
	return svc, c
}

func edit(t *testing.T, svc *Service, fn func(*editor.Session) editor.Effects) editor.State {
	t.Helper()
	st, err := svc.Edit(context.Background(), fn)
	require.NoError(t, err)
	return st
}

func TestFreshStart(t *testing.T) {
	p := store.NewMemory(nil)
	svc, _ := newService(t, p)

	st, err := svc.State(context.Background())
	require.NoError(t, err)
	assert.Equal(t, editor.Creating, st.Mode)
	assert.Equal(t, "창세기", st.Book)
	assert.Equal(t, 1, st.Chapter)

	prof, err := svc.Profile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, entry.DefaultProfile(), prof)

	for _, k := range store.Kinds() {
		assert.False(t, p.Has(k), "nothing is written until something changes: %s", k)
	}
}

func TestEditsWriteThroughAndSurviveReload(t *testing.T) {
	ctx := context.Background()
	p := store.NewMemory(nil)
	svc, _ := newService(t, p)

	edit(t, svc, func(s *editor.Session) editor.Effects { return s.SetBook("시편") })
	edit(t, svc, func(s *editor.Session) editor.Effects { return s.SetChapter(23) })
	edit(t, svc, func(s *editor.Session) editor.Effects { return s.SetReflection("shepherd") })
	want := edit(t, svc, func(s *editor.Session) editor.Effects { return s.AddTag("peace") })

	ref, ok := p.LoadLastReference()
	require.True(t, ok)
	assert.Equal(t, entry.Reference{Book: "시편", Chapter: 23}, ref)

	again := &Service{Persistence: p}
	got, err := again.State(ctx)
	require.NoError(t, err)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("reloaded session mismatch (-want +got):\n%s", diff)
	}
}

func TestSaveCreatesEntryAndClearsDraft(t *testing.T) {
	ctx := context.Background()
	p := store.NewMemory(nil)
	svc, _ := newService(t, p)

	edit(t, svc, func(s *editor.Session) editor.Effects { return s.SetBook("요한복음") })
	edit(t, svc, func(s *editor.Session) editor.Effects { return s.SetChapter(3) })
	edit(t, svc, func(s *editor.Session) editor.Effects { return s.SetReflection("God so loved") })
	require.True(t, p.Has(store.KindDraft))

	e, err := svc.Save(ctx)
	require.NoError(t, err)
	assert.Equal(t, "entry-1", e.ID)
	assert.Equal(t, timeutil.Day("2024-01-03"), e.Date)

	assert.False(t, p.Has(store.KindDraft))
	stored := p.LoadEntries()
	require.Len(t, stored, 1)
	assert.Equal(t, e.ID, stored[0].ID)

	st, _ := svc.State(ctx)
	assert.Equal(t, editor.Editing, st.Mode)
	assert.Equal(t, "entry-1", st.EntryID)

	// A new process picks today's entry before anything else.
	again := &Service{Persistence: p, Now: svc.Now}
	st, err = again.State(ctx)
	require.NoError(t, err)
	assert.Equal(t, editor.Editing, st.Mode)
	assert.Equal(t, "God so loved", st.Reflection)
}

func TestResaveReplacesInPlace(t *testing.T) {
	ctx := context.Background()
	p := store.NewMemory(nil)
	svc, c := newService(t, p)

	edit(t, svc, func(s *editor.Session) editor.Effects { return s.SetReflection("first") })
	first, err := svc.Save(ctx)
	require.NoError(t, err)

	edit(t, svc, func(s *editor.Session) editor.Effects { return s.SetReflection("second") })
	second, err := svc.Save(ctx)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.True(t, second.UpdatedAt.After(first.UpdatedAt.Time))
	assert.True(t, second.CreatedAt.Equal(first.CreatedAt.Time))
	require.Len(t, p.LoadEntries(), 1)
	assert.Equal(t, "second", p.LoadEntries()[0].ReflectionText)

	// Starting over creates a second entry ahead of the first.
	_, err = svc.NewEntry(ctx)
	require.NoError(t, err)
	c.advance(time.Hour)
	edit(t, svc, func(s *editor.Session) editor.Effects { return s.SetReflection("another") })
	third, err := svc.Save(ctx)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, third.ID)

	all, err := svc.Entries(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, third.ID, all[0].ID)
}

func TestSaveValidation(t *testing.T) {
	ctx := context.Background()
	p := store.NewMemory(nil)
	svc, _ := newService(t, p)

	_, err := svc.Save(ctx)
	assert.ErrorIs(t, err, ErrEmptyReflection)

	edit(t, svc, func(s *editor.Session) editor.Effects { return s.SetBook("") })
	edit(t, svc, func(s *editor.Session) editor.Effects { return s.SetReflection("text") })
	_, err = svc.Save(ctx)
	require.ErrorIs(t, err, validation.ErrInvalid)

	var verr *validation.Error
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "book")
	assert.False(t, p.Has(store.KindEntries))
}

func TestOpenEntryAndDate(t *testing.T) {
	ctx := context.Background()
	p := store.NewMemory(nil)
	require.NoError(t, p.SaveEntries([]entry.Entry{
		{ID: "b", Date: "2024-01-02", Book: "Romans", Chapter: 8, ReflectionText: "no condemnation"},
		{ID: "a", Date: "2024-01-01", Book: "요한복음", Chapter: 1, ReflectionText: "word"},
	}))
	svc, _ := newService(t, p)

	st, err := svc.OpenEntry(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, editor.Editing, st.Mode)
	assert.Equal(t, "로마서", st.Book)

	st, err = svc.OpenDate(ctx, "2024-01-01")
	require.NoError(t, err)
	assert.Equal(t, "a", st.EntryID)

	_, err = svc.OpenEntry(ctx, "missing")
	assert.ErrorIs(t, err, ErrEntryNotFound)
	_, err = svc.OpenDate(ctx, "2023-12-31")
	assert.ErrorIs(t, err, ErrEntryNotFound)

	// Saving an opened entry moves it to today.
	_, err = svc.OpenEntry(ctx, "b")
	require.NoError(t, err)
	saved, err := svc.Save(ctx)
	require.NoError(t, err)
	assert.Equal(t, "b", saved.ID)
	assert.Equal(t, timeutil.Day("2024-01-03"), saved.Date)
}

func TestLocaleAndSubscription(t *testing.T) {
	ctx := context.Background()
	p := store.NewMemory(nil)
	svc, _ := newService(t, p)

	prof, err := svc.SetLocale(ctx, scripture.English)
	require.NoError(t, err)
	assert.Equal(t, scripture.English, prof.Locale)
	assert.Equal(t, scripture.English, p.LoadUser().Locale)
	st, _ := svc.State(ctx)
	assert.Equal(t, "Genesis", st.Book)

	_, err = svc.SetLocale(ctx, "fr")
	assert.Error(t, err)

	prof, err = svc.ToggleSubscription(ctx)
	require.NoError(t, err)
	assert.True(t, prof.IsPremium())
	assert.Equal(t, entry.Premium, p.LoadUser().SubscriptionStatus)

	prof, err = svc.ToggleSubscription(ctx)
	require.NoError(t, err)
	assert.False(t, prof.IsPremium())

	_, err = svc.SetSubscription(ctx, "GOLD")
	assert.ErrorIs(t, err, validation.ErrInvalid)
	assert.Equal(t, entry.Free, p.LoadUser().SubscriptionStatus)
}

func TestReport(t *testing.T) {
	ctx := context.Background()
	p := store.NewMemory(nil)
	require.NoError(t, p.SaveEntries([]entry.Entry{
		{ID: "3", Date: "2024-01-03", Book: "John", Chapter: 1, ReflectionText: "x", Tags: []string{"grace", "hope"}},
		{ID: "2", Date: "2024-01-02", Book: "John", Chapter: 1, ReflectionText: "x", Tags: []string{"hope", "faith"}},
		{ID: "1", Date: "2023-12-31", Book: "John", Chapter: 1, ReflectionText: "x"},
	}))
	svc, _ := newService(t, p)

	_, err := svc.Report(ctx)
	require.ErrorIs(t, err, ErrPremiumRequired)

	_, err = svc.SetSubscription(ctx, entry.Premium)
	require.NoError(t, err)
	r, err := svc.Report(ctx)
	require.NoError(t, err)
	assert.Equal(t, ReportResult{
		Today:  "2024-01-03",
		Streak: 2,
		Total:  3,
		Tags:   []string{"grace", "hope", "faith"},
	}, r)
}

func TestCalendarAndRecent(t *testing.T) {
	ctx := context.Background()
	p := store.NewMemory(nil)
	require.NoError(t, p.SaveUser(entry.Profile{UserID: "u", Locale: scripture.English, SubscriptionStatus: entry.Free}))
	require.NoError(t, p.SaveEntries([]entry.Entry{
		{ID: "2", Date: "2024-01-02", Book: "로마서", Chapter: 8, ReflectionText: "x"},
		{ID: "1", Date: "2023-12-20", Book: "John", Chapter: 1, ReflectionText: "x"},
	}))
	svc, _ := newService(t, p)

	view, err := svc.Calendar(ctx, 2024, time.January, "2024-01-02")
	require.NoError(t, err)
	require.Len(t, view.Entries, 1)
	assert.Equal(t, "Romans", view.Entries[0].Book)

	var marked []timeutil.Day
	for _, c := range view.Grid.Cells {
		if c.HasEntry {
			marked = append(marked, c.Date)
		}
	}
	assert.Equal(t, []timeutil.Day{"2024-01-02"}, marked)

	recent, err := svc.Recent(ctx, "2024-01-01")
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, "2", recent[0].ID)
	assert.Equal(t, "Romans", recent[0].Book)

	all, err := svc.Entries(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Romans", all[0].Book)
	assert.Equal(t, "John", all[1].Book)

	// Stored entries keep their original book names.
	e, err := svc.Entry(ctx, "2")
	require.NoError(t, err)
	assert.Equal(t, "로마서", e.Book)
}

type fakeGateway struct {
	req  assist.Request
	resp *assist.Response
	err  error
}

func (f *fakeGateway) Assist(_ context.Context, req assist.Request) (*assist.Response, error) {
	f.req = req
	return f.resp, f.err
}

func TestAssist(t *testing.T) {
	ctx := context.Background()
	p := store.NewMemory(nil)
	gw := &fakeGateway{resp: &assist.Response{Prayers: []string{"amen"}}}
	c := &clock{t: time.Date(2024, time.January, 3, 9, 0, 0, 0, time.UTC)}
	svc := &Service{Persistence: p, Assistant: gw, Now: c.Now}

	edit(t, svc, func(s *editor.Session) editor.Effects { return s.SetReflection("long reflection") })
	_, err := svc.Assist(ctx)
	require.ErrorIs(t, err, ErrPremiumRequired)

	_, err = svc.SetSubscription(ctx, entry.Premium)
	require.NoError(t, err)
	edit(t, svc, func(s *editor.Session) editor.Effects { return s.SetReflection("abc") })
	_, err = svc.Assist(ctx)
	require.ErrorIs(t, err, ErrReflectionTooShort)

	edit(t, svc, func(s *editor.Session) editor.Effects { return s.SetReflection("abcdef") })
	edit(t, svc, func(s *editor.Session) editor.Effects { return s.AddTag("t") })
	before, _ := svc.State(ctx)
	resp, err := svc.Assist(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"amen"}, resp.Prayers)
	assert.Equal(t, assist.Request{
		Book: "창세기", Chapter: 1, ReflectionText: "abcdef", Tags: []string{"t"}, Locale: scripture.Korean,
	}, gw.req)
	assert.False(t, svc.AssistPending())

	gw.err = errors.New("offline")
	_, err = svc.Assist(ctx)
	require.Error(t, err)
	after, _ := svc.State(ctx)
	assert.Equal(t, before, after)
}

func TestAssistUnavailable(t *testing.T) {
	p := store.NewMemory(nil)
	require.NoError(t, p.SaveUser(entry.Profile{UserID: "u", Locale: scripture.Korean, SubscriptionStatus: entry.Premium}))
	svc, _ := newService(t, p)
	edit(t, svc, func(s *editor.Session) editor.Effects { return s.SetReflection("enough text") })

	_, err := svc.Assist(context.Background())
	assert.ErrorIs(t, err, ErrAssistUnavailable)
}

func TestNoPersistence(t *testing.T) {
	_, err := (&Service{}).State(context.Background())
	assert.Error(t, err)
}
