package editor

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tableflip.dev/gracelog/pkg/entry"
	"tableflip.dev/gracelog/pkg/journal"
	"tableflip.dev/gracelog/pkg/scripture"
	"tableflip.dev/gracelog/pkg/timeutil"
)

const today = timeutil.Day("2024-01-03")

func fixedID(id string) func() (string, error) {
	return func() (string, error) { return id, nil }
}

func noID() (string, error) {
	return "", errors.New("id should not be generated")
}

func TestInitializePrefersTodaysEntry(t *testing.T) {
	repo := journal.New([]entry.Entry{{
		ID: "e1", Date: today, Book: "요한복음", Chapter: 3, VerseRange: "16",
		ReflectionText: "love", ApplicationText: "act", PrayerText: "amen", Tags: []string{"grace"},
	}})

	s := Initialize(Inputs{
		Today:         today,
		Locale:        scripture.English,
		Entries:       repo,
		Draft:         &entry.Draft{Book: "Ruth", Chapter: 2, ReflectionText: "draft"},
		LastReference: &entry.Reference{Book: "Job", Chapter: 9},
	})

	st := s.State()
	assert.Equal(t, Editing, st.Mode)
	assert.Equal(t, "e1", st.EntryID)
	assert.Equal(t, "John", st.Book)
	assert.Equal(t, 3, st.Chapter)
	assert.Equal(t, "16", st.VerseRange)
	assert.Equal(t, "love", st.Reflection)
	assert.Equal(t, "act", st.Application)
	assert.Equal(t, "amen", st.Prayer)
	assert.Equal(t, []string{"grace"}, st.Tags)
}

func TestInitializeDraftVerbatim(t *testing.T) {
	draft := entry.Draft{
		Book: "시편", Chapter: 23, VerseRange: "1-6",
		ReflectionText: "shepherd", ApplicationText: "rest", PrayerText: "lead me",
		Tags: []string{"peace", "trust"},
	}
	s := Initialize(Inputs{
		Today:         today,
		Locale:        scripture.English,
		Entries:       journal.New([]entry.Entry{{ID: "old", Date: "2024-01-01", Book: "John", Chapter: 1, ReflectionText: "x"}}),
		Draft:         &draft,
		LastReference: &entry.Reference{Book: "Job", Chapter: 9},
	})

	assert.Equal(t, Creating, s.Mode())
	// Draft book names are not translated.
	assert.Equal(t, draft, s.Draft())
}

func TestInitializeLastReference(t *testing.T) {
	s := Initialize(Inputs{
		Today:         today,
		Locale:        scripture.Korean,
		LastReference: &entry.Reference{Book: "Romans", Chapter: 8},
	})

	st := s.State()
	assert.Equal(t, Creating, st.Mode)
	assert.Equal(t, "로마서", st.Book)
	assert.Equal(t, 8, st.Chapter)
	assert.Empty(t, st.Reflection)
	assert.Empty(t, st.Tags)
}

func TestInitializeDefault(t *testing.T) {
	s := Initialize(Inputs{Today: today, Locale: scripture.English})
	assert.Equal(t, entry.Reference{Book: "Genesis", Chapter: 1}, s.LastReference())

	s = Initialize(Inputs{Today: today})
	assert.Equal(t, scripture.Korean, s.Locale())
	assert.Equal(t, "창세기", s.State().Book)
}

func TestFieldEditsPersistDraftAndReference(t *testing.T) {
	s := Initialize(Inputs{Today: today, Locale: scripture.English})
	for name, fx := range map[string]Effects{
		"book":        s.SetBook("John"),
		"chapter":     s.SetChapter(3),
		"verses":      s.SetVerseRange("16"),
		"reflection":  s.SetReflection("so loved"),
		"application": s.SetApplication("share"),
		"prayer":      s.SetPrayer("thanks"),
		"tag":         s.AddTag("love"),
	} {
		assert.True(t, fx.Has(PersistDraft|PersistLastReference), name)
		assert.False(t, fx.Has(PersistEntries), name)
	}
	assert.Equal(t, entry.Reference{Book: "John", Chapter: 3}, s.LastReference())
}

func TestChapterBoundCorrection(t *testing.T) {
	s := Initialize(Inputs{Today: today, Locale: scripture.English})
	s.SetBook("Genesis")
	s.SetChapter(10)

	s.SetBook("Ruth") // 4 chapters
	assert.Equal(t, 1, s.State().Chapter)
	assert.Equal(t, entry.Reference{Book: "Ruth", Chapter: 1}, s.LastReference())

	s.SetChapter(4)
	s.SetBook("Job") // 42 chapters
	assert.Equal(t, 4, s.State().Chapter)

	s.SetChapter(0)
	assert.Equal(t, 1, s.State().Chapter)
}

func TestTags(t *testing.T) {
	s := Initialize(Inputs{Today: today})

	assert.Equal(t, fieldEdit, s.AddTag("  grace "))
	assert.Equal(t, None, s.AddTag("grace"))
	assert.Equal(t, None, s.AddTag("   "))
	assert.Equal(t, fieldEdit, s.AddTag("Grace"))
	assert.Equal(t, []string{"grace", "Grace"}, s.State().Tags)

	assert.Equal(t, None, s.RemoveTag("GRACE"))
	assert.Equal(t, fieldEdit, s.RemoveTag("grace"))
	assert.Equal(t, []string{"Grace"}, s.State().Tags)
}

func TestSaveRejectsEmptyReflection(t *testing.T) {
	s := Initialize(Inputs{Today: today})
	s.SetReflection(" \n\t ")
	before := s.State()

	_, fx, err := s.Save(time.Now(), today, noID)
	require.ErrorIs(t, err, ErrEmptyReflection)
	assert.Equal(t, None, fx)
	assert.Equal(t, before, s.State())
}

func TestSaveCreatesThenUpdates(t *testing.T) {
	s := Initialize(Inputs{Today: today, Locale: scripture.English})
	s.SetBook("John")
	s.SetChapter(3)
	s.AddTag("love")
	s.SetReflection("God so loved")

	t0 := time.Date(2024, time.January, 3, 8, 0, 0, 0, time.UTC)
	first, fx, err := s.Save(t0, today, fixedID("entry-1"))
	require.NoError(t, err)
	assert.True(t, fx.Has(PersistEntries|ClearDraft))
	assert.False(t, fx.Has(PersistLastReference))
	assert.Equal(t, "entry-1", first.ID)
	assert.Equal(t, today, first.Date)
	assert.Equal(t, "John", first.Book)
	assert.Equal(t, []string{"love"}, first.Tags)
	assert.Equal(t, entry.TemplateFree, first.TemplateType)
	assert.Equal(t, Editing, s.Mode())
	assert.Equal(t, "entry-1", s.EntryID())

	// Same clock reading: updatedAt still moves forward.
	s.SetPrayer("amen")
	second, _, err := s.Save(t0, today, noID)
	require.NoError(t, err)
	assert.Equal(t, "entry-1", second.ID)
	assert.True(t, second.UpdatedAt.After(first.UpdatedAt.Time))
	assert.True(t, second.CreatedAt.Equal(first.CreatedAt.Time))
	assert.Equal(t, "amen", second.PrayerText)
}

func TestSaveIDFailureLeavesSession(t *testing.T) {
	s := Initialize(Inputs{Today: today})
	s.SetReflection("text")

	_, _, err := s.Save(time.Now(), today, func() (string, error) { return "", errors.New("no entropy") })
	require.Error(t, err)
	assert.Equal(t, Creating, s.Mode())
}

func TestLoadTranslatesBook(t *testing.T) {
	s := Initialize(Inputs{Today: today, Locale: scripture.Korean})
	fx := s.Load(entry.Entry{ID: "e9", Date: "2023-05-05", Book: "Philippians", Chapter: 4, ReflectionText: "joy"})

	assert.Equal(t, None, fx)
	assert.Equal(t, Editing, s.Mode())
	assert.Equal(t, "e9", s.EntryID())
	assert.Equal(t, "빌립보서", s.State().Book)
}

func TestSetLocaleTranslatesCurrentBook(t *testing.T) {
	s := Initialize(Inputs{Today: today, Locale: scripture.Korean})
	s.SetBook("마가복음")

	fx := s.SetLocale(scripture.English)
	assert.Equal(t, fieldEdit, fx)
	assert.Equal(t, "Mark", s.State().Book)
	assert.Equal(t, None, s.SetLocale(scripture.English))
}

func TestResetDropsBinding(t *testing.T) {
	s := Initialize(Inputs{Today: today, Locale: scripture.English})
	s.Load(entry.Entry{ID: "e1", Book: "John", Chapter: 2, ReflectionText: "x"})

	fx := s.Reset()
	assert.Equal(t, fieldEdit, fx)
	assert.Equal(t, Creating, s.Mode())
	assert.Empty(t, s.EntryID())
	assert.Equal(t, entry.Reference{Book: "Genesis", Chapter: 1}, s.LastReference())
}

func TestStateIsACopy(t *testing.T) {
	s := Initialize(Inputs{Today: today})
	s.AddTag("a")
	st := s.State()
	st.Tags[0] = "b"
	assert.Equal(t, []string{"a"}, s.State().Tags)
}

func TestModeText(t *testing.T) {
	for _, m := range []Mode{Creating, Editing} {
		b, err := m.MarshalText()
		require.NoError(t, err)
		var got Mode
		require.NoError(t, got.UnmarshalText(b))
		assert.Equal(t, m, got)
	}
	var m Mode
	assert.Error(t, m.UnmarshalText([]byte("deleting")))
}
