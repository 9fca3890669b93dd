package app

import (
	"context"
	"time"

	"tableflip.dev/gracelog/pkg/calendar"
	"tableflip.dev/gracelog/pkg/entry"
	"tableflip.dev/gracelog/pkg/scripture"
	"tableflip.dev/gracelog/pkg/timeutil"
)

// TopTags is how many tags a report lists.
const TopTags = 10

// ReportResult is the premium analytics summary.
type ReportResult struct {
	Today  timeutil.Day `json:"today"`
	Streak int          `json:"streak"`
	Total  int          `json:"total"`
	Tags   []string     `json:"tags"`
}

// Report returns the writing streak ending today, the entry count and the
// first TopTags distinct tags. Free profiles get ErrPremiumRequired.
func (s *Service) Report(ctx context.Context) (ReportResult, error) {
	if err := s.ensure(ctx); err != nil {
		return ReportResult{}, err
	}
	if err := s.profile.RequirePremium(); err != nil {
		return ReportResult{}, err
	}
	today := s.Today()
	return ReportResult{
		Today:  today,
		Streak: s.repo.Streak(today),
		Total:  s.repo.Len(),
		Tags:   s.repo.TagFrequencyTop(TopTags),
	}, nil
}

// CalendarView is a month grid and the entries of its selected day.
type CalendarView struct {
	Grid     calendar.Grid    `json:"grid"`
	Selected timeutil.Day     `json:"selected"`
	Locale   scripture.Locale `json:"locale"`
	Entries  []entry.Entry    `json:"entries"`
}

// Calendar lays out year/month with entry markers. Entries of selected are
// returned with book names shown in the profile locale.
func (s *Service) Calendar(ctx context.Context, year int, month time.Month, selected timeutil.Day) (CalendarView, error) {
	if err := s.ensure(ctx); err != nil {
		return CalendarView{}, err
	}
	grid := calendar.Month(year, month, s.repo.HasDate, selected)
	return CalendarView{
		Grid:     grid,
		Selected: selected,
		Locale:   s.profile.Locale,
		Entries:  s.localize(s.repo.FilterByDate(selected)),
	}, nil
}

// Recent lists entries written on or after since, newest first.
func (s *Service) Recent(ctx context.Context, since timeutil.Day) ([]entry.Entry, error) {
	if err := s.ensure(ctx); err != nil {
		return nil, err
	}
	return s.localize(s.repo.Since(since)), nil
}

// Entries lists every entry, newest first, with book names in the profile
// locale.
func (s *Service) Entries(ctx context.Context) ([]entry.Entry, error) {
	if err := s.ensure(ctx); err != nil {
		return nil, err
	}
	return s.localize(s.repo.All()), nil
}

// Entry looks up one stored entry.
func (s *Service) Entry(ctx context.Context, entryID string) (entry.Entry, error) {
	if err := s.ensure(ctx); err != nil {
		return entry.Entry{}, err
	}
	e, ok := s.repo.FindByID(entryID)
	if !ok {
		return entry.Entry{}, ErrEntryNotFound
	}
	return e, nil
}

func (s *Service) localize(list []entry.Entry) []entry.Entry {
	out := make([]entry.Entry, len(list))
	for i, e := range list {
		e.Book = scripture.Translate(e.Book, s.profile.Locale)
		out[i] = e
	}
	return out
}
