// Package journal keeps the in-memory, newest-first list of committed
// entries and the aggregates derived from it.
package journal

import (
	"sort"

	"tableflip.dev/gracelog/pkg/entry"
	"tableflip.dev/gracelog/pkg/timeutil"
)

// Repository is owned by a single session and is not safe for concurrent use.
type Repository struct {
	entries []entry.Entry
}

// New hydrates a repository. The order of entries is kept as given.
func New(entries []entry.Entry) *Repository {
	r := &Repository{entries: make([]entry.Entry, 0, len(entries))}
	for _, e := range entries {
		r.entries = append(r.entries, e.Clone())
	}
	return r
}

// Upsert replaces the entry with the same id in place, or prepends e when the
// id is new.
func (r *Repository) Upsert(e entry.Entry) entry.Entry {
	stored := e.Clone()
	for i := range r.entries {
		if r.entries[i].ID == e.ID {
			r.entries[i] = stored
			return stored.Clone()
		}
	}
	r.entries = append([]entry.Entry{stored}, r.entries...)
	return stored.Clone()
}

// FindByID looks an entry up by id.
func (r *Repository) FindByID(id string) (entry.Entry, bool) {
	for _, e := range r.entries {
		if e.ID == id {
			return e.Clone(), true
		}
	}
	return entry.Entry{}, false
}

// FindByDate returns the first entry on day. More than one entry per day is
// allowed; callers that want "the" entry of a day get the newest.
func (r *Repository) FindByDate(day timeutil.Day) (entry.Entry, bool) {
	for _, e := range r.entries {
		if e.Date == day {
			return e.Clone(), true
		}
	}
	return entry.Entry{}, false
}

// FilterByDate returns every entry on day in repository order.
func (r *Repository) FilterByDate(day timeutil.Day) []entry.Entry {
	var out []entry.Entry
	for _, e := range r.entries {
		if e.Date == day {
			out = append(out, e.Clone())
		}
	}
	return out
}

// Since returns the entries dated on or after day, in repository order.
func (r *Repository) Since(day timeutil.Day) []entry.Entry {
	var out []entry.Entry
	for _, e := range r.entries {
		if !e.Date.Before(day) {
			out = append(out, e.Clone())
		}
	}
	return out
}

// HasDate reports whether any entry is dated day.
func (r *Repository) HasDate(day timeutil.Day) bool {
	_, ok := r.FindByDate(day)
	return ok
}

// Dates returns the distinct entry days, newest first.
func (r *Repository) Dates() []timeutil.Day {
	set := r.daySet()
	days := make([]timeutil.Day, 0, len(set))
	for d := range set {
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i] > days[j] })
	return days
}

// Streak counts consecutive days with at least one entry, ending at today.
// A day without an entry, today included, stops the count.
func (r *Repository) Streak(today timeutil.Day) int {
	set := r.daySet()
	n := 0
	for d := today; set[d]; d = d.AddDays(-1) {
		n++
	}
	return n
}

// TagFrequencyTop returns up to n distinct tags in order of first appearance.
// Despite the name the result is not ranked by frequency.
func (r *Repository) TagFrequencyTop(n int) []string {
	if n <= 0 {
		return nil
	}
	seen := make(map[string]bool)
	var out []string
	for _, e := range r.entries {
		for _, tag := range e.Tags {
			if seen[tag] {
				continue
			}
			seen[tag] = true
			out = append(out, tag)
			if len(out) == n {
				return out
			}
		}
	}
	return out
}

// Len is the number of entries.
func (r *Repository) Len() int {
	return len(r.entries)
}

// All returns a copy of every entry, newest first.
func (r *Repository) All() []entry.Entry {
	out := make([]entry.Entry, len(r.entries))
	for i, e := range r.entries {
		out[i] = e.Clone()
	}
	return out
}

func (r *Repository) daySet() map[timeutil.Day]bool {
	set := make(map[timeutil.Day]bool, len(r.entries))
	for _, e := range r.entries {
		if !e.Date.IsZero() {
			set[e.Date] = true
		}
	}
	return set
}
