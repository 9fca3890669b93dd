// Package calendar lays out a month as a Sunday-first grid of day cells.
package calendar

import (
	"time"

	"tableflip.dev/gracelog/pkg/timeutil"
)

// Cell is one square of the grid. Padding cells before the first of the month
// show the previous month's day numbers and are not Current.
type Cell struct {
	Day      int          `json:"day"`
	Date     timeutil.Day `json:"date,omitempty"`
	Current  bool         `json:"current"`
	HasEntry bool         `json:"hasEntry"`
	Selected bool         `json:"selected"`
}

// Grid is a laid out month.
type Grid struct {
	Year  int        `json:"year"`
	Month time.Month `json:"month"`
	Cells []Cell     `json:"cells"`
}

// Month builds the grid for year/month. marked reports which days have
// entries and may be nil.
func Month(year int, month time.Month, marked func(timeutil.Day) bool, selected timeutil.Day) Grid {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	year, month = first.Year(), first.Month()

	lead := int(first.Weekday())
	prevDays := DaysIn(year, month-1)
	days := DaysIn(year, month)

	cells := make([]Cell, 0, lead+days)
	for i := lead - 1; i >= 0; i-- {
		cells = append(cells, Cell{Day: prevDays - i})
	}
	for d := 1; d <= days; d++ {
		date := timeutil.NewDay(year, month, d)
		cells = append(cells, Cell{
			Day:      d,
			Date:     date,
			Current:  true,
			HasEntry: marked != nil && marked(date),
			Selected: date == selected,
		})
	}
	return Grid{Year: year, Month: month, Cells: cells}
}

// Weeks splits the grid into rows of seven. The last row may be shorter.
func (g Grid) Weeks() [][]Cell {
	var weeks [][]Cell
	for i := 0; i < len(g.Cells); i += 7 {
		end := min(i+7, len(g.Cells))
		weeks = append(weeks, g.Cells[i:end])
	}
	return weeks
}

// Next is the following month.
func (g Grid) Next() (int, time.Month) {
	t := time.Date(g.Year, g.Month+1, 1, 0, 0, 0, 0, time.UTC)
	return t.Year(), t.Month()
}

// Prev is the preceding month.
func (g Grid) Prev() (int, time.Month) {
	t := time.Date(g.Year, g.Month-1, 1, 0, 0, 0, 0, time.UTC)
	return t.Year(), t.Month()
}

// DaysIn is the number of days in the month. Months out of range wrap into
// the neighbouring year.
func DaysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
