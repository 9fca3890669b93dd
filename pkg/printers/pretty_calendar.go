package printers

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"tableflip.dev/gracelog/pkg/app"
	"tableflip.dev/gracelog/pkg/calendar"
	"tableflip.dev/gracelog/pkg/timeutil"
)

const width = len("11 12 13 14 15 16 17") // an example week

// Calendar prints the month grid followed by the selected day's entries.
func (pp *PrettyPrint) Calendar(view app.CalendarView, today timeutil.Day) {
	pp.PrintMonth(view.Grid, today)

	if view.Selected.IsZero() {
		return
	}
	pp.TitleWithCount(view.Selected.String(), len(view.Entries))
	pp.Entries(view.Locale, view.Entries...)
}

// PrintMonth renders a grid. Days with entries are bold, the selected day is
// underlined and today is green. Padding days are faint.
func (pp *PrettyPrint) PrintMonth(g calendar.Grid, today timeutil.Day) {
	tf := color.New(color.FgWhite, color.Italic)

	m := fmt.Sprintf("%s %d", g.Month, g.Year)
	mid := max((width-len(m))/2, 0)
	_, _ = tf.Fprintf(pp.out(), "%s%s\n", strings.Repeat(" ", mid), m)
	_, _ = color.New(color.Faint).Fprintln(pp.out(), "Su Mo Tu We Th Fr Sa")

	for _, week := range g.Weeks() {
		for i, c := range week {
			if i > 0 {
				_, _ = fmt.Fprint(pp.out(), " ")
			}
			_, _ = cellColor(c, today).Fprintf(pp.out(), "%2d", c.Day)
		}
		_, _ = fmt.Fprintln(pp.out())
	}
	pp.NewLine()
}

func cellColor(c calendar.Cell, today timeutil.Day) *color.Color {
	if !c.Current {
		return color.New(color.Faint, color.FgWhite)
	}
	attrs := []color.Attribute{}
	if c.HasEntry {
		attrs = append(attrs, color.Bold, color.FgHiWhite)
	} else {
		attrs = append(attrs, color.Faint, color.FgWhite)
	}
	if c.Date == today {
		attrs = append(attrs, color.FgGreen)
	}
	if c.Selected {
		attrs = append(attrs, color.Underline)
	}
	return color.New(attrs...)
}
