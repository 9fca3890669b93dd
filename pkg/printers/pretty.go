package printers

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/muesli/reflow/wordwrap"

	"tableflip.dev/gracelog/pkg/app"
	"tableflip.dev/gracelog/pkg/assist"
	"tableflip.dev/gracelog/pkg/editor"
	"tableflip.dev/gracelog/pkg/entry"
	"tableflip.dev/gracelog/pkg/scripture"
)

type PrettyPrint struct {
	ShowID bool
	// Width wraps long text; 0 means 80.
	Width int
	// Out defaults to color.Output.
	Out io.Writer
}

const idWidth = len("entry-V1StGXR8_Z5jdHi6B-myT  ")

var spacing = strings.Repeat(" ", idWidth)

func (pp *PrettyPrint) out() io.Writer {
	if pp.Out != nil {
		return pp.Out
	}
	return color.Output
}

func (pp *PrettyPrint) width() int {
	if pp.Width > 0 {
		return pp.Width
	}
	return 80
}

func (pp *PrettyPrint) NewLine() {
	_, _ = fmt.Fprintln(pp.out())
}

func (pp *PrettyPrint) Title(title string) {
	t := color.New(color.Bold, color.Underline)
	_, _ = t.Fprintln(pp.out(), title)
}

func (pp *PrettyPrint) TitleWithCount(title string, count int) {
	t := color.New(color.Bold, color.Underline)
	c := color.New(color.Faint)

	_, _ = t.Fprint(pp.out(), title)
	_, _ = c.Fprintf(pp.out(), " - %d", count)

	switch count {
	case 1:
		_, _ = c.Fprintln(pp.out(), " entry")
	default:
		_, _ = c.Fprintln(pp.out(), " entries")
	}
}

// Section prints a labelled, wrapped block. Empty text is shown faint.
func (pp *PrettyPrint) Section(label, text string) {
	l := color.New(color.FgHiYellow)
	_, _ = l.Fprintln(pp.out(), label)
	if strings.TrimSpace(text) == "" {
		_, _ = color.New(color.Faint, color.Italic).Fprint(pp.out(), "  none\n")
		return
	}
	for _, line := range strings.Split(wordwrap.String(text, pp.width()-2), "\n") {
		_, _ = fmt.Fprintf(pp.out(), "  %s\n", line)
	}
}

// Session prints the editor state.
func (pp *PrettyPrint) Session(st editor.State, degraded bool) {
	mode := color.New(color.FgCyan)
	if st.Mode == editor.Editing {
		mode = color.New(color.FgGreen)
	}
	title := fmt.Sprintf("%s %d", st.Book, st.Chapter)
	if st.VerseRange != "" {
		title += ":" + st.VerseRange
	}
	pp.Title(title)
	_, _ = mode.Fprint(pp.out(), st.Mode.String())
	if st.EntryID != "" {
		_, _ = color.New(color.Faint).Fprintf(pp.out(), " %s", st.EntryID)
	}
	_, _ = fmt.Fprintln(pp.out())
	if degraded {
		_, _ = color.New(color.FgRed).Fprintln(pp.out(), "storage unavailable, changes are kept for this session only")
	}
	pp.NewLine()

	pp.Section("Reflection", st.Reflection)
	pp.Section("Application", st.Application)
	pp.Section("Prayer", st.Prayer)
	pp.Tags(st.Tags)
}

func (pp *PrettyPrint) Tags(tags []string) {
	if len(tags) == 0 {
		return
	}
	c := color.New(color.FgMagenta)
	parts := make([]string, len(tags))
	for i, t := range tags {
		parts[i] = "#" + t
	}
	_, _ = c.Fprintln(pp.out(), strings.Join(parts, " "))
}

// Entries lists entries one per line, books shown in l.
func (pp *PrettyPrint) Entries(l scripture.Locale, entries ...entry.Entry) {
	if len(entries) == 0 {
		f := color.New(color.Faint, color.Italic)
		if pp.ShowID {
			_, _ = f.Fprint(pp.out(), spacing)
		}
		_, _ = f.Fprint(pp.out(), " none\n\n")
		return
	}

	t := color.New()
	d := color.New(color.Faint)
	y := color.New(color.FgHiYellow, color.Italic, color.Faint)

	for _, e := range entries {
		if pp.ShowID {
			_, _ = y.Fprint(pp.out(), e.ID)
			if pad := idWidth - len(e.ID); pad > 0 {
				_, _ = y.Fprint(pp.out(), strings.Repeat(" ", pad))
			} else {
				_, _ = y.Fprint(pp.out(), "  ")
			}
		}
		_, _ = d.Fprintf(pp.out(), "%s  ", e.Date)
		_, _ = t.Fprintf(pp.out(), "%s  %s\n", e.Title(l), firstLine(e.ReflectionText, 48))
	}
	_, _ = t.Fprintln(pp.out())
}

func firstLine(s string, max int) string {
	s, _, _ = strings.Cut(strings.TrimSpace(s), "\n")
	r := []rune(s)
	if len(r) > max {
		return string(r[:max-1]) + "…"
	}
	return s
}

// Report prints the analytics summary.
func (pp *PrettyPrint) Report(r app.ReportResult) {
	pp.Title("Report")
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow("Streak", fmt.Sprintf("%d", r.Streak))
	tbl.AddRow("Total", fmt.Sprintf("%d", r.Total))
	tbl.RightAlign(0)
	_, _ = fmt.Fprintln(pp.out(), tbl)
	pp.NewLine()
	_, _ = color.New(color.FgHiYellow).Fprintln(pp.out(), "Recent tags")
	if len(r.Tags) == 0 {
		_, _ = color.New(color.Faint, color.Italic).Fprint(pp.out(), "  none\n")
		return
	}
	pp.Tags(r.Tags)
}

// Books prints the catalog with chapter counts.
func (pp *PrettyPrint) Books(l scripture.Locale) {
	bold := color.New(color.Bold)
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold.Sprint("#"), bold.Sprint("Book"), bold.Sprint("Chapters"))
	for i, b := range scripture.Books(l) {
		tbl.AddRow(fmt.Sprintf("%d", i+1), b.Name, fmt.Sprintf("%d", b.Chapters))
	}
	tbl.RightAlign(0)
	tbl.RightAlign(2)
	_, _ = fmt.Fprintln(pp.out(), tbl)
}

// Profile prints the user settings.
func (pp *PrettyPrint) Profile(p entry.Profile) {
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow("user", p.UserID)
	if p.Email != "" {
		tbl.AddRow("email", p.Email)
	}
	tbl.AddRow("locale", p.Locale.String())
	tbl.AddRow("subscription", string(p.SubscriptionStatus))
	_, _ = fmt.Fprintln(pp.out(), tbl)
}

// Assist prints the commentary, the shareable essay first.
func (pp *PrettyPrint) Assist(r *assist.Response) {
	if r == nil {
		return
	}
	pp.Title("AI Assist")
	pp.NewLine()
	pp.Section("Sharing", r.SharingSummary.Summary)
	pp.list("Questions", r.SharingSummary.Questions)
	pp.Section("Prayer point", r.SharingSummary.PrayerPoint)
	pp.list("Observations", r.Observations)
	pp.list("Applications", r.Applications)
	pp.list("Prayers", r.Prayers)
}

func (pp *PrettyPrint) list(label string, items []string) {
	if len(items) == 0 {
		return
	}
	pp.Section(label, "- "+strings.Join(items, "\n- "))
}
