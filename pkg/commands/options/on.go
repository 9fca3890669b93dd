package options

import (
	"time"

	"github.com/spf13/cobra"

	"tableflip.dev/gracelog/pkg/timeutil"
)

const (
	layoutISO      = "2006-1-2"
	layoutISOShort = "1/2"
)

// OnOptions selects a day.
type OnOptions struct {
	OnString string
}

func AddOnArgs(cmd *cobra.Command, o *OnOptions) {
	cmd.Flags().StringVar(&o.OnString, "on", "",
		`Specify a date, example: --on="2024-2-28" or --on="2/28".`)
}

// GetOn parses the flag. The zero Day is returned when it is unset.
func (o *OnOptions) GetOn(today timeutil.Day) (timeutil.Day, error) {
	if o.OnString == "" {
		return "", nil
	}
	return ParseOn(o.OnString, today)
}

// ParseOn reads a full date, or a month/day in the year of today. A short
// date past today means the same day last year: journals look back.
func ParseOn(s string, today timeutil.Day) (timeutil.Day, error) {
	t, err := time.Parse(layoutISO, s)
	if err == nil {
		return timeutil.DayOf(t), nil
	}
	t, err = time.Parse(layoutISOShort, s)
	if err != nil {
		return "", err
	}
	year := today.Time().Year()
	d := timeutil.NewDay(year, t.Month(), t.Day())
	if d.After(today) {
		d = timeutil.NewDay(year-1, t.Month(), t.Day())
	}
	return d, nil
}

// MonthOptions selects a calendar month.
type MonthOptions struct {
	Month string
}

func AddMonthArgs(cmd *cobra.Command, o *MonthOptions) {
	cmd.Flags().StringVar(&o.Month, "month", "",
		`Month to show, example: --month="2024-02". Defaults to the month of --on or today.`)
}

// GetMonth returns the selected month, falling back to the month of day.
func (o *MonthOptions) GetMonth(day timeutil.Day) (int, time.Month, error) {
	if o.Month == "" {
		t := day.Time()
		return t.Year(), t.Month(), nil
	}
	return timeutil.MonthOf(o.Month)
}
