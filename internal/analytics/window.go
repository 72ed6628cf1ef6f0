// Package analytics turns raw transactions, budgets and saving logs into
// period reports and dashboard figures. Every function here is pure: callers
// pass the reference date and already-loaded records.
package analytics

import (
	"time"

	"github.com/pennywise/pennywise-backend/internal/domain"
	"github.com/pennywise/pennywise-backend/internal/util"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Window is an inclusive range of calendar dates
type Window struct {
	Start time.Time
	End   time.Time
}

// ResolveWindow maps a period token to a window ending today.
// "year" starts on January 1st; any other token falls back to the six month window.
func ResolveWindow(today time.Time, period string) Window {
	end := util.DateOf(today)
	if period == domain.PeriodYear {
		return Window{Start: time.Date(end.Year(), time.January, 1, 0, 0, 0, 0, time.UTC), End: end}
	}
	return Window{Start: sixMonthStart(end), End: end}
}

// sixMonthStart is the first day of the month six months before end
func sixMonthStart(end time.Time) time.Time {
	return util.AddMonths(util.MonthStart(end), -6)
}

// Contains reports whether t's calendar date lies inside the window
func (w Window) Contains(t time.Time) bool {
	d := util.DateOf(t)
	return !d.Before(w.Start) && !d.After(w.End)
}

// MonthCount is the number of calendar months the window touches, at least 1
func (w Window) MonthCount() int {
	n := util.MonthsBetween(w.Start, w.End)
	if n < 1 {
		return 1
	}
	return n
}

// Months lists the first day of every month reported for the window, oldest first.
// A window starting exactly on its end date's six month start is reported as the
// six months ending with the end month, so the default period always has six points.
func (w Window) Months() []time.Time {
	last := util.MonthStart(w.End)
	first := util.MonthStart(w.Start)
	if w.Start.Equal(sixMonthStart(w.End)) {
		first = util.AddMonths(last, -5)
	}

	var months []time.Time
	for m := first; !m.After(last); m = m.AddDate(0, 1, 0) {
		months = append(months, m)
	}
	return months
}

type monthKey struct {
	year  int
	month time.Month
}

func keyOf(t time.Time) monthKey {
	return monthKey{year: t.Year(), month: t.Month()}
}
