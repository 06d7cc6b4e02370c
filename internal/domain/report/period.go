package report

import (
	"strings"
	"time"

	"github.com/Honest-88/pos-sample/internal/domain/shared"
)

// Period selects the reporting window for profit aggregation
type Period string

const (
	PeriodDay   Period = "DAY"
	PeriodWeek  Period = "WEEK"
	PeriodMonth Period = "MONTH"
	PeriodAll   Period = "ALL"
)

// AllPeriods lists the periods in display order
var AllPeriods = []Period{PeriodDay, PeriodWeek, PeriodMonth, PeriodAll}

// IsValid reports whether the period is one of the known values
func (p Period) IsValid() bool {
	switch p {
	case PeriodDay, PeriodWeek, PeriodMonth, PeriodAll:
		return true
	}
	return false
}

// String returns the string representation of Period
func (p Period) String() string {
	return string(p)
}

// ParsePeriod converts a case-insensitive string into a Period
func ParsePeriod(s string) (Period, error) {
	p := Period(strings.ToUpper(strings.TrimSpace(s)))
	if !p.IsValid() {
		return "", shared.NewValidationError("Period must be one of DAY, WEEK, MONTH, ALL")
	}
	return p, nil
}

// Window is a half-open time range [Start, End).
// The zero Window is unbounded and matches every instant.
type Window struct {
	Start time.Time
	End   time.Time
}

// Bounded reports whether the window restricts time at all
func (w Window) Bounded() bool {
	return !w.Start.IsZero() || !w.End.IsZero()
}

// UTC returns the window with both bounds converted to UTC
func (w Window) UTC() Window {
	return Window{Start: w.Start.UTC(), End: w.End.UTC()}
}

// Contains reports whether t falls in the window
func (w Window) Contains(t time.Time) bool {
	if !w.Bounded() {
		return true
	}
	return !t.Before(w.Start) && t.Before(w.End)
}

// Window returns the calendar window of the period that contains ref,
// evaluated in ref's location.
//   - DAY: midnight of ref to the next midnight
//   - WEEK: Monday 00:00 of ref's week to the following Monday 00:00
//   - MONTH: the 1st of ref's month to the 1st of the next month
//   - ALL: unbounded
func (p Period) Window(ref time.Time) Window {
	loc := ref.Location()
	day := time.Date(ref.Year(), ref.Month(), ref.Day(), 0, 0, 0, 0, loc)

	switch p {
	case PeriodDay:
		return Window{Start: day, End: day.AddDate(0, 0, 1)}
	case PeriodWeek:
		// time.Weekday has Sunday == 0
		offset := (int(day.Weekday()) + 6) % 7
		start := day.AddDate(0, 0, -offset)
		return Window{Start: start, End: start.AddDate(0, 0, 7)}
	case PeriodMonth:
		start := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, loc)
		return Window{Start: start, End: start.AddDate(0, 1, 0)}
	default:
		return Window{}
	}
}
