package core

import (
	"fmt"
	"strings"
	"time"
)

// Selector names a statistics window.
type Selector string

const (
	RangeWeek   Selector = "week"
	RangeMonth  Selector = "month"
	RangeYear   Selector = "year"
	RangeAll    Selector = "all"
	RangeCustom Selector = "custom"
)

// Selectors lists the accepted selectors in display order.
var Selectors = []Selector{RangeWeek, RangeMonth, RangeYear, RangeAll, RangeCustom}

// DateRange is an inclusive [Start, End] window; nil bounds are open.
type DateRange struct {
	Start *Date
	End   *Date
}

// ParseSelector maps form input to a Selector. Empty input means "all".
func ParseSelector(s string) (Selector, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return RangeAll, nil
	}
	for _, sel := range Selectors {
		if string(sel) == s {
			return sel, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidRangeSelector, s)
}

// ResolveRange turns a selector into concrete bounds relative to today.
// For RangeCustom the custom bounds are returned verbatim.
func ResolveRange(sel Selector, today Date, custom DateRange) (DateRange, error) {
	end := today
	switch sel {
	case RangeWeek:
		return DateRange{Start: today.AddDays(-7).Ptr(), End: end.Ptr()}, nil
	case RangeMonth:
		return DateRange{Start: today.AddMonthsClamped(-1).Ptr(), End: end.Ptr()}, nil
	case RangeYear:
		return DateRange{Start: today.AddMonthsClamped(-12).Ptr(), End: end.Ptr()}, nil
	case RangeAll:
		return DateRange{}, nil
	case RangeCustom:
		if err := custom.Validate(); err != nil {
			return DateRange{}, err
		}
		return custom, nil
	}
	return DateRange{}, fmt.Errorf("%w: %q", ErrInvalidRangeSelector, string(sel))
}

// AddDays shifts the date by n calendar days.
func (d Date) AddDays(n int) Date {
	return Date{Time: d.AddDate(0, 0, n)}
}

// AddMonthsClamped shifts by n months, clamping the day to the last day
// of the target month (2024-03-31 minus one month is 2024-02-29).
func (d Date) AddMonthsClamped(n int) Date {
	first := time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, n, 0)
	day := d.Day()
	if last := daysIn(first.Year(), first.Month()); day > last {
		day = last
	}
	return NewDate(first.Year(), int(first.Month()), day)
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func (r DateRange) Validate() error {
	if r.Start != nil && r.End != nil && r.Start.After(r.End.Time) {
		return ErrInvertedRange
	}
	return nil
}

// IsUnbounded reports whether neither bound is set.
func (r DateRange) IsUnbounded() bool {
	return r.Start == nil && r.End == nil
}

// Contains reports whether d falls inside the range.
func (r DateRange) Contains(d Date) bool {
	if r.Start != nil && d.Before(r.Start.Time) {
		return false
	}
	if r.End != nil && d.After(r.End.Time) {
		return false
	}
	return true
}

// Key is a stable textual form used for cache keys and query strings.
func (r DateRange) Key() string {
	var start, end string
	if r.Start != nil {
		start = r.Start.String()
	}
	if r.End != nil {
		end = r.End.String()
	}
	return start + ".." + end
}
