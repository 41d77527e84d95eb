package model

import (
	"fmt"
	"strings"
	"time"
)

// DateRange is an inclusive date window. A nil bound imposes no constraint.
type DateRange struct {
	From *Date `json:"from,omitempty"`
	To   *Date `json:"to,omitempty"`
}

// Contains reports whether d lies within the range, bounds included.
func (r DateRange) Contains(d Date) bool {
	if r.From != nil && d.Before(*r.From) {
		return false
	}
	if r.To != nil && d.After(*r.To) {
		return false
	}
	return true
}

// Unbounded reports whether neither bound is set.
func (r DateRange) Unbounded() bool {
	return r.From == nil && r.To == nil
}

// Days returns the number of calendar days covered, or 0 when either bound is open.
func (r DateRange) Days() int {
	if r.From == nil || r.To == nil || r.To.Before(*r.From) {
		return 0
	}
	return int(r.To.Time().Sub(r.From.Time()).Hours()/24) + 1
}

// Previous returns the range to compare r against. A whole calendar month or
// year maps to the month or year before it; any other bounded range maps to
// the equally long window ending the day before r starts. Open ranges have
// no previous range.
func (r DateRange) Previous() (DateRange, bool) {
	if r.From == nil || r.To == nil || r.To.Before(*r.From) {
		return DateRange{}, false
	}
	from, to := r.From.Time(), r.To.Time()
	if from.Day() == 1 && to.AddDate(0, 0, 1).Day() == 1 {
		switch {
		case from.Year() == to.Year() && from.Month() == to.Month():
			return bounded(NewDate(from.Year(), from.Month()-1, 1), r.From.AddDays(-1)), true
		case from.Month() == time.January && to.Month() == time.December && from.Year() == to.Year():
			return bounded(NewDate(from.Year()-1, time.January, 1), r.From.AddDays(-1)), true
		}
	}
	return bounded(r.From.AddDays(-r.Days()), r.From.AddDays(-1)), true
}

func (r DateRange) String() string {
	from, to := "…", "…"
	if r.From != nil {
		from = r.From.String()
	}
	if r.To != nil {
		to = r.To.String()
	}
	if r.Unbounded() {
		return "all time"
	}
	return from + " to " + to
}

func bounded(from, to Date) DateRange {
	return DateRange{From: &from, To: &to}
}

// Today covers only the current day.
func Today(now time.Time) DateRange {
	d := DateOf(now)
	return bounded(d, d)
}

// ThisWeek covers Monday of the current week through today.
func ThisWeek(now time.Time) DateRange {
	d := DateOf(now)
	offset := (int(d.Weekday()) + 6) % 7
	return bounded(d.AddDays(-offset), d)
}

// ThisMonth covers the first through the last day of the current month.
func ThisMonth(now time.Time) DateRange {
	first := NewDate(now.Year(), now.Month(), 1)
	last := NewDate(now.Year(), now.Month()+1, 1).AddDays(-1)
	return bounded(first, last)
}

// ThisYear covers January 1 through December 31 of the current year.
func ThisYear(now time.Time) DateRange {
	return bounded(NewDate(now.Year(), time.January, 1), NewDate(now.Year(), time.December, 31))
}

// Period names accepted by RangeForPeriod.
const (
	PeriodDay   = "day"
	PeriodWeek  = "week"
	PeriodMonth = "month"
	PeriodYear  = "year"
	PeriodAll   = "all"
)

// Periods lists the period names in cycling order.
var Periods = []string{PeriodDay, PeriodWeek, PeriodMonth, PeriodYear, PeriodAll}

// RangeForPeriod resolves a named period against now.
func RangeForPeriod(period string, now time.Time) (DateRange, error) {
	switch strings.ToLower(strings.TrimSpace(period)) {
	case PeriodDay, "daily", "today":
		return Today(now), nil
	case PeriodWeek, "weekly":
		return ThisWeek(now), nil
	case PeriodMonth, "monthly", "":
		return ThisMonth(now), nil
	case PeriodYear, "yearly":
		return ThisYear(now), nil
	case PeriodAll:
		return DateRange{}, nil
	}
	return DateRange{}, fmt.Errorf("unknown period %q (want one of %s)", period, strings.Join(Periods, ", "))
}

// ParseRange builds a range from optional YYYY-MM-DD strings. Empty strings
// leave the bound open.
func ParseRange(from, to string) (DateRange, error) {
	var r DateRange
	if from != "" {
		d, err := ParseDate(from)
		if err != nil {
			return DateRange{}, fmt.Errorf("from: %w", err)
		}
		r.From = &d
	}
	if to != "" {
		d, err := ParseDate(to)
		if err != nil {
			return DateRange{}, fmt.Errorf("to: %w", err)
		}
		r.To = &d
	}
	if r.From != nil && r.To != nil && r.To.Before(*r.From) {
		return DateRange{}, fmt.Errorf("range end %s is before start %s", r.To, r.From)
	}
	return r, nil
}
