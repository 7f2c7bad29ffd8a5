package calendar

import (
	"sort"
	"time"

	appErrors "github.com/noah-isme/course-scheduling-api/pkg/errors"
)

// Holiday is a named non-working calendar date.
type Holiday struct {
	Date       Date   `db:"date" json:"date"`
	Name       string `db:"name" json:"name"`
	IsNational bool   `db:"is_national" json:"is_national"`
}

// HolidaySet indexes holidays by date. The zero value is an empty set.
type HolidaySet map[Date]Holiday

// SetOf indexes the provided holidays. Later entries win on duplicate dates.
func SetOf(holidays []Holiday) HolidaySet {
	set := make(HolidaySet, len(holidays))
	for _, h := range holidays {
		set[h.Date] = h
	}
	return set
}

// Contains reports whether d is a holiday.
func (s HolidaySet) Contains(d Date) bool {
	_, ok := s[d]
	return ok
}

// Sorted returns the holidays ordered by date.
func (s HolidaySet) Sorted() []Holiday {
	out := make([]Holiday, 0, len(s))
	for _, h := range s {
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

// Merge returns a new set containing both sets; entries from other win.
func (s HolidaySet) Merge(other HolidaySet) HolidaySet {
	merged := make(HolidaySet, len(s)+len(other))
	for k, v := range s {
		merged[k] = v
	}
	for k, v := range other {
		merged[k] = v
	}
	return merged
}

// IsWeekend reports Saturday or Sunday.
func IsWeekend(d Date) bool {
	wd := d.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// IsBusinessDay is false on weekends and holidays.
func IsBusinessDay(d Date, holidays HolidaySet) bool {
	if IsWeekend(d) {
		return false
	}
	return !holidays.Contains(d)
}

// BusinessDaysBetween counts business days in [start, end].
func BusinessDaysBetween(start, end Date, holidays HolidaySet) int {
	if start.After(end) {
		return 0
	}
	count := 0
	for d := start; !d.After(end); d = d.AddDays(1) {
		if IsBusinessDay(d, holidays) {
			count++
		}
	}
	return count
}

// AddBusinessDays advances one calendar day at a time until n business days have passed.
func AddBusinessDays(start Date, n int, holidays HolidaySet) (Date, error) {
	if n < 0 {
		return Date{}, appErrors.Clone(appErrors.ErrInvalidArgument, "business day count must not be negative")
	}
	current := start
	for added := 0; added < n; {
		current = current.AddDays(1)
		if IsBusinessDay(current, holidays) {
			added++
		}
	}
	return current, nil
}

// NextBusinessDay returns the first business day strictly after d.
func NextBusinessDay(d Date, holidays HolidaySet) Date {
	next := d.AddDays(1)
	for !IsBusinessDay(next, holidays) {
		next = next.AddDays(1)
	}
	return next
}

// Range enumerates every date in [start, end]; empty when start > end.
func Range(start, end Date) []Date {
	if start.After(end) {
		return nil
	}
	out := make([]Date, 0, start.DaysUntil(end)+1)
	for d := start; !d.After(end); d = d.AddDays(1) {
		out = append(out, d)
	}
	return out
}
