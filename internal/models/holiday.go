package models

import "github.com/noah-isme/course-scheduling-api/pkg/calendar"

// Holiday is a named non-working date. Stored rows and generated national holidays share the type.
type Holiday = calendar.Holiday

// HolidayFilter bounds a holiday lookup.
type HolidayFilter struct {
	Start        calendar.Date
	End          calendar.Date
	NationalOnly bool
}
