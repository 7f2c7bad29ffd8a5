package models

import "github.com/noah-isme/course-scheduling-api/pkg/calendar"

// ScheduledClass is one projected class meeting.
type ScheduledClass struct {
	Sequence  int           `json:"sequence"`
	Week      int           `json:"week"`
	Date      calendar.Date `json:"date"`
	StartTime string        `json:"start_time"`
	EndTime   string        `json:"end_time"`
}

// CourseSchedule is the projected class calendar of a course.
type CourseSchedule struct {
	StartDate            calendar.Date    `json:"start_date"`
	EndDate              calendar.Date    `json:"end_date"`
	TotalWeeks           int              `json:"total_weeks"`
	TotalClasses         int              `json:"total_classes"`
	ClassDurationMinutes int              `json:"class_duration_minutes"`
	HolidaysExcluded     []calendar.Date  `json:"holidays_excluded"`
	ClassDates           []ScheduledClass `json:"class_dates"`
}
