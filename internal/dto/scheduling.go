package dto

import (
	"github.com/noah-isme/course-scheduling-api/internal/models"
	"github.com/noah-isme/course-scheduling-api/pkg/calendar"
)

// DateRangeQuery carries ISO start and end query parameters.
type DateRangeQuery struct {
	Start string `form:"start" json:"start"`
	End   string `form:"end" json:"end"`
}

// CapacityCheckRequest asks whether extra seats would oversubscribe a pattern.
type CapacityCheckRequest struct {
	RequestedSeats int            `json:"requestedSeats"`
	Date           *calendar.Date `json:"date,omitempty"`
}

// CapacityCheckResponse reports the conflict verdict.
type CapacityCheckResponse struct {
	PatternID      string `json:"patternId"`
	RequestedSeats int    `json:"requestedSeats"`
	Conflict       bool   `json:"conflict"`
}

// CourseScheduleRequest projects a course calendar.
type CourseScheduleRequest struct {
	StartDate          calendar.Date    `json:"startDate"`
	CourseHours        float64          `json:"courseHours" validate:"gt=0"`
	WeeklyClasses      int              `json:"weeklyClasses" validate:"min=1,max=7"`
	ClassStart         string           `json:"classStart,omitempty"`
	ClassMinutes       int              `json:"classMinutes,omitempty" validate:"omitempty,min=30,max=720"`
	Holidays           []models.Holiday `json:"holidays,omitempty"`
	UseHolidayCalendar bool             `json:"useHolidayCalendar"`
}
