package models

import (
	"time"

	"github.com/noah-isme/course-scheduling-api/pkg/calendar"
	"github.com/noah-isme/course-scheduling-api/pkg/timerange"
)

// MinPatternMinutes is the shortest bookable pattern.
const MinPatternMinutes = 30

// AvailabilityPattern is a teacher's recurring weekly commitment. DayOfWeek is 0 (Sunday) to 6 (Saturday).
type AvailabilityPattern struct {
	ID          string    `db:"id" json:"id"`
	TeacherID   string    `db:"teacher_id" json:"teacher_id"`
	DayOfWeek   int       `db:"day_of_week" json:"day_of_week"`
	StartTime   string    `db:"start_time" json:"start_time"`
	EndTime     string    `db:"end_time" json:"end_time"`
	MaxStudents int       `db:"max_students" json:"max_students"`
	IsActive    bool      `db:"is_active" json:"is_active"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// Weekday converts DayOfWeek to time.Weekday.
func (p AvailabilityPattern) Weekday() time.Weekday {
	return time.Weekday(p.DayOfWeek)
}

// TimeRange parses the pattern's start and end clocks.
func (p AvailabilityPattern) TimeRange() (timerange.Range, error) {
	return timerange.Parse(p.StartTime, p.EndTime)
}

// AvailabilityFilter narrows pattern queries.
type AvailabilityFilter struct {
	TeacherID  string
	DayOfWeek  *int
	ActiveOnly bool
}

// SlotOccurrence is one dated instance of a pattern, derived per query.
type SlotOccurrence struct {
	PatternID             string        `json:"pattern_id"`
	TeacherID             string        `json:"teacher_id"`
	Date                  calendar.Date `json:"date"`
	StartTime             string        `json:"start_time"`
	EndTime               string        `json:"end_time"`
	MaxStudents           int           `json:"max_students"`
	CurrentEnrollments    int           `json:"current_enrollments"`
	AvailableSpots        int           `json:"available_spots"`
	ConflictsWithHoliday  bool          `json:"conflicts_with_holiday"`
	OverlappingPatternIDs []string      `json:"overlapping_pattern_ids,omitempty"`
}

// SlotKey identifies the seat pool of one pattern on one date.
type SlotKey struct {
	PatternID string
	ClassDate calendar.Date
}

// CapacityInfo summarises seat usage for a pattern on a date.
type CapacityInfo struct {
	PatternID          string         `json:"pattern_id"`
	Date               *calendar.Date `json:"date,omitempty"`
	MaxStudents        int            `json:"max_students"`
	CurrentEnrollments int            `json:"current_enrollments"`
	AvailableSpots     int            `json:"available_spots"`
	IsAtCapacity       bool           `json:"is_at_capacity"`
}

// NewCapacityInfo derives spots from the maximum and the active count. Spots never go negative.
func NewCapacityInfo(patternID string, date *calendar.Date, maxStudents, current int) CapacityInfo {
	spots := maxStudents - current
	if spots < 0 {
		spots = 0
	}
	return CapacityInfo{
		PatternID:          patternID,
		Date:               date,
		MaxStudents:        maxStudents,
		CurrentEnrollments: current,
		AvailableSpots:     spots,
		IsAtCapacity:       spots == 0,
	}
}

// OverlapPair reports two same-day patterns of a teacher whose time ranges intersect.
type OverlapPair struct {
	PatternA       string `json:"pattern_a"`
	PatternB       string `json:"pattern_b"`
	DayOfWeek      int    `json:"day_of_week"`
	OverlapMinutes int    `json:"overlap_minutes"`
}

// Finding codes used in availability reports.
const (
	FindingOverlap          = "OVERLAP"
	FindingInvalidCapacity  = "INVALID_CAPACITY"
	FindingInvalidTimeRange = "INVALID_TIME_RANGE"
	FindingEarlyStart       = "EARLY_START"
	FindingLateEnd          = "LATE_END"
	FindingHighCapacity     = "HIGH_CAPACITY"
	FindingNoActivePattern  = "NO_ACTIVE_PATTERN"
)

// AvailabilityFinding is one issue or warning about a teacher's pattern set.
type AvailabilityFinding struct {
	Code       string   `json:"code"`
	PatternIDs []string `json:"pattern_ids,omitempty"`
	Message    string   `json:"message"`
}

// AvailabilityReport is the outcome of validating a teacher's pattern set.
type AvailabilityReport struct {
	TeacherID string                `json:"teacher_id"`
	IsValid   bool                  `json:"is_valid"`
	Issues    []AvailabilityFinding `json:"issues"`
	Warnings  []AvailabilityFinding `json:"warnings"`
}
