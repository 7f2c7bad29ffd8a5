package models

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	appErrors "github.com/noah-isme/course-scheduling-api/pkg/errors"
	"github.com/noah-isme/course-scheduling-api/pkg/timerange"
)

var uuidPattern = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)

// IsUUID reports whether raw has the canonical 8-4-4-4-12 hex shape.
func IsUUID(raw string) bool {
	return uuidPattern.MatchString(raw)
}

// ScheduleSelector names a teacher's weekly slot as teacherId:day:HH:MM-HH:MM.
// Day runs 1 (Monday) to 7 (Sunday). Build one with NewScheduleSelector or ParseScheduleSelector.
type ScheduleSelector struct {
	teacherID string
	day       int
	span      timerange.Range
}

// NewScheduleSelector validates every component.
func NewScheduleSelector(teacherID string, day int, startTime, endTime string) (ScheduleSelector, error) {
	if !IsUUID(teacherID) {
		return ScheduleSelector{}, appErrors.Clone(appErrors.ErrInvalidFormat, fmt.Sprintf("teacher id %q is not a uuid", teacherID))
	}
	if day < 1 || day > 7 {
		return ScheduleSelector{}, appErrors.Clone(appErrors.ErrInvalidFormat, fmt.Sprintf("day %d out of range 1-7", day))
	}
	span, err := timerange.Parse(startTime, endTime)
	if err != nil {
		return ScheduleSelector{}, err
	}
	return ScheduleSelector{teacherID: strings.ToLower(teacherID), day: day, span: span}, nil
}

// ParseScheduleSelector parses the compact token. A bare teacher id is rejected.
func ParseScheduleSelector(token string) (ScheduleSelector, error) {
	parts := strings.SplitN(strings.TrimSpace(token), ":", 3)
	if len(parts) != 3 {
		return ScheduleSelector{}, appErrors.Clone(appErrors.ErrInvalidFormat, fmt.Sprintf("invalid schedule selector %q: expected teacherId:day:HH:MM-HH:MM", token))
	}
	if len(parts[1]) != 1 {
		return ScheduleSelector{}, appErrors.Clone(appErrors.ErrInvalidFormat, fmt.Sprintf("invalid day %q in schedule selector", parts[1]))
	}
	day, err := strconv.Atoi(parts[1])
	if err != nil {
		return ScheduleSelector{}, appErrors.Clone(appErrors.ErrInvalidFormat, fmt.Sprintf("invalid day %q in schedule selector", parts[1]))
	}
	times := strings.Split(parts[2], "-")
	if len(times) != 2 {
		return ScheduleSelector{}, appErrors.Clone(appErrors.ErrInvalidFormat, fmt.Sprintf("invalid time range %q in schedule selector", parts[2]))
	}
	return NewScheduleSelector(parts[0], day, times[0], times[1])
}

// TeacherID returns the lower-cased teacher id.
func (s ScheduleSelector) TeacherID() string { return s.teacherID }

// Day returns the ISO day, 1 (Monday) to 7 (Sunday).
func (s ScheduleSelector) Day() int { return s.day }

// Weekday maps Day onto time.Weekday, 7 becoming Sunday.
func (s ScheduleSelector) Weekday() time.Weekday { return time.Weekday(s.day % 7) }

// Range returns the selected time span.
func (s ScheduleSelector) Range() timerange.Range { return s.span }

// StartTime returns HH:MM.
func (s ScheduleSelector) StartTime() string { return s.span.StartClock() }

// EndTime returns HH:MM.
func (s ScheduleSelector) EndTime() string { return s.span.EndClock() }

// Time returns HH:MM-HH:MM.
func (s ScheduleSelector) Time() string { return s.span.String() }

// IsZero reports an unset selector.
func (s ScheduleSelector) IsZero() bool { return s.teacherID == "" }

// String renders the compact token; ParseScheduleSelector(s.String()) == s.
func (s ScheduleSelector) String() string {
	if s.IsZero() {
		return ""
	}
	return fmt.Sprintf("%s:%d:%s", s.teacherID, s.day, s.span.String())
}

// MarshalText encodes the token.
func (s ScheduleSelector) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes the token.
func (s *ScheduleSelector) UnmarshalText(text []byte) error {
	parsed, err := ParseScheduleSelector(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
