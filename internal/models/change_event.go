package models

import (
	"time"

	"github.com/noah-isme/course-scheduling-api/pkg/calendar"
)

// ChangeEventType classifies a scheduling change.
type ChangeEventType string

// Change event types.
const (
	ChangeEnrollmentCreated   ChangeEventType = "enrollment.created"
	ChangeEnrollmentCancelled ChangeEventType = "enrollment.cancelled"
	ChangeEnrollmentExpired   ChangeEventType = "enrollment.expired"
	ChangeEnrollmentUpdated   ChangeEventType = "enrollment.updated"
	ChangePatternChanged      ChangeEventType = "pattern.changed"
)

// Change event sources.
const (
	ChangeSourceService  = "service"
	ChangeSourceDatabase = "database"
)

// ChangeEvent signals that something about a teacher's schedule changed. Observers re-query on receipt.
type ChangeEvent struct {
	ID         string          `json:"id"`
	Type       ChangeEventType `json:"type"`
	TeacherID  string          `json:"teacher_id"`
	PatternID  string          `json:"pattern_id,omitempty"`
	ClassDate  *calendar.Date  `json:"class_date,omitempty"`
	OccurredAt time.Time       `json:"occurred_at"`
	Source     string          `json:"source"`
}
