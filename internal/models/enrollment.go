package models

import (
	"time"

	"github.com/noah-isme/course-scheduling-api/pkg/calendar"
)

// EnrollmentStatus represents the lifecycle of an enrollment.
type EnrollmentStatus string

// Possible enrollment statuses.
const (
	EnrollmentStatusActive    EnrollmentStatus = "active"
	EnrollmentStatusCompleted EnrollmentStatus = "completed"
	EnrollmentStatusCancelled EnrollmentStatus = "cancelled"
	EnrollmentStatusExpired   EnrollmentStatus = "expired"
)

// Valid reports whether s is a known status.
func (s EnrollmentStatus) Valid() bool {
	switch s {
	case EnrollmentStatusActive, EnrollmentStatusCompleted, EnrollmentStatusCancelled, EnrollmentStatusExpired:
		return true
	}
	return false
}

// Enrollment occupies one seat of one availability pattern on one class date while active.
type Enrollment struct {
	ID                 string           `db:"id" json:"id"`
	StudentID          string           `db:"student_id" json:"student_id"`
	CourseID           string           `db:"course_id" json:"course_id"`
	TeacherID          string           `db:"teacher_id" json:"teacher_id"`
	AvailabilitySlotID string           `db:"availability_slot_id" json:"availability_slot_id"`
	ClassDate          calendar.Date    `db:"class_date" json:"class_date"`
	Status             EnrollmentStatus `db:"status" json:"status"`
	CreatedAt          time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time        `db:"updated_at" json:"updated_at"`
}

// EnrollmentFilter provides filters for listing enrollments.
type EnrollmentFilter struct {
	StudentID          string
	TeacherID          string
	AvailabilitySlotID string
	ClassDate          *calendar.Date
	Status             EnrollmentStatus
	Page               int
	PageSize           int
}
