package dto

import (
	"github.com/noah-isme/course-scheduling-api/internal/models"
	"github.com/noah-isme/course-scheduling-api/pkg/calendar"
)

// Form field names referenced in field errors.
const (
	FieldStudentID     = "student_id"
	FieldCourseID      = "course_id"
	FieldScheduleSlot1 = "schedule_slot_1"
	FieldScheduleSlot2 = "schedule_slot_2"
)

// EnrollmentForm is the raw enrollment request submitted by a student.
type EnrollmentForm struct {
	StudentID            string `json:"student_id" validate:"required,uuid"`
	CourseID             string `json:"course_id" validate:"required,uuid"`
	IsOnline             bool   `json:"is_online"`
	HasTwoClassesPerWeek bool   `json:"has_two_classes_per_week"`
	ScheduleSlot1        string `json:"schedule_slot_1"`
	ScheduleSlot2        string `json:"schedule_slot_2"`
}

// FieldError attaches a message to a form field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationResult reports every field problem found in a form.
type ValidationResult struct {
	IsValid bool         `json:"isValid"`
	Errors  []FieldError `json:"errors"`
}

// ScheduleEntry is one weekly class in the persisted schedule payload.
type ScheduleEntry struct {
	InstructorID string `json:"instructorId"`
	DayOfWeek    int    `json:"dayOfWeek"`
	StartTime    string `json:"startTime"`
	EndTime      string `json:"endTime"`
}

// SchedulePayload is the normalised schedule stored with an enrollment request.
type SchedulePayload struct {
	StudentID string          `json:"studentId"`
	CourseID  string          `json:"courseId"`
	IsOnline  bool            `json:"isOnline"`
	Schedule  []ScheduleEntry `json:"schedule"`
}

// EnrollmentDecision is either Ok with a payload or Invalid with field errors.
type EnrollmentDecision struct {
	Valid   bool             `json:"valid"`
	Payload *SchedulePayload `json:"payload,omitempty"`
	Errors  []FieldError     `json:"errors,omitempty"`
}

// Ok builds an accepted decision.
func Ok(payload SchedulePayload) EnrollmentDecision {
	return EnrollmentDecision{Valid: true, Payload: &payload}
}

// Invalid builds a rejected decision.
func Invalid(errs []FieldError) EnrollmentDecision {
	return EnrollmentDecision{Valid: false, Errors: errs}
}

// CreateEnrollmentRequest claims one seat of a pattern on a class date.
type CreateEnrollmentRequest struct {
	StudentID string        `json:"studentId" validate:"required,uuid"`
	CourseID  string        `json:"courseId" validate:"required,uuid"`
	PatternID string        `json:"patternId" validate:"required,uuid"`
	ClassDate calendar.Date `json:"classDate"`
}

// EnrollmentResult returns the stored enrollment with the seat usage after the claim.
type EnrollmentResult struct {
	Enrollment *models.Enrollment  `json:"enrollment"`
	Capacity   models.CapacityInfo `json:"capacity"`
}
