package service

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/course-scheduling-api/internal/dto"
	appErrors "github.com/noah-isme/course-scheduling-api/pkg/errors"
)

func inPersonForm(slot1, slot2 string, twice bool) dto.EnrollmentForm {
	return dto.EnrollmentForm{
		StudentID:            studentA,
		CourseID:             courseA,
		HasTwoClassesPerWeek: twice,
		ScheduleSlot1:        slot1,
		ScheduleSlot2:        slot2,
	}
}

func fieldsOf(errs []dto.FieldError) []string {
	fields := make([]string, 0, len(errs))
	for _, e := range errs {
		fields = append(fields, e.Field)
	}
	return fields
}

func TestValidateRejectsIdenticalSlots(t *testing.T) {
	v := NewEnrollmentValidator(nil, nil)
	slot := teacherA + ":3:14:00-16:00"

	result := v.Validate(inPersonForm(slot, slot, true))
	assert.False(t, result.IsValid)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, dto.FieldScheduleSlot2, result.Errors[0].Field)
}

func TestValidateRejectsOverlappingSecondSlot(t *testing.T) {
	v := NewEnrollmentValidator(nil, nil)

	result := v.Validate(inPersonForm(teacherA+":3:14:00-16:00", teacherA+":3:15:00-17:00", true))
	assert.False(t, result.IsValid)
	assert.Equal(t, []string{dto.FieldScheduleSlot2}, fieldsOf(result.Errors))

	result = v.Validate(inPersonForm(teacherA+":3:14:00-16:00", teacherA+":3:16:00-18:00", true))
	assert.True(t, result.IsValid)

	result = v.Validate(inPersonForm(teacherA+":3:14:00-16:00", teacherB+":3:14:00-16:00", true))
	assert.True(t, result.IsValid)
}

func TestValidateRequiresSlotsForInPersonForms(t *testing.T) {
	v := NewEnrollmentValidator(nil, nil)

	result := v.Validate(inPersonForm("", "", true))
	assert.ElementsMatch(t, []string{dto.FieldScheduleSlot1, dto.FieldScheduleSlot2}, fieldsOf(result.Errors))

	result = v.Validate(inPersonForm(teacherA+":1:09:00-11:00", "", false))
	assert.True(t, result.IsValid)
}

func TestValidateRejectsMalformedSelectors(t *testing.T) {
	v := NewEnrollmentValidator(nil, nil)

	for _, token := range []string{
		teacherA,
		teacherA + ":8:09:00-11:00",
		teacherA + ":1:11:00-09:00",
		"not-a-uuid:1:09:00-11:00",
		teacherA + ":1:09:00-09:15",
	} {
		result := v.Validate(inPersonForm(token, "", false))
		assert.False(t, result.IsValid, token)
		assert.Equal(t, []string{dto.FieldScheduleSlot1}, fieldsOf(result.Errors), token)
	}
}

func TestValidateReportsFieldNamesForIdentity(t *testing.T) {
	v := NewEnrollmentValidator(nil, nil)

	result := v.Validate(dto.EnrollmentForm{StudentID: "abc", IsOnline: true})
	assert.False(t, result.IsValid)
	assert.ElementsMatch(t, []string{dto.FieldStudentID, dto.FieldCourseID}, fieldsOf(result.Errors))
}

func TestOnlineFormsIgnoreSelectors(t *testing.T) {
	v := NewEnrollmentValidator(nil, nil)
	form := dto.EnrollmentForm{StudentID: studentA, CourseID: courseA, IsOnline: true, ScheduleSlot1: "garbage"}

	assert.True(t, v.Validate(form).IsValid)
	payload, err := v.Transform(form)
	require.NoError(t, err)
	assert.True(t, payload.IsOnline)
	assert.NotNil(t, payload.Schedule)
	assert.Empty(t, payload.Schedule)
}

func TestTransformBuildsSchedule(t *testing.T) {
	v := NewEnrollmentValidator(nil, nil)

	payload, err := v.Transform(inPersonForm(teacherA+":3:14:00-16:00", teacherB+":7:09:30-11:00", true))
	require.NoError(t, err)
	assert.Equal(t, studentA, payload.StudentID)
	assert.Equal(t, courseA, payload.CourseID)
	assert.Equal(t, []dto.ScheduleEntry{
		{InstructorID: teacherA, DayOfWeek: 3, StartTime: "14:00:00", EndTime: "16:00:00"},
		{InstructorID: teacherB, DayOfWeek: 7, StartTime: "09:30:00", EndTime: "11:00:00"},
	}, payload.Schedule)

	_, err = v.Transform(inPersonForm("", "", false))
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
}

func TestDecide(t *testing.T) {
	v := NewEnrollmentValidator(nil, nil)

	ok := v.Decide(inPersonForm(teacherA+":1:09:00-11:00", "", false))
	assert.True(t, ok.Valid)
	require.NotNil(t, ok.Payload)
	assert.Len(t, ok.Payload.Schedule, 1)

	bad := v.Decide(inPersonForm(teacherA+":1:09:00-11:00", teacherA+":1:09:00-11:00", true))
	assert.False(t, bad.Valid)
	assert.Nil(t, bad.Payload)
	assert.Equal(t, []string{dto.FieldScheduleSlot2}, fieldsOf(bad.Errors))
}
