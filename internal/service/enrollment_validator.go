package service

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/course-scheduling-api/internal/dto"
	"github.com/noah-isme/course-scheduling-api/internal/models"
	appErrors "github.com/noah-isme/course-scheduling-api/pkg/errors"
	"github.com/noah-isme/course-scheduling-api/pkg/timerange"
)

// EnrollmentValidator checks enrollment forms and turns valid ones into schedule payloads.
type EnrollmentValidator struct {
	validator *validator.Validate
	logger    *zap.Logger
}

// NewEnrollmentValidator constructs the validator. Field errors are reported under JSON names.
func NewEnrollmentValidator(validate *validator.Validate, logger *zap.Logger) *EnrollmentValidator {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	validate.RegisterTagNameFunc(jsonFieldName)
	return &EnrollmentValidator{validator: validate, logger: logger}
}

// Validate collects every field error in the form. It never fails for bad input.
func (v *EnrollmentValidator) Validate(form dto.EnrollmentForm) dto.ValidationResult {
	errs, _ := v.check(form)
	return dto.ValidationResult{IsValid: len(errs) == 0, Errors: errs}
}

// Transform maps a valid form onto the persisted schedule payload.
func (v *EnrollmentValidator) Transform(form dto.EnrollmentForm) (dto.SchedulePayload, error) {
	errs, selectors := v.check(form)
	if len(errs) > 0 {
		return dto.SchedulePayload{}, appErrors.Clone(appErrors.ErrValidation, summarise(errs))
	}
	return buildPayload(form, selectors), nil
}

// Decide validates and transforms in one step.
func (v *EnrollmentValidator) Decide(form dto.EnrollmentForm) dto.EnrollmentDecision {
	errs, selectors := v.check(form)
	if len(errs) > 0 {
		return dto.Invalid(errs)
	}
	return dto.Ok(buildPayload(form, selectors))
}

func (v *EnrollmentValidator) check(form dto.EnrollmentForm) ([]dto.FieldError, []models.ScheduleSelector) {
	errs := make([]dto.FieldError, 0)
	if err := v.validator.Struct(form); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			for _, fe := range fieldErrs {
				errs = append(errs, dto.FieldError{Field: fe.Field(), Message: fieldMessage(fe)})
			}
		} else {
			errs = append(errs, dto.FieldError{Field: "form", Message: err.Error()})
		}
	}

	if form.IsOnline {
		return errs, nil
	}

	var selectors []models.ScheduleSelector
	first, ok := v.selector(dto.FieldScheduleSlot1, form.ScheduleSlot1, &errs)
	if ok {
		selectors = append(selectors, first)
	}
	if !form.HasTwoClassesPerWeek {
		return errs, selectors
	}

	second, ok := v.selector(dto.FieldScheduleSlot2, form.ScheduleSlot2, &errs)
	if !ok {
		return errs, selectors
	}
	if !first.IsZero() {
		switch {
		case first.String() == second.String():
			errs = append(errs, dto.FieldError{Field: dto.FieldScheduleSlot2, Message: "second class must differ from the first"})
			return errs, selectors
		case first.TeacherID() == second.TeacherID() && first.Day() == second.Day() &&
			timerange.HasTimeConflict(first.Range(), second.Range()):
			errs = append(errs, dto.FieldError{Field: dto.FieldScheduleSlot2, Message: "second class overlaps the first"})
			return errs, selectors
		}
	}
	return errs, append(selectors, second)
}

func (v *EnrollmentValidator) selector(field, raw string, errs *[]dto.FieldError) (models.ScheduleSelector, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		*errs = append(*errs, dto.FieldError{Field: field, Message: "schedule selection is required"})
		return models.ScheduleSelector{}, false
	}
	sel, err := models.ParseScheduleSelector(raw)
	if err != nil {
		v.logger.Debug("schedule selector rejected", zap.String("field", field), zap.String("token", raw), zap.Error(err))
		*errs = append(*errs, dto.FieldError{Field: field, Message: "invalid schedule selection"})
		return models.ScheduleSelector{}, false
	}
	if sel.Range().Minutes() < models.MinPatternMinutes {
		*errs = append(*errs, dto.FieldError{Field: field, Message: fmt.Sprintf("class must last at least %d minutes", models.MinPatternMinutes)})
		return models.ScheduleSelector{}, false
	}
	return sel, true
}

func buildPayload(form dto.EnrollmentForm, selectors []models.ScheduleSelector) dto.SchedulePayload {
	payload := dto.SchedulePayload{
		StudentID: form.StudentID,
		CourseID:  form.CourseID,
		IsOnline:  form.IsOnline,
		Schedule:  []dto.ScheduleEntry{},
	}
	if form.IsOnline {
		return payload
	}
	for _, sel := range selectors {
		payload.Schedule = append(payload.Schedule, dto.ScheduleEntry{
			InstructorID: sel.TeacherID(),
			DayOfWeek:    sel.Day(),
			StartTime:    sel.StartTime() + ":00",
			EndTime:      sel.EndTime() + ":00",
		})
	}
	return payload
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "uuid":
		return "must be a valid uuid"
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}

func summarise(errs []dto.FieldError) string {
	parts := make([]string, 0, len(errs))
	for _, e := range errs {
		parts = append(parts, e.Field+": "+e.Message)
	}
	return "invalid enrollment form: " + strings.Join(parts, "; ")
}

func jsonFieldName(field reflect.StructField) string {
	name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
	if name == "" || name == "-" {
		return field.Name
	}
	return name
}
