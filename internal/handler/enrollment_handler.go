package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/course-scheduling-api/internal/dto"
	"github.com/noah-isme/course-scheduling-api/internal/models"
	"github.com/noah-isme/course-scheduling-api/pkg/response"
)

type enrollmentFormChecker interface {
	Validate(form dto.EnrollmentForm) dto.ValidationResult
	Transform(form dto.EnrollmentForm) (dto.SchedulePayload, error)
}

type enrollmentManager interface {
	List(ctx context.Context, filter models.EnrollmentFilter) ([]models.Enrollment, *models.Pagination, error)
	Enroll(ctx context.Context, req dto.CreateEnrollmentRequest) (*dto.EnrollmentResult, error)
	Cancel(ctx context.Context, id string) (*models.Enrollment, error)
}

// EnrollmentHandler exposes enrollment form checks and seat claims.
type EnrollmentHandler struct {
	forms       enrollmentFormChecker
	enrollments enrollmentManager
}

// NewEnrollmentHandler constructs EnrollmentHandler.
func NewEnrollmentHandler(forms enrollmentFormChecker, enrollments enrollmentManager) *EnrollmentHandler {
	return &EnrollmentHandler{forms: forms, enrollments: enrollments}
}

// Validate godoc
// @Summary Validate an enrollment form
// @Description Always answers 200; field problems are listed in the result.
// @Tags Enrollments
// @Accept json
// @Produce json
// @Param payload body dto.EnrollmentForm true "Enrollment form"
// @Success 200 {object} response.Envelope
// @Router /enrollments/validate [post]
func (h *EnrollmentHandler) Validate(c *gin.Context) {
	var form dto.EnrollmentForm
	if err := c.ShouldBindJSON(&form); err != nil {
		response.Error(c, bindError(err))
		return
	}
	response.JSON(c, http.StatusOK, h.forms.Validate(form), nil)
}

// Payload godoc
// @Summary Build the schedule payload of a valid form
// @Tags Enrollments
// @Accept json
// @Produce json
// @Param payload body dto.EnrollmentForm true "Enrollment form"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /enrollments/payload [post]
func (h *EnrollmentHandler) Payload(c *gin.Context) {
	var form dto.EnrollmentForm
	if err := c.ShouldBindJSON(&form); err != nil {
		response.Error(c, bindError(err))
		return
	}
	payload, err := h.forms.Transform(form)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, payload, nil)
}

// List godoc
// @Summary List enrollments
// @Tags Enrollments
// @Produce json
// @Param studentId query string false "Filter by student"
// @Param teacherId query string false "Filter by teacher"
// @Param patternId query string false "Filter by availability pattern"
// @Param classDate query string false "Filter by class date (YYYY-MM-DD)"
// @Param status query string false "Filter by status"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /enrollments [get]
func (h *EnrollmentHandler) List(c *gin.Context) {
	filter := models.EnrollmentFilter{
		Status: models.EnrollmentStatus(strings.ToLower(c.Query("status"))),
	}
	for _, q := range []struct {
		key string
		dst *string
	}{
		{"studentId", &filter.StudentID},
		{"teacherId", &filter.TeacherID},
		{"patternId", &filter.AvailabilitySlotID},
	} {
		id, err := uuidQuery(c, q.key)
		if err != nil {
			response.Error(c, err)
			return
		}
		*q.dst = id
	}
	date, err := dateQuery(c, "classDate", false)
	if err != nil {
		response.Error(c, err)
		return
	}
	if !date.IsZero() {
		filter.ClassDate = &date
	}
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if size, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil {
		filter.PageSize = size
	}

	enrollments, pagination, err := h.enrollments.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	if enrollments == nil {
		enrollments = []models.Enrollment{}
	}
	response.JSON(c, http.StatusOK, enrollments, pagination)
}

// Create godoc
// @Summary Claim a seat
// @Tags Enrollments
// @Accept json
// @Produce json
// @Param payload body dto.CreateEnrollmentRequest true "Enrollment"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Failure 429 {object} response.Envelope
// @Router /enrollments [post]
func (h *EnrollmentHandler) Create(c *gin.Context) {
	var req dto.CreateEnrollmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err))
		return
	}
	result, err := h.enrollments.Enroll(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// Delete godoc
// @Summary Cancel an enrollment
// @Tags Enrollments
// @Produce json
// @Param id path string true "Enrollment ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /enrollments/{id} [delete]
func (h *EnrollmentHandler) Delete(c *gin.Context) {
	enrollment, err := h.enrollments.Cancel(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, enrollment, nil)
}

