package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/course-scheduling-api/internal/dto"
	"github.com/noah-isme/course-scheduling-api/internal/models"
	appErrors "github.com/noah-isme/course-scheduling-api/pkg/errors"
	"github.com/noah-isme/course-scheduling-api/pkg/export"
	"github.com/noah-isme/course-scheduling-api/pkg/response"
)

type courseProjector interface {
	Compute(ctx context.Context, req dto.CourseScheduleRequest) (models.CourseSchedule, error)
	Export(ctx context.Context, req dto.CourseScheduleRequest, format export.Format) ([]byte, error)
}

// CourseScheduleHandler exposes course calendar projection.
type CourseScheduleHandler struct {
	projector courseProjector
}

// NewCourseScheduleHandler constructs CourseScheduleHandler.
func NewCourseScheduleHandler(projector courseProjector) *CourseScheduleHandler {
	return &CourseScheduleHandler{projector: projector}
}

// Compute godoc
// @Summary Project a course calendar
// @Tags Course Schedules
// @Accept json
// @Produce json
// @Param payload body dto.CourseScheduleRequest true "Course parameters"
// @Success 200 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /course-schedules [post]
func (h *CourseScheduleHandler) Compute(c *gin.Context) {
	var req dto.CourseScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err))
		return
	}
	schedule, err := h.projector.Compute(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, schedule, nil)
}

// Export godoc
// @Summary Export a projected course calendar
// @Tags Course Schedules
// @Accept json
// @Produce text/csv
// @Produce application/pdf
// @Param format query string false "csv or pdf"
// @Param payload body dto.CourseScheduleRequest true "Course parameters"
// @Success 200 {file} file
// @Router /course-schedules/export [post]
func (h *CourseScheduleHandler) Export(c *gin.Context) {
	format, err := export.ParseFormat(c.Query("format"))
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInvalidArgument.Code, http.StatusBadRequest, "unsupported export format"))
		return
	}
	var req dto.CourseScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err))
		return
	}
	body, err := h.projector.Export(c.Request.Context(), req, format)
	if err != nil {
		response.Error(c, err)
		return
	}
	filename := fmt.Sprintf("course-schedule-%s.%s", req.StartDate, format)
	response.Attachment(c, format.ContentType(), filename, body)
}
