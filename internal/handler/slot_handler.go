package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/course-scheduling-api/internal/middleware"
	"github.com/noah-isme/course-scheduling-api/internal/models"
	"github.com/noah-isme/course-scheduling-api/pkg/calendar"
	"github.com/noah-isme/course-scheduling-api/pkg/response"
)

type slotGenerator interface {
	GenerateSlots(ctx context.Context, teacherID string, start, end calendar.Date, holidays []models.Holiday) ([]models.SlotOccurrence, error)
}

// SlotHandler exposes dated slot occurrences of a teacher.
type SlotHandler struct {
	slots slotGenerator
}

// NewSlotHandler constructs SlotHandler.
func NewSlotHandler(slots slotGenerator) *SlotHandler {
	return &SlotHandler{slots: slots}
}

// List godoc
// @Summary List teacher slots
// @Description Expands the teacher's active availability over a date range, skipping weekends and holidays.
// @Tags Slots
// @Produce json
// @Param teacherId path string true "Teacher ID"
// @Param start query string true "Range start (YYYY-MM-DD)"
// @Param end query string true "Range end (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /teachers/{teacherId}/slots [get]
func (h *SlotHandler) List(c *gin.Context) {
	start, err := dateQuery(c, "start", true)
	if err != nil {
		response.Error(c, err)
		return
	}
	end, err := dateQuery(c, "end", true)
	if err != nil {
		response.Error(c, err)
		return
	}

	slots, err := h.slots.GenerateSlots(c.Request.Context(), c.Param("teacherId"), start, end, nil)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, slots, nil, middleware.Meta(c))
}
