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

type holidayLookup interface {
	Lookup(ctx context.Context, start, end calendar.Date) ([]models.Holiday, bool, error)
}

// HolidayHandler exposes the holiday calendar.
type HolidayHandler struct {
	holidays holidayLookup
}

// NewHolidayHandler constructs HolidayHandler.
func NewHolidayHandler(holidays holidayLookup) *HolidayHandler {
	return &HolidayHandler{holidays: holidays}
}

// List godoc
// @Summary List holidays in a range
// @Tags Holidays
// @Produce json
// @Param start query string true "Range start (YYYY-MM-DD)"
// @Param end query string true "Range end (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Router /holidays [get]
func (h *HolidayHandler) List(c *gin.Context) {
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
	holidays, hit, err := h.holidays.Lookup(c.Request.Context(), start, end)
	if err != nil {
		response.Error(c, err)
		return
	}
	if holidays == nil {
		holidays = []models.Holiday{}
	}
	middleware.SetCacheHit(c, hit)
	response.JSON(c, http.StatusOK, holidays, nil, middleware.Meta(c))
}
