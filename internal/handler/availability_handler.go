package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/course-scheduling-api/internal/dto"
	"github.com/noah-isme/course-scheduling-api/internal/models"
	"github.com/noah-isme/course-scheduling-api/pkg/calendar"
	"github.com/noah-isme/course-scheduling-api/pkg/response"
)

type availabilityChecker interface {
	CapacityInfo(ctx context.Context, patternID string, date calendar.Date) (models.CapacityInfo, error)
	CheckCapacityConflict(ctx context.Context, patternID string, date *calendar.Date, requestedSeats int) (bool, error)
	DetectOverlaps(ctx context.Context, teacherID string) ([]models.OverlapPair, error)
	ValidateAvailabilitySet(ctx context.Context, teacherID string) (models.AvailabilityReport, error)
}

// AvailabilityHandler exposes capacity and availability checks.
type AvailabilityHandler struct {
	capacity availabilityChecker
}

// NewAvailabilityHandler constructs AvailabilityHandler.
func NewAvailabilityHandler(capacity availabilityChecker) *AvailabilityHandler {
	return &AvailabilityHandler{capacity: capacity}
}

// Validate godoc
// @Summary Validate teacher availability
// @Tags Availability
// @Produce json
// @Param teacherId path string true "Teacher ID"
// @Success 200 {object} response.Envelope
// @Router /teachers/{teacherId}/availability/validation [get]
func (h *AvailabilityHandler) Validate(c *gin.Context) {
	report, err := h.capacity.ValidateAvailabilitySet(c.Request.Context(), c.Param("teacherId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, report, nil)
}

// Overlaps godoc
// @Summary Detect overlapping patterns
// @Tags Availability
// @Produce json
// @Param teacherId path string true "Teacher ID"
// @Success 200 {object} response.Envelope
// @Router /teachers/{teacherId}/availability/overlaps [get]
func (h *AvailabilityHandler) Overlaps(c *gin.Context) {
	pairs, err := h.capacity.DetectOverlaps(c.Request.Context(), c.Param("teacherId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	if pairs == nil {
		pairs = []models.OverlapPair{}
	}
	response.JSON(c, http.StatusOK, pairs, nil)
}

// Capacity godoc
// @Summary Seat usage of a pattern on a date
// @Tags Availability
// @Produce json
// @Param patternId path string true "Pattern ID"
// @Param date query string true "Class date (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /patterns/{patternId}/capacity [get]
func (h *AvailabilityHandler) Capacity(c *gin.Context) {
	date, err := dateQuery(c, "date", true)
	if err != nil {
		response.Error(c, err)
		return
	}
	info, err := h.capacity.CapacityInfo(c.Request.Context(), c.Param("patternId"), date)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, info, nil)
}

// CheckCapacity godoc
// @Summary Check whether extra seats fit
// @Tags Availability
// @Accept json
// @Produce json
// @Param patternId path string true "Pattern ID"
// @Param payload body dto.CapacityCheckRequest true "Requested seats"
// @Success 200 {object} response.Envelope
// @Router /patterns/{patternId}/capacity/check [post]
func (h *AvailabilityHandler) CheckCapacity(c *gin.Context) {
	var req dto.CapacityCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err))
		return
	}
	patternID := c.Param("patternId")
	conflict, err := h.capacity.CheckCapacityConflict(c.Request.Context(), patternID, req.Date, req.RequestedSeats)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.CapacityCheckResponse{
		PatternID:      patternID,
		RequestedSeats: req.RequestedSeats,
		Conflict:       conflict,
	}, nil)
}
