package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/course-scheduling-api/internal/models"
	"github.com/noah-isme/course-scheduling-api/internal/service"
	"github.com/noah-isme/course-scheduling-api/pkg/middleware/ratelimit"
)

func TestRegisterRoutesMountsAPI(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	RegisterRoutes(router, "/api/v1", Handlers{
		Slots:        NewSlotHandler(&slotGeneratorMock{}),
		Availability: NewAvailabilityHandler(&availabilityCheckerMock{}),
		Enrollments:  NewEnrollmentHandler(&formCheckerMock{}, &enrollmentManagerMock{}),
		Courses:      NewCourseScheduleHandler(&courseProjectorMock{}),
		Holidays:     NewHolidayHandler(&holidayLookupMock{}),
		Events:       NewEventStreamHandler(newHubMock(), nil, nil),
		Metrics:      NewMetricsHandler(service.NewMetricsService(), nil),
	}, nil)

	routes := map[string]bool{}
	for _, r := range router.Routes() {
		routes[r.Method+" "+r.Path] = true
	}
	for _, expected := range []string{
		"GET /health",
		"GET /ready",
		"GET /metrics",
		"GET /api/v1/metrics/summary",
		"GET /api/v1/teachers/:teacherId/slots",
		"GET /api/v1/teachers/:teacherId/availability/validation",
		"GET /api/v1/teachers/:teacherId/availability/overlaps",
		"GET /api/v1/teachers/:teacherId/events",
		"GET /api/v1/patterns/:patternId/capacity",
		"POST /api/v1/patterns/:patternId/capacity/check",
		"POST /api/v1/enrollments/validate",
		"POST /api/v1/enrollments/payload",
		"GET /api/v1/enrollments",
		"POST /api/v1/enrollments",
		"DELETE /api/v1/enrollments/:id",
		"POST /api/v1/course-schedules",
		"POST /api/v1/course-schedules/export",
		"GET /api/v1/holidays",
	} {
		assert.True(t, routes[expected], expected)
	}
}

func TestRegisterRoutesThrottlesEnrollmentWrites(t *testing.T) {
	gin.SetMode(gin.TestMode)
	manager := &enrollmentManagerMock{cancelled: &models.Enrollment{ID: "e-1"}}
	router := gin.New()
	RegisterRoutes(router, "/api/v1", Handlers{
		Enrollments: NewEnrollmentHandler(&formCheckerMock{}, manager),
	}, ratelimit.New(1, 1).Middleware())

	first := httptest.NewRecorder()
	router.ServeHTTP(first, httptest.NewRequest(http.MethodDelete, "/api/v1/enrollments/e-1", nil))
	require.Equal(t, http.StatusOK, first.Code)

	second := httptest.NewRecorder()
	router.ServeHTTP(second, httptest.NewRequest(http.MethodDelete, "/api/v1/enrollments/e-1", nil))
	require.Equal(t, http.StatusTooManyRequests, second.Code)

	reads := httptest.NewRecorder()
	router.ServeHTTP(reads, httptest.NewRequest(http.MethodGet, "/api/v1/enrollments", nil))
	require.Equal(t, http.StatusOK, reads.Code)
}
