package handler

import (
	"github.com/gin-gonic/gin"
)

// Handlers groups the HTTP handlers mounted by RegisterRoutes.
type Handlers struct {
	Slots        *SlotHandler
	Availability *AvailabilityHandler
	Enrollments  *EnrollmentHandler
	Courses      *CourseScheduleHandler
	Holidays     *HolidayHandler
	Events       *EventStreamHandler
	Metrics      *MetricsHandler
}

// RegisterRoutes mounts the scheduling API under prefix. enrollWrite guards
// enrollment mutations and may be nil.
func RegisterRoutes(r gin.IRouter, prefix string, h Handlers, enrollWrite gin.HandlerFunc) {
	if h.Metrics != nil {
		r.GET("/health", h.Metrics.Health)
		r.GET("/ready", h.Metrics.Ready)
		r.GET("/metrics", h.Metrics.Prometheus)
	}

	api := r.Group(prefix)
	writes := []gin.HandlerFunc{}
	if enrollWrite != nil {
		writes = append(writes, enrollWrite)
	}

	if h.Metrics != nil {
		api.GET("/metrics/summary", h.Metrics.Summary)
	}

	teachers := api.Group("/teachers/:teacherId")
	if h.Slots != nil {
		teachers.GET("/slots", h.Slots.List)
	}
	if h.Availability != nil {
		teachers.GET("/availability/validation", h.Availability.Validate)
		teachers.GET("/availability/overlaps", h.Availability.Overlaps)
		api.GET("/patterns/:patternId/capacity", h.Availability.Capacity)
		api.POST("/patterns/:patternId/capacity/check", h.Availability.CheckCapacity)
	}
	if h.Events != nil {
		teachers.GET("/events", h.Events.Stream)
	}

	if h.Enrollments != nil {
		enrollments := api.Group("/enrollments")
		enrollments.POST("/validate", h.Enrollments.Validate)
		enrollments.POST("/payload", h.Enrollments.Payload)
		enrollments.GET("", h.Enrollments.List)
		enrollments.POST("", append(writes, h.Enrollments.Create)...)
		enrollments.DELETE("/:id", append(writes, h.Enrollments.Delete)...)
	}

	if h.Courses != nil {
		api.POST("/course-schedules", h.Courses.Compute)
		api.POST("/course-schedules/export", h.Courses.Export)
	}
	if h.Holidays != nil {
		api.GET("/holidays", h.Holidays.List)
	}
}
