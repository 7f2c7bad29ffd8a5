package main

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/course-scheduling-api/internal/dto"
	"github.com/noah-isme/course-scheduling-api/internal/models"
	"github.com/noah-isme/course-scheduling-api/internal/service"
	"github.com/noah-isme/course-scheduling-api/pkg/calendar"
)

func TestWriteProjectionJSON(t *testing.T) {
	svc := service.NewCourseScheduleService(nationalCalendar{}, service.ProjectionConfig{}, nil, nil, nil)
	req := dto.CourseScheduleRequest{StartDate: calendar.MustParse("2024-01-01"), CourseHours: 4, WeeklyClasses: 2}

	var buf bytes.Buffer
	require.NoError(t, writeProjection(context.Background(), svc, req, "json", &buf))

	var schedule models.CourseSchedule
	require.NoError(t, json.Unmarshal(buf.Bytes(), &schedule))
	assert.Equal(t, 2, schedule.TotalClasses)
	assert.Equal(t, "2024-01-02", schedule.EndDate.String())
}

func TestWriteProjectionCSVSkipsNationalHolidays(t *testing.T) {
	svc := service.NewCourseScheduleService(nationalCalendar{country: "US"}, service.ProjectionConfig{}, nil, nil, nil)
	req := dto.CourseScheduleRequest{
		StartDate:          calendar.MustParse("2024-01-01"),
		CourseHours:        4,
		WeeklyClasses:      2,
		UseHolidayCalendar: true,
	}

	var buf bytes.Buffer
	require.NoError(t, writeProjection(context.Background(), svc, req, "csv", &buf))
	assert.True(t, strings.Contains(buf.String(), "2024-01-02"))
	assert.False(t, strings.Contains(buf.String(), "1,1,2024-01-01"))
}

func TestWriteProjectionRejectsUnknownFormat(t *testing.T) {
	svc := service.NewCourseScheduleService(nationalCalendar{}, service.ProjectionConfig{}, nil, nil, nil)
	req := dto.CourseScheduleRequest{StartDate: calendar.MustParse("2024-01-01"), CourseHours: 4, WeeklyClasses: 2}

	err := writeProjection(context.Background(), svc, req, "xlsx", &bytes.Buffer{})
	require.Error(t, err)
}

func TestNationalCalendarWithoutCountry(t *testing.T) {
	holidays, err := nationalCalendar{}.Between(context.Background(), calendar.MustParse("2024-01-01"), calendar.MustParse("2024-12-31"))
	require.NoError(t, err)
	assert.Empty(t, holidays)
}

func TestRootCommandRegistersSubcommands(t *testing.T) {
	root := newRootCmd()
	names := map[string]bool{}
	for _, c := range root.Commands() {
		names[c.Name()] = true
	}
	for _, expected := range []string{"serve", "migrate", "holidays", "project"} {
		assert.True(t, names[expected], expected)
	}
}
