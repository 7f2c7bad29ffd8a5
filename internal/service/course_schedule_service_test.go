package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/course-scheduling-api/internal/dto"
	"github.com/noah-isme/course-scheduling-api/internal/models"
	"github.com/noah-isme/course-scheduling-api/pkg/calendar"
	appErrors "github.com/noah-isme/course-scheduling-api/pkg/errors"
	"github.com/noah-isme/course-scheduling-api/pkg/export"
)

func classDates(schedule models.CourseSchedule) []string {
	out := make([]string, 0, len(schedule.ClassDates))
	for _, c := range schedule.ClassDates {
		out = append(out, c.Date.String())
	}
	return out
}

func TestComputeCourseScheduleShortCourse(t *testing.T) {
	svc := NewCourseScheduleService(nil, ProjectionConfig{}, nil, nil, nil)

	schedule, err := svc.ComputeCourseSchedule(calendar.MustParse("2024-01-01"), 4, 2, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, schedule.TotalClasses)
	assert.Equal(t, []string{"2024-01-01", "2024-01-02"}, classDates(schedule))
	assert.Equal(t, "2024-01-02", schedule.EndDate.String())
	assert.Equal(t, 1, schedule.TotalWeeks)
	assert.Equal(t, 120, schedule.ClassDurationMinutes)
	assert.Equal(t, "09:00", schedule.ClassDates[0].StartTime)
	assert.Equal(t, "11:00", schedule.ClassDates[0].EndTime)
}

func TestComputeCourseScheduleSkipsHolidays(t *testing.T) {
	svc := NewCourseScheduleService(nil, ProjectionConfig{}, nil, nil, nil)
	holidays := []models.Holiday{{Date: calendar.MustParse("2024-01-01"), Name: "New Year's Day"}}

	schedule, err := svc.ComputeCourseSchedule(calendar.MustParse("2024-01-01"), 4, 2, holidays)
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-01-02", "2024-01-03"}, classDates(schedule))
	require.Len(t, schedule.HolidaysExcluded, 1)
	assert.Equal(t, "2024-01-01", schedule.HolidaysExcluded[0].String())
}

func TestProjectCourseFirstWeekIsPartial(t *testing.T) {
	schedule, err := ProjectCourse(ProjectionInput{
		StartDate:     calendar.MustParse("2024-01-05"),
		CourseHours:   6,
		WeeklyClasses: 2,
		ClassStart:    "09:00",
		ClassMinutes:  120,
		MaxWeeks:      104,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-01-05", "2024-01-08", "2024-01-09"}, classDates(schedule))
	assert.Equal(t, 2, schedule.TotalWeeks)
	assert.Equal(t, 1, schedule.ClassDates[0].Week)
	assert.Equal(t, 2, schedule.ClassDates[2].Week)
}

func TestProjectCourseRoundsClassesUp(t *testing.T) {
	schedule, err := ProjectCourse(ProjectionInput{
		StartDate:     calendar.MustParse("2024-01-01"),
		CourseHours:   5,
		WeeklyClasses: 5,
		ClassStart:    "18:30",
		ClassMinutes:  90,
		MaxWeeks:      104,
	})
	require.NoError(t, err)
	assert.Equal(t, 4, schedule.TotalClasses)
	assert.Equal(t, "20:00", schedule.ClassDates[0].EndTime)
}

func TestProjectCourseExceedsCeiling(t *testing.T) {
	_, err := ProjectCourse(ProjectionInput{
		StartDate:     calendar.MustParse("2024-01-01"),
		CourseHours:   500,
		WeeklyClasses: 1,
		ClassStart:    "09:00",
		ClassMinutes:  120,
		MaxWeeks:      104,
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrScheduleExceeded))
}

func TestProjectCourseRejectsInvalidInput(t *testing.T) {
	base := ProjectionInput{
		StartDate:     calendar.MustParse("2024-01-01"),
		CourseHours:   4,
		WeeklyClasses: 2,
		ClassStart:    "09:00",
		ClassMinutes:  120,
		MaxWeeks:      104,
	}
	mutations := map[string]func(*ProjectionInput){
		"zero hours":       func(in *ProjectionInput) { in.CourseHours = 0 },
		"negative hours":   func(in *ProjectionInput) { in.CourseHours = -1 },
		"no weekly":        func(in *ProjectionInput) { in.WeeklyClasses = 0 },
		"too many weekly":  func(in *ProjectionInput) { in.WeeklyClasses = 8 },
		"missing start":    func(in *ProjectionInput) { in.StartDate = calendar.Date{} },
		"past midnight":    func(in *ProjectionInput) { in.ClassStart = "23:00" },
		"bad class start":  func(in *ProjectionInput) { in.ClassStart = "9am" },
		"no class minutes": func(in *ProjectionInput) { in.ClassMinutes = 0 },
	}
	for name, mutate := range mutations {
		in := base
		mutate(&in)
		_, err := ProjectCourse(in)
		assert.Error(t, err, name)
	}
}

func TestComputeMergesHolidayCalendar(t *testing.T) {
	provider := &mockHolidayProvider{holidays: []models.Holiday{{Date: calendar.MustParse("2024-01-02"), Name: "Closure"}}}
	svc := NewCourseScheduleService(provider, ProjectionConfig{ClassStart: "10:00", ClassMinutes: 60}, nil, nil, nil)

	schedule, err := svc.Compute(context.Background(), dto.CourseScheduleRequest{
		StartDate:          calendar.MustParse("2024-01-01"),
		CourseHours:        3,
		WeeklyClasses:      3,
		Holidays:           []models.Holiday{{Date: calendar.MustParse("2024-01-01"), Name: "New Year's Day"}},
		UseHolidayCalendar: true,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-01-03", "2024-01-04", "2024-01-05"}, classDates(schedule))
	assert.Len(t, schedule.HolidaysExcluded, 2)
	assert.Equal(t, "11:00", schedule.ClassDates[0].EndTime)
	assert.Equal(t, 1, provider.calls)
}

func TestComputeValidatesRequest(t *testing.T) {
	svc := NewCourseScheduleService(nil, ProjectionConfig{}, nil, nil, nil)

	_, err := svc.Compute(context.Background(), dto.CourseScheduleRequest{StartDate: calendar.MustParse("2024-01-01"), CourseHours: 0, WeeklyClasses: 2})
	assert.True(t, errors.Is(err, appErrors.ErrValidation))

	_, err = svc.Compute(context.Background(), dto.CourseScheduleRequest{CourseHours: 4, WeeklyClasses: 2})
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
}

func TestExportCourseScheduleCSV(t *testing.T) {
	svc := NewCourseScheduleService(nil, ProjectionConfig{}, nil, nil, nil)

	body, err := svc.Export(context.Background(), dto.CourseScheduleRequest{
		StartDate:     calendar.MustParse("2024-01-01"),
		CourseHours:   4,
		WeeklyClasses: 2,
	}, export.FormatCSV)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(body)), "\n")
	assert.Equal(t, "#,Week,Date,Weekday,Start,End", lines[0])
	assert.Equal(t, "1,1,2024-01-01,Monday,09:00,11:00", lines[1])
	assert.Contains(t, string(body), "End date: 2024-01-02")
}

func TestExportCourseSchedulePDF(t *testing.T) {
	svc := NewCourseScheduleService(nil, ProjectionConfig{}, nil, nil, nil)

	body, err := svc.Export(context.Background(), dto.CourseScheduleRequest{
		StartDate:     calendar.MustParse("2024-01-01"),
		CourseHours:   4,
		WeeklyClasses: 2,
	}, export.FormatPDF)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(body), "%PDF"))
}
