package service

import (
	"context"
	"fmt"
	"math"
	"strconv"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/course-scheduling-api/internal/dto"
	"github.com/noah-isme/course-scheduling-api/internal/models"
	"github.com/noah-isme/course-scheduling-api/pkg/calendar"
	appErrors "github.com/noah-isme/course-scheduling-api/pkg/errors"
	"github.com/noah-isme/course-scheduling-api/pkg/export"
	"github.com/noah-isme/course-scheduling-api/pkg/timerange"
)

const minutesPerDay = 24 * 60

// ProjectionConfig holds the class block and ceiling used when a request does not override them.
type ProjectionConfig struct {
	ClassStart   string
	ClassMinutes int
	MaxWeeks     int
}

// ProjectionInput describes one course projection.
type ProjectionInput struct {
	StartDate     calendar.Date
	CourseHours   float64
	WeeklyClasses int
	Holidays      calendar.HolidaySet
	ClassStart    string
	ClassMinutes  int
	MaxWeeks      int
}

// ProjectCourse places one class per business day, at most WeeklyClasses per week, until the
// course hours are covered. The first week runs from StartDate to its Sunday; later weeks start on Monday.
func ProjectCourse(in ProjectionInput) (models.CourseSchedule, error) {
	if in.StartDate.IsZero() {
		return models.CourseSchedule{}, appErrors.Clone(appErrors.ErrInvalidArgument, "start date is required")
	}
	if in.CourseHours <= 0 || math.IsNaN(in.CourseHours) || math.IsInf(in.CourseHours, 0) {
		return models.CourseSchedule{}, appErrors.Clone(appErrors.ErrInvalidArgument, "course hours must be positive")
	}
	if in.WeeklyClasses < 1 || in.WeeklyClasses > 7 {
		return models.CourseSchedule{}, appErrors.Clone(appErrors.ErrInvalidArgument, "weekly classes must be between 1 and 7")
	}
	if in.ClassMinutes <= 0 {
		return models.CourseSchedule{}, appErrors.Clone(appErrors.ErrInvalidArgument, "class length must be positive")
	}
	if in.MaxWeeks <= 0 {
		return models.CourseSchedule{}, appErrors.Clone(appErrors.ErrInvalidArgument, "projection ceiling must be positive")
	}
	startMinutes, err := timerange.ToMinutes(in.ClassStart)
	if err != nil {
		return models.CourseSchedule{}, err
	}
	if startMinutes+in.ClassMinutes > minutesPerDay {
		return models.CourseSchedule{}, appErrors.Clone(appErrors.ErrInvalidArgument, "class block must end before midnight")
	}
	startClock := timerange.FromMinutes(startMinutes)
	endClock := timerange.FromMinutes(startMinutes + in.ClassMinutes)
	if startMinutes+in.ClassMinutes == minutesPerDay {
		endClock = "24:00"
	}

	needed := int(math.Ceil(in.CourseHours * 60 / float64(in.ClassMinutes)))
	schedule := models.CourseSchedule{
		StartDate:            in.StartDate,
		EndDate:              in.StartDate,
		ClassDurationMinutes: in.ClassMinutes,
		HolidaysExcluded:     []calendar.Date{},
		ClassDates:           make([]models.ScheduledClass, 0, needed),
	}
	seenHoliday := make(map[calendar.Date]struct{})

	windowStart := in.StartDate
	for week := 1; week <= in.MaxWeeks; week++ {
		windowEnd := windowStart.MondayOfWeek().AddDays(6)
		placedThisWeek := 0
		for d := windowStart; !d.After(windowEnd); d = d.AddDays(1) {
			if placedThisWeek == in.WeeklyClasses || len(schedule.ClassDates) == needed {
				break
			}
			if in.Holidays.Contains(d) {
				if _, ok := seenHoliday[d]; !ok {
					seenHoliday[d] = struct{}{}
					schedule.HolidaysExcluded = append(schedule.HolidaysExcluded, d)
				}
				continue
			}
			if calendar.IsWeekend(d) {
				continue
			}
			schedule.ClassDates = append(schedule.ClassDates, models.ScheduledClass{
				Sequence:  len(schedule.ClassDates) + 1,
				Week:      week,
				Date:      d,
				StartTime: startClock,
				EndTime:   endClock,
			})
			placedThisWeek++
		}
		if len(schedule.ClassDates) == needed {
			last := schedule.ClassDates[needed-1]
			schedule.EndDate = last.Date
			schedule.TotalWeeks = week
			schedule.TotalClasses = needed
			return schedule, nil
		}
		windowStart = windowEnd.AddDays(1)
	}

	return models.CourseSchedule{}, appErrors.Clone(appErrors.ErrScheduleExceeded,
		fmt.Sprintf("%d classes do not fit within %d weeks", needed, in.MaxWeeks))
}

// CourseScheduleService projects course calendars and exports them.
type CourseScheduleService struct {
	holidays  holidayProvider
	cfg       ProjectionConfig
	csv       *export.CSVExporter
	pdf       *export.PDFExporter
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewCourseScheduleService constructs the calculator.
func NewCourseScheduleService(holidays holidayProvider, cfg ProjectionConfig, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *CourseScheduleService {
	if cfg.ClassStart == "" {
		cfg.ClassStart = "09:00"
	}
	if cfg.ClassMinutes <= 0 {
		cfg.ClassMinutes = 120
	}
	if cfg.MaxWeeks <= 0 {
		cfg.MaxWeeks = 104
	}
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CourseScheduleService{
		holidays:  holidays,
		cfg:       cfg,
		csv:       export.NewCSVExporter(),
		pdf:       export.NewPDFExporter(),
		metrics:   metrics,
		validator: validate,
		logger:    logger,
	}
}

// ComputeCourseSchedule projects a course with the configured class block.
func (s *CourseScheduleService) ComputeCourseSchedule(startDate calendar.Date, courseHours float64, weeklyClasses int, holidays []models.Holiday) (models.CourseSchedule, error) {
	return s.project(ProjectionInput{
		StartDate:     startDate,
		CourseHours:   courseHours,
		WeeklyClasses: weeklyClasses,
		Holidays:      calendar.SetOf(holidays),
		ClassStart:    s.cfg.ClassStart,
		ClassMinutes:  s.cfg.ClassMinutes,
		MaxWeeks:      s.cfg.MaxWeeks,
	})
}

// Compute handles a request, merging the holiday calendar when asked.
func (s *CourseScheduleService) Compute(ctx context.Context, req dto.CourseScheduleRequest) (models.CourseSchedule, error) {
	if err := s.validator.Struct(req); err != nil {
		return models.CourseSchedule{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid course schedule request")
	}
	if req.StartDate.IsZero() {
		return models.CourseSchedule{}, appErrors.Clone(appErrors.ErrValidation, "startDate is required")
	}

	holidays := calendar.SetOf(req.Holidays)
	if req.UseHolidayCalendar && s.holidays != nil {
		horizon := req.StartDate.AddDays(s.cfg.MaxWeeks*7 + 6)
		stored, err := s.holidays.Between(ctx, req.StartDate, horizon)
		if err != nil {
			return models.CourseSchedule{}, err
		}
		holidays = holidays.Merge(calendar.SetOf(stored))
	}

	in := ProjectionInput{
		StartDate:     req.StartDate,
		CourseHours:   req.CourseHours,
		WeeklyClasses: req.WeeklyClasses,
		Holidays:      holidays,
		ClassStart:    s.cfg.ClassStart,
		ClassMinutes:  s.cfg.ClassMinutes,
		MaxWeeks:      s.cfg.MaxWeeks,
	}
	if req.ClassStart != "" {
		in.ClassStart = req.ClassStart
	}
	if req.ClassMinutes > 0 {
		in.ClassMinutes = req.ClassMinutes
	}
	return s.project(in)
}

// Export computes the schedule and renders it in the requested format.
func (s *CourseScheduleService) Export(ctx context.Context, req dto.CourseScheduleRequest, format export.Format) ([]byte, error) {
	schedule, err := s.Compute(ctx, req)
	if err != nil {
		return nil, err
	}
	table := ScheduleTable(schedule)
	var body []byte
	switch format {
	case export.FormatPDF:
		body, err = s.pdf.Render(table)
	default:
		body, err = s.csv.Render(table)
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render course schedule")
	}
	return body, nil
}

// ScheduleTable lays a course schedule out as an export table.
func ScheduleTable(schedule models.CourseSchedule) export.Table {
	table := export.Table{
		Title:   "Course schedule",
		Headers: []string{"#", "Week", "Date", "Weekday", "Start", "End"},
		Rows:    make([][]string, 0, len(schedule.ClassDates)),
	}
	for _, class := range schedule.ClassDates {
		table.Rows = append(table.Rows, []string{
			strconv.Itoa(class.Sequence),
			strconv.Itoa(class.Week),
			class.Date.String(),
			class.Date.Weekday().String(),
			class.StartTime,
			class.EndTime,
		})
	}
	table.Footer = []string{
		fmt.Sprintf("Start date: %s", schedule.StartDate),
		fmt.Sprintf("End date: %s", schedule.EndDate),
		fmt.Sprintf("Classes: %d over %d weeks", schedule.TotalClasses, schedule.TotalWeeks),
	}
	if len(schedule.HolidaysExcluded) > 0 {
		table.Footer = append(table.Footer, fmt.Sprintf("Holidays skipped: %d", len(schedule.HolidaysExcluded)))
	}
	return table
}

func (s *CourseScheduleService) project(in ProjectionInput) (models.CourseSchedule, error) {
	schedule, err := ProjectCourse(in)
	if err != nil {
		outcome := OutcomeRejected
		if appErrors.FromError(err).Code == appErrors.ErrScheduleExceeded.Code {
			outcome = "exceeded"
		}
		s.metrics.RecordCourseProjection(outcome)
		s.logger.Debug("course projection rejected", zap.Error(err))
		return models.CourseSchedule{}, err
	}
	s.metrics.RecordCourseProjection(OutcomeAccepted)
	return schedule, nil
}
