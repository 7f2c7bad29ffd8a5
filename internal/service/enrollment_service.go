package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/course-scheduling-api/internal/dto"
	"github.com/noah-isme/course-scheduling-api/internal/models"
	"github.com/noah-isme/course-scheduling-api/internal/repository"
	"github.com/noah-isme/course-scheduling-api/pkg/calendar"
	appErrors "github.com/noah-isme/course-scheduling-api/pkg/errors"
)

type enrollmentRepository interface {
	FindByID(ctx context.Context, id string) (*models.Enrollment, error)
	List(ctx context.Context, filter models.EnrollmentFilter) ([]models.Enrollment, int, error)
	CreateWithinCapacity(ctx context.Context, enrollment *models.Enrollment) (models.CapacityInfo, error)
	UpdateStatus(ctx context.Context, id string, from, to models.EnrollmentStatus) (*models.Enrollment, error)
	ExpireBefore(ctx context.Context, cutoff calendar.Date) ([]models.Enrollment, error)
}

type changePublisher interface {
	Publish(ctx context.Context, event models.ChangeEvent)
}

// EnrollmentService claims and releases seats of availability patterns.
type EnrollmentService struct {
	repo      enrollmentRepository
	patterns  patternRepository
	holidays  holidayProvider
	events    changePublisher
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	location  *time.Location
	now       func() time.Time
}

// NewEnrollmentService constructs EnrollmentService. loc decides which day "today" is.
func NewEnrollmentService(repo enrollmentRepository, patterns patternRepository, holidays holidayProvider, events changePublisher, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger, loc *time.Location) *EnrollmentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.UTC
	}
	return &EnrollmentService{
		repo:      repo,
		patterns:  patterns,
		holidays:  holidays,
		events:    events,
		metrics:   metrics,
		validator: validate,
		logger:    logger,
		location:  loc,
		now:       time.Now,
	}
}

// List returns enrollments with pagination metadata.
func (s *EnrollmentService) List(ctx context.Context, filter models.EnrollmentFilter) ([]models.Enrollment, *models.Pagination, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, nil, appErrors.Clone(appErrors.ErrInvalidArgument, "unknown enrollment status")
	}
	enrollments, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.StoreFailure(err, "failed to list enrollments")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 20
	}
	if size > 100 {
		size = 100
	}
	return enrollments, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// Enroll claims one seat of a pattern on a class date.
func (s *EnrollmentService) Enroll(ctx context.Context, req dto.CreateEnrollmentRequest) (*dto.EnrollmentResult, error) {
	if err := s.validator.Struct(req); err != nil {
		s.metrics.RecordEnrollment(OutcomeRejected)
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid enrollment payload")
	}
	if req.ClassDate.IsZero() {
		s.metrics.RecordEnrollment(OutcomeRejected)
		return nil, appErrors.Clone(appErrors.ErrValidation, "classDate is required")
	}

	pattern, err := s.patterns.FindByID(ctx, req.PatternID)
	if err != nil {
		s.metrics.RecordEnrollment(OutcomeError)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "availability pattern not found")
		}
		return nil, appErrors.StoreFailure(err, "failed to load availability pattern")
	}
	if err := s.checkClassDate(ctx, pattern, req.ClassDate); err != nil {
		s.metrics.RecordEnrollment(OutcomeRejected)
		return nil, err
	}

	enrollment := &models.Enrollment{
		StudentID:          req.StudentID,
		CourseID:           req.CourseID,
		TeacherID:          pattern.TeacherID,
		AvailabilitySlotID: pattern.ID,
		ClassDate:          req.ClassDate,
	}
	info, err := s.repo.CreateWithinCapacity(ctx, enrollment)
	if err != nil {
		return nil, s.enrollFailure(err, pattern, req.ClassDate)
	}

	s.metrics.RecordEnrollment(OutcomeAccepted)
	s.logger.Info("enrollment created",
		zap.String("enrollment_id", enrollment.ID),
		zap.String("pattern_id", pattern.ID),
		zap.Stringer("class_date", req.ClassDate),
		zap.Int("available_spots", info.AvailableSpots),
	)
	s.publish(ctx, models.ChangeEnrollmentCreated, enrollment)
	return &dto.EnrollmentResult{Enrollment: enrollment, Capacity: info}, nil
}

// Cancel releases an active enrollment.
func (s *EnrollmentService) Cancel(ctx context.Context, id string) (*models.Enrollment, error) {
	if !models.IsUUID(id) {
		return nil, appErrors.Clone(appErrors.ErrInvalidArgument, "enrollment id must be a UUID")
	}
	enrollment, err := s.repo.UpdateStatus(ctx, id, models.EnrollmentStatusActive, models.EnrollmentStatusCancelled)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.StoreFailure(err, "failed to cancel enrollment")
		}
		existing, findErr := s.repo.FindByID(ctx, id)
		if findErr != nil {
			if errors.Is(findErr, sql.ErrNoRows) {
				return nil, appErrors.Clone(appErrors.ErrNotFound, "enrollment not found")
			}
			return nil, appErrors.StoreFailure(findErr, "failed to load enrollment")
		}
		return nil, appErrors.Clone(appErrors.ErrConflict, "enrollment is already "+string(existing.Status))
	}

	s.logger.Info("enrollment cancelled", zap.String("enrollment_id", id), zap.String("pattern_id", enrollment.AvailabilitySlotID))
	s.publish(ctx, models.ChangeEnrollmentCancelled, enrollment)
	return enrollment, nil
}

// ExpirePast marks active enrollments dated before today as expired.
func (s *EnrollmentService) ExpirePast(ctx context.Context) (int, error) {
	today := calendar.FromTime(s.now().In(s.location))
	expired, err := s.repo.ExpireBefore(ctx, today)
	if err != nil {
		return 0, appErrors.StoreFailure(err, "failed to expire enrollments")
	}
	for i := range expired {
		s.publish(ctx, models.ChangeEnrollmentExpired, &expired[i])
	}
	s.metrics.RecordExpired(len(expired))
	if len(expired) > 0 {
		s.logger.Info("enrollments expired", zap.Int("count", len(expired)), zap.Stringer("before", today))
	}
	return len(expired), nil
}

func (s *EnrollmentService) checkClassDate(ctx context.Context, pattern *models.AvailabilityPattern, date calendar.Date) error {
	if !pattern.IsActive {
		return appErrors.Clone(appErrors.ErrPreconditionFailed, "availability pattern is inactive")
	}
	if date.Weekday() != pattern.Weekday() {
		return appErrors.Clone(appErrors.ErrInvalidArgument, "class date does not fall on the pattern weekday")
	}
	today := calendar.FromTime(s.now().In(s.location))
	if date.Before(today) {
		return appErrors.Clone(appErrors.ErrInvalidArgument, "class date is in the past")
	}
	if s.holidays == nil {
		return nil
	}
	holidays, err := s.holidays.Between(ctx, date, date)
	if err != nil {
		return err
	}
	if calendar.SetOf(holidays).Contains(date) {
		return appErrors.Clone(appErrors.ErrInvalidArgument, "class date is a holiday")
	}
	return nil
}

func (s *EnrollmentService) enrollFailure(err error, pattern *models.AvailabilityPattern, date calendar.Date) error {
	switch {
	case errors.Is(err, repository.ErrSlotFull):
		s.metrics.RecordEnrollment(OutcomeFull)
		s.logger.Info("enrollment rejected, slot full", zap.String("pattern_id", pattern.ID), zap.Stringer("class_date", date))
		return appErrors.Clone(appErrors.ErrCapacityExceeded, "no seats left for this class date")
	case errors.Is(err, repository.ErrPatternInactive):
		s.metrics.RecordEnrollment(OutcomeRejected)
		return appErrors.Clone(appErrors.ErrPreconditionFailed, "availability pattern is inactive")
	case errors.Is(err, repository.ErrDuplicateSeat):
		s.metrics.RecordEnrollment(OutcomeRejected)
		return appErrors.Clone(appErrors.ErrConflict, "student already holds a seat for this class date")
	case errors.Is(err, sql.ErrNoRows):
		s.metrics.RecordEnrollment(OutcomeError)
		return appErrors.Clone(appErrors.ErrNotFound, "availability pattern not found")
	default:
		s.metrics.RecordEnrollment(OutcomeError)
		return appErrors.StoreFailure(err, "failed to create enrollment")
	}
}

func (s *EnrollmentService) publish(ctx context.Context, eventType models.ChangeEventType, enrollment *models.Enrollment) {
	if s.events == nil {
		return
	}
	date := enrollment.ClassDate
	s.events.Publish(ctx, models.ChangeEvent{
		Type:      eventType,
		TeacherID: enrollment.TeacherID,
		PatternID: enrollment.AvailabilitySlotID,
		ClassDate: &date,
		Source:    models.ChangeSourceService,
	})
}
