package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/course-scheduling-api/internal/dto"
	"github.com/noah-isme/course-scheduling-api/internal/models"
	"github.com/noah-isme/course-scheduling-api/internal/repository"
	"github.com/noah-isme/course-scheduling-api/pkg/calendar"
	appErrors "github.com/noah-isme/course-scheduling-api/pkg/errors"
)

type mockEnrollmentRepo struct {
	enrollments map[string]models.Enrollment
	createErr   error
	created     *models.Enrollment
	expired     []models.Enrollment
	listErr     error
	seats       map[models.SlotKey]int
	max         int
}

func (m *mockEnrollmentRepo) FindByID(ctx context.Context, id string) (*models.Enrollment, error) {
	if e, ok := m.enrollments[id]; ok {
		return &e, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockEnrollmentRepo) List(ctx context.Context, filter models.EnrollmentFilter) ([]models.Enrollment, int, error) {
	if m.listErr != nil {
		return nil, 0, m.listErr
	}
	var out []models.Enrollment
	for _, e := range m.enrollments {
		out = append(out, e)
	}
	return out, len(out), nil
}

func (m *mockEnrollmentRepo) CreateWithinCapacity(ctx context.Context, enrollment *models.Enrollment) (models.CapacityInfo, error) {
	if m.createErr != nil {
		return models.CapacityInfo{}, m.createErr
	}
	if m.seats == nil {
		m.seats = make(map[models.SlotKey]int)
	}
	key := models.SlotKey{PatternID: enrollment.AvailabilitySlotID, ClassDate: enrollment.ClassDate}
	date := enrollment.ClassDate
	if m.seats[key]+1 > m.max {
		return models.NewCapacityInfo(key.PatternID, &date, m.max, m.seats[key]), repository.ErrSlotFull
	}
	m.seats[key]++
	enrollment.ID = "77777777-7777-7777-7777-777777777777"
	enrollment.Status = models.EnrollmentStatusActive
	m.created = enrollment
	return models.NewCapacityInfo(key.PatternID, &date, m.max, m.seats[key]), nil
}

func (m *mockEnrollmentRepo) UpdateStatus(ctx context.Context, id string, from, to models.EnrollmentStatus) (*models.Enrollment, error) {
	e, ok := m.enrollments[id]
	if !ok || e.Status != from {
		return nil, sql.ErrNoRows
	}
	e.Status = to
	m.enrollments[id] = e
	return &e, nil
}

func (m *mockEnrollmentRepo) ExpireBefore(ctx context.Context, cutoff calendar.Date) ([]models.Enrollment, error) {
	return m.expired, nil
}

func newTestEnrollmentService(repo *mockEnrollmentRepo, holidays []models.Holiday) (*EnrollmentService, *mockPublisher) {
	patterns := &mockPatternRepo{patterns: []models.AvailabilityPattern{
		pattern(patternX, teacherA, 3, "14:00", "16:00", 2),
	}}
	inactive := pattern(patternY, teacherA, 3, "09:00", "10:00", 2)
	inactive.IsActive = false
	patterns.patterns = append(patterns.patterns, inactive)

	publisher := &mockPublisher{}
	svc := NewEnrollmentService(repo, patterns, &mockHolidayProvider{holidays: holidays}, publisher, nil, nil, nil, time.UTC)
	svc.now = func() time.Time { return time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC) }
	return svc, publisher
}

func enrollRequest(patternID, date string) dto.CreateEnrollmentRequest {
	return dto.CreateEnrollmentRequest{
		StudentID: studentA,
		CourseID:  courseA,
		PatternID: patternID,
		ClassDate: calendar.MustParse(date),
	}
}

func TestEnrollClaimsSeatAndPublishes(t *testing.T) {
	repo := &mockEnrollmentRepo{max: 2}
	svc, publisher := newTestEnrollmentService(repo, nil)

	result, err := svc.Enroll(context.Background(), enrollRequest(patternX, "2024-03-06"))
	require.NoError(t, err)
	require.NotNil(t, result.Enrollment)
	assert.Equal(t, teacherA, result.Enrollment.TeacherID)
	assert.Equal(t, 1, result.Capacity.AvailableSpots)
	assert.Equal(t, []models.ChangeEventType{models.ChangeEnrollmentCreated}, publisher.types())
	assert.Equal(t, patternX, publisher.events[0].PatternID)
}

func TestEnrollNeverOversubscribes(t *testing.T) {
	repo := &mockEnrollmentRepo{max: 2}
	svc, publisher := newTestEnrollmentService(repo, nil)

	for i := 0; i < 2; i++ {
		_, err := svc.Enroll(context.Background(), enrollRequest(patternX, "2024-03-06"))
		require.NoError(t, err)
	}
	_, err := svc.Enroll(context.Background(), enrollRequest(patternX, "2024-03-06"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrCapacityExceeded))
	assert.Len(t, publisher.events, 2)

	for key, n := range repo.seats {
		assert.LessOrEqual(t, n, repo.max, key.ClassDate.String())
	}
}

func TestEnrollRejectsInvalidDates(t *testing.T) {
	holidays := []models.Holiday{{Date: calendar.MustParse("2024-03-13"), Name: "Closure"}}
	svc, publisher := newTestEnrollmentService(&mockEnrollmentRepo{max: 2}, holidays)
	ctx := context.Background()

	cases := map[string]struct {
		req    dto.CreateEnrollmentRequest
		target *appErrors.Error
	}{
		"wrong weekday": {req: enrollRequest(patternX, "2024-03-07"), target: appErrors.ErrInvalidArgument},
		"past date":     {req: enrollRequest(patternX, "2024-02-28"), target: appErrors.ErrInvalidArgument},
		"holiday":       {req: enrollRequest(patternX, "2024-03-13"), target: appErrors.ErrInvalidArgument},
		"inactive":      {req: enrollRequest(patternY, "2024-03-06"), target: appErrors.ErrPreconditionFailed},
		"unknown":       {req: enrollRequest("88888888-8888-8888-8888-888888888888", "2024-03-06"), target: appErrors.ErrNotFound},
		"bad uuid":      {req: enrollRequest("nope", "2024-03-06"), target: appErrors.ErrValidation},
		"missing date":  {req: dto.CreateEnrollmentRequest{StudentID: studentA, CourseID: courseA, PatternID: patternX}, target: appErrors.ErrValidation},
	}
	for name, tc := range cases {
		_, err := svc.Enroll(ctx, tc.req)
		require.Error(t, err, name)
		assert.True(t, errors.Is(err, tc.target), "%s: %v", name, err)
	}
	assert.Empty(t, publisher.events)
}

func TestEnrollMapsRepositoryFailures(t *testing.T) {
	storeErr := errors.New("connection refused")
	cases := map[error]*appErrors.Error{
		repository.ErrPatternInactive: appErrors.ErrPreconditionFailed,
		repository.ErrDuplicateSeat:   appErrors.ErrConflict,
		sql.ErrNoRows:                 appErrors.ErrNotFound,
		storeErr:                      appErrors.ErrStore,
	}
	for cause, target := range cases {
		svc, _ := newTestEnrollmentService(&mockEnrollmentRepo{max: 2, createErr: cause}, nil)
		_, err := svc.Enroll(context.Background(), enrollRequest(patternX, "2024-03-06"))
		require.Error(t, err)
		assert.True(t, errors.Is(err, target), cause.Error())
	}
}

func TestCancelEnrollment(t *testing.T) {
	id := "99999999-9999-9999-9999-999999999999"
	repo := &mockEnrollmentRepo{enrollments: map[string]models.Enrollment{
		id: {ID: id, TeacherID: teacherA, AvailabilitySlotID: patternX, ClassDate: calendar.MustParse("2024-03-06"), Status: models.EnrollmentStatusActive},
	}}
	svc, publisher := newTestEnrollmentService(repo, nil)

	cancelled, err := svc.Cancel(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, models.EnrollmentStatusCancelled, cancelled.Status)
	assert.Equal(t, []models.ChangeEventType{models.ChangeEnrollmentCancelled}, publisher.types())

	_, err = svc.Cancel(context.Background(), id)
	assert.True(t, errors.Is(err, appErrors.ErrConflict))

	_, err = svc.Cancel(context.Background(), "aaaaaaaa-aaaa-aaaa-aaaa-aaaaaaaaaaaa")
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))

	_, err = svc.Cancel(context.Background(), "bad")
	assert.True(t, errors.Is(err, appErrors.ErrInvalidArgument))
}

func TestExpirePastPublishesPerEnrollment(t *testing.T) {
	repo := &mockEnrollmentRepo{expired: []models.Enrollment{
		{ID: "a", TeacherID: teacherA, AvailabilitySlotID: patternX, ClassDate: calendar.MustParse("2024-02-21")},
		{ID: "b", TeacherID: teacherB, AvailabilitySlotID: patternY, ClassDate: calendar.MustParse("2024-02-28")},
	}}
	svc, publisher := newTestEnrollmentService(repo, nil)

	n, err := svc.ExpirePast(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []models.ChangeEventType{models.ChangeEnrollmentExpired, models.ChangeEnrollmentExpired}, publisher.types())
}

func TestListEnrollmentsPagination(t *testing.T) {
	repo := &mockEnrollmentRepo{enrollments: map[string]models.Enrollment{"a": {ID: "a"}}}
	svc, _ := newTestEnrollmentService(repo, nil)

	items, pagination, err := svc.List(context.Background(), models.EnrollmentFilter{PageSize: 500})
	require.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Equal(t, 1, pagination.Page)
	assert.Equal(t, 100, pagination.PageSize)
	assert.Equal(t, 1, pagination.TotalCount)

	_, _, err = svc.List(context.Background(), models.EnrollmentFilter{Status: "pending"})
	assert.True(t, errors.Is(err, appErrors.ErrInvalidArgument))

	repo.listErr = errors.New("boom")
	_, _, err = svc.List(context.Background(), models.EnrollmentFilter{})
	assert.True(t, errors.Is(err, appErrors.ErrStore))
}
