package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/course-scheduling-api/internal/models"
)

var patternRowColumns = []string{"id", "teacher_id", "day_of_week", "start_time", "end_time", "max_students", "is_active", "created_at", "updated_at"}

func TestAvailabilityRepositoryFindByID(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAvailabilityRepository(db)

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("FROM availability_patterns WHERE id = $1")).
		WithArgs("pat-1").
		WillReturnRows(sqlmock.NewRows(patternRowColumns).AddRow("pat-1", "teacher-1", 1, "09:00", "11:00", 4, true, now, now))

	pattern, err := repo.FindByID(context.Background(), "pat-1")
	require.NoError(t, err)
	assert.Equal(t, "09:00", pattern.StartTime)
	assert.Equal(t, time.Monday, pattern.Weekday())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAvailabilityRepositoryFindByIDMissing(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAvailabilityRepository(db)

	mock.ExpectQuery("FROM availability_patterns").WithArgs("missing").WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByID(context.Background(), "missing")
	assert.True(t, errors.Is(err, sql.ErrNoRows))
}

func TestAvailabilityRepositoryListFilters(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAvailabilityRepository(db)

	now := time.Now()
	day := 3
	rows := sqlmock.NewRows(patternRowColumns).
		AddRow("pat-1", "teacher-1", 3, "09:00", "11:00", 4, true, now, now).
		AddRow("pat-2", "teacher-1", 3, "10:00", "12:00", 2, true, now, now)
	mock.ExpectQuery(regexp.QuoteMeta("FROM availability_patterns WHERE teacher_id = $1 AND day_of_week = $2 AND is_active = TRUE ORDER BY day_of_week ASC, start_time ASC, id ASC")).
		WithArgs("teacher-1", 3).
		WillReturnRows(rows)

	patterns, err := repo.List(context.Background(), models.AvailabilityFilter{TeacherID: "teacher-1", DayOfWeek: &day, ActiveOnly: true})
	require.NoError(t, err)
	require.Len(t, patterns, 2)
	assert.Equal(t, "pat-2", patterns[1].ID)
	require.NoError(t, mock.ExpectationsWereMet())
}
