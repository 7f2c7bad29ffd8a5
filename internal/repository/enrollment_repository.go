package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/course-scheduling-api/internal/models"
	"github.com/noah-isme/course-scheduling-api/pkg/calendar"
)

// Seat claim failures reported by CreateWithinCapacity.
var (
	ErrSlotFull        = errors.New("availability slot is full")
	ErrPatternInactive = errors.New("availability pattern is inactive")
	ErrDuplicateSeat   = errors.New("student already holds this seat")
)

const (
	enrollmentColumns = "id, student_id, course_id, teacher_id, availability_slot_id, class_date, status, created_at, updated_at"
	uniqueViolation   = "23505"
)

// EnrollmentRepository handles persistence of enrollments.
type EnrollmentRepository struct {
	db *sqlx.DB
}

// NewEnrollmentRepository constructs the repository.
func NewEnrollmentRepository(db *sqlx.DB) *EnrollmentRepository {
	return &EnrollmentRepository{db: db}
}

// FindByID returns an enrollment by its ID.
func (r *EnrollmentRepository) FindByID(ctx context.Context, id string) (*models.Enrollment, error) {
	query := "SELECT " + enrollmentColumns + " FROM enrollments WHERE id = $1"
	var enrollment models.Enrollment
	if err := r.db.GetContext(ctx, &enrollment, query, id); err != nil {
		return nil, err
	}
	return &enrollment, nil
}

// List returns enrollments filtered by the provided criteria with the total count.
func (r *EnrollmentRepository) List(ctx context.Context, filter models.EnrollmentFilter) ([]models.Enrollment, int, error) {
	var conditions []string
	var args []interface{}

	if filter.StudentID != "" {
		conditions = append(conditions, fmt.Sprintf("student_id = $%d", len(args)+1))
		args = append(args, filter.StudentID)
	}
	if filter.TeacherID != "" {
		conditions = append(conditions, fmt.Sprintf("teacher_id = $%d", len(args)+1))
		args = append(args, filter.TeacherID)
	}
	if filter.AvailabilitySlotID != "" {
		conditions = append(conditions, fmt.Sprintf("availability_slot_id = $%d", len(args)+1))
		args = append(args, filter.AvailabilitySlotID)
	}
	if filter.ClassDate != nil {
		conditions = append(conditions, fmt.Sprintf("class_date = $%d", len(args)+1))
		args = append(args, *filter.ClassDate)
	}
	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)+1))
		args = append(args, filter.Status)
	}

	clause := ""
	if len(conditions) > 0 {
		clause = " WHERE " + strings.Join(conditions, " AND ")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT %s FROM enrollments%s ORDER BY class_date ASC, created_at ASC LIMIT %d OFFSET %d",
		enrollmentColumns, clause, size, offset)
	var enrollments []models.Enrollment
	if err := r.db.SelectContext(ctx, &enrollments, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list enrollments: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM enrollments"+clause, args...); err != nil {
		return nil, 0, fmt.Errorf("count enrollments: %w", err)
	}
	return enrollments, total, nil
}

// CountActive counts active enrollments of a pattern, optionally on a single class date.
func (r *EnrollmentRepository) CountActive(ctx context.Context, patternID string, classDate *calendar.Date) (int, error) {
	query := "SELECT COUNT(*) FROM enrollments WHERE availability_slot_id = $1 AND status = $2"
	args := []interface{}{patternID, models.EnrollmentStatusActive}
	if classDate != nil {
		query += fmt.Sprintf(" AND class_date = $%d", len(args)+1)
		args = append(args, *classDate)
	}
	var total int
	if err := r.db.GetContext(ctx, &total, query, args...); err != nil {
		return 0, fmt.Errorf("count active enrollments: %w", err)
	}
	return total, nil
}

// CountActiveGrouped counts active enrollments per (pattern, class date) inside [start, end].
func (r *EnrollmentRepository) CountActiveGrouped(ctx context.Context, patternIDs []string, start, end calendar.Date) (map[models.SlotKey]int, error) {
	counts := make(map[models.SlotKey]int)
	if len(patternIDs) == 0 {
		return counts, nil
	}
	const query = `SELECT availability_slot_id, class_date, COUNT(*) AS total FROM enrollments
WHERE availability_slot_id = ANY($1) AND class_date BETWEEN $2 AND $3 AND status = $4
GROUP BY availability_slot_id, class_date`
	var rows []struct {
		PatternID string        `db:"availability_slot_id"`
		ClassDate calendar.Date `db:"class_date"`
		Total     int           `db:"total"`
	}
	if err := r.db.SelectContext(ctx, &rows, query, pq.Array(patternIDs), start, end, models.EnrollmentStatusActive); err != nil {
		return nil, fmt.Errorf("count grouped enrollments: %w", err)
	}
	for _, row := range rows {
		counts[models.SlotKey{PatternID: row.PatternID, ClassDate: row.ClassDate}] = row.Total
	}
	return counts, nil
}

// CreateWithinCapacity inserts an active enrollment only while the pattern has a free seat on the class date.
// The pattern row is locked for the duration so concurrent claims on it are serialised.
func (r *EnrollmentRepository) CreateWithinCapacity(ctx context.Context, enrollment *models.Enrollment) (info models.CapacityInfo, err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return info, fmt.Errorf("begin enrollment transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var pattern struct {
		MaxStudents int  `db:"max_students"`
		IsActive    bool `db:"is_active"`
	}
	const lockQuery = `SELECT max_students, is_active FROM availability_patterns WHERE id = $1 FOR UPDATE`
	if err = tx.GetContext(ctx, &pattern, lockQuery, enrollment.AvailabilitySlotID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return info, err
		}
		return info, fmt.Errorf("lock availability pattern: %w", err)
	}
	if !pattern.IsActive {
		return info, ErrPatternInactive
	}

	var current int
	const countQuery = `SELECT COUNT(*) FROM enrollments WHERE availability_slot_id = $1 AND class_date = $2 AND status = $3`
	if err = tx.GetContext(ctx, &current, countQuery, enrollment.AvailabilitySlotID, enrollment.ClassDate, models.EnrollmentStatusActive); err != nil {
		return info, fmt.Errorf("count seats: %w", err)
	}
	date := enrollment.ClassDate
	info = models.NewCapacityInfo(enrollment.AvailabilitySlotID, &date, pattern.MaxStudents, current)
	if current+1 > pattern.MaxStudents {
		return info, ErrSlotFull
	}

	if enrollment.ID == "" {
		enrollment.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	enrollment.Status = models.EnrollmentStatusActive
	enrollment.CreatedAt = now
	enrollment.UpdatedAt = now

	const insertQuery = `INSERT INTO enrollments (id, student_id, course_id, teacher_id, availability_slot_id, class_date, status, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	if _, err = tx.ExecContext(ctx, insertQuery,
		enrollment.ID,
		enrollment.StudentID,
		enrollment.CourseID,
		enrollment.TeacherID,
		enrollment.AvailabilitySlotID,
		enrollment.ClassDate,
		enrollment.Status,
		enrollment.CreatedAt,
		enrollment.UpdatedAt,
	); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return info, ErrDuplicateSeat
		}
		return info, fmt.Errorf("insert enrollment: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return info, fmt.Errorf("commit enrollment: %w", err)
	}
	return models.NewCapacityInfo(enrollment.AvailabilitySlotID, &date, pattern.MaxStudents, current+1), nil
}

// UpdateStatus moves an enrollment from one status to another. sql.ErrNoRows means no row matched.
func (r *EnrollmentRepository) UpdateStatus(ctx context.Context, id string, from, to models.EnrollmentStatus) (*models.Enrollment, error) {
	query := "UPDATE enrollments SET status = $1, updated_at = $2 WHERE id = $3 AND status = $4 RETURNING " + enrollmentColumns
	var enrollment models.Enrollment
	if err := r.db.GetContext(ctx, &enrollment, query, to, time.Now().UTC(), id, from); err != nil {
		return nil, err
	}
	return &enrollment, nil
}

// ExpireBefore marks active enrollments dated before cutoff as expired and returns them.
func (r *EnrollmentRepository) ExpireBefore(ctx context.Context, cutoff calendar.Date) ([]models.Enrollment, error) {
	query := "UPDATE enrollments SET status = $1, updated_at = $2 WHERE status = $3 AND class_date < $4 RETURNING " + enrollmentColumns
	var expired []models.Enrollment
	if err := r.db.SelectContext(ctx, &expired, query,
		models.EnrollmentStatusExpired, time.Now().UTC(), models.EnrollmentStatusActive, cutoff); err != nil {
		return nil, fmt.Errorf("expire enrollments: %w", err)
	}
	return expired, nil
}
