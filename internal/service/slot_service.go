package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/course-scheduling-api/internal/models"
	"github.com/noah-isme/course-scheduling-api/pkg/calendar"
	appErrors "github.com/noah-isme/course-scheduling-api/pkg/errors"
)

// defaultSlotWindowDays caps a single slot query unless overridden.
const defaultSlotWindowDays = 366

type holidayProvider interface {
	Between(ctx context.Context, start, end calendar.Date) ([]models.Holiday, error)
}

// ExpandPattern emits one occurrence per business day in [start, end] matching the pattern weekday.
// Weekends and holidays are skipped.
func ExpandPattern(pattern models.AvailabilityPattern, start, end calendar.Date, holidays calendar.HolidaySet) []models.SlotOccurrence {
	if start.After(end) || pattern.DayOfWeek < 0 || pattern.DayOfWeek > 6 {
		return nil
	}
	offset := (int(pattern.Weekday()) - int(start.Weekday()) + 7) % 7
	var out []models.SlotOccurrence
	for d := start.AddDays(offset); !d.After(end); d = d.AddDays(7) {
		if !calendar.IsBusinessDay(d, holidays) {
			continue
		}
		out = append(out, models.SlotOccurrence{
			PatternID:      pattern.ID,
			TeacherID:      pattern.TeacherID,
			Date:           d,
			StartTime:      pattern.StartTime,
			EndTime:        pattern.EndTime,
			MaxStudents:    pattern.MaxStudents,
			AvailableSpots: pattern.MaxStudents,
		})
	}
	return out
}

// SortOccurrences orders occurrences by ISO date then start time.
func SortOccurrences(occurrences []models.SlotOccurrence) {
	sort.SliceStable(occurrences, func(i, j int) bool {
		di, dj := occurrences[i].Date.String(), occurrences[j].Date.String()
		if di != dj {
			return di < dj
		}
		if occurrences[i].StartTime != occurrences[j].StartTime {
			return occurrences[i].StartTime < occurrences[j].StartTime
		}
		return occurrences[i].PatternID < occurrences[j].PatternID
	})
}

// SlotService expands a teacher's availability into capacity-annotated occurrences.
type SlotService struct {
	patterns patternRepository
	seats    seatCounter
	holidays holidayProvider
	metrics  *MetricsService
	logger   *zap.Logger

	maxWindowDays int
}

// NewSlotService constructs the generator.
func NewSlotService(patterns patternRepository, seats seatCounter, holidays holidayProvider, metrics *MetricsService, logger *zap.Logger) *SlotService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SlotService{
		patterns:      patterns,
		seats:         seats,
		holidays:      holidays,
		metrics:       metrics,
		logger:        logger,
		maxWindowDays: defaultSlotWindowDays,
	}
}

// WithMaxWindowDays bounds the span of one GenerateSlots call. Non-positive values keep the default.
func (s *SlotService) WithMaxWindowDays(days int) *SlotService {
	if days > 0 {
		s.maxWindowDays = days
	}
	return s
}

// GenerateSlots expands every active pattern of the teacher over [start, end].
// A nil holiday list is resolved from the holiday calendar.
func (s *SlotService) GenerateSlots(ctx context.Context, teacherID string, start, end calendar.Date, holidays []models.Holiday) ([]models.SlotOccurrence, error) {
	began := time.Now()
	if strings.TrimSpace(teacherID) == "" {
		return nil, appErrors.Clone(appErrors.ErrInvalidArgument, "teacher id is required")
	}
	if !models.IsUUID(teacherID) {
		return nil, appErrors.Clone(appErrors.ErrInvalidArgument, "teacher id must be a UUID")
	}
	if start.IsZero() || end.IsZero() {
		return nil, appErrors.Clone(appErrors.ErrInvalidArgument, "start and end are required")
	}
	if start.After(end) {
		return nil, appErrors.Clone(appErrors.ErrInvalidArgument, "start must not be after end")
	}
	if start.DaysUntil(end) > s.maxWindowDays {
		return nil, appErrors.Clone(appErrors.ErrInvalidArgument, fmt.Sprintf("date range may span at most %d days", s.maxWindowDays))
	}

	if holidays == nil && s.holidays != nil {
		loaded, err := s.holidays.Between(ctx, start, end)
		if err != nil {
			return nil, err
		}
		holidays = loaded
	}
	holidaySet := calendar.SetOf(holidays)

	patterns, err := s.patterns.List(ctx, models.AvailabilityFilter{TeacherID: teacherID, ActiveOnly: true})
	if err != nil {
		return nil, appErrors.StoreFailure(err, "failed to load availability patterns")
	}

	occurrences := make([]models.SlotOccurrence, 0)
	overlapping := make(map[string][]string, len(patterns))
	ids := make([]string, 0, len(patterns))
	for _, p := range patterns {
		occurrences = append(occurrences, ExpandPattern(p, start, end, holidaySet)...)
		overlapping[p.ID] = OverlappingPatterns(p, patterns)
		ids = append(ids, p.ID)
	}
	SortOccurrences(occurrences)

	counts, err := s.seats.CountActiveGrouped(ctx, ids, start, end)
	if err != nil {
		return nil, appErrors.StoreFailure(err, "failed to count enrollments")
	}
	for i := range occurrences {
		occ := &occurrences[i]
		info := models.NewCapacityInfo(occ.PatternID, &occ.Date, occ.MaxStudents, counts[models.SlotKey{PatternID: occ.PatternID, ClassDate: occ.Date}])
		occ.CurrentEnrollments = info.CurrentEnrollments
		occ.AvailableSpots = info.AvailableSpots
		occ.ConflictsWithHoliday = ConflictsWithHoliday(occ.Date, holidaySet)
		occ.OverlappingPatternIDs = overlapping[occ.PatternID]
	}

	s.metrics.ObserveSlotGeneration(time.Since(began))
	s.logger.Debug("slots generated",
		zap.String("teacher_id", teacherID),
		zap.Stringer("start", start),
		zap.Stringer("end", end),
		zap.Int("patterns", len(patterns)),
		zap.Int("occurrences", len(occurrences)),
	)
	return occurrences, nil
}
