package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/course-scheduling-api/internal/models"
	"github.com/noah-isme/course-scheduling-api/pkg/calendar"
	appErrors "github.com/noah-isme/course-scheduling-api/pkg/errors"
	"github.com/noah-isme/course-scheduling-api/pkg/timerange"
)

const (
	earliestReasonableStart = "06:00"
	latestReasonableEnd     = "22:00"
	highCapacityThreshold   = 50
)

type patternRepository interface {
	FindByID(ctx context.Context, id string) (*models.AvailabilityPattern, error)
	List(ctx context.Context, filter models.AvailabilityFilter) ([]models.AvailabilityPattern, error)
}

type seatCounter interface {
	CountActive(ctx context.Context, patternID string, classDate *calendar.Date) (int, error)
	CountActiveGrouped(ctx context.Context, patternIDs []string, start, end calendar.Date) (map[models.SlotKey]int, error)
}

// CapacityService computes seat usage and detects conflicts among a teacher's patterns.
type CapacityService struct {
	patterns patternRepository
	seats    seatCounter
	dayOpen  string
	dayClose string
	logger   *zap.Logger
}

// NewCapacityService constructs the resolver.
func NewCapacityService(patterns patternRepository, seats seatCounter, logger *zap.Logger) *CapacityService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CapacityService{
		patterns: patterns,
		seats:    seats,
		dayOpen:  earliestReasonableStart,
		dayClose: latestReasonableEnd,
		logger:   logger,
	}
}

// WithWorkingHours overrides the window outside which patterns draw early/late warnings.
// Malformed clocks keep the current window.
func (s *CapacityService) WithWorkingHours(open, close string) *CapacityService {
	if _, err := timerange.Parse(open, close); err != nil {
		s.logger.Warn("ignoring invalid working hours", zap.String("open", open), zap.String("close", close), zap.Error(err))
		return s
	}
	s.dayOpen, s.dayClose = open, close
	return s
}

// CapacityInfo reports seat usage for a pattern on a class date.
func (s *CapacityService) CapacityInfo(ctx context.Context, patternID string, date calendar.Date) (models.CapacityInfo, error) {
	if date.IsZero() {
		return models.CapacityInfo{}, appErrors.Clone(appErrors.ErrInvalidArgument, "date is required")
	}
	pattern, err := s.loadPattern(ctx, patternID)
	if err != nil {
		return models.CapacityInfo{}, err
	}
	current, err := s.seats.CountActive(ctx, pattern.ID, &date)
	if err != nil {
		return models.CapacityInfo{}, appErrors.StoreFailure(err, "failed to count enrollments")
	}
	return models.NewCapacityInfo(pattern.ID, &date, pattern.MaxStudents, current), nil
}

// CheckCapacityConflict reports whether requestedSeats more seats would exceed the pattern maximum.
// A nil date counts every active enrollment of the pattern.
func (s *CapacityService) CheckCapacityConflict(ctx context.Context, patternID string, date *calendar.Date, requestedSeats int) (bool, error) {
	if requestedSeats <= 0 {
		return false, appErrors.Clone(appErrors.ErrInvalidArgument, "requested seats must be positive")
	}
	pattern, err := s.loadPattern(ctx, patternID)
	if err != nil {
		return false, err
	}
	current, err := s.seats.CountActive(ctx, pattern.ID, date)
	if err != nil {
		return false, appErrors.StoreFailure(err, "failed to count enrollments")
	}
	return current+requestedSeats > pattern.MaxStudents, nil
}

// DetectOverlaps returns every pair of the teacher's active same-day patterns with a positive overlap.
func (s *CapacityService) DetectOverlaps(ctx context.Context, teacherID string) ([]models.OverlapPair, error) {
	patterns, err := s.activePatterns(ctx, teacherID)
	if err != nil {
		return nil, err
	}
	return FindOverlaps(patterns), nil
}

// ValidateAvailabilitySet checks a teacher's active patterns for blocking issues and soft warnings.
func (s *CapacityService) ValidateAvailabilitySet(ctx context.Context, teacherID string) (models.AvailabilityReport, error) {
	patterns, err := s.activePatterns(ctx, teacherID)
	if err != nil {
		return models.AvailabilityReport{}, err
	}
	report := ValidatePatternsWithin(patterns, s.dayOpen, s.dayClose)
	report.TeacherID = teacherID
	return report, nil
}

func (s *CapacityService) loadPattern(ctx context.Context, patternID string) (*models.AvailabilityPattern, error) {
	if strings.TrimSpace(patternID) == "" {
		return nil, appErrors.Clone(appErrors.ErrInvalidArgument, "pattern id is required")
	}
	if !models.IsUUID(patternID) {
		return nil, appErrors.Clone(appErrors.ErrInvalidArgument, "pattern id must be a UUID")
	}
	pattern, err := s.patterns.FindByID(ctx, patternID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "availability pattern not found")
		}
		return nil, appErrors.StoreFailure(err, "failed to load availability pattern")
	}
	return pattern, nil
}

func (s *CapacityService) activePatterns(ctx context.Context, teacherID string) ([]models.AvailabilityPattern, error) {
	if strings.TrimSpace(teacherID) == "" {
		return nil, appErrors.Clone(appErrors.ErrInvalidArgument, "teacher id is required")
	}
	if !models.IsUUID(teacherID) {
		return nil, appErrors.Clone(appErrors.ErrInvalidArgument, "teacher id must be a UUID")
	}
	patterns, err := s.patterns.List(ctx, models.AvailabilityFilter{TeacherID: teacherID, ActiveOnly: true})
	if err != nil {
		return nil, appErrors.StoreFailure(err, "failed to load availability patterns")
	}
	return patterns, nil
}

type rangedPattern struct {
	pattern models.AvailabilityPattern
	span    timerange.Range
}

// FindOverlaps compares same-day patterns pairwise. Patterns are sorted by start per day so the
// inner scan stops once a later pattern starts after the current one ends.
func FindOverlaps(patterns []models.AvailabilityPattern) []models.OverlapPair {
	byDay := make(map[int][]rangedPattern)
	for _, p := range patterns {
		if !p.IsActive {
			continue
		}
		span, err := p.TimeRange()
		if err != nil {
			continue
		}
		byDay[p.DayOfWeek] = append(byDay[p.DayOfWeek], rangedPattern{pattern: p, span: span})
	}

	days := make([]int, 0, len(byDay))
	for day := range byDay {
		days = append(days, day)
	}
	sort.Ints(days)

	var pairs []models.OverlapPair
	for _, day := range days {
		list := byDay[day]
		sort.SliceStable(list, func(i, j int) bool {
			if list[i].span.Start != list[j].span.Start {
				return list[i].span.Start < list[j].span.Start
			}
			return list[i].pattern.ID < list[j].pattern.ID
		})
		for i := 0; i < len(list); i++ {
			for j := i + 1; j < len(list); j++ {
				if list[j].span.Start >= list[i].span.End {
					break
				}
				minutes := timerange.OverlapMinutes(list[i].span, list[j].span)
				if minutes <= 0 {
					continue
				}
				pairs = append(pairs, models.OverlapPair{
					PatternA:       list[i].pattern.ID,
					PatternB:       list[j].pattern.ID,
					DayOfWeek:      day,
					OverlapMinutes: minutes,
				})
			}
		}
	}
	return pairs
}

// ValidatePatterns builds an availability report for a set of active patterns
// using the default 06:00-22:00 working window.
func ValidatePatterns(patterns []models.AvailabilityPattern) models.AvailabilityReport {
	return ValidatePatternsWithin(patterns, earliestReasonableStart, latestReasonableEnd)
}

// ValidatePatternsWithin is ValidatePatterns with an explicit working window.
func ValidatePatternsWithin(patterns []models.AvailabilityPattern, open, close string) models.AvailabilityReport {
	report := models.AvailabilityReport{
		Issues:   []models.AvailabilityFinding{},
		Warnings: []models.AvailabilityFinding{},
	}

	active := 0
	for _, p := range patterns {
		if !p.IsActive {
			continue
		}
		active++

		if p.MaxStudents < 1 {
			report.Issues = append(report.Issues, models.AvailabilityFinding{
				Code:       models.FindingInvalidCapacity,
				PatternIDs: []string{p.ID},
				Message:    fmt.Sprintf("capacity %d must be at least 1", p.MaxStudents),
			})
		} else if p.MaxStudents > highCapacityThreshold {
			report.Warnings = append(report.Warnings, models.AvailabilityFinding{
				Code:       models.FindingHighCapacity,
				PatternIDs: []string{p.ID},
				Message:    fmt.Sprintf("capacity %d is unusually high", p.MaxStudents),
			})
		}

		span, err := p.TimeRange()
		if err != nil {
			report.Issues = append(report.Issues, models.AvailabilityFinding{
				Code:       models.FindingInvalidTimeRange,
				PatternIDs: []string{p.ID},
				Message:    err.Error(),
			})
			continue
		}
		if span.Minutes() < models.MinPatternMinutes {
			report.Issues = append(report.Issues, models.AvailabilityFinding{
				Code:       models.FindingInvalidTimeRange,
				PatternIDs: []string{p.ID},
				Message:    fmt.Sprintf("%s is shorter than %d minutes", span, models.MinPatternMinutes),
			})
		}
		if !timerange.WithinWorkingHours(span, open, close) {
			if span.StartClock() < open {
				report.Warnings = append(report.Warnings, models.AvailabilityFinding{
					Code:       models.FindingEarlyStart,
					PatternIDs: []string{p.ID},
					Message:    fmt.Sprintf("starts at %s, before %s", span.StartClock(), open),
				})
			}
			if span.EndClock() > close {
				report.Warnings = append(report.Warnings, models.AvailabilityFinding{
					Code:       models.FindingLateEnd,
					PatternIDs: []string{p.ID},
					Message:    fmt.Sprintf("ends at %s, after %s", span.EndClock(), close),
				})
			}
		}
	}

	for _, pair := range FindOverlaps(patterns) {
		report.Issues = append(report.Issues, models.AvailabilityFinding{
			Code:       models.FindingOverlap,
			PatternIDs: []string{pair.PatternA, pair.PatternB},
			Message:    fmt.Sprintf("patterns overlap by %d minutes on day %d", pair.OverlapMinutes, pair.DayOfWeek),
		})
	}

	if active == 0 {
		report.Warnings = append(report.Warnings, models.AvailabilityFinding{
			Code:    models.FindingNoActivePattern,
			Message: "teacher has no active availability pattern",
		})
	}

	report.IsValid = len(report.Issues) == 0
	return report
}

// ConflictsWithHoliday reports whether an occurrence date falls on a holiday.
func ConflictsWithHoliday(date calendar.Date, holidays calendar.HolidaySet) bool {
	return holidays.Contains(date)
}

// OverlappingPatterns lists the ids of other active patterns on the same day whose times intersect p.
func OverlappingPatterns(p models.AvailabilityPattern, all []models.AvailabilityPattern) []string {
	span, err := p.TimeRange()
	if err != nil {
		return nil
	}
	var ids []string
	for _, other := range all {
		if other.ID == p.ID || !other.IsActive || other.TeacherID != p.TeacherID || other.DayOfWeek != p.DayOfWeek {
			continue
		}
		otherSpan, err := other.TimeRange()
		if err != nil {
			continue
		}
		if timerange.Overlaps(span, otherSpan) {
			ids = append(ids, other.ID)
		}
	}
	return ids
}
