package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/course-scheduling-api/internal/models"
	"github.com/noah-isme/course-scheduling-api/pkg/cache"
	"github.com/noah-isme/course-scheduling-api/pkg/calendar"
	appErrors "github.com/noah-isme/course-scheduling-api/pkg/errors"
)

type holidayRepository interface {
	List(ctx context.Context, filter models.HolidayFilter) ([]models.Holiday, error)
	Upsert(ctx context.Context, holidays []models.Holiday) error
}

// HolidayServiceConfig selects the national calendar and cache lifetime.
type HolidayServiceConfig struct {
	NationalCountry string
	CacheTTL        time.Duration
}

// HolidayService resolves the holiday calendar from stored rows and generated national holidays.
type HolidayService struct {
	repo    holidayRepository
	cache   *CacheService
	country string
	ttl     time.Duration
	logger  *zap.Logger
}

// NewHolidayService constructs the service. An unsupported country disables national holidays.
func NewHolidayService(repo holidayRepository, cacheSvc *CacheService, cfg HolidayServiceConfig, logger *zap.Logger) *HolidayService {
	if logger == nil {
		logger = zap.NewNop()
	}
	country := cfg.NationalCountry
	if country != "" && !calendar.SupportsCountry(country) {
		logger.Warn("national holidays unavailable for country, ignoring", zap.String("country", country))
		country = ""
	}
	return &HolidayService{repo: repo, cache: cacheSvc, country: country, ttl: cfg.CacheTTL, logger: logger}
}

// Between returns the holidays within [start, end] ordered by date. Stored rows win over generated ones.
func (s *HolidayService) Between(ctx context.Context, start, end calendar.Date) ([]models.Holiday, error) {
	holidays, _, err := s.Lookup(ctx, start, end)
	return holidays, err
}

// Lookup is Between that also reports whether the result came from cache.
func (s *HolidayService) Lookup(ctx context.Context, start, end calendar.Date) ([]models.Holiday, bool, error) {
	if start.IsZero() || end.IsZero() {
		return nil, false, appErrors.Clone(appErrors.ErrInvalidArgument, "start and end are required")
	}
	if start.After(end) {
		return nil, false, appErrors.Clone(appErrors.ErrInvalidArgument, "start must not be after end")
	}

	key := s.cacheKey(start, end)
	var cached []models.Holiday
	if s.cache.Get(ctx, key, &cached) {
		return cached, true, nil
	}

	stored, err := s.repo.List(ctx, models.HolidayFilter{Start: start, End: end})
	if err != nil {
		return nil, false, appErrors.StoreFailure(err, "failed to load holidays")
	}

	set := calendar.HolidaySet{}
	if s.country != "" {
		national, err := calendar.NationalHolidaysBetween(s.country, start, end)
		if err != nil {
			return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to compute national holidays")
		}
		set = calendar.SetOf(national)
	}
	holidays := set.Merge(calendar.SetOf(stored)).Sorted()

	s.cache.Set(ctx, key, holidays, s.ttl)
	return holidays, false, nil
}

// Set returns the holidays within [start, end] as a lookup set.
func (s *HolidayService) Set(ctx context.Context, start, end calendar.Date) (calendar.HolidaySet, error) {
	holidays, err := s.Between(ctx, start, end)
	if err != nil {
		return nil, err
	}
	return calendar.SetOf(holidays), nil
}

// SeedNational stores the configured country's national holidays for year and returns how many were written.
func (s *HolidayService) SeedNational(ctx context.Context, year int) (int, error) {
	if s.country == "" {
		return 0, appErrors.Clone(appErrors.ErrPreconditionFailed, "national holiday country is not configured")
	}
	if year < 1900 || year > 2200 {
		return 0, appErrors.Clone(appErrors.ErrInvalidArgument, fmt.Sprintf("year %d out of range", year))
	}
	holidays, err := calendar.NationalHolidays(s.country, year)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to compute national holidays")
	}
	if err := s.repo.Upsert(ctx, holidays); err != nil {
		return 0, appErrors.StoreFailure(err, "failed to store national holidays")
	}
	if err := s.cache.Invalidate(ctx, cache.Key("holidays", "*")); err != nil {
		s.logger.Warn("holiday cache not invalidated", zap.Error(err))
	}
	s.logger.Info("national holidays seeded", zap.String("country", s.country), zap.Int("year", year), zap.Int("count", len(holidays)))
	return len(holidays), nil
}

func (s *HolidayService) cacheKey(start, end calendar.Date) string {
	country := s.country
	if country == "" {
		country = "none"
	}
	return cache.Key("holidays", country, start.String(), end.String())
}
