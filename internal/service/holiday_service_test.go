package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/course-scheduling-api/internal/models"
	"github.com/noah-isme/course-scheduling-api/pkg/calendar"
	appErrors "github.com/noah-isme/course-scheduling-api/pkg/errors"
)

type memoryCacheRepo struct {
	items   map[string][]byte
	deleted []string
	getErr  error
}

func newMemoryCacheRepo() *memoryCacheRepo {
	return &memoryCacheRepo{items: make(map[string][]byte)}
}

func (m *memoryCacheRepo) Get(ctx context.Context, key string, dest interface{}) error {
	if m.getErr != nil {
		return m.getErr
	}
	raw, ok := m.items[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (m *memoryCacheRepo) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.items[key] = raw
	return nil
}

func (m *memoryCacheRepo) DeleteByPattern(ctx context.Context, pattern string) error {
	prefix := strings.TrimSuffix(pattern, "*")
	for key := range m.items {
		if strings.HasPrefix(key, prefix) {
			delete(m.items, key)
		}
	}
	m.deleted = append(m.deleted, pattern)
	return nil
}

type mockHolidayRepo struct {
	stored   []models.Holiday
	upserted []models.Holiday
	lists    int
	err      error
}

func (m *mockHolidayRepo) List(ctx context.Context, filter models.HolidayFilter) ([]models.Holiday, error) {
	m.lists++
	if m.err != nil {
		return nil, m.err
	}
	var out []models.Holiday
	for _, h := range m.stored {
		if !h.Date.Before(filter.Start) && !h.Date.After(filter.End) {
			out = append(out, h)
		}
	}
	return out, nil
}

func (m *mockHolidayRepo) Upsert(ctx context.Context, holidays []models.Holiday) error {
	if m.err != nil {
		return m.err
	}
	m.upserted = append(m.upserted, holidays...)
	return nil
}

func TestHolidayBetweenMergesNationalAndStored(t *testing.T) {
	repo := &mockHolidayRepo{stored: []models.Holiday{
		{Date: calendar.MustParse("2024-01-01"), Name: "Campus closed"},
		{Date: calendar.MustParse("2024-01-10"), Name: "Staff day"},
	}}
	svc := NewHolidayService(repo, nil, HolidayServiceConfig{NationalCountry: "US"}, nil)

	holidays, err := svc.Between(context.Background(), calendar.MustParse("2024-01-01"), calendar.MustParse("2024-01-31"))
	require.NoError(t, err)
	require.Len(t, holidays, 3)
	assert.Equal(t, "Campus closed", holidays[0].Name)
	assert.Equal(t, "2024-01-10", holidays[1].Date.String())
	assert.Equal(t, "2024-01-15", holidays[2].Date.String())
	assert.True(t, holidays[2].IsNational)
}

func TestHolidayBetweenUsesCache(t *testing.T) {
	repo := &mockHolidayRepo{stored: []models.Holiday{{Date: calendar.MustParse("2024-01-10"), Name: "Staff day"}}}
	cacheRepo := newMemoryCacheRepo()
	cacheSvc := NewCacheService(cacheRepo, nil, time.Minute, nil, true)
	svc := NewHolidayService(repo, cacheSvc, HolidayServiceConfig{}, nil)
	start, end := calendar.MustParse("2024-01-01"), calendar.MustParse("2024-01-31")

	first, hit, err := svc.Lookup(context.Background(), start, end)
	require.NoError(t, err)
	assert.False(t, hit)
	second, hit, err := svc.Lookup(context.Background(), start, end)
	require.NoError(t, err)
	assert.True(t, hit)

	assert.Equal(t, 1, repo.lists)
	assert.Equal(t, first, second)
	assert.Contains(t, cacheRepo.items, "course-scheduling:holidays:none:2024-01-01:2024-01-31")
}

func TestHolidayBetweenFallsThroughOnCacheFailure(t *testing.T) {
	repo := &mockHolidayRepo{}
	cacheRepo := newMemoryCacheRepo()
	cacheRepo.getErr = errors.New("redis down")
	svc := NewHolidayService(repo, NewCacheService(cacheRepo, nil, time.Minute, nil, true), HolidayServiceConfig{}, nil)

	_, err := svc.Between(context.Background(), calendar.MustParse("2024-01-01"), calendar.MustParse("2024-01-31"))
	require.NoError(t, err)
	assert.Equal(t, 1, repo.lists)
}

func TestHolidayBetweenErrors(t *testing.T) {
	svc := NewHolidayService(&mockHolidayRepo{err: errors.New("timeout")}, nil, HolidayServiceConfig{}, nil)

	_, err := svc.Between(context.Background(), calendar.MustParse("2024-02-01"), calendar.MustParse("2024-01-01"))
	assert.True(t, errors.Is(err, appErrors.ErrInvalidArgument))

	_, err = svc.Between(context.Background(), calendar.MustParse("2024-01-01"), calendar.MustParse("2024-02-01"))
	assert.True(t, errors.Is(err, appErrors.ErrStore))
}

func TestSeedNational(t *testing.T) {
	repo := &mockHolidayRepo{}
	cacheRepo := newMemoryCacheRepo()
	svc := NewHolidayService(repo, NewCacheService(cacheRepo, nil, time.Minute, nil, true), HolidayServiceConfig{NationalCountry: "US"}, nil)

	n, err := svc.SeedNational(context.Background(), 2024)
	require.NoError(t, err)
	assert.Equal(t, len(repo.upserted), n)
	assert.Greater(t, n, 5)
	assert.Equal(t, []string{"course-scheduling:holidays:*"}, cacheRepo.deleted)

	_, err = svc.SeedNational(context.Background(), 1200)
	assert.True(t, errors.Is(err, appErrors.ErrInvalidArgument))

	unconfigured := NewHolidayService(repo, nil, HolidayServiceConfig{NationalCountry: "XX"}, nil)
	_, err = unconfigured.SeedNational(context.Background(), 2024)
	assert.True(t, errors.Is(err, appErrors.ErrPreconditionFailed))
}
