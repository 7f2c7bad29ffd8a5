package service

import (
	"context"
	"database/sql"
	"sync"

	"github.com/noah-isme/course-scheduling-api/internal/models"
	"github.com/noah-isme/course-scheduling-api/pkg/calendar"
)

const (
	teacherA = "11111111-1111-1111-1111-111111111111"
	teacherB = "22222222-2222-2222-2222-222222222222"
	studentA = "33333333-3333-3333-3333-333333333333"
	courseA  = "44444444-4444-4444-4444-444444444444"
	patternX = "55555555-5555-5555-5555-555555555555"
	patternY = "66666666-6666-6666-6666-666666666666"
)

type mockPatternRepo struct {
	patterns []models.AvailabilityPattern
	err      error
	filters  []models.AvailabilityFilter
}

func (m *mockPatternRepo) FindByID(ctx context.Context, id string) (*models.AvailabilityPattern, error) {
	if m.err != nil {
		return nil, m.err
	}
	for _, p := range m.patterns {
		if p.ID == id {
			p := p
			return &p, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockPatternRepo) List(ctx context.Context, filter models.AvailabilityFilter) ([]models.AvailabilityPattern, error) {
	m.filters = append(m.filters, filter)
	if m.err != nil {
		return nil, m.err
	}
	var out []models.AvailabilityPattern
	for _, p := range m.patterns {
		if filter.TeacherID != "" && p.TeacherID != filter.TeacherID {
			continue
		}
		if filter.ActiveOnly && !p.IsActive {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

type mockSeatCounter struct {
	counts   map[models.SlotKey]int
	total    map[string]int
	err      error
	lastDate *calendar.Date
}

func (m *mockSeatCounter) CountActive(ctx context.Context, patternID string, classDate *calendar.Date) (int, error) {
	m.lastDate = classDate
	if m.err != nil {
		return 0, m.err
	}
	if classDate == nil {
		return m.total[patternID], nil
	}
	return m.counts[models.SlotKey{PatternID: patternID, ClassDate: *classDate}], nil
}

func (m *mockSeatCounter) CountActiveGrouped(ctx context.Context, patternIDs []string, start, end calendar.Date) (map[models.SlotKey]int, error) {
	if m.err != nil {
		return nil, m.err
	}
	out := make(map[models.SlotKey]int)
	for key, n := range m.counts {
		out[key] = n
	}
	return out, nil
}

type mockHolidayProvider struct {
	holidays []models.Holiday
	err      error
	calls    int
}

func (m *mockHolidayProvider) Between(ctx context.Context, start, end calendar.Date) ([]models.Holiday, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	var out []models.Holiday
	for _, h := range m.holidays {
		if !h.Date.Before(start) && !h.Date.After(end) {
			out = append(out, h)
		}
	}
	return out, nil
}

type mockPublisher struct {
	mu     sync.Mutex
	events []models.ChangeEvent
}

func (m *mockPublisher) Publish(ctx context.Context, event models.ChangeEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
}

func (m *mockPublisher) types() []models.ChangeEventType {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.ChangeEventType, 0, len(m.events))
	for _, e := range m.events {
		out = append(out, e.Type)
	}
	return out
}

func pattern(id, teacherID string, day int, start, end string, maxStudents int) models.AvailabilityPattern {
	return models.AvailabilityPattern{
		ID:          id,
		TeacherID:   teacherID,
		DayOfWeek:   day,
		StartTime:   start,
		EndTime:     end,
		MaxStudents: maxStudents,
		IsActive:    true,
	}
}
