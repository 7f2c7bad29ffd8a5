package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubExpirer struct {
	calls int
	n     int
	err   error
}

func (s *stubExpirer) ExpirePast(ctx context.Context) (int, error) {
	s.calls++
	return s.n, s.err
}

func TestNewExpirySchedulerValidatesSpec(t *testing.T) {
	_, err := NewExpiryScheduler(&stubExpirer{}, "not a cron", nil, nil)
	assert.Error(t, err)

	s, err := NewExpiryScheduler(&stubExpirer{}, "", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "@daily", s.spec)

	_, err = NewExpiryScheduler(&stubExpirer{}, "0 2 * * *", nil, nil)
	assert.NoError(t, err)
}

func TestExpirySchedulerRunOnce(t *testing.T) {
	expirer := &stubExpirer{n: 3}
	s, err := NewExpiryScheduler(expirer, "@hourly", nil, nil)
	require.NoError(t, err)

	assert.Equal(t, 3, s.RunOnce(context.Background()))
	assert.Equal(t, 1, expirer.calls)

	expirer.err = errors.New("store down")
	assert.Equal(t, 0, s.RunOnce(context.Background()))
}

func TestExpirySchedulerStartStop(t *testing.T) {
	s, err := NewExpiryScheduler(&stubExpirer{}, "@daily", nil, nil)
	require.NoError(t, err)
	s.Start()
	s.Stop()
}
