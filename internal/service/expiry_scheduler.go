package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const expiryRunTimeout = 2 * time.Minute

type enrollmentExpirer interface {
	ExpirePast(ctx context.Context) (int, error)
}

// ExpiryScheduler runs enrollment expiry on a cron schedule.
type ExpiryScheduler struct {
	expirer enrollmentExpirer
	spec    string
	c       *cron.Cron
	logger  *zap.Logger

	mu      sync.Mutex
	running bool
}

// NewExpiryScheduler validates spec and prepares the cron runner. An empty spec means "@daily".
func NewExpiryScheduler(expirer enrollmentExpirer, spec string, loc *time.Location, logger *zap.Logger) (*ExpiryScheduler, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.UTC
	}
	if spec == "" {
		spec = "@daily"
	}
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	if _, err := parser.Parse(spec); err != nil {
		return nil, fmt.Errorf("invalid expiry schedule %q: %w", spec, err)
	}

	s := &ExpiryScheduler{expirer: expirer, spec: spec, logger: logger}
	s.c = cron.New(cron.WithParser(parser), cron.WithLocation(loc))
	if _, err := s.c.AddFunc(spec, func() { s.RunOnce(context.Background()) }); err != nil {
		return nil, fmt.Errorf("schedule enrollment expiry: %w", err)
	}
	return s, nil
}

// Start begins the cron loop.
func (s *ExpiryScheduler) Start() {
	s.c.Start()
	s.logger.Info("enrollment expiry scheduled", zap.String("spec", s.spec))
}

// Stop halts the cron loop and waits for a running expiry to finish.
func (s *ExpiryScheduler) Stop() {
	<-s.c.Stop().Done()
}

// RunOnce expires past enrollments. Overlapping runs are skipped.
func (s *ExpiryScheduler) RunOnce(ctx context.Context) int {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		s.logger.Debug("enrollment expiry already running, skipped")
		return 0
	}
	s.running = true
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	ctx, cancel := context.WithTimeout(ctx, expiryRunTimeout)
	defer cancel()
	n, err := s.expirer.ExpirePast(ctx)
	if err != nil {
		s.logger.Error("enrollment expiry failed", zap.Error(err))
		return 0
	}
	return n
}
