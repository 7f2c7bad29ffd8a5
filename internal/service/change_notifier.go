package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/course-scheduling-api/internal/models"
	"github.com/noah-isme/course-scheduling-api/pkg/jobs"
)

const changeJobType = "scheduling.change"

// ErrHubStopped is returned when subscribing to a stopped hub.
var ErrHubStopped = errors.New("change hub stopped")

// ChangeHandler observes change events. A returned error schedules a redelivery.
type ChangeHandler func(ctx context.Context, event models.ChangeEvent) error

// ChangeHubConfig sizes the delivery queue.
type ChangeHubConfig struct {
	Workers    int
	BufferSize int
	MaxRetries int
	RetryDelay time.Duration
}

type subscriber struct {
	id        string
	teacherID string
	handler   ChangeHandler
}

func (s subscriber) matches(event models.ChangeEvent) bool {
	return s.teacherID == "" || strings.EqualFold(s.teacherID, event.TeacherID)
}

type delivery struct {
	subscriberID string
	event        models.ChangeEvent
}

// ChangeHub fans scheduling change events out to subscribers without blocking the publisher.
type ChangeHub struct {
	queue   *jobs.Queue
	metrics *MetricsService
	logger  *zap.Logger

	mu      sync.RWMutex
	subs    map[string]subscriber
	stopped bool
}

// NewChangeHub constructs a hub. Start must be called before events are delivered.
func NewChangeHub(cfg ChangeHubConfig, metrics *MetricsService, logger *zap.Logger) *ChangeHub {
	if logger == nil {
		logger = zap.NewNop()
	}
	hub := &ChangeHub{
		metrics: metrics,
		logger:  logger,
		subs:    make(map[string]subscriber),
	}
	hub.queue = jobs.NewQueue("scheduling-changes", hub.deliver, jobs.QueueConfig{
		Workers:    cfg.Workers,
		BufferSize: cfg.BufferSize,
		MaxRetries: cfg.MaxRetries,
		RetryDelay: cfg.RetryDelay,
		Logger:     logger,
	})
	return hub
}

// Start launches the delivery workers.
func (h *ChangeHub) Start(ctx context.Context) {
	h.mu.Lock()
	h.stopped = false
	h.mu.Unlock()
	h.queue.Start(ctx)
}

// Stop halts delivery and detaches every subscriber. Queued deliveries are discarded.
func (h *ChangeHub) Stop() {
	h.queue.Stop()

	h.mu.Lock()
	defer h.mu.Unlock()
	h.stopped = true
	h.metrics.AddSubscribers(-len(h.subs))
	h.subs = make(map[string]subscriber)
}

// Subscribe registers handler for events of teacherID, or of every teacher when teacherID is empty.
// The returned function detaches the handler and is safe to call more than once.
func (h *ChangeHub) Subscribe(teacherID string, handler ChangeHandler) (func(), error) {
	if handler == nil {
		return nil, errors.New("change handler is required")
	}
	sub := subscriber{id: uuid.NewString(), teacherID: strings.TrimSpace(teacherID), handler: handler}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.stopped {
		return nil, ErrHubStopped
	}
	h.subs[sub.id] = sub
	h.metrics.AddSubscribers(1)
	h.logger.Debug("change subscriber added", zap.String("subscriber_id", sub.id), zap.String("teacher_id", sub.teacherID))

	return func() { h.unsubscribe(sub.id) }, nil
}

// Publish queues one delivery per matching subscriber. It never blocks; deliveries that do
// not fit in the queue are dropped with a warning.
func (h *ChangeHub) Publish(ctx context.Context, event models.ChangeEvent) {
	if h == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}
	if event.Source == "" {
		event.Source = models.ChangeSourceService
	}

	for _, sub := range h.matching(event) {
		if ctx.Err() != nil {
			return
		}
		err := h.queue.TryEnqueue(jobs.Job{
			ID:      event.ID + "/" + sub.id,
			Type:    changeJobType,
			Payload: delivery{subscriberID: sub.id, event: event},
		})
		switch {
		case err == nil:
			h.metrics.RecordChangeEvent(event.Type, DeliveryQueued)
		case errors.Is(err, jobs.ErrQueueFull):
			h.metrics.RecordChangeEvent(event.Type, DeliveryDropped)
			h.logger.Warn("change event dropped",
				zap.String("event_id", event.ID),
				zap.String("type", string(event.Type)),
				zap.String("subscriber_id", sub.id),
				zap.Error(err),
			)
		default:
			h.metrics.RecordChangeEvent(event.Type, DeliveryFailed)
			h.logger.Warn("change event not queued", zap.String("event_id", event.ID), zap.Error(err))
		}
	}
}

// SubscriberCount returns the number of attached handlers.
func (h *ChangeHub) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

func (h *ChangeHub) matching(event models.ChangeEvent) []subscriber {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]subscriber, 0, len(h.subs))
	for _, sub := range h.subs {
		if sub.matches(event) {
			out = append(out, sub)
		}
	}
	return out
}

func (h *ChangeHub) unsubscribe(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.subs[id]; !ok {
		return
	}
	delete(h.subs, id)
	h.metrics.AddSubscribers(-1)
}

func (h *ChangeHub) deliver(ctx context.Context, job jobs.Job) error {
	d, ok := job.Payload.(delivery)
	if !ok {
		return fmt.Errorf("unexpected change payload %T", job.Payload)
	}

	h.mu.RLock()
	sub, ok := h.subs[d.subscriberID]
	h.mu.RUnlock()
	if !ok {
		return nil
	}

	if err := sub.handler(ctx, d.event); err != nil {
		h.metrics.RecordChangeEvent(d.event.Type, DeliveryFailed)
		return err
	}
	h.metrics.RecordChangeEvent(d.event.Type, DeliveryDelivered)
	return nil
}
