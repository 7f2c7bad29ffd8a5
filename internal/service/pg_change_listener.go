package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/noah-isme/course-scheduling-api/internal/models"
	"github.com/noah-isme/course-scheduling-api/pkg/calendar"
)

const (
	listenerMinReconnect = 10 * time.Second
	listenerMaxReconnect = time.Minute
	listenerPingInterval = 90 * time.Second
)

// notification mirrors the JSON emitted by the notify_scheduling_change trigger.
type notification struct {
	Table     string                  `json:"table"`
	Op        string                  `json:"op"`
	TeacherID string                  `json:"teacher_id"`
	PatternID string                  `json:"pattern_id"`
	ClassDate *calendar.Date          `json:"class_date"`
	Status    models.EnrollmentStatus `json:"status"`
}

// PGChangeListener republishes PostgreSQL NOTIFY payloads into a change publisher.
type PGChangeListener struct {
	dsn     string
	channel string
	events  changePublisher
	logger  *zap.Logger
}

// NewPGChangeListener constructs a listener for channel on the database at dsn.
func NewPGChangeListener(dsn, channel string, events changePublisher, logger *zap.Logger) *PGChangeListener {
	if logger == nil {
		logger = zap.NewNop()
	}
	if channel == "" {
		channel = "scheduling_changes"
	}
	return &PGChangeListener{dsn: dsn, channel: channel, events: events, logger: logger}
}

// Run listens until ctx is cancelled.
func (l *PGChangeListener) Run(ctx context.Context) error {
	listener := pq.NewListener(l.dsn, listenerMinReconnect, listenerMaxReconnect, func(ev pq.ListenerEventType, err error) {
		if err != nil {
			l.logger.Warn("change listener connection event", zap.Int("event", int(ev)), zap.Error(err))
		}
	})
	defer listener.Close()

	if err := listener.Listen(l.channel); err != nil {
		return fmt.Errorf("listen on %s: %w", l.channel, err)
	}
	l.logger.Info("change listener started", zap.String("channel", l.channel))

	ticker := time.NewTicker(listenerPingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			l.logger.Info("change listener stopped", zap.String("channel", l.channel))
			return nil
		case n := <-listener.Notify:
			// nil after a reconnect; notifications sent meanwhile are lost.
			if n == nil {
				l.logger.Warn("change listener reconnected", zap.String("channel", l.channel))
				continue
			}
			l.handle(ctx, n.Extra)
		case <-ticker.C:
			if err := listener.Ping(); err != nil {
				l.logger.Warn("change listener ping failed", zap.Error(err))
			}
		}
	}
}

func (l *PGChangeListener) handle(ctx context.Context, payload string) {
	event, ok, err := decodeNotification(payload)
	if err != nil {
		l.logger.Warn("malformed change notification", zap.String("payload", payload), zap.Error(err))
		return
	}
	if !ok {
		return
	}
	l.events.Publish(ctx, event)
}

// decodeNotification maps a trigger payload to a change event. ok is false for rows that
// carry no observable change.
func decodeNotification(payload string) (event models.ChangeEvent, ok bool, err error) {
	var n notification
	if err = json.Unmarshal([]byte(payload), &n); err != nil {
		return event, false, err
	}
	if strings.TrimSpace(n.TeacherID) == "" {
		return event, false, fmt.Errorf("notification for %s carries no teacher id", n.Table)
	}

	event = models.ChangeEvent{
		TeacherID: n.TeacherID,
		PatternID: n.PatternID,
		ClassDate: n.ClassDate,
		Source:    models.ChangeSourceDatabase,
	}
	switch n.Table {
	case "availability_patterns":
		event.Type = models.ChangePatternChanged
	case "enrollments":
		switch {
		case strings.EqualFold(n.Op, "INSERT"):
			event.Type = models.ChangeEnrollmentCreated
		case n.Status == models.EnrollmentStatusCancelled:
			event.Type = models.ChangeEnrollmentCancelled
		case n.Status == models.EnrollmentStatusExpired:
			event.Type = models.ChangeEnrollmentExpired
		default:
			event.Type = models.ChangeEnrollmentUpdated
		}
	default:
		return models.ChangeEvent{}, false, nil
	}
	return event, true, nil
}
