package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/noah-isme/course-scheduling-api/internal/models"
	"github.com/noah-isme/course-scheduling-api/internal/service"
	appErrors "github.com/noah-isme/course-scheduling-api/pkg/errors"
	"github.com/noah-isme/course-scheduling-api/pkg/logger"
	"github.com/noah-isme/course-scheduling-api/pkg/response"
)

const (
	streamBuffer     = 32
	streamWriteWait  = 10 * time.Second
	streamPongWait   = 60 * time.Second
	streamPingPeriod = streamPongWait * 9 / 10
)

var errStreamLagging = errors.New("event stream lagging")

type changeSubscriber interface {
	Subscribe(teacherID string, handler service.ChangeHandler) (func(), error)
}

// EventStreamHandler relays a teacher's change events over a websocket.
type EventStreamHandler struct {
	hub      changeSubscriber
	upgrader websocket.Upgrader
	logger   *zap.Logger
}

// NewEventStreamHandler constructs the handler. allowedOrigins empty accepts any origin.
func NewEventStreamHandler(hub changeSubscriber, allowedOrigins []string, log *zap.Logger) *EventStreamHandler {
	if log == nil {
		log = zap.NewNop()
	}
	origins := make(map[string]struct{}, len(allowedOrigins))
	for _, o := range allowedOrigins {
		origins[o] = struct{}{}
	}
	return &EventStreamHandler{
		hub:    hub,
		logger: log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				if len(origins) == 0 {
					return true
				}
				_, ok := origins[r.Header.Get("Origin")]
				return ok
			},
		},
	}
}

// Stream godoc
// @Summary Stream teacher change events
// @Description Upgrades to a websocket and pushes a JSON change event whenever the teacher's schedule changes.
// @Tags Events
// @Param teacherId path string true "Teacher ID"
// @Success 101
// @Router /teachers/{teacherId}/events [get]
func (h *EventStreamHandler) Stream(c *gin.Context) {
	teacherID := c.Param("teacherId")
	if !models.IsUUID(teacherID) {
		response.Error(c, appErrors.Clone(appErrors.ErrInvalidArgument, "teacher id must be a UUID"))
		return
	}
	log := logger.FromContext(c, h.logger).With(zap.String("teacher_id", teacherID))

	events := make(chan models.ChangeEvent, streamBuffer)
	unsubscribe, err := h.hub.Subscribe(teacherID, func(ctx context.Context, event models.ChangeEvent) error {
		select {
		case events <- event:
			return nil
		default:
			return errStreamLagging
		}
	})
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrStore.Code, appErrors.ErrStore.Status, "event stream unavailable"))
		return
	}
	defer unsubscribe()

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Debug("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()
	log.Debug("event stream opened")

	closed := make(chan struct{})
	go readUntilClosed(conn, closed)

	ticker := time.NewTicker(streamPingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-closed:
			log.Debug("event stream closed by client")
			return
		case <-c.Request.Context().Done():
			return
		case event := <-events:
			_ = conn.SetWriteDeadline(time.Now().Add(streamWriteWait))
			if err := conn.WriteJSON(event); err != nil {
				log.Debug("event stream write failed", zap.Error(err))
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(streamWriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readUntilClosed drains client frames so pongs and close frames are processed.
func readUntilClosed(conn *websocket.Conn, closed chan<- struct{}) {
	defer close(closed)
	_ = conn.SetReadDeadline(time.Now().Add(streamPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(streamPongWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
