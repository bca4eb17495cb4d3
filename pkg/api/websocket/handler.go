package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/aescanero/demoflow/pkg/domain"
	"github.com/aescanero/demoflow/pkg/ports"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // dashboard origins are not restricted
	},
}

// Handler streams demo and narration events to dashboard clients
type Handler struct {
	eventBus ports.EventBus
	metrics  ports.MetricsCollector
	logger   *zap.Logger

	mu      sync.Mutex
	clients int
}

// NewHandler creates a new WebSocket handler
func NewHandler(eventBus ports.EventBus, metrics ports.MetricsCollector, logger *zap.Logger) *Handler {
	return &Handler{
		eventBus: eventBus,
		metrics:  metrics,
		logger:   logger,
	}
}

// HandleDemoStream handles a WebSocket connection for the demo event stream
func (h *Handler) HandleDemoStream(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error("failed to upgrade connection", zap.Error(err))
		return
	}
	defer func() { _ = conn.Close() }()

	h.addClient(1)
	defer h.addClient(-1)

	h.logger.Info("WebSocket connection established",
		zap.String("client", c.ClientIP()))

	eventChan := make(chan ports.Event, 16)
	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	h.subscribeToEvents(ctx, eventChan)

	for {
		select {
		case <-ctx.Done():
			return
		case event := <-eventChan:
			data, err := json.Marshal(event)
			if err != nil {
				h.logger.Error("failed to marshal event", zap.Error(err))
				continue
			}

			if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
				h.logger.Debug("client disconnected", zap.Error(err))
				return
			}
		}
	}
}

// subscribeToEvents forwards demo and narration events into the channel
func (h *Handler) subscribeToEvents(ctx context.Context, ch chan<- ports.Event) {
	handler := func(ctx context.Context, event ports.Event) error {
		select {
		case ch <- event:
		case <-ctx.Done():
			return ctx.Err()
		default:
			// Channel full, skip event
			h.logger.Warn("event channel full, dropping event",
				zap.String("event_id", event.ID),
				zap.String("event_type", string(event.Type)))
		}
		return nil
	}

	topics := []string{domain.TopicDemoEvents, domain.TopicNarration}
	for _, topic := range topics {
		if err := h.eventBus.Subscribe(ctx, topic, handler); err != nil {
			h.logger.Error("failed to subscribe to events",
				zap.String("topic", topic),
				zap.Error(err))
		}
	}
}

// addClient adjusts the connected-client count and gauge
func (h *Handler) addClient(delta int) {
	h.mu.Lock()
	h.clients += delta
	count := h.clients
	h.mu.Unlock()

	h.metrics.SetConnectedClients(count)
}
