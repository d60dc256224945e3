package transport

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/feedtrack/feedtrack/internal/realtime"
)

// sseBuffer bounds undelivered events per connection. A client that can't
// keep up loses its connection rather than blocking publishers.
const sseBuffer = 32

// EventStream serves the feedback change feed over Server-Sent Events.
type EventStream struct {
	hub    *realtime.Hub
	logger *slog.Logger
}

// NewEventStream creates the SSE endpoint over the hub.
func NewEventStream(hub *realtime.Hub, logger *slog.Logger) *EventStream {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &EventStream{hub: hub, logger: logger}
}

// ServeHTTP streams feedback events until the client disconnects.
func (s *EventStream) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	events := make(chan realtime.Message, sseBuffer)
	overflow := make(chan struct{}, 1)
	unsubscribe, err := s.hub.Subscribe(realtime.TopicFeedback, func(msg realtime.Message) {
		select {
		case events <- msg:
		default:
			select {
			case overflow <- struct{}{}:
			default:
			}
		}
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "subscription failed")
		return
	}
	defer unsubscribe()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-overflow:
			s.logger.Warn("dropping slow event stream client")
			return
		case msg := <-events:
			data, err := json.Marshal(msg.Item)
			if err != nil {
				s.logger.Error("encoding event failed", "error", err)
				continue
			}
			if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", msg.Tag, data); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}
