package realtime

import (
	"io"
	"log/slog"
	"sync"

	"github.com/feedtrack/feedtrack/internal/domain/feedback"
)

// Hub is an in-process publish/subscribe fan-out over topics. It backs the
// SSE stream and any in-process subscribers. Handlers are invoked in
// publish order for a given topic.
type Hub struct {
	mu     sync.Mutex
	nextID int
	subs   map[string]map[int]func(Message)
	logger *slog.Logger
}

// NewHub creates an empty hub.
func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Hub{
		subs:   make(map[string]map[int]func(Message)),
		logger: logger,
	}
}

// Subscribe registers a handler for a topic. The returned func removes the
// subscription and is safe to call more than once.
func (h *Hub) Subscribe(topic string, handler func(Message)) (func(), error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := h.nextID
	h.nextID++
	if h.subs[topic] == nil {
		h.subs[topic] = make(map[int]func(Message))
	}
	h.subs[topic][id] = handler

	return func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		delete(h.subs[topic], id)
	}, nil
}

// Publish delivers a message to every subscriber of the topic.
func (h *Hub) Publish(topic string, msg Message) {
	h.mu.Lock()
	handlers := make([]func(Message), 0, len(h.subs[topic]))
	for _, handler := range h.subs[topic] {
		handlers = append(handlers, handler)
	}
	h.mu.Unlock()

	for _, handler := range handlers {
		handler(msg)
	}
}

// FeedPublisher adapts the hub to the feedback service's Publisher.
type FeedPublisher struct {
	hub *Hub
}

// NewFeedPublisher creates a publisher for the feedback topic.
func NewFeedPublisher(hub *Hub) *FeedPublisher {
	return &FeedPublisher{hub: hub}
}

// PublishCreated emits a creation event for the item.
func (p *FeedPublisher) PublishCreated(item feedback.Item) {
	p.hub.Publish(TopicFeedback, Message{Tag: TagCreate, Item: item})
}

// PublishUpdated emits an update event for the item.
func (p *FeedPublisher) PublishUpdated(item feedback.Item) {
	p.hub.Publish(TopicFeedback, Message{Tag: TagUpdate, Item: item})
}
