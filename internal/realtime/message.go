// Package realtime carries feedback change events from the server to
// attached clients. The Hub is the server-side fan-out; the Bridge is the
// client-side adapter that turns tagged messages into store mutations.
package realtime

import "github.com/feedtrack/feedtrack/internal/domain/feedback"

// Message tags.
const (
	TagCreate = "create"
	TagUpdate = "update"
)

// TopicFeedback is the change feed for the feedback collection.
const TopicFeedback = "feedback.items"

// Message is a single change event on a topic.
type Message struct {
	Tag  string        `json:"tag"`
	Item feedback.Item `json:"item"`
}

// Channel delivers messages for a topic until unsubscribed.
type Channel interface {
	Subscribe(topic string, handler func(Message)) (func(), error)
}
