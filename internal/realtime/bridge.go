package realtime

import (
	"fmt"
	"sync"

	"github.com/feedtrack/feedtrack/internal/domain/feedback"
)

// Bridge attaches to the feedback change feed and translates tagged
// messages into callbacks. It owns no retry policy: when the underlying
// channel stops delivering, events simply stop until the next Attach.
type Bridge struct {
	channel Channel
	topic   string
}

// NewBridge creates a bridge over the channel for the feedback topic.
func NewBridge(channel Channel) *Bridge {
	return &Bridge{channel: channel, topic: TopicFeedback}
}

// Handle detaches a subscription. Detach is idempotent; the underlying
// unsubscribe runs exactly once.
type Handle struct {
	once        sync.Once
	unsubscribe func()
}

// Detach releases the subscription.
func (h *Handle) Detach() {
	h.once.Do(h.unsubscribe)
}

// Attach subscribes to the feed. Creation-tagged messages invoke onCreate,
// update-tagged ones invoke onUpdate; other tags are ignored. Repeated
// creation events for the same item id are dropped so a duplicate create on
// the wire never double-prepends.
func (b *Bridge) Attach(onCreate func(feedback.Item), onUpdate func(string, feedback.Item)) (*Handle, error) {
	var mu sync.Mutex
	seen := make(map[string]struct{})

	unsubscribe, err := b.channel.Subscribe(b.topic, func(msg Message) {
		mu.Lock()
		defer mu.Unlock()
		switch msg.Tag {
		case TagCreate:
			if _, dup := seen[msg.Item.ID]; dup {
				return
			}
			seen[msg.Item.ID] = struct{}{}
			onCreate(msg.Item)
		case TagUpdate:
			onUpdate(msg.Item.ID, msg.Item)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("subscribing to %s: %w", b.topic, err)
	}

	return &Handle{unsubscribe: unsubscribe}, nil
}
