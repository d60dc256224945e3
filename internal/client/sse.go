package client

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/feedtrack/feedtrack/internal/domain/feedback"
	"github.com/feedtrack/feedtrack/internal/realtime"
)

// SSEChannel implements realtime.Channel over the server's event stream
// endpoint. One Subscribe call holds one HTTP connection; unsubscribing
// closes it. There is no reconnect: when the stream drops, delivery stops
// until the next Subscribe.
type SSEChannel struct {
	baseURL string
	http    *http.Client
	logger  *slog.Logger
}

// NewSSEChannel creates a channel against the server base URL. The client
// must carry the session cookie.
func NewSSEChannel(baseURL string, httpClient *http.Client, logger *slog.Logger) *SSEChannel {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &SSEChannel{baseURL: baseURL, http: httpClient, logger: logger}
}

// Subscribe opens the event stream and dispatches messages to the handler
// in arrival order until unsubscribed or the connection drops.
func (c *SSEChannel) Subscribe(topic string, handler func(realtime.Message)) (func(), error) {
	if topic != realtime.TopicFeedback {
		return nil, fmt.Errorf("unknown topic %q", topic)
	}

	ctx, cancel := context.WithCancel(context.Background())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/feedback/events", nil)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("building stream request: %w", err)
	}
	req.Header.Set("Accept", "text/event-stream")

	resp, err := c.http.Do(req)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("opening stream: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		cancel()
		return nil, fmt.Errorf("stream rejected: %s", resp.Status)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		defer resp.Body.Close()
		c.readEvents(resp.Body, handler)
	}()

	return func() {
		cancel()
		<-done
	}, nil
}

// readEvents parses the text/event-stream framing: an "event:" line naming
// the tag, a "data:" line carrying the item, a blank line ending the event.
func (c *SSEChannel) readEvents(body io.Reader, handler func(realtime.Message)) {
	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var tag, data string
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case strings.HasPrefix(line, "event:"):
			tag = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
		case strings.HasPrefix(line, "data:"):
			data = strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		case line == "":
			if tag == "" || data == "" {
				tag, data = "", ""
				continue
			}
			var item feedback.Item
			if err := json.Unmarshal([]byte(data), &item); err != nil {
				c.logger.Debug("skipping undecodable event", "error", err)
			} else {
				handler(realtime.Message{Tag: tag, Item: item})
			}
			tag, data = "", ""
		}
	}
	if err := scanner.Err(); err != nil {
		c.logger.Debug("event stream closed", "error", err)
	}
}
