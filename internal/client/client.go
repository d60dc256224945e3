// Package client is the synchronization client: it logs in, loads the
// caller's identity and feedback items into the local store, and keeps the
// store current from the realtime feed.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"

	"github.com/feedtrack/feedtrack/internal/domain/feedback"
	"github.com/feedtrack/feedtrack/internal/domain/identity"
	"github.com/feedtrack/feedtrack/internal/realtime"
	"github.com/feedtrack/feedtrack/internal/store"
)

// Client owns one Store and keeps it synchronized with the server.
type Client struct {
	baseURL string
	http    *http.Client
	store   *store.Store
	bridge  *realtime.Bridge
	handle  *realtime.Handle
	logger  *slog.Logger
}

// New creates a client against the server base URL with an empty store.
func New(baseURL string, logger *slog.Logger) (*Client, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("creating cookie jar: %w", err)
	}
	httpClient := &http.Client{Jar: jar}
	return &Client{
		baseURL: baseURL,
		http:    httpClient,
		store:   store.New(),
		bridge:  realtime.NewBridge(NewSSEChannel(baseURL, httpClient, logger)),
		logger:  logger,
	}, nil
}

// Store exposes the client's state container for observation.
func (c *Client) Store() *store.Store {
	return c.store
}

// Login authenticates and populates the store: identity, then the item
// list, then the realtime attachment.
func (c *Client) Login(ctx context.Context, email, password string) error {
	body, err := json.Marshal(map[string]string{"email": email, "password": password})
	if err != nil {
		return fmt.Errorf("encoding credentials: %w", err)
	}

	var ident identity.Identity
	if err := c.post(ctx, "/api/session", body, &ident); err != nil {
		return err
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	c.store.SetIdentity(&ident)

	if err := c.RefreshItems(ctx); err != nil {
		return err
	}
	return c.attach()
}

// RefreshItems reloads the item list. The result is discarded when the
// context was cancelled while the fetch was in flight, so a torn-down
// caller never writes a stale snapshot.
func (c *Client) RefreshItems(ctx context.Context) error {
	var items []feedback.Item
	if err := c.get(ctx, "/api/feedback", &items); err != nil {
		return err
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	c.store.SetItems(items)
	return nil
}

// Logout detaches from the feed, revokes the session and clears the store.
func (c *Client) Logout(ctx context.Context) error {
	c.Detach()

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+"/api/session", nil)
	if err != nil {
		return fmt.Errorf("building logout request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("logging out: %w", err)
	}
	resp.Body.Close()

	c.store.Clear()
	return nil
}

// Submit files a new feedback item and returns the stored result. The
// corresponding create event arrives through the realtime feed.
func (c *Client) Submit(ctx context.Context, req feedback.SubmitRequest) (*feedback.Item, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encoding submission: %w", err)
	}
	var item feedback.Item
	if err := c.post(ctx, "/api/feedback", body, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// attach subscribes the bridge and routes events into the store.
func (c *Client) attach() error {
	handle, err := c.bridge.Attach(
		func(item feedback.Item) {
			c.store.AddItem(item)
		},
		func(id string, item feedback.Item) {
			c.store.UpdateItem(id, feedback.PatchOf(item))
		},
	)
	if err != nil {
		return fmt.Errorf("attaching to feed: %w", err)
	}
	c.handle = handle
	return nil
}

// Detach releases the realtime subscription; safe to call repeatedly.
func (c *Client) Detach() {
	if c.handle != nil {
		c.handle.Detach()
	}
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	return c.do(req, out)
}

func (c *Client) post(ctx context.Context, path string, body []byte, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var e struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&e)
		if e.Error == "" {
			e.Error = resp.Status
		}
		return fmt.Errorf("%s %s: %s", req.Method, req.URL.Path, e.Error)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}
