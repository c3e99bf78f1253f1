// Package recordstore talks to the spreadsheet-backed web app that persists every table.
//
// The protocol is a single endpoint: GET returns all tables at once, POST carries
// {action, table, data|id}. Writes are fire-and-forget; only transport failures are errors.
package recordstore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Table names understood by the web app.
type Table string

const (
	TableAttendance Table = "attendance"
	TableTeachers   Table = "teachers"
	TableSchedule   Table = "schedule"
	TableSettings   Table = "settings"
)

const (
	actionUpsert = "insertOrUpdate"
	actionDelete = "delete"

	placeholderMarker = "ISI_DENGAN"
	maxPayloadBytes   = 32 << 20
)

// Outcomes reported to observers.
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

var (
	// ErrNotConfigured is returned when the endpoint is empty or still the deployment placeholder.
	ErrNotConfigured = errors.New("recordstore: endpoint not configured")
	// ErrUnexpectedStatus is returned by FetchAll when the web app answers with a non-2xx status.
	ErrUnexpectedStatus = errors.New("recordstore: unexpected status")
)

// Payload is the raw GET response. Tables are kept undecoded so callers choose the model.
type Payload struct {
	Attendance json.RawMessage `json:"attendance"`
	Teachers   json.RawMessage `json:"teachers"`
	Schedule   json.RawMessage `json:"schedule"`
	Settings   json.RawMessage `json:"settings"`
	Events     json.RawMessage `json:"events"`
}

// Observer receives one callback per request, e.g. for metrics.
type Observer interface {
	ObserveStoreRequest(operation, table, outcome string, duration time.Duration)
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient overrides the HTTP client. The client timeout still applies when set.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithObserver attaches a request observer.
func WithObserver(o Observer) Option {
	return func(c *Client) { c.observer = o }
}

// WithClock overrides the clock used for cache busting and timing.
func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		if now != nil {
			c.now = now
		}
	}
}

// Client is a Record Store HTTP client. It is safe for concurrent use.
type Client struct {
	endpoint string
	http     *http.Client
	logger   *zap.Logger
	observer Observer
	now      func() time.Time
}

// New constructs a client for endpoint. A zero timeout leaves the HTTP client default.
func New(endpoint string, timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		endpoint: strings.TrimSpace(endpoint),
		http:     &http.Client{Timeout: timeout},
		logger:   zap.NewNop(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Configured reports whether the endpoint is usable.
func (c *Client) Configured() bool {
	return IsConfigured(c.endpoint)
}

// IsConfigured reports whether endpoint is set and not the deployment placeholder.
func IsConfigured(endpoint string) bool {
	endpoint = strings.TrimSpace(endpoint)
	return endpoint != "" && !strings.Contains(endpoint, placeholderMarker)
}

// FetchAll downloads every table. A cache-busting timestamp is appended to defeat proxy caches.
func (c *Client) FetchAll(ctx context.Context) (*Payload, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}
	start := c.now()

	target, err := url.Parse(c.endpoint)
	if err != nil {
		return nil, fmt.Errorf("recordstore: parse endpoint: %w", err)
	}
	query := target.Query()
	query.Set("t", strconv.FormatInt(start.UnixMilli(), 10))
	target.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("recordstore: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		c.observe("fetch", "*", OutcomeError, start)
		return nil, fmt.Errorf("recordstore: fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.observe("fetch", "*", OutcomeError, start)
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	var payload Payload
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxPayloadBytes)).Decode(&payload); err != nil {
		c.observe("fetch", "*", OutcomeError, start)
		return nil, fmt.Errorf("recordstore: decode payload: %w", err)
	}
	c.observe("fetch", "*", OutcomeSuccess, start)
	return &payload, nil
}

type upsertCommand struct {
	Action string      `json:"action"`
	Table  Table       `json:"table"`
	Data   interface{} `json:"data"`
}

type deleteCommand struct {
	Action string `json:"action"`
	Table  Table  `json:"table"`
	ID     string `json:"id"`
}

// Upsert inserts or replaces data in table, keyed by the record's own id.
func (c *Client) Upsert(ctx context.Context, table Table, data interface{}) error {
	return c.post(ctx, "upsert", table, upsertCommand{Action: actionUpsert, Table: table, Data: data})
}

// Delete removes the row identified by id from table.
func (c *Client) Delete(ctx context.Context, table Table, id string) error {
	if id == "" {
		return fmt.Errorf("recordstore: delete from %s requires an id", table)
	}
	return c.post(ctx, "delete", table, deleteCommand{Action: actionDelete, Table: table, ID: id})
}

func (c *Client) post(ctx context.Context, operation string, table Table, command interface{}) error {
	if !c.Configured() {
		return ErrNotConfigured
	}
	start := c.now()

	body, err := json.Marshal(command)
	if err != nil {
		return fmt.Errorf("recordstore: encode %s command: %w", operation, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("recordstore: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		c.observe(operation, string(table), OutcomeError, start)
		return fmt.Errorf("recordstore: %s %s: %w", operation, table, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// the web app gives no reliable acknowledgement, so the write is still assumed to have landed
		c.logger.Warn("record store answered write with non-2xx status",
			zap.String("operation", operation),
			zap.String("table", string(table)),
			zap.Int("status", resp.StatusCode),
		)
	}
	c.observe(operation, string(table), OutcomeSuccess, start)
	return nil
}

func (c *Client) observe(operation, table, outcome string, start time.Time) {
	if c.observer == nil {
		return
	}
	c.observer.ObserveStoreRequest(operation, table, outcome, c.now().Sub(start))
}
