package appconfig

import (
	"context"
	"errors"
	"net/http"

	"go.trai.ch/zerr"
)

const defaultUserAgent = "sdkkit-appconfig/1.0"

// Client is the typed front of the configuration service. It prepares
// conditional-request headers, escapes filter values and maps service
// failures to sentinel errors before handing off to the Operations layer.
type Client struct {
	ops Operations
}

// Option configures a Client.
type Option func(*settings)

type settings struct {
	userAgent  string
	httpClient *http.Client
	ops        Operations
}

// WithHTTPClient sets a custom HTTP client for the default transport.
func WithHTTPClient(c *http.Client) Option {
	return func(s *settings) {
		s.httpClient = c
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(s *settings) {
		s.userAgent = ua
	}
}

// WithOperations substitutes the transport layer entirely. Used for testing.
func WithOperations(ops Operations) Option {
	return func(s *settings) {
		s.ops = ops
	}
}

// New builds a client from a connection string of the form
// "Endpoint=...;Id=...;Secret=...".
func New(connectionString string, opts ...Option) (*Client, error) {
	s := &settings{userAgent: defaultUserAgent}
	for _, opt := range opts {
		opt(s)
	}
	if s.ops != nil {
		return &Client{ops: s.ops}, nil
	}

	cred, err := parseConnectionString(connectionString)
	if err != nil {
		return nil, err
	}
	pipe := newPipeline(cred, s.userAgent, s.httpClient)
	return &Client{ops: newRESTOperations(cred.endpoint, pipe)}, nil
}

// Get fetches the setting matching key and label.
func (c *Client) Get(ctx context.Context, key, label string) (*Setting, error) {
	setting, err := c.ops.Get(ctx, key, label, nil)
	return setting, mapStatus(err, map[int]error{
		http.StatusNotFound:           ErrSettingNotFound,
		http.StatusPreconditionFailed: ErrSettingNotFound,
	})
}

// Add creates the setting and fails if it already exists.
func (c *Client) Add(ctx context.Context, setting Setting) (*Setting, error) {
	headers := http.Header{}
	headers.Set("If-None-Match", "*")
	created, err := c.ops.CreateOrUpdate(ctx, setting, headers)
	return created, mapStatus(err, map[int]error{
		http.StatusPreconditionFailed: ErrSettingExists,
	})
}

// Set creates or replaces the setting. When the setting carries an etag the
// write only succeeds against that exact revision.
func (c *Client) Set(ctx context.Context, setting Setting) (*Setting, error) {
	var headers http.Header
	if setting.ETag != "" {
		headers = http.Header{}
		headers.Set("If-Match", quoteETag(setting.ETag))
	}
	stored, err := c.ops.CreateOrUpdate(ctx, setting, headers)
	return stored, mapStatus(err, map[int]error{
		http.StatusPreconditionFailed: ErrSettingModified,
	})
}

// Update fetches the current setting and rewrites only the attributes set in
// fields. An empty etag updates whatever revision currently exists.
func (c *Client) Update(ctx context.Context, key, etag string, fields Fields) (*Setting, error) {
	if key == "" {
		return nil, zerr.Wrap(ErrKeyRequired, "cannot update a configuration setting")
	}

	headers := http.Header{}
	if etag != "" {
		headers.Set("If-Match", quoteETag(etag))
	} else {
		headers.Set("If-Match", "*")
	}

	current, err := c.Get(ctx, key, fields.Label)
	if err != nil {
		return nil, err
	}
	if fields.Value != nil {
		current.Value = *fields.Value
	}
	if fields.ContentType != nil {
		current.ContentType = *fields.ContentType
	}
	if fields.Tags != nil {
		current.Tags = fields.Tags
	}

	updated, err := c.ops.CreateOrUpdate(ctx, *current, headers)
	return updated, mapStatus(err, map[int]error{
		http.StatusNotFound:           ErrSettingNotFound,
		http.StatusPreconditionFailed: ErrSettingModified,
	})
}

// Delete removes the setting if it exists. A non-empty etag restricts the
// delete to that exact revision.
func (c *Client) Delete(ctx context.Context, key, label, etag string) (*Setting, error) {
	var headers http.Header
	if etag != "" {
		headers = http.Header{}
		headers.Set("If-Match", quoteETag(etag))
	}
	deleted, err := c.ops.Delete(ctx, key, label, headers)
	return deleted, mapStatus(err, map[int]error{
		http.StatusNotFound:           ErrSettingNotFound,
		http.StatusPreconditionFailed: ErrSettingModified,
	})
}

// List returns the settings matching the selector.
func (c *Client) List(ctx context.Context, sel Selector) ([]Setting, error) {
	sel.Keys = escapeAll(sel.Keys)
	sel.Labels = escapeAll(sel.Labels)
	return c.ops.List(ctx, sel, nil)
}

// ListRevisions returns the revision history of the settings matching the
// selector.
func (c *Client) ListRevisions(ctx context.Context, sel Selector) ([]Setting, error) {
	sel.Keys = escapeAll(sel.Keys)
	sel.Labels = escapeAll(sel.Labels)
	return c.ops.ListRevisions(ctx, sel, nil)
}

// mapStatus translates a raw status failure into the per-method sentinel.
// Other errors pass through untouched.
func mapStatus(err error, errorMap map[int]error) error {
	if err == nil {
		return nil
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		if mapped, ok := errorMap[statusErr.Code]; ok {
			return zerr.With(zerr.Wrap(mapped, ""), "status", statusErr.Status)
		}
	}
	return err
}
