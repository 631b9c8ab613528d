// Package appconfig provides a typed client for a remote configuration
// management service. The client wraps the low level Operations layer with
// conditional-request headers, reserved-character escaping of filters, and
// service error mapping.
package appconfig

import (
	"context"
	"net/http"
	"time"

	"go.trai.ch/zerr"
)

var (
	// ErrSettingNotFound is returned when no setting matches the key and label.
	ErrSettingNotFound = zerr.New("configuration setting not found")

	// ErrSettingExists is returned by Add when the setting already exists.
	ErrSettingExists = zerr.New("configuration setting already exists")

	// ErrSettingModified is returned when the etag precondition fails.
	ErrSettingModified = zerr.New("configuration setting was modified")

	// ErrInvalidConnectionString is returned by New on a malformed connection
	// string.
	ErrInvalidConnectionString = zerr.New("invalid connection string")

	// ErrKeyRequired is returned when an operation is missing its key.
	ErrKeyRequired = zerr.New("key is mandatory")
)

// Setting is a single key-value entry held by the configuration service.
type Setting struct {
	Key          string            `json:"key"`
	Label        string            `json:"label,omitempty"`
	Value        string            `json:"value"`
	ContentType  string            `json:"content_type,omitempty"`
	ETag         string            `json:"etag,omitempty"`
	Tags         map[string]string `json:"tags,omitempty"`
	LastModified time.Time         `json:"last_modified,omitempty"`
	Locked       bool              `json:"locked,omitempty"`
}

// Selector filters List and ListRevisions results. Key and label filters may
// use a leading or trailing '*' wildcard.
type Selector struct {
	Keys           []string
	Labels         []string
	AcceptDatetime time.Time
	Fields         []string
}

// Fields carries the attributes Update applies to an existing setting. A nil
// pointer leaves the attribute unchanged.
type Fields struct {
	Label       string
	Value       *string
	ContentType *string
	Tags        map[string]string
}

// Operations is the low level transport contract the client drives. The
// production implementation speaks the service REST protocol; tests substitute
// their own.
type Operations interface {
	Get(ctx context.Context, key, label string, headers http.Header) (*Setting, error)
	CreateOrUpdate(ctx context.Context, setting Setting, headers http.Header) (*Setting, error)
	Delete(ctx context.Context, key, label string, headers http.Header) (*Setting, error)
	List(ctx context.Context, sel Selector, headers http.Header) ([]Setting, error)
	ListRevisions(ctx context.Context, sel Selector, headers http.Header) ([]Setting, error)
}

// StatusError is the raw service failure surfaced by an Operations
// implementation. The client maps it to a sentinel per method.
type StatusError struct {
	Code   int
	Status string
}

func (e *StatusError) Error() string {
	return "service returned " + e.Status
}
