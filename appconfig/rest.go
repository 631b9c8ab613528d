package appconfig

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.trai.ch/zerr"
)

const apiVersion = "1.0"

// restOperations is the default Operations implementation. It speaks the
// service key-value REST protocol against the configured endpoint.
type restOperations struct {
	endpoint string
	pipe     *pipeline
}

func newRESTOperations(endpoint string, pipe *pipeline) *restOperations {
	return &restOperations{endpoint: endpoint, pipe: pipe}
}

func (r *restOperations) Get(ctx context.Context, key, label string, headers http.Header) (*Setting, error) {
	query := url.Values{"api-version": {apiVersion}}
	if label != "" {
		query.Set("label", label)
	}
	return r.roundTrip(ctx, http.MethodGet, "/kv/"+url.PathEscape(key), query, nil, headers)
}

func (r *restOperations) CreateOrUpdate(ctx context.Context, setting Setting, headers http.Header) (*Setting, error) {
	query := url.Values{"api-version": {apiVersion}}
	if setting.Label != "" {
		query.Set("label", setting.Label)
	}
	body, err := json.Marshal(setting)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to encode setting")
	}
	return r.roundTrip(ctx, http.MethodPut, "/kv/"+url.PathEscape(setting.Key), query, body, headers)
}

func (r *restOperations) Delete(ctx context.Context, key, label string, headers http.Header) (*Setting, error) {
	query := url.Values{"api-version": {apiVersion}}
	if label != "" {
		query.Set("label", label)
	}
	return r.roundTrip(ctx, http.MethodDelete, "/kv/"+url.PathEscape(key), query, nil, headers)
}

func (r *restOperations) List(ctx context.Context, sel Selector, headers http.Header) ([]Setting, error) {
	return r.list(ctx, "/kv", sel, headers)
}

func (r *restOperations) ListRevisions(ctx context.Context, sel Selector, headers http.Header) ([]Setting, error) {
	return r.list(ctx, "/revisions", sel, headers)
}

func (r *restOperations) list(ctx context.Context, path string, sel Selector, headers http.Header) ([]Setting, error) {
	query := url.Values{"api-version": {apiVersion}}
	if sel.Keys != nil {
		query.Set("key", strings.Join(sel.Keys, ","))
	}
	if sel.Labels != nil {
		query.Set("label", strings.Join(sel.Labels, ","))
	}
	if len(sel.Fields) > 0 {
		query.Set("$select", strings.Join(sel.Fields, ","))
	}
	if !sel.AcceptDatetime.IsZero() {
		if headers == nil {
			headers = http.Header{}
		}
		headers.Set("Accept-Datetime", sel.AcceptDatetime.UTC().Format(time.RFC1123))
	}

	resp, err := r.send(ctx, http.MethodGet, path, query, nil, headers)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close() //nolint:errcheck // Body is fully consumed below

	var page struct {
		Items []Setting `json:"items"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, zerr.Wrap(err, "failed to decode listing")
	}
	return page.Items, nil
}

// roundTrip sends a single-setting request and decodes the returned setting.
// Empty success bodies, such as a delete of a missing entry, yield nil.
func (r *restOperations) roundTrip(ctx context.Context, method, path string, query url.Values, body []byte, headers http.Header) (*Setting, error) {
	resp, err := r.send(ctx, method, path, query, body, headers)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close() //nolint:errcheck // Body is fully consumed below

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to read response")
	}
	if len(raw) == 0 {
		return nil, nil
	}
	var setting Setting
	if err := json.Unmarshal(raw, &setting); err != nil {
		return nil, zerr.Wrap(err, "failed to decode setting")
	}
	return &setting, nil
}

func (r *restOperations) send(ctx context.Context, method, path string, query url.Values, body []byte, headers http.Header) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, r.endpoint+path+"?"+query.Encode(), reader)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to build request")
	}
	for name, values := range headers {
		for _, v := range values {
			req.Header.Add(name, v)
		}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/vnd.microsoft.appconfig.kv+json")
	}

	resp, err := r.pipe.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
		return nil, &StatusError{Code: resp.StatusCode, Status: resp.Status}
	}
	return resp, nil
}
