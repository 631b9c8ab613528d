package appconfig_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/arcfield/sdkkit/appconfig"
)

// fakeOps records the last call the client handed to the transport layer and
// replies with a canned result.
type fakeOps struct {
	lastMethod  string
	lastKey     string
	lastLabel   string
	lastSetting appconfig.Setting
	lastHeaders http.Header
	lastSel     appconfig.Selector

	setting *appconfig.Setting
	items   []appconfig.Setting
	err     error

	// writeErr fails CreateOrUpdate only, so the read inside Update can
	// still succeed.
	writeErr error
}

func (f *fakeOps) Get(_ context.Context, key, label string, headers http.Header) (*appconfig.Setting, error) {
	f.lastMethod, f.lastKey, f.lastLabel, f.lastHeaders = "Get", key, label, headers
	return f.setting, f.err
}

func (f *fakeOps) CreateOrUpdate(_ context.Context, setting appconfig.Setting, headers http.Header) (*appconfig.Setting, error) {
	f.lastMethod, f.lastSetting, f.lastHeaders = "CreateOrUpdate", setting, headers
	if f.writeErr != nil {
		return nil, f.writeErr
	}
	return f.setting, f.err
}

func (f *fakeOps) Delete(_ context.Context, key, label string, headers http.Header) (*appconfig.Setting, error) {
	f.lastMethod, f.lastKey, f.lastLabel, f.lastHeaders = "Delete", key, label, headers
	return f.setting, f.err
}

func (f *fakeOps) List(_ context.Context, sel appconfig.Selector, headers http.Header) ([]appconfig.Setting, error) {
	f.lastMethod, f.lastSel, f.lastHeaders = "List", sel, headers
	return f.items, f.err
}

func (f *fakeOps) ListRevisions(_ context.Context, sel appconfig.Selector, headers http.Header) ([]appconfig.Setting, error) {
	f.lastMethod, f.lastSel, f.lastHeaders = "ListRevisions", sel, headers
	return f.items, f.err
}

func newClient(t *testing.T, ops *fakeOps) *appconfig.Client {
	t.Helper()
	c, err := appconfig.New("", appconfig.WithOperations(ops))
	if err != nil {
		t.Fatalf("failed to build client: %v", err)
	}
	return c
}

func status(code int) error {
	return &appconfig.StatusError{Code: code, Status: http.StatusText(code)}
}

func TestGet(t *testing.T) {
	ops := &fakeOps{setting: &appconfig.Setting{Key: "MyKey", Value: "v"}}
	c := newClient(t, ops)

	got, err := c.Get(context.Background(), "MyKey", "MyLabel")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Key != "MyKey" {
		t.Errorf("Key = %q", got.Key)
	}
	if ops.lastKey != "MyKey" || ops.lastLabel != "MyLabel" {
		t.Errorf("forwarded (%q, %q)", ops.lastKey, ops.lastLabel)
	}
}

func TestGet_NotFoundMapping(t *testing.T) {
	for _, code := range []int{http.StatusNotFound, http.StatusPreconditionFailed} {
		ops := &fakeOps{err: status(code)}
		c := newClient(t, ops)

		_, err := c.Get(context.Background(), "MyKey", "")
		if !errors.Is(err, appconfig.ErrSettingNotFound) {
			t.Errorf("status %d: error = %v, want ErrSettingNotFound", code, err)
		}
	}
}

func TestAdd(t *testing.T) {
	ops := &fakeOps{setting: &appconfig.Setting{Key: "MyKey"}}
	c := newClient(t, ops)

	if _, err := c.Add(context.Background(), appconfig.Setting{Key: "MyKey", Value: "v"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := ops.lastHeaders.Get("If-None-Match"); got != "*" {
		t.Errorf("If-None-Match = %q, want *", got)
	}
}

func TestAdd_ExistsMapping(t *testing.T) {
	ops := &fakeOps{err: status(http.StatusPreconditionFailed)}
	c := newClient(t, ops)

	_, err := c.Add(context.Background(), appconfig.Setting{Key: "MyKey"})
	if !errors.Is(err, appconfig.ErrSettingExists) {
		t.Errorf("error = %v, want ErrSettingExists", err)
	}
}

func TestSet_ETagHeader(t *testing.T) {
	ops := &fakeOps{setting: &appconfig.Setting{Key: "MyKey"}}
	c := newClient(t, ops)

	if _, err := c.Set(context.Background(), appconfig.Setting{Key: "MyKey", ETag: "abc"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := ops.lastHeaders.Get("If-Match"); got != `"abc"` {
		t.Errorf("If-Match = %q, want quoted etag", got)
	}

	// Without an etag the write is unconditional.
	if _, err := c.Set(context.Background(), appconfig.Setting{Key: "MyKey"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ops.lastHeaders.Get("If-Match") != "" {
		t.Errorf("If-Match set without an etag: %q", ops.lastHeaders.Get("If-Match"))
	}
}

func TestSet_ModifiedMapping(t *testing.T) {
	ops := &fakeOps{err: status(http.StatusPreconditionFailed)}
	c := newClient(t, ops)

	_, err := c.Set(context.Background(), appconfig.Setting{Key: "MyKey", ETag: "abc"})
	if !errors.Is(err, appconfig.ErrSettingModified) {
		t.Errorf("error = %v, want ErrSettingModified", err)
	}
}

func TestUpdate(t *testing.T) {
	ops := &fakeOps{setting: &appconfig.Setting{Key: "MyKey", Value: "old", ContentType: "text"}}
	c := newClient(t, ops)

	value := "new"
	_, err := c.Update(context.Background(), "MyKey", "abc", appconfig.Fields{Value: &value})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := ops.lastHeaders.Get("If-Match"); got != `"abc"` {
		t.Errorf("If-Match = %q, want quoted etag", got)
	}
	if ops.lastSetting.Value != "new" {
		t.Errorf("Value = %q, want new", ops.lastSetting.Value)
	}
	// Unset fields keep their current values.
	if ops.lastSetting.ContentType != "text" {
		t.Errorf("ContentType = %q, want text", ops.lastSetting.ContentType)
	}
}

func TestUpdate_WildcardWithoutETag(t *testing.T) {
	ops := &fakeOps{setting: &appconfig.Setting{Key: "MyKey"}}
	c := newClient(t, ops)

	if _, err := c.Update(context.Background(), "MyKey", "", appconfig.Fields{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := ops.lastHeaders.Get("If-Match"); got != "*" {
		t.Errorf("If-Match = %q, want *", got)
	}
}

func TestUpdate_KeyRequired(t *testing.T) {
	c := newClient(t, &fakeOps{})

	_, err := c.Update(context.Background(), "", "", appconfig.Fields{})
	if !errors.Is(err, appconfig.ErrKeyRequired) {
		t.Errorf("error = %v, want ErrKeyRequired", err)
	}
}

func TestUpdate_ErrorMapping(t *testing.T) {
	cases := map[int]error{
		http.StatusNotFound:           appconfig.ErrSettingNotFound,
		http.StatusPreconditionFailed: appconfig.ErrSettingModified,
	}
	for code, want := range cases {
		ops := &fakeOps{
			setting:  &appconfig.Setting{Key: "MyKey"},
			writeErr: status(code),
		}
		c := newClient(t, ops)

		_, err := c.Update(context.Background(), "MyKey", "abc", appconfig.Fields{})
		if !errors.Is(err, want) {
			t.Errorf("status %d: error = %v, want %v", code, err, want)
		}
	}
}

func TestDelete(t *testing.T) {
	ops := &fakeOps{setting: &appconfig.Setting{Key: "MyKey"}}
	c := newClient(t, ops)

	if _, err := c.Delete(context.Background(), "MyKey", "MyLabel", "abc"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := ops.lastHeaders.Get("If-Match"); got != `"abc"` {
		t.Errorf("If-Match = %q, want quoted etag", got)
	}

	if _, err := c.Delete(context.Background(), "MyKey", "", ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ops.lastHeaders.Get("If-Match") != "" {
		t.Errorf("If-Match set without an etag: %q", ops.lastHeaders.Get("If-Match"))
	}
}

func TestDelete_ErrorMapping(t *testing.T) {
	cases := map[int]error{
		http.StatusNotFound:           appconfig.ErrSettingNotFound,
		http.StatusPreconditionFailed: appconfig.ErrSettingModified,
	}
	for code, want := range cases {
		ops := &fakeOps{err: status(code)}
		c := newClient(t, ops)

		_, err := c.Delete(context.Background(), "MyKey", "", "abc")
		if !errors.Is(err, want) {
			t.Errorf("status %d: error = %v, want %v", code, err, want)
		}
	}
}

func TestList_EscapesFilters(t *testing.T) {
	ops := &fakeOps{items: []appconfig.Setting{{Key: "k"}}}
	c := newClient(t, ops)

	_, err := c.List(context.Background(), appconfig.Selector{
		Keys:   []string{"*Ke*", "a,b"},
		Labels: []string{""},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := ops.lastSel.Keys[0]; got != "*Ke*" {
		t.Errorf("Keys[0] = %q, want wildcards preserved", got)
	}
	if got := ops.lastSel.Keys[1]; got != `a\,b` {
		t.Errorf("Keys[1] = %q, want escaped comma", got)
	}
	if got := ops.lastSel.Labels[0]; got != "\x00" {
		t.Errorf("Labels[0] = %q, want null filter", got)
	}
}

func TestListRevisions_NilFiltersStayNil(t *testing.T) {
	ops := &fakeOps{}
	c := newClient(t, ops)

	if _, err := c.ListRevisions(context.Background(), appconfig.Selector{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ops.lastSel.Keys != nil || ops.lastSel.Labels != nil {
		t.Errorf("nil filters were materialized: %+v", ops.lastSel)
	}
}
