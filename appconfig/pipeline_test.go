package appconfig

import (
	"context"
	"encoding/base64"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

const testSecret = "c2VjcmV0LWtleS1ieXRlcw=="

func connString(endpoint string) string {
	return "Endpoint=" + endpoint + ";Id=client-id;Secret=" + testSecret
}

func TestParseConnectionString(t *testing.T) {
	cred, err := parseConnectionString("Endpoint=https://example.azconfig.io;Id=abc;Secret=" + testSecret)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cred.endpoint != "https://example.azconfig.io" {
		t.Errorf("endpoint = %q", cred.endpoint)
	}
	if cred.id != "abc" {
		t.Errorf("id = %q", cred.id)
	}
	want, _ := base64.StdEncoding.DecodeString(testSecret)
	if string(cred.secret) != string(want) {
		t.Errorf("secret not decoded")
	}
}

func TestParseConnectionString_SchemelessEndpoint(t *testing.T) {
	cred, err := parseConnectionString("Endpoint=example.azconfig.io;Id=abc;Secret=" + testSecret)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cred.endpoint != "https://example.azconfig.io" {
		t.Errorf("endpoint = %q", cred.endpoint)
	}
}

func TestParseConnectionString_Invalid(t *testing.T) {
	cases := []string{
		"",
		"Endpoint=https://example.azconfig.io",
		"Endpoint=https://example.azconfig.io;Id=abc",
		"Id=abc;Secret=" + testSecret,
		"Endpoint=https://example.azconfig.io;Id=abc;Secret=!!!not-base64!!!",
		"garbage",
	}
	for _, cs := range cases {
		if _, err := parseConnectionString(cs); !errors.Is(err, ErrInvalidConnectionString) {
			t.Errorf("parseConnectionString(%q): error = %v, want ErrInvalidConnectionString", cs, err)
		}
	}
}

func TestPipeline_SignsRequests(t *testing.T) {
	var got http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		w.Write([]byte(`{"key":"k","value":"v"}`))
	}))
	defer srv.Close()

	client, err := New(connString(srv.URL), WithHTTPClient(srv.Client()), WithUserAgent("test-agent"))
	if err != nil {
		t.Fatalf("failed to build client: %v", err)
	}

	if _, err := client.Get(context.Background(), "k", ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.Get("x-ms-date") == "" {
		t.Error("x-ms-date header missing")
	}
	if got.Get("x-ms-content-sha256") == "" {
		t.Error("x-ms-content-sha256 header missing")
	}
	auth := got.Get("Authorization")
	if !strings.HasPrefix(auth, "HMAC-SHA256 Credential=client-id&") {
		t.Errorf("Authorization = %q", auth)
	}
	if !strings.Contains(auth, "SignedHeaders=x-ms-date;host;x-ms-content-sha256") {
		t.Errorf("Authorization lacks signed headers: %q", auth)
	}
	if !strings.Contains(auth, "&Signature=") {
		t.Errorf("Authorization lacks signature: %q", auth)
	}
	if got.Get("User-Agent") != "test-agent" {
		t.Errorf("User-Agent = %q", got.Get("User-Agent"))
	}
}

func TestPipeline_ZeroValueClient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"key":"k","value":"v"}`))
	}))
	defer srv.Close()

	// A caller-supplied client with a nil Transport must still work.
	client, err := New(connString(srv.URL), WithHTTPClient(&http.Client{}))
	if err != nil {
		t.Fatalf("failed to build client: %v", err)
	}

	setting, err := client.Get(context.Background(), "k", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if setting.Key != "k" {
		t.Errorf("Key = %q", setting.Key)
	}
}

func TestPipeline_RetriesServerErrors(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{"key":"k","value":"v"}`))
	}))
	defer srv.Close()

	client, err := New(connString(srv.URL), WithHTTPClient(srv.Client()))
	if err != nil {
		t.Fatalf("failed to build client: %v", err)
	}

	setting, err := client.Get(context.Background(), "k", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if setting.Key != "k" {
		t.Errorf("Key = %q", setting.Key)
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, want 3", attempts)
	}
}

func TestPipeline_DoesNotRetryNotFound(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client, err := New(connString(srv.URL), WithHTTPClient(srv.Client()))
	if err != nil {
		t.Fatalf("failed to build client: %v", err)
	}

	_, err = client.Get(context.Background(), "k", "")
	if !errors.Is(err, ErrSettingNotFound) {
		t.Fatalf("error = %v, want ErrSettingNotFound", err)
	}
	if attempts != 1 {
		t.Errorf("attempts = %d, want 1", attempts)
	}
}

func TestPipeline_ListRequests(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/kv" {
			http.NotFound(w, r)
			return
		}
		if got := r.URL.Query().Get("key"); got != "app*" {
			t.Errorf("key filter = %q", got)
		}
		w.Write([]byte(`{"items":[{"key":"app/one"},{"key":"app/two"}]}`))
	}))
	defer srv.Close()

	client, err := New(connString(srv.URL), WithHTTPClient(srv.Client()))
	if err != nil {
		t.Fatalf("failed to build client: %v", err)
	}

	items, err := client.List(context.Background(), Selector{Keys: []string{"app*"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("items = %d, want 2", len(items))
	}
}
