package appconfig

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"io"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/cenk/backoff"
	"github.com/rs/dnscache"
	circuit "github.com/rubyist/circuitbreaker"
	"go.trai.ch/zerr"
)

// credential is the access key pair extracted from the connection string.
type credential struct {
	endpoint string
	id       string
	secret   []byte
}

// parseConnectionString splits "Endpoint=...;Id=...;Secret=..." into a
// credential. All three segments are required; the secret is base64.
func parseConnectionString(s string) (*credential, error) {
	cred := &credential{}
	for _, segment := range strings.Split(s, ";") {
		if segment == "" {
			continue
		}
		name, value, ok := strings.Cut(segment, "=")
		if !ok {
			return nil, zerr.With(zerr.Wrap(ErrInvalidConnectionString, ""), "segment", name)
		}
		switch name {
		case "Endpoint":
			cred.endpoint = strings.TrimSuffix(value, "/")
		case "Id":
			cred.id = value
		case "Secret":
			secret, err := base64.StdEncoding.DecodeString(value)
			if err != nil {
				return nil, zerr.Wrap(ErrInvalidConnectionString, "secret is not base64")
			}
			cred.secret = secret
		}
	}
	if cred.endpoint == "" || cred.id == "" || len(cred.secret) == 0 {
		return nil, zerr.Wrap(ErrInvalidConnectionString, "Endpoint, Id and Secret are all required")
	}
	if !strings.Contains(cred.endpoint, "://") {
		cred.endpoint = "https://" + cred.endpoint
	}
	return cred, nil
}

// signingTransport signs every request with the credential pair: the date and
// content hash headers are set, then an HMAC-SHA256 signature over
// method, path and the signed headers goes into Authorization.
type signingTransport struct {
	cred      *credential
	userAgent string
	next      http.RoundTripper
}

func (t *signingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	var body []byte
	if req.Body != nil {
		var err error
		body, err = io.ReadAll(req.Body)
		if err != nil {
			return nil, zerr.Wrap(err, "failed to buffer request body")
		}
		req.Body = io.NopCloser(bytes.NewReader(body))
	}

	contentHash := sha256.Sum256(body)
	encodedHash := base64.StdEncoding.EncodeToString(contentHash[:])
	date := time.Now().UTC().Format(http.TimeFormat)

	req.Header.Set("User-Agent", t.userAgent)
	req.Header.Set("x-ms-date", date)
	req.Header.Set("x-ms-content-sha256", encodedHash)

	pathAndQuery := req.URL.Path
	if req.URL.RawQuery != "" {
		pathAndQuery += "?" + req.URL.RawQuery
	}
	stringToSign := req.Method + "\n" + pathAndQuery + "\n" +
		date + ";" + req.URL.Host + ";" + encodedHash

	mac := hmac.New(sha256.New, t.cred.secret)
	mac.Write([]byte(stringToSign))
	signature := base64.StdEncoding.EncodeToString(mac.Sum(nil))

	req.Header.Set("Authorization",
		"HMAC-SHA256 Credential="+t.cred.id+
			"&SignedHeaders=x-ms-date;host;x-ms-content-sha256"+
			"&Signature="+signature)

	return t.next.RoundTrip(req)
}

// pipeline sends signed requests with retry and a per-host circuit breaker.
type pipeline struct {
	client   *http.Client
	maxTries uint64

	mu       sync.RWMutex
	breakers map[string]*circuit.Breaker
}

func newPipeline(cred *credential, userAgent string, client *http.Client) *pipeline {
	if client == nil {
		client = &http.Client{
			Timeout:   30 * time.Second,
			Transport: newCachedTransport(),
		}
	}
	// A zero-value client carries a nil Transport.
	if client.Transport == nil {
		client.Transport = http.DefaultTransport
	}
	client.Transport = &signingTransport{
		cred:      cred,
		userAgent: userAgent,
		next:      client.Transport,
	}
	return &pipeline{
		client:   client,
		maxTries: 3,
		breakers: make(map[string]*circuit.Breaker),
	}
}

// newCachedTransport builds a transport that dials through a refreshing DNS
// cache.
func newCachedTransport() *http.Transport {
	resolver := &dnscache.Resolver{}
	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			resolver.Refresh(true)
		}
	}()

	dialer := &net.Dialer{
		Timeout:   10 * time.Second,
		KeepAlive: 30 * time.Second,
	}
	return &http.Transport{
		DialContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
			host, port, err := net.SplitHostPort(addr)
			if err != nil {
				return nil, err
			}
			ips, err := resolver.LookupHost(ctx, host)
			if err != nil {
				return nil, err
			}
			for _, ip := range ips {
				conn, err := dialer.DialContext(ctx, network, net.JoinHostPort(ip, port))
				if err == nil {
					return conn, nil
				}
			}
			return nil, zerr.With(zerr.New("failed to dial any resolved address"), "host", host)
		},
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	}
}

// breaker returns or creates the circuit breaker for the given host.
func (p *pipeline) breaker(host string) *circuit.Breaker {
	p.mu.RLock()
	b, ok := p.breakers[host]
	p.mu.RUnlock()
	if ok {
		return b
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if b, ok := p.breakers[host]; ok {
		return b
	}

	expBackoff := backoff.NewExponentialBackOff()
	expBackoff.InitialInterval = 30 * time.Second
	expBackoff.MaxInterval = 5 * time.Minute
	expBackoff.Reset()

	b = circuit.NewBreakerWithOptions(&circuit.Options{
		BackOff:    expBackoff,
		ShouldTrip: circuit.ThresholdTripFunc(5),
	})
	p.breakers[host] = b
	return b
}

// Do sends the request, retrying rate limits and server errors with
// exponential backoff. The response body of the final attempt is returned
// unread; intermediate failure bodies are drained and closed.
func (p *pipeline) Do(req *http.Request) (*http.Response, error) {
	br := p.breaker(req.URL.Host)
	if !br.Ready() {
		return nil, zerr.With(zerr.New("circuit breaker open"), "host", req.URL.Host)
	}

	var body []byte
	if req.Body != nil {
		var err error
		body, err = io.ReadAll(req.Body)
		if err != nil {
			return nil, zerr.Wrap(err, "failed to buffer request body")
		}
	}

	var resp *http.Response
	attempt := func() error {
		if body != nil {
			req.Body = io.NopCloser(bytes.NewReader(body))
		}
		var err error
		resp, err = p.client.Do(req) //nolint:bodyclose // Closed by the caller or on retry
		if err != nil {
			return err
		}
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			_, _ = io.Copy(io.Discard, resp.Body)
			_ = resp.Body.Close()
			return &StatusError{Code: resp.StatusCode, Status: resp.Status}
		}
		return nil
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), p.maxTries),
		req.Context(),
	)
	err := br.Call(func() error {
		return backoff.Retry(attempt, policy)
	}, 0)
	if err != nil {
		return nil, err
	}
	return resp, nil
}
