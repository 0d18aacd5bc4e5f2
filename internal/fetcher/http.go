// Package fetcher performs single-page HTTP fetches with bounded retries and
// classified failure outcomes.
package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rotisserie/eris"

	"github.com/praxisdata/clinic-enrich/internal/resilience"
)

// userAgent mimics a desktop browser; many practice sites reject obvious bots.
const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

// maxBodyBytes caps how much of a page body is read.
const maxBodyBytes = 512 * 1024

// FailureKind classifies a fetch failure.
type FailureKind string

const (
	// KindInvalidURL: the URL lacks a scheme or host; no request was made.
	KindInvalidURL FailureKind = "invalid_url"
	// KindNotFound: the server returned 404. Terminal, never retried.
	KindNotFound FailureKind = "not_found"
	// KindUnreachable: retries exhausted on network errors or non-200 statuses.
	KindUnreachable FailureKind = "unreachable"
)

// FetchError is the classified failure returned by Fetch.
type FetchError struct {
	Kind FailureKind
	URL  string
	Err  error
}

func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("fetch %s: %s: %v", e.URL, e.Kind, e.Err)
	}
	return fmt.Sprintf("fetch %s: %s", e.URL, e.Kind)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Fetched is a successful fetch result.
type Fetched struct {
	URL        string
	StatusCode int
	Body       []byte
}

// Client fetches pages with a fixed timeout and a bounded linear-backoff
// retry schedule. Each Fetch call is independent; there is no circuit
// breaking across calls.
type Client struct {
	http  *http.Client
	retry resilience.RetryConfig
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout overrides the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// WithRetry overrides the retry schedule. Used by tests to collapse backoff
// delays.
func WithRetry(cfg resilience.RetryConfig) Option {
	return func(c *Client) { c.retry = cfg }
}

// New creates a Client with a 30s timeout and the default schedule of 3
// attempts with 2s, 4s backoff between them.
func New(opts ...Option) *Client {
	c := &Client{
		http: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: 10 * time.Second,
				}).DialContext,
				TLSHandshakeTimeout: 10 * time.Second,
			},
		},
		retry: resilience.RetryConfig{
			MaxAttempts: 3,
			Step:        2 * time.Second,
			OnRetry:     resilience.RetryLogger("fetcher", "get"),
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fetch GETs the URL. A URL without both a scheme and a host fails
// immediately with KindInvalidURL. 404 fails with KindNotFound without
// retrying. Any other non-200 status or network error is retried up to the
// configured maximum; exhaustion yields KindUnreachable.
func (c *Client) Fetch(ctx context.Context, rawURL string) (*Fetched, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, &FetchError{Kind: KindInvalidURL, URL: rawURL, Err: err}
	}

	fetched, err := resilience.DoVal(ctx, c.retry, func(ctx context.Context) (*Fetched, error) {
		return c.get(ctx, u.String())
	})
	if err != nil {
		var fe *FetchError
		if errors.As(err, &fe) {
			return nil, err
		}
		return nil, &FetchError{Kind: KindUnreachable, URL: rawURL, Err: err}
	}
	return fetched, nil
}

// get performs one attempt. Retryable outcomes are wrapped as transient so
// the retry loop's default predicate picks them up; 404 comes back as a bare
// FetchError and stops the loop.
func (c *Client) get(ctx context.Context, target string) (*Fetched, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, eris.Wrap(err, "fetcher: create request")
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, resilience.NewTransientError(eris.Wrap(err, "fetcher: get"), 0)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusOK:
		body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
		if err != nil {
			return nil, resilience.NewTransientError(eris.Wrap(err, "fetcher: read body"), 0)
		}
		return &Fetched{URL: target, StatusCode: resp.StatusCode, Body: body}, nil
	case resp.StatusCode == http.StatusNotFound:
		return nil, &FetchError{Kind: KindNotFound, URL: target}
	default:
		return nil, resilience.NewTransientError(eris.Errorf("fetcher: status %d", resp.StatusCode), resp.StatusCode)
	}
}

// KindOf returns the failure kind of err, or "" when err is not a FetchError.
func KindOf(err error) FailureKind {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return ""
}
