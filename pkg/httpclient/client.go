// Package httpclient wraps net/http with the header profiles and body
// handling the extraction strategies need when talking to video-platform
// endpoints.
package httpclient

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ClientType represents the header profile of an HTTP client.
type ClientType string

const (
	// BrowserClient sends browser-like headers. Watch and embed pages
	// return stripped-down HTML (without the caption manifest) to
	// non-browser User-Agents.
	BrowserClient ClientType = "browser"

	// APIClient sends minimal headers for JSON/timedtext endpoints.
	APIClient ClientType = "api"
)

const browserUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// defaultMaxBodyBytes caps response bodies so a misbehaving endpoint
// cannot exhaust memory. Callers with larger legitimate payloads (audio
// downloads) pass their own cap.
const defaultMaxBodyBytes = 10 << 20

// HTTPClient wraps an http.Client with a header profile.
type HTTPClient struct {
	client     *http.Client
	clientType ClientType
}

// NewClient creates a new HTTP client with the given profile and
// per-request timeout. Individual requests are additionally bounded by
// the caller's context.
func NewClient(clientType ClientType, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		client: &http.Client{
			Timeout: timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 10 {
					return http.ErrUseLastResponse
				}
				return nil
			},
		},
		clientType: clientType,
	}
}

// Do executes a request with the profile's headers applied.
func (c *HTTPClient) Do(req *http.Request) (*http.Response, error) {
	c.setHeaders(req)
	return c.client.Do(req)
}

// Get issues a GET request bound to ctx.
func (c *HTTPClient) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	return c.Do(req)
}

// FetchBytes GETs a URL and returns the body bytes plus content type.
// Non-200 responses are errors; bodies are capped at maxBytes (or the
// default cap when maxBytes <= 0).
func (c *HTTPClient) FetchBytes(ctx context.Context, url string, maxBytes int64) ([]byte, string, error) {
	resp, err := c.Get(ctx, url)
	if err != nil {
		return nil, "", err
	}
	defer drainAndClose(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return nil, "", &StatusError{Code: resp.StatusCode, URL: url}
	}

	if maxBytes <= 0 {
		maxBytes = defaultMaxBodyBytes
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBytes))
	if err != nil {
		return nil, "", err
	}

	return body, resp.Header.Get("Content-Type"), nil
}

// StatusError reports a non-200 response.
type StatusError struct {
	Code int
	URL  string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status code %d from %s", e.Code, e.URL)
}

// IsRateLimited reports whether err is a 429 status error.
func IsRateLimited(err error) bool {
	statusErr, ok := err.(*StatusError)
	return ok && statusErr.Code == http.StatusTooManyRequests
}

func (c *HTTPClient) setHeaders(req *http.Request) {
	switch c.clientType {
	case BrowserClient:
		req.Header.Set("User-Agent", browserUserAgent)
		req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
		req.Header.Set("Accept-Language", "en-US,en;q=0.9")
		req.Header.Set("Connection", "keep-alive")

	case APIClient:
		req.Header.Set("User-Agent", browserUserAgent)
		req.Header.Set("Accept", "*/*")
		req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	}
}

func drainAndClose(rc io.ReadCloser) {
	if rc == nil {
		return
	}
	_, _ = io.Copy(io.Discard, rc)
	_ = rc.Close()
}
