package domainconnect

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	defaultTimeout = 10 * time.Second
	maxBodySize    = 1 << 20
	userAgent      = "yk-domain-connect"
)

// Response is what the client needs from an HTTP GET.
type Response struct {
	StatusCode int
	Body       []byte
}

// Fetcher performs HTTP GET requests. Transport failures are returned as
// errors; any HTTP status is a successful fetch.
type Fetcher interface {
	Get(ctx context.Context, url string) (*Response, error)
}

// HTTPFetcher is a Fetcher backed by net/http.
type HTTPFetcher struct {
	client *http.Client
}

// NewHTTPFetcher wraps client. A nil client gets a default one with the
// given timeout (10s if zero).
func NewHTTPFetcher(client *http.Client, timeout time.Duration) *HTTPFetcher {
	if client == nil {
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		client = &http.Client{Timeout: timeout}
	}
	return &HTTPFetcher{client: client}
}

// Get fetches url and reads at most 1 MiB of the body.
func (f *HTTPFetcher) Get(ctx context.Context, url string) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("domainconnect: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("domainconnect: GET %s: %w", url, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("domainconnect: read response from %s: %w", url, err)
	}
	return &Response{StatusCode: resp.StatusCode, Body: body}, nil
}
