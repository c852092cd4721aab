package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const maxErrorBody = 512

// Client performs single-attempt JSON GETs against third-party data sources.
type Client struct {
	httpClient *http.Client
	limiter    *ProviderLimiter
	timeout    time.Duration
}

func NewClient(httpClient *http.Client, limiter *ProviderLimiter, timeout time.Duration) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{
		httpClient: httpClient,
		limiter:    limiter,
		timeout:    timeout,
	}
}

// GetJSON calls endpoint with query and headers and decodes the body into dst.
// Every failure is returned as *UpstreamDataError tagged with source.
func (c *Client) GetJSON(ctx context.Context, source, endpoint string, query url.Values, headers http.Header, dst any) error {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	if err := c.limiter.Wait(ctx, source); err != nil {
		return NewUpstreamDataError(source, 0, fmt.Errorf("rate limiter: %w", err))
	}

	u, err := url.Parse(endpoint)
	if err != nil {
		return NewUpstreamDataError(source, 0, fmt.Errorf("invalid endpoint: %w", err))
	}
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return NewUpstreamDataError(source, 0, err)
	}
	req.Header.Set("Accept", "application/json")
	for k, vs := range headers {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return NewUpstreamDataError(source, 0, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		msg := strings.TrimSpace(string(snippet))
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return NewUpstreamDataError(source, resp.StatusCode, errors.New(msg))
	}

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return NewUpstreamDataError(source, resp.StatusCode, fmt.Errorf("malformed body: %w", err))
	}
	return nil
}
