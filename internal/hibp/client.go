// Package hibp provides a client for the HaveIBeenPwned v3 breached-account
// lookup.
package hibp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"breachguard/internal/breach"
)

// DefaultBaseURL is the public HaveIBeenPwned host.
const DefaultBaseURL = "https://haveibeenpwned.com"

// UpstreamError is returned when HIBP answers with a status other than 2xx or
// 404. Body holds the raw response text.
type UpstreamError struct {
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("hibp responded %d: %s", e.StatusCode, e.Body)
}

// Options configures a Client.
type Options struct {
	// BaseURL overrides DefaultBaseURL, mostly for tests.
	BaseURL string
	// APIKey is sent in the hibp-api-key header.
	APIKey string
	// UserAgent is required by HIBP; requests without one are rejected.
	UserAgent string
}

// Client talks to the HIBP REST API. It is safe for concurrent use; request
// timeouts come from the supplied http.Client and the request context.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	userAgent  string
}

// New constructs a Client using the provided http.Client.
func New(httpClient *http.Client, opts Options) *Client {
	base := strings.TrimRight(opts.BaseURL, "/")
	if base == "" {
		base = DefaultBaseURL
	}
	return &Client{
		httpClient: httpClient,
		baseURL:    base,
		apiKey:     opts.APIKey,
		userAgent:  opts.UserAgent,
	}
}

// BreachedAccount returns every breach HIBP knows for the account, in the
// order HIBP returns them. An unknown account (404) yields an empty list.
func (c *Client) BreachedAccount(ctx context.Context, account string) ([]breach.Raw, error) {
	// https://haveibeenpwned.com/API/v3#BreachesForAccount
	u := c.baseURL + "/api/v3/breachedaccount/" + url.PathEscape(account) + "?truncateResponse=false"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("could not create request: %w", err)
	}
	req.Header.Set("hibp-api-key", c.apiKey)
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("could not send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("could not read response body: %w", err)
	}
	if resp.StatusCode == http.StatusNotFound {
		return []breach.Raw{}, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &UpstreamError{StatusCode: resp.StatusCode, Body: string(b)}
	}

	// successful; UseNumber keeps PwnCount integral
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var records []breach.Raw
	if err := dec.Decode(&records); err != nil {
		return nil, fmt.Errorf("could not decode response: %w", err)
	}
	if records == nil {
		records = []breach.Raw{}
	}

	return records, nil
}
