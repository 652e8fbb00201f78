package hibp_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"breachguard/internal/hibp"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// rtFunc allows using a function as an http.RoundTripper.
type rtFunc func(*http.Request) (*http.Response, error)

func (f rtFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func newTestClient(fn rtFunc) *hibp.Client {
	return hibp.New(&http.Client{Transport: fn}, hibp.Options{APIKey: "test-key", UserAgent: "BreachGuard/1.0"})
}

func respond(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Header:     http.Header{},
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

func TestClient_BreachedAccount_success(t *testing.T) {
	c := newTestClient(func(r *http.Request) (*http.Response, error) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "haveibeenpwned.com", r.URL.Host)
		require.Equal(t, "/api/v3/breachedaccount/user@example.com", r.URL.Path)
		require.Equal(t, "false", r.URL.Query().Get("truncateResponse"))
		require.Equal(t, "test-key", r.Header.Get("hibp-api-key"))
		require.Equal(t, "BreachGuard/1.0", r.Header.Get("User-Agent"))

		return respond(http.StatusOK, `[{"Name":"Adobe","PwnCount":152445165},{"Name":"LinkedIn"}]`), nil
	})

	records, err := c.BreachedAccount(context.Background(), "user@example.com")
	require.NoError(t, err)
	require.Len(t, records, 2)
	require.Equal(t, "Adobe", records[0]["Name"])
	require.Equal(t, "LinkedIn", records[1]["Name"])
}

func TestClient_BreachedAccount_notFoundIsEmpty(t *testing.T) {
	c := newTestClient(func(r *http.Request) (*http.Response, error) {
		return respond(http.StatusNotFound, ""), nil
	})

	records, err := c.BreachedAccount(context.Background(), "nobody@example.com")
	require.NoError(t, err)
	require.NotNil(t, records)
	require.Empty(t, records)
}

func TestClient_BreachedAccount_non2xx(t *testing.T) {
	c := newTestClient(func(r *http.Request) (*http.Response, error) {
		return respond(http.StatusServiceUnavailable, "service unavailable"), nil
	})

	_, err := c.BreachedAccount(context.Background(), "user@example.com")
	require.Error(t, err)

	var upErr *hibp.UpstreamError
	require.True(t, errors.As(err, &upErr))
	require.Equal(t, http.StatusServiceUnavailable, upErr.StatusCode)
	require.Equal(t, "service unavailable", upErr.Body)
}

func TestClient_BreachedAccount_transportError(t *testing.T) {
	c := newTestClient(func(r *http.Request) (*http.Response, error) {
		return nil, errors.New("connection refused")
	})

	_, err := c.BreachedAccount(context.Background(), "user@example.com")
	require.Error(t, err)
	require.Contains(t, err.Error(), "connection refused")

	var upErr *hibp.UpstreamError
	require.False(t, errors.As(err, &upErr))
}

func TestClient_BreachedAccount_badJSON(t *testing.T) {
	c := newTestClient(func(r *http.Request) (*http.Response, error) {
		return respond(http.StatusOK, `{"not":"an array"}`), nil
	})

	_, err := c.BreachedAccount(context.Background(), "user@example.com")
	require.Error(t, err)
	require.Contains(t, err.Error(), "could not decode response")
}

func TestClient_BreachedAccount_timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	c := hibp.New(&http.Client{Timeout: 50 * time.Millisecond}, hibp.Options{BaseURL: srv.URL, APIKey: "k"})

	_, err := c.BreachedAccount(context.Background(), "user@example.com")
	require.Error(t, err)
	require.Contains(t, err.Error(), "could not send request")
}

func TestClient_BreachedAccount_baseURLOverride(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v3/breachedaccount/user@test.com", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c := hibp.New(srv.Client(), hibp.Options{BaseURL: srv.URL + "/", APIKey: "k"})

	records, err := c.BreachedAccount(context.Background(), "user@test.com")
	require.NoError(t, err)
	require.Empty(t, records)
}
