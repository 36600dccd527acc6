package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRequest(t *testing.T, url string) *http.Request {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, url, nil)
	require.NoError(t, err)
	return req
}

func TestDoRetriesServerErrors(t *testing.T) {
	var attempts int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if atomic.AddInt32(&attempts, 1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	c := NewClient(Options{RequestsPerSec: 100, MaxRetryTime: 5 * time.Second})
	resp, err := c.Do(context.Background(), newRequest(t, srv.URL))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.GreaterOrEqual(t, atomic.LoadInt32(&attempts), int32(3))
}

func TestDoGivesUpAfterMaxRetryTime(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(Options{RequestsPerSec: 100, MaxRetryTime: 100 * time.Millisecond})
	_, err := c.Do(context.Background(), newRequest(t, srv.URL))
	require.Error(t, err)

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusBadGateway, statusErr.StatusCode)
}

func TestDoSustainsConfiguredRate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	// 30 requests against a 20 req/s limiter: the burst covers 20 and the
	// remaining 10 refill in half a second. A limiter refilling one token
	// per second would need ten.
	c := NewClient(Options{RequestsPerSec: 20, MaxRetryTime: time.Second})

	start := time.Now()
	for i := 0; i < 30; i++ {
		resp, err := c.Do(context.Background(), newRequest(t, srv.URL))
		require.NoError(t, err)
		resp.Body.Close()
	}
	assert.Less(t, time.Since(start), 2*time.Second,
		"the limiter must refill at the configured requests per second")
}

func TestDoAbortsOnCancelledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := NewClient(Options{})
	_, err := c.Do(ctx, newRequest(t, srv.URL))
	assert.Error(t, err)
}
