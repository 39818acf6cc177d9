package apiclient

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// blockingServer counts hits and holds every request until release is closed.
func blockingServer(t *testing.T, status int, body string) (*httptest.Server, *atomic.Int32, chan struct{}) {
	t.Helper()
	var hits atomic.Int32
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		select {
		case <-release:
		case <-r.Context().Done():
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server, &hits, release
}

// countJoined reports how many callers have attached to a flight.
func countJoined(c *Client) *atomic.Int32 {
	var n atomic.Int32
	c.flights.joined = func(string) { n.Add(1) }
	return &n
}

func requestConcurrently(c *Client, n int, endpoint string, opts *Options) []*Response {
	results := make([]*Response, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = c.Request(context.Background(), endpoint, opts)
		}(i)
	}
	wg.Wait()
	return results
}

func TestClient_DeduplicatesConcurrentGets(t *testing.T) {
	const callers = 8
	server, hits, release := blockingServer(t, http.StatusOK, `[{"_id":"1"}]`)
	c := New(server.URL)
	joined := countJoined(c)

	done := make(chan []*Response)
	go func() { done <- requestConcurrently(c, callers, "/cases/user/u1", nil) }()

	require.Eventually(t, func() bool { return joined.Load() == callers }, 2*time.Second, 5*time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	close(release)

	results := <-done
	assert.Equal(t, int32(1), hits.Load())
	for _, resp := range results {
		require.True(t, resp.OK())
		assert.Same(t, results[0], resp)
	}
}

func TestClient_DeduplicatedFailureSharedByAll(t *testing.T) {
	const callers = 4
	server, hits, release := blockingServer(t, http.StatusInternalServerError, `{"message":"boom"}`)
	c := New(server.URL)
	joined := countJoined(c)

	done := make(chan []*Response)
	go func() { done <- requestConcurrently(c, callers, "/cases/user/u1", nil) }()

	require.Eventually(t, func() bool { return joined.Load() == callers }, 2*time.Second, 5*time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	close(release)

	for _, resp := range <-done {
		require.NotNil(t, resp.Err)
		assert.Equal(t, "boom", resp.Err.Message)
	}
	assert.Equal(t, int32(1), hits.Load())
}

func TestClient_CacheClearsOnSettle(t *testing.T) {
	for _, status := range []int{http.StatusOK, http.StatusInternalServerError} {
		t.Run(http.StatusText(status), func(t *testing.T) {
			var hits atomic.Int32
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				n := hits.Add(1)
				w.WriteHeader(status)
				_, _ = fmt.Fprintf(w, `{"n":%d}`, n)
			}))
			defer server.Close()

			c := New(server.URL)
			first := c.Request(context.Background(), "/users/me", nil)
			second := c.Request(context.Background(), "/users/me", nil)

			assert.Equal(t, int32(2), hits.Load())
			assert.NotSame(t, first, second)
			assert.JSONEq(t, `{"n":1}`, string(first.Body))
			assert.JSONEq(t, `{"n":2}`, string(second.Body))
		})
	}
}

func TestClient_NonGetNotDeduplicated(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		time.Sleep(30 * time.Millisecond)
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	c := New(server.URL)
	requestConcurrently(c, 3, "/cases", &Options{Method: http.MethodPost, Body: map[string]string{"title": "x"}})
	assert.Equal(t, int32(3), hits.Load())
}

func TestClient_DistinctKeysNotShared(t *testing.T) {
	server, hits, release := blockingServer(t, http.StatusOK, `{}`)

	c := New(server.URL, WithCredentials(ContextToken{}))
	var wg sync.WaitGroup
	for _, token := range []string{"alice", "bob"} {
		wg.Add(1)
		go func(token string) {
			defer wg.Done()
			c.Request(WithToken(context.Background(), token), "/users/me", nil)
		}(token)
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		c.Request(context.Background(), "/users/me", &Options{Header: http.Header{"X-Case": []string{"7"}}})
	}()

	require.Eventually(t, func() bool { return hits.Load() == 3 }, 2*time.Second, 5*time.Millisecond)
	close(release)
	wg.Wait()
}

func TestClient_WaiterCancellationDoesNotAbortSharedCall(t *testing.T) {
	server, hits, release := blockingServer(t, http.StatusOK, `{"ok":true}`)
	c := New(server.URL)
	joined := countJoined(c)

	ctx, cancel := context.WithCancel(context.Background())
	cancelled := make(chan *Response)
	go func() { cancelled <- c.Request(ctx, "/cases/1", nil) }()

	other := make(chan *Response)
	require.Eventually(t, func() bool { return hits.Load() == 1 }, 2*time.Second, 5*time.Millisecond)
	go func() { other <- c.Request(context.Background(), "/cases/1", nil) }()
	require.Eventually(t, func() bool { return joined.Load() == 2 }, 2*time.Second, 5*time.Millisecond)

	cancel()
	resp := <-cancelled
	require.NotNil(t, resp.Err)
	assert.Equal(t, KindTimeout, resp.Err.Kind)

	close(release)
	resp = <-other
	require.True(t, resp.OK())
	assert.JSONEq(t, `{"ok":true}`, string(resp.Body))
	assert.Equal(t, int32(1), hits.Load())
}
