package client

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

	apperrors "github.com/Odnson/fobi-amaturalist-sub002/pkg/errors"
)

// ---------------------------------------------------------------------------
// Test Helpers
// ---------------------------------------------------------------------------

func newTestClient(t *testing.T, handler http.HandlerFunc, opts ...Option) *Client {
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	opts = append([]Option{WithAPIKey("test-api-key"), WithRetryWait(time.Millisecond, 2*time.Millisecond)}, opts...)
	client, err := NewClient(server.URL, opts...)
	require.NoError(t, err)
	return client
}

type testLogger struct {
	mu      sync.Mutex
	lastMsg string
	count   int32
}

func (l *testLogger) Debugf(format string, args ...interface{}) { l.log(format, args...) }
func (l *testLogger) Infof(format string, args ...interface{})  { l.log(format, args...) }
func (l *testLogger) Errorf(format string, args ...interface{}) { l.log(format, args...) }

func (l *testLogger) log(format string, args ...interface{}) {
	atomic.AddInt32(&l.count, 1)
	l.mu.Lock()
	l.lastMsg = fmt.Sprintf(format, args...)
	l.mu.Unlock()
}

// ---------------------------------------------------------------------------
// Constructor Tests
// ---------------------------------------------------------------------------

func TestNewClient_Success(t *testing.T) {
	c, err := NewClient("http://api.example.com")
	require.NoError(t, err)
	assert.Equal(t, "http://api.example.com", c.baseURL)
	assert.Equal(t, 2, c.retryMax)
	assert.Empty(t, c.apiKey)
	assert.Contains(t, c.userAgent, "taxonsuggest-go/")
}

func TestNewClient_EmptyBaseURL(t *testing.T) {
	_, err := NewClient("")
	assert.ErrorIs(t, err, apperrors.ErrInvalidConfig)
}

func TestNewClient_InvalidBaseURL(t *testing.T) {
	_, err := NewClient("ftp://invalid")
	assert.ErrorIs(t, err, apperrors.ErrInvalidConfig)
	_, err = NewClient("invalid-url")
	assert.ErrorIs(t, err, apperrors.ErrInvalidConfig)
}

func TestNewClient_BaseURLTrailingSlash(t *testing.T) {
	c, err := NewClient("http://api.example.com/api/")
	require.NoError(t, err)
	assert.Equal(t, "http://api.example.com/api", c.baseURL)
}

func TestNewClient_WithOptions(t *testing.T) {
	customClient := &http.Client{Timeout: 10 * time.Second}
	logger := &testLogger{}
	c, err := NewClient("http://api.example.com",
		WithHTTPClient(customClient),
		WithTimeout(3*time.Second),
		WithLogger(logger),
		WithRetryMax(5),
		WithAPIKey("k"),
		WithUserAgent("ua/1"),
	)
	require.NoError(t, err)
	assert.Same(t, customClient, c.httpClient)
	assert.Equal(t, 3*time.Second, c.httpClient.Timeout)
	assert.Equal(t, logger, c.logger)
	assert.Equal(t, 5, c.retryMax)
	assert.Equal(t, "k", c.apiKey)
	assert.Equal(t, "ua/1", c.userAgent)
}

func TestOptions_IgnoreInvalidValues(t *testing.T) {
	c, err := NewClient("http://api.example.com",
		WithRetryMax(-1),
		WithRetryWait(0, time.Second),
		WithUserAgent(""),
		WithLogger(nil),
		WithHTTPClient(nil),
	)
	require.NoError(t, err)
	assert.Equal(t, 2, c.retryMax)
	assert.Equal(t, 200*time.Millisecond, c.retryWaitMin)
	assert.NotEmpty(t, c.userAgent)
	assert.NotNil(t, c.logger)
	assert.NotNil(t, c.httpClient)
}

func TestClient_Taxa_LazyInit(t *testing.T) {
	c, _ := NewClient("http://api.example.com")
	assert.Nil(t, c.taxa)

	var wg sync.WaitGroup
	got := make([]*TaxaClient, 50)
	for i := range got {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			got[idx] = c.Taxa()
		}(i)
	}
	wg.Wait()
	for _, tc := range got {
		assert.Same(t, got[0], tc)
	}
}

// ---------------------------------------------------------------------------
// HTTP Execution Tests
// ---------------------------------------------------------------------------

func TestClient_Get_RequestHeaders(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "Bearer test-api-key", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		assert.Contains(t, r.Header.Get("User-Agent"), "taxonsuggest-go/")
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))
		w.WriteHeader(http.StatusOK)
	}
	c := newTestClient(t, handler)
	assert.NoError(t, c.get(context.Background(), "test", nil))
}

func TestClient_Get_NoAuthorizationWithoutKey(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL)
	require.NoError(t, err)
	assert.NoError(t, c.get(context.Background(), "/test", nil))
}

func TestClient_Get_RequestID_Unique(t *testing.T) {
	ids := make(chan string, 2)
	handler := func(w http.ResponseWriter, r *http.Request) {
		ids <- r.Header.Get("X-Request-ID")
	}
	c := newTestClient(t, handler)
	_ = c.get(context.Background(), "/test", nil)
	_ = c.get(context.Background(), "/test", nil)
	close(ids)

	assert.NotEqual(t, <-ids, <-ids)
}

func TestClient_Get_4xxError(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"code": "NOT_FOUND", "message": "Missing"}`))
	}
	c := newTestClient(t, handler)
	err := c.get(context.Background(), "/test", nil)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 404, apiErr.StatusCode)
	assert.Equal(t, "NOT_FOUND", apiErr.Code)
	assert.Equal(t, "Missing", apiErr.Message)
	assert.NotEmpty(t, apiErr.RequestID)
}

func TestClient_Get_4xxPlainBody(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte("bad query"))
	}
	c := newTestClient(t, handler)

	var apiErr *APIError
	require.ErrorAs(t, c.get(context.Background(), "/test", nil), &apiErr)
	assert.Equal(t, "bad query", apiErr.Message)
}

func TestClient_Get_4xxNoRetry(t *testing.T) {
	var calls int32
	handler := func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadRequest)
	}
	c := newTestClient(t, handler)
	assert.Error(t, c.get(context.Background(), "/test", nil))
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestClient_Get_5xxRetry(t *testing.T) {
	var calls int32
	handler := func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}
	c := newTestClient(t, handler)
	assert.NoError(t, c.get(context.Background(), "/test", nil))
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestClient_Get_5xxRetryExhausted(t *testing.T) {
	var calls int32
	handler := func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}
	c := newTestClient(t, handler, WithRetryMax(2))
	err := c.get(context.Background(), "/test", nil)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.True(t, apiErr.IsServerError())
	// 1 initial + 2 retries
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestClient_Get_429RetryAfter(t *testing.T) {
	var calls int32
	handler := func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.Header().Set("Retry-After", "0")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.WriteHeader(http.StatusOK)
	}
	logger := &testLogger{}
	c := newTestClient(t, handler, WithLogger(logger))

	assert.NoError(t, c.get(context.Background(), "/test", nil))
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
	assert.Greater(t, atomic.LoadInt32(&logger.count), int32(0))
}

func TestClient_Get_429WithoutRetryAfter(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}
	c := newTestClient(t, handler)

	var apiErr *APIError
	require.ErrorAs(t, c.get(context.Background(), "/test", nil), &apiErr)
	assert.True(t, apiErr.IsRateLimited())
}

func TestClient_Get_NetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	c, err := NewClient(server.URL, WithRetryMax(1), WithRetryWait(time.Millisecond, 2*time.Millisecond))
	require.NoError(t, err)
	assert.Error(t, c.get(context.Background(), "/test", nil))
}

func TestClient_Get_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {})
	assert.ErrorIs(t, c.get(ctx, "/test", nil), context.Canceled)
}

func TestClient_Get_ContextTimeout(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(200 * time.Millisecond):
		}
	}
	c := newTestClient(t, handler)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	assert.ErrorIs(t, c.get(ctx, "/test", nil), context.DeadlineExceeded)
}

func TestClient_Get_BadJSON(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{not json`))
	})
	var out map[string]interface{}
	assert.Error(t, c.get(context.Background(), "/test", &out))
}

// ---------------------------------------------------------------------------
// APIError Tests
// ---------------------------------------------------------------------------

func TestAPIError_Methods(t *testing.T) {
	assert.True(t, (&APIError{StatusCode: 404}).IsNotFound())
	assert.True(t, (&APIError{StatusCode: 401}).IsUnauthorized())
	assert.True(t, (&APIError{StatusCode: 429}).IsRateLimited())
	assert.True(t, (&APIError{StatusCode: 500}).IsServerError())
	assert.True(t, (&APIError{StatusCode: 503}).IsServerError())
	assert.False(t, (&APIError{StatusCode: 400}).IsServerError())

	eStr := (&APIError{Code: "ERR", StatusCode: 400, Message: "Msg", RequestID: "ID"}).Error()
	assert.Equal(t, "taxonomy: ERR (HTTP 400): Msg [request_id=ID]", eStr)
}

func TestCalculateBackoff(t *testing.T) {
	c, _ := NewClient("http://api.example.com", WithRetryWait(100*time.Millisecond, 300*time.Millisecond))
	b1 := c.calculateBackoff(1)
	assert.GreaterOrEqual(t, b1, 100*time.Millisecond)
	assert.Less(t, b1, 125*time.Millisecond)

	b5 := c.calculateBackoff(5)
	assert.GreaterOrEqual(t, b5, 300*time.Millisecond)
	assert.Less(t, b5, 375*time.Millisecond)
}

//Personal.AI order the ending
