package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"

	"github.com/Odnson/fobi-amaturalist-sub002/internal/application/suggest"
	"github.com/Odnson/fobi-amaturalist-sub002/internal/interfaces/http/handlers"
	"github.com/Odnson/fobi-amaturalist-sub002/internal/interfaces/http/middleware"
	"github.com/Odnson/fobi-amaturalist-sub002/internal/testutil"
	"github.com/Odnson/fobi-amaturalist-sub002/pkg/types/taxon"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	goleak.VerifyTestMain(m)
}

type stubSuggestService struct{}

func (stubSuggestService) Suggest(_ context.Context, in suggest.SuggestInput) (*suggest.SuggestResult, error) {
	return &suggest.SuggestResult{SessionID: "s", Query: in.Query, Page: in.Page}, nil
}

func (stubSuggestService) Select(context.Context, suggest.SelectInput) (*taxon.SelectionResult, error) {
	return &taxon.SelectionResult{}, nil
}

func (stubSuggestService) Normalize(name string) string { return name }

type countingMetrics struct {
	mu     sync.Mutex
	routes []string
}

func (c *countingMetrics) ObserveHTTPRequest(_, route string, _ int, _ time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.routes = append(c.routes, route)
}

func fullRouter(metrics middleware.HTTPMetrics) *gin.Engine {
	logger := testutil.NewMockLogger()
	cors := middleware.DefaultCORSConfig()
	cors.AllowedOrigins = []string{"https://fobi.example"}
	return NewRouter(RouterConfig{
		SuggestHandler: handlers.NewSuggestHandler(stubSuggestService{}, logger),
		HealthHandler:  handlers.NewHealthHandler("test"),
		CORS:           &cors,
		Logger:         logger,
		Metrics:        metrics,
		MetricsHandler: http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte("# metrics"))
		}),
	})
}

func TestNewRouter_RoutesRegistered(t *testing.T) {
	r := fullRouter(nil)
	tests := []struct {
		method string
		path   string
		status int
	}{
		{http.MethodGet, "/healthz", http.StatusOK},
		{http.MethodGet, "/readyz", http.StatusOK},
		{http.MethodGet, "/metrics", http.StatusOK},
		{http.MethodGet, "/api/v1/taxa/suggestions?q=felis", http.StatusOK},
		{http.MethodGet, "/api/v1/taxa/normalize?name=Felis", http.StatusOK},
		{http.MethodGet, "/api/v1/taxa/selections", http.StatusMethodNotAllowed},
		{http.MethodGet, "/api/v1/patents", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(tt.method, tt.path, nil))
			assert.Equal(t, tt.status, w.Code)
			assert.NotEmpty(t, w.Header().Get(middleware.HeaderRequestID))
		})
	}
}

func TestNewRouter_GlobalMiddlewareApplied(t *testing.T) {
	metrics := &countingMetrics{}
	r := fullRouter(metrics)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/taxa/suggestions?q=felis", nil)
	req.Header.Set("Origin", "https://fobi.example")
	r.ServeHTTP(w, req)

	assert.Equal(t, "https://fobi.example", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "s", w.Header().Get(handlers.HeaderSessionID))
	assert.Equal(t, []string{"/api/v1/taxa/suggestions"}, metrics.routes)
}

func TestNewRouter_NilHandlers_NoPanic(t *testing.T) {
	assert.NotPanics(t, func() {
		r := NewRouter(RouterConfig{})
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

//Personal.AI order the ending
