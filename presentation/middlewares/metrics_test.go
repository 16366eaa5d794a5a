package middlewares

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/cheerioo/api/infrastructure/metrics"
)

type fakeMetricsManager struct {
	mu         sync.Mutex
	counts     map[string]int
	histograms map[string][]float64
	lastLabels []string
}

func newFakeMetricsManager() *fakeMetricsManager {
	return &fakeMetricsManager{
		counts:     make(map[string]int),
		histograms: make(map[string][]float64),
	}
}

func (f *fakeMetricsManager) NewGauge(name, desc string) {}

func (f *fakeMetricsManager) NewCounter(name, desc string) {}

func (f *fakeMetricsManager) NewHistogram(name, desc string, buckets ...float64) {}

func (f *fakeMetricsManager) NewUpDownCounter(name, desc string) {}

func (f *fakeMetricsManager) SetGauge(name string, value float64) {}

func (f *fakeMetricsManager) IncrementCounter(_ context.Context, name string, labels ...string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.counts[name]++
	f.lastLabels = labels
}

func (f *fakeMetricsManager) RecordHistogram(_ context.Context, name string, value float64, labels ...string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.histograms[name] = append(f.histograms[name], value)
}

func (f *fakeMetricsManager) DeltaUpDownCounter(_ context.Context, name string, value float64, labels ...string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.counts[name] += int(value)
}

func TestMetricsMiddlewareRecordsRequest(t *testing.T) {
	gin.SetMode(gin.TestMode)

	manager := newFakeMetricsManager()

	router := gin.New()
	router.Use(MetricsMiddleware(manager))
	router.GET("/events/:id", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/events/evt-1", nil)
	router.ServeHTTP(w, req)

	manager.mu.Lock()
	defer manager.mu.Unlock()

	if got := manager.counts[metrics.HTTPRequestsTotal]; got != 1 {
		t.Fatalf("request counter = %d, want 1", got)
	}
	if got := len(manager.histograms[metrics.HTTPRequestDuration]); got != 1 {
		t.Fatalf("duration samples = %d, want 1", got)
	}

	wantLabels := map[string]string{"method": "GET", "path": "/events/:id", "status": "200"}
	for i := 0; i+1 < len(manager.lastLabels); i += 2 {
		key, value := manager.lastLabels[i], manager.lastLabels[i+1]
		if want, ok := wantLabels[key]; ok && value != want {
			t.Errorf("label %s = %q, want %q", key, value, want)
		}
	}
}

func TestMetricsMiddlewareFoldsUnmatchedRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)

	manager := newFakeMetricsManager()

	router := gin.New()
	router.Use(MetricsMiddleware(manager))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/no/such/route", nil)
	router.ServeHTTP(w, req)

	manager.mu.Lock()
	defer manager.mu.Unlock()

	for i := 0; i+1 < len(manager.lastLabels); i += 2 {
		if manager.lastLabels[i] == "path" && manager.lastLabels[i+1] != "unmatched" {
			t.Fatalf("path label = %q, want %q", manager.lastLabels[i+1], "unmatched")
		}
	}
}
