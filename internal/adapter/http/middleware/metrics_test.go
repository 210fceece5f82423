package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
)

type recordedRequest struct {
	method, path, status string
}

type fakeObserver struct {
	requests []recordedRequest
}

func (f *fakeObserver) ObserveHTTPRequest(method, path, status string, duration time.Duration) {
	f.requests = append(f.requests, recordedRequest{method, path, status})
}

func TestMetricsMiddlewareRecordsRequest(t *testing.T) {
	testCases := []struct {
		name       string
		method     string
		path       string
		wantPath   string
		wantStatus string
	}{
		{
			name:       "labels by route pattern",
			method:     http.MethodGet,
			path:       "/api/v1/accounts/ABC123/reconciliation",
			wantPath:   "/api/v1/accounts/{id}/reconciliation",
			wantStatus: "418",
		},
		{
			name:       "keeps static route",
			method:     http.MethodGet,
			path:       "/health",
			wantPath:   "/health",
			wantStatus: "200",
		},
		{
			name:       "collapses unknown paths",
			method:     http.MethodGet,
			path:       "/nope/123",
			wantPath:   "unmatched",
			wantStatus: "404",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			observer := &fakeObserver{}

			r := chi.NewRouter()
			r.Use(Metrics(observer))
			r.Get("/health", func(w http.ResponseWriter, r *http.Request) {})
			r.Get("/api/v1/accounts/{id}/reconciliation", func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusTeapot)
			})

			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(tc.method, tc.path, nil))

			if len(observer.requests) != 1 {
				t.Fatalf("expected one observation, got %d", len(observer.requests))
			}
			got := observer.requests[0]
			if got.path != tc.wantPath || got.status != tc.wantStatus || got.method != tc.method {
				t.Fatalf("unexpected observation: %+v", got)
			}
		})
	}
}
