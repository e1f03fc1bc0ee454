package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetricsMiddleware_RecordsDurationAndCount(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware())
	r.Post("/v1/convert", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
	})

	req := httptest.NewRequest("POST", "/v1/convert", http.NoBody)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected status 422, got %d", rr.Code)
	}

	requestsVal := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("POST", "/v1/convert", "422"))
	if requestsVal < 1 {
		t.Errorf("expected http_requests_total >= 1, got %f", requestsVal)
	}
	if testutil.CollectAndCount(httpRequestDuration) == 0 {
		t.Error("expected http_request_duration_seconds to have observations")
	}
}

func TestMetricsMiddleware_WithoutRouter(t *testing.T) {
	h := Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	}))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest("GET", "/raw", http.NoBody))

	if val := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "unknown", "200")); val < 1 {
		t.Errorf("expected unknown path label, got %f", val)
	}
}

func TestObserveConversion_Outcomes(t *testing.T) {
	ObserveConversion("rule-logic", "doc-schema", time.Millisecond, false)
	ObserveConversion("rule-logic", "doc-schema", time.Millisecond, true, "unsupported_operator")
	ObserveConversion("rule-logic", "doc-schema", time.Millisecond, true)

	for _, outcome := range []string{OutcomeOK, OutcomeIssue, OutcomeError} {
		if v := testutil.ToFloat64(ConversionsTotal.WithLabelValues("rule-logic", "doc-schema", outcome)); v < 1 {
			t.Errorf("outcome %s: expected >= 1, got %f", outcome, v)
		}
	}
	if v := testutil.ToFloat64(IssuesTotal.WithLabelValues("unsupported_operator")); v < 1 {
		t.Errorf("expected issue counter >= 1, got %f", v)
	}
}

func TestRegister_Idempotent(t *testing.T) {
	Register()
	Register()
}

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"", "unknown"},
		{"/v1/convert", "/v1/convert"},
	}
	for _, tc := range tests {
		if got := normalizePath(tc.input); got != tc.expected {
			t.Errorf("normalizePath(%q) = %q, want %q", tc.input, got, tc.expected)
		}
	}
}
