package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCollector_RecordsCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordHTTPStatus(200)
	c.RecordHTTPStatus(200)
	c.RecordHTTPStatus(401)
	c.RecordLoginSuccess()
	c.RecordLoginFailure("password")
	c.RecordQuestionPosted()

	if got := testutil.ToFloat64(c.httpStatus.WithLabelValues("200")); got != 2 {
		t.Errorf("http_status{200} = %v, want 2", got)
	}
	if got := testutil.ToFloat64(c.httpStatus.WithLabelValues("401")); got != 1 {
		t.Errorf("http_status{401} = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.loginSuccess); got != 1 {
		t.Errorf("login_success = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.loginFailure.WithLabelValues("password")); got != 1 {
		t.Errorf("login_failure{password} = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.questionsPosted); got != 1 {
		t.Errorf("questions_posted = %v, want 1", got)
	}
}

func TestHandler_ExposesMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)
	c.RecordLoginSuccess()

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()

	Handler(reg).ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), "orbitforum_login_success_total 1") {
		t.Errorf("exposition output missing login counter:\n%s", w.Body.String())
	}
}

func TestHTTPMiddleware_RecordsStatusAndDuration(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	mw := NewHTTPMiddleware(c)
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(time.Millisecond)
		w.WriteHeader(http.StatusCreated)
	}))

	req := httptest.NewRequest(http.MethodPost, "/register", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if got := testutil.ToFloat64(c.httpStatus.WithLabelValues("201")); got != 1 {
		t.Errorf("http_status{201} = %v, want 1", got)
	}
	if got := testutil.CollectAndCount(c.requestDuration); got != 1 {
		t.Errorf("request_duration series count = %d, want 1", got)
	}
}

func TestHTTPMiddleware_ImplicitOK(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	mw := NewHTTPMiddleware(c)
	// WriteHeaderを呼ばないハンドラーは200として記録される
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if got := testutil.ToFloat64(c.httpStatus.WithLabelValues("200")); got != 1 {
		t.Errorf("http_status{200} = %v, want 1", got)
	}
}
