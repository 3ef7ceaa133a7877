package healthcheck

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubChecker struct {
	status  Status
	message string
	delay   time.Duration
}

func (s *stubChecker) Check(ctx context.Context) Check {
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
		}
	}
	return Check{
		Status:      s.status,
		Message:     s.message,
		LastChecked: time.Now(),
	}
}

func TestCheck_NoCheckers(t *testing.T) {
	hc := New("2.0.0", zap.NewNop())

	response := hc.Check(context.Background())

	assert.Equal(t, StatusHealthy, response.Status)
	assert.Equal(t, "2.0.0", response.Version)
	assert.Empty(t, response.Checks)
}

func TestCheck_AggregatesWorstStatus(t *testing.T) {
	tests := []struct {
		name     string
		statuses []Status
		want     Status
	}{
		{"all healthy", []Status{StatusHealthy, StatusHealthy}, StatusHealthy},
		{"one degraded", []Status{StatusHealthy, StatusDegraded}, StatusDegraded},
		{"one unhealthy", []Status{StatusHealthy, StatusDegraded, StatusUnhealthy}, StatusUnhealthy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hc := New("2.0.0", zap.NewNop())
			hc.SetCacheTTL(0)
			for i, status := range tt.statuses {
				hc.Register(string(rune('a'+i)), &stubChecker{status: status})
			}

			response := hc.Check(context.Background())

			assert.Equal(t, tt.want, response.Status)
			assert.Len(t, response.Checks, len(tt.statuses))
		})
	}
}

func TestCheck_NamesComeFromRegistration(t *testing.T) {
	hc := New("2.0.0", zap.NewNop())
	hc.Register("database", &stubChecker{status: StatusHealthy})

	response := hc.Check(context.Background())

	require.Len(t, response.Checks, 1)
	assert.Equal(t, "database", response.Checks[0].Name)
}

func TestCheck_CachesWithinTTL(t *testing.T) {
	hc := New("2.0.0", zap.NewNop())
	hc.SetCacheTTL(time.Minute)
	hc.Register("database", &stubChecker{status: StatusHealthy})

	first := hc.Check(context.Background())

	// Flip the dependency; the cached response must still win.
	hc.Register("database", &stubChecker{status: StatusUnhealthy})
	second := hc.Check(context.Background())

	assert.Equal(t, first.Timestamp, second.Timestamp)
	assert.Equal(t, StatusHealthy, second.Status)
}

func TestHandler_UnhealthyReturns503(t *testing.T) {
	hc := New("2.0.0", zap.NewNop())
	hc.SetCacheTTL(0)
	hc.Register("database", &stubChecker{status: StatusUnhealthy, message: "connection refused"})

	req := httptest.NewRequest(http.MethodGet, "/health/checks", nil)
	rec := httptest.NewRecorder()
	hc.Handler()(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var response Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Equal(t, StatusUnhealthy, response.Status)
}

func TestLivenessHandler_AlwaysOK(t *testing.T) {
	hc := New("2.0.0", zap.NewNop())
	hc.Register("database", &stubChecker{status: StatusUnhealthy})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	hc.LivenessHandler()(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestReadinessHandler_DegradedStaysReady(t *testing.T) {
	hc := New("2.0.0", zap.NewNop())
	hc.SetCacheTTL(0)
	hc.Register("embeddings", &stubChecker{status: StatusDegraded, message: "provider timeout"})

	req := httptest.NewRequest(http.MethodGet, "/ready", nil)
	rec := httptest.NewRecorder()
	hc.ReadinessHandler()(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestReadinessHandler_UnhealthyNotReady(t *testing.T) {
	hc := New("2.0.0", zap.NewNop())
	hc.SetCacheTTL(0)
	hc.Register("database", &stubChecker{status: StatusUnhealthy})

	req := httptest.NewRequest(http.MethodGet, "/ready", nil)
	rec := httptest.NewRecorder()
	hc.ReadinessHandler()(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestPingChecker_FailureIsDegraded(t *testing.T) {
	checker := NewPingChecker("embeddings", pingFunc(func(ctx context.Context) error {
		return errors.New("dial tcp: connection refused")
	}))

	check := checker.Check(context.Background())

	assert.Equal(t, StatusDegraded, check.Status)
	assert.Contains(t, check.Message, "connection refused")
}

func TestPingChecker_SuccessIsHealthy(t *testing.T) {
	checker := NewPingChecker("embeddings", pingFunc(func(ctx context.Context) error {
		return nil
	}))

	check := checker.Check(context.Background())

	assert.Equal(t, StatusHealthy, check.Status)
}

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }
