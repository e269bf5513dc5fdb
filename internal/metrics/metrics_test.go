package metrics_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/SscSPs/unit_availability_app/internal/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_IndependentRegistries(t *testing.T) {
	a := metrics.New()
	b := metrics.New()

	a.OTPIssued.WithLabelValues("issued").Inc()

	assert.Equal(t, 1.0, testutil.ToFloat64(a.OTPIssued.WithLabelValues("issued")))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.OTPIssued.WithLabelValues("issued")))
}

func TestMetrics_Handler(t *testing.T) {
	m := metrics.New()
	m.AccessDecisions.WithLabelValues("approved").Inc()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), `access_request_decisions_total{status="approved"} 1`))
}
