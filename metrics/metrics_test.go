package metrics

import (
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordReport(t *testing.T) {
	m, err := NewHTTPMetrics()
	require.NoError(t, err)

	m.RecordReport("kpi-cards", 0.01, nil)
	m.RecordReport("kpi-cards", 0.02, nil)
	m.RecordReport("kpi-cards", 0.03, errors.New("boom"))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.reportQueriesTotal.WithLabelValues("kpi-cards", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.reportQueriesTotal.WithLabelValues("kpi-cards", "error")))
}

func TestHandlerExposesMetrics(t *testing.T) {
	m, err := NewHTTPMetrics()
	require.NoError(t, err)
	m.RecordHTTPRequest("GET", "/api/landing/kpi-cards", 200, 0.005)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	assert.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Body.String(), `http_requests_total{method="GET",path="/api/landing/kpi-cards",status_code="200"} 1`)
}
