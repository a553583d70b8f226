package server

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/KishanRaj0007/rtb-engine/config"
	"github.com/KishanRaj0007/rtb-engine/metrics"
)

func TestStatusEndpoint(t *testing.T) {
	handler := AdminHandler(&config.Configuration{}, nil)

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest("GET", "/status", nil))

	assert.Equal(t, http.StatusNoContent, recorder.Code)
}

func TestMetricsEndpointWhenEnabled(t *testing.T) {
	cfg := &config.Configuration{}
	cfg.Metrics.Prometheus.Enabled = true
	promMetrics := metrics.NewPrometheusMetrics()
	promMetrics.RecordDecision(metrics.OutcomeBid, time.Millisecond)

	handler := AdminHandler(cfg, promMetrics)

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest("GET", "/metrics", nil))

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "bidder_decisions_total")
}

func TestMetricsEndpointAbsentWhenDisabled(t *testing.T) {
	handler := AdminHandler(&config.Configuration{}, metrics.NewPrometheusMetrics())

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest("GET", "/metrics", nil))

	assert.Equal(t, http.StatusNotFound, recorder.Code)
}
