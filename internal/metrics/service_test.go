package metrics

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gatherValues(t *testing.T, reg *prometheus.Registry) map[string]float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)

	values := make(map[string]float64)
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			switch {
			case m.GetCounter() != nil:
				values[mf.GetName()] = m.GetCounter().GetValue()
			case m.GetGauge() != nil:
				values[mf.GetName()] = m.GetGauge().GetValue()
			case m.GetHistogram() != nil:
				values[mf.GetName()] = float64(m.GetHistogram().GetSampleCount())
			}
		}
	}
	return values
}

func TestServiceCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	s := NewService(reg)

	s.IncBatchRuns()
	s.IncBatchRuns()
	s.AddGamesConsumed(5)
	s.IncValidationFailures()
	s.ObserveBatchDuration(0.2)
	s.SetStartupTime(1.5)

	values := gatherValues(t, reg)
	assert.Equal(t, 2.0, values["foosball_batch_runs_total"])
	assert.Equal(t, 5.0, values["foosball_games_consumed_total"])
	assert.Equal(t, 1.0, values["foosball_game_validation_failures_total"])
	assert.Equal(t, 1.0, values["foosball_batch_duration_seconds"])
	assert.Equal(t, 1.5, values["foosball_startup_duration_seconds"])
}

func TestMetricsHandlerExposesRegisteredMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	s := NewService(reg)
	s.IncGamesSubmitted()

	rr := httptest.NewRecorder()
	NewMetricsHandler(reg).ServeHTTP(rr, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rr.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "foosball_games_submitted_total 1")
}
