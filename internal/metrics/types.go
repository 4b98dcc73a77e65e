package metrics

import "github.com/prometheus/client_golang/prometheus"

// Service holds all the Prometheus metrics for the application.
type Service struct {
	BatchRuns          prometheus.Counter
	BatchRejected      prometheus.Counter
	BatchFailed        prometheus.Counter
	GamesConsumed      prometheus.Counter
	BatchDuration      prometheus.Histogram
	GamesSubmitted     prometheus.Counter
	ValidationFailures prometheus.Counter
	PlayersRegistered  prometheus.Counter
	SlackNotifSent     prometheus.Counter
	SlackNotifFailed   prometheus.Counter
	StartupTimeSeconds prometheus.Gauge
}
