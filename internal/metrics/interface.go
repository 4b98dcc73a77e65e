package metrics

// Metrics defines the interface for collecting application metrics.
// This decouples the application from the specific metrics implementation (e.g., Prometheus).
type Metrics interface {
	IncBatchRuns()
	IncBatchRejected()
	IncBatchFailed()
	AddGamesConsumed(count int)
	ObserveBatchDuration(duration float64)
	IncGamesSubmitted()
	IncValidationFailures()
	IncPlayersRegistered()
	IncSlackNotifSent()
	IncSlackNotifFailed()
	SetStartupTime(duration float64)
}
