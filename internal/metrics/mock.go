package metrics

import "sync"

// Mock is a mock implementation of the Metrics interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu                 sync.Mutex
	batchRuns          int
	batchRejected      int
	batchFailed        int
	gamesConsumed      int
	batchDurations     []float64
	gamesSubmitted     int
	validationFailures int
	playersRegistered  int
	slackNotifSent     int
	slackNotifFailed   int
	startupTime        float64
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{
		batchDurations: make([]float64, 0),
	}
}

func (m *Mock) IncBatchRuns() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.batchRuns++
}

func (m *Mock) IncBatchRejected() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.batchRejected++
}

func (m *Mock) IncBatchFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.batchFailed++
}

func (m *Mock) AddGamesConsumed(count int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gamesConsumed += count
}

func (m *Mock) ObserveBatchDuration(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.batchDurations = append(m.batchDurations, duration)
}

func (m *Mock) IncGamesSubmitted() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gamesSubmitted++
}

func (m *Mock) IncValidationFailures() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.validationFailures++
}

func (m *Mock) IncPlayersRegistered() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.playersRegistered++
}

func (m *Mock) IncSlackNotifSent() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slackNotifSent++
}

func (m *Mock) IncSlackNotifFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slackNotifFailed++
}

func (m *Mock) SetStartupTime(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.startupTime = duration
}

// BatchRuns returns the number of times IncBatchRuns was called.
func (m *Mock) BatchRuns() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.batchRuns
}

// BatchRejected returns the number of times IncBatchRejected was called.
func (m *Mock) BatchRejected() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.batchRejected
}

// BatchFailed returns the number of times IncBatchFailed was called.
func (m *Mock) BatchFailed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.batchFailed
}

// GamesConsumed returns the running total passed to AddGamesConsumed.
func (m *Mock) GamesConsumed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.gamesConsumed
}

// BatchDurations returns a copy of the observed batch durations.
func (m *Mock) BatchDurations() []float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]float64, len(m.batchDurations))
	copy(out, m.batchDurations)
	return out
}

// GamesSubmitted returns the number of times IncGamesSubmitted was called.
func (m *Mock) GamesSubmitted() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.gamesSubmitted
}

// ValidationFailures returns the number of times IncValidationFailures was called.
func (m *Mock) ValidationFailures() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.validationFailures
}

// PlayersRegistered returns the number of times IncPlayersRegistered was called.
func (m *Mock) PlayersRegistered() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.playersRegistered
}

// SlackNotifSent returns the number of times IncSlackNotifSent was called.
func (m *Mock) SlackNotifSent() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slackNotifSent
}

// SlackNotifFailed returns the number of times IncSlackNotifFailed was called.
func (m *Mock) SlackNotifFailed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slackNotifFailed
}

// StartupTime returns the last value passed to SetStartupTime.
func (m *Mock) StartupTime() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.startupTime
}
