package notifier

import (
	"sync"

	"github.com/mauv0809/foosball-elo/internal/ladder"
	"github.com/mauv0809/foosball-elo/internal/processor"
	"github.com/mauv0809/foosball-elo/internal/stats"
)

var _ Notifier = (*Mock)(nil)

// Mock is a mock implementation of the Notifier interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu sync.Mutex

	// Spies
	SendRatingUpdateFunc func(summary *processor.UpdateSummary, dryRun bool) error
	SendLeaderboardFunc  func(players []ladder.RankedPlayer, dryRun bool) error

	// Call records
	SendRatingUpdateCalls []SendRatingUpdateCall
	SendLeaderboardCalls  [][]ladder.RankedPlayer

	// Call records for format functions
	LastLeaderboardResponse    any
	LastPlayerStatsResponse    any
	LastPlayerNotFoundResponse any
}

// SendRatingUpdateCall holds the arguments for a call to SendRatingUpdate.
type SendRatingUpdateCall struct {
	Summary *processor.UpdateSummary
	DryRun  bool
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{}
}

// Reset clears all call records.
func (m *Mock) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendRatingUpdateCalls = nil
	m.SendLeaderboardCalls = nil
	m.LastLeaderboardResponse = nil
	m.LastPlayerStatsResponse = nil
	m.LastPlayerNotFoundResponse = nil
}

func (m *Mock) SendRatingUpdate(summary *processor.UpdateSummary, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendRatingUpdateCalls = append(m.SendRatingUpdateCalls, SendRatingUpdateCall{Summary: summary, DryRun: dryRun})
	if m.SendRatingUpdateFunc != nil {
		return m.SendRatingUpdateFunc(summary, dryRun)
	}
	return nil
}

func (m *Mock) SendLeaderboard(players []ladder.RankedPlayer, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendLeaderboardCalls = append(m.SendLeaderboardCalls, players)
	if m.SendLeaderboardFunc != nil {
		return m.SendLeaderboardFunc(players, dryRun)
	}
	return nil
}

func (m *Mock) FormatLeaderboardResponse(players []ladder.RankedPlayer) (any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	resp := map[string]any{"type": "leaderboard", "players": len(players)}
	m.LastLeaderboardResponse = resp
	return resp, nil
}

func (m *Mock) FormatPlayerStatsResponse(record *stats.Record) (any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	resp := map[string]any{"type": "player_stats", "player": record.Name}
	m.LastPlayerStatsResponse = resp
	return resp, nil
}

func (m *Mock) FormatPlayerNotFoundResponse(query string) (any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	resp := map[string]any{"type": "player_not_found", "query": query}
	m.LastPlayerNotFoundResponse = resp
	return resp, nil
}

// Leaderboards returns the number of leaderboard notifications sent.
func (m *Mock) Leaderboards() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.SendLeaderboardCalls)
}

// RatingUpdates returns the number of rating update notifications sent.
func (m *Mock) RatingUpdates() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.SendRatingUpdateCalls)
}
