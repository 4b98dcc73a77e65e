package notifier

import (
	"github.com/mauv0809/foosball-elo/internal/ladder"
	"github.com/mauv0809/foosball-elo/internal/processor"
	"github.com/mauv0809/foosball-elo/internal/stats"
)

// Notifier defines a high-level interface for sending notifications about business events.
// This decouples the rest of the application from the specific notification provider (e.g., Slack).
type Notifier interface {
	// After a batch update
	SendRatingUpdate(summary *processor.UpdateSummary, dryRun bool) error
	SendLeaderboard(players []ladder.RankedPlayer, dryRun bool) error

	// For formatting responses for slash commands
	FormatLeaderboardResponse(players []ladder.RankedPlayer) (any, error)
	FormatPlayerStatsResponse(record *stats.Record) (any, error)
	FormatPlayerNotFoundResponse(query string) (any, error)
}
