package processor

import (
	"context"
	"time"

	"github.com/mauv0809/foosball-elo/internal/ladder"
	"github.com/mauv0809/foosball-elo/internal/rating"
)

// Store defines the database operations required by the processor.
type Store interface {
	GetPlayer(ctx context.Context, playerID string) (*ladder.Player, error)
	GetRatingHistories(ctx context.Context, playerIDs []string) (map[string]rating.History, error)
	GetLeaderboard(ctx context.Context, limit int) ([]ladder.RankedPlayer, error)
	CreateGame(ctx context.Context, game *ladder.Game) error
	LoadBatchState(ctx context.Context) (*ladder.BatchState, error)
	CommitRatingUpdate(ctx context.Context, date time.Time, updates []ladder.RatingUpdate, gameIDs []string) error
}

// Notifier defines the notification operations required by the processor.
type Notifier interface {
	SendRatingUpdate(summary *UpdateSummary, dryRun bool) error
	SendLeaderboard(players []ladder.RankedPlayer, dryRun bool) error
}
