package stats

import (
	"context"

	"github.com/mauv0809/foosball-elo/internal/ladder"
	"github.com/mauv0809/foosball-elo/internal/rating"
)

// Store defines the read operations the aggregator needs.
type Store interface {
	GetPlayer(ctx context.Context, playerID string) (*ladder.Player, error)
	GetGamesForPlayer(ctx context.Context, playerID string) ([]ladder.Game, error)
	GetRatingHistory(ctx context.Context, playerID string) (rating.History, error)
	GetRatingHistories(ctx context.Context, playerIDs []string) (map[string]rating.History, error)
}
