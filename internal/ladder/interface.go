package ladder

import (
	"context"
	"time"

	"github.com/mauv0809/foosball-elo/internal/rating"
)

// LadderStore defines the interface for interacting with the ladder's data.
type LadderStore interface {
	AddPlayer(ctx context.Context, name string, initialRating int, date time.Time) (*Player, error)
	GetPlayer(ctx context.Context, playerID string) (*Player, error)
	GetPlayerByName(ctx context.Context, name string) (*Player, error)
	GetLeaderboard(ctx context.Context, limit int) ([]RankedPlayer, error)
	CreateGame(ctx context.Context, game *Game) error
	GetGame(ctx context.Context, gameID string) (*Game, error)
	GetRecentGames(ctx context.Context, limit int) ([]Game, error)
	GetUnconsumedGames(ctx context.Context) ([]Game, error)
	GetGamesForPlayer(ctx context.Context, playerID string) ([]Game, error)
	GetRatingHistory(ctx context.Context, playerID string) (rating.History, error)
	GetRatingHistories(ctx context.Context, playerIDs []string) (map[string]rating.History, error)
	CreateRatingSnapshot(ctx context.Context, playerID string, date time.Time, value int) error
	LoadBatchState(ctx context.Context) (*BatchState, error)
	CommitRatingUpdate(ctx context.Context, date time.Time, updates []RatingUpdate, gameIDs []string) error
}
