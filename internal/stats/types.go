package stats

import "github.com/mauv0809/foosball-elo/internal/rating"

// ErrNoRatingHistory is returned for a player without a single snapshot.
var ErrNoRatingHistory = rating.ErrNoHistory

// Aggregator answers read-only rating and statistics queries.
type Aggregator struct {
	store Store
}

// Record is the flat statistics of one player. Opponent ratings are team
// averages taken as of each game's date.
type Record struct {
	PlayerID              string  `json:"player_id"`
	Name                  string  `json:"name"`
	CurrentRating         int     `json:"current_rating"`
	GamesPlayed           int     `json:"games_played"`
	GamesWon              int     `json:"games_won"`
	GamesLost             int     `json:"games_lost"`
	WinPercentage         float64 `json:"win_percentage"`
	HighestOpponentRating float64 `json:"highest_opponent_rating"`
	AverageOpponentRating float64 `json:"average_opponent_rating"`
	EggsDealt             int     `json:"eggs_dealt"`
	EggsCollected         int     `json:"eggs_collected"`
}
