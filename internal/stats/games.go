package stats

import (
	"context"
	"fmt"
	"math"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/foosball-elo/internal/ladder"
	"github.com/mauv0809/foosball-elo/internal/rating"
)

// RatedGame is a game together with the size of its rating swing.
type RatedGame struct {
	ladder.Game
	RatingDiff float64 `json:"rating_diff"`
}

// RateGames computes each game's absolute team diff from both teams' ratings
// as they stood on the day the game was played.
func (a *Aggregator) RateGames(ctx context.Context, games []ladder.Game, params rating.Params) ([]RatedGame, error) {
	if len(games) == 0 {
		return []RatedGame{}, nil
	}

	seen := make(map[string]bool)
	var ids []string
	for _, g := range games {
		for _, slot := range g.Slots() {
			if !seen[slot.ID] {
				seen[slot.ID] = true
				ids = append(ids, slot.ID)
			}
		}
	}
	histories, err := a.store.GetRatingHistories(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load rating histories: %w", err)
	}

	rated := make([]RatedGame, 0, len(games))
	for _, g := range games {
		diff, ok := ratingDiffAt(g, histories, params)
		if !ok {
			log.Warn("Game has a player without rating history, leaving its rating diff at zero", "gameID", g.ID)
		}
		rated = append(rated, RatedGame{Game: g, RatingDiff: diff})
	}
	return rated, nil
}

func ratingDiffAt(g ladder.Game, histories map[string]rating.History, params rating.Params) (float64, bool) {
	team1, ok1 := teamRatingAt(g.Team(1), g.DatePlayed, histories)
	team2, ok2 := teamRatingAt(g.Team(2), g.DatePlayed, histories)
	if !ok1 || !ok2 {
		return 0, false
	}
	diff1, _ := rating.Diffs(g.Winner() == 1, team1, team2, params)
	return math.Abs(diff1), true
}
