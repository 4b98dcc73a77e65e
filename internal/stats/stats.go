package stats

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/foosball-elo/internal/ladder"
	"github.com/mauv0809/foosball-elo/internal/rating"
)

// New creates a new Aggregator.
func New(store Store) *Aggregator {
	return &Aggregator{store: store}
}

// RatingAt returns the player's rating as of date, or their current rating
// when date is nil.
func (a *Aggregator) RatingAt(ctx context.Context, playerID string, date *time.Time) (int, error) {
	history, err := a.store.GetRatingHistory(ctx, playerID)
	if err != nil {
		return 0, err
	}
	if history.Len() == 0 {
		if _, err := a.store.GetPlayer(ctx, playerID); err != nil {
			return 0, err
		}
		log.Warn("Player has no rating history", "playerID", playerID)
		return 0, fmt.Errorf("%w: player %s", ErrNoRatingHistory, playerID)
	}
	if date == nil {
		return history.Current(), nil
	}
	return history.At(*date), nil
}

// PlayerStatistics scans every game the player took part in.
func (a *Aggregator) PlayerStatistics(ctx context.Context, playerID string) (*Record, error) {
	player, err := a.store.GetPlayer(ctx, playerID)
	if err != nil {
		return nil, err
	}

	games, err := a.store.GetGamesForPlayer(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load games: %w", err)
	}

	ids := []string{playerID}
	for _, g := range games {
		for _, slot := range g.Slots() {
			ids = append(ids, slot.ID)
		}
	}
	histories, err := a.store.GetRatingHistories(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load rating histories: %w", err)
	}

	own := histories[playerID]
	if own.Len() == 0 {
		return nil, fmt.Errorf("%w: player %s", ErrNoRatingHistory, playerID)
	}

	record := &Record{
		PlayerID:      player.ID,
		Name:          player.Name,
		CurrentRating: own.Current(),
	}

	var opponentTotal float64
	opponentSamples := 0
	seen := make(map[string]bool, len(games))
	for _, g := range games {
		if seen[g.ID] {
			continue
		}
		seen[g.ID] = true

		side := g.SideOf(playerID)
		if side == 0 {
			continue
		}
		other := ladder.Opponent(side)

		record.GamesPlayed++
		switch g.Winner() {
		case side:
			record.GamesWon++
		case other:
			record.GamesLost++
		}
		if g.Score(other) == 0 {
			record.EggsDealt++
		}
		if g.Score(side) == 0 {
			record.EggsCollected++
		}

		opponentRating, ok := teamRatingAt(g.Team(other), g.DatePlayed, histories)
		if !ok {
			log.Warn("Opponent has no rating history, leaving game out of opponent strength",
				"playerID", playerID, "gameID", g.ID)
			continue
		}
		opponentSamples++
		if opponentSamples == 1 || opponentRating > record.HighestOpponentRating {
			record.HighestOpponentRating = opponentRating
		}
		opponentTotal += opponentRating
	}

	if record.GamesPlayed > 0 {
		record.WinPercentage = float64(record.GamesWon) / float64(record.GamesPlayed) * 100
	}
	if opponentSamples > 0 {
		record.AverageOpponentRating = opponentTotal / float64(opponentSamples)
	}
	return record, nil
}

// teamRatingAt rates a team as of date. It reports false when either slot has
// no rating history.
func teamRatingAt(team [2]ladder.PlayerRef, date time.Time, histories map[string]rating.History) (float64, bool) {
	if histories[team[0].ID].Len() == 0 || histories[team[1].ID].Len() == 0 {
		return 0, false
	}
	return rating.TeamRating(histories[team[0].ID].At(date), histories[team[1].ID].At(date)), true
}
