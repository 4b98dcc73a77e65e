package processor

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/foosball-elo/internal/ladder"
	"github.com/mauv0809/foosball-elo/internal/rating"
)

// PreviewGame validates a proposed game and computes the rating change it
// would cause right now. Slots only need a player ID; names are filled in from
// the store.
func (p *Processor) PreviewGame(ctx context.Context, game ladder.Game) (*GamePreview, error) {
	resolved, err := p.resolvePlayers(ctx, game)
	if err != nil {
		return nil, err
	}

	if err := ladder.ValidateGame(resolved, p.now()); err != nil {
		p.metrics.IncValidationFailures()
		log.Info("Rejected game", "reason", err)
		return nil, err
	}
	resolved.DatePlayed = rating.Day(resolved.DatePlayed)

	ids := make([]string, 0, 4)
	for _, slot := range resolved.Slots() {
		ids = append(ids, slot.ID)
	}
	histories, err := p.store.GetRatingHistories(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load rating histories: %w", err)
	}

	var ratings [4]int
	for i, id := range ids {
		h := histories[id]
		if h.Len() == 0 {
			return nil, fmt.Errorf("%w: player %s", rating.ErrNoHistory, id)
		}
		ratings[i] = h.Current()
	}

	preview := &GamePreview{
		Game:        resolved,
		Team1Rating: rating.TeamRating(ratings[0], ratings[1]),
		Team2Rating: rating.TeamRating(ratings[2], ratings[3]),
	}
	preview.Team1Expected = rating.ExpectedOutcome(preview.Team1Rating, preview.Team2Rating, p.cfg.Scale)
	preview.Team1Diff, preview.Team2Diff = rating.Diffs(resolved.Winner() == 1, preview.Team1Rating, preview.Team2Rating, p.cfg.Params())
	preview.Team1Share = rating.HalfShare(preview.Team1Diff)
	preview.Team2Share = rating.HalfShare(preview.Team2Diff)
	return preview, nil
}

// SubmitGame validates and stores a game. It is only rated by the next batch
// update.
func (p *Processor) SubmitGame(ctx context.Context, game ladder.Game, dryRun bool) (*GamePreview, error) {
	preview, err := p.PreviewGame(ctx, game)
	if err != nil {
		return nil, err
	}
	if dryRun {
		log.Info("[Dry Run] Would have recorded game", "team1Score", game.Team1Score, "team2Score", game.Team2Score)
		return preview, nil
	}

	if err := p.store.CreateGame(ctx, &preview.Game); err != nil {
		return nil, err
	}
	p.metrics.IncGamesSubmitted()
	log.Info("Recorded game", "gameID", preview.Game.ID, "date", preview.Game.DatePlayed.Format("2006-01-02"),
		"team1Score", preview.Game.Team1Score, "team2Score", preview.Game.Team2Score)
	return preview, nil
}

func (p *Processor) resolvePlayers(ctx context.Context, game ladder.Game) (ladder.Game, error) {
	slots := []*ladder.PlayerRef{&game.Team1Defense, &game.Team1Attack, &game.Team2Defense, &game.Team2Attack}
	for _, slot := range slots {
		if slot.ID == "" {
			p.metrics.IncValidationFailures()
			return game, ladder.ErrIncompleteGame
		}
		player, err := p.store.GetPlayer(ctx, slot.ID)
		if err != nil {
			return game, fmt.Errorf("player %s: %w", slot.ID, err)
		}
		slot.Name = player.Name
	}
	return game, nil
}
