package processor

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/foosball-elo/internal/config"
	"github.com/mauv0809/foosball-elo/internal/ladder"
	"github.com/mauv0809/foosball-elo/internal/metrics"
	"github.com/mauv0809/foosball-elo/internal/pubsub"
	"github.com/mauv0809/foosball-elo/internal/rating"
)

const leaderboardNotifyLimit = 10

// New creates a new Processor.
func New(store Store, notifier Notifier, metrics metrics.Metrics, pubsub pubsub.PubSubClient, cfg config.RatingConfig) *Processor {
	if cfg.Initial == 0 {
		cfg.Initial = rating.InitialRating
	}
	return &Processor{
		store:    store,
		pubsub:   pubsub,
		notifier: notifier,
		metrics:  metrics,
		cfg:      cfg,
		now:      time.Now,
	}
}

// SetClock replaces the clock used to date games and snapshots.
func (p *Processor) SetClock(now func() time.Time) {
	p.now = now
}

// RunBatchUpdate folds every unconsumed game into the ratings. Only one run can
// be in flight; a concurrent call returns ErrBatchInProgress without doing any
// work. With dryRun the new ratings are computed and reported but not stored.
func (p *Processor) RunBatchUpdate(ctx context.Context, dryRun bool) (*UpdateSummary, error) {
	if !p.running.TryLock() {
		p.metrics.IncBatchRejected()
		log.Warn("Batch update rejected, another run is in progress")
		return nil, ErrBatchInProgress
	}
	defer p.running.Unlock()

	log.Info("Starting batch rating update...", "dryRun", dryRun)
	p.metrics.IncBatchRuns()
	startTime := time.Now()

	b := &batch{date: rating.Day(p.now())}
	state := StateCollecting
	for state != StateIdle {
		next, err := p.step(ctx, state, b, dryRun)
		if err != nil {
			p.metrics.IncBatchFailed()
			log.Error("Batch update failed, nothing was committed", "state", state, "error", err)
			return nil, fmt.Errorf("batch update failed while %s: %w", state, err)
		}
		log.Debug("Batch state transition", "from", state, "to", next)
		state = next
	}

	summary := b.summary(dryRun)
	summary.Duration = time.Since(startTime)
	p.metrics.ObserveBatchDuration(summary.Duration.Seconds())
	log.Info("Batch rating update finished.", "games", summary.GamesConsumed, "players", summary.PlayersUpdated,
		"active", summary.ActivePlayers, "inactive", summary.InactivePlayers, "dryRun", dryRun, "duration", summary.Duration)

	if !dryRun {
		p.metrics.AddGamesConsumed(summary.GamesConsumed)
		if err := p.pubsub.SendMessage(ctx, pubsub.EventRatingsUpdated, summary); err != nil {
			log.Error("Failed to publish ratings updated event", "error", err)
		}
	}
	if err := p.notifier.SendRatingUpdate(summary, dryRun); err != nil {
		log.Error("Failed to send rating update notification", "error", err)
	}
	if !dryRun {
		p.sendLeaderboard(ctx)
	}
	return summary, nil
}

// sendLeaderboard posts the top of the freshly committed ladder.
func (p *Processor) sendLeaderboard(ctx context.Context) {
	players, err := p.store.GetLeaderboard(ctx, leaderboardNotifyLimit)
	if err != nil {
		log.Error("Failed to load leaderboard for notification", "error", err)
		return
	}
	if err := p.notifier.SendLeaderboard(players, false); err != nil {
		log.Error("Failed to send leaderboard notification", "error", err)
	}
}

func (p *Processor) step(ctx context.Context, state State, b *batch, dryRun bool) (State, error) {
	switch state {
	case StateCollecting:
		if err := p.collect(ctx, b); err != nil {
			return state, err
		}
		return StateAggregating, nil

	case StateAggregating:
		if err := p.aggregate(b); err != nil {
			return state, err
		}
		if p.cfg.InactivityPenalty {
			return StateInactivityPass, nil
		}
		log.Debug("Inactivity penalty disabled, skipping pass")
		return StateClamping, nil

	case StateInactivityPass:
		applyInactivityPenalty(b)
		return StateClamping, nil

	case StateClamping:
		clamp(b)
		if dryRun {
			log.Info("[Dry Run] Skipping commit", "games", len(b.gameIDs), "players", len(b.newRatings))
			return StateIdle, nil
		}
		return StateCommitting, nil

	case StateCommitting:
		if err := p.commit(ctx, b); err != nil {
			return state, err
		}
		return StateIdle, nil
	}
	return state, fmt.Errorf("unknown batch state %q", state)
}

// collect freezes the ladder for the rest of the cycle.
func (p *Processor) collect(ctx context.Context, b *batch) error {
	state, err := p.store.LoadBatchState(ctx)
	if err != nil {
		return err
	}
	b.state = state
	b.current = make(map[string]int, len(state.Players))
	b.repaired = make(map[string]bool)

	for _, pl := range state.Players {
		history := state.Histories[pl.ID]
		if history.Len() == 0 {
			log.Warn("Player has no rating history, treating as initial rating", "playerID", pl.ID, "name", pl.Name, "rating", p.cfg.Initial)
			b.current[pl.ID] = p.cfg.Initial
			b.repaired[pl.ID] = true
			continue
		}
		b.current[pl.ID] = history.Current()
	}
	log.Info("Collected batch state", "games", len(state.Games), "players", len(state.Players))
	return nil
}

// aggregate accumulates each slot's half-share of its team diff. A player
// holding both slots of a team receives the share twice.
func (p *Processor) aggregate(b *batch) error {
	b.deltas = make(map[string]Delta)
	b.played = make(map[string]int)
	params := p.cfg.Params()

	for _, game := range b.state.Games {
		b.gameIDs = append(b.gameIDs, game.ID)

		winner := game.Winner()
		if winner == 0 {
			log.Warn("Skipping indecisive game, it will be consumed without effect", "gameID", game.ID,
				"team1Score", game.Team1Score, "team2Score", game.Team2Score)
			continue
		}

		var ratings [4]int
		for i, slot := range game.Slots() {
			r, ok := b.current[slot.ID]
			if !ok {
				return fmt.Errorf("game %s references unknown player %s", game.ID, slot.ID)
			}
			ratings[i] = r
		}

		team1 := rating.TeamRating(ratings[0], ratings[1])
		team2 := rating.TeamRating(ratings[2], ratings[3])
		diff1, diff2 := rating.Diffs(winner == 1, team1, team2, params)
		shares := [2]int{rating.HalfShare(diff1), rating.HalfShare(diff2)}

		seen := make(map[string]bool, 4)
		for team := 1; team <= 2; team++ {
			for _, slot := range game.Team(team) {
				d := b.deltas[slot.ID]
				d.Value += shares[team-1]
				d.Played = true
				b.deltas[slot.ID] = d
				if !seen[slot.ID] {
					seen[slot.ID] = true
					b.played[slot.ID]++
				}
			}
		}
		log.Debug("Aggregated game", "gameID", game.ID, "team1Rating", team1, "team2Rating", team2, "team1Share", shares[0], "team2Share", shares[1])
	}
	return nil
}

// ranked returns the players ordered by current rating, highest first, with
// ties broken by name.
func (b *batch) ranked() []ladder.Player {
	players := make([]ladder.Player, len(b.state.Players))
	copy(players, b.state.Players)
	sort.SliceStable(players, func(i, j int) bool {
		ri, rj := b.current[players[i].ID], b.current[players[j].ID]
		if ri != rj {
			return ri > rj
		}
		return players[i].Name < players[j].Name
	})
	return players
}

// applyInactivityPenalty moves up to MaxInactivityPenalty points from every
// inactive player to the active players ranked below them, one point each.
func applyInactivityPenalty(b *batch) {
	ranked := b.ranked()
	penalties := make(map[string]int)

	for i, pl := range ranked {
		if b.deltas[pl.ID].Played {
			continue
		}
		penalty := 0
		for _, below := range ranked[i+1:] {
			if penalty <= -rating.MaxInactivityPenalty {
				break
			}
			d, ok := b.deltas[below.ID]
			if !ok || !d.Played {
				continue
			}
			d.Value++
			b.deltas[below.ID] = d
			penalty--
		}
		penalties[pl.ID] = penalty
	}

	for id, penalty := range penalties {
		b.deltas[id] = Delta{Value: penalty}
		if penalty != 0 {
			log.Debug("Applied inactivity penalty", "playerID", id, "penalty", penalty)
		}
	}
}

func clamp(b *batch) {
	b.newRatings = make(map[string]int, len(b.current))
	for _, pl := range b.state.Players {
		b.newRatings[pl.ID] = max(rating.Floor, b.current[pl.ID]+b.deltas[pl.ID].Value)
	}
}

func (p *Processor) commit(ctx context.Context, b *batch) error {
	updates := make([]ladder.RatingUpdate, 0, len(b.state.Players))
	for _, pl := range b.state.Players {
		updates = append(updates, ladder.RatingUpdate{PlayerID: pl.ID, Rating: b.newRatings[pl.ID]})
	}
	if err := p.store.CommitRatingUpdate(ctx, b.date, updates, b.gameIDs); err != nil {
		return err
	}
	log.Info("Committed rating update", "date", b.date.Format(time.DateOnly), "snapshots", len(updates), "games", len(b.gameIDs))
	return nil
}

func (b *batch) summary(dryRun bool) *UpdateSummary {
	s := &UpdateSummary{
		Date:           b.date,
		GamesConsumed:  len(b.gameIDs),
		PlayersUpdated: len(b.state.Players),
		DryRun:         dryRun,
		Changes:        make([]RatingChange, 0, len(b.state.Players)),
	}
	for _, pl := range b.state.Players {
		active := b.deltas[pl.ID].Played
		if active {
			s.ActivePlayers++
		} else {
			s.InactivePlayers++
		}
		if b.repaired[pl.ID] {
			s.RepairedPlayers++
		}
		s.Changes = append(s.Changes, RatingChange{
			PlayerID:    pl.ID,
			Name:        pl.Name,
			Before:      b.current[pl.ID],
			After:       b.newRatings[pl.ID],
			GamesPlayed: b.played[pl.ID],
			Active:      active,
			Repaired:    b.repaired[pl.ID],
		})
	}
	sort.SliceStable(s.Changes, func(i, j int) bool {
		if s.Changes[i].After != s.Changes[j].After {
			return s.Changes[i].After > s.Changes[j].After
		}
		return s.Changes[i].Name < s.Changes[j].Name
	})
	return s
}
