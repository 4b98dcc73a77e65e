package ladder

import (
	"fmt"
	"time"
)

func (r playerRow) toPlayer() Player {
	return Player{
		ID:        r.ID,
		Name:      r.Name,
		CreatedAt: time.Unix(r.CreatedAt, 0).UTC(),
	}
}

func (r gameRow) toGame() (Game, error) {
	played, err := time.Parse(time.DateOnly, r.DatePlayed)
	if err != nil {
		return Game{}, fmt.Errorf("bad date_played %q: %w", r.DatePlayed, err)
	}
	game := Game{
		ID:           r.ID,
		Team1Defense: PlayerRef{ID: r.Team1Defense, Name: r.Team1DefenseName},
		Team1Attack:  PlayerRef{ID: r.Team1Attack, Name: r.Team1AttackName},
		Team2Defense: PlayerRef{ID: r.Team2Defense, Name: r.Team2DefenseName},
		Team2Attack:  PlayerRef{ID: r.Team2Attack, Name: r.Team2AttackName},
		Team1Score:   r.Team1Score,
		Team2Score:   r.Team2Score,
		DatePlayed:   played,
		Consumed:     r.Consumed,
		CreatedAt:    time.Unix(r.CreatedAt, 0).UTC(),
	}
	return game, nil
}
