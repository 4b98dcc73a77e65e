package processor

import (
	"errors"
	"sync"
	"time"

	"github.com/mauv0809/foosball-elo/internal/config"
	"github.com/mauv0809/foosball-elo/internal/ladder"
	"github.com/mauv0809/foosball-elo/internal/metrics"
	"github.com/mauv0809/foosball-elo/internal/pubsub"
)

// ErrBatchInProgress is returned when a batch update is requested while
// another one is still running.
var ErrBatchInProgress = errors.New("batch update already in progress")

// Processor owns the rating engine: single game previews, game submission and
// the batch update cycle.
type Processor struct {
	store    Store
	pubsub   pubsub.PubSubClient
	notifier Notifier
	metrics  metrics.Metrics
	cfg      config.RatingConfig
	now      func() time.Time

	// running serialises batch updates.
	running sync.Mutex
}

// State is a phase of the batch update cycle.
type State string

const (
	StateIdle           State = "idle"
	StateCollecting     State = "collecting"
	StateAggregating    State = "aggregating"
	StateInactivityPass State = "inactivity_pass"
	StateClamping       State = "clamping"
	StateCommitting     State = "committing"
)

// Delta is a player's accumulated change in one cycle. Played is false for a
// player who appeared in no collected game, which is not the same as having
// played and netted zero.
type Delta struct {
	Value  int
	Played bool
}

// RatingChange describes what a cycle did to one player.
type RatingChange struct {
	PlayerID    string `json:"player_id" msgpack:"player_id"`
	Name        string `json:"name" msgpack:"name"`
	Before      int    `json:"before" msgpack:"before"`
	After       int    `json:"after" msgpack:"after"`
	GamesPlayed int    `json:"games_played" msgpack:"games_played"`
	Active      bool   `json:"active" msgpack:"active"`
	Repaired    bool   `json:"repaired,omitempty" msgpack:"repaired"`
}

// Diff returns the committed change in rating.
func (c RatingChange) Diff() int {
	return c.After - c.Before
}

// UpdateSummary is the result of one batch update.
type UpdateSummary struct {
	Date            time.Time      `json:"date" msgpack:"date"`
	GamesConsumed   int            `json:"games_consumed" msgpack:"games_consumed"`
	PlayersUpdated  int            `json:"players_updated" msgpack:"players_updated"`
	ActivePlayers   int            `json:"active_players" msgpack:"active_players"`
	InactivePlayers int            `json:"inactive_players" msgpack:"inactive_players"`
	RepairedPlayers int            `json:"repaired_players" msgpack:"repaired_players"`
	Changes         []RatingChange `json:"changes" msgpack:"changes"`
	DryRun          bool           `json:"dry_run" msgpack:"dry_run"`
	Duration        time.Duration  `json:"duration" msgpack:"duration"`
}

// GamePreview is the rating outcome of a single game computed from the
// players' current ratings.
type GamePreview struct {
	Game          ladder.Game `json:"game"`
	Team1Rating   float64     `json:"team_1_rating"`
	Team2Rating   float64     `json:"team_2_rating"`
	Team1Expected float64     `json:"team_1_expected"`
	Team1Diff     float64     `json:"team_1_diff"`
	Team2Diff     float64     `json:"team_2_diff"`
	Team1Share    int         `json:"team_1_share"`
	Team2Share    int         `json:"team_2_share"`
}

// batch holds the working state of one cycle. It never outlives the call to
// RunBatchUpdate.
type batch struct {
	date       time.Time
	state      *ladder.BatchState
	current    map[string]int
	repaired   map[string]bool
	deltas     map[string]Delta
	played     map[string]int
	newRatings map[string]int
	gameIDs    []string
}
