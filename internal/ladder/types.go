package ladder

import (
	"sync"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/mauv0809/foosball-elo/internal/rating"
)

// store handles all database operations for the ladder.
type store struct {
	db *sqlx.DB
	mu sync.RWMutex
}

// Player is a registered competitor. Players are never deleted.
type Player struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// RankedPlayer is a player together with their current rating.
type RankedPlayer struct {
	Player
	Rating int `json:"rating"`
}

// PlayerRef identifies the player occupying a slot of a game.
type PlayerRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Game is a recorded match between two teams of two slots each. One person may
// hold both slots of a team.
type Game struct {
	ID           string    `json:"id"`
	Team1Defense PlayerRef `json:"team_1_defense"`
	Team1Attack  PlayerRef `json:"team_1_attack"`
	Team2Defense PlayerRef `json:"team_2_defense"`
	Team2Attack  PlayerRef `json:"team_2_attack"`
	Team1Score   int       `json:"team_1_score"`
	Team2Score   int       `json:"team_2_score"`
	DatePlayed   time.Time `json:"date_played"`
	Consumed     bool      `json:"consumed"`
	CreatedAt    time.Time `json:"created_at"`
}

// BatchState is the frozen view of the ladder a rating update works on.
type BatchState struct {
	Games     []Game
	Players   []Player
	Histories map[string]rating.History
}

// RatingUpdate is the new rating committed for one player.
type RatingUpdate struct {
	PlayerID string
	Rating   int
}

type playerRow struct {
	ID        string `db:"id"`
	Name      string `db:"name"`
	CreatedAt int64  `db:"created_at"`
}

type rankedPlayerRow struct {
	playerRow
	Rating int `db:"rating"`
}

type gameRow struct {
	ID               string `db:"id"`
	Team1Defense     string `db:"team_1_defense"`
	Team1DefenseName string `db:"team_1_defense_name"`
	Team1Attack      string `db:"team_1_attack"`
	Team1AttackName  string `db:"team_1_attack_name"`
	Team2Defense     string `db:"team_2_defense"`
	Team2DefenseName string `db:"team_2_defense_name"`
	Team2Attack      string `db:"team_2_attack"`
	Team2AttackName  string `db:"team_2_attack_name"`
	Team1Score       int    `db:"team_1_score"`
	Team2Score       int    `db:"team_2_score"`
	DatePlayed       string `db:"date_played"`
	Consumed         bool   `db:"consumed"`
	CreatedAt        int64  `db:"created_at"`
}

type snapshotRow struct {
	PlayerID  string `db:"player_id"`
	Timestamp string `db:"timestamp"`
	Rating    int    `db:"rating"`
}
