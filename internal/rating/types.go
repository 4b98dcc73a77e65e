package rating

import (
	"errors"
	"time"
)

// ErrNoHistory is returned when a player has no rating snapshots at all.
var ErrNoHistory = errors.New("no rating history")

// ErrSnapshotOutOfOrder is returned when a snapshot is dated before the latest one.
var ErrSnapshotOutOfOrder = errors.New("snapshot out of order")

const (
	// NoRating is returned when a player has no rating history at all.
	NoRating = 0
	// InitialRating is given to every newly registered player.
	InitialRating = 400
	// Floor is the lowest rating a batch update can commit.
	Floor = 100
	// MaxInactivityPenalty bounds how many points an inactive player can lose in one cycle.
	MaxInactivityPenalty = 25

	DefaultScale        = 400.0
	DefaultAdaptionStep = 64.0
)

// Params controls the Elo computation.
type Params struct {
	// AdaptionStep is the K-factor applied to a whole team.
	AdaptionStep float64
	// Scale is the logistic spread, 400 in classic Elo.
	Scale float64
}

// DefaultParams returns the production parameters.
func DefaultParams() Params {
	return Params{
		AdaptionStep: DefaultAdaptionStep,
		Scale:        DefaultScale,
	}
}

// Snapshot is one dated entry in a player's rating history.
type Snapshot struct {
	Timestamp time.Time `json:"timestamp"`
	Rating    int       `json:"rating"`
}

// History is a player's rating snapshots ordered ascending by timestamp.
// Entries sharing a timestamp keep their insertion order.
type History []Snapshot

// Day truncates t to its calendar date in UTC.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
