package ladder

import (
	"errors"
	"fmt"
	"time"

	"github.com/mauv0809/foosball-elo/internal/rating"
)

// ErrInvalidGame matches every validation error returned by ValidateGame.
var ErrInvalidGame = errors.New("invalid game")

// ErrIncompleteGame is returned when a slot has no player.
var ErrIncompleteGame = fmt.Errorf("%w: please fill out all fields", ErrInvalidGame)

// IndecisiveScoreError reports a score pair without exactly one team on ten.
type IndecisiveScoreError struct {
	Team1Score int
	Team2Score int
}

func (e *IndecisiveScoreError) Error() string {
	return fmt.Sprintf("indecisive scores: (%d, %d)", e.Team1Score, e.Team2Score)
}

func (e *IndecisiveScoreError) Is(target error) bool { return target == ErrInvalidGame }

// PlayerOnBothTeamsError reports a player found in both teams.
type PlayerOnBothTeamsError struct {
	PlayerName string
}

func (e *PlayerOnBothTeamsError) Error() string {
	return fmt.Sprintf("invalid teams: %s plays on both teams", e.PlayerName)
}

func (e *PlayerOnBothTeamsError) Is(target error) bool { return target == ErrInvalidGame }

// FutureDateError reports a game dated after the day it was submitted.
type FutureDateError struct {
	DatePlayed time.Time
}

func (e *FutureDateError) Error() string {
	return "game cannot be in the future"
}

func (e *FutureDateError) Is(target error) bool { return target == ErrInvalidGame }

// IsDecisive reports whether exactly one team reached ten while the other
// stayed between zero and nine.
func IsDecisive(team1Score, team2Score int) bool {
	return (team1Score == 10 && team2Score >= 0 && team2Score < 10) ||
		(team2Score == 10 && team1Score >= 0 && team1Score < 10)
}

// ValidateGame checks a proposed game before it is stored. Rules are applied
// in order: decisive score, team integrity, then date.
func ValidateGame(g Game, today time.Time) error {
	for _, slot := range g.Slots() {
		if slot.ID == "" {
			return ErrIncompleteGame
		}
	}

	if !IsDecisive(g.Team1Score, g.Team2Score) {
		return &IndecisiveScoreError{Team1Score: g.Team1Score, Team2Score: g.Team2Score}
	}

	for _, p := range g.Team(1) {
		for _, o := range g.Team(2) {
			if p.ID == o.ID {
				return &PlayerOnBothTeamsError{PlayerName: p.Name}
			}
		}
	}

	if rating.Day(g.DatePlayed).After(rating.Day(today)) {
		return &FutureDateError{DatePlayed: g.DatePlayed}
	}
	return nil
}
