package ladder_test

import (
	"errors"
	"testing"
	"time"

	"github.com/mauv0809/foosball-elo/internal/ladder"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	alice = ladder.PlayerRef{ID: "a", Name: "alice"}
	bob   = ladder.PlayerRef{ID: "b", Name: "bob"}
	carol = ladder.PlayerRef{ID: "c", Name: "carol"}
	dave  = ladder.PlayerRef{ID: "d", Name: "dave"}
)

var today = time.Date(2024, 3, 10, 15, 30, 0, 0, time.UTC)

func newGame(s1, s2 int) ladder.Game {
	return ladder.Game{
		Team1Defense: alice,
		Team1Attack:  bob,
		Team2Defense: carol,
		Team2Attack:  dave,
		Team1Score:   s1,
		Team2Score:   s2,
		DatePlayed:   today,
	}
}

func TestValidateGame_DecisiveScores(t *testing.T) {
	for x := 0; x < 10; x++ {
		assert.NoError(t, ladder.ValidateGame(newGame(10, x), today), "10-%d should be valid", x)
		assert.NoError(t, ladder.ValidateGame(newGame(x, 10), today), "%d-10 should be valid", x)
	}
}

func TestValidateGame_IndecisiveScores(t *testing.T) {
	cases := [][2]int{{10, 10}, {5, 5}, {9, 8}, {11, 3}, {0, 0}, {10, -1}}
	for _, c := range cases {
		err := ladder.ValidateGame(newGame(c[0], c[1]), today)
		require.Error(t, err)

		var indecisive *ladder.IndecisiveScoreError
		require.True(t, errors.As(err, &indecisive), "expected IndecisiveScoreError for %v", c)
		assert.Equal(t, c[0], indecisive.Team1Score)
		assert.Equal(t, c[1], indecisive.Team2Score)
		assert.ErrorIs(t, err, ladder.ErrInvalidGame)
	}
	assert.Equal(t, "indecisive scores: (9, 8)", ladder.ValidateGame(newGame(9, 8), today).Error())
}

func TestValidateGame_PlayerOnBothTeams(t *testing.T) {
	g := newGame(10, 4)
	g.Team2Attack = alice

	err := ladder.ValidateGame(g, today)
	var both *ladder.PlayerOnBothTeamsError
	require.True(t, errors.As(err, &both))
	assert.Equal(t, "alice", both.PlayerName)
	assert.Equal(t, "invalid teams: alice plays on both teams", err.Error())
	assert.ErrorIs(t, err, ladder.ErrInvalidGame)
}

func TestValidateGame_ReportsFirstOverlapInSlotOrder(t *testing.T) {
	g := newGame(10, 4)
	g.Team2Defense = bob
	g.Team2Attack = alice

	var both *ladder.PlayerOnBothTeamsError
	require.True(t, errors.As(ladder.ValidateGame(g, today), &both))
	assert.Equal(t, "alice", both.PlayerName)
}

func TestValidateGame_SoloTeamIsAllowed(t *testing.T) {
	g := newGame(10, 7)
	g.Team1Attack = alice

	assert.NoError(t, ladder.ValidateGame(g, today))
}

func TestValidateGame_FutureDate(t *testing.T) {
	g := newGame(10, 2)
	g.DatePlayed = today.AddDate(0, 0, 1)

	err := ladder.ValidateGame(g, today)
	var future *ladder.FutureDateError
	require.True(t, errors.As(err, &future))
	assert.Equal(t, "game cannot be in the future", err.Error())

	g.DatePlayed = time.Date(2024, 3, 10, 23, 59, 0, 0, time.UTC)
	assert.NoError(t, ladder.ValidateGame(g, today), "later on the same day is still today")
}

func TestValidateGame_RuleOrder(t *testing.T) {
	g := newGame(10, 10)
	g.Team2Attack = alice
	g.DatePlayed = today.AddDate(0, 0, 3)

	var indecisive *ladder.IndecisiveScoreError
	assert.True(t, errors.As(ladder.ValidateGame(g, today), &indecisive), "score is checked first")

	g.Team2Score = 3
	var both *ladder.PlayerOnBothTeamsError
	assert.True(t, errors.As(ladder.ValidateGame(g, today), &both), "teams are checked before the date")
}

func TestValidateGame_MissingSlot(t *testing.T) {
	g := newGame(10, 3)
	g.Team2Defense = ladder.PlayerRef{}

	err := ladder.ValidateGame(g, today)
	assert.ErrorIs(t, err, ladder.ErrIncompleteGame)
	assert.ErrorIs(t, err, ladder.ErrInvalidGame)
}

func TestGameWinner(t *testing.T) {
	assert.Equal(t, 1, newGame(10, 5).Winner())
	assert.Equal(t, 2, newGame(3, 10).Winner())
	assert.Equal(t, 0, newGame(10, 10).Winner())
	assert.Equal(t, 0, newGame(7, 8).Winner())
	assert.Equal(t, 0, newGame(10, -1).Winner(), "negative score is never decisive")
	assert.Equal(t, 0, newGame(-3, 10).Winner())
	assert.Equal(t, 0, newGame(11, 9).Winner())

	for s1 := -1; s1 <= 11; s1++ {
		for s2 := -1; s2 <= 11; s2++ {
			assert.Equal(t, ladder.IsDecisive(s1, s2), newGame(s1, s2).Winner() != 0, "score %d-%d", s1, s2)
		}
	}
}

func TestGameSideOf(t *testing.T) {
	g := newGame(10, 5)
	assert.Equal(t, 1, g.SideOf("a"))
	assert.Equal(t, 1, g.SideOf("b"))
	assert.Equal(t, 2, g.SideOf("c"))
	assert.Equal(t, 2, g.SideOf("d"))
	assert.Equal(t, 0, g.SideOf("zed"))
	assert.Equal(t, 2, ladder.Opponent(1))
}
