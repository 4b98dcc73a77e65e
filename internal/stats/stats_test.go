package stats_test

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/mauv0809/foosball-elo/internal/ladder"
	"github.com/mauv0809/foosball-elo/internal/rating"
	"github.com/mauv0809/foosball-elo/internal/stats"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(s string) time.Time {
	d, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}
	return d
}

func ref(id string) ladder.PlayerRef {
	return ladder.PlayerRef{ID: id, Name: id}
}

func snapshots(pairs ...any) rating.History {
	var h rating.History
	for i := 0; i < len(pairs); i += 2 {
		h = append(h, rating.Snapshot{Timestamp: day(pairs[i].(string)), Rating: pairs[i+1].(int)})
	}
	return h
}

func newMockStore(games []ladder.Game, histories map[string]rating.History) *ladder.MockStore {
	store := ladder.NewMock()
	store.GetPlayerFunc = func(ctx context.Context, playerID string) (*ladder.Player, error) {
		if _, ok := histories[playerID]; !ok {
			return nil, ladder.ErrPlayerNotFound
		}
		return &ladder.Player{ID: playerID, Name: playerID}, nil
	}
	store.GetGamesForPlayerFunc = func(ctx context.Context, playerID string) ([]ladder.Game, error) {
		var out []ladder.Game
		for _, g := range games {
			if g.SideOf(playerID) != 0 {
				out = append(out, g)
			}
		}
		return out, nil
	}
	store.GetRatingHistoryFunc = func(ctx context.Context, playerID string) (rating.History, error) {
		return histories[playerID], nil
	}
	store.GetRatingHistoriesFunc = func(ctx context.Context, playerIDs []string) (map[string]rating.History, error) {
		out := make(map[string]rating.History)
		for _, id := range playerIDs {
			out[id] = histories[id]
		}
		return out, nil
	}
	return store
}

func TestPlayerStatistics(t *testing.T) {
	histories := map[string]rating.History{
		"alice": snapshots("2024-01-01", 400, "2024-02-01", 420, "2024-03-01", 430),
		"bob":   snapshots("2024-01-01", 400),
		"carol": snapshots("2024-01-01", 400, "2024-02-01", 440, "2024-03-01", 300),
		"dave":  snapshots("2024-01-01", 400, "2024-02-01", 360, "2024-03-01", 500),
		"erin":  snapshots(),
	}
	games := []ladder.Game{
		{
			ID: "g1", Team1Defense: ref("alice"), Team1Attack: ref("bob"), Team2Defense: ref("carol"), Team2Attack: ref("dave"),
			Team1Score: 10, Team2Score: 0, DatePlayed: day("2024-01-15"),
		},
		{
			ID: "g2", Team1Defense: ref("carol"), Team1Attack: ref("dave"), Team2Defense: ref("alice"), Team2Attack: ref("alice"),
			Team1Score: 10, Team2Score: 0, DatePlayed: day("2024-02-15"),
		},
		{
			ID: "g3", Team1Defense: ref("bob"), Team1Attack: ref("carol"), Team2Defense: ref("dave"), Team2Attack: ref("erin"),
			Team1Score: 10, Team2Score: 3, DatePlayed: day("2024-02-15"),
		},
	}
	agg := stats.New(newMockStore(games, histories))

	record, err := agg.PlayerStatistics(context.Background(), "alice")
	require.NoError(t, err)

	assert.Equal(t, 430, record.CurrentRating)
	assert.Equal(t, 2, record.GamesPlayed, "solo game counts once")
	assert.Equal(t, 1, record.GamesWon)
	assert.Equal(t, 1, record.GamesLost)
	assert.InDelta(t, 50.0, record.WinPercentage, 1e-9)
	assert.Equal(t, 1, record.EggsDealt)
	assert.Equal(t, 1, record.EggsCollected)
	// g1 opponents on 2024-01-15: (400+400)/2; g2 on 2024-02-15: (440+360)/2.
	assert.InDelta(t, 400.0, record.HighestOpponentRating, 1e-9)
	assert.InDelta(t, 400.0, record.AverageOpponentRating, 1e-9)
}

func TestPlayerStatistics_UsesHistoricalOpponentRatings(t *testing.T) {
	histories := map[string]rating.History{
		"alice": snapshots("2024-01-01", 400),
		"bob":   snapshots("2024-01-01", 400),
		"carol": snapshots("2024-01-01", 400, "2024-02-01", 500, "2024-06-01", 100),
		"dave":  snapshots("2024-01-01", 400, "2024-02-01", 500, "2024-06-01", 100),
	}
	games := []ladder.Game{{
		ID: "g1", Team1Defense: ref("alice"), Team1Attack: ref("bob"), Team2Defense: ref("carol"), Team2Attack: ref("dave"),
		Team1Score: 4, Team2Score: 10, DatePlayed: day("2024-03-01"),
	}}
	agg := stats.New(newMockStore(games, histories))

	record, err := agg.PlayerStatistics(context.Background(), "bob")
	require.NoError(t, err)
	assert.InDelta(t, 500.0, record.HighestOpponentRating, 1e-9, "opponents are rated as of the game date, not today")
	assert.Equal(t, 0, record.EggsCollected)
	assert.Equal(t, 1, record.GamesLost)
}

func TestPlayerStatistics_SkipsOpponentWithoutHistory(t *testing.T) {
	histories := map[string]rating.History{
		"alice": snapshots("2024-01-01", 400),
		"bob":   snapshots("2024-01-01", 400),
		"carol": snapshots("2024-01-01", 600),
		"dave":  snapshots("2024-01-01", 600),
		"erin":  nil,
	}
	games := []ladder.Game{
		{
			ID: "g1", Team1Defense: ref("alice"), Team1Attack: ref("bob"), Team2Defense: ref("carol"), Team2Attack: ref("dave"),
			Team1Score: 10, Team2Score: 7, DatePlayed: day("2024-02-01"),
		},
		{
			ID: "g2", Team1Defense: ref("alice"), Team1Attack: ref("bob"), Team2Defense: ref("carol"), Team2Attack: ref("erin"),
			Team1Score: 2, Team2Score: 10, DatePlayed: day("2024-02-02"),
		},
	}
	agg := stats.New(newMockStore(games, histories))

	record, err := agg.PlayerStatistics(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, 2, record.GamesPlayed)
	assert.Equal(t, 1, record.GamesWon)
	assert.Equal(t, 1, record.GamesLost)
	assert.InDelta(t, 600.0, record.AverageOpponentRating, 1e-9, "unrated opponent is not averaged in as zero")
	assert.InDelta(t, 600.0, record.HighestOpponentRating, 1e-9)
}

func TestPlayerStatistics_NoGames(t *testing.T) {
	histories := map[string]rating.History{"alice": snapshots("2024-01-01", 400)}
	agg := stats.New(newMockStore(nil, histories))

	record, err := agg.PlayerStatistics(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, 0, record.GamesPlayed)
	assert.Zero(t, record.WinPercentage)
	assert.Equal(t, 400, record.CurrentRating)
}

func TestPlayerStatistics_Errors(t *testing.T) {
	histories := map[string]rating.History{"erin": nil}
	agg := stats.New(newMockStore(nil, histories))

	_, err := agg.PlayerStatistics(context.Background(), "erin")
	assert.ErrorIs(t, err, stats.ErrNoRatingHistory)

	_, err = agg.PlayerStatistics(context.Background(), "nobody")
	assert.ErrorIs(t, err, ladder.ErrPlayerNotFound)
}

func TestRatingAt(t *testing.T) {
	histories := map[string]rating.History{
		"alice": snapshots("2024-01-01", 400, "2024-02-01", 420, "2024-03-01", 430),
		"erin":  nil,
	}
	agg := stats.New(newMockStore(nil, histories))
	ctx := context.Background()

	current, err := agg.RatingAt(ctx, "alice", nil)
	require.NoError(t, err)
	assert.Equal(t, 430, current)

	tests := []struct {
		date string
		want int
	}{
		{"2023-12-01", 400},
		{"2024-01-01", 400},
		{"2024-02-01", 400},
		{"2024-02-02", 420},
		{"2024-12-31", 430},
	}
	for _, tt := range tests {
		t.Run(tt.date, func(t *testing.T) {
			d := day(tt.date)
			got, err := agg.RatingAt(ctx, "alice", &d)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err = agg.RatingAt(ctx, "erin", nil)
	assert.ErrorIs(t, err, stats.ErrNoRatingHistory)

	_, err = agg.RatingAt(ctx, "nobody", nil)
	assert.ErrorIs(t, err, ladder.ErrPlayerNotFound)
}

func TestRateGames(t *testing.T) {
	histories := map[string]rating.History{
		"alice": snapshots("2024-01-01", 400),
		"bob":   snapshots("2024-01-01", 400),
		"carol": snapshots("2024-01-01", 400, "2024-02-01", 500, "2024-06-01", 100),
		"dave":  snapshots("2024-01-01", 400, "2024-02-01", 500, "2024-06-01", 100),
	}
	games := []ladder.Game{
		{
			ID: "even", Team1Defense: ref("alice"), Team1Attack: ref("bob"), Team2Defense: ref("carol"), Team2Attack: ref("dave"),
			Team1Score: 10, Team2Score: 2, DatePlayed: day("2024-01-20"),
		},
		{
			ID: "upset", Team1Defense: ref("alice"), Team1Attack: ref("bob"), Team2Defense: ref("carol"), Team2Attack: ref("dave"),
			Team1Score: 4, Team2Score: 10, DatePlayed: day("2024-03-01"),
		},
	}
	agg := stats.New(newMockStore(games, histories))

	rated, err := agg.RateGames(context.Background(), games, rating.DefaultParams())
	require.NoError(t, err)
	require.Len(t, rated, 2)

	assert.Equal(t, "even", rated[0].ID)
	assert.InDelta(t, 32.0, rated[0].RatingDiff, 1e-9)

	// Team 2 was the 500 favourite on the day and won, so the swing is small.
	want := 64 * (1 - 1/(1+math.Pow(10, -100.0/400)))
	assert.InDelta(t, want, rated[1].RatingDiff, 1e-9)
	assert.Less(t, rated[1].RatingDiff, 32.0)
}

func TestRateGames_PlayerWithoutHistory(t *testing.T) {
	histories := map[string]rating.History{
		"alice": snapshots("2024-01-01", 400),
		"bob":   snapshots("2024-01-01", 400),
		"carol": snapshots("2024-01-01", 400),
	}
	games := []ladder.Game{{
		ID: "g1", Team1Defense: ref("alice"), Team1Attack: ref("bob"), Team2Defense: ref("carol"), Team2Attack: ref("erin"),
		Team1Score: 10, Team2Score: 5, DatePlayed: day("2024-02-01"),
	}}
	agg := stats.New(newMockStore(games, histories))

	rated, err := agg.RateGames(context.Background(), games, rating.DefaultParams())
	require.NoError(t, err)
	require.Len(t, rated, 1)
	assert.Zero(t, rated[0].RatingDiff)
}

func TestRateGames_Empty(t *testing.T) {
	agg := stats.New(newMockStore(nil, nil))
	rated, err := agg.RateGames(context.Background(), nil, rating.DefaultParams())
	require.NoError(t, err)
	assert.Empty(t, rated)
}
