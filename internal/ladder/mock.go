package ladder

import (
	"context"
	"sync"
	"time"

	"github.com/mauv0809/foosball-elo/internal/rating"
)

// MockStore is a mock implementation of the LadderStore interface for testing.
// It is safe for concurrent use.
type MockStore struct {
	mu sync.Mutex

	AddPlayerFunc            func(ctx context.Context, name string, initialRating int, date time.Time) (*Player, error)
	GetPlayerFunc            func(ctx context.Context, playerID string) (*Player, error)
	GetPlayerByNameFunc      func(ctx context.Context, name string) (*Player, error)
	GetLeaderboardFunc       func(ctx context.Context, limit int) ([]RankedPlayer, error)
	CreateGameFunc           func(ctx context.Context, game *Game) error
	GetGameFunc              func(ctx context.Context, gameID string) (*Game, error)
	GetRecentGamesFunc       func(ctx context.Context, limit int) ([]Game, error)
	GetUnconsumedGamesFunc   func(ctx context.Context) ([]Game, error)
	GetGamesForPlayerFunc    func(ctx context.Context, playerID string) ([]Game, error)
	GetRatingHistoryFunc     func(ctx context.Context, playerID string) (rating.History, error)
	GetRatingHistoriesFunc   func(ctx context.Context, playerIDs []string) (map[string]rating.History, error)
	CreateRatingSnapshotFunc func(ctx context.Context, playerID string, date time.Time, value int) error
	LoadBatchStateFunc       func(ctx context.Context) (*BatchState, error)
	CommitRatingUpdateFunc   func(ctx context.Context, date time.Time, updates []RatingUpdate, gameIDs []string) error

	// Call records
	AddPlayerCalls  []string
	CreateGameCalls []*Game
	CommitCalls     []CommitCall
	LoadBatchCalls  int
	GetPlayerCalls  []string
	SnapshotCalls   []RatingUpdate
}

// CommitCall records the arguments of one CommitRatingUpdate call.
type CommitCall struct {
	Date    time.Time
	Updates []RatingUpdate
	GameIDs []string
}

// NewMock creates a new mock instance.
func NewMock() *MockStore {
	return &MockStore{}
}

// Reset clears all call records.
func (m *MockStore) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.AddPlayerCalls = nil
	m.CreateGameCalls = nil
	m.CommitCalls = nil
	m.LoadBatchCalls = 0
	m.GetPlayerCalls = nil
	m.SnapshotCalls = nil
}

func (m *MockStore) AddPlayer(ctx context.Context, name string, initialRating int, date time.Time) (*Player, error) {
	m.mu.Lock()
	m.AddPlayerCalls = append(m.AddPlayerCalls, name)
	m.mu.Unlock()
	if m.AddPlayerFunc != nil {
		return m.AddPlayerFunc(ctx, name, initialRating, date)
	}
	return &Player{ID: name, Name: name}, nil
}

func (m *MockStore) GetPlayer(ctx context.Context, playerID string) (*Player, error) {
	m.mu.Lock()
	m.GetPlayerCalls = append(m.GetPlayerCalls, playerID)
	m.mu.Unlock()
	if m.GetPlayerFunc != nil {
		return m.GetPlayerFunc(ctx, playerID)
	}
	return nil, ErrPlayerNotFound
}

func (m *MockStore) GetPlayerByName(ctx context.Context, name string) (*Player, error) {
	if m.GetPlayerByNameFunc != nil {
		return m.GetPlayerByNameFunc(ctx, name)
	}
	return nil, ErrPlayerNotFound
}

func (m *MockStore) GetLeaderboard(ctx context.Context, limit int) ([]RankedPlayer, error) {
	if m.GetLeaderboardFunc != nil {
		return m.GetLeaderboardFunc(ctx, limit)
	}
	return nil, nil
}

func (m *MockStore) CreateGame(ctx context.Context, game *Game) error {
	m.mu.Lock()
	m.CreateGameCalls = append(m.CreateGameCalls, game)
	m.mu.Unlock()
	if m.CreateGameFunc != nil {
		return m.CreateGameFunc(ctx, game)
	}
	if game.ID == "" {
		game.ID = "game-mock"
	}
	return nil
}

func (m *MockStore) GetGame(ctx context.Context, gameID string) (*Game, error) {
	if m.GetGameFunc != nil {
		return m.GetGameFunc(ctx, gameID)
	}
	return nil, ErrGameNotFound
}

func (m *MockStore) GetRecentGames(ctx context.Context, limit int) ([]Game, error) {
	if m.GetRecentGamesFunc != nil {
		return m.GetRecentGamesFunc(ctx, limit)
	}
	return nil, nil
}

func (m *MockStore) GetUnconsumedGames(ctx context.Context) ([]Game, error) {
	if m.GetUnconsumedGamesFunc != nil {
		return m.GetUnconsumedGamesFunc(ctx)
	}
	return nil, nil
}

func (m *MockStore) GetGamesForPlayer(ctx context.Context, playerID string) ([]Game, error) {
	if m.GetGamesForPlayerFunc != nil {
		return m.GetGamesForPlayerFunc(ctx, playerID)
	}
	return nil, nil
}

func (m *MockStore) GetRatingHistory(ctx context.Context, playerID string) (rating.History, error) {
	if m.GetRatingHistoryFunc != nil {
		return m.GetRatingHistoryFunc(ctx, playerID)
	}
	return nil, nil
}

func (m *MockStore) GetRatingHistories(ctx context.Context, playerIDs []string) (map[string]rating.History, error) {
	if m.GetRatingHistoriesFunc != nil {
		return m.GetRatingHistoriesFunc(ctx, playerIDs)
	}
	return map[string]rating.History{}, nil
}

func (m *MockStore) CreateRatingSnapshot(ctx context.Context, playerID string, date time.Time, value int) error {
	m.mu.Lock()
	m.SnapshotCalls = append(m.SnapshotCalls, RatingUpdate{PlayerID: playerID, Rating: value})
	m.mu.Unlock()
	if m.CreateRatingSnapshotFunc != nil {
		return m.CreateRatingSnapshotFunc(ctx, playerID, date, value)
	}
	return nil
}

func (m *MockStore) LoadBatchState(ctx context.Context) (*BatchState, error) {
	m.mu.Lock()
	m.LoadBatchCalls++
	m.mu.Unlock()
	if m.LoadBatchStateFunc != nil {
		return m.LoadBatchStateFunc(ctx)
	}
	return &BatchState{Histories: map[string]rating.History{}}, nil
}

func (m *MockStore) CommitRatingUpdate(ctx context.Context, date time.Time, updates []RatingUpdate, gameIDs []string) error {
	m.mu.Lock()
	m.CommitCalls = append(m.CommitCalls, CommitCall{Date: date, Updates: updates, GameIDs: gameIDs})
	m.mu.Unlock()
	if m.CommitRatingUpdateFunc != nil {
		return m.CommitRatingUpdateFunc(ctx, date, updates, gameIDs)
	}
	return nil
}
