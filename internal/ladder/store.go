package ladder

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/mauv0809/foosball-elo/internal/database"
	"github.com/mauv0809/foosball-elo/internal/rating"
)

var (
	ErrPlayerNotFound      = errors.New("player not found")
	ErrGameNotFound        = errors.New("game not found")
	ErrDuplicatePlayerName = errors.New("username already in use")
	ErrGameAlreadyConsumed = errors.New("game already consumed")
)

var gameColumns = []string{
	"g.id AS id",
	"g.team_1_defense AS team_1_defense",
	"p1.name AS team_1_defense_name",
	"g.team_1_attack AS team_1_attack",
	"p2.name AS team_1_attack_name",
	"g.team_2_defense AS team_2_defense",
	"p3.name AS team_2_defense_name",
	"g.team_2_attack AS team_2_attack",
	"p4.name AS team_2_attack_name",
	"g.team_1_score AS team_1_score",
	"g.team_2_score AS team_2_score",
	"g.date_played AS date_played",
	"g.consumed AS consumed",
	"g.created_at AS created_at",
}

const currentRatingExpr = `COALESCE((SELECT s.rating FROM rating_snapshots s
	WHERE s.player_id = p.id ORDER BY s.timestamp DESC, s.id DESC LIMIT 1), 0) AS rating`

// New creates a new LadderStore.
func New(db *sql.DB) LadderStore {
	return &store{
		db: sqlx.NewDb(db, database.DriverSQLite),
	}
}

type transactionCallback func(*sqlx.Tx) error

func (s *store) transaction(ctx context.Context, cb transactionCallback) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}

	if err := cb(tx); err != nil {
		if err2 := tx.Rollback(); err2 != nil {
			return fmt.Errorf("rollback error: %s\noriginal error: %w", err2, err)
		}
		return err
	}

	return tx.Commit()
}

func selectGames() squirrel.SelectBuilder {
	return squirrel.Select(gameColumns...).
		From("games g").
		Join("players p1 ON p1.id = g.team_1_defense").
		Join("players p2 ON p2.id = g.team_1_attack").
		Join("players p3 ON p3.id = g.team_2_defense").
		Join("players p4 ON p4.id = g.team_2_attack")
}

// AddPlayer registers a player and gives them their first rating snapshot in
// the same transaction.
func (s *store) AddPlayer(ctx context.Context, name string, initialRating int, date time.Time) (*Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	player := &Player{
		ID:        uuid.NewString(),
		Name:      name,
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}

	err := s.transaction(ctx, func(tx *sqlx.Tx) error {
		var count int
		if err := tx.GetContext(ctx, &count, "SELECT COUNT(*) FROM players WHERE name = ?", name); err != nil {
			return err
		}
		if count > 0 {
			return ErrDuplicatePlayerName
		}

		query, args, err := squirrel.Insert("players").SetMap(squirrel.Eq{
			"id":         player.ID,
			"name":       player.Name,
			"created_at": player.CreatedAt.Unix(),
		}).ToSql()
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return err
		}

		return insertSnapshot(ctx, tx, player.ID, date, initialRating)
	})
	if err != nil {
		return nil, err
	}

	log.Info("Registered player", "playerID", player.ID, "name", name, "rating", initialRating)
	return player, nil
}

func insertSnapshot(ctx context.Context, tx *sqlx.Tx, playerID string, date time.Time, value int) error {
	histories, err := getRatingHistories(ctx, tx, []string{playerID})
	if err != nil {
		return err
	}
	if _, err := histories[playerID].Append(rating.Snapshot{Timestamp: date, Rating: value}); err != nil {
		return fmt.Errorf("player %s: %w", playerID, err)
	}

	query, args, err := squirrel.Insert("rating_snapshots").SetMap(squirrel.Eq{
		"player_id": playerID,
		"timestamp": rating.Day(date).Format(time.DateOnly),
		"rating":    value,
	}).ToSql()
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, query, args...)
	return err
}

func (s *store) GetPlayer(ctx context.Context, playerID string) (*Player, error) {
	return s.getPlayerWhere(ctx, squirrel.Eq{"id": playerID})
}

func (s *store) GetPlayerByName(ctx context.Context, name string) (*Player, error) {
	return s.getPlayerWhere(ctx, squirrel.Eq{"name": name})
}

func (s *store) getPlayerWhere(ctx context.Context, where squirrel.Eq) (*Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query, args, err := squirrel.Select("id", "name", "created_at").From("players").Where(where).ToSql()
	if err != nil {
		return nil, err
	}

	var row playerRow
	if err := s.db.GetContext(ctx, &row, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPlayerNotFound
		}
		return nil, err
	}
	player := row.toPlayer()
	return &player, nil
}

func getAllPlayers(ctx context.Context, q sqlx.QueryerContext) ([]Player, error) {
	query, args, err := squirrel.Select("id", "name", "created_at").From("players").OrderBy("name ASC").ToSql()
	if err != nil {
		return nil, err
	}

	var rows []playerRow
	if err := sqlx.SelectContext(ctx, q, &rows, query, args...); err != nil {
		return nil, err
	}
	players := make([]Player, 0, len(rows))
	for _, r := range rows {
		players = append(players, r.toPlayer())
	}
	return players, nil
}

// GetLeaderboard returns players ordered by current rating, highest first.
// A limit of zero or less returns everyone.
func (s *store) GetLeaderboard(ctx context.Context, limit int) ([]RankedPlayer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	builder := squirrel.Select("p.id AS id", "p.name AS name", "p.created_at AS created_at", currentRatingExpr).
		From("players p").
		OrderBy("rating DESC", "name ASC")
	if limit > 0 {
		builder = builder.Limit(uint64(limit))
	}
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}

	var rows []rankedPlayerRow
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, err
	}
	ranked := make([]RankedPlayer, 0, len(rows))
	for _, r := range rows {
		ranked = append(ranked, RankedPlayer{Player: r.toPlayer(), Rating: r.Rating})
	}
	return ranked, nil
}

// CreateGame stores a new unconsumed game. The ID is generated when empty.
func (s *store) CreateGame(ctx context.Context, game *Game) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if game.ID == "" {
		game.ID = uuid.NewString()
	}
	game.Consumed = false
	game.CreatedAt = time.Now().UTC().Truncate(time.Second)
	game.DatePlayed = rating.Day(game.DatePlayed)

	query, args, err := squirrel.Insert("games").SetMap(squirrel.Eq{
		"id":             game.ID,
		"team_1_defense": game.Team1Defense.ID,
		"team_1_attack":  game.Team1Attack.ID,
		"team_2_defense": game.Team2Defense.ID,
		"team_2_attack":  game.Team2Attack.ID,
		"team_1_score":   game.Team1Score,
		"team_2_score":   game.Team2Score,
		"date_played":    game.DatePlayed.Format(time.DateOnly),
		"consumed":       0,
		"created_at":     game.CreatedAt.Unix(),
	}).ToSql()
	if err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to insert game: %w", err)
	}
	return nil
}

func (s *store) GetGame(ctx context.Context, gameID string) (*Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	games, err := queryGames(ctx, s.db, selectGames().Where(squirrel.Eq{"g.id": gameID}))
	if err != nil {
		return nil, err
	}
	if len(games) == 0 {
		return nil, ErrGameNotFound
	}
	return &games[0], nil
}

// GetRecentGames returns the latest games first. A limit of zero or less
// returns all of them.
func (s *store) GetRecentGames(ctx context.Context, limit int) ([]Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	builder := selectGames().OrderBy("g.date_played DESC", "g.created_at DESC", "g.id DESC")
	if limit > 0 {
		builder = builder.Limit(uint64(limit))
	}
	return queryGames(ctx, s.db, builder)
}

// GetUnconsumedGames returns games not yet applied to ratings, oldest first.
func (s *store) GetUnconsumedGames(ctx context.Context) ([]Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return getUnconsumedGames(ctx, s.db)
}

func getUnconsumedGames(ctx context.Context, q sqlx.QueryerContext) ([]Game, error) {
	return queryGames(ctx, q, selectGames().
		Where(squirrel.Eq{"g.consumed": 0}).
		OrderBy("g.date_played ASC", "g.created_at ASC", "g.id ASC"))
}

// GetGamesForPlayer returns every game the player took part in, oldest first.
func (s *store) GetGamesForPlayer(ctx context.Context, playerID string) ([]Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return queryGames(ctx, s.db, selectGames().
		Where(squirrel.Or{
			squirrel.Eq{"g.team_1_defense": playerID},
			squirrel.Eq{"g.team_1_attack": playerID},
			squirrel.Eq{"g.team_2_defense": playerID},
			squirrel.Eq{"g.team_2_attack": playerID},
		}).
		OrderBy("g.date_played ASC", "g.created_at ASC", "g.id ASC"))
}

func queryGames(ctx context.Context, q sqlx.QueryerContext, builder squirrel.SelectBuilder) ([]Game, error) {
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}

	var rows []gameRow
	if err := sqlx.SelectContext(ctx, q, &rows, query, args...); err != nil {
		return nil, err
	}

	games := make([]Game, 0, len(rows))
	for _, r := range rows {
		game, err := r.toGame()
		if err != nil {
			return nil, fmt.Errorf("game %s: %w", r.ID, err)
		}
		games = append(games, game)
	}
	return games, nil
}

func (s *store) GetRatingHistory(ctx context.Context, playerID string) (rating.History, error) {
	histories, err := s.GetRatingHistories(ctx, []string{playerID})
	if err != nil {
		return nil, err
	}
	return histories[playerID], nil
}

// GetRatingHistories returns the ordered snapshots of the given players, or of
// every player when playerIDs is empty.
func (s *store) GetRatingHistories(ctx context.Context, playerIDs []string) (map[string]rating.History, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return getRatingHistories(ctx, s.db, playerIDs)
}

func getRatingHistories(ctx context.Context, q sqlx.QueryerContext, playerIDs []string) (map[string]rating.History, error) {
	builder := squirrel.Select("player_id", "timestamp", "rating").
		From("rating_snapshots").
		OrderBy("player_id", "timestamp", "id")
	if len(playerIDs) > 0 {
		builder = builder.Where(squirrel.Eq{"player_id": playerIDs})
	}
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}

	var rows []snapshotRow
	if err := sqlx.SelectContext(ctx, q, &rows, query, args...); err != nil {
		return nil, err
	}

	histories := make(map[string]rating.History)
	for _, r := range rows {
		ts, err := time.Parse(time.DateOnly, r.Timestamp)
		if err != nil {
			return nil, fmt.Errorf("bad snapshot timestamp %q for player %s: %w", r.Timestamp, r.PlayerID, err)
		}
		histories[r.PlayerID] = append(histories[r.PlayerID], rating.Snapshot{Timestamp: ts, Rating: r.Rating})
	}
	return histories, nil
}

func (s *store) CreateRatingSnapshot(ctx context.Context, playerID string, date time.Time, value int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.transaction(ctx, func(tx *sqlx.Tx) error {
		return insertSnapshot(ctx, tx, playerID, date, value)
	})
}

// LoadBatchState reads unconsumed games, players and histories within a
// single transaction.
func (s *store) LoadBatchState(ctx context.Context) (*BatchState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	state := &BatchState{}
	err := s.transaction(ctx, func(tx *sqlx.Tx) error {
		var err error
		if state.Games, err = getUnconsumedGames(ctx, tx); err != nil {
			return fmt.Errorf("failed to load unconsumed games: %w", err)
		}
		if state.Players, err = getAllPlayers(ctx, tx); err != nil {
			return fmt.Errorf("failed to load players: %w", err)
		}
		if state.Histories, err = getRatingHistories(ctx, tx, nil); err != nil {
			return fmt.Errorf("failed to load rating histories: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return state, nil
}

// CommitRatingUpdate marks the games consumed and appends the new snapshots
// atomically. A game that was consumed concurrently, or a snapshot dated
// before a player's latest one, aborts the whole commit.
func (s *store) CommitRatingUpdate(ctx context.Context, date time.Time, updates []RatingUpdate, gameIDs []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.transaction(ctx, func(tx *sqlx.Tx) error {
		for _, id := range gameIDs {
			if err := markGameConsumed(ctx, tx, id); err != nil {
				return err
			}
		}

		stmt, err := tx.PreparexContext(ctx, "INSERT INTO rating_snapshots (player_id, timestamp, rating) VALUES (?, ?, ?)")
		if err != nil {
			return err
		}
		defer stmt.Close()

		ids := make([]string, 0, len(updates))
		for _, u := range updates {
			ids = append(ids, u.PlayerID)
		}
		if len(ids) > 0 {
			histories, err := getRatingHistories(ctx, tx, ids)
			if err != nil {
				return err
			}
			for _, u := range updates {
				if _, err := histories[u.PlayerID].Append(rating.Snapshot{Timestamp: date, Rating: u.Rating}); err != nil {
					return fmt.Errorf("player %s: %w", u.PlayerID, err)
				}
			}
		}

		day := rating.Day(date).Format(time.DateOnly)
		for _, u := range updates {
			if _, err := stmt.ExecContext(ctx, u.PlayerID, day, u.Rating); err != nil {
				return fmt.Errorf("failed to insert snapshot for player %s: %w", u.PlayerID, err)
			}
		}
		return nil
	})
}

func markGameConsumed(ctx context.Context, tx *sqlx.Tx, gameID string) error {
	query, args, err := squirrel.Update("games").
		Set("consumed", 1).
		Where(squirrel.Eq{"id": gameID, "consumed": 0}).
		ToSql()
	if err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n != 1 {
		return fmt.Errorf("%w: %s", ErrGameAlreadyConsumed, gameID)
	}
	return nil
}
