package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/foosball-elo/internal/ladder"
	"github.com/mauv0809/foosball-elo/internal/processor"
	"github.com/mauv0809/foosball-elo/internal/stats"
)

const incompleteGameMessage = "please fill out all fields"

var playerNamePattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

func (s *Server) HealthCheckHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Debug("Received health check request")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "OK!")
	}
}

// LeaderboardHandler returns a handler that lists players by current rating.
func (s *Server) LeaderboardHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := parseLimit(r)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		players, err := s.Store.GetLeaderboard(r.Context(), limit)
		if err != nil {
			log.Error("Failed to get leaderboard from store", "error", err)
			respondWithError(w, http.StatusInternalServerError, "failed to get leaderboard")
			return
		}
		respondWithJSON(w, http.StatusOK, players)
	}
}

// RegisterPlayerHandler creates a player with the initial rating.
func (s *Server) RegisterPlayerHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req registerPlayerRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondWithError(w, http.StatusBadRequest, "invalid JSON")
			return
		}
		if !playerNamePattern.MatchString(req.Name) {
			respondWithError(w, http.StatusBadRequest,
				"please provide a non-empty username using only upper case, lower case, numbers and underscore")
			return
		}

		if isDryRunFromContext(r) {
			log.Info("[Dry Run] Would have registered player", "name", req.Name)
			respondWithJSON(w, http.StatusOK, ladder.RankedPlayer{Player: ladder.Player{Name: req.Name}, Rating: s.Cfg.Rating.Initial})
			return
		}

		player, err := s.Store.AddPlayer(r.Context(), req.Name, s.Cfg.Rating.Initial, time.Now())
		if errors.Is(err, ladder.ErrDuplicatePlayerName) {
			respondWithError(w, http.StatusConflict, err.Error())
			return
		}
		if err != nil {
			log.Error("Failed to register player", "name", req.Name, "error", err)
			respondWithError(w, http.StatusInternalServerError, "failed to register player")
			return
		}
		s.Metrics.IncPlayersRegistered()
		respondWithJSON(w, http.StatusCreated, ladder.RankedPlayer{Player: *player, Rating: s.Cfg.Rating.Initial})
	}
}

// PlayerDetailHandler returns a player with their full rating history.
func (s *Server) PlayerDetailHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		playerID := r.PathValue("id")
		player, err := s.Store.GetPlayer(r.Context(), playerID)
		if errors.Is(err, ladder.ErrPlayerNotFound) {
			respondWithError(w, http.StatusNotFound, err.Error())
			return
		}
		if err != nil {
			log.Error("Failed to get player", "playerID", playerID, "error", err)
			respondWithError(w, http.StatusInternalServerError, "failed to get player")
			return
		}

		history, err := s.Store.GetRatingHistory(r.Context(), playerID)
		if err != nil {
			log.Error("Failed to get rating history", "playerID", playerID, "error", err)
			respondWithError(w, http.StatusInternalServerError, "failed to get rating history")
			return
		}

		resp := playerDetailResponse{
			Player:  *player,
			Rating:  history.Current(),
			History: make([]ratingSnapshot, 0, history.Len()),
		}
		for _, snap := range history {
			resp.History = append(resp.History, ratingSnapshot{Date: snap.Timestamp.Format(time.DateOnly), Rating: snap.Rating})
		}
		respondWithJSON(w, http.StatusOK, resp)
	}
}

// PlayerRatingHandler returns the current rating, or the rating in force
// before ?date=YYYY-MM-DD.
func (s *Server) PlayerRatingHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		playerID := r.PathValue("id")
		resp := ratingResponse{PlayerID: playerID}

		var date *time.Time
		if raw := r.URL.Query().Get("date"); raw != "" {
			parsed, err := time.Parse(time.DateOnly, raw)
			if err != nil {
				respondWithError(w, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
				return
			}
			date = &parsed
			resp.Date = raw
		}

		value, err := s.Stats.RatingAt(r.Context(), playerID, date)
		if err != nil {
			s.respondWithLookupError(w, playerID, err)
			return
		}
		resp.Rating = value
		respondWithJSON(w, http.StatusOK, resp)
	}
}

// PlayerStatsHandler returns the aggregated statistics of one player.
func (s *Server) PlayerStatsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		playerID := r.PathValue("id")
		record, err := s.Stats.PlayerStatistics(r.Context(), playerID)
		if err != nil {
			s.respondWithLookupError(w, playerID, err)
			return
		}
		respondWithJSON(w, http.StatusOK, record)
	}
}

// ListGamesHandler returns the most recent games, newest first.
func (s *Server) ListGamesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := parseLimit(r)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		games, err := s.Store.GetRecentGames(r.Context(), limit)
		if err != nil {
			log.Error("Failed to get games from store", "error", err)
			respondWithError(w, http.StatusInternalServerError, "failed to get games")
			return
		}
		rated, err := s.Stats.RateGames(r.Context(), games, s.Cfg.Rating.Params())
		if err != nil {
			log.Error("Failed to rate games", "error", err)
			respondWithError(w, http.StatusInternalServerError, "failed to get games")
			return
		}

		resp := make([]gameResponse, 0, len(rated))
		for _, g := range rated {
			resp = append(resp, gameResponse{
				ID:           g.ID,
				Team1Defense: g.Team1Defense.Name,
				Team1Attack:  g.Team1Attack.Name,
				Team2Defense: g.Team2Defense.Name,
				Team2Attack:  g.Team2Attack.Name,
				Team1Score:   g.Team1Score,
				Team2Score:   g.Team2Score,
				DatePlayed:   g.DatePlayed.Format(time.DateOnly),
				Consumed:     g.Consumed,
				RatingDiff:   g.RatingDiff,
			})
		}
		respondWithJSON(w, http.StatusOK, resp)
	}
}

// SubmitGameHandler validates and records a game. With dry_run it only
// returns the preview.
func (s *Server) SubmitGameHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req submitGameRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondWithError(w, http.StatusBadRequest, "invalid JSON")
			return
		}
		if req.Team1Defense == nil || req.Team1Attack == nil || req.Team2Defense == nil || req.Team2Attack == nil ||
			req.Team1Score == nil || req.Team2Score == nil || req.Date == nil || *req.Date == "" {
			s.Metrics.IncValidationFailures()
			respondWithError(w, http.StatusBadRequest, incompleteGameMessage)
			return
		}
		date, err := time.Parse(time.DateOnly, *req.Date)
		if err != nil {
			s.Metrics.IncValidationFailures()
			respondWithError(w, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
			return
		}

		game := ladder.Game{
			Team1Defense: ladder.PlayerRef{ID: *req.Team1Defense},
			Team1Attack:  ladder.PlayerRef{ID: *req.Team1Attack},
			Team2Defense: ladder.PlayerRef{ID: *req.Team2Defense},
			Team2Attack:  ladder.PlayerRef{ID: *req.Team2Attack},
			Team1Score:   *req.Team1Score,
			Team2Score:   *req.Team2Score,
			DatePlayed:   date,
		}

		isDryRun := isDryRunFromContext(r)
		if claims := claimsFromContext(r); claims != nil {
			log.Info("Received game submission", "submittedBy", claims.Subject, "dryRun", isDryRun)
		}

		preview, err := s.Processor.SubmitGame(r.Context(), game, isDryRun)
		switch {
		case errors.Is(err, ladder.ErrIncompleteGame):
			respondWithError(w, http.StatusBadRequest, incompleteGameMessage)
			return
		case errors.Is(err, ladder.ErrInvalidGame), errors.Is(err, ladder.ErrPlayerNotFound):
			respondWithError(w, http.StatusBadRequest, err.Error())
			return
		case err != nil:
			log.Error("Failed to submit game", "error", err)
			respondWithError(w, http.StatusInternalServerError, "failed to record game")
			return
		}

		if isDryRun {
			respondWithJSON(w, http.StatusOK, preview)
			return
		}
		respondWithJSON(w, http.StatusCreated, preview)
	}
}

// UpdateRatingsHandler runs a batch update on demand.
func (s *Server) UpdateRatingsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		isDryRun := isDryRunFromContext(r)
		if claims := claimsFromContext(r); claims != nil {
			log.Info("Rating update requested", "requestedBy", claims.Subject, "dryRun", isDryRun)
		}

		summary, err := s.Processor.RunBatchUpdate(r.Context(), isDryRun)
		if errors.Is(err, processor.ErrBatchInProgress) {
			respondWithError(w, http.StatusConflict, err.Error())
			return
		}
		if err != nil {
			log.Error("Rating update failed", "error", err)
			respondWithError(w, http.StatusInternalServerError, "rating update failed")
			return
		}
		respondWithJSON(w, http.StatusOK, summary)
	}
}

func (s *Server) respondWithLookupError(w http.ResponseWriter, playerID string, err error) {
	switch {
	case errors.Is(err, ladder.ErrPlayerNotFound), errors.Is(err, stats.ErrNoRatingHistory):
		respondWithError(w, http.StatusNotFound, err.Error())
	default:
		log.Error("Failed to look up player", "playerID", playerID, "error", err)
		respondWithError(w, http.StatusInternalServerError, "failed to look up player")
	}
}

func parseLimit(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return 0, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 0 {
		return 0, fmt.Errorf("invalid limit %q", raw)
	}
	return limit, nil
}

func respondWithJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("Failed to encode response to JSON", "error", err)
	}
}

func respondWithError(w http.ResponseWriter, status int, msg string) {
	respondWithJSON(w, status, errorResponse{Error: msg})
}
