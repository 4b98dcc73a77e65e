package http

import (
	"net/http"

	"github.com/mauv0809/foosball-elo/internal/auth"
	"github.com/mauv0809/foosball-elo/internal/config"
	"github.com/mauv0809/foosball-elo/internal/ladder"
	"github.com/mauv0809/foosball-elo/internal/metrics"
	"github.com/mauv0809/foosball-elo/internal/notifier"
	"github.com/mauv0809/foosball-elo/internal/processor"
	"github.com/mauv0809/foosball-elo/internal/pubsub"
	"github.com/mauv0809/foosball-elo/internal/stats"
)

type Server struct {
	Store          ladder.LadderStore
	Stats          *stats.Aggregator
	Metrics        metrics.Metrics
	MetricsHandler http.Handler
	Cfg            config.Config
	Notifier       notifier.Notifier
	Processor      *processor.Processor
	Auth           *auth.Issuer
	Router         *http.ServeMux
	pubsub         pubsub.PubSubClient
}

type registerPlayerRequest struct {
	Name string `json:"name"`
}

// submitGameRequest uses pointers so that a missing field can be told apart
// from a zero score.
type submitGameRequest struct {
	Team1Defense *string `json:"team_1_defense"`
	Team1Attack  *string `json:"team_1_attack"`
	Team2Defense *string `json:"team_2_defense"`
	Team2Attack  *string `json:"team_2_attack"`
	Team1Score   *int    `json:"team_1_score"`
	Team2Score   *int    `json:"team_2_score"`
	Date         *string `json:"date"`
}

type playerDetailResponse struct {
	ladder.Player
	Rating  int              `json:"rating"`
	History []ratingSnapshot `json:"history"`
}

type ratingSnapshot struct {
	Date   string `json:"date"`
	Rating int    `json:"rating"`
}

type ratingResponse struct {
	PlayerID string `json:"player_id"`
	Date     string `json:"date,omitempty"`
	Rating   int    `json:"rating"`
}

type gameResponse struct {
	ID           string  `json:"id"`
	Team1Defense string  `json:"team_1_defense"`
	Team1Attack  string  `json:"team_1_attack"`
	Team2Defense string  `json:"team_2_defense"`
	Team2Attack  string  `json:"team_2_attack"`
	Team1Score   int     `json:"team_1_score"`
	Team2Score   int     `json:"team_2_score"`
	DatePlayed   string  `json:"date_played"`
	Consumed     bool    `json:"consumed"`
	RatingDiff   float64 `json:"rating_diff"`
}

type errorResponse struct {
	Error string `json:"error"`
}
