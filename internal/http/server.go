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

func NewServer(store ladder.LadderStore, aggregator *stats.Aggregator, metricsSvc metrics.Metrics, metricsHandler http.Handler, cfg config.Config, notifier notifier.Notifier, processor *processor.Processor, pubsub pubsub.PubSubClient) *Server {
	server := &Server{
		Store:          store,
		Stats:          aggregator,
		Metrics:        metricsSvc,
		MetricsHandler: metricsHandler,
		Cfg:            cfg,
		Notifier:       notifier,
		Processor:      processor,
		Auth:           auth.NewIssuer(cfg.JWTSecret),
		Router:         http.NewServeMux(),
		pubsub:         pubsub,
	}

	server.routes()
	return server
}

func (s *Server) routes() {
	// All handlers are wrapped with middleware using the Chain helper.
	// Authenticated routes add authMiddleware after paramsMiddleware.
	s.Router.Handle("/metrics", s.MetricsHandler)
	s.Router.Handle("GET /health", Chain(s.HealthCheckHandler(), paramsMiddleware))

	s.Router.Handle("GET /players", Chain(s.LeaderboardHandler(), paramsMiddleware))
	s.Router.Handle("POST /players", Chain(s.RegisterPlayerHandler(), paramsMiddleware))
	s.Router.Handle("GET /players/{id}", Chain(s.PlayerDetailHandler(), paramsMiddleware))
	s.Router.Handle("GET /players/{id}/rating", Chain(s.PlayerRatingHandler(), paramsMiddleware))
	s.Router.Handle("GET /players/{id}/stats", Chain(s.PlayerStatsHandler(), paramsMiddleware))

	s.Router.Handle("GET /games", Chain(s.ListGamesHandler(), paramsMiddleware))
	s.Router.Handle("POST /games", Chain(s.SubmitGameHandler(), paramsMiddleware, s.authMiddleware(false)))

	s.Router.Handle("POST /update-ratings", Chain(s.UpdateRatingsHandler(), paramsMiddleware, s.authMiddleware(true)))
	s.Router.Handle("POST /pubsub/update-ratings", Chain(s.PubSubUpdateRatingsHandler(), paramsMiddleware, s.pushTokenMiddleware))

	s.Router.Handle("POST /slack/command/leaderboard", Chain(s.LeaderboardCommandHandler(), paramsMiddleware, s.slackVerificationMiddleware))
	s.Router.Handle("POST /slack/command/player-stats", Chain(s.PlayerStatsCommandHandler(), paramsMiddleware, s.slackVerificationMiddleware))
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}
