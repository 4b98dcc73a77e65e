package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var _ Metrics = (*Service)(nil)

// NewMetricsHandler returns an http.Handler for the given Gatherer.
// If no gatherer is provided, it uses the default one.
func NewMetricsHandler(gatherer ...prometheus.Gatherer) http.Handler {
	gath := prometheus.DefaultGatherer
	if len(gatherer) > 0 {
		gath = gatherer[0]
	}
	return promhttp.HandlerFor(gath, promhttp.HandlerOpts{})
}

// NewService creates and registers the Prometheus metrics.
// If no registerer is provided, it uses the default Prometheus registerer.
func NewService(registerer ...prometheus.Registerer) *Service {
	reg := prometheus.DefaultRegisterer
	if len(registerer) > 0 {
		reg = registerer[0]
	}

	s := &Service{
		BatchRuns: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "foosball_batch_runs_total",
			Help: "The total number of rating batch updates started.",
		}),
		BatchRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "foosball_batch_rejected_total",
			Help: "The total number of batch updates rejected because another run was in flight.",
		}),
		BatchFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "foosball_batch_failed_total",
			Help: "The total number of batch updates that failed and were rolled back.",
		}),
		GamesConsumed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "foosball_games_consumed_total",
			Help: "The total number of games folded into ratings.",
		}),
		BatchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "foosball_batch_duration_seconds",
			Help:    "The duration of a full batch rating update.",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		GamesSubmitted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "foosball_games_submitted_total",
			Help: "The total number of games recorded.",
		}),
		ValidationFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "foosball_game_validation_failures_total",
			Help: "The total number of game submissions rejected by validation.",
		}),
		PlayersRegistered: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "foosball_players_registered_total",
			Help: "The total number of players registered.",
		}),
		SlackNotifSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "foosball_slack_notifications_sent_total",
			Help: "The total number of Slack notifications successfully sent.",
		}),
		SlackNotifFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "foosball_slack_notifications_failed_total",
			Help: "The total number of Slack notifications that failed to send.",
		}),
		StartupTimeSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "foosball_startup_duration_seconds",
			Help: "The duration of the application startup in seconds.",
		}),
	}

	reg.MustRegister(
		s.BatchRuns,
		s.BatchRejected,
		s.BatchFailed,
		s.GamesConsumed,
		s.BatchDuration,
		s.GamesSubmitted,
		s.ValidationFailures,
		s.PlayersRegistered,
		s.SlackNotifSent,
		s.SlackNotifFailed,
		s.StartupTimeSeconds,
	)

	return s
}

func (s *Service) IncBatchRuns() {
	s.BatchRuns.Inc()
}

func (s *Service) IncBatchRejected() {
	s.BatchRejected.Inc()
}

func (s *Service) IncBatchFailed() {
	s.BatchFailed.Inc()
}

func (s *Service) AddGamesConsumed(count int) {
	s.GamesConsumed.Add(float64(count))
}

func (s *Service) ObserveBatchDuration(duration float64) {
	s.BatchDuration.Observe(duration)
}

func (s *Service) IncGamesSubmitted() {
	s.GamesSubmitted.Inc()
}

func (s *Service) IncValidationFailures() {
	s.ValidationFailures.Inc()
}

func (s *Service) IncPlayersRegistered() {
	s.PlayersRegistered.Inc()
}

func (s *Service) IncSlackNotifSent() {
	s.SlackNotifSent.Inc()
}

func (s *Service) IncSlackNotifFailed() {
	s.SlackNotifFailed.Inc()
}

func (s *Service) SetStartupTime(duration float64) {
	s.StartupTimeSeconds.Set(duration)
}
