// Package metrics exports game lifecycle counters to Prometheus.
package metrics

import (
	"setgame/internal/domain"
	"setgame/internal/ports"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements ports.Recorder on top of Prometheus collectors.
// It is safe for concurrent use by many sessions.
type Recorder struct {
	gamesStarted  *prometheus.CounterVec
	gamesEnded    *prometheus.CounterVec
	evaluations   *prometheus.CounterVec
	activeGames   prometheus.Gauge
	matchesPerRun prometheus.Histogram
}

var _ ports.Recorder = (*Recorder)(nil)

// NewRecorder registers the game collectors with reg. A nil reg uses the
// default Prometheus registerer.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)
	return &Recorder{
		gamesStarted: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "setgame_games_started_total",
			Help: "Total games started by difficulty",
		}, []string{"difficulty"}),
		gamesEnded: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "setgame_games_ended_total",
			Help: "Total games that left the running phase by reason",
		}, []string{"reason"}),
		evaluations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "setgame_evaluations_total",
			Help: "Total three-card selections evaluated by outcome",
		}, []string{"outcome"}),
		activeGames: factory.NewGauge(prometheus.GaugeOpts{
			Name: "setgame_active_games",
			Help: "Games currently in the running phase",
		}),
		matchesPerRun: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "setgame_matches_per_game",
			Help:    "Sets found per finished game",
			Buckets: []float64{0, 1, 2, 5, 10, 20, 40},
		}),
	}
}

func (r *Recorder) GameStarted(d domain.Difficulty) {
	r.gamesStarted.WithLabelValues(string(d)).Inc()
	r.activeGames.Inc()
}

func (r *Recorder) SetEvaluated(match bool) {
	outcome := "reject"
	if match {
		outcome = "match"
	}
	r.evaluations.WithLabelValues(outcome).Inc()
}

func (r *Recorder) GameEnded(reason ports.EndReason, matches int) {
	r.gamesEnded.WithLabelValues(string(reason)).Inc()
	r.activeGames.Dec()
	r.matchesPerRun.Observe(float64(matches))
}
