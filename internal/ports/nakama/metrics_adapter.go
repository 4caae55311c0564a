package nakama

import (
	"setgame/internal/domain"
	"setgame/internal/ports"

	"github.com/heroiclabs/nakama-common/runtime"
)

// metricsSink is the subset of runtime.NakamaModule used for metrics.
type metricsSink interface {
	MetricsCounterAdd(name string, tags map[string]string, delta int64)
	MetricsGaugeSet(name string, tags map[string]string, value float64)
}

// NakamaMetricsAdapter implements ports.Recorder using Nakama's Prometheus metrics.
type NakamaMetricsAdapter struct {
	sink metricsSink
}

var _ ports.Recorder = (*NakamaMetricsAdapter)(nil)

// NewNakamaMetricsAdapter creates a recorder backed by nk. A nil nk yields a no-op recorder.
func NewNakamaMetricsAdapter(nk runtime.NakamaModule) ports.Recorder {
	if nk == nil {
		return ports.NopRecorder{}
	}
	return &NakamaMetricsAdapter{sink: nk}
}

func (a *NakamaMetricsAdapter) GameStarted(d domain.Difficulty) {
	a.sink.MetricsCounterAdd("setgame_games_started", map[string]string{"difficulty": string(d)}, 1)
}

func (a *NakamaMetricsAdapter) SetEvaluated(match bool) {
	outcome := "reject"
	if match {
		outcome = "match"
	}
	a.sink.MetricsCounterAdd("setgame_evaluations", map[string]string{"outcome": outcome}, 1)
}

func (a *NakamaMetricsAdapter) GameEnded(reason ports.EndReason, matches int) {
	a.sink.MetricsCounterAdd("setgame_games_ended", map[string]string{"reason": string(reason)}, 1)
	a.sink.MetricsGaugeSet("setgame_last_game_matches", nil, float64(matches))
}
