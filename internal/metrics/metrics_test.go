package metrics

import (
	"testing"

	"setgame/internal/domain"
	"setgame/internal/ports"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecorderCounts(t *testing.T) {
	r := NewRecorder(prometheus.NewRegistry())

	r.GameStarted(domain.DifficultyEasy)
	r.GameStarted(domain.DifficultyStandard)
	r.SetEvaluated(true)
	r.SetEvaluated(true)
	r.SetEvaluated(false)
	r.GameEnded(ports.EndReasonExpired, 2)

	assert.Equal(t, 1.0, testutil.ToFloat64(r.gamesStarted.WithLabelValues("easy")))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.evaluations.WithLabelValues("match")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.evaluations.WithLabelValues("reject")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.gamesEnded.WithLabelValues("expired")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.activeGames))
}

func TestSeparateRegistriesDoNotCollide(t *testing.T) {
	assert.NotPanics(t, func() {
		NewRecorder(prometheus.NewRegistry())
		NewRecorder(prometheus.NewRegistry())
	})
}
