package ports

import "setgame/internal/domain"

// EndReason tells why a game left the running phase.
type EndReason string

const (
	EndReasonExpired EndReason = "expired"
	EndReasonBack    EndReason = "back"
)

// Recorder receives game lifecycle counters, typically for metrics.
type Recorder interface {
	GameStarted(difficulty domain.Difficulty)
	SetEvaluated(match bool)
	GameEnded(reason EndReason, matches int)
}

// NopRecorder discards everything.
type NopRecorder struct{}

func (NopRecorder) GameStarted(domain.Difficulty) {}
func (NopRecorder) SetEvaluated(bool)             {}
func (NopRecorder) GameEnded(EndReason, int)      {}
