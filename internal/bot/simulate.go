package bot

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"setgame/internal/app"
	"setgame/internal/domain"
	"setgame/internal/ports"
	"setgame/internal/schedule"

	"go.uber.org/zap"
)

// SimulationConfig describes a headless bot game.
type SimulationConfig struct {
	Difficulty      domain.Difficulty
	DurationSeconds int
	Level           BotLevel
	Seed            int64
	Tuning          Tuning
	Session         app.Options
}

// SimulationResult summarises a headless bot game.
type SimulationResult struct {
	Matches     int
	Evaluations int
	Refreshes   int
	Elapsed     time.Duration
}

type nullView struct{}

func (nullView) ShowCard(int, domain.Card)                         {}
func (nullView) RemoveCard(int)                                    {}
func (nullView) SetSelected(domain.Card, bool)                     {}
func (nullView) SetFeedback(domain.Card, ports.FeedbackKind, bool) {}
func (nullView) SetTime(string)                                    {}
func (nullView) SetMatchCount(int)                                 {}
func (nullView) SetControlsEnabled(bool)                           {}

type countingRecorder struct {
	ports.Recorder
	evaluations int
}

func (r *countingRecorder) SetEvaluated(match bool) {
	r.evaluations++
	r.Recorder.SetEvaluated(match)
}

// Simulate plays one full game with a bot on a virtual clock. It returns
// when the timer expires or ctx is cancelled.
func Simulate(ctx context.Context, cfg SimulationConfig) (SimulationResult, error) {
	if cfg.Tuning.ThinkTime <= 0 {
		cfg.Tuning = DefaultTuning
	}
	opts := cfg.Session
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(cfg.Seed))
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Recorder == nil {
		opts.Recorder = ports.NopRecorder{}
	}
	rec := &countingRecorder{Recorder: opts.Recorder}
	opts.Recorder = rec

	brain, err := newTunedBrain(cfg.Level, rand.New(rand.NewSource(cfg.Seed+1)), cfg.Tuning)
	if err != nil {
		return SimulationResult{}, err
	}
	agent := &Agent{ID: "sim", Name: cfg.Level.String(), Strategy: brain}

	sched := schedule.New()
	session := app.NewSession(sched, nullView{}, nullView{}, opts)
	if err := session.Handle(app.StartGame{Difficulty: cfg.Difficulty, DurationSeconds: cfg.DurationSeconds}); err != nil {
		return SimulationResult{}, fmt.Errorf("start simulation: %w", err)
	}

	var result SimulationResult
	for session.Phase() == domain.PhaseRunning {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		move, err := agent.Act(session)
		if err != nil {
			return result, err
		}
		if move.Refresh {
			result.Refreshes++
		}
		sched.Advance(cfg.Tuning.ThinkTime)
	}

	result.Matches = session.MatchCount()
	result.Evaluations = rec.evaluations
	result.Elapsed = sched.Now()
	opts.Logger.Info("Simulation finished",
		zap.String("level", cfg.Level.String()),
		zap.String("difficulty", string(cfg.Difficulty)),
		zap.Int("matches", result.Matches),
		zap.Int("evaluations", result.Evaluations))
	return result, nil
}

func newTunedBrain(level BotLevel, rng *rand.Rand, tuning Tuning) (Brain, error) {
	b, err := NewBrain(level, rng)
	if err != nil {
		return nil, err
	}
	if good, ok := b.(*GoodBot); ok {
		good.tuning = tuning
	}
	return b, nil
}
