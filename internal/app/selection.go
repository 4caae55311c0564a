package app

import (
	"time"

	"setgame/internal/domain"
	"setgame/internal/ports"
	"setgame/internal/schedule"

	"go.uber.org/zap"
)

// Resolver tracks the in-progress selection and resolves it once three cards
// are chosen. While feedback is on screen the selection is locked.
type Resolver struct {
	boards      *BoardManager
	renderer    ports.Renderer
	sched       *schedule.Scheduler
	delay       time.Duration
	logger      *zap.Logger
	onEvaluated func(match bool)

	selected    []domain.Card
	pending     *schedule.Handle
	generation  uint64
	evaluations int
}

// NewResolver constructs a Resolver. onEvaluated runs once per evaluation,
// right after the outcome is known and before the feedback delay starts.
func NewResolver(boards *BoardManager, renderer ports.Renderer, sched *schedule.Scheduler, delay time.Duration, logger *zap.Logger, onEvaluated func(match bool)) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{
		boards:      boards,
		renderer:    renderer,
		sched:       sched,
		delay:       delay,
		logger:      logger,
		onEvaluated: onEvaluated,
	}
}

// Selected returns a copy of the current selection in click order.
func (r *Resolver) Selected() []domain.Card {
	out := make([]domain.Card, len(r.selected))
	copy(out, r.selected)
	return out
}

// Pending reports whether evaluation feedback is still on screen.
func (r *Resolver) Pending() bool {
	return r.pending != nil
}

// Evaluations returns how many three-card selections were evaluated since the last Reset.
func (r *Resolver) Evaluations() int {
	return r.evaluations
}

// Reset drops the selection and any pending feedback, and tags future
// deferred work with generation.
func (r *Resolver) Reset(generation uint64) {
	r.pending.Cancel()
	r.pending = nil
	r.selected = nil
	r.generation = generation
	r.evaluations = 0
}

// ClearSelection unhighlights a partial selection. It does nothing while
// feedback is pending; the deferred resolution clears that selection.
func (r *Resolver) ClearSelection() {
	if r.pending != nil {
		return
	}
	for _, card := range r.selected {
		r.renderer.SetSelected(card, false)
	}
	r.selected = nil
}

// Toggle selects or deselects card. Selecting the third card evaluates the
// selection immediately.
func (r *Resolver) Toggle(d domain.Difficulty, card domain.Card) error {
	if r.pending != nil {
		return ErrFeedbackPending
	}
	for i, c := range r.selected {
		if c == card {
			r.selected = append(r.selected[:i], r.selected[i+1:]...)
			r.renderer.SetSelected(card, false)
			return nil
		}
	}

	r.selected = append(r.selected, card)
	r.renderer.SetSelected(card, true)
	if len(r.selected) < 3 {
		return nil
	}
	return r.evaluate(d)
}

func (r *Resolver) evaluate(d domain.Difficulty) error {
	a, b, c := r.selected[0], r.selected[1], r.selected[2]
	if domain.IsSet(a, b, c) {
		return r.acceptSet(d)
	}
	r.evaluations++
	r.rejectSet()
	return nil
}

// acceptSet replaces the three cards. The replacements carry the match flag
// until the delay elapses. If no replacements can be drawn the board is kept
// as it was and the selection is dropped without counting an evaluation.
func (r *Resolver) acceptSet(d domain.Difficulty) error {
	positions := make([]int, 0, len(r.selected))
	for _, card := range r.selected {
		r.renderer.SetSelected(card, false)
		if pos, ok := r.boards.Board().IndexOf(card); ok {
			positions = append(positions, pos)
		}
	}
	replacements, err := r.boards.ReplaceAll(d, positions)
	if err != nil {
		r.selected = nil
		return err
	}

	r.evaluations++
	for _, card := range replacements {
		r.renderer.SetFeedback(card, ports.FeedbackMatch, true)
	}
	if r.onEvaluated != nil {
		r.onEvaluated(true)
	}

	r.scheduleResolution(func() {
		for _, card := range replacements {
			r.renderer.SetFeedback(card, ports.FeedbackMatch, false)
		}
	})
	return nil
}

// rejectSet flags the three cards and leaves them in place.
func (r *Resolver) rejectSet() {
	rejected := r.Selected()
	for _, card := range rejected {
		r.renderer.SetFeedback(card, ports.FeedbackReject, true)
	}
	if r.onEvaluated != nil {
		r.onEvaluated(false)
	}

	r.scheduleResolution(func() {
		for _, card := range rejected {
			r.renderer.SetFeedback(card, ports.FeedbackReject, false)
			r.renderer.SetSelected(card, false)
		}
	})
}

// scheduleResolution schedules the end of the feedback window. The callback
// is a no-op if the resolver was reset to another generation in the meantime.
func (r *Resolver) scheduleResolution(restore func()) {
	generation := r.generation
	r.pending = r.sched.After(r.delay, func() {
		if generation != r.generation {
			r.logger.Debug("Resolver: stale feedback callback suppressed",
				zap.Uint64("scheduled_generation", generation),
				zap.Uint64("current_generation", r.generation))
			return
		}
		restore()
		r.selected = nil
		r.pending = nil
	})
}
