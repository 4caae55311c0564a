package app

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"setgame/internal/domain"
	"setgame/internal/ports"
	"setgame/internal/schedule"

	"go.uber.org/zap"
)

var (
	// ErrInvalidTransition is the family of commands rejected because of the session phase.
	ErrInvalidTransition = errors.New("invalid transition")
	ErrNotRunning        = fmt.Errorf("%w: game not running", ErrInvalidTransition)
	ErrAlreadyRunning    = fmt.Errorf("%w: game already running", ErrInvalidTransition)
	ErrFeedbackPending   = fmt.Errorf("%w: feedback still showing", ErrInvalidTransition)

	ErrCardNotOnBoard  = errors.New("card not on board")
	ErrInvalidDuration = errors.New("duration must be positive")
	ErrUnknownCommand  = errors.New("unknown command")
)

// Options configures a Session. The zero value is usable.
type Options struct {
	// FeedbackDelay is how long match/reject feedback stays up (default 1s).
	FeedbackDelay time.Duration
	// BoardSizes overrides the card count per difficulty.
	BoardSizes map[domain.Difficulty]int
	// MaxGenerationAttempts bounds card generation retries (0 = domain default).
	MaxGenerationAttempts int
	// Rand seeds card generation; nil means time-seeded.
	Rand     *rand.Rand
	Logger   *zap.Logger
	Recorder ports.Recorder
}

// Session is the top-level game state machine: idle -> running -> ended.
// It is not safe for concurrent use; the owner drives it and its scheduler
// from a single goroutine.
type Session struct {
	sched    *schedule.Scheduler
	renderer ports.Renderer
	display  ports.Display
	recorder ports.Recorder
	logger   *zap.Logger

	boards   *BoardManager
	resolver *Resolver
	timer    *Timer

	phase      domain.Phase
	difficulty domain.Difficulty
	matchCount int
	generation uint64
}

// NewSession constructs an idle Session.
func NewSession(sched *schedule.Scheduler, renderer ports.Renderer, display ports.Display, opts Options) *Session {
	if opts.FeedbackDelay <= 0 {
		opts.FeedbackDelay = DefaultFeedbackDelay
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Recorder == nil {
		opts.Recorder = ports.NopRecorder{}
	}

	s := &Session{
		sched:    sched,
		renderer: renderer,
		display:  display,
		recorder: opts.Recorder,
		logger:   opts.Logger,
		phase:    domain.PhaseIdle,
	}
	s.boards = NewBoardManager(domain.NewGenerator(opts.Rand, opts.MaxGenerationAttempts), renderer, opts.BoardSizes)
	s.resolver = NewResolver(s.boards, renderer, sched, opts.FeedbackDelay, opts.Logger, s.evaluated)
	s.timer = NewTimer(sched, display, s.expire)
	return s
}

// Start deals a new board and starts the countdown. Valid from idle or ended.
func (s *Session) Start(d domain.Difficulty, durationSeconds int) error {
	if s.phase == domain.PhaseRunning {
		return ErrAlreadyRunning
	}
	if d != domain.DifficultyEasy && d != domain.DifficultyStandard {
		return fmt.Errorf("%w: %q", domain.ErrUnknownDifficulty, d)
	}
	if durationSeconds <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidDuration, durationSeconds)
	}
	if size := s.boards.Size(d); size > d.MaxBoardSize() {
		return fmt.Errorf("%w: %d cards on a %s board, at most %d fit", domain.ErrGenerationExhausted, size, d, d.MaxBoardSize())
	}

	s.timer.Stop()
	s.generation++
	s.resolver.Reset(s.generation)
	s.difficulty = d
	if err := s.boards.Populate(d); err != nil {
		s.boards.Clear()
		s.phase = domain.PhaseIdle
		return err
	}

	s.matchCount = 0
	s.display.SetMatchCount(0)
	s.display.SetControlsEnabled(true)
	s.phase = domain.PhaseRunning
	if err := s.timer.Start(durationSeconds); err != nil {
		return err
	}
	s.recorder.GameStarted(d)
	s.logger.Debug("Session: game started",
		zap.String("difficulty", string(d)),
		zap.Int("duration_seconds", durationSeconds),
		zap.Uint64("generation", s.generation))
	return nil
}

// SelectCard toggles card in the current selection.
func (s *Session) SelectCard(card domain.Card) error {
	if s.phase != domain.PhaseRunning {
		return ErrNotRunning
	}
	if !s.boards.Board().Contains(card.Key()) {
		return fmt.Errorf("%w: %s", ErrCardNotOnBoard, card.Key())
	}
	return s.resolver.Toggle(s.difficulty, card)
}

// Refresh replaces every card on the board. Rejected once the timer expired.
func (s *Session) Refresh() error {
	if s.phase != domain.PhaseRunning {
		return ErrNotRunning
	}
	if s.resolver.Pending() {
		return ErrFeedbackPending
	}
	s.resolver.ClearSelection()
	return s.boards.Refresh(s.difficulty)
}

// Back returns to the menu: stops the timer, drops pending feedback and
// clears the board. Always allowed.
func (s *Session) Back() error {
	if s.phase == domain.PhaseRunning {
		s.recorder.GameEnded(ports.EndReasonBack, s.matchCount)
	}
	s.timer.Stop()
	s.generation++
	s.resolver.Reset(s.generation)
	s.boards.Clear()
	s.matchCount = 0
	s.display.SetMatchCount(0)
	s.display.SetControlsEnabled(true)
	s.phase = domain.PhaseIdle
	return nil
}

// Hint returns a set present on the board, if there is one. Renderers that
// implement ports.Hinter are shown the cards.
func (s *Session) Hint() ([]domain.Card, error) {
	if s.phase != domain.PhaseRunning {
		return nil, ErrNotRunning
	}
	cards := s.boards.Board().Cards()
	idx, ok := domain.FindSet(cards)
	var hint []domain.Card
	if ok {
		hint = []domain.Card{cards[idx[0]], cards[idx[1]], cards[idx[2]]}
	}
	if h, ok := s.renderer.(ports.Hinter); ok {
		h.ShowHint(hint)
	}
	return hint, nil
}

// Phase returns the session phase.
func (s *Session) Phase() domain.Phase {
	return s.phase
}

// Difficulty returns the difficulty of the current or last game.
func (s *Session) Difficulty() domain.Difficulty {
	return s.difficulty
}

// MatchCount returns the sets found in the current game.
func (s *Session) MatchCount() int {
	return s.matchCount
}

// Remaining returns the seconds left on the countdown.
func (s *Session) Remaining() int {
	return s.timer.Remaining()
}

// TimerState returns the countdown state.
func (s *Session) TimerState() TimerState {
	return s.timer.State()
}

// Cards returns the board in order.
func (s *Session) Cards() []domain.Card {
	return s.boards.Board().Cards()
}

// Selected returns the current selection.
func (s *Session) Selected() []domain.Card {
	return s.resolver.Selected()
}

// FeedbackPending reports whether an evaluation is still being shown.
func (s *Session) FeedbackPending() bool {
	return s.resolver.Pending()
}

// Generation identifies the current board lifetime. It changes on every Start and Back.
func (s *Session) Generation() uint64 {
	return s.generation
}

func (s *Session) evaluated(match bool) {
	s.recorder.SetEvaluated(match)
	if !match {
		return
	}
	s.matchCount++
	s.display.SetMatchCount(s.matchCount)
}

// expire freezes the board when the countdown reaches zero.
func (s *Session) expire() {
	if s.phase != domain.PhaseRunning {
		return
	}
	s.phase = domain.PhaseEnded
	s.resolver.ClearSelection()
	s.display.SetControlsEnabled(false)
	s.recorder.GameEnded(ports.EndReasonExpired, s.matchCount)
	s.logger.Debug("Session: timer expired",
		zap.Int("matches", s.matchCount),
		zap.Uint64("generation", s.generation))
}
