package app

import (
	"fmt"

	"setgame/internal/ports"
	"setgame/internal/schedule"
)

// TimerState is the lifecycle stage of the countdown.
type TimerState string

const (
	TimerStopped TimerState = "stopped"
	TimerRunning TimerState = "running"
	// TimerExpired is terminal until the next Start.
	TimerExpired TimerState = "expired"
)

// FormatClock renders seconds as MM:SS with both fields zero-padded.
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	minutes := seconds / 60
	return fmt.Sprintf("%02d:%02d", minutes, seconds-60*minutes)
}

// Timer counts down once per TickInterval while running.
type Timer struct {
	sched    *schedule.Scheduler
	display  ports.Display
	onExpire func()

	state     TimerState
	remaining int
	tick      *schedule.Handle
	epoch     uint64 // bumped on Start/Stop; ticks from an older epoch are ignored
}

// NewTimer constructs a stopped timer. onExpire runs once when the countdown reaches zero.
func NewTimer(sched *schedule.Scheduler, display ports.Display, onExpire func()) *Timer {
	return &Timer{
		sched:    sched,
		display:  display,
		onExpire: onExpire,
		state:    TimerStopped,
	}
}

// Start resets the countdown to seconds and begins ticking.
func (t *Timer) Start(seconds int) error {
	if seconds <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidDuration, seconds)
	}
	t.tick.Cancel()
	t.epoch++
	epoch := t.epoch

	t.remaining = seconds
	t.state = TimerRunning
	t.display.SetTime(FormatClock(seconds))
	t.tick = t.sched.Every(TickInterval, func() {
		if epoch != t.epoch {
			return
		}
		t.advance()
	})
	return nil
}

// Stop cancels the periodic tick unconditionally.
func (t *Timer) Stop() {
	t.tick.Cancel()
	t.tick = nil
	t.epoch++
	t.state = TimerStopped
}

// State returns the timer state.
func (t *Timer) State() TimerState {
	return t.state
}

// Remaining returns the seconds left on the countdown.
func (t *Timer) Remaining() int {
	return t.remaining
}

func (t *Timer) advance() {
	if t.state != TimerRunning || t.remaining <= 0 {
		return
	}
	t.remaining--
	t.display.SetTime(FormatClock(t.remaining))
	if t.remaining > 0 {
		return
	}
	t.state = TimerExpired
	t.tick.Cancel()
	t.tick = nil
	if t.onExpire != nil {
		t.onExpire()
	}
}
