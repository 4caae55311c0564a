package app

import (
	"testing"
	"time"

	"setgame/internal/schedule"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatClock(t *testing.T) {
	tests := []struct {
		seconds int
		want    string
	}{
		{0, "00:00"},
		{5, "00:05"},
		{60, "01:00"},
		{65, "01:05"},
		{180, "03:00"},
		{599, "09:59"},
		{3600, "60:00"},
		{-3, "00:00"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatClock(tt.seconds), "FormatClock(%d)", tt.seconds)
	}
}

func TestTimerCountsDownAndExpiresOnce(t *testing.T) {
	sched := schedule.New()
	out := NewOutbox()
	expired := 0
	timer := NewTimer(sched, out, func() { expired++ })

	require.NoError(t, timer.Start(65))
	first := eventsOf(out.Drain(), EventTime)
	require.Len(t, first, 1)
	assert.Equal(t, "01:05", first[0].Payload.(TimePayload).Text)

	for i := 0; i < 65; i++ {
		sched.Advance(time.Second)
	}
	ticks := eventsOf(out.Drain(), EventTime)
	require.Len(t, ticks, 65)
	assert.Equal(t, "01:04", ticks[0].Payload.(TimePayload).Text)
	assert.Equal(t, "00:00", ticks[64].Payload.(TimePayload).Text)
	assert.Equal(t, TimerExpired, timer.State())
	assert.Equal(t, 1, expired)
	assert.Zero(t, timer.Remaining())

	sched.Advance(10 * time.Second)
	assert.Empty(t, out.Drain(), "expired timer kept ticking")
	assert.Equal(t, 1, expired)
	assert.Zero(t, sched.Pending())
}

func TestTimerRejectsNonPositiveDuration(t *testing.T) {
	timer := NewTimer(schedule.New(), NewOutbox(), nil)
	for _, seconds := range []int{0, -1} {
		err := timer.Start(seconds)
		require.ErrorIs(t, err, ErrInvalidDuration)
	}
	assert.Equal(t, TimerStopped, timer.State())
}

func TestTimerStopCancelsTick(t *testing.T) {
	sched := schedule.New()
	out := NewOutbox()
	timer := NewTimer(sched, out, func() { t.Fatal("stopped timer expired") })

	require.NoError(t, timer.Start(3))
	sched.Advance(time.Second)
	timer.Stop()
	out.Drain()

	sched.Advance(5 * time.Second)
	assert.Empty(t, out.Drain())
	assert.Equal(t, TimerStopped, timer.State())
	assert.Equal(t, 2, timer.Remaining())
}

func TestTimerRestartUsesNewDuration(t *testing.T) {
	sched := schedule.New()
	out := NewOutbox()
	timer := NewTimer(sched, out, nil)

	require.NoError(t, timer.Start(10))
	sched.Advance(500 * time.Millisecond)
	require.NoError(t, timer.Start(2))
	sched.Advance(time.Second)

	assert.Equal(t, 1, timer.Remaining())
	assert.Equal(t, 1, sched.Pending(), "old tick still scheduled")
}
