package app

import (
	"testing"
	"time"

	"setgame/internal/domain"
	"setgame/internal/ports"
	"setgame/internal/schedule"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartEasyDealsNineDistinctSolidCards(t *testing.T) {
	s, _, out, rec := newTestSession(t, 1)

	require.NoError(t, s.Start(domain.DifficultyEasy, 60))

	cards := s.Cards()
	require.Len(t, cards, 9)
	requireDistinct(t, cards)
	for _, c := range cards {
		assert.Equal(t, domain.StyleSolid, c.Style)
	}
	assert.Equal(t, domain.PhaseRunning, s.Phase())
	assert.Equal(t, TimerRunning, s.TimerState())
	assert.Equal(t, []domain.Difficulty{domain.DifficultyEasy}, rec.started)

	events := out.Drain()
	assert.Len(t, eventsOf(events, EventCardShown), 9)
	counts := eventsOf(events, EventMatchCount)
	require.Len(t, counts, 1)
	assert.Equal(t, 0, counts[0].Payload.(MatchCountPayload).Count)
	controls := eventsOf(events, EventControls)
	require.Len(t, controls, 1)
	assert.True(t, controls[0].Payload.(ControlsPayload).Enabled)
}

func TestStartStandardDealsTwelve(t *testing.T) {
	s, _, _, _ := newTestSession(t, 2)
	require.NoError(t, s.Start(domain.DifficultyStandard, 60))
	assert.Len(t, s.Cards(), 12)
	requireDistinct(t, s.Cards())
}

func TestStartValidation(t *testing.T) {
	tests := []struct {
		name       string
		difficulty domain.Difficulty
		seconds    int
		want       error
	}{
		{"zero duration", domain.DifficultyEasy, 0, ErrInvalidDuration},
		{"negative duration", domain.DifficultyEasy, -5, ErrInvalidDuration},
		{"unknown difficulty", domain.Difficulty("expert"), 60, domain.ErrUnknownDifficulty},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _, _, _ := newTestSession(t, 3)
			err := s.Start(tt.difficulty, tt.seconds)
			require.ErrorIs(t, err, tt.want)
			assert.Equal(t, domain.PhaseIdle, s.Phase())
			assert.Empty(t, s.Cards())
		})
	}
}

func TestStartRejectsBoardLargerThanCapacity(t *testing.T) {
	out := NewOutbox()
	s := NewSession(schedule.New(), out, out, Options{
		BoardSizes: map[domain.Difficulty]int{domain.DifficultyEasy: 27},
	})
	err := s.Start(domain.DifficultyEasy, 60)
	require.ErrorIs(t, err, domain.ErrGenerationExhausted)
	assert.Equal(t, domain.PhaseIdle, s.Phase())
	assert.Zero(t, out.Len())
}

func TestStartWhileRunningIsRejected(t *testing.T) {
	s, _, _, _ := newTestSession(t, 4)
	require.NoError(t, s.Start(domain.DifficultyEasy, 60))
	before := s.Cards()

	err := s.Start(domain.DifficultyStandard, 60)
	require.ErrorIs(t, err, ErrAlreadyRunning)
	require.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, before, s.Cards())
}

func TestTimerExpiryEndsGame(t *testing.T) {
	s, sched, out, rec := newTestSession(t, 5)
	require.NoError(t, s.Start(domain.DifficultyEasy, 3))
	out.Drain()

	sched.Advance(3 * time.Second)

	assert.Equal(t, domain.PhaseEnded, s.Phase())
	assert.Equal(t, TimerExpired, s.TimerState())
	assert.Len(t, s.Cards(), 9, "board stays visible after expiry")
	assert.Equal(t, []ports.EndReason{ports.EndReasonExpired}, rec.ended)

	controls := eventsOf(out.Drain(), EventControls)
	require.Len(t, controls, 1)
	assert.False(t, controls[0].Payload.(ControlsPayload).Enabled)

	card := s.Cards()[0]
	require.ErrorIs(t, s.SelectCard(card), ErrNotRunning)
	require.ErrorIs(t, s.Refresh(), ErrNotRunning)
	assert.Empty(t, out.Drain(), "ended board mutated")
}

func TestRefreshKeepsSizeAndDistinctness(t *testing.T) {
	s, _, out, _ := newTestSession(t, 6)
	require.NoError(t, s.Start(domain.DifficultyStandard, 60))
	out.Drain()

	for i := 0; i < 20; i++ {
		require.NoError(t, s.Refresh())
		require.Len(t, s.Cards(), 12)
		requireDistinct(t, s.Cards())
	}
	assert.Len(t, eventsOf(out.Drain(), EventCardShown), 20*12)
}

func TestRefreshClearsPartialSelection(t *testing.T) {
	s, _, out, _ := newTestSession(t, 7)
	require.NoError(t, s.Start(domain.DifficultyEasy, 60))
	cards := s.Cards()
	require.NoError(t, s.SelectCard(cards[0]))
	out.Drain()

	require.NoError(t, s.Refresh())
	assert.Empty(t, s.Selected())
	selected := eventsOf(out.Drain(), EventCardSelected)
	require.Len(t, selected, 1)
	assert.False(t, selected[0].Payload.(CardSelectedPayload).Selected)
}

func TestSelectToggleReturnsToEmpty(t *testing.T) {
	s, _, _, _ := newTestSession(t, 8)
	require.NoError(t, s.Start(domain.DifficultyEasy, 60))
	card := s.Cards()[4]

	require.NoError(t, s.SelectCard(card))
	assert.Len(t, s.Selected(), 1)
	require.NoError(t, s.SelectCard(card))
	assert.Empty(t, s.Selected())
}

func TestSelectCardNotOnBoard(t *testing.T) {
	s, _, _, _ := newTestSession(t, 9)
	require.NoError(t, s.Start(domain.DifficultyEasy, 60))
	// Easy boards only hold solid cards.
	outline := domain.Card{Style: domain.StyleOutline, Shape: domain.ShapeOval, Color: domain.ColorRed, Count: 2}
	require.ErrorIs(t, s.SelectCard(outline), ErrCardNotOnBoard)
}

func TestMatchReplacesCardsAndCounts(t *testing.T) {
	s, sched, out, rec := newTestSession(t, 10)
	require.NoError(t, s.Start(domain.DifficultyStandard, 60))
	set := findSetOnBoard(t, s)
	out.Drain()

	selectAll(t, s, set)

	assert.Equal(t, 1, s.MatchCount())
	assert.True(t, s.FeedbackPending())
	assert.Equal(t, []bool{true}, rec.evaluated)
	cards := s.Cards()
	require.Len(t, cards, 12)
	requireDistinct(t, cards)
	for _, c := range set {
		_, ok := s.boards.Board().IndexOf(c)
		assert.False(t, ok, "matched card %s still on board", c.Key())
	}

	events := out.Drain()
	assert.Len(t, eventsOf(events, EventCardShown), 3)
	feedback := eventsOf(events, EventFeedback)
	require.Len(t, feedback, 3)
	for _, ev := range feedback {
		p := ev.Payload.(FeedbackPayload)
		assert.Equal(t, ports.FeedbackMatch, p.Kind)
		assert.Equal(t, "SET!", p.Label)
		assert.True(t, p.On)
	}

	require.ErrorIs(t, s.SelectCard(cards[0]), ErrFeedbackPending)
	require.ErrorIs(t, s.Refresh(), ErrFeedbackPending)

	sched.Advance(testDelay)
	assert.False(t, s.FeedbackPending())
	assert.Empty(t, s.Selected())
	off := eventsOf(out.Drain(), EventFeedback)
	require.Len(t, off, 3)
	for _, ev := range off {
		assert.False(t, ev.Payload.(FeedbackPayload).On)
	}
}

func TestNonMatchFlagsAndReverts(t *testing.T) {
	s, sched, out, rec := newTestSession(t, 11)
	require.NoError(t, s.Start(domain.DifficultyStandard, 60))
	triple := findNonSetOnBoard(t, s)
	before := s.Cards()
	out.Drain()

	selectAll(t, s, triple)

	assert.Zero(t, s.MatchCount())
	assert.Equal(t, []bool{false}, rec.evaluated)
	assert.Equal(t, before, s.Cards())
	feedback := eventsOf(out.Drain(), EventFeedback)
	require.Len(t, feedback, 3)
	for _, ev := range feedback {
		assert.Equal(t, "Not a Set", ev.Payload.(FeedbackPayload).Label)
	}

	sched.Advance(testDelay)
	assert.Empty(t, s.Selected())
	assert.False(t, s.FeedbackPending())
	events := out.Drain()
	assert.Len(t, eventsOf(events, EventFeedback), 3)
	for _, ev := range eventsOf(events, EventCardSelected) {
		assert.False(t, ev.Payload.(CardSelectedPayload).Selected)
	}
	assert.Equal(t, before, s.Cards())
}

func TestThreeCardsEvaluateExactlyOnce(t *testing.T) {
	for seed := int64(20); seed < 30; seed++ {
		s, sched, _, rec := newTestSession(t, seed)
		require.NoError(t, s.Start(domain.DifficultyStandard, 60))
		cards := s.Cards()
		selectAll(t, s, cards[:3])

		assert.Len(t, rec.evaluated, 1, "seed %d", seed)
		sched.Advance(testDelay)
		assert.Empty(t, s.Selected(), "seed %d", seed)
	}
}

func TestBackDuringFeedbackSuppressesCallback(t *testing.T) {
	s, sched, out, rec := newTestSession(t, 12)
	require.NoError(t, s.Start(domain.DifficultyStandard, 60))
	selectAll(t, s, findNonSetOnBoard(t, s))
	require.True(t, s.FeedbackPending())

	require.NoError(t, s.Back())
	assert.Equal(t, domain.PhaseIdle, s.Phase())
	assert.Empty(t, s.Cards())
	assert.Equal(t, TimerStopped, s.TimerState())
	assert.Equal(t, []ports.EndReason{ports.EndReasonBack}, rec.ended)
	events := out.Drain()
	assert.Len(t, eventsOf(events, EventCardRemoved), 12)

	sched.Advance(5 * time.Second)
	assert.Empty(t, out.Drain(), "stale callback touched the renderer")
	assert.Zero(t, sched.Pending())
}

func TestStaleFeedbackDoesNotLeakIntoNextGame(t *testing.T) {
	s, sched, out, _ := newTestSession(t, 13)
	require.NoError(t, s.Start(domain.DifficultyStandard, 60))
	selectAll(t, s, findNonSetOnBoard(t, s))
	require.NoError(t, s.Back())
	require.NoError(t, s.Start(domain.DifficultyEasy, 60))
	out.Drain()

	sched.Advance(testDelay)
	events := out.Drain()
	assert.Empty(t, eventsOf(events, EventFeedback))
	assert.Empty(t, eventsOf(events, EventCardSelected))
	assert.Len(t, eventsOf(events, EventTime), 1)
}

func TestExpiryDuringFeedbackStillResolves(t *testing.T) {
	s, sched, out, _ := newTestSession(t, 14)
	require.NoError(t, s.Start(domain.DifficultyStandard, 2))
	sched.Advance(1500 * time.Millisecond)
	selectAll(t, s, findNonSetOnBoard(t, s))
	out.Drain()

	sched.Advance(500 * time.Millisecond)
	require.Equal(t, domain.PhaseEnded, s.Phase())
	assert.True(t, s.FeedbackPending())

	sched.Advance(500 * time.Millisecond)
	assert.False(t, s.FeedbackPending())
	assert.Len(t, eventsOf(out.Drain(), EventFeedback), 3)
}

func TestRestartAfterExpiry(t *testing.T) {
	s, sched, _, rec := newTestSession(t, 15)
	require.NoError(t, s.Start(domain.DifficultyEasy, 1))
	sched.Advance(time.Second)
	require.Equal(t, domain.PhaseEnded, s.Phase())

	require.NoError(t, s.Start(domain.DifficultyStandard, 30))
	assert.Equal(t, domain.PhaseRunning, s.Phase())
	assert.Len(t, s.Cards(), 12)
	assert.Equal(t, 30, s.Remaining())
	assert.Len(t, rec.started, 2)
}

func TestHint(t *testing.T) {
	s, _, out, _ := newTestSession(t, 16)
	_, err := s.Hint()
	require.ErrorIs(t, err, ErrNotRunning)

	require.NoError(t, s.Start(domain.DifficultyStandard, 60))
	findSetOnBoard(t, s)
	out.Drain()

	hint, err := s.Hint()
	require.NoError(t, err)
	require.Len(t, hint, 3)
	assert.True(t, domain.IsSet(hint[0], hint[1], hint[2]))

	hints := eventsOf(out.Drain(), EventHint)
	require.Len(t, hints, 1)
	p := hints[0].Payload.(HintPayload)
	assert.True(t, p.Found)
	assert.Len(t, p.Keys, 3)
}

func TestHandleDispatchesCommands(t *testing.T) {
	s, _, _, _ := newTestSession(t, 17)

	require.NoError(t, s.Handle(StartGame{Difficulty: domain.DifficultyEasy, DurationSeconds: 60}))
	require.Equal(t, domain.PhaseRunning, s.Phase())

	card := s.Cards()[0]
	require.NoError(t, s.Handle(SelectCard{Card: card}))
	assert.Equal(t, []domain.Card{card}, s.Selected())

	require.NoError(t, s.Handle(RefreshBoard{}))
	require.NoError(t, s.Handle(RequestHint{}))
	require.NoError(t, s.Handle(ReturnToMenu{}))
	assert.Equal(t, domain.PhaseIdle, s.Phase())

	require.ErrorIs(t, s.Handle(RefreshBoard{}), ErrNotRunning)
	require.ErrorIs(t, s.Handle(nil), ErrUnknownCommand)
}

func TestGenerationChangesOnStartAndBack(t *testing.T) {
	s, _, _, _ := newTestSession(t, 18)
	g0 := s.Generation()
	require.NoError(t, s.Start(domain.DifficultyEasy, 60))
	g1 := s.Generation()
	require.NoError(t, s.Back())
	g2 := s.Generation()
	assert.Less(t, g0, g1)
	assert.Less(t, g1, g2)
}
