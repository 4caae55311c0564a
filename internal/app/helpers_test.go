package app

import (
	"math/rand"
	"testing"
	"time"

	"setgame/internal/domain"
	"setgame/internal/ports"
	"setgame/internal/schedule"

	"github.com/stretchr/testify/require"
)

type countingRecorder struct {
	started   []domain.Difficulty
	evaluated []bool
	ended     []ports.EndReason
	matches   []int
}

func (r *countingRecorder) GameStarted(d domain.Difficulty) { r.started = append(r.started, d) }
func (r *countingRecorder) SetEvaluated(match bool)         { r.evaluated = append(r.evaluated, match) }
func (r *countingRecorder) GameEnded(reason ports.EndReason, matches int) {
	r.ended = append(r.ended, reason)
	r.matches = append(r.matches, matches)
}

func newTestSession(t *testing.T, seed int64) (*Session, *schedule.Scheduler, *Outbox, *countingRecorder) {
	t.Helper()
	sched := schedule.New()
	out := NewOutbox()
	rec := &countingRecorder{}
	s := NewSession(sched, out, out, Options{
		Rand:     rand.New(rand.NewSource(seed)),
		Recorder: rec,
	})
	return s, sched, out, rec
}

func eventsOf(events []Event, kind EventKind) []Event {
	var out []Event
	for _, ev := range events {
		if ev.Kind == kind {
			out = append(out, ev)
		}
	}
	return out
}

// findSetOnBoard refreshes until the board holds a set and returns it.
func findSetOnBoard(t *testing.T, s *Session) []domain.Card {
	t.Helper()
	for i := 0; i < 100; i++ {
		cards := s.Cards()
		if idx, ok := domain.FindSet(cards); ok {
			return []domain.Card{cards[idx[0]], cards[idx[1]], cards[idx[2]]}
		}
		require.NoError(t, s.Refresh())
	}
	t.Fatal("no set found after 100 refreshes")
	return nil
}

// findNonSetOnBoard returns three board cards that do not form a set.
func findNonSetOnBoard(t *testing.T, s *Session) []domain.Card {
	t.Helper()
	cards := s.Cards()
	for i := 0; i < len(cards); i++ {
		for j := i + 1; j < len(cards); j++ {
			for k := j + 1; k < len(cards); k++ {
				if !domain.IsSet(cards[i], cards[j], cards[k]) {
					return []domain.Card{cards[i], cards[j], cards[k]}
				}
			}
		}
	}
	t.Fatal("every triple on the board is a set")
	return nil
}

func selectAll(t *testing.T, s *Session, cards []domain.Card) {
	t.Helper()
	for _, c := range cards {
		require.NoError(t, s.SelectCard(c))
	}
}

func requireDistinct(t *testing.T, cards []domain.Card) {
	t.Helper()
	seen := make(map[string]bool, len(cards))
	for _, c := range cards {
		require.False(t, seen[c.Key()], "duplicate card %s", c.Key())
		seen[c.Key()] = true
	}
}

const testDelay = time.Second
