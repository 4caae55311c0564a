package bot

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"setgame/internal/app"
	"setgame/internal/domain"
	"setgame/internal/schedule"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func card(t *testing.T, key string) domain.Card {
	t.Helper()
	c, err := domain.ParseKey(key)
	require.NoError(t, err)
	return c
}

// boardWithOneSet holds exactly one set: positions 0, 1 and 2.
func boardWithOneSet(t *testing.T) []domain.Card {
	board := []domain.Card{
		card(t, "solid-diamond-green-1"),
		card(t, "solid-diamond-green-2"),
		card(t, "solid-diamond-green-3"),
		card(t, "solid-oval-purple-1"),
		card(t, "solid-oval-red-2"),
	}
	require.Equal(t, 1, domain.CountSets(board))
	return board
}

func boardWithoutSet(t *testing.T) []domain.Card {
	board := []domain.Card{
		card(t, "solid-diamond-green-1"),
		card(t, "solid-diamond-green-2"),
		card(t, "solid-oval-purple-1"),
		card(t, "solid-oval-purple-2"),
	}
	require.Zero(t, domain.CountSets(board))
	return board
}

func TestBrainsFindTheOnlySet(t *testing.T) {
	board := boardWithOneSet(t)
	for _, level := range []BotLevel{BotLevelSmart, BotLevelGod} {
		t.Run(level.String(), func(t *testing.T) {
			brain, err := NewBrain(level, rand.New(rand.NewSource(1)))
			require.NoError(t, err)
			move, err := brain.CalculateMove(board)
			require.NoError(t, err)
			assert.False(t, move.Refresh)
			assert.ElementsMatch(t, board[:3], move.Cards)
		})
	}
}

func TestBrainsRefreshWithoutSet(t *testing.T) {
	board := boardWithoutSet(t)
	for _, level := range []BotLevel{BotLevelGood, BotLevelSmart, BotLevelGod} {
		t.Run(level.String(), func(t *testing.T) {
			brain, err := NewBrain(level, rand.New(rand.NewSource(2)))
			require.NoError(t, err)
			if good, ok := brain.(*GoodBot); ok {
				good.tuning.MissRate = 0
			}
			move, err := brain.CalculateMove(board)
			require.NoError(t, err)
			assert.True(t, move.Refresh)
			assert.Empty(t, move.Cards)
		})
	}
}

func TestGoodBotMissesSometimes(t *testing.T) {
	board := boardWithOneSet(t)
	bot := &GoodBot{rng: rand.New(rand.NewSource(3)), tuning: Tuning{MissRate: 0.5}}

	found, guessed := 0, 0
	for i := 0; i < 200; i++ {
		move, err := bot.CalculateMove(board)
		require.NoError(t, err)
		require.Len(t, move.Cards, 3)
		if domain.IsSet(move.Cards[0], move.Cards[1], move.Cards[2]) {
			found++
		} else {
			guessed++
		}
	}
	assert.Positive(t, found)
	assert.Positive(t, guessed)
}

func TestGodBotKeepsTheRicherBoard(t *testing.T) {
	// Two disjoint sets: either choice leaves one set behind.
	board := []domain.Card{
		card(t, "solid-diamond-green-1"),
		card(t, "solid-diamond-green-2"),
		card(t, "solid-diamond-green-3"),
		card(t, "solid-oval-purple-1"),
		card(t, "solid-oval-purple-2"),
		card(t, "solid-oval-purple-3"),
	}
	move, err := (&GodBot{}).CalculateMove(board)
	require.NoError(t, err)
	require.Len(t, move.Cards, 3)
	assert.True(t, domain.IsSet(move.Cards[0], move.Cards[1], move.Cards[2]))
	assert.Equal(t, board[:3], move.Cards, "ties go to the earliest set")
}

func TestParseLevel(t *testing.T) {
	for _, s := range []string{"good", "Smart", " GOD "} {
		_, err := ParseLevel(s)
		assert.NoError(t, err, s)
	}
	_, err := ParseLevel("legendary")
	assert.Error(t, err)

	_, err = NewBrain(BotLevel(9), nil)
	assert.Error(t, err)
}

func TestAgentPlaysAgainstSession(t *testing.T) {
	sched := schedule.New()
	session := app.NewSession(sched, app.NewOutbox(), app.NewOutbox(), app.Options{
		Rand: rand.New(rand.NewSource(4)),
	})
	brain, err := NewBrain(BotLevelGod, nil)
	require.NoError(t, err)
	agent := &Agent{ID: "bot-1", Name: "god", Strategy: brain}

	move, err := agent.Play(session)
	require.NoError(t, err)
	assert.Equal(t, Move{}, move, "idle session accepts no moves")

	require.NoError(t, session.Start(domain.DifficultyStandard, 60))
	for i := 0; i < 20 && session.MatchCount() == 0; i++ {
		_, err := agent.Act(session)
		require.NoError(t, err)
		sched.Advance(time.Second)
	}
	assert.Positive(t, session.MatchCount())
}

func TestSimulate(t *testing.T) {
	result, err := Simulate(context.Background(), SimulationConfig{
		Difficulty:      domain.DifficultyStandard,
		DurationSeconds: 60,
		Level:           BotLevelSmart,
		Seed:            42,
	})
	require.NoError(t, err)
	assert.Positive(t, result.Matches)
	assert.Equal(t, result.Matches, result.Evaluations, "smart bot never guesses")
	assert.Equal(t, 60*time.Second, result.Elapsed)
}

func TestSimulateDeterministic(t *testing.T) {
	cfg := SimulationConfig{
		Difficulty:      domain.DifficultyEasy,
		DurationSeconds: 30,
		Level:           BotLevelGood,
		Seed:            7,
	}
	first, err := Simulate(context.Background(), cfg)
	require.NoError(t, err)
	second, err := Simulate(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestSimulateRejectsBadConfig(t *testing.T) {
	_, err := Simulate(context.Background(), SimulationConfig{
		Difficulty:      domain.DifficultyEasy,
		DurationSeconds: 0,
	})
	require.ErrorIs(t, err, app.ErrInvalidDuration)
}

func TestSimulateHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Simulate(ctx, SimulationConfig{
		Difficulty:      domain.DifficultyEasy,
		DurationSeconds: 60,
		Level:           BotLevelGod,
	})
	require.ErrorIs(t, err, context.Canceled)
}
