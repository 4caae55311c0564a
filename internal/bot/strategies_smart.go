package bot

import (
	"math/rand"

	"setgame/internal/domain"
)

// SmartBot never misses a set but picks among the available ones at random.
type SmartBot struct {
	rng *rand.Rand
}

func (b *SmartBot) CalculateMove(board []domain.Card) (Move, error) {
	sets := domain.AllSets(board)
	if len(sets) == 0 {
		return Move{Refresh: true}, nil
	}
	return Move{Cards: pick(board, sets[b.rng.Intn(len(sets))])}, nil
}
