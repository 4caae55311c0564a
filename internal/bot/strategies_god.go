package bot

import (
	"setgame/internal/domain"
)

// GodBot takes the set whose removal leaves the most sets among the cards
// that stay on the board. Ties go to the earliest set in board order.
type GodBot struct{}

func (b *GodBot) CalculateMove(board []domain.Card) (Move, error) {
	sets := domain.AllSets(board)
	if len(sets) == 0 {
		return Move{Refresh: true}, nil
	}

	best, bestScore := 0, -1
	for i, set := range sets {
		if score := domain.CountSets(without(board, set)); score > bestScore {
			best, bestScore = i, score
		}
	}
	return Move{Cards: pick(board, sets[best])}, nil
}

func without(board []domain.Card, idx [3]int) []domain.Card {
	out := make([]domain.Card, 0, len(board)-3)
	for i, c := range board {
		if i == idx[0] || i == idx[1] || i == idx[2] {
			continue
		}
		out = append(out, c)
	}
	return out
}
