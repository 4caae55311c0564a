package bot

import (
	"math/rand"

	"setgame/internal/domain"
)

// GoodBot finds a set most of the time and otherwise guesses three cards.
type GoodBot struct {
	rng    *rand.Rand
	tuning Tuning
}

func (b *GoodBot) CalculateMove(board []domain.Card) (Move, error) {
	if len(board) < 3 {
		return Move{Refresh: true}, nil
	}

	if b.rng.Float64() < b.tuning.MissRate {
		perm := b.rng.Perm(len(board))
		return Move{Cards: []domain.Card{board[perm[0]], board[perm[1]], board[perm[2]]}}, nil
	}

	idx, ok := domain.FindSet(board)
	if !ok {
		return Move{Refresh: true}, nil
	}
	return Move{Cards: pick(board, idx)}, nil
}

func pick(board []domain.Card, idx [3]int) []domain.Card {
	return []domain.Card{board[idx[0]], board[idx[1]], board[idx[2]]}
}
