package bot

import (
	"setgame/internal/domain"
)

// Move represents the decision made by the AI.
type Move struct {
	// Refresh asks for a new board instead of picking cards.
	Refresh bool
	Cards   []domain.Card
}

// Brain is the interface that all bot strategies must implement.
type Brain interface {
	CalculateMove(board []domain.Card) (Move, error)
}
