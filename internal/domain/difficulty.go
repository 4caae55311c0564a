package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownDifficulty is returned when a difficulty name is not recognised.
var ErrUnknownDifficulty = errors.New("unknown difficulty")

// Difficulty selects the board size and how much the Style dimension varies.
type Difficulty string

const (
	// DifficultyEasy fixes every card's Style to solid and deals 9 cards.
	DifficultyEasy Difficulty = "easy"
	// DifficultyStandard draws Style uniformly and deals 12 cards.
	DifficultyStandard Difficulty = "standard"
)

const (
	EasyBoardSize     = 9
	StandardBoardSize = 12
)

// ParseDifficulty accepts "easy" or "standard" in any case.
func ParseDifficulty(s string) (Difficulty, error) {
	switch Difficulty(strings.ToLower(strings.TrimSpace(s))) {
	case DifficultyEasy:
		return DifficultyEasy, nil
	case DifficultyStandard:
		return DifficultyStandard, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownDifficulty, s)
	}
}

// BoardSize is the default number of cards dealt for the difficulty.
func (d Difficulty) BoardSize() int {
	if d == DifficultyEasy {
		return EasyBoardSize
	}
	return StandardBoardSize
}

// Capacity is the number of distinct cards the generator can produce.
func (d Difficulty) Capacity() int {
	styles := len(Styles)
	if d == DifficultyEasy {
		styles = 1
	}
	return styles * len(Shapes) * len(Colors) * len(Counts)
}

// MaxBoardSize is the largest board that still leaves room for the three
// replacements of a found set, which must differ from every card on the board.
func (d Difficulty) MaxBoardSize() int {
	return d.Capacity() - 3
}
