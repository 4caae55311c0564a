package app

import (
	"fmt"

	"setgame/internal/domain"
	"setgame/internal/ports"
)

// BoardManager owns the board and keeps the Renderer in step with it.
// Each generation is followed by its insertion before the next generation
// consults the board, so keys stay pairwise distinct.
type BoardManager struct {
	board    *domain.Board
	gen      *domain.Generator
	renderer ports.Renderer
	sizes    map[domain.Difficulty]int
}

// NewBoardManager constructs a manager over an empty board. sizes overrides
// the default board size per difficulty; missing entries use the defaults.
func NewBoardManager(gen *domain.Generator, renderer ports.Renderer, sizes map[domain.Difficulty]int) *BoardManager {
	return &BoardManager{
		board:    domain.NewBoard(),
		gen:      gen,
		renderer: renderer,
		sizes:    sizes,
	}
}

// Board exposes the underlying board for reads.
func (m *BoardManager) Board() *domain.Board {
	return m.board
}

// Size returns the number of cards dealt for d.
func (m *BoardManager) Size(d domain.Difficulty) int {
	if n, ok := m.sizes[d]; ok && n > 0 {
		return n
	}
	return d.BoardSize()
}

// Populate clears the board and deals a fresh one.
func (m *BoardManager) Populate(d domain.Difficulty) error {
	m.Clear()
	size := m.Size(d)
	for i := 0; i < size; i++ {
		card, err := m.gen.Generate(d, m.board)
		if err != nil {
			return fmt.Errorf("populate position %d: %w", i, err)
		}
		if err := m.board.Append(card); err != nil {
			return err
		}
		m.renderer.ShowCard(i, card)
	}
	return nil
}

// Refresh replaces every card, one position at a time, checking uniqueness
// against the board as it is being rebuilt.
func (m *BoardManager) Refresh(d domain.Difficulty) error {
	for i := 0; i < m.board.Len(); i++ {
		card, err := m.gen.Generate(d, m.board.Except(i))
		if err != nil {
			return fmt.Errorf("refresh position %d: %w", i, err)
		}
		if err := m.board.Put(i, card); err != nil {
			return err
		}
		m.renderer.ShowCard(i, card)
	}
	return nil
}

// Replace swaps the card at pos for a freshly generated one that differs from
// every card currently on the board, the outgoing card included.
func (m *BoardManager) Replace(d domain.Difficulty, pos int) (domain.Card, error) {
	cards, err := m.ReplaceAll(d, []int{pos})
	if err != nil {
		return domain.Card{}, err
	}
	return cards[0], nil
}

// ReplaceAll swaps the cards at positions for fresh ones. Every replacement is
// drawn before the board changes, so on error the board and the renderer are
// left untouched.
func (m *BoardManager) ReplaceAll(d domain.Difficulty, positions []int) ([]domain.Card, error) {
	for _, pos := range positions {
		if _, err := m.board.At(pos); err != nil {
			return nil, err
		}
	}
	drawn := make(domain.Keys, len(positions))
	taken := drawnKeys{board: m.board, drawn: drawn}
	cards := make([]domain.Card, 0, len(positions))
	for _, pos := range positions {
		card, err := m.gen.Generate(d, taken)
		if err != nil {
			return nil, fmt.Errorf("replace position %d: %w", pos, err)
		}
		drawn[card.Key()] = struct{}{}
		cards = append(cards, card)
	}

	for i, pos := range positions {
		if err := m.board.Put(pos, cards[i]); err != nil {
			return nil, err
		}
		m.renderer.ShowCard(pos, cards[i])
	}
	return cards, nil
}

// drawnKeys treats cards drawn for a pending replacement as already on the board.
type drawnKeys struct {
	board domain.KeySet
	drawn domain.Keys
}

func (k drawnKeys) Contains(key string) bool {
	return k.board.Contains(key) || k.drawn.Contains(key)
}

// Clear removes every card view and empties the board.
func (m *BoardManager) Clear() {
	for i := m.board.Len() - 1; i >= 0; i-- {
		m.renderer.RemoveCard(i)
	}
	m.board.Clear()
}
