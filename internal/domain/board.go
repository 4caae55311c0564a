package domain

import (
	"errors"
	"fmt"
)

var (
	ErrDuplicateCard      = errors.New("card already on board")
	ErrPositionOutOfRange = errors.New("board position out of range")
)

// Board is the ordered sequence of cards in play. Keys are pairwise distinct;
// every insertion checks it, so the whole board never needs rescanning.
type Board struct {
	cards []Card
	index map[string]int // key -> position
}

// NewBoard returns an empty board.
func NewBoard() *Board {
	return &Board{index: make(map[string]int)}
}

// Len returns the number of cards on the board.
func (b *Board) Len() int {
	return len(b.cards)
}

// Cards returns a copy of the cards in board order.
func (b *Board) Cards() []Card {
	out := make([]Card, len(b.cards))
	copy(out, b.cards)
	return out
}

// At returns the card at pos.
func (b *Board) At(pos int) (Card, error) {
	if pos < 0 || pos >= len(b.cards) {
		return Card{}, fmt.Errorf("%w: %d", ErrPositionOutOfRange, pos)
	}
	return b.cards[pos], nil
}

// IndexOf returns the position of card, if it is on the board.
func (b *Board) IndexOf(card Card) (int, bool) {
	pos, ok := b.index[card.Key()]
	return pos, ok
}

// Contains implements KeySet.
func (b *Board) Contains(key string) bool {
	_, ok := b.index[key]
	return ok
}

// Append adds card at the end of the board.
func (b *Board) Append(card Card) error {
	if b.Contains(card.Key()) {
		return fmt.Errorf("%w: %s", ErrDuplicateCard, card.Key())
	}
	b.index[card.Key()] = len(b.cards)
	b.cards = append(b.cards, card)
	return nil
}

// Put replaces the card at pos, keeping board order. The incoming card may
// reuse the key of the card it replaces but no other key on the board.
func (b *Board) Put(pos int, card Card) error {
	if pos < 0 || pos >= len(b.cards) {
		return fmt.Errorf("%w: %d", ErrPositionOutOfRange, pos)
	}
	if at, ok := b.index[card.Key()]; ok && at != pos {
		return fmt.Errorf("%w: %s", ErrDuplicateCard, card.Key())
	}
	delete(b.index, b.cards[pos].Key())
	b.cards[pos] = card
	b.index[card.Key()] = pos
	return nil
}

// Clear removes every card.
func (b *Board) Clear() {
	b.cards = nil
	b.index = make(map[string]int)
}

// Except returns a KeySet view of the board that ignores the card at pos.
// Used when regenerating a position whose current card is being discarded.
func (b *Board) Except(pos int) KeySet {
	return exceptPosition{board: b, pos: pos}
}

type exceptPosition struct {
	board *Board
	pos   int
}

func (e exceptPosition) Contains(key string) bool {
	at, ok := e.board.index[key]
	return ok && at != e.pos
}
