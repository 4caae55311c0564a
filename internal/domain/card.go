package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidKey is returned when a card key cannot be parsed.
var ErrInvalidKey = errors.New("invalid card key")

// Card is one immutable attribute combination. Two cards are the same card
// iff all four attributes match, so Card is usable as a map key.
type Card struct {
	Style Style
	Shape Shape
	Color Color
	Count Count
}

// Key returns the canonical identifier of the card, e.g. "solid-diamond-green-1".
func (c Card) Key() string {
	return string(c.Style) + "-" + string(c.Shape) + "-" + string(c.Color) + "-" + strconv.Itoa(int(c.Count))
}

func (c Card) String() string {
	return c.Key()
}

// Valid reports whether every attribute belongs to its domain.
func (c Card) Valid() bool {
	return validStyle(c.Style) && validShape(c.Shape) && validColor(c.Color) && validCount(c.Count)
}

// ParseKey turns a key produced by Card.Key back into a Card.
func ParseKey(key string) (Card, error) {
	parts := strings.Split(key, "-")
	if len(parts) != 4 {
		return Card{}, fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	n, err := strconv.Atoi(parts[3])
	if err != nil {
		return Card{}, fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	card := Card{
		Style: Style(parts[0]),
		Shape: Shape(parts[1]),
		Color: Color(parts[2]),
		Count: Count(n),
	}
	if !card.Valid() {
		return Card{}, fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return card, nil
}
