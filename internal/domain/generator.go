package domain

import (
	"errors"
	"math/rand"
	"time"
)

// DefaultMaxAttempts bounds the draws Generate makes before giving up.
const DefaultMaxAttempts = 10000

// ErrGenerationExhausted means no unused attribute combination was drawn
// within the attempt budget. With a valid board size this only happens on
// misconfiguration.
var ErrGenerationExhausted = errors.New("card generation exhausted")

// KeySet answers whether a card key is already taken.
type KeySet interface {
	Contains(key string) bool
}

// Keys is a plain KeySet.
type Keys map[string]struct{}

// Contains implements KeySet.
func (k Keys) Contains(key string) bool {
	_, ok := k[key]
	return ok
}

// Generator draws random cards.
type Generator struct {
	rng         *rand.Rand
	maxAttempts int
}

// NewGenerator constructs a Generator with provided rng or a time-seeded default.
// maxAttempts <= 0 selects DefaultMaxAttempts.
func NewGenerator(rng *rand.Rand, maxAttempts int) *Generator {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	return &Generator{rng: rng, maxAttempts: maxAttempts}
}

// Random draws one card. Easy pins Style to solid.
func (g *Generator) Random(d Difficulty) Card {
	style := StyleSolid
	if d != DifficultyEasy {
		style = Styles[g.rng.Intn(len(Styles))]
	}
	return Card{
		Style: style,
		Shape: Shapes[g.rng.Intn(len(Shapes))],
		Color: Colors[g.rng.Intn(len(Colors))],
		Count: Counts[g.rng.Intn(len(Counts))],
	}
}

// Generate returns a card whose key is not in existing.
func (g *Generator) Generate(d Difficulty, existing KeySet) (Card, error) {
	for i := 0; i < g.maxAttempts; i++ {
		card := g.Random(d)
		if existing == nil || !existing.Contains(card.Key()) {
			return card, nil
		}
	}
	return Card{}, ErrGenerationExhausted
}
