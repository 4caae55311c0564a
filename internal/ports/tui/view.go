package tui

import (
	"setgame/internal/domain"
	"setgame/internal/ports"
)

// boardView mirrors what a graphical renderer would draw. The session writes
// to it through the Renderer, Display and Hinter ports.
type boardView struct {
	cards    []domain.Card
	selected map[domain.Card]bool
	feedback map[domain.Card]ports.FeedbackKind
	hint     map[domain.Card]bool
	time     string
	matches  int
	enabled  bool
}

var (
	_ ports.Renderer = (*boardView)(nil)
	_ ports.Display  = (*boardView)(nil)
	_ ports.Hinter   = (*boardView)(nil)
)

func newBoardView() *boardView {
	return &boardView{
		selected: make(map[domain.Card]bool),
		feedback: make(map[domain.Card]ports.FeedbackKind),
		hint:     make(map[domain.Card]bool),
		time:     "--:--",
		enabled:  true,
	}
}

func (v *boardView) ShowCard(position int, card domain.Card) {
	for len(v.cards) <= position {
		v.cards = append(v.cards, domain.Card{})
	}
	old := v.cards[position]
	delete(v.selected, old)
	delete(v.hint, old)
	v.cards[position] = card
}

func (v *boardView) RemoveCard(position int) {
	if position < 0 || position >= len(v.cards) {
		return
	}
	card := v.cards[position]
	delete(v.selected, card)
	delete(v.feedback, card)
	delete(v.hint, card)
	v.cards = append(v.cards[:position], v.cards[position+1:]...)
}

func (v *boardView) SetSelected(card domain.Card, selected bool) {
	if selected {
		v.selected[card] = true
		return
	}
	delete(v.selected, card)
}

func (v *boardView) SetFeedback(card domain.Card, kind ports.FeedbackKind, on bool) {
	if on {
		v.feedback[card] = kind
		return
	}
	if v.feedback[card] == kind {
		delete(v.feedback, card)
	}
}

func (v *boardView) SetTime(text string)             { v.time = text }
func (v *boardView) SetMatchCount(n int)             { v.matches = n }
func (v *boardView) SetControlsEnabled(enabled bool) { v.enabled = enabled }

func (v *boardView) ShowHint(cards []domain.Card) {
	v.hint = make(map[domain.Card]bool, len(cards))
	for _, c := range cards {
		v.hint[c] = true
	}
}
