package ports

import "setgame/internal/domain"

// FeedbackKind selects the transient visual applied after an evaluation.
type FeedbackKind string

const (
	// FeedbackMatch marks the cards that replaced a found set.
	FeedbackMatch FeedbackKind = "match"
	// FeedbackReject marks three selected cards that are not a set.
	FeedbackReject FeedbackKind = "reject"
)

// Label is the text shown on a card while the feedback is active.
func (k FeedbackKind) Label() string {
	switch k {
	case FeedbackMatch:
		return "SET!"
	case FeedbackReject:
		return "Not a Set"
	default:
		return ""
	}
}

// Renderer defines the interface for drawing the board.
type Renderer interface {
	// ShowCard draws card at the given board position, replacing whatever was there.
	ShowCard(position int, card domain.Card)

	// RemoveCard destroys the view at the given board position.
	RemoveCard(position int)

	// SetSelected toggles the selection highlight of a card on the board.
	SetSelected(card domain.Card, selected bool)

	// SetFeedback toggles the match/reject flag and its label on a card.
	SetFeedback(card domain.Card, kind FeedbackKind, on bool)
}

// Hinter is implemented by renderers that can point out a set on request.
type Hinter interface {
	ShowHint(cards []domain.Card)
}
