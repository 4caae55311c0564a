package app

import (
	"setgame/internal/domain"
	"setgame/internal/ports"
)

// EventKind identifies emitted session events for transport dispatch.
type EventKind string

const (
	EventCardShown    EventKind = "card_shown"
	EventCardRemoved  EventKind = "card_removed"
	EventCardSelected EventKind = "card_selected"
	EventFeedback     EventKind = "feedback"
	EventTime         EventKind = "time"
	EventMatchCount   EventKind = "match_count"
	EventControls     EventKind = "controls"
	EventHint         EventKind = "hint"
	EventPhase        EventKind = "phase"
	EventError        EventKind = "error"
)

// Event is a session event waiting to be sent to a client.
type Event struct {
	Kind    EventKind
	Payload any
}

// CardView is the wire form of a card.
type CardView struct {
	Key   string `json:"key"`
	Style string `json:"style"`
	Shape string `json:"shape"`
	Color string `json:"color"`
	Count int    `json:"count"`
}

// NewCardView converts a domain card to its wire form.
func NewCardView(c domain.Card) CardView {
	return CardView{
		Key:   c.Key(),
		Style: string(c.Style),
		Shape: string(c.Shape),
		Color: string(c.Color),
		Count: int(c.Count),
	}
}

type CardShownPayload struct {
	Position int      `json:"position"`
	Card     CardView `json:"card"`
}

type CardRemovedPayload struct {
	Position int `json:"position"`
}

type CardSelectedPayload struct {
	Key      string `json:"key"`
	Selected bool   `json:"selected"`
}

type FeedbackPayload struct {
	Key   string             `json:"key"`
	Kind  ports.FeedbackKind `json:"kind"`
	Label string             `json:"label"`
	On    bool               `json:"on"`
}

type TimePayload struct {
	Text string `json:"text"`
}

type MatchCountPayload struct {
	Count int `json:"count"`
}

type ControlsPayload struct {
	Enabled bool `json:"enabled"`
}

type HintPayload struct {
	Keys  []string `json:"keys"`
	Found bool     `json:"found"`
}

type PhasePayload struct {
	Phase      domain.Phase      `json:"phase"`
	Difficulty domain.Difficulty `json:"difficulty,omitempty"`
	Matches    int               `json:"matches"`
}

type ErrorPayload struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Outbox collects renderer and display calls as events. Transports hand it
// to the session as both ports and drain it after each command or clock advance.
type Outbox struct {
	events []Event
}

var (
	_ ports.Renderer = (*Outbox)(nil)
	_ ports.Display  = (*Outbox)(nil)
	_ ports.Hinter   = (*Outbox)(nil)
)

// NewOutbox returns an empty outbox.
func NewOutbox() *Outbox {
	return &Outbox{}
}

// Drain returns the queued events in emission order and empties the outbox.
func (o *Outbox) Drain() []Event {
	out := o.events
	o.events = nil
	return out
}

// Len returns the number of queued events.
func (o *Outbox) Len() int {
	return len(o.events)
}

func (o *Outbox) push(kind EventKind, payload any) {
	o.events = append(o.events, Event{Kind: kind, Payload: payload})
}

// ShowCard implements ports.Renderer.
func (o *Outbox) ShowCard(position int, card domain.Card) {
	o.push(EventCardShown, CardShownPayload{Position: position, Card: NewCardView(card)})
}

// RemoveCard implements ports.Renderer.
func (o *Outbox) RemoveCard(position int) {
	o.push(EventCardRemoved, CardRemovedPayload{Position: position})
}

// SetSelected implements ports.Renderer.
func (o *Outbox) SetSelected(card domain.Card, selected bool) {
	o.push(EventCardSelected, CardSelectedPayload{Key: card.Key(), Selected: selected})
}

// SetFeedback implements ports.Renderer. The label is empty when the flag is cleared.
func (o *Outbox) SetFeedback(card domain.Card, kind ports.FeedbackKind, on bool) {
	label := ""
	if on {
		label = kind.Label()
	}
	o.push(EventFeedback, FeedbackPayload{Key: card.Key(), Kind: kind, Label: label, On: on})
}

// SetTime implements ports.Display.
func (o *Outbox) SetTime(text string) {
	o.push(EventTime, TimePayload{Text: text})
}

// SetMatchCount implements ports.Display.
func (o *Outbox) SetMatchCount(n int) {
	o.push(EventMatchCount, MatchCountPayload{Count: n})
}

// SetControlsEnabled implements ports.Display.
func (o *Outbox) SetControlsEnabled(enabled bool) {
	o.push(EventControls, ControlsPayload{Enabled: enabled})
}

// ShowHint implements ports.Hinter. Found is false when the board holds no set.
func (o *Outbox) ShowHint(cards []domain.Card) {
	keys := make([]string, 0, len(cards))
	for _, c := range cards {
		keys = append(keys, c.Key())
	}
	o.push(EventHint, HintPayload{Keys: keys, Found: len(keys) > 0})
}

// PhaseEvent snapshots the session phase as an event.
func PhaseEvent(s *Session) Event {
	return Event{Kind: EventPhase, Payload: PhasePayload{
		Phase:      s.Phase(),
		Difficulty: s.Difficulty(),
		Matches:    s.MatchCount(),
	}}
}

// ErrorEvent wraps a rejected command for the client.
func ErrorEvent(code int, err error) Event {
	return Event{Kind: EventError, Payload: ErrorPayload{Code: code, Message: err.Error()}}
}
