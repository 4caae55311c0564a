package app

import (
	"encoding/json"
	"testing"

	"setgame/internal/domain"
	"setgame/internal/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutboxDrainPreservesOrder(t *testing.T) {
	out := NewOutbox()
	card := domain.Card{Style: domain.StyleSolid, Shape: domain.ShapeDiamond, Color: domain.ColorGreen, Count: 1}

	out.ShowCard(0, card)
	out.SetSelected(card, true)
	out.SetFeedback(card, ports.FeedbackReject, true)
	out.SetFeedback(card, ports.FeedbackReject, false)
	out.SetTime("00:59")

	events := out.Drain()
	require.Len(t, events, 5)
	kinds := make([]EventKind, 0, len(events))
	for _, ev := range events {
		kinds = append(kinds, ev.Kind)
	}
	assert.Equal(t, []EventKind{EventCardShown, EventCardSelected, EventFeedback, EventFeedback, EventTime}, kinds)
	assert.Equal(t, "Not a Set", events[2].Payload.(FeedbackPayload).Label)
	assert.Empty(t, events[3].Payload.(FeedbackPayload).Label)
	assert.Zero(t, out.Len())
}

func TestCardShownPayloadJSON(t *testing.T) {
	card := domain.Card{Style: domain.StyleStriped, Shape: domain.ShapeSquiggle, Color: domain.ColorPurple, Count: 3}
	raw, err := json.Marshal(CardShownPayload{Position: 4, Card: NewCardView(card)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"position":4,"card":{"key":"striped-squiggle-purple-3","style":"striped","shape":"squiggle","color":"purple","count":3}}`, string(raw))
}

func TestShowHintWithoutSet(t *testing.T) {
	out := NewOutbox()
	out.ShowHint(nil)
	events := out.Drain()
	require.Len(t, events, 1)
	p := events[0].Payload.(HintPayload)
	assert.False(t, p.Found)
	assert.Empty(t, p.Keys)
}
