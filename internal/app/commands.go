package app

import (
	"fmt"

	"setgame/internal/domain"

	"go.uber.org/zap"
)

// Command is an input event consumed by Session.Handle.
type Command interface {
	command()
}

// StartGame is sent when the player presses start on the menu.
type StartGame struct {
	Difficulty      domain.Difficulty
	DurationSeconds int
}

// SelectCard is sent when the player clicks a card.
type SelectCard struct {
	Card domain.Card
}

// RefreshBoard is sent when the player asks for a new board.
type RefreshBoard struct{}

// ReturnToMenu is sent when the player presses back.
type ReturnToMenu struct{}

// RequestHint asks the session to point out a set.
type RequestHint struct{}

func (StartGame) command()    {}
func (SelectCard) command()   {}
func (RefreshBoard) command() {}
func (ReturnToMenu) command() {}
func (RequestHint) command()  {}

// Handle applies one command to the session. Rejected commands are logged at
// debug level and returned unchanged.
func (s *Session) Handle(cmd Command) error {
	err := s.dispatch(cmd)
	if err != nil {
		s.logger.Debug("Session: command rejected",
			zap.String("command", fmt.Sprintf("%T", cmd)),
			zap.String("phase", string(s.phase)),
			zap.Error(err))
	}
	return err
}

func (s *Session) dispatch(cmd Command) error {
	switch c := cmd.(type) {
	case StartGame:
		return s.Start(c.Difficulty, c.DurationSeconds)
	case SelectCard:
		return s.SelectCard(c.Card)
	case RefreshBoard:
		return s.Refresh()
	case ReturnToMenu:
		return s.Back()
	case RequestHint:
		_, err := s.Hint()
		return err
	default:
		return fmt.Errorf("%w: %T", ErrUnknownCommand, cmd)
	}
}
