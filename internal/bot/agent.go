package bot

import (
	"errors"

	"setgame/internal/app"
	"setgame/internal/domain"
)

// Agent represents an autonomous bot player.
type Agent struct {
	ID       string
	Name     string
	Strategy Brain
}

// Play asks the agent to calculate its move for the session's current board.
// It returns an empty move when the session does not accept input.
func (a *Agent) Play(s *app.Session) (Move, error) {
	if s.Phase() != domain.PhaseRunning || s.FeedbackPending() {
		return Move{}, nil
	}
	return a.Strategy.CalculateMove(s.Cards())
}

// Act plays one move against the session and returns it.
func (a *Agent) Act(s *app.Session) (Move, error) {
	move, err := a.Play(s)
	if err != nil {
		return move, err
	}
	return move, a.Apply(s, move)
}

// Apply issues the commands for move. A partial selection left from earlier
// is cleared first. Moves rejected because of the session phase are dropped.
func (a *Agent) Apply(s *app.Session, move Move) error {
	var cmds []app.Command
	if move.Refresh {
		cmds = append(cmds, app.RefreshBoard{})
	} else if len(move.Cards) > 0 {
		for _, c := range s.Selected() {
			cmds = append(cmds, app.SelectCard{Card: c})
		}
		for _, c := range move.Cards {
			cmds = append(cmds, app.SelectCard{Card: c})
		}
	}

	for _, cmd := range cmds {
		if err := s.Handle(cmd); err != nil {
			if errors.Is(err, app.ErrInvalidTransition) {
				return nil
			}
			return err
		}
	}
	return nil
}
