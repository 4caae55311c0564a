package domain

// Phase represents the lifecycle stage of a game session.
type Phase string

const (
	// PhaseIdle is the menu state: no board, no timer.
	PhaseIdle Phase = "idle"
	// PhaseRunning is the active state where cards can be selected.
	PhaseRunning Phase = "running"
	// PhaseEnded is the state after the timer expired. The board stays
	// visible but frozen until the player returns to the menu.
	PhaseEnded Phase = "ended"
)
