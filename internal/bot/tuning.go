package bot

import "time"

// Tuning holds the knobs that make weaker bots play like people.
type Tuning struct {
	// MissRate is the chance the good bot overlooks a set and guesses instead.
	MissRate float64
	// ThinkTime is the virtual time an agent waits between moves.
	ThinkTime time.Duration
}

// DefaultTuning is used by NewBrain and Simulate.
var DefaultTuning = Tuning{
	MissRate:  0.25,
	ThinkTime: 3 * time.Second,
}
