package app

import "time"

// DefaultFeedbackDelay is how long match/reject feedback stays on the board
// before the selection clears.
const DefaultFeedbackDelay = time.Second

// TickInterval is the countdown resolution of the game timer.
const TickInterval = time.Second
