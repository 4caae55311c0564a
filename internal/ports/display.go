package ports

// Display defines the interface for the controls around the board.
type Display interface {
	// SetTime shows the remaining time formatted as MM:SS.
	SetTime(text string)

	// SetMatchCount shows the number of sets found this game.
	SetMatchCount(n int)

	// SetControlsEnabled enables or disables card clicks and the refresh action.
	SetControlsEnabled(enabled bool)
}
