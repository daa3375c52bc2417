// Package gameclock provides the game clock with an optional duration cap.
package gameclock

// State represents the game clock state.
type State int

const (
	StateIdle    State = iota // Not started, zero elapsed
	StateRunning              // Counting
	StatePaused               // Stopped with banked time
	StateCapped               // Reached the cap; terminal until reset
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StatePaused:
		return "paused"
	case StateCapped:
		return "capped"
	default:
		return "unknown"
	}
}
