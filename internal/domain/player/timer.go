// Package player provides the per-player time accumulator.
package player

import "time"

// Timer tracks how long a player has been on the field.
//
// StartedAt is non-nil only while the player is active and the game clock is
// running. Accumulated holds completed intervals and never exceeds the cap.
type Timer struct {
	ID          int           // Stable roster ID
	Name        string        // Display name
	IsActive    bool          // On the field
	StartedAt   *time.Time    // Start of the in-flight interval
	Accumulated time.Duration // Banked time from completed intervals
}

// Record is the persisted form of a Timer. In-flight time is never part of it.
type Record struct {
	ID          int           `yaml:"id" mapstructure:"id" json:"id"`
	Name        string        `yaml:"name" mapstructure:"name" json:"name"`
	IsActive    bool          `yaml:"active" mapstructure:"active" json:"active"`
	Accumulated time.Duration `yaml:"accumulated" mapstructure:"accumulated" json:"accumulated"`
}

// NewTimer creates an inactive timer with no accumulated time.
func NewTimer(id int, name string) *Timer {
	return &Timer{
		ID:   id,
		Name: name,
	}
}

// FromRecord rebuilds a timer from persisted data.
// The restored timer is never accumulating; the next game start resumes it.
func FromRecord(r Record) *Timer {
	acc := r.Accumulated
	if acc < 0 {
		acc = 0
	}
	return &Timer{
		ID:          r.ID,
		Name:        r.Name,
		IsActive:    r.IsActive,
		Accumulated: acc,
	}
}

// Record returns the persisted form of the timer.
func (t *Timer) Record() Record {
	return Record{
		ID:          t.ID,
		Name:        t.Name,
		IsActive:    t.IsActive,
		Accumulated: t.Accumulated,
	}
}

// Toggle flips the active flag under the current game-clock state and
// returns the new flag.
func (t *Timer) Toggle(now time.Time, running bool, limit time.Duration) bool {
	if t.IsActive {
		t.deactivate(now, limit)
	} else {
		t.activate(now, running)
	}
	return t.IsActive
}

// Resume starts the in-flight interval of an active player whose clock is
// stopped. It does nothing for inactive or already accumulating players.
func (t *Timer) Resume(now time.Time) {
	if !t.IsActive || t.StartedAt != nil {
		return
	}
	started := now
	t.StartedAt = &started
}

// FoldAndStop banks the in-flight interval and stops accumulating.
// IsActive is left untouched so the next resume restarts the clock.
func (t *Timer) FoldAndStop(now time.Time, limit time.Duration) {
	if t.StartedAt == nil {
		return
	}
	elapsed := now.Sub(*t.StartedAt)
	if elapsed < 0 {
		elapsed = 0
	}
	t.Accumulated = Clamp(t.Accumulated+elapsed, limit)
	t.StartedAt = nil
}

// Reset zeroes the timer and takes the player off the field.
func (t *Timer) Reset() {
	t.IsActive = false
	t.StartedAt = nil
	t.Accumulated = 0
}

// Current returns the length of the in-flight interval at now.
func (t *Timer) Current(now time.Time, running bool) time.Duration {
	if !t.IsActive || !running || t.StartedAt == nil {
		return 0
	}
	d := now.Sub(*t.StartedAt)
	if d < 0 {
		return 0
	}
	return d
}

// LiveTotal returns banked plus in-flight time, clamped to limit.
// It never modifies the timer.
func (t *Timer) LiveTotal(now time.Time, running bool, limit time.Duration) time.Duration {
	return Clamp(t.Accumulated+t.Current(now, running), limit)
}

func (t *Timer) activate(now time.Time, running bool) {
	if t.IsActive {
		return
	}
	t.IsActive = true
	if running {
		started := now
		t.StartedAt = &started
	}
}

func (t *Timer) deactivate(now time.Time, limit time.Duration) {
	if !t.IsActive {
		return
	}
	t.FoldAndStop(now, limit)
	t.IsActive = false
}

// Clamp limits d to limit. A limit of zero or less means no cap.
func Clamp(d, limit time.Duration) time.Duration {
	if limit > 0 && d > limit {
		return limit
	}
	return d
}
