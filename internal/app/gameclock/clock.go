package gameclock

import "time"

// Clock tracks elapsed game time from absolute anchors.
//
// While running, elapsed is offset + (now - resumedAt). Nothing is summed per
// tick, so a missed refresh never loses time.
type Clock struct {
	state     State
	offset    time.Duration // Banked before the last resume
	resumedAt time.Time
	limit     time.Duration
}

// New creates an idle clock. A limit of zero or less disables the cap.
func New(limit time.Duration) *Clock {
	if limit < 0 {
		limit = 0
	}
	return &Clock{
		state: StateIdle,
		limit: limit,
	}
}

// State returns the current clock state.
func (c *Clock) State() State {
	return c.state
}

// Running reports whether the clock is counting.
func (c *Clock) Running() bool {
	return c.state == StateRunning
}

// Capped reports whether the clock reached its cap.
func (c *Clock) Capped() bool {
	return c.state == StateCapped
}

// Limit returns the configured cap (zero when uncapped).
func (c *Clock) Limit() time.Duration {
	return c.limit
}

// Start anchors now as the resume point. Valid from Idle or Paused only;
// returns false when nothing changed.
func (c *Clock) Start(now time.Time) bool {
	if c.state != StateIdle && c.state != StatePaused {
		return false
	}
	c.resumedAt = now
	c.state = StateRunning
	return true
}

// Pause banks the time since the last resume. Valid from Running only.
func (c *Clock) Pause(now time.Time) bool {
	if c.state != StateRunning {
		return false
	}
	c.offset = c.Elapsed(now)
	c.resumedAt = time.Time{}
	c.state = StatePaused
	return true
}

// Elapsed returns the elapsed game time at now, clamped to the cap.
func (c *Clock) Elapsed(now time.Time) time.Duration {
	elapsed := c.offset
	if c.state == StateRunning {
		if d := now.Sub(c.resumedAt); d > 0 {
			elapsed += d
		}
	}
	if c.limit > 0 && elapsed > c.limit {
		return c.limit
	}
	return elapsed
}

// Tick projects the elapsed time at now and reports whether the cap has been
// reached. It never changes state; the roster applies the cap transition so
// player timers fold at the same instant.
func (c *Clock) Tick(now time.Time) (time.Duration, bool) {
	elapsed := c.Elapsed(now)
	if c.state != StateRunning || c.limit <= 0 {
		return elapsed, false
	}
	return elapsed, elapsed >= c.limit
}

// CapReachedAt returns the instant the running clock hits its cap.
func (c *Clock) CapReachedAt() (time.Time, bool) {
	if c.state != StateRunning || c.limit <= 0 {
		return time.Time{}, false
	}
	return c.resumedAt.Add(c.limit - c.offset), true
}

// Remaining returns the time left before the cap (zero when uncapped).
func (c *Clock) Remaining(now time.Time) time.Duration {
	if c.limit <= 0 {
		return 0
	}
	return c.limit - c.Elapsed(now)
}

// Capture freezes a running clock at the cap.
func (c *Clock) Capture() bool {
	if c.state != StateRunning || c.limit <= 0 {
		return false
	}
	c.offset = c.limit
	c.resumedAt = time.Time{}
	c.state = StateCapped
	return true
}

// Reset zeroes the clock from any state.
func (c *Clock) Reset() {
	c.offset = 0
	c.resumedAt = time.Time{}
	c.state = StateIdle
}

// Banked returns the elapsed time excluding the in-flight run.
func (c *Clock) Banked() time.Duration {
	return c.offset
}

// Restore rebuilds a stopped clock from banked time.
func (c *Clock) Restore(elapsed time.Duration) {
	c.Reset()
	if elapsed <= 0 {
		return
	}
	if c.limit > 0 && elapsed >= c.limit {
		c.offset = c.limit
		c.state = StateCapped
		return
	}
	c.offset = elapsed
	c.state = StatePaused
}
