// Package score provides the home/away score counters.
package score

import (
	"strings"

	"github.com/cockroachdb/errors"
)

// ErrUnknownSide is returned when a side name is neither home nor away.
var ErrUnknownSide = errors.New("unknown score side")

// Side selects one of the two counters.
type Side int

const (
	Home Side = iota // Home team
	Away             // Away team
)

// String returns the string representation of the side.
func (s Side) String() string {
	switch s {
	case Home:
		return "home"
	case Away:
		return "away"
	default:
		return "unknown"
	}
}

// ParseSide parses "home" or "away" (case-insensitive).
func ParseSide(name string) (Side, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "home":
		return Home, nil
	case "away":
		return Away, nil
	default:
		return 0, errors.Wrapf(ErrUnknownSide, "%q", name)
	}
}

// Board holds the two counters. Neither goes below zero.
type Board struct {
	Home int `yaml:"home" mapstructure:"home" json:"home"`
	Away int `yaml:"away" mapstructure:"away" json:"away"`
}

// Increment adds one to the side's counter.
func (b *Board) Increment(side Side) {
	switch side {
	case Home:
		b.Home++
	case Away:
		b.Away++
	}
}

// Decrement subtracts one from the side's counter.
// A counter already at zero stays at zero.
func (b *Board) Decrement(side Side) {
	switch side {
	case Home:
		if b.Home > 0 {
			b.Home--
		}
	case Away:
		if b.Away > 0 {
			b.Away--
		}
	}
}

// Add moves the side's counter by delta, stopping at zero.
func (b *Board) Add(side Side, delta int) {
	switch side {
	case Home:
		b.Home = floorAdd(b.Home, delta)
	case Away:
		b.Away = floorAdd(b.Away, delta)
	}
}

func floorAdd(n, delta int) int {
	if delta < 0 && -delta >= n {
		return 0
	}
	return n + delta
}

// Reset zeroes both counters.
func (b *Board) Reset() {
	b.Home = 0
	b.Away = 0
}
