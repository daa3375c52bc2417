// Package format renders durations for display.
package format

import (
	"fmt"
	"time"
)

// DefaultCeiling is the largest value the two-digit hour field can show.
const DefaultCeiling = 99*time.Hour + 59*time.Minute + 59*time.Second

// Clock renders d as MM:SS, or HH:MM:SS once it reaches an hour.
// Negative durations render as 00:00 and values above ceiling render as
// ceiling. A ceiling of zero or less selects DefaultCeiling.
func Clock(d, ceiling time.Duration) string {
	if ceiling <= 0 {
		ceiling = DefaultCeiling
	}
	if d < 0 {
		d = 0
	}
	if d > ceiling {
		d = ceiling
	}

	total := int64(d / time.Second)
	hours := total / 3600
	minutes := (total % 3600) / 60
	seconds := total % 60

	if hours > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
	}
	return fmt.Sprintf("%02d:%02d", minutes, seconds)
}
