package player

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2026, 1, 10, 19, 0, 0, 0, time.UTC)

func at(ms int) time.Time {
	return t0.Add(time.Duration(ms) * time.Millisecond)
}

func TestNewTimer(t *testing.T) {
	timer := NewTimer(3, "Alice")

	assert.Equal(t, 3, timer.ID)
	assert.Equal(t, "Alice", timer.Name)
	assert.False(t, timer.IsActive)
	assert.Nil(t, timer.StartedAt)
	assert.Equal(t, time.Duration(0), timer.Accumulated)
}

func TestTimer_Toggle(t *testing.T) {
	tests := []struct {
		name         string
		running      bool
		wantStarted  bool
		wantActive   bool
		initialState Timer
	}{
		{
			name:        "activate while running starts the interval",
			running:     true,
			wantStarted: true,
			wantActive:  true,
		},
		{
			name:        "activate while paused waits for the next start",
			running:     false,
			wantStarted: false,
			wantActive:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			timer := NewTimer(0, "A")
			active := timer.Toggle(at(0), tt.running, 0)

			assert.Equal(t, tt.wantActive, active)
			assert.Equal(t, tt.wantActive, timer.IsActive)
			if tt.wantStarted {
				require.NotNil(t, timer.StartedAt)
				assert.Equal(t, at(0), *timer.StartedAt)
			} else {
				assert.Nil(t, timer.StartedAt)
			}
		})
	}
}

func TestTimer_DeactivateFoldsInterval(t *testing.T) {
	timer := NewTimer(0, "A")
	timer.Toggle(at(0), true, 0)

	active := timer.Toggle(at(2000), true, 0)

	assert.False(t, active)
	assert.Nil(t, timer.StartedAt)
	assert.Equal(t, 2*time.Second, timer.Accumulated)
}

func TestTimer_DeactivateClampsToLimit(t *testing.T) {
	timer := NewTimer(0, "A")
	timer.Accumulated = 4 * time.Second
	timer.Toggle(at(0), true, 5*time.Second)

	timer.Toggle(at(3000), true, 5*time.Second)

	assert.Equal(t, 5*time.Second, timer.Accumulated)
}

func TestTimer_RepeatedIntervalsSum(t *testing.T) {
	timer := NewTimer(0, "A")
	intervals := [][2]int{{0, 1500}, {2000, 2250}, {4000, 7000}, {9000, 9001}}

	var want time.Duration
	for _, iv := range intervals {
		timer.Toggle(at(iv[0]), true, 0)
		timer.Toggle(at(iv[1]), true, 0)
		want += time.Duration(iv[1]-iv[0]) * time.Millisecond
	}

	assert.Equal(t, want, timer.Accumulated)
	assert.False(t, timer.IsActive)
}

func TestTimer_FoldAndStopKeepsActive(t *testing.T) {
	timer := NewTimer(0, "C")
	timer.Toggle(at(0), true, 0)

	timer.FoldAndStop(at(1000), 0)

	assert.True(t, timer.IsActive)
	assert.Nil(t, timer.StartedAt)
	assert.Equal(t, time.Second, timer.Accumulated)

	// Second fold without an interval is a no-op.
	timer.FoldAndStop(at(5000), 0)
	assert.Equal(t, time.Second, timer.Accumulated)
}

func TestTimer_FoldBeforeStartCountsNothing(t *testing.T) {
	timer := NewTimer(0, "A")
	timer.Toggle(at(5500), true, 0)

	timer.FoldAndStop(at(5000), 0)

	assert.Equal(t, time.Duration(0), timer.Accumulated)
	assert.Nil(t, timer.StartedAt)
}

func TestTimer_Resume(t *testing.T) {
	timer := NewTimer(0, "C")
	timer.Resume(at(100))
	assert.Nil(t, timer.StartedAt, "inactive player must not resume")

	timer.Toggle(at(0), false, 0)
	timer.Resume(at(5000))
	require.NotNil(t, timer.StartedAt)
	assert.Equal(t, at(5000), *timer.StartedAt)

	// Already accumulating: anchor is kept.
	timer.Resume(at(6000))
	assert.Equal(t, at(5000), *timer.StartedAt)
}

func TestTimer_LiveTotal(t *testing.T) {
	timer := NewTimer(0, "A")
	timer.Accumulated = 2 * time.Second
	timer.Toggle(at(0), true, 0)

	assert.Equal(t, 3*time.Second, timer.LiveTotal(at(1000), true, 0))
	assert.Equal(t, 2*time.Second, timer.LiveTotal(at(1000), false, 0))
	assert.Equal(t, 4*time.Second, timer.LiveTotal(at(9000), true, 4*time.Second))

	// Reading never mutates.
	assert.Equal(t, 2*time.Second, timer.Accumulated)
	require.NotNil(t, timer.StartedAt)
	assert.Equal(t, at(0), *timer.StartedAt)
}

func TestTimer_Reset(t *testing.T) {
	timer := NewTimer(0, "A")
	timer.Toggle(at(0), true, 0)
	timer.Accumulated = time.Minute

	timer.Reset()

	assert.False(t, timer.IsActive)
	assert.Nil(t, timer.StartedAt)
	assert.Equal(t, time.Duration(0), timer.Accumulated)
}

func TestTimer_RecordRoundTrip(t *testing.T) {
	timer := NewTimer(7, "Bo")
	timer.Toggle(at(0), true, 0)
	timer.FoldAndStop(at(1500), 0)

	restored := FromRecord(timer.Record())

	assert.Equal(t, 7, restored.ID)
	assert.Equal(t, "Bo", restored.Name)
	assert.True(t, restored.IsActive)
	assert.Nil(t, restored.StartedAt)
	assert.Equal(t, 1500*time.Millisecond, restored.Accumulated)
}

func TestFromRecord_NegativeAccumulated(t *testing.T) {
	restored := FromRecord(Record{ID: 1, Name: "X", Accumulated: -time.Second})
	assert.Equal(t, time.Duration(0), restored.Accumulated)
}

func TestClamp(t *testing.T) {
	assert.Equal(t, time.Minute, Clamp(time.Minute, 0))
	assert.Equal(t, 30*time.Second, Clamp(time.Minute, 30*time.Second))
	assert.Equal(t, 10*time.Second, Clamp(10*time.Second, 30*time.Second))
}
