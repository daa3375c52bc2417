// Package roster provides the roster manager that drives the game clock and
// every player timer from a single timestamp per transition.
package roster

import (
	"time"

	"github.com/cockroachdb/errors"
	"github.com/jonboulle/clockwork"

	"github.com/osa030/linetimer/internal/app/gameclock"
	"github.com/osa030/linetimer/internal/domain/game"
	"github.com/osa030/linetimer/internal/domain/player"
	"github.com/osa030/linetimer/internal/domain/score"
)

// ErrPlayerNotFound is returned for an ID that is not on the roster.
var ErrPlayerNotFound = errors.New("player not found")

// Manager owns the game clock, the player timers and the score.
//
// It is not safe for concurrent use; callers serialise events.
type Manager struct {
	clock   clockwork.Clock
	game    *gameclock.Clock
	players []*player.Timer
	byID    map[int]*player.Timer
	score   score.Board
	nextID  int
}

// NewManager creates an empty roster with the given cap (zero for none).
func NewManager(clock clockwork.Clock, limit time.Duration) *Manager {
	return &Manager{
		clock: clock,
		game:  gameclock.New(limit),
		byID:  make(map[int]*player.Timer),
	}
}

// LoadRoster fully resets the game and installs new inactive players in the
// given order.
func (m *Manager) LoadRoster(names []string) {
	m.ResetGame(true)
	m.players = make([]*player.Timer, 0, len(names))
	m.byID = make(map[int]*player.Timer, len(names))
	m.nextID = 0
	for _, name := range names {
		m.add(name)
	}
}

// ClearRoster fully resets the game and removes every player.
func (m *Manager) ClearRoster() {
	m.ResetGame(true)
	m.players = nil
	m.byID = make(map[int]*player.Timer)
	m.nextID = 0
}

func (m *Manager) add(name string) *player.Timer {
	t := player.NewTimer(m.nextID, name)
	m.nextID++
	m.players = append(m.players, t)
	m.byID[t.ID] = t
	return t
}

// StartGame starts or resumes the clock. Active players begin accumulating
// at the same instant. Returns false when running or capped.
func (m *Manager) StartGame() bool {
	now := m.clock.Now()
	m.capCheck(now)

	if !m.game.Start(now) {
		return false
	}
	for _, p := range m.players {
		p.Resume(now)
	}
	return true
}

// PauseGame stops the clock and banks every in-flight interval.
// Players keep their active flag. Returns false when not running.
func (m *Manager) PauseGame() bool {
	now := m.clock.Now()
	if m.capCheck(now) {
		return false
	}
	return m.pauseAt(now)
}

func (m *Manager) pauseAt(now time.Time) bool {
	if !m.game.Pause(now) {
		return false
	}
	for _, p := range m.players {
		p.FoldAndStop(now, m.game.Limit())
	}
	return true
}

// ResetGame banks, then zeroes every player and the clock and takes everyone
// off the field. A full reset also zeroes the score.
func (m *Manager) ResetGame(full bool) {
	now := m.clock.Now()
	if !m.capCheck(now) {
		m.pauseAt(now)
	}
	for _, p := range m.players {
		p.Reset()
	}
	m.game.Reset()
	if full {
		m.score.Reset()
	}
}

// TogglePlayer switches a player on or off the field. Once capped, an
// inactive player cannot be activated; deactivation is always allowed.
// Returns the player's new active flag.
func (m *Manager) TogglePlayer(id int) (bool, error) {
	p, ok := m.byID[id]
	if !ok {
		return false, errors.Wrapf(ErrPlayerNotFound, "id=%d", id)
	}

	now := m.clock.Now()
	m.capCheck(now)

	if m.game.Capped() && !p.IsActive {
		return false, nil
	}
	return p.Toggle(now, m.game.Running(), m.game.Limit()), nil
}

// TickCapCheck is called by the display refresh. When the running clock has
// reached its cap it freezes the clock and folds every player at the exact
// cap instant. Calling it again after the cap is a no-op.
func (m *Manager) TickCapCheck(now time.Time) bool {
	return m.capCheck(now)
}

func (m *Manager) capCheck(now time.Time) bool {
	if _, reached := m.game.Tick(now); !reached {
		return false
	}
	capAt, _ := m.game.CapReachedAt()
	if now.Before(capAt) {
		capAt = now
	}
	m.game.Capture()
	for _, p := range m.players {
		p.FoldAndStop(capAt, m.game.Limit())
	}
	return true
}

// AdjustScore increments (delta > 0) or decrements (delta < 0) a counter.
func (m *Manager) AdjustScore(side score.Side, delta int) {
	m.score.Add(side, delta)
}

// Score returns the current score.
func (m *Manager) Score() score.Board {
	return m.score
}

// State returns the game clock state.
func (m *Manager) State() gameclock.State {
	return m.game.State()
}

// Limit returns the configured cap.
func (m *Manager) Limit() time.Duration {
	return m.game.Limit()
}

// Elapsed returns the game clock at now.
func (m *Manager) Elapsed(now time.Time) time.Duration {
	return m.game.Elapsed(now)
}

// Remaining returns the time left before the cap at now.
func (m *Manager) Remaining(now time.Time) time.Duration {
	return m.game.Remaining(now)
}

// Len returns the number of players on the roster.
func (m *Manager) Len() int {
	return len(m.players)
}

// Player returns a copy of the player's timer.
func (m *Manager) Player(id int) (player.Timer, error) {
	p, ok := m.byID[id]
	if !ok {
		return player.Timer{}, errors.Wrapf(ErrPlayerNotFound, "id=%d", id)
	}
	return copyTimer(p), nil
}

// Players returns copies of every timer in roster order.
func (m *Manager) Players() []player.Timer {
	out := make([]player.Timer, len(m.players))
	for i, p := range m.players {
		out[i] = copyTimer(p)
	}
	return out
}

// LiveTotal returns a player's banked plus in-flight time at now.
func (m *Manager) LiveTotal(id int, now time.Time) (time.Duration, error) {
	p, ok := m.byID[id]
	if !ok {
		return 0, errors.Wrapf(ErrPlayerNotFound, "id=%d", id)
	}
	return p.LiveTotal(m.sampleAt(now), m.game.Running(), m.game.Limit()), nil
}

// sampleAt bounds a read timestamp by the cap instant so live values never
// run past the cap before the next cap check freezes them.
func (m *Manager) sampleAt(now time.Time) time.Time {
	if capAt, ok := m.game.CapReachedAt(); ok && now.After(capAt) {
		return capAt
	}
	return now
}

// Snapshot returns the banked state for persistence.
func (m *Manager) Snapshot() game.Snapshot {
	records := make([]player.Record, len(m.players))
	for i, p := range m.players {
		records[i] = p.Record()
	}
	return game.Snapshot{
		Players: records,
		Elapsed: m.game.Banked(),
		Score:   m.score,
	}
}

// Restore replaces the whole state with a snapshot. The clock comes back
// stopped; the next StartGame resumes active players.
func (m *Manager) Restore(s game.Snapshot) {
	m.game.Restore(s.Elapsed)
	m.players = make([]*player.Timer, 0, len(s.Players))
	m.byID = make(map[int]*player.Timer, len(s.Players))
	m.nextID = 0
	for _, r := range s.Players {
		if _, dup := m.byID[r.ID]; dup {
			continue
		}
		t := player.FromRecord(r)
		t.Accumulated = player.Clamp(t.Accumulated, m.game.Limit())
		m.players = append(m.players, t)
		m.byID[t.ID] = t
		if t.ID >= m.nextID {
			m.nextID = t.ID + 1
		}
	}
	m.score = score.Board{}
	if s.Score.Home > 0 {
		m.score.Home = s.Score.Home
	}
	if s.Score.Away > 0 {
		m.score.Away = s.Score.Away
	}
}

func copyTimer(p *player.Timer) player.Timer {
	c := *p
	if p.StartedAt != nil {
		started := *p.StartedAt
		c.StartedAt = &started
	}
	return c
}
