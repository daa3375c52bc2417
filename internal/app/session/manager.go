// Package session provides the session manager.
package session

import (
	"context"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/linetimer/internal/app/format"
	"github.com/osa030/linetimer/internal/app/gameclock"
	"github.com/osa030/linetimer/internal/app/names"
	"github.com/osa030/linetimer/internal/app/notification"
	"github.com/osa030/linetimer/internal/app/roster"
	"github.com/osa030/linetimer/internal/domain/game"
	"github.com/osa030/linetimer/internal/domain/score"
	"github.com/osa030/linetimer/internal/infra/config"
	"github.com/osa030/linetimer/internal/infra/store"
)

// ErrSessionClosed is returned for commands issued after Close.
var ErrSessionClosed = errors.New("session is closed")

// Manager manages the game session. Every command is serialised behind mu,
// persisted and broadcast to display subscribers.
type Manager struct {
	mu sync.Mutex

	// Configuration
	config *config.Config

	// Components
	clock        clockwork.Clock
	roster       *roster.Manager
	store        *store.Store
	notification *notification.Manager

	gameID string
	closed bool

	// publishMu keeps broadcasts in command order after mu is released.
	publishMu sync.Mutex

	// Channels
	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

// NewManager creates a new session manager. The game is restored from st
// when a snapshot exists, otherwise the configured roster is loaded.
// st may be nil to run without persistence.
func NewManager(cfg *config.Config, clock clockwork.Clock, st *store.Store) *Manager {
	ctx, cancel := context.WithCancel(context.Background())

	m := &Manager{
		config:       cfg,
		clock:        clock,
		roster:       roster.NewManager(clock, cfg.Game.MaxDuration()),
		store:        st,
		notification: notification.NewManager(),
		gameID:       uuid.New().String(),
		ctx:          ctx,
		cancel:       cancel,
		done:         make(chan struct{}),
	}

	if m.restore() {
		return m
	}

	if cfg.Game.Roster != "" {
		list, err := names.Parse(cfg.Game.Roster)
		if err != nil {
			zlog.Warn().Msgf("ignoring configured roster: %v", err)
		} else {
			m.roster.LoadRoster(list)
			zlog.Info().Msgf("roster loaded from config: game_id=%s players=%d", m.gameID, len(list))
		}
	}
	return m
}

// restore loads the stored snapshot. It reports whether one was applied.
func (m *Manager) restore() bool {
	if m.store == nil {
		return false
	}

	snap, savedAt, err := m.store.Load()
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			zlog.Debug().Msgf("no stored game: path=%s", m.store.Path())
		} else {
			zlog.Error().Msgf("failed to restore game: path=%s err=%v", m.store.Path(), err)
		}
		return false
	}

	m.roster.Restore(snap)
	zlog.Info().Msgf("game restored: game_id=%s players=%d elapsed=%s saved_at=%s",
		m.gameID, m.roster.Len(), snap.Elapsed, savedAt.Format("2006-01-02 15:04:05"))
	return true
}

// LoadRoster parses a comma-separated name list and replaces the roster.
// The game is fully reset and a new game ID is issued.
func (m *Manager) LoadRoster(input string) error {
	list, err := names.Parse(input)
	if err != nil {
		return err
	}

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return ErrSessionClosed
	}
	m.roster.LoadRoster(list)
	m.gameID = uuid.New().String()
	zlog.Info().Msgf("roster loaded: game_id=%s players=%d names=%q", m.gameID, len(list), names.Join(list))
	m.commitLocked()
	return nil
}

// ClearRoster removes every player, fully resets the game and deletes the
// stored snapshot.
func (m *Manager) ClearRoster() error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return ErrSessionClosed
	}
	m.roster.ClearRoster()
	zlog.Info().Msgf("roster cleared: game_id=%s", m.gameID)
	if m.store != nil {
		if err := m.store.Clear(); err != nil {
			zlog.Error().Msgf("failed to clear stored game: game_id=%s err=%v", m.gameID, err)
		}
	}
	m.publishLocked(m.buildBoardLocked())
	return nil
}

// StartGame starts or resumes the game clock.
// Returns false when the clock was already running or capped.
func (m *Manager) StartGame() (bool, error) {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return false, ErrSessionClosed
	}
	changed := m.roster.StartGame()
	if changed {
		zlog.Info().Msgf("game started: game_id=%s elapsed=%s", m.gameID, m.roster.Elapsed(m.clock.Now()))
	} else {
		zlog.Debug().Msgf("start ignored: game_id=%s state=%s", m.gameID, m.roster.State())
	}
	m.commitLocked()
	return changed, nil
}

// PauseGame pauses the game clock.
// Returns false when the clock was not running.
func (m *Manager) PauseGame() (bool, error) {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return false, ErrSessionClosed
	}
	changed := m.roster.PauseGame()
	if changed {
		zlog.Info().Msgf("game paused: game_id=%s elapsed=%s", m.gameID, m.roster.Elapsed(m.clock.Now()))
	} else {
		zlog.Debug().Msgf("pause ignored: game_id=%s state=%s", m.gameID, m.roster.State())
	}
	m.commitLocked()
	return changed, nil
}

// ResetGame zeroes the clock and every player. A full reset also zeroes
// the score.
func (m *Manager) ResetGame(full bool) error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return ErrSessionClosed
	}
	m.roster.ResetGame(full)
	zlog.Info().Msgf("game reset: game_id=%s full=%t", m.gameID, full)
	m.commitLocked()
	return nil
}

// TogglePlayer switches a player on or off the field and returns the new
// active flag.
func (m *Manager) TogglePlayer(id int) (bool, error) {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return false, ErrSessionClosed
	}
	active, err := m.roster.TogglePlayer(id)
	if err != nil {
		m.mu.Unlock()
		return false, err
	}
	zlog.Info().Msgf("player toggled: game_id=%s player_id=%d active=%t", m.gameID, id, active)
	m.commitLocked()
	return active, nil
}

// AdjustScore moves a score counter by delta. Counters stop at zero.
func (m *Manager) AdjustScore(side score.Side, delta int) (score.Board, error) {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return score.Board{}, ErrSessionClosed
	}
	m.roster.AdjustScore(side, delta)
	current := m.roster.Score()
	zlog.Info().Msgf("score adjusted: game_id=%s side=%s delta=%d home=%d away=%d",
		m.gameID, side, delta, current.Home, current.Away)
	m.commitLocked()
	return current, nil
}

// Board returns the current board.
func (m *Manager) Board() *game.Board {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.buildBoardLocked()
}

// GameID returns the current game ID.
func (m *Manager) GameID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.gameID
}

// Subscribe registers stream for board broadcasts and returns the current
// board. Every broadcast the stream receives with a sequence number at or
// below the returned board's is already reflected in it.
func (m *Manager) Subscribe(stream notification.Stream) (string, *game.Board) {
	m.mu.Lock()
	subscriptionID := m.notification.Subscribe(stream)
	board := m.buildBoardLocked()

	// Earlier commands already hold publishMu, later ones queue behind us.
	m.publishMu.Lock()
	m.mu.Unlock()
	defer m.publishMu.Unlock()

	board.SequenceNo = m.notification.NextSequenceNo()
	return subscriptionID, board
}

// Unsubscribe removes a subscription made with Subscribe.
func (m *Manager) Unsubscribe(subscriptionID string) {
	m.notification.Unsubscribe(subscriptionID)
}

// Notification returns the notification manager.
func (m *Manager) Notification() *notification.Manager {
	return m.notification
}

// Run drives the display refresh until ctx is cancelled or the session is
// closed. Each tick enforces the cap and, while the clock runs, broadcasts
// the board.
func (m *Manager) Run(ctx context.Context) error {
	interval := m.config.Game.RefreshInterval()
	ticker := m.clock.NewTicker(interval)
	defer ticker.Stop()

	zlog.Debug().Msgf("refresh loop started: interval=%s", interval)

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-m.ctx.Done():
			return nil
		case <-ticker.Chan():
			m.tick()
		}
	}
}

// tick runs one refresh.
func (m *Manager) tick() {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}

	if m.roster.TickCapCheck(m.clock.Now()) {
		zlog.Info().Msgf("game cap reached: game_id=%s limit=%s", m.gameID, m.roster.Limit())
		m.commitLocked()
		return
	}

	if m.roster.State() != gameclock.StateRunning {
		m.mu.Unlock()
		return
	}
	m.publishLocked(m.buildBoardLocked())
}

// commitLocked persists the game and broadcasts the board.
// It must be called with mu held and releases it.
func (m *Manager) commitLocked() {
	m.persistLocked()
	m.publishLocked(m.buildBoardLocked())
}

// publishLocked hands the board to subscribers in command order.
// It must be called with mu held and releases it.
func (m *Manager) publishLocked(board *game.Board) {
	m.publishMu.Lock()
	m.mu.Unlock()
	defer m.publishMu.Unlock()

	m.notification.Broadcast(board)
}

func (m *Manager) persistLocked() {
	if m.store == nil {
		return
	}
	if err := m.store.Save(m.roster.Snapshot(), m.clock.Now()); err != nil {
		zlog.Error().Msgf("failed to save game: game_id=%s err=%v", m.gameID, err)
	}
}

func (m *Manager) buildBoardLocked() *game.Board {
	now := m.clock.Now()
	ceiling := m.config.Game.DisplayCeiling()

	standings := m.roster.Rank(now)
	for i := range standings {
		standings[i].Display = format.Clock(standings[i].Total, ceiling)
	}
	elapsed := m.roster.Elapsed(now)

	return &game.Board{
		GameID:    m.gameID,
		Title:     m.config.Game.Title,
		State:     m.roster.State().String(),
		Elapsed:   elapsed,
		Remaining: m.roster.Remaining(now),
		Limit:     m.roster.Limit(),
		Clock:     format.Clock(elapsed, ceiling),
		Score:     m.roster.Score(),
		Standings: standings,
		At:        now,
	}
}

// Done returns a channel that is closed when the session is closed.
func (m *Manager) Done() <-chan struct{} {
	return m.done
}

// Close banks any in-flight time, saves the game and stops the session.
// Further commands return ErrSessionClosed.
func (m *Manager) Close() {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.closed = true
	if m.roster.PauseGame() {
		zlog.Info().Msgf("game paused for shutdown: game_id=%s", m.gameID)
	}
	m.persistLocked()
	gameID := m.gameID
	m.mu.Unlock()

	m.cancel()
	m.notification.Close()
	close(m.done)
	zlog.Info().Msgf("session closed: game_id=%s", gameID)
}
