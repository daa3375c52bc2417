package session

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osa030/linetimer/internal/app/names"
	"github.com/osa030/linetimer/internal/app/roster"
	"github.com/osa030/linetimer/internal/domain/game"
	"github.com/osa030/linetimer/internal/domain/score"
	"github.com/osa030/linetimer/internal/infra/config"
	"github.com/osa030/linetimer/internal/infra/store"
)

var t0 = time.Date(2026, 2, 14, 20, 0, 0, 0, time.UTC)

type recordingStream struct {
	mu     sync.Mutex
	boards []*game.Board
}

func (s *recordingStream) Send(b *game.Board) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.boards = append(s.boards, b)
	return nil
}

func (s *recordingStream) last() *game.Board {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.boards) == 0 {
		return nil
	}
	return s.boards[len(s.boards)-1]
}

func (s *recordingStream) all() []*game.Board {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*game.Board(nil), s.boards...)
}

func (s *recordingStream) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.boards)
}

func testConfig(limit time.Duration, rosterNames string) *config.Config {
	return &config.Config{
		Game: config.GameConfig{
			Title:             "Friday League",
			Roster:            rosterNames,
			MaxDurationSec:    int(limit / time.Second),
			RefreshIntervalMs: 100,
			DisplayCeilingSec: 359999,
		},
	}
}

func newTestSession(t *testing.T, cfg *config.Config, st *store.Store) (*Manager, *clockwork.FakeClock, *recordingStream) {
	t.Helper()
	fc := clockwork.NewFakeClockAt(t0)
	m := NewManager(cfg, fc, st)
	t.Cleanup(m.Close)

	stream := &recordingStream{}
	m.Notification().Subscribe(stream)
	return m, fc, stream
}

func TestNewManager_LoadsConfiguredRoster(t *testing.T) {
	m, _, _ := newTestSession(t, testConfig(0, "Ann, Bob ,Cy"), nil)

	board := m.Board()
	require.Len(t, board.Standings, 3)
	assert.Equal(t, "Ann", board.Standings[0].Name)
	assert.Equal(t, "Bob", board.Standings[1].Name)
	assert.Equal(t, "Cy", board.Standings[2].Name)
	assert.Equal(t, "Friday League", board.Title)
	assert.Equal(t, "idle", board.State)
	assert.Equal(t, "00:00", board.Clock)
	assert.NotEmpty(t, board.GameID)
}

func TestManager_GameFlowBroadcastsBoards(t *testing.T) {
	m, fc, stream := newTestSession(t, testConfig(0, "A,B"), nil)

	active, err := m.TogglePlayer(0)
	require.NoError(t, err)
	assert.True(t, active)

	started, err := m.StartGame()
	require.NoError(t, err)
	assert.True(t, started)

	fc.Advance(90 * time.Second)

	paused, err := m.PauseGame()
	require.NoError(t, err)
	assert.True(t, paused)

	board := stream.last()
	require.NotNil(t, board)
	assert.Equal(t, uint64(3), board.SequenceNo)
	assert.Equal(t, "paused", board.State)
	assert.Equal(t, 90*time.Second, board.Elapsed)
	assert.Equal(t, "01:30", board.Clock)
	require.Len(t, board.Standings, 2)
	assert.Equal(t, game.Standing{
		ID: 0, Name: "A", Active: true, Total: 90 * time.Second, Display: "01:30",
	}, board.Standings[0])
	assert.Equal(t, "00:00", board.Standings[1].Display)

	again, err := m.PauseGame()
	require.NoError(t, err)
	assert.False(t, again)
}

func TestManager_LoadRoster(t *testing.T) {
	m, _, stream := newTestSession(t, testConfig(0, "A"), nil)
	firstID := m.GameID()

	_, err := m.AdjustScore(score.Home, 2)
	require.NoError(t, err)

	require.NoError(t, m.LoadRoster("X, Y"))
	assert.NotEqual(t, firstID, m.GameID())

	board := stream.last()
	require.NotNil(t, board)
	assert.Equal(t, m.GameID(), board.GameID)
	assert.Equal(t, score.Board{}, board.Score)
	require.Len(t, board.Standings, 2)

	err = m.LoadRoster(" , ")
	assert.ErrorIs(t, err, names.ErrNoNames)
	assert.Len(t, m.Board().Standings, 2)
}

func TestManager_ClearRoster(t *testing.T) {
	m, _, stream := newTestSession(t, testConfig(0, "A,B"), nil)

	require.NoError(t, m.ClearRoster())
	assert.Empty(t, m.Board().Standings)
	require.NotNil(t, stream.last())
	assert.Empty(t, stream.last().Standings)
}

func TestManager_ClearRosterDeletesStoredGame(t *testing.T) {
	st := store.New(filepath.Join(t.TempDir(), "game.yaml"))
	m, _, _ := newTestSession(t, testConfig(0, "A,B"), st)

	_, err := m.AdjustScore(score.Home, 1)
	require.NoError(t, err)
	_, _, err = st.Load()
	require.NoError(t, err)

	require.NoError(t, m.ClearRoster())
	_, _, err = st.Load()
	assert.ErrorIs(t, err, store.ErrNotFound)

	require.NoError(t, m.LoadRoster("X"))
	snap, _, err := st.Load()
	require.NoError(t, err)
	require.Len(t, snap.Players, 1)
	assert.Equal(t, "X", snap.Players[0].Name)
}

func TestManager_SubscribeReturnsCurrentBoard(t *testing.T) {
	m, _, _ := newTestSession(t, testConfig(0, "A"), nil)

	_, err := m.AdjustScore(score.Home, 1)
	require.NoError(t, err)

	stream := &recordingStream{}
	subscriptionID, initial := m.Subscribe(stream)
	assert.NotEmpty(t, subscriptionID)
	assert.Equal(t, score.Board{Home: 1}, initial.Score)
	assert.Equal(t, 0, stream.count())

	_, err = m.AdjustScore(score.Home, 1)
	require.NoError(t, err)
	require.Equal(t, 1, stream.count())
	assert.Greater(t, stream.last().SequenceNo, initial.SequenceNo)
	assert.Equal(t, score.Board{Home: 2}, stream.last().Score)

	m.Unsubscribe(subscriptionID)
	_, err = m.AdjustScore(score.Home, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, stream.count())
}

func TestManager_SubscribeDuringCommandsMissesNothing(t *testing.T) {
	m, _, _ := newTestSession(t, testConfig(0, "A"), nil)
	const commands = 200

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < commands; i++ {
			_, _ = m.AdjustScore(score.Home, 1)
		}
	}()

	stream := &recordingStream{}
	_, initial := m.Subscribe(stream)
	wg.Wait()

	later := 0
	for _, b := range stream.all() {
		if b.SequenceNo > initial.SequenceNo {
			later++
		}
	}
	assert.Equal(t, commands, initial.Score.Home+later)
}

func TestManager_TogglePlayerUnknown(t *testing.T) {
	m, _, stream := newTestSession(t, testConfig(0, "A"), nil)

	_, err := m.TogglePlayer(7)
	assert.ErrorIs(t, err, roster.ErrPlayerNotFound)
	assert.Equal(t, 0, stream.count())
}

func TestManager_AdjustScore(t *testing.T) {
	m, _, _ := newTestSession(t, testConfig(0, "A"), nil)

	current, err := m.AdjustScore(score.Away, 3)
	require.NoError(t, err)
	assert.Equal(t, score.Board{Away: 3}, current)

	current, err = m.AdjustScore(score.Away, -5)
	require.NoError(t, err)
	assert.Equal(t, score.Board{}, current)
}

func TestManager_ResetGame(t *testing.T) {
	m, fc, _ := newTestSession(t, testConfig(0, "A"), nil)

	_, err := m.TogglePlayer(0)
	require.NoError(t, err)
	_, err = m.StartGame()
	require.NoError(t, err)
	_, err = m.AdjustScore(score.Home, 1)
	require.NoError(t, err)
	fc.Advance(10 * time.Second)

	require.NoError(t, m.ResetGame(false))
	board := m.Board()
	assert.Equal(t, "idle", board.State)
	assert.Equal(t, time.Duration(0), board.Elapsed)
	assert.False(t, board.Standings[0].Active)
	assert.Equal(t, score.Board{Home: 1}, board.Score)

	require.NoError(t, m.ResetGame(true))
	assert.Equal(t, score.Board{}, m.Board().Score)
}

func TestManager_RunBroadcastsWhileRunningAndEnforcesCap(t *testing.T) {
	m, fc, stream := newTestSession(t, testConfig(2*time.Second, "A"), nil)

	_, err := m.TogglePlayer(0)
	require.NoError(t, err)
	_, err = m.StartGame()
	require.NoError(t, err)
	before := stream.count()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	errCh := make(chan error, 1)
	go func() { errCh <- m.Run(ctx) }()

	require.NoError(t, fc.BlockUntilContext(ctx, 1))
	fc.Advance(100 * time.Millisecond)
	assert.Eventually(t, func() bool { return stream.count() > before }, time.Second, 5*time.Millisecond)

	fc.Advance(2500 * time.Millisecond)
	assert.Eventually(t, func() bool {
		b := stream.last()
		return b != nil && b.State == "capped"
	}, time.Second, 5*time.Millisecond)

	board := m.Board()
	assert.Equal(t, 2*time.Second, board.Elapsed)
	assert.Equal(t, 2*time.Second, board.Standings[0].Total)
	assert.Equal(t, time.Duration(0), board.Remaining)

	cancel()
	assert.NoError(t, <-errCh)
}

func TestManager_PersistsAndRestores(t *testing.T) {
	st := store.New(filepath.Join(t.TempDir(), "game.yaml"))
	cfg := testConfig(0, "A,B")

	fc := clockwork.NewFakeClockAt(t0)
	m := NewManager(cfg, fc, st)
	_, err := m.TogglePlayer(1)
	require.NoError(t, err)
	_, err = m.StartGame()
	require.NoError(t, err)
	_, err = m.AdjustScore(score.Home, 2)
	require.NoError(t, err)
	fc.Advance(45 * time.Second)
	m.Close()

	_, err = m.StartGame()
	assert.ErrorIs(t, err, ErrSessionClosed)

	restored := NewManager(testConfig(0, "ignored"), clockwork.NewFakeClockAt(t0.Add(time.Hour)), st)
	defer restored.Close()

	board := restored.Board()
	assert.Equal(t, "paused", board.State)
	assert.Equal(t, 45*time.Second, board.Elapsed)
	assert.Equal(t, score.Board{Home: 2}, board.Score)
	require.Len(t, board.Standings, 2)
	assert.Equal(t, "B", board.Standings[0].Name)
	assert.True(t, board.Standings[0].Active)
	assert.Equal(t, 45*time.Second, board.Standings[0].Total)
}

func TestManager_Close(t *testing.T) {
	fc := clockwork.NewFakeClockAt(t0)
	m := NewManager(testConfig(0, ""), fc, nil)

	m.Close()
	m.Close()

	select {
	case <-m.Done():
	default:
		t.Fatal("done channel not closed")
	}
	assert.NoError(t, m.Run(context.Background()))
}
