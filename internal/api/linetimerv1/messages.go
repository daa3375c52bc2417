// Package linetimerv1 holds the wire messages of the linetimer.v1 services.
package linetimerv1

import (
	"github.com/osa030/linetimer/internal/domain/game"
	"github.com/osa030/linetimer/internal/domain/score"
)

// GetBoardRequest asks for the current board.
type GetBoardRequest struct{}

// GetBoardResponse carries the current board.
type GetBoardResponse struct {
	Board *game.Board `json:"board"`
}

// WatchRequest opens a board stream.
type WatchRequest struct{}

// WatchResponse is one frame of the board stream.
type WatchResponse struct {
	Initial bool        `json:"initial"`
	Board   *game.Board `json:"board"`
}

// LoadRosterRequest replaces the roster with comma-separated names.
type LoadRosterRequest struct {
	Names string `json:"names"`
}

type LoadRosterResponse struct {
	GameID string      `json:"game_id"`
	Board  *game.Board `json:"board"`
}

type ClearRosterRequest struct{}

type ClearRosterResponse struct {
	Board *game.Board `json:"board"`
}

type StartGameRequest struct{}

// StartGameResponse reports whether the clock changed state.
type StartGameResponse struct {
	Changed bool        `json:"changed"`
	Board   *game.Board `json:"board"`
}

type PauseGameRequest struct{}

// PauseGameResponse reports whether the clock changed state.
type PauseGameResponse struct {
	Changed bool        `json:"changed"`
	Board   *game.Board `json:"board"`
}

// ResetGameRequest zeroes the game. Full also zeroes the score.
type ResetGameRequest struct {
	Full bool `json:"full"`
}

type ResetGameResponse struct {
	Board *game.Board `json:"board"`
}

type TogglePlayerRequest struct {
	PlayerID int `json:"player_id"`
}

// TogglePlayerResponse carries the player's new active flag.
type TogglePlayerResponse struct {
	Active bool        `json:"active"`
	Board  *game.Board `json:"board"`
}

// AdjustScoreRequest moves the named side ("home" or "away") by Delta,
// which must be 1 or -1.
type AdjustScoreRequest struct {
	Side  string `json:"side"`
	Delta int    `json:"delta"`
}

type AdjustScoreResponse struct {
	Score score.Board `json:"score"`
	Board *game.Board `json:"board"`
}
