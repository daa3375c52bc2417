// Package game provides the plain data shapes shared by the roster, the
// store and the display transports.
package game

import (
	"time"

	"github.com/osa030/linetimer/internal/domain/player"
	"github.com/osa030/linetimer/internal/domain/score"
)

// Snapshot is the persisted state of a game. It carries banked time only.
type Snapshot struct {
	Players []player.Record `yaml:"players" mapstructure:"players" json:"players"`
	Elapsed time.Duration   `yaml:"elapsed" mapstructure:"elapsed" json:"elapsed"`
	Score   score.Board     `yaml:"score" mapstructure:"score" json:"score"`
}

// Standing is one row of the ranking view.
type Standing struct {
	ID      int           `json:"id"`
	Name    string        `json:"name"`
	Active  bool          `json:"active"`
	Total   time.Duration `json:"total_ns"`
	Current time.Duration `json:"current_ns"`
	Display string        `json:"display"`
}

// Board is what display clients render.
type Board struct {
	SequenceNo uint64        `json:"sequence_no"`
	GameID     string        `json:"game_id"`
	Title      string        `json:"title"`
	State      string        `json:"state"`
	Elapsed    time.Duration `json:"elapsed_ns"`
	Remaining  time.Duration `json:"remaining_ns"`
	Limit      time.Duration `json:"limit_ns"`
	Clock      string        `json:"clock"`
	Score      score.Board   `json:"score"`
	Standings  []Standing    `json:"standings"`
	At         time.Time     `json:"at"`
}
