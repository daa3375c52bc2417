package main

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/osa030/linetimer/internal/domain/game"
	"github.com/osa030/linetimer/internal/domain/score"
)

func TestRenderBoard(t *testing.T) {
	board := &game.Board{
		SequenceNo: 12,
		GameID:     "3f2c9a7e-1111-2222-3333-444455556666",
		Title:      "Friday League",
		State:      "running",
		Elapsed:    95 * time.Second,
		Limit:      20 * time.Minute,
		Clock:      "01:35",
		Score:      score.Board{Home: 3, Away: 1},
		Standings: []game.Standing{
			{ID: 1, Name: "Bob", Active: true, Total: 80 * time.Second, Display: "01:20"},
			{ID: 0, Name: "Ann", Total: 15 * time.Second, Display: "00:15"},
		},
		At: time.Date(2026, 3, 6, 20, 1, 35, 0, time.UTC),
	}

	out := renderBoard(defaultTheme(), board)

	assert.Contains(t, out, "Friday League")
	assert.Contains(t, out, "RUNNING")
	assert.Contains(t, out, "01:35 / 20:00")
	assert.Contains(t, out, "HOME 3 : 1 AWAY")
	assert.Contains(t, out, "game 3f2c9a7e")
	assert.Contains(t, out, "seq 12")
	assert.Less(t, strings.Index(out, "Bob"), strings.Index(out, "Ann"))
	assert.Contains(t, out, "01:20")
	assert.Contains(t, out, "●")
}

func TestRenderBoard_Empty(t *testing.T) {
	out := renderBoard(defaultTheme(), &game.Board{Title: "Empty", State: "idle", Clock: "00:00"})
	assert.Contains(t, out, "no players")
	assert.NotContains(t, out, " / ")

	assert.Equal(t, defaultTheme().Dim.Render("no board"), renderBoard(defaultTheme(), nil))
}
