package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/osa030/linetimer/internal/app/format"
	"github.com/osa030/linetimer/internal/domain/game"
)

// theme holds the board styles.
type theme struct {
	Title  lipgloss.Style
	Clock  lipgloss.Style
	Score  lipgloss.Style
	Header lipgloss.Style
	Row    lipgloss.Style
	Active lipgloss.Style
	Dim    lipgloss.Style
	Frame  lipgloss.Style
	States map[string]lipgloss.Style
}

func defaultTheme() theme {
	badge := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	return theme{
		Title:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("255")),
		Clock:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("51")),
		Score:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("220")),
		Header: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("245")).Underline(true),
		Row:    lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		Active: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("46")),
		Dim:    lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		Frame: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Padding(0, 1),
		States: map[string]lipgloss.Style{
			"idle":    badge.Foreground(lipgloss.Color("245")),
			"running": badge.Foreground(lipgloss.Color("46")),
			"paused":  badge.Foreground(lipgloss.Color("208")),
			"capped":  badge.Foreground(lipgloss.Color("196")),
		},
	}
}

const (
	colRank = 4
	colName = 18
	colTime = 10
	colOn   = 4
)

// renderBoard draws the header, the score and the standings table.
func renderBoard(t theme, b *game.Board) string {
	if b == nil {
		return t.Dim.Render("no board")
	}

	state, ok := t.States[b.State]
	if !ok {
		state = t.Dim
	}

	clock := b.Clock
	if b.Limit > 0 {
		clock = fmt.Sprintf("%s / %s", b.Clock, format.Clock(b.Limit, 0))
	}

	header := lipgloss.JoinHorizontal(lipgloss.Center,
		t.Title.Render(b.Title),
		"  ",
		state.Render(strings.ToUpper(b.State)),
		"  ",
		t.Clock.Render(clock),
	)
	scoreLine := t.Score.Render(fmt.Sprintf("HOME %d : %d AWAY", b.Score.Home, b.Score.Away))

	lines := []string{header, scoreLine, "", renderRow(t.Header, "#", "PLAYER", "TIME", "ON")}
	if len(b.Standings) == 0 {
		lines = append(lines, t.Dim.Render("no players"))
	}
	for i, s := range b.Standings {
		style, on := t.Row, ""
		if s.Active {
			style, on = t.Active, "●"
		}
		lines = append(lines, renderRow(style, fmt.Sprintf("%d", i+1), s.Name, s.Display, on))
	}

	footer := t.Dim.Render(fmt.Sprintf("game %s  seq %d  %s",
		shortID(b.GameID), b.SequenceNo, b.At.Local().Format("15:04:05")))
	lines = append(lines, "", footer)

	return t.Frame.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func renderRow(style lipgloss.Style, rank, name, total, on string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top,
		style.Width(colRank).Render(rank),
		style.Width(colName).MaxWidth(colName).Render(name),
		style.Width(colTime).Align(lipgloss.Right).Render(total),
		style.Width(colOn).Align(lipgloss.Center).Render(on),
	)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
