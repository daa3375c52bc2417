// Package main provides the admin CLI entry point.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"connectrpc.com/connect"
	"github.com/alecthomas/kingpin/v2"
	"github.com/joho/godotenv"

	apiconnect "github.com/osa030/linetimer/internal/api/connect"
	linetimerv1 "github.com/osa030/linetimer/internal/api/linetimerv1"
	"github.com/osa030/linetimer/internal/api/linetimerv1/linetimerv1connect"
	"github.com/osa030/linetimer/internal/domain/game"
)

var (
	app    = kingpin.New("linetimer-admincli", "Line change timer admin client")
	server = app.Flag("server", "Server address").Default("http://localhost:8080").Envar("LINETIMER_SERVER").String()
	token  = app.Flag("token", "Admin token (or set ADMIN_TOKEN env)").Envar("ADMIN_TOKEN").String()

	// status command
	statusCmd = app.Command("status", "Show the current board")

	// load command
	loadCmd   = app.Command("load", "Replace the roster (resets the game)")
	loadNames = loadCmd.Arg("names", "Comma-separated player names").Required().Strings()

	// clear command
	clearCmd = app.Command("clear", "Remove every player (resets the game)")

	// start command
	startCmd = app.Command("start", "Start or resume the game clock")

	// pause command
	pauseCmd = app.Command("pause", "Pause the game clock")

	// reset command
	resetCmd  = app.Command("reset", "Zero the clock and every player")
	resetFull = resetCmd.Flag("full", "Also zero the score").Bool()

	// toggle command
	toggleCmd    = app.Command("toggle", "Put a player on or take them off the field")
	togglePlayer = toggleCmd.Arg("player-id", "Player ID").Required().Int()

	// score command
	scoreCmd       = app.Command("score", "Adjust the score")
	scoreSide      = scoreCmd.Arg("side", "Team side").Required().Enum("home", "away")
	scoreDirection = scoreCmd.Arg("direction", "up or down").Required().Enum("up", "down")
)

func main() {
	// Load .env file if it exists (errors are ignored)
	_ = godotenv.Load()

	// Parse command
	command := kingpin.MustParse(app.Parse(os.Args[1:]))

	// Create clients
	board := linetimerv1connect.NewBoardServiceClient(http.DefaultClient, *server)
	admin := linetimerv1connect.NewAdminServiceClient(http.DefaultClient, *server)

	ctx := context.Background()

	if command == statusCmd.FullCommand() {
		status(ctx, board)
		return
	}

	// Check admin token
	if *token == "" {
		fmt.Println("Error: admin token is required (use --token or ADMIN_TOKEN env)")
		os.Exit(1)
	}

	// Execute command
	switch command {
	case loadCmd.FullCommand():
		load(ctx, admin, strings.Join(*loadNames, ","))
	case clearCmd.FullCommand():
		clearRoster(ctx, admin)
	case startCmd.FullCommand():
		start(ctx, admin)
	case pauseCmd.FullCommand():
		pause(ctx, admin)
	case resetCmd.FullCommand():
		reset(ctx, admin, *resetFull)
	case toggleCmd.FullCommand():
		toggle(ctx, admin, *togglePlayer)
	case scoreCmd.FullCommand():
		adjustScore(ctx, admin, *scoreSide, *scoreDirection)
	}
}

// newRequest wraps msg and attaches the admin token.
func newRequest[T any](msg *T) *connect.Request[T] {
	req := connect.NewRequest(msg)
	req.Header().Set(apiconnect.AdminTokenHeader, *token)
	return req
}

func exitOnError(err error) {
	if err == nil {
		return
	}
	fmt.Printf("Error: %v\n", err)
	os.Exit(1)
}

func status(ctx context.Context, client linetimerv1connect.BoardServiceClient) {
	resp, err := client.GetBoard(ctx, connect.NewRequest(&linetimerv1.GetBoardRequest{}))
	exitOnError(err)
	printBoard(resp.Msg.Board)
}

func load(ctx context.Context, client linetimerv1connect.AdminServiceClient, names string) {
	resp, err := client.LoadRoster(ctx, newRequest(&linetimerv1.LoadRosterRequest{Names: names}))
	exitOnError(err)

	fmt.Printf("Roster loaded (game %s)\n", resp.Msg.GameID)
	printBoard(resp.Msg.Board)
}

func clearRoster(ctx context.Context, client linetimerv1connect.AdminServiceClient) {
	_, err := client.ClearRoster(ctx, newRequest(&linetimerv1.ClearRosterRequest{}))
	exitOnError(err)
	fmt.Println("Roster cleared")
}

func start(ctx context.Context, client linetimerv1connect.AdminServiceClient) {
	resp, err := client.StartGame(ctx, newRequest(&linetimerv1.StartGameRequest{}))
	exitOnError(err)

	if resp.Msg.Changed {
		fmt.Printf("Game started at %s\n", resp.Msg.Board.Clock)
	} else {
		fmt.Printf("Not started: game is %s\n", resp.Msg.Board.State)
	}
}

func pause(ctx context.Context, client linetimerv1connect.AdminServiceClient) {
	resp, err := client.PauseGame(ctx, newRequest(&linetimerv1.PauseGameRequest{}))
	exitOnError(err)

	if resp.Msg.Changed {
		fmt.Printf("Game paused at %s\n", resp.Msg.Board.Clock)
	} else {
		fmt.Printf("Not paused: game is %s\n", resp.Msg.Board.State)
	}
}

func reset(ctx context.Context, client linetimerv1connect.AdminServiceClient, full bool) {
	_, err := client.ResetGame(ctx, newRequest(&linetimerv1.ResetGameRequest{Full: full}))
	exitOnError(err)

	if full {
		fmt.Println("Game and score reset")
	} else {
		fmt.Println("Game reset (score kept)")
	}
}

func toggle(ctx context.Context, client linetimerv1connect.AdminServiceClient, playerID int) {
	resp, err := client.TogglePlayer(ctx, newRequest(&linetimerv1.TogglePlayerRequest{PlayerID: playerID}))
	exitOnError(err)

	name := fmt.Sprintf("#%d", playerID)
	for _, s := range resp.Msg.Board.Standings {
		if s.ID == playerID {
			name = s.Name
		}
	}
	if resp.Msg.Active {
		fmt.Printf("%s is on the field\n", name)
	} else {
		fmt.Printf("%s is off the field\n", name)
	}
}

func adjustScore(ctx context.Context, client linetimerv1connect.AdminServiceClient, side, direction string) {
	delta := 1
	if direction == "down" {
		delta = -1
	}
	resp, err := client.AdjustScore(ctx, newRequest(&linetimerv1.AdjustScoreRequest{Side: side, Delta: delta}))
	exitOnError(err)

	fmt.Printf("Score: HOME %d : %d AWAY\n", resp.Msg.Score.Home, resp.Msg.Score.Away)
}

func printBoard(b *game.Board) {
	if b == nil {
		fmt.Println("No board")
		return
	}

	fmt.Println("\n=== CURRENT GAME ===")
	fmt.Printf("Title: %s\n", b.Title)
	fmt.Printf("Game ID: %s\n", b.GameID)
	fmt.Printf("State: %s\n", formatState(b.State))
	fmt.Printf("Clock: %s\n", b.Clock)
	if b.Limit > 0 {
		fmt.Printf("Remaining: %s\n", b.Remaining.Round(time.Second))
	}
	fmt.Printf("Score: HOME %d : %d AWAY\n", b.Score.Home, b.Score.Away)

	fmt.Printf("\nPlayers (%d):\n", len(b.Standings))
	for _, s := range b.Standings {
		marker := " "
		if s.Active {
			marker = "*"
		}
		fmt.Printf("  %s [%d] %-20s %s\n", marker, s.ID, s.Name, s.Display)
	}
	fmt.Println()
}

func formatState(state string) string {
	switch state {
	case "idle":
		return "⏹  Idle (not started)"
	case "running":
		return "▶️  Running"
	case "paused":
		return "⏸  Paused"
	case "capped":
		return "🔚 Capped (time limit reached)"
	default:
		return "❓ Unknown"
	}
}
