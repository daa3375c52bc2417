// Package main provides the board CLI that renders the live standings.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"connectrpc.com/connect"
	"github.com/alecthomas/kingpin/v2"
	"github.com/joho/godotenv"

	linetimerv1 "github.com/osa030/linetimer/internal/api/linetimerv1"
	"github.com/osa030/linetimer/internal/api/linetimerv1/linetimerv1connect"
)

var (
	app    = kingpin.New("linetimer-boardcli", "Line change timer board viewer")
	server = app.Flag("server", "Server address").Default("http://localhost:8080").Envar("LINETIMER_SERVER").String()

	// show command
	showCmd = app.Command("show", "Print the current board").Default()

	// watch command
	watchCmd   = app.Command("watch", "Follow the board live")
	watchClear = watchCmd.Flag("clear", "Clear the screen between frames").Default("true").Bool()
)

func main() {
	// Load .env file if it exists (errors are ignored)
	_ = godotenv.Load()

	// Parse command
	command := kingpin.MustParse(app.Parse(os.Args[1:]))

	// Create client
	client := linetimerv1connect.NewBoardServiceClient(
		http.DefaultClient,
		*server,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Execute command
	switch command {
	case showCmd.FullCommand():
		show(ctx, client)
	case watchCmd.FullCommand():
		watch(ctx, client, *watchClear)
	}
}

func show(ctx context.Context, client linetimerv1connect.BoardServiceClient) {
	resp, err := client.GetBoard(ctx, connect.NewRequest(&linetimerv1.GetBoardRequest{}))
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(renderBoard(defaultTheme(), resp.Msg.Board))
}

func watch(ctx context.Context, client linetimerv1connect.BoardServiceClient, clear bool) {
	stream, err := client.Watch(ctx, connect.NewRequest(&linetimerv1.WatchRequest{}))
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	defer stream.Close()

	t := defaultTheme()
	for stream.Receive() {
		if clear {
			fmt.Print("\033[H\033[2J")
		}
		fmt.Println(renderBoard(t, stream.Msg().Board))
	}

	if err := stream.Err(); err != nil && ctx.Err() == nil {
		fmt.Printf("Stream error: %v\n", err)
		os.Exit(1)
	}
}
