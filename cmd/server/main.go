// Package main provides the server entry point.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"syscall"

	"connectrpc.com/connect"
	"github.com/alecthomas/kingpin/v2"
	"github.com/cockroachdb/errors"
	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"
	"github.com/rs/cors"
	zlog "github.com/rs/zerolog/log"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
	"golang.org/x/sync/errgroup"

	apiconnect "github.com/osa030/linetimer/internal/api/connect"
	"github.com/osa030/linetimer/internal/api/linetimerv1/linetimerv1connect"
	"github.com/osa030/linetimer/internal/api/ws"
	"github.com/osa030/linetimer/internal/app/format"
	"github.com/osa030/linetimer/internal/app/session"
	"github.com/osa030/linetimer/internal/infra/config"
	"github.com/osa030/linetimer/internal/infra/logger"
	"github.com/osa030/linetimer/internal/infra/store"
)

var (
	app        = kingpin.New("linetimer-server", "Line change timer server")
	configPath = app.Flag("config", "Path to config file").Default("config/server.yaml").String()
	verbose    = app.Flag("verbose", "Enable verbose (DEBUG) logging").Short('v').Bool()
	logfile    = app.Flag("logfile", "Path to log file (default: stdout)").String()

	// check-config command
	checkConfigCmd = app.Command("check-config", "Validate the config file and exit")
)

func init() {
	// start command (default) - no need to store the command
	app.Command("start", "Start the server (default)").Default()
}

func main() {
	// Load .env file if it exists (errors are ignored)
	_ = godotenv.Load()

	// Parse command
	command := kingpin.MustParse(app.Parse(os.Args[1:]))

	// Initialize logger
	loggerConfig := logger.Config{
		Output: "stdout",
		Level:  "info",
	}
	if *verbose {
		loggerConfig.Level = "debug"
	}
	if *logfile != "" {
		loggerConfig.Output = *logfile
	}
	logCloser, err := logger.Init(loggerConfig)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logCloser.Close()

	// Load config
	zlog.Info().Msgf("Loading config from %s", *configPath)
	cfg, err := config.Load(*configPath)
	if err != nil {
		zlog.Fatal().Msgf("Failed to load config: %v", err)
	}

	if command == checkConfigCmd.FullCommand() {
		printConfig(cfg)
		return
	}

	if err := run(cfg); err != nil {
		zlog.Error().Msgf("Server error: %v", err)
		logCloser.Close()
		os.Exit(1)
	}
}

// run executes the main server logic. Using a separate function ensures
// defer statements are executed even when returning with an error.
func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Create session manager
	var gameStore *store.Store
	if !cfg.Store.Disabled {
		gameStore = store.New(cfg.Store.Path)
		zlog.Info().Msgf("Game store: path=%s", cfg.Store.Path)
	} else {
		zlog.Info().Msg("Game store disabled, state is kept in memory only")
	}
	sessionMgr := session.NewManager(cfg, clockwork.NewRealClock(), gameStore)

	// Create RPC services
	boardService := apiconnect.NewBoardService(sessionMgr)
	adminService := apiconnect.NewAdminService(sessionMgr)

	// Create HTTP mux
	mux := http.NewServeMux()

	// Register services
	boardPath, boardHandler := linetimerv1connect.NewBoardServiceHandler(boardService)

	// Create admin auth interceptor
	adminAuthInterceptor := apiconnect.NewAdminAuthInterceptor(cfg)
	adminPath, adminHandler := linetimerv1connect.NewAdminServiceHandler(
		adminService,
		connect.WithInterceptors(adminAuthInterceptor),
	)

	mux.Handle(boardPath, boardHandler)
	mux.Handle(adminPath, adminHandler)

	// WebSocket feed for browser displays
	wsConfig := ws.DefaultConfig()
	wsConfig.AllowedOrigins = cfg.Server.CORSOrigins
	mux.Handle(ws.Path, ws.NewHandler(sessionMgr, wsConfig))

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: cfg.Server.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{
			"Content-Type",
			"Connect-Protocol-Version",
			"Connect-Timeout-Ms",
			apiconnect.AdminTokenHeader,
		},
		ExposedHeaders: []string{"Grpc-Status", "Grpc-Message"},
	})

	// Create server with h2c (HTTP/2 cleartext) support
	server := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: h2c.NewHandler(corsHandler.Handler(mux), &http2.Server{}),
	}

	g, gctx := errgroup.WithContext(ctx)

	// Start server
	g.Go(func() error {
		zlog.Info().Msgf("Starting server: addr=%s", cfg.Server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return errors.Wrap(err, "listen")
		}
		return nil
	})

	// Display refresh and cap enforcement
	g.Go(func() error {
		return sessionMgr.Run(gctx)
	})

	// Shutdown on signal or on the first failure
	g.Go(func() error {
		<-gctx.Done()
		zlog.Info().Msg("Shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout())
		defer cancel()

		// Close session manager first to terminate active streams
		sessionMgr.Close()

		if err := server.Shutdown(shutdownCtx); err != nil {
			zlog.Error().Msgf("Failed to shutdown server: %v", err)
		}
		return nil
	})

	// Execute startup hook if configured
	executeHooks(cfg.Server.Hooks.OnStarted, "on_started")

	err := g.Wait()
	zlog.Info().Msg("Server stopped")

	// Execute shutdown hook if configured
	executeHooks(cfg.Server.Hooks.OnStopped, "on_stopped")

	return err
}

// printConfig prints the effective game settings.
func printConfig(cfg *config.Config) {
	limit := "none"
	if cfg.Game.MaxDuration() > 0 {
		limit = format.Clock(cfg.Game.MaxDuration(), cfg.Game.DisplayCeiling())
	}
	fmt.Println("Config OK")
	fmt.Printf("  %-18s %s\n", "Address:", cfg.Server.Addr)
	fmt.Printf("  %-18s %s\n", "Title:", cfg.Game.Title)
	fmt.Printf("  %-18s %s\n", "Max duration:", limit)
	fmt.Printf("  %-18s %s\n", "Refresh interval:", cfg.Game.RefreshInterval())
	fmt.Printf("  %-18s %q\n", "Roster:", cfg.Game.Roster)
	if cfg.Store.Disabled {
		fmt.Printf("  %-18s %s\n", "Store:", "disabled")
	} else {
		fmt.Printf("  %-18s %s\n", "Store:", cfg.Store.Path)
	}
}

// executeHooks runs a list of shell commands.
func executeHooks(hooks []string, stage string) {
	if len(hooks) == 0 {
		return
	}

	zlog.Info().Msgf("Executing %s hooks (%d commands)", stage, len(hooks))

	for _, hook := range hooks {
		zlog.Info().Msgf("Executing hook: %s", hook)
		// Use sh -c to allow shell features like redirection or pipes
		cmd := exec.Command("sh", "-c", hook)
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr

		if err := cmd.Run(); err != nil {
			zlog.Error().Err(err).Msgf("Failed to execute hook: %s", hook)
		}
	}
}
