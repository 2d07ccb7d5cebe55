// Command snake-server starts the Snake Arcade Game server.
//
// It supports two modes:
//  1. "serve" (default): runs the HTTP server exposing the REST API, the
//     WebSocket spectator feed, and an /mcp HTTP endpoint
//  2. "mcp": runs an MCP stdio server, reusing an already-running HTTP API
//     when one is reachable and starting an internal one otherwise
//
// Flags control host/port, the config directory, the high score file, debug
// logging, and optional ngrok tunneling for external access during
// development.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gorilla/handlers"
	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"
	"golang.ngrok.com/ngrok"
	ngrokConfig "golang.ngrok.com/ngrok/config"

	"github.com/tamikip/GEMINI-SNAKE/api"
	"github.com/tamikip/GEMINI-SNAKE/game/clock"
	"github.com/tamikip/GEMINI-SNAKE/game/config"
	"github.com/tamikip/GEMINI-SNAKE/game/highscore"
	"github.com/tamikip/GEMINI-SNAKE/game/service"
	"github.com/tamikip/GEMINI-SNAKE/game/session"
	"github.com/tamikip/GEMINI-SNAKE/transport/mcp"
	"github.com/tamikip/GEMINI-SNAKE/transport/websocket"
)

// Version information
const (
	Version = "1.0.0"
	AppName = "Snake Arcade Game Server"
)

func main() {
	// Load .env file if it exists (ignore error if not found)
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			log.Warn().Err(err).Msg("Error loading .env file")
		}
	} else {
		log.Info().Msg("Loaded environment variables from .env file")
	}

	if err := newRootCommand().Run(context.Background(), os.Args); err != nil {
		log.Fatal().Err(err).Msg("Server exited with error")
	}
}

// newRootCommand builds the CLI. Flags live on the root so both modes share
// them, and running with no subcommand starts the HTTP server.
func newRootCommand() *cli.Command {
	return &cli.Command{
		Name:    "snake-server",
		Usage:   "real-time snake arcade game with REST, WebSocket, and MCP interfaces",
		Version: Version,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "port",
				Value: 8080,
				Usage: "HTTP server port",
			},
			&cli.StringFlag{
				Name:  "host",
				Value: "localhost",
				Usage: "HTTP server host",
			},
			&cli.StringFlag{
				Name:    "config-dir",
				Value:   "configs",
				Usage:   "Directory containing game rule configurations",
				Sources: cli.EnvVars("CONFIG_DIR"),
			},
			&cli.StringFlag{
				Name:    "scores-file",
				Value:   "data/scores.json",
				Usage:   "File persisting the high score across restarts",
				Sources: cli.EnvVars("SCORES_FILE"),
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Enable debug logging",
			},
			&cli.BoolFlag{
				Name:    "ngrok",
				Usage:   "Enable ngrok tunnel",
				Sources: cli.EnvVars("NGROK_ENABLED"),
			},
			&cli.StringFlag{
				Name:    "ngrok-auth",
				Usage:   "Ngrok auth token",
				Sources: cli.EnvVars("NGROK_AUTHTOKEN", "NGROK_AUTH_TOKEN"),
			},
			&cli.StringFlag{
				Name:    "ngrok-domain",
				Usage:   "Custom ngrok domain (optional)",
				Sources: cli.EnvVars("NGROK_DOMAIN"),
			},
		},
		Action: runServe,
		Commands: []*cli.Command{
			{
				Name:    "serve",
				Aliases: []string{"server", "http"},
				Usage:   "Run the HTTP server with REST API, WebSocket feed, and MCP endpoint",
				Action:  runServe,
			},
			{
				Name:    "mcp",
				Aliases: []string{"stdio-mcp", "mcp-stdio"},
				Usage:   "Run an MCP stdio server, starting an internal HTTP API if none is reachable",
				Action:  runStdioMCP,
			},
		},
	}
}

// setupLogging configures the global zerolog logger. When LOGGING=true the
// output is teed to a log file alongside out.
func setupLogging(debug bool, out io.Writer) {
	if os.Getenv("LOGGING") == "true" {
		runLogFile, err := os.OpenFile(
			"snake_server.log",
			os.O_APPEND|os.O_CREATE|os.O_WRONLY,
			0664,
		)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to open log file")
		}
		multi := zerolog.MultiLevelWriter(runLogFile, out)
		log.Logger = zerolog.New(multi).With().Timestamp().Logger()
	} else {
		log.Logger = log.Output(out)
	}

	if debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

// services bundles the wired components so both modes can share them and the
// shutdown path can reach the session manager.
type services struct {
	game     service.GameService
	sessions *session.Manager
	hub      *websocket.Hub
}

// initializeServices wires the config manager, high score store, WebSocket
// hub, session manager, and game service together. It also starts the hub
// loop and a background routine that prunes stale sessions.
func initializeServices(configDir, scoresFile string) (*services, error) {
	configManager, err := config.NewManager(configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to create config manager: %w", err)
	}

	store, err := highscore.NewFileStore(scoresFile)
	if err != nil {
		return nil, fmt.Errorf("failed to create high score store: %w", err)
	}
	tracker := highscore.NewTracker(store, highscore.DefaultKey)

	hub := websocket.NewHub()
	go hub.Run()

	// Every loop pushes its post-event snapshot to the hub, so WebSocket
	// spectators see ticks the moment they land.
	sessionManager := session.NewManager(clock.NewTimerScheduler(), tracker, hub.BroadcastToSession)
	gameService := service.NewGameService(sessionManager, configManager)

	go sessionCleanupRoutine(sessionManager)

	return &services{
		game:     gameService,
		sessions: sessionManager,
		hub:      hub,
	}, nil
}

// sessionCleanupRoutine periodically removes sessions that have not been
// accessed within the retention window.
func sessionCleanupRoutine(manager *session.Manager) {
	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	for range ticker.C {
		removed := manager.CleanupExpiredSessions(24 * time.Hour)
		if removed > 0 {
			log.Info().Int("removed", removed).Msg("Cleaned up expired sessions")
		}
	}
}

// runServe starts the HTTP server with REST API, WebSocket hub, and an /mcp
// proxy endpoint. If ngrok is enabled it also provisions a public tunnel.
func runServe(ctx context.Context, cmd *cli.Command) error {
	setupLogging(cmd.Bool("debug"), os.Stdout)
	log.Info().Str("version", Version).Msg("Starting " + AppName)

	svc, err := initializeServices(cmd.String("config-dir"), cmd.String("scores-file"))
	if err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}

	apiServer := api.NewServer(svc.game, svc.hub)

	addr := fmt.Sprintf("%s:%d", cmd.String("host"), cmd.Int("port"))

	// The /mcp endpoint proxies tool calls through the server's own REST API
	mcpClient := mcp.NewClient(fmt.Sprintf("http://%s", addr))

	mainRouter := http.NewServeMux()
	mainRouter.Handle("/", apiServer)
	mainRouter.HandleFunc("/mcp", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "Failed to read request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		response := mcpClient.GetMCPServer().HandleMessage(r.Context(), body)

		w.Header().Set("Content-Type", "application/json")
		responseData, err := json.Marshal(response)
		if err != nil {
			http.Error(w, "Failed to marshal response", http.StatusInternalServerError)
			return
		}
		w.Write(responseData)
	})

	corsHandler := handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Content-Type"}),
	)
	rootHandler := handlers.RecoveryHandler()(corsHandler(mainRouter))

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      rootHandler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serveCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()

		log.Info().Str("addr", addr).Msg("HTTP server listening")
		log.Info().Msgf("REST API: http://%s/api", addr)
		log.Info().Msgf("WebSocket: ws://%s/ws?session=<session_id>", addr)
		log.Info().Msgf("MCP endpoint: http://%s/mcp", addr)

		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	if cmd.Bool("ngrok") {
		wg.Add(1)
		go func() {
			defer wg.Done()
			runNgrokTunnel(serveCtx, cmd, rootHandler)
		}()
	}

	sig := <-stop
	log.Info().Str("signal", sig.String()).Msg("Shutting down")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	// Stop every game loop; pending ticks are cancelled before this returns
	svc.sessions.Shutdown()

	wg.Wait()
	log.Info().Msg("Server stopped")
	return nil
}

// runNgrokTunnel provisions a public ngrok endpoint and serves the router
// through it until the context is cancelled.
func runNgrokTunnel(ctx context.Context, cmd *cli.Command, handler http.Handler) {
	authToken := cmd.String("ngrok-auth")
	if authToken == "" {
		log.Warn().Msg("Ngrok enabled but no auth token provided (use --ngrok-auth or NGROK_AUTHTOKEN)")
		return
	}

	log.Info().Msg("Starting ngrok tunnel")

	var tunnel ngrokConfig.Tunnel
	if domain := cmd.String("ngrok-domain"); domain != "" {
		tunnel = ngrokConfig.HTTPEndpoint(ngrokConfig.WithDomain(domain))
		log.Info().Str("domain", domain).Msg("Using custom ngrok domain")
	} else {
		tunnel = ngrokConfig.HTTPEndpoint()
	}

	tun, err := ngrok.Listen(ctx, tunnel, ngrok.WithAuthtoken(authToken))
	if err != nil {
		log.Error().Err(err).Msg("Failed to start ngrok tunnel")
		return
	}
	defer func() {
		if err := tun.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close ngrok tunnel")
		}
	}()

	ngrokURL := tun.URL()
	log.Info().Str("url", ngrokURL).Msg("Ngrok tunnel established")
	log.Info().Msgf("REST API (ngrok): %s/api", ngrokURL)
	log.Info().Msgf("WebSocket (ngrok): %s/ws?session=<session_id>", ngrokURL)
	log.Info().Msgf("MCP endpoint (ngrok): %s/mcp", ngrokURL)

	if err := http.Serve(tun, handler); err != nil && err != http.ErrServerClosed {
		log.Error().Err(err).Msg("Ngrok server error")
	}
	log.Info().Msg("Ngrok tunnel closed")
}

// runStdioMCP serves MCP over stdio. It reuses an already-running HTTP API
// when one is reachable at the configured address, and otherwise wires the
// full service stack behind an internal loopback server.
func runStdioMCP(ctx context.Context, cmd *cli.Command) error {
	// Stdout carries the MCP protocol; logs must stay on stderr
	setupLogging(cmd.Bool("debug"), os.Stderr)

	externalURL := fmt.Sprintf("http://%s:%d", cmd.String("host"), cmd.Int("port"))
	log.Info().Str("url", externalURL).Msg("Checking for external API server")

	var baseURL string
	testClient := &http.Client{Timeout: 2 * time.Second}
	resp, err := testClient.Get(externalURL + "/api/health")
	if err == nil {
		resp.Body.Close()
	}
	if err == nil && resp.StatusCode < 500 {
		log.Info().Str("url", externalURL).Msg("External API server found, using it for MCP")
		baseURL = externalURL
	} else {
		log.Info().Msg("No external API server found, starting internal HTTP server")

		svc, err := initializeServices(cmd.String("config-dir"), cmd.String("scores-file"))
		if err != nil {
			return fmt.Errorf("failed to initialize services: %w", err)
		}
		defer svc.sessions.Shutdown()

		listener, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			return fmt.Errorf("failed to get available port: %w", err)
		}

		internalAddr := listener.Addr().String()
		log.Info().Str("addr", internalAddr).Msg("Starting internal HTTP server for MCP stdio")

		httpServer := &http.Server{Handler: api.NewServer(svc.game, svc.hub)}
		go func() {
			if err := httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
				log.Error().Err(err).Msg("Internal HTTP server error")
			}
		}()

		// Give the listener a moment to start accepting
		time.Sleep(100 * time.Millisecond)

		baseURL = "http://" + internalAddr
	}

	mcpClient := mcp.NewClient(baseURL)
	log.Info().Msg("MCP stdio server ready")

	if err := server.ServeStdio(mcpClient.GetMCPServer()); err != nil {
		return fmt.Errorf("mcp stdio server error: %w", err)
	}
	return nil
}
