// Package main provides the player entry point.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"connectrpc.com/connect"
	"github.com/alecthomas/kingpin/v2"
	"github.com/cockroachdb/errors"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	zlog "github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	apiconnect "github.com/osa030/19player/internal/api/connect"
	"github.com/osa030/19player/internal/api/tui"
	"github.com/osa030/19player/internal/api/web"
	"github.com/osa030/19player/internal/app/filter"
	"github.com/osa030/19player/internal/app/notification"
	"github.com/osa030/19player/internal/app/playback"
	"github.com/osa030/19player/internal/app/source"
	"github.com/osa030/19player/internal/domain/playlist"
	"github.com/osa030/19player/internal/infra/audio"
	"github.com/osa030/19player/internal/infra/config"
	"github.com/osa030/19player/internal/infra/logger"
	"github.com/osa030/19player/internal/infra/spotify"
)

var (
	app        = kingpin.New("19player", "19player media player")
	configPath = app.Flag("config", "Path to config file").Default("config/player.yaml").String()
	verbose    = app.Flag("verbose", "Enable verbose (DEBUG) logging").Short('v').Bool()
	logfile    = app.Flag("logfile", "Path to log file (default: stdout, discarded in the terminal UI)").String()

	tuiCmd    = app.Command("tui", "Run the player with the terminal UI (default)").Default()
	serveCmd  = app.Command("serve", "Run the player headless, controlled over HTTP")
	tracksCmd = app.Command("tracks", "List the configured playlist and exit")

	listFiltersCmd = app.Command("list-filters", "List available playlist filters and exit")
)

func main() {
	// Load .env file if it exists (errors are ignored)
	_ = godotenv.Load()

	// Parse command
	command := kingpin.MustParse(app.Parse(os.Args[1:]))

	// Handle list-filters command
	if command == listFiltersCmd.FullCommand() {
		printFilters()
		return
	}

	// Initialize logger
	loggerConfig := logger.Config{
		Output: "stdout",
		Level:  "info",
		File:   "",
	}
	// The terminal belongs to the UI
	if command == tuiCmd.FullCommand() {
		loggerConfig.Output = "discard"
	}
	// Override with command-line flags if specified
	if *verbose {
		loggerConfig.Level = "debug"
	}
	if *logfile != "" {
		loggerConfig.Output = *logfile
		loggerConfig.File = *logfile
	}
	if err := logger.Init(loggerConfig); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		zlog.Fatal().Msgf("Failed to load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pl, err := loadPlaylist(ctx, cfg)
	if err != nil {
		zlog.Error().Msgf("Failed to load playlist: %v", err)
		os.Exit(1)
	}

	if command == tracksCmd.FullCommand() {
		printTracks(pl)
		return
	}

	if err := run(ctx, cfg, pl, command == tuiCmd.FullCommand()); err != nil {
		zlog.Error().Msgf("Player error: %v", err)
		os.Exit(1)
	}
}

// loadConfig reads path, falling back to defaults plus environment when the file does not exist.
func loadConfig(path string) (*config.Config, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		zlog.Warn().Msgf("Config file not found, using defaults: path=%s", path)
		return config.Parse(nil)
	}
	zlog.Info().Msgf("Loading config from %s", path)
	return config.Load(path)
}

func loadPlaylist(ctx context.Context, cfg *config.Config) (*playlist.Playlist, error) {
	var spotifyClient source.SpotifyClient
	if cfg.Playlist.Source == config.SourceSpotify {
		client, err := spotify.New(ctx, spotify.Config{
			ClientID:     cfg.Spotify.ClientID,
			ClientSecret: cfg.Spotify.ClientSecret,
			RefreshToken: cfg.Spotify.RefreshToken,
			Market:       cfg.Spotify.Market,
		})
		if err != nil {
			return nil, errors.Wrap(err, "failed to create Spotify client")
		}
		spotifyClient = client
	}

	provider, err := source.NewProviderFromConfig(cfg, spotifyClient)
	if err != nil {
		return nil, err
	}
	chain, err := filter.NewChainFromConfig(cfg.Filters)
	if err != nil {
		return nil, errors.Wrap(err, "invalid filter config")
	}
	if filters := chain.Filters(); len(filters) > 0 {
		zlog.Info().Msgf("Playlist filters: %s", strings.Join(lo.Map(filters, func(f filter.Filter, _ int) string {
			return f.Name()
		}), ", "))
	}

	zlog.Info().Msgf("Loading playlist: source=%s provider=%s", cfg.Playlist.Source, provider.Name())
	pl, err := provider.Load(ctx)
	if err != nil {
		return nil, err
	}
	return chain.Apply(ctx, pl)
}

// run executes the player. Using a separate function ensures
// defer statements are executed even when returning with an error.
func run(ctx context.Context, cfg *config.Config, pl *playlist.Playlist, withTUI bool) error {
	audioResource, err := audio.New(audio.Config{
		Output:           cfg.Audio.Output,
		SampleRate:       cfg.Audio.SampleRate,
		ProgressInterval: cfg.ProgressInterval(),
	})
	if err != nil {
		return errors.Wrap(err, "failed to create audio output")
	}
	defer audioResource.Close()

	// Display surfaces: remote subscribers always, the terminal when attached.
	notifier := notification.NewManager()
	defer notifier.Close()
	remoteDisplay := playback.NewAsyncDisplay(notification.NewDisplay(notifier))
	defer remoteDisplay.Close()

	displays := []playback.Display{remoteDisplay}
	var tuiDisplay *tui.Display
	if withTUI {
		tuiDisplay = tui.NewDisplay()
		localDisplay := playback.NewAsyncDisplay(tuiDisplay)
		defer localDisplay.Close()
		displays = append(displays, localDisplay)
	}

	controller, err := playback.NewController(pl, audioResource, playback.NewMultiDisplay(displays...), playback.Config{
		DefaultVolume: cfg.Player.DefaultVolume,
	})
	if err != nil {
		return errors.Wrap(err, "failed to create player")
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go controller.Run(runCtx)

	// HTTP surfaces
	playerService := apiconnect.NewPlayerService(controller, notifier)
	servicePath, serviceHandler := apiconnect.NewPlayerServiceHandler(
		playerService,
		connect.WithInterceptors(apiconnect.NewTokenInterceptor(cfg.Control.Token)),
	)

	webServer := web.NewServer(controller, notifier, cfg.Control.Token)
	webServer.Start(runCtx)

	router := webServer.Router(middleware.RequestID, middleware.Recoverer, requestLogger)
	router.Handle(servicePath+"*", serviceHandler)

	// Create server with h2c (HTTP/2 cleartext) support
	server := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: h2c.NewHandler(router, &http2.Server{}),
	}

	serverErrCh := make(chan error, 1)
	go func() {
		zlog.Info().Msgf("Starting server: addr=%s control_token=%t", cfg.Server.Addr, cfg.TokenRequired())
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrCh <- err
		}
	}()

	// Give the server a moment to fully initialize
	time.Sleep(100 * time.Millisecond)

	// Execute startup hook if configured (after server is running)
	executeHooks(cfg.Server.Hooks.OnStarted, "on_started")

	var runErr error
	if withTUI {
		tuiErr := make(chan error, 1)
		go func() { tuiErr <- tui.Run(runCtx, controller, tuiDisplay) }()

		select {
		case err := <-tuiErr:
			runErr = err
		case err := <-serverErrCh:
			cancel()
			<-tuiErr
			runErr = errors.Wrap(err, "server error")
		}
	} else {
		select {
		case <-ctx.Done():
			zlog.Info().Msg("Received shutdown signal...")
		case err := <-serverErrCh:
			runErr = errors.Wrap(err, "server error")
		}
	}

	// Graceful shutdown
	cancel()
	playerService.Close()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		zlog.Error().Msgf("Failed to shutdown server: %v", err)
	}

	zlog.Info().Msg("Player stopped")

	// Execute shutdown hook if configured
	executeHooks(cfg.Server.Hooks.OnStopped, "on_stopped")

	return runErr
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		zlog.Debug().Msgf("http: %s %s request_id=%s elapsed=%s",
			r.Method, r.URL.Path, middleware.GetReqID(r.Context()), time.Since(start))
	})
}

// printTracks prints the playlist.
func printTracks(pl *playlist.Playlist) {
	fmt.Printf("Playlist: %s\n", pl.Name())
	for i, t := range pl.Tracks() {
		fmt.Printf("  [%d] %-30s %-20s %s\n", i, t.Title, t.Artist, playback.FormatTime(float64(t.DurationSeconds)))
	}
	fmt.Printf("Total: %d tracks, %s\n", pl.Len(), playback.FormatTime(float64(pl.TotalDuration())))
}

// printFilters prints available filters.
func printFilters() {
	fmt.Println("Available Filters:")
	registry := filter.GetRegistered()
	for _, name := range filter.Names() {
		f := registry[name]()
		codes := strings.Join(f.ReturnCodes(), ", ")
		fmt.Printf("  %-30s - %s [codes: %s]\n", f.Name(), f.Description(), codes)
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
