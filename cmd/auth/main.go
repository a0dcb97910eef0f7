// Package main provides the helper that obtains a Spotify refresh token for the spotify playlist source.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"github.com/cockroachdb/errors"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	zlog "github.com/rs/zerolog/log"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"golang.org/x/oauth2"

	"github.com/osa030/19player/internal/infra/logger"
	"github.com/osa030/19player/internal/infra/spotify"
)

var (
	app          = kingpin.New("19player-auth", "Obtain a Spotify refresh token for 19player")
	clientID     = app.Flag("client-id", "Spotify Client ID").Envar("SPOTIFY_CLIENT_ID").Required().String()
	clientSecret = app.Flag("client-secret", "Spotify Client Secret").Envar("SPOTIFY_CLIENT_SECRET").Required().String()
	port         = app.Flag("port", "Callback server port").Default("8888").Envar("SPOTIFY_AUTH_PORT").Int()
	playlistURL  = app.Flag("playlist", "Playlist URL to verify with the new token").String()
	envFile      = app.Flag("write-env", "Store SPOTIFY_REFRESH_TOKEN in this .env file").PlaceHolder(".env").String()
	timeout      = app.Flag("timeout", "How long to wait for the browser callback").Default("5m").Duration()
)

func main() {
	// Load .env file if it exists (errors are ignored)
	_ = godotenv.Load()

	kingpin.MustParse(app.Parse(os.Args[1:]))

	if err := logger.Init(logger.Config{Output: "stderr", Level: "info"}); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, *timeout)
	defer cancel()

	token, err := authorize(ctx)
	if err != nil {
		zlog.Fatal().Err(err).Msg("Authorization failed")
	}

	if *playlistURL != "" {
		if err := verifyPlaylist(ctx, token.RefreshToken); err != nil {
			zlog.Fatal().Err(err).Msg("Token obtained but the playlist is not readable")
		}
		zlog.Info().Msgf("Playlist is readable: %s", *playlistURL)
	}

	if *envFile != "" {
		if err := writeEnv(*envFile, token.RefreshToken); err != nil {
			zlog.Fatal().Err(err).Msgf("Failed to write %s", *envFile)
		}
		zlog.Info().Msgf("SPOTIFY_REFRESH_TOKEN written to %s", *envFile)
	}

	printToken(token.RefreshToken)
}

// authorize runs the authorization code flow against a local callback server.
func authorize(ctx context.Context) (*oauth2.Token, error) {
	state := uuid.NewString()
	auth := spotifyauth.New(
		spotifyauth.WithRedirectURL(fmt.Sprintf("http://127.0.0.1:%d/callback", *port)),
		spotifyauth.WithClientID(*clientID),
		spotifyauth.WithClientSecret(*clientSecret),
		spotifyauth.WithScopes(spotifyauth.ScopePlaylistReadPrivate),
	)

	tokens := make(chan *oauth2.Token, 1)
	router := chi.NewRouter()
	router.Get("/callback", func(w http.ResponseWriter, r *http.Request) {
		if st := r.FormValue("state"); st != state {
			http.Error(w, "State mismatch", http.StatusForbidden)
			zlog.Error().Msgf("State mismatch: got=%q", st)
			return
		}
		token, err := auth.Token(r.Context(), state, r)
		if err != nil {
			http.Error(w, "Failed to get token", http.StatusForbidden)
			zlog.Error().Err(err).Msg("Failed to exchange authorization code")
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, completePage)
		select {
		case tokens <- token:
		default:
		}
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", *port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			zlog.Warn().Err(err).Msg("Failed to shutdown callback server")
		}
	}()

	fmt.Println("Please visit the following URL to authorize 19player:")
	fmt.Println("")
	fmt.Println(auth.AuthURL(state))
	fmt.Println("")
	fmt.Println("Waiting for authorization...")

	select {
	case token := <-tokens:
		if token.RefreshToken == "" {
			return nil, errors.New("spotify returned no refresh token")
		}
		return token, nil
	case err := <-serverErr:
		return nil, errors.Wrap(err, "callback server failed")
	case <-ctx.Done():
		return nil, errors.Wrap(ctx.Err(), "no callback received")
	}
}

// verifyPlaylist checks that the playlist can be read with the new refresh token.
func verifyPlaylist(ctx context.Context, refreshToken string) error {
	client, err := spotify.New(ctx, spotify.Config{
		ClientID:     *clientID,
		ClientSecret: *clientSecret,
		RefreshToken: refreshToken,
	})
	if err != nil {
		return err
	}
	return client.CheckPlaylistExists(ctx, *playlistURL)
}

// writeEnv sets SPOTIFY_REFRESH_TOKEN in path, keeping any other entries.
func writeEnv(path, refreshToken string) error {
	env, err := godotenv.Read(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return errors.Wrap(err, "failed to read env file")
		}
		env = map[string]string{}
	}
	env["SPOTIFY_REFRESH_TOKEN"] = refreshToken
	return errors.Wrap(godotenv.Write(env, path), "failed to write env file")
}

func printToken(refreshToken string) {
	fmt.Println("")
	fmt.Println("=== Authorization Successful ===")
	fmt.Println("")
	fmt.Println("Refresh Token:")
	fmt.Println(refreshToken)
	fmt.Println("")
	fmt.Println("Add this to config/player.yaml:")
	fmt.Println("")
	fmt.Println("playlist:")
	fmt.Println("  source: spotify")
	fmt.Println("spotify:")
	fmt.Printf("  refresh_token: %q\n", refreshToken)
	fmt.Println("")
	fmt.Println("Or set as environment variable:")
	fmt.Printf("export SPOTIFY_REFRESH_TOKEN=%q\n", refreshToken)
}

const completePage = `<!DOCTYPE html>
<html>
<head>
    <title>19player - Authorization Complete</title>
    <style>
        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif;
            display: flex;
            justify-content: center;
            align-items: center;
            height: 100vh;
            margin: 0;
            background: #121212;
            color: white;
        }
        .container { text-align: center; padding: 40px; }
        p { opacity: 0.7; }
    </style>
</head>
<body>
    <div class="container">
        <h1>Authorization Complete</h1>
        <p>You can close this window and return to the terminal.</p>
    </div>
</body>
</html>
`
