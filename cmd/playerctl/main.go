// Package main provides the player control CLI entry point.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"connectrpc.com/connect"
	"github.com/alecthomas/kingpin/v2"
	"github.com/joho/godotenv"

	apiconnect "github.com/osa030/19player/internal/api/connect"
)

var (
	app    = kingpin.New("19player-ctl", "19player remote control")
	server = app.Flag("server", "Server address").Default("http://localhost:8080").String()
	token  = app.Flag("token", "Control token (or set PLAYER_CONTROL_TOKEN env)").Envar("PLAYER_CONTROL_TOKEN").String()

	stateCmd    = app.Command("state", "Show the player state").Alias("status")
	tracksCmd   = app.Command("tracks", "List the playlist").Alias("list")
	playCmd     = app.Command("play", "Start playback")
	pauseCmd    = app.Command("pause", "Pause playback")
	toggleCmd   = app.Command("toggle", "Toggle play/pause")
	nextCmd     = app.Command("next", "Play the next track")
	previousCmd = app.Command("previous", "Play the previous track").Alias("prev")

	loadCmd   = app.Command("load", "Load a track without playing it")
	loadIndex = loadCmd.Arg("index", "Track index (0-based)").Required().Int()

	selectCmd   = app.Command("select", "Play a track")
	selectIndex = selectCmd.Arg("index", "Track index (0-based)").Required().Int()

	findCmd   = app.Command("find", "Play the track whose title or artist best matches a query")
	findQuery = findCmd.Arg("query", "Words to look for").Required().Strings()

	seekCmd     = app.Command("seek", "Seek within the current track")
	seekPercent = seekCmd.Arg("percent", "Position as a percentage of the track").Required().Float64()

	volumeCmd    = app.Command("volume", "Set the volume")
	volumeSlider = volumeCmd.Arg("value", "Volume 0-100").Required().Float64()

	watchCmd = app.Command("watch", "Stream player notifications")
	shellCmd = app.Command("shell", "Interactive control prompt")
)

func main() {
	// Load .env file if it exists (errors are ignored)
	_ = godotenv.Load()

	// Parse command
	command := kingpin.MustParse(app.Parse(os.Args[1:]))

	client := apiconnect.NewPlayerServiceClient(
		http.DefaultClient,
		*server,
		connect.WithInterceptors(apiconnect.NewClientTokenInterceptor(*token)),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var args []string
	switch command {
	case watchCmd.FullCommand():
		if err := watch(ctx, client); err != nil {
			fail(err)
		}
		return
	case shellCmd.FullCommand():
		if err := runShell(ctx, client); err != nil {
			fail(err)
		}
		return
	case loadCmd.FullCommand():
		args = []string{strconv.Itoa(*loadIndex)}
	case selectCmd.FullCommand():
		args = []string{strconv.Itoa(*selectIndex)}
	case findCmd.FullCommand():
		args = *findQuery
	case seekCmd.FullCommand():
		args = []string{strconv.FormatFloat(*seekPercent, 'f', -1, 64)}
	case volumeCmd.FullCommand():
		args = []string{strconv.FormatFloat(*volumeSlider, 'f', -1, 64)}
	}

	// Kingpin command names double as action names.
	name := strings.Fields(command)[0]
	if err := execute(ctx, client, name, args); err != nil {
		fail(err)
	}
}

func fail(err error) {
	fmt.Printf("Error: %v\n", err)
	os.Exit(1)
}
