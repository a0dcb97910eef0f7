package main

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/samber/lo"
	"google.golang.org/protobuf/types/known/structpb"

	apiconnect "github.com/osa030/19player/internal/api/connect"
	"github.com/osa030/19player/internal/app/notification"
)

type action struct {
	usage string
	run   func(ctx context.Context, c *apiconnect.PlayerServiceClient, args []string) (*structpb.Struct, error)
}

func noArgs(call func(*apiconnect.PlayerServiceClient, context.Context) (*structpb.Struct, error)) func(context.Context, *apiconnect.PlayerServiceClient, []string) (*structpb.Struct, error) {
	return func(ctx context.Context, c *apiconnect.PlayerServiceClient, _ []string) (*structpb.Struct, error) {
		return call(c, ctx)
	}
}

var actions = map[string]action{
	"state":    {"state", noArgs((*apiconnect.PlayerServiceClient).GetState)},
	"play":     {"play", noArgs((*apiconnect.PlayerServiceClient).Play)},
	"pause":    {"pause", noArgs((*apiconnect.PlayerServiceClient).Pause)},
	"toggle":   {"toggle", noArgs((*apiconnect.PlayerServiceClient).TogglePlay)},
	"next":     {"next", noArgs((*apiconnect.PlayerServiceClient).Next)},
	"previous": {"previous", noArgs((*apiconnect.PlayerServiceClient).Previous)},
	"tracks": {"tracks", func(ctx context.Context, c *apiconnect.PlayerServiceClient, _ []string) (*structpb.Struct, error) {
		tracks, err := c.ListTracks(ctx)
		if err != nil {
			return nil, err
		}
		printTracks(tracks)
		return nil, nil
	}},
	"load": {"load INDEX", func(ctx context.Context, c *apiconnect.PlayerServiceClient, args []string) (*structpb.Struct, error) {
		index, err := intArg(args)
		if err != nil {
			return nil, err
		}
		return c.LoadTrack(ctx, index)
	}},
	"select": {"select INDEX", func(ctx context.Context, c *apiconnect.PlayerServiceClient, args []string) (*structpb.Struct, error) {
		index, err := intArg(args)
		if err != nil {
			return nil, err
		}
		return c.PlayTrack(ctx, index)
	}},
	"find": {"find QUERY...", func(ctx context.Context, c *apiconnect.PlayerServiceClient, args []string) (*structpb.Struct, error) {
		if len(args) == 0 {
			return nil, errors.New("a query is required")
		}
		tracks, err := c.ListTracks(ctx)
		if err != nil {
			return nil, err
		}
		index, ok := bestMatch(strings.Join(args, " "), tracks)
		if !ok {
			return nil, errors.Newf("no track matches %q", strings.Join(args, " "))
		}
		return c.PlayTrack(ctx, index)
	}},
	"seek": {"seek PERCENT", func(ctx context.Context, c *apiconnect.PlayerServiceClient, args []string) (*structpb.Struct, error) {
		percent, err := floatArg(args)
		if err != nil {
			return nil, err
		}
		return c.Seek(ctx, percent)
	}},
	"volume": {"volume 0-100", func(ctx context.Context, c *apiconnect.PlayerServiceClient, args []string) (*structpb.Struct, error) {
		slider, err := floatArg(args)
		if err != nil {
			return nil, err
		}
		return c.SetVolume(ctx, slider)
	}},
}

var aliases = map[string]string{
	"status": "state",
	"list":   "tracks",
	"prev":   "previous",
	"vol":    "volume",
}

// execute runs the named action and prints the resulting state, if any.
func execute(ctx context.Context, c *apiconnect.PlayerServiceClient, name string, args []string) error {
	if target, ok := aliases[name]; ok {
		name = target
	}
	a, ok := actions[name]
	if !ok {
		return errors.Newf("unknown command %q", name)
	}
	state, err := a.run(ctx, c, args)
	if err != nil {
		return err
	}
	if state != nil {
		printState(state)
	}
	return nil
}

func actionNames() []string {
	names := lo.Keys(actions)
	sort.Strings(names)
	return names
}

func intArg(args []string) (int, error) {
	if len(args) != 1 {
		return 0, errors.New("expected exactly one index")
	}
	v, err := strconv.Atoi(args[0])
	return v, errors.Wrapf(err, "invalid index %q", args[0])
}

func floatArg(args []string) (float64, error) {
	if len(args) != 1 {
		return 0, errors.New("expected exactly one number")
	}
	v, err := strconv.ParseFloat(args[0], 64)
	return v, errors.Wrapf(err, "invalid number %q", args[0])
}

func printTracks(tracks *structpb.ListValue) {
	fmt.Println("\n=== PLAYLIST ===")
	for _, v := range tracks.GetValues() {
		f := v.GetStructValue().GetFields()
		fmt.Printf("  [%d] %s - %s (%s)\n",
			int(f["index"].GetNumberValue()),
			f["title"].GetStringValue(),
			f["artist"].GetStringValue(),
			f["duration"].GetStringValue(),
		)
	}
	fmt.Println()
}

func printState(s *structpb.Struct) {
	f := s.GetFields()
	t := f["track"].GetStructValue().GetFields()

	fmt.Println("\n=== PLAYER STATE ===")
	fmt.Printf("Track: [%d] %s - %s\n", int(f["index"].GetNumberValue()), t["title"].GetStringValue(), t["artist"].GetStringValue())
	fmt.Printf("State: %s\n", formatPlaying(f["playing"].GetBoolValue()))
	fmt.Printf("Position: %s / %s (%.1f%%)\n", f["elapsed"].GetStringValue(), t["duration"].GetStringValue(), f["percent"].GetNumberValue())
	fmt.Printf("Volume: %.0f%%\n", f["volume"].GetNumberValue()*100)
	fmt.Println()
}

func formatPlaying(playing bool) string {
	if playing {
		return "▶️  Playing"
	}
	return "⏸  Paused"
}

// watch prints notifications until ctx is done or the stream ends.
func watch(ctx context.Context, c *apiconnect.PlayerServiceClient) error {
	stream, err := c.Subscribe(ctx)
	if err != nil {
		return err
	}
	defer stream.Close()

	fmt.Println("Subscribed to notifications. Press Ctrl+C to exit.")
	for stream.Receive() {
		printNotification(stream.Msg())
	}
	if ctx.Err() != nil {
		fmt.Println("\nUnsubscribing...")
		return nil
	}
	return errors.Wrap(stream.Err(), "stream error")
}

func printNotification(n *structpb.Struct) {
	f := n.GetFields()
	fmt.Printf("[Sequence: %d] ", int64(f[notification.FieldSequenceNo].GetNumberValue()))

	switch notification.TypeOf(n) {
	case notification.TypeInitialState:
		fmt.Println("=== INITIAL STATE ===")
		printState(f["state"].GetStructValue())
	case notification.TypeTrackInfo:
		fmt.Printf("Track: [%d] %s - %s (%s)\n",
			int(f["index"].GetNumberValue()), f["title"].GetStringValue(), f["artist"].GetStringValue(), f["duration"].GetStringValue())
	case notification.TypeProgress:
		fmt.Printf("Progress: %s (%.1f%%)\n", f["elapsed"].GetStringValue(), f["percent"].GetNumberValue())
	case notification.TypeResetProgress:
		fmt.Println("Progress: 00:00")
	case notification.TypePlayButton:
		fmt.Println(formatPlaying(f["playing"].GetBoolValue()))
	case notification.TypeVolume:
		fmt.Printf("Volume: %.0f%%\n", f["slider"].GetNumberValue())
	default:
		fmt.Printf("Unknown notification: %s\n", notification.TypeOf(n))
	}
}
