package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
	"github.com/cockroachdb/errors"
	"github.com/samber/lo"

	apiconnect "github.com/osa030/19player/internal/api/connect"
)

// runShell reads commands from an interactive prompt until EOF, "quit", or ctx is done.
func runShell(ctx context.Context, c *apiconnect.PlayerServiceClient) error {
	items := lo.Map(append(actionNames(), "help", "quit"), func(name string, _ int) readline.PrefixCompleterInterface {
		return readline.PcItem(name)
	})
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "19player> ",
		AutoComplete:    readline.NewPrefixCompleter(items...),
		InterruptPrompt: "^C",
		EOFPrompt:       "quit",
	})
	if err != nil {
		return errors.Wrap(err, "failed to start prompt")
	}
	defer rl.Close()

	go func() {
		<-ctx.Done()
		rl.Close()
	}()

	fmt.Println("Type help for commands, quit to exit.")
	for {
		line, err := rl.Readline()
		switch {
		case errors.Is(err, readline.ErrInterrupt):
			if line == "" {
				return nil
			}
			continue
		case errors.Is(err, io.EOF):
			return nil
		case err != nil:
			return err
		}

		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "quit", "exit":
			return nil
		case "help":
			printShellHelp()
			continue
		}
		if err := execute(ctx, c, fields[0], fields[1:]); err != nil {
			fmt.Printf(" [!] %v\n", err)
		}
	}
}

func printShellHelp() {
	for _, name := range actionNames() {
		fmt.Printf("  %s\n", actions[name].usage)
	}
	fmt.Println("  help")
	fmt.Println("  quit")
}
