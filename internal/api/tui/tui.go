// Package tui provides the terminal surface: it renders the player and maps keys to commands.
package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/cockroachdb/errors"

	"github.com/osa030/19player/internal/app/playback"
)

// Run executes the terminal program until the user quits or ctx is done.
// display is attached to the program so controller updates reach the screen.
func Run(ctx context.Context, player playback.Player, display *Display) error {
	p := tea.NewProgram(newModel(player), tea.WithAltScreen(), tea.WithContext(ctx))
	display.attach(p)

	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
