package tui

import "github.com/charmbracelet/bubbles/key"

type keymap struct {
	toggle, next, prev,
	seekForward, seekBack,
	volumeUp, volumeDown,
	selectTrack,
	quit key.Binding
}

func newKeymap() keymap {
	return keymap{
		toggle: key.NewBinding(
			key.WithKeys(" ", "space"),
			key.WithHelp("space", "play/pause"),
		),
		next: key.NewBinding(
			key.WithKeys("n", "right"),
			key.WithHelp("n/→", "next"),
		),
		prev: key.NewBinding(
			key.WithKeys("p", "left"),
			key.WithHelp("p/←", "previous"),
		),
		seekForward: key.NewBinding(
			key.WithKeys("]"),
			key.WithHelp("]", "seek +5%"),
		),
		seekBack: key.NewBinding(
			key.WithKeys("["),
			key.WithHelp("[", "seek -5%"),
		),
		volumeUp: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+", "volume up"),
		),
		volumeDown: key.NewBinding(
			key.WithKeys("-"),
			key.WithHelp("-", "volume down"),
		),
		selectTrack: key.NewBinding(
			key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8", "9"),
			key.WithHelp("1-9", "play track"),
		),
		quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

func (k keymap) ShortHelp() []key.Binding {
	return []key.Binding{k.toggle, k.next, k.prev, k.selectTrack, k.quit}
}

func (k keymap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.toggle, k.next, k.prev},
		{k.seekBack, k.seekForward, k.volumeDown, k.volumeUp},
		{k.selectTrack, k.quit},
	}
}
