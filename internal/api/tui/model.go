package tui

import (
	"math"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/osa030/19player/internal/app/playback"
	"github.com/osa030/19player/internal/domain/track"
)

const (
	seekStep   = 5.0 // percent of the track
	volumeStep = 5.0 // slider points
	maxWidth   = 80
)

// model renders what the controller reports and turns keys into commands.
// It never reads controller state after construction; display messages keep it current.
type model struct {
	player playback.Player
	tracks []track.Track

	index   int
	track   track.Track
	percent float64
	elapsed string
	playing bool
	volume  float64

	keys      keymap
	progressC progress.Model
	helpC     help.Model
	width     int
}

func newModel(player playback.Player) model {
	snap := player.Snapshot()

	m := model{
		player:    player,
		tracks:    player.Playlist().Tracks(),
		index:     snap.Index,
		track:     snap.Track,
		percent:   snap.Percent,
		elapsed:   playback.FormatTime(snap.Position),
		playing:   snap.IsPlaying(),
		volume:    snap.Volume,
		keys:      newKeymap(),
		progressC: progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
		helpC:     help.New(),
	}
	m.resize(maxWidth)
	return m
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width)
	case tea.KeyMsg:
		return m.handleKey(msg)

	case trackInfoMsg:
		m.index = msg.index
		m.track = msg.track
	case progressMsg:
		m.percent = msg.percent
		m.elapsed = msg.elapsed
	case resetProgressMsg:
		m.percent = 0
		m.elapsed = playback.FormatTime(0)
	case playButtonMsg:
		m.playing = msg.playing
	case volumeMsg:
		m.volume = msg.level
	}
	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.toggle):
		m.player.TogglePlay()
	case key.Matches(msg, m.keys.next):
		m.player.NextTrack()
	case key.Matches(msg, m.keys.prev):
		m.player.PreviousTrack()
	case key.Matches(msg, m.keys.seekForward):
		m.player.SeekTo(clamp(m.percent+seekStep, 0, 100))
	case key.Matches(msg, m.keys.seekBack):
		m.player.SeekTo(clamp(m.percent-seekStep, 0, 100))
	case key.Matches(msg, m.keys.volumeUp):
		m.setVolume(playback.SliderFromVolume(m.volume) + volumeStep)
	case key.Matches(msg, m.keys.volumeDown):
		m.setVolume(playback.SliderFromVolume(m.volume) - volumeStep)
	case key.Matches(msg, m.keys.selectTrack):
		// Digits are 1-based; indices past the playlist are ignored by the controller.
		m.player.PlayTrack(int(msg.Runes[0] - '1'))
	}
	return m, nil
}

// setVolume applies a slider value. The slider is bounded even though the controller is not.
func (m *model) setVolume(slider float64) {
	slider = math.Round(clamp(slider, 0, 100))
	m.volume = playback.VolumeFromSlider(slider)
	m.player.SetVolume(m.volume)
}

func (m *model) resize(width int) {
	if width > maxWidth {
		width = maxWidth
	}
	m.width = width
	m.progressC.Width = width - 4
	m.helpC.Width = width
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
