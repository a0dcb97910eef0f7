package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"

	"github.com/osa030/19player/internal/app/playback"
)

var (
	paddingStyle  = lipgloss.NewStyle().Padding(1, 2)
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#cdd6f4"))
	artistStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#a6adc8"))
	faintStyle    = lipgloss.NewStyle().Faint(true)
	playingStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#a6e3a1"))
	pausedStyle   = lipgloss.NewStyle().Faint(true)
	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#f5c2e7"))
)

func (m model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(m.fit(m.track.Title)))
	b.WriteString("\n")
	b.WriteString(artistStyle.Render(m.fit(m.track.Artist)))
	if m.track.ArtworkRef != "" {
		b.WriteString("\n")
		b.WriteString(faintStyle.Render(m.fit(m.track.ArtworkRef)))
	}
	b.WriteString("\n\n")

	b.WriteString(m.progressC.ViewAs(clamp(m.percent/100, 0, 1)))
	b.WriteString("\n")
	fmt.Fprintf(&b, "%s / %s\n\n",
		m.elapsed, playback.FormatTime(float64(m.track.DurationSeconds)))

	b.WriteString(m.playIndicator())
	fmt.Fprintf(&b, "   vol %3.0f%%\n\n", playback.SliderFromVolume(m.volume))

	for i, t := range m.tracks {
		length := "  " + playback.FormatTime(float64(t.DurationSeconds))
		line := m.fit(fmt.Sprintf("%d. %s - %s", i+1, t.Title, t.Artist), len(length)+2) + length
		if i == m.index {
			b.WriteString(selectedStyle.Render("▶ " + line))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(m.helpC.View(m.keys))

	return paddingStyle.Render(b.String())
}

// fit truncates s to the content width, less reserve cells.
func (m model) fit(s string, reserve ...int) string {
	width := m.width - 4
	for _, r := range reserve {
		width -= r
	}
	if width <= 0 {
		return s
	}
	return truncate.StringWithTail(s, uint(width), "…")
}

// playIndicator is emphasized while playing and dimmed while paused.
func (m model) playIndicator() string {
	if m.playing {
		return playingStyle.Render("▶ Playing")
	}
	return pausedStyle.Render("❚❚ Paused")
}
