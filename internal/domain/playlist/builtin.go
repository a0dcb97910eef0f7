package playlist

import "github.com/osa030/19player/internal/domain/track"

// BuiltinName is the name of the reference playlist.
const BuiltinName = "Featured"

// Builtin returns the reference playlist shipped with the player.
func Builtin() *Playlist {
	p, err := New(BuiltinName, []track.Track{
		{
			Title:           "Top 50 - Global",
			Artist:          "Various Artists",
			ArtworkRef:      "./card1img.jpeg",
			DurationSeconds: 312,
		},
		{
			Title:           "Mahiya Jinna Sohna",
			Artist:          "Darshan Raval",
			ArtworkRef:      "./card2img.jpeg",
			DurationSeconds: 240,
		},
		{
			Title:           "Jaanman (From 'Bad News')",
			Artist:          "Vishal Mishra",
			ArtworkRef:      "./card 3.jpeg",
			DurationSeconds: 210,
		},
		{
			Title:           "Maiyya",
			Artist:          "Sachet-Parampara",
			ArtworkRef:      "./card  4.jpeg",
			DurationSeconds: 180,
		},
	})
	if err != nil {
		panic(err)
	}
	return p
}
