package filter

import (
	"context"
	"regexp"
	"strings"

	levenshtein "github.com/ka-weihe/fast-levenshtein"

	"github.com/osa030/19player/internal/domain/track"
)

// DuplicateTrackFilter drops tracks already kept earlier in the playlist.
// Detects:
// - Identical URLs
// - Remasters (normalized title + same main artist)
// Excludes:
// - Cover songs (same title but different artist)
type DuplicateTrackFilter struct {
	maxDistance int
}

// DuplicateTrackConfig tunes title matching. MaxTitleDistance allows that many
// single-character edits between normalized titles; 0 requires an exact match.
type DuplicateTrackConfig struct {
	MaxTitleDistance int `mapstructure:"max_title_distance" validate:"gte=0,lte=5"`
}

// NewDuplicateTrackFilter creates a new duplicate track filter.
func NewDuplicateTrackFilter() *DuplicateTrackFilter {
	return &DuplicateTrackFilter{}
}

// Name returns the filter name.
func (f *DuplicateTrackFilter) Name() string {
	return "duplicate_track_filter"
}

// Description returns the filter description.
func (f *DuplicateTrackFilter) Description() string {
	return "Drops repeated tracks, remasters included; covers by other artists are kept"
}

// ReturnCodes returns possible return codes.
func (f *DuplicateTrackFilter) ReturnCodes() []string {
	return []string{"duplicate_track"}
}

// ValidateConfig validates and applies the filter configuration.
func (f *DuplicateTrackFilter) ValidateConfig(settings map[string]any) error {
	var cfg DuplicateTrackConfig
	if err := decodeSettings(settings, &cfg); err != nil {
		return err
	}
	f.maxDistance = cfg.MaxTitleDistance
	return nil
}

// Check checks if the track duplicates one already kept.
func (f *DuplicateTrackFilter) Check(ctx context.Context, t track.Track, kept []track.Track) Result {
	for _, k := range kept {
		if k.URL != "" && k.URL == t.URL {
			return Reject("duplicate_track")
		}
		if f.isRemaster(k, t) {
			return Reject("duplicate_track")
		}
	}
	return Accept()
}

var (
	remasterPatterns = []*regexp.Regexp{
		regexp.MustCompile(`\s*-?\s*\d{4}\s+remaster(ed)?`),      // "- 2011 Remaster"
		regexp.MustCompile(`\s*\(remaster(ed)?\s*\d{0,4}\)`),     // "(Remastered 2023)"
		regexp.MustCompile(`\s*\[remaster(ed)?\s*\d{0,4}\]`),     // "[Remastered]"
		regexp.MustCompile(`\s*-?\s*remaster(ed)?(\s+version)?`), // "- Remastered"
		regexp.MustCompile(`\s*\(.*?remaster.*?\)`),              // "(Any Remaster text)"
		regexp.MustCompile(`\s*\[.*?remaster.*?\]`),              // "[Any Remaster text]"
	}
	versionPatterns = []*regexp.Regexp{
		regexp.MustCompile(`\s*\(.*?version\)`),        // "(Single Version)"
		regexp.MustCompile(`\s*\(.*?edit\)`),           // "(Radio Edit)"
		regexp.MustCompile(`\s*\(live\)`),              // "(Live)"
		regexp.MustCompile(`\s*-\s*live$`),             // "- Live"
		regexp.MustCompile(`\s*-?\s*radio\s+edit`),     // "- Radio Edit"
		regexp.MustCompile(`\s*-?\s*single\s+version`), // "- Single Version"
	}
	whitespace = regexp.MustCompile(`\s+`)
)

// isRemaster reports whether two tracks are versions of the same song by the same artist.
func (f *DuplicateTrackFilter) isRemaster(a, b track.Track) bool {
	if !isSameArtist(a, b) {
		return false
	}
	titleA, titleB := normalizeTitle(a.Title), normalizeTitle(b.Title)
	if titleA == titleB {
		return true
	}
	return f.maxDistance > 0 && levenshtein.Distance(titleA, titleB) <= f.maxDistance
}

// normalizeTitle removes remaster information and version details.
func normalizeTitle(title string) string {
	normalized := strings.ToLower(title)

	for _, pattern := range remasterPatterns {
		normalized = pattern.ReplaceAllString(normalized, "")
	}
	for _, pattern := range versionPatterns {
		normalized = pattern.ReplaceAllString(normalized, "")
	}

	normalized = strings.TrimSpace(normalized)
	normalized = whitespace.ReplaceAllString(normalized, " ")
	return strings.TrimRight(normalized, " -")
}

// isSameArtist compares the main (first listed) artists, case-insensitively.
func isSameArtist(a, b track.Track) bool {
	mainA, mainB := mainArtist(a.Artist), mainArtist(b.Artist)
	if mainA == "" || mainB == "" {
		return false
	}
	return strings.EqualFold(mainA, mainB)
}

func mainArtist(artist string) string {
	main, _, _ := strings.Cut(artist, ",")
	return strings.TrimSpace(main)
}

func init() {
	Register("duplicate_track_filter", func() Filter {
		return NewDuplicateTrackFilter()
	})
}
