package model

import (
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Set is an ordered DJ set produced by the melodic sort.
//
// Set contains:
//   - Tracks in play order (the harmonic path, optionally followed by
//     the unkeyed tracks when the caller asks for them)
//   - Unkeyed, the input tracks that had no resolved key
//   - Score, the cumulative movement weight of the harmonic path
//   - PlaylistPath, computed from PathConfig when the set is created
//
// Example:
//
//	cfg := &PathConfig{
//	    OutputDir:              "/music/sets",
//	    PlaylistFileNameFormat: "{name} {date}",
//	    PlaylistFormat:         PlaylistFormatM3U,
//	}
//	set := NewSet("Friday", sorted, unkeyed, 145, time.Now(), cfg)
//	// set.PlaylistPath = "/music/sets/Friday 2024-05-17.m3u"
type Set struct {
	// Name is the set name used for playlist titles and file names.
	Name string

	// Tracks holds the tracks in play order.
	Tracks []*Track

	// Unkeyed holds the input tracks without a key, in input order.
	Unkeyed []*Track

	// Unplaced holds keyed tracks the harmonic path could not reach.
	Unplaced []*Track

	// Score is the cumulative movement weight of the harmonic path.
	Score int

	// CreatedAt is when the set was built.
	CreatedAt time.Time

	// PlaylistPath is the computed playlist file path.
	PlaylistPath string
}

// NewSet creates a Set with a computed playlist path.
//
// The pathConfig determines the playlist path using placeholders:
//   - {name} - Set name
//   - {date} - Creation date (YYYY-MM-DD)
//   - {count} - Number of tracks in the set
//
// Invalid filename characters are replaced with underscores.
func NewSet(name string, tracks, unkeyed []*Track, score int, createdAt time.Time, cfg *PathConfig) *Set {
	set := &Set{
		Name:      name,
		Tracks:    tracks,
		Unkeyed:   unkeyed,
		Score:     score,
		CreatedAt: createdAt,
	}

	if cfg != nil {
		set.PlaylistPath = set.parsePlaylistPath(cfg)
	}

	return set
}

// Len returns the number of tracks in play order.
func (s *Set) Len() int {
	return len(s.Tracks)
}

// PathConfig holds playlist path formatting settings for sets.
type PathConfig struct {
	// OutputDir is the directory where playlists are written.
	OutputDir string

	// PlaylistFileNameFormat is the filename template (without extension).
	// Example: "{name} {date}"
	PlaylistFileNameFormat string

	// PlaylistFormat determines the playlist file type and extension.
	PlaylistFormat PlaylistFormat
}

// PlaylistFormat represents supported playlist file formats.
type PlaylistFormat int

const (
	// PlaylistFormatM3U creates .m3u playlist files (most widely supported).
	PlaylistFormatM3U PlaylistFormat = iota

	// PlaylistFormatPLS creates .pls playlist files (used by Winamp).
	PlaylistFormatPLS

	// PlaylistFormatWPL creates .wpl playlist files (Windows Media Player).
	PlaylistFormatWPL

	// PlaylistFormatZPL creates .zpl playlist files (Zune Media Player).
	PlaylistFormatZPL
)

// ParsePlaylistFormat maps a format name (m3u, pls, wpl, zpl) to a
// PlaylistFormat. The second result is false for unknown names.
func ParsePlaylistFormat(name string) (PlaylistFormat, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "m3u", "":
		return PlaylistFormatM3U, true
	case "pls":
		return PlaylistFormatPLS, true
	case "wpl":
		return PlaylistFormatWPL, true
	case "zpl":
		return PlaylistFormatZPL, true
	default:
		return PlaylistFormatM3U, false
	}
}

// Extension returns the file extension for the playlist format, including the dot.
func (pf PlaylistFormat) Extension() string {
	switch pf {
	case PlaylistFormatM3U:
		return ".m3u"
	case PlaylistFormatPLS:
		return ".pls"
	case PlaylistFormatWPL:
		return ".wpl"
	case PlaylistFormatZPL:
		return ".zpl"
	default:
		return ".m3u"
	}
}

// parsePlaylistPath computes the full playlist file path.
func (s *Set) parsePlaylistPath(cfg *PathConfig) string {
	fileName := s.parsePlaylistFileName(cfg)
	if fileName == "" {
		fileName = "set"
	}
	ext := cfg.PlaylistFormat.Extension()
	filePath := filepath.Join(cfg.OutputDir, fileName+ext)

	// Limit total path length for Windows compatibility
	if len(filePath) >= 260 {
		maxLen := 258 - len(cfg.OutputDir) - len(ext)
		if maxLen > 0 && maxLen < len(fileName) {
			filePath = filepath.Join(cfg.OutputDir, fileName[:maxLen]+ext)
		}
	}

	return filePath
}

// parsePlaylistFileName computes the playlist filename from the config template.
func (s *Set) parsePlaylistFileName(cfg *PathConfig) string {
	fileName := cfg.PlaylistFileNameFormat
	fileName = strings.ReplaceAll(fileName, "{date}", s.CreatedAt.Format("2006-01-02"))
	fileName = strings.ReplaceAll(fileName, "{count}", strconv.Itoa(len(s.Tracks)))
	fileName = strings.ReplaceAll(fileName, "{name}", s.Name)
	return sanitizeFileName(fileName)
}

var (
	invalidChars   = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1f]`)
	trailingDots   = regexp.MustCompile(`\.+$`)
	repeatedSpaces = regexp.MustCompile(`\s+`)
)

// sanitizeFileName removes or replaces characters that are invalid in file/folder names.
//
// The following transformations are applied:
//   - Invalid characters (<>:"/\|?* and control chars) are replaced with underscore
//   - Trailing dots are removed (Windows limitation)
//   - Multiple whitespace is collapsed to single space
//   - Leading and trailing whitespace is removed
//
// Example:
//
//	sanitizeFileName("Set: Part 1/2") // Returns "Set_ Part 1_2"
func sanitizeFileName(name string) string {
	name = invalidChars.ReplaceAllString(name, "_")
	name = trailingDots.ReplaceAllString(name, "")
	name = repeatedSpaces.ReplaceAllString(name, " ")
	return strings.TrimSpace(name)
}
