package audio

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/handiism/keymix/internal/model"
)

// PlaylistCreator generates playlist files in various formats.
//
// PlaylistCreator takes a sorted set and renders its tracks in play order.
// The output is a string that can be written to a file.
//
// Example:
//
//	// Create M3U playlist with extended info
//	creator := NewPlaylistCreator(model.PlaylistFormatM3U, true)
//	content := creator.CreatePlaylist(set)
//	os.WriteFile(set.PlaylistPath, []byte(content), 0644)
//
//	// Result:
//	// #EXTM3U
//	// #EXTINF:-1,[8A] Prophecy - Kanine
//	// ../tracks/Prophecy - Kanine.mp3
type PlaylistCreator struct {
	format   model.PlaylistFormat
	extended bool // For M3U: include EXTINF lines with key and name
}

// NewPlaylistCreator creates a new PlaylistCreator.
//
// Parameters:
//   - format: The playlist format to generate
//   - extended: For M3U format, whether to include #EXTINF lines
//     (ignored for other formats)
func NewPlaylistCreator(format model.PlaylistFormat, extended bool) *PlaylistCreator {
	return &PlaylistCreator{
		format:   format,
		extended: extended,
	}
}

// CreatePlaylist generates playlist content for a set.
//
// Track paths are written relative to the directory of set.PlaylistPath
// when possible, otherwise as they are stored on the track.
func (p *PlaylistCreator) CreatePlaylist(set *model.Set) string {
	switch p.format {
	case model.PlaylistFormatPLS:
		return p.createPLS(set)
	case model.PlaylistFormatWPL:
		return p.createWPL(set)
	case model.PlaylistFormatZPL:
		return p.createZPL(set)
	default:
		return p.createM3U(set)
	}
}

// createM3U generates an M3U playlist.
//
// Extended M3U format (when extended=true):
//
//	#EXTM3U
//	#PLAYLIST:Friday
//	#EXTINF:-1,[8A] Title
//	Title.mp3
func (p *PlaylistCreator) createM3U(set *model.Set) string {
	var sb strings.Builder

	if p.extended {
		fmt.Fprintf(&sb, "#EXTM3U\n#PLAYLIST:%s\n", set.Name)
	}
	for _, track := range set.Tracks {
		if p.extended {
			fmt.Fprintf(&sb, "#EXTINF:-1,%s\n", displayName(track))
		}
		fmt.Fprintln(&sb, entryPath(set, track))
	}

	return sb.String()
}

// createPLS generates a PLS playlist. Track lengths are unknown and
// written as -1.
func (p *PlaylistCreator) createPLS(set *model.Set) string {
	var sb strings.Builder

	sb.WriteString("[playlist]\n")
	for i, track := range set.Tracks {
		n := i + 1
		fmt.Fprintf(&sb, "File%d=%s\nTitle%d=%s\nLength%d=-1\n", n, entryPath(set, track), n, displayName(track), n)
	}
	fmt.Fprintf(&sb, "NumberOfEntries=%d\nVersion=2\n", len(set.Tracks))

	return sb.String()
}

// createWPL generates a Windows Media Player playlist.
func (p *PlaylistCreator) createWPL(set *model.Set) string {
	return smil(set, `<?wpl version="1.0"?>`, nil, func(track *model.Track) string {
		return fmt.Sprintf(`<media src="%s"/>`, escapeXML(entryPath(set, track)))
	})
}

// createZPL generates a Zune/Groove Music playlist. It differs from WPL by
// a generator, an item count and titles on each media entry.
func (p *PlaylistCreator) createZPL(set *model.Set) string {
	meta := []string{
		`<meta name="Generator" content="keymix"/>`,
		fmt.Sprintf(`<meta name="ItemCount" content="%d"/>`, len(set.Tracks)),
	}
	return smil(set, `<?zpl version="2.0"?>`, meta, func(track *model.Track) string {
		return fmt.Sprintf(`<media src="%s" albumTitle="%s" trackTitle="%s"/>`,
			escapeXML(entryPath(set, track)), escapeXML(set.Name), escapeXML(displayName(track)))
	})
}

// smil renders the SMIL document shared by WPL and ZPL.
func smil(set *model.Set, declaration string, meta []string, media func(*model.Track) string) string {
	var sb strings.Builder

	sb.WriteString(declaration + "\n<smil>\n  <head>\n")
	fmt.Fprintf(&sb, "    <title>%s</title>\n", escapeXML(set.Name))
	for _, m := range meta {
		sb.WriteString("    " + m + "\n")
	}
	sb.WriteString("  </head>\n  <body>\n    <seq>\n")
	for _, track := range set.Tracks {
		sb.WriteString("      " + media(track) + "\n")
	}
	sb.WriteString("    </seq>\n  </body>\n</smil>\n")

	return sb.String()
}

// displayName prefixes the track name with its key, e.g. "[8A] Title".
func displayName(track *model.Track) string {
	if !track.HasKey() {
		return track.Name
	}
	return fmt.Sprintf("[%s] %s", track.KeyString(), track.Name)
}

// entryPath returns the track path relative to the playlist directory.
func entryPath(set *model.Set, track *model.Track) string {
	if set.PlaylistPath == "" || track.Path == "" {
		return track.Path
	}
	rel, err := filepath.Rel(filepath.Dir(set.PlaylistPath), track.Path)
	if err != nil {
		return track.Path
	}
	return filepath.ToSlash(rel)
}

var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	"\"", "&quot;",
	"'", "&apos;",
)

func escapeXML(s string) string {
	return xmlEscaper.Replace(s)
}
