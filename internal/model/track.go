package model

import (
	"path/filepath"
	"strings"
)

// KeySource records where a track's key came from.
type KeySource string

const (
	// SourceNone means no key could be resolved.
	SourceNone KeySource = ""

	// SourceCache means the key came from the persistent key cache.
	SourceCache KeySource = "cache"

	// SourceTag means the key was read from the file's ID3 TKEY frame.
	SourceTag KeySource = "tag"

	// SourceFileName means the key was found in the file name.
	SourceFileName KeySource = "filename"
)

// Track represents a single audio file in the collection being sorted.
//
// Track contains:
//   - Index, the position of the track in the input sequence
//   - Name and Path for display and playlist output
//   - Size and ModUnix, the file signature used to validate cached keys
//   - Key, the resolved Camelot key (nil when no key is known)
//
// Sorting never mutates a Track; the sorted set holds the same pointers.
//
// Example:
//
//	track := NewTrack(0, "/music/Prophecy - Kanine.mp3")
//	// track.Name = "Prophecy - Kanine"
type Track struct {
	// Index is the position of the track in the input sequence.
	Index int

	// Name is the display name, by default the file name without extension.
	Name string

	// Path is the location of the audio file.
	Path string

	// Size is the file size in bytes at scan time.
	Size int64

	// ModUnix is the file modification time (unix seconds) at scan time.
	ModUnix int64

	// Key is the resolved key, nil when the track has none.
	Key *Key

	// KeySource tells where Key came from.
	KeySource KeySource
}

// NewTrack creates a Track for the file at path, named after the file.
func NewTrack(index int, path string) *Track {
	return &Track{
		Index: index,
		Name:  trackName(path),
		Path:  path,
	}
}

// NewKeyedTrack creates a Track with a name and a known key.
// It is used for key lists that do not come from files.
func NewKeyedTrack(index int, name string, key Key) *Track {
	return &Track{
		Index:     index,
		Name:      name,
		Key:       &key,
		KeySource: SourceFileName,
	}
}

// ResolvedKey returns the track key and whether one is known.
func (t *Track) ResolvedKey() (Key, bool) {
	if t == nil || t.Key == nil {
		return Key{}, false
	}
	return *t.Key, true
}

// SetKey records a resolved key and its source.
func (t *Track) SetKey(key Key, source KeySource) {
	t.Key = &key
	t.KeySource = source
}

// HasKey reports whether the track has a resolved key.
func (t *Track) HasKey() bool {
	return t != nil && t.Key != nil
}

// KeyString returns the Camelot key, or "-" when there is none.
func (t *Track) KeyString() string {
	if k, ok := t.ResolvedKey(); ok {
		return k.String()
	}
	return "-"
}

func trackName(path string) string {
	base := filepath.Base(path)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	if name == "" || name == "." || name == string(filepath.Separator) {
		return "unknown"
	}
	return name
}
