package audio

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/bogem/id3v2"
	"github.com/handiism/keymix/internal/model"
)

// keyFrameID is the ID3 frame holding the initial key of a track.
const keyFrameID = "TKEY"

// ErrUnsupportedFormat is returned when writing tags to a file type that
// does not carry ID3 tags.
var ErrUnsupportedFormat = errors.New("unsupported format for ID3 tags")

// TagEditAction defines how the key frame is handled on write.
type TagEditAction int

const (
	// TagEmpty removes the key frame.
	TagEmpty TagEditAction = iota

	// TagModify writes the resolved key in Camelot notation.
	TagModify

	// TagDoNotModify leaves the existing frame unchanged.
	TagDoNotModify
)

// TagConfig holds the tagging configuration.
//
// Example:
//
//	cfg := &TagConfig{
//	    ModifyTags: true,
//	    Key:        TagModify, // write "8A" into TKEY
//	}
type TagConfig struct {
	// ModifyTags is a master switch. If false, WriteKey does nothing.
	ModifyTags bool

	// Key controls the TKEY (Initial key) frame.
	Key TagEditAction
}

// DefaultTagConfig returns the default tag configuration: tags are read
// but never written.
func DefaultTagConfig() *TagConfig {
	return &TagConfig{
		ModifyTags: false,
		Key:        TagModify,
	}
}

// Tagger reads and writes the key of audio files through ID3 tags.
//
// Keys are read from the TKEY frame in either Camelot ("8A") or musical
// ("Am", "F#m") notation. Writing always uses Camelot notation and only
// happens for MP3 files when enabled in TagConfig.
//
// Example:
//
//	tagger := NewTagger(nil)
//	key, err := tagger.ReadKey("/music/track.mp3")
//	if err == nil && key != nil {
//	    fmt.Println(key) // 8A
//	}
type Tagger struct {
	config *TagConfig
}

// NewTagger creates a new Tagger with the given configuration.
//
// If config is nil, DefaultTagConfig() is used.
func NewTagger(config *TagConfig) *Tagger {
	if config == nil {
		config = DefaultTagConfig()
	}
	return &Tagger{config: config}
}

// ReadKey returns the key stored in the file's TKEY frame.
//
// A file without an ID3 tag or without a TKEY frame yields nil and no
// error. A frame that cannot be parsed as a key is an error.
func (t *Tagger) ReadKey(path string) (*model.Key, error) {
	tag, err := id3v2.Open(path, id3v2.Options{Parse: true, ParseFrames: []string{keyFrameID}})
	if err != nil {
		return nil, fmt.Errorf("failed to read tags: %w", err)
	}
	defer tag.Close()

	text := strings.TrimSpace(strings.TrimRight(tag.GetTextFrame(keyFrameID).Text, "\x00"))
	if text == "" {
		return nil, nil
	}

	key, err := model.ParseKey(text)
	if err != nil {
		return nil, fmt.Errorf("invalid %s frame: %w", keyFrameID, err)
	}
	return &key, nil
}

// WriteKey stores key in the file's TKEY frame according to TagConfig.
//
// Only MP3 files are written; other formats return ErrUnsupportedFormat.
func (t *Tagger) WriteKey(path string, key model.Key) error {
	if !t.config.ModifyTags || t.config.Key == TagDoNotModify {
		return nil
	}
	if !strings.EqualFold(filepath.Ext(path), ".mp3") {
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}

	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return fmt.Errorf("failed to open tags: %w", err)
	}
	defer tag.Close()

	switch t.config.Key {
	case TagEmpty:
		tag.DeleteFrames(keyFrameID)
	case TagModify:
		tag.DeleteFrames(keyFrameID)
		tag.AddTextFrame(keyFrameID, id3v2.EncodingUTF8, key.String())
	}

	return tag.Save()
}
