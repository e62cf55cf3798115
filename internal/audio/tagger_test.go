package audio

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/bogem/id3v2"
	"github.com/handiism/keymix/internal/model"
)

// writeTaggedFile creates a fake MP3 with an optional TKEY frame.
func writeTaggedFile(t *testing.T, name, tkey string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte("not really audio"), 0644); err != nil {
		t.Fatalf("WriteFile error: %v", err)
	}
	if tkey == "" {
		return path
	}

	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		t.Fatalf("id3v2.Open error: %v", err)
	}
	tag.AddTextFrame("TKEY", id3v2.EncodingUTF8, tkey)
	if err := tag.Save(); err != nil {
		t.Fatalf("Save error: %v", err)
	}
	tag.Close()
	return path
}

func TestTagger_ReadKey(t *testing.T) {
	tests := []struct {
		name string
		tkey string
		want string
	}{
		{"camelot", "8A", "8A"},
		{"musical minor", "F#m", "11A"},
		{"musical major", "Bb", "6B"},
	}

	tagger := NewTagger(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeTaggedFile(t, "track.mp3", tt.tkey)
			key, err := tagger.ReadKey(path)
			if err != nil {
				t.Fatalf("ReadKey error: %v", err)
			}
			if key == nil || key.String() != tt.want {
				t.Errorf("ReadKey = %v, want %s", key, tt.want)
			}
		})
	}
}

func TestTagger_ReadKey_Missing(t *testing.T) {
	path := writeTaggedFile(t, "plain.mp3", "")
	key, err := NewTagger(nil).ReadKey(path)
	if err != nil {
		t.Fatalf("ReadKey error: %v", err)
	}
	if key != nil {
		t.Errorf("ReadKey = %v, want nil", key)
	}
}

func TestTagger_ReadKey_NulOnly(t *testing.T) {
	path := writeTaggedFile(t, "nul.mp3", "\x00")
	key, err := NewTagger(nil).ReadKey(path)
	if err != nil {
		t.Fatalf("ReadKey error: %v", err)
	}
	if key != nil {
		t.Errorf("ReadKey = %v, want nil", key)
	}
}

func TestTagger_ReadKey_Invalid(t *testing.T) {
	path := writeTaggedFile(t, "bad.mp3", "sideways")
	_, err := NewTagger(nil).ReadKey(path)
	if !errors.Is(err, model.ErrMalformedKey) {
		t.Errorf("ReadKey error = %v, want ErrMalformedKey", err)
	}
}

func TestTagger_WriteKey(t *testing.T) {
	path := writeTaggedFile(t, "track.mp3", "1A")
	tagger := NewTagger(&TagConfig{ModifyTags: true, Key: TagModify})

	if err := tagger.WriteKey(path, model.MustKey(5, model.LetterB)); err != nil {
		t.Fatalf("WriteKey error: %v", err)
	}

	key, err := tagger.ReadKey(path)
	if err != nil {
		t.Fatalf("ReadKey error: %v", err)
	}
	if key == nil || key.String() != "5B" {
		t.Errorf("ReadKey after write = %v, want 5B", key)
	}
}

func TestTagger_WriteKey_Disabled(t *testing.T) {
	path := writeTaggedFile(t, "track.mp3", "1A")
	if err := NewTagger(nil).WriteKey(path, model.MustKey(5, model.LetterB)); err != nil {
		t.Fatalf("WriteKey error: %v", err)
	}

	key, _ := NewTagger(nil).ReadKey(path)
	if key == nil || key.String() != "1A" {
		t.Errorf("disabled WriteKey changed the tag to %v", key)
	}
}

func TestTagger_WriteKey_Unsupported(t *testing.T) {
	tagger := NewTagger(&TagConfig{ModifyTags: true, Key: TagModify})
	err := tagger.WriteKey("/music/track.flac", model.MustKey(5, model.LetterB))
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("WriteKey error = %v, want ErrUnsupportedFormat", err)
	}
}
