package model

import (
	"errors"
	"testing"
	"time"
)

func TestSanitizeFileName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"normal-set", "normal-set"},
		{"set:with:colons", "set_with_colons"},
		{"set<with>brackets", "set_with_brackets"},
		{"set/with\\slashes", "set_with_slashes"},
		{"set|with|pipes", "set_with_pipes"},
		{"set?with*wildcards", "set_with_wildcards"},
		{"set\"with\"quotes", "set_with_quotes"},
		{"trailing dots...", "trailing dots"},
		{"multiple   spaces", "multiple spaces"},
		{"trailing spaces   ", "trailing spaces"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := sanitizeFileName(tt.input)
			if got != tt.want {
				t.Errorf("sanitizeFileName(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestCamelotRoundTrip(t *testing.T) {
	for number := 1; number <= 12; number++ {
		for _, letter := range []Letter{LetterA, LetterB} {
			key, err := NewKey(number, letter)
			if err != nil {
				t.Fatalf("NewKey(%d, %c) error: %v", number, letter, err)
			}

			parsed, err := ParseCamelot(key.String())
			if err != nil {
				t.Fatalf("ParseCamelot(%q) error: %v", key.String(), err)
			}
			if parsed != key {
				t.Errorf("round trip of %s gave %s", key, parsed)
			}
		}
	}
}

func TestParseCamelot_Errors(t *testing.T) {
	tests := []struct {
		input string
		want  error
	}{
		{"13A", ErrInvalidNumber},
		{"0B", ErrInvalidNumber},
		{"7C", ErrInvalidLetter},
		{"7a", ErrInvalidLetter},
		{"", ErrMalformedKey},
		{"A", ErrMalformedKey},
		{"07A", ErrMalformedKey},
		{"-1A", ErrMalformedKey},
		{"1234A", ErrMalformedKey},
		{"x7A", ErrMalformedKey},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := ParseCamelot(tt.input)
			if !errors.Is(err, tt.want) {
				t.Errorf("ParseCamelot(%q) error = %v, want %v", tt.input, err, tt.want)
			}
		})
	}
}

func TestNewKey_Errors(t *testing.T) {
	if _, err := NewKey(0, LetterA); !errors.Is(err, ErrInvalidNumber) {
		t.Errorf("NewKey(0, A) error = %v, want ErrInvalidNumber", err)
	}
	if _, err := NewKey(13, LetterB); !errors.Is(err, ErrInvalidNumber) {
		t.Errorf("NewKey(13, B) error = %v, want ErrInvalidNumber", err)
	}
	if _, err := NewKey(5, Letter('C')); !errors.Is(err, ErrInvalidLetter) {
		t.Errorf("NewKey(5, C) error = %v, want ErrInvalidLetter", err)
	}
}

func TestParseKey(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"8A", "8A"},
		{"12b", "12B"},
		{" 7A ", "7A"},
		{"Am", "8A"},
		{"C", "8B"},
		{"C major", "8B"},
		{"D minor", "7A"},
		{"F#m", "11A"},
		{"Bb", "6B"},
		{"Ebmin", "2A"},
		{"G#m", "1A"},
		{"Cbmaj", "1B"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseKey(tt.input)
			if err != nil {
				t.Fatalf("ParseKey(%q) error: %v", tt.input, err)
			}
			if got.String() != tt.want {
				t.Errorf("ParseKey(%q) = %s, want %s", tt.input, got, tt.want)
			}
		})
	}

	for _, bad := range []string{"", "H", "Am7", "Xm", "13A"} {
		if _, err := ParseKey(bad); err == nil {
			t.Errorf("ParseKey(%q) should fail", bad)
		}
	}
}

func TestFromPitchClass(t *testing.T) {
	if got := FromPitchClass(9, true); got.String() != "8A" {
		t.Errorf("A minor = %s, want 8A", got)
	}
	if got := FromPitchClass(0, false); got.String() != "8B" {
		t.Errorf("C major = %s, want 8B", got)
	}
	if got := FromPitchClass(-1, false); got.String() != "1B" {
		t.Errorf("pitch class -1 = %s, want 1B", got)
	}
}

func TestKey_TextMarshaling(t *testing.T) {
	key := MustKey(11, LetterB)
	text, err := key.MarshalText()
	if err != nil {
		t.Fatalf("MarshalText error: %v", err)
	}
	if string(text) != "11B" {
		t.Errorf("MarshalText = %q, want 11B", text)
	}

	var decoded Key
	if err := decoded.UnmarshalText(text); err != nil {
		t.Fatalf("UnmarshalText error: %v", err)
	}
	if decoded != key {
		t.Errorf("UnmarshalText = %s, want %s", decoded, key)
	}

	if _, err := (Key{}).MarshalText(); err == nil {
		t.Error("MarshalText of zero key should fail")
	}
}

func TestTrack_Name(t *testing.T) {
	track := NewTrack(3, "/music/Prophecy - Kanine.mp3")
	if track.Name != "Prophecy - Kanine" {
		t.Errorf("Name = %q, want %q", track.Name, "Prophecy - Kanine")
	}
	if track.HasKey() {
		t.Error("new track should have no key")
	}
	if track.KeyString() != "-" {
		t.Errorf("KeyString = %q, want -", track.KeyString())
	}

	track.SetKey(MustKey(9, LetterA), SourceTag)
	if k, ok := track.ResolvedKey(); !ok || k.String() != "9A" {
		t.Errorf("ResolvedKey = %v, %v", k, ok)
	}
	if track.KeySource != SourceTag {
		t.Errorf("KeySource = %q, want tag", track.KeySource)
	}
}

func TestSet_PathComputation(t *testing.T) {
	cfg := &PathConfig{
		OutputDir:              "/music/sets",
		PlaylistFileNameFormat: "{name} {date} ({count})",
		PlaylistFormat:         PlaylistFormatPLS,
	}

	createdAt := time.Date(2023, 5, 15, 0, 0, 0, 0, time.UTC)
	tracks := []*Track{NewTrack(0, "/a.mp3"), NewTrack(1, "/b.mp3")}
	set := NewSet("Friday: Warmup", tracks, nil, 20, createdAt, cfg)

	want := "/music/sets/Friday_ Warmup 2023-05-15 (2).pls"
	if set.PlaylistPath != want {
		t.Errorf("PlaylistPath = %q, want %q", set.PlaylistPath, want)
	}
	if set.Len() != 2 {
		t.Errorf("Len = %d, want 2", set.Len())
	}
}

func TestSet_NoConfig(t *testing.T) {
	set := NewSet("x", nil, nil, 0, time.Now(), nil)
	if set.PlaylistPath != "" {
		t.Errorf("PlaylistPath = %q, want empty", set.PlaylistPath)
	}
}

func TestPlaylistFormat_Extension(t *testing.T) {
	tests := []struct {
		format PlaylistFormat
		want   string
	}{
		{PlaylistFormatM3U, ".m3u"},
		{PlaylistFormatPLS, ".pls"},
		{PlaylistFormatWPL, ".wpl"},
		{PlaylistFormatZPL, ".zpl"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.format.Extension(); got != tt.want {
				t.Errorf("Extension() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParsePlaylistFormat(t *testing.T) {
	if f, ok := ParsePlaylistFormat("ZPL"); !ok || f != PlaylistFormatZPL {
		t.Errorf("ParsePlaylistFormat(ZPL) = %v, %v", f, ok)
	}
	if _, ok := ParsePlaylistFormat("xspf"); ok {
		t.Error("ParsePlaylistFormat(xspf) should not be recognized")
	}
}
