package audio

import (
	"strings"
	"testing"
	"time"

	"github.com/handiism/keymix/internal/model"
)

func TestPlaylistCreator_M3U(t *testing.T) {
	set := createTestSet()
	creator := NewPlaylistCreator(model.PlaylistFormatM3U, false)

	content := creator.CreatePlaylist(set)

	want := "../library/track1.mp3\n../library/track2.mp3\n"
	if content != want {
		t.Errorf("M3U = %q, want %q", content, want)
	}
}

func TestPlaylistCreator_M3UExtended(t *testing.T) {
	set := createTestSet()
	creator := NewPlaylistCreator(model.PlaylistFormatM3U, true)

	content := creator.CreatePlaylist(set)

	if !strings.HasPrefix(content, "#EXTM3U") {
		t.Error("Extended M3U should start with #EXTM3U")
	}
	if !strings.Contains(content, "#EXTINF:-1,[7A] track1\n") {
		t.Error("Extended M3U should carry the key in #EXTINF")
	}
	if !strings.Contains(content, "#EXTINF:-1,track2\n") {
		t.Error("Unkeyed track should be listed without a key")
	}
}

func TestPlaylistCreator_PLS(t *testing.T) {
	set := createTestSet()
	creator := NewPlaylistCreator(model.PlaylistFormatPLS, false)

	content := creator.CreatePlaylist(set)

	if !strings.HasPrefix(content, "[playlist]") {
		t.Error("PLS should start with [playlist]")
	}
	if !strings.Contains(content, "File1=../library/track1.mp3") {
		t.Error("PLS should contain File1=")
	}
	if !strings.Contains(content, "NumberOfEntries=2") {
		t.Error("PLS should contain NumberOfEntries")
	}
}

func TestPlaylistCreator_WPL(t *testing.T) {
	set := createTestSet()
	creator := NewPlaylistCreator(model.PlaylistFormatWPL, false)

	content := creator.CreatePlaylist(set)

	if !strings.Contains(content, "<?wpl") {
		t.Error("WPL should contain XML declaration")
	}
	if !strings.Contains(content, "<smil>") {
		t.Error("WPL should contain smil element")
	}
	if !strings.Contains(content, "<media src=") {
		t.Error("WPL should contain media elements")
	}
}

func TestPlaylistCreator_ZPL(t *testing.T) {
	set := createTestSet()
	creator := NewPlaylistCreator(model.PlaylistFormatZPL, false)

	content := creator.CreatePlaylist(set)

	if !strings.Contains(content, "<?zpl") {
		t.Error("ZPL should contain XML declaration")
	}
	if !strings.Contains(content, "trackTitle=\"[7A] track1\"") {
		t.Error("ZPL should contain trackTitle attribute")
	}
}

func TestPlaylistCreator_XMLEscape(t *testing.T) {
	track := model.NewKeyedTrack(0, "Track & \"Quote\"", model.MustKey(1, model.LetterA))
	track.Path = "/music/a&b.mp3"
	set := model.NewSet("Set <Special>", []*model.Track{track}, nil, 0, time.Now(), nil)

	creator := NewPlaylistCreator(model.PlaylistFormatZPL, false)
	content := creator.CreatePlaylist(set)

	if !strings.Contains(content, "a&amp;b.mp3") {
		t.Error("ZPL should escape & as &amp;")
	}
	if strings.Contains(content, "<Special>") {
		t.Error("ZPL should escape < and >")
	}
	if !strings.Contains(content, "&quot;Quote&quot;") {
		t.Error("ZPL should escape quotes")
	}
}

func TestPlaylistCreator_NoPlaylistPath(t *testing.T) {
	track := model.NewTrack(0, "/music/track.mp3")
	set := model.NewSet("x", []*model.Track{track}, nil, 0, time.Now(), nil)

	content := NewPlaylistCreator(model.PlaylistFormatM3U, false).CreatePlaylist(set)
	if content != "/music/track.mp3\n" {
		t.Errorf("M3U = %q, want absolute path", content)
	}
}

func createTestSet() *model.Set {
	cfg := &model.PathConfig{
		OutputDir:              "/music/sets",
		PlaylistFileNameFormat: "{name}",
	}

	track1 := model.NewTrack(0, "/music/library/track1.mp3")
	track1.SetKey(model.MustKey(7, model.LetterA), model.SourceTag)
	track2 := model.NewTrack(1, "/music/library/track2.mp3")

	return model.NewSet("Test Set", []*model.Track{track1, track2}, nil, 0, time.Now(), cfg)
}
