package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/handiism/keymix/internal/melodic"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--config", filepath.Join(t.TempDir(), "none.yaml")}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestParseWeightFlags(t *testing.T) {
	got, err := parseWeightFlags([]string{"perfect_match=50", " mood_boost = 7 "})
	if err != nil {
		t.Fatalf("parseWeightFlags error: %v", err)
	}
	if got["perfect_match"] != 50 || got["mood_boost"] != 7 {
		t.Errorf("parseWeightFlags = %v", got)
	}

	for _, bad := range []string{"perfect_match", "=5", "perfect_match=high"} {
		if _, err := parseWeightFlags([]string{bad}); err == nil {
			t.Errorf("parseWeightFlags(%q) should fail", bad)
		}
	}
}

func TestClassifyCommand(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{[]string{"classify", "7A", "8A"}, "7A -> 8A: energy_boost (weight 10)"},
		{[]string{"classify", "Am", "C"}, "8A -> 8B: energy_switch (weight 10)"},
		{[]string{"classify", "1A", "6A"}, "1A -> 6A: no compatible movement"},
		{[]string{"--weight", "energy_boost=42", "classify", "7A", "8A"}, "7A -> 8A: energy_boost (weight 42)"},
	}

	for _, tt := range tests {
		t.Run(strings.Join(tt.args, " "), func(t *testing.T) {
			out, err := execute(t, tt.args...)
			if err != nil {
				t.Fatalf("execute error: %v", err)
			}
			if !strings.Contains(out, tt.want) {
				t.Errorf("output = %q, want %q", out, tt.want)
			}
		})
	}
}

func TestClassifyCommand_Errors(t *testing.T) {
	if _, err := execute(t, "classify", "13A", "8A"); err == nil {
		t.Error("classify with invalid key should fail")
	}
	if _, err := execute(t, "--weight", "bogus=1", "classify", "7A", "8A"); !errors.Is(err, melodic.ErrUnknownMovement) {
		t.Errorf("unknown weight error = %v, want ErrUnknownMovement", err)
	}
	if _, err := execute(t, "--limit", "0", "classify", "7A", "8A"); err == nil {
		t.Error("--limit 0 should fail validation")
	}
}

func TestSortCommand_DryRun(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"7A - one.mp3", "8A - two.mp3", "7B - three.mp3", "intro.mp3"} {
		if err := os.WriteFile(filepath.Join(dir, name), make([]byte, 128), 0644); err != nil {
			t.Fatal(err)
		}
	}

	out, err := execute(t, "--no-cache", "--dry-run", dir)
	if err != nil {
		t.Fatalf("execute error: %v", err)
	}
	if !strings.Contains(out, "Tracks: 3 | Score: 20 | Without key: 1") {
		t.Errorf("missing summary in output:\n%s", out)
	}
	if !strings.Contains(out, "Dry run") {
		t.Errorf("missing dry run notice in output:\n%s", out)
	}

	playlists, _ := filepath.Glob(filepath.Join(dir, "*.m3u"))
	if len(playlists) != 0 {
		t.Errorf("dry run wrote playlists: %v", playlists)
	}
}

func TestSortCommand_WritesPlaylist(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"7A - one.mp3", "8A - two.mp3"} {
		if err := os.WriteFile(filepath.Join(dir, name), make([]byte, 128), 0644); err != nil {
			t.Fatal(err)
		}
	}
	outDir := t.TempDir()

	if _, err := execute(t, "sort", "--no-cache", "--format", "pls", "--output", outDir, dir); err != nil {
		t.Fatalf("execute error: %v", err)
	}

	playlists, _ := filepath.Glob(filepath.Join(outDir, "*.pls"))
	if len(playlists) != 1 {
		t.Fatalf("playlists = %v, want one .pls file", playlists)
	}
}

func TestKeysCommand(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "Track [11B].mp3"), make([]byte, 128), 0644); err != nil {
		t.Fatal(err)
	}

	out, err := execute(t, "keys", "--no-cache", dir)
	if err != nil {
		t.Fatalf("execute error: %v", err)
	}
	if !strings.Contains(out, "11B  filename") {
		t.Errorf("output = %q, want key and source", out)
	}
}

func TestKeysCommand_LogsCacheStats(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "Track [11B].mp3"), make([]byte, 128), 0644); err != nil {
		t.Fatal(err)
	}

	out, err := execute(t, "keys", "--cache", t.TempDir(), "--log-level", "debug", dir)
	if err != nil {
		t.Fatalf("execute error: %v", err)
	}
	if !strings.Contains(out, "key cache closed {hits=0, misses=1}") {
		t.Errorf("output = %q, want cache stats", out)
	}
}
