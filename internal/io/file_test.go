package ioutils

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestKeyFromFileName(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"8A - Prophecy.mp3", "8A"},
		{"Prophecy [12B].flac", "12B"},
		{"Prophecy (3A).wav", "3A"},
		{"08A_Prophecy.mp3", "8A"},
		{"/crate/11B-Intro.mp3", "11B"},
		{"Prophecy - 5B.mp3", "5B"},
		{"Prophecy.mp3", ""},
		{"Track 13A.mp3", ""},
		{"B2B session.mp3", ""},
		{"Mix 2024.mp3", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, ok := KeyFromFileName(tt.name)
			if tt.want == "" {
				if ok {
					t.Errorf("KeyFromFileName(%q) = %s, want no key", tt.name, key)
				}
				return
			}
			if !ok || key.String() != tt.want {
				t.Errorf("KeyFromFileName(%q) = %s, %v; want %s", tt.name, key, ok, tt.want)
			}
		})
	}
}

func touch(t *testing.T, path string, size int) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("MkdirAll error: %v", err)
	}
	if err := os.WriteFile(path, make([]byte, size), 0644); err != nil {
		t.Fatalf("WriteFile error: %v", err)
	}
}

func TestScanAudio(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "b.mp3"), 3)
	touch(t, filepath.Join(root, "a.FLAC"), 1)
	touch(t, filepath.Join(root, "notes.txt"), 1)
	touch(t, filepath.Join(root, ".hidden.mp3"), 1)
	touch(t, filepath.Join(root, "sub", "c.wav"), 2)
	touch(t, filepath.Join(root, ".git", "d.mp3"), 1)

	flat, err := ScanAudio(root, false, nil)
	if err != nil {
		t.Fatalf("ScanAudio error: %v", err)
	}
	if got := relPaths(flat); !equal(got, []string{"a.FLAC", "b.mp3"}) {
		t.Errorf("flat scan = %v", got)
	}
	if flat[1].Size != 3 {
		t.Errorf("Size = %d, want 3", flat[1].Size)
	}

	deep, err := ScanAudio(root, true, nil)
	if err != nil {
		t.Fatalf("ScanAudio error: %v", err)
	}
	want := []string{"a.FLAC", "b.mp3", filepath.Join("sub", "c.wav")}
	if got := relPaths(deep); !equal(got, want) {
		t.Errorf("recursive scan = %v, want %v", got, want)
	}

	onlyMP3, err := ScanAudio(root, true, []string{".MP3"})
	if err != nil {
		t.Fatalf("ScanAudio error: %v", err)
	}
	if got := relPaths(onlyMP3); !equal(got, []string{"b.mp3"}) {
		t.Errorf("mp3 scan = %v", got)
	}
}

func TestScanAudio_MissingRoot(t *testing.T) {
	if _, err := ScanAudio(filepath.Join(t.TempDir(), "nope"), true, nil); err == nil {
		t.Error("ScanAudio of a missing directory should fail")
	}
}

func TestWriteFileAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sets", "friday.m3u")

	if err := WriteFileAtomic(context.Background(), path, []byte("first")); err != nil {
		t.Fatalf("WriteFileAtomic error: %v", err)
	}
	if err := WriteFileAtomic(context.Background(), path, []byte("second")); err != nil {
		t.Fatalf("WriteFileAtomic error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile error: %v", err)
	}
	if string(data) != "second" {
		t.Errorf("content = %q, want %q", data, "second")
	}

	entries, _ := os.ReadDir(filepath.Dir(path))
	if len(entries) != 1 {
		t.Errorf("directory has %d entries, want 1 (temp file left behind)", len(entries))
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := WriteFileAtomic(ctx, path, []byte("third")); err == nil {
		t.Error("WriteFileAtomic should fail with a cancelled context")
	}
}

func relPaths(files []AudioFile) []string {
	out := make([]string, len(files))
	for i, f := range files {
		out[i] = f.RelPath
	}
	return out
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
