package ioutils

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/handiism/keymix/internal/model"
)

// DefaultAudioExtensions lists the file extensions scanned by default.
var DefaultAudioExtensions = []string{".mp3", ".flac", ".wav", ".aiff", ".aif", ".m4a", ".ogg"}

// AudioFile is one audio file found by ScanAudio.
type AudioFile struct {
	// Path is the file path, rooted at the scanned directory.
	Path string

	// RelPath is the path relative to the scanned directory.
	RelPath string

	Size    int64
	ModUnix int64
}

// ScanAudio lists the audio files under root.
//
// Only files whose extension (case-insensitive) is in exts are returned;
// a nil exts uses DefaultAudioExtensions. Subdirectories are descended
// only when recursive is true. Hidden files and directories are skipped.
// The result is sorted by relative path so repeated scans of the same
// tree give the same order.
//
// Example:
//
//	files, err := ScanAudio("/music/crate", true, nil)
//	for _, f := range files {
//	    fmt.Println(f.RelPath, f.Size)
//	}
func ScanAudio(root string, recursive bool, exts []string) ([]AudioFile, error) {
	if exts == nil {
		exts = DefaultAudioExtensions
	}
	root = filepath.Clean(root)

	files := make([]AudioFile, 0, 64)
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}

		if d.IsDir() {
			if path == root {
				return nil
			}
			if !recursive || isHidden(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}

		if isHidden(d.Name()) || !IsAudioFile(d.Name(), exts) {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}

		files = append(files, AudioFile{
			Path:    path,
			RelPath: rel,
			Size:    info.Size(),
			ModUnix: info.ModTime().Unix(),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", root, err)
	}

	sort.Slice(files, func(i, j int) bool { return files[i].RelPath < files[j].RelPath })
	return files, nil
}

// IsAudioFile reports whether name has one of the given extensions.
func IsAudioFile(name string, exts []string) bool {
	if exts == nil {
		exts = DefaultAudioExtensions
	}
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range exts {
		if ext == strings.ToLower(e) {
			return true
		}
	}
	return false
}

func isHidden(name string) bool {
	return strings.HasPrefix(name, ".") && name != "." && name != ".."
}

// camelotHint matches a Camelot key standing alone in a file name, e.g.
// "8A - Title", "Title [12B]" or "Title (03A)".
var camelotHint = regexp.MustCompile(`(?:^|[\s\[\(_\-])(0?[1-9]|1[0-2])([AB])(?:$|[\s\]\)_\-.])`)

// KeyFromFileName extracts a Camelot key hint from a file name.
//
// Example:
//
//	KeyFromFileName("8A - Prophecy.mp3")  // 8A, true
//	KeyFromFileName("Prophecy (12B).mp3") // 12B, true
//	KeyFromFileName("Prophecy.mp3")       // false
func KeyFromFileName(name string) (model.Key, bool) {
	base := filepath.Base(name)
	base = strings.TrimSuffix(base, filepath.Ext(base))

	m := camelotHint.FindStringSubmatch(base)
	if m == nil {
		return model.Key{}, false
	}

	key, err := model.ParseCamelot(strings.TrimPrefix(m[1], "0") + m[2])
	if err != nil {
		return model.Key{}, false
	}
	return key, true
}

// WriteFileAtomic writes data to path through a temporary file in the same
// directory followed by a rename, so readers never see a partial file.
//
// The file is created with mode 0644 and its directory is created if
// needed.
//
// Example:
//
//	playlistContent := []byte("#EXTM3U\n...")
//	err := WriteFileAtomic(ctx, "/music/sets/friday.m3u", playlistContent)
func WriteFileAtomic(ctx context.Context, path string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := EnsureDir(dir); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		return err
	}

	return os.Rename(tmpName, path)
}

// EnsureDir creates a directory and all parent directories if they don't exist.
//
// Directories are created with mode 0755 (rwxr-xr-x).
// If the directory already exists, no error is returned.
func EnsureDir(path string) error {
	return os.MkdirAll(path, 0755)
}
