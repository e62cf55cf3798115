// Package watch reruns work when audio files in a directory change.
package watch

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	ioutils "github.com/handiism/keymix/internal/io"
	"github.com/sirupsen/logrus"
)

// DefaultSettlingDelay is how long the directory must stay quiet before
// the change callback runs.
const DefaultSettlingDelay = 500 * time.Millisecond

// Watcher watches a directory tree for audio file changes.
type Watcher struct {
	log        logrus.FieldLogger
	settling   time.Duration
	extensions []string
	ignore     []string
}

// New creates a Watcher with the default settling delay and extensions.
func New(log logrus.FieldLogger) *Watcher {
	return &Watcher{
		log:      log,
		settling: DefaultSettlingDelay,
	}
}

// SetSettlingDelay sets the quiet period before a callback.
func (w *Watcher) SetSettlingDelay(d time.Duration) {
	if d > 0 {
		w.settling = d
	}
}

// SetExtensions sets the audio extensions that trigger a callback.
func (w *Watcher) SetExtensions(exts []string) {
	w.extensions = exts
}

// Ignore excludes paths from triggering a callback, such as the playlist
// the callback itself writes. Ignoring a path twice has no effect.
func (w *Watcher) Ignore(paths ...string) {
	for _, p := range paths {
		if p == "" {
			continue
		}
		p = filepath.Clean(p)
		if !slices.Contains(w.ignore, p) {
			w.ignore = append(w.ignore, p)
		}
	}
}

// Watch blocks until ctx is done, calling onChange once per burst of audio
// file changes under root. New subdirectories are watched as they appear.
func (w *Watcher) Watch(ctx context.Context, root string, onChange func()) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	defer fsw.Close()

	if err := w.addTree(fsw, root); err != nil {
		return fmt.Errorf("failed to watch %s: %w", root, err)
	}
	w.log.WithField("root", root).Info("watching for changes")

	// fire is nil while no change is pending.
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := w.addTree(fsw, event.Name); err != nil {
						w.log.WithError(err).Warn("failed to watch new directory")
					}
				}
			}
			if !w.relevant(event) {
				continue
			}
			w.log.WithField("path", event.Name).Debug("change detected")
			fire = time.After(w.settling)

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.log.WithError(err).Warn("watch error")

		case <-fire:
			fire = nil
			onChange()
		}
	}
}

// relevant reports whether event should trigger a callback.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if event.Op == fsnotify.Chmod {
		return false
	}
	name := filepath.Clean(event.Name)
	for _, p := range w.ignore {
		if name == p {
			return false
		}
	}
	if strings.HasPrefix(filepath.Base(name), ".") {
		return false
	}
	return ioutils.IsAudioFile(name, w.extensions)
}

func (w *Watcher) addTree(fsw *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		return fsw.Add(path)
	})
}
