package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/handiism/keymix/internal/audio"
	"github.com/handiism/keymix/internal/cache"
	"github.com/handiism/keymix/internal/config"
	ioutils "github.com/handiism/keymix/internal/io"
	"github.com/handiism/keymix/internal/melodic"
	"github.com/handiism/keymix/internal/model"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// ErrNoTracks is returned by Initialize when the inputs hold no audio files.
var ErrNoTracks = errors.New("no audio files found")

// ProgressLevel indicates the severity/type of a progress message.
type ProgressLevel int

const (
	LevelInfo ProgressLevel = iota
	LevelVerbose
	LevelWarning
	LevelError
	LevelSuccess
)

// ProgressEvent represents a pipeline progress update.
type ProgressEvent struct {
	Message string
	Level   ProgressLevel
}

// KeyStore is the cache used to skip key lookups for unchanged files.
// *cache.Store implements it.
type KeyStore interface {
	Get(path string) (cache.Entry, bool, error)
	Put(path string, entry cache.Entry) error
	Delete(path string) error
}

// Confidence recorded in the cache per key source.
const (
	tagConfidence      = 1.0
	fileNameConfidence = 0.5
)

// Manager coordinates scanning, key resolution, sorting and playlist output.
type Manager struct {
	settings *config.Settings
	store    KeyStore
	tagger   *audio.Tagger
	playlist *audio.PlaylistCreator
	log      logrus.FieldLogger

	tracks    []*model.Track
	outputDir string

	totalTracks    int32
	resolvedTracks int32
	failedTracks   int32

	onProgress func(ProgressEvent)
	mu         sync.Mutex
}

// NewManager creates a new Manager. store may be nil to disable caching.
func NewManager(settings *config.Settings, store KeyStore, onProgress func(ProgressEvent)) *Manager {
	playlistFormat, _ := model.ParsePlaylistFormat(settings.PlaylistFormat)

	tagCfg := audio.DefaultTagConfig()
	tagCfg.ModifyTags = settings.WriteTags

	log := logrus.New()
	log.SetOutput(io.Discard)

	return &Manager{
		settings:   settings,
		store:      store,
		tagger:     audio.NewTagger(tagCfg),
		playlist:   audio.NewPlaylistCreator(playlistFormat, settings.M3UExtended),
		log:        log,
		onProgress: onProgress,
	}
}

// SetLogger sets the logger for diagnostics. Progress events are not
// affected.
func (m *Manager) SetLogger(log logrus.FieldLogger) {
	if log != nil {
		m.log = log
	}
}

// Initialize collects the audio files named by inputs. Directories are
// scanned, files are taken as they are. Duplicate paths are kept once, in
// order of first appearance.
func (m *Manager) Initialize(ctx context.Context, inputs []string) error {
	m.tracks = nil
	m.outputDir = ""
	atomic.StoreInt32(&m.resolvedTracks, 0)
	atomic.StoreInt32(&m.failedTracks, 0)

	seen := make(map[string]bool)
	add := func(path string, size, modUnix int64) {
		if seen[path] {
			return
		}
		seen[path] = true
		track := model.NewTrack(len(m.tracks), path)
		track.Size = size
		track.ModUnix = modUnix
		m.tracks = append(m.tracks, track)
	}

	for _, input := range inputs {
		if err := ctx.Err(); err != nil {
			return err
		}

		abs, err := filepath.Abs(input)
		if err != nil {
			m.progress(ProgressEvent{Message: fmt.Sprintf("Error reading %s: %v", input, err), Level: LevelError})
			continue
		}

		info, err := os.Stat(abs)
		if err != nil {
			m.progress(ProgressEvent{Message: fmt.Sprintf("Error reading %s: %v", input, err), Level: LevelError})
			continue
		}

		if !info.IsDir() {
			if !ioutils.IsAudioFile(abs, m.settings.Extensions) {
				m.progress(ProgressEvent{Message: fmt.Sprintf("Skipping non-audio file: %s", input), Level: LevelWarning})
				continue
			}
			if m.outputDir == "" {
				m.outputDir = filepath.Dir(abs)
			}
			add(abs, info.Size(), info.ModTime().Unix())
			continue
		}

		if m.outputDir == "" {
			m.outputDir = abs
		}
		files, err := ioutils.ScanAudio(abs, m.settings.Recursive, m.settings.Extensions)
		if err != nil {
			m.progress(ProgressEvent{Message: fmt.Sprintf("Error scanning %s: %v", input, err), Level: LevelError})
			continue
		}
		for _, f := range files {
			add(f.Path, f.Size, f.ModUnix)
		}
		m.progress(ProgressEvent{Message: fmt.Sprintf("Found %d audio files in %s", len(files), input), Level: LevelInfo})
	}

	atomic.StoreInt32(&m.totalTracks, int32(len(m.tracks)))
	if len(m.tracks) == 0 {
		return ErrNoTracks
	}
	return nil
}

// ResolveKeys looks up the key of every track concurrently.
//
// Each track tries the cache, then its ID3 tag, then its file name. A
// track whose key cannot be found gets a warning and stays keyless; only
// cancellation stops the batch.
func (m *Manager) ResolveKeys(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(m.settings.MaxConcurrentAnalyses, 1))

	for _, track := range m.tracks {
		track := track
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if m.resolveTrack(track) {
				atomic.AddInt32(&m.resolvedTracks, 1)
			} else {
				atomic.AddInt32(&m.failedTracks, 1)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	resolved, failed, total := m.GetProgress()
	m.progress(ProgressEvent{
		Message: fmt.Sprintf("Resolved %d/%d keys (%d without key)", resolved, total, failed),
		Level:   LevelInfo,
	})
	return nil
}

func (m *Manager) resolveTrack(track *model.Track) bool {
	log := m.log.WithField("path", track.Path)

	if m.cacheEnabled() {
		entry, ok, err := m.store.Get(track.Path)
		switch {
		case err != nil:
			log.WithError(err).Warn("cache lookup failed")
		case ok:
			track.SetKey(entry.Key, model.SourceCache)
			m.progress(ProgressEvent{Message: fmt.Sprintf("%s: %s (cached)", track.Name, entry.Key), Level: LevelVerbose})
			return true
		}
	}

	confidence := 0.0
	if m.settings.ReadTags {
		key, err := m.tagger.ReadKey(track.Path)
		if err != nil {
			m.progress(ProgressEvent{Message: fmt.Sprintf("Error reading tags of %s: %v", track.Name, err), Level: LevelWarning})
		} else if key != nil {
			track.SetKey(*key, model.SourceTag)
			confidence = tagConfidence
		}
	}

	if !track.HasKey() && m.settings.ReadFileNames {
		if key, ok := ioutils.KeyFromFileName(track.Path); ok {
			track.SetKey(key, model.SourceFileName)
			confidence = fileNameConfidence
		}
	}

	key, ok := track.ResolvedKey()
	if !ok {
		// Drop an entry left from an earlier version of the file.
		if m.cacheEnabled() {
			if err := m.store.Delete(track.Path); err != nil {
				log.WithError(err).Warn("cache delete failed")
			}
		}
		m.progress(ProgressEvent{Message: fmt.Sprintf("No key found for %s", track.Name), Level: LevelWarning})
		return false
	}

	if m.settings.WriteTags && track.KeySource != model.SourceTag {
		err := m.tagger.WriteKey(track.Path, key)
		switch {
		case errors.Is(err, audio.ErrUnsupportedFormat):
			log.WithError(err).Debug("key not written")
		case err != nil:
			m.progress(ProgressEvent{Message: fmt.Sprintf("Error tagging %s: %v", track.Name, err), Level: LevelWarning})
		}
	}

	if m.cacheEnabled() {
		entry := cache.Entry{Key: key, Confidence: confidence, Source: track.KeySource}
		if err := m.store.Put(track.Path, entry); err != nil {
			log.WithError(err).Warn("cache write failed")
		}
	}

	m.progress(ProgressEvent{Message: fmt.Sprintf("%s: %s (%s)", track.Name, key, track.KeySource), Level: LevelVerbose})
	return true
}

func (m *Manager) cacheEnabled() bool {
	return m.store != nil && m.settings.UseCache
}

// Sort orders the resolved tracks into a set.
//
// Keyless tracks are left out of the path and listed in Set.Unkeyed; with
// AppendUnkeyed they are also appended to the play order.
func (m *Manager) Sort() *model.Set {
	opts := append(m.settings.SearchOptions(), melodic.WithLogger(m.log))
	path := melodic.Sort(m.tracks, opts...)

	onPath := make(map[*model.Track]bool, len(path))
	for _, t := range path {
		onPath[t] = true
	}

	var unkeyed, unplaced []*model.Track
	for _, t := range m.tracks {
		switch {
		case !t.HasKey():
			unkeyed = append(unkeyed, t)
		case !onPath[t]:
			unplaced = append(unplaced, t)
		}
	}

	score := 0
	for _, tr := range melodic.Transitions(path, m.settings.Weights) {
		score += tr.Weight
	}

	ordered := make([]*model.Track, 0, len(path)+len(unkeyed))
	ordered = append(ordered, path...)
	if m.settings.AppendUnkeyed {
		ordered = append(ordered, unkeyed...)
	}

	set := model.NewSet(m.settings.SetName, ordered, unkeyed, score, time.Now(), m.settings.ToPathConfig(m.outputDir))
	set.Unplaced = unplaced

	m.progress(ProgressEvent{
		Message: fmt.Sprintf("Sorted %d of %d tracks (score %d)", len(path), len(m.tracks), score),
		Level:   LevelSuccess,
	})
	if len(unplaced) > 0 {
		m.progress(ProgressEvent{Message: fmt.Sprintf("%d keyed tracks did not fit the set", len(unplaced)), Level: LevelInfo})
	}
	return set
}

// WritePlaylist writes the set's playlist file.
func (m *Manager) WritePlaylist(ctx context.Context, set *model.Set) error {
	if set.PlaylistPath == "" {
		return fmt.Errorf("set %q has no playlist path", set.Name)
	}

	content := m.playlist.CreatePlaylist(set)
	if err := ioutils.WriteFileAtomic(ctx, set.PlaylistPath, []byte(content)); err != nil {
		m.progress(ProgressEvent{Message: fmt.Sprintf("Error creating playlist: %v", err), Level: LevelError})
		return err
	}

	m.progress(ProgressEvent{Message: fmt.Sprintf("Created playlist %s", set.PlaylistPath), Level: LevelSuccess})
	return nil
}

// Run performs the whole pipeline: Initialize, ResolveKeys, Sort and, when
// CreatePlaylist is set, WritePlaylist.
func (m *Manager) Run(ctx context.Context, inputs []string) (*model.Set, error) {
	if err := m.Initialize(ctx, inputs); err != nil {
		return nil, err
	}
	if err := m.ResolveKeys(ctx); err != nil {
		return nil, err
	}

	set := m.Sort()
	if m.settings.CreatePlaylist && set.Len() > 0 {
		if err := m.WritePlaylist(ctx, set); err != nil {
			return set, err
		}
	}
	return set, nil
}

// Tracks returns the tracks collected by Initialize, in input order.
func (m *Manager) Tracks() []*model.Track {
	return m.tracks
}

// GetProgress returns current key resolution progress.
func (m *Manager) GetProgress() (resolved, failed, total int32) {
	return atomic.LoadInt32(&m.resolvedTracks), atomic.LoadInt32(&m.failedTracks), atomic.LoadInt32(&m.totalTracks)
}

func (m *Manager) progress(event ProgressEvent) {
	if m.onProgress == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onProgress(event)
}
