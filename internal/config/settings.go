package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/handiism/keymix/internal/melodic"
	"github.com/handiism/keymix/internal/model"
	"gopkg.in/yaml.v3"
)

// ErrInvalidSettings is returned by Validate.
var ErrInvalidSettings = errors.New("invalid settings")

// Settings holds all configuration options.
type Settings struct {
	// Scan settings
	Recursive  bool     `json:"recursive" yaml:"recursive"`
	Extensions []string `json:"extensions" yaml:"extensions"`

	// Key resolution
	MaxConcurrentAnalyses int    `json:"max_concurrent_analyses" yaml:"max_concurrent_analyses"`
	UseCache              bool   `json:"use_cache" yaml:"use_cache"`
	CachePath             string `json:"cache_path" yaml:"cache_path"`
	ReadTags              bool   `json:"read_tags" yaml:"read_tags"`
	ReadFileNames         bool   `json:"read_file_names" yaml:"read_file_names"`
	WriteTags             bool   `json:"write_tags" yaml:"write_tags"`

	// Sorting
	SearchLimit   int             `json:"search_limit" yaml:"search_limit"`
	Weights       melodic.Weights `json:"weights" yaml:"weights"`
	AppendUnkeyed bool            `json:"append_unkeyed" yaml:"append_unkeyed"`

	// Playlist settings
	CreatePlaylist         bool   `json:"create_playlist" yaml:"create_playlist"`
	OutputDir              string `json:"output_dir" yaml:"output_dir"` // empty: next to the scanned tracks
	SetName                string `json:"set_name" yaml:"set_name"`
	PlaylistFileNameFormat string `json:"playlist_file_name_format" yaml:"playlist_file_name_format"`
	PlaylistFormat         string `json:"playlist_format" yaml:"playlist_format"` // m3u, pls, wpl, zpl
	M3UExtended            bool   `json:"m3u_extended" yaml:"m3u_extended"`

	// Logging
	LogLevel string `json:"log_level" yaml:"log_level"`
}

// DefaultSettings returns settings with default values.
func DefaultSettings() *Settings {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		cacheDir = os.TempDir()
	}
	return &Settings{
		Recursive:  true,
		Extensions: []string{".mp3", ".flac", ".wav", ".aiff", ".aif", ".m4a", ".ogg"},

		MaxConcurrentAnalyses: 8,
		UseCache:              true,
		CachePath:             filepath.Join(cacheDir, "keymix"),
		ReadTags:              true,
		ReadFileNames:         true,
		WriteTags:             false,

		SearchLimit:   melodic.DefaultLimit,
		Weights:       melodic.DefaultWeights(),
		AppendUnkeyed: false,

		CreatePlaylist:         true,
		SetName:                "keymix",
		PlaylistFileNameFormat: "{name} {date}",
		PlaylistFormat:         "m3u",
		M3UExtended:            true,

		LogLevel: "warn",
	}
}

// Load reads settings from a JSON or YAML file, chosen by extension.
// A missing file yields the defaults. Fields absent from the file keep
// their default values.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultSettings(), nil
		}
		return nil, err
	}

	settings := DefaultSettings()
	if isYAML(path) {
		err = yaml.Unmarshal(data, settings)
	} else {
		err = json.Unmarshal(data, settings)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	return settings, nil
}

// Save writes settings to a JSON or YAML file, chosen by extension.
func (s *Settings) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = yaml.Marshal(s)
	} else {
		data, err = json.MarshalIndent(s, "", "  ")
	}
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// Validate checks the settings for values the pipeline cannot run with.
func (s *Settings) Validate() error {
	var problems []string
	if s.SearchLimit < 1 {
		problems = append(problems, fmt.Sprintf("search_limit must be at least 1, got %d", s.SearchLimit))
	}
	if s.MaxConcurrentAnalyses < 1 {
		problems = append(problems, fmt.Sprintf("max_concurrent_analyses must be at least 1, got %d", s.MaxConcurrentAnalyses))
	}
	if _, ok := model.ParsePlaylistFormat(s.PlaylistFormat); !ok {
		problems = append(problems, fmt.Sprintf("unknown playlist_format %q", s.PlaylistFormat))
	}
	if s.UseCache && s.CachePath == "" {
		problems = append(problems, "cache_path is required when use_cache is set")
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidSettings, strings.Join(problems, "; "))
	}
	return nil
}

// ToPathConfig converts settings to PathConfig. outputDir is used when
// OutputDir is not set.
func (s *Settings) ToPathConfig(outputDir string) *model.PathConfig {
	pf, _ := model.ParsePlaylistFormat(s.PlaylistFormat)
	if s.OutputDir != "" {
		outputDir = s.OutputDir
	}

	return &model.PathConfig{
		OutputDir:              outputDir,
		PlaylistFileNameFormat: s.PlaylistFileNameFormat,
		PlaylistFormat:         pf,
	}
}

// SearchOptions converts settings to melodic sort options.
func (s *Settings) SearchOptions() []melodic.Option {
	return []melodic.Option{
		melodic.WithLimit(s.SearchLimit),
		melodic.WithWeights(s.Weights),
	}
}

// DefaultPath returns the settings file used when none is given:
// keymix/config.yaml under the user config directory.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "keymix.yaml"
	}
	return filepath.Join(dir, "keymix", "config.yaml")
}
