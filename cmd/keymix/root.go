package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/handiism/keymix/internal/cache"
	"github.com/handiism/keymix/internal/config"
	"github.com/handiism/keymix/internal/logger"
	"github.com/handiism/keymix/internal/pipeline"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// flags holds the values of the persistent command line flags.
type flags struct {
	configPath    string
	logLevel      string
	verbose       bool
	limit         int
	weights       []string
	output        string
	format        string
	cachePath     string
	noCache       bool
	workers       int
	appendUnkeyed bool
	writeTags     bool
	recursive     bool
	dryRun        bool
}

func newRootCmd() *cobra.Command {
	f := &flags{}

	root := &cobra.Command{
		Use:   "keymix [paths...]",
		Short: "Sort DJ tracks into a harmonically mixable set",
		Long: `keymix reads the Camelot key of each track (from the key cache, the ID3
TKEY frame or the file name) and orders the tracks so that every transition
is a compatible movement around the Camelot wheel.

Running keymix with paths is the same as "keymix sort".`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			return runSort(cmd, f, args)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&f.configPath, "config", "", "settings file, JSON or YAML (default: "+config.DefaultPath()+")")
	pf.StringVar(&f.logLevel, "log-level", "", "diagnostic log level (debug, info, warn, error)")
	pf.BoolVarP(&f.verbose, "verbose", "v", false, "show verbose progress")
	pf.IntVar(&f.limit, "limit", 0, "number of partial paths kept per search round")
	pf.StringArrayVar(&f.weights, "weight", nil, "movement weight override as name=value (repeatable)")
	pf.StringVarP(&f.output, "output", "o", "", "playlist output directory (default: next to the tracks)")
	pf.StringVar(&f.format, "format", "", "playlist format (m3u, pls, wpl, zpl)")
	pf.StringVar(&f.cachePath, "cache", "", "key cache directory")
	pf.BoolVar(&f.noCache, "no-cache", false, "do not read or write the key cache")
	pf.IntVar(&f.workers, "workers", 0, "number of tracks resolved concurrently")
	pf.BoolVar(&f.appendUnkeyed, "append-unkeyed", false, "append tracks without a key to the end of the set")
	pf.BoolVar(&f.writeTags, "write-tags", false, "write resolved keys to the TKEY frame of MP3 files")
	pf.BoolVar(&f.recursive, "recursive", true, "scan directories recursively")
	pf.BoolVar(&f.dryRun, "dry-run", false, "print the set without writing a playlist")

	root.AddCommand(newSortCmd(f))
	root.AddCommand(newKeysCmd(f))
	root.AddCommand(newClassifyCmd(f))
	root.AddCommand(newWatchCmd(f))

	return root
}

// settings loads the settings file and applies the flags the user set.
func (f *flags) settings(cmd *cobra.Command) (*config.Settings, error) {
	path := f.configPath
	if path == "" {
		path = config.DefaultPath()
	}
	settings, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	changed := cmd.Flags().Changed
	if changed("log-level") {
		settings.LogLevel = f.logLevel
	}
	if changed("limit") {
		settings.SearchLimit = f.limit
	}
	if len(f.weights) > 0 {
		overrides, err := parseWeightFlags(f.weights)
		if err != nil {
			return nil, err
		}
		if settings.Weights, err = settings.Weights.ParseOverrides(overrides); err != nil {
			return nil, err
		}
	}
	if changed("output") {
		settings.OutputDir = f.output
	}
	if changed("format") {
		settings.PlaylistFormat = f.format
	}
	if changed("cache") {
		settings.CachePath = f.cachePath
		settings.UseCache = true
	}
	if f.noCache {
		settings.UseCache = false
	}
	if changed("workers") {
		settings.MaxConcurrentAnalyses = f.workers
	}
	if changed("append-unkeyed") {
		settings.AppendUnkeyed = f.appendUnkeyed
	}
	if changed("write-tags") {
		settings.WriteTags = f.writeTags
	}
	if changed("recursive") {
		settings.Recursive = f.recursive
	}
	if f.dryRun {
		settings.CreatePlaylist = false
	}

	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return settings, nil
}

// parseWeightFlags turns name=value pairs into weight overrides.
func parseWeightFlags(values []string) (map[string]int, error) {
	overrides := make(map[string]int, len(values))
	for _, v := range values {
		name, value, ok := strings.Cut(v, "=")
		if !ok || strings.TrimSpace(name) == "" {
			return nil, fmt.Errorf("invalid --weight %q, want name=value", v)
		}
		weight, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return nil, fmt.Errorf("invalid --weight %q: %w", v, err)
		}
		overrides[strings.TrimSpace(name)] = weight
	}
	return overrides, nil
}

func newLogger(cmd *cobra.Command, settings *config.Settings) *logrus.Logger {
	return logger.New(settings.LogLevel, cmd.ErrOrStderr())
}

// openStore opens the key cache. A cache that cannot be opened is reported
// and the run continues without it.
func openStore(settings *config.Settings, log logrus.FieldLogger) (pipeline.KeyStore, func()) {
	if !settings.UseCache {
		return nil, func() {}
	}
	store, err := cache.Open(settings.CachePath)
	if err != nil {
		log.WithError(err).Warn("key cache disabled")
		return nil, func() {}
	}
	return store, func() {
		hits, misses := store.Stats()
		log.WithFields(logrus.Fields{"hits": hits, "misses": misses}).Debug("key cache closed")
		if err := store.Close(); err != nil {
			log.WithError(err).Warn("failed to close key cache")
		}
	}
}

// progressPrinter prints pipeline events the way the user expects on a
// terminal. Verbose events are dropped unless verbose is set.
func progressPrinter(out io.Writer, verbose bool) func(pipeline.ProgressEvent) {
	return func(event pipeline.ProgressEvent) {
		if event.Level == pipeline.LevelVerbose && !verbose {
			return
		}

		prefix := ""
		switch event.Level {
		case pipeline.LevelError:
			prefix = color.RedString("✗ ")
		case pipeline.LevelWarning:
			prefix = color.YellowString("! ")
		case pipeline.LevelSuccess:
			prefix = color.GreenString("✓ ")
		case pipeline.LevelInfo:
			prefix = color.CyanString("› ")
		default:
			prefix = "  "
		}

		fmt.Fprintln(out, prefix+event.Message)
	}
}
