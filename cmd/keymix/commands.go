package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/handiism/keymix/internal/melodic"
	"github.com/handiism/keymix/internal/model"
	"github.com/handiism/keymix/internal/pipeline"
	"github.com/handiism/keymix/internal/watch"
	"github.com/spf13/cobra"
)

func newSortCmd(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "sort [paths...]",
		Short: "Sort tracks into a harmonic set and write a playlist",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSort(cmd, f, args)
		},
	}
}

func runSort(cmd *cobra.Command, f *flags, inputs []string) error {
	settings, err := f.settings(cmd)
	if err != nil {
		return err
	}
	log := newLogger(cmd, settings)
	store, closeStore := openStore(settings, log)
	defer closeStore()

	out := cmd.OutOrStdout()
	manager := pipeline.NewManager(settings, store, progressPrinter(out, f.verbose))
	manager.SetLogger(log)

	set, err := manager.Run(cmd.Context(), inputs)
	if err != nil {
		return err
	}

	fmt.Fprintln(out)
	printSet(out, set, settings.Weights)
	if f.dryRun {
		fmt.Fprintln(out, "\n[Dry run - no playlist written]")
	}
	return nil
}

// printSet prints the tracks in play order with the movement into each one.
func printSet(out io.Writer, set *model.Set, weights melodic.Weights) {
	if set.Len() == 0 {
		fmt.Fprintln(out, "No harmonic transitions found.")
		return
	}

	var prev *model.Key
	for i, track := range set.Tracks {
		key, ok := track.ResolvedKey()
		if ok && prev != nil {
			if mv, compatible := melodic.Classify(*prev, key); compatible {
				fmt.Fprintf(out, "       %s\n", color.HiBlackString("%s +%d", mv, weights.Weight(mv)))
			}
		}
		if ok {
			prev = &key
		}
		fmt.Fprintf(out, "%3d. %-3s  %s\n", i+1, track.KeyString(), track.Name)
	}

	fmt.Fprintf(out, "\nTracks: %d | Score: %d | Without key: %d | Did not fit: %d\n",
		set.Len(), set.Score, len(set.Unkeyed), len(set.Unplaced))
}

func newKeysCmd(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "keys [paths...]",
		Short: "Print the resolved key of every track",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := f.settings(cmd)
			if err != nil {
				return err
			}
			log := newLogger(cmd, settings)
			store, closeStore := openStore(settings, log)
			defer closeStore()

			out := cmd.OutOrStdout()
			manager := pipeline.NewManager(settings, store, progressPrinter(cmd.ErrOrStderr(), f.verbose))
			manager.SetLogger(log)

			if err := manager.Initialize(cmd.Context(), args); err != nil {
				return err
			}
			if err := manager.ResolveKeys(cmd.Context()); err != nil {
				return err
			}

			for _, track := range manager.Tracks() {
				source := string(track.KeySource)
				if source == "" {
					source = "-"
				}
				fmt.Fprintf(out, "%-3s  %-8s  %s\n", track.KeyString(), source, track.Path)
			}
			return nil
		},
	}
}

func newClassifyCmd(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "classify FROM TO",
		Short: "Print the movement between two keys",
		Long: `Print the Camelot movement from one key to another and its weight.
Keys may be written in Camelot ("8A") or musical ("Am", "F#m") notation.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := f.settings(cmd)
			if err != nil {
				return err
			}

			from, err := model.ParseKey(args[0])
			if err != nil {
				return fmt.Errorf("invalid key %q: %w", args[0], err)
			}
			to, err := model.ParseKey(args[1])
			if err != nil {
				return fmt.Errorf("invalid key %q: %w", args[1], err)
			}

			out := cmd.OutOrStdout()
			mv, ok := melodic.Classify(from, to)
			if !ok {
				fmt.Fprintf(out, "%s -> %s: no compatible movement\n", from, to)
				return nil
			}
			fmt.Fprintf(out, "%s -> %s: %s (weight %d)\n", from, to, mv, settings.Weights.Weight(mv))
			return nil
		},
	}
}

func newWatchCmd(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "watch DIR",
		Short: "Re-sort a library and rewrite its playlist whenever it changes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := f.settings(cmd)
			if err != nil {
				return err
			}
			log := newLogger(cmd, settings)
			store, closeStore := openStore(settings, log)
			defer closeStore()

			root, err := filepath.Abs(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			manager := pipeline.NewManager(settings, store, progressPrinter(out, f.verbose))
			manager.SetLogger(log)

			w := watch.New(log)
			w.SetExtensions(settings.Extensions)

			ctx := cmd.Context()
			rebuild := func() {
				set, err := manager.Run(ctx, []string{root})
				switch {
				case errors.Is(err, context.Canceled):
					return
				case errors.Is(err, pipeline.ErrNoTracks):
					fmt.Fprintln(out, color.YellowString("! ")+"No audio files yet")
				case err != nil:
					fmt.Fprintln(out, color.RedString("✗ ")+err.Error())
				default:
					w.Ignore(set.PlaylistPath)
					fmt.Fprintf(out, "Set: %s\n", summary(set))
				}
			}

			rebuild()
			return w.Watch(ctx, root, rebuild)
		},
	}
}

func summary(set *model.Set) string {
	keys := make([]string, 0, set.Len())
	for _, track := range set.Tracks {
		keys = append(keys, track.KeyString())
	}
	return fmt.Sprintf("%s (score %d)", strings.Join(keys, " → "), set.Score)
}
