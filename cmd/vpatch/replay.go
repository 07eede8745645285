package main

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"github.com/vango-dev/vpatch/internal/config"
	"github.com/vango-dev/vpatch/internal/errors"
	"github.com/vango-dev/vpatch/pkg/snapshot"
)

type replayOptions struct {
	prefix string
	format string
	last   int
}

func replayCmd(g *globals) *cobra.Command {
	var opts replayOptions

	cmd := &cobra.Command{
		Use:   "replay [key...]",
		Short: "Print recorded patch frames",
		Long: `Print patch frames from the configured snapshot store.

Without arguments every frame under the prefix is printed in cycle order.
Keys name individual frames.

Examples:
  vpatch replay
  vpatch replay --last=3
  vpatch replay frames/00000000000000000002.vpf --format=json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.loadConfig()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			return runReplay(ctx, cfg, cmd.OutOrStdout(), args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.prefix, "prefix", "p", snapshot.DefaultPrefix, "Key prefix to list frames under")
	cmd.Flags().StringVarP(&opts.format, "format", "f", formatText, "Output format: text or json")
	cmd.Flags().IntVarP(&opts.last, "last", "n", 0, "Print only the last n frames")

	return cmd
}

func runReplay(ctx context.Context, cfg *config.Config, w io.Writer, keys []string, opts replayOptions) error {
	if opts.format != formatText && opts.format != formatJSON {
		return errors.New("E180").
			WithDetailf("unknown format %q", opts.format).
			WithSuggestion("Use text or json")
	}
	if !cfg.SnapshotsEnabled() {
		return errors.New("E180").
			WithDetail("no snapshot store is configured").
			WithSuggestion(`Set "snapshots.driver" to "disk" or "s3" in vpatch.json`)
	}

	store, err := snapshot.Open(cfg.SnapshotOptions())
	if err != nil {
		return err
	}

	if len(keys) == 0 {
		if keys, err = snapshot.Frames(ctx, store, opts.prefix); err != nil {
			return err
		}
		if len(keys) == 0 {
			warn(w, "No frames under %q", opts.prefix)
			return nil
		}
	}
	if opts.last > 0 && opts.last < len(keys) {
		keys = keys[len(keys)-opts.last:]
	}

	for _, key := range keys {
		pf, err := snapshot.Load(ctx, store, key)
		if err != nil {
			return err
		}
		if err := writeFrame(w, pf, opts.format); err != nil {
			return err
		}
	}
	return nil
}
