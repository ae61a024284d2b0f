package main

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/bft-labs/whosreal/internal/cleaner"
	"github.com/bft-labs/whosreal/internal/ports"
)

func newCleanCommand(c *cli) *cobra.Command {
	var watch bool

	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Append new generated names from the raw directory to the fake pool",
		Long: `Scan raw generator output, drop separator lines and names that exist in the
real corpus, and append the rest to the fake pool. With --watch, keep running
and clean files as the generator writes them.`,
		Args: cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return c.load(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := c.cfg
			logger := c.logger()
			cl := cleaner.New(logger)
			opts := cleaner.Options{
				CanonicalPath: cfg.CanonicalPath,
				RawDir:        cfg.RawDir,
				OutputPath:    cfg.FakePool,
				Extensions:    cfg.Extensions,
				SkipExisting:  cfg.SkipExisting,
			}

			ctx, stop := signalContext()
			defer stop()

			if _, err := cl.Clean(ctx, opts); err != nil {
				return err
			}
			if !watch {
				return nil
			}

			w := cleaner.NewWatcher(cl, opts, cfg.WatchDebounce, logger)
			if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			logger.Info("stopped watching", ports.String("dir", opts.RawDir))
			return nil
		},
	}

	f := cmd.Flags()
	f.BoolVar(&watch, "watch", false, "keep running and clean raw files as they change")
	f.StringVar(&c.cfg.CanonicalPath, "canonical", c.cfg.CanonicalPath, "canonical real-name corpus (default: --real-corpus)")
	f.StringVar(&c.cfg.RawDir, "raw-dir", c.cfg.RawDir, "directory of raw generator output, walked recursively")
	f.StringSliceVar(&c.cfg.Extensions, "ext", c.cfg.Extensions, "raw file extensions")
	f.BoolVar(&c.cfg.SkipExisting, "skip-existing", c.cfg.SkipExisting, "also skip names already in the fake pool")
	f.DurationVar(&c.cfg.WatchDebounce, "debounce", c.cfg.WatchDebounce, "quiet period before a changed file is cleaned")
	return cmd
}
