package main

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/spf13/cobra"

	"github.com/bft-labs/whosreal/internal/adapters/fs"
	"github.com/bft-labs/whosreal/internal/app"
)

func newComposeCommand(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "compose",
		Short: "Compose one message and print it",
		Long: `Compose one message and print it to stdout. The two names are recorded in
the ledger exactly as a posting cycle would record them.`,
		Args: cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return c.load(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signalContext()
			defer stop()

			ledger := fs.NewLedger(c.cfg.Ledger)
			composer := app.NewComposer(ledger, c.cfg.RealCorpus, c.cfg.FakePool, rand.New(rand.NewSource(time.Now().UnixNano())))
			msg, err := composer.Compose(ctx)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), msg.Text())
			return err
		},
	}
}

func newStatusCommand(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show how many unused names remain in each corpus",
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return c.load(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ledger := fs.NewLedger(c.cfg.Ledger)
			used, err := ledger.Names()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "ledger\t%s\t%d used\n", ledger.Path(), len(used))
			for _, corpus := range []struct{ name, path string }{
				{"real", c.cfg.RealCorpus},
				{"fake", c.cfg.FakePool},
			} {
				n, err := ledger.Remaining(corpus.path)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%s\t%s\t%d remaining\n", corpus.name, corpus.path, n)
			}
			return nil
		},
	}
}
