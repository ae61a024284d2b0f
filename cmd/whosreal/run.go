package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	"github.com/bft-labs/whosreal/internal/adapters/fs"
	httpAdapter "github.com/bft-labs/whosreal/internal/adapters/http"
	logAdapter "github.com/bft-labs/whosreal/internal/adapters/log"
	"github.com/bft-labs/whosreal/internal/app"
	"github.com/bft-labs/whosreal/internal/cliconfig"
	"github.com/bft-labs/whosreal/internal/ports"
)

func addRunFlags(flags *pflag.FlagSet, cfg *cliconfig.Config) {
	flags.StringVar(&cfg.ServiceURL, "service-url", cfg.ServiceURL, fmt.Sprintf("API base URL (defaults to %s; override only for testing)", cliconfig.DefaultServiceURL))
	_ = flags.MarkHidden("service-url")

	flags.StringVar(&cfg.ConsumerKey, "consumer-key", cfg.ConsumerKey, "OAuth consumer key (prefer CONSUMER_KEY)")
	flags.StringVar(&cfg.ConsumerSecret, "consumer-secret", cfg.ConsumerSecret, "OAuth consumer secret (prefer CONSUMER_SECRET)")
	flags.StringVar(&cfg.AccessKey, "access-key", cfg.AccessKey, "OAuth access token (prefer ACCESS_KEY)")
	flags.StringVar(&cfg.AccessSecret, "access-secret", cfg.AccessSecret, "OAuth access token secret (prefer ACCESS_SECRET)")

	flags.Var(newIntervalValue(&cfg.Interval), "interval", "time between posts, as a duration (6h) or seconds (21600)")
	flags.DurationVar(&cfg.HTTPTimeout, "timeout", cfg.HTTPTimeout, "HTTP timeout")
	flags.DurationVar(&cfg.MinPublishGap, "min-publish-gap", cfg.MinPublishGap, "minimum time between two posts, 0 disables")
	flags.IntVar(&cfg.PublishRetries, "publish-retries", cfg.PublishRetries, "re-sends of one message after a retryable failure")
	flags.BoolVar(&cfg.DryRun, "dry-run", cfg.DryRun, "log messages instead of posting them")
	flags.BoolVar(&cfg.Once, "once", cfg.Once, "run a single cycle and exit")
}

func newRunCommand(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Compose and post a message every interval",
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return c.load(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLoop(c)
		},
	}
	addRunFlags(cmd.Flags(), &c.cfg)
	return cmd
}

func runLoop(c *cli) error {
	cfg := c.cfg
	logger := c.logger()

	// The loop would otherwise skip every cycle with a warning.
	if err := fs.CheckCorpus(cfg.RealCorpus); err != nil {
		return err
	}
	if err := fs.CheckCorpus(cfg.FakePool); err != nil {
		return err
	}

	publisher, err := newPublisher(cfg, logger)
	if err != nil {
		return err
	}

	ledger := fs.NewLedger(cfg.Ledger)
	composer := app.NewComposer(ledger, cfg.RealCorpus, cfg.FakePool, rand.New(rand.NewSource(time.Now().UnixNano())))
	loop := app.NewLoop(app.LoopConfig{
		Interval:       cfg.Interval,
		PublishRetries: cfg.PublishRetries,
		Once:           cfg.Once,
	}, composer, publisher, logger, nil)

	ctx, stop := signalContext()
	defer stop()

	if cfg.DryRun {
		logger.Info("dry run enabled, messages are logged instead of posted")
	}

	err = loop.Run(ctx)
	if errors.Is(err, context.Canceled) {
		logger.Info("received signal, stopped")
		return nil
	}
	return err
}

func newPublisher(cfg cliconfig.Config, logger ports.Logger) (ports.Publisher, error) {
	if cfg.DryRun {
		return logAdapter.NewPublisher(logger), nil
	}
	if err := cfg.ValidateCredentials(); err != nil {
		return nil, err
	}
	return httpAdapter.NewPublisher(httpAdapter.PublisherConfig{
		ServiceURL: cfg.ServiceURL,
		Credentials: httpAdapter.Credentials{
			ConsumerKey:    cfg.ConsumerKey,
			ConsumerSecret: cfg.ConsumerSecret,
			AccessKey:      cfg.AccessKey,
			AccessSecret:   cfg.AccessSecret,
		},
		MinGap: cfg.MinPublishGap,
	}, &http.Client{Timeout: cfg.HTTPTimeout}, logger), nil
}

// intervalValue is a pflag.Value accepting a duration or whole seconds.
type intervalValue time.Duration

func newIntervalValue(p *time.Duration) *intervalValue {
	return (*intervalValue)(p)
}

func (v *intervalValue) Set(s string) error {
	d, err := cliconfig.ParseInterval(s)
	if err != nil {
		return err
	}
	*v = intervalValue(d)
	return nil
}

func (v *intervalValue) Type() string { return "interval" }

func (v *intervalValue) String() string { return time.Duration(*v).String() }
