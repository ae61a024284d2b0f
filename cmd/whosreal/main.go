package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	logAdapter "github.com/bft-labs/whosreal/internal/adapters/log"
	"github.com/bft-labs/whosreal/internal/cliconfig"
	"github.com/bft-labs/whosreal/internal/ports"
)

const helpDescription = `
Post a "guess which artist is real" game every few hours.

Each post pairs one real recording artist with one name invented by a neural
network. Names are drawn at random and recorded in a ledger so none repeats.
The clean command turns raw generator output into the fake-name pool.
`

var exampleUsage = strings.TrimSpace(`
  whosreal run --interval 6h
  whosreal run --dry-run --once
  whosreal clean --raw-dir ./raw --watch
  whosreal compose
`)

const defaultEnvFile = ".env"

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

// cli carries the configuration shared by every subcommand.
type cli struct {
	cfg     cliconfig.Config
	cfgPath string
	envFile string
	log     zerolog.Logger
}

// load resolves the effective configuration: flags > env > file > defaults.
func (c *cli) load(cmd *cobra.Command) error {
	changed := map[string]bool{}
	cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })

	envFile := c.envFile
	if envFile == "" {
		envFile = defaultEnvFile
	}
	if cliconfig.FileExists(envFile) {
		// godotenv never overrides variables already set in the process
		if err := godotenv.Load(envFile); err != nil {
			return fmt.Errorf("load env file: %w", err)
		}
	} else if changed["env-file"] {
		return fmt.Errorf("env file %s not found", envFile)
	}

	cfgFile := c.cfgPath
	if cfgFile == "" {
		cfgFile = cliconfig.DefaultConfigPath()
	}
	if cfgFile != "" && cliconfig.FileExists(cfgFile) {
		fc, err := cliconfig.LoadFileConfig(cfgFile)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if err := cliconfig.ApplyFileConfig(&c.cfg, fc, changed); err != nil {
			return err
		}
	}

	if err := cliconfig.ApplyEnvConfig(&c.cfg, changed); err != nil {
		return err
	}

	if err := c.cfg.Validate(); err != nil {
		return err
	}
	if err := cliconfig.SetLogLevel(c.cfg.LogLevel); err != nil {
		return err
	}
	c.log = cliconfig.Logger()

	c.log.Debug().Interface("config", c.cfg.Masked()).Msg("configuration")
	return nil
}

func (c *cli) logger() ports.Logger {
	return logAdapter.NewZerologAdapterWithLogger(c.log)
}

// signalContext is canceled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func newRootCommand(c *cli) *cobra.Command {
	run := newRunCommand(c)

	root := &cobra.Command{
		Use:           "whosreal",
		Short:         "Post a real-or-generated artist name guessing game",
		Long:          strings.TrimSpace(helpDescription),
		Example:       exampleUsage,
		Version:       fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		// Bare "whosreal" behaves like "whosreal run".
		PreRunE: run.PreRunE,
		RunE:    run.RunE,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&c.cfgPath, "config", "", "path to config file (default: $HOME/.whosreal/config.toml)")
	pf.StringVar(&c.envFile, "env-file", "", "dotenv file loaded before reading the environment (default: .env if present)")
	pf.StringVar(&c.cfg.LogLevel, "log-level", c.cfg.LogLevel, "log level (debug, info, warn, error)")
	pf.StringVar(&c.cfg.RealCorpus, "real-corpus", c.cfg.RealCorpus, "real artist names, one per line")
	pf.StringVar(&c.cfg.FakePool, "fake-pool", c.cfg.FakePool, "generated artist names, one per line")
	pf.StringVar(&c.cfg.Ledger, "ledger", c.cfg.Ledger, "append-only file of names already posted")

	addRunFlags(root.Flags(), &c.cfg)

	root.AddCommand(run, newCleanCommand(c), newComposeCommand(c), newStatusCommand(c))
	return root
}

func main() {
	c := &cli{
		cfg: cliconfig.DefaultConfig(),
		log: cliconfig.Logger(),
	}

	if err := newRootCommand(c).Execute(); err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		c.log.Error().Err(err).Msg("whosreal")
		os.Exit(1)
	}
}
