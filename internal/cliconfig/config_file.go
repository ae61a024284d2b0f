package cliconfig

import (
	"fmt"
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

// FileConfig mirrors Config but uses strings for durations to make TOML friendly.
type FileConfig struct {
	RealCorpus string `toml:"real_corpus"`
	FakePool   string `toml:"fake_pool"`
	Ledger     string `toml:"ledger"`

	// Interval is a duration string or a number of seconds
	Interval       interface{} `toml:"interval"`
	ServiceURL     string      `toml:"service_url"`
	HTTPTimeout    string      `toml:"http_timeout"`
	MinPublishGap  string      `toml:"min_publish_gap"`
	PublishRetries *int        `toml:"publish_retries"`
	LogLevel       string      `toml:"log_level"`
	DryRun         *bool       `toml:"dry_run"`
	Once           *bool       `toml:"once"`

	Credentials FileCredentials `toml:"credentials"`
	Clean       FileClean       `toml:"clean"`
}

// FileCredentials is the [credentials] table.
type FileCredentials struct {
	ConsumerKey    string `toml:"consumer_key"`
	ConsumerSecret string `toml:"consumer_secret"`
	AccessKey      string `toml:"access_key"`
	AccessSecret   string `toml:"access_secret"`
}

// FileClean is the [clean] table.
type FileClean struct {
	Canonical     string   `toml:"canonical"`
	RawDir        string   `toml:"raw_dir"`
	Extensions    []string `toml:"extensions"`
	SkipExisting  *bool    `toml:"skip_existing"`
	WatchDebounce string   `toml:"watch_debounce"`
}

// LoadFileConfig reads and parses a TOML config file from the given path.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	if err := toml.Unmarshal(b, &fc); err != nil {
		return fc, err
	}
	return fc, nil
}

// DefaultConfigPath returns the default configuration file path.
// Returns ~/.whosreal/config.toml if user home directory is accessible.
func DefaultConfigPath() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".whosreal", "config.toml")
	}
	return ""
}

// ApplyFileConfig applies configuration from a file to the Config struct.
// It respects flags that have been explicitly set (changed map).
func ApplyFileConfig(cfg *Config, fc FileConfig, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("real-corpus", fc.RealCorpus, &cfg.RealCorpus)
	s.setString("fake-pool", fc.FakePool, &cfg.FakePool)
	s.setString("ledger", fc.Ledger, &cfg.Ledger)
	s.setString("service-url", fc.ServiceURL, &cfg.ServiceURL)
	s.setString("log-level", fc.LogLevel, &cfg.LogLevel)

	s.setString("consumer-key", fc.Credentials.ConsumerKey, &cfg.ConsumerKey)
	s.setString("consumer-secret", fc.Credentials.ConsumerSecret, &cfg.ConsumerSecret)
	s.setString("access-key", fc.Credentials.AccessKey, &cfg.AccessKey)
	s.setString("access-secret", fc.Credentials.AccessSecret, &cfg.AccessSecret)

	s.setString("canonical", fc.Clean.Canonical, &cfg.CanonicalPath)
	s.setString("raw-dir", fc.Clean.RawDir, &cfg.RawDir)
	s.setStrings("ext", fc.Clean.Extensions, &cfg.Extensions)

	interval, err := intervalString(fc.Interval)
	if err != nil {
		return err
	}
	if err := s.setInterval("interval", interval, &cfg.Interval); err != nil {
		return err
	}
	if err := s.setDuration("timeout", fc.HTTPTimeout, &cfg.HTTPTimeout); err != nil {
		return err
	}
	if err := s.setDuration("min-publish-gap", fc.MinPublishGap, &cfg.MinPublishGap); err != nil {
		return err
	}
	if err := s.setDuration("debounce", fc.Clean.WatchDebounce, &cfg.WatchDebounce); err != nil {
		return err
	}

	s.setIntPtr("publish-retries", fc.PublishRetries, &cfg.PublishRetries)

	s.setBool("skip-existing", fc.Clean.SkipExisting, &cfg.SkipExisting)
	s.setBool("dry-run", fc.DryRun, &cfg.DryRun)
	s.setBool("once", fc.Once, &cfg.Once)

	return nil
}

// intervalString normalizes the TOML interval value, which may be a string
// or an integer number of seconds.
func intervalString(v interface{}) (string, error) {
	switch iv := v.(type) {
	case nil:
		return "", nil
	case string:
		return iv, nil
	case int64:
		return fmt.Sprintf("%d", iv), nil
	default:
		return "", fmt.Errorf("parse interval: unsupported value %v", v)
	}
}

// FileExists checks if a file exists at the given path.
func FileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
