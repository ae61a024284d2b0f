package cliconfig

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/bft-labs/whosreal/internal/domain"
)

// DefaultServiceURL is the X API base URL.
const DefaultServiceURL = "https://api.twitter.com"

// Config holds CLI configuration for whosreal.
type Config struct {
	// Corpora and ledger
	RealCorpus string
	FakePool   string
	Ledger     string

	// Cleaner input; the cleaner appends to FakePool
	CanonicalPath string
	RawDir        string
	Extensions    []string
	SkipExisting  bool
	WatchDebounce time.Duration

	// Publishing
	ServiceURL     string
	ConsumerKey    string
	ConsumerSecret string
	AccessKey      string
	AccessSecret   string

	Interval       time.Duration
	HTTPTimeout    time.Duration
	MinPublishGap  time.Duration
	PublishRetries int

	LogLevel string
	DryRun   bool
	Once     bool
}

// DefaultConfig returns a Config with default values.
// The file layout matches the data directory the bot has always used.
func DefaultConfig() Config {
	return Config{
		RealCorpus:     "./data/artist_names.txt",
		FakePool:       "./data/new_artist_names.txt",
		Ledger:         "./data/used_artist_file.txt",
		RawDir:         "./raw",
		Extensions:     []string{".txt"},
		WatchDebounce:  500 * time.Millisecond,
		ServiceURL:     DefaultServiceURL,
		Interval:       6 * time.Hour,
		HTTPTimeout:    30 * time.Second,
		MinPublishGap:  time.Minute,
		PublishRetries: 2,
		LogLevel:       "info",
	}
}

// Validate checks the configuration for errors and sets derived defaults.
func (c *Config) Validate() error {
	if c.RealCorpus == "" {
		return fmt.Errorf("%w: real-corpus is required", domain.ErrInvalidConfig)
	}
	if c.FakePool == "" {
		return fmt.Errorf("%w: fake-pool is required", domain.ErrInvalidConfig)
	}
	if c.Ledger == "" {
		return fmt.Errorf("%w: ledger is required", domain.ErrInvalidConfig)
	}
	if c.CanonicalPath == "" {
		c.CanonicalPath = c.RealCorpus
	}

	if c.ServiceURL == "" {
		c.ServiceURL = DefaultServiceURL
	}
	c.ServiceURL = strings.TrimRight(c.ServiceURL, "/")

	for i, ext := range c.Extensions {
		if ext != "" && !strings.HasPrefix(ext, ".") {
			c.Extensions[i] = "." + ext
		}
	}

	if c.Interval <= 0 {
		return fmt.Errorf("%w: interval must be positive", domain.ErrInvalidConfig)
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("%w: timeout must be positive", domain.ErrInvalidConfig)
	}
	if c.MinPublishGap < 0 {
		return fmt.Errorf("%w: min-publish-gap must not be negative", domain.ErrInvalidConfig)
	}
	if c.PublishRetries < 0 {
		return fmt.Errorf("%w: publish-retries must not be negative", domain.ErrInvalidConfig)
	}

	return nil
}

// ValidateCredentials checks that all four publishing secrets are present.
func (c *Config) ValidateCredentials() error {
	missing := []string{}
	if c.ConsumerKey == "" {
		missing = append(missing, "CONSUMER_KEY")
	}
	if c.ConsumerSecret == "" {
		missing = append(missing, "CONSUMER_SECRET")
	}
	if c.AccessKey == "" {
		missing = append(missing, "ACCESS_KEY")
	}
	if c.AccessSecret == "" {
		missing = append(missing, "ACCESS_SECRET")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing credentials %s", domain.ErrInvalidConfig, strings.Join(missing, ", "))
	}
	return nil
}

// Masked returns a copy safe to log.
func (c Config) Masked() Config {
	for _, s := range []*string{&c.ConsumerKey, &c.ConsumerSecret, &c.AccessKey, &c.AccessSecret} {
		if *s != "" {
			*s = "*****"
		}
	}
	return c
}

// maxIntervalSeconds is the largest whole-second count a time.Duration holds.
const maxIntervalSeconds = math.MaxInt64 / int64(time.Second)

// ParseInterval accepts a Go duration ("6h") or a whole number of seconds ("21600").
func ParseInterval(value string) (time.Duration, error) {
	if secs, err := strconv.ParseInt(value, 10, 64); err == nil {
		if secs > maxIntervalSeconds || secs < -maxIntervalSeconds {
			return 0, fmt.Errorf("interval %s seconds out of range", value)
		}
		return time.Duration(secs) * time.Second, nil
	} else if errors.Is(err, strconv.ErrRange) {
		return 0, fmt.Errorf("interval %s seconds out of range", value)
	}
	return time.ParseDuration(value)
}

// configSetter helps apply configuration values while respecting flag precedence.
// It only applies values if the corresponding flag hasn't been explicitly set.
type configSetter struct {
	changed map[string]bool
}

// newConfigSetter creates a new setter with the given changed flags map.
func newConfigSetter(changed map[string]bool) *configSetter {
	return &configSetter{changed: changed}
}

// setString sets a string value if not empty and flag not changed.
func (s *configSetter) setString(flag, value string, dst *string) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value
}

// setStrings sets a list value if not empty and flag not changed.
func (s *configSetter) setStrings(flag string, value []string, dst *[]string) {
	if len(value) == 0 || s.changed[flag] {
		return
	}
	*dst = value
}

// setIntPtr sets an int value from a pointer if not nil and flag not changed.
// Zero is a valid value.
func (s *configSetter) setIntPtr(flag string, value *int, dst *int) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

// setDuration parses and sets a duration from string if valid and flag not changed.
func (s *configSetter) setDuration(flag, value string, dst *time.Duration) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = d
	return nil
}

// setInterval parses and sets an interval (duration or seconds) if flag not changed.
func (s *configSetter) setInterval(flag, value string, dst *time.Duration) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	d, err := ParseInterval(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = d
	return nil
}

// setBool sets a bool value from a pointer if not nil and flag not changed.
func (s *configSetter) setBool(flag string, value *bool, dst *bool) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

// setIntFromString parses a string to int and sets the destination if valid.
// Zero is accepted; negative values are left for Validate to reject.
// Used for environment variables that come as strings.
func (s *configSetter) setIntFromString(flag, value string, dst *int) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = i
	return nil
}

// setBoolFromString parses a string to bool and sets the destination.
// Accepts "true", "1" as true, anything else as false.
// Used for environment variables that come as strings.
func (s *configSetter) setBoolFromString(flag, value string, dst *bool) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value == "true" || value == "1"
}

// setStringsFromString splits a comma-separated list and sets the destination.
func (s *configSetter) setStringsFromString(flag, value string, dst *[]string) {
	if value == "" || s.changed[flag] {
		return
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) > 0 {
		*dst = out
	}
}
