package cliconfig

import "os"

// Credential variables keep the names the bot's deployment already sets.
// The WHOSREAL_ prefixed form wins when both are present.
var credentialEnv = map[string][2]string{
	"consumer-key":    {"WHOSREAL_CONSUMER_KEY", "CONSUMER_KEY"},
	"consumer-secret": {"WHOSREAL_CONSUMER_SECRET", "CONSUMER_SECRET"},
	"access-key":      {"WHOSREAL_ACCESS_KEY", "ACCESS_KEY"},
	"access-secret":   {"WHOSREAL_ACCESS_SECRET", "ACCESS_SECRET"},
}

// ApplyEnvConfig applies configuration from environment variables (WHOSREAL_*).
// It respects flags that have been explicitly set (changed map).
// Returns error if any environment variable has an invalid format.
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("real-corpus", os.Getenv("WHOSREAL_REAL_CORPUS"), &cfg.RealCorpus)
	s.setString("fake-pool", os.Getenv("WHOSREAL_FAKE_POOL"), &cfg.FakePool)
	s.setString("ledger", os.Getenv("WHOSREAL_LEDGER"), &cfg.Ledger)
	s.setString("canonical", os.Getenv("WHOSREAL_CANONICAL"), &cfg.CanonicalPath)
	s.setString("raw-dir", os.Getenv("WHOSREAL_RAW_DIR"), &cfg.RawDir)
	s.setString("service-url", os.Getenv("WHOSREAL_SERVICE_URL"), &cfg.ServiceURL)
	s.setString("log-level", os.Getenv("WHOSREAL_LOG_LEVEL"), &cfg.LogLevel)
	s.setStringsFromString("ext", os.Getenv("WHOSREAL_EXTENSIONS"), &cfg.Extensions)

	s.setString("consumer-key", firstEnv(credentialEnv["consumer-key"]), &cfg.ConsumerKey)
	s.setString("consumer-secret", firstEnv(credentialEnv["consumer-secret"]), &cfg.ConsumerSecret)
	s.setString("access-key", firstEnv(credentialEnv["access-key"]), &cfg.AccessKey)
	s.setString("access-secret", firstEnv(credentialEnv["access-secret"]), &cfg.AccessSecret)

	if err := s.setInterval("interval", os.Getenv("WHOSREAL_INTERVAL"), &cfg.Interval); err != nil {
		return err
	}
	if err := s.setDuration("timeout", os.Getenv("WHOSREAL_HTTP_TIMEOUT"), &cfg.HTTPTimeout); err != nil {
		return err
	}
	if err := s.setDuration("min-publish-gap", os.Getenv("WHOSREAL_MIN_PUBLISH_GAP"), &cfg.MinPublishGap); err != nil {
		return err
	}
	if err := s.setDuration("debounce", os.Getenv("WHOSREAL_WATCH_DEBOUNCE"), &cfg.WatchDebounce); err != nil {
		return err
	}

	if err := s.setIntFromString("publish-retries", os.Getenv("WHOSREAL_PUBLISH_RETRIES"), &cfg.PublishRetries); err != nil {
		return err
	}

	s.setBoolFromString("skip-existing", os.Getenv("WHOSREAL_SKIP_EXISTING"), &cfg.SkipExisting)
	s.setBoolFromString("dry-run", os.Getenv("WHOSREAL_DRY_RUN"), &cfg.DryRun)
	s.setBoolFromString("once", os.Getenv("WHOSREAL_ONCE"), &cfg.Once)

	return nil
}

func firstEnv(keys [2]string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}
