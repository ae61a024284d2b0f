package cliconfig

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestApplyFileConfig(t *testing.T) {
	trueVal := true
	zero := 0

	tests := []struct {
		name        string
		fileConfig  FileConfig
		changed     map[string]bool
		initial     Config
		expected    Config
		expectError bool
	}{
		{
			name: "applies all valid config values",
			fileConfig: FileConfig{
				RealCorpus:     "/data/real.txt",
				Interval:       "3h",
				PublishRetries: &zero,
				DryRun:         &trueVal,
				Credentials:    FileCredentials{ConsumerKey: "ck"},
				Clean:          FileClean{RawDir: "/raw", SkipExisting: &trueVal},
			},
			changed: map[string]bool{},
			initial: Config{PublishRetries: 2},
			expected: Config{
				RealCorpus:     "/data/real.txt",
				Interval:       3 * time.Hour,
				PublishRetries: 0,
				DryRun:         true,
				ConsumerKey:    "ck",
				RawDir:         "/raw",
				SkipExisting:   true,
			},
		},
		{
			name:       "integer interval is seconds",
			fileConfig: FileConfig{Interval: int64(60)},
			changed:    map[string]bool{},
			initial:    Config{},
			expected:   Config{Interval: time.Minute},
		},
		{
			name: "respects changed flags",
			fileConfig: FileConfig{
				RealCorpus: "/config/real.txt",
				Ledger:     "/config/used.txt",
			},
			changed: map[string]bool{"real-corpus": true},
			initial: Config{RealCorpus: "/flag/real.txt"},
			expected: Config{
				RealCorpus: "/flag/real.txt",
				Ledger:     "/config/used.txt",
			},
		},
		{
			name:        "invalid duration",
			fileConfig:  FileConfig{HTTPTimeout: "later"},
			changed:     map[string]bool{},
			expectError: true,
		},
		{
			name:        "unsupported interval type",
			fileConfig:  FileConfig{Interval: 1.5},
			changed:     map[string]bool{},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.initial
			err := ApplyFileConfig(&cfg, tt.fileConfig, tt.changed)

			if (err != nil) != tt.expectError {
				t.Fatalf("ApplyFileConfig() error = %v, expectError %v", err, tt.expectError)
			}
			if tt.expectError {
				return
			}

			if cfg.RealCorpus != tt.expected.RealCorpus {
				t.Errorf("RealCorpus = %v, want %v", cfg.RealCorpus, tt.expected.RealCorpus)
			}
			if cfg.Ledger != tt.expected.Ledger {
				t.Errorf("Ledger = %v, want %v", cfg.Ledger, tt.expected.Ledger)
			}
			if cfg.Interval != tt.expected.Interval {
				t.Errorf("Interval = %v, want %v", cfg.Interval, tt.expected.Interval)
			}
			if cfg.PublishRetries != tt.expected.PublishRetries {
				t.Errorf("PublishRetries = %v, want %v", cfg.PublishRetries, tt.expected.PublishRetries)
			}
			if cfg.DryRun != tt.expected.DryRun {
				t.Errorf("DryRun = %v, want %v", cfg.DryRun, tt.expected.DryRun)
			}
			if cfg.ConsumerKey != tt.expected.ConsumerKey {
				t.Errorf("ConsumerKey = %v, want %v", cfg.ConsumerKey, tt.expected.ConsumerKey)
			}
			if cfg.RawDir != tt.expected.RawDir {
				t.Errorf("RawDir = %v, want %v", cfg.RawDir, tt.expected.RawDir)
			}
			if cfg.SkipExisting != tt.expected.SkipExisting {
				t.Errorf("SkipExisting = %v, want %v", cfg.SkipExisting, tt.expected.SkipExisting)
			}
		})
	}
}

func TestLoadFileConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.toml")

	tomlContent := `
real_corpus = "/data/artist_names.txt"
fake_pool = "/data/new_artist_names.txt"
interval = 21600
publish_retries = 1
dry_run = true

[credentials]
consumer_key = "ck"
access_secret = "as"

[clean]
raw_dir = "/raw"
extensions = [".txt", ".out"]
skip_existing = true
`

	if err := os.WriteFile(configPath, []byte(tomlContent), 0644); err != nil {
		t.Fatalf("Failed to create test config file: %v", err)
	}

	fc, err := LoadFileConfig(configPath)
	if err != nil {
		t.Fatalf("LoadFileConfig() error = %v", err)
	}

	if fc.RealCorpus != "/data/artist_names.txt" {
		t.Errorf("RealCorpus = %v, want /data/artist_names.txt", fc.RealCorpus)
	}
	if fc.PublishRetries == nil || *fc.PublishRetries != 1 {
		t.Errorf("PublishRetries = %v, want 1", fc.PublishRetries)
	}
	if fc.DryRun == nil || !*fc.DryRun {
		t.Errorf("DryRun = %v, want true", fc.DryRun)
	}
	if fc.Credentials.ConsumerKey != "ck" || fc.Credentials.AccessSecret != "as" {
		t.Errorf("Credentials = %+v, want consumer_key and access_secret", fc.Credentials)
	}
	if len(fc.Clean.Extensions) != 2 || fc.Clean.Extensions[1] != ".out" {
		t.Errorf("Clean.Extensions = %v, want [.txt .out]", fc.Clean.Extensions)
	}

	cfg := DefaultConfig()
	if err := ApplyFileConfig(&cfg, fc, map[string]bool{}); err != nil {
		t.Fatalf("ApplyFileConfig() error = %v", err)
	}
	if cfg.Interval != 6*time.Hour {
		t.Errorf("Interval = %v, want 6h", cfg.Interval)
	}
}

func TestLoadFileConfig_InvalidFile(t *testing.T) {
	_, err := LoadFileConfig("/nonexistent/path/config.toml")
	if err == nil {
		t.Error("LoadFileConfig() expected error for nonexistent file")
	}
}

func TestLoadFileConfig_InvalidTOML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid.toml")

	invalidContent := `
real_corpus = "/test"
this is not valid toml
`

	if err := os.WriteFile(configPath, []byte(invalidContent), 0644); err != nil {
		t.Fatalf("Failed to create test config file: %v", err)
	}

	_, err := LoadFileConfig(configPath)
	if err == nil {
		t.Error("LoadFileConfig() expected error for invalid TOML")
	}
}

func TestDefaultConfigPath(t *testing.T) {
	path := DefaultConfigPath()

	// Should return a path containing .whosreal
	if path != "" && !strings.Contains(path, ".whosreal") {
		t.Errorf("DefaultConfigPath() = %v, should contain .whosreal", path)
	}
}

func TestFileExists(t *testing.T) {
	tmpDir := t.TempDir()
	existingFile := filepath.Join(tmpDir, "exists.txt")

	if err := os.WriteFile(existingFile, []byte("test"), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	if !FileExists(existingFile) {
		t.Error("FileExists() = false, want true for existing file")
	}

	if FileExists(filepath.Join(tmpDir, "nonexistent.txt")) {
		t.Error("FileExists() = true, want false for nonexistent file")
	}
}
