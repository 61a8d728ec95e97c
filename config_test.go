package reqguard

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.validate(); err != nil {
		t.Fatalf("defaults must validate: %v", err)
	}
	if cfg.Lockout.Threshold != 5 {
		t.Errorf("lockout threshold = %d, want 5", cfg.Lockout.Threshold)
	}
	if cfg.Lockout.Duration != 30*time.Minute {
		t.Errorf("lockout duration = %v, want 30m", cfg.Lockout.Duration)
	}
	if cfg.Production() {
		t.Error("defaults must be the development profile")
	}
}

func TestConfigValidateRejections(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"bad environment", func(c *Config) { c.Environment = "staging" }, "environment"},
		{"zero lockout threshold", func(c *Config) { c.Lockout.Threshold = 0 }, "lockout threshold"},
		{"negative lockout duration", func(c *Config) { c.Lockout.Duration = -time.Minute }, "lockout duration"},
		{"zero idle timeout", func(c *Config) { c.Session.IdleTimeout = 0 }, "idle timeout"},
		{"empty upload allow-list", func(c *Config) { c.Upload.AllowedMIMETypes = nil }, "allow-list"},
		{"bad rate class budget", func(c *Config) {
			c.RateLimit.Limits = map[RateClass]RateWindow{RateClassAPI: {Max: 0, Window: time.Minute}}
		}, "rate limit"},
		{"short jwt secret", func(c *Config) {
			c.JWT.TTL = time.Hour
			c.JWT.PrivateKey = []byte("too-short")
		}, "32 bytes"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(&cfg)
			err := cfg.validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Errorf("err = %q, want mention of %q", err, tc.want)
			}
		})
	}
}

func TestLoadConfigFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "reqguard.yaml")
	body := []byte(`
environment: production
lockout:
  threshold: 3
  duration: 10m
session:
  idle_timeout: 20m
upload:
  allowed_mime_types: ["image/png"]
`)
	if err := os.WriteFile(path, body, 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if !cfg.Production() {
		t.Error("environment not applied")
	}
	if cfg.Lockout.Threshold != 3 || cfg.Lockout.Duration != 10*time.Minute {
		t.Errorf("lockout = %+v, want 3/10m", cfg.Lockout)
	}
	if cfg.Session.IdleTimeout != 20*time.Minute {
		t.Errorf("idle timeout = %v, want 20m", cfg.Session.IdleTimeout)
	}
	if len(cfg.Upload.AllowedMIMETypes) != 1 || cfg.Upload.AllowedMIMETypes[0] != "image/png" {
		t.Errorf("mime allow-list = %v", cfg.Upload.AllowedMIMETypes)
	}
	// Untouched keys keep their defaults.
	if cfg.Session.MaxSessions != defaultConfig().Session.MaxSessions {
		t.Errorf("max sessions = %d, want default", cfg.Session.MaxSessions)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing explicit config file")
	}
}

func TestLoadConfigEnvOverride(t *testing.T) {
	t.Setenv("REQGUARD_LOCKOUT_THRESHOLD", "7")

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Lockout.Threshold != 7 {
		t.Errorf("threshold = %d, want 7 from environment", cfg.Lockout.Threshold)
	}
}
