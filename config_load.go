package reqguard

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// LoadConfig populates a Config from a YAML/TOML/JSON file plus
// REQGUARD_-prefixed environment overrides, starting from defaults. An
// empty path loads defaults and environment only; a missing file at an
// explicit path is an error.
func LoadConfig(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("REQGUARD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setConfigDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			if os.IsNotExist(err) {
				return Config{}, fmt.Errorf("config file %s not found", path)
			}
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := defaultConfig()
	cfg.Environment = v.GetString("environment")
	cfg.Lockout.Threshold = v.GetInt("lockout.threshold")
	cfg.Lockout.Duration = v.GetDuration("lockout.duration")
	cfg.Session.IdleTimeout = v.GetDuration("session.idle_timeout")
	cfg.Session.SweepInterval = v.GetDuration("session.sweep_interval")
	cfg.Session.MaxSessions = v.GetInt("session.max_sessions")
	cfg.Session.RedisPrefix = v.GetString("session.redis_prefix")
	cfg.RateLimit.RedisPrefix = v.GetString("ratelimit.redis_prefix")
	cfg.RateLimit.MaxEntries = v.GetInt("ratelimit.max_entries")
	cfg.Upload.MaxSizeBytes = v.GetInt64("upload.max_size_bytes")
	if mimes := v.GetStringSlice("upload.allowed_mime_types"); len(mimes) > 0 {
		cfg.Upload.AllowedMIMETypes = mimes
	}
	cfg.CSRF.CookieSecure = v.GetBool("csrf.cookie_secure")
	cfg.JWT.TTL = v.GetDuration("jwt.ttl")
	cfg.JWT.SigningMethod = v.GetString("jwt.signing_method")
	if secret := v.GetString("jwt.secret"); secret != "" {
		cfg.JWT.PrivateKey = []byte(secret)
	}
	cfg.JWT.Issuer = v.GetString("jwt.issuer")
	cfg.JWT.Audience = v.GetString("jwt.audience")
	cfg.Audit.Enabled = v.GetBool("audit.enabled")
	cfg.Audit.BufferSize = v.GetInt("audit.buffer_size")
	cfg.Audit.DropIfFull = v.GetBool("audit.drop_if_full")
	cfg.Metrics.Enabled = v.GetBool("metrics.enabled")
	cfg.Metrics.EnableLatencyHistograms = v.GetBool("metrics.latency_histograms")

	if err := cfg.validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func setConfigDefaults(v *viper.Viper) {
	base := defaultConfig()
	v.SetDefault("environment", base.Environment)
	v.SetDefault("lockout.threshold", base.Lockout.Threshold)
	v.SetDefault("lockout.duration", base.Lockout.Duration)
	v.SetDefault("session.idle_timeout", base.Session.IdleTimeout)
	v.SetDefault("session.sweep_interval", base.Session.SweepInterval)
	v.SetDefault("session.max_sessions", base.Session.MaxSessions)
	v.SetDefault("session.redis_prefix", base.Session.RedisPrefix)
	v.SetDefault("ratelimit.redis_prefix", base.RateLimit.RedisPrefix)
	v.SetDefault("ratelimit.max_entries", base.RateLimit.MaxEntries)
	v.SetDefault("upload.max_size_bytes", base.Upload.MaxSizeBytes)
	v.SetDefault("csrf.cookie_secure", false)
	v.SetDefault("jwt.ttl", 0)
	v.SetDefault("jwt.signing_method", "hs256")
	v.SetDefault("audit.enabled", base.Audit.Enabled)
	v.SetDefault("audit.buffer_size", base.Audit.BufferSize)
	v.SetDefault("audit.drop_if_full", base.Audit.DropIfFull)
	v.SetDefault("metrics.enabled", false)
	v.SetDefault("metrics.latency_histograms", false)
}
