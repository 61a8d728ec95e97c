package reqguard

import (
	"errors"
	"time"

	"github.com/halcyon-labs/reqguard/internal/audit"
	"github.com/halcyon-labs/reqguard/jwt"
	"github.com/halcyon-labs/reqguard/metrics"
	"github.com/halcyon-labs/reqguard/password"
)

// Config is the engine configuration. Built once, then immutable.
type Config struct {
	// Environment is "development" or "production". Production enables
	// HSTS and secure cookies at the HTTP boundary.
	Environment string

	Lockout   LockoutConfig
	Session   SessionConfig
	RateLimit RateLimitConfig
	Upload    UploadConfig
	CSRF      CSRFConfig
	JWT       JWTConfig
	Password  PasswordConfig
	Audit     AuditConfig
	Metrics   MetricsConfig
}

// LockoutConfig drives the brute-force state machine.
type LockoutConfig struct {
	// Threshold is the consecutive-failure count that trips a lockout.
	Threshold int
	// Duration is how long a tripped lockout holds.
	Duration time.Duration
}

// SessionConfig bounds the session store.
type SessionConfig struct {
	IdleTimeout   time.Duration
	SweepInterval time.Duration
	// MaxSessions caps the in-memory store; ignored by Redis.
	MaxSessions int
	RedisPrefix string
}

// RateLimitConfig overrides the per-class budgets. A nil Limits map
// keeps the predefined classes.
type RateLimitConfig struct {
	Limits      map[RateClass]RateWindow
	RedisPrefix string
	// MaxEntries caps the in-memory counter cache; ignored by Redis.
	MaxEntries int
}

// UploadConfig bounds file validation.
type UploadConfig struct {
	MaxSizeBytes     int64
	AllowedMIMETypes []string
}

// CSRFConfig controls cookie attributes for issued token pairs.
type CSRFConfig struct {
	// CookieSecure forces the Secure attribute even outside production.
	CookieSecure bool
}

// JWTConfig enables the bearer-token API path when TTL is non-zero.
type JWTConfig struct {
	TTL           time.Duration
	SigningMethod string // "hs256" (default) or "ed25519"
	PrivateKey    []byte
	PublicKey     []byte
	Issuer        string
	Audience      string
}

// PasswordConfig sets argon2id costs for the bundled local provider.
type PasswordConfig struct {
	MemoryKB    uint32
	Time        uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

// AuditConfig controls the async security-event dispatcher.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

// MetricsConfig controls the in-process counter bank.
type MetricsConfig struct {
	Enabled                 bool
	EnableLatencyHistograms bool
}

// DefaultConfig returns the development-profile defaults. Integrators
// adjust fields and pass the result to [Builder.WithConfig].
func DefaultConfig() Config { return defaultConfig() }

func defaultConfig() Config {
	return Config{
		Environment: "development",
		Lockout: LockoutConfig{
			Threshold: 5,
			Duration:  30 * time.Minute,
		},
		Session: SessionConfig{
			IdleTimeout:   30 * time.Minute,
			SweepInterval: 15 * time.Minute,
			MaxSessions:   100_000,
			RedisPrefix:   "rgs",
		},
		RateLimit: RateLimitConfig{
			RedisPrefix: "rgl",
			MaxEntries:  50_000,
		},
		Upload: UploadConfig{
			MaxSizeBytes:     10 << 20,
			AllowedMIMETypes: []string{"image/jpeg", "image/png", "image/gif", "application/pdf", "text/plain", "text/csv", "application/json"},
		},
		Password: PasswordConfig{
			MemoryKB:    64 * 1024,
			Time:        3,
			Parallelism: 2,
			SaltLength:  16,
			KeyLength:   32,
		},
		Audit: AuditConfig{
			Enabled:    true,
			BufferSize: 256,
			DropIfFull: true,
		},
	}
}

func (c Config) validate() error {
	if c.Environment != "development" && c.Environment != "production" {
		return errors.New("environment must be development or production")
	}
	if c.Lockout.Threshold < 1 {
		return errors.New("lockout threshold must be >= 1")
	}
	if c.Lockout.Duration <= 0 {
		return errors.New("lockout duration must be positive")
	}
	if c.Session.IdleTimeout <= 0 {
		return errors.New("session idle timeout must be positive")
	}
	if c.Session.SweepInterval <= 0 {
		return errors.New("session sweep interval must be positive")
	}
	if c.Upload.MaxSizeBytes <= 0 {
		return errors.New("upload max size must be positive")
	}
	if len(c.Upload.AllowedMIMETypes) == 0 {
		return errors.New("upload allow-list must not be empty")
	}
	for class, limit := range c.RateLimit.Limits {
		if limit.Max < 1 || limit.Window <= 0 {
			return errors.New("rate limit for class " + string(class) + " is invalid")
		}
	}
	if c.JWT.TTL < 0 {
		return errors.New("jwt TTL must not be negative")
	}
	if c.JWT.TTL > 0 && c.JWT.SigningMethod == "ed25519" && len(c.JWT.PublicKey) == 0 {
		return errors.New("jwt ed25519 requires a public key")
	}
	if c.JWT.TTL > 0 && c.JWT.SigningMethod != "ed25519" && len(c.JWT.PrivateKey) < 32 {
		return errors.New("jwt hs256 requires a secret of at least 32 bytes")
	}
	return nil
}

// Production reports whether the production hardening profile applies.
func (c Config) Production() bool { return c.Environment == "production" }

func (c Config) passwordParams() password.Params {
	return password.Params{
		MemoryKB:    c.Password.MemoryKB,
		Time:        c.Password.Time,
		Parallelism: c.Password.Parallelism,
		SaltLength:  c.Password.SaltLength,
		KeyLength:   c.Password.KeyLength,
	}
}

func (c Config) jwtConfig() jwt.Config {
	method := jwt.MethodHS256
	if c.JWT.SigningMethod == "ed25519" {
		method = jwt.MethodEd25519
	}
	return jwt.Config{
		TTL:           c.JWT.TTL,
		SigningMethod: method,
		PrivateKey:    c.JWT.PrivateKey,
		PublicKey:     c.JWT.PublicKey,
		Issuer:        c.JWT.Issuer,
		Audience:      c.JWT.Audience,
	}
}

func (c Config) auditConfig() audit.Config {
	return audit.Config{
		Enabled:    c.Audit.Enabled,
		BufferSize: c.Audit.BufferSize,
		DropIfFull: c.Audit.DropIfFull,
	}
}

func (c Config) metricsConfig() metrics.Config {
	return metrics.Config{
		Enabled:                 c.Metrics.Enabled,
		EnableLatencyHistograms: c.Metrics.EnableLatencyHistograms,
	}
}
