package reqguard

import (
	"github.com/halcyon-labs/reqguard/internal/ratelimit"
	"github.com/halcyon-labs/reqguard/store"
)

// UserProfile is the persisted account record, re-exported from the
// store contracts so integrators implementing their own UserStore and
// engine callers share one type.
type UserProfile = store.UserProfile

// SecuritySettings is the lockout-bearing sub-record of a profile.
type SecuritySettings = store.SecuritySettings

// RegisterInput is the raw registration form. Fields are sanitized and
// schema-validated before anything touches a backend.
type RegisterInput struct {
	Email       string
	Password    string
	DisplayName string
	Language    string
}

// LoginResult is returned on successful login. Token is empty unless
// bearer tokens are configured.
type LoginResult struct {
	SessionID string
	Token     string
	Profile   *UserProfile
}

// RateClass identifies an operation class with its own fixed-window
// budget. Aliased from the internal limiter so configuration and
// middleware share one vocabulary.
type RateClass = ratelimit.Class

// RateWindow is a fixed-window budget: at most Max requests per Window.
type RateWindow = ratelimit.Limit

// The predefined operation classes.
const (
	RateClassAuth   = ratelimit.ClassAuth
	RateClassAPI    = ratelimit.ClassAPI
	RateClassUpload = ratelimit.ClassUpload
	RateClassAdmin  = ratelimit.ClassAdmin
)
