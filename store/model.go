package store

import "time"

// UserProfile is the persisted account record. It is created at
// registration and mutated only through the engine's account operations;
// profiles are deactivated rather than deleted.
type UserProfile struct {
	ID            string     `json:"id"`
	Email         string     `json:"email"`
	DisplayName   string     `json:"displayName"`
	Role          string     `json:"role"`
	Active        bool       `json:"isActive"`
	EmailVerified bool       `json:"emailVerified"`
	Language      string     `json:"language"`
	CreatedAt     time.Time  `json:"createdAt"`
	LastLoginAt   *time.Time `json:"lastLoginAt,omitempty"`

	Subscription *Subscription    `json:"subscription,omitempty"`
	Security     SecuritySettings `json:"securitySettings"`
}

// Subscription is a read-only summary stamped by billing surfaces.
// This core carries it through but never interprets it.
type Subscription struct {
	Plan      string     `json:"plan"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
}

// SecuritySettings holds the fields that drive the lockout state machine.
type SecuritySettings struct {
	MFAEnabled         bool       `json:"mfaEnabled"`
	LastPasswordChange *time.Time `json:"lastPasswordChange,omitempty"`
	LoginAttempts      int        `json:"loginAttempts"`
	LockedUntil        *time.Time `json:"lockedUntil,omitempty"`
}

// Locked reports whether the profile is inside an active lockout window.
// An elapsed LockedUntil means the account is eligible to attempt login
// again; the stale timestamp is cleared on the next successful login.
func (p *UserProfile) Locked(now time.Time) bool {
	return p.Security.LockedUntil != nil && now.Before(*p.Security.LockedUntil)
}
