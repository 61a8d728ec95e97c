package reqguard

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/halcyon-labs/reqguard/filecheck"
	"github.com/halcyon-labs/reqguard/identity"
	"github.com/halcyon-labs/reqguard/permission"
)

func testConfig() Config {
	cfg := defaultConfig()
	// Cheap argon2 costs; the tests exercise flows, not the KDF.
	cfg.Password.MemoryKB = 8 * 1024
	cfg.Password.Time = 1
	cfg.Password.Parallelism = 1
	return cfg
}

// newTestEngine builds an engine on memory backends with a controllable
// clock. Advance the returned *time.Time to move the engine through
// lockout windows.
func newTestEngine(t *testing.T, cfg Config) (*Engine, *time.Time) {
	t.Helper()

	engine, err := New().WithConfig(cfg).Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	t.Cleanup(func() { engine.Close() })

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	engine.now = func() time.Time { return now }
	return engine, &now
}

func clientContext(ip, ua string) context.Context {
	ctx := WithClientIP(context.Background(), ip)
	return WithUserAgent(ctx, ua)
}

func registerAlice(t *testing.T, e *Engine) *UserProfile {
	t.Helper()
	profile, err := e.Register(context.Background(), RegisterInput{
		Email:       "alice@example.com",
		Password:    "Sup3r$ecret",
		DisplayName: "Alice",
	})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	return profile
}

func TestRegisterCreatesUserProfile(t *testing.T) {
	engine, _ := newTestEngine(t, testConfig())

	profile := registerAlice(t, engine)
	if profile.Role != "user" {
		t.Errorf("role = %q, want user", profile.Role)
	}
	if !profile.Active {
		t.Error("new profile must be active")
	}
	if profile.EmailVerified {
		t.Error("new profile must not start verified")
	}
	if profile.Security.LoginAttempts != 0 {
		t.Errorf("loginAttempts = %d, want 0", profile.Security.LoginAttempts)
	}
	if profile.ID == "" {
		t.Error("profile id must be set")
	}
}

func TestRegisterNormalizesEmail(t *testing.T) {
	engine, _ := newTestEngine(t, testConfig())

	profile, err := engine.Register(context.Background(), RegisterInput{
		Email:       "  Alice@Example.COM ",
		Password:    "Sup3r$ecret",
		DisplayName: "Alice",
	})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if profile.Email != "alice@example.com" {
		t.Errorf("email = %q, want alice@example.com", profile.Email)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	engine, _ := newTestEngine(t, testConfig())
	registerAlice(t, engine)

	_, err := engine.Register(context.Background(), RegisterInput{
		Email:       "ALICE@example.com",
		Password:    "Another$ecret1",
		DisplayName: "Impostor",
	})
	if !errors.Is(err, ErrDuplicateEmail) {
		t.Fatalf("err = %v, want ErrDuplicateEmail", err)
	}
}

func TestRegisterRejectsBadInput(t *testing.T) {
	engine, _ := newTestEngine(t, testConfig())

	_, err := engine.Register(context.Background(), RegisterInput{
		Email:       "not-an-email",
		Password:    "short",
		DisplayName: "",
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("err is %T, want *ValidationError", err)
	}
	if len(verr.Fields) != 3 {
		t.Errorf("got %d field errors, want 3: %v", len(verr.Fields), verr.Messages())
	}
}

// The five-strikes scenario: four failures return plain bad-credentials,
// the fifth trips the lockout, and even the correct password bounces off
// a locked account until the window elapses.
func TestLoginLockoutScenario(t *testing.T) {
	engine, now := newTestEngine(t, testConfig())
	registerAlice(t, engine)
	ctx := clientContext("203.0.113.7", "test-agent")

	for i := 0; i < 5; i++ {
		_, err := engine.Login(ctx, "alice@example.com", "wrong")
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("attempt %d: err = %v, want ErrInvalidCredentials", i+1, err)
		}
	}

	if _, err := engine.Login(ctx, "alice@example.com", "Sup3r$ecret"); !errors.Is(err, ErrAccountLocked) {
		t.Fatalf("locked login err = %v, want ErrAccountLocked", err)
	}

	*now = now.Add(31 * time.Minute)

	result, err := engine.Login(ctx, "alice@example.com", "Sup3r$ecret")
	if err != nil {
		t.Fatalf("post-lockout login failed: %v", err)
	}
	if result.SessionID == "" {
		t.Error("login must issue a session")
	}
	if result.Profile.Security.LoginAttempts != 0 {
		t.Errorf("loginAttempts = %d, want 0 after success", result.Profile.Security.LoginAttempts)
	}
	if result.Profile.Security.LockedUntil != nil {
		t.Error("lockedUntil must clear on successful login")
	}
	if result.Profile.LastLoginAt == nil {
		t.Error("lastLoginAt must be stamped")
	}
}

func TestLoginLockedSkipsCredentialCheck(t *testing.T) {
	engine, _ := newTestEngine(t, testConfig())
	registerAlice(t, engine)
	ctx := clientContext("203.0.113.7", "test-agent")

	for i := 0; i < 5; i++ {
		engine.Login(ctx, "alice@example.com", "wrong")
	}

	counting := &countingProvider{Provider: engine.provider}
	engine.provider = counting

	if _, err := engine.Login(ctx, "alice@example.com", "wrong"); !errors.Is(err, ErrAccountLocked) {
		t.Fatalf("err = %v, want ErrAccountLocked", err)
	}
	if counting.verifies != 0 {
		t.Errorf("locked login made %d provider calls, want 0", counting.verifies)
	}
}

func TestLoginUnknownEmailIndistinguishable(t *testing.T) {
	engine, _ := newTestEngine(t, testConfig())
	registerAlice(t, engine)
	ctx := clientContext("203.0.113.7", "test-agent")

	_, unknownErr := engine.Login(ctx, "nobody@example.com", "whatever1")
	_, wrongErr := engine.Login(ctx, "alice@example.com", "whatever1")

	if !errors.Is(unknownErr, ErrInvalidCredentials) || !errors.Is(wrongErr, ErrInvalidCredentials) {
		t.Fatalf("unknown=%v wrong=%v, both must be ErrInvalidCredentials", unknownErr, wrongErr)
	}
	if unknownErr.Error() != wrongErr.Error() {
		t.Errorf("error text differs: %q vs %q", unknownErr, wrongErr)
	}
}

func TestLoginDeactivatedAccount(t *testing.T) {
	engine, _ := newTestEngine(t, testConfig())
	profile := registerAlice(t, engine)
	ctx := clientContext("203.0.113.7", "test-agent")

	if err := engine.Deactivate(ctx, profile.ID); err != nil {
		t.Fatalf("Deactivate failed: %v", err)
	}
	if _, err := engine.Login(ctx, "alice@example.com", "Sup3r$ecret"); !errors.Is(err, ErrAccountDisabled) {
		t.Fatalf("err = %v, want ErrAccountDisabled", err)
	}
}

func TestSessionLifecycle(t *testing.T) {
	engine, _ := newTestEngine(t, testConfig())
	profile := registerAlice(t, engine)
	ctx := clientContext("203.0.113.7", "test-agent")

	result, err := engine.Login(ctx, "alice@example.com", "Sup3r$ecret")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	p, err := engine.ValidateSession(ctx, result.SessionID)
	if err != nil {
		t.Fatalf("ValidateSession failed: %v", err)
	}
	if p.UserID != profile.ID || p.Role != "user" {
		t.Errorf("principal = %+v, want user %s", p, profile.ID)
	}

	if err := engine.Logout(ctx, result.SessionID); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}
	if _, err := engine.ValidateSession(ctx, result.SessionID); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("validate after logout err = %v, want ErrUnauthorized", err)
	}

	// Logout is idempotent.
	if err := engine.Logout(ctx, result.SessionID); err != nil {
		t.Errorf("second Logout err = %v, want nil", err)
	}
}

func TestSessionBindingMismatchDestroysSession(t *testing.T) {
	engine, _ := newTestEngine(t, testConfig())
	registerAlice(t, engine)
	ctx := clientContext("203.0.113.7", "test-agent")

	result, err := engine.Login(ctx, "alice@example.com", "Sup3r$ecret")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	hijacked := clientContext("198.51.100.9", "test-agent")
	if _, err := engine.ValidateSession(hijacked, result.SessionID); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("mismatched IP err = %v, want ErrUnauthorized", err)
	}

	// Fail-closed: the session is gone even for the original client.
	if _, err := engine.ValidateSession(ctx, result.SessionID); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("original client after hijack attempt err = %v, want ErrUnauthorized", err)
	}
}

func TestLogoutAll(t *testing.T) {
	engine, _ := newTestEngine(t, testConfig())
	profile := registerAlice(t, engine)
	ctx := clientContext("203.0.113.7", "test-agent")

	first, _ := engine.Login(ctx, "alice@example.com", "Sup3r$ecret")
	second, _ := engine.Login(ctx, "alice@example.com", "Sup3r$ecret")

	if err := engine.LogoutAll(ctx, profile.ID); err != nil {
		t.Fatalf("LogoutAll failed: %v", err)
	}
	for _, id := range []string{first.SessionID, second.SessionID} {
		if _, err := engine.ValidateSession(ctx, id); !errors.Is(err, ErrUnauthorized) {
			t.Errorf("session %s still valid after LogoutAll", id)
		}
	}
}

func TestChangePassword(t *testing.T) {
	engine, _ := newTestEngine(t, testConfig())
	profile := registerAlice(t, engine)
	ctx := clientContext("203.0.113.7", "test-agent")

	err := engine.ChangePassword(ctx, profile.ID, "", "wrong-current", "N3w$ecret!!")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("wrong current password err = %v, want ErrInvalidCredentials", err)
	}

	if err := engine.ChangePassword(ctx, profile.ID, "", "Sup3r$ecret", "N3w$ecret!!"); err != nil {
		t.Fatalf("ChangePassword failed: %v", err)
	}

	if _, err := engine.Login(ctx, "alice@example.com", "Sup3r$ecret"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("old password still works after change")
	}
	if _, err := engine.Login(ctx, "alice@example.com", "N3w$ecret!!"); err != nil {
		t.Errorf("new password rejected: %v", err)
	}

	updated, err := engine.users.GetByID(ctx, profile.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if updated.Security.LastPasswordChange == nil {
		t.Error("lastPasswordChange must be stamped")
	}
}

func TestRequestPasswordResetEnumerationSafe(t *testing.T) {
	engine, _ := newTestEngine(t, testConfig())
	registerAlice(t, engine)
	ctx := context.Background()

	if err := engine.RequestPasswordReset(ctx, "alice@example.com"); err != nil {
		t.Errorf("known email err = %v, want nil", err)
	}
	if err := engine.RequestPasswordReset(ctx, "nobody@example.com"); err != nil {
		t.Errorf("unknown email err = %v, want nil", err)
	}
}

func TestDeactivateKeepsProfile(t *testing.T) {
	engine, _ := newTestEngine(t, testConfig())
	profile := registerAlice(t, engine)
	ctx := clientContext("203.0.113.7", "test-agent")

	result, _ := engine.Login(ctx, "alice@example.com", "Sup3r$ecret")

	if err := engine.Deactivate(ctx, profile.ID); err != nil {
		t.Fatalf("Deactivate failed: %v", err)
	}

	kept, err := engine.users.GetByID(ctx, profile.ID)
	if err != nil {
		t.Fatalf("profile must survive deactivation: %v", err)
	}
	if kept.Active {
		t.Error("profile must be inactive")
	}
	if _, err := engine.ValidateSession(ctx, result.SessionID); !errors.Is(err, ErrUnauthorized) {
		t.Error("sessions must be revoked on deactivation")
	}
}

func TestUpdateProfile(t *testing.T) {
	engine, _ := newTestEngine(t, testConfig())
	profile := registerAlice(t, engine)
	ctx := context.Background()

	updated, err := engine.UpdateProfile(ctx, profile.ID, map[string]any{
		"displayName": "Alice <script>alert(1)</script> Cooper",
		"language":    "de",
	})
	if err != nil {
		t.Fatalf("UpdateProfile failed: %v", err)
	}
	if updated.Language != "de" {
		t.Errorf("language = %q, want de", updated.Language)
	}
	if updated.DisplayName == "" || updated.DisplayName == profile.DisplayName {
		t.Errorf("displayName not updated: %q", updated.DisplayName)
	}
	for _, c := range updated.DisplayName {
		if c == '<' || c == '>' {
			t.Errorf("displayName kept angle brackets: %q", updated.DisplayName)
		}
	}

	_, err = engine.UpdateProfile(ctx, profile.ID, map[string]any{"language": "xx"})
	if !errors.Is(err, ErrInvalidInput) {
		t.Errorf("bad language err = %v, want ErrInvalidInput", err)
	}
}

func TestCheckUpload(t *testing.T) {
	engine, _ := newTestEngine(t, testConfig())
	ctx := context.Background()

	png := append([]byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}, make([]byte, 64)...)
	report, err := engine.CheckUpload(ctx, "u1", filecheck.File{
		Name:     "avatar.png",
		MIMEType: "image/png",
		Size:     int64(len(png)),
		Content:  png,
	})
	if err != nil {
		t.Fatalf("valid upload rejected: %v (%v)", err, report.Errors)
	}

	_, err = engine.CheckUpload(ctx, "u1", filecheck.File{
		Name:     "evil.png",
		MIMEType: "image/png",
		Size:     4,
		Content:  []byte("MZxx"),
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("spoofed upload err = %v, want ErrInvalidInput", err)
	}
}

func TestCan(t *testing.T) {
	engine, _ := newTestEngine(t, testConfig())

	if !engine.Can("user", permission.UploadFiles) {
		t.Error("user must hold files.upload")
	}
	if engine.Can("user", permission.ManageUsers) {
		t.Error("user must not hold users.manage")
	}
	if !engine.Can("super_admin", permission.Permission("anything.at.all")) {
		t.Error("super_admin wildcard must cover unknown permissions")
	}
	if engine.Can("ghost-role", permission.ReadContent) {
		t.Error("unknown role must hold nothing")
	}
}

// countingProvider wraps a Provider and counts credential checks.
type countingProvider struct {
	identity.Provider
	verifies int
}

func (c *countingProvider) VerifyCredentials(ctx context.Context, email, password string) (string, error) {
	c.verifies++
	return c.Provider.VerifyCredentials(ctx, email, password)
}
