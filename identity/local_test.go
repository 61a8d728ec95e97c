package identity

import (
	"context"
	"errors"
	"testing"

	"github.com/halcyon-labs/reqguard/password"
	"github.com/halcyon-labs/reqguard/store"
)

func newTestProvider(t *testing.T) *LocalProvider {
	t.Helper()
	hasher, err := password.New(password.Params{
		MemoryKB:    8 * 1024,
		Time:        1,
		Parallelism: 1,
		SaltLength:  16,
		KeyLength:   16,
	})
	if err != nil {
		t.Fatalf("password.New error: %v", err)
	}
	return NewLocalProvider(store.NewMemoryStore(), hasher, nil)
}

func TestCreateAndVerify(t *testing.T) {
	p := newTestProvider(t)
	ctx := context.Background()

	id, err := p.CreateAccount(ctx, "Alice@Example.com", "Sup3r$ecret")
	if err != nil {
		t.Fatalf("CreateAccount error: %v", err)
	}
	if id == "" {
		t.Fatal("expected a principal id")
	}

	got, err := p.VerifyCredentials(ctx, "alice@example.com", "Sup3r$ecret")
	if err != nil {
		t.Fatalf("VerifyCredentials error: %v", err)
	}
	if got != id {
		t.Fatalf("principal id = %q, want %q", got, id)
	}
}

func TestVerifyFailuresAreIndistinguishable(t *testing.T) {
	p := newTestProvider(t)
	ctx := context.Background()

	if _, err := p.CreateAccount(ctx, "alice@example.com", "Sup3r$ecret"); err != nil {
		t.Fatalf("CreateAccount error: %v", err)
	}

	_, wrongPass := p.VerifyCredentials(ctx, "alice@example.com", "wrong-password")
	_, noAccount := p.VerifyCredentials(ctx, "nobody@example.com", "whatever-pass")

	if !errors.Is(wrongPass, ErrBadCredentials) || !errors.Is(noAccount, ErrBadCredentials) {
		t.Fatalf("want ErrBadCredentials for both cases, got %v / %v", wrongPass, noAccount)
	}
	if wrongPass.Error() != noAccount.Error() {
		t.Fatal("failure surfaces must be identical")
	}
}

func TestCreateDuplicate(t *testing.T) {
	p := newTestProvider(t)
	ctx := context.Background()

	if _, err := p.CreateAccount(ctx, "alice@example.com", "Sup3r$ecret"); err != nil {
		t.Fatalf("CreateAccount error: %v", err)
	}
	if _, err := p.CreateAccount(ctx, "ALICE@example.com", "0ther$ecret"); !errors.Is(err, ErrDuplicateAccount) {
		t.Fatalf("want ErrDuplicateAccount, got %v", err)
	}
}

func TestReauthenticateAndUpdatePassword(t *testing.T) {
	p := newTestProvider(t)
	ctx := context.Background()

	id, err := p.CreateAccount(ctx, "alice@example.com", "Sup3r$ecret")
	if err != nil {
		t.Fatalf("CreateAccount error: %v", err)
	}

	if err := p.Reauthenticate(ctx, id, "Sup3r$ecret"); err != nil {
		t.Fatalf("Reauthenticate error: %v", err)
	}
	if err := p.Reauthenticate(ctx, id, "wrong-pass"); !errors.Is(err, ErrBadCredentials) {
		t.Fatalf("want ErrBadCredentials, got %v", err)
	}

	if err := p.UpdatePassword(ctx, id, "N3w$ecret!"); err != nil {
		t.Fatalf("UpdatePassword error: %v", err)
	}
	if _, err := p.VerifyCredentials(ctx, "alice@example.com", "Sup3r$ecret"); !errors.Is(err, ErrBadCredentials) {
		t.Fatal("old password must stop working")
	}
	if _, err := p.VerifyCredentials(ctx, "alice@example.com", "N3w$ecret!"); err != nil {
		t.Fatalf("new password must verify: %v", err)
	}
}

func TestSendPasswordResetUnknownEmail(t *testing.T) {
	p := newTestProvider(t)

	if err := p.SendPasswordReset(context.Background(), "nobody@example.com"); err != nil {
		t.Fatalf("unknown email must be a silent no-op, got %v", err)
	}
}

func TestSendVerificationUnknownPrincipal(t *testing.T) {
	p := newTestProvider(t)

	if err := p.SendVerificationEmail(context.Background(), "missing"); err == nil {
		t.Fatal("expected error for unknown principal")
	}
}
