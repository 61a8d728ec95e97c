package identity

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/halcyon-labs/reqguard/password"
	"github.com/halcyon-labs/reqguard/store"
)

// credentialsCollection keys by principal id; the email field is queried
// by equality on login.
const credentialsCollection = "credentials"

// LocalProvider is a Provider over a document store and argon2id hashes.
// It serves tests and self-contained deployments; production setups can
// swap in a hosted provider behind the same interface.
type LocalProvider struct {
	docs   store.DocumentStore
	hasher *password.Hasher
	mailer Mailer
}

// NewLocalProvider builds a provider over docs. A nil mailer silently
// drops outbound mail.
func NewLocalProvider(docs store.DocumentStore, hasher *password.Hasher, mailer Mailer) *LocalProvider {
	if mailer == nil {
		mailer = discardMailer{}
	}
	return &LocalProvider{docs: docs, hasher: hasher, mailer: mailer}
}

func (p *LocalProvider) VerifyCredentials(ctx context.Context, email, password string) (string, error) {
	id, doc, err := p.findByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		return "", ErrBadCredentials
	}
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	hash, _ := doc["passwordHash"].(string)
	ok, err := p.hasher.Verify(password, hash)
	if err != nil || !ok {
		return "", ErrBadCredentials
	}
	return id, nil
}

func (p *LocalProvider) CreateAccount(ctx context.Context, email, password string) (string, error) {
	email = strings.ToLower(email)

	_, _, err := p.findByEmail(ctx, email)
	switch {
	case err == nil:
		return "", ErrDuplicateAccount
	case !errors.Is(err, store.ErrNotFound):
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	hash, err := p.hasher.Hash(password)
	if err != nil {
		return "", err
	}

	id := uuid.NewString()
	doc := store.Document{"email": email, "passwordHash": hash}
	if err := p.docs.Set(ctx, credentialsCollection, id, doc); err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return id, nil
}

func (p *LocalProvider) SendVerificationEmail(ctx context.Context, principalID string) error {
	doc, err := p.docs.Get(ctx, credentialsCollection, principalID)
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("unknown principal %s", principalID)
	}
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	email, _ := doc["email"].(string)
	return p.mailer.SendVerification(ctx, email, principalID)
}

// SendPasswordReset swallows unknown emails so the outcome is identical
// either way.
func (p *LocalProvider) SendPasswordReset(ctx context.Context, email string) error {
	_, doc, err := p.findByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	token, err := resetToken()
	if err != nil {
		return err
	}
	addr, _ := doc["email"].(string)
	return p.mailer.SendPasswordReset(ctx, addr, token)
}

func (p *LocalProvider) Reauthenticate(ctx context.Context, principalID, currentPassword string) error {
	doc, err := p.docs.Get(ctx, credentialsCollection, principalID)
	if errors.Is(err, store.ErrNotFound) {
		return ErrBadCredentials
	}
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	hash, _ := doc["passwordHash"].(string)
	ok, err := p.hasher.Verify(currentPassword, hash)
	if err != nil || !ok {
		return ErrBadCredentials
	}
	return nil
}

func (p *LocalProvider) UpdatePassword(ctx context.Context, principalID, newPassword string) error {
	hash, err := p.hasher.Hash(newPassword)
	if err != nil {
		return err
	}
	err = p.docs.Update(ctx, credentialsCollection, principalID, store.Document{"passwordHash": hash})
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("unknown principal %s", principalID)
	}
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

func (p *LocalProvider) findByEmail(ctx context.Context, email string) (string, store.Document, error) {
	return p.docs.FindOne(ctx, credentialsCollection, "email", strings.ToLower(email))
}

func resetToken() (string, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}

type discardMailer struct{}

func (discardMailer) SendVerification(context.Context, string, string) error  { return nil }
func (discardMailer) SendPasswordReset(context.Context, string, string) error { return nil }
