package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// UsersCollection is the collection name used for account records.
const UsersCollection = "users"

// Users adapts any DocumentStore into the typed UserStore contract.
// Profiles travel as JSON documents so the shape in the backing store
// matches the wire shape.
type Users struct {
	docs DocumentStore
}

// NewUsers returns a UserStore over the given document store.
func NewUsers(docs DocumentStore) *Users {
	return &Users{docs: docs}
}

// Create persists a new profile. An empty ID is assigned a fresh UUID.
// Fails with ErrDuplicate when a profile already holds the email; the
// check-then-write is not atomic, which is an accepted race for
// single-writer registration traffic.
func (u *Users) Create(ctx context.Context, profile *UserProfile) error {
	if profile.ID == "" {
		profile.ID = uuid.NewString()
	}
	profile.Email = strings.ToLower(profile.Email)

	_, _, err := u.docs.FindOne(ctx, UsersCollection, "email", profile.Email)
	switch {
	case err == nil:
		return ErrDuplicate
	case !errors.Is(err, ErrNotFound):
		return err
	}

	doc, err := profileToDoc(profile)
	if err != nil {
		return err
	}
	return u.docs.Set(ctx, UsersCollection, profile.ID, doc)
}

func (u *Users) GetByID(ctx context.Context, id string) (*UserProfile, error) {
	doc, err := u.docs.Get(ctx, UsersCollection, id)
	if err != nil {
		return nil, err
	}
	return docToProfile(id, doc)
}

func (u *Users) GetByEmail(ctx context.Context, email string) (*UserProfile, error) {
	id, doc, err := u.docs.FindOne(ctx, UsersCollection, "email", strings.ToLower(email))
	if err != nil {
		return nil, err
	}
	return docToProfile(id, doc)
}

func (u *Users) Save(ctx context.Context, profile *UserProfile) error {
	if profile.ID == "" {
		return fmt.Errorf("save profile: %w", ErrNotFound)
	}
	doc, err := profileToDoc(profile)
	if err != nil {
		return err
	}
	return u.docs.Set(ctx, UsersCollection, profile.ID, doc)
}

func profileToDoc(profile *UserProfile) (Document, error) {
	raw, err := json.Marshal(profile)
	if err != nil {
		return nil, fmt.Errorf("encode profile: %w", err)
	}
	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("encode profile: %w", err)
	}
	return doc, nil
}

func docToProfile(id string, doc Document) (*UserProfile, error) {
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("decode profile %s: %w", id, err)
	}
	profile := &UserProfile{}
	if err := json.Unmarshal(raw, profile); err != nil {
		return nil, fmt.Errorf("decode profile %s: %w", id, err)
	}
	if profile.ID == "" {
		profile.ID = id
	}
	return profile, nil
}
