package reqguard

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/halcyon-labs/reqguard/identity"
	"github.com/halcyon-labs/reqguard/internal/audit"
	"github.com/halcyon-labs/reqguard/metrics"
	"github.com/halcyon-labs/reqguard/sanitize"
	"github.com/halcyon-labs/reqguard/schema"
	"github.com/halcyon-labs/reqguard/store"
)

// Register creates an identity-provider account and the matching
// profile document. The profile always starts with role "user";
// callers cannot pick their own role.
//
// If the provider account is created but the profile write fails, the
// account is left in place and ErrProfilePersist is returned. The
// orphaned principal id is audit-logged so an operator can reconcile.
func (e *Engine) Register(ctx context.Context, in RegisterInput) (*UserProfile, error) {
	record := map[string]any{
		"email":       sanitize.Email(in.Email),
		"password":    in.Password,
		"displayName": sanitize.Text(in.DisplayName),
	}
	if in.Language != "" {
		record["language"] = sanitize.Text(in.Language)
	}
	res := schema.Registration().Validate(record)
	if !res.Valid {
		e.metrics.Inc(metrics.ValidationFailure)
		return nil, newValidationError(res)
	}
	email := res.Record["email"].(string)

	if _, err := e.users.GetByEmail(ctx, email); err == nil {
		e.metrics.Inc(metrics.RegisterDuplicate)
		return nil, ErrDuplicateEmail
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, infraErr("register", err)
	}

	principalID, err := e.provider.CreateAccount(ctx, email, in.Password)
	if err != nil {
		if errors.Is(err, identity.ErrDuplicateAccount) {
			e.metrics.Inc(metrics.RegisterDuplicate)
			return nil, ErrDuplicateEmail
		}
		return nil, infraErr("register", err)
	}

	if err := e.provider.SendVerificationEmail(ctx, principalID); err != nil {
		// Delivery trouble must not lose the account.
		e.warn("verification email not sent", err, zap.String("email", email))
	}

	now := e.clock()
	profile := &UserProfile{
		ID:            principalID,
		Email:         email,
		DisplayName:   res.Record["displayName"].(string),
		Role:          "user",
		Active:        true,
		EmailVerified: false,
		CreatedAt:     now,
		Security: SecuritySettings{
			LastPasswordChange: &now,
		},
	}
	if lang, ok := res.Record["language"].(string); ok {
		profile.Language = lang
	}

	if err := e.users.Create(ctx, profile); err != nil {
		e.emit(ctx, audit.Event{
			EventType: audit.TypeRegisterOrphan,
			UserID:    principalID,
			Email:     email,
			Success:   false,
			Error:     err.Error(),
		})
		return nil, errors.Join(ErrProfilePersist, err)
	}

	e.metrics.Inc(metrics.RegisterSuccess)
	e.emit(ctx, audit.Event{
		EventType: audit.TypeRegister,
		UserID:    profile.ID,
		Email:     email,
		Success:   true,
	})
	return profile, nil
}

// UpdateProfile applies a partial profile update for the user. Fields
// absent from the input are left untouched. Role, activation, and
// verification state are never writable through this path.
func (e *Engine) UpdateProfile(ctx context.Context, userID string, updates map[string]any) (*UserProfile, error) {
	res := schema.ProfileUpdate().Validate(sanitizeProfileUpdates(updates))
	if !res.Valid {
		e.metrics.Inc(metrics.ValidationFailure)
		return nil, newValidationError(res)
	}

	profile, err := e.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, infraErr("profile update", err)
	}

	if v, ok := res.Record["displayName"].(string); ok {
		profile.DisplayName = v
	}
	if v, ok := res.Record["language"].(string); ok {
		profile.Language = v
	}

	if err := e.users.Save(ctx, profile); err != nil {
		return nil, infraErr("profile update", err)
	}
	return profile, nil
}

// Deactivate soft-disables the account and revokes every live session.
// The profile document is kept; there is no hard delete.
func (e *Engine) Deactivate(ctx context.Context, userID string) error {
	profile, err := e.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrUnauthorized
		}
		return infraErr("deactivate", err)
	}

	profile.Active = false
	if err := e.users.Save(ctx, profile); err != nil {
		return infraErr("deactivate", err)
	}
	if err := e.sessions.DestroyAllForUser(ctx, userID); err != nil {
		e.warn("session purge after deactivation failed", err, zap.String("user_id", userID))
	} else {
		e.metrics.Inc(metrics.SessionInvalidated)
	}

	e.emit(ctx, audit.Event{
		EventType: audit.TypeDeactivate,
		UserID:    userID,
		Email:     profile.Email,
		Success:   true,
	})
	return nil
}

func sanitizeProfileUpdates(updates map[string]any) map[string]any {
	out := make(map[string]any, len(updates))
	for k, v := range updates {
		s, ok := v.(string)
		if !ok {
			out[k] = v
			continue
		}
		switch k {
		case "bio":
			out[k] = sanitize.RichText(s)
		case "website":
			out[k] = sanitize.URL(s)
		default:
			out[k] = sanitize.Text(s)
		}
	}
	return out
}
