package permission

import (
	"errors"
	"sync"
)

// Known roles. The mapping is configuration loaded once at process start;
// the registry freezes before serving traffic.
const (
	RoleUser       = "user"
	RoleModerator  = "moderator"
	RoleAdmin      = "admin"
	RoleSuperAdmin = "super_admin"
)

// Registry maps role names to permission sets. It is mutable only between
// construction and [Registry.Freeze]; afterwards every method is a read.
type Registry struct {
	mu     sync.RWMutex
	roles  map[string]Set
	frozen bool
}

// NewRegistry creates an empty role registry.
func NewRegistry() *Registry {
	return &Registry{roles: make(map[string]Set)}
}

// Default returns the standard four-role registry, frozen: user, moderator,
// admin, and super_admin holding the wildcard.
func Default() *Registry {
	r := NewRegistry()
	_ = r.Register(RoleUser, ReadContent, WriteContent, UploadFiles)
	_ = r.Register(RoleModerator, ReadContent, WriteContent, UploadFiles, ManageContent)
	_ = r.Register(RoleAdmin, ReadContent, WriteContent, UploadFiles, ManageContent, ManageUsers, ViewReports, ManagePayments, AdminPanel)
	_ = r.Register(RoleSuperAdmin, All)
	r.Freeze()
	return r
}

// Register binds a role name to its permission set. Must run before Freeze.
func (r *Registry) Register(role string, perms ...Permission) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.frozen {
		return errors.New("registry frozen")
	}
	if role == "" {
		return errors.New("role name cannot be empty")
	}
	if _, exists := r.roles[role]; exists {
		return errors.New("role already registered: " + role)
	}

	r.roles[role] = NewSet(perms...)
	return nil
}

// Freeze makes the registry immutable. Idempotent.
func (r *Registry) Freeze() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frozen = true
}

// Allowed reports whether the named role grants p. Unknown roles grant
// nothing.
func (r *Registry) Allowed(role string, p Permission) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	set, ok := r.roles[role]
	if !ok {
		return false
	}
	return set.Has(p)
}

// Known reports whether the role exists in the registry.
func (r *Registry) Known(role string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.roles[role]
	return ok
}

// SetFor returns the role's permission set, or an empty set for unknown
// roles.
func (r *Registry) SetFor(role string) Set {
	r.mu.RLock()
	defer r.mu.RUnlock()

	set, ok := r.roles[role]
	if !ok {
		return Set{}
	}
	return set
}
