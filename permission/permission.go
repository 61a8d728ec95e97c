package permission

// Permission is a typed capability string. The set of known permissions is
// fixed at process start; runtime code only tests membership.
type Permission string

// All is the distinguished wildcard held by super_admin. It is checked
// before set membership so a wildcard role never depends on the registry
// enumerating every capability.
const All Permission = "*"

// Core capabilities of the request-security boundary. Callers may register
// additional ones through [Registry.Register].
const (
	ReadContent    Permission = "content.read"
	WriteContent   Permission = "content.write"
	ManageUsers    Permission = "users.manage"
	ManageContent  Permission = "content.manage"
	ViewReports    Permission = "reports.view"
	ManagePayments Permission = "payments.manage"
	UploadFiles    Permission = "files.upload"
	AdminPanel     Permission = "admin.panel"
)

// Set is an immutable-after-build permission collection.
type Set map[Permission]struct{}

// NewSet builds a Set from the given permissions.
func NewSet(perms ...Permission) Set {
	s := make(Set, len(perms))
	for _, p := range perms {
		s[p] = struct{}{}
	}
	return s
}

// Has reports whether the set grants p, honoring the wildcard first.
func (s Set) Has(p Permission) bool {
	if _, wildcard := s[All]; wildcard {
		return true
	}
	_, ok := s[p]
	return ok
}

// List returns the member permissions. Wildcard sets return only [All].
func (s Set) List() []Permission {
	if _, wildcard := s[All]; wildcard {
		return []Permission{All}
	}
	out := make([]Permission, 0, len(s))
	for p := range s {
		out = append(out, p)
	}
	return out
}
