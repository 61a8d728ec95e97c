// Package permission models role-based authorization as typed capability
// sets with a distinguished wildcard.
//
// # Model
//
// A [Permission] is a typed string; a role owns a [Set]; [All] is the
// wildcard held by super_admin and is checked before set membership, so the
// type system — not a runtime string compare — distinguishes "everything"
// from "this list". The role→set mapping is static configuration: the
// [Registry] freezes at process start and is read-only afterwards.
//
// # What this package must NOT do
//
//   - Mutate role definitions after Freeze.
//   - Resolve who holds a role — sessions and the engine own identity.
package permission
