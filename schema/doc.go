// Package schema provides declarative, composable record validators that run
// after sanitization and report structured field errors.
//
// # Contract
//
// A [Schema] is an ordered list of field specs; each spec is an ordered list
// of [Rule] values. Validation reports the first failing rule per field and
// every failing field, never fail-fast across fields, so a caller can show a
// complete error list in one round trip. Numeric bounds are inclusive.
//
// # Architecture boundaries
//
// Inputs are expected to be pre-sanitized (see the sanitize package); length
// and shape messages therefore describe post-sanitization state. Cross-field
// rules (password confirmation and the like) are composed by callers.
//
// # What this package must NOT do
//
//   - Mutate or re-sanitize the record.
//   - Panic or return Go errors for expected validation failures.
//   - Import any other reqguard package.
package schema
