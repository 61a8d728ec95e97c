package schema

import "regexp"

// emailShape runs against the sanitized (lowercased, stripped) value, so it
// only needs to pin down the structural shape.
var emailShape = regexp.MustCompile(`^[a-z0-9._-]+@[a-z0-9-]+(?:\.[a-z0-9-]+)+$`)

// Languages supported for the profile language preference.
var supportedLanguages = []string{"en", "de", "fr", "es", "it", "pt", "ru", "ja", "zh"}

// Registration validates a sanitized registration record. Passwords pass
// through unsanitized by design (normalizing a credential would silently
// change it), so only bounds apply here.
func Registration() *Schema {
	return New(
		F("email", Required(), String(), MaxLen(100), Match(emailShape, "must be a valid email address")),
		F("password", Required(), String(), MinLen(8), MaxLen(128)),
		F("displayName", Required(), String(), MinLen(1), MaxLen(100)),
		F("language", String(), OneOf(supportedLanguages...)),
	)
}

// Login validates a sanitized login record.
func Login() *Schema {
	return New(
		F("email", Required(), String(), MaxLen(100), Match(emailShape, "must be a valid email address")),
		F("password", Required(), String(), MinLen(1), MaxLen(128)),
	)
}

// PasswordReset validates a reset-request record. Only the email shape
// matters; whether the address exists is never surfaced.
func PasswordReset() *Schema {
	return New(
		F("email", Required(), String(), MaxLen(100), Match(emailShape, "must be a valid email address")),
	)
}

// PasswordChange validates a password-change record. The current credential
// is re-proven by the engine; this only shapes the inputs.
func PasswordChange() *Schema {
	return New(
		F("currentPassword", Required(), String(), MinLen(1), MaxLen(128)),
		F("newPassword", Required(), String(), MinLen(8), MaxLen(128)),
	)
}

// ProfileUpdate validates a sanitized profile-update record. All fields are
// optional; present ones must be well-formed.
func ProfileUpdate() *Schema {
	return New(
		F("displayName", String(), MinLen(1), MaxLen(100)),
		F("language", String(), OneOf(supportedLanguages...)),
		F("website", String(), MaxLen(500)),
		F("accentColor", String(), Match(regexp.MustCompile(`^#[0-9A-F]{6}$`), "must be a hex color")),
	)
}

// UploadMeta validates sanitized file-upload metadata before the binary
// content ever reaches the filecheck engine.
func UploadMeta(maxSizeBytes int64) *Schema {
	return New(
		F("fileName", Required(), String(), MinLen(1), MaxLen(255)),
		F("mimeType", Required(), String(), MaxLen(100)),
		F("size", Required(), Range(1, float64(maxSizeBytes))),
	)
}

// SearchFilter validates sanitized search/listing parameters.
func SearchFilter() *Schema {
	return New(
		F("query", String(), MaxLen(200)),
		F("page", Range(1, 10000)),
		F("pageSize", Range(1, 100)),
		F("sort", String(), OneOf("createdAt", "updatedAt", "name", "relevance")),
	)
}
