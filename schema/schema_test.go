package schema

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidateReportsAllFailingFields(t *testing.T) {
	s := New(
		F("email", Required(), Match(regexp.MustCompile(`@`), "must contain @")),
		F("name", Required(), MaxLen(5)),
		F("age", Range(0, 120)),
	)

	res := s.Validate(map[string]any{
		"email": "not-an-email",
		"name":  "much too long",
		"age":   200.0,
	})

	require.False(t, res.Valid)
	require.Len(t, res.Errors, 3)
	// Declaration order, not map order.
	require.Equal(t, "email", res.Errors[0].Field)
	require.Equal(t, "name", res.Errors[1].Field)
	require.Equal(t, "age", res.Errors[2].Field)
}

func TestValidateFirstFailingRulePerField(t *testing.T) {
	s := New(F("name", Required(), MinLen(3), MaxLen(5)))

	res := s.Validate(map[string]any{"name": ""})
	require.Len(t, res.Errors, 1)
	require.Equal(t, "is required", res.Errors[0].Message)

	res = s.Validate(map[string]any{"name": "ab"})
	require.Len(t, res.Errors, 1)
	require.Equal(t, "must be at least 3 characters", res.Errors[0].Message)
}

func TestOptionalFieldsPassWhenAbsent(t *testing.T) {
	s := New(
		F("required", Required()),
		F("optional", String(), MaxLen(5), OneOf("a", "b")),
	)

	res := s.Validate(map[string]any{"required": "x"})
	require.True(t, res.Valid)
	require.Empty(t, res.Errors)
}

func TestRangeInclusiveBounds(t *testing.T) {
	s := New(F("n", Range(1, 10)))

	require.True(t, s.Validate(map[string]any{"n": 1.0}).Valid)
	require.True(t, s.Validate(map[string]any{"n": 10}).Valid)
	require.False(t, s.Validate(map[string]any{"n": 0.99}).Valid)
	require.False(t, s.Validate(map[string]any{"n": 11}).Valid)
	require.False(t, s.Validate(map[string]any{"n": "ten"}).Valid)
}

func TestRegistrationSchema(t *testing.T) {
	res := Registration().Validate(map[string]any{
		"email":       "alice@example.com",
		"password":    "Sup3r$ecret",
		"displayName": "Alice",
		"language":    "en",
	})
	require.True(t, res.Valid, "errors: %v", res.ErrorMessages())

	res = Registration().Validate(map[string]any{
		"email":       "no-at-sign",
		"password":    "short",
		"displayName": "",
	})
	require.False(t, res.Valid)
	require.Len(t, res.Errors, 3)
	require.Equal(t, []string{
		"email: must be a valid email address",
		"password: must be at least 8 characters",
		"displayName: is required",
	}, res.ErrorMessages())
}

func TestLoginSchema(t *testing.T) {
	require.True(t, Login().Validate(map[string]any{
		"email":    "bob@example.com",
		"password": "whatever",
	}).Valid)

	res := Login().Validate(map[string]any{"email": "bob@example.com"})
	require.False(t, res.Valid)
	require.Equal(t, "password", res.Errors[0].Field)
}

func TestUploadMetaSchema(t *testing.T) {
	s := UploadMeta(1 << 20)

	require.True(t, s.Validate(map[string]any{
		"fileName": "report.pdf",
		"mimeType": "application/pdf",
		"size":     1024,
	}).Valid)

	res := s.Validate(map[string]any{
		"fileName": "",
		"mimeType": "application/pdf",
		"size":     0,
	})
	require.False(t, res.Valid)
	require.Len(t, res.Errors, 2)
}

func TestSearchFilterSchema(t *testing.T) {
	require.True(t, SearchFilter().Validate(map[string]any{}).Valid)

	res := SearchFilter().Validate(map[string]any{
		"query":    "widgets",
		"page":     0,
		"sort":     "price",
		"pageSize": 50,
	})
	require.False(t, res.Valid)
	require.Len(t, res.Errors, 2)
}
