package schema

import (
	"fmt"
	"regexp"
)

// FieldError is one field-level validation failure.
type FieldError struct {
	Field   string
	Message string
}

func (e FieldError) Error() string {
	return e.Field + ": " + e.Message
}

// Result is the discriminated outcome of a schema run. Valid carries the
// record that was checked; invalid carries the ordered error list. Expected
// validation failures are values, never panics or error returns.
type Result struct {
	Valid  bool
	Errors []FieldError
	Record map[string]any
}

// ErrorMessages flattens the field errors into an ordered string list for
// transport boundaries that only speak strings.
func (r Result) ErrorMessages() []string {
	msgs := make([]string, 0, len(r.Errors))
	for _, fe := range r.Errors {
		msgs = append(msgs, fe.Error())
	}
	return msgs
}

// Rule checks a single field value. present reports whether the key existed
// in the record at all. A rule returns "" on success or a human-readable
// message on failure.
type Rule func(value any, present bool) string

// FieldSpec binds an ordered rule list to a field name.
type FieldSpec struct {
	Name  string
	Rules []Rule
}

// F declares a field with its rules.
func F(name string, rules ...Rule) FieldSpec {
	return FieldSpec{Name: name, Rules: rules}
}

// Schema is an ordered, immutable composition of field specs. Fields are
// validated independently: the first failing rule per field is reported, and
// every failing field is reported, so one round trip surfaces the complete
// error list. Cross-field rules are deliberately out of scope; callers
// compose them on top.
type Schema struct {
	fields []FieldSpec
}

// New builds a schema from the given field specs. The declaration order is
// the reporting order.
func New(fields ...FieldSpec) *Schema {
	return &Schema{fields: fields}
}

// Validate runs every field's rules against an already-sanitized record.
func (s *Schema) Validate(record map[string]any) Result {
	var errs []FieldError
	for _, field := range s.fields {
		value, present := record[field.Name]
		for _, rule := range field.Rules {
			if msg := rule(value, present); msg != "" {
				errs = append(errs, FieldError{Field: field.Name, Message: msg})
				break
			}
		}
	}

	if len(errs) > 0 {
		return Result{Valid: false, Errors: errs, Record: record}
	}
	return Result{Valid: true, Record: record}
}

// Required fails when the field is absent or an empty string.
func Required() Rule {
	return func(value any, present bool) string {
		if !present {
			return "is required"
		}
		if s, ok := value.(string); ok && s == "" {
			return "is required"
		}
		return ""
	}
}

// String fails when a present value is not a string. Absent values pass so
// optional fields compose as String() without Required().
func String() Rule {
	return func(value any, present bool) string {
		if !present {
			return ""
		}
		if _, ok := value.(string); !ok {
			return "must be a string"
		}
		return ""
	}
}

// MinLen fails when a present string is shorter than n runes. Length checks
// run on the sanitized value, so messages describe post-sanitization state.
func MinLen(n int) Rule {
	return func(value any, present bool) string {
		s, ok := stringValue(value, present)
		if !ok {
			return ""
		}
		if len([]rune(s)) < n {
			return fmt.Sprintf("must be at least %d characters", n)
		}
		return ""
	}
}

// MaxLen fails when a present string exceeds n runes.
func MaxLen(n int) Rule {
	return func(value any, present bool) string {
		s, ok := stringValue(value, present)
		if !ok {
			return ""
		}
		if len([]rune(s)) > n {
			return fmt.Sprintf("must be at most %d characters", n)
		}
		return ""
	}
}

// Match fails when a present string does not match re. msg is the reported
// message, so callers never leak regexp syntax to clients.
func Match(re *regexp.Regexp, msg string) Rule {
	return func(value any, present bool) string {
		s, ok := stringValue(value, present)
		if !ok {
			return ""
		}
		if !re.MatchString(s) {
			return msg
		}
		return ""
	}
}

// OneOf fails when a present string is not a member of the allowed set.
func OneOf(allowed ...string) Rule {
	set := make(map[string]struct{}, len(allowed))
	for _, a := range allowed {
		set[a] = struct{}{}
	}
	return func(value any, present bool) string {
		s, ok := stringValue(value, present)
		if !ok {
			return ""
		}
		if _, member := set[s]; !member {
			return "is not an allowed value"
		}
		return ""
	}
}

// Range fails when a present numeric value falls outside [min, max]. Bounds
// are inclusive.
func Range(min, max float64) Rule {
	return func(value any, present bool) string {
		if !present {
			return ""
		}
		n, ok := numericValue(value)
		if !ok {
			return "must be a number"
		}
		if n < min || n > max {
			return fmt.Sprintf("must be between %g and %g", min, max)
		}
		return ""
	}
}

// Bool fails when a present value is not a boolean.
func Bool() Rule {
	return func(value any, present bool) string {
		if !present {
			return ""
		}
		if _, ok := value.(bool); !ok {
			return "must be a boolean"
		}
		return ""
	}
}

func stringValue(value any, present bool) (string, bool) {
	if !present {
		return "", false
	}
	s, ok := value.(string)
	return s, ok
}

func numericValue(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	}
	return 0, false
}
