package sanitize

import "fmt"

// Kind selects which sanitizer applies to a declared object field.
type Kind uint8

const (
	KindText Kind = iota
	KindRichText
	KindEmail
	KindURL
	KindFileName
	KindHexColor
	KindNumber
	KindBool
)

// Field declares the semantic type of one object field. Min/Max are only
// consulted for KindNumber.
type Field struct {
	Kind Kind
	Min  float64
	Max  float64
}

// NumberField is shorthand for a KindNumber declaration with bounds.
func NumberField(min, max float64) Field {
	return Field{Kind: KindNumber, Min: min, Max: max}
}

// Object applies the per-type sanitizers to a structured input and returns a
// new map containing only the declared keys. This is the single choke point
// for structured input: undeclared keys never cross into schema validation
// or business logic.
func Object(obj map[string]any, fields map[string]Field) map[string]any {
	out := make(map[string]any, len(fields))
	for key, field := range fields {
		raw, ok := obj[key]
		if !ok {
			continue
		}

		switch field.Kind {
		case KindText:
			out[key] = Text(stringify(raw))
		case KindRichText:
			out[key] = RichText(stringify(raw))
		case KindEmail:
			out[key] = Email(stringify(raw))
		case KindURL:
			out[key] = URL(stringify(raw))
		case KindFileName:
			out[key] = FileName(stringify(raw))
		case KindHexColor:
			out[key] = HexColor(stringify(raw))
		case KindNumber:
			switch v := raw.(type) {
			case float64:
				out[key] = Number(fmt.Sprintf("%g", v), field.Min, field.Max)
			case int:
				out[key] = Number(fmt.Sprintf("%d", v), field.Min, field.Max)
			default:
				out[key] = Number(stringify(raw), field.Min, field.Max)
			}
		case KindBool:
			if v, ok := raw.(bool); ok {
				out[key] = v
			} else {
				out[key] = Bool(stringify(raw))
			}
		}
	}
	return out
}

func stringify(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}
