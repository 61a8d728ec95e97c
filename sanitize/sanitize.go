package sanitize

import (
	"math"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

const (
	maxTextRunes     = 1000
	maxEmailRunes    = 100
	maxFileNameRunes = 255
)

// richTextPolicy allows a small formatting tag set and nothing else. All
// attributes are dropped; content of disallowed elements is preserved except
// for script/style bodies, which bluemonday removes outright.
var richTextPolicy = func() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements("b", "i", "em", "strong", "p", "br", "ul", "ol", "li")
	return p
}()

var (
	emailAllowed    = regexp.MustCompile(`[^a-z0-9@._-]`)
	scriptScheme    = regexp.MustCompile(`(?i)javascript:`)
	eventHandler    = regexp.MustCompile(`(?i)\bon\w+\s*=`)
	fileNameAllowed = regexp.MustCompile(`[^a-zA-Z0-9._-]`)
	multiDot        = regexp.MustCompile(`\.{2,}`)
	whitespaceRun   = regexp.MustCompile(`\s+`)
	hexColorShape   = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)
)

// Text normalizes a plain-text field: HTML/XML metacharacters and control
// characters are removed, internal whitespace runs collapse to a single
// space, and the result is trimmed and truncated to 1000 runes.
func Text(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch r {
		case '<', '>', '"', '\'', '&':
			continue
		}
		if r < 0x20 && r != '\t' && r != '\n' && r != '\r' {
			continue
		}
		if r == 0x7F {
			continue
		}
		b.WriteRune(r)
	}

	out := scrubActivePatterns(b.String())
	out = whitespaceRun.ReplaceAllString(out, " ")
	out = strings.TrimSpace(out)
	out = truncateRunes(out, maxTextRunes)
	// Truncation can expose a trailing space; trim again so the function
	// stays idempotent.
	return strings.TrimSpace(out)
}

// RichText keeps a minimal formatting allow-list (b, i, em, strong, p, br,
// ul, ol, li), strips every attribute, and drops all other markup while
// preserving the enclosed text.
func RichText(s string) string {
	return richTextPolicy.Sanitize(s)
}

// Email lowercases, trims, removes characters outside [a-z0-9@._-], and
// truncates to 100 runes. RFC-level format checking belongs to the schema
// validator, not here.
func Email(s string) string {
	out := strings.ToLower(strings.TrimSpace(s))
	out = emailAllowed.ReplaceAllString(out, "")
	return truncateRunes(out, maxEmailRunes)
}

// URL returns the trimmed input only when it is an absolute http or https
// URL with a host. Anything else, including scheme-relative URLs and
// javascript:-style payloads, yields the empty string.
func URL(s string) string {
	out := strings.TrimSpace(s)
	if out == "" {
		return ""
	}
	if strings.ContainsAny(out, " \t\n\r<>\"'`") {
		return ""
	}

	u, err := url.Parse(out)
	if err != nil {
		return ""
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return ""
	}
	if u.Host == "" {
		return ""
	}
	return out
}

// FileName reduces a client-supplied name to [a-zA-Z0-9._-], collapses any
// run of dots to a single dot so ".." can never survive, strips leading
// dots, and truncates to 255 runes.
func FileName(s string) string {
	out := fileNameAllowed.ReplaceAllString(s, "")
	out = multiDot.ReplaceAllString(out, ".")
	out = strings.TrimLeft(out, ".")
	return truncateRunes(out, maxFileNameRunes)
}

// HexColor returns the uppercased value for an exact #RRGGBB match and the
// safe default #000000 for everything else.
func HexColor(s string) string {
	if hexColorShape.MatchString(s) {
		return strings.ToUpper(s)
	}
	return "#000000"
}

// Number coerces s to a finite float clamped to [min, max]. Non-numeric
// input yields min.
func Number(s string, min, max float64) float64 {
	n, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return min
	}
	if n < min {
		return min
	}
	if n > max {
		return max
	}
	return n
}

// Bool coerces common truthy string spellings to a boolean. Anything not
// recognized is false.
func Bool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "yes", "on":
		return true
	}
	return false
}

// scrubActivePatterns removes javascript: schemes and inline event-handler
// assignments. Removal loops until stable so split payloads
// ("javajavascript:script:") cannot reassemble, which also keeps Text
// idempotent.
func scrubActivePatterns(s string) string {
	for {
		next := scriptScheme.ReplaceAllString(s, "")
		next = eventHandler.ReplaceAllString(next, "")
		if next == s {
			return s
		}
		s = next
	}
}

func truncateRunes(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
