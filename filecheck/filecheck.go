package filecheck

import (
	"bytes"
	"encoding/json"
	"path"
	"strings"
	"unicode/utf8"

	"github.com/halcyon-labs/reqguard/sanitize"
)

// File is an upload candidate: the declared client metadata plus the raw
// payload.
type File struct {
	Name     string
	MIMEType string
	Size     int64
	Content  []byte
}

// Report is the accumulated validation outcome. Errors collects every
// violation (checks never short-circuit) so a caller sees the full picture
// in one pass.
type Report struct {
	Valid         bool
	Errors        []string
	SanitizedName string
	DetectedType  string
}

const (
	signatureSampleSize = 12
	// RIFF-style containers carry the actual format tag at bytes 8-11.
	containerTagOffset = 8
)

// mimeExtensions maps a MIME type to the extensions it may legitimately
// carry. The upload allow-list is expressed in MIME types; extensions are
// derived from this table.
var mimeExtensions = map[string][]string{
	"image/jpeg":      {".jpg", ".jpeg"},
	"image/png":       {".png"},
	"image/gif":       {".gif"},
	"image/webp":      {".webp"},
	"application/pdf": {".pdf"},
	"text/plain":      {".txt"},
	"application/json": {".json"},
	"text/csv":        {".csv"},
}

// signature is a leading-byte pattern. A non-empty tag additionally pins
// the container format tag, since a bare RIFF preamble also matches WAV
// and AVI payloads.
type signature struct {
	prefix []byte
	tag    []byte
}

func (s signature) matches(sample []byte) bool {
	if len(sample) < len(s.prefix) || !bytes.Equal(sample[:len(s.prefix)], s.prefix) {
		return false
	}
	if len(s.tag) == 0 {
		return true
	}
	end := containerTagOffset + len(s.tag)
	return len(sample) >= end && bytes.Equal(sample[containerTagOffset:end], s.tag)
}

// binarySignatures holds the leading-byte signatures for binary formats.
// Text-shaped types (plain text, JSON, CSV) have no stable signature and are
// checked by content shape instead.
var binarySignatures = map[string][]signature{
	"image/jpeg":      {{prefix: []byte{0xFF, 0xD8, 0xFF}}},
	"image/png":       {{prefix: []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}}},
	"image/gif":       {{prefix: []byte("GIF87a")}, {prefix: []byte("GIF89a")}},
	"image/webp":      {{prefix: []byte("RIFF"), tag: []byte("WEBP")}},
	"application/pdf": {{prefix: []byte("%PDF")}},
}

// deniedExtensions are rejected regardless of declared MIME type.
var deniedExtensions = map[string]struct{}{
	".exe": {}, ".bat": {}, ".cmd": {}, ".com": {}, ".pif": {}, ".scr": {},
	".vbs": {}, ".js": {}, ".jar": {}, ".php": {}, ".asp": {}, ".jsp": {},
}

var textShapedTypes = map[string]struct{}{
	"text/plain":       {},
	"application/json": {},
	"text/csv":         {},
}

// Validate runs every structural check against the file and the caller's
// MIME allow-list. All checks are independent and their errors accumulate.
// The advisory content scanner (ScanContent) is applied on top for
// text-decodable payloads; its findings are violations too, combined with,
// never replacing, the structural checks.
func Validate(f File, allowedMIME []string, maxSizeBytes int64) Report {
	report := Report{DetectedType: DetectType(f.Content)}

	report.SanitizedName = sanitize.FileName(f.Name)
	if report.SanitizedName == "" {
		report.Errors = append(report.Errors, "file name is empty after sanitization")
	}
	if strings.Contains(f.Name, "..") || strings.ContainsAny(f.Name, `/\`) {
		report.Errors = append(report.Errors, "file name contains path traversal characters")
	}

	if f.Size <= 0 {
		report.Errors = append(report.Errors, "file is empty")
	} else if f.Size > maxSizeBytes {
		report.Errors = append(report.Errors, "file exceeds the maximum allowed size")
	}

	ext := strings.ToLower(path.Ext(report.SanitizedName))
	if !extensionAllowed(ext, allowedMIME) {
		report.Errors = append(report.Errors, "file extension is not allowed")
	}

	if !mimeAllowed(f.MIMEType, allowedMIME) {
		report.Errors = append(report.Errors, "declared content type is not allowed")
	}

	if msg := checkContentMatchesType(f.MIMEType, f.Content, report.DetectedType); msg != "" {
		report.Errors = append(report.Errors, msg)
	}

	if _, denied := deniedExtensions[ext]; denied {
		report.Errors = append(report.Errors, "executable file types are not allowed")
	}

	if _, textShaped := textShapedTypes[strings.ToLower(f.MIMEType)]; textShaped {
		report.Errors = append(report.Errors, ScanContent(f.Content)...)
	}

	report.Valid = len(report.Errors) == 0
	return report
}

// DetectType matches the leading bytes against the known binary signature
// table. It returns the matched MIME type or "" when no binary signature
// applies (text-shaped or unknown content).
func DetectType(content []byte) string {
	sample := content
	if len(sample) > signatureSampleSize {
		sample = sample[:signatureSampleSize]
	}
	for mime, sigs := range binarySignatures {
		for _, sig := range sigs {
			if sig.matches(sample) {
				return mime
			}
		}
	}
	return ""
}

func extensionAllowed(ext string, allowedMIME []string) bool {
	if ext == "" {
		return false
	}
	for _, mime := range allowedMIME {
		for _, allowed := range mimeExtensions[strings.ToLower(mime)] {
			if ext == allowed {
				return true
			}
		}
	}
	return false
}

func mimeAllowed(mime string, allowedMIME []string) bool {
	mime = strings.ToLower(mime)
	for _, allowed := range allowedMIME {
		if mime == strings.ToLower(allowed) {
			return true
		}
	}
	return false
}

// checkContentMatchesType is the binding defense against extension and
// content-type spoofing: the payload's true shape must agree with the
// declared MIME type.
func checkContentMatchesType(declaredMIME string, content []byte, detected string) string {
	declared := strings.ToLower(declaredMIME)

	if _, hasSignature := binarySignatures[declared]; hasSignature {
		if detected != declared {
			return "file content does not match the declared content type"
		}
		return ""
	}

	if _, textShaped := textShapedTypes[declared]; textShaped {
		// A payload carrying a known binary signature can never be a
		// legitimate text upload.
		if detected != "" {
			return "file content does not match the declared content type"
		}
		if !textShapeValid(declared, content) {
			return "file content does not match the declared content type"
		}
		return ""
	}

	// Unknown declared type with a recognizable binary payload is a
	// mismatch; otherwise there is nothing to bind against.
	if detected != "" {
		return "file content does not match the declared content type"
	}
	return ""
}

func textShapeValid(declared string, content []byte) bool {
	sample := content
	if len(sample) > 4096 {
		sample = sample[:4096]
	}

	switch declared {
	case "application/json":
		return json.Valid(content)
	case "text/csv":
		firstLine, _, _ := bytes.Cut(sample, []byte("\n"))
		return bytes.ContainsRune(firstLine, ',') && noControlBytes(sample)
	default: // text/plain
		return noControlBytes(sample)
	}
}

// noControlBytes rejects samples that fail UTF-8 decoding or contain bytes
// in 0x00-0x08, 0x0E-0x1F, or 0x7F.
func noControlBytes(sample []byte) bool {
	if !utf8.Valid(sample) {
		return false
	}
	for _, b := range sample {
		if b <= 0x08 || (b >= 0x0E && b <= 0x1F) || b == 0x7F {
			return false
		}
	}
	return true
}
