package filecheck

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

var (
	pngContent  = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A, 0x00, 0x00}
	jpegContent = []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 0x4A, 0x46}
	pdfContent  = []byte("%PDF-1.7 fake body")
)

func imageAllowList() []string {
	return []string{"image/jpeg", "image/png"}
}

func TestValidPNGPasses(t *testing.T) {
	report := Validate(File{
		Name:     "avatar.png",
		MIMEType: "image/png",
		Size:     int64(len(pngContent)),
		Content:  pngContent,
	}, imageAllowList(), 1<<20)

	require.True(t, report.Valid, "errors: %v", report.Errors)
	require.Equal(t, "image/png", report.DetectedType)
	require.Equal(t, "avatar.png", report.SanitizedName)
}

func TestSignatureCrossCheckRejectsSpoof(t *testing.T) {
	// Declared JPEG with .jpg extension, but the payload is a PDF.
	report := Validate(File{
		Name:     "photo.jpg",
		MIMEType: "image/jpeg",
		Size:     int64(len(pdfContent)),
		Content:  pdfContent,
	}, imageAllowList(), 1<<20)

	require.False(t, report.Valid)
	require.Equal(t, "application/pdf", report.DetectedType)
	require.Contains(t, report.Errors, "file content does not match the declared content type")
}

func TestRIFFContainerTagDisambiguates(t *testing.T) {
	webpContent := append([]byte("RIFF"), 0x24, 0x00, 0x00, 0x00, 'W', 'E', 'B', 'P', 'V', 'P', '8', ' ')
	wavContent := append([]byte("RIFF"), 0x24, 0x00, 0x00, 0x00, 'W', 'A', 'V', 'E', 'f', 'm', 't', ' ')
	allowed := []string{"image/webp"}

	require.Equal(t, "image/webp", DetectType(webpContent))
	require.Equal(t, "", DetectType(wavContent))

	ok := Validate(File{
		Name:     "pic.webp",
		MIMEType: "image/webp",
		Size:     int64(len(webpContent)),
		Content:  webpContent,
	}, allowed, 1<<20)
	require.True(t, ok.Valid, "errors: %v", ok.Errors)

	// A WAV payload shares the RIFF preamble but must not pass as WebP.
	spoof := Validate(File{
		Name:     "pic.webp",
		MIMEType: "image/webp",
		Size:     int64(len(wavContent)),
		Content:  wavContent,
	}, allowed, 1<<20)
	require.False(t, spoof.Valid)
	require.Contains(t, spoof.Errors, "file content does not match the declared content type")
}

func TestTraversalNameRejected(t *testing.T) {
	report := Validate(File{
		Name:     "../../etc/passwd.png",
		MIMEType: "image/png",
		Size:     int64(len(pngContent)),
		Content:  pngContent,
	}, imageAllowList(), 1<<20)

	require.False(t, report.Valid)
	require.Contains(t, report.Errors, "file name contains path traversal characters")
	require.NotContains(t, report.SanitizedName, "/")
	require.NotContains(t, report.SanitizedName, "..")
}

func TestErrorsAccumulate(t *testing.T) {
	report := Validate(File{
		Name:     "evil.exe",
		MIMEType: "application/x-msdownload",
		Size:     0,
		Content:  nil,
	}, imageAllowList(), 1<<20)

	require.False(t, report.Valid)
	// Empty file, bad extension, disallowed MIME, and deny-list all report.
	require.Contains(t, report.Errors, "file is empty")
	require.Contains(t, report.Errors, "file extension is not allowed")
	require.Contains(t, report.Errors, "declared content type is not allowed")
	require.Contains(t, report.Errors, "executable file types are not allowed")
}

func TestSizeBounds(t *testing.T) {
	big := Validate(File{
		Name:     "big.jpg",
		MIMEType: "image/jpeg",
		Size:     2048,
		Content:  jpegContent,
	}, imageAllowList(), 1024)
	require.Contains(t, big.Errors, "file exceeds the maximum allowed size")

	exact := Validate(File{
		Name:     "fits.jpg",
		MIMEType: "image/jpeg",
		Size:     1024,
		Content:  jpegContent,
	}, imageAllowList(), 1024)
	require.True(t, exact.Valid, "errors: %v", exact.Errors)
}

func TestTextShapes(t *testing.T) {
	allowed := []string{"application/json", "text/csv", "text/plain"}

	jsonOK := Validate(File{Name: "data.json", MIMEType: "application/json", Size: 2, Content: []byte(`{}`)}, allowed, 1024)
	require.True(t, jsonOK.Valid, "errors: %v", jsonOK.Errors)

	jsonBad := Validate(File{Name: "data.json", MIMEType: "application/json", Size: 9, Content: []byte(`not json!`)}, allowed, 1024)
	require.Contains(t, jsonBad.Errors, "file content does not match the declared content type")

	csvOK := Validate(File{Name: "rows.csv", MIMEType: "text/csv", Size: 12, Content: []byte("a,b,c\n1,2,3\n")}, allowed, 1024)
	require.True(t, csvOK.Valid, "errors: %v", csvOK.Errors)

	csvBad := Validate(File{Name: "rows.csv", MIMEType: "text/csv", Size: 8, Content: []byte("nocommas")}, allowed, 1024)
	require.False(t, csvBad.Valid)

	binAsText := Validate(File{Name: "note.txt", MIMEType: "text/plain", Size: int64(len(pngContent)), Content: pngContent}, allowed, 1024)
	require.Contains(t, binAsText.Errors, "file content does not match the declared content type")

	controlBytes := Validate(File{Name: "note.txt", MIMEType: "text/plain", Size: 4, Content: []byte{'h', 'i', 0x01, 0x02}}, allowed, 1024)
	require.False(t, controlBytes.Valid)
}

func TestScanContent(t *testing.T) {
	require.Empty(t, ScanContent([]byte("a perfectly ordinary note about kittens")))

	findings := ScanContent([]byte(`hello <script>alert(1)</script> world`))
	require.Contains(t, findings, "content contains a script tag")

	findings = ScanContent([]byte(`<?php system($_GET['c']); ?>`))
	require.Contains(t, findings, "content contains server-side code markers")

	findings = ScanContent([]byte(`' UNION SELECT password FROM users --`))
	require.Contains(t, findings, "content contains SQL keyword clusters")

	findings = ScanContent([]byte(`download from http://evil.example/payload.exe now`))
	require.Contains(t, findings, "content links to an executable download")
}

func TestScanRunsForTextUploads(t *testing.T) {
	allowed := []string{"text/plain"}
	report := Validate(File{
		Name:     "note.txt",
		MIMEType: "text/plain",
		Size:     30,
		Content:  []byte("see <script>steal()</script>"),
	}, allowed, 1024)

	require.False(t, report.Valid)
	require.Contains(t, report.Errors, "content contains a script tag")
}

func TestStorageName(t *testing.T) {
	shape := regexp.MustCompile(`^[a-z0-9-]{1,8}_[A-Za-z0-9._-]+_\d+_[0-9a-f]{8}\.png$`)

	name := StorageName("user-12345678", "../../my photo.png")
	require.Regexp(t, shape, name)
	require.NotContains(t, name, "/")
	require.True(t, strings.HasPrefix(name, "user-123"[:8]))

	// Two calls never collide even for identical inputs.
	require.NotEqual(t, StorageName("u", "a.png"), StorageName("u", "a.png"))

	anon := StorageName("", "x.pdf")
	require.True(t, strings.HasPrefix(anon, "anon_"))
}
