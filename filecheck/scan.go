package filecheck

import "regexp"

// Content scan patterns. These are advisory defense-in-depth over decoded
// text content; the structural signature checks remain the primary defense.
var (
	scriptTagPattern  = regexp.MustCompile(`(?i)<\s*script\b`)
	serverCodePattern = regexp.MustCompile(`(?i)(<\?php|<\?=|<%)`)
	sqlClusterPattern = regexp.MustCompile(`(?i)\b(union\s+select|select\s+.{0,40}\s+from|insert\s+into|drop\s+table|delete\s+from|exec\s*\(|xp_cmdshell)\b`)
	execLinkPattern   = regexp.MustCompile(`(?i)https?://\S+\.(exe|bat|cmd|scr|pif|vbs|jar)\b`)
)

// ScanContent decodes text content and flags embedded script tags,
// server-side code markers, SQL keyword clusters, and links to
// executable-extension URLs. Findings accumulate; an empty slice means the
// scan saw nothing suspicious, not that the file is safe.
func ScanContent(content []byte) []string {
	text := string(content)

	var findings []string
	if scriptTagPattern.MatchString(text) {
		findings = append(findings, "content contains a script tag")
	}
	if serverCodePattern.MatchString(text) {
		findings = append(findings, "content contains server-side code markers")
	}
	if sqlClusterPattern.MatchString(text) {
		findings = append(findings, "content contains SQL keyword clusters")
	}
	if execLinkPattern.MatchString(text) {
		findings = append(findings, "content links to an executable download")
	}
	return findings
}
