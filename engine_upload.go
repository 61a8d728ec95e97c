package reqguard

import (
	"context"

	"github.com/halcyon-labs/reqguard/filecheck"
	"github.com/halcyon-labs/reqguard/internal/audit"
	"github.com/halcyon-labs/reqguard/metrics"
)

// CheckUpload validates a file upload against the configured size and
// MIME allow-list: metadata shape first, then signature, extension,
// and content checks. The returned report carries every violation and
// the sanitized storage-safe name.
func (e *Engine) CheckUpload(ctx context.Context, userID string, f filecheck.File) (filecheck.Report, error) {
	report := filecheck.Validate(f, e.config.Upload.AllowedMIMETypes, e.config.Upload.MaxSizeBytes)
	if !report.Valid {
		e.metrics.Inc(metrics.FileRejected)
		e.metrics.Inc(metrics.SecurityViolation)
		e.emit(ctx, audit.Event{
			EventType: audit.TypeFileRejected,
			UserID:    userID,
			Success:   false,
			Metadata: map[string]any{
				"file_name":  report.SanitizedName,
				"mime_type":  f.MIMEType,
				"violations": report.Errors,
			},
		})
		return report, ErrInvalidInput
	}

	e.metrics.Inc(metrics.FileAccepted)
	return report, nil
}
