package identity

import (
	"context"

	"go.uber.org/zap"
)

// LogMailer records outbound mail instead of delivering it, for
// development and tests. Reset tokens are never logged.
type LogMailer struct {
	log *zap.Logger
}

// NewLogMailer wraps log; a nil logger falls back to zap.NewNop.
func NewLogMailer(log *zap.Logger) *LogMailer {
	if log == nil {
		log = zap.NewNop()
	}
	return &LogMailer{log: log}
}

func (m *LogMailer) SendVerification(_ context.Context, email, principalID string) error {
	m.log.Info("verification email queued",
		zap.String("email", email),
		zap.String("principal_id", principalID),
	)
	return nil
}

func (m *LogMailer) SendPasswordReset(_ context.Context, email, _ string) error {
	m.log.Info("password reset email queued",
		zap.String("email", email),
	)
	return nil
}
