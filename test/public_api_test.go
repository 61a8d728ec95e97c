package test

import (
	"context"
	"net/http"
	"testing"

	reqguard "github.com/halcyon-labs/reqguard"
	"github.com/halcyon-labs/reqguard/filecheck"
	"github.com/halcyon-labs/reqguard/middleware"
	"github.com/halcyon-labs/reqguard/session"
)

// This test intentionally guards public API compile-compat for consumers.
func TestPublicAPISurfaceCompile(t *testing.T) {
	_ = reqguard.New

	var _ *reqguard.Engine
	var _ reqguard.Config
	var _ reqguard.RegisterInput
	var _ reqguard.LoginResult
	var _ reqguard.UserProfile
	var _ reqguard.RateClass
	var _ *reqguard.ValidationError

	var _ error = reqguard.ErrInvalidInput
	var _ error = reqguard.ErrInvalidCredentials
	var _ error = reqguard.ErrAccountLocked
	var _ error = reqguard.ErrAccountDisabled
	var _ error = reqguard.ErrDuplicateEmail
	var _ error = reqguard.ErrUnauthorized
	var _ error = reqguard.ErrPermissionDenied
	var _ error = reqguard.ErrRateLimited
	var _ error = reqguard.ErrSecurityViolation

	var _ func(*reqguard.Engine) middleware.Middleware = middleware.Guard
	var _ func(*reqguard.Engine, reqguard.RateClass) middleware.Middleware = middleware.RateLimit
	var _ func(*reqguard.Engine) middleware.Middleware = middleware.CSRF
	var _ func(http.Handler, ...middleware.Middleware) http.Handler = middleware.Chain

	var _ func(*reqguard.Engine, context.Context, reqguard.RegisterInput) (*reqguard.UserProfile, error) = (*reqguard.Engine).Register
	var _ func(*reqguard.Engine, context.Context, string, string) (*reqguard.LoginResult, error) = (*reqguard.Engine).Login
	var _ func(*reqguard.Engine, context.Context, string) (*session.Principal, error) = (*reqguard.Engine).ValidateSession
	var _ func(*reqguard.Engine, context.Context, string) error = (*reqguard.Engine).Logout
	var _ func(*reqguard.Engine, context.Context, string, filecheck.File) (filecheck.Report, error) = (*reqguard.Engine).CheckUpload
}
