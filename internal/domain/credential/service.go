package credential

import (
	"context"
	"time"
)

// CredentialService issues and checks time-bounded check-in tokens.
// Verification never errors and never writes.
type CredentialService interface {
	IssuePersonal(ctx context.Context, employeeID string) (PersonalCredentialResponse, error)
	VerifyPersonal(token string, employeeID string, now time.Time) bool

	IssueShared(ctx context.Context, t SharedType) (SharedCredentialResponse, error)
	VerifyShared(ctx context.Context, token string, t SharedType, now time.Time) bool

	// EnsureShared issues a credential of t when none is active for the rest
	// of today's window. It reports whether a rotation happened.
	EnsureShared(ctx context.Context, t SharedType) (bool, error)
}
