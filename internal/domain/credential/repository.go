package credential

import "context"

type PersonalCredentialRepository interface {
	// Create stores an issued personal credential for history
	Create(ctx context.Context, c PersonalCredential) (PersonalCredential, error)
}

type SharedCredentialRepository interface {
	// Rotate deactivates every active credential of c.Type and stores c as the
	// only active one. Both steps happen atomically.
	Rotate(ctx context.Context, c SharedCredential) (SharedCredential, error)

	// GetByToken returns ErrCredentialNotFound when no row carries token
	GetByToken(ctx context.Context, token string) (SharedCredential, error)

	// GetActive returns ErrCredentialNotFound when no credential of t is active
	GetActive(ctx context.Context, t SharedType) (SharedCredential, error)
}
