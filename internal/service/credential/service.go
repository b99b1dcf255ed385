package credential

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/qr-attendance/internal/domain/credential"
	"github.com/cmlabs-hris/qr-attendance/internal/domain/employee"
	"github.com/cmlabs-hris/qr-attendance/internal/pkg/qrcode"
	"github.com/cmlabs-hris/qr-attendance/internal/pkg/qrtoken"
)

type CredentialServiceImpl struct {
	credential.PersonalCredentialRepository
	credential.SharedCredentialRepository
	employee.EmployeeRepository
	codec *qrtoken.Codec
	now   func() time.Time
}

func (c *CredentialServiceImpl) clock() time.Time {
	return c.now().In(c.codec.Location())
}

// IssuePersonal implements credential.CredentialService.
func (c *CredentialServiceImpl) IssuePersonal(ctx context.Context, employeeID string) (credential.PersonalCredentialResponse, error) {
	if _, err := employee.GetActive(ctx, c.EmployeeRepository, employeeID); err != nil {
		return credential.PersonalCredentialResponse{}, err
	}

	issued, err := c.codec.IssuePersonal(employeeID, c.clock())
	if err != nil {
		return credential.PersonalCredentialResponse{}, fmt.Errorf("failed to issue personal credential: %w", err)
	}

	stored, err := c.PersonalCredentialRepository.Create(ctx, credential.PersonalCredential{
		EmployeeID: employeeID,
		Token:      issued.Token,
		ExpiresAt:  issued.ExpiresAt,
	})
	if err != nil {
		return credential.PersonalCredentialResponse{}, fmt.Errorf("failed to store personal credential: %w", err)
	}

	image, err := qrcode.EncodePNGBase64(stored.Token)
	if err != nil {
		return credential.PersonalCredentialResponse{}, err
	}

	return credential.PersonalCredentialResponse{
		EmployeeID:  stored.EmployeeID,
		Token:       stored.Token,
		ExpiresAt:   stored.ExpiresAt.Format(time.RFC3339),
		QRCodeImage: image,
	}, nil
}

// VerifyPersonal implements credential.CredentialService.
func (c *CredentialServiceImpl) VerifyPersonal(token string, employeeID string, now time.Time) bool {
	return c.codec.VerifyPersonal(token, employeeID, now)
}

// IssueShared implements credential.CredentialService.
func (c *CredentialServiceImpl) IssueShared(ctx context.Context, t credential.SharedType) (credential.SharedCredentialResponse, error) {
	if !t.IsValid() {
		return credential.SharedCredentialResponse{}, credential.ErrInvalidSharedType
	}

	now := c.clock()
	validTo := t.ValidUntil(now)
	if now.After(validTo) {
		// The credential is stored and rotated in anyway but never verifies.
		slog.Warn("Shared credential issued after its cutoff", "qr_type", t, "valid_to", validTo)
	}

	issued, err := c.codec.IssueShared(string(t), now, validTo)
	if err != nil {
		return credential.SharedCredentialResponse{}, fmt.Errorf("failed to issue shared credential: %w", err)
	}

	rotated, err := c.SharedCredentialRepository.Rotate(ctx, credential.SharedCredential{
		Type:      t,
		Token:     issued.Token,
		ValidFrom: issued.ValidFrom,
		ValidTo:   issued.ValidTo,
	})
	if err != nil {
		return credential.SharedCredentialResponse{}, fmt.Errorf("failed to rotate shared credential: %w", err)
	}
	slog.Info("Rotated shared credential", "qr_type", t, "credential_id", rotated.ID)

	image, err := qrcode.EncodePNGBase64(rotated.Token)
	if err != nil {
		return credential.SharedCredentialResponse{}, err
	}

	return credential.SharedCredentialResponse{
		QRType:      rotated.Type,
		Token:       rotated.Token,
		ValidFrom:   rotated.ValidFrom.Format(time.RFC3339),
		ValidTo:     rotated.ValidTo.Format(time.RFC3339),
		QRCodeImage: image,
	}, nil
}

// VerifyShared implements credential.CredentialService.
// A token passes only while it is the active credential of its type. Storage
// failures count as invalid.
func (c *CredentialServiceImpl) VerifyShared(ctx context.Context, token string, t credential.SharedType, now time.Time) bool {
	if !c.codec.VerifyShared(token, string(t), now) {
		return false
	}

	stored, err := c.SharedCredentialRepository.GetByToken(ctx, token)
	if err != nil {
		if !errors.Is(err, credential.ErrCredentialNotFound) {
			slog.Warn("Failed to look up shared credential", "qr_type", t, "error", err)
		}
		return false
	}

	return stored.IsActive && stored.Type == t
}

// EnsureShared implements credential.CredentialService.
func (c *CredentialServiceImpl) EnsureShared(ctx context.Context, t credential.SharedType) (bool, error) {
	if !t.IsValid() {
		return false, credential.ErrInvalidSharedType
	}

	now := c.clock()
	if !now.Before(t.ValidUntil(now)) {
		return false, nil
	}

	active, err := c.SharedCredentialRepository.GetActive(ctx, t)
	switch {
	case errors.Is(err, credential.ErrCredentialNotFound):
	case err != nil:
		return false, fmt.Errorf("failed to get active shared credential: %w", err)
	case now.Before(active.ValidTo):
		return false, nil
	}

	if _, err := c.IssueShared(ctx, t); err != nil {
		return false, err
	}
	return true, nil
}

// NewCredentialService wires the issuer. now defaults to time.Now.
func NewCredentialService(
	personalRepo credential.PersonalCredentialRepository,
	sharedRepo credential.SharedCredentialRepository,
	employeeRepo employee.EmployeeRepository,
	codec *qrtoken.Codec,
	now func() time.Time,
) credential.CredentialService {
	if now == nil {
		now = time.Now
	}
	return &CredentialServiceImpl{
		PersonalCredentialRepository: personalRepo,
		SharedCredentialRepository:   sharedRepo,
		EmployeeRepository:           employeeRepo,
		codec:                        codec,
		now:                          now,
	}
}
