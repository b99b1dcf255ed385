package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/qr-attendance/internal/domain/credential"
	"github.com/cmlabs-hris/qr-attendance/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type personalCredentialRepository struct {
	db *database.DB
}

func NewPersonalCredentialRepository(db *database.DB) credential.PersonalCredentialRepository {
	return &personalCredentialRepository{db: db}
}

// Create implements credential.PersonalCredentialRepository.
func (p *personalCredentialRepository) Create(ctx context.Context, c credential.PersonalCredential) (credential.PersonalCredential, error) {
	q := GetQuerier(ctx, p.db)

	if c.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return credential.PersonalCredential{}, fmt.Errorf("failed to generate credential id: %w", err)
		}
		c.ID = id.String()
	}

	query := `
		INSERT INTO personal_credentials (id, employee_id, token, expires_at)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`

	if err := q.QueryRow(ctx, query, c.ID, c.EmployeeID, c.Token, c.ExpiresAt).Scan(&c.CreatedAt); err != nil {
		return credential.PersonalCredential{}, fmt.Errorf("failed to create personal credential: %w", err)
	}

	return c, nil
}

type sharedCredentialRepository struct {
	db  *database.DB
	loc *time.Location
}

func NewSharedCredentialRepository(db *database.DB, loc *time.Location) credential.SharedCredentialRepository {
	return &sharedCredentialRepository{db: db, loc: loc}
}

const sharedCredentialColumns = `id, qr_type, token, valid_from, valid_to, is_active, created_at`

func (s *sharedCredentialRepository) scan(row pgx.Row) (credential.SharedCredential, error) {
	var c credential.SharedCredential
	if err := row.Scan(&c.ID, &c.Type, &c.Token, &c.ValidFrom, &c.ValidTo, &c.IsActive, &c.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return credential.SharedCredential{}, credential.ErrCredentialNotFound
		}
		return credential.SharedCredential{}, fmt.Errorf("failed to scan shared credential: %w", err)
	}
	c.ValidFrom = c.ValidFrom.In(s.loc)
	c.ValidTo = c.ValidTo.In(s.loc)
	return c, nil
}

// Rotate implements credential.SharedCredentialRepository.
// The advisory lock serialises concurrent rotations of one type; the partial
// unique index on active rows backs it up.
func (s *sharedCredentialRepository) Rotate(ctx context.Context, c credential.SharedCredential) (credential.SharedCredential, error) {
	if c.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return credential.SharedCredential{}, fmt.Errorf("failed to generate credential id: %w", err)
		}
		c.ID = id.String()
	}
	c.IsActive = true

	err := NewTransactor(s.db).WithinTransaction(ctx, func(ctx context.Context) error {
		q := GetQuerier(ctx, s.db)

		if _, err := q.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext('shared_credentials:' || $1))`, string(c.Type)); err != nil {
			return fmt.Errorf("failed to lock shared credential type: %w", err)
		}

		if _, err := q.Exec(ctx, `UPDATE shared_credentials SET is_active = FALSE WHERE qr_type = $1 AND is_active`, string(c.Type)); err != nil {
			return fmt.Errorf("failed to deactivate shared credentials: %w", err)
		}

		query := `
			INSERT INTO shared_credentials (id, qr_type, token, valid_from, valid_to, is_active)
			VALUES ($1, $2, $3, $4, $5, TRUE)
			RETURNING created_at
		`
		if err := q.QueryRow(ctx, query, c.ID, string(c.Type), c.Token, c.ValidFrom, c.ValidTo).Scan(&c.CreatedAt); err != nil {
			return fmt.Errorf("failed to create shared credential: %w", err)
		}
		return nil
	})
	if err != nil {
		return credential.SharedCredential{}, err
	}

	return c, nil
}

// GetByToken implements credential.SharedCredentialRepository.
func (s *sharedCredentialRepository) GetByToken(ctx context.Context, token string) (credential.SharedCredential, error) {
	q := GetQuerier(ctx, s.db)
	query := `SELECT ` + sharedCredentialColumns + ` FROM shared_credentials WHERE token = $1`
	return s.scan(q.QueryRow(ctx, query, token))
}

// GetActive implements credential.SharedCredentialRepository.
func (s *sharedCredentialRepository) GetActive(ctx context.Context, t credential.SharedType) (credential.SharedCredential, error) {
	q := GetQuerier(ctx, s.db)
	query := `SELECT ` + sharedCredentialColumns + ` FROM shared_credentials WHERE qr_type = $1 AND is_active`
	return s.scan(q.QueryRow(ctx, query, string(t)))
}
