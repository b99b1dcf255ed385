package memory

import (
	"context"
	"time"

	"github.com/cmlabs-hris/qr-attendance/internal/domain/credential"
	"github.com/google/uuid"
)

type personalCredentialRepository struct {
	store *Store
}

func NewPersonalCredentialRepository(s *Store) credential.PersonalCredentialRepository {
	return &personalCredentialRepository{store: s}
}

func (p *personalCredentialRepository) Create(ctx context.Context, c credential.PersonalCredential) (credential.PersonalCredential, error) {
	if c.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return credential.PersonalCredential{}, err
		}
		c.ID = id.String()
	}
	c.CreatedAt = time.Now()

	p.store.mu.Lock()
	defer p.store.mu.Unlock()
	p.store.personal = append(p.store.personal, c)
	return c, nil
}

type sharedCredentialRepository struct {
	store *Store
}

func NewSharedCredentialRepository(s *Store) credential.SharedCredentialRepository {
	return &sharedCredentialRepository{store: s}
}

// Rotate deactivates and inserts under one write lock.
func (r *sharedCredentialRepository) Rotate(ctx context.Context, c credential.SharedCredential) (credential.SharedCredential, error) {
	if c.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return credential.SharedCredential{}, err
		}
		c.ID = id.String()
	}
	c.IsActive = true
	c.CreatedAt = time.Now()

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for i := range r.store.shared {
		if r.store.shared[i].Type == c.Type {
			r.store.shared[i].IsActive = false
		}
	}
	r.store.shared = append(r.store.shared, c)
	return c, nil
}

func (r *sharedCredentialRepository) GetByToken(ctx context.Context, token string) (credential.SharedCredential, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, c := range r.store.shared {
		if c.Token == token {
			return c, nil
		}
	}
	return credential.SharedCredential{}, credential.ErrCredentialNotFound
}

func (r *sharedCredentialRepository) GetActive(ctx context.Context, t credential.SharedType) (credential.SharedCredential, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, c := range r.store.shared {
		if c.Type == t && c.IsActive {
			return c, nil
		}
	}
	return credential.SharedCredential{}, credential.ErrCredentialNotFound
}
