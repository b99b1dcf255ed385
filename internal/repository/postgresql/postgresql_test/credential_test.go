package postgresql_test

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/qr-attendance/internal/domain/credential"
	"github.com/cmlabs-hris/qr-attendance/internal/repository/postgresql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSharedCredentialRepository_Rotate(t *testing.T) {
	setupTestData(t)
	ctx := context.Background()
	repo := postgresql.NewSharedCredentialRepository(testDB, testLoc)

	now := time.Date(2024, 3, 14, 7, 0, 0, 0, testLoc)
	first, err := repo.Rotate(ctx, credential.SharedCredential{
		Type: credential.SharedMorning, Token: "morning:a:x:y", ValidFrom: now, ValidTo: credential.SharedMorning.ValidUntil(now),
	})
	require.NoError(t, err)
	assert.True(t, first.IsActive)

	evening, err := repo.Rotate(ctx, credential.SharedCredential{
		Type: credential.SharedEvening, Token: "evening:a:x:y", ValidFrom: now, ValidTo: credential.SharedEvening.ValidUntil(now),
	})
	require.NoError(t, err)

	second, err := repo.Rotate(ctx, credential.SharedCredential{
		Type: credential.SharedMorning, Token: "morning:b:x:y", ValidFrom: now, ValidTo: credential.SharedMorning.ValidUntil(now),
	})
	require.NoError(t, err)

	old, err := repo.GetByToken(ctx, first.Token)
	require.NoError(t, err)
	assert.False(t, old.IsActive)

	active, err := repo.GetActive(ctx, credential.SharedMorning)
	require.NoError(t, err)
	assert.Equal(t, second.ID, active.ID)

	stillActive, err := repo.GetActive(ctx, credential.SharedEvening)
	require.NoError(t, err)
	assert.Equal(t, evening.ID, stillActive.ID)

	_, err = repo.GetByToken(ctx, "unknown")
	assert.ErrorIs(t, err, credential.ErrCredentialNotFound)
}

func TestPersonalCredentialRepository_Create(t *testing.T) {
	setupTestData(t)
	ctx := context.Background()
	createTestEmployee(t, ctx, "emp-1", true)

	repo := postgresql.NewPersonalCredentialRepository(testDB)
	c, err := repo.Create(ctx, credential.PersonalCredential{
		EmployeeID: "emp-1", Token: "emp-1:abc:20240314T080000.000000000", ExpiresAt: time.Now().Add(30 * time.Minute),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, c.ID)
	assert.False(t, c.CreatedAt.IsZero())
}
