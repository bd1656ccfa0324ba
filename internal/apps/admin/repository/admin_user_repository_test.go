package repository

import (
	"context"
	"testing"
	"time"

	"membership-backend/internal/apps/admin/models"
	"membership-backend/internal/common/database/dbtest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestAdminUserRepository(t *testing.T) {
	db := dbtest.Postgres(t, &models.AdminUser{})
	repo := NewAdminUserRepository(db)
	ctx := context.Background()

	user := &models.AdminUser{Email: "admin@example.org", Name: "Administrator", PasswordHash: "hash", IsActive: true}
	require.NoError(t, repo.Create(ctx, user))

	dup := &models.AdminUser{Email: "admin@example.org", Name: "Copy", PasswordHash: "hash", IsActive: true}
	assert.ErrorIs(t, repo.Create(ctx, dup), gorm.ErrDuplicatedKey)

	found, err := repo.FindByEmail(ctx, "admin@example.org")
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)
	assert.Nil(t, found.LastLoginAt)

	at := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)
	require.NoError(t, repo.TouchLastLogin(ctx, user.ID, at))

	found, err = repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, found.LastLoginAt)
	assert.True(t, found.LastLoginAt.Equal(at))

	_, err = repo.FindByEmail(ctx, "nobody@example.org")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
