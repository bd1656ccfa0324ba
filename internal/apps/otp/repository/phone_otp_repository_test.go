package repository

import (
	"context"
	"testing"
	"time"

	"membership-backend/internal/apps/otp/models"
	"membership-backend/internal/common/database/dbtest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestPhoneOTPRepository(t *testing.T) {
	db := dbtest.Postgres(t, &models.PhoneOTP{})
	repo := NewPhoneOTPRepository(db)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Microsecond)
	const phone = "919876543210"

	older := &models.PhoneOTP{PhoneNumber: phone, OTPCode: "111111", ExpiresAt: now.Add(time.Minute), CreatedAt: now.Add(-time.Minute)}
	newer := &models.PhoneOTP{PhoneNumber: phone, OTPCode: "222222", ExpiresAt: now.Add(5 * time.Minute), CreatedAt: now}
	require.NoError(t, repo.Create(ctx, older))
	require.NoError(t, repo.Create(ctx, newer))

	latest, err := repo.FindLatestUnverified(ctx, phone)
	require.NoError(t, err)
	assert.Equal(t, newer.ID, latest.ID)

	ok, err := repo.MarkVerified(ctx, newer.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.MarkVerified(ctx, newer.ID)
	require.NoError(t, err)
	assert.False(t, ok, "a consumed code cannot be verified twice")

	verified, err := repo.ExistsVerifiedSince(ctx, phone, now.Add(-time.Hour))
	require.NoError(t, err)
	assert.True(t, verified)

	verified, err = repo.ExistsVerifiedSince(ctx, phone, now.Add(time.Second))
	require.NoError(t, err)
	assert.False(t, verified)

	latest, err = repo.FindLatestUnverified(ctx, phone)
	require.NoError(t, err)
	assert.Equal(t, older.ID, latest.ID)

	deleted, err := repo.DeleteStale(ctx, now.Add(2*time.Minute), now.Add(-time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	require.NoError(t, repo.DeleteByPhone(ctx, phone))
	_, err = repo.FindLatestUnverified(ctx, phone)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
