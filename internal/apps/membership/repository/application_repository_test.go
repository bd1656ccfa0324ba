package repository

import (
	"context"
	"testing"
	"time"

	"membership-backend/internal/apps/membership/models"
	"membership-backend/internal/common/database/dbtest"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newApplication(phone, name, district string, submittedAt time.Time) *models.MembershipApplication {
	return &models.MembershipApplication{
		PhoneNumber:          phone,
		Name:                 name,
		Gender:               models.GenderFemale,
		DateOfBirth:          models.NewDate(1995, 4, 12),
		RevenueDistrict:      district,
		AssemblyConstituency: models.Constituencies[district][0],
		Education:            models.EducationEngineering,
		Occupation:           models.OccupationPrivate,
		Motivation:           "Community service",
		SubmittedAt:          submittedAt,
		UpdatedAt:            submittedAt,
	}
}

func TestApplicationRepository(t *testing.T) {
	db := dbtest.Postgres(t, &models.MembershipApplication{})
	repo := NewApplicationRepository(db)
	ctx := context.Background()
	base := time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)

	first := newApplication("919876543210", "Kavya Raman", "Chennai", base)
	second := newApplication("919876543211", "Arun Kumar", "Salem", base.Add(24*time.Hour))
	third := newApplication("919876543212", "Meena Kavitha", "Chennai", base.Add(48*time.Hour))
	for _, app := range []*models.MembershipApplication{first, second, third} {
		require.NoError(t, repo.Create(ctx, app))
	}
	assert.Equal(t, models.StatusPending, first.ApplicationStatus)

	t.Run("unique phone", func(t *testing.T) {
		err := repo.Create(ctx, newApplication("919876543210", "Someone Else", "Salem", base))
		assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
	})

	t.Run("find by phones", func(t *testing.T) {
		found, err := repo.FindByPhones(ctx, []string{"9876543210", "919876543210"})
		require.NoError(t, err)
		assert.Equal(t, first.ID, found.ID)
		assert.Equal(t, "1995-04-12", found.DateOfBirth.String())

		_, err = repo.FindByPhones(ctx, []string{"910000000000"})
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	})

	t.Run("update status", func(t *testing.T) {
		at := base.Add(72 * time.Hour)
		require.NoError(t, repo.UpdateStatus(ctx, second.ID, models.StatusApproved, at))

		got, err := repo.FindByID(ctx, second.ID)
		require.NoError(t, err)
		assert.Equal(t, models.StatusApproved, got.ApplicationStatus)
		assert.True(t, got.UpdatedAt.Equal(at))

		assert.ErrorIs(t, repo.UpdateStatus(ctx, uuid.New(), models.StatusApproved, at), gorm.ErrRecordNotFound)
	})

	t.Run("paginated filters", func(t *testing.T) {
		apps, total, err := repo.FindAllPaginated(ctx, models.ApplicationFilter{Page: 1, PageSize: 2})
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		require.Len(t, apps, 2)
		assert.Equal(t, third.ID, apps[0].ID)

		apps, total, err = repo.FindAllPaginated(ctx, models.ApplicationFilter{District: "Chennai", Search: "kav", Page: 1, PageSize: 10})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		assert.Len(t, apps, 2)

		apps, total, err = repo.FindAllPaginated(ctx, models.ApplicationFilter{Status: models.StatusPending, Search: "arun", Page: 1, PageSize: 10})
		require.NoError(t, err)
		assert.Equal(t, int64(0), total)
		assert.Empty(t, apps)

		from := base.Add(12 * time.Hour)
		to := base.Add(36 * time.Hour)
		apps, total, err = repo.FindAllPaginated(ctx, models.ApplicationFilter{From: &from, To: &to, Page: 1, PageSize: 10})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, apps, 1)
		assert.Equal(t, second.ID, apps[0].ID)
	})

	t.Run("count by status", func(t *testing.T) {
		counts, err := repo.CountByStatus(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(2), counts[models.StatusPending])
		assert.Equal(t, int64(1), counts[models.StatusApproved])
	})
}
