package repository

import (
	"context"
	"time"

	"membership-backend/internal/apps/membership/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ApplicationRepository defines data operations for membership applications
type ApplicationRepository interface {
	Create(ctx context.Context, app *models.MembershipApplication) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.MembershipApplication, error)
	FindByPhones(ctx context.Context, phoneNumbers []string) (*models.MembershipApplication, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status models.ApplicationStatus, updatedAt time.Time) error
	FindAllPaginated(ctx context.Context, filter models.ApplicationFilter) ([]models.MembershipApplication, int64, error)
	CountByStatus(ctx context.Context) (map[models.ApplicationStatus]int64, error)
}

// applicationRepository implements ApplicationRepository
type applicationRepository struct {
	db *gorm.DB
}

// NewApplicationRepository creates a new instance of ApplicationRepository
func NewApplicationRepository(db *gorm.DB) ApplicationRepository {
	return &applicationRepository{db: db}
}

// Create inserts a new application
func (r *applicationRepository) Create(ctx context.Context, app *models.MembershipApplication) error {
	return r.db.WithContext(ctx).Create(app).Error
}

// FindByID retrieves an application by its ID
func (r *applicationRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.MembershipApplication, error) {
	var app models.MembershipApplication
	if err := r.db.WithContext(ctx).First(&app, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &app, nil
}

// FindByPhones retrieves the first application stored under any of the given phone strings
func (r *applicationRepository) FindByPhones(ctx context.Context, phoneNumbers []string) (*models.MembershipApplication, error) {
	var app models.MembershipApplication
	err := r.db.WithContext(ctx).
		Where("phone_number IN ?", phoneNumbers).
		Order("submitted_at ASC").
		First(&app).Error
	if err != nil {
		return nil, err
	}
	return &app, nil
}

// UpdateStatus sets application_status and updated_at. It returns
// gorm.ErrRecordNotFound when no row has the id.
func (r *applicationRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status models.ApplicationStatus, updatedAt time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&models.MembershipApplication{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"application_status": status,
			"updated_at":         updatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// FindAllPaginated retrieves applications matching filter, newest first
func (r *applicationRepository) FindAllPaginated(ctx context.Context, filter models.ApplicationFilter) ([]models.MembershipApplication, int64, error) {
	var apps []models.MembershipApplication
	var total int64

	query := r.db.WithContext(ctx).Model(&models.MembershipApplication{})

	if filter.Status != "" {
		query = query.Where("application_status = ?", filter.Status)
	}
	if filter.District != "" {
		query = query.Where("revenue_district = ?", filter.District)
	}
	if filter.From != nil {
		query = query.Where("submitted_at >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("submitted_at <= ?", *filter.To)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where("(name ILIKE ? OR phone_number ILIKE ? OR email ILIKE ?)", like, like, like)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.PageSize

	if err := query.Order("submitted_at DESC").Offset(offset).Limit(filter.PageSize).Find(&apps).Error; err != nil {
		return nil, 0, err
	}

	return apps, total, nil
}

// CountByStatus groups application counts by status
func (r *applicationRepository) CountByStatus(ctx context.Context) (map[models.ApplicationStatus]int64, error) {
	var rows []struct {
		ApplicationStatus models.ApplicationStatus
		Count             int64
	}
	err := r.db.WithContext(ctx).
		Model(&models.MembershipApplication{}).
		Select("application_status, COUNT(*) AS count").
		Group("application_status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[models.ApplicationStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.ApplicationStatus] = row.Count
	}
	return counts, nil
}
