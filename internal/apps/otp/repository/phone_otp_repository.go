package repository

import (
	"context"
	"time"

	"membership-backend/internal/apps/otp/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PhoneOTPRepository defines data operations for Phone OTP
type PhoneOTPRepository interface {
	Create(ctx context.Context, otp *models.PhoneOTP) error
	DeleteByPhone(ctx context.Context, phoneNumber string) error
	DeleteByID(ctx context.Context, id uuid.UUID) error
	FindLatestUnverified(ctx context.Context, phoneNumber string) (*models.PhoneOTP, error)
	MarkVerified(ctx context.Context, id uuid.UUID) (bool, error)
	ExistsVerifiedSince(ctx context.Context, phoneNumber string, since time.Time) (bool, error)
	DeleteStale(ctx context.Context, unverifiedExpiredBefore, verifiedCreatedBefore time.Time) (int64, error)
}

// phoneOTPRepository implements PhoneOTPRepository
type phoneOTPRepository struct {
	db *gorm.DB
}

// NewPhoneOTPRepository creates an instance of PhoneOTPRepository
func NewPhoneOTPRepository(db *gorm.DB) PhoneOTPRepository {
	return &phoneOTPRepository{db: db}
}

// Create inserts a new OTP record
func (r *phoneOTPRepository) Create(ctx context.Context, otp *models.PhoneOTP) error {
	return r.db.WithContext(ctx).Create(otp).Error
}

// DeleteByPhone removes every OTP record for a phone number
func (r *phoneOTPRepository) DeleteByPhone(ctx context.Context, phoneNumber string) error {
	return r.db.WithContext(ctx).Where("phone_number = ?", phoneNumber).Delete(&models.PhoneOTP{}).Error
}

// DeleteByID removes a single OTP record
func (r *phoneOTPRepository) DeleteByID(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.PhoneOTP{}, "id = ?", id).Error
}

// FindLatestUnverified retrieves the most recently created unverified OTP for a phone number
func (r *phoneOTPRepository) FindLatestUnverified(ctx context.Context, phoneNumber string) (*models.PhoneOTP, error) {
	var otp models.PhoneOTP
	err := r.db.WithContext(ctx).
		Where("phone_number = ? AND is_verified = ?", phoneNumber, false).
		Order("created_at DESC").
		First(&otp).Error
	if err != nil {
		return nil, err
	}
	return &otp, nil
}

// MarkVerified flips is_verified on a still-unverified record. It reports
// false when another request consumed the record first.
func (r *phoneOTPRepository) MarkVerified(ctx context.Context, id uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.PhoneOTP{}).
		Where("id = ? AND is_verified = ?", id, false).
		Update("is_verified", true)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// ExistsVerifiedSince reports whether a verified OTP created at or after since exists
func (r *phoneOTPRepository) ExistsVerifiedSince(ctx context.Context, phoneNumber string, since time.Time) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.PhoneOTP{}).
		Where("phone_number = ? AND is_verified = ? AND created_at >= ?", phoneNumber, true, since).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// DeleteStale removes expired unverified codes and verified codes past the verification window
func (r *phoneOTPRepository) DeleteStale(ctx context.Context, unverifiedExpiredBefore, verifiedCreatedBefore time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("(is_verified = ? AND expires_at < ?) OR (is_verified = ? AND created_at < ?)",
			false, unverifiedExpiredBefore, true, verifiedCreatedBefore).
		Delete(&models.PhoneOTP{})
	return result.RowsAffected, result.Error
}
