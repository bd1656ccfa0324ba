package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PhoneOTP is a one-time passcode issued to prove control of a phone number.
// Rows are never unique per phone: issuance deletes older rows first, and
// verification always reads the newest unverified one.
type PhoneOTP struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	PhoneNumber string    `gorm:"size:20;not null;index:idx_otp_phone_created,priority:1" json:"phone_number"`
	OTPCode     string    `gorm:"size:6;not null" json:"-"`
	IsVerified  bool      `gorm:"not null;default:false" json:"is_verified"`
	ExpiresAt   time.Time `gorm:"type:timestamptz;not null;index" json:"expires_at"`
	CreatedAt   time.Time `gorm:"type:timestamptz;not null;index:idx_otp_phone_created,priority:2,sort:desc" json:"created_at"`
}

// TableName sets the table name to 'otp_verifications'
func (PhoneOTP) TableName() string { return "otp_verifications" }

// BeforeCreate hook to generate UUID before creating record
func (o *PhoneOTP) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

// IsExpired reports whether the code can no longer be used at now
func (o *PhoneOTP) IsExpired(now time.Time) bool {
	return now.After(o.ExpiresAt)
}

// PhoneOTPResponse represents the response after issuing a phone OTP (without exposing the value)
type PhoneOTPResponse struct {
	PhoneNumber string    `json:"phone_number"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// CreatePhoneOTPRequest payload to issue a phone OTP
type CreatePhoneOTPRequest struct {
	PhoneNumber string `json:"phone_number" binding:"required,min=10,max=20"`
}

// VerifyPhoneOTPRequest payload to verify phone OTP
type VerifyPhoneOTPRequest struct {
	PhoneNumber string `json:"phone_number" binding:"required,min=10,max=20"`
	OTPCode     string `json:"otp_code" binding:"required,len=6,numeric"`
}

// VerifyPhoneOTPResponse indicates verification result
type VerifyPhoneOTPResponse struct {
	Valid       bool   `json:"valid"`
	PhoneNumber string `json:"phone_number"`
	Message     string `json:"message"`
}
