package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"membership-backend/internal/apps/otp/models"
	"membership-backend/internal/apps/otp/repository"
	"membership-backend/internal/common/apperrors"
	"membership-backend/internal/common/background"
	"membership-backend/internal/common/metrics"
	"membership-backend/pkg/phone"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const (
	otpMin   = 100000
	otpRange = 900000
)

// RegistrationChecker reports whether an application already exists for a phone
type RegistrationChecker interface {
	IsRegistered(ctx context.Context, rawPhone string) (bool, error)
}

// PhoneOTPService defines business logic for Phone OTP
type PhoneOTPService interface {
	IssueOTP(ctx context.Context, rawPhone string) (*models.PhoneOTPResponse, error)
	VerifyOTP(ctx context.Context, rawPhone, code string) (*models.VerifyPhoneOTPResponse, error)
	IsPhoneVerified(ctx context.Context, rawPhone string) (bool, error)
}

// Options tunes OTP lifetimes
type Options struct {
	TTL                time.Duration
	VerificationWindow time.Duration
	SendTimeout        time.Duration
}

// phoneOTPService implements PhoneOTPService
type phoneOTPService struct {
	repo       repository.PhoneOTPRepository
	registry   RegistrationChecker
	provider   OTPProvider
	runner     background.Runner
	throttle   RequestThrottle
	normalizer phone.Normalizer
	opts       Options
	now        func() time.Time
}

// NewPhoneOTPService creates a new instance of PhoneOTPService
func NewPhoneOTPService(
	repo repository.PhoneOTPRepository,
	registry RegistrationChecker,
	provider OTPProvider,
	runner background.Runner,
	throttle RequestThrottle,
	normalizer phone.Normalizer,
	opts Options,
) PhoneOTPService {
	if throttle == nil {
		throttle = NewNoopThrottle()
	}
	return &phoneOTPService{
		repo:       repo,
		registry:   registry,
		provider:   provider,
		runner:     runner,
		throttle:   throttle,
		normalizer: normalizer,
		opts:       opts,
		now:        time.Now,
	}
}

// generateOTP draws a uniform 6-digit code
func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(otpRange))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+otpMin), nil
}

// IssueOTP stores a fresh code for the phone and hands delivery to the
// background runner. Only one unverified code per phone is kept.
func (s *phoneOTPService) IssueOTP(ctx context.Context, rawPhone string) (*models.PhoneOTPResponse, error) {
	phoneNumber := s.normalizer.Normalize(rawPhone)
	if phoneNumber == "" {
		return nil, apperrors.ErrInvalidPhone
	}

	registered, err := s.registry.IsRegistered(ctx, phoneNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing application: %w", err)
	}
	if registered {
		return nil, apperrors.ErrAlreadyRegistered
	}

	if !s.provider.Configured() {
		return nil, apperrors.ErrMessagingNotConfigured
	}

	allowed, err := s.throttle.Allow(ctx, phoneNumber)
	if err != nil {
		// fail open
		log.Warn().Err(err).Str("phone_number", phoneNumber).Msg("otp throttle unavailable")
	} else if !allowed {
		return nil, apperrors.ErrTooManyRequests
	}

	code, err := generateOTP()
	if err != nil {
		return nil, fmt.Errorf("failed to generate OTP: %w", err)
	}

	now := s.now()
	otp := &models.PhoneOTP{
		PhoneNumber: phoneNumber,
		OTPCode:     code,
		IsVerified:  false,
		ExpiresAt:   now.Add(s.opts.TTL),
		CreatedAt:   now,
	}

	if err := s.repo.DeleteByPhone(ctx, phoneNumber); err != nil {
		log.Warn().Err(err).Str("phone_number", phoneNumber).Msg("failed to delete previous OTPs")
	}

	if err := s.repo.Create(ctx, otp); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrStorageWriteFailed, err)
	}
	metrics.OTPIssuedTotal.Inc()

	s.runner.Go("otp_delivery", s.opts.SendTimeout, func(ctx context.Context) error {
		return s.provider.SendOTP(ctx, phoneNumber, code)
	})

	return &models.PhoneOTPResponse{
		PhoneNumber: phoneNumber,
		ExpiresAt:   otp.ExpiresAt,
	}, nil
}

// VerifyOTP checks code against the newest unverified OTP for the phone
func (s *phoneOTPService) VerifyOTP(ctx context.Context, rawPhone, code string) (*models.VerifyPhoneOTPResponse, error) {
	phoneNumber := s.normalizer.Normalize(rawPhone)
	if phoneNumber == "" {
		return nil, apperrors.ErrInvalidPhone
	}

	otp, err := s.repo.FindLatestUnverified(ctx, phoneNumber)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			metrics.OTPVerificationsTotal.WithLabelValues("not_found").Inc()
			return nil, apperrors.ErrOTPNotFound
		}
		return nil, err
	}

	if otp.IsExpired(s.now()) {
		if err := s.repo.DeleteByID(ctx, otp.ID); err != nil {
			log.Warn().Err(err).Str("otp_id", otp.ID.String()).Msg("failed to delete expired OTP")
		}
		metrics.OTPVerificationsTotal.WithLabelValues("expired").Inc()
		return nil, apperrors.ErrOTPExpired
	}

	if otp.OTPCode != code {
		metrics.OTPVerificationsTotal.WithLabelValues("mismatch").Inc()
		return nil, apperrors.ErrOTPMismatch
	}

	updated, err := s.repo.MarkVerified(ctx, otp.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrStorageWriteFailed, err)
	}
	if !updated {
		metrics.OTPVerificationsTotal.WithLabelValues("not_found").Inc()
		return nil, apperrors.ErrOTPNotFound
	}

	metrics.OTPVerificationsTotal.WithLabelValues("success").Inc()
	return &models.VerifyPhoneOTPResponse{
		Valid:       true,
		PhoneNumber: phoneNumber,
		Message:     "OTP verified successfully",
	}, nil
}

// IsPhoneVerified reports whether the phone passed verification within the window
func (s *phoneOTPService) IsPhoneVerified(ctx context.Context, rawPhone string) (bool, error) {
	phoneNumber := s.normalizer.Normalize(rawPhone)
	if phoneNumber == "" {
		return false, nil
	}
	return s.repo.ExistsVerifiedSince(ctx, phoneNumber, s.now().Add(-s.opts.VerificationWindow))
}
