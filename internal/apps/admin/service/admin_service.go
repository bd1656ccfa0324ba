package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"membership-backend/internal/apps/admin/models"
	"membership-backend/internal/apps/admin/repository"
	"membership-backend/internal/common/apperrors"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AdminService defines the interface for admin authentication
type AdminService interface {
	Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error)
	GetAdminByID(ctx context.Context, id uuid.UUID) (*models.AdminUserResponse, error)
	Authenticate(ctx context.Context, token string) (string, error)
	EnsureBootstrapAdmin(ctx context.Context, email, password, name string) error
}

// adminService implements AdminService
type adminService struct {
	repo   repository.AdminUserRepository
	tokens *TokenManager
	now    func() time.Time
}

// NewAdminService creates a new instance of AdminService
func NewAdminService(repo repository.AdminUserRepository, tokens *TokenManager) AdminService {
	return &adminService{repo: repo, tokens: tokens, now: time.Now}
}

// dummyHash is checked for unknown emails
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("not-a-real-password"), bcrypt.DefaultCost)

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Login checks credentials and issues a bearer token
func (s *adminService) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	user, err := s.repo.FindByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(req.Password))
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, apperrors.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, apperrors.ErrInvalidCredentials
	}

	token, expiresAt, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	now := s.now()
	if err := s.repo.TouchLastLogin(ctx, user.ID, now); err != nil {
		log.Warn().Err(err).Str("admin_id", user.ID.String()).Msg("failed to record last login")
	} else {
		user.LastLoginAt = &now
	}

	return &models.LoginResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresAt:   expiresAt,
		Admin:       user.ToResponse(),
	}, nil
}

// GetAdminByID retrieves an active admin by ID
func (s *adminService) GetAdminByID(ctx context.Context, id uuid.UUID) (*models.AdminUserResponse, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUnauthorized
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, apperrors.ErrUnauthorized
	}
	resp := user.ToResponse()
	return &resp, nil
}

// Authenticate verifies a bearer token and checks its admin still exists and is active
func (s *adminService) Authenticate(ctx context.Context, token string) (string, error) {
	subject, err := s.tokens.ParseToken(token)
	if err != nil {
		return "", fmt.Errorf("%w: %v", apperrors.ErrUnauthorized, err)
	}
	id, err := uuid.Parse(subject)
	if err != nil {
		return "", apperrors.ErrUnauthorized
	}
	if _, err := s.GetAdminByID(ctx, id); err != nil {
		return "", err
	}
	return subject, nil
}

// EnsureBootstrapAdmin creates the configured admin if no admin has that email
func (s *adminService) EnsureBootstrapAdmin(ctx context.Context, email, password, name string) error {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil
	}

	_, err := s.repo.FindByEmail(ctx, email)
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash bootstrap password: %w", err)
	}
	if name == "" {
		name = "Administrator"
	}

	user := &models.AdminUser{
		Email:        email,
		Name:         name,
		PasswordHash: string(hash),
		IsActive:     true,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil
		}
		return err
	}

	log.Info().Str("email", email).Msg("bootstrap admin created")
	return nil
}
