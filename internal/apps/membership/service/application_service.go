package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"membership-backend/internal/apps/membership/models"
	"membership-backend/internal/apps/membership/repository"
	"membership-backend/internal/common/apperrors"
	"membership-backend/internal/common/background"
	"membership-backend/internal/common/metrics"
	"membership-backend/pkg/phone"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// PhoneVerifier reports whether a phone recently passed OTP verification
type PhoneVerifier interface {
	IsPhoneVerified(ctx context.Context, rawPhone string) (bool, error)
}

// ApplicationService defines business logic for membership applications
type ApplicationService interface {
	SubmitApplication(ctx context.Context, req models.SubmitApplicationRequest) (*models.SubmitApplicationResponse, error)
	FindApplicationByPhone(ctx context.Context, rawPhone string) (*models.MembershipApplication, error)
	IsRegistered(ctx context.Context, rawPhone string) (bool, error)
	GetApplication(ctx context.Context, id uuid.UUID) (*models.ApplicationResponse, error)
	ListApplications(ctx context.Context, filter models.ApplicationFilter) (*models.PaginatedApplicationsResponse, error)
	SetApplicationStatus(ctx context.Context, id uuid.UUID, status models.ApplicationStatus) (*models.ApplicationResponse, error)
	GetApplicationStats(ctx context.Context) (*models.ApplicationStats, error)
}

// SideChannels are the optional post-submission notifications. Nil members are skipped.
type SideChannels struct {
	Webhook WebhookNotifier
	Welcome WelcomeSender
	Mailer  Mailer
	Timeout time.Duration
}

// applicationService implements ApplicationService
type applicationService struct {
	repo       repository.ApplicationRepository
	verifier   PhoneVerifier
	validate   *validator.Validate
	runner     background.Runner
	normalizer phone.Normalizer
	channels   SideChannels
	now        func() time.Time
}

// NewApplicationService creates a new instance of ApplicationService
func NewApplicationService(
	repo repository.ApplicationRepository,
	verifier PhoneVerifier,
	validate *validator.Validate,
	runner background.Runner,
	normalizer phone.Normalizer,
	channels SideChannels,
) ApplicationService {
	if channels.Timeout <= 0 {
		channels.Timeout = 10 * time.Second
	}
	return &applicationService{
		repo:       repo,
		verifier:   verifier,
		validate:   validate,
		runner:     runner,
		normalizer: normalizer,
		channels:   channels,
		now:        time.Now,
	}
}

var tagMessages = map[string]string{
	"required":     "is required",
	"email":        "must be a valid email address",
	"gender":       "must be one of " + strings.Join(models.Genders, ", "),
	"education":    "must be one of " + strings.Join(models.Educations, ", "),
	"occupation":   "must be one of " + strings.Join(models.Occupations, ", "),
	"district":     "must be a known revenue district",
	"constituency": "must be a constituency of the selected revenue district",
	"datetime":     "must be a date in YYYY-MM-DD format",
	"app_status":   "must be one of pending, under_review, approved, rejected",
}

// toValidationError flattens validator output into field messages
func toValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := &apperrors.ValidationError{Fields: make(map[string]string, len(verrs))}
	for _, fe := range verrs {
		msg, ok := tagMessages[fe.Tag()]
		if !ok {
			msg = fmt.Sprintf("failed %s validation", fe.Tag())
			if fe.Param() != "" {
				msg = fmt.Sprintf("failed %s=%s validation", fe.Tag(), fe.Param())
			}
		}
		out.Fields[fe.Field()] = msg
	}
	return out
}

func (s *applicationService) reject(reason string, err error) error {
	metrics.ApplicationsRejectedTotal.WithLabelValues(reason).Inc()
	return err
}

// SubmitApplication validates and stores a new application, then fires the
// configured side channels. Side channel failures never fail the submission.
func (s *applicationService) SubmitApplication(ctx context.Context, req models.SubmitApplicationRequest) (*models.SubmitApplicationResponse, error) {
	req.Normalize()
	if err := s.validate.Struct(req); err != nil {
		return nil, s.reject("validation", toValidationError(err))
	}

	dob, err := models.ParseDate(req.DateOfBirth)
	if err != nil {
		return nil, s.reject("validation", apperrors.NewValidationError("date_of_birth", tagMessages["datetime"]))
	}
	now := s.now()
	if models.AgeOn(dob, now.UTC()) < models.MinimumAge {
		return nil, s.reject("underage", apperrors.ErrUnderage)
	}

	phoneNumber := s.normalizer.Normalize(req.PhoneNumber)
	if phoneNumber == "" {
		return nil, s.reject("validation", apperrors.NewValidationError("phone_number", tagMessages["required"]))
	}

	verified, err := s.verifier.IsPhoneVerified(ctx, phoneNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to check phone verification: %w", err)
	}
	if !verified {
		return nil, s.reject("unverified", apperrors.ErrPhoneNotVerified)
	}

	existing, err := s.FindApplicationByPhone(ctx, phoneNumber)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, s.reject("duplicate", apperrors.ErrAlreadyRegistered)
	}

	app := &models.MembershipApplication{
		PhoneNumber:            phoneNumber,
		Name:                   req.Name,
		Email:                  req.Email,
		Gender:                 req.Gender,
		DateOfBirth:            dob,
		RevenueDistrict:        req.RevenueDistrict,
		AssemblyConstituency:   req.AssemblyConstituency,
		Education:              req.Education,
		Specialization:         req.Specialization,
		Occupation:             req.Occupation,
		Address:                req.Address,
		IsAlreadyMember:        *req.IsAlreadyMember,
		WantToVolunteer:        *req.WantToVolunteer,
		WantToJoinAndVolunteer: *req.WantToJoinAndVolunteer,
		Motivation:             req.Motivation,
		ApplicationStatus:      models.StatusPending,
		SubmittedAt:            now,
		UpdatedAt:              now,
	}
	if req.AlternatePhoneNumber != nil {
		if digits := phone.Digits(*req.AlternatePhoneNumber); digits != "" {
			app.AlternatePhoneNumber = &digits
		}
	}

	if err := s.repo.Create(ctx, app); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, s.reject("duplicate", apperrors.ErrAlreadyRegistered)
		}
		return nil, fmt.Errorf("%w: %v", apperrors.ErrStorageWriteFailed, err)
	}
	metrics.ApplicationsSubmittedTotal.Inc()
	log.Info().Str("application_id", app.ID.String()).Str("district", app.RevenueDistrict).Msg("membership application submitted")

	s.dispatchSideChannels(app)

	return &models.SubmitApplicationResponse{ID: app.ID}, nil
}

func (s *applicationService) dispatchSideChannels(app *models.MembershipApplication) {
	snapshot := *app

	if s.channels.Webhook != nil {
		payload := models.WebhookPayload{ApplicationResponse: snapshot.ToResponse(), ApplicationID: snapshot.ID}
		s.runner.Go("application_webhook", s.channels.Timeout, func(ctx context.Context) error {
			return s.channels.Webhook.Notify(ctx, payload)
		})
	}
	if s.channels.Welcome != nil {
		s.runner.Go("welcome_message", s.channels.Timeout, func(ctx context.Context) error {
			return s.channels.Welcome.SendWelcome(ctx, snapshot.PhoneNumber)
		})
	}
	if s.channels.Mailer != nil && snapshot.Email != nil {
		s.runner.Go("acknowledgement_email", s.channels.Timeout, func(ctx context.Context) error {
			return s.channels.Mailer.SendAcknowledgement(ctx, &snapshot)
		})
	}
}

// FindApplicationByPhone returns the application stored under any format of
// the phone, or nil when there is none.
func (s *applicationService) FindApplicationByPhone(ctx context.Context, rawPhone string) (*models.MembershipApplication, error) {
	variants := s.normalizer.Variants(rawPhone)
	if len(variants) == 0 {
		return nil, nil
	}

	app, err := s.repo.FindByPhones(ctx, variants)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return app, nil
}

// IsRegistered reports whether an application exists for the phone
func (s *applicationService) IsRegistered(ctx context.Context, rawPhone string) (bool, error) {
	app, err := s.FindApplicationByPhone(ctx, rawPhone)
	if err != nil {
		return false, err
	}
	return app != nil, nil
}

// GetApplication retrieves an application by ID
func (s *applicationService) GetApplication(ctx context.Context, id uuid.UUID) (*models.ApplicationResponse, error) {
	app, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrApplicationNotFound
		}
		return nil, err
	}
	resp := app.ToResponse()
	return &resp, nil
}

// ListApplications retrieves applications with filters and pagination
func (s *applicationService) ListApplications(ctx context.Context, filter models.ApplicationFilter) (*models.PaginatedApplicationsResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 || filter.PageSize > 100 {
		filter.PageSize = 10
	}
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, apperrors.ErrInvalidStatus
	}
	filter.Search = strings.TrimSpace(filter.Search)
	filter.District = strings.TrimSpace(filter.District)

	apps, total, err := s.repo.FindAllPaginated(ctx, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]models.ApplicationResponse, len(apps))
	for i := range apps {
		responses[i] = apps[i].ToResponse()
	}

	totalPages := int(total) / filter.PageSize
	if int(total)%filter.PageSize != 0 {
		totalPages++
	}

	var nextPage *int
	var prevPage *int

	if filter.Page < totalPages {
		next := filter.Page + 1
		nextPage = &next
	}

	if filter.Page > 1 {
		prev := filter.Page - 1
		prevPage = &prev
	}

	return &models.PaginatedApplicationsResponse{
		Data:       responses,
		Page:       filter.Page,
		PageSize:   filter.PageSize,
		Total:      total,
		TotalPages: totalPages,
		NextPage:   nextPage,
		PrevPage:   prevPage,
	}, nil
}

// SetApplicationStatus moves an application to any status and stamps updated_at
func (s *applicationService) SetApplicationStatus(ctx context.Context, id uuid.UUID, status models.ApplicationStatus) (*models.ApplicationResponse, error) {
	if !status.Valid() {
		return nil, apperrors.ErrInvalidStatus
	}

	if err := s.repo.UpdateStatus(ctx, id, status, s.now()); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrApplicationNotFound
		}
		return nil, fmt.Errorf("%w: %v", apperrors.ErrStorageWriteFailed, err)
	}
	metrics.StatusChangesTotal.WithLabelValues(string(status)).Inc()

	return s.GetApplication(ctx, id)
}

// GetApplicationStats counts applications per status
func (s *applicationService) GetApplicationStats(ctx context.Context) (*models.ApplicationStats, error) {
	counts, err := s.repo.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}

	stats := &models.ApplicationStats{
		Pending:     counts[models.StatusPending],
		UnderReview: counts[models.StatusUnderReview],
		Approved:    counts[models.StatusApproved],
		Rejected:    counts[models.StatusRejected],
	}
	for _, n := range counts {
		stats.Total += n
	}
	return stats, nil
}
