package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"membership-backend/internal/apps/otp/models"
	"membership-backend/internal/common/apperrors"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubOTPService struct {
	issueErr  error
	verifyErr error
	lastPhone string
	lastCode  string
}

func (s *stubOTPService) IssueOTP(ctx context.Context, rawPhone string) (*models.PhoneOTPResponse, error) {
	s.lastPhone = rawPhone
	if s.issueErr != nil {
		return nil, s.issueErr
	}
	return &models.PhoneOTPResponse{
		PhoneNumber: "919876543210",
		ExpiresAt:   time.Date(2026, 10, 19, 9, 5, 0, 0, time.UTC),
	}, nil
}

func (s *stubOTPService) VerifyOTP(ctx context.Context, rawPhone, code string) (*models.VerifyPhoneOTPResponse, error) {
	s.lastPhone, s.lastCode = rawPhone, code
	if s.verifyErr != nil {
		return nil, s.verifyErr
	}
	return &models.VerifyPhoneOTPResponse{Valid: true, PhoneNumber: "919876543210", Message: "OTP verified successfully"}, nil
}

func (s *stubOTPService) IsPhoneVerified(ctx context.Context, rawPhone string) (bool, error) {
	return false, nil
}

func newTestRouter(svc *stubOTPService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	RegisterOTPRoutes(r.Group("/api/v1"), NewPhoneOTPHandler(svc))
	return r
}

func doJSON(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestIssueOTPHandler(t *testing.T) {
	svc := &stubOTPService{}
	w := doJSON(newTestRouter(svc), http.MethodPost, "/api/v1/otp/phone", `{"phone_number":"+91 98765 43210"}`)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "+91 98765 43210", svc.lastPhone)

	var body struct {
		Data map[string]interface{} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "919876543210", body.Data["phone_number"])
	assert.NotContains(t, w.Body.String(), "otp_code")
}

func TestIssueOTPHandlerErrors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"registered", apperrors.ErrAlreadyRegistered, http.StatusConflict},
		{"not configured", apperrors.ErrMessagingNotConfigured, http.StatusServiceUnavailable},
		{"throttled", apperrors.ErrTooManyRequests, http.StatusTooManyRequests},
		{"storage", errors.Join(apperrors.ErrStorageWriteFailed, errors.New("pq: timeout")), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(newTestRouter(&stubOTPService{issueErr: tt.err}), http.MethodPost, "/api/v1/otp/phone", `{"phone_number":"9876543210"}`)
			assert.Equal(t, tt.status, w.Code)
			assert.NotContains(t, w.Body.String(), "pq:")
		})
	}
}

func TestIssueOTPHandlerRejectsBadBody(t *testing.T) {
	w := doJSON(newTestRouter(&stubOTPService{}), http.MethodPost, "/api/v1/otp/phone", `{"phone_number":"123"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestVerifyOTPHandler(t *testing.T) {
	svc := &stubOTPService{}
	w := doJSON(newTestRouter(svc), http.MethodPost, "/api/v1/otp/phone/verify", `{"phone_number":"9876543210","otp_code":"123456"}`)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "123456", svc.lastCode)
	assert.Contains(t, w.Body.String(), `"valid":true`)
}

func TestVerifyOTPHandlerErrors(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{apperrors.ErrOTPNotFound, http.StatusNotFound},
		{apperrors.ErrOTPExpired, http.StatusGone},
		{apperrors.ErrOTPMismatch, http.StatusBadRequest},
	}

	for _, tt := range tests {
		w := doJSON(newTestRouter(&stubOTPService{verifyErr: tt.err}), http.MethodPost, "/api/v1/otp/phone/verify", `{"phone_number":"9876543210","otp_code":"123456"}`)
		assert.Equal(t, tt.status, w.Code, tt.err.Error())
		assert.Contains(t, w.Body.String(), tt.err.Error())
	}
}

func TestVerifyOTPHandlerValidatesCode(t *testing.T) {
	r := newTestRouter(&stubOTPService{})

	for _, code := range []string{"12345", "1234567", "12ab56"} {
		w := doJSON(r, http.MethodPost, "/api/v1/otp/phone/verify", `{"phone_number":"9876543210","otp_code":"`+code+`"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code, code)
	}
}
