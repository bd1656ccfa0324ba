package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"membership-backend/internal/apps/membership/models"
	"membership-backend/pkg/whatsapp"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWebhookNotifierPostsPayloadWithBasicAuth(t *testing.T) {
	id := uuid.New()
	var got map[string]interface{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "hook-user", user)
		assert.Equal(t, "hook-pass", pass)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	app := models.MembershipApplication{
		ID:                id,
		PhoneNumber:       "919876543210",
		Name:              "Kavya Raman",
		DateOfBirth:       models.NewDate(1995, 4, 12),
		ApplicationStatus: models.StatusPending,
	}
	n := NewWebhookNotifier(srv.URL, "hook-user", "hook-pass", time.Second)
	err := n.Notify(context.Background(), models.WebhookPayload{ApplicationResponse: app.ToResponse(), ApplicationID: id})
	require.NoError(t, err)

	assert.Equal(t, id.String(), got["application_id"])
	assert.Equal(t, id.String(), got["id"])
	assert.Equal(t, "919876543210", got["phone_number"])
	assert.Equal(t, "1995-04-12", got["date_of_birth"])
	assert.Equal(t, "pending", got["application_status"])
}

func TestWebhookNotifierReportsNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte("bad credentials"))
	}))
	defer srv.Close()

	n := NewWebhookNotifier(srv.URL, "", "", time.Second)
	err := n.Notify(context.Background(), models.WebhookPayload{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestWebhookNotifierHonoursTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	n := NewWebhookNotifier(srv.URL, "", "", 50*time.Millisecond)
	err := n.Notify(context.Background(), models.WebhookPayload{})
	assert.Error(t, err)
}

func TestWhatsAppWelcomeSenderUsesVideoHeader(t *testing.T) {
	var got whatsapp.MessageRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"messages":[{"id":"wamid.2"}]}`))
	}))
	defer srv.Close()

	client := whatsapp.NewClient(srv.URL, "token", "555", srv.Client())
	sender := NewWhatsAppWelcomeSender(client, "welcome_message", "en", "https://videos.example/welcome.mp4")
	require.NoError(t, sender.SendWelcome(context.Background(), "919876543210"))

	require.NotNil(t, got.Template)
	assert.Equal(t, "welcome_message", got.Template.Name)
	require.Len(t, got.Template.Components, 1)
	assert.Equal(t, "header", got.Template.Components[0].Type)
	require.NotNil(t, got.Template.Components[0].Parameters[0].Video)
	assert.Equal(t, "https://videos.example/welcome.mp4", got.Template.Components[0].Parameters[0].Video.Link)
}

func TestBuildAcknowledgement(t *testing.T) {
	email := "kavya@example.com"
	app := &models.MembershipApplication{
		ID:                   uuid.New(),
		Name:                 "Kavya <Raman>",
		Email:                &email,
		RevenueDistrict:      "Chennai",
		AssemblyConstituency: "Mylapore",
		ApplicationStatus:    models.StatusPending,
	}

	m, err := buildAcknowledgement("noreply@example.org", app)
	require.NoError(t, err)
	assert.Equal(t, []string{"kavya@example.com"}, m.GetHeader("To"))
	assert.Equal(t, []string{"noreply@example.org"}, m.GetHeader("From"))
}

func TestSMTPMailerSkipsMissingEmail(t *testing.T) {
	m := NewSMTPMailer("smtp.invalid", 587, "", "", "noreply@example.org")
	assert.NoError(t, m.SendAcknowledgement(context.Background(), &models.MembershipApplication{}))
}
