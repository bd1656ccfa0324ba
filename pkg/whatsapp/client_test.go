package whatsapp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendTemplatePostsOTPPayload(t *testing.T) {
	var got MessageRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/12345/messages", r.URL.Path)
		assert.Equal(t, "Bearer secret-token", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"messaging_product":"whatsapp","messages":[{"id":"wamid.1"}]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/", "secret-token", "12345", srv.Client())
	id, err := c.SendTemplate(context.Background(), "919876543210", NewTextTemplate("code2", "en", "123456"))
	require.NoError(t, err)

	assert.Equal(t, "wamid.1", id)
	assert.Equal(t, "whatsapp", got.MessagingProduct)
	assert.Equal(t, "919876543210", got.To)
	assert.Equal(t, "template", got.Type)
	require.NotNil(t, got.Template)
	assert.Equal(t, "code2", got.Template.Name)
	assert.Equal(t, "en", got.Template.Language.Code)
	require.Len(t, got.Template.Components, 1)
	assert.Equal(t, "body", got.Template.Components[0].Type)
	assert.Equal(t, []Parameter{{Type: "text", Text: "123456"}}, got.Template.Components[0].Parameters)
}

func TestSendTemplateSurfacesAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"message":"Unsupported post request","type":"GraphMethodException","code":100,"error_subcode":33}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "token", "bad-id", srv.Client())
	_, err := c.SendTemplate(context.Background(), "919876543210", NewTextTemplate("code2", "en", "123456"))

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Contains(t, apiErr.Error(), "invalid phone number id")
}

func TestSendTemplateNonJSONError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream unavailable"))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "token", "1", srv.Client())
	_, err := c.SendTemplate(context.Background(), "919876543210", NewVideoHeaderTemplate("welcome_message", "en", "https://v.example/a.mp4"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
	assert.Contains(t, err.Error(), "upstream unavailable")
}

func TestSendTemplateRequiresCredentials(t *testing.T) {
	c := NewClient("https://graph.example", "", "", nil)
	assert.False(t, c.Configured())

	_, err := c.SendTemplate(context.Background(), "919876543210", NewTextTemplate("code2", "en", "1"))
	assert.ErrorIs(t, err, ErrNotConfigured)
}
