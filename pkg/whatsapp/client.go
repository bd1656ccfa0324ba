// Package whatsapp is a minimal client for the Meta WhatsApp Cloud API
// templated-message endpoint.
package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// ErrNotConfigured is returned when the access token or phone number id is missing
var ErrNotConfigured = errors.New("whatsapp api credentials not configured")

// Client sends template messages through the Cloud API
type Client struct {
	baseURL       string
	accessToken   string
	phoneNumberID string
	httpClient    *http.Client
}

// NewClient creates a Client. httpClient may be nil.
func NewClient(baseURL, accessToken, phoneNumberID string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{
		baseURL:       strings.TrimRight(baseURL, "/"),
		accessToken:   accessToken,
		phoneNumberID: phoneNumberID,
		httpClient:    httpClient,
	}
}

// Configured reports whether credentials are present
func (c *Client) Configured() bool {
	return c.accessToken != "" && c.phoneNumberID != ""
}

// MessageRequest is the body of POST /{phone-number-id}/messages
type MessageRequest struct {
	MessagingProduct string    `json:"messaging_product"`
	To               string    `json:"to"`
	Type             string    `json:"type"`
	Template         *Template `json:"template,omitempty"`
}

// Template names an approved message template
type Template struct {
	Name       string      `json:"name"`
	Language   Language    `json:"language"`
	Components []Component `json:"components,omitempty"`
}

// Language of a template
type Language struct {
	Code string `json:"code"`
}

// Component fills a template section (header, body)
type Component struct {
	Type       string      `json:"type"`
	Parameters []Parameter `json:"parameters"`
}

// Parameter is a template variable
type Parameter struct {
	Type  string `json:"type"`
	Text  string `json:"text,omitempty"`
	Video *Media `json:"video,omitempty"`
}

// Media references hosted media by link
type Media struct {
	Link string `json:"link"`
}

// MessageResponse is the success body
type MessageResponse struct {
	MessagingProduct string `json:"messaging_product"`
	Contacts         []struct {
		Input string `json:"input"`
		WaID  string `json:"wa_id"`
	} `json:"contacts"`
	Messages []struct {
		ID string `json:"id"`
	} `json:"messages"`
}

// APIError is the error body returned on non-2xx responses
type APIError struct {
	StatusCode int
	Message    string `json:"message"`
	Type       string `json:"type"`
	Code       int    `json:"code"`
	Subcode    int    `json:"error_subcode"`
	TraceID    string `json:"fbtrace_id"`
}

func (e *APIError) Error() string {
	if e.Code == 100 && e.Subcode == 33 {
		return fmt.Sprintf("whatsapp api returned status %d: invalid phone number id", e.StatusCode)
	}
	return fmt.Sprintf("whatsapp api returned status %d: %s (code %d)", e.StatusCode, e.Message, e.Code)
}

// NewTextTemplate builds a template whose body has a single text parameter
func NewTextTemplate(name, languageCode, text string) *Template {
	return &Template{
		Name:     name,
		Language: Language{Code: languageCode},
		Components: []Component{
			{
				Type:       "body",
				Parameters: []Parameter{{Type: "text", Text: text}},
			},
		},
	}
}

// NewVideoHeaderTemplate builds a template whose header is a video
func NewVideoHeaderTemplate(name, languageCode, videoURL string) *Template {
	return &Template{
		Name:     name,
		Language: Language{Code: languageCode},
		Components: []Component{
			{
				Type:       "header",
				Parameters: []Parameter{{Type: "video", Video: &Media{Link: videoURL}}},
			},
		},
	}
}

// SendTemplate posts a template message to a country-coded digit string and
// returns the message id.
func (c *Client) SendTemplate(ctx context.Context, to string, tmpl *Template) (string, error) {
	if !c.Configured() {
		return "", ErrNotConfigured
	}

	body, err := json.Marshal(MessageRequest{
		MessagingProduct: "whatsapp",
		To:               to,
		Type:             "template",
		Template:         tmpl,
	})
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s/%s/messages", c.baseURL, c.phoneNumberID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create whatsapp request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send whatsapp request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("failed to read whatsapp response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var envelope struct {
			Error APIError `json:"error"`
		}
		apiErr := &envelope.Error
		if jsonErr := json.Unmarshal(respBody, &envelope); jsonErr != nil || envelope.Error.Message == "" {
			apiErr.Message = strings.TrimSpace(string(respBody))
		}
		apiErr.StatusCode = resp.StatusCode
		return "", apiErr
	}

	var out MessageResponse
	if err := json.Unmarshal(respBody, &out); err != nil {
		return "", fmt.Errorf("failed to decode whatsapp response: %w", err)
	}
	if len(out.Messages) == 0 {
		return "", nil
	}
	return out.Messages[0].ID, nil
}
