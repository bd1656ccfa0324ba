package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"strings"
	"time"

	"membership-backend/internal/apps/membership/models"
	"membership-backend/pkg/whatsapp"

	"gopkg.in/gomail.v2"
)

// WebhookNotifier forwards a stored application to the external workflow endpoint
type WebhookNotifier interface {
	Notify(ctx context.Context, payload models.WebhookPayload) error
}

// WelcomeSender messages an applicant after submission
type WelcomeSender interface {
	SendWelcome(ctx context.Context, phoneNumber string) error
}

// Mailer emails an applicant an acknowledgement
type Mailer interface {
	SendAcknowledgement(ctx context.Context, app *models.MembershipApplication) error
}

// httpWebhookNotifier posts JSON with Basic Auth
type httpWebhookNotifier struct {
	url      string
	username string
	password string
	client   *http.Client
}

// NewWebhookNotifier creates a WebhookNotifier. Credentials are optional.
func NewWebhookNotifier(url, username, password string, timeout time.Duration) WebhookNotifier {
	return &httpWebhookNotifier{
		url:      url,
		username: username,
		password: password,
		client:   &http.Client{Timeout: timeout},
	}
}

func (n *httpWebhookNotifier) Notify(ctx context.Context, payload models.WebhookPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if n.username != "" || n.password != "" {
		req.SetBasicAuth(n.username, n.password)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to post webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("webhook returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}
	return nil
}

// whatsAppWelcomeSender sends the welcome template with a video header
type whatsAppWelcomeSender struct {
	client       *whatsapp.Client
	templateName string
	language     string
	videoURL     string
}

// NewWhatsAppWelcomeSender creates a WelcomeSender backed by the Cloud API
func NewWhatsAppWelcomeSender(client *whatsapp.Client, templateName, language, videoURL string) WelcomeSender {
	return &whatsAppWelcomeSender{
		client:       client,
		templateName: templateName,
		language:     language,
		videoURL:     videoURL,
	}
}

func (w *whatsAppWelcomeSender) SendWelcome(ctx context.Context, phoneNumber string) error {
	tmpl := whatsapp.NewVideoHeaderTemplate(w.templateName, w.language, w.videoURL)
	if _, err := w.client.SendTemplate(ctx, phoneNumber, tmpl); err != nil {
		return fmt.Errorf("failed to send welcome message: %w", err)
	}
	return nil
}

var acknowledgementTemplate = template.Must(template.New("ack").Parse(`<p>Dear {{.Name}},</p>
<p>Thank you for applying for membership. Your application from {{.RevenueDistrict}} ({{.AssemblyConstituency}}) has been received and is now <strong>{{.ApplicationStatus}}</strong>.</p>
<p>Reference: {{.ID}}</p>`))

// smtpMailer sends mail through gomail
type smtpMailer struct {
	dialer *gomail.Dialer
	from   string
}

// NewSMTPMailer creates a Mailer
func NewSMTPMailer(host string, port int, username, password, from string) Mailer {
	return &smtpMailer{
		dialer: gomail.NewDialer(host, port, username, password),
		from:   from,
	}
}

// buildAcknowledgement renders the acknowledgement message for app
func buildAcknowledgement(from string, app *models.MembershipApplication) (*gomail.Message, error) {
	var body bytes.Buffer
	if err := acknowledgementTemplate.Execute(&body, app); err != nil {
		return nil, err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", from)
	m.SetHeader("To", *app.Email)
	m.SetHeader("Subject", "Membership application received")
	m.SetBody("text/html", body.String())
	return m, nil
}

func (s *smtpMailer) SendAcknowledgement(ctx context.Context, app *models.MembershipApplication) error {
	if app.Email == nil || *app.Email == "" {
		return nil
	}
	m, err := buildAcknowledgement(s.from, app)
	if err != nil {
		return err
	}

	done := make(chan error, 1)
	go func() { done <- s.dialer.DialAndSend(m) }()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("failed to send acknowledgement email: %w", err)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
