package service

import (
	"context"
	"fmt"

	"membership-backend/pkg/whatsapp"

	"github.com/rs/zerolog/log"
)

// OTPProvider defines the interface for delivering an OTP to a phone
type OTPProvider interface {
	Name() string
	Configured() bool
	SendOTP(ctx context.Context, phoneNumber, code string) error
}

// noOpProvider skips OTP sending (for local environment)
type noOpProvider struct{}

func (n *noOpProvider) Name() string     { return "noop" }
func (n *noOpProvider) Configured() bool { return true }

func (n *noOpProvider) SendOTP(ctx context.Context, phoneNumber, code string) error {
	log.Info().Str("phone_number", phoneNumber).Str("otp", code).Msg("[OTP NoOp] skipping delivery")
	return nil
}

// NewNoOpProvider creates a no-op OTP provider
func NewNoOpProvider() OTPProvider {
	return &noOpProvider{}
}

// whatsAppProvider sends OTP as a WhatsApp authentication template
type whatsAppProvider struct {
	client       *whatsapp.Client
	templateName string
	language     string
}

func (w *whatsAppProvider) Name() string     { return "whatsapp" }
func (w *whatsAppProvider) Configured() bool { return w.client.Configured() }

func (w *whatsAppProvider) SendOTP(ctx context.Context, phoneNumber, code string) error {
	tmpl := whatsapp.NewTextTemplate(w.templateName, w.language, code)
	id, err := w.client.SendTemplate(ctx, phoneNumber, tmpl)
	if err != nil {
		return fmt.Errorf("failed to send OTP via WhatsApp: %w", err)
	}

	log.Info().Str("phone_number", phoneNumber).Str("message_id", id).Msg("[OTP WhatsApp] sent OTP")
	return nil
}

// NewWhatsAppProvider creates a WhatsApp Cloud API OTP provider
func NewWhatsAppProvider(client *whatsapp.Client, templateName, language string) OTPProvider {
	return &whatsAppProvider{
		client:       client,
		templateName: templateName,
		language:     language,
	}
}
