package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("GO_ENV", "local")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "91", cfg.Phone.CountryCode)
	assert.Equal(t, 5*time.Minute, cfg.OTP.TTL)
	assert.Equal(t, 4*time.Second, cfg.OTP.SendTimeout)
	assert.Equal(t, "whatsapp", cfg.OTP.Provider)
	assert.Equal(t, "code2", cfg.WhatsApp.OTPTemplateName)
	assert.False(t, cfg.WhatsApp.WelcomeEnabled)
	assert.NotEmpty(t, cfg.Admin.JWTSecret)
	assert.Empty(t, cfg.TrustedProxies)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("OTP_TTL", "90s")
	t.Setenv("OTP_PROVIDER", "NOOP")
	t.Setenv("CORS_ALLOWED_ORIGINS", " https://a.example , ,https://b.example")
	t.Setenv("WHATSAPP_WELCOME_ENABLED", "true")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("TRUSTED_PROXIES", "10.0.0.0/8, 192.168.1.7")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 90*time.Second, cfg.OTP.TTL)
	assert.Equal(t, "noop", cfg.OTP.Provider)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
	assert.True(t, cfg.WhatsApp.WelcomeEnabled)
	assert.Equal(t, 3, cfg.Redis.DB)
	assert.Equal(t, []string{"10.0.0.0/8", "192.168.1.7"}, cfg.TrustedProxies)
}

func TestLoadRejectsMalformedValues(t *testing.T) {
	t.Setenv("OTP_TTL", "five minutes")

	_, err := Load()
	assert.ErrorContains(t, err, "OTP_TTL")
}

func TestValidateProductionRequirements(t *testing.T) {
	t.Setenv("GO_ENV", "production")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CORS_ALLOWED_ORIGINS")
	assert.Contains(t, err.Error(), "ADMIN_JWT_SECRET")
}

func TestValidateBootstrapPair(t *testing.T) {
	t.Setenv("ADMIN_BOOTSTRAP_EMAIL", "admin@example.com")

	_, err := Load()
	assert.ErrorContains(t, err, "ADMIN_BOOTSTRAP_PASSWORD")
}

func TestWhatsAppConfigured(t *testing.T) {
	cfg := &Config{}
	assert.False(t, cfg.WhatsAppConfigured())

	cfg.WhatsApp.AccessToken = "token"
	cfg.WhatsApp.PhoneNumberID = "12345"
	assert.True(t, cfg.WhatsAppConfigured())
}
