package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds every setting the server needs. It is built once at startup
// and handed to constructors; nothing else reads the environment.
type Config struct {
	Env      string
	Port     string
	GinMode  string
	LogLevel string

	CORSAllowedOrigins []string

	// TrustedProxies lists proxy IPs/CIDRs whose forwarding headers are
	// believed. Empty means the client IP is always the socket peer.
	TrustedProxies []string

	Database DatabaseConfig
	Redis    RedisConfig
	Phone    PhoneConfig
	OTP      OTPConfig
	WhatsApp WhatsAppConfig
	Webhook  WebhookConfig
	SMTP     SMTPConfig
	Admin    AdminConfig
}

// DatabaseConfig holds Postgres connection settings
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// RedisConfig is optional; an empty Addr disables the OTP request throttle
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// PhoneConfig controls phone normalization
type PhoneConfig struct {
	CountryCode string
}

// OTPConfig controls OTP issuance and verification
type OTPConfig struct {
	Provider           string
	TTL                time.Duration
	VerificationWindow time.Duration
	CleanupInterval    time.Duration
	SendTimeout        time.Duration
	MaxRequestsPerHour int
}

// WhatsAppConfig holds Meta Cloud API credentials and template names
type WhatsAppConfig struct {
	APIBaseURL          string
	AccessToken         string
	PhoneNumberID       string
	OTPTemplateName     string
	OTPTemplateLanguage string

	WelcomeEnabled      bool
	WelcomeTemplateName string
	WelcomeLanguage     string
	WelcomeVideoURL     string
}

// WebhookConfig is the submission notification endpoint. Credentials stay server-side.
type WebhookConfig struct {
	URL      string
	Username string
	Password string
	Timeout  time.Duration
}

// SMTPConfig is optional; an empty Host disables applicant acknowledgement emails
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// AdminConfig controls admin authentication
type AdminConfig struct {
	JWTSecret         string
	TokenTTL          time.Duration
	BootstrapEmail    string
	BootstrapPassword string
	BootstrapName     string
}

// Load builds a Config from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Env:      getEnv("GO_ENV", "local"),
		Port:     getEnv("PORT", "8080"),
		GinMode:  getEnv("GIN_MODE", "release"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		CORSAllowedOrigins: parseList(getEnv("CORS_ALLOWED_ORIGINS", "")),
		TrustedProxies:     parseList(getEnv("TRUSTED_PROXIES", "")),

		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "membership"),
			SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
		},
		Phone: PhoneConfig{
			CountryCode: getEnv("PHONE_COUNTRY_CODE", "91"),
		},
		OTP: OTPConfig{
			Provider: strings.ToLower(getEnv("OTP_PROVIDER", "whatsapp")),
		},
		WhatsApp: WhatsAppConfig{
			APIBaseURL:          getEnv("WHATSAPP_API_BASE_URL", "https://graph.facebook.com/v19.0"),
			AccessToken:         getEnv("WHATSAPP_ACCESS_TOKEN", ""),
			PhoneNumberID:       getEnv("WHATSAPP_PHONE_NUMBER_ID", ""),
			OTPTemplateName:     getEnv("WHATSAPP_OTP_TEMPLATE", "code2"),
			OTPTemplateLanguage: getEnv("WHATSAPP_OTP_TEMPLATE_LANGUAGE", "en"),
			WelcomeTemplateName: getEnv("WHATSAPP_WELCOME_TEMPLATE", "welcome_message"),
			WelcomeLanguage:     getEnv("WHATSAPP_WELCOME_LANGUAGE", "en"),
			WelcomeVideoURL:     getEnv("WHATSAPP_WELCOME_VIDEO_URL", ""),
		},
		Webhook: WebhookConfig{
			URL:      getEnv("WEBHOOK_URL", ""),
			Username: getEnv("WEBHOOK_USERNAME", ""),
			Password: getEnv("WEBHOOK_PASSWORD", ""),
		},
		SMTP: SMTPConfig{
			Host:     getEnv("SMTP_HOST", ""),
			Username: getEnv("SMTP_USERNAME", ""),
			Password: getEnv("SMTP_PASSWORD", ""),
			From:     getEnv("SMTP_FROM", ""),
		},
		Admin: AdminConfig{
			JWTSecret:         getEnv("ADMIN_JWT_SECRET", ""),
			BootstrapEmail:    getEnv("ADMIN_BOOTSTRAP_EMAIL", ""),
			BootstrapPassword: getEnv("ADMIN_BOOTSTRAP_PASSWORD", ""),
			BootstrapName:     getEnv("ADMIN_BOOTSTRAP_NAME", "Administrator"),
		},
	}

	var err error
	if cfg.Redis.DB, err = getEnvInt("REDIS_DB", 0); err != nil {
		return nil, err
	}
	if cfg.SMTP.Port, err = getEnvInt("SMTP_PORT", 587); err != nil {
		return nil, err
	}
	if cfg.OTP.MaxRequestsPerHour, err = getEnvInt("OTP_MAX_REQUESTS_PER_HOUR", 5); err != nil {
		return nil, err
	}
	if cfg.WhatsApp.WelcomeEnabled, err = getEnvBool("WHATSAPP_WELCOME_ENABLED", false); err != nil {
		return nil, err
	}

	durations := []struct {
		key string
		def time.Duration
		dst *time.Duration
	}{
		{"OTP_TTL", 5 * time.Minute, &cfg.OTP.TTL},
		{"OTP_VERIFICATION_WINDOW", time.Hour, &cfg.OTP.VerificationWindow},
		{"OTP_CLEANUP_INTERVAL", 10 * time.Minute, &cfg.OTP.CleanupInterval},
		{"OTP_SEND_TIMEOUT", 4 * time.Second, &cfg.OTP.SendTimeout},
		{"WEBHOOK_TIMEOUT", 10 * time.Second, &cfg.Webhook.Timeout},
		{"ADMIN_TOKEN_TTL", 12 * time.Hour, &cfg.Admin.TokenTTL},
	}
	for _, d := range durations {
		if *d.dst, err = getEnvDuration(d.key, d.def); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects configurations the server cannot run with
func (c *Config) Validate() error {
	var errs []error

	if c.IsProduction() {
		if len(c.CORSAllowedOrigins) == 0 {
			errs = append(errs, errors.New("CORS_ALLOWED_ORIGINS must be set in production"))
		}
		if c.Admin.JWTSecret == "" {
			errs = append(errs, errors.New("ADMIN_JWT_SECRET must be set in production"))
		}
	}
	if c.Admin.JWTSecret == "" {
		// local runs get a throwaway secret so the admin API still works
		c.Admin.JWTSecret = "local-development-secret"
	}
	if c.OTP.Provider != "whatsapp" && c.OTP.Provider != "noop" {
		errs = append(errs, fmt.Errorf("OTP_PROVIDER must be 'whatsapp' or 'noop', got %q", c.OTP.Provider))
	}
	if c.OTP.TTL <= 0 {
		errs = append(errs, errors.New("OTP_TTL must be positive"))
	}
	if c.Phone.CountryCode == "" || strings.Trim(c.Phone.CountryCode, "0123456789") != "" {
		errs = append(errs, fmt.Errorf("PHONE_COUNTRY_CODE must be digits, got %q", c.Phone.CountryCode))
	}
	if (c.Admin.BootstrapEmail == "") != (c.Admin.BootstrapPassword == "") {
		errs = append(errs, errors.New("ADMIN_BOOTSTRAP_EMAIL and ADMIN_BOOTSTRAP_PASSWORD must be set together"))
	}

	return errors.Join(errs...)
}

// IsProduction reports whether GO_ENV names a production deployment
func (c *Config) IsProduction() bool {
	return c.Env == "prod" || c.Env == "production"
}

// WhatsAppConfigured reports whether Meta Cloud API credentials are present
func (c *Config) WhatsAppConfigured() bool {
	return c.WhatsApp.AccessToken != "" && c.WhatsApp.PhoneNumberID != ""
}

// getEnv retrieves environment variable or returns default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return v, nil
}

func getEnvBool(key string, defaultValue bool) (bool, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}
	return v, nil
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return v, nil
}

func parseList(raw string) []string {
	var result []string
	for _, p := range strings.Split(raw, ",") {
		trimmed := strings.TrimSpace(p)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
