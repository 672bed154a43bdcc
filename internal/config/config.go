// Package config reads service settings from the environment and an optional
// .env file.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/muhammadolammi/hireflow/internal/completion"
	"github.com/muhammadolammi/hireflow/internal/parser"
	"github.com/muhammadolammi/hireflow/internal/storage"
	"github.com/muhammadolammi/hireflow/internal/upload"
)

type Config struct {
	Port            string
	DatabaseURL     string
	R2              storage.R2Config
	RabbitMQURL     string
	GoogleAPIKey    string
	GeminiModel     string
	JWTSecret       string
	JWTIssuer       string
	MaxUploadBytes  int64
	Parse           parser.Policy
	AIDisabled      bool
	ShutdownTimeout time.Duration
}

func setDefaults(v *viper.Viper) {
	policy := parser.DefaultPolicy()

	v.SetDefault("PORT", "8080")
	v.SetDefault("R2_PUBLIC_READ", true)
	v.SetDefault("GEMINI_MODEL", completion.DefaultModel)
	v.SetDefault("MAX_UPLOAD_BYTES", upload.DefaultMaxBytes)
	v.SetDefault("MAX_PARSE_ATTEMPTS", policy.MaxAttempts)
	v.SetDefault("PARSE_BASE_RETRY_DELAY", policy.BaseRetryDelay)
	v.SetDefault("PARSE_MAX_RETRY_DELAY", policy.MaxRetryDelay)
	v.SetDefault("PARSED_TEXT_MAX_CHARS", policy.MaxTextChars)
	v.SetDefault("PARSED_SUMMARY_MAX_CHARS", policy.MaxSummaryChars)
	v.SetDefault("AI_DISABLED", false)
	v.SetDefault("SHUTDOWN_TIMEOUT", 15*time.Second)
}

// Load reads .env when present, then the environment, into a validated
// Config. Values already in the environment win over .env.
func Load(v *viper.Viper) (*Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	v.AutomaticEnv()
	setDefaults(v)

	cfg := &Config{
		Port:        v.GetString("PORT"),
		DatabaseURL: v.GetString("DB_URL"),
		R2: storage.R2Config{
			AccountID:     v.GetString("R2_ACCOUNT_ID"),
			Bucket:        v.GetString("R2_BUCKET"),
			AccessKey:     v.GetString("R2_ACCESS_KEY"),
			SecretKey:     v.GetString("R2_SECRET_KEY"),
			Endpoint:      v.GetString("R2_ENDPOINT"),
			PublicBaseURL: v.GetString("R2_PUBLIC_BASE_URL"),
			PublicRead:    v.GetBool("R2_PUBLIC_READ"),
		},
		RabbitMQURL:    v.GetString("RABBITMQ_URL"),
		GoogleAPIKey:   v.GetString("GOOGLE_API_KEY"),
		GeminiModel:    v.GetString("GEMINI_MODEL"),
		JWTSecret:      v.GetString("JWT_SECRET"),
		JWTIssuer:      v.GetString("JWT_ISSUER"),
		MaxUploadBytes: v.GetInt64("MAX_UPLOAD_BYTES"),
		Parse: parser.Policy{
			MaxAttempts:     v.GetInt("MAX_PARSE_ATTEMPTS"),
			BaseRetryDelay:  v.GetDuration("PARSE_BASE_RETRY_DELAY"),
			MaxRetryDelay:   v.GetDuration("PARSE_MAX_RETRY_DELAY"),
			MaxTextChars:    v.GetInt("PARSED_TEXT_MAX_CHARS"),
			MaxSummaryChars: v.GetInt("PARSED_SUMMARY_MAX_CHARS"),
		},
		AIDisabled:      v.GetBool("AI_DISABLED"),
		ShutdownTimeout: v.GetDuration("SHUTDOWN_TIMEOUT"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports every missing or inconsistent setting at once.
func (c *Config) Validate() error {
	var errs []error

	if strings.TrimSpace(c.DatabaseURL) == "" {
		errs = append(errs, errors.New("empty DB_URL in environment"))
	}
	if err := c.R2.Validate(); err != nil {
		errs = append(errs, err)
	}
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("empty JWT_SECRET in environment"))
	}
	if c.MaxUploadBytes <= 0 {
		errs = append(errs, fmt.Errorf("MAX_UPLOAD_BYTES must be positive, got %d", c.MaxUploadBytes))
	}

	p := c.Parse
	if p.MaxAttempts < 1 {
		errs = append(errs, fmt.Errorf("MAX_PARSE_ATTEMPTS must be at least 1, got %d", p.MaxAttempts))
	}
	if p.BaseRetryDelay <= 0 || p.MaxRetryDelay < p.BaseRetryDelay {
		errs = append(errs, fmt.Errorf("parse retry delays must satisfy 0 < base (%s) <= max (%s)", p.BaseRetryDelay, p.MaxRetryDelay))
	}
	if p.MaxSummaryChars <= 0 || p.MaxTextChars < p.MaxSummaryChars {
		errs = append(errs, fmt.Errorf("parsed size limits must satisfy 0 < summary (%d) <= text (%d)", p.MaxSummaryChars, p.MaxTextChars))
	}

	return errors.Join(errs...)
}

// AIEnabled reports whether completion calls should be attempted.
func (c *Config) AIEnabled() bool {
	return !c.AIDisabled && c.GoogleAPIKey != ""
}
