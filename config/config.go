package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"hl-ecommerce/payment"
)

// Config holds all runtime configuration, loaded from the environment.
type Config struct {
	Port             string
	MongoURI         string
	JWTSecret        string
	CookieExpireDays int
	AppBaseURL       string
	AllowedOrigins   []string

	PostmarkToken string
	EmailSender   string

	LogFile string

	JazzCash payment.MerchantConfig
}

// Load reads configuration from the environment (and a .env file when
// present) and validates it. Missing required values are a startup error:
// signing payment requests with empty credentials must never happen.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found. Proceeding with environment variables.")
	}

	cookieDays := 7
	if v := os.Getenv("COOKIE_EXPIRE"); v != "" {
		d, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid COOKIE_EXPIRE %q: %w", v, err)
		}
		cookieDays = d
	}

	cfg := Config{
		Port:             getEnv("PORT", "8000"),
		MongoURI:         os.Getenv("MONGO_URI"),
		JWTSecret:        os.Getenv("JWT_SECRET_KEY"),
		CookieExpireDays: cookieDays,
		AppBaseURL:       os.Getenv("APP_BASE_URL"),
		AllowedOrigins:   splitOrigins(os.Getenv("ALLOWED_ORIGINS")),
		PostmarkToken:    os.Getenv("POSTMARK_API_TOKEN"),
		EmailSender:      os.Getenv("EMAIL_SENDER"),
		LogFile:          getEnv("LOG_FILE", "./logs/app.log"),
		JazzCash: payment.MerchantConfig{
			MerchantID:    os.Getenv("JAZZCASH_MERCHANT_ID"),
			Password:      os.Getenv("JAZZCASH_PASSWORD"),
			IntegritySalt: os.Getenv("JAZZCASH_INTEGRITY_SALT"),
			ReturnURL:     os.Getenv("APP_BASE_URL") + "/api/payment/jazzcash/response",
			Currency:      getEnv("JAZZCASH_CURRENCY", "PKR"),
			Language:      getEnv("JAZZCASH_LANGUAGE", "EN"),
			Version:       getEnv("JAZZCASH_VERSION", "1.1"),
			Environment:   getEnv("JAZZCASH_ENV", "sandbox"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate fails fast on missing required values.
func (c Config) Validate() error {
	if c.MongoURI == "" {
		return fmt.Errorf("MONGO_URI required")
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET_KEY required")
	}
	if c.AppBaseURL == "" {
		return fmt.Errorf("APP_BASE_URL required")
	}
	if c.PostmarkToken == "" {
		return fmt.Errorf("POSTMARK_API_TOKEN required")
	}
	if err := c.JazzCash.Validate(); err != nil {
		return fmt.Errorf("jazzcash config: %w", err)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func splitOrigins(s string) []string {
	if s == "" {
		return []string{"http://localhost:5000"}
	}
	parts := strings.Split(s, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}
