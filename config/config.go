package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// DatabaseName is the fixed MongoDB database holding the contacts collection.
const DatabaseName = "portfolio"

type Config struct {
	Port    string `envconfig:"PORT" default:"8000"`
	GinMode string `envconfig:"GIN_MODE" default:"debug"`
	// LogLevel accepts zap level names (debug, info, warn, error)
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// MongoDB
	MongoURL            string        `envconfig:"MONGODB_URL" default:"mongodb://localhost:27017"`
	MongoConnectTimeout time.Duration `envconfig:"MONGODB_CONNECT_TIMEOUT" default:"10s"`

	// SMTP Configuration. Validated by the email service, not here.
	SMTPServer     string `envconfig:"SMTP_SERVER"`
	SMTPPort       int    `envconfig:"SMTP_PORT"`
	SenderEmail    string `envconfig:"SENDER_EMAIL"`
	SenderPassword string `envconfig:"SENDER_PASSWORD"`
	AdminEmail     string `envconfig:"ADMIN_EMAIL"` // Falls back to SenderEmail

	AllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS" default:"http://localhost:3000,http://127.0.0.1:3000,https://your-portfolio-domain.com"`
}

func LoadConfig() (*Config, error) {
	// Load .env file (only useful locally, ignored when the file is absent)
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	cfg.SMTPServer = strings.TrimSpace(cfg.SMTPServer)
	cfg.SenderEmail = strings.TrimSpace(cfg.SenderEmail)
	cfg.SenderPassword = strings.TrimSpace(cfg.SenderPassword)
	cfg.AdminEmail = strings.TrimSpace(cfg.AdminEmail)
	if cfg.AdminEmail == "" {
		cfg.AdminEmail = cfg.SenderEmail
	}

	origins := cfg.AllowedOrigins[:0]
	for _, o := range cfg.AllowedOrigins {
		// Sanitize: trailing slashes never match a browser Origin header
		if o = strings.TrimRight(strings.TrimSpace(o), "/"); o != "" {
			origins = append(origins, o)
		}
	}
	cfg.AllowedOrigins = origins

	return &cfg, nil
}
