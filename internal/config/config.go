package config

import (
	"time"

	"github.com/caarlos0/env/v10"
)

type Config struct {
	Environment Environment
	Log         Log
	HTTP        HTTPServer
	UploadsDir  string `env:"UPLOADS_DIR" envDefault:"uploads"`
	PublicDir   string `env:"PUBLIC_DIR" envDefault:"public"`
	WebhookURL  string `env:"NOTIFY_WEBHOOK_URL"`

	Email   Email   `envPrefix:"EMAIL_"`
	Storage Storage `envPrefix:"STORAGE_"`
	Admin   Admin   `envPrefix:"ADMIN_"`
}

// Email holds the outbound SMTP account. The service refuses to start
// without USER and PASS.
type Email struct {
	User     string `env:"USER,notEmpty"`
	Pass     string `env:"PASS,notEmpty"`
	SMTPHost string `env:"SMTP_HOST" envDefault:"smtp.gmail.com"`
	SMTPPort int    `env:"SMTP_PORT" envDefault:"587"`
	FromName string `env:"FROM_NAME" envDefault:"Key Store"`
}

type Storage struct {
	Driver      string `env:"DRIVER" envDefault:"file"` // file, sqlite, mysql
	KeysFile    string `env:"KEYS_FILE" envDefault:"keys.json"`
	OrdersFile  string `env:"ORDERS_FILE" envDefault:"orders.json"`
	DatabaseURL string `env:"DATABASE_URL"`
	SeedFile    string `env:"SEED_FILE"`
}

type Admin struct {
	Username     string        `env:"USERNAME" envDefault:"admin"`
	PasswordHash string        `env:"PASSWORD_HASH"`
	JWTSecret    string        `env:"JWT_SECRET"`
	TokenTTL     time.Duration `env:"TOKEN_TTL" envDefault:"12h"`
}

type Environment struct {
	Name string `env:"ENVIRONMENT" envDefault:"development"`
}

type Log struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

type HTTPServer struct {
	Host string `env:"HTTP_HOST" envDefault:"0.0.0.0"`
	Port string `env:"PORT" envDefault:"3000"`
}

// Load parses the process environment into a Config.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// AdminGateEnabled reports whether admin routes require a bearer token.
func (c *Config) AdminGateEnabled() bool {
	return c.Admin.PasswordHash != ""
}
