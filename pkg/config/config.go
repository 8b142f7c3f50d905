package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// AppConfig contains application configuration
type AppConfig struct {
	Host    string `env:"APP_HOST" env-default:"localhost"`
	Port    uint16 `env:"APP_PORT" env-default:"8080"`
	BaseURL string `env:"APP_BASE_URL" env-default:"http://localhost:8080"`
}

// Addr returns the host:port listen address
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%d", a.Host, a.Port)
}

// DatabaseConfig holds PostgreSQL database configuration
type DatabaseConfig struct {
	Host     string `env:"ACCOUNTS_PG_HOST" env-default:"localhost"`
	Port     uint16 `env:"ACCOUNTS_PG_PORT" env-default:"5432"`
	Database string `env:"ACCOUNTS_PG_DATABASE" env-default:"accounts_db"`
	User     string `env:"ACCOUNTS_PG_USER" env-default:"accounts"`
	Password string `env:"ACCOUNTS_PG_PASSWORD" env-default:"pwd"`
	Schema   string `env:"ACCOUNTS_PG_SCHEMA" env-default:"public"`
}

// ToDatabaseURL converts the config to a PostgreSQL connection URL
func (d DatabaseConfig) ToDatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable&search_path=%s,public",
		d.User, d.Password, d.Host, d.Port, d.Database, d.Schema)
}

// JwtConfig holds the signing secrets and expiry windows for the two signed
// token kinds. Each kind has its own secret so a leaked access secret does
// not compromise refresh tokens.
type JwtConfig struct {
	AccessSecret       string        `env:"JWT_ACCESS_SECRET" env-default:"very-secure-jwt-secret"`
	RefreshSecret      string        `env:"JWT_REFRESH_SECRET" env-default:"very-secure-jwt-refresh-secret"`
	AccessTokenExpiry  time.Duration `env:"ACCESS_TOKEN_EXPIRY" env-default:"30m"`
	RefreshTokenExpiry time.Duration `env:"REFRESH_TOKEN_EXPIRY" env-default:"168h"`
	Issuer             string        `env:"JWT_ISSUER" env-default:"simple-accounts"`
	Audience           string        `env:"JWT_AUDIENCE" env-default:"public"`
}

// EmailConfig holds SMTP settings for outbound notification email
type EmailConfig struct {
	Host     string `env:"SMTP_HOST" env-default:"localhost"`
	Port     int    `env:"SMTP_PORT" env-default:"1025"`
	Username string `env:"SMTP_USERNAME" env-default:""`
	Password string `env:"SMTP_PASSWORD" env-default:""`
	From     string `env:"SMTP_FROM" env-default:"noreply@example.com"`
	TLS      bool   `env:"SMTP_TLS" env-default:"false"`
}

// Config is the immutable process configuration, loaded once at startup and
// passed by injection into constructors.
type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Jwt      JwtConfig
	Email    EmailConfig
}

// Load reads the configuration from environment variables
func Load() (Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}
