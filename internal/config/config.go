package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config structure represents the application configuration
type Config struct {
	Server struct {
		Port           string   `yaml:"port" env:"SERVER_PORT"`
		Mode           string   `yaml:"mode" env:"SERVER_MODE"`
		StoragePath    string   `yaml:"storage_path" env:"STORAGE_PATH"`
		PublicURL      string   `yaml:"public_url" env:"PUBLIC_URL"`
		AllowedOrigins []string `yaml:"allowed_origins" env:"ALLOWED_ORIGINS"`
	} `yaml:"server"`

	Database struct {
		Host            string `yaml:"host" env:"DB_HOST"`
		Port            string `yaml:"port" env:"DB_PORT"`
		User            string `yaml:"user" env:"DB_USER"`
		Password        string `yaml:"password" env:"DB_PASSWORD"`
		DBName          string `yaml:"dbname" env:"DB_NAME"`
		SSLMode         string `yaml:"sslmode" env:"DB_SSLMODE"`
		MaxIdleConns    int    `yaml:"max_idle_conns" env:"DB_MAX_IDLE_CONNS"`
		MaxOpenConns    int    `yaml:"max_open_conns" env:"DB_MAX_OPEN_CONNS"`
		ConnMaxLifetime string `yaml:"conn_max_lifetime" env:"DB_CONN_MAX_LIFETIME"`
	} `yaml:"database"`

	JWT struct {
		Secret                 string `yaml:"secret" env:"JWT_SECRET"`
		AccessTokenExpiration  string `yaml:"access_token_expiration" env:"JWT_ACCESS_TOKEN_EXPIRATION"`
		RefreshTokenExpiration string `yaml:"refresh_token_expiration" env:"JWT_REFRESH_TOKEN_EXPIRATION"`
		Issuer                 string `yaml:"issuer" env:"JWT_ISSUER"`
	} `yaml:"jwt"`

	Logging struct {
		Level  string `yaml:"level" env:"LOG_LEVEL"`
		Format string `yaml:"format" env:"LOG_FORMAT"`
	} `yaml:"logging"`

	SMTP struct {
		Host     string `yaml:"host" env:"SMTP_HOST"`
		Port     int    `yaml:"port" env:"SMTP_PORT"`
		Username string `yaml:"username" env:"SMTP_USERNAME"`
		Password string `yaml:"password" env:"SMTP_PASSWORD"`
		From     string `yaml:"from" env:"SMTP_FROM"`
	} `yaml:"smtp"`

	Scheduler struct {
		Interval string `yaml:"interval" env:"SCHEDULER_INTERVAL"`
		Enabled  bool   `yaml:"enabled" env:"SCHEDULER_ENABLED"`
	} `yaml:"scheduler"`

	Seed struct {
		AdminEmail    string `yaml:"admin_email" env:"SEED_ADMIN_EMAIL"`
		AdminPassword string `yaml:"admin_password" env:"SEED_ADMIN_PASSWORD"`
		AdminName     string `yaml:"admin_name" env:"SEED_ADMIN_NAME"`
		DemoData      bool   `yaml:"demo_data" env:"SEED_DEMO_DATA"`
	} `yaml:"seed"`
}

// LoadConfig reads .env (if any), then the YAML file (if any), then environment overrides
func LoadConfig(configPath string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	config := &Config{}
	setDefaults(config)

	if file, err := os.ReadFile(configPath); err == nil {
		if err := yaml.Unmarshal(file, config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := applyEnvOverrides(config); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

func setDefaults(config *Config) {
	config.Server.Port = "8080"
	config.Server.Mode = "development"
	config.Server.StoragePath = "./uploads"
	config.Server.PublicURL = "http://localhost:8080"
	config.Server.AllowedOrigins = []string{"http://localhost:3000"}

	config.Database.Host = "localhost"
	config.Database.Port = "5432"
	config.Database.User = "postgres"
	config.Database.Password = "postgres"
	config.Database.DBName = "alumniconnect"
	config.Database.SSLMode = "disable"
	config.Database.MaxIdleConns = 5
	config.Database.MaxOpenConns = 20
	config.Database.ConnMaxLifetime = "1h"

	config.JWT.AccessTokenExpiration = "1h"
	config.JWT.RefreshTokenExpiration = "720h"
	config.JWT.Issuer = "alumniconnect"

	config.Logging.Level = "info"
	config.Logging.Format = "json"

	config.SMTP.Port = 587

	config.Scheduler.Interval = "5m"
	config.Scheduler.Enabled = true

	config.Seed.AdminEmail = "admin@alumniconnect.local"
	config.Seed.AdminName = "Platform Admin"
}

func validateConfig(config *Config) error {
	if config.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}
	if config.JWT.Secret == "" {
		return fmt.Errorf("JWT secret is required")
	}
	if _, err := time.ParseDuration(config.JWT.AccessTokenExpiration); err != nil {
		return fmt.Errorf("invalid JWT access token expiration format: %w", err)
	}
	if _, err := time.ParseDuration(config.JWT.RefreshTokenExpiration); err != nil {
		return fmt.Errorf("invalid JWT refresh token expiration format: %w", err)
	}
	if _, err := time.ParseDuration(config.Database.ConnMaxLifetime); err != nil {
		return fmt.Errorf("invalid database connection lifetime: %w", err)
	}
	if d, err := time.ParseDuration(config.Scheduler.Interval); err != nil || d <= 0 {
		return fmt.Errorf("invalid scheduler interval %q", config.Scheduler.Interval)
	}
	if _, err := url.ParseRequestURI(config.Server.PublicURL); err != nil {
		return fmt.Errorf("invalid public url: %w", err)
	}
	if config.Server.StoragePath == "" {
		return fmt.Errorf("storage path is required")
	}
	return nil
}

// GetPostgresConnectionString returns postgres connection string
func (c *Config) GetPostgresConnectionString() string {
	sslMode := c.Database.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.Database.User, c.Database.Password),
		Host:     c.Database.Host + ":" + c.Database.Port,
		Path:     c.Database.DBName,
		RawQuery: "sslmode=" + url.QueryEscape(sslMode),
	}
	return u.String()
}

// AccessTokenTTL is the parsed access token lifetime; validated on load
func (c *Config) AccessTokenTTL() time.Duration {
	d, _ := time.ParseDuration(c.JWT.AccessTokenExpiration)
	return d
}

// RefreshTokenTTL is the parsed refresh token lifetime; validated on load
func (c *Config) RefreshTokenTTL() time.Duration {
	d, _ := time.ParseDuration(c.JWT.RefreshTokenExpiration)
	return d
}

// SchedulerInterval is the parsed scheduler tick; validated on load
func (c *Config) SchedulerInterval() time.Duration {
	d, _ := time.ParseDuration(c.Scheduler.Interval)
	return d
}

// ConnMaxLifetime is the parsed pool connection lifetime; validated on load
func (c *Config) ConnMaxLifetime() time.Duration {
	d, _ := time.ParseDuration(c.Database.ConnMaxLifetime)
	return d
}

// IsProduction reports whether the server runs in release mode
func (c *Config) IsProduction() bool {
	return c.Server.Mode == "production" || c.Server.Mode == "release"
}
