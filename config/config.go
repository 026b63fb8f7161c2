package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the settings read from the environment.
type Config struct {
	App    AppConfig
	Log    LogConfig
	Auth   AuthConfig
	Ledger LedgerConfig
}

type AppConfig struct {
	Host        string
	Port        string
	Env         string
	FrontendURL string
}

type LogConfig struct {
	Level string
	// Dir holds the rotated app.log; empty logs to stdout only.
	Dir        string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

type AuthConfig struct {
	JWTSecret             string
	TokenTTL              time.Duration
	AdminUsername         string
	AdminPassword         string
	DriverDefaultPassword string
}

type LedgerConfig struct {
	// CarryForwardStrategy is "extend" or "clone".
	CarryForwardStrategy string
}

// Load reads .env when present and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Warning: Error loading .env file: %v\n", err)
		fmt.Println("Continuing with environment variables...")
	}
	return FromEnv()
}

// FromEnv builds the configuration from the current environment.
func FromEnv() (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Host:        getEnv("APP_HOST", "0.0.0.0"),
			Port:        getEnv("APP_PORT", "8080"),
			Env:         getEnv("APP_ENV", "development"),
			FrontendURL: getEnv("FRONTEND_URL", "*"),
		},
		Log: LogConfig{
			Level:      getEnv("LOG_LEVEL", "info"),
			Dir:        getEnv("LOG_DIR", "log/app"),
			MaxSizeMB:  getEnvInt("LOG_MAX_SIZE_MB", 50),
			MaxBackups: getEnvInt("LOG_MAX_BACKUPS", 7),
			MaxAgeDays: getEnvInt("LOG_MAX_AGE_DAYS", 30),
		},
		Auth: AuthConfig{
			JWTSecret:             getEnv("JWT_SECRET", ""),
			TokenTTL:              time.Duration(getEnvInt("JWT_TTL_HOURS", 24)) * time.Hour,
			AdminUsername:         getEnv("ADMIN_USERNAME", "admin"),
			AdminPassword:         getEnv("ADMIN_PASSWORD", ""),
			DriverDefaultPassword: getEnv("DRIVER_DEFAULT_PASSWORD", ""),
		},
		Ledger: LedgerConfig{
			CarryForwardStrategy: getEnv("CARRY_FORWARD_STRATEGY", "extend"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the server cannot start with.
func (c *Config) Validate() error {
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if len(c.Auth.JWTSecret) < 16 {
		return fmt.Errorf("JWT_SECRET must be at least 16 characters")
	}
	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("JWT_TTL_HOURS must be positive")
	}
	return nil
}

// Addr is the listen address.
func (c *Config) Addr() string {
	return c.App.Host + ":" + c.App.Port
}

func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
