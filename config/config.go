package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

const (
	configPathEnv = "SPEED_CONFIG"

	// DefaultJWTSecret is only used when neither the config file nor the
	// environment provides a secret.
	DefaultJWTSecret = "your-secret-key-change-this-in-production"
)

// Config holds every setting the API needs at boot.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Auth     AuthConfig     `yaml:"auth"`
	Seed     SeedConfig     `yaml:"seed"`
	Log      LogConfig      `yaml:"log"`
}

// ServerConfig describes the HTTP listener.
type ServerConfig struct {
	Port           string   `yaml:"port" env:"PORT"`
	Mode           string   `yaml:"mode" env:"GIN_MODE"`
	AllowedOrigins []string `yaml:"allowedOrigins" env:"CORS_ALLOWED_ORIGINS" envSeparator:","`
}

// DatabaseConfig selects a GORM dialect and how to reach it.
// DSN wins over the discrete host/port fields when set.
type DatabaseConfig struct {
	Driver      string `yaml:"driver" env:"DB_DRIVER"`
	DSN         string `yaml:"dsn" env:"DATABASE_DSN"`
	Host        string `yaml:"host" env:"DB_HOST"`
	Port        string `yaml:"port" env:"DB_PORT"`
	User        string `yaml:"user" env:"DB_USER"`
	Password    string `yaml:"password" env:"DB_PASSWORD"`
	Name        string `yaml:"name" env:"DB_NAME"`
	SSLMode     string `yaml:"sslMode" env:"DB_SSLMODE"`
	AutoMigrate bool   `yaml:"autoMigrate" env:"DB_AUTO_MIGRATE"`
}

// RedisConfig points at the token revocation store. Empty URL disables it.
type RedisConfig struct {
	URL string `yaml:"url" env:"REDIS_URL"`
}

// AuthConfig controls token issuing.
type AuthConfig struct {
	JWTSecret     string        `yaml:"jwtSecret" env:"JWT_SECRET"`
	JWTExpiration time.Duration `yaml:"jwtExpiration" env:"JWT_EXPIRATION"`
}

// SeedConfig controls first-boot data.
type SeedConfig struct {
	Enabled       bool   `yaml:"enabled" env:"SEED_DATABASE"`
	AdminName     string `yaml:"adminName" env:"SEED_ADMIN_NAME"`
	AdminEmail    string `yaml:"adminEmail" env:"SEED_ADMIN_EMAIL"`
	AdminPassword string `yaml:"adminPassword" env:"SEED_ADMIN_PASSWORD"`
}

// LogConfig sets the slog level.
type LogConfig struct {
	Level string `yaml:"level" env:"LOG_LEVEL"`
}

// Load reads the YAML file named by SPEED_CONFIG (if any) on top of the
// defaults, then applies environment overrides.
func Load() (Config, error) {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	if cfg.Auth.JWTSecret == "" {
		cfg.Auth.JWTSecret = DefaultJWTSecret
	}
	if cfg.Auth.JWTExpiration <= 0 {
		cfg.Auth.JWTExpiration = 24 * time.Hour
	}
	if cfg.Auth.JWTSecret == DefaultJWTSecret {
		log.Println("config: JWT_SECRET not set, using the built-in default secret")
	}

	return cfg, nil
}

func defaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Port:           "4000",
			Mode:           "debug",
			AllowedOrigins: []string{"http://localhost:4001"},
		},
		Database: DatabaseConfig{
			Driver:      "postgres",
			Host:        "localhost",
			Port:        "5432",
			User:        "speed",
			Password:    "speed",
			Name:        "speed",
			SSLMode:     "disable",
			AutoMigrate: true,
		},
		Auth: AuthConfig{
			JWTSecret:     DefaultJWTSecret,
			JWTExpiration: 24 * time.Hour,
		},
		Seed: SeedConfig{
			Enabled:   true,
			AdminName: "Administrator",
		},
		Log: LogConfig{Level: "info"},
	}
}
