// Package config loads server configuration from a YAML file with
// environment-variable overrides for secrets.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration wraps time.Duration so YAML can carry values like "5m" or "30s"
type Duration time.Duration

// UnmarshalYAML parses Go duration strings
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the wrapped time.Duration
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Config holds all server configuration
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	Redis      RedisConfig      `yaml:"redis"`
	JWT        JWTConfig        `yaml:"jwt"`
	GenAI      GenAIConfig      `yaml:"genai"`
	Cloudinary CloudinaryConfig `yaml:"cloudinary"`
	Missions   MissionsConfig   `yaml:"missions"`
	RateLimit  RateLimitConfig  `yaml:"ratelimit"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// ServerConfig contains HTTP listener settings
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// DatabaseConfig contains PostgreSQL settings
type DatabaseConfig struct {
	Host            string   `yaml:"host"`
	Port            int      `yaml:"port"`
	User            string   `yaml:"user"`
	Password        string   `yaml:"password"`
	Database        string   `yaml:"database"`
	SSLMode         string   `yaml:"sslmode"`
	MaxOpenConns    int      `yaml:"max_open_conns"`
	MaxIdleConns    int      `yaml:"max_idle_conns"`
	ConnMaxLifetime Duration `yaml:"conn_max_lifetime"`
	ConnMaxIdleTime Duration `yaml:"conn_max_idle_time"`
	Timeout         Duration `yaml:"timeout"`
}

// RedisConfig for the cache layer
type RedisConfig struct {
	URI     string `yaml:"uri"`
	Enabled bool   `yaml:"enabled"`
}

// JWTConfig for token signing
type JWTConfig struct {
	Secret     string   `yaml:"secret"`
	Issuer     string   `yaml:"issuer"`
	Expiration Duration `yaml:"expiration"`
}

// GenAIConfig for the content-generation collaborator
type GenAIConfig struct {
	BaseURL string   `yaml:"base_url"`
	APIKey  string   `yaml:"api_key"`
	Model   string   `yaml:"model"`
	Timeout Duration `yaml:"timeout"`
}

// CloudinaryConfig for media storage
type CloudinaryConfig struct {
	CloudName string `yaml:"cloud_name"`
	APIKey    string `yaml:"api_key"`
	APISecret string `yaml:"api_secret"`
}

// MissionsConfig fixes the regeneration counts per window
type MissionsConfig struct {
	DailyCount   int `yaml:"daily_count"`
	WeeklyCount  int `yaml:"weekly_count"`
	MonthlyCount int `yaml:"monthly_count"`
}

// RateLimitConfig throttles the AI-backed endpoints per client
type RateLimitConfig struct {
	RequestsPerMinute int `yaml:"requests_per_minute"`
	Burst             int `yaml:"burst"`
}

// LoggingConfig mirrors pkg/logger.Config
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// Default returns the development configuration
func Default() *Config {
	return &Config{
		Server: ServerConfig{Host: "0.0.0.0", Port: 8080},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			User:            "misimuslim",
			Password:        "misimuslim_dev_password",
			Database:        "misimuslim_dev",
			SSLMode:         "disable",
			MaxOpenConns:    10,
			MaxIdleConns:    2,
			ConnMaxLifetime: Duration(5 * time.Minute),
			ConnMaxIdleTime: Duration(2 * time.Minute),
			Timeout:         Duration(5 * time.Second),
		},
		Redis: RedisConfig{URI: "redis://localhost:6379/0", Enabled: true},
		JWT: JWTConfig{
			Issuer:     "misimuslim",
			Expiration: Duration(72 * time.Hour),
		},
		GenAI: GenAIConfig{
			BaseURL: "https://generativelanguage.googleapis.com/v1beta",
			Model:   "gemini-1.5-flash",
			Timeout: Duration(30 * time.Second),
		},
		Missions: MissionsConfig{
			DailyCount:   4,
			WeeklyCount:  3,
			MonthlyCount: 2,
		},
		RateLimit: RateLimitConfig{RequestsPerMinute: 10, Burst: 3},
		Logging:   LoggingConfig{Level: "info", Format: "text", Output: "stdout"},
	}
}

// Load reads configuration from path, falling back to defaults for missing
// fields, then applies environment overrides for secrets.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	applyEnvOverrides(cfg)

	if cfg.JWT.Secret == "" {
		return nil, fmt.Errorf("jwt secret is required (set JWT_SECRET or jwt.secret)")
	}

	return cfg, nil
}

// applyEnvOverrides lets deployments keep secrets out of the YAML file
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("DATABASE_HOST"); v != "" {
		cfg.Database.Host = v
	}
	if v := os.Getenv("DATABASE_PASSWORD"); v != "" {
		cfg.Database.Password = v
	}
	if v := os.Getenv("REDIS_URI"); v != "" {
		cfg.Redis.URI = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		cfg.JWT.Secret = v
	}
	if v := os.Getenv("GENAI_API_KEY"); v != "" {
		cfg.GenAI.APIKey = v
	}
	if v := os.Getenv("GENAI_BASE_URL"); v != "" {
		cfg.GenAI.BaseURL = v
	}
	if v := os.Getenv("CLOUDINARY_CLOUD_NAME"); v != "" {
		cfg.Cloudinary.CloudName = v
	}
	if v := os.Getenv("CLOUDINARY_API_KEY"); v != "" {
		cfg.Cloudinary.APIKey = v
	}
	if v := os.Getenv("CLOUDINARY_API_SECRET"); v != "" {
		cfg.Cloudinary.APISecret = v
	}
}
