package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const insecureDefaultSecret = "supersecretkey"

type Config struct {
	Addr          string        `yaml:"addr"`
	JWTSecret     string        `yaml:"jwt_secret"`
	APITimeout    time.Duration `yaml:"timeout"`
	DatabasePath  string        `yaml:"database_path"`
	TokenDuration time.Duration `yaml:"token_duration"`
	Redis         RedisConfig   `yaml:"redis"`
	Gemini        GeminiConfig  `yaml:"gemini"`
	SweepInterval time.Duration `yaml:"sweep_interval"`
}

// RedisConfig configures the optional job-listing cache. An empty Addr
// disables caching entirely.
type RedisConfig struct {
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"`
}

// GeminiConfig configures the optional resume analyzer. An empty APIKey makes
// the skill-gap service fall back to local keyword matching.
type GeminiConfig struct {
	APIKey string `yaml:"api_key"`
	Model  string `yaml:"model"`
}

func LoadConfig(path string) (*Config, error) {
	cfg := &Config{
		Addr:          getEnv("SKB_ADDR", ":8080"),
		JWTSecret:     getEnv("SKB_JWT_SECRET", insecureDefaultSecret),
		APITimeout:    15 * time.Second,
		DatabasePath:  getEnv("SKB_DATABASE_PATH", "skillbridge.db"),
		TokenDuration: 30 * 24 * time.Hour,
		Redis: RedisConfig{
			Addr:     os.Getenv("SKB_REDIS_ADDR"),
			Password: os.Getenv("SKB_REDIS_PASSWORD"),
			TTL:      time.Minute,
		},
		Gemini: GeminiConfig{
			APIKey: os.Getenv("GEMINI_API_KEY"),
			Model:  getEnv("SKB_GEMINI_MODEL", "gemini-2.0-flash"),
		},
		SweepInterval: 10 * time.Minute,
	}
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()

		dec := yaml.NewDecoder(f)
		if err := dec.Decode(cfg); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// Validate rejects configurations that must not reach production. The
// insecure default JWT secret is only tolerated when SKB_ENV=development.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("addr must not be empty")
	}
	if c.DatabasePath == "" {
		return fmt.Errorf("database_path must not be empty")
	}
	if c.TokenDuration <= 0 {
		return fmt.Errorf("token_duration must be positive")
	}
	if c.JWTSecret == "" || c.JWTSecret == insecureDefaultSecret {
		if os.Getenv("SKB_ENV") != "development" {
			return fmt.Errorf("jwt_secret is insecure; set SKB_JWT_SECRET or run with SKB_ENV=development")
		}
	}
	if c.Redis.TTL <= 0 {
		c.Redis.TTL = time.Minute
	}
	if c.SweepInterval <= 0 {
		c.SweepInterval = 10 * time.Minute
	}
	return nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return def
}
