package config

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the application's configuration model.
type Config struct {
	Account  AccountConfig     `yaml:"account"`
	Analysis AnalysisConfig    `yaml:"analysis"`
	Storage  StorageConfig     `yaml:"storage"`
	Export   ExportConfig      `yaml:"export"`
	Metrics  MetricsConfig     `yaml:"metrics"`
	Logging  LoggingConfig     `yaml:"logging"`
	Messages map[string]string `yaml:"messages"`
}

type AccountConfig struct {
	// Handle of the account whose replies are checked; informational only.
	Handle string `yaml:"handle" env:"CENSORCHECK_HANDLE"`
}

type AnalysisConfig struct {
	// Items built concurrently per report. 1 keeps the run sequential.
	Parallelism int `yaml:"parallelism" env:"CENSORCHECK_PARALLELISM" env-default:"1"`
}

type StorageConfig struct {
	DBPath string `yaml:"dbPath" env:"CENSORCHECK_DB_PATH" env-default:"./censorcheck.db"`
	// Optional Postgres mirror for reports. Empty disables it.
	PostgresDSN string `yaml:"postgresDSN" env:"DATABASE_URL"`
}

// ExportConfig targets an S3-compatible bucket. Empty Bucket disables export.
type ExportConfig struct {
	Endpoint        string `yaml:"endpoint" env:"S3_ENDPOINT"`
	Region          string `yaml:"region" env:"S3_REGION" env-default:"us-east-1"`
	Bucket          string `yaml:"bucket" env:"S3_BUCKET"`
	AccessKeyID     string `yaml:"accessKeyID" env:"S3_ACCESS_KEY_ID"`
	SecretAccessKey string `yaml:"secretAccessKey" env:"S3_SECRET_ACCESS_KEY"`
	Prefix          string `yaml:"prefix" env:"S3_PREFIX" env-default:"reports"`
}

type MetricsConfig struct {
	// e.g. ":9090"; empty falls back to METRICS_ADDR.
	Addr string `yaml:"addr" env:"METRICS_ADDR"`
}

type LoggingConfig struct {
	Level  string `yaml:"level" env:"LOG_LEVEL" env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

// Default returns a sensible default configuration.
func Default() Config {
	return Config{
		Analysis: AnalysisConfig{Parallelism: 1},
		Storage:  StorageConfig{DBPath: "./censorcheck.db"},
		Export:   ExportConfig{Region: "us-east-1", Prefix: "reports"},
		Logging:  LoggingConfig{Level: "info", Format: "json"},
		Messages: map[string]string{},
	}
}

// LoadDotEnv loads a .env file if one exists.
func LoadDotEnv() {
	_ = godotenv.Load()
}

// Load reads YAML config from path and applies environment overrides.
func Load(path string) (Config, error) {
	var cfg Config
	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return cfg, err
	}
	if cfg.Analysis.Parallelism < 1 {
		cfg.Analysis.Parallelism = 1
	}
	return cfg, nil
}

// LoadOrEnv is Load, except that a missing file yields defaults overridden
// by the environment.
func LoadOrEnv(path string) (Config, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		cfg := Default()
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return cfg, err
		}
		if cfg.Analysis.Parallelism < 1 {
			cfg.Analysis.Parallelism = 1
		}
		return cfg, nil
	}
	return Load(path)
}

// Save writes YAML config to path, creating directories as needed.
func Save(path string, cfg Config) error {
	if path == "" {
		return errors.New("empty path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	b, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}
