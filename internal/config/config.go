// Package config loads service configuration from defaults, an optional
// YAML file and environment variables, in that order.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/terrascope/tfgen/internal/generator"
)

// FileEnv names the environment variable holding the path of an optional
// YAML configuration file.
const FileEnv = "TFGEN_CONFIG"

type Config struct {
	ServerAddress     string        `yaml:"server_address" validate:"required"`
	CORSAllowedOrigin string        `yaml:"cors_allowed_origin" validate:"required"`
	LogLevel          string        `yaml:"log_level" validate:"oneof=debug info warn error"`
	LogFormat         string        `yaml:"log_format" validate:"oneof=json console"`
	DefaultAWSRegion  string        `yaml:"default_aws_region" validate:"required"`
	MaxBodyBytes      int64         `yaml:"max_body_bytes" validate:"gt=0"`
	RequestTimeout    time.Duration `yaml:"request_timeout" validate:"gt=0"`
	EnableMetrics     bool          `yaml:"enable_metrics"`
}

func Default() *Config {
	return &Config{
		ServerAddress:     ":8080",
		CORSAllowedOrigin: "*",
		LogLevel:          "info",
		LogFormat:         "json",
		DefaultAWSRegion:  "us-east-1",
		MaxBodyBytes:      1 << 20,
		RequestTimeout:    30 * time.Second,
		EnableMetrics:     true,
	}
}

// Load builds the configuration and validates it.
func Load() (*Config, error) {
	cfg := Default()

	if path := os.Getenv(FileEnv); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	c.ServerAddress = getEnv("SERVER_ADDRESS", c.ServerAddress)
	c.CORSAllowedOrigin = getEnv("CORS_ALLOWED_ORIGIN", c.CORSAllowedOrigin)
	c.LogLevel = strings.ToLower(getEnv("LOG_LEVEL", c.LogLevel))
	c.LogFormat = strings.ToLower(getEnv("LOG_FORMAT", c.LogFormat))
	c.DefaultAWSRegion = getEnv("DEFAULT_AWS_REGION", c.DefaultAWSRegion)
	c.EnableMetrics = getEnvBool("ENABLE_METRICS", c.EnableMetrics)

	maxBody, err := getEnvInt64("MAX_BODY_BYTES", c.MaxBodyBytes)
	if err != nil {
		return err
	}
	c.MaxBodyBytes = maxBody

	timeout, err := getEnvDuration("REQUEST_TIMEOUT", c.RequestTimeout)
	if err != nil {
		return err
	}
	c.RequestTimeout = timeout

	return nil
}

var validate = validator.New()

// Validate checks every field and reports the first failure by its
// environment name.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		if fieldErrs, ok := err.(validator.ValidationErrors); ok && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			return fmt.Errorf("invalid configuration: %s fails %q (got %v)", envName(fe.Field()), fe.Tag(), fe.Value())
		}
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if !generator.IsRegion(c.DefaultAWSRegion) {
		return fmt.Errorf("invalid configuration: DEFAULT_AWS_REGION %q is not a supported AWS region", c.DefaultAWSRegion)
	}
	return nil
}

func envName(field string) string {
	switch field {
	case "ServerAddress":
		return "SERVER_ADDRESS"
	case "CORSAllowedOrigin":
		return "CORS_ALLOWED_ORIGIN"
	case "LogLevel":
		return "LOG_LEVEL"
	case "LogFormat":
		return "LOG_FORMAT"
	case "DefaultAWSRegion":
		return "DEFAULT_AWS_REGION"
	case "MaxBodyBytes":
		return "MAX_BODY_BYTES"
	case "RequestTimeout":
		return "REQUEST_TIMEOUT"
	}
	return field
}

// IsDevelopment reports whether logs are meant for a human at a terminal.
func (c *Config) IsDevelopment() bool {
	return c.LogFormat == "console"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value == "true" || value == "1" || value == "yes"
}

func getEnvInt64(key string, defaultValue int64) (int64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return n, nil
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return d, nil
}
