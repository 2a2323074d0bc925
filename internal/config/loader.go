package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"docqa/internal/common/fsutil"
	"docqa/internal/registry"
)

// Config holds runtime parameters for the service.
// Zero values mean "unspecified" and are replaced by ApplyDefaults.
type Config struct {
	Addr string `json:"addr" yaml:"addr" toml:"addr" env:"DOCQA_ADDR" env-description:"listen address"`
	// BaseURL overrides the completion endpoint root (OpenAI-compatible).
	BaseURL      string   `json:"base_url" yaml:"base_url" toml:"base_url" env:"DOCQA_BASE_URL" env-description:"completion endpoint root, empty for api.openai.com"`
	Models       []string `json:"models" yaml:"models" toml:"models" env:"DOCQA_MODELS" env-separator:"," env-description:"selectable model ids, comma separated"`
	DefaultModel string   `json:"default_model" yaml:"default_model" toml:"default_model" env:"DOCQA_DEFAULT_MODEL" env-description:"preselected model, defaults to the first"`
	MaxUploadMB  int      `json:"max_upload_mb" yaml:"max_upload_mb" toml:"max_upload_mb" env:"DOCQA_MAX_UPLOAD_MB" env-description:"upload size limit in MB"`
	LogLevel     string   `json:"log_level" yaml:"log_level" toml:"log_level" env:"DOCQA_LOG_LEVEL" env-description:"off|error|info|debug"`
	LogFormat    string   `json:"log_format" yaml:"log_format" toml:"log_format" env:"DOCQA_LOG_FORMAT" env-description:"auto|json|console"`
	// RedisAddr switches the per-session in-flight guard to redis when set.
	RedisAddr         string `json:"redis_addr" yaml:"redis_addr" toml:"redis_addr" env:"DOCQA_REDIS_ADDR" env-description:"redis address for the session guard, empty for in-memory"`
	RedisPrefix       string `json:"redis_prefix" yaml:"redis_prefix" toml:"redis_prefix" env:"DOCQA_REDIS_PREFIX" env-description:"key prefix for session locks"`
	SessionTTLSeconds int    `json:"session_ttl_seconds" yaml:"session_ttl_seconds" toml:"session_ttl_seconds" env:"DOCQA_SESSION_TTL_SECONDS" env-description:"lifetime of a session lock in redis"`
	// TokenEstimate enables tiktoken prompt size metrics. Loading an encoding
	// may download its ranks file.
	TokenEstimate bool `json:"token_estimate" yaml:"token_estimate" toml:"token_estimate" env:"DOCQA_TOKEN_ESTIMATE" env-description:"observe prompt token counts"`

	CORSEnabled        bool     `json:"cors_enabled" yaml:"cors_enabled" toml:"cors_enabled" env:"DOCQA_CORS_ENABLED" env-description:"enable CORS"`
	CORSAllowedOrigins []string `json:"cors_allowed_origins" yaml:"cors_allowed_origins" toml:"cors_allowed_origins" env:"DOCQA_CORS_ALLOWED_ORIGINS" env-separator:"," env-description:"allowed origins"`
	CORSAllowedMethods []string `json:"cors_allowed_methods" yaml:"cors_allowed_methods" toml:"cors_allowed_methods" env:"DOCQA_CORS_ALLOWED_METHODS" env-separator:"," env-description:"allowed methods"`
	CORSAllowedHeaders []string `json:"cors_allowed_headers" yaml:"cors_allowed_headers" toml:"cors_allowed_headers" env:"DOCQA_CORS_ALLOWED_HEADERS" env-separator:"," env-description:"allowed headers"`
}

// Defaults returns the configuration used for every unspecified field.
func Defaults() Config {
	return Config{
		Addr:               ":8080",
		Models:             append([]string(nil), registry.DefaultModels...),
		MaxUploadMB:        200,
		LogLevel:           "info",
		LogFormat:          "auto",
		RedisPrefix:        "docqa:inflight:",
		SessionTTLSeconds:  300,
		CORSAllowedMethods: []string{"GET", "POST", "OPTIONS"},
		CORSAllowedHeaders: []string{"*"},
	}
}

// ApplyDefaults fills zero fields of cfg from Defaults.
func ApplyDefaults(cfg *Config) {
	d := Defaults()
	if cfg.Addr == "" {
		cfg.Addr = d.Addr
	}
	if len(cfg.Models) == 0 {
		cfg.Models = d.Models
	}
	if cfg.MaxUploadMB == 0 {
		cfg.MaxUploadMB = d.MaxUploadMB
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = d.LogLevel
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = d.LogFormat
	}
	if cfg.RedisPrefix == "" {
		cfg.RedisPrefix = d.RedisPrefix
	}
	if cfg.SessionTTLSeconds == 0 {
		cfg.SessionTTLSeconds = d.SessionTTLSeconds
	}
	if len(cfg.CORSAllowedMethods) == 0 {
		cfg.CORSAllowedMethods = d.CORSAllowedMethods
	}
	if len(cfg.CORSAllowedHeaders) == 0 {
		cfg.CORSAllowedHeaders = d.CORSAllowedHeaders
	}
}

// Validate reports the first invalid field.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Addr) == "" {
		return errors.New("addr must not be empty")
	}
	if c.MaxUploadMB <= 0 {
		return fmt.Errorf("max_upload_mb must be positive, got %d", c.MaxUploadMB)
	}
	if c.SessionTTLSeconds <= 0 {
		return fmt.Errorf("session_ttl_seconds must be positive, got %d", c.SessionTTLSeconds)
	}
	switch strings.ToLower(c.LogLevel) {
	case "off", "error", "info", "debug":
	default:
		return fmt.Errorf("log_level must be off|error|info|debug, got %q", c.LogLevel)
	}
	switch strings.ToLower(c.LogFormat) {
	case "auto", "json", "console":
	default:
		return fmt.Errorf("log_format must be auto|json|console, got %q", c.LogFormat)
	}
	if _, err := registry.New(c.Models, c.DefaultModel); err != nil {
		return err
	}
	return nil
}

// Load reads a configuration file based on its extension.
// Supports: .yaml/.yml, .json, .toml
func Load(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, fmt.Errorf("empty config path")
	}
	path, err := fsutil.ExpandHome(path)
	if err != nil {
		return cfg, err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	case ".json":
		if err := json.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	case ".toml":
		if err := toml.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	default:
		return cfg, fmt.Errorf("unsupported config extension: %s", ext)
	}
	return cfg, nil
}

// LoadEnv overlays DOCQA_* environment variables onto cfg. Unset variables
// leave the field alone.
func LoadEnv(cfg *Config) error {
	if err := cleanenv.ReadEnv(cfg); err != nil {
		return fmt.Errorf("env: %w", err)
	}
	return nil
}

// LoadDotEnv loads variables from the given .env files into the process
// environment without overriding ones already set. Missing files are skipped.
func LoadDotEnv(paths ...string) error {
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("dotenv %s: %w", p, err)
		}
	}
	return nil
}

// Resolve builds the effective configuration: file (optional), then
// environment, then defaults, then validation.
func Resolve(path string) (Config, error) {
	var cfg Config
	if path != "" {
		var err error
		if cfg, err = Load(path); err != nil {
			return cfg, fmt.Errorf("load config: %w", err)
		}
	}
	if err := LoadEnv(&cfg); err != nil {
		return cfg, err
	}
	ApplyDefaults(&cfg)
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// EnvHelp describes the environment variables Resolve reads.
func EnvHelp() (string, error) {
	header := "Environment variables:"
	return cleanenv.GetDescription(&Config{}, &header)
}
