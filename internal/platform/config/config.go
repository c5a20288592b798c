// Package config provides configuration loading and management using koanf.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Default configuration values.
const (
	// DefaultServerPort is the default HTTP server port.
	DefaultServerPort = 8080

	// DefaultMaxRequestSize is the default maximum request body size (1MB).
	DefaultMaxRequestSize = 1 << 20 // 1048576 bytes

	// DefaultExceptionArgsLimit is the default byte budget of a trace argument dump (1MB).
	DefaultExceptionArgsLimit = 1 << 20

	// DefaultLogFileMaxSizeMB is the default max log file size in megabytes.
	DefaultLogFileMaxSizeMB = 100

	// DefaultLogFileMaxBackups is the default number of old log files to retain.
	DefaultLogFileMaxBackups = 3

	// DefaultLogFileMaxAgeDays is the default max days to retain old log files.
	DefaultLogFileMaxAgeDays = 28
)

// Config is the root configuration structure.
type Config struct {
	App       AppConfig       `koanf:"app"       validate:"required"`
	Server    ServerConfig    `koanf:"server"    validate:"required"`
	Log       LogConfig       `koanf:"log"       validate:"required"`
	Telemetry TelemetryConfig `koanf:"telemetry"`
	Auth      AuthConfig      `koanf:"auth"`
	Exception ExceptionConfig `koanf:"exception" validate:"required"`
}

// AppConfig contains application-level settings.
type AppConfig struct {
	Name        string `koanf:"name"        validate:"required"`
	Version     string `koanf:"version"     validate:"required"`
	Environment string `koanf:"environment" validate:"required,oneof=local dev qa prod test"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port            int           `koanf:"port"             validate:"required,min=1,max=65535"`
	Host            string        `koanf:"host"             validate:"required"`
	ReadTimeout     time.Duration `koanf:"read_timeout"     validate:"required,min=1s"`
	WriteTimeout    time.Duration `koanf:"write_timeout"    validate:"required,min=1s"`
	IdleTimeout     time.Duration `koanf:"idle_timeout"     validate:"required,min=1s"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"required,min=1s"`
	MaxRequestSize  int64         `koanf:"max_request_size" validate:"required,min=1"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level  string        `koanf:"level"  validate:"required,oneof=trace debug info warn error"`
	Format string        `koanf:"format" validate:"required,oneof=json text pretty"`
	File   LogFileConfig `koanf:"file"`
}

// LogFileConfig contains rolling log file settings.
type LogFileConfig struct {
	Enabled    bool   `koanf:"enabled"`
	Path       string `koanf:"path"       validate:"required_if=Enabled true"`
	MaxSizeMB  int    `koanf:"max_size"   validate:"omitempty,min=1,max=1024"`
	MaxBackups int    `koanf:"max_backups" validate:"omitempty,min=0,max=100"`
	MaxAgeDays int    `koanf:"max_age"    validate:"omitempty,min=0,max=365"`
	Compress   bool   `koanf:"compress"`
}

// TelemetryConfig contains OpenTelemetry settings.
type TelemetryConfig struct {
	Enabled      bool    `koanf:"enabled"`
	Endpoint     string  `koanf:"endpoint"      validate:"required_if=Enabled true,omitempty,url"`
	ServiceName  string  `koanf:"service_name"  validate:"required_if=Enabled true"`
	SamplingRate float64 `koanf:"sampling_rate" validate:"min=0,max=1"`
	Insecure     bool    `koanf:"insecure"`
}

// AuthConfig contains authentication settings.
type AuthConfig struct {
	Enabled       bool   `koanf:"enabled"`
	JWKSEndpoint  string `koanf:"jwks_endpoint"  validate:"required_if=Enabled true,omitempty,url"`
	Issuer        string `koanf:"issuer"         validate:"required_if=Enabled true"`
	Audience      string `koanf:"audience"       validate:"required_if=Enabled true"`
	ClaimsHeader  string `koanf:"claims_header"`
	RolesHeader   string `koanf:"roles_header"`
	ScopesHeader  string `koanf:"scopes_header"`
	SubjectHeader string `koanf:"subject_header"`
}

// Formatter names accepted in ExceptionConfig.
const (
	FormatterText    = "text"
	FormatterJSON    = "json"
	FormatterXML     = "xml"
	FormatterHTML    = "html"
	FormatterYAML    = "yaml"
	FormatterProblem = "problem"
	FormatterJSONAPI = "jsonapi"
)

// FormatterNames lists every formatter name, in the default priority order.
var FormatterNames = []string{
	FormatterJSON, FormatterProblem, FormatterJSONAPI, FormatterXML,
	FormatterYAML, FormatterHTML, FormatterText,
}

// ExceptionConfig controls how errors are rendered.
type ExceptionConfig struct {
	// Formatters lists the formatters of the default handler in priority
	// order. The first one answers requests without a usable Accept header.
	Formatters []string `koanf:"formatters" validate:"required,min=1,unique,dive,formatter"`

	// StatusFormatters overrides the formatter list for specific status codes.
	StatusFormatters map[string][]string `koanf:"status_formatters" validate:"omitempty,dive,keys,error_status,endkeys,required,min=1,dive,formatter"`

	Trace     bool `koanf:"trace"`
	TraceArgs int  `koanf:"trace_args" validate:"min=0,max=100"`
	ArgsLimit int  `koanf:"args_limit" validate:"min=0"`

	ProblemBaseURL  string `koanf:"problem_base_url" validate:"omitempty,url"`
	TranslationsDir string `koanf:"translations_dir"`
	DefaultLanguage string `koanf:"default_language" validate:"required,bcp47_language_tag"`
}

// defaults returns the default configuration values.
func defaults() map[string]any {
	return map[string]any{
		"app.name":        "gin-exception",
		"app.version":     "dev",
		"app.environment": "local",

		"server.port":             DefaultServerPort,
		"server.host":             "0.0.0.0",
		"server.read_timeout":     "30s",
		"server.write_timeout":    "30s",
		"server.idle_timeout":     "120s",
		"server.shutdown_timeout": "10s",
		"server.max_request_size": DefaultMaxRequestSize,

		"log.level":            "info",
		"log.format":           "json",
		"log.file.enabled":     false,
		"log.file.path":        "./logs/app.log",
		"log.file.max_size":    DefaultLogFileMaxSizeMB,
		"log.file.max_backups": DefaultLogFileMaxBackups,
		"log.file.max_age":     DefaultLogFileMaxAgeDays,
		"log.file.compress":    true,

		"telemetry.enabled":       false,
		"telemetry.endpoint":      "",
		"telemetry.service_name":  "gin-exception",
		"telemetry.sampling_rate": 1.0,
		"telemetry.insecure":      false,

		"auth.enabled":        false,
		"auth.jwks_endpoint":  "",
		"auth.issuer":         "",
		"auth.audience":       "",
		"auth.claims_header":  "X-User-Claims",
		"auth.roles_header":   "X-User-Roles",
		"auth.scopes_header":  "X-User-Scopes",
		"auth.subject_header": "X-User-ID",

		"exception.formatters":       FormatterNames,
		"exception.trace":            false,
		"exception.trace_args":       0,
		"exception.args_limit":       DefaultExceptionArgsLimit,
		"exception.problem_base_url": "",
		"exception.translations_dir": "",
		"exception.default_language": "en",
	}
}

// Load loads configuration with the following precedence (highest to lowest):
//  1. Environment variables (APP_ prefix)
//  2. Profile config file (configs/{profile}.yaml)
//  3. Base config file (configs/base.yaml)
//  4. Default values
func Load(profile string) (*Config, error) {
	k := koanf.New(".")

	// 1. Load defaults
	err := k.Load(confmap.Provider(defaults(), "."), nil)
	if err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	// 2. Load base config file if it exists
	err = loadFileIfExists(k, "configs/base.yaml")
	if err != nil {
		return nil, fmt.Errorf("loading base config: %w", err)
	}

	// 3. Load profile config file if it exists
	if profile != "" {
		profilePath := fmt.Sprintf("configs/%s.yaml", profile)

		err := loadFileIfExists(k, profilePath)
		if err != nil {
			return nil, fmt.Errorf("loading profile config %q: %w", profile, err)
		}
	}

	// 4. Load environment variables with APP_ prefix
	err = k.Load(env.Provider("APP_", ".", func(s string) string {
		return strings.ReplaceAll(
			strings.ToLower(strings.TrimPrefix(s, "APP_")),
			"_",
			".",
		)
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("loading env vars: %w", err)
	}

	// Unmarshal into Config struct
	var cfg Config

	err = k.Unmarshal("", &cfg)
	if err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return &cfg, nil
}

// loadFileIfExists loads a YAML config file if it exists.
// Returns nil if the file doesn't exist, error only for parse/read failures.
func loadFileIfExists(k *koanf.Koanf, path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil // File doesn't exist, that's fine
	}

	return k.Load(file.Provider(path), yaml.Parser())
}
