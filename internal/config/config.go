// Package config loads the settings of the BEA chatbot services.
//
// Settings come from an optional YAML file, then from environment variables,
// then from defaults. The YAML file may reference the environment:
//
//	question:
//	  database_url: "${DB_CONNECTION_STRING}"
//
// Durations use time.ParseDuration syntax ("600ms", "30m").
package config

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the complete configuration shared by the chatbot binaries.
// Each binary only reads its own section.
type Config struct {
	Widget   WidgetConfig   `yaml:"widget"`
	Question QuestionConfig `yaml:"question"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// WidgetConfig configures the widget service and the terminal chat.
type WidgetConfig struct {
	Port             string   `yaml:"port"`
	AnswerServiceURL string   `yaml:"answer_service_url"`
	AllowedOrigins   []string `yaml:"allowed_origins"`
	// StaticDir, when set, is served at / so the widget page and its API share an origin.
	StaticDir string `yaml:"static_dir"`

	PlaceholderDelay time.Duration `yaml:"-"`
	SessionTTL       time.Duration `yaml:"-"`
	RequestTimeout   time.Duration `yaml:"-"`

	// Raw string values for YAML unmarshaling
	PlaceholderDelayRaw string `yaml:"placeholder_delay"`
	SessionTTLRaw       string `yaml:"session_ttl"`
	RequestTimeoutRaw   string `yaml:"request_timeout"`
}

// QuestionConfig configures the answer service.
type QuestionConfig struct {
	Port           string   `yaml:"port"`
	DatabaseURL    string   `yaml:"database_url"`
	RedisURL       string   `yaml:"redis_url"`
	NLPServiceURL  string   `yaml:"nlp_service_url"`
	AllowedOrigins []string `yaml:"allowed_origins"`
	MinConfidence  float64  `yaml:"min_confidence"`

	CacheTTL   time.Duration `yaml:"-"`
	NLPTimeout time.Duration `yaml:"-"`

	CacheTTLRaw   string `yaml:"cache_ttl"`
	NLPTimeoutRaw string `yaml:"nlp_timeout"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Defaults
const (
	DefaultWidgetPort       = "8081"
	DefaultQuestionPort     = "8080"
	DefaultAnswerServiceURL = "http://localhost:8080"
	DefaultPlaceholderDelay = 600 * time.Millisecond
	DefaultSessionTTL       = 30 * time.Minute
	DefaultRequestTimeout   = 15 * time.Second
	DefaultCacheTTL         = time.Hour
	DefaultNLPTimeout       = 15 * time.Second
	DefaultMinConfidence    = 0.5
)

var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// Load reads the configuration. An empty path skips the file and uses only
// the environment and defaults.
func Load(path string) (*Config, error) {
	var cfg Config

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal([]byte(expandEnvVars(string(data))), &cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	applyEnv(&cfg)

	if err := parseDurations(&cfg); err != nil {
		return nil, fmt.Errorf("parsing durations: %w", err)
	}
	if err := applyDefaults(&cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return &cfg, nil
}

// expandEnvVars replaces ${VAR_NAME} with the variable's value, or the empty string.
func expandEnvVars(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		return os.Getenv(envVarPattern.FindStringSubmatch(match)[1])
	})
}

// applyEnv overrides file values with the environment variables the services
// have always been configured with.
func applyEnv(cfg *Config) {
	setString := func(dst *string, key string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}

	setString(&cfg.Widget.Port, "PORT")
	setString(&cfg.Question.Port, "PORT")
	setString(&cfg.Widget.AnswerServiceURL, "ANSWER_SERVICE_URL")
	setString(&cfg.Widget.StaticDir, "STATIC_DIR")
	setString(&cfg.Widget.PlaceholderDelayRaw, "PLACEHOLDER_DELAY")
	setString(&cfg.Widget.SessionTTLRaw, "SESSION_TTL")
	setString(&cfg.Widget.RequestTimeoutRaw, "REQUEST_TIMEOUT")
	setString(&cfg.Question.DatabaseURL, "DB_CONNECTION_STRING")
	setString(&cfg.Question.RedisURL, "REDIS_URL")
	setString(&cfg.Question.NLPServiceURL, "NLP_SERVICE_URL")
	setString(&cfg.Question.CacheTTLRaw, "CACHE_TTL")
	setString(&cfg.Logging.Level, "LOG_LEVEL")
	setString(&cfg.Logging.Format, "LOG_FORMAT")

	if v := os.Getenv("ALLOWED_ORIGINS"); v != "" {
		origins := splitList(v)
		cfg.Widget.AllowedOrigins = origins
		cfg.Question.AllowedOrigins = origins
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// parseDurations converts the raw duration strings into time.Duration values
func parseDurations(cfg *Config) error {
	fields := []struct {
		name string
		raw  string
		dst  *time.Duration
	}{
		{"widget.placeholder_delay", cfg.Widget.PlaceholderDelayRaw, &cfg.Widget.PlaceholderDelay},
		{"widget.session_ttl", cfg.Widget.SessionTTLRaw, &cfg.Widget.SessionTTL},
		{"widget.request_timeout", cfg.Widget.RequestTimeoutRaw, &cfg.Widget.RequestTimeout},
		{"question.cache_ttl", cfg.Question.CacheTTLRaw, &cfg.Question.CacheTTL},
		{"question.nlp_timeout", cfg.Question.NLPTimeoutRaw, &cfg.Question.NLPTimeout},
	}
	for _, f := range fields {
		if f.raw == "" {
			continue
		}
		d, err := time.ParseDuration(f.raw)
		if err != nil {
			return fmt.Errorf("parsing %s %q: %w", f.name, f.raw, err)
		}
		*f.dst = d
	}
	return nil
}

func applyDefaults(cfg *Config) error {
	if cfg.Widget.Port == "" {
		cfg.Widget.Port = DefaultWidgetPort
	}
	if cfg.Widget.AnswerServiceURL == "" {
		cfg.Widget.AnswerServiceURL = DefaultAnswerServiceURL
	}
	if cfg.Widget.PlaceholderDelayRaw == "" {
		cfg.Widget.PlaceholderDelay = DefaultPlaceholderDelay
	}
	if cfg.Widget.SessionTTLRaw == "" {
		cfg.Widget.SessionTTL = DefaultSessionTTL
	}
	if cfg.Widget.RequestTimeoutRaw == "" {
		cfg.Widget.RequestTimeout = DefaultRequestTimeout
	}

	if cfg.Question.Port == "" {
		cfg.Question.Port = DefaultQuestionPort
	}
	if cfg.Question.CacheTTLRaw == "" {
		cfg.Question.CacheTTL = DefaultCacheTTL
	}
	if cfg.Question.NLPTimeoutRaw == "" {
		cfg.Question.NLPTimeout = DefaultNLPTimeout
	}
	if v := os.Getenv("NLP_MIN_CONFIDENCE"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("parsing NLP_MIN_CONFIDENCE %q: %w", v, err)
		}
		cfg.Question.MinConfidence = f
	} else if cfg.Question.MinConfidence == 0 {
		cfg.Question.MinConfidence = DefaultMinConfidence
	}

	cfg.Logging.Level = strings.ToLower(strings.TrimSpace(cfg.Logging.Level))
	cfg.Logging.Format = strings.ToLower(strings.TrimSpace(cfg.Logging.Format))
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "text"
	}
	return nil
}

// Validate checks that all required configuration fields are present and valid.
// Returns an error describing the first validation failure encountered.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Widget.AnswerServiceURL) == "" {
		return fmt.Errorf("widget.answer_service_url is required")
	}

	durations := map[string]time.Duration{
		"widget.placeholder_delay": c.Widget.PlaceholderDelay,
		"widget.session_ttl":       c.Widget.SessionTTL,
		"widget.request_timeout":   c.Widget.RequestTimeout,
		"question.cache_ttl":       c.Question.CacheTTL,
		"question.nlp_timeout":     c.Question.NLPTimeout,
	}
	for name, d := range durations {
		if d < 0 {
			return fmt.Errorf("%s must not be negative, got %s", name, d)
		}
	}

	if c.Question.MinConfidence < 0 || c.Question.MinConfidence > 1 {
		return fmt.Errorf("question.min_confidence must be between 0 and 1, got %v", c.Question.MinConfidence)
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be one of debug, info, warn, error, got %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("logging.format must be text or json, got %q", c.Logging.Format)
	}
	return nil
}
