package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/amoylab/lokal/pkg/helper"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

var envPattern = regexp.MustCompile(`\$\{(\w+)(?::([^}]*))?\}`)

type (
	// LokalConfig is the root configuration of the lokal server
	LokalConfig struct {
		Server   ServerConfig   `yaml:"server"`
		Database DatabaseConfig `yaml:"database"`
		Redis    RedisConfig    `yaml:"redis"`
		History  HistoryConfig  `yaml:"history"`
		Prefs    PrefsConfig    `yaml:"prefs"`
		AI       AIConfig       `yaml:"ai"`
		Auth     AuthConfig     `yaml:"auth"`
		Catalog  CatalogConfig  `yaml:"catalog"`
		Logger   LoggerConfig   `yaml:"logger"`
		Metrics  MetricsConfig  `yaml:"metrics"`
		Tracing  TracingConfig  `yaml:"tracing"`
		I18n     I18nConfig     `yaml:"i18n"`
	}

	// ServerConfig controls the HTTP listener
	ServerConfig struct {
		Host            string        `yaml:"host"`
		Port            int           `yaml:"port"`
		Mode            string        `yaml:"mode"` // debug, release, test
		PID             string        `yaml:"pid"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
		CORS            *CORSConfig   `yaml:"cors"`
	}

	// CORSConfig is applied to the /api routes when set
	CORSConfig struct {
		AllowOrigins     StringList `yaml:"allow_origins"`
		AllowMethods     StringList `yaml:"allow_methods"`
		AllowHeaders     StringList `yaml:"allow_headers"`
		ExposeHeaders    StringList `yaml:"expose_headers"`
		AllowCredentials bool       `yaml:"allow_credentials"`
	}

	// LoggerConfig represents the logger configuration
	LoggerConfig struct {
		Level      string `yaml:"level"`       // debug, info, warn, error
		Format     string `yaml:"format"`      // json, console
		Output     string `yaml:"output"`      // stdout, file
		FilePath   string `yaml:"file_path"`   // path to log file when output is file
		MaxSize    int    `yaml:"max_size"`    // max size of log file in MB
		MaxBackups int    `yaml:"max_backups"` // max number of backup files
		MaxAge     int    `yaml:"max_age"`     // max age of backup files in days
		Compress   bool   `yaml:"compress"`
		Color      bool   `yaml:"color"`
		Stacktrace bool   `yaml:"stacktrace"`
		TimeZone   string `yaml:"time_zone"`   // e.g. "UTC", default is local
		TimeFormat string `yaml:"time_format"` // default is "2006-01-02 15:04:05"
	}

	// I18nConfig represents the internationalization configuration
	I18nConfig struct {
		Path        string `yaml:"path"` // optional directory overriding the embedded translations
		DefaultLang string `yaml:"default_lang"`
	}

	// MetricsConfig controls the prometheus endpoint
	MetricsConfig struct {
		Enabled   bool      `yaml:"enabled"`
		Path      string    `yaml:"path"`
		Namespace string    `yaml:"namespace"`
		Buckets   []float64 `yaml:"buckets"`
	}

	// TracingConfig represents OpenTelemetry tracing configuration
	TracingConfig struct {
		Enabled     bool              `yaml:"enabled"`
		ServiceName string            `yaml:"service_name"`
		Endpoint    string            `yaml:"endpoint"` // e.g. localhost:4317 or localhost:4318
		Protocol    string            `yaml:"protocol"` // grpc or http
		Insecure    bool              `yaml:"insecure"`
		SamplerRate float64           `yaml:"sampler_rate"` // 0.0~1.0
		Environment string            `yaml:"environment"`
		Headers     map[string]string `yaml:"headers"`
	}
)

// LoadConfig loads configuration from a YAML file with environment variable support
func LoadConfig(filename string) (*LokalConfig, string, error) {
	_ = godotenv.Load()

	cfgPath := helper.GetCfgPath(filename)
	data, err := os.ReadFile(cfgPath)
	if err != nil {
		return nil, cfgPath, err
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, cfgPath, err
	}
	return cfg, cfgPath, nil
}

// Parse resolves ${ENV:default} placeholders, decodes the YAML document and
// applies defaults.
func Parse(data []byte) (*LokalConfig, error) {
	var cfg LokalConfig
	if err := yaml.Unmarshal(resolveEnv(data), &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.setDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *LokalConfig) setDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 5235
	}
	if c.Server.ShutdownTimeout <= 0 {
		c.Server.ShutdownTimeout = 10 * time.Second
	}
	if c.Database.Type == "" {
		c.Database.Type = "sqlite"
	}
	if c.Database.Type == "sqlite" && c.Database.DBName == "" {
		c.Database.DBName = "data/lokal.db"
	}
	if c.History.Type == "" {
		c.History.Type = "memory"
	}
	if c.History.Limit <= 0 {
		c.History.Limit = 50
	}
	if c.Prefs.Type == "" {
		c.Prefs.Type = "memory"
	}
	c.AI.setDefaults()
	if len(c.Catalog.TestBusinessIDs) == 0 {
		c.Catalog.TestBusinessIDs = DefaultTestBusinessIDs()
	}
	if c.Auth.JWT.Duration <= 0 {
		c.Auth.JWT.Duration = 24 * time.Hour
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = "lokal"
	}
	if c.Tracing.ServiceName == "" {
		c.Tracing.ServiceName = "lokal"
	}
	if c.I18n.DefaultLang == "" {
		c.I18n.DefaultLang = "en"
	}
}

// Validate reports configuration that cannot start a server
func (c *LokalConfig) Validate() error {
	switch c.Database.Type {
	case "postgres", "mysql", "sqlite":
	default:
		return fmt.Errorf("unsupported database type: %s", c.Database.Type)
	}
	switch c.History.Type {
	case "memory", "redis":
	default:
		return fmt.Errorf("unsupported history store type: %s", c.History.Type)
	}
	switch c.Prefs.Type {
	case "memory", "redis":
	default:
		return fmt.Errorf("unsupported prefs store type: %s", c.Prefs.Type)
	}
	switch c.AI.Provider {
	case "gemini", "openai":
	default:
		return fmt.Errorf("unsupported ai provider: %s", c.AI.Provider)
	}
	if (c.History.Type == "redis" || c.Prefs.Type == "redis") && c.Redis.Addr == "" {
		return fmt.Errorf("redis.addr is required when a redis store is selected")
	}
	return nil
}

// resolveEnv replaces environment variable placeholders in YAML content
func resolveEnv(content []byte) []byte {
	return envPattern.ReplaceAllFunc(content, func(match []byte) []byte {
		matches := envPattern.FindSubmatch(match)
		envKey := string(matches[1])
		var defaultValue string

		if len(matches) > 2 {
			defaultValue = string(matches[2])
		}

		if value, exists := os.LookupEnv(envKey); exists {
			return []byte(value)
		}
		return []byte(defaultValue)
	})
}

// StringList decodes either a YAML sequence or a comma separated scalar, so a
// single environment placeholder can carry a list.
type StringList []string

// UnmarshalYAML implements yaml.Unmarshaler
func (l *StringList) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.SequenceNode:
		var items []string
		if err := node.Decode(&items); err != nil {
			return err
		}
		*l = compact(items)
		return nil
	case yaml.ScalarNode:
		*l = compact(strings.Split(node.Value, ","))
		return nil
	default:
		return fmt.Errorf("expected a list or comma separated string, got kind %d", node.Kind)
	}
}

func compact(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s := strings.TrimSpace(item); s != "" {
			out = append(out, s)
		}
	}
	return out
}
