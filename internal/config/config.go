package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

const (
	DefaultConfigFile        = "config.yaml"
	DefaultConfigDir         = ".bskypulse"
	DefaultBaseURL           = "https://bsky.social"
	DefaultTimeout           = 30 * time.Second
	DefaultRequestsPerSecond = 5
	DefaultLimit             = 100
	DefaultTimezone          = "UTC"
	DefaultExportDir         = "exports"
	DefaultTopTopics         = 3
	DefaultTopPosts          = 10
	DefaultLogLevel          = "info"
	DefaultPasswordEnv       = "BSKY_APP_PASSWORD"

	MinLimit   = 1
	MaxLimit   = 500
	DateLayout = "2006-01-02"
)

// Duration wraps time.Duration for YAML unmarshaling from strings like "30s".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("parse duration %q: %w", s, err)
	}
	d.Duration = parsed
	return nil
}

type Config struct {
	Account  AccountConfig  `yaml:"account"`
	API      APIConfig      `yaml:"api"`
	Fetch    FetchConfig    `yaml:"fetch"`
	Timezone string         `yaml:"timezone"`
	Export   ExportConfig   `yaml:"export"`
	Analysis AnalysisConfig `yaml:"analysis"`
	Privacy  PrivacyConfig  `yaml:"privacy"`
	Log      LogConfig      `yaml:"log"`
}

type AccountConfig struct {
	Handle         string `yaml:"handle"`
	AppPasswordEnv string `yaml:"app_password_env"`

	// Resolved from env var at load time.
	AppPassword string `yaml:"-"`
}

type APIConfig struct {
	BaseURL           string   `yaml:"base_url"`
	Timeout           Duration `yaml:"timeout"`
	RequestsPerSecond float64  `yaml:"requests_per_second"`
}

type FetchConfig struct {
	IncludeReplies bool   `yaml:"include_replies"`
	IncludeReposts bool   `yaml:"include_reposts"`
	Limit          int    `yaml:"limit"`
	From           string `yaml:"from"`
	To             string `yaml:"to"`
}

type ExportConfig struct {
	Dir string `yaml:"dir"`
}

type AnalysisConfig struct {
	TopTopics int `yaml:"top_topics"`
	TopPosts  int `yaml:"top_posts"`
}

// PrivacyConfig masks post text in exports and reports.
type PrivacyConfig struct {
	RedactMentions bool     `yaml:"redact_mentions"`
	Redact         []string `yaml:"redact"` // regular expressions
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// envOverrides are read from the process environment after the file.
type envOverrides struct {
	Handle   string `env:"BSKY_HANDLE"`
	LogLevel string `env:"BSKYPULSE_LOG_LEVEL"`
}

// Load reads config.yaml from dir, applies defaults and resolves env vars.
// A missing file is not an error: defaults and env vars still apply, and
// flags may fill in the rest before Resolve validates.
func Load(dir string) (*Config, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, errors.New("config dir is required")
	}

	var cfg Config
	path := filepath.Join(dir, DefaultConfigFile)
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	applyDefaults(&cfg)
	if err := resolveEnv(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Exists reports whether dir holds a config file.
func Exists(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, DefaultConfigFile))
	return err == nil
}

func applyDefaults(cfg *Config) {
	if cfg.Account.AppPasswordEnv == "" {
		cfg.Account.AppPasswordEnv = DefaultPasswordEnv
	}
	if cfg.API.BaseURL == "" {
		cfg.API.BaseURL = DefaultBaseURL
	}
	if cfg.API.Timeout.Duration == 0 {
		cfg.API.Timeout.Duration = DefaultTimeout
	}
	if cfg.API.RequestsPerSecond == 0 {
		cfg.API.RequestsPerSecond = DefaultRequestsPerSecond
	}
	if cfg.Fetch.Limit == 0 {
		cfg.Fetch.Limit = DefaultLimit
	}
	if cfg.Timezone == "" {
		cfg.Timezone = DefaultTimezone
	}
	if cfg.Export.Dir == "" {
		cfg.Export.Dir = DefaultExportDir
	}
	if cfg.Analysis.TopTopics == 0 {
		cfg.Analysis.TopTopics = DefaultTopTopics
	}
	if cfg.Analysis.TopPosts == 0 {
		cfg.Analysis.TopPosts = DefaultTopPosts
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
}

func resolveEnv(cfg *Config) error {
	var o envOverrides
	if err := env.Parse(&o); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	if o.Handle != "" {
		cfg.Account.Handle = o.Handle
	}
	if o.LogLevel != "" {
		cfg.Log.Level = o.LogLevel
	}
	cfg.Account.AppPassword = os.Getenv(cfg.Account.AppPasswordEnv)
	return nil
}
