package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/amishk599/resumekit/internal/parser"
)

// EnvPath names the environment variable consulted when no --config flag is given.
const EnvPath = "RESUMEKIT_CONFIG"

// DefaultPath is the config file looked up in the working directory.
const DefaultPath = "config.yaml"

// Config is the root configuration for resumekit.
type Config struct {
	Database     DatabaseConfig
	Server       ServerConfig
	Parser       parser.Rules
	Watch        WatchConfig
	Filters      FilterConfig
	Notification NotificationConfig
	AI           AIConfig
}

// DatabaseConfig locates the SQLite file.
type DatabaseConfig struct {
	Path string
}

// ServerConfig controls the HTTP API.
type ServerConfig struct {
	Addr          string
	MaxUploadSize int64 // bytes
}

// WatchConfig controls the inbox watcher.
type WatchConfig struct {
	Dir        string
	Interval   time.Duration
	Owner      string   // owner id stamped on résumés ingested from the inbox
	Extensions []string // lowercased, with leading dot
}

// FilterConfig selects which new résumés the watcher announces.
type FilterConfig struct {
	Skills    []string `yaml:"skills"`
	Locations []string `yaml:"locations"`
}

// NotificationConfig controls which notifier is used and its settings.
type NotificationConfig struct {
	Type       string `yaml:"type"`        // "log" or "slack"
	WebhookURL string `yaml:"webhook_url"` // required if type is "slack"
}

// AIConfig controls the optional application-kit generator.
type AIConfig struct {
	Enabled    bool
	BaseURL    string        // defaults to https://api.openai.com/v1
	Model      string        // OpenAI model identifier, e.g. "gpt-4o-mini"
	APIKey     string        // expanded from env var by Load
	Timeout    time.Duration // per-request timeout
	MaxRetries int
	MinDelay   time.Duration // minimum gap between two completions
}

const (
	defaultOpenAIBaseURL = "https://api.openai.com/v1"
	defaultMaxUpload     = 10 << 20
)

// rawConfig is used for YAML unmarshaling (snake_case fields and duration as string).
type rawConfig struct {
	Database     rawDatabaseConfig  `yaml:"database"`
	Server       rawServerConfig    `yaml:"server"`
	Parser       rawParserConfig    `yaml:"parser"`
	Watch        rawWatchConfig     `yaml:"watch"`
	Filters      FilterConfig       `yaml:"filters"`
	Notification NotificationConfig `yaml:"notification"`
	AI           rawAIConfig        `yaml:"ai"`
}

type rawDatabaseConfig struct {
	Path string `yaml:"path"`
}

type rawServerConfig struct {
	Addr          string `yaml:"addr"`
	MaxUploadSize int64  `yaml:"max_upload_size"`
}

type rawSectionKeywords struct {
	Name     string   `yaml:"name"`
	Keywords []string `yaml:"keywords"`
}

type rawParserConfig struct {
	Sections           []rawSectionKeywords `yaml:"sections"`
	HeaderMaxWords     int                  `yaml:"header_max_words"`
	MinSkillLength     *int                 `yaml:"min_skill_length"`
	LocationPrefixes   []string             `yaml:"location_prefixes"`
	SkillDelimiters    []string             `yaml:"skill_delimiters"`
	DegreeKeywords     []string             `yaml:"degree_keywords"`
	TechnologyKeywords []string             `yaml:"technology_keywords"`

	SkillsHeaderKeywords    []string `yaml:"skills_header_keywords"`
	EducationHeaderKeywords []string `yaml:"education_header_keywords"`
}

type rawWatchConfig struct {
	Dir        string   `yaml:"dir"`
	Interval   string   `yaml:"interval"`
	Owner      string   `yaml:"owner"`
	Extensions []string `yaml:"extensions"`
}

type rawAIConfig struct {
	Enabled    bool   `yaml:"enabled"`
	BaseURL    string `yaml:"base_url"`
	Model      string `yaml:"model"`
	APIKey     string `yaml:"api_key"`
	Timeout    string `yaml:"timeout"`
	MaxRetries *int   `yaml:"max_retries"`
	MinDelay   string `yaml:"min_delay"`
}

// Default returns the configuration used when no config file exists.
func Default() *Config {
	return &Config{
		Database: DatabaseConfig{Path: "resumekit.db"},
		Server:   ServerConfig{Addr: ":8080", MaxUploadSize: defaultMaxUpload},
		Parser:   parser.DefaultRules(),
		Watch: WatchConfig{
			Interval:   time.Minute,
			Owner:      "local",
			Extensions: []string{".pdf", ".txt"},
		},
		Notification: NotificationConfig{Type: "log"},
		AI: AIConfig{
			BaseURL:    defaultOpenAIBaseURL,
			Timeout:    60 * time.Second,
			MaxRetries: 3,
			MinDelay:   time.Second,
		},
	}
}

// Resolve picks the config source: flagPath if set, then $RESUMEKIT_CONFIG,
// then ./config.yaml. Only a missing ./config.yaml falls back to Default.
func Resolve(flagPath string) (*Config, error) {
	if flagPath != "" {
		return Load(flagPath)
	}
	if p := os.Getenv(EnvPath); p != "" {
		return Load(p)
	}
	if _, err := os.Stat(DefaultPath); errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return Load(DefaultPath)
}

// Load reads and parses the YAML config file at path, validates it, and returns Config.
// Unset fields keep the values from Default.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	// Expand environment variables
	expanded := os.ExpandEnv(string(data))

	var raw rawConfig
	if err := yaml.Unmarshal([]byte(expanded), &raw); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg := Default()

	if raw.Database.Path != "" {
		cfg.Database.Path = raw.Database.Path
	}

	if raw.Server.Addr != "" {
		cfg.Server.Addr = raw.Server.Addr
	}
	if raw.Server.MaxUploadSize != 0 {
		cfg.Server.MaxUploadSize = raw.Server.MaxUploadSize
	}

	if err := applyParser(&cfg.Parser, raw.Parser); err != nil {
		return nil, err
	}

	cfg.Watch.Dir = raw.Watch.Dir
	if raw.Watch.Interval != "" {
		cfg.Watch.Interval, err = time.ParseDuration(raw.Watch.Interval)
		if err != nil {
			return nil, fmt.Errorf("parse watch.interval %q: %w", raw.Watch.Interval, err)
		}
	}
	if raw.Watch.Owner != "" {
		cfg.Watch.Owner = raw.Watch.Owner
	}
	if len(raw.Watch.Extensions) > 0 {
		cfg.Watch.Extensions = normalizeExtensions(raw.Watch.Extensions)
	}

	cfg.Filters = raw.Filters

	if raw.Notification.Type != "" {
		cfg.Notification.Type = raw.Notification.Type
	}
	cfg.Notification.WebhookURL = raw.Notification.WebhookURL

	cfg.AI.Enabled = raw.AI.Enabled
	cfg.AI.Model = raw.AI.Model
	cfg.AI.APIKey = raw.AI.APIKey
	if raw.AI.BaseURL != "" {
		cfg.AI.BaseURL = raw.AI.BaseURL
	}
	if raw.AI.Timeout != "" {
		cfg.AI.Timeout, err = time.ParseDuration(raw.AI.Timeout)
		if err != nil {
			return nil, fmt.Errorf("parse ai.timeout %q: %w", raw.AI.Timeout, err)
		}
	}
	if raw.AI.MinDelay != "" {
		cfg.AI.MinDelay, err = time.ParseDuration(raw.AI.MinDelay)
		if err != nil {
			return nil, fmt.Errorf("parse ai.min_delay %q: %w", raw.AI.MinDelay, err)
		}
	}
	if raw.AI.MaxRetries != nil {
		cfg.AI.MaxRetries = *raw.AI.MaxRetries
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyParser overlays the parser section onto the default rules. A sections
// list replaces the whole keyword table, in the order given.
func applyParser(rules *parser.Rules, raw rawParserConfig) error {
	if len(raw.Sections) > 0 {
		sections := make([]parser.SectionKeywords, 0, len(raw.Sections))
		for i, s := range raw.Sections {
			sec, err := parser.ParseSection(s.Name)
			if err != nil {
				return fmt.Errorf("parser.sections[%d]: %w", i, err)
			}
			sections = append(sections, parser.SectionKeywords{Section: sec, Keywords: s.Keywords})
		}
		rules.Sections = sections
	}

	rules.HeaderMaxWords = raw.HeaderMaxWords
	if raw.MinSkillLength != nil {
		rules.MinSkillLength = *raw.MinSkillLength
	}
	if len(raw.LocationPrefixes) > 0 {
		rules.LocationPrefixes = raw.LocationPrefixes
	}
	if len(raw.SkillDelimiters) > 0 {
		rules.SkillDelimiters = raw.SkillDelimiters
	}
	if len(raw.DegreeKeywords) > 0 {
		rules.DegreeKeywords = raw.DegreeKeywords
	}
	if len(raw.TechnologyKeywords) > 0 {
		rules.TechnologyKeywords = raw.TechnologyKeywords
	}
	if len(raw.SkillsHeaderKeywords) > 0 {
		rules.SkillsHeaderKeywords = raw.SkillsHeaderKeywords
	}
	if len(raw.EducationHeaderKeywords) > 0 {
		rules.EducationHeaderKeywords = raw.EducationHeaderKeywords
	}
	return nil
}

func normalizeExtensions(exts []string) []string {
	out := make([]string, 0, len(exts))
	for _, e := range exts {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		out = append(out, e)
	}
	return out
}

func validate(cfg *Config) error {
	if cfg.Database.Path == "" {
		return fmt.Errorf("database.path must not be empty")
	}
	if cfg.Server.MaxUploadSize <= 0 {
		return fmt.Errorf("server.max_upload_size must be positive, got %d", cfg.Server.MaxUploadSize)
	}

	if _, err := parser.New(cfg.Parser); err != nil {
		return fmt.Errorf("parser: %w", err)
	}

	if cfg.Watch.Interval <= 0 {
		return fmt.Errorf("watch.interval must be positive, got %v", cfg.Watch.Interval)
	}
	if len(cfg.Watch.Extensions) == 0 {
		return fmt.Errorf("watch.extensions must list at least one extension")
	}

	switch cfg.Notification.Type {
	case "log":
	case "slack":
		if cfg.Notification.WebhookURL == "" {
			return fmt.Errorf("notification.webhook_url is required when type is \"slack\"")
		}
		if !strings.HasPrefix(cfg.Notification.WebhookURL, "https://hooks.slack.com/") {
			return fmt.Errorf("notification.webhook_url must start with https://hooks.slack.com/")
		}
	default:
		return fmt.Errorf("notification.type must be \"log\" or \"slack\", got %q", cfg.Notification.Type)
	}

	if cfg.AI.Enabled {
		if cfg.AI.APIKey == "" {
			return fmt.Errorf("ai.api_key is required when ai.enabled is true")
		}
		if cfg.AI.BaseURL == "" {
			return fmt.Errorf("ai.base_url is required when ai.enabled is true")
		}
		if cfg.AI.Model == "" {
			return fmt.Errorf("ai.model is required when ai.enabled is true")
		}
	}
	if cfg.AI.MaxRetries < 0 {
		return fmt.Errorf("ai.max_retries must not be negative, got %d", cfg.AI.MaxRetries)
	}

	return nil
}
