// Load envs from .env
// Load YAML config over defaults
// Override with env vars
// Validate config

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const DefaultPath = "configs/config.yaml"

type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Site       SiteConfig       `yaml:"site"`
	Browser    BrowserConfig    `yaml:"browser"`
	Extraction ExtractionConfig `yaml:"extraction"`
	Selectors  SelectorConfig   `yaml:"selectors"`
	Sink       SinkConfig       `yaml:"sink"`
	Telegram   TelegramConfig   `yaml:"telegram"`
}

type ServerConfig struct {
	Port string `yaml:"port" env:"PORT"`
}

type SiteConfig struct {
	BaseURL string `yaml:"base_url" env:"SITE_BASE_URL"`
}

type BrowserConfig struct {
	Headless      bool          `yaml:"headless" env:"HEADLESS"`
	CookiesPath   string        `yaml:"cookies_path"`
	ScreenshotDir string        `yaml:"screenshot_dir"`
	NavTimeout    time.Duration `yaml:"nav_timeout"`
	LookupTimeout time.Duration `yaml:"lookup_timeout"`
}

// ExtractionConfig holds the empirically tuned delays and thresholds of the pipeline.
type ExtractionConfig struct {
	PanelTimeout        time.Duration `yaml:"panel_timeout"`
	InitialSettle       time.Duration `yaml:"initial_settle"`
	ScrollSettle        time.Duration `yaml:"scroll_settle"`
	ClickSettle         time.Duration `yaml:"click_settle"`
	NavigationSettle    time.Duration `yaml:"navigation_settle"`
	MinDescriptionChars int           `yaml:"min_description_chars"`
	MaxDescriptionChars int           `yaml:"max_description_chars"`
}

// SelectorConfig overrides the built-in rule lists. Empty lists keep the defaults.
type SelectorConfig struct {
	Cards       []string `yaml:"cards"`
	PanelReady  []string `yaml:"panel_ready"`
	Title       []string `yaml:"title"`
	Company     []string `yaml:"company"`
	Location    []string `yaml:"location"`
	Description []string `yaml:"description"`
}

type SinkConfig struct {
	Kind string `yaml:"kind" env:"SINK_KIND"` // http | postgres
	URL  string `yaml:"url" env:"SINK_URL"`
	// Timeout bounds one dispatch round trip.
	Timeout time.Duration `yaml:"timeout" env:"SINK_TIMEOUT"`
	// InsecureSkipVerify disables TLS certificate validation for the sink. Off unless set explicitly.
	InsecureSkipVerify bool   `yaml:"insecure_skip_verify" env:"SINK_INSECURE_SKIP_VERIFY"`
	DatabaseURL        string `yaml:"database_url" env:"DATABASE_URL"`
}

type TelegramConfig struct {
	Token  string `yaml:"token" env:"TELEGRAM_BOT_TOKEN"`
	ChatID int64  `yaml:"chat_id" env:"TELEGRAM_CHAT_ID"`
}

const (
	SinkHTTP     = "http"
	SinkPostgres = "postgres"
)

// Default returns a working configuration for indeed.com apart from the sink endpoint.
func Default() *Config {
	return &Config{
		Server: ServerConfig{Port: "5000"},
		Site:   SiteConfig{BaseURL: "https://www.indeed.com"},
		Browser: BrowserConfig{
			CookiesPath:   "../.cookies/cookies-indeed.json",
			ScreenshotDir: "logs/screenshots",
			NavTimeout:    30 * time.Second,
			LookupTimeout: 2 * time.Second,
		},
		Extraction: ExtractionConfig{
			PanelTimeout:        5 * time.Second,
			InitialSettle:       3 * time.Second,
			ScrollSettle:        400 * time.Millisecond,
			ClickSettle:         time.Second,
			NavigationSettle:    time.Second,
			MinDescriptionChars: 5,
			MaxDescriptionChars: 2000,
		},
		Sink: SinkConfig{
			Kind:    SinkHTTP,
			Timeout: 10 * time.Second,
		},
	}
}

// Load reads DefaultPath and the environment, exiting on invalid configuration.
func Load() *Config {
	return MustLoad(DefaultPath)
}

// MustLoad is Load for a config file other than DefaultPath.
func MustLoad(path string) *Config {
	_ = godotenv.Load()

	cfg, err := LoadFrom(path)
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}
	return cfg
}

// LoadFrom decodes path over Default and applies env overrides. A missing file is not an error.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		log.Printf("Warning: %s not found, using defaults", path)
	case err != nil:
		return nil, fmt.Errorf("read %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	setString(&c.Server.Port, "PORT")
	setString(&c.Site.BaseURL, "SITE_BASE_URL")
	setString(&c.Sink.Kind, "SINK_KIND")
	setString(&c.Sink.URL, "SINK_URL")
	setString(&c.Sink.DatabaseURL, "DATABASE_URL")
	setString(&c.Telegram.Token, "TELEGRAM_BOT_TOKEN")

	if err := setBool(&c.Browser.Headless, "HEADLESS"); err != nil {
		return err
	}
	if err := setBool(&c.Sink.InsecureSkipVerify, "SINK_INSECURE_SKIP_VERIFY"); err != nil {
		return err
	}

	if v := os.Getenv("SINK_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid SINK_TIMEOUT: %w", err)
		}
		c.Sink.Timeout = d
	}

	if chatID := os.Getenv("TELEGRAM_CHAT_ID"); chatID != "" {
		id, err := strconv.ParseInt(chatID, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid TELEGRAM_CHAT_ID: %w", err)
		}
		c.Telegram.ChatID = id
	}
	return nil
}

// Validate checks the fields a run cannot do without.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Site.BaseURL) == "" {
		return errors.New("site.base_url is required")
	}
	switch c.Sink.Kind {
	case SinkHTTP:
		if c.Sink.URL == "" {
			return errors.New("sink.url (SINK_URL) is required for the http sink")
		}
	case SinkPostgres:
		if c.Sink.DatabaseURL == "" {
			return errors.New("sink.database_url (DATABASE_URL) is required for the postgres sink")
		}
	default:
		return fmt.Errorf("unknown sink.kind %q", c.Sink.Kind)
	}
	if c.Sink.Timeout <= 0 {
		return errors.New("sink.timeout must be positive")
	}
	if c.Extraction.MaxDescriptionChars <= 0 {
		return errors.New("extraction.max_description_chars must be positive")
	}
	if c.Extraction.MinDescriptionChars < 0 {
		return errors.New("extraction.min_description_chars must not be negative")
	}
	if c.Telegram.Token != "" && c.Telegram.ChatID == 0 {
		return errors.New("telegram.chat_id (TELEGRAM_CHAT_ID) is required when a bot token is set")
	}
	return nil
}

// TelegramEnabled reports whether run summaries should be sent.
func (c *Config) TelegramEnabled() bool {
	return c.Telegram.Token != ""
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setBool(dst *bool, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	*dst = b
	return nil
}
