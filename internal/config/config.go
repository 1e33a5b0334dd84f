package config

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	DefaultAPIURL        = "http://localhost:8000/api"
	DefaultNewsletterURL = "https://gladstart.curated.co/embed?color1=f5efe7&color2=4a3520&color_bg_button=e67e22&color_border=f39c12&color_button=ffffff&color_links=6f4e37&color_terms=967259&title=Join+GladStart+%F0%9F%98%8A+"
)

// Config holds the application configuration loaded from files and environment variables.
type Config struct {
	AppName            string        `mapstructure:"app_name"`
	Env                string        `mapstructure:"app_env"`
	LogLevel           string        `mapstructure:"log_level"`
	LogFile            string        `mapstructure:"log_file"`
	APIURL             string        `mapstructure:"api_url"`
	FeaturesFile       string        `mapstructure:"features_file"`
	NewsletterURL      string        `mapstructure:"newsletter_url"`
	ImageProbe         bool          `mapstructure:"image_probe"`
	HTTPTimeoutSeconds int64         `mapstructure:"http_timeout_seconds"`
	HTTPTimeout        time.Duration `mapstructure:"-"`
}

// Load reads configuration from environment variables and config files.
func Load() (*Config, error) {
	_ = godotenv.Load("configs/.env")

	v := viper.New()

	v.SetDefault("app_name", "gladstart-reader")
	v.SetDefault("app_env", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_file", DefaultLogFile())
	v.SetDefault("api_url", DefaultAPIURL)
	v.SetDefault("features_file", "./configs/features.yaml")
	v.SetDefault("newsletter_url", DefaultNewsletterURL)
	v.SetDefault("image_probe", true)
	v.SetDefault("http_timeout_seconds", 0) // rely on transport defaults

	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) normalize() error {
	c.APIURL = strings.TrimRight(strings.TrimSpace(c.APIURL), "/")
	if c.APIURL == "" {
		c.APIURL = DefaultAPIURL
	}
	u, err := url.Parse(c.APIURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid api_url %q (expected absolute http(s) url)", c.APIURL)
	}

	if c.HTTPTimeoutSeconds < 0 {
		return fmt.Errorf("invalid http_timeout_seconds (must be zero or positive seconds)")
	}
	c.HTTPTimeout = time.Duration(c.HTTPTimeoutSeconds) * time.Second

	c.LogFile = strings.TrimSpace(c.LogFile)
	c.FeaturesFile = strings.TrimSpace(c.FeaturesFile)
	if strings.TrimSpace(c.NewsletterURL) == "" {
		c.NewsletterURL = DefaultNewsletterURL
	}
	return nil
}

// DefaultLogFile places the log under the XDG state directory so it never
// collides with the terminal UI on stdout.
func DefaultLogFile() string {
	return filepath.Join(xdg.StateHome, "gladstart", "gladstart.log")
}
