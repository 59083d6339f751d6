// Package config loads server configuration from defaults, an optional YAML
// file, an optional .env file and WEBDESK_* environment variables, in that
// order of precedence from lowest to highest.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"webdesk/pkg/desktop"
	"webdesk/pkg/wm"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "WEBDESK_"

// Config holds all server configuration.
type Config struct {
	// Server
	ListenAddr string `yaml:"listen_addr"`
	StaticDir  string `yaml:"static_dir"`
	PublicURL  string `yaml:"public_url"`
	PrintQR    bool   `yaml:"print_qr"`

	// TLS is enabled when both files are set.
	TLSCertFile string `yaml:"tls_cert_file"`
	TLSKeyFile  string `yaml:"tls_key_file"`

	// Logging
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`

	// Desktop
	Desktop Desktop `yaml:"desktop"`

	// Sessions
	SessionTTL    time.Duration `yaml:"session_ttl"`
	ReapInterval  time.Duration `yaml:"reap_interval"`
	ShutdownGrace time.Duration `yaml:"shutdown_grace"`
}

// Desktop holds the settings of every new desktop session.
type Desktop struct {
	ViewportWidth  int `yaml:"viewport_width"`
	ViewportHeight int `yaml:"viewport_height"`
	TaskbarHeight  int `yaml:"taskbar_height"`
	DefaultWidth   int `yaml:"default_width"`
	DefaultHeight  int `yaml:"default_height"`
	MinWidth       int `yaml:"min_width"`
	MinHeight      int `yaml:"min_height"`

	Home string `yaml:"home"`
	User string `yaml:"user"`
	Host string `yaml:"host"`

	ScriptLineDelay time.Duration `yaml:"script_line_delay"`
	MonitorInterval time.Duration `yaml:"monitor_interval"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		ListenAddr:    ":8080",
		PublicURL:     "http://localhost:8080",
		LogLevel:      "info",
		LogFormat:     "json",
		SessionTTL:    30 * time.Minute,
		ReapInterval:  time.Minute,
		ShutdownGrace: 10 * time.Second,
		Desktop: Desktop{
			ViewportWidth:   1920,
			ViewportHeight:  1080,
			TaskbarHeight:   48,
			DefaultWidth:    800,
			DefaultHeight:   600,
			MinWidth:        250,
			MinHeight:       150,
			Home:            "/home/user",
			User:            "user",
			Host:            "linux",
			ScriptLineDelay: 200 * time.Millisecond,
			MonitorInterval: 2 * time.Second,
		},
	}
}

// Load builds the configuration. An empty path skips the YAML file; a
// missing .env file is ignored.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("unmarshal config: %w", err)
		}
	}

	// A missing .env is the common case.
	_ = godotenv.Load()

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.ListenAddr = envOr("LISTEN_ADDR", c.ListenAddr)
	c.StaticDir = envOr("STATIC_DIR", c.StaticDir)
	c.PublicURL = envOr("PUBLIC_URL", c.PublicURL)
	c.PrintQR = envBool("PRINT_QR", c.PrintQR)
	c.TLSCertFile = envOr("TLS_CERT_FILE", c.TLSCertFile)
	c.TLSKeyFile = envOr("TLS_KEY_FILE", c.TLSKeyFile)
	c.LogLevel = envOr("LOG_LEVEL", c.LogLevel)
	c.LogFormat = envOr("LOG_FORMAT", c.LogFormat)
	c.SessionTTL = envDuration("SESSION_TTL", c.SessionTTL)
	c.ReapInterval = envDuration("REAP_INTERVAL", c.ReapInterval)
	c.ShutdownGrace = envDuration("SHUTDOWN_GRACE", c.ShutdownGrace)

	d := &c.Desktop
	d.ViewportWidth = envInt("VIEWPORT_WIDTH", d.ViewportWidth)
	d.ViewportHeight = envInt("VIEWPORT_HEIGHT", d.ViewportHeight)
	d.TaskbarHeight = envInt("TASKBAR_HEIGHT", d.TaskbarHeight)
	d.DefaultWidth = envInt("DEFAULT_WIDTH", d.DefaultWidth)
	d.DefaultHeight = envInt("DEFAULT_HEIGHT", d.DefaultHeight)
	d.MinWidth = envInt("MIN_WIDTH", d.MinWidth)
	d.MinHeight = envInt("MIN_HEIGHT", d.MinHeight)
	d.Home = envOr("HOME_DIR", d.Home)
	d.User = envOr("USER", d.User)
	d.Host = envOr("HOST", d.Host)
	d.ScriptLineDelay = envDuration("SCRIPT_LINE_DELAY", d.ScriptLineDelay)
	d.MonitorInterval = envDuration("MONITOR_INTERVAL", d.MonitorInterval)
}

// Validate reports settings no desktop can run with.
func (c *Config) Validate() error {
	d := c.Desktop
	var errs []error
	if d.ViewportWidth <= 0 || d.ViewportHeight <= 0 {
		errs = append(errs, fmt.Errorf("viewport must be positive, got %dx%d", d.ViewportWidth, d.ViewportHeight))
	}
	if d.MinWidth <= 0 || d.MinHeight <= 0 {
		errs = append(errs, fmt.Errorf("minimum window size must be positive, got %dx%d", d.MinWidth, d.MinHeight))
	}
	if d.MinWidth > d.ViewportWidth || d.MinHeight > d.ViewportHeight {
		errs = append(errs, fmt.Errorf("minimum window size %dx%d exceeds viewport %dx%d",
			d.MinWidth, d.MinHeight, d.ViewportWidth, d.ViewportHeight))
	}
	if d.TaskbarHeight < 0 || d.TaskbarHeight >= d.ViewportHeight {
		errs = append(errs, fmt.Errorf("taskbar height %d does not fit the viewport", d.TaskbarHeight))
	}
	if (c.TLSCertFile == "") != (c.TLSKeyFile == "") {
		errs = append(errs, errors.New("tls cert and key files must be set together"))
	}
	if c.SessionTTL < 0 {
		errs = append(errs, errors.New("session ttl must not be negative"))
	}
	return errors.Join(errs...)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(EnvPrefix + key); v != "" {
		return v
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(EnvPrefix + key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func envInt(key string, fallback int) int {
	v := os.Getenv(EnvPrefix + key)
	if v == "" {
		return fallback
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return i
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(EnvPrefix + key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

// Session maps the desktop settings onto the configuration of new
// sessions.
func (c *Config) Session(logger *zap.Logger) desktop.Config {
	d := c.Desktop
	wmCfg := wm.DefaultConfig()
	if d.ViewportWidth > 0 && d.ViewportHeight > 0 {
		wmCfg.ViewportWidth = d.ViewportWidth
		wmCfg.ViewportHeight = d.ViewportHeight
	}
	if d.TaskbarHeight >= 0 {
		wmCfg.TaskbarHeight = d.TaskbarHeight
	}
	if d.DefaultWidth > 0 && d.DefaultHeight > 0 {
		wmCfg.DefaultSize = wm.Size{Width: d.DefaultWidth, Height: d.DefaultHeight}
	}
	if d.MinWidth > 0 && d.MinHeight > 0 {
		wmCfg.MinSize = wm.Size{Width: d.MinWidth, Height: d.MinHeight}
	}

	return desktop.Config{
		WM:              wmCfg,
		Home:            d.Home,
		User:            d.User,
		Host:            d.Host,
		ScriptLineDelay: d.ScriptLineDelay,
		MonitorInterval: d.MonitorInterval,
		Logger:          logger,
	}
}
