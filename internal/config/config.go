package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

// AppConfig holds all application configuration.
// It is built by Load() and passed to components that need it.
type AppConfig struct {
	Server  ServerConfig  `mapstructure:"server"`
	Log     LogConfig     `mapstructure:"log"`
	Content ContentConfig `mapstructure:"content"`
	Session SessionConfig `mapstructure:"session"`
	Trail   TrailConfig   `mapstructure:"trail"`
	Admin   AdminConfig   `mapstructure:"admin"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Mode           string   `mapstructure:"mode"` // gin mode: debug, release, test
	ImagesDir      string   `mapstructure:"images_dir"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string            `mapstructure:"level"`
	Format string            `mapstructure:"format"` // "json" or "console"
	File   LogFileConfig     `mapstructure:"file"`
	Levels map[string]string `mapstructure:"levels"`
}

// LogFileConfig enables a rotating log file next to stderr output.
type LogFileConfig struct {
	Path       string `mapstructure:"path"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

// ContentConfig points at the portfolio catalog. Empty path uses the embedded one.
type ContentConfig struct {
	Path string `mapstructure:"path"`
}

// SessionConfig holds visitor session store settings.
type SessionConfig struct {
	DSN           string        `mapstructure:"dsn"`
	TTL           time.Duration `mapstructure:"ttl"`
	SweepInterval time.Duration `mapstructure:"sweep_interval"`
	CookieName    string        `mapstructure:"cookie_name"`
}

// TrailConfig holds settings for the streamed particle trail.
type TrailConfig struct {
	FPS         int     `mapstructure:"fps"`
	RenderScale float64 `mapstructure:"render_scale"`
	MaxWidth    int     `mapstructure:"max_width"`
	MaxHeight   int     `mapstructure:"max_height"`
	MaxClients  int     `mapstructure:"max_clients"`
}

// AdminConfig holds dashboard credentials.
type AdminConfig struct {
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

// Load builds an AppConfig from defaults, an optional config file and the
// environment. A missing config file is not an error.
func Load(configPath string) (*AppConfig, error) {
	cfg := Default()

	v := viper.New()
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("portfolio")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	v.SetEnvPrefix("PORTFOLIO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindEnvKeys(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if err := v.Unmarshal(&cfg, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// PORT is what most hosts inject, keep honouring it.
	if port := os.Getenv("PORT"); port != "" && os.Getenv("PORTFOLIO_SERVER_PORT") == "" {
		cfg.Server.Port = port
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

// AutomaticEnv only resolves keys viper already knows about, so every leaf
// key is bound explicitly.
func bindEnvKeys(v *viper.Viper) {
	keys := []string{
		"server.port", "server.mode", "server.images_dir", "server.allowed_origins",
		"log.level", "log.format", "log.file.path", "log.file.max_size_mb",
		"log.file.max_backups", "log.file.max_age_days", "log.file.compress",
		"content.path",
		"session.dsn", "session.ttl", "session.sweep_interval", "session.cookie_name",
		"trail.fps", "trail.render_scale", "trail.max_width", "trail.max_height", "trail.max_clients",
		"admin.username", "admin.password",
	}
	for _, k := range keys {
		_ = v.BindEnv(k)
	}
}

// Default returns an AppConfig with default values.
func Default() AppConfig {
	return AppConfig{
		Server: ServerConfig{
			Port:      "8080",
			Mode:      "debug",
			ImagesDir: "./images",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
			Levels: map[string]string{},
		},
		Session: SessionConfig{
			DSN:           "file:portfolio-sessions?mode=memory&cache=shared",
			TTL:           12 * time.Hour,
			SweepInterval: 15 * time.Minute,
			CookieName:    "portfolio_session",
		},
		Trail: TrailConfig{
			FPS:         30,
			RenderScale: 0.5,
			MaxWidth:    3840,
			MaxHeight:   2160,
			MaxClients:  64,
		},
		Admin: AdminConfig{
			Username: "admin",
		},
	}
}

// Validate checks the configuration for values the server cannot run with.
func (c *AppConfig) Validate() error {
	var errs []error

	if c.Server.Port == "" {
		errs = append(errs, errors.New("server.port is required"))
	}
	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		errs = append(errs, fmt.Errorf("server.mode %q must be debug, release or test", c.Server.Mode))
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		errs = append(errs, fmt.Errorf("log.format %q must be json or console", c.Log.Format))
	}
	if c.Session.DSN == "" {
		errs = append(errs, errors.New("session.dsn is required"))
	}
	if c.Session.TTL <= 0 {
		errs = append(errs, errors.New("session.ttl must be positive"))
	}
	if c.Session.CookieName == "" {
		errs = append(errs, errors.New("session.cookie_name is required"))
	}
	if c.Trail.FPS <= 0 || c.Trail.FPS > 120 {
		errs = append(errs, fmt.Errorf("trail.fps %d must be in 1..120", c.Trail.FPS))
	}
	if c.Trail.RenderScale <= 0 || c.Trail.RenderScale > 1 {
		errs = append(errs, fmt.Errorf("trail.render_scale %v must be in (0,1]", c.Trail.RenderScale))
	}
	if c.Trail.MaxWidth <= 0 || c.Trail.MaxHeight <= 0 {
		errs = append(errs, errors.New("trail.max_width and trail.max_height must be positive"))
	}

	return errors.Join(errs...)
}
