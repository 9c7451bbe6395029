// Package config loads the flowchart service configuration with viper.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the root configuration structure.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Logger   LoggerConfig   `mapstructure:"logger"`
	Capture  CaptureConfig  `mapstructure:"capture"`
}

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	Addr            string        `mapstructure:"addr"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// DatabaseConfig holds the PostgreSQL connection. An empty URL runs the
// service without persistence.
type DatabaseConfig struct {
	URL string `mapstructure:"url"`
}

// ColorConfig defines the colour of each level in console output.
type ColorConfig struct {
	Debug string `mapstructure:"debug"`
	Info  string `mapstructure:"info"`
	Warn  string `mapstructure:"warn"`
	Error string `mapstructure:"error"`
}

// LoggerConfig holds all the configuration for the logger.
type LoggerConfig struct {
	Level       string      `mapstructure:"level"`
	Format      string      `mapstructure:"format"`
	AddSource   bool        `mapstructure:"add_source"`
	ServiceName string      `mapstructure:"service_name"`
	LogFile     string      `mapstructure:"log_file"`
	MaxSize     int         `mapstructure:"max_size"`
	MaxBackups  int         `mapstructure:"max_backups"`
	MaxAge      int         `mapstructure:"max_age"`
	Compress    bool        `mapstructure:"compress"`
	Colors      ColorConfig `mapstructure:"colors"`
}

// CaptureConfig holds the capture/distribute workflow settings.
type CaptureConfig struct {
	DefaultTitle       string        `mapstructure:"default_title"`
	DefaultCategory    string        `mapstructure:"default_category"`
	DefaultDestination string        `mapstructure:"default_destination"`
	SendTimeout        time.Duration `mapstructure:"send_timeout"`
	SimulateDelay      time.Duration `mapstructure:"simulate_delay"`
	ChannelWebhookURL  string        `mapstructure:"channel_webhook_url"`
	Stylesheets        []string      `mapstructure:"stylesheets"`
	Origin             string        `mapstructure:"origin"`
	SkipFonts          bool          `mapstructure:"skip_fonts"`
	Headless           bool          `mapstructure:"headless"`
	ViewportWidth      int           `mapstructure:"viewport_width"`
	ViewportHeight     int           `mapstructure:"viewport_height"`
	RenderTimeout      time.Duration `mapstructure:"render_timeout"`
}

// SetDefaults registers the defaults so the service runs with no config file.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":3000")
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	// Every key needs a default so AutomaticEnv can override it on Unmarshal.
	v.SetDefault("database.url", "")

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.log_file", "")
	v.SetDefault("logger.compress", false)
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.service_name", "flowchart")
	v.SetDefault("logger.max_size", 100)
	v.SetDefault("logger.max_backups", 3)
	v.SetDefault("logger.max_age", 28)
	v.SetDefault("logger.colors.debug", "cyan")
	v.SetDefault("logger.colors.info", "green")
	v.SetDefault("logger.colors.warn", "yellow")
	v.SetDefault("logger.colors.error", "red")

	v.SetDefault("capture.default_title", "")
	v.SetDefault("capture.default_category", "Architecture")
	v.SetDefault("capture.channel_webhook_url", "")
	v.SetDefault("capture.stylesheets", []string{})
	v.SetDefault("capture.origin", "")
	v.SetDefault("capture.default_destination", "channel")
	v.SetDefault("capture.send_timeout", 30*time.Second)
	v.SetDefault("capture.simulate_delay", 1500*time.Millisecond)
	v.SetDefault("capture.skip_fonts", true)
	v.SetDefault("capture.headless", true)
	v.SetDefault("capture.viewport_width", 1280)
	v.SetDefault("capture.viewport_height", 800)
	v.SetDefault("capture.render_timeout", 20*time.Second)
}

// New returns a viper instance with defaults, FLOWCHART_* environment
// overrides and, if given, an explicit config file. Without a file it looks
// for flowchart.yaml in the working directory.
func New(cfgFile string) *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix("FLOWCHART")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("flowchart")
		v.SetConfigType("yaml")
	}
	return v
}

// Load reads the config file if there is one, unmarshals and validates.
func Load(v *viper.Viper) (*Config, error) {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config: read: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the settings that would otherwise fail at runtime.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return errors.New("config: server.addr is required")
	}
	switch c.Logger.Format {
	case "console", "json":
	default:
		return fmt.Errorf("config: logger.format must be console or json, got %q", c.Logger.Format)
	}
	switch c.Capture.DefaultDestination {
	case "channel", "private":
	default:
		return fmt.Errorf("config: capture.default_destination must be channel or private, got %q", c.Capture.DefaultDestination)
	}
	if c.Capture.SendTimeout <= 0 {
		return errors.New("config: capture.send_timeout must be positive")
	}
	if c.Capture.SimulateDelay >= c.Capture.SendTimeout {
		return fmt.Errorf("config: capture.simulate_delay (%s) must be shorter than capture.send_timeout (%s)",
			c.Capture.SimulateDelay, c.Capture.SendTimeout)
	}
	return nil
}
