// Package config loads allotx settings from defaults, an optional config
// file, a .env file and ALLOTX_ environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is the full application configuration.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Extract ExtractConfig `mapstructure:"extract"`
	Log     LogConfig     `mapstructure:"log"`
	Watch   WatchConfig   `mapstructure:"watch"`
}

// ServerConfig holds HTTP API settings.
type ServerConfig struct {
	Host        string `mapstructure:"host"`
	Port        string `mapstructure:"port"`
	MaxUploadMB int64  `mapstructure:"max_upload_mb"`
}

// ExtractConfig holds extraction settings shared by every surface.
type ExtractConfig struct {
	// HeaderScope is "outside" or "all".
	HeaderScope string `mapstructure:"header_scope"`
	// MaxFileSize bounds input size in bytes; 0 disables the bound.
	MaxFileSize int64 `mapstructure:"max_file_size"`
	// Jobs is the number of files extracted concurrently.
	Jobs int `mapstructure:"jobs"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// WatchConfig holds directory watcher settings.
type WatchConfig struct {
	OutDir string `mapstructure:"out_dir"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:        "127.0.0.1",
			Port:        "8080",
			MaxUploadMB: 32,
		},
		Extract: ExtractConfig{
			HeaderScope: "outside",
			Jobs:        4,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads configuration. cfgFile may be empty, in which case
// allotx.yaml is looked up in the working directory and $HOME/.allotx;
// a missing file is not an error.
func Load(cfgFile string) (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v, DefaultConfig())

	v.SetEnvPrefix("ALLOTX")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("allotx")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.allotx")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// setDefaults registers every key so AutomaticEnv can override it.
func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("server.host", d.Server.Host)
	v.SetDefault("server.port", d.Server.Port)
	v.SetDefault("server.max_upload_mb", d.Server.MaxUploadMB)
	v.SetDefault("extract.header_scope", d.Extract.HeaderScope)
	v.SetDefault("extract.max_file_size", d.Extract.MaxFileSize)
	v.SetDefault("extract.jobs", d.Extract.Jobs)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("watch.out_dir", d.Watch.OutDir)
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Extract.HeaderScope) {
	case "", "outside", "all":
	default:
		return fmt.Errorf("invalid extract.header_scope: %q (must be outside or all)", c.Extract.HeaderScope)
	}
	if c.Extract.MaxFileSize < 0 {
		return fmt.Errorf("invalid extract.max_file_size: %d", c.Extract.MaxFileSize)
	}
	if c.Server.MaxUploadMB <= 0 {
		return fmt.Errorf("invalid server.max_upload_mb: %d", c.Server.MaxUploadMB)
	}
	return nil
}
