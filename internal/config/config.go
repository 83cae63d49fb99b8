package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strings"
	"time"

	"flight_logbook/internal/models"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the logbook client
type Config struct {
	API                APIConfig
	DBPath             string
	Standard           models.Standard // Default airport code standard before sign-in
	RevalidateInterval time.Duration
	RoleSyncInterval   time.Duration
	Log                LogConfig
}

// APIConfig holds the backend connection settings
type APIConfig struct {
	BaseURL string
	Token   string // Optional; signs in on startup when set
	PerPage int
	Timeout time.Duration
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string
	Format string
}

// Load loads configuration from a .env file, the config file and environment variables
func Load() (*Config, error) {
	// .env only seeds the process environment; a missing file is fine
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error reading .env file: %w", err)
	}

	v := viper.New()

	v.SetDefault("api.base_url", "http://localhost:8086")
	v.SetDefault("api.token", "")
	v.SetDefault("api.per_page", 50)
	v.SetDefault("api.timeout", "15s")
	v.SetDefault("db_path", "logbook.db")
	v.SetDefault("standard", string(models.StandardICAO))
	v.SetDefault("revalidate_interval", "2m")
	v.SetDefault("role_sync_interval", "1h")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.AddConfigPath("/etc/flight_logbook")
	v.AddConfigPath(".")

	if configPath := os.Getenv("LOGBOOK_CONFIG_PATH"); configPath != "" {
		v.SetConfigFile(configPath)
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK - defaults + env vars apply
	}

	v.SetEnvPrefix("LOGBOOK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		API: APIConfig{
			BaseURL: v.GetString("api.base_url"),
			Token:   v.GetString("api.token"),
			PerPage: v.GetInt("api.per_page"),
			Timeout: v.GetDuration("api.timeout"),
		},
		DBPath:             v.GetString("db_path"),
		Standard:           models.Standard(strings.ToLower(v.GetString("standard"))),
		RevalidateInterval: v.GetDuration("revalidate_interval"),
		RoleSyncInterval:   v.GetDuration("role_sync_interval"),
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
		},
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// validate validates the configuration values
func validate(cfg *Config) error {
	u, err := url.Parse(cfg.API.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("api.base_url must be an http(s) URL, got %q", cfg.API.BaseURL)
	}

	if cfg.API.PerPage <= 0 {
		return fmt.Errorf("api.per_page must be greater than 0")
	}

	if cfg.API.Timeout <= 0 {
		return fmt.Errorf("api.timeout must be greater than 0")
	}

	if cfg.DBPath == "" {
		return fmt.Errorf("db_path is required")
	}

	if _, err := models.ParseStandard(string(cfg.Standard)); err != nil {
		return err
	}

	if cfg.RevalidateInterval <= 0 {
		return fmt.Errorf("revalidate_interval must be greater than 0")
	}

	if cfg.RoleSyncInterval <= 0 {
		return fmt.Errorf("role_sync_interval must be greater than 0")
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[strings.ToLower(cfg.Log.Level)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", cfg.Log.Level)
	}

	validLogFormats := map[string]bool{
		"text": true,
		"json": true,
	}
	if !validLogFormats[strings.ToLower(cfg.Log.Format)] {
		return fmt.Errorf("invalid log format: %s (must be text or json)", cfg.Log.Format)
	}

	return nil
}
