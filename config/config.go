package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Load loads the configuration from file
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set default values
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		// Look for config in standard locations
		v.SetConfigName("config")
		v.SetConfigType("yaml")

		// Check current directory first
		v.AddConfigPath(".")

		// Check home directory
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "byrbt-bot"))
		}

		// Check /etc
		v.AddConfigPath("/etc/byrbt-bot/")
	}

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil, fmt.Errorf("config file not found: %w", err)
		}
		return nil, fmt.Errorf("error reading config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	// Validate configuration
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Site defaults
	v.SetDefault("site.base_url", "https://bt.byr.cn/")

	// Bot defaults
	v.SetDefault("bot.log_dir", "logs")
	v.SetDefault("bot.cookie_dir", "cookies")
	v.SetDefault("bot.seed_dir", "torrents")
	v.SetDefault("bot.delete_after_add", true)

	// Torrent client defaults
	v.SetDefault("client.type", "transmission")
	v.SetDefault("client.transmission.command", "transmission-remote")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.color", true)
}

// validate checks if the configuration is valid
func validate(cfg *Config) error {
	if cfg.Site.BaseURL == "" {
		return fmt.Errorf("site.base_url is required")
	}
	u, err := url.Parse(cfg.Site.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("site.base_url is not a valid URL: %s", cfg.Site.BaseURL)
	}
	// The tracker paths are joined onto the base URL, which must end
	// with a slash for relative resolution to work.
	if !strings.HasSuffix(cfg.Site.BaseURL, "/") {
		cfg.Site.BaseURL += "/"
	}

	if cfg.Account.Username == "" {
		return fmt.Errorf("account.username is required")
	}
	if cfg.Account.Password == "" {
		return fmt.Errorf("account.password is required")
	}

	if cfg.Bot.Captcha.Command == "" {
		return fmt.Errorf("bot.captcha.command is required")
	}

	if _, ok := cfg.Locations["default"]; !ok {
		return fmt.Errorf("locations.default is required")
	}

	switch cfg.Client.Type {
	case "transmission":
		if cfg.Client.Transmission.Command == "" {
			return fmt.Errorf("client.transmission.command is required")
		}
	case "qbittorrent":
		if cfg.Client.QBittorrent.URL == "" {
			return fmt.Errorf("client.qbittorrent.url is required when client.type is qbittorrent")
		}
	default:
		return fmt.Errorf("invalid client.type: %s (must be 'transmission' or 'qbittorrent')", cfg.Client.Type)
	}

	// Validate logging level
	validLevels := map[string]bool{
		"trace": true,
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[cfg.Logging.Level] {
		return fmt.Errorf("invalid logging level: %s", cfg.Logging.Level)
	}

	// Validate logging format
	validFormats := map[string]bool{
		"console": true,
		"json":    true,
	}
	if !validFormats[cfg.Logging.Format] {
		return fmt.Errorf("invalid logging format: %s", cfg.Logging.Format)
	}

	return nil
}
