package config

// Config represents the complete configuration structure
type Config struct {
	Site      SiteConfig        `mapstructure:"site"`
	Account   AccountConfig     `mapstructure:"account"`
	Bot       BotConfig         `mapstructure:"bot"`
	Client    ClientConfig      `mapstructure:"client"`
	Locations map[string]string `mapstructure:"locations"`
	Logging   LoggingConfig     `mapstructure:"logging"`
}

// SiteConfig holds the tracker address and the lookup tables that turn
// operator-facing category and tag names into the site's wire codes
type SiteConfig struct {
	BaseURL    string            `mapstructure:"base_url"`
	Categories map[string]string `mapstructure:"categories"`
	Tags       map[string]string `mapstructure:"tags"`
}

// AccountConfig holds the tracker account credentials
type AccountConfig struct {
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

// BotConfig controls where the bot keeps its working files
type BotConfig struct {
	LogDir         string        `mapstructure:"log_dir"`
	CookieDir      string        `mapstructure:"cookie_dir"`
	SeedDir        string        `mapstructure:"seed_dir"`
	DeleteAfterAdd bool          `mapstructure:"delete_after_add"`
	Captcha        CaptchaConfig `mapstructure:"captcha"`
}

// CaptchaConfig points at the external captcha recognizer
type CaptchaConfig struct {
	Command string `mapstructure:"command"`
	Model   string `mapstructure:"model"`
}

// ClientConfig selects and configures the external torrent client
type ClientConfig struct {
	Type         string             `mapstructure:"type"`
	Transmission TransmissionConfig `mapstructure:"transmission"`
	QBittorrent  QBittorrentConfig  `mapstructure:"qbittorrent"`
}

// TransmissionConfig holds the transmission-remote invocation details
type TransmissionConfig struct {
	Command string `mapstructure:"command"`
}

// QBittorrentConfig holds qBittorrent Web API connection details
type QBittorrentConfig struct {
	URL      string `mapstructure:"url"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Color  bool   `mapstructure:"color"`
}
