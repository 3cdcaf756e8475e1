// Package config loads and validates postforge configuration.
//
// Configuration is resolved from layered sources, lowest precedence first:
// built-in defaults, system config (/etc/postforge/config.toml), user config
// (~/.postforge/config.toml), project config (postforge.toml found by walking
// up from the working directory), then environment variables. Environment
// variables use the POSTFORGE_ prefix with dots replaced by underscores
// (wordpress.domain -> POSTFORGE_WORDPRESS_DOMAIN); the four secrets also
// honor their legacy deployment names WP_DOMAIN, WP_USERNAME, WP_APP_PASSWORD
// and OPENAI_API_KEY.
package config

// Config represents the core postforge configuration
type Config struct {
	WordPress WordPressConfig `mapstructure:"wordpress"`
	TextGen   TextGenConfig   `mapstructure:"textgen"`
	Schedule  ScheduleConfig  `mapstructure:"schedule"`
	Social    SocialConfig    `mapstructure:"social"`
	Agent     AgentConfig     `mapstructure:"agent"`
	Server    ServerConfig    `mapstructure:"server"`
}

// WordPressConfig configures the CMS the agent publishes to
type WordPressConfig struct {
	Domain            string `mapstructure:"domain"`              // Site base URL including scheme (e.g. "https://blog.example.com")
	Username          string `mapstructure:"username"`            // Account the posts are created under
	AppPassword       string `mapstructure:"app_password"`        // WordPress application password
	TimeoutSeconds    int    `mapstructure:"timeout_seconds"`     // Request timeout in seconds (default: 30)
	AllowPrivateHosts bool   `mapstructure:"allow_private_hosts"` // Permit a localhost or private-network site (default: false)
}

// TextGenConfig configures the generative text backend
type TextGenConfig struct {
	APIKey            string   `mapstructure:"api_key"`             // Backend API key
	BaseURL           string   `mapstructure:"base_url"`            // API base URL (default: https://api.openai.com/v1)
	Model             string   `mapstructure:"model"`               // Model identifier (default: "gpt-4o")
	Temperature       *float64 `mapstructure:"temperature"`         // Sampling temperature (nil = default 0.7)
	MaxTokens         *int     `mapstructure:"max_tokens"`          // Maximum tokens per completion (nil = backend default)
	TimeoutSeconds    int      `mapstructure:"timeout_seconds"`     // Request timeout in seconds (default: 120; long-form drafts are slow)
	RequestsPerMinute int      `mapstructure:"requests_per_minute"` // Client-side rate limit (0 = unlimited)
}

// ScheduleConfig configures the periodic blog run
type ScheduleConfig struct {
	IntervalSeconds int `mapstructure:"interval_seconds"` // Seconds between scheduled runs (default: 1800)
}

// SocialConfig configures per-channel variant generation
type SocialConfig struct {
	MaxRetries        int  `mapstructure:"max_retries"`         // Generation attempts per channel (default: 3)
	RetryDelaySeconds *int `mapstructure:"retry_delay_seconds"` // Pause between attempts in seconds (nil = default 5, 0 = no pause)
}

// AgentConfig configures run bookkeeping
type AgentConfig struct {
	HistorySize int `mapstructure:"history_size"` // Retained run records (default: 50)
}

// ServerConfig configures the postforge web server
type ServerConfig struct {
	Port           *int     `mapstructure:"port"` // Server port: nil = default 8878, 0 is invalid (omit for default)
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	LogTheme       string   `mapstructure:"log_theme"` // Color theme: gruvbox, everforest
}

// DefaultServerPort is used when server.port is omitted
const DefaultServerPort = 8878

// File system constants
const (
	DefaultDirPermissions  = 0755 // Standard directory permissions (rwxr-xr-x)
	DefaultFilePermissions = 0644 // Standard file permissions (rw-r--r--)
)
