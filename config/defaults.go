package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// SetDefaults configures default values for all configuration options.
// The four secrets (wordpress.domain, wordpress.username,
// wordpress.app_password, textgen.api_key) deliberately have none.
func SetDefaults(v *viper.Viper) {
	// WordPress defaults
	v.SetDefault("wordpress.timeout_seconds", 30)
	v.SetDefault("wordpress.allow_private_hosts", false)

	// Text generation defaults
	v.SetDefault("textgen.base_url", "https://api.openai.com/v1")
	v.SetDefault("textgen.model", "gpt-4o")
	v.SetDefault("textgen.temperature", 0.7)
	v.SetDefault("textgen.timeout_seconds", 120) // Full blog drafts take a while
	v.SetDefault("textgen.requests_per_minute", 20)
	// textgen.max_tokens has no default: nil lets the backend decide

	// Schedule defaults
	v.SetDefault("schedule.interval_seconds", 1800) // 30 minutes between runs

	// Social variant defaults
	v.SetDefault("social.max_retries", 3)
	v.SetDefault("social.retry_delay_seconds", 5)

	// Agent run-history defaults
	v.SetDefault("agent.history_size", 50)

	// Server configuration defaults
	v.SetDefault("server.port", DefaultServerPort)
	v.SetDefault("server.allowed_origins", []string{
		"http://localhost",
		"https://localhost",
		"http://127.0.0.1",
		"https://127.0.0.1",
	})
	v.SetDefault("server.log_theme", "everforest")
}

// BindSensitiveEnvVars explicitly binds sensitive configuration to
// environment variables. Each secret honors its POSTFORGE_ name plus the
// legacy name most deployments already export.
func BindSensitiveEnvVars(v *viper.Viper) {
	v.BindEnv("wordpress.domain", "POSTFORGE_WORDPRESS_DOMAIN", "WP_DOMAIN")
	v.BindEnv("wordpress.username", "POSTFORGE_WORDPRESS_USERNAME", "WP_USERNAME")
	v.BindEnv("wordpress.app_password", "POSTFORGE_WORDPRESS_APP_PASSWORD", "WP_APP_PASSWORD")
	v.BindEnv("textgen.api_key", "POSTFORGE_TEXTGEN_API_KEY", "OPENAI_API_KEY")
}

// Timeout returns the CMS request timeout (default: 30s)
func (c *WordPressConfig) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// GetBaseURL returns the backend API base URL (default: https://api.openai.com/v1)
func (c *TextGenConfig) GetBaseURL() string {
	if c.BaseURL == "" {
		return "https://api.openai.com/v1"
	}
	return c.BaseURL
}

// GetModel returns the model identifier (default: gpt-4o)
func (c *TextGenConfig) GetModel() string {
	if c.Model == "" {
		return "gpt-4o"
	}
	return c.Model
}

// GetTemperature returns the sampling temperature (default: 0.7)
func (c *TextGenConfig) GetTemperature() float64 {
	if c.Temperature != nil {
		return *c.Temperature
	}
	return 0.7
}

// GetMaxTokens returns the completion token cap, or 0 when the backend
// default should be used
func (c *TextGenConfig) GetMaxTokens() int {
	if c.MaxTokens != nil {
		return *c.MaxTokens
	}
	return 0
}

// Timeout returns the backend request timeout (default: 120s)
func (c *TextGenConfig) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 120 * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Interval returns the pause between scheduled runs (default: 30m)
func (c *ScheduleConfig) Interval() time.Duration {
	if c.IntervalSeconds <= 0 {
		return 1800 * time.Second
	}
	return time.Duration(c.IntervalSeconds) * time.Second
}

// GetMaxRetries returns the generation attempts per channel (default: 3)
func (c *SocialConfig) GetMaxRetries() int {
	if c.MaxRetries <= 0 {
		return 3
	}
	return c.MaxRetries
}

// RetryDelay returns the pause between generation attempts (default: 5s).
// An explicit 0 disables the pause.
func (c *SocialConfig) RetryDelay() time.Duration {
	if c.RetryDelaySeconds == nil {
		return 5 * time.Second
	}
	return time.Duration(*c.RetryDelaySeconds) * time.Second
}

// GetHistorySize returns the retained run record count (default: 50)
func (c *AgentConfig) GetHistorySize() int {
	if c.HistorySize <= 0 {
		return 50
	}
	return c.HistorySize
}

// GetServerPort returns the configured server port (default: 8878)
func (c *Config) GetServerPort() int {
	if c.Server.Port == nil || *c.Server.Port == 0 {
		return DefaultServerPort
	}
	return *c.Server.Port
}

// GetServerAllowedOrigins returns the allowed WebSocket/CORS origins
func (c *Config) GetServerAllowedOrigins() []string {
	if len(c.Server.AllowedOrigins) == 0 {
		return []string{
			"http://localhost",
			"https://localhost",
			"http://127.0.0.1",
			"https://127.0.0.1",
		}
	}
	return c.Server.AllowedOrigins
}

// GetServerLogTheme returns the log theme (default: everforest)
func (c *Config) GetServerLogTheme() string {
	if c.Server.LogTheme == "" {
		return "everforest"
	}
	return c.Server.LogTheme
}

// String returns a string representation of the config with secrets omitted
func (c *Config) String() string {
	return fmt.Sprintf("Config{WordPress: {Domain: %s, Username: %s}, TextGen: {Model: %s}, Schedule: {IntervalSeconds: %d}}",
		c.WordPress.Domain, c.WordPress.Username, c.TextGen.GetModel(), c.Schedule.IntervalSeconds)
}
