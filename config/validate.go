package config

import (
	"net/url"
	"strings"

	"github.com/postforge/postforge/errors"
	"github.com/postforge/postforge/internal/httpclient"
)

// requiredSecrets lists the configuration keys the agent cannot run without,
// paired with the legacy environment variable most operators set them with.
var requiredSecrets = []struct {
	key string
	env string
	get func(*Config) string
}{
	{"wordpress.domain", "WP_DOMAIN", func(c *Config) string { return c.WordPress.Domain }},
	{"wordpress.username", "WP_USERNAME", func(c *Config) string { return c.WordPress.Username }},
	{"wordpress.app_password", "WP_APP_PASSWORD", func(c *Config) string { return c.WordPress.AppPassword }},
	{"textgen.api_key", "OPENAI_API_KEY", func(c *Config) string { return c.TextGen.APIKey }},
}

// Validate checks that the configuration is valid and complete enough to run
// the agent. All missing secrets are reported together so an operator can fix
// the environment in one pass rather than one failure at a time.
func (c *Config) Validate() error {
	var missing []string
	for _, s := range requiredSecrets {
		if strings.TrimSpace(s.get(c)) == "" {
			missing = append(missing, s.key+" ("+s.env+")")
		}
	}
	if len(missing) > 0 {
		return errors.WithHint(
			errors.NewConfigf("missing required configuration: %s", strings.Join(missing, ", ")),
			"set the environment variables or add the keys to postforge.toml",
		)
	}

	// Server port: 0 is invalid (omit for default), negative is invalid
	if c.Server.Port != nil && *c.Server.Port == 0 {
		return errors.NewConfigf("server.port cannot be 0 (omit for default port %d)", DefaultServerPort)
	}
	if c.Server.Port != nil && *c.Server.Port < 0 {
		return errors.NewConfigf("server.port must be positive, got %d", *c.Server.Port)
	}

	// Schedule interval: 0 = use default, negative = invalid
	if c.Schedule.IntervalSeconds < 0 {
		return errors.NewConfigf("schedule.interval_seconds must be >= 0, got %d", c.Schedule.IntervalSeconds)
	}

	// Social retry policy: 0 retries = use default, negative = invalid;
	// nil delay = default, 0 = no pause, negative = invalid
	if c.Social.MaxRetries < 0 {
		return errors.NewConfigf("social.max_retries must be >= 0, got %d", c.Social.MaxRetries)
	}
	if c.Social.RetryDelaySeconds != nil && *c.Social.RetryDelaySeconds < 0 {
		return errors.NewConfigf("social.retry_delay_seconds must be >= 0, got %d (omit for default)", *c.Social.RetryDelaySeconds)
	}

	// Text generation knobs
	if c.TextGen.TimeoutSeconds < 0 {
		return errors.NewConfigf("textgen.timeout_seconds must be >= 0, got %d", c.TextGen.TimeoutSeconds)
	}
	if c.TextGen.RequestsPerMinute < 0 {
		return errors.NewConfigf("textgen.requests_per_minute must be >= 0, got %d", c.TextGen.RequestsPerMinute)
	}
	if c.TextGen.Temperature != nil && (*c.TextGen.Temperature < 0 || *c.TextGen.Temperature > 2) {
		return errors.NewConfigf("textgen.temperature must be between 0 and 2, got %g", *c.TextGen.Temperature)
	}
	if c.TextGen.MaxTokens != nil && *c.TextGen.MaxTokens <= 0 {
		return errors.NewConfigf("textgen.max_tokens must be > 0, got %d (omit for backend default)", *c.TextGen.MaxTokens)
	}

	// WordPress timeout: 0 = use default, negative = invalid
	if c.WordPress.TimeoutSeconds < 0 {
		return errors.NewConfigf("wordpress.timeout_seconds must be >= 0, got %d", c.WordPress.TimeoutSeconds)
	}

	// A localhost or private-network site is refused up front unless the
	// operator opted in. The publish client applies the same policy again,
	// including at dial time for domains that only resolve privately.
	if !c.WordPress.AllowPrivateHosts {
		if u, err := url.Parse(c.WordPress.Domain); err == nil && httpclient.IsPrivateHost(u.Hostname()) {
			return errors.WithHint(
				errors.NewConfigf("wordpress.domain %q is a localhost or private-network address", c.WordPress.Domain),
				"set wordpress.allow_private_hosts = true to publish to a site on your own network",
			)
		}
	}

	// Agent history: 0 = use default, negative = invalid
	if c.Agent.HistorySize < 0 {
		return errors.NewConfigf("agent.history_size must be >= 0, got %d", c.Agent.HistorySize)
	}

	return nil
}
