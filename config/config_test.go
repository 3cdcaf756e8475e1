package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"

	"github.com/postforge/postforge/errors"
	"github.com/postforge/postforge/internal/util"
)

// validConfig returns a Config with all required secrets present.
func validConfig() *Config {
	return &Config{
		WordPress: WordPressConfig{
			Domain:      "https://blog.example.com",
			Username:    "editor",
			AppPassword: "abcd efgh ijkl mnop",
		},
		TextGen: TextGenConfig{APIKey: "sk-test"},
	}
}

func TestLoad_Defaults(t *testing.T) {
	// Create isolated viper instance without loading user/system config
	v := viper.New()
	SetDefaults(v)

	cfg, err := LoadWithViper(v)
	if err != nil {
		t.Fatalf("LoadWithViper() failed: %v", err)
	}

	if got := cfg.TextGen.GetModel(); got != "gpt-4o" {
		t.Errorf("expected default model 'gpt-4o', got %q", got)
	}
	if got := cfg.TextGen.GetBaseURL(); got != "https://api.openai.com/v1" {
		t.Errorf("expected default base URL, got %q", got)
	}
	if got := cfg.TextGen.GetTemperature(); got != 0.7 {
		t.Errorf("expected default temperature 0.7, got %g", got)
	}
	if cfg.TextGen.MaxTokens != nil {
		t.Errorf("expected nil max_tokens (backend default), got %d", *cfg.TextGen.MaxTokens)
	}
	if cfg.Schedule.IntervalSeconds != 1800 {
		t.Errorf("expected default interval 1800, got %d", cfg.Schedule.IntervalSeconds)
	}
	if cfg.Social.MaxRetries != 3 {
		t.Errorf("expected default max retries 3, got %d", cfg.Social.MaxRetries)
	}
	if got := cfg.Social.RetryDelay(); got != 5*time.Second {
		t.Errorf("expected default retry delay 5s, got %v", got)
	}
	if got := cfg.GetServerPort(); got != DefaultServerPort {
		t.Errorf("expected default port %d, got %d", DefaultServerPort, got)
	}
	if got := cfg.GetServerLogTheme(); got != "everforest" {
		t.Errorf("expected default log theme 'everforest', got %q", got)
	}
}

func TestSetDefaults(t *testing.T) {
	v := viper.New()
	SetDefaults(v)

	// Verify critical defaults are set
	tests := []struct {
		key      string
		expected interface{}
	}{
		{"wordpress.timeout_seconds", 30},
		{"wordpress.allow_private_hosts", false},
		{"textgen.base_url", "https://api.openai.com/v1"},
		{"textgen.model", "gpt-4o"},
		{"textgen.temperature", 0.7},
		{"textgen.timeout_seconds", 120},
		{"schedule.interval_seconds", 1800},
		{"social.max_retries", 3},
		{"social.retry_delay_seconds", 5},
		{"agent.history_size", 50},
		{"server.port", DefaultServerPort},
		{"server.log_theme", "everforest"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			got := v.Get(tt.key)
			if got != tt.expected {
				t.Errorf("default %s = %v, want %v", tt.key, got, tt.expected)
			}
		})
	}

	// The secrets must never get defaults
	for _, key := range []string{"wordpress.domain", "wordpress.username", "wordpress.app_password", "textgen.api_key"} {
		if v.IsSet(key) {
			t.Errorf("secret %s must not have a default", key)
		}
	}
}

func TestValidate_MissingSecrets(t *testing.T) {
	var empty Config
	err := empty.Validate()
	if err == nil {
		t.Fatal("expected validation failure for empty config")
	}
	if !errors.IsConfig(err) {
		t.Errorf("expected config error kind, got %v", err)
	}

	// Every missing secret is reported in one pass
	for _, key := range []string{"wordpress.domain", "wordpress.username", "wordpress.app_password", "textgen.api_key"} {
		if !strings.Contains(err.Error(), key) {
			t.Errorf("expected error to name %s, got: %v", key, err)
		}
	}

	// A single missing secret is reported alone
	cfg := validConfig()
	cfg.TextGen.APIKey = ""
	err = cfg.Validate()
	if err == nil {
		t.Fatal("expected validation failure for missing api key")
	}
	if !strings.Contains(err.Error(), "textgen.api_key") {
		t.Errorf("expected error to name textgen.api_key, got: %v", err)
	}
	if strings.Contains(err.Error(), "wordpress.domain") {
		t.Errorf("did not expect wordpress.domain in error: %v", err)
	}

	// Whitespace-only values count as missing
	cfg = validConfig()
	cfg.WordPress.Username = "   "
	if err := cfg.Validate(); err == nil {
		t.Error("expected whitespace-only username to be rejected")
	}

	if err := validConfig().Validate(); err != nil {
		t.Errorf("expected complete config to validate, got: %v", err)
	}
}

func TestValidate_ZeroValues(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:    "zero interval is valid (default applies)",
			mutate:  func(c *Config) { c.Schedule.IntervalSeconds = 0 },
			wantErr: false,
		},
		{
			name:    "negative interval is invalid",
			mutate:  func(c *Config) { c.Schedule.IntervalSeconds = -1 },
			wantErr: true,
		},
		{
			name:    "zero retries is valid (default applies)",
			mutate:  func(c *Config) { c.Social.MaxRetries = 0 },
			wantErr: false,
		},
		{
			name:    "negative retries is invalid",
			mutate:  func(c *Config) { c.Social.MaxRetries = -1 },
			wantErr: true,
		},
		{
			name:    "zero retry delay is valid (no pause)",
			mutate:  func(c *Config) { c.Social.RetryDelaySeconds = util.Ptr(0) },
			wantErr: false,
		},
		{
			name:    "negative retry delay is invalid",
			mutate:  func(c *Config) { c.Social.RetryDelaySeconds = util.Ptr(-5) },
			wantErr: true,
		},
		{
			name:    "nil port is valid (default applies)",
			mutate:  func(c *Config) { c.Server.Port = nil },
			wantErr: false,
		},
		{
			name:    "zero port is invalid",
			mutate:  func(c *Config) { c.Server.Port = util.Ptr(0) },
			wantErr: true,
		},
		{
			name:    "negative port is invalid",
			mutate:  func(c *Config) { c.Server.Port = util.Ptr(-1) },
			wantErr: true,
		},
		{
			name:    "temperature above range is invalid",
			mutate:  func(c *Config) { c.TextGen.Temperature = util.Ptr(2.5) },
			wantErr: true,
		},
		{
			name:    "explicit zero max tokens is invalid",
			mutate:  func(c *Config) { c.TextGen.MaxTokens = util.Ptr(0) },
			wantErr: true,
		},
		{
			name:    "negative history size is invalid",
			mutate:  func(c *Config) { c.Agent.HistorySize = -1 },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.IsConfig(err) {
				t.Errorf("expected config error kind, got %v", err)
			}
		})
	}
}

func TestValidate_PrivateDomain(t *testing.T) {
	cfg := validConfig()
	cfg.WordPress.Domain = "http://localhost:8080"
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation failure for localhost domain")
	}
	if !errors.IsConfig(err) {
		t.Errorf("expected config error kind, got %v", err)
	}
	if hints := errors.FlattenHints(err); !strings.Contains(hints, "allow_private_hosts") {
		t.Errorf("expected hint naming the opt-in key, got %q", hints)
	}

	// The opt-in accepts the same domain
	cfg.WordPress.AllowPrivateHosts = true
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected opted-in localhost domain to validate, got: %v", err)
	}

	cfg = validConfig()
	cfg.WordPress.Domain = "http://192.168.1.10"
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation failure for private-network domain")
	}

	// Public domains never trip the guard
	if err := validConfig().Validate(); err != nil {
		t.Errorf("expected public domain to validate, got: %v", err)
	}
}

func TestBindSensitiveEnvVars(t *testing.T) {
	t.Run("legacy names", func(t *testing.T) {
		v := viper.New()
		BindSensitiveEnvVars(v)

		t.Setenv("WP_DOMAIN", "https://blog.example.com")
		t.Setenv("WP_USERNAME", "editor")
		t.Setenv("WP_APP_PASSWORD", "abcd efgh")
		t.Setenv("OPENAI_API_KEY", "sk-test")

		if got := v.GetString("wordpress.domain"); got != "https://blog.example.com" {
			t.Errorf("wordpress.domain = %q", got)
		}
		if got := v.GetString("wordpress.username"); got != "editor" {
			t.Errorf("wordpress.username = %q", got)
		}
		if got := v.GetString("wordpress.app_password"); got != "abcd efgh" {
			t.Errorf("wordpress.app_password = %q", got)
		}
		if got := v.GetString("textgen.api_key"); got != "sk-test" {
			t.Errorf("textgen.api_key = %q", got)
		}
	})

	t.Run("postforge names take precedence", func(t *testing.T) {
		v := viper.New()
		BindSensitiveEnvVars(v)

		t.Setenv("WP_DOMAIN", "https://legacy.example.com")
		t.Setenv("POSTFORGE_WORDPRESS_DOMAIN", "https://new.example.com")

		if got := v.GetString("wordpress.domain"); got != "https://new.example.com" {
			t.Errorf("wordpress.domain = %q, want the POSTFORGE_ value", got)
		}
	})
}

func TestLoad_EnvOverride(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	t.Setenv("POSTFORGE_SCHEDULE_INTERVAL_SECONDS", "600")
	t.Setenv("WP_DOMAIN", "https://blog.example.com")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Schedule.IntervalSeconds != 600 {
		t.Errorf("expected env override 600, got %d", cfg.Schedule.IntervalSeconds)
	}
	if cfg.WordPress.Domain != "https://blog.example.com" {
		t.Errorf("expected legacy env domain, got %q", cfg.WordPress.Domain)
	}

	// Load caches until Reset
	again, err := Load()
	if err != nil {
		t.Fatalf("second Load() failed: %v", err)
	}
	if again != cfg {
		t.Error("expected cached config instance")
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "postforge.toml")

	content := `
[wordpress]
domain = "https://blog.example.com"
username = "editor"
app_password = "abcd efgh ijkl mnop"

[textgen]
api_key = "sk-test"
model = "gpt-4o-mini"

[schedule]
interval_seconds = 600
`
	if err := os.WriteFile(configPath, []byte(content), DefaultFilePermissions); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	cfg, err := LoadFromFile(configPath)
	if err != nil {
		t.Fatalf("LoadFromFile() failed: %v", err)
	}

	if cfg.WordPress.Domain != "https://blog.example.com" {
		t.Errorf("wordpress.domain = %q", cfg.WordPress.Domain)
	}
	if cfg.TextGen.Model != "gpt-4o-mini" {
		t.Errorf("textgen.model = %q", cfg.TextGen.Model)
	}
	if cfg.Schedule.IntervalSeconds != 600 {
		t.Errorf("schedule.interval_seconds = %d", cfg.Schedule.IntervalSeconds)
	}
	// Defaults still apply for keys the file leaves unset
	if cfg.Social.MaxRetries != 3 {
		t.Errorf("expected default max retries 3, got %d", cfg.Social.MaxRetries)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected file config to validate, got: %v", err)
	}

	if _, err := LoadFromFile(filepath.Join(tmpDir, "missing.toml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestFindProjectConfig(t *testing.T) {
	tmpDir := t.TempDir()

	t.Run("found in ancestor", func(t *testing.T) {
		subDir := filepath.Join(tmpDir, "project", "cmd", "deep")
		os.MkdirAll(subDir, DefaultDirPermissions)
		os.WriteFile(filepath.Join(tmpDir, "project", "postforge.toml"), []byte(""), DefaultFilePermissions)

		oldWd, _ := os.Getwd()
		defer os.Chdir(oldWd)
		os.Chdir(subDir)

		result := findProjectConfig()
		if result == "" {
			t.Fatal("expected to find config file")
		}
		if filepath.Base(result) != "postforge.toml" {
			t.Errorf("expected postforge.toml, got %s", filepath.Base(result))
		}
	})

	t.Run("no config found", func(t *testing.T) {
		subDir := filepath.Join(tmpDir, "bare", "subdir")
		os.MkdirAll(subDir, DefaultDirPermissions)

		oldWd, _ := os.Getwd()
		defer os.Chdir(oldWd)
		os.Chdir(subDir)

		if result := findProjectConfig(); result != "" {
			t.Errorf("expected empty string, got %s", result)
		}
	})
}

func TestConfigGetters(t *testing.T) {
	var tg TextGenConfig
	if got := tg.GetTemperature(); got != 0.7 {
		t.Errorf("GetTemperature() = %g, want 0.7", got)
	}
	if got := tg.GetMaxTokens(); got != 0 {
		t.Errorf("GetMaxTokens() = %d, want 0", got)
	}
	if got := tg.Timeout(); got != 120*time.Second {
		t.Errorf("Timeout() = %v, want 120s", got)
	}

	tg = TextGenConfig{Temperature: util.Ptr(0.2), MaxTokens: util.Ptr(4096), TimeoutSeconds: 15}
	if got := tg.GetTemperature(); got != 0.2 {
		t.Errorf("GetTemperature() = %g, want 0.2", got)
	}
	if got := tg.GetMaxTokens(); got != 4096 {
		t.Errorf("GetMaxTokens() = %d, want 4096", got)
	}
	if got := tg.Timeout(); got != 15*time.Second {
		t.Errorf("Timeout() = %v, want 15s", got)
	}

	var sc ScheduleConfig
	if got := sc.Interval(); got != 1800*time.Second {
		t.Errorf("Interval() = %v, want 30m", got)
	}
	sc.IntervalSeconds = 60
	if got := sc.Interval(); got != time.Minute {
		t.Errorf("Interval() = %v, want 1m", got)
	}

	var so SocialConfig
	if got := so.GetMaxRetries(); got != 3 {
		t.Errorf("GetMaxRetries() = %d, want 3", got)
	}
	if got := so.RetryDelay(); got != 5*time.Second {
		t.Errorf("RetryDelay() = %v, want 5s", got)
	}
	so.RetryDelaySeconds = util.Ptr(0)
	if got := so.RetryDelay(); got != 0 {
		t.Errorf("RetryDelay() = %v, want 0", got)
	}

	var ag AgentConfig
	if got := ag.GetHistorySize(); got != 50 {
		t.Errorf("GetHistorySize() = %d, want 50", got)
	}
}

func TestString_OmitsSecrets(t *testing.T) {
	cfg := validConfig()
	s := cfg.String()

	if strings.Contains(s, cfg.WordPress.AppPassword) {
		t.Error("String() must not contain the app password")
	}
	if strings.Contains(s, cfg.TextGen.APIKey) {
		t.Error("String() must not contain the API key")
	}
	if !strings.Contains(s, cfg.WordPress.Domain) {
		t.Error("String() should include the domain")
	}
}
