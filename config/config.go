package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mattn/go-isatty"
	"github.com/spf13/viper"

	"github.com/thomasw/posterous/posterous"
)

// EnvPrefix prefixes every environment variable the configuration reads,
// e.g. POSTEROUS_HOST or POSTEROUS_TOKEN_SECRET.
const EnvPrefix = "POSTEROUS"

// MaxPageSize is the largest page the service hands out.
const MaxPageSize = 50

// keys lists every setting so environment variables reach Unmarshal
// even without a config file.
var keys = []string{
	"posterous.host",
	"posterous.scheme",
	"posterous.username",
	"posterous.password",
	"posterous.timeout",
	"token.key_id",
	"token.secret",
	"cursor.page_size",
	"cursor.limit",
	"logging.level",
	"logging.format",
	"logging.color",
}

// Load loads the configuration from file, .env files and the environment.
// A missing config file is only an error when configPath names one.
func Load(configPath string) (*Config, error) {
	loadEnvFiles()

	v := viper.New()
	setDefaults(v)
	if err := bindEnv(v); err != nil {
		return nil, err
	}

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "posterous"))
			v.AddConfigPath(filepath.Join(home, ".posterous"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// loadEnvFiles reads .env.local and then .env from the working directory.
// Variables that are already set are never overwritten, so the real
// environment wins over .env.local, which wins over .env.
func loadEnvFiles() {
	for _, name := range []string{".env.local", ".env"} {
		_ = godotenv.Load(name)
	}
}

// envName maps a key to its variable: posterous.host becomes
// POSTEROUS_HOST and token.key_id becomes POSTEROUS_TOKEN_KEY_ID.
func envName(key string) string {
	key = strings.TrimPrefix(key, "posterous.")
	return EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

func bindEnv(v *viper.Viper) error {
	for _, key := range keys {
		if err := v.BindEnv(key, envName(key)); err != nil {
			return fmt.Errorf("binding %s: %w", key, err)
		}
	}
	return nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("posterous.host", "posterous.com")
	v.SetDefault("posterous.scheme", "http")
	v.SetDefault("posterous.timeout", 30*time.Second)

	v.SetDefault("cursor.page_size", posterous.DefaultPageSize)
	v.SetDefault("cursor.limit", 0)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.color", isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd()))
}

// validate checks if the configuration is valid
func validate(cfg *Config) error {
	if cfg.Posterous.Host == "" {
		return fmt.Errorf("posterous.host is required")
	}

	if cfg.Posterous.Scheme != "http" && cfg.Posterous.Scheme != "https" {
		return fmt.Errorf("invalid posterous.scheme: %s (must be 'http' or 'https')", cfg.Posterous.Scheme)
	}

	if (cfg.Posterous.Username == "") != (cfg.Posterous.Password == "") {
		return fmt.Errorf("posterous.username and posterous.password must be set together")
	}

	if cfg.Posterous.Timeout <= 0 {
		return fmt.Errorf("posterous.timeout must be positive")
	}

	if (cfg.Token.KeyID == "") != (cfg.Token.Secret == "") {
		return fmt.Errorf("token.key_id and token.secret must be set together")
	}

	if cfg.Cursor.PageSize < 1 || cfg.Cursor.PageSize > MaxPageSize {
		return fmt.Errorf("invalid cursor.page_size: %d (must be between 1 and %d)", cfg.Cursor.PageSize, MaxPageSize)
	}

	if cfg.Cursor.Limit < 0 {
		return fmt.Errorf("invalid cursor.limit: %d (must not be negative)", cfg.Cursor.Limit)
	}

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

	validFormats := map[string]bool{
		"console": true,
		"json":    true,
	}
	if !validFormats[cfg.Logging.Format] {
		return fmt.Errorf("invalid logging format: %s", cfg.Logging.Format)
	}

	return nil
}

// Auth returns the credential strategy the configuration selects: a signed
// token when one is configured, otherwise basic credentials, which may be
// empty for anonymous use.
func (c *Config) Auth() posterous.Auth {
	if c.Token.KeyID != "" {
		return posterous.SignedTokenAuth(c.Token.KeyID, []byte(c.Token.Secret))
	}
	if c.Posterous.Username == "" {
		return posterous.Anonymous()
	}
	return posterous.BasicAuth(c.Posterous.Username, c.Posterous.Password)
}

// ClientOptions returns the client options derived from the configuration.
func (c *Config) ClientOptions() []posterous.Option {
	return []posterous.Option{
		posterous.WithScheme(c.Posterous.Scheme),
		posterous.WithTimeout(c.Posterous.Timeout),
	}
}
