package config

import "time"

// Config represents the complete configuration structure
type Config struct {
	Posterous PosterousConfig `mapstructure:"posterous"`
	Token     TokenConfig     `mapstructure:"token"`
	Cursor    CursorConfig    `mapstructure:"cursor"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// PosterousConfig holds the service endpoint and basic credentials
type PosterousConfig struct {
	Host     string        `mapstructure:"host"`
	Scheme   string        `mapstructure:"scheme"`
	Username string        `mapstructure:"username"`
	Password string        `mapstructure:"password"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// TokenConfig holds signed-token credentials. When set they take
// precedence over the basic credentials.
type TokenConfig struct {
	KeyID  string `mapstructure:"key_id"`
	Secret string `mapstructure:"secret"`
}

// CursorConfig sets pagination defaults for the CLI
type CursorConfig struct {
	PageSize int `mapstructure:"page_size"`
	Limit    int `mapstructure:"limit"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Color  bool   `mapstructure:"color"`
}
