package config

import "time"

// RoomConfig describes one entry in the static room catalog.
type RoomConfig struct {
	ID   string `mapstructure:"id" yaml:"id"`
	Name string `mapstructure:"name" yaml:"name"`
}

// Config holds server configuration values.
type Config struct {
	Addr              string        `mapstructure:"addr" yaml:"addr"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout" yaml:"read_header_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
	DatabasePath      string        `mapstructure:"database_path" yaml:"database_path"`
	JWTSecret         string        `mapstructure:"jwt_secret" yaml:"jwt_secret"`
	JWTIssuer         string        `mapstructure:"jwt_issuer" yaml:"jwt_issuer"`
	JWTAudience       string        `mapstructure:"jwt_audience" yaml:"jwt_audience"`
	TokenTTL          time.Duration `mapstructure:"token_ttl" yaml:"token_ttl"`
	LogLevel          string        `mapstructure:"log_level" yaml:"log_level"`
	HistoryLimit      int           `mapstructure:"history_limit" yaml:"history_limit"`
	Rooms             []RoomConfig  `mapstructure:"rooms" yaml:"rooms"`
}

// Default returns configuration with reasonable starter defaults.
func Default() Config {
	return Config{
		Addr:              ":8080",
		ReadHeaderTimeout: 5 * time.Second,
		ShutdownTimeout:   5 * time.Second,
		DatabasePath:      "roomcast.db",
		JWTSecret:         "dev-secret-change-me",
		JWTIssuer:         "roomcast",
		JWTAudience:       "roomcast",
		TokenTTL:          30 * 24 * time.Hour,
		LogLevel:          "info",
		HistoryLimit:      50,
		Rooms: []RoomConfig{
			{ID: "general", Name: "General"},
			{ID: "tech", Name: "Tech"},
			{ID: "random", Name: "Random"},
			{ID: "programming", Name: "Programming"},
			{ID: "web", Name: "Web Dev"},
		},
	}
}
