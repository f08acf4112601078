package config

import "time"

// Config holds server configuration values.
type Config struct {
	Addr              string        `mapstructure:"addr" yaml:"addr"`
	PublicURL         string        `mapstructure:"public_url" yaml:"public_url"`
	RoomSlug          string        `mapstructure:"room_slug" yaml:"room_slug"`
	LogLevel          string        `mapstructure:"log_level" yaml:"log_level"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout" yaml:"read_header_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`

	// Abuse protection and reconnect policy.
	RateLimitPerSecond int           `mapstructure:"rate_limit_per_second" yaml:"rate_limit_per_second"`
	MaxMessageBytes    int64         `mapstructure:"max_message_bytes" yaml:"max_message_bytes"`
	MaxPhotoBytes      int64         `mapstructure:"max_photo_bytes" yaml:"max_photo_bytes"`
	GraceWindow        time.Duration `mapstructure:"grace_window" yaml:"grace_window"`
	ClientBuffer       int           `mapstructure:"client_buffer" yaml:"client_buffer"`
}

// Default returns configuration with reasonable starter defaults.
func Default() Config {
	return Config{
		Addr:               ":8080",
		PublicURL:          "http://localhost:8080",
		RoomSlug:           "",
		LogLevel:           "info",
		ReadHeaderTimeout:  5 * time.Second,
		ShutdownTimeout:    5 * time.Second,
		RateLimitPerSecond: 60,
		MaxMessageBytes:    10 << 10,
		MaxPhotoBytes:      1 << 20,
		GraceWindow:        5 * time.Minute,
		ClientBuffer:       64,
	}
}
