package config

import "time"

// ServerConfig holds the TCP connection settings for the contest server
// (the wire-protocol external collaborator described in spec.md §6).
type ServerConfig struct {
	// Host is the contest server hostname or IP (CLI flag -i)
	Host string `mapstructure:"host" validate:"required"`

	// Port is the contest server TCP port (CLI flag -p)
	Port int `mapstructure:"port" validate:"required,min=1,max=65535"`

	// ConnectTimeout bounds the initial TCP dial
	ConnectTimeout time.Duration `mapstructure:"connect_timeout" validate:"required"`

	// ActionWriteRate caps outbound action messages per second per agent session
	ActionWriteRate float64 `mapstructure:"action_write_rate" validate:"required,gt=0"`

	// ActionWriteBurst is the token-bucket burst size for outbound writes
	ActionWriteBurst int `mapstructure:"action_write_burst" validate:"required,min=1"`
}
