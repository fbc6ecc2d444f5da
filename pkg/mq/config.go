package mq

import (
	"github.com/creasty/defaults"
	"github.com/icinga/icinga2-api/internal"
	"github.com/icinga/icinga2-api/pkg/config"
	"github.com/pkg/errors"
	"time"
)

// Config defines the queue client configuration.
type Config struct {
	Host       string     `yaml:"host"`
	Port       int        `yaml:"port" default:"6379"`
	Password   string     `yaml:"password"`
	Database   int        `yaml:"database" default:"0"`
	Queue      string     `yaml:"queue" default:"icinga2"`
	TlsOptions config.TLS `yaml:",inline"`

	// KickInterval is how often buried jobs are kicked back to ready.
	KickInterval time.Duration `yaml:"kick-interval" default:"5m"`
}

// UnmarshalYAML implements the yaml.Unmarshaler interface.
func (c *Config) UnmarshalYAML(unmarshal func(interface{}) error) error {
	if err := defaults.Set(c); err != nil {
		return err
	}
	// Prevent recursion.
	type self Config
	if err := unmarshal((*self)(c)); err != nil {
		return internal.CantUnmarshalYAML(err, c)
	}
	return nil
}

// Validate checks constraints in the supplied queue configuration and returns an error if they are violated.
func (c *Config) Validate() error {
	if c.Host == "" {
		return errors.New("queue host missing")
	}
	if c.Queue == "" {
		return errors.New("queue name missing")
	}
	if c.KickInterval <= 0 {
		return errors.New("kick interval must be positive")
	}

	return nil
}
