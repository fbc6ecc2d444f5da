package icinga2

import (
	"github.com/creasty/defaults"
	"github.com/icinga/icinga2-api/internal"
	"github.com/pkg/errors"
	"time"
)

// Config defines the API client configuration.
type Config struct {
	Host       string `yaml:"host"`
	Port       int    `yaml:"port" default:"5665"`
	ApiVersion string `yaml:"api-version" default:"v1"`

	// Username and Password are used for HTTP basic auth when no certificate
	// files are found under PkiPath (see ResolveCredentials).
	Username string `yaml:"username"`
	Password string `yaml:"password"`

	// PkiPath is probed for <node-name>.crt, <node-name>.key and ca.crt.
	PkiPath  string `yaml:"pki-path"`
	NodeName string `yaml:"node-name"`

	// VerifyTls is off by default since monitoring deployments
	// commonly run on self-signed certificates.
	VerifyTls bool `yaml:"verify-tls"`

	// CacheTimeout bounds the staleness of the application, CIB and
	// object snapshots used by the derived-metric accessors.
	CacheTimeout time.Duration `yaml:"cache-timeout" default:"320s"`

	Retry RetryConfig `yaml:"retry"`
}

// RetryConfig defines the transport retry policy.
// The default of a single attempt preserves the behavior of making
// exactly one try per call; operators may raise it.
type RetryConfig struct {
	Attempts   uint64        `yaml:"attempts" default:"1"`
	MinBackoff time.Duration `yaml:"min-backoff" default:"256ms"`
	MaxBackoff time.Duration `yaml:"max-backoff" default:"8s"`
	// Timeout limits the total time spent on a call, retries included. Zero means no limit.
	Timeout time.Duration `yaml:"timeout"`
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

// Validate checks constraints in the supplied API configuration and returns an error if they are violated.
func (c *Config) Validate() error {
	if c.Host == "" {
		return errors.New("API host missing")
	}
	if c.Port <= 0 {
		return errors.New("API port must be positive")
	}
	if c.CacheTimeout <= 0 {
		return errors.New("cache timeout must be positive")
	}

	return c.Retry.Validate()
}

// Validate checks constraints in the supplied retry configuration and returns an error if they are violated.
func (r *RetryConfig) Validate() error {
	if r.Attempts == 0 {
		return errors.New("retry attempts must be at least 1")
	}
	if r.MinBackoff >= r.MaxBackoff {
		return errors.New("min backoff must be smaller than max backoff")
	}

	return nil
}
