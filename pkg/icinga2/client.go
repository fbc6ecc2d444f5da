package icinga2

import (
	"fmt"
	"github.com/icinga/icinga2-api/pkg/logging"
)

// Client talks to the Icinga 2 HTTP API of a single cluster node.
// Multiple clients are independent and share no mutable state.
type Client struct {
	config      *Config
	credentials *Credentials
	transport   *transport
	cache       *snapshots
	logger      *logging.Logger
}

// NewClientFromConfig resolves credentials from c and returns a new Client.
func NewClientFromConfig(c *Config, logger *logging.Logger) (*Client, error) {
	credentials, err := ResolveCredentials(c)
	if err != nil {
		return nil, err
	}

	return &Client{
		config:      c,
		credentials: credentials,
		transport:   newTransport(c, credentials, logger),
		cache:       newSnapshots(c.CacheTimeout),
		logger:      logger,
	}, nil
}

// UsesCert tells whether the client authenticates with client certificates
// instead of basic auth.
func (c *Client) UsesCert() bool {
	return c.credentials.UsesCert
}

// url assembles the full API URL for the given path.
func (c *Client) url(format string, args ...interface{}) string {
	return fmt.Sprintf("https://%s:%d/%s/", c.config.Host, c.config.Port, c.config.ApiVersion) +
		fmt.Sprintf(format, args...)
}
