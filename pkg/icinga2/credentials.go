package icinga2

import (
	"crypto/tls"
	"github.com/icinga/icinga2-api/pkg/config"
	"github.com/pkg/errors"
	"net"
	"os"
	"path/filepath"
)

// Credentials is the immutable connection-options bundle chosen once at
// client construction. Exactly one auth mode is active, never both.
type Credentials struct {
	// UsesCert tells whether mutual TLS is used instead of basic auth.
	UsesCert  bool
	TlsConfig *tls.Config
	Username  string
	Password  string
}

// ResolveCredentials decides how to authenticate against the API:
// mutual TLS when the node's certificate files are present and readable under
// the PKI path, HTTP basic auth otherwise. Performs no I/O beyond filesystem
// reads and a hostname lookup when no node name is configured.
func ResolveCredentials(c *Config) (*Credentials, error) {
	node := c.NodeName
	if node == "" {
		hostname, err := os.Hostname()
		if err != nil {
			return nil, errors.Wrap(ErrNodeResolution, err.Error())
		}

		if _, err := net.LookupHost(hostname); err != nil {
			return nil, errors.Wrap(ErrNodeResolution, err.Error())
		}

		node = hostname
	}

	tlsOptions := config.TLS{Enable: true, Insecure: !c.VerifyTls}

	if c.PkiPath != "" {
		crt := filepath.Join(c.PkiPath, node+".crt")
		key := filepath.Join(c.PkiPath, node+".key")
		ca := filepath.Join(c.PkiPath, "ca.crt")

		if readable(crt) && readable(key) && readable(ca) {
			tlsOptions.Cert = crt
			tlsOptions.Key = key
			tlsOptions.Ca = ca

			tlsConfig, err := tlsOptions.MakeConfig(c.Host)
			if err != nil {
				return nil, err
			}

			return &Credentials{UsesCert: true, TlsConfig: tlsConfig}, nil
		}
	}

	if c.Username == "" || c.Password == "" {
		return nil, errors.WithStack(ErrMissingCredentials)
	}

	tlsConfig, err := tlsOptions.MakeConfig(c.Host)
	if err != nil {
		return nil, err
	}

	return &Credentials{
		TlsConfig: tlsConfig,
		Username:  c.Username,
		Password:  c.Password,
	}, nil
}

// readable probes whether the file exists and can be opened for reading.
func readable(name string) bool {
	f, err := os.Open(name)
	if err != nil {
		return false
	}
	_ = f.Close()

	return true
}
