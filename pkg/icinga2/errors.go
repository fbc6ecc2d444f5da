package icinga2

import "github.com/pkg/errors"

var (
	// ErrMissingCredentials is returned when neither certificate files nor
	// username and password are available at client construction.
	ErrMissingCredentials = errors.New("no client certificate files and no username/password given")

	// ErrNodeResolution is returned when no node name is configured and
	// the local hostname can't be resolved either.
	ErrNodeResolution = errors.New("can't resolve local node name")

	// ErrUnavailable is returned when the API can't be reached at all.
	// Callers branch on it to tell "no data matched" from "server unreachable".
	ErrUnavailable = errors.New("API unavailable")

	// ErrValidation is returned when a caller passes missing or malformed arguments.
	ErrValidation = errors.New("invalid arguments")
)
