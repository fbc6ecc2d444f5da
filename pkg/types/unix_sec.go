package types

import (
	"encoding"
	"encoding/json"
	"github.com/icinga/icinga2-api/internal"
	"math"
	"strconv"
	"time"
)

// UnixSec is a nullable UNIX timestamp with sub-second precision in JSON,
// the unit the Icinga 2 API uses for last_check, program_start and friends.
type UnixSec time.Time

// Time returns the time.Time conversion of UnixSec.
func (t UnixSec) Time() time.Time {
	return time.Time(t)
}

// MarshalJSON implements the json.Marshaler interface.
// Marshals to seconds. Supports JSON null.
func (t UnixSec) MarshalJSON() ([]byte, error) {
	if time.Time(t).IsZero() {
		return []byte("null"), nil
	}

	return []byte(strconv.FormatFloat(unixFloat(time.Time(t)), 'f', -1, 64)), nil
}

// UnmarshalText implements the encoding.TextUnmarshaler interface.
func (t *UnixSec) UnmarshalText(text []byte) error {
	parsed, err := strconv.ParseFloat(string(text), 64)
	if err != nil {
		return internal.CantParseFloat64(err, string(text))
	}

	*t = UnixSec(fromUnixFloat(parsed))
	return nil
}

// UnmarshalJSON implements the json.Unmarshaler interface.
// Unmarshals from seconds. Supports JSON null.
func (t *UnixSec) UnmarshalJSON(data []byte) error {
	if string(data) == "null" || len(data) == 0 {
		return nil
	}

	sec, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return internal.CantParseFloat64(err, string(data))
	}
	*t = UnixSec(fromUnixFloat(sec))

	return nil
}

// fromUnixFloat converts a float of seconds since the UNIX epoch into time.Time.
// Zero yields the zero time, as the API sends 0 for "never".
func fromUnixFloat(sec float64) time.Time {
	if sec == 0 {
		return time.Time{}
	}

	s, frac := math.Modf(sec)

	return time.Unix(int64(s), int64(frac*float64(time.Second)))
}

// unixFloat converts t into a float of seconds since the UNIX epoch.
func unixFloat(t time.Time) float64 {
	return float64(t.UnixNano()) / float64(time.Second)
}

// Assert interface compliance.
var (
	_ json.Marshaler           = (*UnixSec)(nil)
	_ encoding.TextUnmarshaler = (*UnixSec)(nil)
	_ json.Unmarshaler         = (*UnixSec)(nil)
)
