package types

import (
	"bytes"
	"encoding"
	"encoding/json"
	"github.com/icinga/icinga2-api/internal"
	"strconv"
)

// Float is a nullable float64 as the Icinga 2 API returns it,
// i.e. most numeric attributes are floats regardless of their semantics.
type Float struct {
	Float64 float64
	Valid   bool // Valid is true if Float64 is not null.
}

// MakeFloat returns a valid Float for the given value.
func MakeFloat(v float64) Float {
	return Float{Float64: v, Valid: true}
}

// Int returns the truncated integer value of f, 0 if null.
func (f Float) Int() int {
	return int(f.Float64)
}

// MarshalJSON implements the json.Marshaler interface.
// Supports JSON null.
func (f Float) MarshalJSON() ([]byte, error) {
	var v interface{}
	if f.Valid {
		v = f.Float64
	}

	return internal.MarshalJSON(v)
}

// UnmarshalText implements the encoding.TextUnmarshaler interface.
func (f *Float) UnmarshalText(text []byte) error {
	parsed, err := strconv.ParseFloat(string(text), 64)
	if err != nil {
		return internal.CantParseFloat64(err, string(text))
	}

	*f = Float{Float64: parsed, Valid: true}

	return nil
}

// UnmarshalJSON implements the json.Unmarshaler interface.
// Supports JSON null.
func (f *Float) UnmarshalJSON(data []byte) error {
	// Ignore null, like in the main JSON package.
	if bytes.HasPrefix(data, []byte{'n'}) {
		return nil
	}

	if err := internal.UnmarshalJSON(data, &f.Float64); err != nil {
		return err
	}

	f.Valid = true

	return nil
}

// Assert interface compliance.
var (
	_ json.Marshaler           = Float{}
	_ encoding.TextUnmarshaler = (*Float)(nil)
	_ json.Unmarshaler         = (*Float)(nil)
)
