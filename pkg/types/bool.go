package types

import (
	"encoding/json"
)

var (
	Yes = Bool{
		Bool:  true,
		Valid: true,
	}

	No = Bool{
		Bool:  false,
		Valid: true,
	}
)

// Bool is a nullable bool.
type Bool struct {
	Bool  bool
	Valid bool // Valid is true if Bool is not null.
}

// MarshalJSON implements the json.Marshaler interface.
// Supports JSON null.
func (b Bool) MarshalJSON() ([]byte, error) {
	if !b.Valid {
		return []byte("null"), nil
	}

	return json.Marshal(b.Bool)
}

// UnmarshalJSON implements the json.Unmarshaler interface.
// Supports JSON null.
func (b *Bool) UnmarshalJSON(data []byte) error {
	if string(data) == "null" || len(data) == 0 {
		return nil
	}

	if err := json.Unmarshal(data, &b.Bool); err != nil {
		return err
	}

	b.Valid = true

	return nil
}

// Assert interface compliance.
var (
	_ json.Marshaler   = (*Bool)(nil)
	_ json.Unmarshaler = (*Bool)(nil)
)
