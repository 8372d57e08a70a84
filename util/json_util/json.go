// Package json_util provides JSON utilities including a custom RawMessage type.
package json_util

import (
	"database/sql/driver"
	"errors"
	"fmt"
)

// RawMessage is a custom JSON raw message type that marshals empty slices as "null".
type RawMessage []byte

// MarshalJSON customizes the JSON marshaling behavior for RawMessage.
// Empty RawMessage values are marshaled as "null" instead of "[]".
func (m RawMessage) MarshalJSON() ([]byte, error) {
	if len(m) == 0 {
		return []byte("null"), nil
	}
	return m, nil
}

// UnmarshalJSON sets *m to a copy of the JSON data.
func (m *RawMessage) UnmarshalJSON(data []byte) error {
	if m == nil {
		return errors.New("json.RawMessage: UnmarshalJSON on nil pointer")
	}
	*m = append((*m)[0:0], data...)
	return nil
}

// Value implements driver.Valuer so RawMessage can back a database column.
func (m RawMessage) Value() (driver.Value, error) {
	if len(m) == 0 {
		return nil, nil
	}
	return []byte(m), nil
}

// Scan implements sql.Scanner.
func (m *RawMessage) Scan(value any) error {
	switch v := value.(type) {
	case nil:
		*m = nil
	case []byte:
		*m = append((*m)[0:0], v...)
	case string:
		*m = RawMessage(v)
	default:
		return fmt.Errorf("json_util: cannot scan %T into RawMessage", value)
	}
	return nil
}
