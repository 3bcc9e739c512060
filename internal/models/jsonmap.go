package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// JSONMap stores free-form structured metadata as a JSON text column.
// Both click metadata and event metadata are schemaless by design, so the
// database only sees an opaque serialized blob.
type JSONMap map[string]interface{}

// Value serializes the map for storage. A nil map is stored as SQL NULL.
func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	data, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal JSON metadata: %w", err)
	}
	return string(data), nil
}

// Scan deserializes a JSON column back into the map.
func (m *JSONMap) Scan(value interface{}) error {
	if value == nil {
		*m = nil
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported type for JSON metadata column: %T", value)
	}

	return json.Unmarshal(data, m)
}
