package shared

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// JSONValue marshals an embedded collection for a JSON/JSONB column
func JSONValue(v any) (driver.Value, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// ScanJSON reads a JSON/JSONB column into dest.
// NULL and empty payloads leave dest untouched.
func ScanJSON(value interface{}, dest any) error {
	if value == nil {
		return nil
	}
	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("failed to scan JSON column: unsupported type %T", value)
	}
	if len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, dest)
}
