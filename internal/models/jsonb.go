package models

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"
)

// DecodeObject parses a stored JSON blob into a generic object. Empty and
// null blobs decode to an empty map. Blobs written by older clients sometimes
// hold the object as a JSON string; those are unwrapped once.
func DecodeObject(raw []byte) (map[string]any, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return map[string]any{}, nil
	}
	if raw[0] == '"' {
		var inner string
		if err := json.Unmarshal(raw, &inner); err != nil {
			return nil, fmt.Errorf("jsonb decode: %w", err)
		}
		return DecodeObject([]byte(inner))
	}
	var obj map[string]any
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, fmt.Errorf("jsonb decode: %w", err)
	}
	if obj == nil {
		obj = map[string]any{}
	}
	return obj, nil
}

// EncodeJSON marshals v into a column value.
func EncodeJSON(v any) (datatypes.JSON, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("jsonb encode: %w", err)
	}
	return datatypes.JSON(b), nil
}
