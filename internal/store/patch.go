package store

import (
	"encoding/json"
	"errors"

	"qcreports/internal/services/report"
)

var (
	ErrNotFound  = report.ErrNotFound
	ErrDuplicate = errors.New("already exists")
)

// normalize turns a patch with Go-typed values (times, raw JSON columns)
// into its plain JSON form.
func normalize(p report.Patch) (map[string]any, []byte, error) {
	b, err := json.Marshal(p)
	if err != nil {
		return nil, nil, report.Invalid("", "encode payload: %v", err)
	}
	var doc map[string]any
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, nil, report.Invalid("", "encode payload: %v", err)
	}
	if doc == nil {
		doc = map[string]any{}
	}
	return doc, b, nil
}

// decode reads a JSON document into a model value. Type mismatches come back
// as validation errors naming the field.
func decode[T any](b []byte) (*T, error) {
	var v T
	if err := json.Unmarshal(b, &v); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return nil, report.Invalid(typeErr.Field, "expected %s, got %s", typeErr.Type, typeErr.Value)
		}
		return nil, report.Invalid("", "%v", err)
	}
	return &v, nil
}
