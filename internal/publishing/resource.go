package publishing

import (
	"bytes"
	"encoding/json"
)

// Resource is a raw object exactly as transmitted over the wire, before
// assembly into an entity.
type Resource map[string]json.RawMessage

// ID returns the identifier stored under key, zero when missing or unusable.
func (r Resource) ID(key string) ID {
	raw, ok := r[key]
	if !ok {
		return 0
	}
	return decodeID(raw)
}

// String returns the string stored under key. Missing keys, nulls, and
// non-string values yield "".
func (r Resource) String(key string) string {
	raw, ok := r[key]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

// Object returns the nested object stored under key. It reports false for
// anything that is not a JSON object.
func (r Resource) Object(key string) (Resource, bool) {
	raw, ok := r[key]
	if !ok {
		return nil, false
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '{' {
		return nil, false
	}
	var nested Resource
	if err := json.Unmarshal(raw, &nested); err != nil {
		return nil, false
	}
	return nested, true
}

// Set stores value under key in its JSON form.
func (r Resource) Set(key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	r[key] = data
	return nil
}
