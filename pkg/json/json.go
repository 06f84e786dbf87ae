// Package json reads loosely shaped JSON documents, such as error bodies from
// servers whose field names are not known in advance.
package json

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// JSONObject is a decoded JSON object.
type JSONObject map[string]any

// Parse decodes str as a JSON object. Documents that are valid JSON but not
// objects are reported as errors.
func Parse(str string) (JSONObject, error) {
	var obj JSONObject
	trimmed := bytes.TrimSpace([]byte(str))
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, fmt.Errorf("json: not an object")
	}
	if err := json.Unmarshal(trimmed, &obj); err != nil {
		return nil, err
	}
	return obj, nil
}

// FirstString returns the first of keys holding a non-empty value, rendered
// as text. Non-string values (e.g. a list of validation errors) are
// re-encoded as JSON.
func (o JSONObject) FirstString(keys ...string) (string, bool) {
	for _, k := range keys {
		v, ok := o[k]
		if !ok || v == nil {
			continue
		}
		if s, ok := v.(string); ok {
			if s != "" {
				return s, true
			}
			continue
		}
		b, err := json.Marshal(v)
		if err != nil {
			continue
		}
		return string(b), true
	}
	return "", false
}
