// Package api defines the JSON bodies exchanged on /encrypt and /decrypt.
package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

const (
	PathEncrypt = "/encrypt"
	PathDecrypt = "/decrypt"
	PathHealth  = "/health"
	PathMethods = "/methods"
	PathMetrics = "/metrics"
)

// TransformRequest is the request body. Key is kept raw so that a missing,
// null, string or non-integer key can be reported as an invalid key instead
// of a decoding failure.
type TransformRequest struct {
	Message string          `json:"message"`
	Key     json.RawMessage `json:"key,omitempty"`
	Method  string          `json:"method,omitempty"`
}

type TransformResult struct {
	Result string `json:"result"`
}

// TransformError is the failure body. Detail is the canonical field; Error is
// only read by clients talking to older servers.
type TransformError struct {
	Detail string `json:"detail,omitempty"`
	Error  string `json:"error,omitempty"`
}

// Message returns the human readable reason, preferring Detail.
func (e TransformError) Message() string {
	if e.Detail != "" {
		return e.Detail
	}
	return e.Error
}

type HealthResponse struct {
	Status string `json:"status"`
}

type MethodsResponse struct {
	Methods []string `json:"methods"`
}

type BannerResponse struct {
	Message string `json:"message"`
}

var errNotScalar = errors.New("key must be a number or a string")

// NewTransformRequest builds a request body with an integer key.
func NewTransformRequest(message string, key int64, method string) TransformRequest {
	return TransformRequest{
		Message: message,
		Key:     json.RawMessage(fmt.Sprintf("%d", key)),
		Method:  method,
	}
}

// KeyText returns the key as the user typed it: the literal of a JSON number,
// the contents of a JSON string, or "" when the key is absent or null.
func (r TransformRequest) KeyText() (string, error) {
	raw := bytes.TrimSpace(r.Key)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", nil
	}
	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", err
		}
		return s, nil
	case '{', '[', 't', 'f':
		return "", errNotScalar
	}
	return string(raw), nil
}
