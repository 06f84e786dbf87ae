package engine

import (
	"fmt"
	"strconv"
	"strings"

	"cryptovault/pkg/cipher"
)

// Direction selects which half of a cipher pair runs.
type Direction int

const (
	Encrypt Direction = iota
	Decrypt
)

func (d Direction) String() string {
	switch d {
	case Encrypt:
		return "encrypt"
	case Decrypt:
		return "decrypt"
	}
	return fmt.Sprintf("direction(%d)", int(d))
}

// ParseDirection accepts "encrypt"/"encode" and "decrypt"/"decode".
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "encrypt", "encode":
		return Encrypt, nil
	case "decrypt", "decode":
		return Decrypt, nil
	}
	return 0, fmt.Errorf("%w: unknown direction %q", ErrInvalidRequest, s)
}

// Request is a validated transformation request.
type Request struct {
	Message string
	Key     int64
	Method  string
}

// DefaultMethod is used when a request leaves the method empty.
const DefaultMethod = cipher.MethodCaesar

// ParseKey reads a base-10 signed integer. Surrounding spaces and a leading
// '+' are tolerated; anything else fails with ErrInvalidKey.
func ParseKey(raw string) (int64, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, fmt.Errorf("%w: key is required", ErrInvalidKey)
	}
	k, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		if ne, ok := err.(*strconv.NumError); ok && ne.Err == strconv.ErrRange {
			return 0, fmt.Errorf("%w: %q is out of range for a 64-bit integer", ErrInvalidKey, raw)
		}
		return 0, fmt.Errorf("%w: %q is not an integer", ErrInvalidKey, raw)
	}
	return k, nil
}

// NewRequest validates raw field values. rawKey is the key as text; method
// may be empty, in which case DefaultMethod is used.
func NewRequest(message, rawKey, method string) (Request, error) {
	key, err := ParseKey(rawKey)
	if err != nil {
		return Request{}, err
	}
	m := cipher.NormalizeMethod(method)
	if m == "" {
		m = DefaultMethod
	}
	return Request{Message: message, Key: key, Method: m}, nil
}
